// Package config loads SDK and CLI configuration from environment variables
// and an optional .env/config file via Viper. Env vars take priority.
package config

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config groups the application configuration.
type Config struct {
	App   AppConfig
	OAuth OAuthConfig
	ANAF  ANAFConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// OAuthConfig holds the ANAF OAuth2 client registration. ClientID and
// ClientSecret are issued by ANAF when the application is registered in SPV.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	RefreshToken string // optional: lets the CLI skip the interactive login
}

// ANAFConfig holds the e-Factura API settings.
type ANAFConfig struct {
	Environment    string // "test" (sandbox) or "prod"
	CIF            string // default taxpayer identifier used by the CLI
	TimeoutSeconds int    // outbound HTTP timeout
}

// Load reads configuration from env vars (EFACTURA_* names) and optionally
// from a .env or config file in the working directory.
func Load() (*Config, error) {
	v := viper.New()

	// Optional config files: .env then config.env; missing files are fine.
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "EFACTURA_ENV", "development"),
			Name:     getString(v, "EFACTURA_APP_NAME", "efactura-go"),
			LogLevel: getString(v, "EFACTURA_LOG_LEVEL", "info"),
		},
		OAuth: OAuthConfig{
			ClientID:     getString(v, "EFACTURA_CLIENT_ID", ""),
			ClientSecret: getString(v, "EFACTURA_CLIENT_SECRET", ""),
			RedirectURL:  getString(v, "EFACTURA_REDIRECT_URL", "http://localhost:8989/callback"),
			RefreshToken: getString(v, "EFACTURA_REFRESH_TOKEN", ""),
		},
		ANAF: ANAFConfig{
			Environment:    getString(v, "EFACTURA_API_ENV", "test"),
			CIF:            getString(v, "EFACTURA_CIF", ""),
			TimeoutSeconds: getInt(v, "EFACTURA_HTTP_TIMEOUT", 60),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			if n, err := strconv.Atoi(v.GetString(key)); err == nil {
				return n
			}
		}
	}
	return def
}
