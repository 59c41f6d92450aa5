package cmd

import (
	"github.com/spf13/cobra"

	"github.com/facturis/efactura-go/pkg/config"
	"github.com/facturis/efactura-go/pkg/efactura"
	"github.com/facturis/efactura-go/pkg/logger"
)

var (
	version = "1.0.0"

	// Global flags; config/env values fill anything left unset.
	apiEnv  string
	cifFlag string
	verbose bool

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "efactura",
	Short: "Generate and exchange invoices with the ANAF e-Factura system",
	Long: `efactura is a CLI for the Romanian e-Factura system.

It generates CIUS-RO UBL invoices from structured JSON input, uploads them,
tracks their processing state, downloads the signed result and queries the
public VAT registry.

Examples:
  # Generate a UBL invoice from a JSON description
  efactura generate invoice.json -o invoice.xml

  # Upload it for taxpayer 12345678
  efactura upload invoice.xml --cif 12345678

  # Poll the processing state and download the result
  efactura status 5001234
  efactura download 987654 -o raspuns.zip

  # Look up a company in the VAT registry
  efactura company RO12345678`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiEnv, "env", "", "API environment: test or prod (env: EFACTURA_API_ENV)")
	rootCmd.PersistentFlags().StringVar(&cifFlag, "cif", "", "taxpayer CIF (env: EFACTURA_CIF)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		cfg = &config.Config{}
	}
	level := cfg.App.LogLevel
	if verbose {
		level = "debug"
	}
	log = logger.New(logger.Config{Env: cfg.App.Env, Level: level})

	if apiEnv == "" {
		apiEnv = cfg.ANAF.Environment
	}
	if cifFlag == "" {
		cifFlag = cfg.ANAF.CIF
	}
}

// newClient builds the API client with the configured token source. Commands
// that hit authenticated endpoints call this; public endpoints work with a
// nil-token client too.
func newClient(c *cobra.Command) (*efactura.Client, error) {
	var tokens efactura.TokenSource
	if cfg.OAuth.RefreshToken != "" {
		oc := efactura.OAuthConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
		}
		tokens = oc.TokenFromRefreshToken(c.Context(), cfg.OAuth.RefreshToken, log.Zerolog())
	}
	return efactura.NewClient(apiEnv, tokens, efactura.WithLogger(log.Zerolog()))
}
