package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/facturis/efactura-go/pkg/efactura"
)

var loginTimeout time.Duration

// loginCmd runs the interactive OAuth flow: it prints the authorization URL,
// waits for ANAF to redirect the browser to the local callback listener,
// exchanges the code and prints the resulting token JSON. The refresh token
// from the output goes into EFACTURA_REFRESH_TOKEN for later runs.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Obtain an OAuth2 token interactively",
	RunE: func(c *cobra.Command, args []string) error {
		if cfg.OAuth.ClientID == "" || cfg.OAuth.ClientSecret == "" {
			return fmt.Errorf("EFACTURA_CLIENT_ID and EFACTURA_CLIENT_SECRET must be set")
		}
		redirect, err := url.Parse(cfg.OAuth.RedirectURL)
		if err != nil || redirect.Host == "" {
			return fmt.Errorf("invalid redirect url %q", cfg.OAuth.RedirectURL)
		}

		oc := efactura.OAuthConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
		}
		state := uuid.NewString()

		type callback struct {
			code string
			err  error
		}
		results := make(chan callback, 1)

		callbackPath := redirect.Path
		if callbackPath == "" {
			callbackPath = "/"
		}
		app := fiber.New(fiber.Config{DisableStartupMessage: true})
		app.Get(callbackPath, func(fc *fiber.Ctx) error {
			if fc.Query("state") != state {
				results <- callback{err: fmt.Errorf("state mismatch on oauth callback")}
				return fc.Status(fiber.StatusBadRequest).SendString("state mismatch")
			}
			if msg := fc.Query("error"); msg != "" {
				results <- callback{err: fmt.Errorf("authorization refused: %s", msg)}
				return fc.SendString("authorization refused; you can close this window")
			}
			results <- callback{code: fc.Query("code")}
			return fc.SendString("authorization received; you can close this window")
		})

		go func() {
			if err := app.Listen(redirect.Host); err != nil {
				results <- callback{err: fmt.Errorf("callback listener: %w", err)}
			}
		}()
		defer func() { _ = app.Shutdown() }()

		fmt.Fprintln(c.OutOrStdout(), "Open this URL in a browser with your ANAF certificate enrolled:")
		fmt.Fprintln(c.OutOrStdout(), oc.AuthCodeURL(state))

		var cb callback
		select {
		case cb = <-results:
		case <-time.After(loginTimeout):
			return fmt.Errorf("timed out waiting for the oauth callback")
		case <-c.Context().Done():
			return c.Context().Err()
		}
		if cb.err != nil {
			return cb.err
		}

		token, err := oc.Exchange(c.Context(), cb.code)
		if err != nil {
			return err
		}
		log.Info().Time("expiry", token.Expiry).Msg("token obtained")

		enc := json.NewEncoder(c.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(token)
	},
}

func init() {
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", 5*time.Minute, "how long to wait for the browser callback")
	rootCmd.AddCommand(loginCmd)
}
