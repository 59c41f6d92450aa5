// Package efactura is a client for the ANAF e-Factura REST API: document
// upload, processing state, message listing, download, remote validation and
// XML-to-PDF conversion, plus the public VAT registry lookup.
//
// Authentication is delegated to a TokenSource; see oauth.go for the
// logincert.anaf.ro implementation.
package efactura

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Environment identifiers for the e-Factura API.
const (
	// EnvTest is the ANAF sandbox environment.
	EnvTest = "test"
	// EnvProd is the ANAF production environment.
	EnvProd = "prod"

	apiBaseTest = "https://api.anaf.ro/test/FCTEL/rest"
	apiBaseProd = "https://api.anaf.ro/prod/FCTEL/rest"

	// The validation/transformation endpoints are public (no OAuth) and live
	// on a separate host.
	publicBaseURL  = "https://webservicesp.anaf.ro/prod/FCTEL/rest"
	vatRegistryURL = "https://webservicesp.anaf.ro/PlatitorTvaRest/api/v9/ws/tva"

	// maxResponseBytes caps API response reads (downloads excepted).
	maxResponseBytes = 1 << 20
	// maxDownloadBytes caps the invoice ZIP download.
	maxDownloadBytes = 64 << 20
)

// ErrAPI wraps every failure reported by the remote API.
var ErrAPI = errors.New("anaf api error")

// TokenSource supplies the OAuth2 bearer token for authenticated calls.
// Implementations must refresh expired tokens themselves.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token, useful for tests and
// short-lived scripts.
type StaticToken string

// AccessToken returns the fixed token.
func (t StaticToken) AccessToken(context.Context) (string, error) { return string(t), nil }

// Client calls the ANAF e-Factura API. The zero value is not usable; build
// it with NewClient.
type Client struct {
	baseURL     string
	publicURL   string
	registryURL string
	httpClient  *http.Client
	tokens      TokenSource
	log         zerolog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a structured logger; the default logger is disabled.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithBaseURL overrides the API base URL. Intended for tests against a local
// stub server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithPublicBaseURL overrides the public validation/transformation base URL.
func WithPublicBaseURL(u string) Option {
	return func(c *Client) { c.publicURL = u }
}

// WithRegistryURL overrides the VAT registry endpoint.
func WithRegistryURL(u string) Option {
	return func(c *Client) { c.registryURL = u }
}

// NewClient builds a client for the given environment ("test" or "prod").
// The default timeout is generous (60 s): the ANAF endpoints routinely take
// several seconds to answer.
func NewClient(env string, tokens TokenSource, opts ...Option) (*Client, error) {
	var base string
	switch env {
	case EnvTest:
		base = apiBaseTest
	case EnvProd:
		base = apiBaseProd
	default:
		return nil, fmt.Errorf("%w: unknown environment %q (use %q or %q)", ErrAPI, env, EnvTest, EnvProd)
	}
	c := &Client{
		baseURL:     base,
		publicURL:   publicBaseURL,
		registryURL: vatRegistryURL,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		tokens:      tokens,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do executes an authenticated request and returns the response body,
// limited to maxBytes. Non-2xx statuses become ErrAPI with the body excerpt
// attached.
func (c *Client) do(ctx context.Context, method, url, contentType string, body io.Reader, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("obtain access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled or timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("http call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("anaf api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrAPI, resp.StatusCode, excerpt(raw))
	}
	return raw, nil
}

// excerpt trims a response body for error messages.
func excerpt(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
