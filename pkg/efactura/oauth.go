package efactura

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// OAuth endpoints of the ANAF identity provider. The authorize step requires
// the taxpayer's qualified certificate in the browser; the SDK only handles
// the code exchange and refresh.
const (
	AuthorizeURL = "https://logincert.anaf.ro/anaf-oauth2/v1/authorize"
	TokenURL     = "https://logincert.anaf.ro/anaf-oauth2/v1/token"
)

// OAuthConfig describes an application registered with ANAF SPV.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// oauth2Config builds the x/oauth2 configuration for the ANAF endpoints.
func (c OAuthConfig) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   AuthorizeURL,
			TokenURL:  TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// AuthCodeURL returns the browser URL that starts the authorization flow.
// The state value must be verified on the callback.
func (c OAuthConfig) AuthCodeURL(state string) string {
	return c.oauth2Config().AuthCodeURL(state, oauth2.SetAuthURLParam("token_content_type", "jwt"))
}

// Exchange trades an authorization code for a token.
func (c OAuthConfig) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := c.oauth2Config().Exchange(ctx, code,
		oauth2.SetAuthURLParam("token_content_type", "jwt"))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

// OAuthTokenSource is a TokenSource backed by x/oauth2 auto-refresh. Safe
// for concurrent use.
type OAuthTokenSource struct {
	mu  sync.Mutex
	src oauth2.TokenSource
	log zerolog.Logger
}

// NewTokenSource builds a refreshing token source from a previously obtained
// token (typically restored from the stored refresh token).
func (c OAuthConfig) NewTokenSource(ctx context.Context, tok *oauth2.Token, log zerolog.Logger) *OAuthTokenSource {
	return &OAuthTokenSource{
		src: c.oauth2Config().TokenSource(ctx, tok),
		log: log,
	}
}

// TokenFromRefreshToken builds a refreshing token source when only the
// refresh token survived (the usual case for CLI runs).
func (c OAuthConfig) TokenFromRefreshToken(ctx context.Context, refreshToken string, log zerolog.Logger) *OAuthTokenSource {
	return c.NewTokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}, log)
}

// AccessToken returns a valid bearer token, refreshing it when expired.
func (t *OAuthTokenSource) AccessToken(context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tok, err := t.src.Token()
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	if exp, ok := tokenExpiry(tok.AccessToken); ok {
		t.log.Debug().Time("expires_at", exp).Msg("oauth token in use")
	}
	return tok.AccessToken, nil
}

// tokenExpiry reads the exp claim of the JWT access token without verifying
// the signature; only used for logging and cache heuristics, never for
// authorization decisions.
func tokenExpiry(accessToken string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
