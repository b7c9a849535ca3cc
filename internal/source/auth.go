package source

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/clockstorm/internal/logger"
)

// AuthConfig describes the OAuth2 device-code client for the timesheet API.
// When the endpoint URLs are empty they are derived from TenantID.
type AuthConfig struct {
	TenantID      string
	ClientID      string
	DeviceAuthURL string
	TokenURL      string
	Scopes        []string
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// OAuth2 returns the oauth2.Config for c.
func (c AuthConfig) OAuth2() *oauth2.Config {
	deviceURL, tokenURL := c.DeviceAuthURL, c.TokenURL
	if deviceURL == "" && c.TenantID != "" {
		deviceURL = msEndpoint(c.TenantID, "devicecode")
	}
	if tokenURL == "" && c.TenantID != "" {
		tokenURL = msEndpoint(c.TenantID, "token")
	}
	return &oauth2.Config{
		ClientID: c.ClientID,
		Scopes:   c.Scopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: deviceURL,
			TokenURL:      tokenURL,
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// Authenticate returns a token source backed by the stored token. An expired
// token is refreshed; without a usable token the device code flow runs and
// its prompt is written to prompt.
func Authenticate(ctx context.Context, c AuthConfig, store TokenStore, prompt io.Writer) (oauth2.TokenSource, error) {
	cfg := c.OAuth2()
	if cfg.Endpoint.TokenURL == "" {
		return nil, ErrNotConfigured
	}

	tok, err := store.Load()
	if err != nil {
		logger.Warn("ignoring stored token", "err", err)
		tok = nil
	}

	if tok != nil && tok.Valid() {
		return savingTokenSource(ctx, cfg, tok, store), nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := store.Save(refreshed); err != nil {
				logger.Warn("could not save refreshed token", "err", err)
			}
			return savingTokenSource(ctx, cfg, refreshed, store), nil
		}
		logger.Info("token refresh failed, re-authenticating", "err", err)
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Fprintln(prompt)
	fmt.Fprintln(prompt, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(prompt, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(prompt, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(prompt)

	newTok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device authentication failed: %w", err)
	}
	if err := store.Save(newTok); err != nil {
		logger.Warn("could not save token", "err", err)
	}
	return savingTokenSource(ctx, cfg, newTok, store), nil
}

// tokenSaver persists every token handed out by the wrapped source, so
// refreshes performed mid-request survive a restart.
type tokenSaver struct {
	ts    oauth2.TokenSource
	store TokenStore
	last  string
}

func savingTokenSource(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, store TokenStore) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(tok, &tokenSaver{ts: cfg.TokenSource(ctx, tok), store: store, last: tok.AccessToken})
}

func (s *tokenSaver) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.store.Save(tok); err != nil {
			logger.Warn("could not save refreshed token", "err", err)
		}
	}
	return tok, nil
}
