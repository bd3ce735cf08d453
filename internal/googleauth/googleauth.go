// Package googleauth loads installed-app OAuth credentials for the Google
// API tools. Each scope set keeps its own token cache file so Gmail and
// Calendar consents stay independent.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Client returns an authenticated HTTP client for the given scopes.
// Credentials come from the OAuth client secrets file; the token cache is
// read from tokenPath and created through an interactive consent flow when
// missing. Refreshing expired tokens is handled by the oauth2 transport.
func Client(ctx context.Context, credsPath, tokenPath string, scopes ...string) (*http.Client, error) {
	secrets, err := os.ReadFile(credsPath)
	if err != nil {
		return nil, fmt.Errorf("googleauth: read client secrets: %w", err)
	}
	cfg, err := google.ConfigFromJSON(secrets, scopes...)
	if err != nil {
		return nil, fmt.Errorf("googleauth: parse client secrets: %w", err)
	}

	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		tok, err = tokenFromConsent(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenPath, tok); err != nil {
			return nil, err
		}
	}
	return cfg.Client(ctx, tok), nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("googleauth: parse token cache: %w", err)
	}
	return tok, nil
}

// tokenFromConsent walks the operator through the consent flow on the
// terminal. This runs once per scope set; afterwards the cached token is
// refreshed silently.
func tokenFromConsent(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%v\n", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("googleauth: read authorization code: %w", err)
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("googleauth: exchange authorization code: %w", err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("googleauth: create token cache: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("googleauth: write token cache: %w", err)
	}
	return nil
}
