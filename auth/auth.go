// Package auth obtains the OAuth2 token used to access Google Sheets.
//
// The token is stored in a JSON file. An expired token is refreshed, a
// missing one is obtained through an interactive authorization, and the
// result is always saved back before being used.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scope grants read and write access to spreadsheets.
const Scope = "https://www.googleapis.com/auth/spreadsheets"

// ConfigFromFile reads an OAuth2 client secrets file, as downloaded from the
// Google Cloud console.
func ConfigFromFile(name string) (*oauth2.Config, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read credentials file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials file %s: %w", name, err)
	}
	return cfg, nil
}

// ReadToken reads a token file. It returns an error wrapping fs.ErrNotExist
// if the file does not exist.
func ReadToken(name string) (*oauth2.Token, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	tok := new(oauth2.Token)
	if err := json.Unmarshal(b, tok); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", name, err)
	}
	return tok, nil
}

// SaveToken writes the token file, readable by the owner only.
func SaveToken(name string, tok *oauth2.Token) error {
	b, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(name, b, 0600); err != nil {
		return fmt.Errorf("cannot save token: %w", err)
	}
	return nil
}

// Authorizer runs an interactive authorization and returns the new token.
type Authorizer interface {
	Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// Loader provides a valid token.
type Loader struct {
	Config     *oauth2.Config
	TokenFile  string
	Authorizer Authorizer
}

// Token returns a valid token, refreshing it or authorizing a new one as
// needed. Any new token is saved in TokenFile before Token returns.
func (l *Loader) Token(ctx context.Context) (*oauth2.Token, error) {
	tok, err := ReadToken(l.TokenFile)
	switch {
	case err == nil && tok.Valid():
		return tok, nil

	case err == nil && tok.RefreshToken != "":
		tok, err = l.Config.TokenSource(ctx, tok).Token()
		if err != nil {
			return nil, fmt.Errorf("cannot refresh token: %w", err)
		}

	case err == nil || errors.Is(err, fs.ErrNotExist):
		if l.Authorizer == nil {
			return nil, errors.New("no valid token, authorization required")
		}
		tok, err = l.Authorizer.Authorize(ctx, l.Config)
		if err != nil {
			return nil, fmt.Errorf("authorization failed: %w", err)
		}

	default:
		return nil, err
	}

	if err := SaveToken(l.TokenFile, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// Client returns an http client authenticated with a valid token.
func (l *Loader) Client(ctx context.Context) (*http.Client, error) {
	tok, err := l.Token(ctx)
	if err != nil {
		return nil, err
	}
	return l.Config.Client(ctx, tok), nil
}
