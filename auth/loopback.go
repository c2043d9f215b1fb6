package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"

	"golang.org/x/oauth2"
)

// Loopback authorizes through the browser: the user opens the consent page,
// and Google redirects to a local server receiving the authorization code.
type Loopback struct {
	Out  io.Writer              // receives the instructions, os.Stderr if nil
	Open func(url string) error // optionally opens the consent page
}

type callback struct {
	code string
	err  error
}

// replaced in tests
var (
	randRead = rand.Read
	listen   = net.Listen
)

// Authorize implements Authorizer.
func (l Loopback) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	state, err := newState()
	if err != nil {
		return nil, err
	}
	ln, err := listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("cannot listen for the authorization code: %w", err)
	}
	c := *cfg
	c.RedirectURL = "http://" + ln.Addr().String() + "/"

	done := make(chan callback, 1)
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var cb callback
		switch {
		case q.Get("state") != state:
			http.Error(w, "invalid state", http.StatusBadRequest)
			return // not ours, keep waiting
		case q.Get("error") != "":
			cb.err = fmt.Errorf("access denied: %s", q.Get("error"))
		case q.Get("code") == "":
			cb.err = errors.New("missing authorization code")
		default:
			cb.code = q.Get("code")
		}
		if cb.err != nil {
			http.Error(w, cb.err.Error(), http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "The authentication flow has completed. You may close this window.")
		}
		select {
		case done <- cb:
		default:
		}
	})}
	go srv.Serve(ln)
	defer srv.Close() // closes ln

	authURL := c.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	out := l.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "Please visit this URL to authorize this application:\n\n%s\n\n", authURL)
	if l.Open != nil {
		if err := l.Open(authURL); err != nil {
			fmt.Fprintf(out, "cannot open the browser: %v\n", err)
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case cb := <-done:
		if cb.err != nil {
			return nil, cb.err
		}
		tok, err := c.Exchange(ctx, cb.code)
		if err != nil {
			return nil, fmt.Errorf("cannot exchange authorization code: %w", err)
		}
		return tok, nil
	}
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("cannot generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
