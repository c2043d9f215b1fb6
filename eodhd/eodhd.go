// Package eodhd fetches financial statements and quotes from eodhd.com, an
// alternative to Yahoo Finance that requires an API key.
package eodhd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/dcfsheet"
)

// EnvAPIKey is the environment variable holding the API key.
const EnvAPIKey = "EODHD_API_KEY"

const defaultBaseURL = "https://eodhd.com/api"

type options struct {
	baseURL string
	cache   bool
	dir     string
}

// Option configures a Client.
type Option func(o options) options

// BaseURL sets the API address, mostly useful in tests.
func BaseURL(u string) Option {
	return func(o options) options {
		o.baseURL = u
		return o
	}
}

// Cache enables a disk cache of responses, expiring daily.
func Cache(dir string) Option {
	return func(o options) options {
		o.cache = true
		o.dir = dir
		return o
	}
}

// Client is an eodhd.com client. It implements dcfsheet.Provider.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ dcfsheet.Provider = (*Client)(nil)

// New returns a new Client.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("EODHD API key is not set")
	}
	o := options{baseURL: defaultBaseURL}
	for _, opt := range opts {
		o = opt(o)
	}
	var transport http.RoundTripper = http.DefaultTransport
	if o.cache {
		transport = dcfsheet.NewDailyCache(transport, o.dir, "api_token")
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: o.baseURL,
		client:  &http.Client{Transport: transport, Timeout: 30 * time.Second},
	}, nil
}

// Symbol converts a ticker to the eodhd format "SYMBOL.EXCHANGE". Tickers
// without exchange are assumed to be US ones.
func Symbol(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if !strings.Contains(ticker, ".") {
		ticker += ".US"
	}
	return ticker
}

// Financials retrieves the statements and quote of a ticker: one request for
// the fundamentals and one for the real-time quote.
func (c *Client) Financials(ctx context.Context, ticker string) (*dcfsheet.Financials, error) {
	symbol := Symbol(ticker)

	var fund fundamentals
	if err := c.get(ctx, "fundamentals/"+url.PathEscape(symbol), url.Values{"filter": {"General,Highlights,Technicals,SharesStats,Financials"}}, &fund); err != nil {
		return nil, fmt.Errorf("cannot fetch fundamentals of %s: %w", symbol, err)
	}
	var rt map[string]json.RawMessage
	if err := c.get(ctx, "real-time/"+url.PathEscape(symbol), nil, &rt); err != nil {
		return nil, fmt.Errorf("cannot fetch quote of %s: %w", symbol, err)
	}

	f, err := fund.financials()
	if err != nil {
		return nil, fmt.Errorf("invalid fundamentals of %s: %w", symbol, err)
	}
	f.Quote.Set(dcfsheet.Open, number(rt["open"]))
	return f, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, data any) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("fmt", "json")
	q.Set("api_token", c.apiKey)
	addr := fmt.Sprintf("%s/%s?%s", c.baseURL, path, q.Encode())
	return dcfsheet.GetJSON(ctx, c.client, addr, nil, data)
}
