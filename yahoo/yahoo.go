// Package yahoo fetches financial statements and quote information from
// Yahoo Finance.
//
// Statements come from the fundamentals time series API, which lists the
// annual values of each requested line item. Quote information comes from
// the quote summary API which requires a session cookie and a "crumb" token.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/etnz/dcfsheet"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	defaultQuery1 = "https://query1.finance.yahoo.com"
	defaultQuery2 = "https://query2.finance.yahoo.com"
	defaultCookie = "https://fc.yahoo.com"
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

type options struct {
	query1      string
	query2      string
	cookieURL   string
	rateLimiter *rate.Limiter
	cache       bool
	cacheDir    string
	timeout     time.Duration
	transport   http.RoundTripper
}

// Option configures a Client.
type Option func(o options) options

// BaseURL sets the address used for every API (statements, quotes, crumb),
// mostly useful in tests.
func BaseURL(u string) Option {
	return func(o options) options {
		o.query1, o.query2 = u, u
		return o
	}
}

// CookieURL sets the page visited to obtain the session cookie.
func CookieURL(u string) Option {
	return func(o options) options {
		o.cookieURL = u
		return o
	}
}

// RateLimiter sets the limiter applied to every request.
func RateLimiter(l *rate.Limiter) Option {
	return func(o options) options {
		o.rateLimiter = l
		return o
	}
}

// Cache enables a disk cache of statements and quotes, expiring daily.
// dir defaults to the system temporary directory. A run served from the
// cache makes no request at all, not even for the session.
func Cache(dir string) Option {
	return func(o options) options {
		o.cache = true
		o.cacheDir = dir
		return o
	}
}

// Timeout sets the http client timeout.
func Timeout(d time.Duration) Option {
	return func(o options) options {
		o.timeout = d
		return o
	}
}

// Transport sets the base http transport.
func Transport(t http.RoundTripper) Option {
	return func(o options) options {
		o.transport = t
		return o
	}
}

var defaultOptions = options{
	query1:      defaultQuery1,
	query2:      defaultQuery2,
	cookieURL:   defaultCookie,
	rateLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	timeout:     30 * time.Second,
}

// Client is a Yahoo Finance client. It implements dcfsheet.Provider.
type Client struct {
	opts    options
	jar     http.CookieJar
	session *http.Client // cookie and crumb requests, never cached
	data    *http.Client // statements
	quotes  *http.Client // quotes, the crumb is added below the cache
	header  http.Header

	mu    sync.Mutex
	crumb string
}

var _ dcfsheet.Provider = (*Client)(nil)

// New returns a new Client.
func New(opts ...Option) *Client {
	o := defaultOptions
	for _, opt := range opts {
		o = opt(o)
	}
	base := o.transport
	if base == nil {
		base = http.DefaultTransport
	}
	limited := dcfsheet.NewRateLimited(base, o.rateLimiter)

	// the error is always nil
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	c := &Client{
		opts:    o,
		jar:     jar,
		session: &http.Client{Jar: jar, Transport: limited, Timeout: o.timeout},
		header:  http.Header{"User-Agent": {userAgent}},
	}
	var data, quotes http.RoundTripper = limited, &crumbed{base: limited, c: c}
	if o.cache {
		data = dcfsheet.NewDailyCache(data, o.cacheDir)
		quotes = dcfsheet.NewDailyCache(quotes, o.cacheDir)
	}
	c.data = &http.Client{Transport: data, Timeout: o.timeout}
	c.quotes = &http.Client{Transport: quotes, Timeout: o.timeout}
	return c
}

// Financials retrieves the income statement, balance sheet, cash flow
// statement and quote information of a ticker, one request each.
func (c *Client) Financials(ctx context.Context, ticker string) (*dcfsheet.Financials, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	var errs error

	income, err := c.Statement(ctx, ticker, IncomeStatement)
	errs = errors.Join(errs, err)
	balance, err := c.Statement(ctx, ticker, BalanceSheet)
	errs = errors.Join(errs, err)
	cashFlow, err := c.Statement(ctx, ticker, CashFlow)
	errs = errors.Join(errs, err)
	quote, err := c.Quote(ctx, ticker)
	errs = errors.Join(errs, err)

	if errs != nil {
		return nil, errs
	}
	return &dcfsheet.Financials{
		Income:   income,
		Balance:  balance,
		CashFlow: cashFlow,
		Quote:    quote,
	}, nil
}

// getCrumb returns the session crumb, fetching it on first use.
func (c *Client) getCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb != "" {
		return c.crumb, nil
	}

	// The cookie page answers 404, only its Set-Cookie header matters.
	if req, err := c.newRequest(ctx, c.opts.cookieURL); err == nil {
		if resp, err := c.session.Do(req); err != nil {
			log.Printf("cannot get yahoo session cookie (ignored): %v", err)
		} else {
			resp.Body.Close()
		}
	}

	req, err := c.newRequest(ctx, c.opts.query1+"/v1/test/getcrumb")
	if err != nil {
		return "", err
	}
	resp, err := c.session.Do(req)
	if err != nil {
		return "", fmt.Errorf("cannot get yahoo crumb: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cannot read yahoo crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if resp.StatusCode != http.StatusOK || crumb == "" || strings.ContainsAny(crumb, "<{ ") {
		return "", fmt.Errorf("cannot get yahoo crumb: %s", resp.Status)
	}
	c.crumb = crumb
	return crumb, nil
}

// crumbed adds the session cookie and crumb to the requests. Being below the
// cache, a cached quote is served without any session.
type crumbed struct {
	base http.RoundTripper
	c    *Client
}

func (t *crumbed) RoundTrip(req *http.Request) (*http.Response, error) {
	crumb, err := t.c.getCrumb(req.Context())
	if err != nil {
		return nil, err
	}
	req = req.Clone(req.Context())
	q := req.URL.Query()
	q.Set("crumb", crumb)
	req.URL.RawQuery = q.Encode()
	for _, ck := range t.c.jar.Cookies(req.URL) {
		req.AddCookie(ck)
	}
	return t.base.RoundTrip(req)
}

func (c *Client) newRequest(ctx context.Context, addr string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request %q: %w", addr, err)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	return req, nil
}
