// Package treasury scrapes the 10-year treasury yield from a quote page.
//
// The page is rendered in a real browser (chromedp), then the yield is
// located in the rendered HTML with a fixed XPath.
package treasury

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/chromedp/chromedp"
	"github.com/etnz/dcfsheet"
	"github.com/shopspring/decimal"
)

const (
	DefaultURL   = "https://finance.yahoo.com/quote/%5ETNX/"
	DefaultXPath = `//*[@id="nimbus-app"]/section/section/section/article/section[1]/div[2]/div[1]/section/div/section/div[1]/fin-streamer[1]`
	DefaultDelay = 5 * time.Second
)

// ErrNotFound is returned when the XPath matches no element.
var ErrNotFound = errors.New("yield element not found")

type options struct {
	url     string
	xpath   string
	delay   time.Duration
	headful bool
	fetch   func(ctx context.Context, url string, delay time.Duration, headful bool) (string, error)
}

// Option configures a Scraper.
type Option func(o options) options

// URL sets the page to load.
func URL(u string) Option {
	return func(o options) options {
		o.url = u
		return o
	}
}

// XPath sets the path of the element holding the yield.
func XPath(x string) Option {
	return func(o options) options {
		o.xpath = x
		return o
	}
}

// Delay sets the time waited after the page has loaded.
func Delay(d time.Duration) Option {
	return func(o options) options {
		o.delay = d
		return o
	}
}

// Headful shows the browser window.
func Headful(h bool) Option {
	return func(o options) options {
		o.headful = h
		return o
	}
}

// Scraper reads the treasury yield. It implements dcfsheet.YieldSource.
type Scraper struct {
	opts options
}

var _ dcfsheet.YieldSource = (*Scraper)(nil)

// New returns a new Scraper.
func New(opts ...Option) *Scraper {
	o := options{
		url:   DefaultURL,
		xpath: DefaultXPath,
		delay: DefaultDelay,
		fetch: renderPage,
	}
	for _, opt := range opts {
		o = opt(o)
	}
	return &Scraper{opts: o}
}

// Yield loads the page and returns the yield as a fraction (4.123% is
// 0.04123).
func (s *Scraper) Yield(ctx context.Context) (decimal.Decimal, error) {
	page, err := s.opts.fetch(ctx, s.opts.url, s.opts.delay, s.opts.headful)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot load %s: %w", s.opts.url, err)
	}
	text, err := Extract(strings.NewReader(page), s.opts.xpath)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return ParsePercent(text)
}

// renderPage loads url in a browser, waits for delay and returns the
// rendered HTML. The browser is closed before returning.
func renderPage(ctx context.Context, url string, delay time.Duration, headful bool) (string, error) {
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !headful),
	)
	actx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()
	bctx, cancel := chromedp.NewContext(
		actx,
		chromedp.WithErrorf(log.Printf),
	)
	defer cancel()

	var page string
	err := chromedp.Run(bctx,
		chromedp.Navigate(url),
		chromedp.Sleep(delay),
		chromedp.OuterHTML("html", &page, chromedp.ByQuery),
	)
	return page, err
}

// Extract returns the text of the first element matching xpath in the HTML
// document.
func Extract(r io.Reader, xpath string) (string, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return "", fmt.Errorf("cannot parse page: %w", err)
	}
	node, err := htmlquery.Query(doc, xpath)
	if err != nil {
		return "", fmt.Errorf("invalid xpath %q: %w", xpath, err)
	}
	if node == nil {
		return "", ErrNotFound
	}
	return htmlquery.InnerText(node), nil
}

// ParsePercent parses a percentage like "4.123" or "4.123%" and returns it
// as a fraction.
func ParsePercent(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid yield %q: %w", text, err)
	}
	return d.Shift(-2), nil
}
