package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/dcfsheet"
	"github.com/shopspring/decimal"
)

const quoteModules = "summaryDetail,defaultKeyStatistics,price"

// quotePaths lists, for each quote field, where to look in the quote summary.
// The first path with a value wins.
var quotePaths = map[string][]string{
	dcfsheet.Beta: {
		"$.quoteSummary.result[0].summaryDetail.beta.raw",
		"$.quoteSummary.result[0].defaultKeyStatistics.beta.raw",
	},
	dcfsheet.MarketCap: {
		"$.quoteSummary.result[0].summaryDetail.marketCap.raw",
		"$.quoteSummary.result[0].price.marketCap.raw",
	},
	dcfsheet.SharesOutstanding: {
		"$.quoteSummary.result[0].defaultKeyStatistics.sharesOutstanding.raw",
	},
	dcfsheet.Open: {
		"$.quoteSummary.result[0].summaryDetail.open.raw",
		"$.quoteSummary.result[0].price.regularMarketOpen.raw",
	},
}

const currencyPath = "$.quoteSummary.result[0].price.currency"

// Quote fetches the quote information of the ticker. The session crumb is
// fetched on first use.
func (c *Client) Quote(ctx context.Context, ticker string) (dcfsheet.Quote, error) {
	q := url.Values{}
	q.Set("modules", quoteModules)
	addr := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.opts.query1, url.PathEscape(ticker), q.Encode())

	var jobj any
	if err := dcfsheet.GetJSON(ctx, c.quotes, addr, c.header, &jobj); err != nil {
		return dcfsheet.Quote{}, fmt.Errorf("cannot fetch quote of %s: %w", ticker, err)
	}
	if msg, ok := summaryError(jobj); ok {
		return dcfsheet.Quote{}, fmt.Errorf("cannot fetch quote of %s: %s", ticker, msg)
	}
	return parseQuote(jobj), nil
}

// summaryError returns the error description embedded in the payload, if any.
func summaryError(jobj any) (string, bool) {
	v, err := jsonpath.Get("$.quoteSummary.error.description", jobj)
	if err != nil {
		return "", false
	}
	msg, ok := v.(string)
	return msg, ok && msg != ""
}

// parseQuote extracts the quote fields of a decoded quote summary. Fields not
// found are absent.
func parseQuote(jobj any) dcfsheet.Quote {
	var q dcfsheet.Quote
	for key, paths := range quotePaths {
		q.Set(key, lookup(jobj, paths...))
	}
	if v, err := jsonpath.Get(currencyPath, jobj); err == nil {
		q.Currency, _ = first(v).(string)
	}
	return q
}

// lookup returns the first numeric value found at paths.
func lookup(jobj any, paths ...string) decimal.NullDecimal {
	for _, path := range paths {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue // unknown key
		}
		if d, ok := toDecimal(first(jval)); ok {
			return dcfsheet.Present(d)
		}
	}
	return dcfsheet.Absent
}

// first keeps the first answer when jsonpath returns a list.
func first(jval any) any {
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		return jlist[0]
	}
	return jval
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch v := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(v), true
	default:
		return decimal.Decimal{}, false
	}
}
