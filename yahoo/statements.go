package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/dcfsheet"
	"github.com/shopspring/decimal"
)

// Kind identifies one of the financial statements.
type Kind int

const (
	IncomeStatement Kind = iota
	BalanceSheet
	CashFlow
)

func (k Kind) String() string {
	switch k {
	case IncomeStatement:
		return "income statement"
	case BalanceSheet:
		return "balance sheet"
	case CashFlow:
		return "cash flow"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// items maps each statement to the time series types requested, and the
// line item name they are stored under.
var items = map[Kind]map[string]string{
	IncomeStatement: {
		"annualInterestExpense": dcfsheet.InterestExpense,
		"annualTaxProvision":    dcfsheet.TaxProvision,
		"annualPretaxIncome":    dcfsheet.PretaxIncome,
	},
	BalanceSheet: {
		"annualTotalDebt": dcfsheet.TotalDebt,
	},
	CashFlow: {
		"annualFreeCashFlow": dcfsheet.FreeCashFlow,
	},
}

// Types returns the time series types requested for a statement, sorted.
func (k Kind) Types() []string {
	return slices.Sorted(maps.Keys(items[k]))
}

// timeseriesResponse is the fundamentals time series payload. Each result
// holds one type, stored under a key named after the type itself.
type timeseriesResponse struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"timeseries"`
}

type timeseriesMeta struct {
	Type []string `json:"type"`
}

type timeseriesEntry struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue *struct {
		Raw decimal.Decimal `json:"raw"`
	} `json:"reportedValue"`
}

// history goes back far enough to always include four annual periods.
const history = 10 * 365 * 24 * time.Hour

// Statement fetches a financial statement of the ticker.
//
// Line items that Yahoo does not report are missing from the statement,
// periods listed without a value are recorded as absent.
func (c *Client) Statement(ctx context.Context, ticker string, kind Kind) (dcfsheet.Statement, error) {
	// day resolution keeps the URL stable for the cache
	end := time.Now().Truncate(24 * time.Hour)
	q := url.Values{}
	q.Set("symbol", ticker)
	q.Set("type", strings.Join(kind.Types(), ","))
	q.Set("period1", strconv.FormatInt(end.Add(-history).Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Add(24*time.Hour).Unix(), 10))
	addr := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?%s", c.opts.query2, url.PathEscape(ticker), q.Encode())

	var resp timeseriesResponse
	if err := dcfsheet.GetJSON(ctx, c.data, addr, c.header, &resp); err != nil {
		return nil, fmt.Errorf("cannot fetch %s of %s: %w", kind, ticker, err)
	}
	if e := resp.Timeseries.Error; e != nil {
		return nil, fmt.Errorf("cannot fetch %s of %s: %s: %s", kind, ticker, e.Code, e.Description)
	}
	st, err := parseTimeseries(resp, items[kind])
	if err != nil {
		return nil, fmt.Errorf("cannot read %s of %s: %w", kind, ticker, err)
	}
	return st, nil
}

// parseTimeseries converts the results into a statement, names maps the
// time series types to line item names.
func parseTimeseries(resp timeseriesResponse, names map[string]string) (dcfsheet.Statement, error) {
	st := make(dcfsheet.Statement)
	for _, result := range resp.Timeseries.Result {
		var meta timeseriesMeta
		if raw, ok := result["meta"]; ok {
			if err := json.Unmarshal(raw, &meta); err != nil {
				return nil, fmt.Errorf("invalid meta: %w", err)
			}
		}
		if len(meta.Type) == 0 {
			continue
		}
		typ := meta.Type[0]
		item, ok := names[typ]
		if !ok {
			continue
		}
		raw, ok := result[typ]
		if !ok {
			// type known by yahoo, but nothing reported
			continue
		}
		var entries []*timeseriesEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("invalid %s values: %w", typ, err)
		}
		for _, e := range entries {
			if e == nil || e.AsOfDate == "" {
				continue
			}
			end, err := time.Parse(time.DateOnly, e.AsOfDate)
			if err != nil {
				return nil, fmt.Errorf("invalid %s date %q: %w", typ, e.AsOfDate, err)
			}
			value := dcfsheet.Absent
			if e.ReportedValue != nil {
				value = dcfsheet.Present(e.ReportedValue.Raw)
			}
			st.Add(item, end, value)
		}
	}
	return st, nil
}
