package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/dcfsheet"
	"github.com/shopspring/decimal"
)

func TestValue_String(t *testing.T) {
	d := func(s string) decimal.NullDecimal { return dcfsheet.Present(decimal.RequireFromString(s)) }
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"absent", Value{Kind: dcfsheet.Amount, Currency: "USD"}, "n/a"},
		{"usd", Value{Kind: dcfsheet.Amount, Currency: "USD", Number: d("2645000000")}, "$2,645,000,000.00"},
		{"negative", Value{Kind: dcfsheet.Amount, Currency: "USD", Number: d("-1234.5")}, "-$1,234.50"},
		{"rounded", Value{Kind: dcfsheet.Amount, Currency: "USD", Number: d("189.499")}, "$189.50"},
		{"no currency", Value{Kind: dcfsheet.Amount, Number: d("1000")}, "1,000.00"},
		{"unknown currency", Value{Kind: dcfsheet.Amount, Currency: "XYZ", Number: d("1000")}, "1,000.00 XYZ"},
		{"percent", Value{Kind: dcfsheet.Percent, Number: d("0.04123")}, "4.123%"},
		{"ratio", Value{Kind: dcfsheet.Ratio, Number: d("1.24")}, "1.24"},
		{"count", Value{Kind: dcfsheet.Count, Number: d("15204100000")}, "15,204,100,000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewSnapshot(t *testing.T) {
	income := make(dcfsheet.Statement)
	income.Add(dcfsheet.InterestExpense, time.Date(2024, 9, 28, 0, 0, 0, 0, time.UTC), dcfsheet.PresentInt(1000))
	f := &dcfsheet.Financials{
		Income:   income,
		Balance:  dcfsheet.Statement{},
		CashFlow: dcfsheet.Statement{},
		Quote:    dcfsheet.Quote{Currency: "USD"},
	}
	s := NewSnapshot(dcfsheet.NewSnapshot("AAPL", f, dcfsheet.Absent), dcfsheet.DefaultLayout)

	if len(s.Metrics) != len(dcfsheet.DefaultLayout) {
		t.Fatalf("got %d metrics, want %d", len(s.Metrics), len(dcfsheet.DefaultLayout))
	}
	if got := s.Metrics[0].Value.String(); got != "$1,000.00" {
		t.Errorf("first metric = %q, want $1,000.00", got)
	}
	// everything but the interest expense is missing
	if len(s.Missing) != len(dcfsheet.DefaultLayout)-1 {
		t.Errorf("got %d missing metrics, want %d: %v", len(s.Missing), len(dcfsheet.DefaultLayout)-1, s.Missing)
	}

	md := RenderSnapshot(s)
	if !strings.HasPrefix(md, "# AAPL (USD)\n") {
		t.Errorf("RenderSnapshot() = %q, want the ticker as title", md)
	}
	if !strings.Contains(md, "| Treasury Yield | Sheet1!B9 | n/a |") {
		t.Errorf("RenderSnapshot() does not show the absent yield:\n%s", md)
	}
}

func TestNewLayout(t *testing.T) {
	l := NewLayout(dcfsheet.TickerRange, dcfsheet.DefaultLayout)
	if l.TickerRange != "Sheet1!B1" {
		t.Errorf("TickerRange = %q, want Sheet1!B1", l.TickerRange)
	}
	if len(l.Cells) != 13 {
		t.Fatalf("got %d cells, want 13", len(l.Cells))
	}
	if c := l.Cells[4]; c.Range != "Sheet1!B9" || c.Kind != "percent" {
		t.Errorf("cell[4] = %+v, want Sheet1!B9 percent", c)
	}
}
