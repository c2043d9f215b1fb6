package dcfsheet

import (
	"context"

	"github.com/shopspring/decimal"
)

// Financials holds the four datasets a Provider returns for a ticker.
type Financials struct {
	Income   Statement // income statement, annual periods
	Balance  Statement // balance sheet, annual periods
	CashFlow Statement // cash flow statement, annual periods
	Quote    Quote
}

// Provider retrieves financial data for a ticker.
//
// A line item missing from the provider's datasets is not an error, it is
// simply absent from the returned statements.
type Provider interface {
	Financials(ctx context.Context, ticker string) (*Financials, error)
}

// YieldSource returns the current treasury yield as a fraction (0.04 for 4%).
type YieldSource interface {
	Yield(ctx context.Context) (decimal.Decimal, error)
}

// Sheet is a spreadsheet addressed with A1 ranges like "Sheet1!B3".
type Sheet interface {
	// Read returns the formatted value of the first cell in rng, or "" if
	// the cell is empty.
	Read(ctx context.Context, rng string) (string, error)
	// Write overwrites the first cell of rng with value.
	Write(ctx context.Context, rng string, value any) error
}
