package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/etnz/dcfsheet"
	"github.com/shopspring/decimal"
)

// Value is a metric value that knows how to display itself.
type Value struct {
	Kind     dcfsheet.Kind       `json:"kind"`
	Currency string              `json:"currency,omitempty"`
	Number   decimal.NullDecimal `json:"number"`
}

// NotAvailable is displayed for absent values.
const NotAvailable = "n/a"

// String returns the value formatted according to its kind.
func (v Value) String() string {
	if !v.Number.Valid {
		return NotAvailable
	}
	d := v.Number.Decimal
	switch v.Kind {
	case dcfsheet.Amount:
		return formatAmount(d, v.Currency)
	case dcfsheet.Percent:
		return d.Shift(2).String() + "%"
	case dcfsheet.Count:
		return money.NewFormatter(0, ".", ",", "", "1").Format(d.Round(0).IntPart())
	default:
		return d.String()
	}
}

// formatAmount formats d in the currency, or as a plain number with two
// decimals if the currency is unknown.
func formatAmount(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		s := money.NewFormatter(2, ".", ",", "", "1").Format(d.Shift(2).Round(0).IntPart())
		if currency != "" {
			s += " " + currency
		}
		return s
	}
	return cur.Formatter().Format(d.Shift(int32(cur.Fraction)).Round(0).IntPart())
}
