package dcfsheet

import (
	"github.com/shopspring/decimal"
)

// Absent is the marker for a metric that the data source does not report.
var Absent = decimal.NullDecimal{}

// Present wraps a known value.
func Present(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// PresentInt is a shortcut for Present(decimal.NewFromInt(v)).
func PresentInt(v int64) decimal.NullDecimal { return Present(decimal.NewFromInt(v)) }

// cellValue converts a metric into the value written to a cell.
// Absent metrics become the empty string, which clears the cell.
func cellValue(v decimal.NullDecimal) any {
	if !v.Valid {
		return ""
	}
	return v.Decimal
}
