package dcfsheet

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Well-known line item names.
const (
	InterestExpense = "Interest Expense"
	TaxProvision    = "Tax Provision"
	PretaxIncome    = "Pretax Income"
	TotalDebt       = "Total Debt"
	FreeCashFlow    = "Free Cash Flow"
)

// Period is the value of a line item for one fiscal period.
//
// Value is not Valid when the provider lists the period without a value.
type Period struct {
	End   time.Time
	Value decimal.NullDecimal
}

// Statement is a financial statement: each line item maps to its periods,
// most recent first.
type Statement map[string][]Period

// Add records the value of a line item for the period ending on end.
// Periods are kept sorted, most recent first. Adding the same period twice
// replaces the value.
func (s Statement) Add(item string, end time.Time, value decimal.NullDecimal) {
	periods := s[item]
	i, found := slices.BinarySearchFunc(periods, end, func(p Period, t time.Time) int {
		// reversed order: most recent first
		return t.Compare(p.End)
	})
	if found {
		periods[i].Value = value
		return
	}
	s[item] = slices.Insert(periods, i, Period{End: end, Value: value})
}

// Has reports whether the line item exists in the statement.
func (s Statement) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Latest returns the value of the line item for the most recent period.
//
// It is Absent if the line item does not exist or if the most recent period
// has no value.
func (s Statement) Latest(item string) decimal.NullDecimal {
	periods := s[item]
	if len(periods) == 0 {
		return Absent
	}
	return periods[0].Value
}

// Head returns the first n available values of the line item, most recent
// first. Periods without a value are skipped.
//
// ok is false, and values nil, if the line item does not exist or has less
// than n available values.
func (s Statement) Head(item string, n int) (values []decimal.Decimal, ok bool) {
	for _, p := range s[item] {
		if len(values) == n {
			break
		}
		if p.Value.Valid {
			values = append(values, p.Value.Decimal)
		}
	}
	if len(values) < n {
		return nil, false
	}
	return values, true
}
