package dcfsheet

import "github.com/shopspring/decimal"

// Well-known quote information keys.
const (
	Beta              = "beta"
	MarketCap         = "marketCap"
	SharesOutstanding = "sharesOutstanding"
	Open              = "open"
)

// Quote holds the quote information of a security.
type Quote struct {
	Currency string                         // ISO code, possibly empty
	Fields   map[string]decimal.NullDecimal // keyed by Beta, MarketCap, etc.
}

// Get returns the field value, Absent if unknown.
func (q Quote) Get(key string) decimal.NullDecimal {
	v, ok := q.Fields[key]
	if !ok {
		return Absent
	}
	return v
}

// Set records a field value.
func (q *Quote) Set(key string, v decimal.NullDecimal) {
	if q.Fields == nil {
		q.Fields = make(map[string]decimal.NullDecimal)
	}
	q.Fields[key] = v
}
