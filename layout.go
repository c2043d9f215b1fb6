package dcfsheet

import "github.com/shopspring/decimal"

// Kind tells how a metric should be displayed.
type Kind int

const (
	Amount  Kind = iota // in the quote currency
	Ratio               // unitless
	Percent             // a fraction displayed as a percentage
	Count               // number of shares
)

func (k Kind) String() string {
	switch k {
	case Amount:
		return "amount"
	case Ratio:
		return "ratio"
	case Percent:
		return "percent"
	case Count:
		return "count"
	default:
		return "unknown"
	}
}

// Cell binds a worksheet range to a snapshot metric.
type Cell struct {
	Range string
	Label string
	Kind  Kind
	Value func(*Snapshot) decimal.NullDecimal
}

// Write is a single value to write in a range.
type Write struct {
	Range string
	Value any // a decimal.Decimal, or "" for an absent metric
}

// Layout is the ordered list of cells filled by a run.
type Layout []Cell

// TickerRange is the cell holding the ticker to fetch.
const TickerRange = "Sheet1!B1"

// DefaultLayout is the worksheet layout. Cells are written in that order.
//
// Free cash flows run from the oldest in D3 to the most recent in D6.
var DefaultLayout = Layout{
	{"Sheet1!B3", "Interest Expense (Latest Year)", Amount, func(s *Snapshot) decimal.NullDecimal { return s.InterestExpense }},
	{"Sheet1!B4", "Total Debt (Latest Year)", Amount, func(s *Snapshot) decimal.NullDecimal { return s.TotalDebt }},
	{"Sheet1!B6", "Tax Provision (Latest Year)", Amount, func(s *Snapshot) decimal.NullDecimal { return s.TaxProvision }},
	{"Sheet1!B7", "Pretax Income (Latest Year)", Amount, func(s *Snapshot) decimal.NullDecimal { return s.PretaxIncome }},
	{"Sheet1!B9", "Treasury Yield", Percent, func(s *Snapshot) decimal.NullDecimal { return s.TreasuryYield }},
	{"Sheet1!B10", "Beta", Ratio, func(s *Snapshot) decimal.NullDecimal { return s.Beta }},
	{"Sheet1!B13", "Market Capitalization", Amount, func(s *Snapshot) decimal.NullDecimal { return s.MarketCap }},
	{"Sheet1!C17", "Shares Outstanding", Count, func(s *Snapshot) decimal.NullDecimal { return s.SharesOutstanding }},
	{"Sheet1!D3", "Free Cash Flow (Year -3)", Amount, func(s *Snapshot) decimal.NullDecimal { return s.FreeCashFlowAt(3) }},
	{"Sheet1!D4", "Free Cash Flow (Year -2)", Amount, func(s *Snapshot) decimal.NullDecimal { return s.FreeCashFlowAt(2) }},
	{"Sheet1!D5", "Free Cash Flow (Year -1)", Amount, func(s *Snapshot) decimal.NullDecimal { return s.FreeCashFlowAt(1) }},
	{"Sheet1!D6", "Free Cash Flow (Latest Year)", Amount, func(s *Snapshot) decimal.NullDecimal { return s.FreeCashFlowAt(0) }},
	{"Sheet1!C20", "Current Price", Amount, func(s *Snapshot) decimal.NullDecimal { return s.CurrentPrice }},
}

// Writes returns the writes to perform for the snapshot, in layout order.
func (l Layout) Writes(s *Snapshot) []Write {
	writes := make([]Write, 0, len(l))
	for _, c := range l {
		writes = append(writes, Write{Range: c.Range, Value: cellValue(c.Value(s))})
	}
	return writes
}

// Lookup returns the cell for a range.
func (l Layout) Lookup(rng string) (Cell, bool) {
	for _, c := range l {
		if c.Range == rng {
			return c, true
		}
	}
	return Cell{}, false
}
