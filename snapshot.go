package dcfsheet

import "github.com/shopspring/decimal"

// FreeCashFlowYears is the number of free cash flow periods of a Snapshot.
const FreeCashFlowYears = 4

// Snapshot is the set of metrics written to the worksheet for one ticker.
type Snapshot struct {
	Ticker   string
	Currency string

	InterestExpense   decimal.NullDecimal // latest year
	TotalDebt         decimal.NullDecimal // latest year
	TaxProvision      decimal.NullDecimal // latest year
	PretaxIncome      decimal.NullDecimal // latest year
	TreasuryYield     decimal.NullDecimal // as a fraction
	Beta              decimal.NullDecimal
	MarketCap         decimal.NullDecimal
	SharesOutstanding decimal.NullDecimal
	CurrentPrice      decimal.NullDecimal // the session open price

	// FreeCashFlow holds the last FreeCashFlowYears values, most recent
	// first, or nil if they are not all available.
	FreeCashFlow []decimal.Decimal
}

// NewSnapshot extracts the snapshot metrics from the provider's datasets.
func NewSnapshot(ticker string, f *Financials, yield decimal.NullDecimal) *Snapshot {
	s := &Snapshot{
		Ticker:            ticker,
		Currency:          f.Quote.Currency,
		InterestExpense:   f.Income.Latest(InterestExpense),
		TotalDebt:         f.Balance.Latest(TotalDebt),
		TaxProvision:      f.Income.Latest(TaxProvision),
		PretaxIncome:      f.Income.Latest(PretaxIncome),
		TreasuryYield:     yield,
		Beta:              f.Quote.Get(Beta),
		MarketCap:         f.Quote.Get(MarketCap),
		SharesOutstanding: f.Quote.Get(SharesOutstanding),
		CurrentPrice:      f.Quote.Get(Open),
	}
	if fcf, ok := f.CashFlow.Head(FreeCashFlow, FreeCashFlowYears); ok {
		s.FreeCashFlow = fcf
	}
	return s
}

// FreeCashFlowAt returns the i-th free cash flow value (0 is the most recent).
func (s *Snapshot) FreeCashFlowAt(i int) decimal.NullDecimal {
	if i < 0 || i >= len(s.FreeCashFlow) {
		return Absent
	}
	return Present(s.FreeCashFlow[i])
}
