package dcfsheet

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// memSheet is an in-memory Sheet recording every call.
type memSheet struct {
	cells   map[string]string
	writes  []Write
	calls   []string
	failOn  string // range whose write fails
	readErr error
}

func (s *memSheet) Read(_ context.Context, rng string) (string, error) {
	s.calls = append(s.calls, "read "+rng)
	if s.readErr != nil {
		return "", s.readErr
	}
	return s.cells[rng], nil
}

func (s *memSheet) Write(_ context.Context, rng string, value any) error {
	s.calls = append(s.calls, "write "+rng)
	if rng == s.failOn {
		return errors.New("quota exceeded")
	}
	s.writes = append(s.writes, Write{Range: rng, Value: value})
	return nil
}

// written returns the value written to rng, and whether it was written.
func (s *memSheet) written(rng string) (any, bool) {
	for _, w := range s.writes {
		if w.Range == rng {
			return w.Value, true
		}
	}
	return nil, false
}

type fakeProvider struct {
	fin     *Financials
	err     error
	tickers []string
}

func (p *fakeProvider) Financials(_ context.Context, ticker string) (*Financials, error) {
	p.tickers = append(p.tickers, ticker)
	if p.err != nil {
		return nil, p.err
	}
	return p.fin, nil
}

type fakeYield struct {
	value decimal.Decimal
	err   error
	panic bool
}

func (y fakeYield) Yield(context.Context) (decimal.Decimal, error) {
	if y.panic {
		panic("browser crashed")
	}
	return y.value, y.err
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fullFinancials returns datasets with every line item available.
func fullFinancials() *Financials {
	f := &Financials{
		Income:   make(Statement),
		Balance:  make(Statement),
		CashFlow: make(Statement),
	}
	f.Income.Add(InterestExpense, day(2024, 9, 30), PresentInt(1000))
	f.Income.Add(InterestExpense, day(2023, 9, 30), PresentInt(900))
	f.Income.Add(TaxProvision, day(2024, 9, 30), PresentInt(29749000000))
	f.Income.Add(PretaxIncome, day(2024, 9, 30), PresentInt(123485000000))
	f.Balance.Add(TotalDebt, day(2024, 9, 30), PresentInt(106629000000))
	f.CashFlow.Add(FreeCashFlow, day(2021, 9, 30), PresentInt(92953000000))
	f.CashFlow.Add(FreeCashFlow, day(2022, 9, 30), PresentInt(111443000000))
	f.CashFlow.Add(FreeCashFlow, day(2023, 9, 30), PresentInt(99584000000))
	f.CashFlow.Add(FreeCashFlow, day(2024, 9, 30), PresentInt(108807000000))
	f.Quote.Currency = "USD"
	f.Quote.Set(Beta, Present(dec("1.24")))
	f.Quote.Set(MarketCap, PresentInt(3500000000000))
	f.Quote.Set(SharesOutstanding, PresentInt(15115800000))
	f.Quote.Set(Open, Present(dec("229.98")))
	return f
}

func jsonNumber(s string) any { return json.Number(s) }
