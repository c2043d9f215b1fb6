package eodhd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/etnz/dcfsheet"
	"github.com/shopspring/decimal"
)

// fundamentals is the subset of the fundamentals payload in use.
//
// https://eodhd.com/financial-apis/stock-etfs-fundamental-data-feeds
type fundamentals struct {
	General struct {
		CurrencyCode string
	}
	Highlights struct {
		MarketCapitalization json.RawMessage
	}
	Technicals struct {
		Beta json.RawMessage
	}
	SharesStats struct {
		SharesOutstanding json.RawMessage
	}
	Financials struct {
		IncomeStatement statement `json:"Income_Statement"`
		BalanceSheet    statement `json:"Balance_Sheet"`
		CashFlow        statement `json:"Cash_Flow"`
	}
}

// statement lists, for each fiscal year end, the line items by field name.
type statement struct {
	Yearly map[string]map[string]json.RawMessage `json:"yearly"`
}

// Fields of the yearly statements, and their line item name.
var (
	incomeFields   = map[string]string{"interestExpense": dcfsheet.InterestExpense, "taxProvision": dcfsheet.TaxProvision, "incomeBeforeTax": dcfsheet.PretaxIncome}
	balanceFields  = map[string]string{"shortLongTermDebtTotal": dcfsheet.TotalDebt}
	cashFlowFields = map[string]string{"freeCashFlow": dcfsheet.FreeCashFlow}
)

func (f *fundamentals) financials() (*dcfsheet.Financials, error) {
	income, err := f.Financials.IncomeStatement.convert(incomeFields)
	if err != nil {
		return nil, err
	}
	balance, err := f.Financials.BalanceSheet.convert(balanceFields)
	if err != nil {
		return nil, err
	}
	cashFlow, err := f.Financials.CashFlow.convert(cashFlowFields)
	if err != nil {
		return nil, err
	}
	q := dcfsheet.Quote{Currency: f.General.CurrencyCode}
	q.Set(dcfsheet.MarketCap, number(f.Highlights.MarketCapitalization))
	q.Set(dcfsheet.Beta, number(f.Technicals.Beta))
	q.Set(dcfsheet.SharesOutstanding, number(f.SharesStats.SharesOutstanding))
	return &dcfsheet.Financials{
		Income:   income,
		Balance:  balance,
		CashFlow: cashFlow,
		Quote:    q,
	}, nil
}

// convert builds a statement out of the fields. A field missing from every
// year is a missing line item.
func (s statement) convert(fields map[string]string) (dcfsheet.Statement, error) {
	st := make(dcfsheet.Statement)
	for date, values := range s.Yearly {
		end, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, fmt.Errorf("invalid fiscal year end %q: %w", date, err)
		}
		for field, item := range fields {
			raw, ok := values[field]
			if !ok {
				continue
			}
			st.Add(item, end, number(raw))
		}
	}
	return st, nil
}

// number decodes a JSON number or numeric string. Anything else, like null
// or "NA", is absent.
func number(raw json.RawMessage) decimal.NullDecimal {
	if len(raw) == 0 {
		return dcfsheet.Absent
	}
	var d decimal.NullDecimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return dcfsheet.Absent
	}
	return d
}
