package dcfsheet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMissingTicker is returned when the ticker cell is empty.
var ErrMissingTicker = errors.New("ticker not found in the spreadsheet")

// WriteError reports a failed cell write. Cells before it have been written.
type WriteError struct {
	Range   string
	Written int // number of cells successfully written before this one
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write %s (%d cells already written): %v", e.Range, e.Written, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Pipeline reads a ticker from a Sheet, fetches its metrics and writes them
// back.
type Pipeline struct {
	Sheet    Sheet
	Provider Provider
	Yield    YieldSource // nil to skip the treasury yield

	TickerRange string // defaults to TickerRange
	Layout      Layout // defaults to DefaultLayout

	// Report, if not nil, is called with the snapshot before any write.
	Report func(*Snapshot)

	Log *log.Logger // defaults to log.Default()
}

// Run executes the pipeline once. Every remote call is attempted exactly
// once.
//
// An error reading the ticker, a missing ticker, or a provider failure aborts
// the run before any write. A treasury yield failure is only logged. A write
// failure stops the remaining writes and is returned, not logged, as a
// *WriteError along with the snapshot.
func (p *Pipeline) Run(ctx context.Context) (*Snapshot, error) {
	tickerRange := p.TickerRange
	if tickerRange == "" {
		tickerRange = TickerRange
	}
	layout := p.Layout
	if layout == nil {
		layout = DefaultLayout
	}

	ticker, err := p.Sheet.Read(ctx, tickerRange)
	if err != nil {
		return nil, fmt.Errorf("cannot read ticker from %s: %w", tickerRange, err)
	}
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, ErrMissingTicker
	}
	p.logf("fetching financial data for %s", ticker)

	snap, err := p.Fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if p.Report != nil {
		p.Report(snap)
	}

	for i, w := range layout.Writes(snap) {
		if err := p.Sheet.Write(ctx, w.Range, w.Value); err != nil {
			return snap, &WriteError{Range: w.Range, Written: i, Err: err}
		}
	}
	return snap, nil
}

// Fetch builds the snapshot of a ticker without touching the sheet.
func (p *Pipeline) Fetch(ctx context.Context, ticker string) (*Snapshot, error) {
	fin, err := p.Provider.Financials(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch financial data for %s: %w", ticker, err)
	}
	return NewSnapshot(ticker, fin, p.treasuryYield(ctx)), nil
}

// treasuryYield never fails: any problem is logged and the yield is Absent.
func (p *Pipeline) treasuryYield(ctx context.Context) (yield decimal.NullDecimal) {
	if p.Yield == nil {
		p.logf("treasury yield skipped")
		return Absent
	}
	defer func() {
		if r := recover(); r != nil {
			p.logf("Unable to find Treasury Yield: %v", r)
			yield = Absent
		}
	}()
	y, err := p.Yield.Yield(ctx)
	if err != nil {
		p.logf("Unable to find Treasury Yield: %v", err)
		return Absent
	}
	return Present(y)
}

func (p *Pipeline) logf(format string, v ...any) {
	l := p.Log
	if l == nil {
		l = log.Default()
	}
	l.Printf(format, v...)
}
