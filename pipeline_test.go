package dcfsheet

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestPipeline(sheet *memSheet, provider Provider, yield YieldSource) (*Pipeline, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Pipeline{
		Sheet:    sheet,
		Provider: provider,
		Yield:    yield,
		Log:      log.New(&buf, "", 0),
	}, &buf
}

func TestPipeline_Run(t *testing.T) {
	sheet := &memSheet{cells: map[string]string{"Sheet1!B1": "AAPL"}}
	provider := &fakeProvider{fin: fullFinancials()}
	p, _ := newTestPipeline(sheet, provider, fakeYield{value: dec("0.04123")})

	var reported *Snapshot
	p.Report = func(s *Snapshot) { reported = s }

	snap, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if reported != snap {
		t.Error("Report was not called with the snapshot")
	}
	if len(provider.tickers) != 1 || provider.tickers[0] != "AAPL" {
		t.Errorf("provider called with %v, want [AAPL]", provider.tickers)
	}

	v, ok := sheet.written("Sheet1!B3")
	if !ok {
		t.Fatal("interest expense cell was not written")
	}
	if d, ok := v.(decimal.Decimal); !ok || !d.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Sheet1!B3 received %#v, want 1000", v)
	}
	v, _ = sheet.written("Sheet1!B9")
	if d, ok := v.(decimal.Decimal); !ok || !d.Equal(dec("0.04123")) {
		t.Errorf("Sheet1!B9 received %#v, want 0.04123", v)
	}
	if len(sheet.writes) != len(DefaultLayout) {
		t.Errorf("got %d writes, want %d", len(sheet.writes), len(DefaultLayout))
	}
	if sheet.calls[0] != "read Sheet1!B1" {
		t.Errorf("first call = %q, want the ticker read", sheet.calls[0])
	}
}

func TestPipeline_Run_TrimsTicker(t *testing.T) {
	sheet := &memSheet{cells: map[string]string{"Sheet1!B1": "  MSFT \n"}}
	provider := &fakeProvider{fin: fullFinancials()}
	p, _ := newTestPipeline(sheet, provider, nil)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if provider.tickers[0] != "MSFT" {
		t.Errorf("provider called with %q, want MSFT", provider.tickers[0])
	}
}

func TestPipeline_Run_MissingLineItem(t *testing.T) {
	fin := fullFinancials()
	delete(fin.Income, InterestExpense)
	sheet := &memSheet{cells: map[string]string{"Sheet1!B1": "AAPL"}}
	p, _ := newTestPipeline(sheet, &fakeProvider{fin: fin}, nil)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	v, ok := sheet.written("Sheet1!B3")
	if !ok || v != "" {
		t.Errorf("Sheet1!B3 received %#v, want the absent marker", v)
	}
}

func TestPipeline_Run_Fatal(t *testing.T) {
	readErr := errors.New("invalid_grant")
	fetchErr := errors.New("503 Service Unavailable")

	tests := []struct {
		name     string
		sheet    *memSheet
		provider *fakeProvider
		wantErr  error
		fetched  bool
	}{
		{
			name:     "missing ticker",
			sheet:    &memSheet{cells: map[string]string{}},
			provider: &fakeProvider{fin: fullFinancials()},
			wantErr:  ErrMissingTicker,
		},
		{
			name:     "blank ticker",
			sheet:    &memSheet{cells: map[string]string{"Sheet1!B1": "   "}},
			provider: &fakeProvider{fin: fullFinancials()},
			wantErr:  ErrMissingTicker,
		},
		{
			name:     "read failure",
			sheet:    &memSheet{readErr: readErr},
			provider: &fakeProvider{fin: fullFinancials()},
			wantErr:  readErr,
		},
		{
			name:     "provider failure",
			sheet:    &memSheet{cells: map[string]string{"Sheet1!B1": "AAPL"}},
			provider: &fakeProvider{err: fetchErr},
			wantErr:  fetchErr,
			fetched:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPipeline(tt.sheet, tt.provider, fakeYield{value: dec("0.04")})
			snap, err := p.Run(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if snap != nil {
				t.Errorf("Run() returned a snapshot on a fatal error")
			}
			if len(tt.sheet.writes) != 0 {
				t.Errorf("got %d writes, want none", len(tt.sheet.writes))
			}
			if fetched := len(tt.provider.tickers) > 0; fetched != tt.fetched {
				t.Errorf("provider called = %v, want %v", fetched, tt.fetched)
			}
		})
	}
}

func TestPipeline_Run_YieldFailureIsTolerated(t *testing.T) {
	tests := []struct {
		name  string
		yield YieldSource
		want  string
	}{
		{"error", fakeYield{err: errors.New("element not found")}, "Unable to find Treasury Yield: element not found"},
		{"panic", fakeYield{panic: true}, "Unable to find Treasury Yield: browser crashed"},
		{"skipped", nil, "treasury yield skipped"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := &memSheet{cells: map[string]string{"Sheet1!B1": "AAPL"}}
			p, logs := newTestPipeline(sheet, &fakeProvider{fin: fullFinancials()}, tt.yield)

			snap, err := p.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() unexpected error: %v", err)
			}
			if snap.TreasuryYield.Valid {
				t.Errorf("TreasuryYield = %v, want absent", snap.TreasuryYield.Decimal)
			}
			if v, _ := sheet.written("Sheet1!B9"); v != "" {
				t.Errorf("Sheet1!B9 received %#v, want the absent marker", v)
			}
			if !strings.Contains(logs.String(), tt.want) {
				t.Errorf("log = %q, want to contain %q", logs.String(), tt.want)
			}
			if len(sheet.writes) != len(DefaultLayout) {
				t.Errorf("got %d writes, want %d", len(sheet.writes), len(DefaultLayout))
			}
		})
	}
}

func TestPipeline_Run_WriteFailureStopsTheRun(t *testing.T) {
	sheet := &memSheet{
		cells:  map[string]string{"Sheet1!B1": "AAPL"},
		failOn: "Sheet1!B9",
	}
	p, logs := newTestPipeline(sheet, &fakeProvider{fin: fullFinancials()}, nil)

	snap, err := p.Run(context.Background())
	var werr *WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("Run() error = %v, want a *WriteError", err)
	}
	if werr.Range != "Sheet1!B9" || werr.Written != 4 {
		t.Errorf("WriteError = %+v, want range Sheet1!B9 after 4 writes", werr)
	}
	if snap == nil {
		t.Error("Run() should return the snapshot along with a write error")
	}
	// no rollback, no further writes
	if len(sheet.writes) != 4 {
		t.Errorf("got %d successful writes, want 4", len(sheet.writes))
	}
	if last := sheet.calls[len(sheet.calls)-1]; last != "write Sheet1!B9" {
		t.Errorf("last call = %q, want the failing write", last)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Run() error = %v, want the sheet error", err)
	}
	// reported once, by the caller
	if strings.Contains(logs.String(), "quota exceeded") {
		t.Errorf("log = %q, want no write error", logs.String())
	}
}

func TestPipeline_Fetch(t *testing.T) {
	p, _ := newTestPipeline(nil, &fakeProvider{fin: fullFinancials()}, fakeYield{value: dec("0.05")})
	snap, err := p.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if snap.Ticker != "AAPL" || !snap.TreasuryYield.Decimal.Equal(dec("0.05")) {
		t.Errorf("Fetch() = %+v", snap)
	}
}
