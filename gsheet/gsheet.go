// Package gsheet reads and writes cells of a Google Sheets spreadsheet.
package gsheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/etnz/dcfsheet"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Spreadsheet is a Google spreadsheet. It implements dcfsheet.Sheet.
//
// Every Read and Write is a separate API call.
type Spreadsheet struct {
	srv *sheets.Service
	id  string
}

var _ dcfsheet.Sheet = (*Spreadsheet)(nil)

// New returns the spreadsheet identified by id. Authentication is passed
// through opts, usually option.WithHTTPClient.
func New(ctx context.Context, id string, opts ...option.ClientOption) (*Spreadsheet, error) {
	if id == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create sheets service: %w", err)
	}
	return &Spreadsheet{srv: srv, id: id}, nil
}

// Read returns the formatted value of the first cell in rng, the empty
// string if the cell is empty.
func (s *Spreadsheet) Read(ctx context.Context, rng string) (string, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.id, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	return fmt.Sprint(resp.Values[0][0]), nil
}

// Write sets the value of rng as if typed by the user. Decimals are sent
// as numbers, the empty string clears the cell.
func (s *Spreadsheet) Write(ctx context.Context, rng string, value any) error {
	vr := &sheets.ValueRange{
		Range:  rng,
		Values: [][]any{{jsonValue(value)}},
	}
	_, err := s.srv.Spreadsheets.Values.Update(s.id, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("cannot write %s: %w", rng, err)
	}
	return nil
}

func jsonValue(v any) any {
	switch v := v.(type) {
	case decimal.Decimal:
		return json.Number(v.String())
	case *decimal.Decimal:
		return json.Number(v.String())
	default:
		return v
	}
}
