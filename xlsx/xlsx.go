// Package xlsx reads and writes cells of a local Excel workbook, an offline
// alternative to Google Sheets.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/etnz/dcfsheet"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Workbook is an .xlsx file. It implements dcfsheet.Sheet.
//
// The file is saved after each write.
type Workbook struct {
	name string
	file *excelize.File
}

var _ dcfsheet.Sheet = (*Workbook)(nil)

// Open opens the workbook file, or creates a new one with a single "Sheet1"
// if it does not exist.
func Open(name string) (*Workbook, error) {
	f, err := excelize.OpenFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SaveAs(name); err != nil {
			return nil, fmt.Errorf("cannot create workbook %s: %w", name, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("cannot open workbook %s: %w", name, err)
	}
	return &Workbook{name: name, file: f}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error { return w.file.Close() }

// Read returns the formatted value of the cell.
func (w *Workbook) Read(ctx context.Context, rng string) (string, error) {
	sheet, cell, err := w.split(rng)
	if err != nil {
		return "", err
	}
	v, err := w.file.GetCellValue(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", rng, err)
	}
	return v, nil
}

// Write sets the cell value and saves the workbook. Decimals are stored as
// numbers.
func (w *Workbook) Write(ctx context.Context, rng string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sheet, cell, err := w.split(rng)
	if err != nil {
		return err
	}
	switch v := value.(type) {
	case decimal.Decimal:
		err = w.file.SetCellFloat(sheet, cell, v.InexactFloat64(), -1, 64)
	default:
		err = w.file.SetCellValue(sheet, cell, v)
	}
	if err != nil {
		return fmt.Errorf("cannot write %s: %w", rng, err)
	}
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("cannot save workbook %s: %w", w.name, err)
	}
	return nil
}

// split splits an A1 range like "Sheet1!B3" into its sheet and top-left
// cell. Without a sheet name the first sheet is used.
func (w *Workbook) split(rng string) (sheet, cell string, err error) {
	sheet, cell, found := strings.Cut(rng, "!")
	if !found {
		sheet, cell = w.file.GetSheetName(0), rng
	}
	sheet = strings.Trim(sheet, "'")
	cell, _, _ = strings.Cut(cell, ":")
	if _, _, err := excelize.CellNameToCoordinates(cell); err != nil {
		return "", "", fmt.Errorf("invalid range %q: %w", rng, err)
	}
	if idx, _ := w.file.GetSheetIndex(sheet); idx < 0 {
		return "", "", fmt.Errorf("invalid range %q: no sheet %q in %s", rng, sheet, w.name)
	}
	return sheet, cell, nil
}
