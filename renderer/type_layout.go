package renderer

import "github.com/etnz/dcfsheet"

// Layout represents the worksheet layout.
type Layout struct {
	TickerRange string       `json:"tickerRange"`
	Cells       []LayoutCell `json:"cells"`
}

// LayoutCell is a destination cell.
type LayoutCell struct {
	Range string `json:"range"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// NewLayout creates a new Layout struct.
func NewLayout(tickerRange string, l dcfsheet.Layout) *Layout {
	r := &Layout{TickerRange: tickerRange}
	for _, c := range l {
		r.Cells = append(r.Cells, LayoutCell{Range: c.Range, Label: c.Label, Kind: c.Kind.String()})
	}
	return r
}
