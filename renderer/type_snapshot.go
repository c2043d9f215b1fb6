package renderer

import (
	"github.com/etnz/dcfsheet"
)

// Snapshot is a struct to represent a snapshot in json, ready to render.
type Snapshot struct {
	Ticker   string `json:"ticker"`
	Currency string `json:"currency,omitempty"`
	// Metrics in worksheet order.
	Metrics []Metric `json:"metrics"`
	// Missing lists the labels of the metrics without a value.
	Missing []string `json:"missing,omitempty"`
}

// Metric is a single row of the snapshot.
type Metric struct {
	Label string `json:"label"`
	Range string `json:"range"`
	Value Value  `json:"value"`
}

// NewSnapshot creates a new Snapshot struct from a dcfsheet snapshot, one
// metric per cell of the layout.
func NewSnapshot(s *dcfsheet.Snapshot, layout dcfsheet.Layout) *Snapshot {
	r := &Snapshot{
		Ticker:   s.Ticker,
		Currency: s.Currency,
	}
	for _, c := range layout {
		v := c.Value(s)
		r.Metrics = append(r.Metrics, Metric{
			Label: c.Label,
			Range: c.Range,
			Value: Value{Kind: c.Kind, Currency: s.Currency, Number: v},
		})
		if !v.Valid {
			r.Missing = append(r.Missing, c.Label)
		}
	}
	return r
}
