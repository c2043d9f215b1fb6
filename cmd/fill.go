package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dcfsheet"
	"github.com/etnz/dcfsheet/renderer"
	"github.com/google/subcommands"
)

// fillCmd reads the ticker from the worksheet and fills in its metrics.
type fillCmd struct {
	xlsx     string
	provider string
	cache    bool
	headful  bool
	noScrape bool
	quiet    bool
}

func (*fillCmd) Name() string     { return "fill" }
func (*fillCmd) Synopsis() string { return "fill the worksheet with the metrics of its ticker" }
func (*fillCmd) Usage() string {
	return `dcfs fill [-xlsx <file>] [-provider <name>] [-cache] [-headful] [-no-scrape]

  Reads the ticker from the worksheet, fetches its financial metrics and the
  treasury yield, and writes them into the worksheet.

  See "dcfs topic cells" for the cells involved.
`
}

func (c *fillCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.xlsx, "xlsx", "", "use a local .xlsx workbook instead of Google Sheets, created if missing")
	f.StringVar(&c.provider, "provider", "yahoo", "market data provider: yahoo or eodhd")
	f.BoolVar(&c.cache, "cache", false, "cache market data responses for the day")
	f.BoolVar(&c.headful, "headful", false, "show the browser while reading the treasury yield")
	f.BoolVar(&c.noScrape, "no-scrape", false, "do not read the treasury yield, its cell is cleared")
	f.BoolVar(&c.quiet, "q", false, "do not display the metrics")
}

func (c *fillCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	provider, err := newProvider(c.provider, c.cache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	sheet, closeSheet, err := openSheet(ctx, c.xlsx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeSheet()

	p := &dcfsheet.Pipeline{
		Sheet:       sheet,
		Provider:    provider,
		Yield:       newYieldSource(c.noScrape, c.headful),
		TickerRange: tickerRange(),
		Log:         runLog,
	}
	if !c.quiet {
		p.Report = func(s *dcfsheet.Snapshot) {
			printMarkdown(renderer.RenderSnapshot(renderer.NewSnapshot(s, dcfsheet.DefaultLayout)))
		}
	}

	snap, err := p.Run(ctx)
	var werr *dcfsheet.WriteError
	switch {
	case errors.Is(err, dcfsheet.ErrMissingTicker):
		fmt.Fprintf(os.Stderr, "Error: %v. Enter a ticker in %s.\n", err, tickerRange())
		return subcommands.ExitFailure
	case errors.As(err, &werr):
		fmt.Fprintf(os.Stderr, "Error: %v (%d of %d cells written)\n", err, werr.Written, len(dcfsheet.DefaultLayout))
		return subcommands.ExitFailure
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully filled %d cells for %s\n", len(dcfsheet.DefaultLayout), snap.Ticker)
	return subcommands.ExitSuccess
}
