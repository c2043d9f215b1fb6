package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dcfsheet"
	"github.com/etnz/dcfsheet/renderer"
	"github.com/google/subcommands"
)

// showCmd displays the metrics of a ticker without touching any worksheet.
type showCmd struct {
	provider string
	cache    bool
	headful  bool
	noScrape bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the metrics of a ticker" }
func (*showCmd) Usage() string {
	return `dcfs show [-provider <name>] [-cache] [-headful] [-no-scrape] <ticker>

  Fetches and displays the metrics that "dcfs fill" would write.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.provider, "provider", "yahoo", "market data provider: yahoo or eodhd")
	f.BoolVar(&c.cache, "cache", false, "cache market data responses for the day")
	f.BoolVar(&c.headful, "headful", false, "show the browser while reading the treasury yield")
	f.BoolVar(&c.noScrape, "no-scrape", false, "do not read the treasury yield")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: show requires exactly one ticker")
		return subcommands.ExitUsageError
	}

	provider, err := newProvider(c.provider, c.cache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	p := &dcfsheet.Pipeline{
		Provider: provider,
		Yield:    newYieldSource(c.noScrape, c.headful),
		Log:      runLog,
	}
	snap, err := p.Fetch(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderSnapshot(renderer.NewSnapshot(snap, dcfsheet.DefaultLayout)))
	return subcommands.ExitSuccess
}
