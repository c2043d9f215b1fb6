package cmd

import (
	"context"
	"flag"

	"github.com/etnz/dcfsheet"
	"github.com/etnz/dcfsheet/renderer"
	"github.com/google/subcommands"
)

type cellsCmd struct{}

func (*cellsCmd) Name() string     { return "cells" }
func (*cellsCmd) Synopsis() string { return "list the worksheet cells" }
func (*cellsCmd) Usage() string {
	return `dcfs cells

  Lists the cell holding the ticker, and the cells written by "dcfs fill" in
  the order they are written.
`
}

func (c *cellsCmd) SetFlags(f *flag.FlagSet) {}

func (c *cellsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	printMarkdown(renderer.RenderLayout(renderer.NewLayout(tickerRange(), dcfsheet.DefaultLayout)))
	return subcommands.ExitSuccess
}
