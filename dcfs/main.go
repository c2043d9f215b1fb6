package main

import (
	"context"
	"flag"
	"io"
	"log"
	"maps"
	"os"
	"os/signal"
	"path"

	"github.com/etnz/dcfsheet/cmd"
	"github.com/etnz/dcfsheet/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion().Complete("dcfs")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	if !cmd.Verbose() {
		log.SetOutput(io.Discard)
	}

	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}

func registered(commander *subcommands.Commander, name string) (found bool) {
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		if c.Name() == name {
			found = true
		}
	})
	return found
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	topics, _ := docs.List()
	fetchFlags := map[string]complete.Predictor{
		"provider":  predict.Set(cmd.Providers),
		"cache":     predict.Nothing,
		"headful":   predict.Nothing,
		"no-scrape": predict.Nothing,
	}
	fillFlags := map[string]complete.Predictor{
		"xlsx": predict.Files("*.xlsx"),
		"q":    predict.Nothing,
	}
	maps.Copy(fillFlags, fetchFlags)
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"fill":     {Flags: fillFlags},
			"show":     {Flags: fetchFlags, Args: predict.Something},
			"cells":    {},
			"login":    {},
			"topic":    {Args: predict.Set(topics)},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
		Flags: map[string]complete.Predictor{
			"spreadsheet-id":   predict.Something,
			"credentials-file": predict.Files("*.json"),
			"token-file":       predict.Files("*.json"),
			"ticker-range":     predict.Something,
			"eodhd-api-key":    predict.Something,
			"v":                predict.Nothing,
		},
	}
}
