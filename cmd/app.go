package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/dcfsheet"
	"github.com/etnz/dcfsheet/auth"
	"github.com/etnz/dcfsheet/eodhd"
	"github.com/etnz/dcfsheet/gsheet"
	"github.com/etnz/dcfsheet/treasury"
	"github.com/etnz/dcfsheet/xlsx"
	"github.com/etnz/dcfsheet/yahoo"
	"google.golang.org/api/option"
)

const (
	EnvSpreadsheetID = "DCFSHEET_SPREADSHEET_ID"
	EnvCredentials   = "DCFSHEET_CREDENTIALS"
	EnvToken         = "DCFSHEET_TOKEN"
	EnvTickerRange   = "DCFSHEET_TICKER_RANGE"
	EnvVerbose       = "DCFSHEET_VERBOSE"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var spreadsheetIDFlag = flag.String("spreadsheet-id", "", "Google spreadsheet ID, as found in its URL. This flag takes precedence over the "+EnvSpreadsheetID+" environment variable.")
var credentialsFlag = flag.String("credentials-file", "", "OAuth2 client secrets file. This flag takes precedence over the "+EnvCredentials+" environment variable. (default \"credentials.json\")")
var tokenFlag = flag.String("token-file", "", "File storing the OAuth2 token. This flag takes precedence over the "+EnvToken+" environment variable. (default \"token.json\")")
var tickerRangeFlag = flag.String("ticker-range", "", "Cell holding the ticker. This flag takes precedence over the "+EnvTickerRange+" environment variable. (default \""+dcfsheet.TickerRange+"\")")
var eodhdAPIKeyFlag = flag.String("eodhd-api-key", "", "EODHD API key, used with -provider eodhd. This flag takes precedence over the "+eodhd.EnvAPIKey+" environment variable. You can get one at https://eodhd.com/")
var verboseFlag = flag.Bool("v", false, "verbose: log http traffic. The "+EnvVerbose+" environment variable set to true has the same effect.")

// flagOrEnv returns the flag value if set, otherwise the environment
// variable, otherwise def.
func flagOrEnv(value, env, def string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func spreadsheetID() string   { return flagOrEnv(*spreadsheetIDFlag, EnvSpreadsheetID, "") }
func credentialsFile() string { return flagOrEnv(*credentialsFlag, EnvCredentials, "credentials.json") }
func tokenFile() string       { return flagOrEnv(*tokenFlag, EnvToken, "token.json") }
func tickerRange() string     { return flagOrEnv(*tickerRangeFlag, EnvTickerRange, dcfsheet.TickerRange) }
func eodhdAPIKey() string     { return flagOrEnv(*eodhdAPIKeyFlag, eodhd.EnvAPIKey, "") }

// Verbose reports whether the -v flag, or the environment variable, is set.
func Verbose() bool {
	value := ""
	if *verboseFlag {
		value = "true"
	}
	v, _ := strconv.ParseBool(flagOrEnv(value, EnvVerbose, "false"))
	return v
}

// newLoader returns the credential loader configured by the global flags.
func newLoader() (*auth.Loader, error) {
	cfg, err := auth.ConfigFromFile(credentialsFile())
	if err != nil {
		return nil, err
	}
	return &auth.Loader{
		Config:     cfg,
		TokenFile:  tokenFile(),
		Authorizer: auth.Loopback{Out: os.Stderr},
	}, nil
}

// openSheet opens the local workbook if xlsxFile is set, the Google
// spreadsheet otherwise. close must be called when done.
func openSheet(ctx context.Context, xlsxFile string) (sheet dcfsheet.Sheet, close func() error, err error) {
	if xlsxFile != "" {
		w, err := xlsx.Open(xlsxFile)
		if err != nil {
			return nil, nil, err
		}
		return w, w.Close, nil
	}

	id := spreadsheetID()
	if id == "" {
		return nil, nil, fmt.Errorf("spreadsheet ID is not set. Use -spreadsheet-id flag or %s environment variable", EnvSpreadsheetID)
	}
	loader, err := newLoader()
	if err != nil {
		return nil, nil, err
	}
	client, err := loader.Client(ctx)
	if err != nil {
		return nil, nil, err
	}
	s, err := gsheet.New(ctx, id, option.WithHTTPClient(client))
	if err != nil {
		return nil, nil, err
	}
	return s, func() error { return nil }, nil
}

// Providers lists the valid values of the -provider flag.
var Providers = []string{"yahoo", "eodhd"}

// newProvider returns the market data provider by name.
func newProvider(name string, cache bool) (dcfsheet.Provider, error) {
	switch name {
	case "", "yahoo":
		var opts []yahoo.Option
		if cache {
			opts = append(opts, yahoo.Cache(""))
		}
		return yahoo.New(opts...), nil
	case "eodhd":
		key := eodhdAPIKey()
		if key == "" {
			return nil, fmt.Errorf("EODHD API key is not set. Use -eodhd-api-key flag or %s environment variable", eodhd.EnvAPIKey)
		}
		var opts []eodhd.Option
		if cache {
			opts = append(opts, eodhd.Cache(""))
		}
		return eodhd.New(key, opts...)
	default:
		return nil, fmt.Errorf("unknown provider %q, valid ones are %v", name, Providers)
	}
}

// newYieldSource returns the treasury yield scraper, nil if skipped.
func newYieldSource(skip, headful bool) dcfsheet.YieldSource {
	if skip {
		return nil
	}
	return treasury.New(treasury.Headful(headful))
}

// runLog receives the messages of a run, always displayed.
var runLog = log.New(os.Stderr, "", log.LstdFlags)

// printMarkdown renders md on the terminal, or prints it raw if rendering
// fails.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	log.Printf("cannot render markdown: %v", err)
	fmt.Print(md)
}
