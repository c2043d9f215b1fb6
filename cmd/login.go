package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// loginCmd authorizes access to Google Sheets and saves the token.
type loginCmd struct{}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "authorize access to Google Sheets" }
func (*loginCmd) Usage() string {
	return `dcfs login

  Loads the saved token, refreshes it if expired, or runs the browser
  authorization if there is none. The resulting token is saved.

  See "dcfs topic credentials".
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	loader, err := newLoader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	tok, err := loader.Token(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Token saved in %s, valid until %s\n", loader.TokenFile, tok.Expiry.Local().Format("2006-01-02 15:04"))
	return subcommands.ExitSuccess
}
