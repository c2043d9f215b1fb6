package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/dcfsheet/eodhd"
)

// RunExtension attempts to find and execute an external dcfs-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
//
// Global flags are passed to the extension as environment variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "dcfs-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Printf("External command %q not found in PATH: %v", externalCmdName, err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv()...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv returns the resolved global settings.
func extensionEnv() []string {
	return []string{
		EnvSpreadsheetID + "=" + spreadsheetID(),
		EnvCredentials + "=" + credentialsFile(),
		EnvToken + "=" + tokenFile(),
		EnvTickerRange + "=" + tickerRange(),
		eodhd.EnvAPIKey + "=" + eodhdAPIKey(),
		EnvVerbose + "=" + strconv.FormatBool(Verbose()),
	}
}
