// Package cmd implements the dcfs command line application.
package cmd

import (
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&fillCmd{}, "worksheet")
	c.Register(&showCmd{}, "worksheet")
	c.Register(&cellsCmd{}, "worksheet")

	c.Register(&loginCmd{}, "google sheets")

	c.Register(&topicCmd{}, "help")
}
