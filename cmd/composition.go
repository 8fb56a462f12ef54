package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio"
	"github.com/stockfolio/stockfolio/renderer"
)

// compositionCmd holds the flags for the 'composition' subcommand.
type compositionCmd struct {
	date string
}

func (*compositionCmd) Name() string     { return "composition" }
func (*compositionCmd) Synopsis() string { return "display the lots held as of a date" }
func (*compositionCmd) Usage() string {
	return `sfo composition [-d <date>] <portfolio>

  Displays the lots purchased on or before the date, ordered by purchase date.
`
}

func (c *compositionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", stockfolio.Today().String(), "Composition date.")
}

func (c *compositionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: composition expects exactly one portfolio name")
		return subcommands.ExitUsageError
	}
	on, err := stockfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	manager, err := loadManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	lots, err := manager.Composition(f.Arg(0), on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing composition: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.CompositionMarkdown(f.Arg(0), on, lots))
	return subcommands.ExitSuccess
}
