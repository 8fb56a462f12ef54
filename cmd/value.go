package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio"
)

// valueCmd holds the flags for the 'value' subcommand.
type valueCmd struct {
	date string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "display a portfolio's market value" }
func (*valueCmd) Usage() string {
	return `sfo value [-d <date>] <portfolio>

  Displays the market value of the lots purchased on or before the date,
  priced at that date. The date must be a trading day.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", stockfolio.Today().String(), "Valuation date.")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: value expects exactly one portfolio name")
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
	value, err := manager.ValueAt(f.Arg(0), on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error valuing portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s is worth %s on %s\n", f.Arg(0), value, on)
	return subcommands.ExitSuccess
}
