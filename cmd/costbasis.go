package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio"
)

// costBasisCmd holds the flags for the 'costbasis' subcommand.
type costBasisCmd struct {
	date string
}

func (*costBasisCmd) Name() string     { return "costbasis" }
func (*costBasisCmd) Synopsis() string { return "display a portfolio's cost basis" }
func (*costBasisCmd) Usage() string {
	return `sfo costbasis [-d <date>] <portfolio>

  Displays the cumulative money spent acquiring the holdings as of the date,
  commissions included.
`
}

func (c *costBasisCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", stockfolio.Today().String(), "Cost basis date.")
}

func (c *costBasisCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: costbasis expects exactly one portfolio name")
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
	basis, err := manager.CostBasisAt(f.Arg(0), on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing cost basis: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s cost %s as of %s\n", f.Arg(0), basis, on)
	return subcommands.ExitSuccess
}
