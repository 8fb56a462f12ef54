package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	date string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a lot to a portfolio" }
func (*addCmd) Usage() string {
	return `sfo add [-d <date>] <portfolio> <symbol> <quantity>

  Adds a lot of shares to the portfolio. A lot with the same symbol and
  purchase date merges into the existing one without a new commission.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", stockfolio.Today().String(), "Purchase date of the lot.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: add expects <portfolio> <symbol> <quantity>")
		return subcommands.ExitUsageError
	}
	on, err := stockfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	quantity, err := stockfolio.ParseQuantity(f.Arg(2))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}

	manager, err := loadManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := manager.AddLot(f.Arg(0), f.Arg(1), quantity, on); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding lot: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Added %s %s to %q on %s\n", f.Arg(2), f.Arg(1), f.Arg(0), on)
	return subcommands.ExitSuccess
}
