package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio"
)

// sellCmd holds the flags for the 'sell' subcommand.
type sellCmd struct {
	date string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares from a portfolio" }
func (*sellCmd) Usage() string {
	return `sfo sell [-d <date>] <portfolio> <symbol> <quantity>

  Sells shares held in the portfolio. The quantity must not exceed the net
  quantity held on or before the sale date.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", stockfolio.Today().String(), "Sale date.")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: sell expects <portfolio> <symbol> <quantity>")
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
	if err := manager.Sell(f.Arg(0), f.Arg(1), quantity, on); err != nil {
		fmt.Fprintf(os.Stderr, "Error selling: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Sold %s %s from %q on %s\n", f.Arg(2), f.Arg(1), f.Arg(0), on)
	return subcommands.ExitSuccess
}
