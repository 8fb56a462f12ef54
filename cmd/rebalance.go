package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio"
)

// rebalanceCmd holds the flags for the 'rebalance' subcommand.
type rebalanceCmd struct {
	date    string
	targets percentsFlag
}

func (*rebalanceCmd) Name() string     { return "rebalance" }
func (*rebalanceCmd) Synopsis() string { return "rebalance a portfolio to a target allocation" }
func (*rebalanceCmd) Usage() string {
	return `sfo rebalance [-d <date>] -t SYMBOL=PERCENT[,SYMBOL=PERCENT...] <portfolio>

  Buys and sells shares so each symbol's share of the portfolio value
  matches its target percentage as of the date. Percentages must sum to 100.
`
}

func (c *rebalanceCmd) SetFlags(f *flag.FlagSet) {
	c.targets = make(percentsFlag)
	f.StringVar(&c.date, "d", stockfolio.Today().String(), "Rebalance date.")
	f.Var(c.targets, "t", "Target allocation as SYMBOL=PERCENT pairs. Repeatable.")
}

func (c *rebalanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: rebalance expects exactly one portfolio name")
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
	if err := manager.Rebalance(f.Arg(0), on, c.targets); err != nil {
		fmt.Fprintf(os.Stderr, "Error rebalancing: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Rebalanced %q as of %s\n", f.Arg(0), on)
	return subcommands.ExitSuccess
}
