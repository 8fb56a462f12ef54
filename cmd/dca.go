package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio"
)

// dcaCmd holds the flags for the 'dca' subcommand.
type dcaCmd struct {
	amount      float64
	from        string
	to          string
	every       int
	proportions percentsFlag
}

func (*dcaCmd) Name() string     { return "dca" }
func (*dcaCmd) Synopsis() string { return "create a portfolio by dollar-cost averaging" }
func (*dcaCmd) Usage() string {
	return `sfo dca -amount <usd> -from <date> -to <date> [-every <days>] -t SYMBOL=PERCENT[,...] <name>

  Creates a new portfolio and invests the amount at each interval across the
  date range, split between symbols by the given proportions. Each purchase
  lands on the nearest valid market date at or after its scheduled date.
`
}

func (c *dcaCmd) SetFlags(f *flag.FlagSet) {
	c.proportions = make(percentsFlag)
	f.Float64Var(&c.amount, "amount", 0, "Amount invested at each interval, in USD.")
	f.StringVar(&c.from, "from", "", "Start of the investment range.")
	f.StringVar(&c.to, "to", stockfolio.Today().String(), "End of the investment range.")
	f.IntVar(&c.every, "every", 30, "Days between investments.")
	f.Var(c.proportions, "t", "Investment split as SYMBOL=PERCENT pairs. Repeatable.")
}

func (c *dcaCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: dca expects exactly one portfolio name")
		return subcommands.ExitUsageError
	}
	from, err := stockfolio.ParseDate(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := stockfolio.ParseDate(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}

	manager, err := loadManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	amount := stockfolio.USD(c.amount)
	if err := manager.DollarCostAverage(f.Arg(0), amount, from, to, c.every, c.proportions); err != nil {
		fmt.Fprintf(os.Stderr, "Error dollar-cost averaging: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Created portfolio %q investing %s every %d days from %s to %s\n",
		f.Arg(0), amount, c.every, from, to)
	return subcommands.ExitSuccess
}
