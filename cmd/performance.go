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

// performanceCmd holds the flags for the 'performance' subcommand.
type performanceCmd struct {
	from string
	to   string
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "display a portfolio's valuation trend" }
func (*performanceCmd) Usage() string {
	return `sfo performance -from <date> [-to <date>] <portfolio>

  Displays the portfolio value bucketed over the date range. The bucket
  granularity follows the range length: yearly beyond 90 months, three-month
  spans beyond 30, monthly beyond one, daily otherwise.
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Start of the range.")
	f.StringVar(&c.to, "to", stockfolio.Today().String(), "End of the range.")
}

func (c *performanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: performance expects exactly one portfolio name")
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
	series, err := manager.Performance(f.Arg(0), from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing performance: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.PerformanceMarkdown(renderer.NewPerformance(series)))
	return subcommands.ExitSuccess
}
