package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the portfolio names" }
func (*listCmd) Usage() string {
	return `sfo list

  Lists the managed portfolios.
`
}
func (*listCmd) SetFlags(*flag.FlagSet) {}

func (c *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	manager, err := loadManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, name := range manager.Names() {
		fmt.Println(name)
	}
	return subcommands.ExitSuccess
}
