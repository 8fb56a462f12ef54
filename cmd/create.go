package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
)

// createCmd holds the flags for the 'create' subcommand.
type createCmd struct {
	file string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a portfolio from a bulk lot import" }
func (*createCmd) Usage() string {
	return `sfo create [-f <file>] <name>

  Creates a named portfolio from symbol,quantity,date lines. Quantities must
  be positive whole share counts. Reads standard input when no file is given.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "File with symbol,quantity,date lines. Defaults to standard input.")
}

func (c *createCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: create expects exactly one portfolio name")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)

	var in io.Reader = os.Stdin
	if c.file != "" {
		file, err := os.Open(c.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening import file: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		in = file
	}

	manager, err := loadManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	p, err := manager.Create(name, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating portfolio %q: %v\n", name, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Created portfolio %q with %d lots\n", name, len(p.Lots()))
	return subcommands.ExitSuccess
}
