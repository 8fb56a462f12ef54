package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders a markdown report to the terminal, falling back to
// the raw text when styling fails.
func printMarkdown(markdown string) {
	out, err := glamour.RenderWithEnvironmentConfig(markdown)
	if err != nil {
		fmt.Print(markdown)
		return
	}
	fmt.Print(out)
}
