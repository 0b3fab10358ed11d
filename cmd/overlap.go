package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/analyzer/renderer"
)

type overlapCmd struct{}

func (*overlapCmd) Name() string     { return "overlap" }
func (*overlapCmd) Synopsis() string { return "holdings overlap of funds" }
func (*overlapCmd) Usage() string {
	return `overlap <fund> <fund>...

  Reports the holdings shared by funds. With two funds, the overlap percentage and the sector
  drift are scraped from etfrc.com when the scrape is enabled.
`
}

func (c *overlapCmd) SetFlags(f *flag.FlagSet) {}

func (c *overlapCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "at least two funds must be provided")
		return subcommands.ExitUsageError
	}
	a, _, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	res, err := a.Overlap(ctx, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return report(res, func() string { return renderer.RenderOverlap(res) })
}
