package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/analyzer"
	"github.com/etnz/analyzer/renderer"
)

type stockCmd struct{}

func (*stockCmd) Name() string     { return "stock" }
func (*stockCmd) Synopsis() string { return "details of a ticker" }
func (*stockCmd) Usage() string {
	return `stock <ticker>

  Displays the quote, the valuation ratios and the dividend record of a ticker.
`
}

func (c *stockCmd) SetFlags(f *flag.FlagSet) {}

func (c *stockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one ticker must be provided")
		return subcommands.ExitUsageError
	}
	a, _, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	d, err := a.StockDetails(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return report(d, func() string { return renderer.RenderStockDetails(d) })
}

type historyCmd struct {
	period   string
	interval string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the price history of a ticker" }
func (*historyCmd) Usage() string {
	return `history [-p <period>] [-i <interval>] <ticker>

  Displays the price of a ticker over a lookback period.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "1y", "lookback period (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)")
	f.StringVar(&c.interval, "i", "1d", "sampling interval (1m, 5m, 1h, 1d, 1wk, 1mo...)")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one ticker must be provided")
		return subcommands.ExitUsageError
	}
	a, _, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	points, err := a.History(ctx, f.Arg(0), c.period, c.interval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if *jsonOutput {
		return report(points, nil)
	}
	fmt.Printf("Date\t\t\tPrice\n")
	for _, p := range points {
		fmt.Printf("%s\t%.2f\n", p.Time.Format(analyzer.HistoryTimeFormat), p.Price)
	}
	return subcommands.ExitSuccess
}
