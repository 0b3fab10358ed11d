package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/analyzer"
	"github.com/etnz/analyzer/renderer"
)

type dividendsCmd struct{}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "dividend statistics of tickers" }
func (*dividendsCmd) Usage() string {
	return `dividends <ticker>...

  Reports the trailing yield, the five years dividend growth and the dividend record of every
  ticker.
`
}

func (c *dividendsCmd) SetFlags(f *flag.FlagSet) {}

func (c *dividendsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, _, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	stats, err := a.DividendStats(ctx, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return report(stats, func() string { return renderer.RenderDividendStats(stats) })
}

type projectCmd struct {
	file     string
	currency string
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project the dividend income of a portfolio" }
func (*projectCmd) Usage() string {
	return `project [-f <portfolio.json>] [-currency <code>] [<ticker>:<shares>[:<monthly>]]...

  Projects the monthly dividend calendar and ten years of income of a portfolio. Positions are
  read from a JSON file, the request body of /api/project_income, or from the arguments.
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "JSON file with the portfolio positions")
	f.StringVar(&c.currency, "currency", "USD", "Currency of the amounts")
}

func (c *projectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var positions []analyzer.Position
	if c.file != "" {
		data, err := os.ReadFile(c.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading portfolio: %v\n", err)
			return subcommands.ExitFailure
		}
		if positions, err = decodePortfolio(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	for _, arg := range f.Args() {
		p, err := parsePosition(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		positions = append(positions, p)
	}

	a, _, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	p, err := a.ProjectIncome(ctx, positions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return report(p, func() string { return renderer.RenderProjection(p, c.currency) })
}

// decodePortfolio decodes a list of positions, bare or wrapped in {"portfolio": [...]}.
func decodePortfolio(data []byte) ([]analyzer.Position, error) {
	var positions []analyzer.Position
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &positions); err != nil {
			return nil, fmt.Errorf("invalid portfolio: %w", err)
		}
		return positions, nil
	}
	var req struct {
		Portfolio []analyzer.Position `json:"portfolio"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid portfolio: %w", err)
	}
	return req.Portfolio, nil
}

// parsePosition parses "<ticker>:<shares>[:<monthly contribution>]".
func parsePosition(arg string) (analyzer.Position, error) {
	parts := strings.Split(arg, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return analyzer.Position{}, fmt.Errorf("invalid position %q, want <ticker>:<shares>[:<monthly>]", arg)
	}
	p := analyzer.Position{Ticker: parts[0]}
	var err error
	if p.Shares, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return analyzer.Position{}, fmt.Errorf("invalid shares in %q: %w", arg, err)
	}
	if len(parts) == 3 {
		if p.MonthlyContribution, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return analyzer.Position{}, fmt.Errorf("invalid monthly contribution in %q: %w", arg, err)
		}
	}
	return p, nil
}
