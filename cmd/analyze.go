package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/analyzer"
	"github.com/etnz/analyzer/date"
	"github.com/etnz/analyzer/renderer"
	"github.com/etnz/analyzer/server"
)

// rangeFlags are the flags of the commands working on a date range.
type rangeFlags struct {
	start string
	end   string
}

func (r *rangeFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.start, "start", server.DefaultStartDate, "Start date of the analysis (YYYY-MM-DD)")
	f.StringVar(&r.end, "end", server.DefaultEndDate, "End date of the analysis (YYYY-MM-DD)")
}

func (r *rangeFlags) parse() (date.Range, error) { return date.NewRange(r.start, r.end) }

type analyzeCmd struct {
	rangeFlags
	chart string
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "compare the performance of tickers" }
func (*analyzeCmd) Usage() string {
	return `analyze [-start <date>] [-end <date>] [-chart <file.png>] <ticker>...

  Reports the CAGR, maximum drawdown and volatility of every ticker, their correlation and the
  allocation curve of the first two.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.SetFlags(f)
	f.StringVar(&c.chart, "chart", "", "Also write the total return chart to this PNG file")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := c.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, _, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	res, err := a.Analyze(ctx, f.Args(), r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.chart != "" {
		png, err := renderer.TrendChart(res.Charts.TrendTR, "Total return "+r.String())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error drawing chart: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(c.chart, png, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return report(res, func() string { return renderer.RenderAnalysis(res, r) })
}

type advancedCmd struct{ rangeFlags }

func (*advancedCmd) Name() string     { return "advanced" }
func (*advancedCmd) Synopsis() string { return "rolling returns and drawdowns of tickers" }
func (*advancedCmd) Usage() string {
	return `advanced [-start <date>] [-end <date>] <ticker>...

  Reports the one year rolling return and the drawdown of every ticker.
`
}

func (c *advancedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := c.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, _, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	res, err := a.Advanced(ctx, f.Args(), r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return report(res, func() string { return renderer.RenderAdvanced(res) })
}

type simulateCmd struct{ rangeFlags }

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "allocation curve of two tickers" }
func (*simulateCmd) Usage() string {
	return `simulate [-start <date>] [-end <date>] <ticker> <ticker>

  Reports the risk and return of the blends of two tickers, by steps of ten percent.
`
}

func (c *simulateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "exactly two tickers must be provided")
		return subcommands.ExitUsageError
	}
	r, err := c.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, _, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	curve, err := a.SimulatePair(ctx, f.Args(), r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return report(map[string]any{"curve": curve}, func() string { return renderer.RenderAllocation(curve) })
}

type montecarloCmd struct {
	simulations int
	top         int
}

func (*montecarloCmd) Name() string     { return "montecarlo" }
func (*montecarloCmd) Synopsis() string { return "random portfolios over tickers" }
func (*montecarloCmd) Usage() string {
	return `montecarlo [-n <simulations>] [-top <n>] <ticker>...

  Draws random long only portfolios over five years of history and reports the best ones by
  Sharpe ratio.
`
}

func (c *montecarloCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.simulations, "n", 0, "Number of portfolios to draw. Defaults to the configuration")
	f.IntVar(&c.top, "top", 10, "Number of portfolios to report")
}

func (c *montecarloCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, _, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.simulations > 0 {
		a.Simulator = analyzer.Simulator{Simulations: c.simulations}
	}
	points, err := a.SimulateMulti(ctx, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return report(map[string]any{"simulation": points}, func() string { return renderer.RenderSimulation(points, c.top) })
}
