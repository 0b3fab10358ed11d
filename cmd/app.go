// Package cmd implements the CLI application of the investment analyzer.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/analyzer"
	"github.com/etnz/analyzer/config"
	"github.com/etnz/analyzer/eodhd"
	"github.com/etnz/analyzer/etfrc"
	"github.com/etnz/analyzer/yahoo"
)

// command is a subcommand and its group in the help.
type command struct {
	cmd   subcommands.Command
	group string
}

func commands() []command {
	return []command{
		{&serveCmd{}, "server"},
		{&analyzeCmd{}, "analysis"},
		{&advancedCmd{}, "analysis"},
		{&simulateCmd{}, "analysis"},
		{&montecarloCmd{}, "analysis"},
		{&overlapCmd{}, "funds"},
		{&dividendsCmd{}, "income"},
		{&projectCmd{}, "income"},
		{&stockCmd{}, "market"},
		{&historyCmd{}, "market"},
		{&topicCmd{}, "help"},
		{&completionCmd{}, "help"},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range commands() {
		c.Register(cmd.cmd, cmd.group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile   = flag.String("config", "", "Path to a YAML configuration file")
	providerFlag = flag.String("provider", "", "Market data provider ("+strings.Join(config.Providers, ", ")+"). Overrides the configuration")
	eodhdAPIFlag = flag.String("eodhd-api-key", "", "EODHD API key to use for consuming EODHD.com API. This flag takes precedence over the "+config.EnvEODHDAPIKey+" environment variable. You can get one at https://eodhd.com/")
	jsonOutput   = flag.Bool("json", false, "Print raw JSON instead of a markdown report")
	verbose      = flag.Bool("v", false, "Log debug messages")
)

// LoadConfig loads the configuration: defaults, then the -config file, then the environment,
// then the global flags.
func LoadConfig(getenv func(string) string) (config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return cfg, err
	}
	if *providerFlag != "" {
		cfg.Provider = strings.ToLower(*providerFlag)
	}
	if *eodhdAPIFlag != "" {
		cfg.EODHD.APIKey = *eodhdAPIFlag
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}

// NewAnalyzer wires the market data providers selected by cfg.
//
// Holdings and quotes always come from Yahoo, the only source for them.
func NewAnalyzer(cfg config.Config, logger *zap.Logger) *analyzer.Analyzer {
	y := yahoo.NewClient(cfg.Upstream.Timeout, cfg.Upstream.RateLimit)
	y.Logger = logger.Named("yahoo")
	a := &analyzer.Analyzer{
		Prices:     y,
		Intraday:   y,
		Dividends:  y,
		Holdings:   y,
		Quotes:     y,
		Simulator:  analyzer.Simulator{Simulations: cfg.Analysis.Simulations},
		Window:     cfg.Analysis.Window,
		Projection: cfg.ProjectionOptions(),
		Logger:     logger,
	}
	if cfg.Provider == "eodhd" {
		e := eodhd.NewClient(cfg.EODHD.APIKey, cfg.Upstream.Timeout)
		if cfg.EODHD.BaseURL != "" {
			e.BaseURL = cfg.EODHD.BaseURL
		}
		e.Logger = logger.Named("eodhd")
		a.Prices, a.Intraday, a.Dividends = e, e, e
	}
	if cfg.Upstream.Scrape {
		s := etfrc.New(cfg.Upstream.Timeout)
		s.Logger = logger.Named("etfrc")
		a.Scraper = s
	}
	return a
}

// cliLogger logs to stderr in a human readable form.
func cliLogger(cfg config.Config) (*zap.Logger, error) {
	cfg.Log.Format = "console"
	if !*verbose {
		cfg.Log.Level = "warn"
	}
	return cfg.NewLogger()
}

// setup loads the configuration and wires an Analyzer for a one shot command.
func setup() (*analyzer.Analyzer, config.Config, error) {
	cfg, err := LoadConfig(os.Getenv)
	if err != nil {
		return nil, cfg, err
	}
	logger, err := cliLogger(cfg)
	if err != nil {
		return nil, cfg, err
	}
	return NewAnalyzer(cfg, logger), cfg, nil
}

// report prints v as indented JSON with -json, or the markdown md otherwise.
func report(v any, md func() string) subcommands.ExitStatus {
	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(md())
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, or prints it as is when it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
