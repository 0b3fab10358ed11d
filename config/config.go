// Package config loads the settings of the analyzer service.
//
// Settings come from defaults, then an optional YAML file, then the environment. Command
// flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/etnz/analyzer"
)

// Providers lists the market data providers.
var Providers = []string{"yahoo", "eodhd"}

// Environment variables read by ApplyEnv.
const (
	EnvPort        = "PORT"
	EnvFrontendURL = "FRONTEND_URL"
	EnvEODHDAPIKey = "EODHD_API_KEY"
	EnvProvider    = "ANALYZER_PROVIDER"
	EnvLogLevel    = "LOG_LEVEL"
)

// Config is the service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Provider   string           `yaml:"provider"`
	EODHD      EODHDConfig      `yaml:"eodhd"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Projection ProjectionConfig `yaml:"projection"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// AllowedOrigins are the CORS origins of the dashboard.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// EODHDConfig configures the EODHD provider.
type EODHDConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// UpstreamConfig configures the requests to market data sources.
type UpstreamConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// RateLimit is the maximum number of Yahoo requests per second, 0 for none.
	RateLimit float64 `yaml:"rate_limit"`
	// Scrape enables the etfrc.com overlap scrape.
	Scrape bool `yaml:"scrape"`
}

// AnalysisConfig configures the computations.
type AnalysisConfig struct {
	Simulations int `yaml:"simulations"`
	Window      int `yaml:"window"`
}

// ProjectionConfig configures the dividend income projection.
type ProjectionConfig struct {
	UnitPrice        map[string]float64 `yaml:"unit_price"`
	DefaultUnitPrice float64            `yaml:"default_unit_price"`
	GrowthRate       float64            `yaml:"growth_rate"`
	Years            int                `yaml:"years"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Provider: "yahoo",
		Upstream: UpstreamConfig{
			Timeout:   10 * time.Second,
			RateLimit: 5,
			Scrape:    true,
		},
		Analysis: AnalysisConfig{
			Simulations: analyzer.DefaultSimulations,
			Window:      analyzer.DefaultWindow,
		},
		Projection: ProjectionConfig{
			DefaultUnitPrice: analyzer.DefaultUnitPrice,
			GrowthRate:       analyzer.DefaultGrowthRate,
			Years:            analyzer.DefaultProjectionYears,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load returns the default configuration overridden by the YAML file at path. An empty path
// loads the defaults only.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config %q: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides the configuration with the environment read by getenv (os.Getenv in
// production).
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if port := getenv(EnvPort); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, port, err)
		}
		c.Server.Addr = ":" + port
	}
	if u := strings.TrimSpace(getenv(EnvFrontendURL)); u != "" {
		c.Server.AllowedOrigins = appendUnique(c.Server.AllowedOrigins, strings.TrimSuffix(u, "/"))
	}
	if key := getenv(EnvEODHDAPIKey); key != "" {
		c.EODHD.APIKey = key
	}
	if p := getenv(EnvProvider); p != "" {
		c.Provider = strings.ToLower(p)
	}
	if l := getenv(EnvLogLevel); l != "" {
		c.Log.Level = l
	}
	return nil
}

// Validate checks the consistency of the configuration.
func (c Config) Validate() error {
	var errs []error
	switch c.Provider {
	case "yahoo":
	case "eodhd":
		if c.EODHD.APIKey == "" {
			errs = append(errs, fmt.Errorf("provider eodhd requires an API key, use %s or eodhd.api_key", EnvEODHDAPIKey))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q, want one of %s", c.Provider, strings.Join(Providers, ", ")))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is empty"))
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("upstream.timeout must be positive, got %v", c.Upstream.Timeout))
	}
	if c.Upstream.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("upstream.rate_limit must not be negative, got %v", c.Upstream.RateLimit))
	}
	if c.Analysis.Simulations <= 0 {
		errs = append(errs, fmt.Errorf("analysis.simulations must be positive, got %d", c.Analysis.Simulations))
	}
	if c.Analysis.Window <= 0 {
		errs = append(errs, fmt.Errorf("analysis.window must be positive, got %d", c.Analysis.Window))
	}
	if c.Projection.Years <= 0 {
		errs = append(errs, fmt.Errorf("projection.years must be positive, got %d", c.Projection.Years))
	}
	for t, p := range c.Projection.UnitPrice {
		if p <= 0 {
			errs = append(errs, fmt.Errorf("projection.unit_price of %s must be positive, got %v", t, p))
		}
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("unknown log.format %q, want json or console", c.Log.Format))
	}
	return errors.Join(errs...)
}

// ProjectionOptions returns the options of the income projection.
func (c Config) ProjectionOptions() analyzer.ProjectionOptions {
	return analyzer.ProjectionOptions{
		UnitPrice:        c.Projection.UnitPrice,
		DefaultUnitPrice: c.Projection.DefaultUnitPrice,
		GrowthRate:       c.Projection.GrowthRate,
		Years:            c.Projection.Years,
	}
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
