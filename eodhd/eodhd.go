// Package eodhd implements the market data interfaces of the analyzer package on top of the
// EODHD end of day API.
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/etnz/analyzer"
	"github.com/etnz/analyzer/date"
)

// DefaultBaseURL is the EODHD API root.
const DefaultBaseURL = "https://eodhd.com"

// dividendsFrom is the first day of the dividend history requested.
var dividendsFrom = date.New(1970, time.January, 1)

// Client fetches daily prices and dividends from EODHD.
//
// Tickers are given in Yahoo style: a ticker without an exchange suffix is a US listing, and
// an index starts with "^".
type Client struct {
	APIKey     string
	BaseURL    string // DefaultBaseURL when empty
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient returns a Client for apiKey whose requests time out after timeout.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) base() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(c.BaseURL, "/")
}

func (c *Client) client() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Symbol converts a ticker into the EODHD "SYMBOL.EXCHANGE" format.
func Symbol(ticker string) string {
	if s, ok := strings.CutPrefix(ticker, "^"); ok {
		return s + ".INDX"
	}
	if strings.Contains(ticker, ".") {
		return ticker
	}
	return ticker + ".US"
}

// Fetch implements analyzer.PriceFetcher.
//
// Tickers that fail are logged and dropped, Fetch fails only when none could be fetched.
func (c *Client) Fetch(ctx context.Context, tickers []string, r date.Range) (tr, pr analyzer.Panel, err error) {
	adjusted := make(map[string]*date.History[float64], len(tickers))
	closing := make(map[string]*date.History[float64], len(tickers))
	var errs []error
	for _, t := range tickers {
		a, cl, err := c.fetchPrices(ctx, Symbol(t), r.From, r.To)
		if err != nil {
			c.logger().Warn("eodhd prices unavailable", zap.String("ticker", t), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		adjusted[t], closing[t] = a, cl
	}
	if len(adjusted) == 0 && len(errs) > 0 {
		return analyzer.Panel{}, analyzer.Panel{}, errors.Join(errs...)
	}
	tr = analyzer.Align(adjusted, tickers)
	// price return is restricted to the tickers and days of the total return
	pr = analyzer.Align(closing, tr.Tickers())
	keep := make(map[date.Date]bool, tr.Len())
	for _, d := range tr.Dates() {
		keep[d] = true
	}
	pr = pr.Filter(func(d date.Date) bool { return keep[d] })
	return tr, pr, nil
}

// FetchHistory implements analyzer.PriceFetcher.
func (c *Client) FetchHistory(ctx context.Context, tickers []string, period date.Period) (analyzer.Panel, error) {
	tr, _, err := c.Fetch(ctx, tickers, period.Range(date.Today()))
	return tr, err
}

// DividendHistory implements analyzer.DividendFetcher.
func (c *Client) DividendHistory(ctx context.Context, ticker string) (*date.History[float64], error) {
	return c.fetchDividends(ctx, Symbol(ticker), dividendsFrom)
}

// PriceHistory implements analyzer.IntradayFetcher. EODHD end of day data only supports the
// daily interval.
func (c *Client) PriceHistory(ctx context.Context, ticker string, period date.Period, interval string) ([]analyzer.PricePoint, error) {
	if interval != "1d" {
		return nil, fmt.Errorf("%w: interval %q is not supported by eodhd, only 1d", analyzer.ErrValidation, interval)
	}
	r := period.Range(date.Today())
	_, closing, err := c.fetchPrices(ctx, Symbol(ticker), r.From, r.To)
	if err != nil {
		return nil, err
	}
	points := make([]analyzer.PricePoint, 0, closing.Len())
	for d, v := range closing.Values() {
		points = append(points, analyzer.PricePoint{Time: d.Time(), Price: v})
	}
	return points, nil
}
