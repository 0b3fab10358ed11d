package analyzer

import (
	"context"
	"time"

	"github.com/etnz/analyzer/date"
)

// PriceFetcher fetches daily closing prices.
type PriceFetcher interface {
	// Fetch returns the total return (dividend adjusted) and the price return panels of
	// tickers over r. Tickers without data are dropped from the panels.
	Fetch(ctx context.Context, tickers []string, r date.Range) (tr, pr Panel, err error)
	// FetchHistory returns the total return panel of tickers over a lookback period.
	FetchHistory(ctx context.Context, tickers []string, period date.Period) (Panel, error)
}

// IntradayFetcher fetches the price history of a single ticker at any interval.
type IntradayFetcher interface {
	PriceHistory(ctx context.Context, ticker string, period date.Period, interval string) ([]PricePoint, error)
}

// DividendFetcher fetches the dividend payments of a ticker.
//
// An empty history and a nil error mean the ticker pays no dividend. Failures wrap
// ErrExternalFetch.
type DividendFetcher interface {
	DividendHistory(ctx context.Context, ticker string) (*date.History[float64], error)
}

// HoldingsFetcher fetches the top holdings of a fund.
type HoldingsFetcher interface {
	TopHoldings(ctx context.Context, ticker string) ([]string, error)
}

// QuoteFetcher fetches the descriptive data of a ticker.
type QuoteFetcher interface {
	Quote(ctx context.Context, ticker string) (Quote, error)
}

// OverlapScraper fetches an authoritative comparison of two funds.
type OverlapScraper interface {
	Scrape(ctx context.Context, a, b string) (*Scrape, error)
}

// PricePoint is a price at an instant.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// HistoryTimeFormat is the format of PricePoint dates.
const HistoryTimeFormat = "2006-01-02 15:04"

// MarshalJSON encodes {"date": "YYYY-MM-DD HH:MM", "price": p}.
func (p PricePoint) MarshalJSON() ([]byte, error) {
	w := new(jsonObjectWriter)
	w.Append("date", p.Time.Format(HistoryTimeFormat))
	w.Append("price", Round(p.Price, 2))
	return w.MarshalJSON()
}

// Quote is the descriptive data of a ticker. Missing values are NaN or empty.
type Quote struct {
	Name          string
	Currency      string
	Price         float64
	MarketCap     float64
	TrailingPE    float64
	ForwardPE     float64
	PriceToBook   float64
	ReturnOnEq    float64
	DividendYield float64 // fraction
	Beta          float64
	Sector        string
	Description   string
}
