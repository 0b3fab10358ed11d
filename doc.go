// Package analyzer computes investment analytics over market data.
//
// The core is made of pure functions over a Panel, a date indexed table of prices with no
// holes built by Align from per ticker histories:
//   - ComputeMetrics: CAGR, maximum drawdown, annualized volatility, correlation of daily
//     returns and normalized trends.
//   - RollingReturns and DrawdownSeries: derived time series.
//   - AllocationCurve: risk and return of the blends of two assets.
//   - Simulator: random long-only portfolios over many assets.
//   - InferCalendar and ProjectIncome: dividend calendar and income projection.
//   - LocalOverlap and ReconcileOverlap: holdings overlap of funds.
//   - ComputeDividendStats and ComputeDividendGrowth: dividend record summaries.
//
// Analyzer wires these computations to the market data interfaces (PriceFetcher,
// DividendFetcher, HoldingsFetcher, QuoteFetcher, OverlapScraper). Implementations live in
// the yahoo, eodhd and etfrc packages.
//
// Results are JSON ready: floats are rounded at serialization time with Number, non finite
// values are written as null, and records keep their keys in column order.
//
// Errors wrap one of ErrValidation, ErrInsufficientData, ErrInsufficientAssets or
// ErrExternalFetch.
package analyzer
