package analyzer

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/etnz/analyzer/date"
)

// Lookback is the number of calendar days fetched before the start of an advanced analysis so
// that the first rolling window is full.
const Lookback = 366

// SimulationPeriod is the history the multi asset simulation runs on.
const SimulationPeriod date.Period = "5y"

// Intervals lists the valid sampling intervals of a price history.
var Intervals = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}

// Analyzer answers analysis requests by fetching market data and running the computations.
//
// It holds no request state: a single Analyzer serves concurrent requests as long as its
// fetchers do.
type Analyzer struct {
	Prices    PriceFetcher
	Intraday  IntradayFetcher
	Dividends DividendFetcher
	Holdings  HoldingsFetcher
	Quotes    QuoteFetcher
	// Scraper is optional, overlaps are then local only.
	Scraper OverlapScraper

	Simulator  Simulator
	Window     int // rolling window, DefaultWindow when 0
	Projection ProjectionOptions
	Logger     *zap.Logger
}

func (a *Analyzer) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// Analysis is the result of Analyze.
type Analysis struct {
	Summary map[string]Stats `json:"summary"`
	Charts  Charts           `json:"charts"`
}

// Charts holds the series of an Analysis.
type Charts struct {
	TrendTR         Series            `json:"trend_tr"`
	TrendPR         Series            `json:"trend_pr"`
	Correlation     []Correlation     `json:"correlation"`
	AllocationCurve []AllocationPoint `json:"allocation_curve"`
}

// fetch returns the aligned panels, or an ErrInsufficientData when no ticker has data.
func (a *Analyzer) fetch(ctx context.Context, tickers []string, r date.Range) (tr, pr Panel, err error) {
	tr, pr, err = a.Prices.Fetch(ctx, tickers, r)
	if err != nil {
		return Panel{}, Panel{}, err
	}
	if tr.Len() == 0 {
		return Panel{}, Panel{}, fmt.Errorf("%w: no data found for %s over %s", ErrInsufficientData, strings.Join(tickers, ","), r)
	}
	if dropped := missing(tickers, tr.Tickers()); len(dropped) > 0 {
		a.logger().Warn("tickers dropped from analysis", zap.Strings("dropped", dropped), zap.Strings("kept", tr.Tickers()))
	}
	return tr, pr, nil
}

// Analyze computes summary statistics, trends, correlation and the allocation curve of the
// first two tickers with data.
func (a *Analyzer) Analyze(ctx context.Context, tickers []string, r date.Range) (*Analysis, error) {
	tickers, err := SanitizeTickers(tickers)
	if err != nil {
		return nil, err
	}
	tr, pr, err := a.fetch(ctx, tickers, r)
	if err != nil {
		return nil, err
	}
	m, err := ComputeMetrics(tr, pr)
	if err != nil {
		return nil, err
	}
	curve := []AllocationPoint{}
	if len(tr.Tickers()) >= 2 {
		if curve, err = AllocationCurve(m.Returns); err != nil {
			return nil, err
		}
	}
	return &Analysis{
		Summary: m.Stats,
		Charts: Charts{
			TrendTR:         m.TrendTR,
			TrendPR:         m.TrendPR,
			Correlation:     m.Correlation,
			AllocationCurve: curve,
		},
	}, nil
}

// Advanced is the result of Analyzer.Advanced.
type Advanced struct {
	Rolling1y Series `json:"rolling_1y"`
	Drawdowns Series `json:"drawdowns"`
}

// Advanced computes the rolling yearly returns and the drawdowns over r. Data is fetched from
// Lookback days before r.From, results start on r.From.
func (a *Analyzer) Advanced(ctx context.Context, tickers []string, r date.Range) (*Advanced, error) {
	tickers, err := SanitizeTickers(tickers)
	if err != nil {
		return nil, err
	}
	tr, _, err := a.fetch(ctx, tickers, r.Extend(Lookback))
	if err != nil {
		return nil, err
	}
	return &Advanced{
		Rolling1y: RollingReturns(tr, a.Window).Since(r.From),
		Drawdowns: DrawdownSeries(tr).Since(r.From),
	}, nil
}

// SimulatePair computes the allocation curve of exactly two distinct tickers.
func (a *Analyzer) SimulatePair(ctx context.Context, tickers []string, r date.Range) ([]AllocationPoint, error) {
	if len(tickers) != 2 {
		return nil, fmt.Errorf("%w: please select exactly 2 tickers", ErrValidation)
	}
	tickers, err := SanitizeTickers(tickers)
	if err != nil {
		return nil, err
	}
	if tickers[0] == tickers[1] {
		return nil, fmt.Errorf("%w: please select two different tickers", ErrValidation)
	}
	tr, _, err := a.fetch(ctx, tickers, r)
	if err != nil {
		return nil, err
	}
	return AllocationCurve(tr.Returns())
}

// SimulateMulti draws random portfolios of tickers over the last SimulationPeriod.
func (a *Analyzer) SimulateMulti(ctx context.Context, tickers []string) ([]SimulationPoint, error) {
	tickers, err := SanitizeTickers(tickers)
	if err != nil {
		return nil, err
	}
	if len(tickers) < 2 {
		return nil, fmt.Errorf("%w: select at least 2 tickers", ErrValidation)
	}
	p, err := a.Prices.FetchHistory(ctx, tickers, SimulationPeriod)
	if err != nil {
		return nil, err
	}
	return a.Simulator.Run(p.Returns())
}

// OverlapResult is the result of Analyzer.Overlap.
type OverlapResult struct {
	Overlap  Overlap             `json:"overlap"`
	Holdings map[string][]string `json:"holdings"`
}

// Overlap fetches the holdings of every ticker concurrently and computes their overlap. With
// exactly two tickers, a scrape is attempted too and takes precedence when it succeeds.
//
// Holdings or scrape failures degrade the result, they never fail the request.
func (a *Analyzer) Overlap(ctx context.Context, tickers []string) (*OverlapResult, error) {
	tickers, err := SanitizeTickers(tickers)
	if err != nil {
		return nil, err
	}
	if len(tickers) < 2 {
		return nil, fmt.Errorf("%w: select at least 2 ETFs", ErrValidation)
	}
	log := a.logger()

	lists := make([][]string, len(tickers))
	var scrape *Scrape
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tickers {
		g.Go(func() error {
			h, err := a.Holdings.TopHoldings(gctx, t)
			if err != nil {
				log.Warn("holdings unavailable", zap.String("ticker", t), zap.Error(err))
				h = nil
			}
			lists[i] = h
			return nil
		})
	}
	if a.Scraper != nil && len(tickers) == 2 {
		g.Go(func() error {
			s, err := a.Scraper.Scrape(gctx, tickers[0], tickers[1])
			if err != nil {
				log.Warn("overlap scrape failed, using local holdings", zap.Strings("tickers", tickers), zap.Error(err))
				return nil
			}
			scrape = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	holdings := make(map[string][]string, len(tickers))
	for i, t := range tickers {
		if lists[i] == nil {
			lists[i] = []string{}
		}
		holdings[t] = lists[i]
	}
	local, err := LocalOverlap(holdings, tickers)
	if err != nil {
		return nil, err
	}
	return &OverlapResult{Overlap: ReconcileOverlap(local, scrape), Holdings: holdings}, nil
}

// calendars infers the dividend calendar of every ticker. Fetch failures give an empty calendar.
func (a *Analyzer) calendars(ctx context.Context, tickers []string) map[string]Calendar {
	out := make(map[string]Calendar, len(tickers))
	for _, t := range tickers {
		if _, ok := out[t]; ok {
			continue
		}
		h, err := a.Dividends.DividendHistory(ctx, t)
		if err != nil {
			a.logger().Warn("dividend calendar unavailable", zap.String("ticker", t), zap.Error(err))
			out[t] = Calendar{Months: []int{}}
			continue
		}
		out[t] = InferCalendar(h)
		a.logger().Debug("dividend calendar", zap.String("ticker", t), zap.Ints("months", out[t].Months), zap.Float64("avg_amount", out[t].AvgAmount))
	}
	return out
}

// ProjectIncome projects the dividend income of a portfolio.
func (a *Analyzer) ProjectIncome(ctx context.Context, positions []Position) (*Projection, error) {
	positions, err := validatePositions(positions)
	if err != nil {
		return nil, err
	}
	tickers := make([]string, len(positions))
	for i, p := range positions {
		tickers[i] = p.Ticker
	}
	p := ProjectIncome(positions, a.calendars(ctx, tickers), a.Projection)
	return &p, nil
}

// DividendStats summarizes the dividends of every ticker. A ticker whose dividends cannot be
// fetched is reported with zero values and an "N/A" frequency.
func (a *Analyzer) DividendStats(ctx context.Context, tickers []string) (map[string]DividendStats, error) {
	tickers, err := SanitizeTickers(tickers)
	if err != nil {
		return nil, err
	}
	out := make(map[string]DividendStats, len(tickers))
	for _, t := range tickers {
		h, err := a.Dividends.DividendHistory(ctx, t)
		if err != nil {
			a.logger().Warn("dividend stats unavailable", zap.String("ticker", t), zap.Error(err))
			out[t] = unknownDividendStats
			continue
		}
		var yield float64
		if a.Quotes != nil {
			if q, err := a.Quotes.Quote(ctx, t); err == nil && q.DividendYield > 0 {
				yield = q.DividendYield
			}
		}
		out[t] = ComputeDividendStats(h, yield)
	}
	return out, nil
}

// StockDetails is the detail view of a single ticker.
type StockDetails struct {
	Ticker          string
	Quote           Quote
	DividendGrowth  DividendGrowth
	DividendHistory []YearAmount
}

// MarshalJSON encodes the details, missing quote values as null.
func (d StockDetails) MarshalJSON() ([]byte, error) {
	q := d.Quote
	w := new(jsonObjectWriter)
	w.Append("ticker", d.Ticker)
	w.Append("name", q.Name)
	w.Append("price", Round(q.Price, 2))
	w.Append("currency", cmp.Or(q.Currency, "USD"))
	w.Append("marketCap", Round(q.MarketCap, 0))
	w.Append("pe", Round(q.TrailingPE, 2))
	w.Append("forward_pe", Round(q.ForwardPE, 2))
	w.Append("pbr", Round(q.PriceToBook, 2))
	w.Append("roe", Round(q.ReturnOnEq, 4))
	w.Append("div_yield", Round(q.DividendYield*100, 2))
	w.Append("sector", cmp.Or(q.Sector, "N/A"))
	w.Append("description", q.Description)
	w.Append("beta", Round(q.Beta, 2))
	w.Append("dividend_growth", d.DividendGrowth)
	w.Append("dividend_history", d.DividendHistory)
	w.AppendRaw("financials", []byte("[]"))
	w.AppendRaw("sector_weights", []byte("[]"))
	return w.MarshalJSON()
}

// StockDetails fetches the quote and dividend record of ticker.
func (a *Analyzer) StockDetails(ctx context.Context, ticker string) (*StockDetails, error) {
	ticker, err := SanitizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if a.Quotes == nil {
		return nil, fmt.Errorf("%w: no quote provider", ErrExternalFetch)
	}
	q, err := a.Quotes.Quote(ctx, ticker)
	if err != nil {
		return nil, err
	}
	h, err := a.Dividends.DividendHistory(ctx, ticker)
	if err != nil {
		a.logger().Warn("dividend history unavailable", zap.String("ticker", ticker), zap.Error(err))
		h = new(date.History[float64])
	}
	growth, history := ComputeDividendGrowth(h)
	return &StockDetails{Ticker: ticker, Quote: q, DividendGrowth: growth, DividendHistory: history}, nil
}

// History returns the price history of ticker. An unknown period falls back to "1y".
func (a *Analyzer) History(ctx context.Context, ticker, period, interval string) ([]PricePoint, error) {
	ticker, err := SanitizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	p, err := date.ParsePeriod(period)
	if err != nil {
		p = "1y"
	}
	if interval == "" {
		interval = "1d"
	}
	if !slices.Contains(Intervals, interval) {
		return nil, fmt.Errorf("%w: unknown interval %q", ErrValidation, interval)
	}
	if a.Intraday == nil {
		return nil, fmt.Errorf("%w: no history provider", ErrExternalFetch)
	}
	points, err := a.Intraday.PriceHistory(ctx, ticker, p, interval)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no history found for %s", ErrInsufficientData, ticker)
	}
	return points, nil
}

// missing returns the tickers of want absent from got.
func missing(want, got []string) []string {
	var out []string
	for _, t := range want {
		if !slices.Contains(got, t) {
			out = append(out, t)
		}
	}
	return out
}
