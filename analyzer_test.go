package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/etnz/analyzer/date"
)

// fakePrices serves prices from in-memory histories.
type fakePrices struct {
	tr, pr map[string]*date.History[float64]
	err    error

	mu     sync.Mutex
	ranges []date.Range
	period date.Period
}

func (f *fakePrices) Fetch(_ context.Context, tickers []string, r date.Range) (Panel, Panel, error) {
	f.mu.Lock()
	f.ranges = append(f.ranges, r)
	f.mu.Unlock()
	if f.err != nil {
		return Panel{}, Panel{}, f.err
	}
	within := func(in map[string]*date.History[float64]) map[string]*date.History[float64] {
		out := make(map[string]*date.History[float64])
		for t, h := range in {
			c := new(date.History[float64])
			for on, v := range h.Values() {
				if r.Contains(on) {
					c.Append(on, v)
				}
			}
			out[t] = c
		}
		return out
	}
	return Align(within(f.tr), tickers), Align(within(f.pr), tickers), nil
}

func (f *fakePrices) FetchHistory(ctx context.Context, tickers []string, period date.Period) (Panel, error) {
	f.period = period
	tr, _, err := f.Fetch(ctx, tickers, date.Range{From: date.New(1970, 1, 1), To: date.New(2100, 1, 1)})
	return tr, err
}

type fakeDividends map[string]*date.History[float64]

func (f fakeDividends) DividendHistory(_ context.Context, ticker string) (*date.History[float64], error) {
	h, ok := f[ticker]
	if !ok {
		return nil, fmt.Errorf("dividends %s: %w", ticker, ErrExternalFetch)
	}
	return h, nil
}

type fakeHoldings map[string][]string

func (f fakeHoldings) TopHoldings(_ context.Context, ticker string) ([]string, error) {
	h, ok := f[ticker]
	if !ok {
		return nil, fmt.Errorf("holdings %s: %w", ticker, ErrExternalFetch)
	}
	return h, nil
}

type fakeScraper struct {
	scrape *Scrape
	err    error
}

func (f fakeScraper) Scrape(context.Context, string, string) (*Scrape, error) { return f.scrape, f.err }

type fakeQuotes map[string]Quote

func (f fakeQuotes) Quote(_ context.Context, ticker string) (Quote, error) {
	q, ok := f[ticker]
	if !ok {
		return Quote{}, fmt.Errorf("quote %s: %w", ticker, ErrExternalFetch)
	}
	return q, nil
}

type fakeIntraday struct {
	points []PricePoint
	period date.Period
}

func (f *fakeIntraday) PriceHistory(_ context.Context, _ string, period date.Period, _ string) ([]PricePoint, error) {
	f.period = period
	return f.points, nil
}

// trending returns a daily history from `from` over n days, growing by rate each day and
// wiggling by wiggle on odd days.
func trending(from string, n int, start, rate, wiggle float64) *date.History[float64] {
	h := new(date.History[float64])
	d := date.MustParse(from)
	v := start
	for i := range n {
		w := 0.0
		if i%2 == 1 {
			w = wiggle
		}
		h.Append(d.Add(i), v*(1+w))
		v *= 1 + rate
	}
	return h
}

func newTestAnalyzer() (*Analyzer, *fakePrices) {
	prices := &fakePrices{
		tr: map[string]*date.History[float64]{
			"SPY": trending("2019-01-01", 1900, 100, 0.0004, 0.01),
			"AGG": trending("2019-01-01", 1900, 50, 0.0001, -0.002),
			"GLD": trending("2019-01-01", 1900, 150, 0.0002, 0.004),
		},
		pr: map[string]*date.History[float64]{
			"SPY": trending("2019-01-01", 1900, 100, 0.0003, 0.01),
			"AGG": trending("2019-01-01", 1900, 50, 0, -0.002),
			"GLD": trending("2019-01-01", 1900, 150, 0.0002, 0.004),
		},
	}
	return &Analyzer{Prices: prices}, prices
}

func mustRange(t *testing.T, from, to string) date.Range {
	t.Helper()
	r, err := date.NewRange(from, to)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestAnalyze(t *testing.T) {
	a, _ := newTestAnalyzer()
	res, err := a.Analyze(context.Background(), []string{"spy", "AGG", "GLD"}, mustRange(t, "2020-01-01", "2020-12-31"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(res.Summary) != 3 {
		t.Errorf("len(Summary) = %d, want 3", len(res.Summary))
	}
	if got := res.Summary["SPY"].CAGR.Float(); got <= res.Summary["AGG"].CAGR.Float() {
		t.Errorf("CAGR(SPY) = %v, want more than CAGR(AGG)", got)
	}
	if got := len(res.Charts.Correlation); got != 9 {
		t.Errorf("len(Correlation) = %d, want 9", got)
	}
	if got := len(res.Charts.AllocationCurve); got != 11 {
		t.Fatalf("len(AllocationCurve) = %d, want 11", got)
	}
	if c := res.Charts.AllocationCurve[0]; c.T1 != "SPY" || c.T2 != "AGG" {
		t.Errorf("allocation curve of %s, %s want SPY, AGG", c.T1, c.T2)
	}
	if got := res.Charts.TrendTR.Date(0); got != date.MustParse("2020-01-01") {
		t.Errorf("TrendTR starts %v, want 2020-01-01", got)
	}
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, key := range []string{`"summary"`, `"trend_tr"`, `"trend_pr"`, `"correlation"`, `"allocation_curve"`, `{"date":"2020-01-01","SPY":0,"AGG":0,"GLD":0}`} {
		if !strings.Contains(string(b), key) {
			t.Errorf("Marshal() does not contain %s", key)
		}
	}
}

func TestAnalyzeSingleTicker(t *testing.T) {
	a, _ := newTestAnalyzer()
	res, err := a.Analyze(context.Background(), []string{"SPY", "NODATA"}, mustRange(t, "2020-01-01", "2020-12-31"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Charts.AllocationCurve == nil || len(res.Charts.AllocationCurve) != 0 {
		t.Errorf("AllocationCurve = %v, want an empty list", res.Charts.AllocationCurve)
	}
	if _, ok := res.Summary["NODATA"]; ok {
		t.Errorf("Summary has NODATA, want it dropped")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	a, prices := newTestAnalyzer()
	ctx := context.Background()
	r := mustRange(t, "2020-01-01", "2020-12-31")

	if _, err := a.Analyze(ctx, []string{"NODATA"}, r); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Analyze(no data) error = %v, want ErrInsufficientData", err)
	}
	if _, err := a.Analyze(ctx, []string{"SPY"}, mustRange(t, "2030-01-01", "2030-01-01")); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Analyze(future range) error = %v, want ErrInsufficientData", err)
	}
	if _, err := a.Analyze(ctx, []string{"SP Y"}, r); !errors.Is(err, ErrValidation) {
		t.Errorf("Analyze(invalid ticker) error = %v, want ErrValidation", err)
	}
	if _, err := a.Analyze(ctx, nil, r); !errors.Is(err, ErrValidation) {
		t.Errorf("Analyze(no ticker) error = %v, want ErrValidation", err)
	}
	prices.err = fmt.Errorf("chart: %w", ErrExternalFetch)
	if _, err := a.Analyze(ctx, []string{"SPY"}, r); !errors.Is(err, ErrExternalFetch) {
		t.Errorf("Analyze(upstream down) error = %v, want ErrExternalFetch", err)
	}
}

func TestAdvanced(t *testing.T) {
	a, prices := newTestAnalyzer()
	r := mustRange(t, "2021-01-01", "2021-06-30")
	res, err := a.Advanced(context.Background(), []string{"SPY", "AGG"}, r)
	if err != nil {
		t.Fatalf("Advanced() error = %v", err)
	}
	if got := prices.ranges[0].From; got != date.MustParse("2020-01-01") {
		t.Errorf("fetched from %v, want 366 days before the start", got)
	}
	for name, s := range map[string]Series{"rolling": res.Rolling1y, "drawdowns": res.Drawdowns} {
		if s.Len() == 0 {
			t.Fatalf("%s is empty", name)
		}
		if s.Date(0) != r.From {
			t.Errorf("%s starts %v, want %v", name, s.Date(0), r.From)
		}
	}
	if got := res.Rolling1y.Len(); got != res.Drawdowns.Len() {
		t.Errorf("rolling has %d rows and drawdowns %d, want the same", got, res.Drawdowns.Len())
	}
}

func TestSimulatePair(t *testing.T) {
	a, _ := newTestAnalyzer()
	ctx := context.Background()
	r := mustRange(t, "2020-01-01", "2020-12-31")

	curve, err := a.SimulatePair(ctx, []string{"SPY", "AGG"}, r)
	if err != nil || len(curve) != 11 {
		t.Errorf("SimulatePair() = %d points, %v want 11, nil", len(curve), err)
	}
	for _, tickers := range [][]string{{"SPY"}, {"SPY", "AGG", "GLD"}, {"SPY", "spy"}} {
		if _, err := a.SimulatePair(ctx, tickers, r); !errors.Is(err, ErrValidation) {
			t.Errorf("SimulatePair(%v) error = %v, want ErrValidation", tickers, err)
		}
	}
	if _, err := a.SimulatePair(ctx, []string{"SPY", "NODATA"}, r); !errors.Is(err, ErrInsufficientAssets) {
		t.Errorf("SimulatePair(SPY, NODATA) error = %v, want ErrInsufficientAssets", err)
	}
}

func TestSimulateMulti(t *testing.T) {
	a, prices := newTestAnalyzer()
	a.Simulator = Simulator{Simulations: 100, Rand: seeded(7)}
	points, err := a.SimulateMulti(context.Background(), []string{"SPY", "AGG", "GLD"})
	if err != nil {
		t.Fatalf("SimulateMulti() error = %v", err)
	}
	if len(points) != 100 {
		t.Errorf("len(SimulateMulti()) = %d, want 100", len(points))
	}
	if prices.period != SimulationPeriod {
		t.Errorf("fetched period %q, want %q", prices.period, SimulationPeriod)
	}
	if _, err := a.SimulateMulti(context.Background(), []string{"SPY"}); !errors.Is(err, ErrValidation) {
		t.Errorf("SimulateMulti(1 ticker) error = %v, want ErrValidation", err)
	}
}

func TestOverlap(t *testing.T) {
	holdings := fakeHoldings{
		"SPY": {"AAPL", "MSFT", "NVDA"},
		"QQQ": {"MSFT", "NVDA", "AMZN"},
		"VTI": {"NVDA", "BRK-B"},
	}
	scrape := &Scrape{OverlapPct: 45.5, CommonCount: 210}
	testCases := []struct {
		name       string
		tickers    []string
		scraper    OverlapScraper
		wantSource string
		wantCommon int
	}{
		{"scraped pair", []string{"SPY", "QQQ"}, fakeScraper{scrape: scrape}, SourceScrape, 210},
		{"scrape failure degrades", []string{"SPY", "QQQ"}, fakeScraper{err: errors.New("503")}, SourceLocal, 2},
		{"no scraper", []string{"SPY", "QQQ"}, nil, SourceLocal, 2},
		{"three funds are local", []string{"SPY", "QQQ", "VTI"}, fakeScraper{scrape: scrape}, SourceLocal, 1},
		{"missing holdings degrade", []string{"SPY", "XXX"}, nil, SourceLocal, 3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := &Analyzer{Holdings: holdings, Scraper: tc.scraper}
			res, err := a.Overlap(context.Background(), tc.tickers)
			if err != nil {
				t.Fatalf("Overlap() error = %v", err)
			}
			if res.Overlap.Source != tc.wantSource || res.Overlap.CommonCount != tc.wantCommon {
				t.Errorf("Overlap() = source %q, common %d want %q, %d", res.Overlap.Source, res.Overlap.CommonCount, tc.wantSource, tc.wantCommon)
			}
			if len(res.Holdings) != len(tc.tickers) {
				t.Errorf("Holdings = %v, want one list per ticker", res.Holdings)
			}
			for ticker, list := range res.Holdings {
				if list == nil {
					t.Errorf("Holdings[%s] is nil, want a list", ticker)
				}
			}
		})
	}

	a := &Analyzer{Holdings: holdings}
	if _, err := a.Overlap(context.Background(), []string{"SPY"}); !errors.Is(err, ErrValidation) {
		t.Errorf("Overlap(1 ticker) error = %v, want ErrValidation", err)
	}
}

func TestAnalyzerProjectIncome(t *testing.T) {
	a := &Analyzer{Dividends: fakeDividends{
		"A": hist("2023-03-15", 0.5, "2023-06-15", 0.5, "2023-09-15", 0.5, "2023-12-15", 0.5),
	}}
	p, err := a.ProjectIncome(context.Background(), []Position{{Ticker: "a", Shares: 100}, {Ticker: "FAIL", Shares: 10}})
	if err != nil {
		t.Fatalf("ProjectIncome() error = %v", err)
	}
	b, _ := json.Marshal(p.MonthlyIncome[2])
	if want := `{"name":"Mar","total":50,"A":50,"FAIL":0}`; string(b) != want {
		t.Errorf("March = %s, want %s", b, want)
	}
	if _, err := a.ProjectIncome(context.Background(), []Position{{Ticker: "A", Shares: -1}}); !errors.Is(err, ErrValidation) {
		t.Errorf("ProjectIncome(negative shares) error = %v, want ErrValidation", err)
	}
}

func TestAnalyzerDividendStats(t *testing.T) {
	a := &Analyzer{
		Dividends: fakeDividends{"SCHD": hist("2020-03-01", 0.5, "2024-03-01", 0.7)},
		Quotes:    fakeQuotes{"SCHD": {DividendYield: 0.035}},
	}
	stats, err := a.DividendStats(context.Background(), []string{"SCHD", "FAIL"})
	if err != nil {
		t.Fatalf("DividendStats() error = %v", err)
	}
	if got := stats["SCHD"]; got.Yield.String() != "3.5" || got.YearsGrowth != 4 || got.Frequency != "Quarterly" {
		t.Errorf("stats(SCHD) = %+v, want yield 3.5, 4 years", got)
	}
	if got := stats["FAIL"]; got.Frequency != "N/A" {
		t.Errorf("stats(FAIL).Frequency = %q, want N/A", got.Frequency)
	}
}

func TestStockDetails(t *testing.T) {
	a := &Analyzer{
		Dividends: fakeDividends{"KO": hist("2022-06-01", 1.76, "2023-06-01", 1.84, "2024-06-01", 1.94)},
		Quotes:    fakeQuotes{"KO": {Name: "Coca-Cola", Price: 62.5, Currency: "USD", DividendYield: 0.031}},
	}
	d, err := a.StockDetails(context.Background(), "ko")
	if err != nil {
		t.Fatalf("StockDetails() error = %v", err)
	}
	if d.DividendGrowth.Streak != 2 || len(d.DividendHistory) != 3 {
		t.Errorf("StockDetails() = streak %d, %d years want 2, 3", d.DividendGrowth.Streak, len(d.DividendHistory))
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, key := range []string{`"name":"Coca-Cola"`, `"div_yield":3.1`, `"dividend_growth":{`, `"dividend_history":[{"year":2022,"amount":1.76}`, `"sector":"N/A"`} {
		if !strings.Contains(string(b), key) {
			t.Errorf("Marshal() = %s, does not contain %s", b, key)
		}
	}
	if _, err := a.StockDetails(context.Background(), "PEP"); !errors.Is(err, ErrExternalFetch) {
		t.Errorf("StockDetails(unknown) error = %v, want ErrExternalFetch", err)
	}
}

func TestHistory(t *testing.T) {
	at := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)
	intraday := &fakeIntraday{points: []PricePoint{{Time: at, Price: 470.123}}}
	a := &Analyzer{Intraday: intraday}
	ctx := context.Background()

	points, err := a.History(ctx, "SPY", "3w", "")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if intraday.period != "1y" {
		t.Errorf("unknown period fetched as %q, want 1y", intraday.period)
	}
	b, _ := json.Marshal(points)
	if want := `[{"date":"2024-01-02 14:30","price":470.12}]`; string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
	if _, err := a.History(ctx, "SPY", "1y", "7m"); !errors.Is(err, ErrValidation) {
		t.Errorf("History(bad interval) error = %v, want ErrValidation", err)
	}
	intraday.points = nil
	if _, err := a.History(ctx, "SPY", "1y", "1d"); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("History(no data) error = %v, want ErrInsufficientData", err)
	}
}
