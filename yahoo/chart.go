package yahoo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/etnz/analyzer"
	"github.com/etnz/analyzer/date"
)

// chart is the normalized content of a chart API response.
type chart struct {
	times     []time.Time // in the exchange time zone
	adjclose  []float64   // close when the response has no adjusted close
	close     []float64
	dividends []dividend
}

type dividend struct {
	time   time.Time
	amount float64
}

// parseChart normalizes a chart API response.
//
//	{"chart": {"result": [{
//		"meta": {"gmtoffset": -18000, ...},
//		"timestamp": [1704205800, ...],
//		"events": {"dividends": {"1711027800": {"amount": 1.595, "date": 1711027800}}},
//		"indicators": {
//			"quote": [{"close": [472.6, ...], ...}],
//			"adjclose": [{"adjclose": [460.1, ...]}]
//		}
//	}], "error": null}}
func parseChart(jobj any) (*chart, error) {
	if err := upstreamError("$.chart.error", jobj); err != nil {
		return nil, err
	}
	offset := optFloat("$.chart.result[0].meta.gmtoffset", jobj)
	if math.IsNaN(offset) {
		offset = 0
	}
	zone := time.FixedZone("", int(offset))

	c := new(chart)
	ts, err := lookup("$.chart.result[0].timestamp", jobj, false)
	if err != nil {
		// a range without trading days has no timestamp at all
		if _, ok := optMap("$.chart.result[0].meta", jobj); ok {
			return c, nil
		}
		return nil, err
	}
	stamps, ok := ts.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: timestamp is not a list: %T", analyzer.ErrMalformedSchema, ts)
	}
	for _, s := range stamps {
		f, ok := s.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: timestamp %v is not a number", analyzer.ErrMalformedSchema, s)
		}
		c.times = append(c.times, time.Unix(int64(f), 0).In(zone))
	}

	if c.close, err = floats("$.chart.result[0].indicators.quote[0].close", jobj); err != nil {
		return nil, err
	}
	if c.adjclose, err = floats("$.chart.result[0].indicators.adjclose[0].adjclose", jobj); err != nil {
		// intraday and some indices have no adjusted close
		c.adjclose = c.close
	}
	if len(c.close) != len(c.times) || len(c.adjclose) != len(c.times) {
		return nil, fmt.Errorf("%w: %d timestamps for %d closes and %d adjusted closes", analyzer.ErrMalformedSchema, len(c.times), len(c.close), len(c.adjclose))
	}

	if divs, ok := optMap("$.chart.result[0].events.dividends", jobj); ok {
		for _, v := range divs {
			d, ok := v.(map[string]any)
			if !ok {
				continue
			}
			when, amount := toFloat(d["date"]), toFloat(d["amount"])
			if math.IsNaN(when) || math.IsNaN(amount) || amount <= 0 {
				continue
			}
			c.dividends = append(c.dividends, dividend{time: time.Unix(int64(when), 0).In(zone), amount: amount})
		}
		sort.Slice(c.dividends, func(i, j int) bool { return c.dividends[i].time.Before(c.dividends[j].time) })
	}
	return c, nil
}

// daily returns the adjusted close and close as daily histories.
func (c *chart) daily() (adjusted, closing *date.History[float64]) {
	adjusted, closing = new(date.History[float64]), new(date.History[float64])
	for i, t := range c.times {
		day := date.Of(t)
		adjusted.Append(day, c.adjclose[i])
		closing.Append(day, c.close[i])
	}
	return adjusted, closing
}

// chart fetches the chart of ticker with the given query parameters.
func (c *Client) chart(ctx context.Context, ticker string, query url.Values) (*chart, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", strings.TrimSuffix(c.BaseURL, "/"), url.PathEscape(ticker), query.Encode())
	jobj, _, err := c.get(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", ticker, err)
	}
	ch, err := parseChart(jobj)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", ticker, err)
	}
	return ch, nil
}

// dailyQuery returns the query of daily bars over r, bounds included.
func dailyQuery(r date.Range) url.Values {
	return url.Values{
		"period1":  {fmt.Sprint(r.From.Unix())},
		"period2":  {fmt.Sprint(r.To.Add(1).Unix())},
		"interval": {"1d"},
		"events":   {"div"},
	}
}

// periodQuery returns the query of bars at interval over the last period.
func periodQuery(period date.Period, interval string) url.Values {
	return url.Values{
		"range":    {string(period)},
		"interval": {interval},
		"events":   {"div"},
	}
}

// fetchAll fetches the daily histories of tickers concurrently.
//
// Tickers that fail are logged and dropped, fetchAll fails only when none could be fetched.
func (c *Client) fetchAll(ctx context.Context, tickers []string, query url.Values, within func(date.Date) bool) (adjusted, closing map[string]*date.History[float64], err error) {
	charts := make([]*chart, len(tickers))
	errs := make([]error, len(tickers))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tickers {
		g.Go(func() error {
			charts[i], errs[i] = c.chart(gctx, t, query)
			return nil
		})
	}
	g.Wait()

	adjusted = make(map[string]*date.History[float64], len(tickers))
	closing = make(map[string]*date.History[float64], len(tickers))
	for i, t := range tickers {
		if errs[i] != nil {
			c.logger().Warn("yahoo prices unavailable", zap.String("ticker", t), zap.Error(errs[i]))
			continue
		}
		a, cl := charts[i].daily()
		if within != nil {
			a, cl = restrict(a, within), restrict(cl, within)
		}
		adjusted[t], closing[t] = a, cl
	}
	if len(adjusted) == 0 {
		if err := errors.Join(errs...); err != nil {
			return nil, nil, err
		}
	}
	return adjusted, closing, nil
}

func restrict(h *date.History[float64], keep func(date.Date) bool) *date.History[float64] {
	out := new(date.History[float64])
	for d, v := range h.Values() {
		if keep(d) {
			out.Append(d, v)
		}
	}
	return out
}

// Fetch implements analyzer.PriceFetcher.
func (c *Client) Fetch(ctx context.Context, tickers []string, r date.Range) (tr, pr analyzer.Panel, err error) {
	adjusted, closing, err := c.fetchAll(ctx, tickers, dailyQuery(r), r.Contains)
	if err != nil {
		return analyzer.Panel{}, analyzer.Panel{}, err
	}
	return analyzer.Align(adjusted, tickers), analyzer.Align(closing, tickers), nil
}

// FetchHistory implements analyzer.PriceFetcher.
func (c *Client) FetchHistory(ctx context.Context, tickers []string, period date.Period) (analyzer.Panel, error) {
	adjusted, _, err := c.fetchAll(ctx, tickers, periodQuery(period, "1d"), nil)
	if err != nil {
		return analyzer.Panel{}, err
	}
	return analyzer.Align(adjusted, tickers), nil
}

// PriceHistory implements analyzer.IntradayFetcher. Prices are the adjusted close when
// available, the close otherwise. Bars without a price are skipped.
func (c *Client) PriceHistory(ctx context.Context, ticker string, period date.Period, interval string) ([]analyzer.PricePoint, error) {
	ch, err := c.chart(ctx, ticker, periodQuery(period, interval))
	if err != nil {
		return nil, err
	}
	points := make([]analyzer.PricePoint, 0, len(ch.times))
	for i, t := range ch.times {
		p := ch.adjclose[i]
		if math.IsNaN(p) {
			continue
		}
		points = append(points, analyzer.PricePoint{Time: t, Price: p})
	}
	return points, nil
}

// DividendHistory implements analyzer.DividendFetcher.
func (c *Client) DividendHistory(ctx context.Context, ticker string) (*date.History[float64], error) {
	ch, err := c.chart(ctx, ticker, periodQuery("max", "1mo"))
	if err != nil {
		return nil, err
	}
	h := new(date.History[float64])
	for _, d := range ch.dividends {
		day := date.Of(d.time)
		// two payments on the same day are one dividend
		v, _ := h.Get(day)
		h.Append(day, v+d.amount)
	}
	return h, nil
}

// optMap reads an optional object at path.
func optMap(path string, jobj any) (map[string]any, bool) {
	jval, err := lookup(path, jobj, true)
	if err != nil {
		return nil, false
	}
	m, ok := jval.(map[string]any)
	return m, ok
}

// toFloat converts a JSON number into a float64, anything else is NaN.
func toFloat(v any) float64 {
	f, ok := v.(float64)
	if !ok {
		return math.NaN()
	}
	return f
}
