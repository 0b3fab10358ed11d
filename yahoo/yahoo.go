// Package yahoo implements the market data interfaces of the analyzer package on top of the
// Yahoo Finance chart and quoteSummary APIs.
//
// Upstream payloads are decoded into generic JSON and read with jsonpath: a payload that does
// not have the expected shape is reported as analyzer.ErrMalformedSchema.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/etnz/analyzer"
)

const (
	// DefaultBaseURL serves the chart API.
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	// DefaultSummaryURL serves the quoteSummary API.
	DefaultSummaryURL = "https://query2.finance.yahoo.com"
	// UserAgent is sent with every request, Yahoo rejects the default Go one.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Client queries Yahoo Finance.
//
// Requests are paced by Limiter, shared by all the goroutines using the Client.
type Client struct {
	BaseURL    string
	SummaryURL string
	HTTPClient *http.Client
	Limiter    *rate.Limiter // unlimited when nil
	Logger     *zap.Logger
}

// NewClient returns a Client whose requests time out after timeout and that sends at most rps
// requests per second. rps <= 0 disables the pacing.
func NewClient(timeout time.Duration, rps float64) *Client {
	c := &Client{
		BaseURL:    DefaultBaseURL,
		SummaryURL: DefaultSummaryURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if rps > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}
	return c
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Client) client() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// get fetches addr and decodes the body as generic JSON.
//
// Yahoo reports unknown symbols with a 404 and a JSON error body: the body is decoded for any
// status so that the caller can read the upstream error message.
func (c *Client) get(ctx context.Context, addr string) (any, int, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", analyzer.ErrExternalFetch, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client().Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", analyzer.ErrExternalFetch, err)
	}
	defer resp.Body.Close()
	c.logger().Debug("yahoo request", zap.String("path", req.URL.Path), zap.Int("status", resp.StatusCode), zap.Duration("latency", time.Since(start)))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %w", analyzer.ErrExternalFetch, err)
	}
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, resp.StatusCode, fmt.Errorf("%w: cannot http GET %v: %v", analyzer.ErrExternalFetch, req.URL.Path, resp.Status)
		}
		return nil, resp.StatusCode, fmt.Errorf("%w: %w", analyzer.ErrMalformedSchema, err)
	}
	return jobj, resp.StatusCode, nil
}

// upstreamError returns the error reported by Yahoo at path, nil when there is none.
func upstreamError(path string, jobj any) error {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil || jval == nil {
		return nil
	}
	if m, ok := jval.(map[string]any); ok {
		if desc, ok := m["description"].(string); ok {
			return fmt.Errorf("%w: %s", analyzer.ErrExternalFetch, desc)
		}
	}
	return fmt.Errorf("%w: %v", analyzer.ErrExternalFetch, jval)
}

// lookup reads path in jobj.
//
// jsonpath is never clear about whether it returns a list of 1 answer or a single answer:
// with unwrap, the first element of a list is kept.
func lookup(path string, jobj any, unwrap bool) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", analyzer.ErrMalformedSchema, path, err)
	}
	if jlist, ok := jval.([]any); unwrap && ok {
		if len(jlist) == 0 {
			return nil, nil
		}
		jval = jlist[0]
	}
	return jval, nil
}

// floats reads a list of numbers at path. Null entries are NaN.
func floats(path string, jobj any) ([]float64, error) {
	jval, err := lookup(path, jobj, false)
	if err != nil {
		return nil, err
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: not a list: %T", analyzer.ErrMalformedSchema, path, jval)
	}
	out := make([]float64, len(jlist))
	for i, v := range jlist {
		out[i] = toFloat(v)
	}
	return out, nil
}

// optFloat reads an optional number at path, NaN when missing.
func optFloat(path string, jobj any) float64 {
	jval, err := lookup(path, jobj, true)
	if err != nil {
		return toFloat(nil)
	}
	return toFloat(jval)
}

// optString reads an optional string at path, empty when missing.
func optString(path string, jobj any) string {
	jval, err := lookup(path, jobj, true)
	if err != nil {
		return ""
	}
	s, _ := jval.(string)
	return strings.TrimSpace(s)
}
