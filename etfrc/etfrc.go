// Package etfrc scrapes the fund overlap comparison of etfrc.com.
package etfrc

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/etnz/analyzer"
)

// DefaultURL is the overlap page, queried with the f1 and f2 tickers.
const DefaultURL = "https://www.etfrc.com/funds/overlap.php"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Scraper implements analyzer.OverlapScraper.
type Scraper struct {
	URL        string // DefaultURL when empty
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New returns a Scraper whose requests time out after timeout.
func New(timeout time.Duration) *Scraper {
	return &Scraper{URL: DefaultURL, HTTPClient: &http.Client{Timeout: timeout}}
}

// Scrape fetches and parses the comparison of a and b.
func (s *Scraper) Scrape(ctx context.Context, a, b string) (*analyzer.Scrape, error) {
	addr := s.URL
	if addr == "" {
		addr = DefaultURL
	}
	addr += "?" + url.Values{"f1": {a}, "f2": {b}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", analyzer.ErrExternalFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: cannot http GET %v%v: %v", analyzer.ErrExternalFetch, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", analyzer.ErrExternalFetch, err)
	}
	sc, err := Parse(string(body))
	if err != nil {
		return nil, fmt.Errorf("overlap %s/%s: %w", a, b, err)
	}
	if s.Logger != nil {
		s.Logger.Debug("etfrc overlap scraped", zap.String("f1", a), zap.String("f2", b),
			zap.Int("sectors", len(sc.SectorDrift)), zap.Int("holdings", len(sc.Holdings)))
	}
	return sc, nil
}

var (
	labelsRe = regexp.MustCompile(`(?s)labels:\s*\[(.*?)\]`)
	dataRe   = regexp.MustCompile(`(?s)data:\s*\[(.*?)\]`)
)

// Parse extracts the comparison from an overlap page.
//
// The page must have the two "feature-data" divs (overlap percentage and common count). The
// sector drift, read from the chart script, and the overlap table are optional.
func Parse(page string) (*analyzer.Scrape, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", analyzer.ErrMalformedSchema, err)
	}

	features := findAll(doc, func(n *html.Node) bool { return n.Data == "div" && hasClass(n, "feature-data") })
	if len(features) < 2 {
		return nil, fmt.Errorf("%w: %d feature-data found, want 2", analyzer.ErrMalformedSchema, len(features))
	}
	pct, err := strconv.ParseFloat(strings.TrimSuffix(text(features[0]), "%"), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: overlap percentage: %w", analyzer.ErrMalformedSchema, err)
	}
	count, err := strconv.Atoi(text(features[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: common count: %w", analyzer.ErrMalformedSchema, err)
	}

	return &analyzer.Scrape{
		OverlapPct:  pct,
		CommonCount: count,
		SectorDrift: sectorDrift(page),
		Holdings:    overlapTable(doc),
	}, nil
}

// sectorDrift reads the first labels and data arrays of the page scripts. It is empty when
// they cannot be read.
func sectorDrift(page string) []analyzer.SectorDrift {
	drift := []analyzer.SectorDrift{}
	labels, data := labelsRe.FindStringSubmatch(page), dataRe.FindStringSubmatch(page)
	if labels == nil || data == nil {
		return drift
	}
	var values []float64
	for _, v := range strings.Split(data[1], ",") {
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return []analyzer.SectorDrift{}
		}
		values = append(values, f)
	}
	var names []string
	for _, l := range strings.Split(labels[1], ",") {
		if l = strings.TrimSpace(l); l != "" {
			names = append(names, strings.Trim(l, `"'`))
		}
	}
	for i := range min(len(names), len(values)) {
		drift = append(drift, analyzer.SectorDrift{Sector: names[i], Drift: values[i]})
	}
	return drift
}

// overlapTable reads the rows of table#OverlapTable, the header row excluded.
func overlapTable(doc *html.Node) []analyzer.HoldingWeight {
	holdings := []analyzer.HoldingWeight{}
	tables := findAll(doc, func(n *html.Node) bool { return n.Data == "table" && attr(n, "id") == "OverlapTable" })
	if len(tables) == 0 {
		return holdings
	}
	rows := findAll(tables[0], func(n *html.Node) bool { return n.Data == "tr" })
	for _, row := range rows[min(1, len(rows)):] {
		cols := findAll(row, func(n *html.Node) bool { return n.Data == "td" })
		if len(cols) < 5 {
			continue
		}
		// the name column holds the company name rather than its ticker
		holdings = append(holdings, analyzer.HoldingWeight{
			Ticker:        text(cols[1]),
			Weight1:       text(cols[2]),
			Weight2:       text(cols[3]),
			OverlapWeight: text(cols[4]),
		})
	}
	return holdings
}

// findAll returns the element nodes below n, in document order, that match.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.ElementNode && match(node) {
			found = append(found, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		traverse(c)
	}
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	return strings.Contains(" "+attr(n, "class")+" ", " "+class+" ")
}

// text returns the trimmed text content of n.
func text(n *html.Node) string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return strings.TrimSpace(sb.String())
}
