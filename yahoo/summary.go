package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/etnz/analyzer"
)

// summary fetches the quoteSummary modules of ticker and returns its first result.
func (c *Client) summary(ctx context.Context, ticker string, modules ...string) (any, error) {
	addr := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s", strings.TrimSuffix(c.SummaryURL, "/"), url.PathEscape(ticker), url.QueryEscape(strings.Join(modules, ",")))
	jobj, _, err := c.get(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("summary %s: %w", ticker, err)
	}
	if err := upstreamError("$.quoteSummary.error", jobj); err != nil {
		return nil, fmt.Errorf("summary %s: %w", ticker, err)
	}
	result, err := lookup("$.quoteSummary.result[0]", jobj, false)
	if err != nil {
		return nil, fmt.Errorf("summary %s: %w", ticker, err)
	}
	return result, nil
}

// TopHoldings implements analyzer.HoldingsFetcher. A ticker that is not a fund has no holdings.
//
//	{"quoteSummary": {"result": [{"topHoldings": {"holdings": [
//		{"symbol": "AAPL", "holdingName": "Apple Inc", "holdingPercent": {"raw": 0.07}}
//	]}}]}}
func (c *Client) TopHoldings(ctx context.Context, ticker string) ([]string, error) {
	result, err := c.summary(ctx, ticker, "topHoldings")
	if err != nil {
		return nil, err
	}
	jval, err := lookup("$.topHoldings.holdings[*].symbol", result, false)
	if err != nil {
		return []string{}, nil
	}
	jlist, _ := jval.([]any)
	holdings := make([]string, 0, len(jlist))
	for _, v := range jlist {
		if s, ok := v.(string); ok && s != "" {
			holdings = append(holdings, s)
		}
	}
	return holdings, nil
}

// quoteModules are the quoteSummary modules read by Quote.
var quoteModules = []string{"price", "summaryDetail", "defaultKeyStatistics", "assetProfile", "financialData"}

// Quote implements analyzer.QuoteFetcher.
func (c *Client) Quote(ctx context.Context, ticker string) (analyzer.Quote, error) {
	r, err := c.summary(ctx, ticker, quoteModules...)
	if err != nil {
		return analyzer.Quote{}, err
	}
	q := analyzer.Quote{
		Name:          optString("$.price.longName", r),
		Currency:      optString("$.price.currency", r),
		Price:         optFloat("$.price.regularMarketPrice.raw", r),
		MarketCap:     optFloat("$.price.marketCap.raw", r),
		TrailingPE:    optFloat("$.summaryDetail.trailingPE.raw", r),
		ForwardPE:     optFloat("$.summaryDetail.forwardPE.raw", r),
		PriceToBook:   optFloat("$.defaultKeyStatistics.priceToBook.raw", r),
		ReturnOnEq:    optFloat("$.financialData.returnOnEquity.raw", r),
		DividendYield: optFloat("$.summaryDetail.dividendYield.raw", r),
		Beta:          optFloat("$.summaryDetail.beta.raw", r),
		Sector:        optString("$.assetProfile.sector", r),
		Description:   optString("$.assetProfile.longBusinessSummary", r),
	}
	if q.Name == "" {
		q.Name = optString("$.price.shortName", r)
	}
	if q.Name == "" {
		q.Name = ticker
	}
	return q, nil
}
