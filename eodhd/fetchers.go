package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/etnz/analyzer/date"
)

// This file contains functions to access the EODHD API.

// fetchPrices returns the daily adjusted close and close prices for a given EODHD ticker.
// The EODHD ticker format is typically "SYMBOL.EXCHANGECODE".
func (c *Client) fetchPrices(ctx context.Context, ticker string, from, to date.Date) (adjusted, closing *date.History[float64], err error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&from=2024-01-01&to=2024-02-01
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	// bounds are included in the response.
	addr := fmt.Sprintf("%s/api/eod/%s?fmt=json&api_token=%s&from=%s&to=%s", c.base(), url.PathEscape(ticker), url.QueryEscape(c.APIKey), from, to)
	type Info struct {
		Date          date.Date        `json:"date"`
		Close         *decimal.Decimal `json:"close"`
		AdjustedClose *decimal.Decimal `json:"adjusted_close"`
	}

	// that's the payload
	content := make([]Info, 0)
	if err := jwget(ctx, c.client(), addr, &content); err != nil {
		return nil, nil, fmt.Errorf("prices %s: %w", ticker, err)
	}

	adjusted, closing = new(date.History[float64]), new(date.History[float64])
	for _, info := range content {
		if info.Close == nil {
			continue
		}
		cl := info.Close.InexactFloat64()
		closing.Append(info.Date, cl)
		// Some instruments have no adjustment: their close is their total return.
		if info.AdjustedClose != nil {
			adjusted.Append(info.Date, info.AdjustedClose.InexactFloat64())
		} else {
			adjusted.Append(info.Date, cl)
		}
	}
	return adjusted, closing, nil
}

// fetchDividends returns the dividend history for a given EODHD ticker.
func (c *Client) fetchDividends(ctx context.Context, ticker string, from date.Date) (*date.History[float64], error) {
	addr := fmt.Sprintf("%s/api/div/%s?fmt=json&api_token=%s&from=%s", c.base(), url.PathEscape(ticker), url.QueryEscape(c.APIKey), from)

	type apiDividend struct {
		Date     date.Date       `json:"date"` // ex-dividend date, see https://eodhd.com/financial-apis/api-splits-dividends
		Value    decimal.Decimal `json:"value"`
		Currency string          `json:"currency"`
	}

	content := make([]apiDividend, 0)
	if err := jwget(ctx, c.client(), addr, &content); err != nil {
		return nil, fmt.Errorf("dividends %s: %w", ticker, err)
	}

	h := new(date.History[float64])
	for _, d := range content {
		if d.Value.IsPositive() {
			h.Append(d.Date, d.Value.InexactFloat64())
		}
	}
	return h, nil
}
