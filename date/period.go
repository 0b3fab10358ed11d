package date

import (
	"fmt"
	"strings"
)

// Period is a lookback period as used by market data providers: "1d", "5d", "1mo", "3mo",
// "6mo", "1y", "2y", "5y", "10y", "ytd" or "max".
type Period string

// Periods lists every valid Period, shortest first.
var Periods = []Period{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

// ParsePeriod parses a lookback period, case insensitive.
func ParsePeriod(p string) (Period, error) {
	p = strings.ToLower(strings.TrimSpace(p))
	for _, v := range Periods {
		if string(v) == p {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", p)
}

// Range returns the range of dates covered by the period, ending on today.
//
// "max" starts on 1970-01-01.
func (p Period) Range(today Date) Range {
	from := today
	switch p {
	case "1d":
		from = today.Add(-1)
	case "5d":
		from = today.Add(-5)
	case "1mo":
		from = today.AddDate(0, -1, 0)
	case "3mo":
		from = today.AddDate(0, -3, 0)
	case "6mo":
		from = today.AddDate(0, -6, 0)
	case "1y":
		from = today.AddDate(-1, 0, 0)
	case "2y":
		from = today.AddDate(-2, 0, 0)
	case "5y":
		from = today.AddDate(-5, 0, 0)
	case "10y":
		from = today.AddDate(-10, 0, 0)
	case "ytd":
		from = New(today.Year(), 1, 1)
	case "max":
		from = New(1970, 1, 1)
	}
	return Range{From: from, To: today}
}
