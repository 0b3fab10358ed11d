package analyzer

import (
	"github.com/etnz/analyzer/date"
)

// DefaultWindow is the rolling window, in trading days, of RollingReturns.
const DefaultWindow = TradingDays

// Series is a derived time series, one record per date with one value per ticker.
//
// It serializes as a JSON array of records {"date": "YYYY-MM-DD", "<ticker>": value, ...},
// values rounded to two decimals, keys in column order.
type Series struct {
	Panel
}

// Value returns the value of ticker on row i, and false if ticker is not a column.
func (s Series) Value(i int, ticker string) (float64, bool) {
	j := s.Index(ticker)
	if j < 0 {
		return 0, false
	}
	return s.At(i, j), true
}

// Since returns the records dated on or after start.
func (s Series) Since(start date.Date) Series {
	return Series{s.Filter(func(d date.Date) bool { return !d.Before(start) })}
}

// MarshalJSON encodes the series as an array of ordered records.
func (s Series) MarshalJSON() ([]byte, error) {
	records := make([]*jsonObjectWriter, s.Len())
	for i := range records {
		w := new(jsonObjectWriter)
		w.Append("date", s.Date(i))
		for j, t := range s.Tickers() {
			w.Append(t, Round(s.At(i, j), 2))
		}
		records[i] = w
	}
	return jsonArray(records)
}

// Normalize returns the cumulative return in percent of every row relative to the first one.
func Normalize(p Panel) Series {
	if p.Len() == 0 {
		return Series{p}
	}
	first := p.Row(0)
	return Series{p.mapRows(func(_, j int, v float64) float64 { return (v/first[j] - 1) * 100 })}
}

// RollingReturns returns (P_t / P_{t-window} - 1) * 100 for every row that has a full window
// behind it. A non positive window means DefaultWindow.
func RollingReturns(p Panel, window int) Series {
	if window <= 0 {
		window = DefaultWindow
	}
	if p.Len() <= window {
		return Series{Panel{tickers: p.tickers}}
	}
	out := Panel{tickers: p.tickers, dates: p.dates[window:], rows: make([][]float64, p.Len()-window)}
	for i := range out.rows {
		past, now := p.Row(i), p.Row(i+window)
		row := make([]float64, len(now))
		for j := range row {
			row[j] = (now[j]/past[j] - 1) * 100
		}
		out.rows[i] = row
	}
	return Series{out}
}

// DrawdownSeries returns (P / running max - 1) * 100 for every row.
func DrawdownSeries(p Panel) Series {
	peaks := make([]float64, len(p.Tickers()))
	return Series{p.mapRows(func(i, j int, v float64) float64 {
		if i == 0 || v > peaks[j] {
			peaks[j] = v
		}
		return (v/peaks[j] - 1) * 100
	})}
}
