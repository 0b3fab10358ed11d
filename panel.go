package analyzer

import (
	"fmt"
	"math"
	"slices"

	"github.com/etnz/analyzer/date"
)

// Panel is a date-indexed table of values, one column per ticker.
//
// Dates are strictly increasing and every cell holds a value: a Panel has no holes.
type Panel struct {
	tickers []string
	dates   []date.Date
	rows    [][]float64 // rows[i][j] is the value of tickers[j] on dates[i]
}

// Align merges per-ticker histories into a Panel.
//
// Columns follow the order of tickers. Tickers with no history are dropped, duplicates are
// ignored. The date index is the sorted union of all dates, restricted to the dates where
// every remaining ticker has a finite value.
func Align(series map[string]*date.History[float64], tickers []string) Panel {
	var p Panel
	histories := make([]*date.History[float64], 0, len(tickers))
	for _, t := range tickers {
		h := series[t]
		if h.Len() == 0 || slices.Contains(p.tickers, t) {
			continue
		}
		p.tickers = append(p.tickers, t)
		histories = append(histories, h)
	}
	if len(histories) == 0 {
		return p
	}
	for on := range date.Iterate(histories...) {
		row := make([]float64, len(histories))
		complete := true
		for j, h := range histories {
			v, ok := h.Get(on)
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				complete = false
				break
			}
			row[j] = v
		}
		if complete {
			p.dates = append(p.dates, on)
			p.rows = append(p.rows, row)
		}
	}
	return p
}

// NewPanel builds a Panel from explicit rows, checking the Panel invariants.
func NewPanel(tickers []string, dates []date.Date, rows [][]float64) (Panel, error) {
	if len(dates) != len(rows) {
		return Panel{}, fmt.Errorf("%w: %d dates for %d rows", ErrValidation, len(dates), len(rows))
	}
	for i, row := range rows {
		if len(row) != len(tickers) {
			return Panel{}, fmt.Errorf("%w: row %s has %d values for %d tickers", ErrValidation, dates[i], len(row), len(tickers))
		}
		if i > 0 && !dates[i].After(dates[i-1]) {
			return Panel{}, fmt.Errorf("%w: dates are not strictly increasing at %s", ErrValidation, dates[i])
		}
	}
	return Panel{tickers: slices.Clone(tickers), dates: slices.Clone(dates), rows: rows}, nil
}

// Tickers returns the columns that survived alignment, in order.
func (p Panel) Tickers() []string { return p.tickers }

// Len returns the number of rows.
func (p Panel) Len() int { return len(p.dates) }

// Dates returns the date index.
func (p Panel) Dates() []date.Date { return p.dates }

// Date returns the date of row i.
func (p Panel) Date(i int) date.Date { return p.dates[i] }

// Row returns the values of row i, in column order.
func (p Panel) Row(i int) []float64 { return p.rows[i] }

// At returns the value of column j on row i.
func (p Panel) At(i, j int) float64 { return p.rows[i][j] }

// Column returns a copy of the values of column j.
func (p Panel) Column(j int) []float64 {
	col := make([]float64, len(p.rows))
	for i, row := range p.rows {
		col[i] = row[j]
	}
	return col
}

// Index returns the column of ticker, or -1.
func (p Panel) Index(ticker string) int { return slices.Index(p.tickers, ticker) }

// Head restricts the panel to its first n columns.
func (p Panel) Head(n int) Panel {
	if n >= len(p.tickers) {
		return p
	}
	q := Panel{tickers: p.tickers[:n:n], dates: p.dates, rows: make([][]float64, len(p.rows))}
	for i, row := range p.rows {
		q.rows[i] = row[:n:n]
	}
	return q
}

// Filter returns the rows whose date satisfies keep.
func (p Panel) Filter(keep func(date.Date) bool) Panel {
	q := Panel{tickers: p.tickers}
	for i, on := range p.dates {
		if keep(on) {
			q.dates = append(q.dates, on)
			q.rows = append(q.rows, p.rows[i])
		}
	}
	return q
}

// Returns computes the simple daily returns (P_t / P_{t-1} - 1). The first row is dropped.
func (p Panel) Returns() Panel {
	q := Panel{tickers: p.tickers}
	for i := 1; i < len(p.rows); i++ {
		row := make([]float64, len(p.tickers))
		for j := range row {
			row[j] = p.rows[i][j]/p.rows[i-1][j] - 1
		}
		q.dates = append(q.dates, p.dates[i])
		q.rows = append(q.rows, row)
	}
	return q
}

// mapRows returns a panel of the same shape with f applied to every cell.
// f receives the row index, the column index and the value.
func (p Panel) mapRows(f func(i, j int, v float64) float64) Panel {
	q := Panel{tickers: p.tickers, dates: p.dates, rows: make([][]float64, len(p.rows))}
	for i, row := range p.rows {
		out := make([]float64, len(row))
		for j, v := range row {
			out[j] = f(i, j, v)
		}
		q.rows[i] = out
	}
	return q
}
