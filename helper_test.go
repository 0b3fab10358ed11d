package analyzer

import (
	"math"
	"testing"

	"github.com/etnz/analyzer/date"
)

// row is a panel row for tests.
type row struct {
	on     string
	values []float64
}

// r is a helper to build a row.
func r(on string, values ...float64) row { return row{on, values} }

// mustPanel is a helper for tests to build a panel from rows.
func mustPanel(t testing.TB, tickers []string, rows ...row) Panel {
	t.Helper()
	dates := make([]date.Date, len(rows))
	values := make([][]float64, len(rows))
	for i, rw := range rows {
		dates[i] = date.MustParse(rw.on)
		values[i] = rw.values
	}
	p, err := NewPanel(tickers, dates, values)
	if err != nil {
		t.Fatalf("NewPanel() error = %v", err)
	}
	return p
}

// hist is a helper to build a history from alternating "YYYY-MM-DD", value pairs.
func hist(points ...any) *date.History[float64] {
	h := new(date.History[float64])
	for i := 0; i+1 < len(points); i += 2 {
		h.Append(date.MustParse(points[i].(string)), toFloat(points[i+1]))
	}
	return h
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case float64:
		return x
	}
	panic("unsupported value")
}

// near reports whether a and b are within 1e-9.
func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
