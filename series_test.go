package analyzer

import (
	"encoding/json"
	"testing"

	"github.com/etnz/analyzer/date"
)

func TestRollingReturns(t *testing.T) {
	p := mustPanel(t, []string{"A"},
		r("2024-01-01", 100),
		r("2024-01-02", 110),
		r("2024-01-03", 120),
		r("2024-01-04", 99),
	)
	s := RollingReturns(p, 2)
	if s.Len() != 2 {
		t.Fatalf("RollingReturns(window=2).Len() = %d, want 2", s.Len())
	}
	if s.Date(0) != date.MustParse("2024-01-03") {
		t.Errorf("first rolling date = %v, want 2024-01-03", s.Date(0))
	}
	if got, _ := s.Value(0, "A"); !near(got, 20) {
		t.Errorf("rolling(2024-01-03) = %v, want 20", got)
	}
	if got, _ := s.Value(1, "A"); !near(got, -10) {
		t.Errorf("rolling(2024-01-04) = %v, want -10", got)
	}
}

func TestRollingReturnsShortPanel(t *testing.T) {
	p := mustPanel(t, []string{"A"}, r("2024-01-01", 100), r("2024-01-02", 110))
	for _, window := range []int{0, 2, 252} {
		s := RollingReturns(p, window)
		if s.Len() != 0 {
			t.Errorf("RollingReturns(window=%d).Len() = %d, want 0", window, s.Len())
		}
		b, err := json.Marshal(s)
		if err != nil || string(b) != "[]" {
			t.Errorf("Marshal(empty series) = %s, %v want [], nil", b, err)
		}
	}
}

func TestDrawdownSeries(t *testing.T) {
	p := mustPanel(t, []string{"A", "B"},
		r("2024-01-01", 100, 10),
		r("2024-01-02", 120, 9),
		r("2024-01-03", 90, 12),
		r("2024-01-04", 130, 6),
	)
	s := DrawdownSeries(p)
	if s.Len() != p.Len() {
		t.Fatalf("DrawdownSeries().Len() = %d, want %d", s.Len(), p.Len())
	}
	want := map[string][]float64{
		"A": {0, 0, -25, 0},
		"B": {0, -10, 0, -50},
	}
	for ticker, values := range want {
		for i, w := range values {
			got, _ := s.Value(i, ticker)
			if !near(got, w) {
				t.Errorf("drawdown(%s, %v) = %v, want %v", ticker, s.Date(i), got, w)
			}
			if got > 0 {
				t.Errorf("drawdown(%s, %v) = %v, want <= 0", ticker, s.Date(i), got)
			}
		}
	}
}

func TestSeriesSince(t *testing.T) {
	p := mustPanel(t, []string{"A"}, r("2023-12-29", 100), r("2024-01-02", 110), r("2024-01-03", 120))
	s := DrawdownSeries(p).Since(date.MustParse("2024-01-01"))
	if s.Len() != 2 || s.Date(0) != date.MustParse("2024-01-02") {
		t.Errorf("Since(2024-01-01) = %d rows starting %v, want 2 rows starting 2024-01-02", s.Len(), s.Date(0))
	}
}
