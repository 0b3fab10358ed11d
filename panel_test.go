package analyzer

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/etnz/analyzer/date"
)

func TestAlign(t *testing.T) {
	series := map[string]*date.History[float64]{
		"SPY": hist("2024-01-02", 100, "2024-01-03", 101, "2024-01-04", 102, "2024-01-05", 103),
		"AGG": hist("2024-01-03", 50, "2024-01-04", math.NaN(), "2024-01-05", 52),
		"OLD": new(date.History[float64]),
	}
	p := Align(series, []string{"AGG", "SPY", "OLD", "MISSING", "SPY"})

	if got, want := p.Tickers(), []string{"AGG", "SPY"}; !slices.Equal(got, want) {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
	var dates []string
	for _, d := range p.Dates() {
		dates = append(dates, d.String())
	}
	if want := []string{"2024-01-03", "2024-01-05"}; !slices.Equal(dates, want) {
		t.Errorf("Dates() = %v, want %v", dates, want)
	}
	if got, want := p.Row(1), []float64{52, 103}; !slices.Equal(got, want) {
		t.Errorf("Row(1) = %v, want %v", got, want)
	}
}

func TestAlignNoData(t *testing.T) {
	p := Align(map[string]*date.History[float64]{}, []string{"SPY"})
	if p.Len() != 0 || len(p.Tickers()) != 0 {
		t.Errorf("Align() of no data = %d rows, %v tickers, want an empty panel", p.Len(), p.Tickers())
	}
}

func TestNewPanel(t *testing.T) {
	d := []date.Date{date.MustParse("2024-01-02"), date.MustParse("2024-01-02")}
	testCases := []struct {
		name  string
		dates []date.Date
		rows  [][]float64
	}{
		{"length mismatch", d[:1], [][]float64{{1}, {2}}},
		{"width mismatch", d[:1], [][]float64{{1, 2}}},
		{"duplicate dates", d, [][]float64{{1}, {2}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPanel([]string{"A"}, tc.dates, tc.rows)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("NewPanel() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestReturns(t *testing.T) {
	p := mustPanel(t, []string{"A", "B"},
		r("2024-01-02", 100, 50),
		r("2024-01-03", 110, 50),
		r("2024-01-04", 99, 25),
	)
	ret := p.Returns()
	if ret.Len() != 2 {
		t.Fatalf("Returns().Len() = %d, want 2", ret.Len())
	}
	if ret.Date(0) != date.MustParse("2024-01-03") {
		t.Errorf("Returns().Date(0) = %v, want 2024-01-03", ret.Date(0))
	}
	want := [][]float64{{0.1, 0}, {-0.1, -0.5}}
	for i := range want {
		for j := range want[i] {
			if !near(ret.At(i, j), want[i][j]) {
				t.Errorf("Returns().At(%d, %d) = %v, want %v", i, j, ret.At(i, j), want[i][j])
			}
		}
	}
}

func TestHeadAndFilter(t *testing.T) {
	p := mustPanel(t, []string{"A", "B", "C"},
		r("2024-01-02", 1, 2, 3),
		r("2024-01-03", 4, 5, 6),
	)
	h := p.Head(2)
	if got := h.Tickers(); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("Head(2).Tickers() = %v, want [A B]", got)
	}
	if got := h.Row(1); !slices.Equal(got, []float64{4, 5}) {
		t.Errorf("Head(2).Row(1) = %v, want [4 5]", got)
	}
	f := p.Filter(func(d date.Date) bool { return d.Day() == 3 })
	if f.Len() != 1 || f.At(0, 2) != 6 {
		t.Errorf("Filter() = %d rows, want the 2024-01-03 row", f.Len())
	}
}
