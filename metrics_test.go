package analyzer

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestComputeMetricsInsufficientData(t *testing.T) {
	one := mustPanel(t, []string{"A"}, r("2024-01-02", 100))
	two := mustPanel(t, []string{"A"}, r("2024-01-02", 100), r("2024-01-03", 101))
	if _, err := ComputeMetrics(one, two); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("ComputeMetrics(1 row TR) error = %v, want ErrInsufficientData", err)
	}
	if _, err := ComputeMetrics(two, one); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("ComputeMetrics(1 row PR) error = %v, want ErrInsufficientData", err)
	}
	if _, err := ComputeMetrics(two, two); err != nil {
		t.Errorf("ComputeMetrics(2 rows) error = %v, want nil", err)
	}
}

func TestCAGR(t *testing.T) {
	testCases := []struct {
		name       string
		start, end float64
		sign       int
	}{
		{"gain", 100, 121, 1},
		{"loss", 100, 81, -1},
		{"flat", 100, 100, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustPanel(t, []string{"A"}, r("2020-01-01", tc.start), r("2020-06-01", (tc.start+tc.end)/2), r("2021-12-31", tc.end))
			m, err := ComputeMetrics(p, p)
			if err != nil {
				t.Fatalf("ComputeMetrics() error = %v", err)
			}
			got := m.Stats["A"].CAGR.Float()
			switch {
			case tc.sign > 0 && got <= 0, tc.sign < 0 && got >= 0, tc.sign == 0 && got != 0:
				t.Errorf("CAGR(%v -> %v) = %v, want sign %d", tc.start, tc.end, got, tc.sign)
			}
		})
	}

	// 21% over 730 calendar days.
	p := mustPanel(t, []string{"A"}, r("2021-01-01", 100), r("2023-01-01", 121))
	m, _ := ComputeMetrics(p, p)
	want := math.Pow(1.21, 365.25/730) - 1
	if got := m.Stats["A"].CAGR.Float(); !near(got, want) {
		t.Errorf("CAGR = %v, want %v", got, want)
	}
	if got := m.Stats["A"].CAGR.String(); got != "0.1001" {
		t.Errorf("CAGR.String() = %s, want 0.1001", got)
	}
}

func TestMaxDrawdown(t *testing.T) {
	testCases := []struct {
		prices []float64
		want   float64
	}{
		{[]float64{100, 120, 90, 130, 65}, -0.5},
		{[]float64{100, 101, 102}, 0},
		{[]float64{100, 50}, -0.5},
	}
	for _, tc := range testCases {
		if got := maxDrawdown(tc.prices); !near(got, tc.want) || got > 0 {
			t.Errorf("maxDrawdown(%v) = %v, want %v", tc.prices, got, tc.want)
		}
	}
}

func TestVolatility(t *testing.T) {
	p := mustPanel(t, []string{"A"}, r("2024-01-02", 100), r("2024-01-03", 110), r("2024-01-04", 99))
	m, err := ComputeMetrics(p, p)
	if err != nil {
		t.Fatalf("ComputeMetrics() error = %v", err)
	}
	// returns are +10% and -10%: sample variance 0.02
	want := math.Sqrt(0.02) * math.Sqrt(252)
	if got := m.Stats["A"].Volatility.Float(); !near(got, want) {
		t.Errorf("Volatility = %v, want %v", got, want)
	}

	// A single return has no sample deviation.
	two := mustPanel(t, []string{"A"}, r("2024-01-02", 100), r("2024-01-03", 110))
	m, _ = ComputeMetrics(two, two)
	b, _ := json.Marshal(m.Stats["A"])
	if !strings.Contains(string(b), `"volatility":null`) {
		t.Errorf("Stats = %s, want a null volatility", b)
	}
}

func TestCorrelation(t *testing.T) {
	p := mustPanel(t, []string{"A", "B", "C", "D"},
		r("2024-01-02", 100, 200, 100, 10),
		r("2024-01-03", 110, 220, 90, 11),
		r("2024-01-04", 99, 198, 99, 12),
		r("2024-01-05", 120, 240, 80, 10),
	)
	m, err := ComputeMetrics(p, p)
	if err != nil {
		t.Fatalf("ComputeMetrics() error = %v", err)
	}
	if got, want := len(m.Correlation), 16; got != want {
		t.Fatalf("len(Correlation) = %d, want %d", got, want)
	}
	cells := make(map[[2]string]Number)
	for _, c := range m.Correlation {
		cells[[2]string{c.X, c.Y}] = c.Value
	}
	for _, x := range p.Tickers() {
		if got := cells[[2]string{x, x}].Float(); got != 1 {
			t.Errorf("corr(%s, %s) = %v, want 1", x, x, got)
		}
		for _, y := range p.Tickers() {
			a, b := cells[[2]string{x, y}], cells[[2]string{y, x}]
			if a.String() != b.String() {
				t.Errorf("corr(%s, %s) = %v but corr(%s, %s) = %v", x, y, a, y, x, b)
			}
		}
	}
	if got := cells[[2]string{"A", "B"}].Rounded(); got != 1 {
		t.Errorf("corr(A, 2A) = %v, want 1", got)
	}
	if got := cells[[2]string{"A", "C"}].Rounded(); got >= 0 {
		t.Errorf("corr(A, C) = %v, want a negative correlation", got)
	}
}

func TestCorrelationOfConstantIsNull(t *testing.T) {
	p := mustPanel(t, []string{"A", "B"},
		r("2024-01-02", 100, 10),
		r("2024-01-03", 110, 10),
		r("2024-01-04", 99, 10),
	)
	m, _ := ComputeMetrics(p, p)
	b, _ := json.Marshal(m.Correlation)
	want := `[{"x":"A","y":"A","value":1},{"x":"A","y":"B","value":null},{"x":"B","y":"A","value":null},{"x":"B","y":"B","value":1}]`
	if string(b) != want {
		t.Errorf("Correlation = %s, want %s", b, want)
	}
}

func TestTrends(t *testing.T) {
	tr := mustPanel(t, []string{"A", "B"}, r("2024-01-02", 100, 50), r("2024-01-03", 110, 40))
	pr := mustPanel(t, []string{"A"}, r("2024-01-02", 100), r("2024-01-03", 105))
	m, err := ComputeMetrics(tr, pr)
	if err != nil {
		t.Fatalf("ComputeMetrics() error = %v", err)
	}
	b, err := json.Marshal(m.TrendTR)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `[{"date":"2024-01-02","A":0,"B":0},{"date":"2024-01-03","A":10,"B":-20}]`
	if string(b) != want {
		t.Errorf("TrendTR = %s, want %s", b, want)
	}
	if got, _ := m.TrendPR.Value(1, "A"); !near(got, 5) {
		t.Errorf("TrendPR(A) = %v, want 5", got)
	}
	if _, ok := m.TrendPR.Value(1, "B"); ok {
		t.Errorf("TrendPR has a B column, want only A")
	}
}
