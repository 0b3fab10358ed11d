package analyzer

import (
	"errors"
	"math"
	"testing"
)

func TestAllocationCurve(t *testing.T) {
	returns := mustPanel(t, []string{"SPY", "AGG", "GLD"},
		r("2024-01-02", 0.01, 0.002, 0.1),
		r("2024-01-03", -0.02, 0.001, 0.1),
		r("2024-01-04", 0.015, -0.001, 0.1),
		r("2024-01-05", 0.005, 0.003, 0.1),
	)
	curve, err := AllocationCurve(returns)
	if err != nil {
		t.Fatalf("AllocationCurve() error = %v", err)
	}
	if len(curve) != 11 {
		t.Fatalf("len(AllocationCurve()) = %d, want 11", len(curve))
	}
	labels := []string{"0:100", "10:90", "20:80", "30:70", "40:60", "50:50", "60:40", "70:30", "80:20", "90:10", "100:0"}
	for i, p := range curve {
		if p.Label != labels[i] {
			t.Errorf("curve[%d].Label = %q, want %q", i, p.Label, labels[i])
		}
		if got := p.W1.Rounded() + p.W2.Rounded(); !near(got, 1) {
			t.Errorf("curve[%d] weights sum to %v, want 1", i, got)
		}
		if p.T1 != "SPY" || p.T2 != "AGG" {
			t.Errorf("curve[%d] assets = %s, %s want SPY, AGG", i, p.T1, p.T2)
		}
	}

	// The 0:100 point is the second asset alone.
	agg := returns.Column(1)
	if got, want := curve[0].Risk.Float(), stddev(agg)*math.Sqrt(252); !near(got, want) {
		t.Errorf("curve[0].Risk = %v, want %v", got, want)
	}
	if got, want := curve[0].Return.Float(), mean(agg)*252; !near(got, want) {
		t.Errorf("curve[0].Return = %v, want %v", got, want)
	}
	spy := returns.Column(0)
	if got, want := curve[10].Risk.Float(), stddev(spy)*math.Sqrt(252); !near(got, want) {
		t.Errorf("curve[10].Risk = %v, want %v", got, want)
	}
}

func TestAllocationCurveInsufficientAssets(t *testing.T) {
	returns := mustPanel(t, []string{"SPY"}, r("2024-01-02", 0.01), r("2024-01-03", 0.02))
	if _, err := AllocationCurve(returns); !errors.Is(err, ErrInsufficientAssets) {
		t.Errorf("AllocationCurve(1 ticker) error = %v, want ErrInsufficientAssets", err)
	}
}

func TestAllocationLabel(t *testing.T) {
	// 0.3*100 is 29.999999999999996 in binary floating point
	if got := allocationLabel(0.3, 0.7); got != "30:70" {
		t.Errorf("allocationLabel(0.3, 0.7) = %q, want 30:70", got)
	}
	if got := allocationLabel(1-0.9, 0.9); got != "10:90" {
		t.Errorf("allocationLabel(0.1, 0.9) = %q, want 10:90", got)
	}
}
