package analyzer

import (
	"fmt"
	"math"
)

// AllocationPoint is a two asset portfolio on the allocation curve.
type AllocationPoint struct {
	Label  string `json:"label"` // "w1:w2" in integer percent
	Risk   Number `json:"risk"`
	Return Number `json:"return"`
	W1     Number `json:"w1"`
	W2     Number `json:"w2"`
	T1     string `json:"t1"`
	T2     string `json:"t2"`
}

// AllocationCurve sweeps the weight of the first ticker from 0 to 1 by steps of 0.1 and
// returns the annualized risk and return of each blend with the second ticker.
//
// Only the first two columns of returns are used.
func AllocationCurve(returns Panel) ([]AllocationPoint, error) {
	if len(returns.Tickers()) < 2 {
		return nil, fmt.Errorf("%w: allocation curve needs 2 tickers, got %d", ErrInsufficientAssets, len(returns.Tickers()))
	}
	pair := returns.Head(2)
	mu, cov := moments(pair)
	for i := range mu {
		mu[i] *= TradingDays
		for j := range cov[i] {
			cov[i][j] *= TradingDays
		}
	}
	t1, t2 := pair.Tickers()[0], pair.Tickers()[1]
	points := make([]AllocationPoint, 0, 11)
	for step := 0; step <= 10; step++ {
		w1 := float64(step) / 10
		w := []float64{w1, 1 - w1}
		points = append(points, AllocationPoint{
			Label:  allocationLabel(w[0], w[1]),
			Risk:   Round(math.Sqrt(portfolioVariance(w, cov)), 4),
			Return: Round(portfolioReturn(w, mu), 4),
			W1:     Round(w[0], 2),
			W2:     Round(w[1], 2),
			T1:     t1,
			T2:     t2,
		})
	}
	return points, nil
}

// allocationLabel formats weights as rounded integer percentages, 0.3 and 0.7 give "30:70".
func allocationLabel(w1, w2 float64) string {
	return fmt.Sprintf("%d:%d", int(math.Round(w1*100)), int(math.Round(w2*100)))
}
