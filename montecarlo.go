package analyzer

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// DefaultSimulations is the number of random portfolios drawn by a zero Simulator.
const DefaultSimulations = 2000

// SimulationPoint is one random portfolio.
type SimulationPoint struct {
	Return  Number            `json:"return"`
	Risk    Number            `json:"risk"`
	Sharpe  Number            `json:"sharpe"`
	Weights map[string]Number `json:"weights"`
}

// Simulator draws random long-only portfolios over a set of assets.
//
// Its zero value draws DefaultSimulations portfolios from an entropy seeded source.
type Simulator struct {
	Simulations int
	// Rand is the source of weights. Tests set a seeded one.
	Rand *rand.Rand
}

// Run draws random weight vectors over the columns of returns and evaluates each portfolio
// with annualized mean and covariance of the daily returns.
func (s Simulator) Run(returns Panel) ([]SimulationPoint, error) {
	tickers := returns.Tickers()
	if len(tickers) < 2 {
		return nil, fmt.Errorf("%w: simulation needs 2 tickers, got %d", ErrInsufficientAssets, len(tickers))
	}
	if returns.Len() < 2 {
		return nil, fmt.Errorf("%w: simulation needs 2 daily returns, got %d", ErrInsufficientData, returns.Len())
	}
	n := s.Simulations
	if n <= 0 {
		n = DefaultSimulations
	}
	r := s.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	mu, cov := moments(returns)
	points := make([]SimulationPoint, 0, n)
	w := make([]float64, len(tickers))
	for range n {
		drawWeights(r, w)
		ret := portfolioReturn(w, mu) * TradingDays
		risk := math.Sqrt(portfolioVariance(w, cov)) * math.Sqrt(TradingDays)
		var sharpe float64
		if risk > 0 {
			sharpe = ret / risk
		}
		weights := make(map[string]Number, len(tickers))
		for i, t := range tickers {
			weights[t] = Round(w[i], 4)
		}
		points = append(points, SimulationPoint{
			Return:  Round(ret, 4),
			Risk:    Round(risk, 4),
			Sharpe:  Round(sharpe, 4),
			Weights: weights,
		})
	}
	return points, nil
}

// drawWeights fills w with uniform draws normalized to sum to 1. An all zero draw is redrawn.
func drawWeights(r *rand.Rand, w []float64) {
	for {
		var sum float64
		for i := range w {
			w[i] = r.Float64()
			sum += w[i]
		}
		if sum > 0 {
			for i := range w {
				w[i] /= sum
			}
			return
		}
	}
}
