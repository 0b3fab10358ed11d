package analyzer

import (
	"fmt"
	"math"
)

// TradingDays is the number of trading days used to annualize daily statistics.
const TradingDays = 252

// Stats holds the summary statistics of one ticker.
type Stats struct {
	CAGR       Number `json:"cagr"`
	MDD        Number `json:"mdd"`
	Volatility Number `json:"volatility"`
}

// Correlation is a cell of the long-form correlation matrix.
type Correlation struct {
	X     string `json:"x"`
	Y     string `json:"y"`
	Value Number `json:"value"`
}

// Metrics is the result of ComputeMetrics.
type Metrics struct {
	// Stats per ticker of the total return panel.
	Stats map[string]Stats
	// Correlation of daily total returns, every ordered pair including the diagonal.
	Correlation []Correlation
	// TrendTR and TrendPR are cumulative returns in percent since the first row.
	TrendTR, TrendPR Series
	// Returns are the daily total returns the statistics were computed on.
	Returns Panel
}

// ComputeMetrics computes summary statistics, correlation and normalized trends.
//
// tr is the total return (dividend adjusted) panel, pr the price return one. Both need at
// least two rows.
func ComputeMetrics(tr, pr Panel) (Metrics, error) {
	if tr.Len() < 2 {
		return Metrics{}, fmt.Errorf("%w: total return panel has %d rows, need 2", ErrInsufficientData, tr.Len())
	}
	if pr.Len() < 2 {
		return Metrics{}, fmt.Errorf("%w: price return panel has %d rows, need 2", ErrInsufficientData, pr.Len())
	}

	returns := tr.Returns()
	days := tr.Date(tr.Len() - 1).Sub(tr.Date(0))

	m := Metrics{
		Stats:   make(map[string]Stats, len(tr.Tickers())),
		TrendTR: Normalize(tr),
		TrendPR: Normalize(pr),
		Returns: returns,
	}
	for j, t := range tr.Tickers() {
		prices := tr.Column(j)
		m.Stats[t] = Stats{
			CAGR:       Round(cagr(prices[0], prices[len(prices)-1], days), 4),
			MDD:        Round(maxDrawdown(prices), 4),
			Volatility: Round(stddev(returns.Column(j))*math.Sqrt(TradingDays), 4),
		}
	}
	m.Correlation = correlations(returns)
	return m, nil
}

// cagr is the compounded annual growth rate between two prices days apart.
func cagr(start, end float64, days int) float64 {
	if days <= 0 {
		return math.NaN()
	}
	return math.Pow(end/start, 365.25/float64(days)) - 1
}

// maxDrawdown returns the minimum of price / running max - 1. It is never positive.
func maxDrawdown(prices []float64) float64 {
	var mdd, peak float64
	for i, p := range prices {
		if i == 0 || p > peak {
			peak = p
		}
		if dd := p/peak - 1; dd < mdd {
			mdd = dd
		}
	}
	return mdd
}

// correlations returns the long-form Pearson correlation matrix of the returns, symmetric with
// a unit diagonal.
func correlations(returns Panel) []Correlation {
	tickers := returns.Tickers()
	n := len(tickers)
	cols := make([][]float64, n)
	for j := range cols {
		cols[j] = returns.Column(j)
	}
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := pearson(cols[i], cols[j])
			matrix[i][j], matrix[j][i] = c, c
		}
	}
	out := make([]Correlation, 0, n*n)
	for i, x := range tickers {
		for j, y := range tickers {
			out = append(out, Correlation{X: x, Y: y, Value: Round(matrix[i][j], 3)})
		}
	}
	return out
}
