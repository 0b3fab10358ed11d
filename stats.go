package analyzer

import "math"

// mean returns the arithmetic mean of xs, NaN when xs is empty.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

// covariance returns the sample covariance (n-1 denominator) of xs and ys, which have the same length.
// It is NaN for fewer than two observations.
func covariance(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}
	mx, my := mean(xs), mean(ys)
	var s float64
	for i := range xs {
		s += (xs[i] - mx) * (ys[i] - my)
	}
	return s / float64(n-1)
}

// stddev returns the sample standard deviation of xs.
func stddev(xs []float64) float64 { return math.Sqrt(covariance(xs, xs)) }

// pearson returns the Pearson correlation of xs and ys, NaN when either has no variance.
func pearson(xs, ys []float64) float64 {
	sx, sy := stddev(xs), stddev(ys)
	if sx == 0 || sy == 0 {
		return math.NaN()
	}
	return covariance(xs, ys) / (sx * sy)
}

// moments returns the column means and the sample covariance matrix of the panel.
func moments(p Panel) (mu []float64, cov [][]float64) {
	cols := make([][]float64, len(p.Tickers()))
	for j := range cols {
		cols[j] = p.Column(j)
	}
	mu = make([]float64, len(cols))
	cov = make([][]float64, len(cols))
	for i := range cols {
		mu[i] = mean(cols[i])
		cov[i] = make([]float64, len(cols))
		for j := 0; j <= i; j++ {
			c := covariance(cols[i], cols[j])
			cov[i][j], cov[j][i] = c, c
		}
	}
	return mu, cov
}

// portfolioReturn is the dot product of weights and expected returns.
func portfolioReturn(w, mu []float64) float64 {
	var r float64
	for i := range w {
		r += w[i] * mu[i]
	}
	return r
}

// portfolioVariance is the quadratic form w' Σ w.
func portfolioVariance(w []float64, cov [][]float64) float64 {
	var v float64
	for i := range w {
		for j := range w {
			v += w[i] * w[j] * cov[i][j]
		}
	}
	return v
}
