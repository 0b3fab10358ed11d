package analyzer

import (
	"math"

	"github.com/etnz/analyzer/date"
)

// DividendStats summarizes the dividend record of a ticker.
type DividendStats struct {
	Yield       Number `json:"yield"`        // trailing yield, percent
	CAGR5y      Number `json:"cagr_5y"`      // growth of the yearly sum over five years, percent
	YearsGrowth int    `json:"years_growth"` // whole years between the first and last payment
	Frequency   string `json:"frequency"`
}

// unknownDividendStats is reported for a ticker whose dividends could not be fetched.
var unknownDividendStats = DividendStats{Yield: Round(0, 2), CAGR5y: Round(0, 2), Frequency: "N/A"}

// ComputeDividendStats summarizes a dividend history. trailingYield is a fraction, as
// reported by quote providers, 0 when unknown.
func ComputeDividendStats(h *date.History[float64], trailingYield float64) DividendStats {
	s := DividendStats{Yield: Round(trailingYield*100, 2), CAGR5y: Round(0, 2), Frequency: "Quarterly"}
	if h.Len() == 0 {
		return s
	}
	first, _ := h.First()
	last, _ := h.Latest()
	s.YearsGrowth = int(float64(last.Sub(first)) / 365.25)

	// last calendar year, even partial, against the one five rows before
	_, sums := date.YearlySums(h)
	if n := len(sums); n >= 6 && sums[n-6] > 0 {
		s.CAGR5y = Round((math.Pow(sums[n-1]/sums[n-6], 1.0/5)-1)*100, 2)
	}
	return s
}

// YearAmount is the total dividend paid in a calendar year.
type YearAmount struct {
	Year   int    `json:"year"`
	Amount Number `json:"amount"`
}

// DividendGrowth measures how the yearly dividend grew.
type DividendGrowth struct {
	CAGR3y  Number `json:"cagr_3y"`
	CAGR5y  Number `json:"cagr_5y"`
	CAGR10y Number `json:"cagr_10y"`
	// Streak is the number of consecutive years, counted back from the last one, where the
	// yearly sum did not decrease.
	Streak int `json:"years_growth"`
}

// ComputeDividendGrowth returns the 3, 5 and 10 years dividend growth, the growth streak and
// the yearly sums of a dividend history.
func ComputeDividendGrowth(h *date.History[float64]) (DividendGrowth, []YearAmount) {
	g := DividendGrowth{CAGR3y: Round(0, 2), CAGR5y: Round(0, 2), CAGR10y: Round(0, 2)}
	years, sums := date.YearlySums(h)
	history := make([]YearAmount, len(years))
	for i, y := range years {
		history[i] = YearAmount{Year: y, Amount: Round(sums[i], 4)}
	}
	if h.Len() == 0 {
		return g, history
	}
	if h.Len() >= 2 {
		g.CAGR3y = Round(growthRate(sums, 3)*100, 2)
		g.CAGR5y = Round(growthRate(sums, 5)*100, 2)
		g.CAGR10y = Round(growthRate(sums, 10)*100, 2)
	}
	for i := len(sums) - 1; i > 0 && sums[i] >= sums[i-1]; i-- {
		g.Streak++
	}
	return g, history
}

// growthRate is the yearly growth of the last full year (the current one is assumed partial)
// relative to the year `years` rows before the last. It is 0 without enough history.
func growthRate(sums []float64, years int) float64 {
	n := len(sums)
	if n < years+1 {
		return 0
	}
	latest := sums[n-1]
	if n > 1 {
		latest = sums[n-2]
	}
	past := sums[n-(years+1)]
	if past <= 0 || latest <= 0 {
		return 0
	}
	return math.Pow(latest/past, 1/float64(years)) - 1
}
