package renderer

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/etnz/analyzer"
)

type analysisView struct {
	Range   string
	Tickers []string
	Summary map[string]analyzer.Stats
	// Matrix has one row per ticker: the ticker then its correlations, in Tickers order.
	Matrix [][]string
	Curve  []analyzer.AllocationPoint
}

func newAnalysisView(a *analyzer.Analysis, r fmt.Stringer) analysisView {
	v := analysisView{
		Tickers: a.Charts.TrendTR.Tickers(),
		Summary: a.Summary,
		Curve:   a.Charts.AllocationCurve,
	}
	if r != nil {
		v.Range = r.String()
	}
	cells := make(map[[2]string]analyzer.Number, len(a.Charts.Correlation))
	for _, c := range a.Charts.Correlation {
		cells[[2]string{c.X, c.Y}] = c.Value
	}
	for _, x := range v.Tickers {
		row := []string{x}
		for _, y := range v.Tickers {
			n, ok := cells[[2]string{x, y}]
			if !ok {
				n = analyzer.Null()
			}
			row = append(row, num(n))
		}
		v.Matrix = append(v.Matrix, row)
	}
	return v
}

type advancedRow struct {
	Ticker            string
	Date              string
	Rolling           analyzer.Number // latest rolling return, percent
	Drawdown          analyzer.Number // latest drawdown, percent
	WorstDrawdown     analyzer.Number
	WorstDrawdownDate string
}

func newAdvancedView(a *analyzer.Advanced) []advancedRow {
	var rows []advancedRow
	for _, t := range a.Drawdowns.Tickers() {
		row := advancedRow{Ticker: t, Rolling: analyzer.Null(), Drawdown: analyzer.Null(), WorstDrawdown: analyzer.Null()}
		if n := a.Rolling1y.Len(); n > 0 {
			if v, ok := a.Rolling1y.Value(n-1, t); ok {
				row.Rolling = analyzer.Round(v, 2)
			}
		}
		if n := a.Drawdowns.Len(); n > 0 {
			row.Date = a.Drawdowns.Date(n - 1).String()
			v, _ := a.Drawdowns.Value(n-1, t)
			row.Drawdown = analyzer.Round(v, 2)
			worst := math.Inf(1)
			for i := range n {
				if v, _ := a.Drawdowns.Value(i, t); v < worst {
					worst = v
					row.WorstDrawdownDate = a.Drawdowns.Date(i).String()
				}
			}
			row.WorstDrawdown = analyzer.Round(worst, 2)
		}
		rows = append(rows, row)
	}
	return rows
}

type simulationRow struct {
	Return, Risk, Sharpe analyzer.Number
	Weights              []string // in simulationView.Tickers order
}

type simulationView struct {
	Count   int
	Tickers []string
	Best    []simulationRow // by decreasing Sharpe ratio
	MinRisk *simulationRow
}

func newSimulationView(points []analyzer.SimulationPoint, top int) simulationView {
	v := simulationView{Count: len(points)}
	if len(points) == 0 {
		return v
	}
	for t := range points[0].Weights {
		v.Tickers = append(v.Tickers, t)
	}
	slices.Sort(v.Tickers)
	row := func(p analyzer.SimulationPoint) simulationRow {
		r := simulationRow{Return: p.Return, Risk: p.Risk, Sharpe: p.Sharpe}
		for _, t := range v.Tickers {
			r.Weights = append(r.Weights, pct(p.Weights[t]))
		}
		return r
	}

	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b analyzer.SimulationPoint) int { return cmp.Compare(b.Sharpe.Float(), a.Sharpe.Float()) })
	for _, p := range sorted[:min(top, len(sorted))] {
		v.Best = append(v.Best, row(p))
	}
	least := slices.MinFunc(points, func(a, b analyzer.SimulationPoint) int { return cmp.Compare(a.Risk.Float(), b.Risk.Float()) })
	r := row(least)
	v.MinRisk = &r
	return v
}

type monthRow struct {
	Name    string
	Amounts []string
	Total   string
}

type yearRow struct {
	Year          int
	Income, Value string
}

type projectionView struct {
	Currency string
	Tickers  []string
	Months   []monthRow
	Years    []yearRow
}

func newProjectionView(p *analyzer.Projection, currency string) projectionView {
	v := projectionView{Currency: currency}
	for i, m := range p.MonthlyIncome {
		if i == 0 {
			v.Tickers = m.Tickers
		}
		r := monthRow{Name: m.Name, Total: Money(m.Total, currency)}
		for _, a := range m.Amounts {
			r.Amounts = append(r.Amounts, Money(a, currency))
		}
		v.Months = append(v.Months, r)
	}
	for i := range p.YearlyIncome {
		v.Years = append(v.Years, yearRow{Year: i + 1, Income: Money(p.YearlyIncome[i], currency), Value: Money(p.TotalValue[i], currency)})
	}
	return v
}
