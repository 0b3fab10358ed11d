package renderer

import (
	"fmt"

	"github.com/vicanso/go-charts/v2"

	"github.com/etnz/analyzer"
)

const (
	chartWidth  = 1000
	chartHeight = 600
	// maxChartPoints caps the points drawn per line, longer series are sampled.
	maxChartPoints = 300
	// chartLabels is the number of dates printed on the x axis.
	chartLabels = 8
)

// TrendChart renders a series as a PNG line chart, one line per ticker.
func TrendChart(s analyzer.Series, title string) ([]byte, error) {
	if s.Len() == 0 {
		return nil, fmt.Errorf("%w: empty series", analyzer.ErrInsufficientData)
	}
	step := max(1, (s.Len()+maxChartPoints-1)/maxChartPoints)
	var rows []int
	for i := 0; i < s.Len(); i += step {
		rows = append(rows, i)
	}
	// always draw the last point
	if last := s.Len() - 1; rows[len(rows)-1] != last {
		rows = append(rows, last)
	}

	labels := make([]string, len(rows))
	values := make([][]float64, len(s.Tickers()))
	for k, i := range rows {
		labels[k] = s.Date(i).String()
		for j := range s.Tickers() {
			values[j] = append(values[j], s.At(i, j))
		}
	}

	p, err := charts.LineRender(
		values,
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: chartLabels,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: s.Tickers(),
			Top:  charts.PositionTop,
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}
