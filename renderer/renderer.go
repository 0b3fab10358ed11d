// Package renderer renders analyzer results as markdown reports and charts.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/analyzer"
)

//go:embed *.md
var templates embed.FS

// RenderAnalysis renders the summary statistics, the correlation matrix and the allocation
// curve of an analysis.
func RenderAnalysis(a *analyzer.Analysis, r fmt.Stringer) string {
	partials := map[string]string{
		"analysis_summary":     "analysis_summary.md",
		"analysis_correlation": "analysis_correlation.md",
		"analysis_allocation":  "analysis_allocation.md",
	}
	return renderTemplate("analysis", "analysis.md", partials, newAnalysisView(a, r))
}

// RenderAdvanced renders the latest rolling return and drawdown of every ticker.
func RenderAdvanced(a *analyzer.Advanced) string {
	return renderTemplate("advanced", "advanced.md", nil, newAdvancedView(a))
}

// RenderAllocation renders an allocation curve.
func RenderAllocation(curve []analyzer.AllocationPoint) string {
	partials := map[string]string{"analysis_allocation": "analysis_allocation.md"}
	return renderTemplate("allocation", "allocation.md", partials, analysisView{Curve: curve})
}

// RenderSimulation renders the best simulated portfolios.
func RenderSimulation(points []analyzer.SimulationPoint, top int) string {
	return renderTemplate("simulation", "simulation.md", nil, newSimulationView(points, top))
}

// RenderOverlap renders a holdings overlap.
func RenderOverlap(o *analyzer.OverlapResult) string {
	partials := map[string]string{"overlap_holdings": "overlap_holdings.md"}
	return renderTemplate("overlap", "overlap.md", partials, o)
}

// RenderProjection renders a dividend income projection, amounts in currency.
func RenderProjection(p *analyzer.Projection, currency string) string {
	partials := map[string]string{
		"projection_monthly": "projection_monthly.md",
		"projection_yearly":  "projection_yearly.md",
	}
	return renderTemplate("projection", "projection.md", partials, newProjectionView(p, currency))
}

// RenderDividendStats renders the dividend statistics of several tickers.
func RenderDividendStats(stats map[string]analyzer.DividendStats) string {
	return renderTemplate("dividends", "dividends.md", nil, stats)
}

// RenderStockDetails renders the detail view of a ticker.
func RenderStockDetails(d *analyzer.StockDetails) string {
	partials := map[string]string{"stock_dividends": "stock_dividends.md"}
	return renderTemplate("stock", "stock.md", partials, d)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
