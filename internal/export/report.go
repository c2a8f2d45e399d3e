package export

import (
	"fmt"
	"html/template"
	"math"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"dare-mcp/internal/roi"
)

// ReportData feeds the HTML report template.
type ReportData struct {
	GeneratedAt time.Time
	TargetROI   float64
	Rows        []SummaryRow
	Details     []ReportDetail
}

// ReportDetail is one scenario's full metrics plus optional mermaid charts
// (raw chart source, not fenced markdown).
type ReportDetail struct {
	Name    string
	Metrics roi.Metrics
	Charts  []string
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": func(v float64) string { return "$" + humanize.Commaf(math.Round(v)) },
	"roi":   func(v float64) string { return fmt.Sprintf("%.2fx", v) },
	"payback": func(p *float64) string {
		if p == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.1f months", *p)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Dispute Automation ROI Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #1a1a2e; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #cbd5e1; padding: 0.4rem 0.8rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
h2 { margin-top: 2rem; border-bottom: 2px solid #cbd5e1; padding-bottom: 0.3rem; }
.basis { color: #64748b; font-size: 0.9rem; }
pre.mermaid { background: #f8fafc; padding: 1rem; }
</style>
</head>
<body>
<h1>Dispute Automation ROI Report</h1>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}} &middot; target ROI {{roi .TargetROI}}</p>

<h2>Scenario Comparison</h2>
<table>
<thead><tr><th>Scenario</th><th>Annual Volume</th><th>Gross Savings</th><th>Counted Savings</th><th>Annual Cost</th><th>ROI</th><th>Payback</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Name}}</td><td>{{printf "%.0f" .AnnualVolume}}</td><td>{{money .GrossSavings}}</td><td>{{money .CountedSavings}}</td><td>{{money .AnnualCost}}</td><td>{{roi .ROI}}</td><td>{{payback .PaybackMonths}}</td></tr>
{{end}}</tbody>
</table>

{{range .Details}}
<h2>{{.Name}}</h2>
<table>
<tbody>
<tr><td>Labor savings</td><td>{{money .Metrics.LaborSavings}}</td></tr>
<tr><td>Fee savings</td><td>{{money .Metrics.Fees.Total}}</td></tr>
<tr><td>Gross savings</td><td>{{money .Metrics.GrossSavings}}</td></tr>
<tr><td>Safety margin held</td><td>{{money .Metrics.MarginHeld}}</td></tr>
<tr><td>Counted savings</td><td>{{money .Metrics.CountedSavings}}</td></tr>
<tr><td>Annual cost</td><td>{{money .Metrics.AnnualCost}}</td></tr>
<tr><td>ROI</td><td>{{roi .Metrics.ROI}}</td></tr>
<tr><td>Payback</td><td>{{payback .Metrics.PaybackMonths}}</td></tr>
</tbody>
</table>
<p class="basis">{{.Metrics.CostBasis}}</p>
{{range .Charts}}{{if .}}<pre class="mermaid">{{.}}</pre>
{{end}}{{end}}{{end}}

{{if .HasCharts}}<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: true });
</script>
{{end}}</body>
</html>
`))

// HasCharts reports whether any detail carries a non-empty chart source.
func (d ReportData) HasCharts() bool {
	for _, detail := range d.Details {
		for _, chart := range detail.Charts {
			if chart != "" {
				return true
			}
		}
	}
	return false
}

// WriteReport renders the HTML report to path.
func WriteReport(path string, data ReportData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := reportTemplate.Execute(f, data); err != nil {
		f.Close()
		return fmt.Errorf("failed to render report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
