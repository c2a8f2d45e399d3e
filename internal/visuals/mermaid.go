package visuals

import (
	"fmt"
	"math"
	"strings"

	"dare-mcp/internal/roi"
)

// Source strips the markdown fence from a generated chart, leaving raw
// mermaid source suitable for embedding in HTML.
func Source(chart string) string {
	chart = strings.TrimPrefix(chart, "```mermaid\n")
	chart = strings.TrimSuffix(chart, "```")
	return strings.TrimSpace(chart)
}

// GeneratePriceCurve creates a Mermaid xychart-beta showing how ROI falls as
// the annual price scales from 0.5x to 2.0x of the anchor price.
func GeneratePriceCurve(curve []roi.CurvePoint, targetROI float64) string {
	if len(curve) == 0 {
		return ""
	}

	var labels []string
	var rois []string
	var targets []string

	maxY := targetROI
	for _, point := range curve {
		labels = append(labels, fmt.Sprintf("\"$%.0fk\"", point.Price/1000))
		rois = append(rois, fmt.Sprintf("%.2f", point.ROI))
		targets = append(targets, fmt.Sprintf("%.2f", targetROI))
		if point.ROI > maxY {
			maxY = point.ROI
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"ROI vs Annual Price\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"ROI (multiple)\" 0 --> %d\n", int(math.Ceil(maxY*1.2))))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(rois, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(targets, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateSavingsBreakdown creates a Mermaid bar chart of annual savings by bucket.
func GenerateSavingsBreakdown(buckets []roi.SavingsBucket) string {
	if len(buckets) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0

	for _, bucket := range buckets {
		// Replace spaces to help mermaid rendering
		safeName := strings.ReplaceAll(bucket.Label, " ", "_")
		labels = append(labels, fmt.Sprintf("\"%s\"", safeName))
		values = append(values, fmt.Sprintf("%.0f", bucket.Amount))
		if bucket.Amount > maxVal {
			maxVal = bucket.Amount
		}
	}

	if maxVal <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Annual Savings Breakdown\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Annual $\" 0 --> %d\n", int(math.Ceil(maxVal*1.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateROIComparison creates a Mermaid bar chart comparing ROI across scenarios.
func GenerateROIComparison(names []string, rois []float64) string {
	if len(names) == 0 || len(names) != len(rois) {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0

	for i, name := range names {
		safeName := strings.ReplaceAll(name, " ", "_")
		labels = append(labels, fmt.Sprintf("\"%s\"", safeName))
		values = append(values, fmt.Sprintf("%.2f", rois[i]))
		if rois[i] > maxVal {
			maxVal = rois[i]
		}
	}

	if maxVal <= 0 {
		maxVal = 1
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"ROI by Scenario\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"ROI (multiple)\" 0 --> %d\n", int(math.Ceil(maxVal*1.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateCostPie creates a Mermaid pie chart splitting gross savings into
// counted savings and the held-back safety margin.
func GenerateCostPie(m roi.Metrics) string {
	if m.GrossSavings <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Gross Savings Allocation\n")
	sb.WriteString(fmt.Sprintf("    \"Counted\" : %.0f\n", m.CountedSavings))
	if m.MarginHeld > 0 {
		sb.WriteString(fmt.Sprintf("    \"Safety margin\" : %.0f\n", m.MarginHeld))
	}
	sb.WriteString("```")
	return sb.String()
}
