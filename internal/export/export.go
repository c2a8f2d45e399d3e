// Package export renders scenario collections into files an analyst can
// hand to a buyer: CSV comparison tables, JSON backups and HTML reports.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"dare-mcp/internal/roi"
	"dare-mcp/internal/scenario"
)

// SummaryRow holds one scenario's headline numbers in a comparison table.
type SummaryRow struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	AnnualVolume   float64  `json:"annual_volume"`
	GrossSavings   float64  `json:"gross_savings"`
	CountedSavings float64  `json:"counted_savings"`
	AnnualCost     float64  `json:"annual_cost"`
	ROI            float64  `json:"roi"`
	PaybackMonths  *float64 `json:"payback_months"`
}

// Summary computes headline metrics for every scenario. Rows come back in
// input order regardless of which worker finished first.
func Summary(ctx context.Context, scenarios []*scenario.Scenario, targetROI float64, tiers roi.TierTable) ([]SummaryRow, error) {
	rows := make([]SummaryRow, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, sc := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m := roi.ComputeWithTiers(sc, targetROI, tiers)
			rows[i] = SummaryRow{
				ID:             sc.ID,
				Name:           sc.Name,
				AnnualVolume:   m.AnnualVolume,
				GrossSavings:   m.GrossSavings,
				CountedSavings: m.CountedSavings,
				AnnualCost:     m.AnnualCost,
				ROI:            m.ROI,
				PaybackMonths:  m.PaybackMonths,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteCSV writes the comparison table to path.
func WriteCSV(path string, rows []SummaryRow) error {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	header := []string{"id", "name", "annual_volume", "gross_savings", "counted_savings", "annual_cost", "roi", "payback_months"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		payback := ""
		if row.PaybackMonths != nil {
			payback = strconv.FormatFloat(*row.PaybackMonths, 'f', 1, 64)
		}
		record := []string{
			row.ID,
			row.Name,
			strconv.FormatFloat(row.AnnualVolume, 'f', 0, 64),
			strconv.FormatFloat(row.GrossSavings, 'f', 2, 64),
			strconv.FormatFloat(row.CountedSavings, 'f', 2, 64),
			strconv.FormatFloat(row.AnnualCost, 'f', 2, 64),
			strconv.FormatFloat(row.ROI, 'f', 2, 64),
			payback,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

// WriteJSON writes the full scenario collection to path as indented JSON.
// The output round-trips through scenario.Deserialize, so it doubles as a
// portable backup.
func WriteJSON(path string, scenarios []*scenario.Scenario) error {
	if scenarios == nil {
		scenarios = []*scenario.Scenario{}
	}
	data, err := json.MarshalIndent(scenarios, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize scenarios: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

// TimestampedPath builds a collision-free file name like
// dir/scenarios-20250114-153002.csv.
func TimestampedPath(dir, stem, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.%s", stem, time.Now().Format("20060102-150405"), ext))
}
