package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"

	"dare-mcp/internal/export"
	"dare-mcp/internal/roi"
	"dare-mcp/internal/scenario"
	"dare-mcp/internal/visuals"
)

type scenarioIDInput struct {
	ScenarioID string `json:"scenario_id,omitempty" jsonschema:"Scenario ID. Defaults to the selected scenario."`
}

type createInput struct {
	Name string `json:"name,omitempty" jsonschema:"Name for the new scenario. Defaults to 'New Scenario'."`
}

type selectInput struct {
	ScenarioID string `json:"scenario_id" jsonschema:"ID of the scenario to work with."`
}

type itemAddInput struct {
	ScenarioID string  `json:"scenario_id,omitempty" jsonschema:"Scenario ID. Defaults to the selected scenario."`
	List       string  `json:"list" jsonschema:"Which list to add to: 'savings' or 'costs'."`
	Label      string  `json:"label" jsonschema:"Display label for the line item."`
	Amount     float64 `json:"amount" jsonschema:"Annual amount. Negative amounts deliberately offset the rest of the list."`
}

type itemUpdateInput struct {
	ScenarioID string   `json:"scenario_id,omitempty" jsonschema:"Scenario ID. Defaults to the selected scenario."`
	List       string   `json:"list" jsonschema:"Which list the item lives in: 'savings' or 'costs'."`
	ItemID     int64    `json:"item_id" jsonschema:"ID of the line item."`
	Label      *string  `json:"label,omitempty" jsonschema:"New label. Omit to keep the current one."`
	Amount     *float64 `json:"amount,omitempty" jsonschema:"New annual amount. Omit to keep the current one."`
}

type itemRemoveInput struct {
	ScenarioID string `json:"scenario_id,omitempty" jsonschema:"Scenario ID. Defaults to the selected scenario."`
	List       string `json:"list" jsonschema:"Which list the item lives in: 'savings' or 'costs'."`
	ItemID     int64  `json:"item_id" jsonschema:"ID of the line item to remove."`
}

type computeInput struct {
	ScenarioID string  `json:"scenario_id,omitempty" jsonschema:"Scenario ID. Defaults to the selected scenario."`
	TargetROI  float64 `json:"target_roi,omitempty" jsonschema:"Target ROI multiple used for pricing suggestions. Defaults to the configured target."`
}

type compareInput struct {
	ScenarioIDs []string `json:"scenario_ids,omitempty" jsonschema:"Scenario IDs to compare. Defaults to every scenario in the collection."`
	TargetROI   float64  `json:"target_roi,omitempty" jsonschema:"Target ROI multiple used for pricing suggestions. Defaults to the configured target."`
}

type exportInput struct {
	Format string `json:"format" jsonschema:"Export format: 'csv' (comparison table) or 'json' (full collection backup)."`
}

type reportInput struct {
	ScenarioIDs []string `json:"scenario_ids,omitempty" jsonschema:"Scenario IDs to include. Defaults to every scenario in the collection."`
	TargetROI   float64  `json:"target_roi,omitempty" jsonschema:"Target ROI multiple used for pricing suggestions. Defaults to the configured target."`
}

// textResult renders data as indented JSON, the response shape every tool
// shares.
func textResult(data interface{}) (*mcp.CallToolResult, any, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to format result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(out)}},
	}, nil, nil
}

// resolveScenario maps an optional scenario ID to a scenario copy, defaulting
// to the selected one.
func (s *Server) resolveScenario(id string) (*scenario.Scenario, error) {
	if id == "" {
		sc, ok := s.store.Selected()
		if !ok {
			return nil, fmt.Errorf("no scenario selected; pass scenario_id or create one with 'scenario_create'")
		}
		return sc, nil
	}
	sc, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, scenario.ErrNotFound) {
			return nil, fmt.Errorf("scenario %s not found; call 'scenario_list' to see the collection", id)
		}
		return nil, err
	}
	return sc, nil
}

func (s *Server) targetROI(requested float64) float64 {
	if requested > 0 {
		return requested
	}
	if s.cfg.TargetROI > 0 {
		return s.cfg.TargetROI
	}
	return 3
}

func parseItemList(raw string) (scenario.ItemList, error) {
	list := scenario.ItemList(raw)
	if !list.Valid() {
		return "", fmt.Errorf("unknown line-item list %q: must be 'savings' or 'costs'", raw)
	}
	return list, nil
}

func (s *Server) handleScenarioList(ctx context.Context, req *mcp.CallToolRequest, in struct{}) (*mcp.CallToolResult, any, error) {
	type row struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Selected bool   `json:"selected"`
	}

	selected := s.store.SelectedID()
	scenarios := s.store.List()
	rows := make([]row, len(scenarios))
	for i, sc := range scenarios {
		rows[i] = row{ID: sc.ID, Name: sc.Name, Selected: sc.ID == selected}
	}

	return textResult(map[string]interface{}{
		"selected_id": selected,
		"scenarios":   rows,
	})
}

func (s *Server) handleScenarioGet(ctx context.Context, req *mcp.CallToolRequest, in scenarioIDInput) (*mcp.CallToolResult, any, error) {
	sc, err := s.resolveScenario(in.ScenarioID)
	if err != nil {
		return nil, nil, err
	}
	return textResult(sc)
}

func (s *Server) handleScenarioCreate(ctx context.Context, req *mcp.CallToolRequest, in createInput) (*mcp.CallToolResult, any, error) {
	name := in.Name
	if name == "" {
		name = "New Scenario"
	}
	sc := s.store.Create(name)
	return textResult(map[string]interface{}{
		"scenario": sc,
		"_guidance": []string{
			"The new scenario is now selected; 'scenario_update' edits it without passing scenario_id.",
		},
	})
}

func (s *Server) handleScenarioDuplicate(ctx context.Context, req *mcp.CallToolRequest, in scenarioIDInput) (*mcp.CallToolResult, any, error) {
	src, err := s.resolveScenario(in.ScenarioID)
	if err != nil {
		return nil, nil, err
	}
	cp, err := s.store.Duplicate(src.ID)
	if err != nil {
		return nil, nil, err
	}
	return textResult(map[string]interface{}{
		"scenario": cp,
		"_guidance": []string{
			"The copy is now selected. Edit it with 'scenario_update' to explore a variant without touching the original.",
		},
	})
}

func (s *Server) handleScenarioUpdate(ctx context.Context, req *mcp.CallToolRequest, in updateInput) (*mcp.CallToolResult, any, error) {
	sc, err := s.resolveScenario(in.ScenarioID)
	if err != nil {
		return nil, nil, err
	}
	patch, err := in.patch()
	if err != nil {
		return nil, nil, err
	}
	updated, err := s.store.Update(sc.ID, patch)
	if err != nil {
		return nil, nil, err
	}
	return textResult(updated)
}

func (s *Server) handleScenarioSelect(ctx context.Context, req *mcp.CallToolRequest, in selectInput) (*mcp.CallToolResult, any, error) {
	if err := s.store.Select(in.ScenarioID); err != nil {
		return nil, nil, fmt.Errorf("scenario %s not found; call 'scenario_list' to see the collection", in.ScenarioID)
	}
	sc, _ := s.store.Selected()
	return textResult(map[string]interface{}{
		"selected_id":   sc.ID,
		"selected_name": sc.Name,
	})
}

func (s *Server) handleScenarioDelete(ctx context.Context, req *mcp.CallToolRequest, in selectInput) (*mcp.CallToolResult, any, error) {
	if err := s.store.Remove(in.ScenarioID); err != nil {
		return nil, nil, fmt.Errorf("scenario %s not found; call 'scenario_list' to see the collection", in.ScenarioID)
	}
	return textResult(map[string]interface{}{
		"deleted":     in.ScenarioID,
		"selected_id": s.store.SelectedID(),
		"remaining":   s.store.Len(),
	})
}

func (s *Server) handleItemAdd(ctx context.Context, req *mcp.CallToolRequest, in itemAddInput) (*mcp.CallToolResult, any, error) {
	sc, err := s.resolveScenario(in.ScenarioID)
	if err != nil {
		return nil, nil, err
	}
	list, err := parseItemList(in.List)
	if err != nil {
		return nil, nil, err
	}
	updated, err := s.store.AddLineItem(sc.ID, list, in.Label, in.Amount)
	if err != nil {
		return nil, nil, err
	}
	return textResult(updated)
}

func (s *Server) handleItemUpdate(ctx context.Context, req *mcp.CallToolRequest, in itemUpdateInput) (*mcp.CallToolResult, any, error) {
	sc, err := s.resolveScenario(in.ScenarioID)
	if err != nil {
		return nil, nil, err
	}
	list, err := parseItemList(in.List)
	if err != nil {
		return nil, nil, err
	}
	updated, err := s.store.UpdateLineItem(sc.ID, list, in.ItemID, scenario.LineItemPatch{Label: in.Label, Amount: in.Amount})
	if err != nil {
		if errors.Is(err, scenario.ErrNotFound) {
			return nil, nil, fmt.Errorf("line item %d not found in %s; call 'scenario_get' to see current items", in.ItemID, list)
		}
		return nil, nil, err
	}
	return textResult(updated)
}

func (s *Server) handleItemRemove(ctx context.Context, req *mcp.CallToolRequest, in itemRemoveInput) (*mcp.CallToolResult, any, error) {
	sc, err := s.resolveScenario(in.ScenarioID)
	if err != nil {
		return nil, nil, err
	}
	list, err := parseItemList(in.List)
	if err != nil {
		return nil, nil, err
	}
	updated, err := s.store.RemoveLineItem(sc.ID, list, in.ItemID)
	if err != nil {
		if errors.Is(err, scenario.ErrNotFound) {
			return nil, nil, fmt.Errorf("line item %d not found in %s; call 'scenario_get' to see current items", in.ItemID, list)
		}
		return nil, nil, err
	}
	return textResult(updated)
}

func (s *Server) handleComputeMetrics(ctx context.Context, req *mcp.CallToolRequest, in computeInput) (*mcp.CallToolResult, any, error) {
	sc, err := s.resolveScenario(in.ScenarioID)
	if err != nil {
		return nil, nil, err
	}

	target := s.targetROI(in.TargetROI)
	m := roi.ComputeWithTiers(sc, target, s.tiers)

	res := map[string]interface{}{
		"scenario_id":   sc.ID,
		"scenario_name": sc.Name,
		"target_roi":    target,
		"metrics":       m,
		"_guidance": []string{
			"ROI is counted savings divided by annual cost; payback_months is null when counted savings are not positive.",
			"suggested_pricing holds the highest price under each model that still hits the target ROI.",
		},
	}

	if s.enableMermaidCharts {
		res["visual_price_curve"] = visuals.GeneratePriceCurve(m.Curve, target)
		res["visual_savings_breakdown"] = visuals.GenerateSavingsBreakdown(m.Breakdown)
	}

	return textResult(res)
}

func (s *Server) handleCompareScenarios(ctx context.Context, req *mcp.CallToolRequest, in compareInput) (*mcp.CallToolResult, any, error) {
	scenarios, err := s.collectScenarios(in.ScenarioIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(scenarios) == 0 {
		return nil, nil, fmt.Errorf("no scenarios to compare; create one with 'scenario_create'")
	}

	target := s.targetROI(in.TargetROI)
	rows, err := export.Summary(ctx, scenarios, target, s.tiers)
	if err != nil {
		return nil, nil, err
	}

	best := rows[0]
	for _, row := range rows[1:] {
		if row.ROI > best.ROI {
			best = row
		}
	}

	res := map[string]interface{}{
		"target_roi": target,
		"comparison": rows,
		"best_roi":   map[string]interface{}{"id": best.ID, "name": best.Name, "roi": best.ROI},
		"_guidance": []string{
			"Rows follow collection order, not rank. best_roi only compares the ROI multiple; weigh absolute counted savings before concluding.",
		},
	}

	if s.enableMermaidCharts {
		names := make([]string, len(rows))
		rois := make([]float64, len(rows))
		for i, row := range rows {
			names[i] = row.Name
			rois[i] = row.ROI
		}
		res["visual_roi_comparison"] = visuals.GenerateROIComparison(names, rois)
	}

	return textResult(res)
}

func (s *Server) handleExportScenarios(ctx context.Context, req *mcp.CallToolRequest, in exportInput) (*mcp.CallToolResult, any, error) {
	scenarios := s.store.List()

	var path string
	switch in.Format {
	case "csv":
		rows, err := export.Summary(ctx, scenarios, s.targetROI(0), s.tiers)
		if err != nil {
			return nil, nil, err
		}
		path = export.TimestampedPath(s.cfg.ReportDir, "scenarios", "csv")
		if err := export.WriteCSV(path, rows); err != nil {
			return nil, nil, err
		}
	case "json":
		path = export.TimestampedPath(s.cfg.ReportDir, "scenarios", "json")
		if err := export.WriteJSON(path, scenarios); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unknown export format %q: must be 'csv' or 'json'", in.Format)
	}

	log.Info().Str("path", path).Str("format", in.Format).Msg("Scenario export written")
	return textResult(map[string]interface{}{
		"path":      path,
		"format":    in.Format,
		"scenarios": len(scenarios),
	})
}

func (s *Server) handleExportReport(ctx context.Context, req *mcp.CallToolRequest, in reportInput) (*mcp.CallToolResult, any, error) {
	scenarios, err := s.collectScenarios(in.ScenarioIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(scenarios) == 0 {
		return nil, nil, fmt.Errorf("no scenarios to report on; create one with 'scenario_create'")
	}

	target := s.targetROI(in.TargetROI)
	rows, err := export.Summary(ctx, scenarios, target, s.tiers)
	if err != nil {
		return nil, nil, err
	}

	details := make([]export.ReportDetail, len(scenarios))
	for i, sc := range scenarios {
		m := roi.ComputeWithTiers(sc, target, s.tiers)
		details[i] = export.ReportDetail{
			Name:    sc.Name,
			Metrics: m,
			Charts: []string{
				visuals.Source(visuals.GeneratePriceCurve(m.Curve, target)),
				visuals.Source(visuals.GenerateSavingsBreakdown(m.Breakdown)),
				visuals.Source(visuals.GenerateCostPie(m)),
			},
		}
	}

	path := export.TimestampedPath(s.cfg.ReportDir, "roi-report", "html")
	data := export.ReportData{
		GeneratedAt: time.Now(),
		TargetROI:   target,
		Rows:        rows,
		Details:     details,
	}
	if err := export.WriteReport(path, data); err != nil {
		return nil, nil, err
	}

	log.Info().Str("path", path).Int("scenarios", len(scenarios)).Msg("ROI report written")

	if s.cfg.AutoOpenReports {
		if err := browser.OpenFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to open report in browser")
		}
	}

	return textResult(map[string]interface{}{
		"path":      path,
		"scenarios": len(scenarios),
		"_guidance": []string{
			"The report is a standalone HTML file; charts render when opened in a browser.",
		},
	})
}

// collectScenarios resolves explicit IDs or falls back to the whole
// collection.
func (s *Server) collectScenarios(ids []string) ([]*scenario.Scenario, error) {
	if len(ids) == 0 {
		return s.store.List(), nil
	}
	out := make([]*scenario.Scenario, 0, len(ids))
	for _, id := range ids {
		sc, err := s.store.Get(id)
		if err != nil {
			return nil, fmt.Errorf("scenario %s not found; call 'scenario_list' to see the collection", id)
		}
		out = append(out, sc)
	}
	return out, nil
}
