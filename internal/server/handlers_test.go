package server

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"dare-mcp/internal/config"
	"dare-mcp/internal/roi"
	"dare-mcp/internal/scenario"
	"dare-mcp/internal/storage"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		ReportDir:          t.TempDir(),
		StorageKey:         "scenarios",
		TargetROI:          3,
		TierDailyPenalties: roi.DefaultTierTable(),
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(testConfig(t), storage.NewMemory(), "test")
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	return srv
}

// decodeResult parses the JSON text payload every tool returns.
func decodeResult(t *testing.T, res *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("Expected content in tool result")
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("Expected TextContent, got %T", res.Content[0])
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
		t.Fatalf("Tool result is not valid JSON: %v\n%s", err, text.Text)
	}
	return out
}

func TestNewSeedsDefaultCollection(t *testing.T) {
	srv := newTestServer(t)

	res, _, err := srv.handleScenarioList(context.Background(), nil, struct{}{})
	if err != nil {
		t.Fatalf("scenario_list returned error: %v", err)
	}
	out := decodeResult(t, res)

	scenarios := out["scenarios"].([]interface{})
	if len(scenarios) != 2 {
		t.Fatalf("Expected 2 seeded scenarios, got %d", len(scenarios))
	}
	first := scenarios[0].(map[string]interface{})
	if first["name"] != "Base Case" || first["selected"] != true {
		t.Errorf("Expected Base Case selected first, got %v", first)
	}
	second := scenarios[1].(map[string]interface{})
	if second["name"] != "Aggressive Growth" {
		t.Errorf("Expected Aggressive Growth second, got %v", second)
	}
}

func TestNewRestoresPersistedCollection(t *testing.T) {
	kv := storage.NewMemory()
	blob, err := scenario.Serialize([]*scenario.Scenario{scenario.New("Saved Deal")})
	if err != nil {
		t.Fatalf("Serialize() returned error: %v", err)
	}
	if err := kv.Put("scenarios", blob); err != nil {
		t.Fatalf("Put() returned error: %v", err)
	}

	srv, err := New(testConfig(t), kv, "test")
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if srv.store.Len() != 1 {
		t.Fatalf("Expected 1 restored scenario, got %d", srv.store.Len())
	}
	sc, ok := srv.store.Selected()
	if !ok || sc.Name != "Saved Deal" {
		t.Errorf("Expected Saved Deal selected, got %v", sc)
	}
}

func TestNewRecoversFromCorruptBlob(t *testing.T) {
	kv := storage.NewMemory()
	if err := kv.Put("scenarios", []byte("{broken")); err != nil {
		t.Fatalf("Put() returned error: %v", err)
	}

	srv, err := New(testConfig(t), kv, "test")
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if srv.store.Len() != 2 {
		t.Errorf("Expected default collection after corrupt blob, got %d scenarios", srv.store.Len())
	}
}

func TestScenarioCreateAndGet(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	res, _, err := srv.handleScenarioCreate(ctx, nil, createInput{Name: "Growth Push"})
	if err != nil {
		t.Fatalf("scenario_create returned error: %v", err)
	}
	created := decodeResult(t, res)["scenario"].(map[string]interface{})
	if created["name"] != "Growth Push" {
		t.Errorf("Created name = %v, want Growth Push", created["name"])
	}

	// No ID: should resolve to the just-created selection.
	res, _, err = srv.handleScenarioGet(ctx, nil, scenarioIDInput{})
	if err != nil {
		t.Fatalf("scenario_get returned error: %v", err)
	}
	got := decodeResult(t, res)
	if got["name"] != "Growth Push" {
		t.Errorf("Selected scenario = %v, want Growth Push", got["name"])
	}
	if got["disputes_per_day"] != 250.0 {
		t.Errorf("disputes_per_day = %v, want 250", got["disputes_per_day"])
	}
}

func TestScenarioGetUnknownID(t *testing.T) {
	srv := newTestServer(t)

	_, _, err := srv.handleScenarioGet(context.Background(), nil, scenarioIDInput{ScenarioID: "nope"})
	if err == nil || !strings.Contains(err.Error(), "scenario_list") {
		t.Fatalf("Expected not-found error pointing at scenario_list, got %v", err)
	}
}

func TestScenarioUpdateHandler(t *testing.T) {
	srv := newTestServer(t)

	res, _, err := srv.handleScenarioUpdate(context.Background(), nil, updateInput{
		GrowthFactor:    f64Ptr(4),
		SafetyMarginPct: f64Ptr(25),
	})
	if err != nil {
		t.Fatalf("scenario_update returned error: %v", err)
	}
	out := decodeResult(t, res)
	if out["growth_factor"] != 4.0 {
		t.Errorf("growth_factor = %v, want 4", out["growth_factor"])
	}
	if out["safety_margin_pct"] != 25.0 {
		t.Errorf("safety_margin_pct = %v, want 25", out["safety_margin_pct"])
	}
	// Untouched field keeps its default.
	if out["manual_pct"] != 12.5 {
		t.Errorf("manual_pct = %v, want 12.5", out["manual_pct"])
	}
}

func TestScenarioUpdateRejectsUnknownPricingKind(t *testing.T) {
	srv := newTestServer(t)

	_, _, err := srv.handleScenarioUpdate(context.Background(), nil, updateInput{
		PricingKind: strPtr("lease_to_own"),
	})
	if err == nil || !strings.Contains(err.Error(), "pricing kind") {
		t.Fatalf("Expected pricing kind error, got %v", err)
	}
}

func TestScenarioSelectAndDelete(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	ids := make([]string, 0, 2)
	for _, sc := range srv.store.List() {
		ids = append(ids, sc.ID)
	}

	res, _, err := srv.handleScenarioSelect(ctx, nil, selectInput{ScenarioID: ids[1]})
	if err != nil {
		t.Fatalf("scenario_select returned error: %v", err)
	}
	if decodeResult(t, res)["selected_name"] != "Aggressive Growth" {
		t.Errorf("Expected Aggressive Growth selected")
	}

	res, _, err = srv.handleScenarioDelete(ctx, nil, selectInput{ScenarioID: ids[1]})
	if err != nil {
		t.Fatalf("scenario_delete returned error: %v", err)
	}
	out := decodeResult(t, res)
	if out["remaining"] != 1.0 {
		t.Errorf("remaining = %v, want 1", out["remaining"])
	}
	if out["selected_id"] != ids[0] {
		t.Errorf("Expected selection to move to first remaining scenario")
	}

	if _, _, err := srv.handleScenarioDelete(ctx, nil, selectInput{ScenarioID: "nope"}); err == nil {
		t.Fatal("Expected error deleting unknown scenario")
	}
}

func TestItemLifecycleHandlers(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	res, _, err := srv.handleItemAdd(ctx, nil, itemAddInput{List: "savings", Label: "Chargeback insurance", Amount: -5000})
	if err != nil {
		t.Fatalf("scenario_item_add returned error: %v", err)
	}
	items := decodeResult(t, res)["custom_savings"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 line item, got %d", len(items))
	}
	item := items[0].(map[string]interface{})
	if item["id"] != 1.0 || item["amount"] != -5000.0 {
		t.Errorf("Unexpected line item %v", item)
	}

	res, _, err = srv.handleItemUpdate(ctx, nil, itemUpdateInput{List: "savings", ItemID: 1, Label: strPtr("Renamed")})
	if err != nil {
		t.Fatalf("scenario_item_update returned error: %v", err)
	}
	item = decodeResult(t, res)["custom_savings"].([]interface{})[0].(map[string]interface{})
	if item["label"] != "Renamed" || item["amount"] != -5000.0 {
		t.Errorf("Unexpected line item after update %v", item)
	}

	res, _, err = srv.handleItemRemove(ctx, nil, itemRemoveInput{List: "savings", ItemID: 1})
	if err != nil {
		t.Fatalf("scenario_item_remove returned error: %v", err)
	}
	if items := decodeResult(t, res)["custom_savings"].([]interface{}); len(items) != 0 {
		t.Errorf("Expected empty savings list, got %v", items)
	}

	if _, _, err := srv.handleItemAdd(ctx, nil, itemAddInput{List: "fees", Label: "x", Amount: 1}); err == nil {
		t.Fatal("Expected error for unknown list name")
	}
}

func TestComputeMetricsHandlerMatchesCalculator(t *testing.T) {
	srv := newTestServer(t)

	res, _, err := srv.handleComputeMetrics(context.Background(), nil, computeInput{})
	if err != nil {
		t.Fatalf("compute_metrics returned error: %v", err)
	}
	out := decodeResult(t, res)
	metrics := out["metrics"].(map[string]interface{})

	sc, _ := srv.store.Selected()
	want := roi.ComputeWithTiers(sc, 3, roi.DefaultTierTable())

	if got := metrics["roi"].(float64); got != want.ROI {
		t.Errorf("roi = %v, want %v", got, want.ROI)
	}
	if got := metrics["counted_savings"].(float64); got != want.CountedSavings {
		t.Errorf("counted_savings = %v, want %v", got, want.CountedSavings)
	}
	if out["target_roi"] != 3.0 {
		t.Errorf("target_roi = %v, want configured default 3", out["target_roi"])
	}
}

func TestComputeMetricsChartsGated(t *testing.T) {
	srv := newTestServer(t)

	res, _, err := srv.handleComputeMetrics(context.Background(), nil, computeInput{})
	if err != nil {
		t.Fatalf("compute_metrics returned error: %v", err)
	}
	if _, ok := decodeResult(t, res)["visual_price_curve"]; ok {
		t.Error("Expected no charts when mermaid charts are disabled")
	}

	cfg := testConfig(t)
	cfg.EnableMermaidCharts = true
	charted, err := New(cfg, storage.NewMemory(), "test")
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	res, _, err = charted.handleComputeMetrics(context.Background(), nil, computeInput{})
	if err != nil {
		t.Fatalf("compute_metrics returned error: %v", err)
	}
	chart, ok := decodeResult(t, res)["visual_price_curve"].(string)
	if !ok || !strings.HasPrefix(chart, "```mermaid") {
		t.Errorf("Expected fenced mermaid chart, got %v", chart)
	}
}

func TestComputeMetricsOnEmptyCollection(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	for _, sc := range srv.store.List() {
		if _, _, err := srv.handleScenarioDelete(ctx, nil, selectInput{ScenarioID: sc.ID}); err != nil {
			t.Fatalf("scenario_delete returned error: %v", err)
		}
	}

	_, _, err := srv.handleComputeMetrics(ctx, nil, computeInput{})
	if err == nil || !strings.Contains(err.Error(), "scenario_create") {
		t.Fatalf("Expected guidance error naming scenario_create, got %v", err)
	}
	if srv.store.Len() != 0 {
		t.Errorf("Expected collection to stay empty, got %d scenarios", srv.store.Len())
	}
}

func TestCompareScenariosHandler(t *testing.T) {
	srv := newTestServer(t)

	res, _, err := srv.handleCompareScenarios(context.Background(), nil, compareInput{})
	if err != nil {
		t.Fatalf("compare_scenarios returned error: %v", err)
	}
	out := decodeResult(t, res)

	rows := out["comparison"].([]interface{})
	if len(rows) != 2 {
		t.Fatalf("Expected 2 comparison rows, got %d", len(rows))
	}
	best := out["best_roi"].(map[string]interface{})
	if best["name"] != "Aggressive Growth" {
		t.Errorf("best_roi = %v, want Aggressive Growth", best["name"])
	}
}

func TestExportScenariosHandler(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	res, _, err := srv.handleExportScenarios(ctx, nil, exportInput{Format: "csv"})
	if err != nil {
		t.Fatalf("export_scenarios returned error: %v", err)
	}
	path := decodeResult(t, res)["path"].(string)
	if !strings.HasSuffix(path, ".csv") {
		t.Errorf("Expected csv path, got %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected export file to exist: %v", err)
	}

	res, _, err = srv.handleExportScenarios(ctx, nil, exportInput{Format: "json"})
	if err != nil {
		t.Fatalf("export_scenarios returned error: %v", err)
	}
	path = decodeResult(t, res)["path"].(string)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read JSON export: %v", err)
	}
	if restored, err := scenario.Deserialize(data); err != nil || len(restored) != 2 {
		t.Errorf("Expected re-importable JSON export, got %d scenarios, err %v", len(restored), err)
	}

	if _, _, err := srv.handleExportScenarios(ctx, nil, exportInput{Format: "xlsx"}); err == nil {
		t.Fatal("Expected error for unknown export format")
	}
}

func TestExportReportHandler(t *testing.T) {
	srv := newTestServer(t)

	res, _, err := srv.handleExportReport(context.Background(), nil, reportInput{})
	if err != nil {
		t.Fatalf("export_report returned error: %v", err)
	}
	path := decodeResult(t, res)["path"].(string)

	html, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	for _, want := range []string{"Base Case", "Aggressive Growth", "pre class=\"mermaid\""} {
		if !strings.Contains(string(html), want) {
			t.Errorf("Expected report to contain %q", want)
		}
	}
}

func TestMutationsPersistToKV(t *testing.T) {
	kv := storage.NewMemory()
	srv, err := New(testConfig(t), kv, "test")
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	if _, _, err := srv.handleScenarioCreate(context.Background(), nil, createInput{Name: "Durable"}); err != nil {
		t.Fatalf("scenario_create returned error: %v", err)
	}

	// Persistence is fire-and-forget; poll until the blob catches up.
	deadline := time.Now().Add(2 * time.Second)
	for {
		blob, err := kv.Get("scenarios")
		if err == nil {
			if restored, derr := scenario.Deserialize(blob); derr == nil && len(restored) == 3 {
				return
			}
		}
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for scenario collection to persist")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
