package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "scenario_list",
		Description: "List all scenarios in the collection with the current selection. Guidance: call this first to anchor on existing scenario IDs before editing or computing.",
	}, s.handleScenarioList)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "scenario_get",
		Description: "Get the full assumption set of one scenario. Defaults to the selected scenario when no ID is passed.",
	}, s.handleScenarioGet)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "scenario_create",
		Description: "Create a new scenario with canonical default assumptions and select it. Use 'scenario_update' afterwards to shape it.",
	}, s.handleScenarioCreate)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "scenario_duplicate",
		Description: "Deep-copy a scenario under a fresh ID and select the copy. Guidance: duplicate before exploring a what-if so the original assumptions stay intact.",
	}, s.handleScenarioDuplicate)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "scenario_update",
		Description: "Apply a partial update to a scenario. Only the fields you pass change; everything else is left untouched. Percentages are 0-100, amounts are dollars.",
		InputSchema: updateSchema(),
	}, s.handleScenarioUpdate)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "scenario_select",
		Description: "Make a scenario the selected one. Tools that take an optional scenario_id operate on the selection by default.",
	}, s.handleScenarioSelect)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "scenario_delete",
		Description: "Delete a scenario permanently. If it was selected, selection moves to the first remaining scenario. The ID is required; this tool never defaults to the selection.",
	}, s.handleScenarioDelete)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "scenario_item_add",
		Description: "Add a custom line item to a scenario's 'savings' or 'costs' list. Savings raise gross savings; costs are folded into the annual cost under every pricing model.",
	}, s.handleItemAdd)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "scenario_item_update",
		Description: "Change the label or amount of one custom line item. Item IDs are stable; removing an item never renumbers the others.",
	}, s.handleItemUpdate)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "scenario_item_remove",
		Description: "Remove one custom line item from a scenario's 'savings' or 'costs' list.",
	}, s.handleItemRemove)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "compute_metrics",
		Description: "Compute the full ROI picture for one scenario: labor savings, fee savings, counted savings after the safety margin, annual cost, ROI multiple, payback months, suggested pricing and the price sensitivity curve. " +
			"Results are derived fresh on every call; nothing is cached. Guidance: do not extrapolate ROI or payback yourself from partial figures, call this tool again after any assumption change.",
	}, s.handleComputeMetrics)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "compare_scenarios",
		Description: "Compute headline metrics for several scenarios side by side. Defaults to the whole collection. " +
			"Guidance: use this to rank what-if variants; use 'compute_metrics' when you need one scenario's full detail.",
	}, s.handleCompareScenarios)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "export_scenarios",
		Description: "Write the collection to a file in the reports directory: 'csv' for a spreadsheet-ready comparison table, 'json' for a full backup that can be re-imported.",
	}, s.handleExportScenarios)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "export_report",
		Description: "Render a standalone HTML report with the comparison table, per-scenario metrics and charts. Returns the file path.",
	}, s.handleExportReport)
}
