package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/pitfeat/core/materialize"
	"github.com/huangsam/pitfeat/core/planner"
	"github.com/huangsam/pitfeat/core/registry"
	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	registry *registry.Registry
}

// schemaPreview is the payload of preview_schema.
type schemaPreview struct {
	Table      schema.TableSpec `json:"table"`
	Statements []string         `json:"statements"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListFeatures(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	unit := schema.Unit(request.GetString("unit", ""))
	if _, ok := schema.ValidUnits[unit]; unit != "" && !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v '%s'", contract.ErrUnknownUnit, unit)), nil
	}
	toggles := map[schema.Unit]map[string]bool{
		schema.OfficerUnit:  h.baseCfg.OfficerFeatures,
		schema.DispatchUnit: h.baseCfg.DispatchFeatures,
	}
	return jsonResult(h.registry.Rows(unit, toggles))
}

func (h *toolHandler) handleClassifyFeatures(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := contract.SplitNames(request.GetString("names", ""))
	if len(names) == 0 {
		return mcp.NewToolResultError("names must list at least one feature"), nil
	}
	classes, err := h.registry.Classify(names)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}
	return jsonResult(classes)
}

func (h *toolHandler) handleDecodeFeatureName(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	return jsonResult(h.registry.Decode(name))
}

func (h *toolHandler) handlePlanSnapshots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateCohortPlan(cfg,
		request.GetString("fake_today_start", ""),
		request.GetString("fake_today_end", ""),
		request.GetString("frequency", ""),
		contract.SplitNames(request.GetString("prediction_windows", "")),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid cohort plan: %v", err)), nil
	}

	snapshots, err := planner.PlanSnapshots(ctx, planner.CohortGenerator{}, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("planning failed: %v", err)), nil
	}
	return jsonResult(schema.SnapshotRows(snapshots))
}

func (h *toolHandler) handlePreviewSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateFeatures(cfg, request.GetString("unit", ""), request.GetString("features", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid preview parameters: %v", err)), nil
	}

	m := materialize.New(nil, materialize.WithRegistry(h.registry))
	stmts, err := m.PreviewStatements(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("preview failed: %v", err)), nil
	}
	table, err := materialize.BuildTableSpec(cfg, h.registry, planner.ColumnLister{Registry: h.registry})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("preview failed: %v", err)), nil
	}
	return jsonResult(schemaPreview{Table: table, Statements: stmts})
}
