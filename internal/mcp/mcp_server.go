// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/pitfeat/core/registry"
	"github.com/huangsam/pitfeat/internal/contract"
)

// NewMCPServer initializes and configures the pitfeat MCP server without starting it.
// This is exposed for unit testing.
//
// Every tool is read-only: none of them connects to the warehouse.
func NewMCPServer(baseCfg *contract.Config, reg *registry.Registry) *server.MCPServer {
	s := server.NewMCPServer(
		"Pitfeat Feature Server",
		"1.0.0",
		server.WithLogging(),
	)

	if reg == nil {
		reg = registry.Default()
	}
	h := &toolHandler{
		baseCfg:  baseCfg,
		registry: reg,
	}

	// --- 1. Tool: list_features ---
	s.AddTool(mcp.NewTool("list_features",
		mcp.WithDescription("List the registered features with their unit, family, kind and time window."),
		mcp.WithString("unit", mcp.Description("Restrict the listing to one unit. Lists every unit when omitted."), mcp.Enum("officer", "dispatch")),
	), h.handleListFeatures)

	// --- 2. Tool: classify_features ---
	s.AddTool(mcp.NewTool("classify_features",
		mcp.WithDescription("Partition feature names into categorical, numeric and label features."),
		mcp.WithString("names", mcp.Description("Comma-separated feature names."), mcp.Required()),
	), h.handleClassifyFeatures)

	// --- 3. Tool: decode_feature_name ---
	s.AddTool(mcp.NewTool("decode_feature_name",
		mcp.WithDescription("Decode the time window a feature name carries in its prefix (e.g. '3yrTrafficStops')."),
		mcp.WithString("name", mcp.Description("The feature name to decode."), mcp.Required()),
	), h.handleDecodeFeatureName)

	// --- 4. Tool: plan_snapshots ---
	s.AddTool(mcp.NewTool("plan_snapshots",
		mcp.WithDescription("Plan the distinct fake_today snapshots an officer run would cover."),
		mcp.WithString("fake_today_start", mcp.Description("First snapshot as DDMonYYYY (e.g. '01Jan2015').")),
		mcp.WithString("fake_today_end", mcp.Description("Last snapshot as DDMonYYYY. Defaults to the start.")),
		mcp.WithString("frequency", mcp.Description("Step between snapshots (e.g. '6 months', '1 year').")),
		mcp.WithString("prediction_windows", mcp.Description("Comma-separated prediction windows (e.g. '1 year,2 years').")),
	), h.handlePlanSnapshots)

	// --- 5. Tool: preview_schema ---
	s.AddTool(mcp.NewTool("preview_schema",
		mcp.WithDescription("Render the DDL and seeding statements a create would issue, without executing them."),
		mcp.WithString("unit", mcp.Description("Unit of the destination table."), mcp.Enum("officer", "dispatch")),
		mcp.WithString("features", mcp.Description("Comma-separated features to activate, replacing the configured toggles.")),
	), h.handlePreviewSchema)

	return s
}

// StartMCPServer starts the pitfeat MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, reg *registry.Registry) error {
	s := NewMCPServer(baseCfg, reg)
	return server.ServeStdio(s)
}
