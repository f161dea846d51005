package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/pitfeat/core/registry"
	"github.com/huangsam/pitfeat/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the pitfeat MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents inspect the feature
registry, plan snapshots and preview DDL. No tool touches the warehouse.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, registry.Default())
	},
}
