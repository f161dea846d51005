package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/pitfeat/core/materialize"
	"github.com/huangsam/pitfeat/core/planner"
	"github.com/huangsam/pitfeat/core/registry"
	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/internal/outwriter"
)

// schemaCmd previews the DDL of a run.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the statements a create would issue.",
	Long: `Render the drop, create and seed statements for the configured table
without connecting to the warehouse.

Examples:
  pitfeat schema --unit dispatch --features DispatchHour,DispatchType \
    --raw-data-from-date 2020-01-01 --raw-data-to-date 2020-01-31`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		reg := registry.Default()
		stmts, err := materialize.New(nil, materialize.WithRegistry(reg), materialize.WithLogger(logger)).
			PreviewStatements(rootCtx, cfg)
		if err != nil {
			contract.LogFatal("Cannot preview schema", err)
		}
		table, err := materialize.BuildTableSpec(cfg, reg, planner.ColumnLister{Registry: reg})
		if err != nil {
			contract.LogFatal("Cannot build table spec", err)
		}
		if err := outwriter.PrintStatements(table, stmts, cfg); err != nil {
			contract.LogFatal("Cannot print statements", err)
		}
	},
}
