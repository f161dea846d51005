package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/pitfeat/core/planner"
	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/internal/outwriter"
)

// snapshotsCmd prints the planned snapshots.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Print the distinct snapshots an officer run covers.",
	Long: `Generate the cohort plan and reduce it to its distinct fake_today
instants in ascending order.

Examples:
  pitfeat snapshots --fake-today-start 01Jan2015 --fake-today-end 01Jan2017 --fake-today-frequency '6 months'
  pitfeat snapshots --fake-today-start 01Jan2015 --output parquet --output-file plan.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		snapshots, err := planner.PlanSnapshots(rootCtx, planner.CohortGenerator{}, cfg)
		if err != nil {
			contract.LogFatal("Cannot plan snapshots", err)
		}
		if err := outwriter.PrintSnapshots(snapshots, cfg); err != nil {
			contract.LogFatal("Cannot print snapshots", err)
		}
	},
}
