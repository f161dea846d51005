package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/huangsam/pitfeat/core/materialize"
	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/internal/runstore"
	"github.com/huangsam/pitfeat/internal/warehouse"
)

// materializeCmd builds a feature table end to end.
var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Drop, create, seed and populate a feature table.",
	Long: `Rebuild the configured feature table in the warehouse.

Runs two stages against a single warehouse connection:
- create: drop the table, create it with one column per feature and seed it
  with one row per officer and snapshot (officer) or per dispatch (dispatch)
- populate: compute every active feature into the seeded rows, feature by
  feature and snapshot by snapshot

The first failing statement aborts the run. Each run is recorded in the run
ledger unless --run-backend none is given.

A run exclusively owns its table from the DROP onwards. Do not start two runs
against the same table name at the same time.

Examples:
  # Officer table over yearly snapshots
  pitfeat materialize --unit officer --fake-today-start 01Jan2015 --fake-today-end 01Jan2018

  # Dispatch table for January 2020
  pitfeat materialize --unit dispatch --raw-data-from-date 2020-01-01 --raw-data-to-date 2020-01-31

  # Recompute features without rebuilding the table
  pitfeat materialize --populate-only`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		stages, err := selectStages(viper.GetBool("create-only"), viper.GetBool("populate-only"))
		if err != nil {
			contract.LogFatal("Invalid stage selection", err)
		}
		report, err := runMaterialize(rootCtx, stages)
		if err != nil {
			contract.LogFatal("Materialization failed", err)
		}
		cmd.Printf("Materialized %s.%s: %d features, %d snapshots in %s (run %s)\n",
			report.Table.Schema, report.Table.Name, len(report.Features), len(report.Snapshots),
			report.Elapsed.Round(time.Millisecond), report.RunUUID)
	},
}

// selectStages maps the stage flags to materializer stages.
func selectStages(createOnly, populateOnly bool) (materialize.Stages, error) {
	switch {
	case createOnly && populateOnly:
		return materialize.Stages{}, errors.New("--create-only and --populate-only are mutually exclusive")
	case createOnly:
		return materialize.Stages{Create: true}, nil
	case populateOnly:
		return materialize.Stages{Populate: true}, nil
	default:
		return materialize.AllStages, nil
	}
}

func runMaterialize(ctx context.Context, stages materialize.Stages) (*materialize.Report, error) {
	wh, err := warehouse.Open(ctx, cfg.WarehouseDBConnect)
	if err != nil {
		return nil, err
	}
	defer func() { _ = wh.Close() }()

	if stages.Create {
		if err := wh.EnsureSchema(ctx, cfg.TableSchema); err != nil {
			return nil, err
		}
	}

	opts := []materialize.Option{materialize.WithLogger(logger)}
	store, err := runstore.New(cfg.RunBackend, cfg.RunDBConnect)
	if err != nil {
		logger.Warn("run ledger unavailable, continuing without it", zap.Error(err))
	} else {
		defer func() { _ = store.Close() }()
		opts = append(opts, materialize.WithRunStore(store))
	}

	report, err := materialize.New(wh, opts...).Run(ctx, cfg, stages)
	if err != nil {
		return report, fmt.Errorf("run on %s failed: %w", cfg.TableName, err)
	}
	return report, nil
}
