package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/pitfeat/core/registry"
	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/internal/outwriter"
	"github.com/huangsam/pitfeat/schema"
)

// featuresCmd groups registry inspection commands.
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Inspect the feature registry",
	Long: `Inspect the registered features without touching the warehouse.

Subcommands:
  list     - List registered features and whether they are enabled
  classify - Split features into categorical, numeric and label
  decode   - Decode the time window carried by feature names`,
}

// featuresListCmd lists the registry.
var featuresListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered features with kind, family and time window",
	Long: `List the registered features of the configured unit.

Examples:
  pitfeat features list --unit dispatch
  pitfeat features list --all-units --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		unit := cfg.Unit
		if viper.GetBool("all-units") {
			unit = ""
		}
		toggles := map[schema.Unit]map[string]bool{
			schema.OfficerUnit:  cfg.OfficerFeatures,
			schema.DispatchUnit: cfg.DispatchFeatures,
		}
		if err := outwriter.PrintFeatures(registry.Default().Rows(unit, toggles), cfg); err != nil {
			contract.LogFatal("Cannot list features", err)
		}
	},
}

// featuresClassifyCmd classifies the active or given features.
var featuresClassifyCmd = &cobra.Command{
	Use:   "classify [name...]",
	Short: "Classify features as categorical, numeric or label",
	Long: `Partition feature names along the categorical and label axes.

Without arguments the active features of the configured unit are classified.
Any unknown name aborts the classification.

Examples:
  pitfeat features classify --unit dispatch
  pitfeat features classify DispatchType DispatchHour LabelSustained`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		names := args
		if len(names) == 0 {
			names = cfg.ActiveFeatures()
		}
		classes, err := registry.Default().Classify(names)
		if err != nil {
			contract.LogFatal("Cannot classify features", err)
		}
		if err := outwriter.PrintClassification(classes, cfg); err != nil {
			contract.LogFatal("Cannot print classification", err)
		}
	},
}

// featuresDecodeCmd decodes feature names.
var featuresDecodeCmd = &cobra.Command{
	Use:   "decode name...",
	Short: "Decode the time window in feature names",
	Long: `Decode the time window a name carries in its prefix.

A digit followed by "yr" at the start of a name sets the window in years.
Every other name uses the default window of 15 years.

Examples:
  pitfeat features decode 3yrTrafficStops DispatchHour`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		reg := registry.Default()
		rows := make([]schema.DecodedName, 0, len(args))
		for _, name := range args {
			rows = append(rows, reg.Decode(name))
		}
		if err := outwriter.PrintDecodedNames(rows, cfg); err != nil {
			contract.LogFatal("Cannot print decoded names", err)
		}
	},
}
