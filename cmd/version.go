package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/huangsam/pitfeat/core/registry"
	"github.com/huangsam/pitfeat/schema"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pitfeat.",
	Long: `Display version information including build details and the size of
the built-in feature registry.

Include this output when reporting bugs.`,
	Run: func(cmd *cobra.Command, _ []string) {
		reg := registry.Default()
		cmd.Printf("pitfeat CLI\n")
		cmd.Printf("  Version:  %s\n", version)
		cmd.Printf("  Commit:   %s\n", commit)
		cmd.Printf("  Built:    %s\n", date)
		cmd.Printf("  Runtime:  %s\n", runtime.Version())
		cmd.Printf("  Features: %d officer, %d dispatch\n",
			len(reg.Names(schema.OfficerUnit)), len(reg.Names(schema.DispatchUnit)))
	},
}
