package cmd

import (
	"github.com/huangsam/storecast/core"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/spf13/cobra"
)

// catalogCmd lists the selectable form options.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List departments, stores and customers.",
	Long: `Print the options offered by the forms. Override them under "catalog" in .storecast.yaml.

Examples:
  storecast catalog
  storecast catalog --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCatalog(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot print catalog", err)
		}
	},
}
