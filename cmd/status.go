package cmd

import (
	"github.com/huangsam/storecast/core"
	"github.com/spf13/cobra"
)

// statusCmd prints the combined cache and history status.
var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show cache and submission history status.",
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteStatus(rootCtx, cfg, cacheManager, version)
	},
}
