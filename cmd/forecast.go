package cmd

import (
	"github.com/huangsam/storecast/core"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/spf13/cobra"
)

// forecastCmd requests the weekly sales forecast for one department and store.
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast weekly sales for a department and store.",
	Long: `Send the department and store to the forecast endpoint and render the returned series.

The response holds recent actual sales followed by the forecast horizon. The trailing
window (5 points unless --highlight is set) is drawn as the highlighted series.

Examples:
  # Print the series as a table
  storecast forecast --department 1 --store 2

  # Write the chart as SVG
  storecast forecast -d 1 -s 2 --output svg --output-file forecast.svg

  # Export points with their window role
  storecast forecast -d 3 -s 1 --output parquet --output-file forecast.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteForecast(flowCtx("forecast"), cfg, predictionClient, cacheManager); err != nil {
			contract.LogFatal("Cannot run forecast", err)
		}
	},
}
