package cmd

import (
	"github.com/huangsam/storecast/core"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/spf13/cobra"
)

// chartCmd renders a local series without calling any endpoint.
var chartCmd = &cobra.Command{
	Use:   "chart [series-file]",
	Short: "Render a dated series from a JSON or CSV file.",
	Long: `Render a series read from a file, or from stdin when the path is "-" or omitted.

JSON input is an array of {"date","value"} objects or an object with a "prediction" array.
CSV input has a date column followed by a value, with an optional header row.

Examples:
  storecast chart sales.csv --output svg --output-file sales.svg
  cat series.json | storecast chart --highlight 10 --output png --output-file series.png`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChart(flowCtx("chart"), cfg); err != nil {
			contract.LogFatal("Cannot render chart", err)
		}
	},
}
