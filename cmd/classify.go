package cmd

import (
	"github.com/huangsam/storecast/core"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/spf13/cobra"
)

// classifyCmd uploads an image to the classification endpoint.
var classifyCmd = &cobra.Command{
	Use:   "classify <image-path>",
	Short: "Classify a PNG, JPEG or GIF image.",
	Long: `Validate the image locally and send it to the classification endpoint.

Images must be PNG, JPEG or GIF and at most 10 MiB.

Examples:
  storecast classify ./shoe.jpg
  storecast classify ./bag.png --classify-encoding json --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClassify(flowCtx("classify"), cfg, predictionClient, cacheManager); err != nil {
			contract.LogFatal("Cannot run classification", err)
		}
	},
}
