package cmd

import (
	"github.com/huangsam/storecast/core"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/spf13/cobra"
)

// recommendCmd requests product recommendations seeded by a last purchase.
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend products based on a customer's last purchase.",
	Long: `Look up the customer's last purchase in the catalog and ask the recommendation
endpoint for related products.

Examples:
  # Recommend for a catalog customer by ID or name
  storecast recommend --customer 3
  storecast recommend --customer Valentina

  # Recommend from an arbitrary product
  storecast recommend --last-purchase "Men's Maxico Running Shoes" --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRecommend(flowCtx("recommend"), cfg, predictionClient, cacheManager); err != nil {
			contract.LogFatal("Cannot run recommendation", err)
		}
	},
}
