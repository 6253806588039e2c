package cmd

import (
	"github.com/huangsam/storecast/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the storecast MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents request forecasts, recommendations, classifications and charts.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs already go to stderr, stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(flowCtx("mcp"), cfg, predictionClient, cacheManager, version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
