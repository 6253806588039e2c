// Package mcp exposes the prediction forms and the chart renderer as Model Context Protocol tools.
package mcp

import (
	"context"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the storecast MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"storecast",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
		version: version,
	}

	// --- 1. Tool: get_forecast ---
	s.AddTool(mcp.NewTool("get_forecast",
		mcp.WithDescription("Forecast weekly sales for one department and store. Returns the sorted series and its highlight window."),
		mcp.WithNumber("department", mcp.Description("Department number from the catalog."), mcp.Required()),
		mcp.WithNumber("store", mcp.Description("Store number from the catalog."), mcp.Required()),
		mcp.WithBoolean("refresh", mcp.Description("Skip the response cache and call the endpoint.")),
	), h.handleGetForecast)

	// --- 2. Tool: get_recommendations ---
	s.AddTool(mcp.NewTool("get_recommendations",
		mcp.WithDescription("Recommend products based on a customer's last purchase."),
		mcp.WithString("customer", mcp.Description("Catalog customer ID or name.")),
		mcp.WithString("last_purchase", mcp.Description("Product name to use directly instead of a catalog customer.")),
	), h.handleGetRecommendations)

	// --- 3. Tool: classify_image ---
	s.AddTool(mcp.NewTool("classify_image",
		mcp.WithDescription("Classify a PNG, JPEG or GIF image file."),
		mcp.WithString("path", mcp.Description("Path to the image file."), mcp.Required()),
	), h.handleClassifyImage)

	// --- 4. Tool: render_chart ---
	s.AddTool(mcp.NewTool("render_chart",
		mcp.WithDescription("Render a dated series as an SVG line chart with a highlighted trailing window."),
		mcp.WithString("points_json", mcp.Description(`JSON array of {"date":"YYYY-MM-DD","value":N} points.`), mcp.Required()),
		mcp.WithNumber("highlight", mcp.Description("Number of trailing points to highlight. Defaults to 30.")),
		mcp.WithNumber("width", mcp.Description("Chart width in pixels.")),
		mcp.WithNumber("height", mcp.Description("Chart height in pixels.")),
		mcp.WithString("curve", mcp.Description("Interpolation between points."), mcp.Enum("monotone", "linear")),
	), h.handleRenderChart)

	// --- 5. Tool: get_status ---
	s.AddTool(mcp.NewTool("get_status",
		mcp.WithDescription("Report cache and submission history status."),
	), h.handleGetStatus)

	return s
}

// StartMCPServer starts the storecast MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager, version string) error {
	s := NewMCPServer(baseCfg, client, mgr, version)
	return server.ServeStdio(s)
}
