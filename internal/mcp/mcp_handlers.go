package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/storecast/core"
	"github.com/huangsam/storecast/core/chart"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/internal/iocache"
	"github.com/huangsam/storecast/internal/outwriter"
	"github.com/huangsam/storecast/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.PredictionClient
	mgr     contract.CacheManager
	version string
}

// failure reports a failed prediction as a tool error. Request errors carry their reason in the message.
func failure(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", action, err))
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetForecast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	req := schema.ForecastRequest{
		Department: request.GetInt("department", 0),
		Store:      request.GetInt("store", 0),
	}
	if !cfg.Catalog.HasDepartment(req.Department) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown department %d: must be one of %v", req.Department, cfg.Catalog.Departments)), nil
	}
	if !cfg.Catalog.HasStore(req.Store) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown store %d: must be one of %v", req.Store, cfg.Catalog.Stores)), nil
	}
	if request.GetBool("refresh", false) {
		ctx = core.WithCacheBypass(ctx)
	}

	result, err := core.Forecast(ctx, cfg, h.client, h.mgr, req)
	if err != nil {
		return failure("forecast", err), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Customer = request.GetString("customer", "")
	cfg.LastPurchase = request.GetString("last_purchase", "")

	result, err := core.GetRecommendations(ctx, cfg, h.client, h.mgr)
	if err != nil {
		return failure("recommendation", err), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleClassifyImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.ImagePath = request.GetString("path", "")
	if cfg.ImagePath == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	result, err := core.GetClassification(ctx, cfg, h.client, h.mgr)
	if err != nil {
		return failure("classification", err), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleRenderChart(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := outwriter.ChartOptions(h.baseCfg, schema.DefaultChartHighlight)
	opts.Highlight = request.GetInt("highlight", opts.Highlight)
	opts.Width = request.GetInt("width", opts.Width)
	opts.Height = request.GetInt("height", opts.Height)
	if c := request.GetString("curve", ""); c != "" {
		opts.Curve = schema.CurveMode(c)
	}

	var points []schema.DataPoint
	if err := json.Unmarshal([]byte(request.GetString("points_json", "")), &points); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid points_json: %v", err)), nil
	}
	points, err := core.PrepareSeries(points)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid series: %v", err)), nil
	}

	drawing, err := chart.Render(points, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chart rendering failed: %v", err)), nil
	}
	return mcp.NewToolResultText(drawing.SVG()), nil
}

func (h *toolHandler) handleGetStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := iocache.CollectStatus(h.mgr, h.version)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}
	return jsonResult(status), nil
}
