package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/storecast/internal/contract"
	mcp_internal "github.com/huangsam/storecast/internal/mcp"
	"github.com/huangsam/storecast/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	forecastErr  error
	lastPurchase string
}

func (c *stubClient) Forecast(_ context.Context, _ schema.ForecastRequest) ([]schema.PredictionRecord, error) {
	if c.forecastErr != nil {
		return nil, c.forecastErr
	}
	return []schema.PredictionRecord{
		{Date: "2012-10-12", Sales: 20},
		{Date: "2012-10-05", Sales: 10},
	}, nil
}

func (c *stubClient) Recommend(_ context.Context, lastPurchase string) ([]schema.RecommendationItem, error) {
	c.lastPurchase = lastPurchase
	return []schema.RecommendationItem{{Name: "Gym Bag", ActualPrice: 25}}, nil
}

func (c *stubClient) Classify(_ context.Context, _ string, _ []byte) (string, error) {
	return "bags", nil
}

func baseConfig() *contract.Config {
	return &contract.Config{
		Precision: 2,
		Highlight: contract.AutoHighlight,
		Curve:     schema.MonotoneCurve,
		Catalog:   schema.DefaultCatalog(),
	}
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerTools(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), &stubClient{}, nil, "test")
	for _, name := range []string{"get_forecast", "get_recommendations", "classify_image", "render_chart", "get_status"} {
		assert.NotNil(t, s.GetTool(name), name)
	}
}

func TestGetForecast(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := mcp_internal.NewMCPServer(baseConfig(), &stubClient{}, nil, "test")
		res := callTool(t, s, "get_forecast", map[string]any{"department": 1.0, "store": 2.0, "refresh": true})
		require.False(t, res.IsError, resultText(res))

		var result schema.ForecastResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
		assert.Equal(t, 1, result.Department)
		assert.Equal(t, 2, result.Store)
		require.Len(t, result.Points, 2)
		assert.True(t, schema.IsSorted(result.Points))
	})

	t.Run("unknown department", func(t *testing.T) {
		s := mcp_internal.NewMCPServer(baseConfig(), &stubClient{}, nil, "test")
		res := callTool(t, s, "get_forecast", map[string]any{"department": 77.0, "store": 1.0})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "unknown department 77")
	})

	t.Run("endpoint failure", func(t *testing.T) {
		client := &stubClient{forecastErr: contract.NewRequestError(contract.ReasonStatus, errors.New("bad gateway"))}
		s := mcp_internal.NewMCPServer(baseConfig(), client, nil, "test")
		res := callTool(t, s, "get_forecast", map[string]any{"department": 1.0, "store": 1.0})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "(status)")
	})
}

func TestGetRecommendations(t *testing.T) {
	client := &stubClient{}
	s := mcp_internal.NewMCPServer(baseConfig(), client, nil, "test")

	res := callTool(t, s, "get_recommendations", map[string]any{"customer": "Simon"})
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), "Gym Bag")
	assert.Equal(t, "polyester 23 Cms Gym Bag(7572229_Pink_X_Red)", client.lastPurchase)

	res = callTool(t, s, "get_recommendations", map[string]any{"last_purchase": "Sport Men Sweatshirt", "customer": "Simon"})
	require.False(t, res.IsError)
	assert.Equal(t, "Sport Men Sweatshirt", client.lastPurchase)

	res = callTool(t, s, "get_recommendations", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), string(contract.ReasonInvalidInput))
}

func TestClassifyImage(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), &stubClient{}, nil, "test")

	res := callTool(t, s, "classify_image", map[string]any{"path": ""})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "path is required")

	textFile := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(textFile, []byte("not an image"), 0o644))
	res = callTool(t, s, "classify_image", map[string]any{"path": textFile})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "unsupported image type")
}

func TestRenderChart(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), &stubClient{}, nil, "test")
	points := `[{"date":"2024-01-08","value":2},{"date":"2024-01-01","value":1}]`

	res := callTool(t, s, "render_chart", map[string]any{"points_json": points, "width": 320.0, "height": 200.0, "highlight": 1.0})
	require.False(t, res.IsError, resultText(res))
	assert.True(t, strings.HasPrefix(resultText(res), "<svg"))
	assert.Contains(t, resultText(res), `width="320"`)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"bad json", map[string]any{"points_json": "[{"}, "invalid points_json"},
		{"duplicate dates", map[string]any{"points_json": `[{"date":"2024-01-01","value":1},{"date":"2024-01-01","value":2}]`}, "invalid series"},
		{"negative highlight", map[string]any{"points_json": points, "highlight": -2.0}, "chart rendering failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, s, "render_chart", tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(res), tt.want)
		})
	}
}

func TestGetStatus(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), &stubClient{}, nil, "9.9.9")
	res := callTool(t, s, "get_status", nil)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(res), `"version": "9.9.9"`)
}
