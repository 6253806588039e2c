//go:build integration

// Package integration contains integration tests for storecast.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqliteEnv points both stores at files inside a test directory.
func sqliteEnv(t *testing.T, stub *stubEndpoints) []string {
	dir := t.TempDir()
	return []string{
		"STORECAST_FORECAST_URL=" + stub.forecastURL(),
		"STORECAST_RECOMMEND_URL=" + stub.recommendURL(),
		"STORECAST_CACHE_BACKEND=sqlite",
		"STORECAST_CACHE_DB_CONNECT=" + filepath.Join(dir, "cache.db"),
		"STORECAST_HISTORY_BACKEND=sqlite",
		"STORECAST_HISTORY_DB_CONNECT=" + filepath.Join(dir, "history.db"),
		"STORECAST_LOG_LEVEL=error",
	}
}

// TestForecastVerification checks the series is sorted and the second run is served from cache.
func TestForecastVerification(t *testing.T) {
	stub := startStubEndpoints(t)
	env := sqliteEnv(t, stub)

	for range 2 {
		out, err := runStorecast(t, env, "forecast", "--department", "1", "--store", "2", "--output", "json")
		require.NoError(t, err)

		var result struct {
			Highlight int `json:"highlight"`
			Points    []struct {
				Date  string  `json:"date"`
				Value float64 `json:"value"`
			} `json:"points"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Len(t, result.Points, 3)
		assert.Equal(t, "2012-10-05", result.Points[0].Date)
		assert.Equal(t, "2012-10-19", result.Points[2].Date)
		assert.Equal(t, 5, result.Highlight)
	}
	assert.Equal(t, int32(1), stub.forecastCalls.Load(), "second submission should hit the cache")

	out, err := runStorecast(t, env, "history", "list", "--output", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "forecast")
	assert.Contains(t, lines[1], "true")
}

// TestRecommendVerification checks lenient number parsing end to end.
func TestRecommendVerification(t *testing.T) {
	stub := startStubEndpoints(t)
	out, err := runStorecast(t, sqliteEnv(t, stub), "recommend", "--customer", "Camilo", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Laundry Bag")
	assert.Contains(t, out, "2255")
	assert.Contains(t, out, "599")
}

// TestChartVerification renders a local series without any endpoint.
func TestChartVerification(t *testing.T) {
	series := filepath.Join(t.TempDir(), "series.csv")
	require.NoError(t, os.WriteFile(series, []byte("date,value\n2024-01-01,3\n2024-01-08,5\n2024-01-15,4\n"), 0o644))

	out, err := runStorecast(t, []string{"STORECAST_CACHE_BACKEND=none"}, "chart", series, "--output", "svg", "--highlight", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, "series highlighted")
}

// TestMissingEndpointFails checks an unconfigured endpoint fails with a non-zero exit.
func TestMissingEndpointFails(t *testing.T) {
	out, err := runStorecast(t, []string{"STORECAST_CACHE_BACKEND=none"}, "forecast", "--department", "1", "--store", "1")
	require.Error(t, err)
	assert.Contains(t, out, "unconfigured")
}
