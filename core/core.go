// Package core has the form flows shared by the CLI, the web server and the MCP tools.
package core

import (
	"context"
	"os"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/internal/iocache"
	"github.com/huangsam/storecast/internal/outwriter"
)

// out renders every command result in the configured format.
var out = outwriter.NewOutWriter()

// ExecutorFunc defines the function signature for the prediction commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager) error

// ExecuteForecast runs the forecast and prints the result in the configured format.
// It serves as the main entry point for the 'forecast' command.
func ExecuteForecast(ctx context.Context, cfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetForecastResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return out.WriteForecast(result, cfg, time.Since(start))
}

// ExecuteRecommend runs the recommendation and prints the table.
func ExecuteRecommend(ctx context.Context, cfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetRecommendations(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return out.WriteRecommendations(result, cfg, time.Since(start))
}

// ExecuteClassify classifies the image file and prints the label.
func ExecuteClassify(ctx context.Context, cfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetClassification(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return out.WriteClassification(result, cfg, time.Since(start))
}

// ExecuteChart renders a series read from a file or stdin. It makes no network calls.
func ExecuteChart(_ context.Context, cfg *contract.Config) error {
	points, err := LoadSeries(cfg.ChartInput, os.Stdin)
	if err != nil {
		return err
	}
	points, err = PrepareSeries(points)
	if err != nil {
		return err
	}
	return out.WriteChart(points, cfg)
}

// ExecuteCatalog prints the selectable departments, stores and customers.
func ExecuteCatalog(_ context.Context, cfg *contract.Config) error {
	return out.WriteCatalog(cfg.Catalog, cfg)
}

// ExecuteStatus prints the cache and history status.
func ExecuteStatus(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, version string) error {
	status, err := iocache.CollectStatus(mgr, version)
	if err != nil {
		return err
	}
	return out.WriteStatus(status, cfg)
}

// ExecuteHistoryList prints the most recent submissions, newest first.
func ExecuteHistoryList(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, limit int) error {
	if mgr == nil || mgr.GetHistoryStore() == nil {
		return errHistoryDisabled
	}
	records, err := mgr.GetHistoryStore().ListSubmissions(limit)
	if err != nil {
		return err
	}
	return out.WriteHistory(records, cfg)
}
