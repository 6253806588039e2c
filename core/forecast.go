package core

import (
	"context"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/schema"
)

// Forecast requests the forecast for one department and store and returns the sorted series.
// The highlight window follows the configuration, defaulting to the forecast horizon.
func Forecast(ctx context.Context, cfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager, req schema.ForecastRequest) (schema.ForecastResult, error) {
	start := time.Now()
	key := requestKey(schema.ForecastForm, req)

	points, cached, err := cachedCall(ctx, cfg, mgr, key, func(ctx context.Context) ([]schema.DataPoint, error) {
		return fetchForecast(ctx, client, req)
	})
	recordSubmission(ctx, mgr, schema.ForecastForm, key, start, cached, err)
	if err != nil {
		return schema.ForecastResult{}, err
	}

	return schema.ForecastResult{
		Department: req.Department,
		Store:      req.Store,
		Highlight:  cfg.HighlightOr(schema.DefaultForecastHighlight),
		Points:     points,
	}, nil
}

// fetchForecast calls the endpoint and turns the records into a sorted, validated series.
func fetchForecast(ctx context.Context, client contract.PredictionClient, req schema.ForecastRequest) ([]schema.DataPoint, error) {
	records, err := client.Forecast(ctx, req)
	if err != nil {
		return nil, err
	}
	points, err := schema.ToDataPoints(records)
	if err != nil {
		return nil, contract.NewRequestError(contract.ReasonDecode, err)
	}
	schema.SortDataPoints(points)
	if err := schema.ValidateDataPoints(points); err != nil {
		return nil, contract.NewRequestError(contract.ReasonDecode, err)
	}
	return points, nil
}

// GetForecastResults runs the forecast for the department and store selected in cfg.
func GetForecastResults(ctx context.Context, cfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager) (schema.ForecastResult, error) {
	return Forecast(ctx, cfg, client, mgr, schema.ForecastRequest{Department: cfg.Department, Store: cfg.Store})
}
