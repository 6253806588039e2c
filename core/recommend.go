package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/schema"
)

// ResolveLastPurchase returns the purchase that seeds recommendations. An explicit
// last purchase wins over the catalog customer, which may be given by ID or name.
func ResolveLastPurchase(cfg *contract.Config) (string, error) {
	if cfg.LastPurchase != "" {
		return cfg.LastPurchase, nil
	}
	if cfg.Customer == "" {
		return "", contract.NewRequestError(contract.ReasonInvalidInput, errors.New("a customer or a last purchase is required"))
	}
	customer, ok := cfg.Catalog.FindCustomer(cfg.Customer)
	if !ok {
		return "", contract.NewRequestError(contract.ReasonInvalidInput, fmt.Errorf("unknown customer %q", cfg.Customer))
	}
	return customer.LastPurchase, nil
}

// Recommend requests the products recommended after lastPurchase.
func Recommend(ctx context.Context, cfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager, lastPurchase string) (schema.RecommendationResult, error) {
	start := time.Now()
	key := requestKey(schema.RecommendationForm, lastPurchase)

	items, cached, err := cachedCall(ctx, cfg, mgr, key, func(ctx context.Context) ([]schema.RecommendationItem, error) {
		return client.Recommend(ctx, lastPurchase)
	})
	recordSubmission(ctx, mgr, schema.RecommendationForm, key, start, cached, err)
	if err != nil {
		return schema.RecommendationResult{}, err
	}
	return schema.RecommendationResult{LastPurchase: lastPurchase, Items: items}, nil
}

// GetRecommendations runs the recommendation for the customer or purchase selected in cfg.
func GetRecommendations(ctx context.Context, cfg *contract.Config, client contract.PredictionClient, mgr contract.CacheManager) (schema.RecommendationResult, error) {
	lastPurchase, err := ResolveLastPurchase(cfg)
	if err != nil {
		return schema.RecommendationResult{}, err
	}
	return Recommend(ctx, cfg, client, mgr, lastPurchase)
}
