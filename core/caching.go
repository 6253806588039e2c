package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/schema"
)

// currentCacheVersion defines the version of the cached response encoding
const currentCacheVersion = 1

// requestKey derives the cache and coalescing key of a submission from its form and payload.
func requestKey(form schema.FormKind, payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		data = fmt.Appendf(nil, "%v", payload)
	}
	return fmt.Sprintf("%x", sha256.Sum256(append([]byte(string(form)+"|"), data...)))
}

// responseStore returns the cache store, or nil when caching is off for this config.
func responseStore(cfg *contract.Config, mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil || cfg.CacheTTL <= 0 {
		return nil
	}
	return mgr.GetResponseStore()
}

// checkCacheHit attempts to retrieve and validate a cached response
func checkCacheHit[T any](store contract.CacheStore, key string, ttl time.Duration) (T, bool) {
	var result T
	data, version, ts, err := store.Get(key)
	if err != nil {
		return result, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > ttl {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

// storeResponse writes a successful response to the cache. Store errors are not fatal.
func storeResponse(ctx context.Context, store contract.CacheStore, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		loggerFrom(ctx).WithError(err).Warn("failed to cache response")
	}
}

// cachedCall serves a submission from the cache when possible, otherwise runs call through
// the in-flight group and caches its success. Failures are never cached.
func cachedCall[T any](ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, key string, call func(context.Context) (T, error)) (T, bool, error) {
	store := responseStore(cfg, mgr)
	if store != nil && !shouldBypassCache(ctx) {
		if result, ok := checkCacheHit[T](store, key, cfg.CacheTTL); ok {
			return result, true, nil
		}
	}

	result, err := shareCall(ctx, key, call)
	if err != nil {
		return result, false, err
	}
	if store != nil {
		storeResponse(ctx, store, key, result)
	}
	return result, false, nil
}
