package iocache

import (
	"fmt"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/schema"
)

// CollectStatus gathers the status of both stores. A missing store is reported
// as disconnected with the "none" backend.
func CollectStatus(mgr contract.CacheManager, version string) (schema.ServiceStatus, error) {
	status := schema.ServiceStatus{
		Version: version,
		Cache:   schema.CacheStatus{Backend: string(schema.NoneBackend)},
		History: schema.HistoryStatus{
			Backend:    string(schema.NoneBackend),
			ByForm:     map[schema.FormKind]int{},
			TableSizes: map[string]int64{},
		},
	}
	if mgr == nil {
		return status, nil
	}

	if store := mgr.GetResponseStore(); store != nil {
		cacheStatus, err := store.GetStatus()
		if err != nil {
			return status, fmt.Errorf("failed to get cache status: %w", err)
		}
		status.Cache = cacheStatus
	}
	if store := mgr.GetHistoryStore(); store != nil {
		historyStatus, err := store.GetStatus()
		if err != nil {
			return status, fmt.Errorf("failed to get history status: %w", err)
		}
		status.History = historyStatus
	}
	return status, nil
}
