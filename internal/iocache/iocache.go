package iocache

import (
	"sync"

	"github.com/huangsam/storecast/internal/contract"
)

// CacheStoreManager holds the response cache and the submission history.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	response     contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetResponseStore returns the response CacheStore, or nil when caching is not configured.
func (mgr *CacheStoreManager) GetResponseStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.response
}

// GetHistoryStore returns the HistoryStore, or nil when history is not configured.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// NewManager wraps already opened stores. Either may be nil.
func NewManager(response contract.CacheStore, history contract.HistoryStore) *CacheStoreManager {
	return &CacheStoreManager{response: response, history: history}
}
