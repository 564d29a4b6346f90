package iocache

import (
	"sync"

	"github.com/huangsam/salespulse/internal/contract"
)

// CacheStoreManager manages the result CacheStore.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	results      contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// NewCacheStoreManager wraps an existing store.
func NewCacheStoreManager(store contract.CacheStore) *CacheStoreManager {
	return &CacheStoreManager{results: store}
}

// GetResultStore returns the result CacheStore.
func (mgr *CacheStoreManager) GetResultStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.results
}
