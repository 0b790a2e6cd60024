package hashing

import (
	"sync"
	"time"
)

type cacheEntry struct {
	digest    string
	expiresAt time.Time
}

// digestCache is a time-bounded map of url-hash -> image digest. Concurrent
// population by independent callers is tolerated; the hash function is pure
// so duplicate recomputation is harmless.
type digestCache struct {
	entries  map[string]cacheEntry
	mu       sync.RWMutex
	ttl      time.Duration
	stopChan chan struct{}
}

func newDigestCache(ttl time.Duration) *digestCache {
	dc := &digestCache{
		entries:  make(map[string]cacheEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	go dc.startCleanup()

	return dc
}

func (dc *digestCache) startCleanup() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-dc.stopChan:
			return
		case <-ticker.C:
			dc.cleanExpiredEntries()
		}
	}
}

func (dc *digestCache) cleanExpiredEntries() {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	now := time.Now()
	for key, entry := range dc.entries {
		if now.After(entry.expiresAt) {
			delete(dc.entries, key)
		}
	}
}

func (dc *digestCache) get(key string) (string, bool) {
	dc.mu.RLock()
	defer dc.mu.RUnlock()

	entry, exists := dc.entries[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.digest, true
}

func (dc *digestCache) set(key, digest string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.entries[key] = cacheEntry{
		digest:    digest,
		expiresAt: time.Now().Add(dc.ttl),
	}
}

func (dc *digestCache) stop() {
	close(dc.stopChan)
}
