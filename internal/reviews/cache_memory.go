// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package reviews

import (
	"context"
	"sync"
	"time"

	"github.com/lectern-pub/lectern/internal/article"
)

// memoryCacheCleanupInterval is how often expired entries are swept.
const memoryCacheCleanupInterval = time.Minute

type memoryCacheEntry struct {
	review    *article.PeerReview
	expiresAt time.Time
}

// MemoryCache implements Cache with an in-process TTL map.
//
// It is the fallback when no REDIS_URL is configured. The cache holds
// its state in the struct so independent instances never interfere.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
}

// NewMemoryCache creates an empty in-process review cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryCacheEntry)}
}

// Get implements [Cache]. A miss or expired entry returns (nil, nil).
func (cache *MemoryCache) Get(_ context.Context, key string) (*article.PeerReview, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	entry, found := cache.entries[key]
	if !found {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(cache.entries, key)
		return nil, nil
	}
	return entry.review, nil
}

// Set implements [Cache].
func (cache *MemoryCache) Set(_ context.Context, key string, review *article.PeerReview, ttl time.Duration) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	cache.entries[key] = memoryCacheEntry{
		review:    review,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// StartCleanup runs a background sweep that removes expired entries
// until the context is cancelled.
func (cache *MemoryCache) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(memoryCacheCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				now := time.Now()
				cache.mu.Lock()
				for key, entry := range cache.entries {
					if now.After(entry.expiresAt) {
						delete(cache.entries, key)
					}
				}
				cache.mu.Unlock()
			case <-ctx.Done():
				// Stop the goroutine when the application shuts down
				return
			}
		}
	}()
}
