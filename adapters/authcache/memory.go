// Package authcache provides temporary-authorization backends: an in-memory
// one swept by the auth cleaner and a Redis one for multi-instance
// deployments, where TTL expiry replaces the sweep.
package authcache

import (
	"context"
	"sync"
	"time"

	"github.com/sui-direct/node/core"
	"github.com/sui-direct/node/ports"
)

// MemoryCache keeps authorizations in a mutex-guarded map. Entries older
// than the retention window count as absent even before Purge removes them.
type MemoryCache struct {
	retention time.Duration

	mu      sync.RWMutex
	granted map[string]core.TemporaryAuthorization
}

func NewMemoryCache(retention time.Duration) *MemoryCache {
	return &MemoryCache{
		retention: retention,
		granted:   make(map[string]core.TemporaryAuthorization),
	}
}

var _ ports.AuthCache = (*MemoryCache)(nil)

func (c *MemoryCache) Grant(ctx context.Context, peerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.granted[peerID] = core.TemporaryAuthorization{PeerID: peerID, GrantedAt: time.Now()}
	return nil
}

func (c *MemoryCache) IsAuthorized(ctx context.Context, peerID string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	auth, ok := c.granted[peerID]
	if !ok {
		return false, nil
	}
	return time.Since(auth.GrantedAt) <= c.retention, nil
}

func (c *MemoryCache) Purge(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := time.Now()
	for peerID, auth := range c.granted {
		if now.Sub(auth.GrantedAt) > c.retention {
			delete(c.granted, peerID)
			removed++
		}
	}
	return removed, nil
}
