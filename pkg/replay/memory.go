// Copyright (c) 2026 Jeremy Hahn
// Copyright (c) 2026 Automate The Things, LLC
//
// This file is part of go-securetoken.
//
// go-securetoken is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package replay

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process replay cache for single-instance
// deployments. Expired entries are purged lazily on each call.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryCache creates an empty in-memory replay cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// CheckAndRecord implements Cache.
func (c *MemoryCache) CheckAndRecord(ctx context.Context, tokenString string, expires time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := cacheKey(tokenString)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeLocked(now)

	if until, ok := c.entries[key]; ok && now.Before(until) {
		return ErrReplayDetected
	}
	c.entries[key] = now.Add(retention(expires, now))
	return nil
}

// Len returns the number of live entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeLocked(c.now())
	return len(c.entries)
}

func (c *MemoryCache) purgeLocked(now time.Time) {
	for key, until := range c.entries {
		if !now.Before(until) {
			delete(c.entries, key)
		}
	}
}
