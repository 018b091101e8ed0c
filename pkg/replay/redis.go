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
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces replay entries in a shared Redis instance.
const redisKeyPrefix = "securetoken:replay:"

// RedisCache is a replay cache backed by Redis, for deployments where
// multiple validators must share replay state. SET NX gives the atomic
// check-and-record; the key TTL matches the token's remaining lifetime.
type RedisCache struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisCache creates a replay cache on an existing Redis client.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client, now: time.Now}
}

// CheckAndRecord implements Cache.
func (c *RedisCache) CheckAndRecord(ctx context.Context, tokenString string, expires time.Time) error {
	key := redisKeyPrefix + cacheKey(tokenString)
	ttl := retention(expires, c.now())

	set, err := c.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return fmt.Errorf("replay: redis: %w", err)
	}
	if !set {
		return ErrReplayDetected
	}
	return nil
}
