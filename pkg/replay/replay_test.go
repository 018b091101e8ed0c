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
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_DetectsReplay(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	require.NoError(t, c.CheckAndRecord(ctx, "token-a", expires))
	assert.ErrorIs(t, c.CheckAndRecord(ctx, "token-a", expires), ErrReplayDetected)

	// A different token is unaffected.
	require.NoError(t, c.CheckAndRecord(ctx, "token-b", expires))
}

func TestMemoryCache_EntriesAgeOut(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.CheckAndRecord(ctx, "token-a", now.Add(time.Hour)))
	assert.Equal(t, 1, c.Len())

	// Once past the token's expiration, the slot is free again.
	now = now.Add(2 * time.Hour)
	require.NoError(t, c.CheckAndRecord(ctx, "token-a", now.Add(time.Hour)))
}

func TestMemoryCache_MinimumRetention(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	// An already-expired token is still retained for the minimum window,
	// so a replay racing the lifetime check is caught.
	require.NoError(t, c.CheckAndRecord(ctx, "expired", now.Add(-time.Hour)))

	now = now.Add(30 * time.Second)
	assert.ErrorIs(t, c.CheckAndRecord(ctx, "expired", now.Add(-time.Hour)), ErrReplayDetected)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	const goroutines = 16
	var wg sync.WaitGroup
	results := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- c.CheckAndRecord(ctx, "contended", expires)
		}()
	}
	wg.Wait()
	close(results)

	var successes, replays int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case err == ErrReplayDetected:
			replays++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one caller may win")
	assert.Equal(t, goroutines-1, replays)
}

func TestMemoryCache_CancelledContext(t *testing.T) {
	c := NewMemoryCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.CheckAndRecord(ctx, "token", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisCache_DetectsReplay(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	c := NewRedisCache(client)
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	require.NoError(t, c.CheckAndRecord(ctx, "token-a", expires))
	assert.ErrorIs(t, c.CheckAndRecord(ctx, "token-a", expires), ErrReplayDetected)
	require.NoError(t, c.CheckAndRecord(ctx, "token-b", expires))
}

func TestRedisCache_EntriesExpireWithToken(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	c := NewRedisCache(client)
	ctx := context.Background()

	require.NoError(t, c.CheckAndRecord(ctx, "token-a", time.Now().Add(time.Hour)))

	// Advancing miniredis past the TTL frees the slot.
	srv.FastForward(2 * time.Hour)
	require.NoError(t, c.CheckAndRecord(ctx, "token-a", time.Now().Add(time.Hour)))
}

func TestRedisCache_SurfacesBackendErrors(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	c := NewRedisCache(client)

	srv.Close()
	err := c.CheckAndRecord(context.Background(), "token", time.Now().Add(time.Hour))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrReplayDetected)
}
