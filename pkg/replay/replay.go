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

// Package replay implements one-time-use token caches. A cache records
// each token it sees until the token's own expiration; a second sighting
// inside that window is a replay.
package replay

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrReplayDetected indicates a token was presented more than once.
var ErrReplayDetected = errors.New("replay: token has already been used")

// MinimumRetention is the floor applied to cache entry lifetimes. Tokens
// already at or past expiration still get a short retention so a replay
// racing the lifetime check is caught.
const MinimumRetention = time.Minute

// Cache is the replay-detection contract. CheckAndRecord must be atomic:
// two concurrent calls with the same token must not both succeed.
type Cache interface {
	// CheckAndRecord records the token and returns nil on first sight, or
	// ErrReplayDetected when the token was recorded earlier and has not yet
	// aged out.
	CheckAndRecord(ctx context.Context, tokenString string, expires time.Time) error
}

// cacheKey hashes the token so neither implementation retains token
// contents, only fingerprints.
func cacheKey(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}

// retention returns how long an entry for a token expiring at expires
// should live, never below MinimumRetention.
func retention(expires, now time.Time) time.Duration {
	d := expires.Sub(now)
	if d < MinimumRetention {
		return MinimumRetention
	}
	return d
}
