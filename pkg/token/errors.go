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

package token

import "errors"

var (
	// ErrEmptyToken indicates an empty or whitespace token string
	ErrEmptyToken = errors.New("token: empty token")

	// ErrMalformedToken indicates input that is not a three-segment compact
	// token
	ErrMalformedToken = errors.New("token: malformed token")

	// ErrTokenTooLong indicates input exceeding the maximum token size
	ErrTokenTooLong = errors.New("token: token exceeds maximum size")

	// ErrInvalidLifetimeWindow indicates a not-before instant at or after the
	// expiration instant
	ErrInvalidLifetimeWindow = errors.New("token: notBefore must precede expires")

	// ErrNoSigningCredentials indicates a signing operation without
	// credentials
	ErrNoSigningCredentials = errors.New("token: no signing credentials")
)
