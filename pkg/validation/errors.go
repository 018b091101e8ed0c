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

package validation

import "errors"

var (
	// ErrInvalidSignature indicates no candidate key verified the signature
	ErrInvalidSignature = errors.New("validation: signature verification failed")

	// ErrSignatureKeyNotFound indicates a signed token with no candidate
	// verification keys
	ErrSignatureKeyNotFound = errors.New("validation: no issuer signing key available")

	// ErrUnsignedToken indicates an unsigned token where signatures are
	// required
	ErrUnsignedToken = errors.New("validation: token is not signed")

	// ErrTokenExpired indicates the expiration instant has passed
	ErrTokenExpired = errors.New("validation: token is expired")

	// ErrTokenNotYetValid indicates the not-before instant is in the future
	ErrTokenNotYetValid = errors.New("validation: token is not yet valid")

	// ErrNoExpiration indicates a token without an exp claim where one is
	// required
	ErrNoExpiration = errors.New("validation: token has no expiration")

	// ErrInvalidAudience indicates no token audience matched the accepted set
	ErrInvalidAudience = errors.New("validation: audience mismatch")

	// ErrInvalidIssuer indicates the token issuer is not in the accepted set
	ErrInvalidIssuer = errors.New("validation: issuer mismatch")

	// ErrMultipleActorClaims indicates more than one actor claim in a token
	ErrMultipleActorClaims = errors.New("validation: token carries multiple actor claims")

	// ErrNilParameters indicates Validate was called without parameters
	ErrNilParameters = errors.New("validation: nil validation parameters")
)
