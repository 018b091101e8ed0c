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

package jwk

import "errors"

var (
	// ErrUnsupportedKeyType indicates the JWK kty is not one of RSA, EC, or oct
	ErrUnsupportedKeyType = errors.New("jwk: unsupported key type")

	// ErrUnsupportedCurve indicates the EC crv is not P-256, P-384, or P-521
	ErrUnsupportedCurve = errors.New("jwk: unsupported curve")

	// ErrMissingParameter indicates a required JWK field is absent
	ErrMissingParameter = errors.New("jwk: missing required parameter")

	// ErrNotPrivate indicates the JWK carries no private key parameters
	ErrNotPrivate = errors.New("jwk: no private key parameters")

	// ErrNotSymmetric indicates the JWK is not an oct key
	ErrNotSymmetric = errors.New("jwk: not a symmetric key")

	// ErrInvalidEncoding indicates a JWK field is not valid base64url
	ErrInvalidEncoding = errors.New("jwk: invalid base64url encoding")
)
