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

package types

import "errors"

var (
	// ErrUnsupportedAlgorithm is returned when an algorithm identifier has no
	// catalog entry
	ErrUnsupportedAlgorithm = errors.New("types: unsupported algorithm")

	// ErrUnsupportedKeyType is returned when a key variant cannot serve the
	// requested operation
	ErrUnsupportedKeyType = errors.New("types: unsupported key type")

	// ErrNoPrivateKey is returned when signing is requested against key
	// material that carries only a public part
	ErrNoPrivateKey = errors.New("types: key has no private key material")
)
