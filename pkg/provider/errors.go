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

package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates a zero-length message or signature buffer
	ErrEmptyInput = errors.New("provider: empty input")

	// ErrProviderClosed indicates use of a provider after Close
	ErrProviderClosed = errors.New("provider: provider is closed")

	// ErrMissingAlgorithm indicates an empty or whitespace algorithm identifier
	ErrMissingAlgorithm = errors.New("provider: missing algorithm")

	// ErrKeyTooSmall indicates key material below the cataloged minimum size
	ErrKeyTooSmall = errors.New("provider: key size below minimum")

	// ErrMinimumBelowFloor indicates a configured symmetric minimum below the
	// absolute floor
	ErrMinimumBelowFloor = errors.New("provider: configured minimum key size below absolute floor")

	// ErrNotResolved indicates sign or verify was reached without a bound
	// primitive. Construction-time resolution makes this unreachable; the
	// check exists so a future regression fails loudly instead of panicking.
	ErrNotResolved = errors.New("provider: no signing primitive resolved")
)

// KeySizeError reports a key that fails the minimum-size policy for an
// algorithm and intended use. It unwraps to ErrKeyTooSmall.
type KeySizeError struct {
	Algorithm    string
	KeyID        string
	RequiredBits int
	ActualBits   int
	Signing      bool
}

func (e *KeySizeError) Error() string {
	use := "verifying"
	if e.Signing {
		use = "signing"
	}
	return fmt.Sprintf("provider: key size below minimum for %s with %s: need %d bits, have %d (kid=%q)",
		use, e.Algorithm, e.RequiredBits, e.ActualBits, e.KeyID)
}

func (e *KeySizeError) Unwrap() error { return ErrKeyTooSmall }
