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

// Package provider implements the signature providers that sign and verify
// token signing inputs. A provider binds one key to one algorithm for one
// intended use, fixed at construction:
//
//   - SymmetricProvider: HMAC over a shared secret with a configurable
//     minimum key size (absolute floor 128 bits).
//   - AsymmetricProvider: RSASSA-PKCS1-v1_5 or ECDSA (JOSE r||s signatures)
//     over RSA/ECDSA keys, certificates, or JSON Web Keys, with separate
//     minimum key sizes for signing and verifying.
//
// Cryptographic mismatch is a normal negative result: Verify returns
// (false, nil). Errors are reserved for structural and policy violations
// such as empty inputs, undersized keys, or use after Close.
//
// A provider is single-owner. Concurrent Sign/Verify calls on distinct
// instances are always safe; sharing one instance across goroutines is safe
// only if Close is not called while a call is in flight. The intended
// pattern is one provider per concurrent caller.
package provider

// KeyUse declares what a provider is constructed for. Signing requires
// private key material; verifying never does.
type KeyUse int

const (
	// UseVerify constructs a verify-only provider.
	UseVerify KeyUse = iota

	// UseSign constructs a signing provider.
	UseSign
)

func (u KeyUse) String() string {
	if u == UseSign {
		return "sign"
	}
	return "verify"
}

// Provider is the sign/verify contract shared by the symmetric and
// asymmetric implementations.
type Provider interface {
	// Algorithm returns the bound algorithm identifier (normalized).
	Algorithm() string

	// Sign signs message and returns the raw signature bytes.
	Sign(message []byte) ([]byte, error)

	// Verify reports whether signature is valid for message. A
	// cryptographic mismatch returns (false, nil); errors are reserved
	// for empty inputs and closed providers.
	Verify(message, signature []byte) (bool, error)

	// Close releases any state derived from the key material. Idempotent;
	// Sign and Verify fail with ErrProviderClosed afterwards.
	Close() error
}
