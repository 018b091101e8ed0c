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
	"crypto"
	"crypto/hmac"
	"fmt"
	"sync/atomic"

	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

const (
	// DefaultMinimumSymmetricKeySizeInBits is the minimum secret size
	// enforced when no per-instance override is given.
	DefaultMinimumSymmetricKeySizeInBits = 128

	// AbsoluteMinimumSymmetricKeySizeInBits is the floor no instance may
	// configure below.
	AbsoluteMinimumSymmetricKeySizeInBits = 128
)

// SymmetricProvider signs and verifies with HMAC over a shared secret.
// The secret is copied at construction and zeroed on Close.
type SymmetricProvider struct {
	algorithm      string
	hash           crypto.Hash
	secret         []byte
	minimumKeyBits int
	closed         atomic.Bool
}

// SymmetricOption customizes symmetric provider construction.
type SymmetricOption func(*SymmetricProvider)

// WithMinimumSymmetricKeySize overrides the minimum secret size for this
// instance. Values below AbsoluteMinimumSymmetricKeySizeInBits are rejected
// at construction; an instance cannot weaken the floor.
func WithMinimumSymmetricKeySize(bits int) SymmetricOption {
	return func(p *SymmetricProvider) {
		p.minimumKeyBits = bits
	}
}

// NewSymmetricProvider binds a symmetric key to an HMAC algorithm.
func NewSymmetricProvider(key *types.SymmetricKey, algorithm string, opts ...SymmetricOption) (*SymmetricProvider, error) {
	normalized := types.NormalizeAlgorithm(algorithm)
	if !types.IsSymmetricAlgorithm(normalized) {
		return nil, fmt.Errorf("%w: %q is not an HMAC algorithm", types.ErrUnsupportedAlgorithm, algorithm)
	}

	hash, err := types.HashFor(normalized)
	if err != nil {
		return nil, err
	}

	p := &SymmetricProvider{
		algorithm:      normalized,
		hash:           hash,
		minimumKeyBits: DefaultMinimumSymmetricKeySizeInBits,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.minimumKeyBits < AbsoluteMinimumSymmetricKeySizeInBits {
		return nil, fmt.Errorf("%w: %d < %d bits", ErrMinimumBelowFloor,
			p.minimumKeyBits, AbsoluteMinimumSymmetricKeySizeInBits)
	}
	if key.KeySize() < p.minimumKeyBits {
		return nil, &KeySizeError{
			Algorithm:    normalized,
			KeyID:        key.KeyID(),
			RequiredBits: p.minimumKeyBits,
			ActualBits:   key.KeySize(),
			Signing:      true,
		}
	}

	p.secret = make([]byte, len(key.Secret))
	copy(p.secret, key.Secret)
	return p, nil
}

// Algorithm returns the bound HMAC algorithm.
func (p *SymmetricProvider) Algorithm() string {
	return p.algorithm
}

// MinimumKeySizeInBits returns the minimum secret size this instance
// enforced at construction.
func (p *SymmetricProvider) MinimumKeySizeInBits() int {
	return p.minimumKeyBits
}

// Sign computes HMAC(secret, message).
func (p *SymmetricProvider) Sign(message []byte) ([]byte, error) {
	if p.closed.Load() {
		return nil, ErrProviderClosed
	}
	if len(message) == 0 {
		return nil, fmt.Errorf("%w: message", ErrEmptyInput)
	}
	if p.secret == nil {
		return nil, ErrNotResolved
	}

	mac := hmac.New(p.hash.New, p.secret)
	mac.Write(message)
	return mac.Sum(nil), nil
}

// Verify recomputes the HMAC and compares in constant time. A length
// mismatch between computed and supplied signatures is a plain false.
func (p *SymmetricProvider) Verify(message, signature []byte) (bool, error) {
	if p.closed.Load() {
		return false, ErrProviderClosed
	}
	if len(message) == 0 {
		return false, fmt.Errorf("%w: message", ErrEmptyInput)
	}
	if len(signature) == 0 {
		return false, fmt.Errorf("%w: signature", ErrEmptyInput)
	}
	if p.secret == nil {
		return false, ErrNotResolved
	}

	mac := hmac.New(p.hash.New, p.secret)
	mac.Write(message)
	return hmac.Equal(mac.Sum(nil), signature), nil
}

// Close zeroes the copied secret. Safe to call more than once.
func (p *SymmetricProvider) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	for i := range p.secret {
		p.secret[i] = 0
	}
	p.secret = nil
	return nil
}
