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
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

// SigningMethod adapts a provider factory to the golang-jwt SigningMethod
// interface, so tokens minted here verify under golang-jwt and vice versa.
// The key argument to Sign and Verify must be a types.Key; the adapter
// creates a short-lived provider per call.
type SigningMethod struct {
	algorithm string
	factory   *Factory
}

// NewSigningMethod creates a golang-jwt signing method for the algorithm.
func NewSigningMethod(algorithm string, factory *Factory) (*SigningMethod, error) {
	normalized, err := types.ParseAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	if normalized == types.AlgorithmNone {
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedAlgorithm, algorithm)
	}
	if factory == nil {
		factory = NewFactory()
	}
	return &SigningMethod{algorithm: normalized, factory: factory}, nil
}

// Alg returns the JWA algorithm identifier.
func (m *SigningMethod) Alg() string {
	return m.algorithm
}

// Sign signs the signing string. key must be a types.Key with private
// material.
func (m *SigningMethod) Sign(signingString string, key interface{}) ([]byte, error) {
	materialKey, ok := key.(types.Key)
	if !ok {
		return nil, fmt.Errorf("%w: %T", types.ErrUnsupportedKeyType, key)
	}

	p, err := m.factory.CreateForSigning(materialKey, m.algorithm)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	return p.Sign([]byte(signingString))
}

// Verify checks sig over the signing string. key must be a types.Key. A
// cryptographic mismatch is reported as jwt.ErrSignatureInvalid so callers
// inside golang-jwt's validation pipeline see the error they expect.
func (m *SigningMethod) Verify(signingString string, sig []byte, key interface{}) error {
	materialKey, ok := key.(types.Key)
	if !ok {
		return fmt.Errorf("%w: %T", types.ErrUnsupportedKeyType, key)
	}

	p, err := m.factory.CreateForVerifying(materialKey, m.algorithm)
	if err != nil {
		return err
	}
	defer p.Close()

	ok, err = p.Verify([]byte(signingString), sig)
	if err != nil {
		return err
	}
	if !ok {
		return jwt.ErrSignatureInvalid
	}
	return nil
}
