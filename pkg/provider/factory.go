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
	"strings"

	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

// Factory creates signature providers from key/algorithm pairs. The zero
// value is ready to use; options set per-instance key-size policy applied
// to every provider the factory creates.
type Factory struct {
	symmetricOpts  []SymmetricOption
	asymmetricOpts []AsymmetricOption
}

// FactoryOption customizes a Factory.
type FactoryOption func(*Factory)

// WithSymmetricOptions applies options to every symmetric provider the
// factory creates.
func WithSymmetricOptions(opts ...SymmetricOption) FactoryOption {
	return func(f *Factory) {
		f.symmetricOpts = append(f.symmetricOpts, opts...)
	}
}

// WithAsymmetricOptions applies options to every asymmetric provider the
// factory creates.
func WithAsymmetricOptions(opts ...AsymmetricOption) FactoryOption {
	return func(f *Factory) {
		f.asymmetricOpts = append(f.asymmetricOpts, opts...)
	}
}

// NewFactory creates a provider factory.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateForSigning creates a signing provider for the key/algorithm pair.
func (f *Factory) CreateForSigning(key types.Key, algorithm string) (Provider, error) {
	return f.create(key, algorithm, UseSign)
}

// CreateForVerifying creates a verify-only provider for the key/algorithm
// pair.
func (f *Factory) CreateForVerifying(key types.Key, algorithm string) (Provider, error) {
	return f.create(key, algorithm, UseVerify)
}

func (f *Factory) create(key types.Key, algorithm string, use KeyUse) (Provider, error) {
	trimmed := strings.TrimSpace(algorithm)
	if trimmed == "" {
		return nil, ErrMissingAlgorithm
	}
	normalized := types.NormalizeAlgorithm(trimmed)

	switch {
	case types.IsSymmetricAlgorithm(normalized):
		sym, err := f.symmetricKey(key)
		if err != nil {
			return nil, err
		}
		return NewSymmetricProvider(sym, normalized, f.symmetricOpts...)
	case types.IsAsymmetricAlgorithm(normalized):
		return NewAsymmetricProvider(key, normalized, use, f.asymmetricOpts...)
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedAlgorithm, algorithm)
	}
}

// symmetricKey narrows a Key to symmetric material. An oct WebKey is
// converted by extracting the raw secret; anything else is unusable with an
// HMAC algorithm.
func (f *Factory) symmetricKey(key types.Key) (*types.SymmetricKey, error) {
	switch k := key.(type) {
	case *types.SymmetricKey:
		return k, nil
	case *types.WebKey:
		if k.JWK == nil || !k.JWK.IsSymmetric() {
			return nil, fmt.Errorf("%w: HMAC requires an oct JWK", types.ErrUnsupportedKeyType)
		}
		secret, err := k.JWK.ToSymmetricKey()
		if err != nil {
			return nil, err
		}
		return types.NewSymmetricKey(k.JWK.Kid, secret), nil
	default:
		return nil, fmt.Errorf("%w: %T with an HMAC algorithm", types.ErrUnsupportedKeyType, key)
	}
}

// CreateFromCredentials creates a signing provider from signing credentials.
func (f *Factory) CreateFromCredentials(creds *types.SigningCredentials) (Provider, error) {
	if creds == nil {
		return nil, fmt.Errorf("%w: nil credentials", types.ErrUnsupportedKeyType)
	}
	return f.CreateForSigning(creds.Key, creds.Algorithm)
}
