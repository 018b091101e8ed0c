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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-securetoken/pkg/jwk"
	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

func TestFactory_MissingAlgorithm(t *testing.T) {
	f := NewFactory()
	key := types.NewSymmetricKey("test", make([]byte, 32))

	for _, alg := range []string{"", "   ", "\t\n"} {
		_, err := f.CreateForSigning(key, alg)
		assert.ErrorIs(t, err, ErrMissingAlgorithm, "algorithm %q", alg)
	}
}

func TestFactory_UnsupportedAlgorithm(t *testing.T) {
	f := NewFactory()
	key := types.NewSymmetricKey("test", make([]byte, 32))

	_, err := f.CreateForSigning(key, "PS256")
	assert.ErrorIs(t, err, types.ErrUnsupportedAlgorithm)
}

func TestFactory_SymmetricDispatch(t *testing.T) {
	f := NewFactory()
	key := types.NewSymmetricKey("test", make([]byte, 32))

	p, err := f.CreateForSigning(key, types.HS256)
	require.NoError(t, err)
	defer p.Close()

	assert.IsType(t, &SymmetricProvider{}, p)
	assert.Equal(t, types.HS256, p.Algorithm())
}

func TestFactory_AsymmetricDispatch(t *testing.T) {
	f := NewFactory()
	priv := testRSA2048(t)

	p, err := f.CreateForSigning(types.NewRSAKey("rsa-test", priv), types.RS256)
	require.NoError(t, err)
	defer p.Close()

	assert.IsType(t, &AsymmetricProvider{}, p)

	v, err := f.CreateForVerifying(types.NewRSAPublicKey("rsa-test", &priv.PublicKey), types.RS256)
	require.NoError(t, err)
	defer v.Close()

	message := []byte("header.payload")
	sig, err := p.Sign(message)
	require.NoError(t, err)

	ok, err := v.Verify(message, sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFactory_HMACRequiresSymmetricMaterial(t *testing.T) {
	f := NewFactory()
	priv := testRSA2048(t)

	_, err := f.CreateForSigning(types.NewRSAKey("rsa-test", priv), types.HS256)
	assert.ErrorIs(t, err, types.ErrUnsupportedKeyType)
}

func TestFactory_OctWebKey(t *testing.T) {
	f := NewFactory()

	octJWK, err := jwk.FromSymmetricKey(make([]byte, 32), types.HS256)
	require.NoError(t, err)
	octJWK.Kid = "oct-1"

	p, err := f.CreateForSigning(types.NewWebKey(octJWK), types.HS256)
	require.NoError(t, err)
	defer p.Close()

	sig, err := p.Sign([]byte("header.payload"))
	require.NoError(t, err)
	assert.NotEmpty(t, sig)

	// An EC web key is not HMAC material.
	_, err = f.CreateForSigning(types.NewWebKey(&jwk.JWK{Kty: string(jwk.KeyTypeEC)}), types.HS256)
	assert.ErrorIs(t, err, types.ErrUnsupportedKeyType)
}

func TestFactory_FromCredentials(t *testing.T) {
	f := NewFactory()

	_, err := f.CreateFromCredentials(nil)
	require.Error(t, err)

	creds := types.NewSigningCredentials(types.NewSymmetricKey("test", make([]byte, 32)), types.HS256)
	p, err := f.CreateFromCredentials(creds)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, types.HS256, p.Algorithm())
}

func TestFactory_OptionsPropagate(t *testing.T) {
	f := NewFactory(
		WithSymmetricOptions(WithMinimumSymmetricKeySize(256)),
		WithAsymmetricOptions(WithMinimumSigningKeySizes(map[string]int{types.RS256: 1024})),
	)

	// 128-bit key fails under the raised symmetric minimum.
	_, err := f.CreateForSigning(types.NewSymmetricKey("test", make([]byte, 16)), types.HS256)
	assert.ErrorIs(t, err, ErrKeyTooSmall)

	// 1024-bit RSA signs under the lowered asymmetric minimum.
	p, err := f.CreateForSigning(types.NewRSAKey("legacy", testRSA1024(t)), types.RS256)
	require.NoError(t, err)
	p.Close()
}
