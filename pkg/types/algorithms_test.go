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

import (
	"crypto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAlgorithm(t *testing.T) {
	assert.Equal(t, HS256, NormalizeAlgorithm(HMACSHA256SignatureURI))
	assert.Equal(t, RS512, NormalizeAlgorithm(RSASHA512SignatureURI))
	assert.Equal(t, ES384, NormalizeAlgorithm(ECDSASHA384SignatureURI))

	// Short names and unknown identifiers pass through unchanged.
	assert.Equal(t, HS256, NormalizeAlgorithm(HS256))
	assert.Equal(t, "PS256", NormalizeAlgorithm("PS256"))
}

func TestAlgorithmFamilies(t *testing.T) {
	for _, alg := range []string{HS256, HS384, HS512} {
		assert.True(t, IsSymmetricAlgorithm(alg), alg)
		assert.False(t, IsAsymmetricAlgorithm(alg), alg)
	}
	for _, alg := range []string{RS256, RS384, RS512, ES256, ES384, ES512} {
		assert.True(t, IsAsymmetricAlgorithm(alg), alg)
		assert.False(t, IsSymmetricAlgorithm(alg), alg)
	}
	assert.False(t, IsSymmetricAlgorithm(AlgorithmNone))
	assert.False(t, IsAsymmetricAlgorithm(AlgorithmNone))

	// URI aliases classify like their short names.
	assert.True(t, IsSymmetricAlgorithm(HMACSHA512SignatureURI))
	assert.True(t, IsAsymmetricAlgorithm(ECDSASHA256SignatureURI))
}

func TestHashFor(t *testing.T) {
	tests := map[string]crypto.Hash{
		HS256: crypto.SHA256,
		HS384: crypto.SHA384,
		HS512: crypto.SHA512,
		RS256: crypto.SHA256,
		ES512: crypto.SHA512,
	}
	for alg, want := range tests {
		got, err := HashFor(alg)
		require.NoError(t, err, alg)
		assert.Equal(t, want, got, alg)
		assert.True(t, got.Available(), alg)
	}

	_, err := HashFor("PS256")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

// The signing and verifying minimums diverge for RSA only: signing demands
// 2048 bits while verification still accepts 1024-bit legacy keys.
func TestMinimumKeySizes(t *testing.T) {
	for _, alg := range []string{RS256, RS384, RS512} {
		sign, ok := MinimumSigningKeySize(alg)
		require.True(t, ok, alg)
		assert.Equal(t, 2048, sign, alg)

		verify, ok := MinimumVerifyingKeySize(alg)
		require.True(t, ok, alg)
		assert.Equal(t, 1024, verify, alg)
	}

	ecSizes := map[string]int{ES256: 256, ES384: 384, ES512: 521}
	for alg, want := range ecSizes {
		sign, ok := MinimumSigningKeySize(alg)
		require.True(t, ok, alg)
		verify, ok2 := MinimumVerifyingKeySize(alg)
		require.True(t, ok2, alg)
		assert.Equal(t, want, sign, alg)
		assert.Equal(t, want, verify, alg)
	}

	_, ok := MinimumSigningKeySize(HS256)
	assert.False(t, ok, "HMAC minimums live in the symmetric provider, not the catalog")
}

func TestKeySizeTableCopies(t *testing.T) {
	sizes := SigningKeySizes()
	sizes[RS256] = 1
	fresh, _ := MinimumSigningKeySize(RS256)
	assert.Equal(t, 2048, fresh, "mutating a returned copy must not affect the defaults")
}

func TestCurveSizeBytes(t *testing.T) {
	tests := map[string]int{ES256: 32, ES384: 48, ES512: 66}
	for alg, want := range tests {
		got, err := CurveSizeBytes(alg)
		require.NoError(t, err, alg)
		assert.Equal(t, want, got, alg)
	}

	_, err := CurveSizeBytes(RS256)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{HS256, HS256, false},
		{"  HS256  ", HS256, false},
		{"hs256", HS256, false},
		{HMACSHA256SignatureURI, HS256, false},
		{AlgorithmNone, AlgorithmNone, false},
		{"", "", true},
		{"PS256", "", true},
	}
	for _, tc := range tests {
		got, err := ParseAlgorithm(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedAlgorithm, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestValidAlgorithm(t *testing.T) {
	assert.True(t, ValidAlgorithm(HS256))
	assert.True(t, ValidAlgorithm(AlgorithmNone))
	assert.True(t, ValidAlgorithm(RSASHA256SignatureURI))
	assert.False(t, ValidAlgorithm("PS256"))
	assert.False(t, ValidAlgorithm(""))
}
