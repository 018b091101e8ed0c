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
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

func TestSymmetricProvider_KnownVector(t *testing.T) {
	// HMAC-SHA256 with a 32-byte all-zero key over "abc".
	key := types.NewSymmetricKey("vector", make([]byte, 32))

	p, err := NewSymmetricProvider(key, types.HS256)
	require.NoError(t, err)
	defer p.Close()

	sig, err := p.Sign([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t,
		"fd7adb152c05ef80dccf50a1fa4c05d5a3ec6da95575fc312ae7c5d091836351",
		hex.EncodeToString(sig))
}

func TestSymmetricProvider_SignVerifyRoundTrip(t *testing.T) {
	for _, alg := range []string{types.HS256, types.HS384, types.HS512} {
		t.Run(alg, func(t *testing.T) {
			key := types.NewSymmetricKey("test", []byte("0123456789abcdef0123456789abcdef"))

			p, err := NewSymmetricProvider(key, alg)
			require.NoError(t, err)
			defer p.Close()

			message := []byte("header.payload")
			sig, err := p.Sign(message)
			require.NoError(t, err)

			ok, err := p.Verify(message, sig)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestSymmetricProvider_TamperedSignature(t *testing.T) {
	key := types.NewSymmetricKey("test", make([]byte, 32))
	p, err := NewSymmetricProvider(key, types.HS256)
	require.NoError(t, err)
	defer p.Close()

	message := []byte("header.payload")
	sig, err := p.Sign(message)
	require.NoError(t, err)

	sig[0] ^= 0x01
	ok, err := p.Verify(message, sig)
	require.NoError(t, err, "mismatch must be a plain false, not an error")
	assert.False(t, ok)

	ok, err = p.Verify(message, sig[:len(sig)-1])
	require.NoError(t, err)
	assert.False(t, ok, "truncated signature must be a plain false")
}

func TestSymmetricProvider_KeyTooSmall(t *testing.T) {
	key := types.NewSymmetricKey("short", make([]byte, 15)) // 120 bits

	_, err := NewSymmetricProvider(key, types.HS256)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyTooSmall)

	var sizeErr *KeySizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 128, sizeErr.RequiredBits)
	assert.Equal(t, 120, sizeErr.ActualBits)
	assert.Equal(t, "short", sizeErr.KeyID)
}

func TestSymmetricProvider_MinimumKeySizeOverride(t *testing.T) {
	key := types.NewSymmetricKey("test", make([]byte, 16)) // 128 bits

	// Raising the instance minimum rejects a key the default accepts.
	_, err := NewSymmetricProvider(key, types.HS256, WithMinimumSymmetricKeySize(256))
	assert.ErrorIs(t, err, ErrKeyTooSmall)

	// The absolute floor cannot be configured away.
	_, err = NewSymmetricProvider(key, types.HS256, WithMinimumSymmetricKeySize(64))
	assert.ErrorIs(t, err, ErrMinimumBelowFloor)
}

func TestSymmetricProvider_UnsupportedAlgorithm(t *testing.T) {
	key := types.NewSymmetricKey("test", make([]byte, 32))

	_, err := NewSymmetricProvider(key, types.RS256)
	assert.ErrorIs(t, err, types.ErrUnsupportedAlgorithm)

	_, err = NewSymmetricProvider(key, "HS128")
	assert.ErrorIs(t, err, types.ErrUnsupportedAlgorithm)
}

func TestSymmetricProvider_SignatureURIAlias(t *testing.T) {
	key := types.NewSymmetricKey("test", make([]byte, 32))

	p, err := NewSymmetricProvider(key, types.HMACSHA256SignatureURI)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, types.HS256, p.Algorithm())
}

func TestSymmetricProvider_EmptyInputs(t *testing.T) {
	key := types.NewSymmetricKey("test", make([]byte, 32))
	p, err := NewSymmetricProvider(key, types.HS256)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Sign(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = p.Verify(nil, []byte{1})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = p.Verify([]byte("msg"), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestSymmetricProvider_Close(t *testing.T) {
	key := types.NewSymmetricKey("test", make([]byte, 32))
	p, err := NewSymmetricProvider(key, types.HS256)
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close(), "Close must be idempotent")

	_, err = p.Sign([]byte("msg"))
	assert.ErrorIs(t, err, ErrProviderClosed)

	_, err = p.Verify([]byte("msg"), []byte{1})
	assert.ErrorIs(t, err, ErrProviderClosed)
}

func TestSymmetricProvider_CopiesSecret(t *testing.T) {
	secret := make([]byte, 32)
	key := types.NewSymmetricKey("test", secret)
	p, err := NewSymmetricProvider(key, types.HS256)
	require.NoError(t, err)
	defer p.Close()

	want, err := p.Sign([]byte("msg"))
	require.NoError(t, err)

	// Mutating the caller's buffer must not change the provider's output.
	secret[0] = 0xff
	got, err := p.Sign([]byte("msg"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
