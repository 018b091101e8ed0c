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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

// Tokens minted through the SigningMethod adapter must verify under stock
// golang-jwt with the equivalent native key.
func TestSigningMethod_HMACInteropWithGolangJWT(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	key := types.NewSymmetricKey("interop", secret)

	method, err := NewSigningMethod(types.HS256, nil)
	require.NoError(t, err)
	assert.Equal(t, "HS256", method.Alg())

	claims := jwt.MapClaims{
		"sub": "interop-test",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(method, claims)
	signed, err := tok.SignedString(key)
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}

// Tokens minted by stock golang-jwt must verify through the provider.
func TestSigningMethod_VerifiesGolangJWTToken(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "interop-test",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString(secret)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	method, err := NewSigningMethod(types.HS256, nil)
	require.NoError(t, err)

	key := types.NewSymmetricKey("interop", secret)
	err = method.Verify(parts[0]+"."+parts[1], sig, key)
	assert.NoError(t, err)

	// Tampering flips the result to jwt.ErrSignatureInvalid.
	sig[0] ^= 0x01
	err = method.Verify(parts[0]+"."+parts[1], sig, key)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestSigningMethod_ECDSAInteropWithGolangJWT(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	method, err := NewSigningMethod(types.ES256, nil)
	require.NoError(t, err)

	tok := jwt.NewWithClaims(method, jwt.MapClaims{
		"sub": "interop-test",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString(types.NewECDSAKey("interop", priv))
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return &priv.PublicKey, nil
	}, jwt.WithValidMethods([]string{"ES256"}))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func TestSigningMethod_RejectsForeignKeyTypes(t *testing.T) {
	method, err := NewSigningMethod(types.HS256, nil)
	require.NoError(t, err)

	_, err = method.Sign("header.payload", []byte("raw-secret"))
	assert.ErrorIs(t, err, types.ErrUnsupportedKeyType)

	err = method.Verify("header.payload", []byte{1}, "not-a-key")
	assert.ErrorIs(t, err, types.ErrUnsupportedKeyType)
}

func TestSigningMethod_RejectsNoneAndUnknown(t *testing.T) {
	_, err := NewSigningMethod(types.AlgorithmNone, nil)
	assert.ErrorIs(t, err, types.ErrUnsupportedAlgorithm)

	_, err = NewSigningMethod("PS256", nil)
	assert.ErrorIs(t, err, types.ErrUnsupportedAlgorithm)
}
