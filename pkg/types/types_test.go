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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-securetoken/pkg/jwk"
)

func TestSymmetricKey(t *testing.T) {
	key := NewSymmetricKey("sym-1", make([]byte, 32))
	assert.Equal(t, "sym-1", key.KeyID())
	assert.Equal(t, 256, key.KeySize())
	assert.True(t, key.HasPrivateKey())
}

func TestRSAKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key := NewRSAKey("rsa-1", priv)
	assert.Equal(t, 2048, key.KeySize())
	assert.True(t, key.HasPrivateKey())
	assert.Same(t, &priv.PublicKey, key.Public())

	pub := NewRSAPublicKey("rsa-1", &priv.PublicKey)
	assert.Equal(t, 2048, pub.KeySize())
	assert.False(t, pub.HasPrivateKey())
}

func TestECDSAKey(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
	require.NoError(t, err)

	key := NewECDSAKey("ec-1", priv)
	assert.Equal(t, 521, key.KeySize())
	assert.True(t, key.HasPrivateKey())
	assert.False(t, NewECDSAPublicKey("ec-1", &priv.PublicKey).HasPrivateKey())
}

func TestCertificateKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	key := NewCertificateKey(cert)
	assert.Equal(t, 2048, key.KeySize())
	assert.False(t, key.HasPrivateKey())

	// x5t is the base64url SHA-1 of the DER form, and doubles as the kid
	// when no explicit ID is set.
	sum := sha1.Sum(der)
	wantThumb := base64.RawURLEncoding.EncodeToString(sum[:])
	assert.Equal(t, wantThumb, key.Thumbprint())
	assert.Equal(t, wantThumb, key.KeyID())

	key.ID = "explicit"
	assert.Equal(t, "explicit", key.KeyID())

	signing := NewCertificateKeyWithPrivateKey(cert, priv)
	assert.True(t, signing.HasPrivateKey())
}

func TestWebKey(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	privJWK, err := jwk.FromPrivateKey(priv)
	require.NoError(t, err)
	privJWK.Kid = "web-1"

	data, err := privJWK.Marshal()
	require.NoError(t, err)

	key, err := ParseWebKey(data)
	require.NoError(t, err)
	assert.Equal(t, "web-1", key.KeyID())
	assert.Equal(t, 256, key.KeySize())
	assert.True(t, key.HasPrivateKey())

	_, err = ParseWebKey([]byte(`{"use":"sig"}`))
	assert.Error(t, err)
}

func TestKeysFromSet(t *testing.T) {
	octJWK, err := jwk.FromSymmetricKey(make([]byte, 32), HS256)
	require.NoError(t, err)
	octJWK.Kid = "oct-1"

	set := &jwk.Set{Keys: []*jwk.JWK{octJWK}}
	keys, err := KeysFromSet(set)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "oct-1", keys[0].KeyID())

	// An unsupported kty is a configuration error, not a skip.
	set.Keys = append(set.Keys, &jwk.JWK{Kty: "OKP", Kid: "ed-1"})
	_, err = KeysFromSet(set)
	assert.ErrorIs(t, err, ErrUnsupportedKeyType)
}
