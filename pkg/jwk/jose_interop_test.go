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

package jwk

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"testing"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Keys serialized here must parse under go-jose, and go-jose output must
// parse here, or published JWKS documents would be unusable by half the
// ecosystem.

func TestJWK_JoseParsesOurOutput(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	ours, err := FromPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	ours.Kid = "interop-ec"
	ours.Use = "sig"

	data, err := ours.Marshal()
	require.NoError(t, err)

	var theirs jose.JSONWebKey
	require.NoError(t, theirs.UnmarshalJSON(data))
	assert.True(t, theirs.Valid())
	assert.Equal(t, "interop-ec", theirs.KeyID)

	pub, ok := theirs.Key.(*ecdsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, 0, priv.PublicKey.X.Cmp(pub.X))
	assert.Equal(t, 0, priv.PublicKey.Y.Cmp(pub.Y))
}

func TestJWK_WeParseJoseOutput(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	theirs := jose.JSONWebKey{Key: priv, KeyID: "interop-rsa", Use: "sig", Algorithm: "RS256"}
	data, err := theirs.MarshalJSON()
	require.NoError(t, err)

	ours, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "interop-rsa", ours.Kid)
	assert.True(t, ours.IsPrivate())

	restored, err := ours.ToPrivateKey()
	require.NoError(t, err)
	restoredRSA, ok := restored.(*rsa.PrivateKey)
	require.True(t, ok)
	assert.Equal(t, 0, priv.D.Cmp(restoredRSA.D))
}

func TestJWK_ThumbprintMatchesJose(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	ours, err := FromPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	ourThumb, err := ours.Thumbprint()
	require.NoError(t, err)

	theirs := jose.JSONWebKey{Key: &priv.PublicKey}
	joseThumb, err := theirs.Thumbprint(crypto.SHA256)
	require.NoError(t, err)

	assert.Equal(t, base64.RawURLEncoding.EncodeToString(joseThumb), ourThumb)
}
