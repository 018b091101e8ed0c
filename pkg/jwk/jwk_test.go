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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWK_RSARoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwk, err := FromPrivateKey(priv)
	require.NoError(t, err)
	assert.Equal(t, string(KeyTypeRSA), jwk.Kty)
	assert.True(t, jwk.IsPrivate())
	assert.Equal(t, 2048, jwk.KeySize())

	data, err := jwk.Marshal()
	require.NoError(t, err)

	parsed, err := Unmarshal(data)
	require.NoError(t, err)

	restored, err := parsed.ToPrivateKey()
	require.NoError(t, err)
	restoredRSA, ok := restored.(*rsa.PrivateKey)
	require.True(t, ok)
	assert.Equal(t, 0, priv.D.Cmp(restoredRSA.D))
	assert.Equal(t, 0, priv.N.Cmp(restoredRSA.N))

	// Public-only JWK reconstructs the public key and refuses ToPrivateKey.
	pubJWK, err := FromPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	assert.False(t, pubJWK.IsPrivate())

	_, err = pubJWK.ToPrivateKey()
	assert.ErrorIs(t, err, ErrNotPrivate)
}

func TestJWK_ECRoundTrip(t *testing.T) {
	curves := []struct {
		curve elliptic.Curve
		crv   Curve
		bits  int
	}{
		{elliptic.P256(), CurveP256, 256},
		{elliptic.P384(), CurveP384, 384},
		{elliptic.P521(), CurveP521, 521},
	}

	for _, tc := range curves {
		t.Run(string(tc.crv), func(t *testing.T) {
			priv, err := ecdsa.GenerateKey(tc.curve, rand.Reader)
			require.NoError(t, err)

			jwk, err := FromPrivateKey(priv)
			require.NoError(t, err)
			assert.Equal(t, string(tc.crv), jwk.Crv)
			assert.Equal(t, tc.bits, jwk.KeySize())

			restored, err := jwk.ToPrivateKey()
			require.NoError(t, err)
			restoredEC, ok := restored.(*ecdsa.PrivateKey)
			require.True(t, ok)
			assert.Equal(t, 0, priv.D.Cmp(restoredEC.D))
			assert.Equal(t, 0, priv.X.Cmp(restoredEC.X))
		})
	}
}

func TestJWK_OctRoundTrip(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")

	jwk, err := FromSymmetricKey(secret, "HS256")
	require.NoError(t, err)
	assert.True(t, jwk.IsSymmetric())
	assert.True(t, jwk.IsPrivate())
	assert.Equal(t, 256, jwk.KeySize())

	restored, err := jwk.ToSymmetricKey()
	require.NoError(t, err)
	assert.Equal(t, secret, restored)

	_, err = FromSymmetricKey(nil, "HS256")
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestJWK_UnmarshalErrors(t *testing.T) {
	_, err := Unmarshal([]byte(`{`))
	assert.Error(t, err)

	_, err = Unmarshal([]byte(`{"use":"sig"}`))
	assert.ErrorIs(t, err, ErrMissingParameter, "kty is required")

	bad, err := Unmarshal([]byte(`{"kty":"EC","crv":"P-256","x":"!!!","y":"AA"}`))
	require.NoError(t, err)
	_, err = bad.ToPublicKey()
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	unknownCurve, err := Unmarshal([]byte(`{"kty":"EC","crv":"P-999","x":"AA","y":"AA"}`))
	require.NoError(t, err)
	_, err = unknownCurve.ToPublicKey()
	assert.ErrorIs(t, err, ErrUnsupportedCurve)
}

func TestJWK_Thumbprint(t *testing.T) {
	tests := []struct {
		name string
		jwk  *JWK
		want string
	}{
		{
			name: "RSA",
			jwk: &JWK{
				Kty: "RSA",
				E:   "AQAB",
				N:   "xjlCp6M21BSVRqBHs2pbCh924uDmNxSnz7bqmCJhGFbcZkqYLDCCTcjdNNP2ZDNr",
			},
			want: "GHa7DadrY3mnSHvuMfqf_x-ykH0in9aNTxx0giLkEjw",
		},
		{
			name: "EC",
			jwk: &JWK{
				Kty: "EC",
				Crv: "P-256",
				X:   "MKBCTNIcKUSDii11ySs3526iDZ8AiTo7Tu6KPAqv7D4",
				Y:   "4Etl6SRW2YiLUrN5vfvVHuhp7x8PxltmWWlbbM4IFyM",
			},
			want: "cn-I_WNMClehiVp51i_0VpOENW1upEerA8sEam5hn-s",
		},
		{
			name: "oct",
			jwk:  &JWK{Kty: "oct", K: "GawgguFyGrWKav7AX4VKUg"},
			want: "k1JnWRfC-5zzmL72vXIuBgTLfVROXBakS4OmGcrMCoc",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.jwk.Thumbprint()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	// The thumbprint ignores everything but the required members.
	withExtras := &JWK{Kty: "oct", K: "GawgguFyGrWKav7AX4VKUg", Kid: "ignored", Use: "sig"}
	got, err := withExtras.Thumbprint()
	require.NoError(t, err)
	assert.Equal(t, "k1JnWRfC-5zzmL72vXIuBgTLfVROXBakS4OmGcrMCoc", got)

	_, err = (&JWK{Kty: "RSA"}).Thumbprint()
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestSet_RoundTripAndLookup(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	ecJWK, err := FromPrivateKey(priv)
	require.NoError(t, err)
	ecJWK.Kid = "ec-1"

	octJWK, err := FromSymmetricKey([]byte("0123456789abcdef"), "HS256")
	require.NoError(t, err)
	octJWK.Kid = "oct-1"

	set := &Set{Keys: []*JWK{ecJWK, octJWK}}
	data, err := set.Marshal()
	require.NoError(t, err)

	parsed, err := UnmarshalSet(data)
	require.NoError(t, err)
	require.Len(t, parsed.Keys, 2)

	matches := parsed.LookupKeyID("ec-1")
	require.Len(t, matches, 1)
	assert.Equal(t, string(KeyTypeEC), matches[0].Kty)
	assert.Empty(t, parsed.LookupKeyID("missing"))
}

func TestSet_Public(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	ecJWK, err := FromPrivateKey(priv)
	require.NoError(t, err)
	ecJWK.Kid = "ec-1"

	octJWK, err := FromSymmetricKey([]byte("0123456789abcdef"), "HS256")
	require.NoError(t, err)

	pub := (&Set{Keys: []*JWK{ecJWK, octJWK}}).Public()
	require.Len(t, pub.Keys, 1, "oct keys are dropped from the public set")
	assert.Empty(t, pub.Keys[0].D, "private parameters are stripped")
	assert.NotEmpty(t, pub.Keys[0].X)

	// The original set is untouched.
	assert.NotEmpty(t, ecJWK.D)
}
