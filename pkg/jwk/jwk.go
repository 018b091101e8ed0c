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

// Package jwk implements JSON Web Keys (RFC 7517) for the key types used by
// the token engine: RSA, EC (P-256, P-384, P-521), and symmetric (oct) keys.
// JWKs are the serialized form of key material; conversion to native
// crypto keys happens here so the signature providers never touch raw
// base64url fields.
package jwk

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
)

// JWK represents a JSON Web Key as defined in RFC 7517.
type JWK struct {
	// Common fields (all key types)
	Kty string `json:"kty"`           // Key Type (required)
	Use string `json:"use,omitempty"` // Public Key Use (sig, enc)
	Alg string `json:"alg,omitempty"` // Algorithm
	Kid string `json:"kid,omitempty"` // Key ID

	// RSA public key fields (RFC 7518 Section 6.3.1)
	N string `json:"n,omitempty"` // Modulus (base64url)
	E string `json:"e,omitempty"` // Exponent (base64url)

	// RSA private key fields (RFC 7518 Section 6.3.2)
	D  string `json:"d,omitempty"`  // Private Exponent
	P  string `json:"p,omitempty"`  // First Prime Factor
	Q  string `json:"q,omitempty"`  // Second Prime Factor
	DP string `json:"dp,omitempty"` // First Factor CRT Exponent
	DQ string `json:"dq,omitempty"` // Second Factor CRT Exponent
	QI string `json:"qi,omitempty"` // First CRT Coefficient

	// EC key fields (RFC 7518 Section 6.2)
	Crv string `json:"crv,omitempty"` // Curve (P-256, P-384, P-521)
	X   string `json:"x,omitempty"`   // X Coordinate (base64url)
	Y   string `json:"y,omitempty"`   // Y Coordinate (base64url)

	// Symmetric key field (RFC 7518 Section 6.4)
	K string `json:"k,omitempty"` // Key Value (base64url)

	// Key Operations (optional)
	KeyOps []string `json:"key_ops,omitempty"`
}

// KeyType represents the key type (kty) parameter values.
type KeyType string

const (
	KeyTypeRSA KeyType = "RSA"
	KeyTypeEC  KeyType = "EC"
	KeyTypeOct KeyType = "oct"
)

// Curve represents EC curve names.
type Curve string

const (
	CurveP256 Curve = "P-256"
	CurveP384 Curve = "P-384"
	CurveP521 Curve = "P-521"
)

// FromPublicKey creates a JWK from a crypto.PublicKey.
// Supports RSA and ECDSA public keys.
func FromPublicKey(pub crypto.PublicKey) (*JWK, error) {
	switch key := pub.(type) {
	case *rsa.PublicKey:
		return fromRSAPublicKey(key), nil
	case *ecdsa.PublicKey:
		return fromECDSAPublicKey(key)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKeyType, pub)
	}
}

// FromPrivateKey creates a JWK from a crypto.PrivateKey.
// The resulting JWK includes private key parameters.
func FromPrivateKey(priv crypto.PrivateKey) (*JWK, error) {
	switch key := priv.(type) {
	case *rsa.PrivateKey:
		return fromRSAPrivateKey(key), nil
	case *ecdsa.PrivateKey:
		return fromECDSAPrivateKey(key)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKeyType, priv)
	}
}

// FromSymmetricKey creates an oct JWK from raw symmetric key material.
func FromSymmetricKey(key []byte, alg string) (*JWK, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: k", ErrMissingParameter)
	}
	return &JWK{
		Kty: string(KeyTypeOct),
		K:   base64.RawURLEncoding.EncodeToString(key),
		Alg: alg,
	}, nil
}

// ToPublicKey converts the JWK to a crypto.PublicKey.
func (jwk *JWK) ToPublicKey() (crypto.PublicKey, error) {
	switch jwk.Kty {
	case string(KeyTypeRSA):
		return jwk.toRSAPublicKey()
	case string(KeyTypeEC):
		return jwk.toECDSAPublicKey()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, jwk.Kty)
	}
}

// ToPrivateKey converts the JWK to a crypto.PrivateKey.
// Returns ErrNotPrivate if the JWK carries no private parameters.
func (jwk *JWK) ToPrivateKey() (crypto.PrivateKey, error) {
	switch jwk.Kty {
	case string(KeyTypeRSA):
		if jwk.D == "" {
			return nil, fmt.Errorf("%w: RSA d", ErrNotPrivate)
		}
		return jwk.toRSAPrivateKey()
	case string(KeyTypeEC):
		if jwk.D == "" {
			return nil, fmt.Errorf("%w: EC d", ErrNotPrivate)
		}
		return jwk.toECDSAPrivateKey()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, jwk.Kty)
	}
}

// ToSymmetricKey extracts the symmetric key bytes from an oct JWK.
func (jwk *JWK) ToSymmetricKey() ([]byte, error) {
	if jwk.Kty != string(KeyTypeOct) {
		return nil, fmt.Errorf("%w: kty=%s", ErrNotSymmetric, jwk.Kty)
	}
	if jwk.K == "" {
		return nil, fmt.Errorf("%w: k", ErrMissingParameter)
	}
	return decodeField("k", jwk.K)
}

// Marshal returns the JSON encoding of the JWK.
func (jwk *JWK) Marshal() ([]byte, error) {
	return json.Marshal(jwk)
}

// Unmarshal parses JSON-encoded data into a JWK.
func Unmarshal(data []byte) (*JWK, error) {
	var jwk JWK
	if err := json.Unmarshal(data, &jwk); err != nil {
		return nil, fmt.Errorf("jwk: failed to unmarshal: %w", err)
	}
	if jwk.Kty == "" {
		return nil, fmt.Errorf("%w: kty", ErrMissingParameter)
	}
	return &jwk, nil
}

// IsPrivate returns true if the JWK contains private key parameters.
func (jwk *JWK) IsPrivate() bool {
	return jwk.D != "" || jwk.K != ""
}

// IsSymmetric returns true if the JWK represents a symmetric key.
func (jwk *JWK) IsSymmetric() bool {
	return jwk.Kty == string(KeyTypeOct)
}

// KeySize returns the key size in bits, or 0 if it cannot be determined.
func (jwk *JWK) KeySize() int {
	switch jwk.Kty {
	case string(KeyTypeRSA):
		n, err := decodeField("n", jwk.N)
		if err != nil {
			return 0
		}
		return new(big.Int).SetBytes(n).BitLen()
	case string(KeyTypeEC):
		curve, err := CurveFor(jwk.Crv)
		if err != nil {
			return 0
		}
		return curve.Params().BitSize
	case string(KeyTypeOct):
		k, err := decodeField("k", jwk.K)
		if err != nil {
			return 0
		}
		return len(k) * 8
	default:
		return 0
	}
}

// RSA helpers

func fromRSAPublicKey(key *rsa.PublicKey) *JWK {
	return &JWK{
		Kty: string(KeyTypeRSA),
		N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	}
}

func fromRSAPrivateKey(key *rsa.PrivateKey) *JWK {
	if key.Precomputed.Dp == nil {
		key.Precompute()
	}

	jwk := fromRSAPublicKey(&key.PublicKey)
	jwk.D = base64.RawURLEncoding.EncodeToString(key.D.Bytes())

	if len(key.Primes) >= 2 {
		jwk.P = base64.RawURLEncoding.EncodeToString(key.Primes[0].Bytes())
		jwk.Q = base64.RawURLEncoding.EncodeToString(key.Primes[1].Bytes())
	}
	if key.Precomputed.Dp != nil {
		jwk.DP = base64.RawURLEncoding.EncodeToString(key.Precomputed.Dp.Bytes())
		jwk.DQ = base64.RawURLEncoding.EncodeToString(key.Precomputed.Dq.Bytes())
		jwk.QI = base64.RawURLEncoding.EncodeToString(key.Precomputed.Qinv.Bytes())
	}
	return jwk
}

func (jwk *JWK) toRSAPublicKey() (*rsa.PublicKey, error) {
	if jwk.N == "" {
		return nil, fmt.Errorf("%w: n", ErrMissingParameter)
	}
	if jwk.E == "" {
		return nil, fmt.Errorf("%w: e", ErrMissingParameter)
	}

	nBytes, err := decodeField("n", jwk.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := decodeField("e", jwk.E)
	if err != nil {
		return nil, err
	}

	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() {
		return nil, fmt.Errorf("jwk: RSA exponent too large")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(e.Int64()),
	}, nil
}

func (jwk *JWK) toRSAPrivateKey() (*rsa.PrivateKey, error) {
	pubKey, err := jwk.toRSAPublicKey()
	if err != nil {
		return nil, err
	}

	dBytes, err := decodeField("d", jwk.D)
	if err != nil {
		return nil, err
	}

	privKey := &rsa.PrivateKey{
		PublicKey: *pubKey,
		D:         new(big.Int).SetBytes(dBytes),
	}

	if jwk.P != "" && jwk.Q != "" {
		pBytes, err := decodeField("p", jwk.P)
		if err != nil {
			return nil, err
		}
		qBytes, err := decodeField("q", jwk.Q)
		if err != nil {
			return nil, err
		}
		privKey.Primes = []*big.Int{
			new(big.Int).SetBytes(pBytes),
			new(big.Int).SetBytes(qBytes),
		}
		privKey.Precompute()
	}

	return privKey, nil
}

// ECDSA helpers

func fromECDSAPublicKey(key *ecdsa.PublicKey) (*JWK, error) {
	crv, err := CurveName(key.Curve)
	if err != nil {
		return nil, err
	}

	byteLen := (key.Curve.Params().BitSize + 7) / 8
	return &JWK{
		Kty: string(KeyTypeEC),
		Crv: string(crv),
		X:   base64.RawURLEncoding.EncodeToString(key.X.FillBytes(make([]byte, byteLen))),
		Y:   base64.RawURLEncoding.EncodeToString(key.Y.FillBytes(make([]byte, byteLen))),
	}, nil
}

func fromECDSAPrivateKey(key *ecdsa.PrivateKey) (*JWK, error) {
	jwk, err := fromECDSAPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	byteLen := (key.Curve.Params().BitSize + 7) / 8
	jwk.D = base64.RawURLEncoding.EncodeToString(key.D.FillBytes(make([]byte, byteLen)))
	return jwk, nil
}

func (jwk *JWK) toECDSAPublicKey() (*ecdsa.PublicKey, error) {
	if jwk.Crv == "" {
		return nil, fmt.Errorf("%w: crv", ErrMissingParameter)
	}
	if jwk.X == "" {
		return nil, fmt.Errorf("%w: x", ErrMissingParameter)
	}
	if jwk.Y == "" {
		return nil, fmt.Errorf("%w: y", ErrMissingParameter)
	}

	curve, err := CurveFor(jwk.Crv)
	if err != nil {
		return nil, err
	}

	xBytes, err := decodeField("x", jwk.X)
	if err != nil {
		return nil, err
	}
	yBytes, err := decodeField("y", jwk.Y)
	if err != nil {
		return nil, err
	}

	return &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(xBytes),
		Y:     new(big.Int).SetBytes(yBytes),
	}, nil
}

func (jwk *JWK) toECDSAPrivateKey() (*ecdsa.PrivateKey, error) {
	pubKey, err := jwk.toECDSAPublicKey()
	if err != nil {
		return nil, err
	}

	dBytes, err := decodeField("d", jwk.D)
	if err != nil {
		return nil, err
	}

	return &ecdsa.PrivateKey{
		PublicKey: *pubKey,
		D:         new(big.Int).SetBytes(dBytes),
	}, nil
}

// Curve helpers

// CurveName returns the JOSE curve name for an elliptic.Curve.
func CurveName(curve elliptic.Curve) (Curve, error) {
	switch curve {
	case elliptic.P256():
		return CurveP256, nil
	case elliptic.P384():
		return CurveP384, nil
	case elliptic.P521():
		return CurveP521, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCurve, curve.Params().Name)
	}
}

// CurveFor returns the elliptic.Curve for a JOSE curve name.
func CurveFor(name string) (elliptic.Curve, error) {
	switch name {
	case string(CurveP256):
		return elliptic.P256(), nil
	case string(CurveP384):
		return elliptic.P384(), nil
	case string(CurveP521):
		return elliptic.P521(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurve, name)
	}
}

func decodeField(name, value string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, name)
	}
	return b, nil
}
