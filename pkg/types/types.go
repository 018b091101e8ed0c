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

// Package types contains the shared type definitions used across the token
// engine: the closed set of key material variants, signing credentials, and
// the algorithm catalog. This package depends only on pkg/jwk to prevent
// import cycles.
package types

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	"github.com/jeremyhahn/go-securetoken/pkg/jwk"
)

// Key is the closed set of key material variants understood by the
// signature providers. The unexported marker method seals the interface:
// the variant list is SymmetricKey, RSAKey, ECDSAKey, CertificateKey, and
// WebKey, and provider dispatch is an exhaustive switch over those five.
//
// A Key carries material only. It never signs or verifies by itself; a
// signature provider borrows the Key for its lifetime and releases any
// derived state on Close.
type Key interface {
	// KeyID returns the key identifier, or "" when the key has none.
	KeyID() string

	// KeySize returns the key size in bits (modulus size for RSA, curve
	// size for ECDSA, secret length for symmetric keys).
	KeySize() int

	// HasPrivateKey reports whether private key material is present.
	HasPrivateKey() bool

	sealed()
}

// SigningCredentials binds a key to the algorithm it signs with.
type SigningCredentials struct {
	Key       Key
	Algorithm string
}

// NewSigningCredentials creates signing credentials for the key/algorithm
// pair. The pair is not validated here; provider construction performs the
// key-size and compatibility checks.
func NewSigningCredentials(key Key, algorithm string) *SigningCredentials {
	return &SigningCredentials{Key: key, Algorithm: algorithm}
}

// =============================================================================
// SymmetricKey
// =============================================================================

// SymmetricKey wraps a raw shared secret for HMAC algorithms.
type SymmetricKey struct {
	// ID is the optional key identifier (kid).
	ID string

	// Secret is the raw shared secret.
	Secret []byte
}

// NewSymmetricKey creates a symmetric key from a raw secret.
func NewSymmetricKey(id string, secret []byte) *SymmetricKey {
	return &SymmetricKey{ID: id, Secret: secret}
}

func (k *SymmetricKey) KeyID() string       { return k.ID }
func (k *SymmetricKey) KeySize() int        { return len(k.Secret) * 8 }
func (k *SymmetricKey) HasPrivateKey() bool { return true }
func (k *SymmetricKey) sealed()             {}

// =============================================================================
// RSAKey
// =============================================================================

// RSAKey wraps an RSA key pair or a bare public key.
type RSAKey struct {
	// ID is the optional key identifier (kid).
	ID string

	// PrivateKey is the private key, nil for verify-only keys.
	PrivateKey *rsa.PrivateKey

	// PublicKey is the public key. May be nil when PrivateKey is set.
	PublicKey *rsa.PublicKey
}

// NewRSAKey creates an RSAKey from a private key.
func NewRSAKey(id string, priv *rsa.PrivateKey) *RSAKey {
	return &RSAKey{ID: id, PrivateKey: priv}
}

// NewRSAPublicKey creates a verify-only RSAKey from a public key.
func NewRSAPublicKey(id string, pub *rsa.PublicKey) *RSAKey {
	return &RSAKey{ID: id, PublicKey: pub}
}

// Public returns the public half of the key.
func (k *RSAKey) Public() *rsa.PublicKey {
	if k.PublicKey != nil {
		return k.PublicKey
	}
	if k.PrivateKey != nil {
		return &k.PrivateKey.PublicKey
	}
	return nil
}

func (k *RSAKey) KeyID() string { return k.ID }

func (k *RSAKey) KeySize() int {
	if pub := k.Public(); pub != nil {
		return pub.N.BitLen()
	}
	return 0
}

func (k *RSAKey) HasPrivateKey() bool { return k.PrivateKey != nil }
func (k *RSAKey) sealed()             {}

// =============================================================================
// ECDSAKey
// =============================================================================

// ECDSAKey wraps an ECDSA key pair or a bare public key.
type ECDSAKey struct {
	// ID is the optional key identifier (kid).
	ID string

	// PrivateKey is the private key, nil for verify-only keys.
	PrivateKey *ecdsa.PrivateKey

	// PublicKey is the public key. May be nil when PrivateKey is set.
	PublicKey *ecdsa.PublicKey
}

// NewECDSAKey creates an ECDSAKey from a private key.
func NewECDSAKey(id string, priv *ecdsa.PrivateKey) *ECDSAKey {
	return &ECDSAKey{ID: id, PrivateKey: priv}
}

// NewECDSAPublicKey creates a verify-only ECDSAKey from a public key.
func NewECDSAPublicKey(id string, pub *ecdsa.PublicKey) *ECDSAKey {
	return &ECDSAKey{ID: id, PublicKey: pub}
}

// Public returns the public half of the key.
func (k *ECDSAKey) Public() *ecdsa.PublicKey {
	if k.PublicKey != nil {
		return k.PublicKey
	}
	if k.PrivateKey != nil {
		return &k.PrivateKey.PublicKey
	}
	return nil
}

func (k *ECDSAKey) KeyID() string { return k.ID }

func (k *ECDSAKey) KeySize() int {
	if pub := k.Public(); pub != nil {
		return pub.Curve.Params().BitSize
	}
	return 0
}

func (k *ECDSAKey) HasPrivateKey() bool { return k.PrivateKey != nil }
func (k *ECDSAKey) sealed()             {}

// =============================================================================
// CertificateKey
// =============================================================================

// CertificateKey wraps an X.509 certificate, optionally paired with its
// private key for signing. Verification uses the certificate's public key.
type CertificateKey struct {
	// ID is the optional key identifier. When empty, KeyID falls back to
	// the certificate thumbprint (x5t).
	ID string

	// Certificate is the X.509 certificate.
	Certificate *x509.Certificate

	// PrivateKey is the certificate's private key, nil for verify-only use.
	PrivateKey crypto.PrivateKey
}

// NewCertificateKey creates a verify-only key from a certificate.
func NewCertificateKey(cert *x509.Certificate) *CertificateKey {
	return &CertificateKey{Certificate: cert}
}

// NewCertificateKeyWithPrivateKey creates a signing-capable key from a
// certificate and its private key.
func NewCertificateKeyWithPrivateKey(cert *x509.Certificate, priv crypto.PrivateKey) *CertificateKey {
	return &CertificateKey{Certificate: cert, PrivateKey: priv}
}

// Thumbprint returns the base64url SHA-1 digest of the DER certificate,
// the x5t value used in token headers.
func (k *CertificateKey) Thumbprint() string {
	if k.Certificate == nil {
		return ""
	}
	sum := sha1.Sum(k.Certificate.Raw)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func (k *CertificateKey) KeyID() string {
	if k.ID != "" {
		return k.ID
	}
	return k.Thumbprint()
}

func (k *CertificateKey) KeySize() int {
	if k.Certificate == nil {
		return 0
	}
	switch pub := k.Certificate.PublicKey.(type) {
	case *rsa.PublicKey:
		return pub.N.BitLen()
	case *ecdsa.PublicKey:
		return pub.Curve.Params().BitSize
	default:
		return 0
	}
}

func (k *CertificateKey) HasPrivateKey() bool { return k.PrivateKey != nil }
func (k *CertificateKey) sealed()             {}

// =============================================================================
// WebKey
// =============================================================================

// WebKey wraps a JSON Web Key. The native crypto key is reconstructed from
// the JWK fields when a provider binds the key.
type WebKey struct {
	JWK *jwk.JWK
}

// NewWebKey wraps a parsed JWK.
func NewWebKey(k *jwk.JWK) *WebKey {
	return &WebKey{JWK: k}
}

// ParseWebKey parses a JSON-encoded JWK into a WebKey.
func ParseWebKey(data []byte) (*WebKey, error) {
	k, err := jwk.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &WebKey{JWK: k}, nil
}

func (k *WebKey) KeyID() string {
	if k.JWK == nil {
		return ""
	}
	return k.JWK.Kid
}

func (k *WebKey) KeySize() int {
	if k.JWK == nil {
		return 0
	}
	return k.JWK.KeySize()
}

func (k *WebKey) HasPrivateKey() bool {
	if k.JWK == nil {
		return false
	}
	return k.JWK.IsPrivate()
}

func (k *WebKey) sealed() {}

// KeysFromSet converts every key in a JWKS document into a Key. Keys whose
// kty is not supported are reported, not skipped; a key set containing an
// unusable key is a configuration error.
func KeysFromSet(set *jwk.Set) ([]Key, error) {
	keys := make([]Key, 0, len(set.Keys))
	for i, k := range set.Keys {
		switch k.Kty {
		case string(jwk.KeyTypeRSA), string(jwk.KeyTypeEC), string(jwk.KeyTypeOct):
			keys = append(keys, &WebKey{JWK: k})
		default:
			return nil, fmt.Errorf("%w: keys[%d] kty=%s", ErrUnsupportedKeyType, i, k.Kty)
		}
	}
	return keys, nil
}
