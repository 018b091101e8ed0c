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
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

// ErrVerifyOnlyProvider indicates Sign was called on a provider constructed
// with UseVerify.
var ErrVerifyOnlyProvider = errors.New("provider: provider not constructed for signing")

// AsymmetricProvider signs and verifies with RSASSA-PKCS1-v1_5 or ECDSA.
// All key resolution happens at construction: the key variant is dispatched
// exhaustively, JSON Web Keys are reconstructed into native keys, and
// certificates give up their public (and optionally private) halves. Sign
// and Verify only ever touch the resolved native primitives.
//
// ECDSA signatures use the JOSE format: r and s zero-padded to the curve
// coordinate size and concatenated (64, 96, or 132 bytes).
type AsymmetricProvider struct {
	algorithm string
	hash      crypto.Hash
	use       KeyUse
	keyID     string

	rsaPrivate *rsa.PrivateKey
	rsaPublic  *rsa.PublicKey
	ecPrivate  *ecdsa.PrivateKey
	ecPublic   *ecdsa.PublicKey
	curveBytes int

	minSigningKeySizes   map[string]int
	minVerifyingKeySizes map[string]int
	closed               atomic.Bool
}

// AsymmetricOption customizes asymmetric provider construction.
type AsymmetricOption func(*AsymmetricProvider)

// WithMinimumSigningKeySizes replaces this instance's minimum signing key
// sizes. The map is used as given; the package defaults are untouched.
func WithMinimumSigningKeySizes(sizes map[string]int) AsymmetricOption {
	return func(p *AsymmetricProvider) {
		p.minSigningKeySizes = sizes
	}
}

// WithMinimumVerifyingKeySizes replaces this instance's minimum verifying
// key sizes. The map is used as given; the package defaults are untouched.
func WithMinimumVerifyingKeySizes(sizes map[string]int) AsymmetricOption {
	return func(p *AsymmetricProvider) {
		p.minVerifyingKeySizes = sizes
	}
}

// NewAsymmetricProvider binds a key to an asymmetric algorithm for the
// given use. Construction resolves everything up front: algorithm support,
// key-size policy for the intended use, private-key presence when signing,
// and the native primitive for the key variant.
func NewAsymmetricProvider(key types.Key, algorithm string, use KeyUse, opts ...AsymmetricOption) (*AsymmetricProvider, error) {
	normalized := types.NormalizeAlgorithm(algorithm)
	if !types.IsAsymmetricAlgorithm(normalized) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedAlgorithm, algorithm)
	}

	hash, err := types.HashFor(normalized)
	if err != nil {
		return nil, err
	}

	p := &AsymmetricProvider{
		algorithm:            normalized,
		hash:                 hash,
		use:                  use,
		keyID:                key.KeyID(),
		minSigningKeySizes:   types.SigningKeySizes(),
		minVerifyingKeySizes: types.VerifyingKeySizes(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.validateKeySize(key); err != nil {
		return nil, err
	}
	if use == UseSign && !key.HasPrivateKey() {
		return nil, fmt.Errorf("%w: %s signing with kid=%q", types.ErrNoPrivateKey, normalized, key.KeyID())
	}
	if err := p.resolveKey(key); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AsymmetricProvider) validateKeySize(key types.Key) error {
	sizes := p.minVerifyingKeySizes
	if p.use == UseSign {
		sizes = p.minSigningKeySizes
	}
	required, ok := sizes[p.algorithm]
	if !ok {
		// No cataloged minimum means no size policy for this algorithm.
		return nil
	}
	if key.KeySize() < required {
		return &KeySizeError{
			Algorithm:    p.algorithm,
			KeyID:        key.KeyID(),
			RequiredBits: required,
			ActualBits:   key.KeySize(),
			Signing:      p.use == UseSign,
		}
	}
	return nil
}

// resolveKey dispatches on the closed key variant set and binds the native
// signing primitives. The case list is exhaustive over pkg/types; a new
// variant must be handled here or construction fails with
// ErrUnsupportedKeyType.
func (p *AsymmetricProvider) resolveKey(key types.Key) error {
	switch k := key.(type) {
	case *types.RSAKey:
		return p.bindRSA(k.PrivateKey, k.Public())
	case *types.ECDSAKey:
		return p.bindECDSA(k.PrivateKey, k.Public())
	case *types.CertificateKey:
		return p.resolveCertificate(k)
	case *types.WebKey:
		return p.resolveWebKey(k)
	case *types.SymmetricKey:
		return fmt.Errorf("%w: symmetric key with %s", types.ErrUnsupportedKeyType, p.algorithm)
	default:
		return fmt.Errorf("%w: %T", types.ErrUnsupportedKeyType, key)
	}
}

func (p *AsymmetricProvider) resolveCertificate(k *types.CertificateKey) error {
	if k.Certificate == nil {
		return fmt.Errorf("%w: certificate key without certificate", types.ErrUnsupportedKeyType)
	}

	switch pub := k.Certificate.PublicKey.(type) {
	case *rsa.PublicKey:
		var priv *rsa.PrivateKey
		if p.use == UseSign {
			rsaPriv, ok := k.PrivateKey.(*rsa.PrivateKey)
			if !ok {
				return fmt.Errorf("%w: certificate private key %T", types.ErrUnsupportedKeyType, k.PrivateKey)
			}
			priv = rsaPriv
		}
		return p.bindRSA(priv, pub)
	case *ecdsa.PublicKey:
		var priv *ecdsa.PrivateKey
		if p.use == UseSign {
			ecPriv, ok := k.PrivateKey.(*ecdsa.PrivateKey)
			if !ok {
				return fmt.Errorf("%w: certificate private key %T", types.ErrUnsupportedKeyType, k.PrivateKey)
			}
			priv = ecPriv
		}
		return p.bindECDSA(priv, pub)
	default:
		return fmt.Errorf("%w: certificate public key %T", types.ErrUnsupportedKeyType, pub)
	}
}

func (p *AsymmetricProvider) resolveWebKey(k *types.WebKey) error {
	if k.JWK == nil {
		return fmt.Errorf("%w: web key without JWK", types.ErrUnsupportedKeyType)
	}

	if p.use == UseSign {
		priv, err := k.JWK.ToPrivateKey()
		if err != nil {
			return err
		}
		switch native := priv.(type) {
		case *rsa.PrivateKey:
			return p.bindRSA(native, &native.PublicKey)
		case *ecdsa.PrivateKey:
			return p.bindECDSA(native, &native.PublicKey)
		default:
			return fmt.Errorf("%w: %T from JWK", types.ErrUnsupportedKeyType, priv)
		}
	}

	pub, err := k.JWK.ToPublicKey()
	if err != nil {
		return err
	}
	switch native := pub.(type) {
	case *rsa.PublicKey:
		return p.bindRSA(nil, native)
	case *ecdsa.PublicKey:
		return p.bindECDSA(nil, native)
	default:
		return fmt.Errorf("%w: %T from JWK", types.ErrUnsupportedKeyType, pub)
	}
}

func (p *AsymmetricProvider) bindRSA(priv *rsa.PrivateKey, pub *rsa.PublicKey) error {
	switch p.algorithm {
	case types.RS256, types.RS384, types.RS512:
	default:
		return fmt.Errorf("%w: %s with an RSA key", types.ErrUnsupportedAlgorithm, p.algorithm)
	}
	if pub == nil {
		return fmt.Errorf("%w: RSA key without public key", types.ErrUnsupportedKeyType)
	}
	p.rsaPrivate = priv
	p.rsaPublic = pub
	return nil
}

func (p *AsymmetricProvider) bindECDSA(priv *ecdsa.PrivateKey, pub *ecdsa.PublicKey) error {
	curveBytes, err := types.CurveSizeBytes(p.algorithm)
	if err != nil {
		return fmt.Errorf("%w: %s with an ECDSA key", types.ErrUnsupportedAlgorithm, p.algorithm)
	}
	if pub == nil {
		return fmt.Errorf("%w: ECDSA key without public key", types.ErrUnsupportedKeyType)
	}

	required, _ := types.MinimumSigningKeySize(p.algorithm)
	if pub.Curve.Params().BitSize != required {
		return fmt.Errorf("%w: %s requires a %d-bit curve, key uses %s",
			types.ErrUnsupportedAlgorithm, p.algorithm, required, pub.Curve.Params().Name)
	}

	p.ecPrivate = priv
	p.ecPublic = pub
	p.curveBytes = curveBytes
	return nil
}

// Algorithm returns the bound algorithm identifier.
func (p *AsymmetricProvider) Algorithm() string {
	return p.algorithm
}

// KeyID returns the identifier of the bound key, or "".
func (p *AsymmetricProvider) KeyID() string {
	return p.keyID
}

// Sign signs message with the resolved private key.
func (p *AsymmetricProvider) Sign(message []byte) ([]byte, error) {
	if p.closed.Load() {
		return nil, ErrProviderClosed
	}
	if len(message) == 0 {
		return nil, fmt.Errorf("%w: message", ErrEmptyInput)
	}
	if p.use != UseSign {
		return nil, ErrVerifyOnlyProvider
	}

	digest := p.digest(message)
	switch {
	case p.rsaPrivate != nil:
		return rsa.SignPKCS1v15(rand.Reader, p.rsaPrivate, p.hash, digest)
	case p.ecPrivate != nil:
		return p.signECDSA(digest)
	default:
		return nil, ErrNotResolved
	}
}

func (p *AsymmetricProvider) signECDSA(digest []byte) ([]byte, error) {
	r, s, err := ecdsa.Sign(rand.Reader, p.ecPrivate, digest)
	if err != nil {
		return nil, err
	}

	sig := make([]byte, 2*p.curveBytes)
	r.FillBytes(sig[:p.curveBytes])
	s.FillBytes(sig[p.curveBytes:])
	return sig, nil
}

// Verify reports whether signature is valid for message under the resolved
// public key. Cryptographic mismatch, including a malformed ECDSA signature
// length, is (false, nil).
func (p *AsymmetricProvider) Verify(message, signature []byte) (bool, error) {
	if p.closed.Load() {
		return false, ErrProviderClosed
	}
	if len(message) == 0 {
		return false, fmt.Errorf("%w: message", ErrEmptyInput)
	}
	if len(signature) == 0 {
		return false, fmt.Errorf("%w: signature", ErrEmptyInput)
	}

	digest := p.digest(message)
	switch {
	case p.rsaPublic != nil:
		return rsa.VerifyPKCS1v15(p.rsaPublic, p.hash, digest, signature) == nil, nil
	case p.ecPublic != nil:
		if len(signature) != 2*p.curveBytes {
			return false, nil
		}
		r := new(big.Int).SetBytes(signature[:p.curveBytes])
		s := new(big.Int).SetBytes(signature[p.curveBytes:])
		return ecdsa.Verify(p.ecPublic, digest, r, s), nil
	default:
		return false, ErrNotResolved
	}
}

// Close drops the resolved key references. Safe to call more than once.
// Keys borrowed from caller-owned material are released, not destroyed.
func (p *AsymmetricProvider) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	p.rsaPrivate, p.rsaPublic = nil, nil
	p.ecPrivate, p.ecPublic = nil, nil
	return nil
}

func (p *AsymmetricProvider) digest(message []byte) []byte {
	h := p.hash.New()
	h.Write(message)
	return h.Sum(nil)
}
