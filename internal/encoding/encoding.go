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

// Package encoding provides PEM encoding and decoding for the key material
// the token engine consumes: PKCS#8 private keys (optionally passphrase
// protected), PKIX public keys, and X.509 certificates.
package encoding

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/youmark/pkcs8"
)

var (
	// ErrInvalidEncodingPEM is returned when PEM decoding fails.
	ErrInvalidEncodingPEM = errors.New("invalid PEM encoding")

	// ErrInvalidPassword is returned when the passphrase is incorrect.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidKeyType is returned when an unsupported key type is provided.
	ErrInvalidKeyType = errors.New("invalid key type")
)

// EncodePrivateKeyPEM encodes a private key to PKCS#8 PEM. A non-empty
// passphrase encrypts the key; the passphrase buffer is zeroed before
// returning.
func EncodePrivateKeyPEM(privateKey crypto.PrivateKey, passphrase []byte) ([]byte, error) {
	if privateKey == nil {
		return nil, errors.New("private key cannot be nil")
	}
	switch privateKey.(type) {
	case *rsa.PrivateKey, *ecdsa.PrivateKey:
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidKeyType, privateKey)
	}

	if len(passphrase) > 0 {
		defer zero(passphrase)
	} else {
		passphrase = nil
	}

	der, err := pkcs8.MarshalPrivateKey(privateKey, passphrase, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	blockType := "PRIVATE KEY"
	if passphrase != nil {
		blockType = "ENCRYPTED PRIVATE KEY"
	}

	buf := new(bytes.Buffer)
	if err := pem.Encode(buf, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		return nil, fmt.Errorf("failed to encode PEM: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePrivateKeyPEM decodes a PKCS#8 PEM private key. passphrase must be
// non-empty for encrypted keys and is zeroed before returning.
func DecodePrivateKeyPEM(pemData, passphrase []byte) (crypto.PrivateKey, error) {
	if len(pemData) == 0 {
		return nil, errors.New("PEM data cannot be empty")
	}

	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, ErrInvalidEncodingPEM
	}

	if len(passphrase) > 0 {
		defer zero(passphrase)
	} else {
		passphrase = nil
	}

	key, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, passphrase)
	if err != nil {
		if strings.Contains(err.Error(), "incorrect password") {
			return nil, ErrInvalidPassword
		}
		// youmark/pkcs8 surfaces a wrong passphrase on an encrypted key as
		// an ASN.1 structure error rather than a password error.
		if strings.Contains(err.Error(), "asn1: structure error: tags don't match") {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	switch k := key.(type) {
	case *rsa.PrivateKey, *ecdsa.PrivateKey:
		return k, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidKeyType, key)
	}
}

// EncodePublicKeyPEM encodes a public key to PKIX PEM.
func EncodePublicKeyPEM(publicKey crypto.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, errors.New("public key cannot be nil")
	}

	der, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := pem.Encode(buf, &pem.Block{Type: "PUBLIC KEY", Bytes: der}); err != nil {
		return nil, fmt.Errorf("failed to encode PEM: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePublicKeyPEM decodes a PKIX PEM public key.
func DecodePublicKeyPEM(pemData []byte) (crypto.PublicKey, error) {
	if len(pemData) == 0 {
		return nil, errors.New("PEM data cannot be empty")
	}

	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, ErrInvalidEncodingPEM
	}

	publicKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return publicKey, nil
}

// EncodeCertificatePEM encodes an X.509 certificate to PEM.
func EncodeCertificatePEM(cert *x509.Certificate) ([]byte, error) {
	if cert == nil {
		return nil, errors.New("certificate cannot be nil")
	}

	buf := new(bytes.Buffer)
	if err := pem.Encode(buf, &pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}); err != nil {
		return nil, fmt.Errorf("failed to encode PEM: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeCertificatePEM decodes a PEM encoded X.509 certificate.
func DecodeCertificatePEM(pemData []byte) (*x509.Certificate, error) {
	if len(pemData) == 0 {
		return nil, errors.New("PEM data cannot be empty")
	}

	block, _ := pem.Decode(pemData)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, ErrInvalidEncodingPEM
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return cert, nil
}

// ExtractPublicKey extracts the public half of a private key.
func ExtractPublicKey(privateKey crypto.PrivateKey) (crypto.PublicKey, error) {
	switch key := privateKey.(type) {
	case *rsa.PrivateKey:
		return &key.PublicKey, nil
	case *ecdsa.PrivateKey:
		return &key.PublicKey, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidKeyType, privateKey)
	}
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
