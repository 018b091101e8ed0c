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
	_ "crypto/sha256" // register SHA-256/SHA-384/SHA-512 implementations
	_ "crypto/sha512"
	"fmt"
	"strings"
)

// =============================================================================
// Algorithm Identifiers
// =============================================================================
// Short names follow RFC 7518 (JWA). The long-form URIs are the XML-DSig
// signature-method aliases accepted for interoperability with SAML-era
// callers; they normalize to the short names before catalog lookup.

const (
	// HS256 is HMAC using SHA-256.
	HS256 = "HS256"

	// HS384 is HMAC using SHA-384.
	HS384 = "HS384"

	// HS512 is HMAC using SHA-512.
	HS512 = "HS512"

	// RS256 is RSASSA-PKCS1-v1_5 using SHA-256.
	RS256 = "RS256"

	// RS384 is RSASSA-PKCS1-v1_5 using SHA-384.
	RS384 = "RS384"

	// RS512 is RSASSA-PKCS1-v1_5 using SHA-512.
	RS512 = "RS512"

	// ES256 is ECDSA using P-256 and SHA-256.
	ES256 = "ES256"

	// ES384 is ECDSA using P-384 and SHA-384.
	ES384 = "ES384"

	// ES512 is ECDSA using P-521 and SHA-512.
	ES512 = "ES512"

	// AlgorithmNone marks an unsigned token.
	AlgorithmNone = "none"
)

// XML-DSig signature-method URI aliases.
const (
	HMACSHA256SignatureURI  = "http://www.w3.org/2001/04/xmldsig-more#hmac-sha256"
	HMACSHA384SignatureURI  = "http://www.w3.org/2001/04/xmldsig-more#hmac-sha384"
	HMACSHA512SignatureURI  = "http://www.w3.org/2001/04/xmldsig-more#hmac-sha512"
	RSASHA256SignatureURI   = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	RSASHA384SignatureURI   = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha384"
	RSASHA512SignatureURI   = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha512"
	ECDSASHA256SignatureURI = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha256"
	ECDSASHA384SignatureURI = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha384"
	ECDSASHA512SignatureURI = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha512"
)

var signatureURIAliases = map[string]string{
	HMACSHA256SignatureURI:  HS256,
	HMACSHA384SignatureURI:  HS384,
	HMACSHA512SignatureURI:  HS512,
	RSASHA256SignatureURI:   RS256,
	RSASHA384SignatureURI:   RS384,
	RSASHA512SignatureURI:   RS512,
	ECDSASHA256SignatureURI: ES256,
	ECDSASHA384SignatureURI: ES384,
	ECDSASHA512SignatureURI: ES512,
}

// NormalizeAlgorithm maps signature-method URI aliases to their short JWA
// names. Unrecognized identifiers pass through unchanged; the catalog
// lookups decide whether they are supported.
func NormalizeAlgorithm(algorithm string) string {
	if short, ok := signatureURIAliases[algorithm]; ok {
		return short
	}
	return algorithm
}

// IsSymmetricAlgorithm reports whether the algorithm uses a shared secret.
func IsSymmetricAlgorithm(algorithm string) bool {
	switch NormalizeAlgorithm(algorithm) {
	case HS256, HS384, HS512:
		return true
	}
	return false
}

// IsAsymmetricAlgorithm reports whether the algorithm uses a key pair.
func IsAsymmetricAlgorithm(algorithm string) bool {
	switch NormalizeAlgorithm(algorithm) {
	case RS256, RS384, RS512, ES256, ES384, ES512:
		return true
	}
	return false
}

// =============================================================================
// Algorithm Catalog
// =============================================================================
// The catalog maps algorithm identifiers to their hash function and to the
// minimum key sizes enforced at provider construction. The verifying
// minimums are deliberately lower than the signing minimums for RSA:
// legacy 1024-bit signatures remain verifiable while the engine refuses to
// originate new ones below 2048 bits.
//
// The default tables are package-level and immutable. Providers that allow
// per-instance overrides take copies via the *KeySizes accessors; nothing
// mutates these maps.

var defaultHashes = map[string]crypto.Hash{
	HS256: crypto.SHA256,
	HS384: crypto.SHA384,
	HS512: crypto.SHA512,
	RS256: crypto.SHA256,
	RS384: crypto.SHA384,
	RS512: crypto.SHA512,
	ES256: crypto.SHA256,
	ES384: crypto.SHA384,
	ES512: crypto.SHA512,
}

var defaultMinimumSigningKeySizes = map[string]int{
	RS256: 2048,
	RS384: 2048,
	RS512: 2048,
	ES256: 256,
	ES384: 384,
	ES512: 521,
}

var defaultMinimumVerifyingKeySizes = map[string]int{
	RS256: 1024,
	RS384: 1024,
	RS512: 1024,
	ES256: 256,
	ES384: 384,
	ES512: 521,
}

// HashFor returns the hash function for the algorithm. Unknown algorithms
// are an error here, unlike the size lookups where absence simply means no
// minimum is enforced.
func HashFor(algorithm string) (crypto.Hash, error) {
	h, ok := defaultHashes[NormalizeAlgorithm(algorithm)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return h, nil
}

// MinimumSigningKeySize returns the minimum key size in bits required to
// sign with the algorithm. The second return is false when no minimum is
// cataloged.
func MinimumSigningKeySize(algorithm string) (int, bool) {
	bits, ok := defaultMinimumSigningKeySizes[NormalizeAlgorithm(algorithm)]
	return bits, ok
}

// MinimumVerifyingKeySize returns the minimum key size in bits required to
// verify with the algorithm. The second return is false when no minimum is
// cataloged.
func MinimumVerifyingKeySize(algorithm string) (int, bool) {
	bits, ok := defaultMinimumVerifyingKeySizes[NormalizeAlgorithm(algorithm)]
	return bits, ok
}

// SigningKeySizes returns a copy of the default minimum signing key sizes.
func SigningKeySizes() map[string]int {
	return copySizes(defaultMinimumSigningKeySizes)
}

// VerifyingKeySizes returns a copy of the default minimum verifying key
// sizes.
func VerifyingKeySizes() map[string]int {
	return copySizes(defaultMinimumVerifyingKeySizes)
}

func copySizes(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for alg, bits := range src {
		dst[alg] = bits
	}
	return dst
}

// CurveSizeBytes returns the per-coordinate byte length of the ECDSA
// signature for the algorithm: 32 for ES256, 48 for ES384, 66 for ES512.
func CurveSizeBytes(algorithm string) (int, error) {
	switch NormalizeAlgorithm(algorithm) {
	case ES256:
		return 32, nil
	case ES384:
		return 48, nil
	case ES512:
		return 66, nil
	default:
		return 0, fmt.Errorf("%w: %q is not an ECDSA algorithm", ErrUnsupportedAlgorithm, algorithm)
	}
}

// ValidAlgorithm reports whether the identifier, after normalization, names
// a supported signing algorithm or "none".
func ValidAlgorithm(algorithm string) bool {
	normalized := NormalizeAlgorithm(algorithm)
	if normalized == AlgorithmNone {
		return true
	}
	_, ok := defaultHashes[normalized]
	return ok
}

// ParseAlgorithm validates and normalizes a user-supplied algorithm string.
func ParseAlgorithm(algorithm string) (string, error) {
	trimmed := strings.TrimSpace(algorithm)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrUnsupportedAlgorithm)
	}
	normalized := NormalizeAlgorithm(trimmed)
	if !ValidAlgorithm(normalized) {
		upper := strings.ToUpper(normalized)
		if !ValidAlgorithm(upper) {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
		}
		normalized = upper
	}
	return normalized, nil
}
