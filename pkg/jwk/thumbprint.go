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
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Thumbprint computes the RFC 7638 SHA-256 thumbprint of the JWK.
// The thumbprint is computed over the canonical JSON form containing only
// the required members of the key type, in lexicographic order. It is the
// default key identifier assigned to keys that carry no kid.
func (jwk *JWK) Thumbprint() (string, error) {
	canonical, err := jwk.canonicalJSON()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}

// canonicalJSON builds the RFC 7638 required-members-only JSON form.
// Members must appear in lexicographic order with no whitespace, so the
// JSON is constructed by hand rather than through encoding/json.
func (jwk *JWK) canonicalJSON() ([]byte, error) {
	switch jwk.Kty {
	case string(KeyTypeRSA):
		if jwk.E == "" || jwk.N == "" {
			return nil, fmt.Errorf("%w: e, n", ErrMissingParameter)
		}
		return fmt.Appendf(nil, `{"e":%q,"kty":"RSA","n":%q}`, jwk.E, jwk.N), nil
	case string(KeyTypeEC):
		if jwk.Crv == "" || jwk.X == "" || jwk.Y == "" {
			return nil, fmt.Errorf("%w: crv, x, y", ErrMissingParameter)
		}
		return fmt.Appendf(nil, `{"crv":%q,"kty":"EC","x":%q,"y":%q}`, jwk.Crv, jwk.X, jwk.Y), nil
	case string(KeyTypeOct):
		if jwk.K == "" {
			return nil, fmt.Errorf("%w: k", ErrMissingParameter)
		}
		return fmt.Appendf(nil, `{"k":%q,"kty":"oct"}`, jwk.K), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, jwk.Kty)
	}
}
