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

// Package token implements the compact serialized security token: the
// three-segment base64url form, its codec, and the builder that mints
// signed tokens. Decoding is structural only; signature and claim
// validation live in pkg/validation.
package token

import (
	"encoding/json"
	"time"

	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

// Standard header parameter names.
const (
	HeaderAlgorithm  = "alg"
	HeaderType       = "typ"
	HeaderKeyID      = "kid"
	HeaderThumbprint = "x5t"
)

// Standard claim names.
const (
	ClaimIssuer     = "iss"
	ClaimSubject    = "sub"
	ClaimAudience   = "aud"
	ClaimExpires    = "exp"
	ClaimNotBefore  = "nbf"
	ClaimIssuedAt   = "iat"
	ClaimTokenID    = "jti"
	ClaimActorToken = "actort"
)

// TypeJWT is the default typ header value.
const TypeJWT = "JWT"

// Token is a decoded compact token. Header and Claims preserve the decoded
// JSON values; the raw segments are kept so the signing input and original
// string survive a decode/validate round trip losslessly.
type Token struct {
	// Raw is the original compact serialization.
	Raw string

	// Header is the decoded header segment.
	Header map[string]any

	// Claims is the decoded payload segment.
	Claims map[string]any

	// Signature is the decoded third segment, empty for unsigned tokens.
	Signature []byte

	// SigningKey is the key that verified the signature. Set only by
	// successful validation, never by the codec.
	SigningKey types.Key

	rawHeader  string
	rawPayload string
}

// SigningInput returns the bytes the signature covers: the first two raw
// segments joined by a dot.
func (t *Token) SigningInput() []byte {
	return []byte(t.rawHeader + "." + t.rawPayload)
}

// Algorithm returns the alg header, or "" when absent.
func (t *Token) Algorithm() string {
	return t.headerString(HeaderAlgorithm)
}

// KeyID returns the kid header, or "".
func (t *Token) KeyID() string {
	return t.headerString(HeaderKeyID)
}

// Thumbprint returns the x5t header, or "".
func (t *Token) Thumbprint() string {
	return t.headerString(HeaderThumbprint)
}

// Type returns the typ header, or "".
func (t *Token) Type() string {
	return t.headerString(HeaderType)
}

// IsSigned reports whether the token declares a signing algorithm and
// carries a signature.
func (t *Token) IsSigned() bool {
	alg := t.Algorithm()
	return alg != "" && alg != types.AlgorithmNone && len(t.Signature) > 0
}

// Issuer returns the iss claim, or "".
func (t *Token) Issuer() string {
	return t.claimString(ClaimIssuer)
}

// Subject returns the sub claim, or "".
func (t *Token) Subject() string {
	return t.claimString(ClaimSubject)
}

// ID returns the jti claim, or "".
func (t *Token) ID() string {
	return t.claimString(ClaimTokenID)
}

// Actor returns the actort claim, or "".
func (t *Token) Actor() string {
	return t.claimString(ClaimActorToken)
}

// Audiences returns the aud claim as a slice. A single string audience
// becomes a one-element slice; absence is nil.
func (t *Token) Audiences() []string {
	raw, ok := t.Claims[ClaimAudience]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}

// Expires returns the exp claim as a time, or the zero time when absent.
func (t *Token) Expires() time.Time {
	return t.claimTime(ClaimExpires)
}

// NotBefore returns the nbf claim as a time, or the zero time when absent.
func (t *Token) NotBefore() time.Time {
	return t.claimTime(ClaimNotBefore)
}

// IssuedAt returns the iat claim as a time, or the zero time when absent.
func (t *Token) IssuedAt() time.Time {
	return t.claimTime(ClaimIssuedAt)
}

func (t *Token) headerString(name string) string {
	if s, ok := t.Header[name].(string); ok {
		return s
	}
	return ""
}

func (t *Token) claimString(name string) string {
	if s, ok := t.Claims[name].(string); ok {
		return s
	}
	return ""
}

// claimTime interprets a NumericDate claim. Decoded JSON numbers arrive as
// float64 or json.Number depending on how the payload was parsed; both are
// whole seconds since the epoch.
func (t *Token) claimTime(name string) time.Time {
	raw, ok := t.Claims[name]
	if !ok {
		return time.Time{}
	}
	switch v := raw.(type) {
	case float64:
		return time.Unix(int64(v), 0).UTC()
	case json.Number:
		seconds, err := v.Int64()
		if err != nil {
			if f, ferr := v.Float64(); ferr == nil {
				return time.Unix(int64(f), 0).UTC()
			}
			return time.Time{}
		}
		return time.Unix(seconds, 0).UTC()
	case int64:
		return time.Unix(v, 0).UTC()
	default:
		return time.Time{}
	}
}
