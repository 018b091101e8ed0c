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

package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// DefaultMaxTokenSizeInBytes is the default ceiling applied by the size
// guard. The guard compares len(token) * 2 against the ceiling, so the
// largest acceptable token is half this value.
const DefaultMaxTokenSizeInBytes = math.MaxInt32

// compactToken matches the three-segment compact form before any decoding:
// two non-empty base64url segments and an optional third. Go's regexp runs
// in time linear in the input, so the structural check is safe to apply to
// untrusted input of any length the size guard admits.
var compactToken = regexp.MustCompile(`^[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]*$`)

// Codec encodes and decodes the compact token serialization.
type Codec struct {
	maxTokenSizeInBytes int
}

// CodecOption customizes a Codec.
type CodecOption func(*Codec)

// WithMaxTokenSize overrides the size-guard ceiling.
func WithMaxTokenSize(bytes int) CodecOption {
	return func(c *Codec) {
		c.maxTokenSizeInBytes = bytes
	}
}

// NewCodec creates a codec with the default size guard.
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{maxTokenSizeInBytes: DefaultMaxTokenSizeInBytes}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxTokenSizeInBytes returns the configured size-guard ceiling.
func (c *Codec) MaxTokenSizeInBytes() int {
	return c.maxTokenSizeInBytes
}

// CanRead reports whether the input passes the size guard and the
// structural check. It never decodes a segment.
func (c *Codec) CanRead(tokenString string) bool {
	if tokenString == "" || c.oversized(tokenString) {
		return false
	}
	return compactToken.MatchString(tokenString)
}

// Decode parses a compact token string into its header, claims, and raw
// signature. No validation beyond structure is performed: an expired or
// badly signed token decodes fine.
func (c *Codec) Decode(tokenString string) (*Token, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrEmptyToken
	}
	// The size guard runs before any decoding or regex work.
	if c.oversized(tokenString) {
		return nil, fmt.Errorf("%w: %d bytes, maximum %d",
			ErrTokenTooLong, len(tokenString), c.maxTokenSizeInBytes)
	}
	if !compactToken.MatchString(tokenString) {
		return nil, fmt.Errorf("%w: input is not a three-segment compact token", ErrMalformedToken)
	}

	parts := strings.Split(tokenString, ".")

	headerBytes, err := DecodeSegment(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedToken, err)
	}
	payloadBytes, err := DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrMalformedToken, err)
	}

	t := &Token{
		Raw:        tokenString,
		rawHeader:  parts[0],
		rawPayload: parts[1],
	}
	if err := json.Unmarshal(headerBytes, &t.Header); err != nil {
		return nil, fmt.Errorf("%w: header is not a JSON object: %v", ErrMalformedToken, err)
	}
	if err := json.Unmarshal(payloadBytes, &t.Claims); err != nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object: %v", ErrMalformedToken, err)
	}

	if parts[2] != "" {
		t.Signature, err = DecodeSegment(parts[2])
		if err != nil {
			return nil, fmt.Errorf("%w: signature: %v", ErrMalformedToken, err)
		}
	}
	return t, nil
}

// Encode serializes header and claims into the first two compact segments
// and appends the signature segment, which may be empty for unsigned
// tokens. Object keys are emitted in sorted order, so encoding the same
// maps always yields the same string.
func (c *Codec) Encode(header, claims map[string]any, signature []byte) (string, error) {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("token: failed to marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("token: failed to marshal claims: %w", err)
	}

	var b strings.Builder
	b.WriteString(EncodeSegment(headerJSON))
	b.WriteByte('.')
	b.WriteString(EncodeSegment(claimsJSON))
	b.WriteByte('.')
	if len(signature) > 0 {
		b.WriteString(EncodeSegment(signature))
	}
	return b.String(), nil
}

func (c *Codec) oversized(tokenString string) bool {
	// Guard against overflow on the doubling.
	return len(tokenString) > c.maxTokenSizeInBytes/2
}

// EncodeSegment encodes a segment as unpadded base64url.
func EncodeSegment(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeSegment decodes a base64url segment, tolerating trailing padding.
func DecodeSegment(segment string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(segment, "="))
}
