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
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jeremyhahn/go-securetoken/pkg/provider"
	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

// DefaultTokenLifetime is applied when a descriptor specifies neither a
// not-before nor an expiration instant.
const DefaultTokenLifetime = 60 * time.Minute

// Descriptor describes the token to mint. Zero-value time fields are
// filled with defaults; a nil SigningCredentials produces an unsigned
// token with alg "none" and an empty signature segment.
type Descriptor struct {
	Issuer    string
	Audience  string
	Subject   string
	NotBefore time.Time
	Expires   time.Time
	IssuedAt  time.Time

	// Claims are merged into the payload. Registered claims set from the
	// fields above win over entries with the same name.
	Claims map[string]any

	SigningCredentials *types.SigningCredentials
}

// Builder mints compact tokens using a codec and a provider factory.
type Builder struct {
	codec   *Codec
	factory *provider.Factory
	now     func() time.Time
}

// NewBuilder creates a token builder. A nil codec or factory falls back to
// the package defaults.
func NewBuilder(codec *Codec, factory *provider.Factory) *Builder {
	if codec == nil {
		codec = NewCodec()
	}
	if factory == nil {
		factory = provider.NewFactory()
	}
	return &Builder{codec: codec, factory: factory, now: time.Now}
}

// Create mints a token from the descriptor and returns its compact
// serialization along with the decoded form.
func (b *Builder) Create(d *Descriptor) (*Token, error) {
	if d == nil {
		d = &Descriptor{}
	}

	notBefore, expires, err := b.lifetimeWindow(d)
	if err != nil {
		return nil, err
	}

	issuedAt := d.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = b.now()
	}

	claims := make(map[string]any, len(d.Claims)+7)
	for name, value := range d.Claims {
		claims[name] = value
	}
	claims[ClaimTokenID] = uuid.NewString()
	claims[ClaimNotBefore] = notBefore.Unix()
	claims[ClaimExpires] = expires.Unix()
	claims[ClaimIssuedAt] = issuedAt.Unix()
	if d.Issuer != "" {
		claims[ClaimIssuer] = d.Issuer
	}
	if d.Audience != "" {
		claims[ClaimAudience] = d.Audience
	}
	if d.Subject != "" {
		claims[ClaimSubject] = d.Subject
	}

	header := map[string]any{
		HeaderType: TypeJWT,
	}

	var signature []byte
	if d.SigningCredentials == nil {
		header[HeaderAlgorithm] = types.AlgorithmNone
	} else {
		signature, err = b.sign(header, claims, d.SigningCredentials)
		if err != nil {
			return nil, err
		}
	}

	raw, err := b.codec.Encode(header, claims, signature)
	if err != nil {
		return nil, err
	}
	return b.codec.Decode(raw)
}

// lifetimeWindow resolves the nbf/exp pair. Both unset means a default
// window starting now; one set anchors the other; nbf at or after exp is
// rejected.
func (b *Builder) lifetimeWindow(d *Descriptor) (notBefore, expires time.Time, err error) {
	notBefore, expires = d.NotBefore, d.Expires

	switch {
	case notBefore.IsZero() && expires.IsZero():
		notBefore = b.now()
		expires = notBefore.Add(DefaultTokenLifetime)
	case notBefore.IsZero():
		notBefore = b.now()
	case expires.IsZero():
		expires = notBefore.Add(DefaultTokenLifetime)
	}

	if !notBefore.Before(expires) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: nbf=%s exp=%s",
			ErrInvalidLifetimeWindow, notBefore.UTC().Format(time.RFC3339), expires.UTC().Format(time.RFC3339))
	}
	return notBefore, expires, nil
}

// sign populates the algorithm and key-identification headers, then signs
// the encoded signing input. The provider lives only for this call.
func (b *Builder) sign(header, claims map[string]any, creds *types.SigningCredentials) ([]byte, error) {
	if creds.Key == nil {
		return nil, ErrNoSigningCredentials
	}

	p, err := b.factory.CreateForSigning(creds.Key, creds.Algorithm)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	header[HeaderAlgorithm] = p.Algorithm()
	if kid := creds.Key.KeyID(); kid != "" {
		header[HeaderKeyID] = kid
	}
	if certKey, ok := creds.Key.(*types.CertificateKey); ok {
		if x5t := certKey.Thumbprint(); x5t != "" {
			header[HeaderThumbprint] = x5t
		}
	}

	unsigned, err := b.codec.Encode(header, claims, nil)
	if err != nil {
		return nil, err
	}
	// Strip the trailing dot of the empty signature segment.
	signingInput := unsigned[:len(unsigned)-1]

	return p.Sign([]byte(signingInput))
}
