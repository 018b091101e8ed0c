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

// Package validation implements the token validation pipeline. Checks run
// in a fixed order: signature, issuer signing key, replay, lifetime,
// audience, issuer, actor, then claims materialization. Each check can be
// replaced per call through the hooks on Parameters.
package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jeremyhahn/go-securetoken/pkg/claims"
	"github.com/jeremyhahn/go-securetoken/pkg/logging"
	"github.com/jeremyhahn/go-securetoken/pkg/provider"
	"github.com/jeremyhahn/go-securetoken/pkg/token"
	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

// localAuthority is the claim issuer recorded when the token has no iss
// claim.
const localAuthority = "LOCAL AUTHORITY"

// Validator runs the validation pipeline.
type Validator struct {
	codec   *token.Codec
	factory *provider.Factory
	logger  *logging.Logger
	now     func() time.Time
}

// ValidatorOption customizes a Validator.
type ValidatorOption func(*Validator)

// WithCodec replaces the token codec.
func WithCodec(c *token.Codec) ValidatorOption {
	return func(v *Validator) { v.codec = c }
}

// WithFactory replaces the provider factory.
func WithFactory(f *provider.Factory) ValidatorOption {
	return func(v *Validator) { v.factory = f }
}

// WithLogger replaces the logger.
func WithLogger(l *logging.Logger) ValidatorOption {
	return func(v *Validator) { v.logger = l }
}

// NewValidator creates a validator with default codec, factory, and logger.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		codec:   token.NewCodec(),
		factory: provider.NewFactory(),
		logger:  logging.DefaultLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the full pipeline over a compact token string and returns
// the materialized identity and the decoded token.
func (v *Validator) Validate(ctx context.Context, tokenString string, p *Parameters) (*claims.Identity, *token.Token, error) {
	if p == nil {
		return nil, nil, ErrNilParameters
	}

	codec := v.codec
	if p.MaxTokenSizeInBytes > 0 {
		codec = token.NewCodec(token.WithMaxTokenSize(p.MaxTokenSizeInBytes))
	}

	tok, err := v.validateSignature(ctx, codec, tokenString, p)
	if err != nil {
		return nil, nil, err
	}

	if p.ReplayCache != nil {
		if err := p.ReplayCache.CheckAndRecord(ctx, tokenString, tok.Expires()); err != nil {
			return nil, tok, err
		}
	}

	if err := v.validateLifetime(tok, p); err != nil {
		return nil, tok, err
	}
	if err := v.validateAudience(tok, p); err != nil {
		return nil, tok, err
	}
	issuer, err := v.validateIssuer(tok, p)
	if err != nil {
		return nil, tok, err
	}

	var actor *claims.Identity
	if p.ValidateActor {
		actor, err = v.validateActor(ctx, tok, p)
		if err != nil {
			return nil, tok, err
		}
	}

	identity, err := v.materializeClaims(tok, issuer, actor, p)
	if err != nil {
		return nil, tok, err
	}
	if p.SaveSigninToken {
		identity.BootstrapToken = tokenString
	}

	v.logger.Debug("token validated",
		"jti", tok.ID(), "iss", tok.Issuer(), "kid", tok.KeyID())
	return identity, tok, nil
}

// validateSignature decodes the token and checks its signature against the
// candidate keys. Keys whose kid or x5t matches the token header are tried
// first; if none of them verifies, every remaining key is tried.
func (v *Validator) validateSignature(ctx context.Context, codec *token.Codec, tokenString string, p *Parameters) (*token.Token, error) {
	if !p.ValidateSignature {
		return codec.Decode(tokenString)
	}

	if p.SignatureValidator != nil {
		tok, err := p.SignatureValidator(ctx, tokenString, p)
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return nil, fmt.Errorf("%w: signature validator returned no token", ErrInvalidSignature)
		}
		return tok, nil
	}

	tok, err := codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	if !tok.IsSigned() {
		if p.RequireSignedTokens {
			return nil, fmt.Errorf("%w: alg=%q", ErrUnsignedToken, tok.Algorithm())
		}
		return tok, nil
	}

	var candidates []types.Key
	if p.IssuerSigningKeyResolver != nil {
		candidates = p.IssuerSigningKeyResolver(ctx, tok, p)
	} else {
		candidates = p.SigningKeys()
	}
	if len(candidates) == 0 {
		return nil, ErrSignatureKeyNotFound
	}

	matched, remaining := partitionByHint(candidates, tok)

	var attempts []error
	for _, group := range [][]types.Key{matched, remaining} {
		for _, key := range group {
			ok, err := v.verifyWithKey(tok, key)
			if err != nil {
				attempts = append(attempts, fmt.Errorf("kid=%q: %w", key.KeyID(), err))
				continue
			}
			if !ok {
				attempts = append(attempts, fmt.Errorf("kid=%q: signature mismatch", key.KeyID()))
				continue
			}
			if err := v.validateIssuerSigningKey(key, tok, p); err != nil {
				return nil, err
			}
			tok.SigningKey = key
			return tok, nil
		}
	}

	// A kid or x5t hint that matched no working key signals rotation: the
	// caller may refresh its key set and retry.
	if tok.KeyID() != "" || tok.Thumbprint() != "" {
		return nil, fmt.Errorf("%w: %w", ErrSignatureKeyNotFound, errors.Join(attempts...))
	}
	return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, errors.Join(attempts...))
}

// partitionByHint splits candidate keys into those matching the token's
// kid or x5t header and the rest.
func partitionByHint(candidates []types.Key, tok *token.Token) (matched, remaining []types.Key) {
	kid := tok.KeyID()
	x5t := tok.Thumbprint()
	if kid == "" && x5t == "" {
		return nil, candidates
	}

	for _, key := range candidates {
		hit := kid != "" && key.KeyID() == kid
		if !hit && x5t != "" {
			if certKey, ok := key.(*types.CertificateKey); ok {
				hit = certKey.Thumbprint() == x5t
			}
		}
		if hit {
			matched = append(matched, key)
		} else {
			remaining = append(remaining, key)
		}
	}
	return matched, remaining
}

func (v *Validator) verifyWithKey(tok *token.Token, key types.Key) (bool, error) {
	prov, err := v.factory.CreateForVerifying(key, tok.Algorithm())
	if err != nil {
		return false, err
	}
	defer prov.Close()

	return prov.Verify(tok.SigningInput(), tok.Signature)
}

// validateIssuerSigningKey runs the post-verification check of the key
// that produced the valid signature.
func (v *Validator) validateIssuerSigningKey(key types.Key, tok *token.Token, p *Parameters) error {
	if !p.ValidateIssuerSigningKey {
		return nil
	}
	if p.IssuerSigningKeyValidator != nil {
		return p.IssuerSigningKeyValidator(key, tok, p)
	}
	// Built-in check: a certificate key must be within its validity period.
	if certKey, ok := key.(*types.CertificateKey); ok && certKey.Certificate != nil {
		now := v.now()
		if now.Before(certKey.Certificate.NotBefore) || now.After(certKey.Certificate.NotAfter) {
			return fmt.Errorf("validation: signing certificate outside validity period (kid=%q)", key.KeyID())
		}
	}
	return nil
}

func (v *Validator) validateLifetime(tok *token.Token, p *Parameters) error {
	notBefore, expires := tok.NotBefore(), tok.Expires()

	if p.LifetimeValidator != nil {
		return p.LifetimeValidator(notBefore, expires, tok, p)
	}
	if !p.ValidateLifetime {
		return nil
	}

	if expires.IsZero() {
		if p.RequireExpirationTime {
			return ErrNoExpiration
		}
	} else if !notBefore.IsZero() && notBefore.After(expires) {
		return fmt.Errorf("%w: nbf=%s exp=%s", token.ErrInvalidLifetimeWindow,
			notBefore.Format(time.RFC3339), expires.Format(time.RFC3339))
	}

	now := v.now()
	if !notBefore.IsZero() && now.Add(p.ClockSkew).Before(notBefore) {
		return fmt.Errorf("%w: nbf=%s now=%s", ErrTokenNotYetValid,
			notBefore.Format(time.RFC3339), now.UTC().Format(time.RFC3339))
	}
	if !expires.IsZero() && now.Add(-p.ClockSkew).After(expires) {
		return fmt.Errorf("%w: exp=%s now=%s", ErrTokenExpired,
			expires.Format(time.RFC3339), now.UTC().Format(time.RFC3339))
	}
	return nil
}

func (v *Validator) validateAudience(tok *token.Token, p *Parameters) error {
	audiences := tok.Audiences()

	if p.AudienceValidator != nil {
		return p.AudienceValidator(audiences, tok, p)
	}
	if !p.ValidateAudience {
		return nil
	}

	accepted := p.Audiences()
	if len(accepted) == 0 {
		return fmt.Errorf("%w: no accepted audience configured", ErrInvalidAudience)
	}
	for _, aud := range audiences {
		for _, want := range accepted {
			if aud == want {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: token audiences %v", ErrInvalidAudience, audiences)
}

func (v *Validator) validateIssuer(tok *token.Token, p *Parameters) (string, error) {
	issuer := tok.Issuer()

	if p.IssuerValidator != nil {
		return p.IssuerValidator(issuer, tok, p)
	}
	if !p.ValidateIssuer {
		return issuer, nil
	}

	accepted := p.Issuers()
	if len(accepted) == 0 {
		return "", fmt.Errorf("%w: no accepted issuer configured", ErrInvalidIssuer)
	}
	for _, want := range accepted {
		if issuer != "" && issuer == want {
			return issuer, nil
		}
	}
	return "", fmt.Errorf("%w: token issuer %q", ErrInvalidIssuer, issuer)
}

// validateActor recursively validates the nested actor token, when present.
func (v *Validator) validateActor(ctx context.Context, tok *token.Token, p *Parameters) (*claims.Identity, error) {
	actorToken := tok.Actor()
	if actorToken == "" {
		return nil, nil
	}
	identity, _, err := v.Validate(ctx, actorToken, p.actorParameters())
	if err != nil {
		return nil, fmt.Errorf("validation: actor token: %w", err)
	}
	return identity, nil
}

// materializeClaims turns the token payload into a claims identity,
// applying the inbound filter and type map. Multi-valued claims produce
// one Claim per element.
func (v *Validator) materializeClaims(tok *token.Token, issuer string, actor *claims.Identity, p *Parameters) (*claims.Identity, error) {
	if issuer == "" {
		issuer = localAuthority
	}

	identity := &claims.Identity{
		AuthenticationType: p.authenticationType(),
		Actor:              actor,
	}

	typeMap := p.claimTypeMap()
	filter := p.claimFilter()

	actorClaims := 0
	for name, value := range tok.Claims {
		if _, drop := filter[name]; drop {
			continue
		}

		claimType := name
		var props map[string]string
		if mapped, ok := typeMap[name]; ok {
			claimType = mapped
			props = map[string]string{claims.PropertyShortTypeName: name}
		}

		for _, cv := range claimValues(value) {
			if name == claims.ActorClaimType {
				actorClaims++
				if actorClaims > 1 {
					return nil, ErrMultipleActorClaims
				}
			}
			identity.AddClaim(&claims.Claim{
				Type:       claimType,
				Value:      cv.value,
				ValueType:  cv.valueType,
				Issuer:     issuer,
				Properties: props,
			})
		}
	}
	return identity, nil
}

type claimValue struct {
	value     string
	valueType string
}

// claimValues renders a decoded JSON claim value into one or more string
// claim values with their value types.
func claimValues(value any) []claimValue {
	switch v := value.(type) {
	case string:
		return []claimValue{{v, claims.ValueTypeString}}
	case bool:
		return []claimValue{{strconv.FormatBool(v), claims.ValueTypeBoolean}}
	case float64:
		if v == float64(int64(v)) {
			return []claimValue{{strconv.FormatInt(int64(v), 10), claims.ValueTypeInteger64}}
		}
		return []claimValue{{strconv.FormatFloat(v, 'g', -1, 64), claims.ValueTypeDouble}}
	case json.Number:
		return []claimValue{{v.String(), claims.ValueTypeInteger64}}
	case []any:
		out := make([]claimValue, 0, len(v))
		for _, item := range v {
			out = append(out, claimValues(item)...)
		}
		return out
	case nil:
		return nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return []claimValue{{string(encoded), claims.ValueTypeJSON}}
	}
}
