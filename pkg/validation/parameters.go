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

package validation

import (
	"context"
	"time"

	"github.com/jeremyhahn/go-securetoken/pkg/claims"
	"github.com/jeremyhahn/go-securetoken/pkg/replay"
	"github.com/jeremyhahn/go-securetoken/pkg/token"
	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

// Override hooks. A non-nil hook replaces the corresponding built-in check
// entirely; the built-in behavior is not run around it.
type (
	// SignatureValidatorFunc replaces signature validation. It receives the
	// raw token string and returns the decoded, signature-checked token.
	SignatureValidatorFunc func(ctx context.Context, tokenString string, p *Parameters) (*token.Token, error)

	// IssuerSigningKeyResolverFunc replaces candidate key selection for a
	// decoded token.
	IssuerSigningKeyResolverFunc func(ctx context.Context, t *token.Token, p *Parameters) []types.Key

	// IssuerSigningKeyValidatorFunc replaces the post-verification check of
	// the key that produced the valid signature.
	IssuerSigningKeyValidatorFunc func(key types.Key, t *token.Token, p *Parameters) error

	// IssuerValidatorFunc replaces issuer validation and returns the
	// canonical issuer recorded on materialized claims.
	IssuerValidatorFunc func(issuer string, t *token.Token, p *Parameters) (string, error)

	// AudienceValidatorFunc replaces audience validation.
	AudienceValidatorFunc func(audiences []string, t *token.Token, p *Parameters) error

	// LifetimeValidatorFunc replaces lifetime validation.
	LifetimeValidatorFunc func(notBefore, expires time.Time, t *token.Token, p *Parameters) error
)

// Parameters controls the validation pipeline. The zero value validates
// nothing; NewParameters returns the recommended defaults.
type Parameters struct {
	// ValidateSignature enables signature verification. When false the
	// token is decoded structurally and no key resolution happens at all.
	ValidateSignature bool

	// ValidateLifetime enables the nbf/exp check.
	ValidateLifetime bool

	// ValidateAudience enables the aud check.
	ValidateAudience bool

	// ValidateIssuer enables the iss check.
	ValidateIssuer bool

	// ValidateIssuerSigningKey enables the post-verification key check via
	// IssuerSigningKeyValidator.
	ValidateIssuerSigningKey bool

	// ValidateActor enables recursive validation of a nested actor token.
	ValidateActor bool

	// RequireSignedTokens rejects tokens without a signature.
	RequireSignedTokens bool

	// RequireExpirationTime rejects tokens without an exp claim when
	// lifetime validation is enabled.
	RequireExpirationTime bool

	// IssuerSigningKey is the primary verification key.
	IssuerSigningKey types.Key

	// IssuerSigningKeys are additional verification keys tried after
	// IssuerSigningKey.
	IssuerSigningKeys []types.Key

	// ValidIssuer is the primary accepted issuer.
	ValidIssuer string

	// ValidIssuers are additional accepted issuers.
	ValidIssuers []string

	// ValidAudience is the primary accepted audience.
	ValidAudience string

	// ValidAudiences are additional accepted audiences.
	ValidAudiences []string

	// ClockSkew is the tolerance applied on both edges of the lifetime
	// window. Zero means exact comparison.
	ClockSkew time.Duration

	// MaxTokenSizeInBytes caps accepted token size. Zero uses the codec
	// default.
	MaxTokenSizeInBytes int

	// SaveSigninToken stores the raw token string on the materialized
	// identity.
	SaveSigninToken bool

	// ReplayCache, when set, enforces one-time use.
	ReplayCache replay.Cache

	// AuthenticationType overrides the authentication type recorded on the
	// identity.
	AuthenticationType string

	// InboundClaimTypeMap renames claims during materialization. Nil uses
	// claims.DefaultInboundClaimTypeMap.
	InboundClaimTypeMap map[string]string

	// InboundClaimFilter drops claims during materialization. Nil uses
	// claims.DefaultInboundClaimFilter.
	InboundClaimFilter map[string]struct{}

	// ActorValidationParameters validates the nested actor token. Nil
	// reuses the outer parameters.
	ActorValidationParameters *Parameters

	SignatureValidator        SignatureValidatorFunc
	IssuerSigningKeyResolver  IssuerSigningKeyResolverFunc
	IssuerSigningKeyValidator IssuerSigningKeyValidatorFunc
	IssuerValidator           IssuerValidatorFunc
	AudienceValidator         AudienceValidatorFunc
	LifetimeValidator         LifetimeValidatorFunc
}

// NewParameters returns parameters with the recommended defaults: signed
// tokens required, signature, lifetime, audience, and issuer checks on,
// zero clock skew, actor validation off.
func NewParameters() *Parameters {
	return &Parameters{
		ValidateSignature:   true,
		ValidateLifetime:    true,
		ValidateAudience:    true,
		ValidateIssuer:      true,
		RequireSignedTokens: true,
	}
}

// SigningKeys returns the candidate verification keys in configured order.
func (p *Parameters) SigningKeys() []types.Key {
	keys := make([]types.Key, 0, 1+len(p.IssuerSigningKeys))
	if p.IssuerSigningKey != nil {
		keys = append(keys, p.IssuerSigningKey)
	}
	keys = append(keys, p.IssuerSigningKeys...)
	return keys
}

// Issuers returns the accepted issuers in configured order.
func (p *Parameters) Issuers() []string {
	out := make([]string, 0, 1+len(p.ValidIssuers))
	if p.ValidIssuer != "" {
		out = append(out, p.ValidIssuer)
	}
	return append(out, p.ValidIssuers...)
}

// Audiences returns the accepted audiences in configured order.
func (p *Parameters) Audiences() []string {
	out := make([]string, 0, 1+len(p.ValidAudiences))
	if p.ValidAudience != "" {
		out = append(out, p.ValidAudience)
	}
	return append(out, p.ValidAudiences...)
}

// claimTypeMap resolves the effective inbound claim type map.
func (p *Parameters) claimTypeMap() map[string]string {
	if p.InboundClaimTypeMap != nil {
		return p.InboundClaimTypeMap
	}
	return claims.DefaultInboundClaimTypeMap()
}

// claimFilter resolves the effective inbound claim filter.
func (p *Parameters) claimFilter() map[string]struct{} {
	if p.InboundClaimFilter != nil {
		return p.InboundClaimFilter
	}
	return claims.DefaultInboundClaimFilter()
}

// authenticationType resolves the effective authentication type.
func (p *Parameters) authenticationType() string {
	if p.AuthenticationType != "" {
		return p.AuthenticationType
	}
	return claims.DefaultAuthenticationType
}

// actorParameters resolves the parameters used for a nested actor token.
func (p *Parameters) actorParameters() *Parameters {
	if p.ActorValidationParameters != nil {
		return p.ActorValidationParameters
	}
	return p
}
