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

// Package claims models the identity materialized from a validated token:
// typed claims, the claims identity that carries them, and the inbound
// mapping tables that translate short JWT claim names into the long-form
// claim type URIs consumed by SOAP/WS-Federation-era applications.
package claims

import "fmt"

// ActorClaimType is the claim name carrying a nested actor token.
const ActorClaimType = "actort"

// PropertyShortTypeName is the claim property key recording the original
// short JWT name when an inbound mapping renamed the claim. Round-tripping
// a mapped claim back into a token restores the short name from it.
const PropertyShortTypeName = "short_type_name"

// Claim value type URIs.
const (
	ValueTypeString    = "http://www.w3.org/2001/XMLSchema#string"
	ValueTypeBoolean   = "http://www.w3.org/2001/XMLSchema#boolean"
	ValueTypeInteger   = "http://www.w3.org/2001/XMLSchema#integer"
	ValueTypeInteger64 = "http://www.w3.org/2001/XMLSchema#integer64"
	ValueTypeDouble    = "http://www.w3.org/2001/XMLSchema#double"
	ValueTypeJSON      = "JSON"
	ValueTypeJSONArray = "JSON_ARRAY"
)

// Long-form claim type URIs used by the default inbound mapping.
const (
	NameClaimType           = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
	NameIdentifierClaimType = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	EmailClaimType          = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	GivenNameClaimType      = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/givenname"
	SurnameClaimType        = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/surname"
	RoleClaimType           = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
)

// DefaultAuthenticationType marks identities produced by token validation.
const DefaultAuthenticationType = "Federation"

// Claim is a single statement about a subject.
type Claim struct {
	// Type is the claim name, after any inbound mapping.
	Type string

	// Value is the claim value rendered as a string.
	Value string

	// ValueType describes how Value should be interpreted.
	ValueType string

	// Issuer names the authority that issued the claim.
	Issuer string

	// Properties carries claim metadata such as the pre-mapping short name.
	Properties map[string]string
}

// String implements fmt.Stringer.
func (c *Claim) String() string {
	return fmt.Sprintf("%s: %s", c.Type, c.Value)
}

// Identity is the set of claims materialized from one validated token,
// optionally delegating through an actor identity.
type Identity struct {
	// Claims holds the identity's claims in token order.
	Claims []*Claim

	// Actor is the identity of the delegating party, from a nested actor
	// token. Nil when the token carries no actort claim.
	Actor *Identity

	// AuthenticationType records how this identity was established.
	AuthenticationType string

	// BootstrapToken holds the original token string when the validator was
	// asked to save it, for delegation scenarios that re-present the token.
	BootstrapToken string
}

// NewIdentity creates an empty identity with the default authentication
// type.
func NewIdentity() *Identity {
	return &Identity{AuthenticationType: DefaultAuthenticationType}
}

// AddClaim appends a claim.
func (id *Identity) AddClaim(c *Claim) {
	id.Claims = append(id.Claims, c)
}

// FindFirst returns the first claim of the given type, or nil.
func (id *Identity) FindFirst(claimType string) *Claim {
	for _, c := range id.Claims {
		if c.Type == claimType {
			return c
		}
	}
	return nil
}

// FindAll returns every claim of the given type.
func (id *Identity) FindAll(claimType string) []*Claim {
	var out []*Claim
	for _, c := range id.Claims {
		if c.Type == claimType {
			out = append(out, c)
		}
	}
	return out
}

// HasClaim reports whether a claim with the given type and value exists.
func (id *Identity) HasClaim(claimType, value string) bool {
	for _, c := range id.Claims {
		if c.Type == claimType && c.Value == value {
			return true
		}
	}
	return false
}

// Name returns the value of the name claim, or "".
func (id *Identity) Name() string {
	if c := id.FindFirst(NameClaimType); c != nil {
		return c.Value
	}
	return ""
}

// DefaultInboundClaimTypeMap maps short JWT claim names to the long-form
// claim type URIs. Claims renamed by the map record their original short
// name under PropertyShortTypeName.
func DefaultInboundClaimTypeMap() map[string]string {
	return map[string]string{
		"sub":         NameIdentifierClaimType,
		"unique_name": NameClaimType,
		"email":       EmailClaimType,
		"given_name":  GivenNameClaimType,
		"family_name": SurnameClaimType,
		"roles":       RoleClaimType,
	}
}

// DefaultInboundClaimFilter lists claim names dropped during
// materialization. These are structural token fields, not statements about
// the subject.
func DefaultInboundClaimFilter() map[string]struct{} {
	return map[string]struct{}{
		"iss": {},
		"aud": {},
		"exp": {},
		"nbf": {},
		"iat": {},
	}
}
