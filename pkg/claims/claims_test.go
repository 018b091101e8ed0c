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

package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_FindAndHas(t *testing.T) {
	id := NewIdentity()
	id.AddClaim(&Claim{Type: RoleClaimType, Value: "admin", Issuer: "iss-a"})
	id.AddClaim(&Claim{Type: RoleClaimType, Value: "operator", Issuer: "iss-a"})
	id.AddClaim(&Claim{Type: NameClaimType, Value: "alice", Issuer: "iss-a"})

	first := id.FindFirst(RoleClaimType)
	require.NotNil(t, first)
	assert.Equal(t, "admin", first.Value, "FindFirst preserves claim order")

	assert.Len(t, id.FindAll(RoleClaimType), 2)
	assert.Nil(t, id.FindFirst(EmailClaimType))
	assert.Empty(t, id.FindAll(EmailClaimType))

	assert.True(t, id.HasClaim(RoleClaimType, "operator"))
	assert.False(t, id.HasClaim(RoleClaimType, "root"))

	assert.Equal(t, "alice", id.Name())
	assert.Equal(t, DefaultAuthenticationType, id.AuthenticationType)
}

func TestDefaultInboundClaimTypeMap(t *testing.T) {
	m := DefaultInboundClaimTypeMap()
	assert.Equal(t, NameIdentifierClaimType, m["sub"])
	assert.Equal(t, NameClaimType, m["unique_name"])

	// Callers receive a fresh map; mutating it must not leak.
	m["sub"] = "mutated"
	assert.Equal(t, NameIdentifierClaimType, DefaultInboundClaimTypeMap()["sub"])
}

func TestDefaultInboundClaimFilter(t *testing.T) {
	filter := DefaultInboundClaimFilter()
	for _, name := range []string{"iss", "aud", "exp", "nbf", "iat"} {
		_, ok := filter[name]
		assert.True(t, ok, "%s must be filtered", name)
	}
	_, ok := filter["sub"]
	assert.False(t, ok, "sub is a subject statement, not a structural field")
}
