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
	"encoding/json"
	"fmt"
)

// Set represents a JSON Web Key Set (RFC 7517 Section 5).
// Sets are the static key-source document consumed by validators; retrieval
// of the document (filesystem, HTTP) is up to the caller.
type Set struct {
	Keys []*JWK `json:"keys"`
}

// UnmarshalSet parses a JWKS document.
func UnmarshalSet(data []byte) (*Set, error) {
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("jwk: failed to unmarshal key set: %w", err)
	}
	return &set, nil
}

// Marshal returns the JSON encoding of the key set.
func (s *Set) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// LookupKeyID returns the keys in the set whose kid matches id.
func (s *Set) LookupKeyID(id string) []*JWK {
	var matches []*JWK
	for _, key := range s.Keys {
		if key.Kid == id {
			matches = append(matches, key)
		}
	}
	return matches
}

// Public returns a copy of the set with all private key parameters removed.
// oct keys are excluded entirely since their only parameter is the secret.
func (s *Set) Public() *Set {
	public := &Set{Keys: make([]*JWK, 0, len(s.Keys))}
	for _, key := range s.Keys {
		if key.IsSymmetric() {
			continue
		}
		pub := *key
		pub.D, pub.P, pub.Q, pub.DP, pub.DQ, pub.QI = "", "", "", "", "", ""
		public.Keys = append(public.Keys, &pub)
	}
	return public
}
