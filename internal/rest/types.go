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

package rest

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// IssueTokenRequest is the body of POST /api/v1/tokens.
type IssueTokenRequest struct {
	// Subject becomes the sub claim.
	Subject string `json:"subject,omitempty"`

	// Audience becomes the aud claim. Empty falls back to the server's
	// configured audience.
	Audience string `json:"audience,omitempty"`

	// LifetimeSeconds sets the exp claim relative to now. Zero uses the
	// default token lifetime.
	LifetimeSeconds int64 `json:"lifetime_seconds,omitempty"`

	// Claims are merged into the payload. Registered claims win.
	Claims map[string]any `json:"claims,omitempty"`
}

// IssueTokenResponse is the body of a successful token issuance.
type IssueTokenResponse struct {
	Token     string `json:"token"`
	TokenID   string `json:"token_id"`
	Algorithm string `json:"algorithm"`
	ExpiresAt int64  `json:"expires_at"`
}

// ValidateTokenRequest is the body of POST /api/v1/tokens/validate.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ClaimInfo is a materialized claim in a validation response.
type ClaimInfo struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	ValueType string `json:"value_type,omitempty"`
	Issuer    string `json:"issuer,omitempty"`
}

// ValidateTokenResponse is the body of a validation result. Invalid
// tokens get Valid=false and a Reason instead of an HTTP error so
// callers can distinguish transport failures from rejected tokens.
type ValidateTokenResponse struct {
	Valid              bool        `json:"valid"`
	Reason             string      `json:"reason,omitempty"`
	Name               string      `json:"name,omitempty"`
	AuthenticationType string      `json:"authentication_type,omitempty"`
	Claims             []ClaimInfo `json:"claims,omitempty"`
}

// DecodeTokenRequest is the body of POST /api/v1/tokens/decode.
type DecodeTokenRequest struct {
	Token string `json:"token"`
}

// DecodeTokenResponse is the decoded, unverified token content.
type DecodeTokenResponse struct {
	Header map[string]any `json:"header"`
	Claims map[string]any `json:"claims"`
	Signed bool           `json:"signed"`
}
