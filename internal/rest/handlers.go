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

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jeremyhahn/go-securetoken/pkg/jwk"
	"github.com/jeremyhahn/go-securetoken/pkg/logging"
	"github.com/jeremyhahn/go-securetoken/pkg/metrics"
	"github.com/jeremyhahn/go-securetoken/pkg/token"
	"github.com/jeremyhahn/go-securetoken/pkg/types"
	"github.com/jeremyhahn/go-securetoken/pkg/validation"
)

// HandlerContext holds dependencies for REST handlers.
type HandlerContext struct {
	// Version is the API version
	Version string

	issuer      string
	audience    string
	credentials *types.SigningCredentials
	builder     *token.Builder
	validator   *validation.Validator
	params      *validation.Parameters
	keySet      *jwk.Set
	codec       *token.Codec
	logger      *logging.Logger
}

// NewHandlerContext creates a new handler context.
func NewHandlerContext(cfg *Config, logger *logging.Logger) *HandlerContext {
	return &HandlerContext{
		Version:     cfg.Version,
		issuer:      cfg.Issuer,
		audience:    cfg.Audience,
		credentials: cfg.SigningCredentials,
		builder:     token.NewBuilder(nil, nil),
		validator:   validation.NewValidator(validation.WithLogger(logger)),
		params:      cfg.ValidationParameters,
		keySet:      cfg.KeySet,
		codec:       token.NewCodec(),
		logger:      logger,
	}
}

// HealthHandler handles GET /health requests.
func (h *HandlerContext) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "healthy",
		Version: h.Version,
	}
	writeJSON(w, resp, http.StatusOK)
}

// LivenessHandler handles GET /health/live requests.
func (h *HandlerContext) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "live"}, http.StatusOK)
}

// ReadinessHandler handles GET /health/ready requests. The service is
// ready when it has signing credentials or verification keys configured.
func (h *HandlerContext) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	if h.credentials == nil && h.params == nil {
		writeJSON(w, map[string]string{"status": "not ready"}, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ready"}, http.StatusOK)
}

// IssueTokenHandler handles POST /api/v1/tokens requests.
func (h *HandlerContext) IssueTokenHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.credentials == nil {
		writeErrorWithMessage(w, ErrInternalError, "Token issuance is not configured", http.StatusServiceUnavailable)
		return
	}

	var req IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	audience := req.Audience
	if audience == "" {
		audience = h.audience
	}

	descriptor := &token.Descriptor{
		Issuer:             h.issuer,
		Audience:           audience,
		Subject:            req.Subject,
		Claims:             req.Claims,
		SigningCredentials: h.credentials,
	}
	if req.LifetimeSeconds > 0 {
		now := time.Now()
		descriptor.NotBefore = now
		descriptor.Expires = now.Add(time.Duration(req.LifetimeSeconds) * time.Second)
	}

	tok, err := h.builder.Create(descriptor)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	metrics.RecordOperation(metrics.OpSign, h.credentials.Algorithm, status, time.Since(start).Seconds())

	if err != nil {
		h.logger.Errorf("token issuance failed: %v", err)
		writeError(w, err, mapIssueErrorToStatusCode(err))
		return
	}

	resp := IssueTokenResponse{
		Token:     tok.Raw,
		TokenID:   tok.ID(),
		Algorithm: tok.Algorithm(),
		ExpiresAt: tok.Expires().Unix(),
	}
	writeJSON(w, resp, http.StatusCreated)
}

// ValidateTokenHandler handles POST /api/v1/tokens/validate requests.
// Rejected tokens produce a 200 response with valid=false so callers can
// tell a bad token apart from a failed request.
func (h *HandlerContext) ValidateTokenHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ValidateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		writeError(w, ErrMissingToken, http.StatusBadRequest)
		return
	}
	if h.params == nil {
		writeErrorWithMessage(w, ErrInternalError, "Token validation is not configured", http.StatusServiceUnavailable)
		return
	}

	identity, tok, err := h.validator.Validate(r.Context(), req.Token, h.params)

	algorithm := "unknown"
	if tok != nil {
		algorithm = tok.Algorithm()
	}
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	metrics.RecordOperation(metrics.OpValidate, algorithm, status, time.Since(start).Seconds())

	if err != nil {
		reason := validationFailureReason(err)
		metrics.RecordValidationFailure(reason)
		h.logger.Debug("token rejected", "reason", reason)
		writeJSON(w, ValidateTokenResponse{Valid: false, Reason: err.Error()}, http.StatusOK)
		return
	}

	resp := ValidateTokenResponse{
		Valid:              true,
		Name:               identity.Name(),
		AuthenticationType: identity.AuthenticationType,
		Claims:             make([]ClaimInfo, 0, len(identity.Claims)),
	}
	for _, c := range identity.Claims {
		resp.Claims = append(resp.Claims, ClaimInfo{
			Type:      c.Type,
			Value:     c.Value,
			ValueType: c.ValueType,
			Issuer:    c.Issuer,
		})
	}
	writeJSON(w, resp, http.StatusOK)
}

// DecodeTokenHandler handles POST /api/v1/tokens/decode requests. The
// token is parsed but not verified.
func (h *HandlerContext) DecodeTokenHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req DecodeTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidRequest, http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		writeError(w, ErrMissingToken, http.StatusBadRequest)
		return
	}

	tok, err := h.codec.Decode(req.Token)

	algorithm := "unknown"
	if tok != nil {
		algorithm = tok.Algorithm()
	}
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	metrics.RecordOperation(metrics.OpDecode, algorithm, status, time.Since(start).Seconds())

	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	resp := DecodeTokenResponse{
		Header: tok.Header,
		Claims: tok.Claims,
		Signed: tok.IsSigned(),
	}
	writeJSON(w, resp, http.StatusOK)
}

// JWKSHandler handles GET /.well-known/jwks.json requests. Only public
// key material is served; symmetric keys are excluded.
func (h *HandlerContext) JWKSHandler(w http.ResponseWriter, r *http.Request) {
	if h.keySet == nil {
		writeJSON(w, &jwk.Set{Keys: []*jwk.JWK{}}, http.StatusOK)
		return
	}
	writeJSON(w, h.keySet.Public(), http.StatusOK)
}
