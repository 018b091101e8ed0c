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
	"errors"
	"log"
	"net/http"

	"github.com/jeremyhahn/go-securetoken/pkg/metrics"
	"github.com/jeremyhahn/go-securetoken/pkg/provider"
	"github.com/jeremyhahn/go-securetoken/pkg/replay"
	"github.com/jeremyhahn/go-securetoken/pkg/token"
	"github.com/jeremyhahn/go-securetoken/pkg/types"
	"github.com/jeremyhahn/go-securetoken/pkg/validation"
)

// Common errors
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrMissingToken   = errors.New("missing token")
	ErrInternalError  = errors.New("internal server error")
)

// writeError writes an error response to the client.
func writeError(w http.ResponseWriter, err error, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error: err.Error(),
		Code:  statusCode,
	}

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		log.Printf("Failed to encode error response: %v", encErr)
	}
}

// writeErrorWithMessage writes an error response with a custom message.
func writeErrorWithMessage(w http.ResponseWriter, err error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:   err.Error(),
		Message: message,
		Code:    statusCode,
	}

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		log.Printf("Failed to encode error response: %v", encErr)
	}
}

// mapIssueErrorToStatusCode maps token issuance errors to HTTP status codes.
func mapIssueErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, token.ErrInvalidLifetimeWindow),
		errors.Is(err, types.ErrUnsupportedAlgorithm),
		errors.Is(err, types.ErrUnsupportedKeyType),
		errors.Is(err, types.ErrNoPrivateKey),
		errors.Is(err, provider.ErrKeyTooSmall),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// validationFailureReason maps a validation error to a metrics reason
// label. Unknown errors are grouped under "other".
func validationFailureReason(err error) string {
	switch {
	case errors.Is(err, token.ErrMalformedToken),
		errors.Is(err, token.ErrEmptyToken),
		errors.Is(err, token.ErrTokenTooLong):
		return metrics.ReasonMalformed
	case errors.Is(err, validation.ErrInvalidSignature),
		errors.Is(err, validation.ErrUnsignedToken):
		return metrics.ReasonInvalidSignature
	case errors.Is(err, validation.ErrSignatureKeyNotFound):
		return metrics.ReasonKeyNotFound
	case errors.Is(err, validation.ErrTokenExpired),
		errors.Is(err, validation.ErrNoExpiration):
		return metrics.ReasonExpired
	case errors.Is(err, validation.ErrTokenNotYetValid):
		return metrics.ReasonNotYetValid
	case errors.Is(err, validation.ErrInvalidAudience):
		return metrics.ReasonAudience
	case errors.Is(err, validation.ErrInvalidIssuer):
		return metrics.ReasonIssuer
	case errors.Is(err, replay.ErrReplayDetected):
		return metrics.ReasonReplay
	default:
		return metrics.ReasonOther
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}
