// Package rest implements the HTTP surface: JSON envelopes, the error
// mapping and the route handlers.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avigneau/helloasso-bridge/internal/domain"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(SuccessResponse{Success: true, Data: data})
}

// WriteError maps domain errors onto HTTP statuses and renders the
// error envelope.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError
	code := "INTERNAL"

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
		status = statusForCode(domainErr.Code)
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", code, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   ErrorDetail{Code: code, Message: err.Error()},
	})
}

func statusForCode(code string) int {
	switch code {
	case domain.ErrCodeConfigurationIncomplete:
		return http.StatusConflict
	case domain.ErrCodeAuthenticityFailure:
		return http.StatusForbidden
	case domain.ErrCodeTransportFailure:
		return http.StatusBadGateway
	case domain.ErrCodeValidationFailure:
		return http.StatusUnprocessableEntity
	case domain.ErrCodeAmountBelowMinimum:
		return http.StatusBadRequest
	case domain.ErrCodeUnknownTier:
		return http.StatusNotFound
	case domain.ErrCodeSettlementPending, domain.ErrCodePersistenceFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteBadRequest renders a malformed-input rejection that carries no
// domain code.
func WriteBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   ErrorDetail{Code: "BAD_REQUEST", Message: message},
	})
}
