package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/apperrors"
	"github.com/fbettencourt22/printcost-engine/pkg/auth"
	"github.com/fbettencourt22/printcost-engine/pkg/models"
)

// ApiResponse is the standard envelope for JSON responses.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// respondError writes an error response, logging any encoding failure.
func respondError(w http.ResponseWriter, logger *zap.Logger, statusCode int, errorCode, message string) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// writeServiceError maps a service-layer error onto the HTTP status codes the
// API contract promises. failureCode labels the 500 path in the response body.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, failureCode string, err error) {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(w, logger, http.StatusBadRequest, "validation_error", ve.Error())
	case errors.Is(err, apperrors.ErrDuplicateName):
		respondError(w, logger, http.StatusBadRequest, "duplicate_name", apperrors.ErrDuplicateName.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		respondError(w, logger, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(w, logger, http.StatusForbidden, "permission_denied", "You do not have access to this resource")
	default:
		logger.Error("Request failed", zap.String("code", failureCode), zap.Error(err))
		respondError(w, logger, http.StatusInternalServerError, failureCode, "An internal error occurred")
	}
}

// requireIdentity pulls the authenticated identity from the request context.
// Returns false after writing a 401 if the auth middleware did not run.
func requireIdentity(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (models.Identity, bool) {
	ident, ok := auth.GetIdentity(r.Context())
	if !ok {
		respondError(w, logger, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return models.Identity{}, false
	}
	return ident, true
}
