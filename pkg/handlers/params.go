package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParsePieceID extracts and validates the piece ID from the request path.
// Returns the parsed UUID and true on success, or uuid.Nil and false on error
// (after writing an error response).
// Expects path parameter: id
func ParsePieceID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "id", "invalid_piece_id", "Invalid piece ID format", logger)
}

// ParseFilamentID extracts and validates the filament type ID from the request
// path. Returns the parsed UUID and true on success, or uuid.Nil and false on
// error (after writing an error response).
// Expects path parameter: id
func ParseFilamentID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "id", "invalid_filament_id", "Invalid filament type ID format", logger)
}

// parseUUID extracts a path parameter and validates it as a UUID.
func parseUUID(w http.ResponseWriter, r *http.Request, param, errorCode, message string, logger *zap.Logger) (uuid.UUID, bool) {
	raw := r.PathValue(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Debug("Invalid UUID in path",
			zap.String("param", param),
			zap.String("value", raw))
		respondError(w, logger, http.StatusBadRequest, errorCode, message)
		return uuid.Nil, false
	}
	return id, true
}
