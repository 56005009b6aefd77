package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/auth"
	"github.com/fbettencourt22/printcost-engine/pkg/models"
	"github.com/fbettencourt22/printcost-engine/pkg/services"
)

// FilamentRequest for POST /api/filaments and PUT /api/filaments/{id}
type FilamentRequest struct {
	Name          string          `json:"name"`
	Color         string          `json:"color,omitempty"`
	PricePerKg    decimal.Decimal `json:"price_per_kg"`
	SpoolWeightKg decimal.Decimal `json:"spool_weight_kg"`
}

// FilamentListResponse for GET /api/filaments
type FilamentListResponse struct {
	Filaments []*models.FilamentType `json:"filaments"`
	Total     int                    `json:"total"`
}

// FilamentHandler handles filament catalog HTTP requests.
type FilamentHandler struct {
	filamentService services.FilamentService
	logger          *zap.Logger
}

// NewFilamentHandler creates a new filament handler.
func NewFilamentHandler(filamentService services.FilamentService, logger *zap.Logger) *FilamentHandler {
	return &FilamentHandler{filamentService: filamentService, logger: logger}
}

// RegisterRoutes registers the filament handler's routes on the given mux.
func (h *FilamentHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/filaments", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/filaments", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("PUT /api/filaments/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/filaments/{id}", authMiddleware.RequireAuth(h.Delete))
}

// Create handles POST /api/filaments
func (h *FilamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	in, ok := h.decodeFilamentRequest(w, r)
	if !ok {
		return
	}

	filament, err := h.filamentService.Create(r.Context(), ident, in)
	if err != nil {
		writeServiceError(w, h.logger, "create_filament_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: filament}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/filaments
func (h *FilamentHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	filaments, err := h.filamentService.List(r.Context(), ident)
	if err != nil {
		writeServiceError(w, h.logger, "list_filaments_failed", err)
		return
	}

	response := FilamentListResponse{Filaments: filaments, Total: len(filaments)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/filaments/{id}
func (h *FilamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	filamentID, ok := ParseFilamentID(w, r, h.logger)
	if !ok {
		return
	}

	in, ok := h.decodeFilamentRequest(w, r)
	if !ok {
		return
	}

	filament, err := h.filamentService.Update(r.Context(), ident, filamentID, in)
	if err != nil {
		writeServiceError(w, h.logger, "update_filament_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: filament}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/filaments/{id}
// Pieces that reference the entry keep their snapshotted price.
func (h *FilamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	filamentID, ok := ParseFilamentID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.filamentService.Delete(r.Context(), ident, filamentID); err != nil {
		writeServiceError(w, h.logger, "delete_filament_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *FilamentHandler) decodeFilamentRequest(w http.ResponseWriter, r *http.Request) (services.FilamentInput, bool) {
	var req FilamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return services.FilamentInput{}, false
	}

	return services.FilamentInput{
		Name:          req.Name,
		Color:         req.Color,
		PricePerKg:    req.PricePerKg,
		SpoolWeightKg: req.SpoolWeightKg,
	}, true
}
