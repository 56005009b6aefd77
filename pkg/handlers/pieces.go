package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/auth"
	"github.com/fbettencourt22/printcost-engine/pkg/models"
	"github.com/fbettencourt22/printcost-engine/pkg/pricing"
	"github.com/fbettencourt22/printcost-engine/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// PieceRequest for POST /api/pieces, PUT /api/pieces/{id} and
// POST /api/pieces/calculate. Numeric fields accept JSON numbers or strings.
type PieceRequest struct {
	Name               string          `json:"name"`
	FilamentTypeID     *uuid.UUID      `json:"filament_type_id,omitempty"`
	FilamentPricePerKg decimal.Decimal `json:"filament_price_per_kg"`
	FilamentWeightG    decimal.Decimal `json:"filament_weight_g"`
	PrintTimeHours     decimal.Decimal `json:"print_time_hours"`
	LabourTimeMinutes  decimal.Decimal `json:"labour_time_minutes"`
	MarginPercentage   decimal.Decimal `json:"margin_percentage"`
}

// CalculationResponse is the cost breakdown for a calculation preview.
type CalculationResponse struct {
	CostFilament   decimal.Decimal `json:"cost_filament"`
	CostEnergy     decimal.Decimal `json:"cost_energy"`
	CostLabour     decimal.Decimal `json:"cost_labour"`
	CostMachine    decimal.Decimal `json:"cost_machine"`
	CostTotal      decimal.Decimal `json:"cost_total"`
	PriceFinal     decimal.Decimal `json:"price_final"`
	ConsumptionKWh decimal.Decimal `json:"consumption_kwh"`
}

// PieceListResponse for GET /api/pieces
type PieceListResponse struct {
	Pieces []*models.Piece `json:"pieces"`
	Total  int             `json:"total"`
}

// ============================================================================
// Handler
// ============================================================================

// PieceHandler handles piece HTTP requests.
type PieceHandler struct {
	pieceService services.PieceService
	logger       *zap.Logger
}

// NewPieceHandler creates a new piece handler.
func NewPieceHandler(pieceService services.PieceService, logger *zap.Logger) *PieceHandler {
	return &PieceHandler{pieceService: pieceService, logger: logger}
}

// RegisterRoutes registers the piece handler's routes on the given mux.
func (h *PieceHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/pieces/calculate", authMiddleware.RequireAuth(h.Calculate))
	mux.HandleFunc("POST /api/pieces", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/pieces", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/pieces/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/pieces/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/pieces/{id}", authMiddleware.RequireAuth(h.Delete))
}

// Calculate handles POST /api/pieces/calculate
// Runs the pricing engine without persisting anything.
func (h *PieceHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	in, ok := h.decodePieceRequest(w, r)
	if !ok {
		return
	}

	result, err := h.pieceService.Calculate(r.Context(), ident, in)
	if err != nil {
		writeServiceError(w, h.logger, "calculate_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: calculationResponse(result)}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/pieces
func (h *PieceHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	in, ok := h.decodePieceRequest(w, r)
	if !ok {
		return
	}

	piece, err := h.pieceService.Create(r.Context(), ident, in)
	if err != nil {
		writeServiceError(w, h.logger, "create_piece_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: piece}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/pieces
// With ?uncommitted=true only pieces absent from the relevant inventory
// ledger(s) are returned.
func (h *PieceHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	uncommittedOnly := r.URL.Query().Get("uncommitted") == "true"

	pieces, err := h.pieceService.List(r.Context(), ident, uncommittedOnly)
	if err != nil {
		writeServiceError(w, h.logger, "list_pieces_failed", err)
		return
	}

	response := PieceListResponse{Pieces: pieces, Total: len(pieces)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/pieces/{id}
func (h *PieceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	pieceID, ok := ParsePieceID(w, r, h.logger)
	if !ok {
		return
	}

	piece, err := h.pieceService.Get(r.Context(), ident, pieceID)
	if err != nil {
		writeServiceError(w, h.logger, "get_piece_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: piece}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/pieces/{id}
// The cost breakdown is recomputed from the submitted inputs.
func (h *PieceHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	pieceID, ok := ParsePieceID(w, r, h.logger)
	if !ok {
		return
	}

	in, ok := h.decodePieceRequest(w, r)
	if !ok {
		return
	}

	piece, err := h.pieceService.Update(r.Context(), ident, pieceID, in)
	if err != nil {
		writeServiceError(w, h.logger, "update_piece_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: piece}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/pieces/{id}
func (h *PieceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	pieceID, ok := ParsePieceID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.pieceService.Delete(r.Context(), ident, pieceID); err != nil {
		writeServiceError(w, h.logger, "delete_piece_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// decodePieceRequest decodes the JSON body into a service input. Returns
// false after writing a 400 if the body is malformed.
func (h *PieceHandler) decodePieceRequest(w http.ResponseWriter, r *http.Request) (services.PieceInput, bool) {
	var req PieceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return services.PieceInput{}, false
	}

	return services.PieceInput{
		Name:               req.Name,
		FilamentTypeID:     req.FilamentTypeID,
		FilamentPricePerKg: req.FilamentPricePerKg,
		FilamentWeightG:    req.FilamentWeightG,
		PrintTimeHours:     req.PrintTimeHours,
		LabourTimeMinutes:  req.LabourTimeMinutes,
		MarginPercentage:   req.MarginPercentage,
	}, true
}

func calculationResponse(result *pricing.Result) CalculationResponse {
	return CalculationResponse{
		CostFilament:   result.CostFilament,
		CostEnergy:     result.CostEnergy,
		CostLabour:     result.CostLabour,
		CostMachine:    result.CostMachine,
		CostTotal:      result.CostTotal,
		PriceFinal:     result.PriceFinal,
		ConsumptionKWh: result.ConsumptionKWh,
	}
}
