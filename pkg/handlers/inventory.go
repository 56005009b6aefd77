package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/auth"
	"github.com/fbettencourt22/printcost-engine/pkg/models"
	"github.com/fbettencourt22/printcost-engine/pkg/services"
)

// AddInventoryRequest for POST /api/pieces/{id}/inventory
type AddInventoryRequest struct {
	Quantity int `json:"quantity"`
}

// AddInventoryResponse reports the resulting ledger row and whether the add
// created it or merged into an existing one.
type AddInventoryResponse struct {
	Item    *models.InventoryItem `json:"item"`
	Created bool                  `json:"created"`
}

// InventoryListResponse for GET /api/inventory
type InventoryListResponse struct {
	Items []*models.InventoryItem `json:"items"`
	Total int                     `json:"total"`
}

// InventoryHandler handles inventory ledger HTTP requests.
type InventoryHandler struct {
	inventoryService services.InventoryService
	logger           *zap.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(inventoryService services.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService, logger: logger}
}

// RegisterRoutes registers the inventory handler's routes on the given mux.
func (h *InventoryHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/pieces/{id}/inventory", authMiddleware.RequireAuth(h.Add))
	mux.HandleFunc("GET /api/inventory", authMiddleware.RequireAuth(h.List))
}

// Add handles POST /api/pieces/{id}/inventory
func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	pieceID, ok := ParsePieceID(w, r, h.logger)
	if !ok {
		return
	}

	var req AddInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	result, err := h.inventoryService.Add(r.Context(), ident, pieceID, req.Quantity)
	if err != nil {
		writeServiceError(w, h.logger, "add_inventory_failed", err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response := AddInventoryResponse{Item: result.Item, Created: result.Created}
	if err := WriteJSON(w, status, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/inventory
// Accepts ?search= for a case-insensitive label filter.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	items, err := h.inventoryService.List(r.Context(), ident, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, h.logger, "list_inventory_failed", err)
		return
	}

	response := InventoryListResponse{Items: items, Total: len(items)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
