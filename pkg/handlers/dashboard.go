package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/auth"
	"github.com/fbettencourt22/printcost-engine/pkg/services"
)

// DashboardHandler serves the landing page summary counters.
type DashboardHandler struct {
	dashboardService services.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/dashboard", authMiddleware.RequireAuth(h.Summary))
}

// Summary handles GET /api/dashboard
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	summary, err := h.dashboardService.Summary(r.Context(), ident)
	if err != nil {
		writeServiceError(w, h.logger, "dashboard_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: summary}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
