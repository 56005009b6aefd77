package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/auth"
	"github.com/fbettencourt22/printcost-engine/pkg/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxImportSize caps the in-memory portion of an uploaded spreadsheet.
const maxImportSize = 16 << 20

// ImportExportHandler handles spreadsheet batch import and export.
type ImportExportHandler struct {
	importerService services.ImporterService
	exporterService services.ExporterService
	logger          *zap.Logger
}

// NewImportExportHandler creates a new import/export handler.
func NewImportExportHandler(
	importerService services.ImporterService,
	exporterService services.ExporterService,
	logger *zap.Logger,
) *ImportExportHandler {
	return &ImportExportHandler{
		importerService: importerService,
		exporterService: exporterService,
		logger:          logger,
	}
}

// RegisterRoutes registers the import/export routes on the given mux.
func (h *ImportExportHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/import", authMiddleware.RequireAuth(h.Import))
	mux.HandleFunc("GET /api/export", authMiddleware.RequireAuth(h.Export))
}

// Import handles POST /api/import
// Expects a multipart form with the workbook under the "file" field. Row
// failures are reported alongside the created count; an import that creates
// nothing while reporting errors comes back as 422.
func (h *ImportExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Expected a multipart form upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "missing_file", "Missing \"file\" upload field")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			h.logger.Warn("Failed to close uploaded file", zap.Error(err))
		}
	}()

	result, err := h.importerService.Import(r.Context(), ident, file)
	if err != nil {
		h.logger.Warn("Rejected import upload", zap.Error(err))
		respondError(w, h.logger, http.StatusBadRequest, "invalid_spreadsheet", err.Error())
		return
	}

	status := http.StatusOK
	if result.Failed() {
		status = http.StatusUnprocessableEntity
	}
	if err := WriteJSON(w, status, ApiResponse{Success: !result.Failed(), Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Export handles GET /api/export
// Streams every visible piece as an .xlsx attachment.
func (h *ImportExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	workbook, err := h.exporterService.Export(r.Context(), ident)
	if err != nil {
		writeServiceError(w, h.logger, "export_failed", err)
		return
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			h.logger.Warn("Failed to close export workbook", zap.Error(err))
		}
	}()

	filename := fmt.Sprintf("pieces_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := workbook.Write(w); err != nil {
		h.logger.Error("Failed to stream export workbook", zap.Error(err))
	}
}
