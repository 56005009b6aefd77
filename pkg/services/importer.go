package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/models"
	"github.com/fbettencourt22/printcost-engine/pkg/numeric"
	"github.com/fbettencourt22/printcost-engine/pkg/pricing"
	"github.com/fbettencourt22/printcost-engine/pkg/repositories"
)

// ImportColumns is the required header of an import spreadsheet, and also the
// leading columns of an export.
var ImportColumns = []string{
	"piece_name",
	"filament_price_per_kg",
	"filament_weight_g",
	"print_time_hours",
	"labour_time_minutes",
	"margin_percentage",
}

// ImportResult summarizes a batch import: how many pieces were created and
// the ordered per-row failures. A batch with Created == 0 and at least one
// error is a total failure.
type ImportResult struct {
	Created   int      `json:"created"`
	RowErrors []string `json:"row_errors"`
}

// Failed reports whether the import produced nothing but errors.
func (r *ImportResult) Failed() bool {
	return r.Created == 0 && len(r.RowErrors) > 0
}

// ImporterService ingests spreadsheet batches of pieces.
type ImporterService interface {
	// Import reads an .xlsx stream and creates one piece per valid row for
	// the importing identity. Row failures are collected, never fatal; a
	// malformed file or missing required columns aborts the whole batch with
	// an error and zero creates.
	Import(ctx context.Context, ident models.Identity, file io.Reader) (*ImportResult, error)
}

type importerService struct {
	pieces  repositories.PieceRepository
	tariffs pricing.Tariffs
	logger  *zap.Logger
}

// NewImporterService creates a new importer service with dependencies.
func NewImporterService(pieces repositories.PieceRepository, tariffs pricing.Tariffs, logger *zap.Logger) ImporterService {
	return &importerService{
		pieces:  pieces,
		tariffs: tariffs,
		logger:  logger,
	}
}

var _ ImporterService = (*importerService)(nil)

func (s *importerService) Import(ctx context.Context, ident models.Identity, file io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close spreadsheet", zap.Error(err))
		}
	}()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(ImportColumns, ", "))
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	// Names created earlier in this batch count as duplicates too.
	batchNames := map[string]bool{}

	for i, row := range rows[1:] {
		rowNum := i + 2 // first data row is row 2, matching spreadsheet line numbers

		if isBlankRow(row) {
			continue
		}

		piece, rowErr := s.importRow(ctx, ident, columns, row, batchNames)
		if rowErr != nil {
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("Row %d: %s", rowNum, rowErr))
			continue
		}

		if piece.Name != "" {
			batchNames[strings.ToLower(piece.Name)] = true
		}
		result.Created++
	}

	s.logger.Info("Imported piece batch",
		zap.String("owner_id", ident.UserID.String()),
		zap.Int("created", result.Created),
		zap.Int("errors", len(result.RowErrors)))

	return result, nil
}

// mapHeader resolves the column index of every required column, case-sensitive.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, required := range ImportColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

// importRow validates one data row and persists the resulting piece.
// The returned error is a per-row failure; it never aborts the batch.
func (s *importerService) importRow(ctx context.Context, ident models.Identity, columns map[string]int, row []string, batchNames map[string]bool) (*models.Piece, error) {
	cell := func(column string) string {
		idx := columns[column]
		if idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	name := strings.TrimSpace(cell("piece_name"))
	if name != "" {
		if batchNames[strings.ToLower(name)] {
			return nil, fmt.Errorf("duplicate piece name %q", name)
		}
		owner := ident.UserID
		exists, err := s.pieces.NameExists(ctx, &owner, name, uuid.Nil)
		if err != nil {
			return nil, fmt.Errorf("failed to check piece name: %v", err)
		}
		if exists {
			return nil, fmt.Errorf("duplicate piece name %q", name)
		}
	}

	in := pricing.Input{}
	numericFields := []struct {
		column string
		dst    *decimal.Decimal
	}{
		{"filament_price_per_kg", &in.FilamentPricePerKg},
		{"filament_weight_g", &in.FilamentWeightG},
		{"print_time_hours", &in.PrintTimeHours},
		{"labour_time_minutes", &in.LabourTimeMinutes},
		{"margin_percentage", &in.MarginPercentage},
	}
	for _, field := range numericFields {
		value, err := numeric.ParseDecimal(cell(field.column))
		if err != nil {
			return nil, fmt.Errorf("%s: %v", field.column, err)
		}
		if value.IsNegative() {
			return nil, fmt.Errorf("%s: must not be negative", field.column)
		}
		*field.dst = value
	}

	if in.MarginPercentage.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("margin_percentage: must be below 100")
	}

	result := pricing.Calculate(in, s.tariffs)

	ownerID := ident.UserID
	piece := &models.Piece{
		OwnerID: &ownerID,
		Name:    name,

		FilamentPricePerKg: in.FilamentPricePerKg,
		FilamentWeightG:    in.FilamentWeightG,
		PrintTimeHours:     in.PrintTimeHours,
		LabourTimeMinutes:  in.LabourTimeMinutes,
		MarginPercentage:   in.MarginPercentage,

		CostFilament:   result.CostFilament,
		CostEnergy:     result.CostEnergy,
		CostLabour:     result.CostLabour,
		CostMachine:    result.CostMachine,
		CostTotal:      result.CostTotal,
		PriceFinal:     result.PriceFinal,
		ConsumptionKWh: result.ConsumptionKWh,
	}
	if err := s.pieces.Create(ctx, piece); err != nil {
		return nil, fmt.Errorf("failed to create piece: %v", err)
	}

	return piece, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
