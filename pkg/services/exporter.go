package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/models"
	"github.com/fbettencourt22/printcost-engine/pkg/repositories"
)

// exportColumns is the fixed column order of an export: the import columns
// followed by the computed outputs and bookkeeping fields.
var exportColumns = []string{
	"piece_name",
	"filament_price_per_kg",
	"filament_weight_g",
	"print_time_hours",
	"labour_time_minutes",
	"margin_percentage",
	"cost_filament",
	"cost_energy",
	"cost_labour",
	"cost_machine",
	"cost_total",
	"price_final",
	"consumption_kwh",
	"created_at",
	"owner",
}

// ExporterService serializes pieces to a spreadsheet.
type ExporterService interface {
	// Export writes every piece visible to the identity into a new .xlsx
	// workbook. Currency cells carry exactly 2 decimals, consumption 4, and
	// timestamps are naive local time.
	Export(ctx context.Context, ident models.Identity) (*excelize.File, error)
}

type exporterService struct {
	pieces repositories.PieceRepository
	logger *zap.Logger
}

// NewExporterService creates a new exporter service with dependencies.
func NewExporterService(pieces repositories.PieceRepository, logger *zap.Logger) ExporterService {
	return &exporterService{pieces: pieces, logger: logger}
}

var _ ExporterService = (*exporterService)(nil)

func (s *exporterService) Export(ctx context.Context, ident models.Identity) (*excelize.File, error) {
	pieces, err := s.pieces.List(ctx, ownerScope(ident))
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for col, name := range exportColumns {
		cellName, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cellName, name); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for rowIdx, piece := range pieces {
		values := []string{
			piece.Name,
			piece.FilamentPricePerKg.StringFixed(2),
			piece.FilamentWeightG.StringFixed(2),
			piece.PrintTimeHours.StringFixed(2),
			piece.LabourTimeMinutes.StringFixed(2),
			piece.MarginPercentage.StringFixed(2),
			piece.CostFilament.StringFixed(2),
			piece.CostEnergy.StringFixed(2),
			piece.CostLabour.StringFixed(2),
			piece.CostMachine.StringFixed(2),
			piece.CostTotal.StringFixed(2),
			piece.PriceFinal.StringFixed(2),
			piece.ConsumptionKWh.StringFixed(4),
			// Naive local timestamp: the zone offset is stripped.
			piece.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			piece.OwnerEmail,
		}
		for col, value := range values {
			cellName, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cellName, value); err != nil {
				return nil, fmt.Errorf("failed to write data cell: %w", err)
			}
		}
	}

	s.logger.Info("Exported pieces", zap.Int("count", len(pieces)))
	return f, nil
}
