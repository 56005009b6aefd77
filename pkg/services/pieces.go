package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/apperrors"
	"github.com/fbettencourt22/printcost-engine/pkg/models"
	"github.com/fbettencourt22/printcost-engine/pkg/pricing"
	"github.com/fbettencourt22/printcost-engine/pkg/repositories"
)

// PieceInput carries the validated fields shared by piece create and edit.
type PieceInput struct {
	Name string
	// FilamentTypeID optionally references a catalog entry; when set, the
	// entry's price per kg overrides FilamentPricePerKg.
	FilamentTypeID     *uuid.UUID
	FilamentPricePerKg decimal.Decimal
	FilamentWeightG    decimal.Decimal
	PrintTimeHours     decimal.Decimal
	LabourTimeMinutes  decimal.Decimal
	MarginPercentage   decimal.Decimal
}

// PieceService owns the lifecycle of priced pieces.
type PieceService interface {
	// Calculate runs the pricing engine on validated input without persisting.
	Calculate(ctx context.Context, ident models.Identity, in PieceInput) (*pricing.Result, error)
	Create(ctx context.Context, ident models.Identity, in PieceInput) (*models.Piece, error)
	Get(ctx context.Context, ident models.Identity, id uuid.UUID) (*models.Piece, error)
	// List returns the pieces visible to the identity, newest first. With
	// uncommittedOnly, pieces already committed to the relevant inventory
	// ledger(s) are excluded.
	List(ctx context.Context, ident models.Identity, uncommittedOnly bool) ([]*models.Piece, error)
	Update(ctx context.Context, ident models.Identity, id uuid.UUID, in PieceInput) (*models.Piece, error)
	Delete(ctx context.Context, ident models.Identity, id uuid.UUID) error
}

type pieceService struct {
	pieces    repositories.PieceRepository
	filaments repositories.FilamentRepository
	tariffs   pricing.Tariffs
	logger    *zap.Logger
}

// NewPieceService creates a new piece service with dependencies.
func NewPieceService(pieces repositories.PieceRepository, filaments repositories.FilamentRepository, tariffs pricing.Tariffs, logger *zap.Logger) PieceService {
	return &pieceService{
		pieces:    pieces,
		filaments: filaments,
		tariffs:   tariffs,
		logger:    logger,
	}
}

var _ PieceService = (*pieceService)(nil)

func (s *pieceService) Calculate(ctx context.Context, ident models.Identity, in PieceInput) (*pricing.Result, error) {
	in, err := s.resolveFilament(ctx, ident, in)
	if err != nil {
		return nil, err
	}
	if err := validatePieceInput(in); err != nil {
		return nil, err
	}

	result := pricing.Calculate(pricingInput(in), s.tariffs)
	return &result, nil
}

func (s *pieceService) Create(ctx context.Context, ident models.Identity, in PieceInput) (*models.Piece, error) {
	in, err := s.resolveFilament(ctx, ident, in)
	if err != nil {
		return nil, err
	}
	if err := validatePieceInput(in); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name != "" {
		owner := ident.UserID
		exists, err := s.pieces.NameExists(ctx, &owner, in.Name, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrDuplicateName
		}
	}

	result := pricing.Calculate(pricingInput(in), s.tariffs)

	ownerID := ident.UserID
	piece := &models.Piece{
		OwnerID:        &ownerID,
		Name:           in.Name,
		FilamentTypeID: in.FilamentTypeID,

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
		return nil, err
	}

	s.logger.Info("Created piece",
		zap.String("piece_id", piece.ID.String()),
		zap.String("owner_id", ownerID.String()))
	return piece, nil
}

func (s *pieceService) Get(ctx context.Context, ident models.Identity, id uuid.UUID) (*models.Piece, error) {
	piece, err := s.pieces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizePiece(ident, piece); err != nil {
		return nil, err
	}
	return piece, nil
}

func (s *pieceService) List(ctx context.Context, ident models.Identity, uncommittedOnly bool) ([]*models.Piece, error) {
	scope := ownerScope(ident)
	if uncommittedOnly {
		return s.pieces.ListUncommitted(ctx, scope)
	}
	return s.pieces.List(ctx, scope)
}

func (s *pieceService) Update(ctx context.Context, ident models.Identity, id uuid.UUID, in PieceInput) (*models.Piece, error) {
	piece, err := s.pieces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizePiece(ident, piece); err != nil {
		return nil, err
	}

	in, err = s.resolveFilament(ctx, ident, in)
	if err != nil {
		return nil, err
	}
	if err := validatePieceInput(in); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name != "" {
		// The name must stay unique in the scope the piece lives in: its
		// owner's catalog, or the legacy unowned pool.
		exists, err := s.pieces.NameExists(ctx, piece.OwnerID, in.Name, piece.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrDuplicateName
		}
	}

	result := pricing.Calculate(pricingInput(in), s.tariffs)

	piece.Name = in.Name
	piece.FilamentTypeID = in.FilamentTypeID
	piece.FilamentPricePerKg = in.FilamentPricePerKg
	piece.FilamentWeightG = in.FilamentWeightG
	piece.PrintTimeHours = in.PrintTimeHours
	piece.LabourTimeMinutes = in.LabourTimeMinutes
	piece.MarginPercentage = in.MarginPercentage
	piece.CostFilament = result.CostFilament
	piece.CostEnergy = result.CostEnergy
	piece.CostLabour = result.CostLabour
	piece.CostMachine = result.CostMachine
	piece.CostTotal = result.CostTotal
	piece.PriceFinal = result.PriceFinal
	piece.ConsumptionKWh = result.ConsumptionKWh

	// Editing a legacy unowned piece adopts it to the editing user.
	if piece.OwnerID == nil {
		adopted := ident.UserID
		piece.OwnerID = &adopted
	}

	if err := s.pieces.Update(ctx, piece); err != nil {
		return nil, err
	}

	return piece, nil
}

func (s *pieceService) Delete(ctx context.Context, ident models.Identity, id uuid.UUID) error {
	piece, err := s.pieces.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizePiece(ident, piece); err != nil {
		return err
	}

	if err := s.pieces.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Deleted piece", zap.String("piece_id", id.String()))
	return nil
}

// resolveFilament replaces the filament price input with the referenced
// catalog entry's price, after checking the entry is visible to the caller.
func (s *pieceService) resolveFilament(ctx context.Context, ident models.Identity, in PieceInput) (PieceInput, error) {
	if in.FilamentTypeID == nil {
		return in, nil
	}

	filament, err := s.filaments.GetByID(ctx, *in.FilamentTypeID)
	if err != nil {
		return in, fmt.Errorf("filament type: %w", err)
	}
	if !ident.IsSuperuser() && filament.OwnerID != ident.UserID {
		return in, apperrors.ErrPermissionDenied
	}

	in.FilamentPricePerKg = filament.PricePerKg
	return in, nil
}

// validatePieceInput enforces the caller contract of the pricing engine:
// non-negative quantities and a margin strictly below 100.
func validatePieceInput(in PieceInput) error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"filament_price_per_kg", in.FilamentPricePerKg},
		{"filament_weight_g", in.FilamentWeightG},
		{"print_time_hours", in.PrintTimeHours},
		{"labour_time_minutes", in.LabourTimeMinutes},
		{"margin_percentage", in.MarginPercentage},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return apperrors.NewValidation(f.name, "must not be negative")
		}
	}
	if in.MarginPercentage.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return apperrors.NewValidation("margin_percentage", "must be below 100")
	}
	return nil
}

func pricingInput(in PieceInput) pricing.Input {
	return pricing.Input{
		FilamentPricePerKg: in.FilamentPricePerKg,
		FilamentWeightG:    in.FilamentWeightG,
		PrintTimeHours:     in.PrintTimeHours,
		LabourTimeMinutes:  in.LabourTimeMinutes,
		MarginPercentage:   in.MarginPercentage,
	}
}

// authorizePiece rejects access to pieces the identity does not own.
// Legacy unowned pieces are editable by anyone, matching historical behavior.
func authorizePiece(ident models.Identity, piece *models.Piece) error {
	if ident.IsSuperuser() || piece.OwnerID == nil {
		return nil
	}
	if *piece.OwnerID != ident.UserID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ownerScope translates an identity into the repository owner filter:
// superusers see everything (nil scope), owners see their own rows.
func ownerScope(ident models.Identity) *uuid.UUID {
	if ident.IsSuperuser() {
		return nil
	}
	owner := ident.UserID
	return &owner
}
