package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/apperrors"
	"github.com/fbettencourt22/printcost-engine/pkg/models"
	"github.com/fbettencourt22/printcost-engine/pkg/repositories"
)

// FilamentInput carries the fields for creating or editing a catalog entry.
type FilamentInput struct {
	Name          string
	Color         string
	PricePerKg    decimal.Decimal
	SpoolWeightKg decimal.Decimal
}

// FilamentService owns the filament catalog.
type FilamentService interface {
	Create(ctx context.Context, ident models.Identity, in FilamentInput) (*models.FilamentType, error)
	List(ctx context.Context, ident models.Identity) ([]*models.FilamentType, error)
	Update(ctx context.Context, ident models.Identity, id uuid.UUID, in FilamentInput) (*models.FilamentType, error)
	Delete(ctx context.Context, ident models.Identity, id uuid.UUID) error
}

type filamentService struct {
	filaments repositories.FilamentRepository
	logger    *zap.Logger
}

// NewFilamentService creates a new filament service with dependencies.
func NewFilamentService(filaments repositories.FilamentRepository, logger *zap.Logger) FilamentService {
	return &filamentService{filaments: filaments, logger: logger}
}

var _ FilamentService = (*filamentService)(nil)

func (s *filamentService) Create(ctx context.Context, ident models.Identity, in FilamentInput) (*models.FilamentType, error) {
	if err := validateFilamentInput(in); err != nil {
		return nil, err
	}

	filament := &models.FilamentType{
		OwnerID:       ident.UserID,
		Name:          strings.TrimSpace(in.Name),
		Color:         strings.TrimSpace(in.Color),
		PricePerKg:    in.PricePerKg,
		SpoolWeightKg: in.SpoolWeightKg,
	}
	if err := s.filaments.Create(ctx, filament); err != nil {
		return nil, err
	}

	s.logger.Info("Created filament type",
		zap.String("filament_id", filament.ID.String()),
		zap.String("name", filament.Name))
	return filament, nil
}

func (s *filamentService) List(ctx context.Context, ident models.Identity) ([]*models.FilamentType, error) {
	return s.filaments.List(ctx, ownerScope(ident))
}

func (s *filamentService) Update(ctx context.Context, ident models.Identity, id uuid.UUID, in FilamentInput) (*models.FilamentType, error) {
	filament, err := s.authorizedFilament(ctx, ident, id)
	if err != nil {
		return nil, err
	}
	if err := validateFilamentInput(in); err != nil {
		return nil, err
	}

	filament.Name = strings.TrimSpace(in.Name)
	filament.Color = strings.TrimSpace(in.Color)
	filament.PricePerKg = in.PricePerKg
	filament.SpoolWeightKg = in.SpoolWeightKg

	if err := s.filaments.Update(ctx, filament); err != nil {
		return nil, err
	}
	return filament, nil
}

func (s *filamentService) Delete(ctx context.Context, ident models.Identity, id uuid.UUID) error {
	if _, err := s.authorizedFilament(ctx, ident, id); err != nil {
		return err
	}

	if err := s.filaments.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Deleted filament type", zap.String("filament_id", id.String()))
	return nil
}

func (s *filamentService) authorizedFilament(ctx context.Context, ident models.Identity, id uuid.UUID) (*models.FilamentType, error) {
	filament, err := s.filaments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ident.IsSuperuser() && filament.OwnerID != ident.UserID {
		return nil, apperrors.ErrPermissionDenied
	}
	return filament, nil
}

func validateFilamentInput(in FilamentInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.NewValidation("name", "is required")
	}
	if !in.PricePerKg.IsPositive() {
		return apperrors.NewValidation("price_per_kg", "must be greater than zero")
	}
	if in.SpoolWeightKg.IsNegative() {
		return apperrors.NewValidation("spool_weight_kg", "must not be negative")
	}
	return nil
}
