package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/apperrors"
	"github.com/fbettencourt22/printcost-engine/pkg/models"
	"github.com/fbettencourt22/printcost-engine/pkg/repositories"
)

// AddResult reports the outcome of an inventory add, so callers can tell the
// user whether a row was added or an existing quantity was updated.
type AddResult struct {
	Item    *models.InventoryItem
	Created bool
}

// InventoryService maintains the per-owner quantity ledger of produced pieces.
type InventoryService interface {
	// Add merges quantity units of the piece into the ledger. The ledger row
	// belongs to the piece's owner; unowned legacy pieces land on the
	// caller's own ledger.
	Add(ctx context.Context, ident models.Identity, pieceID uuid.UUID, quantity int) (*AddResult, error)
	// List returns the ledger rows visible to the identity, optionally
	// filtered by a case-insensitive label search.
	List(ctx context.Context, ident models.Identity, search string) ([]*models.InventoryItem, error)
}

type inventoryService struct {
	inventory repositories.InventoryRepository
	pieces    repositories.PieceRepository
	logger    *zap.Logger
}

// NewInventoryService creates a new inventory service with dependencies.
func NewInventoryService(inventory repositories.InventoryRepository, pieces repositories.PieceRepository, logger *zap.Logger) InventoryService {
	return &inventoryService{
		inventory: inventory,
		pieces:    pieces,
		logger:    logger,
	}
}

var _ InventoryService = (*inventoryService)(nil)

func (s *inventoryService) Add(ctx context.Context, ident models.Identity, pieceID uuid.UUID, quantity int) (*AddResult, error) {
	if quantity < 1 {
		return nil, apperrors.NewValidation("quantity", "must be a positive integer")
	}

	piece, err := s.pieces.GetByID(ctx, pieceID)
	if err != nil {
		return nil, err
	}
	if err := authorizePiece(ident, piece); err != nil {
		return nil, err
	}

	ledgerOwner := ident.UserID
	if piece.OwnerID != nil {
		ledgerOwner = *piece.OwnerID
	}

	item, created, err := s.inventory.Upsert(ctx, ledgerOwner, piece.ID, piece.DisplayName(), quantity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Added piece to inventory",
		zap.String("piece_id", piece.ID.String()),
		zap.String("owner_id", ledgerOwner.String()),
		zap.Int("quantity", quantity),
		zap.Bool("created", created))

	return &AddResult{Item: item, Created: created}, nil
}

func (s *inventoryService) List(ctx context.Context, ident models.Identity, search string) ([]*models.InventoryItem, error) {
	return s.inventory.List(ctx, ownerScope(ident), search)
}
