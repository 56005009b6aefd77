package services

import (
	"context"

	"github.com/fbettencourt22/printcost-engine/pkg/models"
	"github.com/fbettencourt22/printcost-engine/pkg/repositories"
)

// DashboardSummary holds the landing-page counters for one identity.
type DashboardSummary struct {
	Pieces            int `json:"pieces"`
	UncommittedPieces int `json:"uncommitted_pieces"`
	Filaments         int `json:"filaments"`
	InventoryItems    int `json:"inventory_items"`
	InventoryQuantity int `json:"inventory_quantity"`
}

// DashboardService aggregates the counters shown on the dashboard.
type DashboardService interface {
	Summary(ctx context.Context, ident models.Identity) (*DashboardSummary, error)
}

type dashboardService struct {
	pieces    repositories.PieceRepository
	filaments repositories.FilamentRepository
	inventory repositories.InventoryRepository
}

// NewDashboardService creates a new dashboard service with dependencies.
func NewDashboardService(pieces repositories.PieceRepository, filaments repositories.FilamentRepository, inventory repositories.InventoryRepository) DashboardService {
	return &dashboardService{
		pieces:    pieces,
		filaments: filaments,
		inventory: inventory,
	}
}

var _ DashboardService = (*dashboardService)(nil)

func (s *dashboardService) Summary(ctx context.Context, ident models.Identity) (*DashboardSummary, error) {
	scope := ownerScope(ident)

	pieces, err := s.pieces.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	uncommitted, err := s.pieces.ListUncommitted(ctx, scope)
	if err != nil {
		return nil, err
	}
	filaments, err := s.filaments.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	items, err := s.inventory.List(ctx, scope, "")
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Pieces:            len(pieces),
		UncommittedPieces: len(uncommitted),
		Filaments:         len(filaments),
		InventoryItems:    len(items),
	}
	for _, item := range items {
		summary.InventoryQuantity += item.Quantity
	}
	return summary, nil
}
