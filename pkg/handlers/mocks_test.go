package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/fbettencourt22/printcost-engine/pkg/auth"
	"github.com/fbettencourt22/printcost-engine/pkg/models"
	"github.com/fbettencourt22/printcost-engine/pkg/pricing"
	"github.com/fbettencourt22/printcost-engine/pkg/services"
)

// authedRequest builds a request carrying the identity the auth middleware
// would have resolved.
func authedRequest(r *http.Request, ident models.Identity) *http.Request {
	return r.WithContext(auth.SetIdentity(r.Context(), ident))
}

func testOwnerIdentity() models.Identity {
	return models.Identity{UserID: uuid.New(), Role: models.RoleOwner}
}

// mockPieceService is a configurable mock for handler tests.
type mockPieceService struct {
	piece  *models.Piece
	pieces []*models.Piece
	result *pricing.Result
	err    error

	capturedInput           services.PieceInput
	capturedID              uuid.UUID
	capturedUncommittedOnly bool
}

func (m *mockPieceService) Calculate(ctx context.Context, ident models.Identity, in services.PieceInput) (*pricing.Result, error) {
	m.capturedInput = in
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	result := pricing.Calculate(pricing.Input{
		FilamentPricePerKg: in.FilamentPricePerKg,
		FilamentWeightG:    in.FilamentWeightG,
		PrintTimeHours:     in.PrintTimeHours,
		LabourTimeMinutes:  in.LabourTimeMinutes,
		MarginPercentage:   in.MarginPercentage,
	}, pricing.DefaultTariffs())
	return &result, nil
}

func (m *mockPieceService) Create(ctx context.Context, ident models.Identity, in services.PieceInput) (*models.Piece, error) {
	m.capturedInput = in
	if m.err != nil {
		return nil, m.err
	}
	if m.piece != nil {
		return m.piece, nil
	}
	ownerID := ident.UserID
	return &models.Piece{ID: uuid.New(), OwnerID: &ownerID, Name: in.Name}, nil
}

func (m *mockPieceService) Get(ctx context.Context, ident models.Identity, id uuid.UUID) (*models.Piece, error) {
	m.capturedID = id
	if m.err != nil {
		return nil, m.err
	}
	if m.piece != nil {
		return m.piece, nil
	}
	return &models.Piece{ID: id}, nil
}

func (m *mockPieceService) List(ctx context.Context, ident models.Identity, uncommittedOnly bool) ([]*models.Piece, error) {
	m.capturedUncommittedOnly = uncommittedOnly
	if m.err != nil {
		return nil, m.err
	}
	return m.pieces, nil
}

func (m *mockPieceService) Update(ctx context.Context, ident models.Identity, id uuid.UUID, in services.PieceInput) (*models.Piece, error) {
	m.capturedID = id
	m.capturedInput = in
	if m.err != nil {
		return nil, m.err
	}
	if m.piece != nil {
		return m.piece, nil
	}
	return &models.Piece{ID: id, Name: in.Name}, nil
}

func (m *mockPieceService) Delete(ctx context.Context, ident models.Identity, id uuid.UUID) error {
	m.capturedID = id
	return m.err
}

// mockFilamentService is a configurable mock for handler tests.
type mockFilamentService struct {
	filament  *models.FilamentType
	filaments []*models.FilamentType
	err       error

	capturedID    uuid.UUID
	capturedInput services.FilamentInput
}

func (m *mockFilamentService) Create(ctx context.Context, ident models.Identity, in services.FilamentInput) (*models.FilamentType, error) {
	m.capturedInput = in
	if m.err != nil {
		return nil, m.err
	}
	if m.filament != nil {
		return m.filament, nil
	}
	return &models.FilamentType{ID: uuid.New(), OwnerID: ident.UserID, Name: in.Name}, nil
}

func (m *mockFilamentService) List(ctx context.Context, ident models.Identity) ([]*models.FilamentType, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.filaments, nil
}

func (m *mockFilamentService) Update(ctx context.Context, ident models.Identity, id uuid.UUID, in services.FilamentInput) (*models.FilamentType, error) {
	m.capturedID = id
	m.capturedInput = in
	if m.err != nil {
		return nil, m.err
	}
	return &models.FilamentType{ID: id, Name: in.Name}, nil
}

func (m *mockFilamentService) Delete(ctx context.Context, ident models.Identity, id uuid.UUID) error {
	m.capturedID = id
	return m.err
}

// mockInventoryService is a configurable mock for handler tests.
type mockInventoryService struct {
	addResult *services.AddResult
	items     []*models.InventoryItem
	err       error

	capturedPieceID  uuid.UUID
	capturedQuantity int
	capturedSearch   string
}

func (m *mockInventoryService) Add(ctx context.Context, ident models.Identity, pieceID uuid.UUID, quantity int) (*services.AddResult, error) {
	m.capturedPieceID = pieceID
	m.capturedQuantity = quantity
	if m.err != nil {
		return nil, m.err
	}
	if m.addResult != nil {
		return m.addResult, nil
	}
	return &services.AddResult{
		Item:    &models.InventoryItem{ID: uuid.New(), OwnerID: ident.UserID, PieceID: pieceID, Quantity: quantity},
		Created: true,
	}, nil
}

func (m *mockInventoryService) List(ctx context.Context, ident models.Identity, search string) ([]*models.InventoryItem, error) {
	m.capturedSearch = search
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

// mockImporterService is a configurable mock for handler tests.
type mockImporterService struct {
	result *services.ImportResult
	err    error

	received []byte
}

func (m *mockImporterService) Import(ctx context.Context, ident models.Identity, file io.Reader) (*services.ImportResult, error) {
	m.received, _ = io.ReadAll(file)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &services.ImportResult{Created: 1}, nil
}

// mockExporterService is a configurable mock for handler tests.
type mockExporterService struct {
	err error
}

func (m *mockExporterService) Export(ctx context.Context, ident models.Identity) (*excelize.File, error) {
	if m.err != nil {
		return nil, m.err
	}
	return excelize.NewFile(), nil
}

// mockDashboardService is a configurable mock for handler tests.
type mockDashboardService struct {
	summary *services.DashboardSummary
	err     error
}

func (m *mockDashboardService) Summary(ctx context.Context, ident models.Identity) (*services.DashboardSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.summary != nil {
		return m.summary, nil
	}
	return &services.DashboardSummary{}, nil
}
