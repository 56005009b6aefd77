package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fbettencourt22/printcost-engine/pkg/apperrors"
	"github.com/fbettencourt22/printcost-engine/pkg/models"
)

// mockPieceRepository is a configurable in-memory PieceRepository.
type mockPieceRepository struct {
	pieces map[uuid.UUID]*models.Piece
	// existingNames simulates pieces already persisted under the scanned
	// scope, keyed by lowercase name.
	existingNames map[string]bool

	created []*models.Piece
	updated *models.Piece
	deleted []uuid.UUID

	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
	nameErr   error

	// Captured inputs for verification.
	capturedNameScope   *uuid.UUID
	capturedName        string
	capturedNameExclude uuid.UUID
	capturedListScope   *uuid.UUID
	listScopeCaptured   bool
	uncommittedCalled   bool
}

func newMockPieceRepository() *mockPieceRepository {
	return &mockPieceRepository{
		pieces:        map[uuid.UUID]*models.Piece{},
		existingNames: map[string]bool{},
	}
}

func (m *mockPieceRepository) Create(ctx context.Context, piece *models.Piece) error {
	if m.createErr != nil {
		return m.createErr
	}
	if piece.ID == uuid.Nil {
		piece.ID = uuid.New()
	}
	piece.CreatedAt = time.Now()
	m.pieces[piece.ID] = piece
	m.created = append(m.created, piece)
	return nil
}

func (m *mockPieceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Piece, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	piece, ok := m.pieces[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return piece, nil
}

func (m *mockPieceRepository) List(ctx context.Context, ownerID *uuid.UUID) ([]*models.Piece, error) {
	m.capturedListScope = ownerID
	m.listScopeCaptured = true
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.Piece
	for _, piece := range m.pieces {
		if ownerID == nil || (piece.OwnerID != nil && *piece.OwnerID == *ownerID) {
			out = append(out, piece)
		}
	}
	return out, nil
}

func (m *mockPieceRepository) ListUncommitted(ctx context.Context, ownerID *uuid.UUID) ([]*models.Piece, error) {
	m.uncommittedCalled = true
	return m.List(ctx, ownerID)
}

func (m *mockPieceRepository) Update(ctx context.Context, piece *models.Piece) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.pieces[piece.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.pieces[piece.ID] = piece
	m.updated = piece
	return nil
}

func (m *mockPieceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.pieces[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.pieces, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockPieceRepository) NameExists(ctx context.Context, ownerID *uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	m.capturedNameScope = ownerID
	m.capturedName = name
	m.capturedNameExclude = excludeID
	if m.nameErr != nil {
		return false, m.nameErr
	}
	return m.existingNames[strings.ToLower(name)], nil
}

// mockFilamentRepository is a configurable in-memory FilamentRepository.
type mockFilamentRepository struct {
	filaments map[uuid.UUID]*models.FilamentType

	created []*models.FilamentType
	updated *models.FilamentType
	deleted []uuid.UUID

	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error

	capturedListScope *uuid.UUID
}

func newMockFilamentRepository() *mockFilamentRepository {
	return &mockFilamentRepository{filaments: map[uuid.UUID]*models.FilamentType{}}
}

func (m *mockFilamentRepository) Create(ctx context.Context, filament *models.FilamentType) error {
	if m.createErr != nil {
		return m.createErr
	}
	if filament.ID == uuid.Nil {
		filament.ID = uuid.New()
	}
	filament.CreatedAt = time.Now()
	m.filaments[filament.ID] = filament
	m.created = append(m.created, filament)
	return nil
}

func (m *mockFilamentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FilamentType, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	filament, ok := m.filaments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return filament, nil
}

func (m *mockFilamentRepository) List(ctx context.Context, ownerID *uuid.UUID) ([]*models.FilamentType, error) {
	m.capturedListScope = ownerID
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.FilamentType
	for _, filament := range m.filaments {
		if ownerID == nil || filament.OwnerID == *ownerID {
			out = append(out, filament)
		}
	}
	return out, nil
}

func (m *mockFilamentRepository) Update(ctx context.Context, filament *models.FilamentType) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.filaments[filament.ID] = filament
	m.updated = filament
	return nil
}

func (m *mockFilamentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.filaments[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.filaments, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// mockInventoryRepository accumulates upserts in memory the way the real
// ON CONFLICT statement does.
type mockInventoryRepository struct {
	items map[string]*models.InventoryItem

	upsertErr error
	listErr   error

	capturedOwner    uuid.UUID
	capturedPieceID  uuid.UUID
	capturedLabel    string
	capturedQuantity int
}

func newMockInventoryRepository() *mockInventoryRepository {
	return &mockInventoryRepository{items: map[string]*models.InventoryItem{}}
}

func ledgerKey(ownerID, pieceID uuid.UUID) string {
	return fmt.Sprintf("%s|%s", ownerID, pieceID)
}

func (m *mockInventoryRepository) Upsert(ctx context.Context, ownerID, pieceID uuid.UUID, pieceName string, quantity int) (*models.InventoryItem, bool, error) {
	m.capturedOwner = ownerID
	m.capturedPieceID = pieceID
	m.capturedLabel = pieceName
	m.capturedQuantity = quantity
	if m.upsertErr != nil {
		return nil, false, m.upsertErr
	}

	key := ledgerKey(ownerID, pieceID)
	if item, ok := m.items[key]; ok {
		item.Quantity += quantity
		item.PieceName = pieceName
		item.UpdatedAt = time.Now()
		return item, false, nil
	}

	item := &models.InventoryItem{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		PieceID:   pieceID,
		PieceName: pieceName,
		Quantity:  quantity,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.items[key] = item
	return item, true, nil
}

func (m *mockInventoryRepository) List(ctx context.Context, ownerID *uuid.UUID, search string) ([]*models.InventoryItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.InventoryItem
	for _, item := range m.items {
		if ownerID != nil && item.OwnerID != *ownerID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.PieceName), strings.ToLower(search)) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
