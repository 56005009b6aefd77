//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbettencourt22/printcost-engine/pkg/models"
	"github.com/fbettencourt22/printcost-engine/pkg/testhelpers"
)

func seedUser(t *testing.T, db *testhelpers.TestDB, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.DB.Exec(context.Background(),
		`INSERT INTO users (id, email) VALUES ($1, $2)`, id, email)
	require.NoError(t, err)
	return id
}

func testPiece(ownerID uuid.UUID, name string) *models.Piece {
	two := decimal.RequireFromString("2")
	return &models.Piece{
		OwnerID:            &ownerID,
		Name:               name,
		FilamentPricePerKg: decimal.RequireFromString("17.50"),
		FilamentWeightG:    decimal.RequireFromString("12"),
		PrintTimeHours:     two,
		LabourTimeMinutes:  decimal.RequireFromString("10"),
		MarginPercentage:   decimal.RequireFromString("20"),
		CostFilament:       decimal.RequireFromString("0.23"),
		CostEnergy:         decimal.RequireFromString("0.04"),
		CostLabour:         decimal.RequireFromString("3.33"),
		CostMachine:        decimal.RequireFromString("0.40"),
		CostTotal:          decimal.RequireFromString("4.00"),
		PriceFinal:         decimal.RequireFromString("5.00"),
		ConsumptionKWh:     decimal.RequireFromString("0.2800"),
	}
}

func TestPieceRepository_CreateAndGet(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewPieceRepository(db.DB)
	ctx := context.Background()

	ownerID := seedUser(t, db, uuid.NewString()+"@example.com")
	piece := testPiece(ownerID, "integration benchy")

	require.NoError(t, repo.Create(ctx, piece))
	require.NotEqual(t, uuid.Nil, piece.ID)

	got, err := repo.GetByID(ctx, piece.ID)
	require.NoError(t, err)
	assert.Equal(t, "integration benchy", got.Name)
	assert.True(t, got.CostTotal.Equal(piece.CostTotal))
	assert.NotEmpty(t, got.OwnerEmail)
}

func TestPieceRepository_NameExists_ScopedToOwner(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	repo := NewPieceRepository(db.DB)
	ctx := context.Background()

	ownerID := seedUser(t, db, uuid.NewString()+"@example.com")
	otherID := seedUser(t, db, uuid.NewString()+"@example.com")
	require.NoError(t, repo.Create(ctx, testPiece(ownerID, "Scoped Name")))

	exists, err := repo.NameExists(ctx, &ownerID, "scoped name", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists, "match should be case-insensitive within the owner scope")

	exists, err = repo.NameExists(ctx, &otherID, "Scoped Name", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, exists, "another owner's catalog should not collide")
}

func TestInventoryRepository_UpsertAccumulates(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	pieces := NewPieceRepository(db.DB)
	inventory := NewInventoryRepository(db.DB)
	ctx := context.Background()

	ownerID := seedUser(t, db, uuid.NewString()+"@example.com")
	piece := testPiece(ownerID, "ledger piece")
	require.NoError(t, pieces.Create(ctx, piece))

	item, created, err := inventory.Upsert(ctx, ownerID, piece.ID, piece.DisplayName(), 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, item.Quantity)

	item, created, err = inventory.Upsert(ctx, ownerID, piece.ID, piece.DisplayName(), 3)
	require.NoError(t, err)
	assert.False(t, created, "second add must merge into the existing row")
	assert.Equal(t, 5, item.Quantity)

	items, err := inventory.List(ctx, &ownerID, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestPieceRepository_ListUncommitted(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	pieces := NewPieceRepository(db.DB)
	inventory := NewInventoryRepository(db.DB)
	ctx := context.Background()

	ownerID := seedUser(t, db, uuid.NewString()+"@example.com")
	committed := testPiece(ownerID, "committed piece")
	pending := testPiece(ownerID, "pending piece")
	require.NoError(t, pieces.Create(ctx, committed))
	require.NoError(t, pieces.Create(ctx, pending))

	_, _, err := inventory.Upsert(ctx, ownerID, committed.ID, committed.DisplayName(), 1)
	require.NoError(t, err)

	uncommitted, err := pieces.ListUncommitted(ctx, &ownerID)
	require.NoError(t, err)

	ids := make(map[uuid.UUID]bool, len(uncommitted))
	for _, p := range uncommitted {
		ids[p.ID] = true
	}
	assert.False(t, ids[committed.ID], "pieces already in the ledger are excluded")
	assert.True(t, ids[pending.ID])
}
