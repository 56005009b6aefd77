package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fbettencourt22/printcost-engine/pkg/database"
	"github.com/fbettencourt22/printcost-engine/pkg/models"
)

// InventoryRepository provides data access for the inventory quantity ledger.
type InventoryRepository interface {
	// Upsert adds quantity to the (owner, piece) ledger row, creating it when
	// absent and refreshing the label snapshot. The boolean result is true
	// when a new row was created. The operation is a single atomic statement:
	// concurrent adds for the same pair serialize in the database and both
	// increments land.
	Upsert(ctx context.Context, ownerID, pieceID uuid.UUID, pieceName string, quantity int) (*models.InventoryItem, bool, error)
	// List returns ledger rows for the given owner, or for all owners when
	// ownerID is nil (superuser view). A non-empty search filters labels
	// case-insensitively.
	List(ctx context.Context, ownerID *uuid.UUID, search string) ([]*models.InventoryItem, error)
}

type inventoryRepository struct {
	db *database.DB
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(db *database.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

var _ InventoryRepository = (*inventoryRepository)(nil)

func (r *inventoryRepository) Upsert(ctx context.Context, ownerID, pieceID uuid.UUID, pieceName string, quantity int) (*models.InventoryItem, bool, error) {
	now := time.Now()

	// xmax = 0 distinguishes a fresh insert from a conflict update.
	query := `
		INSERT INTO inventory_item (id, owner_id, piece_id, piece_name, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (owner_id, piece_id) DO UPDATE
		SET quantity = inventory_item.quantity + EXCLUDED.quantity,
		    piece_name = EXCLUDED.piece_name,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, owner_id, piece_id, piece_name, quantity, created_at, updated_at, (xmax = 0)`

	var item models.InventoryItem
	var created bool
	err := r.db.QueryRow(ctx, query, uuid.New(), ownerID, pieceID, pieceName, quantity, now).Scan(
		&item.ID,
		&item.OwnerID,
		&item.PieceID,
		&item.PieceName,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
		&created,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert inventory item: %w", err)
	}

	return &item, created, nil
}

func (r *inventoryRepository) List(ctx context.Context, ownerID *uuid.UUID, search string) ([]*models.InventoryItem, error) {
	query := `
		SELECT id, owner_id, piece_id, piece_name, quantity, created_at, updated_at
		FROM inventory_item`
	var conditions []string
	var args []any
	if ownerID != nil {
		args = append(args, *ownerID)
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("piece_name ILIKE $%d", len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += ` ORDER BY piece_name, created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory items: %w", err)
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory items: %w", err)
	}

	return items, nil
}

func scanInventoryItem(row pgx.Row) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.PieceID,
		&item.PieceName,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan inventory item: %w", err)
	}
	return &item, nil
}
