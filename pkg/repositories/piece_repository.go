package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fbettencourt22/printcost-engine/pkg/apperrors"
	"github.com/fbettencourt22/printcost-engine/pkg/database"
	"github.com/fbettencourt22/printcost-engine/pkg/models"
)

// PieceRepository provides data access for priced pieces.
type PieceRepository interface {
	Create(ctx context.Context, piece *models.Piece) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Piece, error)
	// List returns pieces owned by ownerID, newest first. A nil ownerID
	// returns all pieces (superuser view).
	List(ctx context.Context, ownerID *uuid.UUID) ([]*models.Piece, error)
	// ListUncommitted returns pieces absent from the given owner's inventory
	// ledger. A nil ownerID returns pieces absent from every ledger.
	ListUncommitted(ctx context.Context, ownerID *uuid.UUID) ([]*models.Piece, error)
	Update(ctx context.Context, piece *models.Piece) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NameExists reports whether another piece with this name (case-insensitive)
	// exists in the owner's scope. A nil ownerID scopes to legacy unowned rows.
	// excludeID skips the piece being edited; pass uuid.Nil on create.
	NameExists(ctx context.Context, ownerID *uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}

type pieceRepository struct {
	db *database.DB
}

// NewPieceRepository creates a new PieceRepository.
func NewPieceRepository(db *database.DB) PieceRepository {
	return &pieceRepository{db: db}
}

var _ PieceRepository = (*pieceRepository)(nil)

const pieceColumns = `
	p.id, p.owner_id, p.name, p.filament_type_id,
	p.filament_price_per_kg, p.filament_weight_g, p.print_time_hours,
	p.labour_time_minutes, p.margin_percentage,
	p.cost_filament, p.cost_energy, p.cost_labour, p.cost_machine,
	p.cost_total, p.price_final, p.consumption_kwh,
	p.created_at, COALESCE(u.email, '')`

func (r *pieceRepository) Create(ctx context.Context, piece *models.Piece) error {
	if piece.ID == uuid.Nil {
		piece.ID = uuid.New()
	}

	query := `
		INSERT INTO piece (
			id, owner_id, name, filament_type_id,
			filament_price_per_kg, filament_weight_g, print_time_hours,
			labour_time_minutes, margin_percentage,
			cost_filament, cost_energy, cost_labour, cost_machine,
			cost_total, price_final, consumption_kwh, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		piece.ID,
		piece.OwnerID,
		piece.Name,
		piece.FilamentTypeID,
		piece.FilamentPricePerKg,
		piece.FilamentWeightG,
		piece.PrintTimeHours,
		piece.LabourTimeMinutes,
		piece.MarginPercentage,
		piece.CostFilament,
		piece.CostEnergy,
		piece.CostLabour,
		piece.CostMachine,
		piece.CostTotal,
		piece.PriceFinal,
		piece.ConsumptionKWh,
		time.Now(),
	).Scan(&piece.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create piece: %w", err)
	}

	return nil
}

func (r *pieceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Piece, error) {
	query := `
		SELECT ` + pieceColumns + `
		FROM piece p
		LEFT JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1`

	piece, err := scanPiece(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return piece, nil
}

func (r *pieceRepository) List(ctx context.Context, ownerID *uuid.UUID) ([]*models.Piece, error) {
	query := `
		SELECT ` + pieceColumns + `
		FROM piece p
		LEFT JOIN users u ON u.id = p.owner_id`
	args := []any{}
	if ownerID != nil {
		query += ` WHERE p.owner_id = $1`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY p.created_at DESC`

	return r.queryPieces(ctx, query, args...)
}

func (r *pieceRepository) ListUncommitted(ctx context.Context, ownerID *uuid.UUID) ([]*models.Piece, error) {
	var query string
	args := []any{}
	if ownerID != nil {
		query = `
			SELECT ` + pieceColumns + `
			FROM piece p
			LEFT JOIN users u ON u.id = p.owner_id
			WHERE p.owner_id = $1
			  AND NOT EXISTS (
				SELECT 1 FROM inventory_item i
				WHERE i.piece_id = p.id AND i.owner_id = $1
			  )
			ORDER BY p.created_at DESC`
		args = append(args, *ownerID)
	} else {
		// Superuser view: a piece committed to any owner's ledger is
		// considered dispositioned.
		query = `
			SELECT ` + pieceColumns + `
			FROM piece p
			LEFT JOIN users u ON u.id = p.owner_id
			WHERE NOT EXISTS (
				SELECT 1 FROM inventory_item i WHERE i.piece_id = p.id
			)
			ORDER BY p.created_at DESC`
	}

	return r.queryPieces(ctx, query, args...)
}

func (r *pieceRepository) Update(ctx context.Context, piece *models.Piece) error {
	query := `
		UPDATE piece
		SET owner_id = $2, name = $3, filament_type_id = $4,
		    filament_price_per_kg = $5, filament_weight_g = $6,
		    print_time_hours = $7, labour_time_minutes = $8,
		    margin_percentage = $9, cost_filament = $10, cost_energy = $11,
		    cost_labour = $12, cost_machine = $13, cost_total = $14,
		    price_final = $15, consumption_kwh = $16
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		piece.ID,
		piece.OwnerID,
		piece.Name,
		piece.FilamentTypeID,
		piece.FilamentPricePerKg,
		piece.FilamentWeightG,
		piece.PrintTimeHours,
		piece.LabourTimeMinutes,
		piece.MarginPercentage,
		piece.CostFilament,
		piece.CostEnergy,
		piece.CostLabour,
		piece.CostMachine,
		piece.CostTotal,
		piece.PriceFinal,
		piece.ConsumptionKWh,
	)
	if err != nil {
		return fmt.Errorf("failed to update piece: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *pieceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM piece WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete piece: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *pieceRepository) NameExists(ctx context.Context, ownerID *uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var query string
	args := []any{name, excludeID}
	if ownerID != nil {
		query = `
			SELECT EXISTS (
				SELECT 1 FROM piece
				WHERE owner_id = $3 AND lower(name) = lower($1) AND id <> $2
			)`
		args = append(args, *ownerID)
	} else {
		query = `
			SELECT EXISTS (
				SELECT 1 FROM piece
				WHERE owner_id IS NULL AND lower(name) = lower($1) AND id <> $2
			)`
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check piece name: %w", err)
	}
	return exists, nil
}

func (r *pieceRepository) queryPieces(ctx context.Context, query string, args ...any) ([]*models.Piece, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pieces: %w", err)
	}
	defer rows.Close()

	var pieces []*models.Piece
	for rows.Next() {
		piece, err := scanPiece(rows)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, piece)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pieces: %w", err)
	}

	return pieces, nil
}

func scanPiece(row pgx.Row) (*models.Piece, error) {
	var p models.Piece
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.FilamentTypeID,
		&p.FilamentPricePerKg,
		&p.FilamentWeightG,
		&p.PrintTimeHours,
		&p.LabourTimeMinutes,
		&p.MarginPercentage,
		&p.CostFilament,
		&p.CostEnergy,
		&p.CostLabour,
		&p.CostMachine,
		&p.CostTotal,
		&p.PriceFinal,
		&p.ConsumptionKWh,
		&p.CreatedAt,
		&p.OwnerEmail,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan piece: %w", err)
	}
	return &p, nil
}
