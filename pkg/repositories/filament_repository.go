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

// FilamentRepository provides data access for filament catalog entries.
type FilamentRepository interface {
	Create(ctx context.Context, filament *models.FilamentType) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FilamentType, error)
	// List returns filaments owned by ownerID ordered by name. A nil ownerID
	// returns every user's filaments (superuser view).
	List(ctx context.Context, ownerID *uuid.UUID) ([]*models.FilamentType, error)
	Update(ctx context.Context, filament *models.FilamentType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type filamentRepository struct {
	db *database.DB
}

// NewFilamentRepository creates a new FilamentRepository.
func NewFilamentRepository(db *database.DB) FilamentRepository {
	return &filamentRepository{db: db}
}

var _ FilamentRepository = (*filamentRepository)(nil)

func (r *filamentRepository) Create(ctx context.Context, filament *models.FilamentType) error {
	if filament.ID == uuid.Nil {
		filament.ID = uuid.New()
	}

	query := `
		INSERT INTO filament_type (id, owner_id, name, color, price_per_kg, spool_weight_kg, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		filament.ID,
		filament.OwnerID,
		filament.Name,
		filament.Color,
		filament.PricePerKg,
		filament.SpoolWeightKg,
		time.Now(),
	).Scan(&filament.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create filament type: %w", err)
	}

	return nil
}

func (r *filamentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FilamentType, error) {
	query := `
		SELECT id, owner_id, name, color, price_per_kg, spool_weight_kg, created_at
		FROM filament_type
		WHERE id = $1`

	filament, err := scanFilament(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return filament, nil
}

func (r *filamentRepository) List(ctx context.Context, ownerID *uuid.UUID) ([]*models.FilamentType, error) {
	query := `
		SELECT id, owner_id, name, color, price_per_kg, spool_weight_kg, created_at
		FROM filament_type`
	args := []any{}
	if ownerID != nil {
		query += ` WHERE owner_id = $1`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query filament types: %w", err)
	}
	defer rows.Close()

	var filaments []*models.FilamentType
	for rows.Next() {
		filament, err := scanFilament(rows)
		if err != nil {
			return nil, err
		}
		filaments = append(filaments, filament)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating filament types: %w", err)
	}

	return filaments, nil
}

func (r *filamentRepository) Update(ctx context.Context, filament *models.FilamentType) error {
	query := `
		UPDATE filament_type
		SET name = $2, color = $3, price_per_kg = $4, spool_weight_kg = $5
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		filament.ID,
		filament.Name,
		filament.Color,
		filament.PricePerKg,
		filament.SpoolWeightKg,
	)
	if err != nil {
		return fmt.Errorf("failed to update filament type: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *filamentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// piece.filament_type_id is ON DELETE SET NULL; priced pieces keep their
	// snapshotted filament price.
	result, err := r.db.Exec(ctx, `DELETE FROM filament_type WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete filament type: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanFilament(row pgx.Row) (*models.FilamentType, error) {
	var f models.FilamentType
	err := row.Scan(
		&f.ID,
		&f.OwnerID,
		&f.Name,
		&f.Color,
		&f.PricePerKg,
		&f.SpoolWeightKg,
		&f.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan filament type: %w", err)
	}
	return &f, nil
}
