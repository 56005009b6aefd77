package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is a per-owner quantity counter for one produced piece.
// At most one row exists per (owner, piece) pair; repeated adds increment
// Quantity instead of duplicating the row.
type InventoryItem struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	PieceID uuid.UUID `json:"piece_id"`
	// PieceName is the piece's display name snapshotted at the latest add.
	PieceName string    `json:"piece_name"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
