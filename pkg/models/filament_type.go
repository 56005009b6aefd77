package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FilamentType is a user's catalog entry for a material/color/price
// combination. (owner, name, color) is the user's effective catalog key but
// is not enforced unique.
type FilamentType struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	Name          string          `json:"name"`
	Color         string          `json:"color,omitempty"`
	PricePerKg    decimal.Decimal `json:"price_per_kg"`
	SpoolWeightKg decimal.Decimal `json:"spool_weight_kg"`
	CreatedAt     time.Time       `json:"created_at"`
}
