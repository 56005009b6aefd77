package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Piece is a priced 3D-print job: the five raw inputs the user entered plus
// the derived cost breakdown, snapshotted at calculation time.
type Piece struct {
	ID uuid.UUID `json:"id"`
	// OwnerID is nil for legacy records created before ownership existed.
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
	Name    string     `json:"name,omitempty"`
	// FilamentTypeID references the catalog entry the price came from. Nil for
	// historical rows that only carry the snapshotted price.
	FilamentTypeID *uuid.UUID `json:"filament_type_id,omitempty"`

	FilamentPricePerKg decimal.Decimal `json:"filament_price_per_kg"`
	FilamentWeightG    decimal.Decimal `json:"filament_weight_g"`
	PrintTimeHours     decimal.Decimal `json:"print_time_hours"`
	LabourTimeMinutes  decimal.Decimal `json:"labour_time_minutes"`
	MarginPercentage   decimal.Decimal `json:"margin_percentage"`

	CostFilament   decimal.Decimal `json:"cost_filament"`
	CostEnergy     decimal.Decimal `json:"cost_energy"`
	CostLabour     decimal.Decimal `json:"cost_labour"`
	CostMachine    decimal.Decimal `json:"cost_machine"`
	CostTotal      decimal.Decimal `json:"cost_total"`
	PriceFinal     decimal.Decimal `json:"price_final"`
	ConsumptionKWh decimal.Decimal `json:"consumption_kwh"`

	CreatedAt time.Time `json:"created_at"`

	// OwnerEmail is populated on reads that join the owner, for display and
	// export. Empty for unowned rows.
	OwnerEmail string `json:"owner_email,omitempty"`
}

// DisplayName returns the piece name, or a short id-derived placeholder when
// the name is blank.
func (p *Piece) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("#%s", p.ID.String()[:8])
}
