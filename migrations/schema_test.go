//go:build integration

package migrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbettencourt22/printcost-engine/pkg/testhelpers"
)

// TestSchema_Tables verifies the migrated schema has every table the
// repositories query.
func TestSchema_Tables(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	for _, table := range []string{"users", "filament_type", "piece", "inventory_item"} {
		var exists bool
		err := testDB.DB.Pool.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_schema = 'public'
				AND table_name = $1
			)
		`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "%s table should exist", table)
	}
}

// TestSchema_PieceColumns verifies the piece table column types.
func TestSchema_PieceColumns(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	columns := map[string]string{
		"id":                    "uuid",
		"owner_id":              "uuid",
		"name":                  "text",
		"filament_type_id":      "uuid",
		"filament_price_per_kg": "numeric",
		"filament_weight_g":     "numeric",
		"print_time_hours":      "numeric",
		"labour_time_minutes":   "numeric",
		"margin_percentage":     "numeric",
		"cost_filament":         "numeric",
		"cost_energy":           "numeric",
		"cost_labour":           "numeric",
		"cost_machine":          "numeric",
		"cost_total":            "numeric",
		"price_final":           "numeric",
		"consumption_kwh":       "numeric",
		"created_at":            "timestamp with time zone",
	}

	for colName, expectedType := range columns {
		var dataType string
		err := testDB.DB.Pool.QueryRow(ctx, `
			SELECT data_type
			FROM information_schema.columns
			WHERE table_name = 'piece'
			AND column_name = $1
		`, colName).Scan(&dataType)
		require.NoError(t, err, "Column %s should exist", colName)
		assert.Equal(t, expectedType, dataType, "Column %s should have type %s", colName, expectedType)
	}
}

// TestSchema_InventoryLedgerKey verifies the one-row-per-(owner, piece)
// constraint the upsert relies on.
func TestSchema_InventoryLedgerKey(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	var constraintExists bool
	err := testDB.DB.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.table_constraints
			WHERE table_name = 'inventory_item'
			AND constraint_type = 'UNIQUE'
		)
	`).Scan(&constraintExists)
	require.NoError(t, err)
	assert.True(t, constraintExists, "inventory_item should carry a unique (owner_id, piece_id) constraint")
}
