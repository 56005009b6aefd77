// Package pricing computes the cost breakdown and final price of a 3D-printed
// piece. Calculate is a pure function: tariffs are passed in explicitly so the
// engine can be exercised with alternate rates, and all math runs on exact
// decimals with half-up rounding.
package pricing

import "github.com/shopspring/decimal"

var (
	one      = decimal.NewFromInt(1)
	sixty    = decimal.NewFromInt(60)
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// Tariffs holds the rate constants the calculation depends on.
type Tariffs struct {
	// EnergyTariff is the electricity price per kWh.
	EnergyTariff decimal.Decimal
	// PrinterPowerW is the printer's power draw in watts.
	PrinterPowerW decimal.Decimal
	// LabourRatePerHour is the hourly labour cost.
	LabourRatePerHour decimal.Decimal
	// FilamentWasteFactor is the fraction of filament assumed wasted (0.10 = 10%).
	FilamentWasteFactor decimal.Decimal
	// MachineRatePerHour is the machine-time cost per print hour.
	MachineRatePerHour decimal.Decimal
}

// DefaultTariffs returns the production rates.
func DefaultTariffs() Tariffs {
	return Tariffs{
		EnergyTariff:        decimal.RequireFromString("0.158"),
		PrinterPowerW:       decimal.RequireFromString("140"),
		LabourRatePerHour:   decimal.RequireFromString("20"),
		FilamentWasteFactor: decimal.RequireFromString("0.10"),
		MachineRatePerHour:  decimal.RequireFromString("0.20"),
	}
}

// Input holds the five piece quantities entered by the user. Callers must
// pre-validate: all values >= 0 and MarginPercentage < 100.
type Input struct {
	FilamentPricePerKg decimal.Decimal
	FilamentWeightG    decimal.Decimal
	PrintTimeHours     decimal.Decimal
	LabourTimeMinutes  decimal.Decimal
	MarginPercentage   decimal.Decimal
}

// Result holds the computed cost breakdown. Currency fields carry exactly two
// decimal places, ConsumptionKWh exactly four.
type Result struct {
	CostFilament   decimal.Decimal
	CostEnergy     decimal.Decimal
	CostLabour     decimal.Decimal
	CostMachine    decimal.Decimal
	CostTotal      decimal.Decimal
	PriceFinal     decimal.Decimal
	ConsumptionKWh decimal.Decimal
}

// Calculate derives the cost breakdown from the inputs and tariffs.
//
// Each cost component is rounded to 2 decimals half-up as it is produced, and
// CostTotal is the sum of the rounded components, so the breakdown always adds
// up exactly as rendered. The energy cost is computed from the unrounded
// consumption; only the reported ConsumptionKWh is quantized to 4 decimals.
// All inputs are non-negative, so decimal.Round (half away from zero) is
// half-up here.
func Calculate(in Input, t Tariffs) Result {
	costFilament := in.FilamentPricePerKg.Div(thousand).
		Mul(in.FilamentWeightG).
		Mul(one.Add(t.FilamentWasteFactor)).
		Round(2)

	consumptionKWh := t.PrinterPowerW.Mul(in.PrintTimeHours).Div(thousand)
	costEnergy := consumptionKWh.Mul(t.EnergyTariff).Round(2)

	costLabour := in.LabourTimeMinutes.Div(sixty).Mul(t.LabourRatePerHour).Round(2)
	costMachine := in.PrintTimeHours.Mul(t.MachineRatePerHour).Round(2)

	costTotal := costFilament.Add(costEnergy).Add(costLabour).Add(costMachine)
	priceFinal := costTotal.Div(one.Sub(in.MarginPercentage.Div(hundred))).Round(2)

	return Result{
		CostFilament:   costFilament,
		CostEnergy:     costEnergy,
		CostLabour:     costLabour,
		CostMachine:    costMachine,
		CostTotal:      costTotal,
		PriceFinal:     priceFinal,
		ConsumptionKWh: consumptionKWh.Round(4),
	}
}
