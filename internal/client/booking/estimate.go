package booking

import (
	"math"
	"strconv"
)

// Pricing defaults; overridable on the Orchestrator.
const (
	DefaultRatePerKWh    = 0.30
	DefaultMinimumCharge = 0.50
)

// EstimateEnergyKWh returns the advisory energy figure for a session:
// station power times duration. Display-only, never authoritative for billing.
func EstimateEnergyKWh(powerKW float64, durationMin int) float64 {
	return powerKW * float64(durationMin) / 60
}

// FormatEnergy renders an estimate for display, switching to Wh below 1 kWh.
func FormatEnergy(kwh float64) string {
	if kwh < 1 {
		return strconv.FormatFloat(kwh*1000, 'f', -1, 64) + " Wh"
	}
	return strconv.FormatFloat(kwh, 'f', -1, 64) + " kWh"
}

// Price converts an energy estimate to a charge amount at the given rate,
// rounded to cents and never below the minimum floor.
func Price(kwh, ratePerKWh, minimum float64) float64 {
	p := math.Round(kwh*ratePerKWh*100) / 100
	if p < minimum {
		return minimum
	}
	return p
}
