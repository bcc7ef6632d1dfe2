// Package rules contains the pure calculation logic for game progression.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import "math"

// maxCostExponent caps the geometric cost curve. growth^owned overflows a
// float64 long before owned counts a player can realistically reach, so the
// exponent is clamped to keep every cost finite and positive.
const maxCostExponent = 2048

// GeneratorCost computes floor(base * growth^owned) for one cost entry.
// Results are always finite, positive and non-decreasing in owned.
func GeneratorCost(base, growth float64, owned int) float64 {
	if owned < 0 {
		owned = 0
	}
	exp := float64(owned)
	if exp > maxCostExponent {
		exp = maxCostExponent
	}
	cost := math.Floor(base * math.Pow(growth, exp))
	if math.IsInf(cost, 0) || math.IsNaN(cost) || cost > math.MaxFloat64/2 {
		return math.MaxFloat64 / 2
	}
	return cost
}

// ProductionRate is the headline per-second output of a generator stack.
func ProductionRate(baseProduction float64, owned int, multiplier float64) float64 {
	return baseProduction * float64(owned) * multiplier
}

// PrestigeMultiplier is the permanent global bonus: base^level.
func PrestigeMultiplier(base float64, level int) float64 {
	if level <= 0 {
		return 1
	}
	return math.Pow(base, float64(level))
}

// PrestigeThreshold is the primary-resource amount required for the next
// reset: thresholdBase * thresholdGrowth^level.
func PrestigeThreshold(thresholdBase, thresholdGrowth float64, level int) float64 {
	if level <= 0 {
		return thresholdBase
	}
	return thresholdBase * math.Pow(thresholdGrowth, float64(level))
}
