package rules

import (
	"math"
	"testing"
)

func TestGeneratorCostCurve(t *testing.T) {
	// Reference numbers for the starter generator: base 10, growth 1.15.
	if cost := GeneratorCost(10, 1.15, 0); cost != 10 {
		t.Errorf("Expected first unit to cost 10, got %f", cost)
	}
	if cost := GeneratorCost(10, 1.15, 1); cost != 11 {
		t.Errorf("Expected second unit to cost floor(11.5)=11, got %f", cost)
	}
	if cost := GeneratorCost(10, 1.15, 2); cost != 13 {
		t.Errorf("Expected third unit to cost floor(13.225)=13, got %f", cost)
	}
}

func TestGeneratorCostMonotonic(t *testing.T) {
	prev := 0.0
	for owned := 0; owned < 200; owned++ {
		cost := GeneratorCost(25, 1.2, owned)
		if cost < prev {
			t.Fatalf("Cost decreased at owned=%d: %f < %f", owned, cost, prev)
		}
		prev = cost
	}
}

func TestGeneratorCostNeverOverflows(t *testing.T) {
	// Far beyond the exponent clamp the cost must stay finite.
	for _, owned := range []int{2048, 5000, 1 << 20} {
		cost := GeneratorCost(10, 1.15, owned)
		if math.IsInf(cost, 0) || math.IsNaN(cost) {
			t.Errorf("Expected finite cost at owned=%d, got %f", owned, cost)
		}
		if cost <= 0 {
			t.Errorf("Expected positive cost at owned=%d, got %f", owned, cost)
		}
	}
}

func TestGeneratorCostNegativeOwned(t *testing.T) {
	if cost := GeneratorCost(10, 1.15, -3); cost != 10 {
		t.Errorf("Expected negative owned to be treated as 0, got %f", cost)
	}
}

func TestProductionRate(t *testing.T) {
	if rate := ProductionRate(1, 5, 2); rate != 10 {
		t.Errorf("Expected 1 * 5 * 2 = 10, got %f", rate)
	}
	if rate := ProductionRate(8, 0, 3); rate != 0 {
		t.Errorf("Expected zero owned to produce nothing, got %f", rate)
	}
}

func TestPrestigeMultiplier(t *testing.T) {
	if m := PrestigeMultiplier(1.25, 0); m != 1 {
		t.Errorf("Expected level 0 multiplier to be 1, got %f", m)
	}
	if m := PrestigeMultiplier(1.25, 1); m != 1.25 {
		t.Errorf("Expected level 1 multiplier to be 1.25, got %f", m)
	}
	if m := PrestigeMultiplier(1.25, 2); math.Abs(m-1.5625) > 1e-12 {
		t.Errorf("Expected level 2 multiplier to be 1.5625, got %f", m)
	}
	if m := PrestigeMultiplier(1.25, -1); m != 1 {
		t.Errorf("Expected negative level multiplier to be 1, got %f", m)
	}
}

func TestPrestigeThreshold(t *testing.T) {
	if th := PrestigeThreshold(1000, 10, 0); th != 1000 {
		t.Errorf("Expected level 0 threshold to be 1000, got %f", th)
	}
	if th := PrestigeThreshold(1000, 10, 1); th != 10000 {
		t.Errorf("Expected level 1 threshold to be 10000, got %f", th)
	}
	if th := PrestigeThreshold(1000, 10, 3); th != 1000000 {
		t.Errorf("Expected level 3 threshold to be 1000000, got %f", th)
	}
}
