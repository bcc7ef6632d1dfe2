package engine

import (
	"math"
	"testing"

	"github.com/JaySchenk/idleAiGame-sub000/internal/config"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/logger"
)

func newTestLedger() (*Ledger, *GameState) {
	pack := config.Default()
	state := NewGameState(pack, newFakeClock().Now)
	mult := NewMultiplierResolver(state)
	return NewLedger(state, mult, pack.Balance, logger.NewLogger()), state
}

func TestAddClampsToCapacity(t *testing.T) {
	ledger, _ := newTestLedger()

	// trust starts full at its 100 cap.
	ledger.Add("trust", 50)
	if got := ledger.GetAmount("trust"); got != 100 {
		t.Errorf("Expected trust clamped at 100, got %f", got)
	}
	// The clamped overflow still counts as earned.
	if got := ledger.Lifetime("trust"); got != 150 {
		t.Errorf("Expected trust lifetime 150, got %f", got)
	}
}

func TestCapacityModifierRaisesClamp(t *testing.T) {
	ledger, state := newTestLedger()

	state.Upgrades["trustReservoirs"].Purchased = true
	ledger.Add("trust", 100)
	if got := ledger.GetAmount("trust"); got != 150 {
		t.Errorf("Expected raised cap of 150, got %f", got)
	}
}

func TestAddFloorsAtZero(t *testing.T) {
	ledger, _ := newTestLedger()

	ledger.Add("hcu", -5)
	if got := ledger.GetAmount("hcu"); got != 0 {
		t.Errorf("Expected hcu floored at 0, got %f", got)
	}
	if got := ledger.Lifetime("hcu"); got != 0 {
		t.Errorf("Expected negative delta to leave lifetime at 0, got %f", got)
	}
}

func TestAddRejectsNonFinite(t *testing.T) {
	ledger, _ := newTestLedger()

	ledger.Add("hcu", 10)
	ledger.Add("hcu", math.NaN())
	ledger.Add("hcu", math.Inf(1))
	ledger.Add("hcu", math.Inf(-1))
	if got := ledger.GetAmount("hcu"); got != 10 {
		t.Errorf("Expected non-finite deltas to be rejected, got %f", got)
	}
	if got := ledger.Lifetime("hcu"); got != 10 {
		t.Errorf("Expected lifetime unaffected by rejected deltas, got %f", got)
	}
}

func TestAddUnknownResource(t *testing.T) {
	ledger, _ := newTestLedger()

	ledger.Add("prestige_points", 3)
	if got := ledger.GetAmount("prestige_points"); got != 3 {
		t.Errorf("Expected unknown resource to be created on first use, got %f", got)
	}
}

func TestSpendExactBalance(t *testing.T) {
	ledger, _ := newTestLedger()

	ledger.Add("hcu", 10)
	if !ledger.Spend("hcu", 10) {
		t.Fatalf("Expected exact spend to succeed")
	}
	if got := ledger.GetAmount("hcu"); got != 0 {
		t.Errorf("Expected 0 after exact spend, got %f", got)
	}
	if ledger.Spend("hcu", 0.1) {
		t.Errorf("Expected overspend to fail")
	}
}

func TestSpendAllIsAtomic(t *testing.T) {
	ledger, _ := newTestLedger()

	ledger.Add("hcu", 100)
	costs := []resource.Stack{
		{Resource: "hcu", Amount: 50},
		{Resource: "compute", Amount: 10},
	}
	if ledger.SpendAll(costs) {
		t.Fatalf("Expected mixed spend to fail on compute shortfall")
	}
	if got := ledger.GetAmount("hcu"); got != 100 {
		t.Errorf("Expected failed spend to leave hcu untouched, got %f", got)
	}

	ledger.Add("compute", 10)
	if !ledger.SpendAll(costs) {
		t.Fatalf("Expected spend to succeed once both balances cover it")
	}
	if got := ledger.GetAmount("hcu"); got != 50 {
		t.Errorf("Expected 50 hcu after spend, got %f", got)
	}
	if got := ledger.GetAmount("compute"); got != 0 {
		t.Errorf("Expected 0 compute after spend, got %f", got)
	}
}

func TestApplyDecay(t *testing.T) {
	ledger, _ := newTestLedger()

	ledger.ApplyDecay()
	if got := ledger.GetAmount("trust"); math.Abs(got-99.99) > 1e-9 {
		t.Errorf("Expected trust at 99.99 after one decay pass, got %f", got)
	}
	// Decay is loss, not spending; lifetime stays where it was.
	if got := ledger.Lifetime("trust"); got != 100 {
		t.Errorf("Expected trust lifetime untouched by decay, got %f", got)
	}
	// hcu is not depletable and never decays.
	ledger.Add("hcu", 500)
	ledger.ApplyDecay()
	if got := ledger.GetAmount("hcu"); got != 500 {
		t.Errorf("Expected hcu untouched by decay, got %f", got)
	}
}

func TestDecayMultiplierUpgrade(t *testing.T) {
	ledger, state := newTestLedger()

	state.Upgrades["trustDampeners"].Purchased = true
	ledger.ApplyDecay()
	if got := ledger.GetAmount("trust"); math.Abs(got-99.995) > 1e-9 {
		t.Errorf("Expected dampened decay to leave 99.995, got %f", got)
	}
}

func TestApplyProductionScalesByTickAndPrestige(t *testing.T) {
	ledger, state := newTestLedger()

	// 10/s over a 100ms tick is one unit.
	ledger.ApplyProduction(map[string]float64{"hcu": 10})
	if got := ledger.GetAmount("hcu"); math.Abs(got-1) > 1e-9 {
		t.Errorf("Expected 1 hcu from one tick at 10/s, got %f", got)
	}

	state.PrestigeLevel = 1
	ledger.ApplyProduction(map[string]float64{"hcu": 10})
	if got := ledger.GetAmount("hcu"); math.Abs(got-2.25) > 1e-9 {
		t.Errorf("Expected prestige-boosted tick to add 1.25, got %f", got)
	}
}

func TestApplyProductionConsumptionUnmultiplied(t *testing.T) {
	ledger, state := newTestLedger()

	state.PrestigeLevel = 2
	ledger.Add("compute", 5)
	ledger.ApplyProduction(map[string]float64{"compute": -10})
	if got := ledger.GetAmount("compute"); math.Abs(got-4) > 1e-9 {
		t.Errorf("Expected consumption to pass through unmultiplied, got %f", got)
	}
}
