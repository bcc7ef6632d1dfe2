package engine

import "testing"

func TestUpgradePurchaseOnce(t *testing.T) {
	eng, _ := newTestEngine()
	eng.Start()

	eng.AddResource("hcu", 100)
	if !eng.BuyUpgrade("ergonomicClickers") {
		t.Fatalf("Expected first purchase to succeed")
	}
	if got := eng.ResourceAmount("hcu"); got != 50 {
		t.Errorf("Expected 50 hcu left after the 50 cost, got %f", got)
	}
	if eng.CanBuyUpgrade("ergonomicClickers") {
		t.Errorf("Expected purchased upgrade to be unbuyable")
	}
	if eng.BuyUpgrade("ergonomicClickers") {
		t.Errorf("Expected repeat purchase to fail")
	}
	if got := eng.ResourceAmount("hcu"); got != 50 {
		t.Errorf("Expected failed repeat to charge nothing, got %f", got)
	}
}

func TestUpgradeRequiresUnlock(t *testing.T) {
	eng, _ := newTestEngine()
	eng.Start()

	eng.AddResource("hcu", 5000)
	if eng.CanBuyUpgrade("optimizedAlgorithms") {
		t.Errorf("Expected optimizedAlgorithms locked without 5 farms")
	}
	// syntheticAudience chains off the optimizedAlgorithms purchase.
	if eng.CanBuyUpgrade("syntheticAudience") {
		t.Errorf("Expected syntheticAudience locked behind its prerequisite")
	}

	for i := 0; i < 3; i++ {
		eng.BuyGenerator("basicAdBotFarm")
	}
	if eng.CanBuyUpgrade("optimizedAlgorithms") {
		t.Errorf("Expected optimizedAlgorithms still locked at 3 farms")
	}
	eng.BuyGenerator("basicAdBotFarm")
	eng.BuyGenerator("basicAdBotFarm")
	if !eng.BuyUpgrade("optimizedAlgorithms") {
		t.Fatalf("Expected optimizedAlgorithms purchasable at 5 farms")
	}
	if !eng.CanBuyUpgrade("syntheticAudience") {
		t.Errorf("Expected syntheticAudience to unlock after its prerequisite")
	}
}

func TestDoctrineBranchesAreExclusive(t *testing.T) {
	eng, _ := newTestEngine()
	eng.Start()

	eng.AddResource("hcu", 2000)
	if !eng.BuyUpgrade("fullAutomation") {
		t.Fatalf("Expected fullAutomation purchase to succeed")
	}
	if eng.CanBuyUpgrade("humanOversight") {
		t.Errorf("Expected fullAutomation to close the oversight branch")
	}
	if eng.BuyUpgrade("humanOversight") {
		t.Errorf("Expected oversight purchase to fail")
	}
}

func TestGlobalResourceUpgradeBoostsProduction(t *testing.T) {
	eng, clock := newTestEngine()
	eng.Start()

	eng.AddResource("hcu", 10)
	eng.BuyGenerator("basicAdBotFarm")
	eng.state.Upgrades["syntheticAudience"].Purchased = true

	// 1/s boosted 1.5x over ten 100ms ticks.
	runTicks(eng, clock, 10)
	if got := eng.ResourceAmount("hcu"); got < 1.49 || got > 1.51 {
		t.Errorf("Expected roughly 1.5 hcu after 10 boosted ticks, got %f", got)
	}
}
