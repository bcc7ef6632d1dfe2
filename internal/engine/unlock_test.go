package engine

import (
	"testing"
	"time"

	"github.com/JaySchenk/idleAiGame-sub000/internal/config"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/condition"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func bptr(v bool) *bool       { return &v }

func newTestEvaluator() (*UnlockEvaluator, *GameState, *fakeClock) {
	clock := newFakeClock()
	state := NewGameState(config.Default(), clock.Now)
	return NewUnlockEvaluator(state), state, clock
}

func TestEmptyConditionsAlwaysUnlocked(t *testing.T) {
	u, _, _ := newTestEvaluator()

	res := u.Check(nil)
	if !res.Unlocked || !res.Visible {
		t.Errorf("Expected nil conditions to be unlocked and visible, got %+v", res)
	}
}

func TestResourceThreshold(t *testing.T) {
	u, state, _ := newTestEvaluator()

	conds := []condition.Condition{
		{Type: condition.TypeResource, Target: "hcu", MinAmount: fptr(50)},
	}
	if u.Check(conds).Unlocked {
		t.Errorf("Expected 0 hcu to fail a min 50 gate")
	}

	state.Resources["hcu"].Amount = 50
	if !u.Check(conds).Unlocked {
		t.Errorf("Expected exactly 50 hcu to pass a min 50 gate")
	}
}

func TestResourceOperators(t *testing.T) {
	u, state, _ := newTestEvaluator()
	state.Resources["hcu"].Amount = 5

	lt := []condition.Condition{
		{Type: condition.TypeResource, Target: "hcu", MinAmount: fptr(10), Operator: condition.OpLT},
	}
	if !u.Check(lt).Unlocked {
		t.Errorf("Expected 5 < 10 to pass")
	}

	eq := []condition.Condition{
		{Type: condition.TypeResource, Target: "hcu", MinAmount: fptr(5), Operator: condition.OpEQ},
	}
	if !u.Check(eq).Unlocked {
		t.Errorf("Expected 5 == 5 to pass")
	}

	neq := []condition.Condition{
		{Type: condition.TypeResource, Target: "hcu", MinAmount: fptr(5), Operator: condition.OpNEQ},
	}
	if u.Check(neq).Unlocked {
		t.Errorf("Expected 5 != 5 to fail")
	}
}

func TestResourceBandBindsOperatorToMinimum(t *testing.T) {
	u, state, _ := newTestEvaluator()

	// With both bounds set the operator gates the minimum and the maximum
	// defaults to <=.
	conds := []condition.Condition{
		{Type: condition.TypeResource, Target: "trust", MinAmount: fptr(10), MaxAmount: fptr(50), Operator: condition.OpGTE},
	}

	state.Resources["trust"].Amount = 30
	if !u.Check(conds).Unlocked {
		t.Errorf("Expected 30 to sit inside the [10, 50] band")
	}
	state.Resources["trust"].Amount = 80
	if u.Check(conds).Unlocked {
		t.Errorf("Expected 80 to fail the band maximum")
	}
	state.Resources["trust"].Amount = 5
	if u.Check(conds).Unlocked {
		t.Errorf("Expected 5 to fail the band minimum")
	}
}

func TestUnknownTargetsFailSafely(t *testing.T) {
	u, _, _ := newTestEvaluator()

	cases := [][]condition.Condition{
		{{Type: condition.TypeResource, Target: "darkMatter", MinAmount: fptr(1)}},
		{{Type: condition.TypeGenerator, Target: "quantumFarm", MinOwned: iptr(1)}},
		{{Type: condition.TypeUpgrade, Target: "timeTravel"}},
		{{Type: condition.TypeNarrative, Target: "neverWritten"}},
		{{Type: "teleport", Target: "anywhere"}},
	}
	for i, conds := range cases {
		res := u.Check(conds)
		if res.Unlocked {
			t.Errorf("Case %d: expected unknown target to fail", i)
		}
		if len(res.Failed) == 0 {
			t.Errorf("Case %d: expected a failure message", i)
		}
	}
}

func TestGeneratorOwnedBounds(t *testing.T) {
	u, state, _ := newTestEvaluator()
	state.Generators["basicAdBotFarm"].Owned = 5

	min := []condition.Condition{
		{Type: condition.TypeGenerator, Target: "basicAdBotFarm", MinOwned: iptr(5)},
	}
	if !u.Check(min).Unlocked {
		t.Errorf("Expected owned 5 to pass a min 5 gate")
	}

	max := []condition.Condition{
		{Type: condition.TypeGenerator, Target: "basicAdBotFarm", MaxOwned: iptr(3)},
	}
	if u.Check(max).Unlocked {
		t.Errorf("Expected owned 5 to fail a max 3 gate")
	}
}

func TestUpgradeExclusionBranch(t *testing.T) {
	u, state, _ := newTestEvaluator()

	oversight := []condition.Condition{
		{Type: condition.TypeNotUpgrade, Target: "fullAutomation"},
	}
	if !u.Check(oversight).Unlocked {
		t.Errorf("Expected oversight branch open while automation unpurchased")
	}

	state.Upgrades["fullAutomation"].Purchased = true
	if u.Check(oversight).Unlocked {
		t.Errorf("Expected automation purchase to close the oversight branch")
	}
}

func TestNarrativeViewedGate(t *testing.T) {
	u, state, _ := newTestEvaluator()

	conds := []condition.Condition{
		{Type: condition.TypeNarrative, Target: "feedGoesLive"},
	}
	if u.Check(conds).Unlocked {
		t.Errorf("Expected unviewed narrative to gate")
	}
	state.FindNarrative("feedGoesLive").Viewed = true
	if !u.Check(conds).Unlocked {
		t.Errorf("Expected viewed narrative to unlock")
	}
}

func TestPrestigeAndTimeConditions(t *testing.T) {
	u, state, clock := newTestEvaluator()

	prestige := []condition.Condition{{Type: condition.TypePrestige, MinLevel: 1}}
	if u.Check(prestige).Unlocked {
		t.Errorf("Expected level 0 to fail a min level 1 gate")
	}
	state.PrestigeLevel = 1
	if !u.Check(prestige).Unlocked {
		t.Errorf("Expected level 1 to pass")
	}

	timed := []condition.Condition{{Type: condition.TypeTime, MinElapsedMs: 60000}}
	if u.Check(timed).Unlocked {
		t.Errorf("Expected fresh game to fail a 60s gate")
	}
	clock.Advance(time.Minute)
	if !u.Check(timed).Unlocked {
		t.Errorf("Expected 60s of play to pass")
	}
}

func TestMultipleOrLogic(t *testing.T) {
	u, state, _ := newTestEvaluator()

	conds := []condition.Condition{{
		Type:  condition.TypeMultiple,
		Logic: condition.LogicOr,
		Conditions: []condition.Condition{
			{Type: condition.TypeResource, Target: "hcu", MinAmount: fptr(1000)},
			{Type: condition.TypeGenerator, Target: "basicAdBotFarm", MinOwned: iptr(1)},
		},
	}}

	res := u.Check(conds)
	if res.Unlocked {
		t.Fatalf("Expected both branches to fail initially")
	}
	if len(res.Failed) != 2 {
		t.Errorf("Expected one message per failed branch, got %v", res.Failed)
	}

	state.Generators["basicAdBotFarm"].Owned = 1
	res = u.Check(conds)
	if !res.Unlocked {
		t.Errorf("Expected one satisfied branch to unlock an OR group")
	}
	if len(res.Failed) != 0 {
		t.Errorf("Expected no failure messages once a branch passes, got %v", res.Failed)
	}
}

func TestMultipleNestedAnd(t *testing.T) {
	u, state, _ := newTestEvaluator()

	conds := []condition.Condition{{
		Type: condition.TypeMultiple,
		Conditions: []condition.Condition{
			{Type: condition.TypeResource, Target: "hcu", MinAmount: fptr(100)},
			{
				Type:  condition.TypeMultiple,
				Logic: condition.LogicOr,
				Conditions: []condition.Condition{
					{Type: condition.TypePrestige, MinLevel: 1},
					{Type: condition.TypeGenerator, Target: "serverCluster", MinOwned: iptr(1)},
				},
			},
		},
	}}

	state.Resources["hcu"].Amount = 100
	if u.Check(conds).Unlocked {
		t.Fatalf("Expected inner OR to still gate")
	}
	state.Generators["serverCluster"].Owned = 1
	if !u.Check(conds).Unlocked {
		t.Errorf("Expected nested group to unlock")
	}
}

func TestHiddenConditionControlsVisibility(t *testing.T) {
	u, state, _ := newTestEvaluator()

	conds := []condition.Condition{
		{Type: condition.TypeResource, Target: "hcu", MinAmount: fptr(50), Visible: bptr(false)},
	}

	res := u.Check(conds)
	if res.Unlocked {
		t.Fatalf("Expected gate to hold")
	}
	if res.Visible {
		t.Errorf("Expected unsatisfied hidden condition to hide the item")
	}

	state.Resources["hcu"].Amount = 50
	res = u.Check(conds)
	if !res.Unlocked || !res.Visible {
		t.Errorf("Expected satisfied condition to unlock and show, got %+v", res)
	}
}

func TestAchievementConditionReserved(t *testing.T) {
	u, _, _ := newTestEvaluator()

	conds := []condition.Condition{{Type: condition.TypeAchievement, Target: "firstMillion"}}
	if u.Check(conds).Unlocked {
		t.Errorf("Expected achievement conditions to gate until a backing system exists")
	}
}
