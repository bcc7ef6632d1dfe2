package engine

import (
	"fmt"

	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/condition"
)

// UnlockResult is the outcome of evaluating a condition list.
type UnlockResult struct {
	// Unlocked reports whether every gate passed.
	Unlocked bool
	// Visible reports whether a locked item should still be shown
	// (disabled) rather than hidden outright.
	Visible bool
	// Failed holds one descriptive message per unsatisfied condition.
	Failed []string
}

// UnlockEvaluator evaluates unlock-condition trees against the current game
// state. It is pure: safe to call every tick for every gated entity.
type UnlockEvaluator struct {
	state *GameState
}

// NewUnlockEvaluator binds an evaluator to a game state.
func NewUnlockEvaluator(state *GameState) *UnlockEvaluator {
	return &UnlockEvaluator{state: state}
}

// Check evaluates a condition list with AND semantics. An empty or nil list
// is unconditionally unlocked and visible.
func (u *UnlockEvaluator) Check(conds []condition.Condition) UnlockResult {
	result := UnlockResult{Unlocked: true, Visible: true}
	for _, c := range conds {
		ok, vis, failed := u.eval(c)
		result.Unlocked = result.Unlocked && ok
		result.Visible = result.Visible && vis
		result.Failed = append(result.Failed, failed...)
	}
	return result
}

// eval evaluates a single condition node. It never panics: unknown types
// and missing referenced entities are failures with descriptive messages.
func (u *UnlockEvaluator) eval(c condition.Condition) (ok bool, visible bool, failed []string) {
	switch c.Type {
	case condition.TypeResource:
		ok, failed = u.evalResource(c)
	case condition.TypeGenerator:
		ok, failed = u.evalGenerator(c)
	case condition.TypeUpgrade:
		ok, failed = u.evalUpgrade(c, true)
	case condition.TypeNotUpgrade:
		ok, failed = u.evalUpgrade(c, false)
	case condition.TypeNarrative:
		ok, failed = u.evalNarrative(c)
	case condition.TypePrestige:
		if u.state.PrestigeLevel < c.MinLevel {
			failed = append(failed, fmt.Sprintf("prestige level %d below required %d", u.state.PrestigeLevel, c.MinLevel))
		}
		ok = len(failed) == 0
	case condition.TypeTime:
		if elapsed := u.state.ElapsedMs(); elapsed < c.MinElapsedMs {
			failed = append(failed, fmt.Sprintf("elapsed play time %dms below required %dms", elapsed, c.MinElapsedMs))
		}
		ok = len(failed) == 0
	case condition.TypeAchievement:
		// Reserved: achievements have no backing system yet.
		failed = append(failed, fmt.Sprintf("achievement condition %q is not implemented", c.Target))
	case condition.TypeMultiple:
		return u.evalMultiple(c)
	default:
		failed = append(failed, fmt.Sprintf("unknown condition type %q", c.Type))
	}

	// A satisfied condition never hides its item; an unsatisfied one hides
	// it only when flagged invisible.
	return ok, ok || c.IsVisible(), failed
}

func (u *UnlockEvaluator) evalResource(c condition.Condition) (bool, []string) {
	r, exists := u.state.Resources[c.Target]
	if !exists {
		return false, []string{fmt.Sprintf("unknown resource %q", c.Target)}
	}

	var failed []string
	if c.MinAmount != nil && !condition.Compare(r.Amount, *c.MinAmount, c.Operator) {
		op := c.Operator
		if op == "" {
			op = condition.OpGTE
		}
		failed = append(failed, fmt.Sprintf("resource %q amount %.2f not %s %.2f", c.Target, r.Amount, op, *c.MinAmount))
	}
	if c.MaxAmount != nil {
		op := c.Operator
		if c.MinAmount != nil || op == "" {
			// The operator belongs to the minimum when both bounds are set.
			op = condition.OpLTE
		}
		if !condition.Compare(r.Amount, *c.MaxAmount, op) {
			failed = append(failed, fmt.Sprintf("resource %q amount %.2f not %s %.2f", c.Target, r.Amount, op, *c.MaxAmount))
		}
	}
	return len(failed) == 0, failed
}

func (u *UnlockEvaluator) evalGenerator(c condition.Condition) (bool, []string) {
	g, exists := u.state.Generators[c.Target]
	if !exists {
		return false, []string{fmt.Sprintf("unknown generator %q", c.Target)}
	}

	var failed []string
	if c.MinOwned != nil && g.Owned < *c.MinOwned {
		failed = append(failed, fmt.Sprintf("generator %q owned %d below required %d", c.Target, g.Owned, *c.MinOwned))
	}
	if c.MaxOwned != nil && g.Owned > *c.MaxOwned {
		failed = append(failed, fmt.Sprintf("generator %q owned %d above allowed %d", c.Target, g.Owned, *c.MaxOwned))
	}
	return len(failed) == 0, failed
}

func (u *UnlockEvaluator) evalUpgrade(c condition.Condition, wantPurchased bool) (bool, []string) {
	up, exists := u.state.Upgrades[c.Target]
	if !exists {
		return false, []string{fmt.Sprintf("unknown upgrade %q", c.Target)}
	}
	if up.Purchased != wantPurchased {
		if wantPurchased {
			return false, []string{fmt.Sprintf("upgrade %q not purchased", c.Target)}
		}
		return false, []string{fmt.Sprintf("upgrade %q already purchased", c.Target)}
	}
	return true, nil
}

func (u *UnlockEvaluator) evalNarrative(c condition.Condition) (bool, []string) {
	n := u.state.FindNarrative(c.Target)
	if n == nil {
		return false, []string{fmt.Sprintf("unknown narrative %q", c.Target)}
	}
	if !n.Viewed {
		return false, []string{fmt.Sprintf("narrative %q not viewed", c.Target)}
	}
	return true, nil
}

func (u *UnlockEvaluator) evalMultiple(c condition.Condition) (bool, bool, []string) {
	if len(c.Conditions) == 0 {
		return true, true, nil
	}

	if c.EffectiveLogic() == condition.LogicOr {
		anyOk := false
		anyVisible := false
		var allFailed []string
		for _, sub := range c.Conditions {
			ok, vis, failed := u.eval(sub)
			anyOk = anyOk || ok
			anyVisible = anyVisible || vis
			allFailed = append(allFailed, failed...)
		}
		if anyOk {
			// Failure messages only matter when no branch succeeded.
			allFailed = nil
		}
		visible := anyVisible && (anyOk || c.IsVisible())
		return anyOk, visible, allFailed
	}

	allOk := true
	allVisible := true
	var allFailed []string
	for _, sub := range c.Conditions {
		ok, vis, failed := u.eval(sub)
		allOk = allOk && ok
		allVisible = allVisible && vis
		allFailed = append(allFailed, failed...)
	}
	visible := allVisible && (allOk || c.IsVisible())
	return allOk, visible, allFailed
}
