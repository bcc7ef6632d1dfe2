package engine

import (
	"time"

	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
	"github.com/JaySchenk/idleAiGame-sub000/internal/events"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/logger"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/metrics"
)

// UpgradePurchasePayload records an upgrade purchase for the audit log.
type UpgradePurchasePayload struct {
	UpgradeID string           `json:"upgrade_id"`
	Cost      []resource.Stack `json:"cost"`
}

// UpgradeSystem handles one-time upgrade purchases and their permanent
// activation.
type UpgradeSystem struct {
	state      *GameState
	ledger     *Ledger
	unlock     *UnlockEvaluator
	narratives *NarrativeSystem
	eventLog   *events.EventLog
	logger     *logger.Logger
}

// NewUpgradeSystem creates the upgrade system.
func NewUpgradeSystem(state *GameState, ledger *Ledger, unlock *UnlockEvaluator, narratives *NarrativeSystem, eventLog *events.EventLog, log *logger.Logger) *UpgradeSystem {
	return &UpgradeSystem{
		state:      state,
		ledger:     ledger,
		unlock:     unlock,
		narratives: narratives,
		eventLog:   eventLog,
		logger:     log,
	}
}

// RequirementsMet evaluates the upgrade's unlock conditions. False for
// unknown ids.
func (us *UpgradeSystem) RequirementsMet(id string) bool {
	u, ok := us.state.Upgrades[id]
	if !ok {
		return false
	}
	return us.unlock.Check(u.Conditions).Unlocked
}

// Requirements exposes the full evaluation for display layers.
func (us *UpgradeSystem) Requirements(id string) UnlockResult {
	u, ok := us.state.Upgrades[id]
	if !ok {
		return UnlockResult{Failed: []string{"unknown upgrade \"" + id + "\""}}
	}
	return us.unlock.Check(u.Conditions)
}

// CanPurchase is true iff the upgrade exists, is not already purchased, its
// requirements are met, and every cost entry is affordable.
func (us *UpgradeSystem) CanPurchase(id string) bool {
	u, ok := us.state.Upgrades[id]
	if !ok || u.Purchased {
		return false
	}
	if !us.unlock.Check(u.Conditions).Unlocked {
		return false
	}
	return us.ledger.CanAffordAll(u.Costs)
}

// Purchase buys the upgrade: spends all costs, flips it to purchased
// permanently, and runs a narrative check. Idempotent against double
// purchase: the second call returns false with no mutation.
func (us *UpgradeSystem) Purchase(id string) bool {
	if !us.CanPurchase(id) {
		return false
	}
	u := us.state.Upgrades[id]
	if !us.ledger.SpendAll(u.Costs) {
		return false
	}
	u.Purchased = true

	us.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeUpgradePurchase,
		ActorID:   "PLAYER",
		TargetID:  id,
		Payload:   UpgradePurchasePayload{UpgradeID: id, Cost: u.Costs},
		Tick:      us.state.Tick,
	})
	metrics.Get().RecordUpgradePurchase()
	us.logger.Event("UPGRADE_PURCHASE", "PLAYER", id)

	us.narratives.CheckAndTrigger()
	return true
}

// Reset clears every purchase flag. Used by prestige; narrative viewed
// state is deliberately untouched.
func (us *UpgradeSystem) Reset() {
	for _, u := range us.state.Upgrades {
		u.Purchased = false
	}
}
