package engine

import (
	"time"

	"github.com/JaySchenk/idleAiGame-sub000/internal/config"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/rules"
	"github.com/JaySchenk/idleAiGame-sub000/internal/events"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/logger"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/metrics"
)

// PrestigePayload records a prestige reset for the audit log.
type PrestigePayload struct {
	NewLevel      int     `json:"new_level"`
	NewMultiplier float64 `json:"new_multiplier"`
}

// PrestigeSystem computes eligibility for the voluntary reset and executes
// it: level up, zero the primary resource, wipe generators and upgrades,
// keep narrative history and every other accumulator.
type PrestigeSystem struct {
	state      *GameState
	balance    config.BalanceConfig
	ledger     *Ledger
	generators *GeneratorSystem
	upgrades   *UpgradeSystem
	narratives *NarrativeSystem
	eventLog   *events.EventLog
	logger     *logger.Logger
}

// NewPrestigeSystem creates the prestige controller.
func NewPrestigeSystem(state *GameState, balance config.BalanceConfig, ledger *Ledger, generators *GeneratorSystem, upgrades *UpgradeSystem, narratives *NarrativeSystem, eventLog *events.EventLog, log *logger.Logger) *PrestigeSystem {
	return &PrestigeSystem{
		state:      state,
		balance:    balance,
		ledger:     ledger,
		generators: generators,
		upgrades:   upgrades,
		narratives: narratives,
		eventLog:   eventLog,
		logger:     log,
	}
}

// Multiplier is the current permanent global bonus: base^level.
func (ps *PrestigeSystem) Multiplier() float64 {
	return rules.PrestigeMultiplier(ps.balance.PrestigeBase, ps.state.PrestigeLevel)
}

// NextMultiplier previews the bonus after one more prestige.
func (ps *PrestigeSystem) NextMultiplier() float64 {
	return rules.PrestigeMultiplier(ps.balance.PrestigeBase, ps.state.PrestigeLevel+1)
}

// Threshold is the primary-resource amount required to prestige now.
func (ps *PrestigeSystem) Threshold() float64 {
	return rules.PrestigeThreshold(ps.balance.PrestigeThresholdBase, ps.balance.PrestigeThresholdGrowth, ps.state.PrestigeLevel)
}

// CanPrestige reports whether the primary resource has reached the threshold.
func (ps *PrestigeSystem) CanPrestige() bool {
	return ps.ledger.GetAmount(ps.balance.PrimaryResource) >= ps.Threshold()
}

// Perform executes the reset. Order matters: the narrative check runs
// against the pre-reset world, then the level increments, the primary
// resource zeroes (lifetime untouched), generators and upgrades wipe, and
// the pending narrative queue clears while viewed history survives.
func (ps *PrestigeSystem) Perform() bool {
	if !ps.CanPrestige() {
		return false
	}

	ps.narratives.CheckAndTrigger()

	ps.state.PrestigeLevel++
	if r, ok := ps.state.Resources[ps.balance.PrimaryResource]; ok {
		r.Amount = 0
	}
	ps.generators.Reset()
	ps.upgrades.Reset()
	ps.narratives.ResetForPrestige()

	ps.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypePrestige,
		ActorID:   "PLAYER",
		Payload:   PrestigePayload{NewLevel: ps.state.PrestigeLevel, NewMultiplier: ps.Multiplier()},
		Tick:      ps.state.Tick,
	})
	metrics.Get().RecordPrestige()
	ps.logger.Event("PRESTIGE", "PLAYER", "level up")
	return true
}
