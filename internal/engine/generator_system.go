package engine

import (
	"time"

	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/rules"
	"github.com/JaySchenk/idleAiGame-sub000/internal/events"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/logger"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/metrics"
)

// inputStarvationWindow is how much input headroom (in seconds of
// operation) a consuming generator needs before it runs at all this tick.
const inputStarvationWindow = 0.1

// GeneratorPurchasePayload records a generator purchase for the audit log.
type GeneratorPurchasePayload struct {
	GeneratorID string           `json:"generator_id"`
	Owned       int              `json:"owned"`
	Cost        []resource.Stack `json:"cost"`
}

// GeneratorSystem handles the cost curve, purchase transactions and the
// per-tick production pass over all owned generators.
type GeneratorSystem struct {
	state       *GameState
	ledger      *Ledger
	multipliers *MultiplierResolver
	unlock      *UnlockEvaluator
	narratives  *NarrativeSystem
	eventLog    *events.EventLog
	logger      *logger.Logger
}

// NewGeneratorSystem creates the generator system.
func NewGeneratorSystem(state *GameState, ledger *Ledger, multipliers *MultiplierResolver, unlock *UnlockEvaluator, narratives *NarrativeSystem, eventLog *events.EventLog, log *logger.Logger) *GeneratorSystem {
	return &GeneratorSystem{
		state:       state,
		ledger:      ledger,
		multipliers: multipliers,
		unlock:      unlock,
		narratives:  narratives,
		eventLog:    eventLog,
		logger:      log,
	}
}

// Cost returns the current price of the next unit: floor(base * growth^owned)
// per cost entry. False for unknown generator ids.
func (gs *GeneratorSystem) Cost(id string) ([]resource.Stack, bool) {
	g, ok := gs.state.Generators[id]
	if !ok {
		return nil, false
	}
	costs := make([]resource.Stack, len(g.BaseCost))
	for i, c := range g.BaseCost {
		costs[i] = resource.Stack{
			Resource: c.Resource,
			Amount:   rules.GeneratorCost(c.Amount, g.GrowthRate, g.Owned),
		}
	}
	return costs, true
}

// Unlocked evaluates the generator's unlock conditions.
func (gs *GeneratorSystem) Unlocked(id string) UnlockResult {
	g, ok := gs.state.Generators[id]
	if !ok {
		return UnlockResult{Failed: []string{"unknown generator \"" + id + "\""}}
	}
	return gs.unlock.Check(g.Conditions)
}

// CanPurchase reports whether the player can afford every cost entry and
// the unlock conditions are satisfied.
func (gs *GeneratorSystem) CanPurchase(id string) bool {
	costs, ok := gs.Cost(id)
	if !ok {
		return false
	}
	if !gs.Unlocked(id).Unlocked {
		return false
	}
	return gs.ledger.CanAffordAll(costs)
}

// Purchase buys one unit: spends every cost entry all-or-nothing,
// increments owned, and runs a narrative check. False with no mutation on
// any failed precondition.
func (gs *GeneratorSystem) Purchase(id string) bool {
	if !gs.CanPurchase(id) {
		return false
	}
	costs, _ := gs.Cost(id)
	if !gs.ledger.SpendAll(costs) {
		return false
	}
	g := gs.state.Generators[id]
	g.Owned++

	gs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeGeneratorPurchase,
		ActorID:   "PLAYER",
		TargetID:  id,
		Payload:   GeneratorPurchasePayload{GeneratorID: id, Owned: g.Owned, Cost: costs},
		Tick:      gs.state.Tick,
	})
	metrics.Get().RecordGeneratorPurchase()
	gs.logger.Event("GENERATOR_PURCHASE", "PLAYER", id)

	gs.narratives.CheckAndTrigger()
	return true
}

// ProductionRate is the headline per-second output of one generator stack:
// baseProduction * owned * generator multiplier.
func (gs *GeneratorSystem) ProductionRate(id string) float64 {
	g, ok := gs.state.Generators[id]
	if !ok {
		return 0
	}
	return rules.ProductionRate(g.BaseProduction, g.Owned, gs.multipliers.GeneratorProduction(id))
}

// ResourceProduction assembles the net per-second rate map across all owned
// generators. A generator whose inputs cannot cover a tenth of a second of
// operation contributes nothing this tick: starvation is backpressure, not
// an error.
func (gs *GeneratorSystem) ResourceProduction() map[string]float64 {
	rates := make(map[string]float64)
	for _, id := range gs.state.GeneratorOrder {
		g := gs.state.Generators[id]
		if g.Owned <= 0 {
			continue
		}

		starved := false
		for _, in := range g.Inputs {
			need := in.Amount * float64(g.Owned) * inputStarvationWindow
			if gs.ledger.GetAmount(in.Resource)+resource.Epsilon < need {
				starved = true
				break
			}
		}
		if starved {
			continue
		}

		mult := gs.multipliers.GeneratorProduction(id)
		for _, in := range g.Inputs {
			rates[in.Resource] -= in.Amount * float64(g.Owned) * mult
		}
		for _, out := range g.Outputs {
			rates[out.Resource] += out.Amount * float64(g.Owned) * mult
		}
	}
	return rates
}

// Reset zeroes every owned count. Used by prestige.
func (gs *GeneratorSystem) Reset() {
	for _, g := range gs.state.Generators {
		g.Owned = 0
	}
}
