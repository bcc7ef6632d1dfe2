package engine

import (
	"sync"
	"time"

	"github.com/JaySchenk/idleAiGame-sub000/internal/config"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/narrative"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/rules"
	"github.com/JaySchenk/idleAiGame-sub000/internal/events"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/logger"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/metrics"
)

// ClickPayload records a manual click for the audit log.
type ClickPayload struct {
	Resource string  `json:"resource"`
	Amount   float64 `json:"amount"`
}

// TickPayload records one simulation step for the audit log.
type TickPayload struct {
	Tick      int64 `json:"tick"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

// Engine is the central orchestrator of one running game. All entry points
// take the engine mutex, so callers from the scheduler goroutine, the
// websocket hub and the HTTP handlers never race.
type Engine struct {
	mu sync.Mutex

	pack     *config.ContentPack
	eventLog *events.EventLog
	logger   *logger.Logger
	now      func() time.Time

	state       *GameState
	ledger      *Ledger
	multipliers *MultiplierResolver
	unlock      *UnlockEvaluator
	narratives  *NarrativeSystem
	generators  *GeneratorSystem
	upgrades    *UpgradeSystem
	prestige    *PrestigeSystem
	task        *TaskSystem

	narrativeSubs []func(*narrative.Event)
}

// NewEngine creates an engine on the wall clock.
func NewEngine(pack *config.ContentPack, eventLog *events.EventLog, log *logger.Logger) *Engine {
	return NewEngineWithClock(pack, eventLog, log, time.Now)
}

// NewEngineWithClock creates an engine with an injected time source, used
// by tests and the headless simulator to run the game deterministically.
func NewEngineWithClock(pack *config.ContentPack, eventLog *events.EventLog, log *logger.Logger, now func() time.Time) *Engine {
	e := &Engine{
		pack:     pack,
		eventLog: eventLog,
		logger:   log,
		now:      now,
	}
	e.rebuild(nil)
	return e
}

// rebuild wires a fresh GameState and all systems, optionally restoring a
// snapshot. Narrative subscribers survive the rebuild.
func (e *Engine) rebuild(snap *Snapshot) {
	state := NewGameState(e.pack, e.now)

	if snap != nil {
		state.PrestigeLevel = snap.PrestigeLevel
		state.Tick = snap.Tick
		state.StartFired = snap.StartFired
		state.startedAt = state.now().Add(-time.Duration(snap.ElapsedMs) * time.Millisecond)
		for _, rs := range snap.Resources {
			r, ok := state.Resources[rs.ID]
			if !ok {
				r = &resource.Resource{ID: rs.ID, Name: rs.ID}
				state.Resources[rs.ID] = r
			}
			r.Amount = rs.Amount
			r.Lifetime = rs.Lifetime
		}
		for _, gs := range snap.Generators {
			if g, ok := state.Generators[gs.ID]; ok {
				g.Owned = gs.Owned
			}
		}
		for _, id := range snap.UpgradesPurchased {
			if u, ok := state.Upgrades[id]; ok {
				u.Purchased = true
			}
		}
	}

	e.state = state
	e.multipliers = NewMultiplierResolver(state)
	e.ledger = NewLedger(state, e.multipliers, e.pack.Balance, e.logger)
	e.unlock = NewUnlockEvaluator(state)
	e.narratives = NewNarrativeSystem(state, e.ledger, e.unlock, e.eventLog, e.logger)
	e.generators = NewGeneratorSystem(state, e.ledger, e.multipliers, e.unlock, e.narratives, e.eventLog, e.logger)
	e.upgrades = NewUpgradeSystem(state, e.ledger, e.unlock, e.narratives, e.eventLog, e.logger)
	e.prestige = NewPrestigeSystem(state, e.pack.Balance, e.ledger, e.generators, e.upgrades, e.narratives, e.eventLog, e.logger)

	taskStart := state.startedAt
	if snap != nil {
		taskStart = state.now().Add(-time.Duration(snap.TaskElapsedMs) * time.Millisecond)
	}
	e.task = NewTaskSystem(e.pack.Task, state, e.ledger, e.eventLog, e.logger, taskStart)

	if snap != nil {
		e.narratives.RestoreViewed(snap.NarrativesViewed)
		e.narratives.RestorePending(snap.PendingNarratives)
	}
	for _, cb := range e.narrativeSubs {
		e.narratives.Subscribe(cb)
	}
}

// Balance exposes the tuning constants the engine was built with.
func (e *Engine) Balance() config.BalanceConfig {
	return e.pack.Balance
}

// Start fires the once-per-game opening narrative check. Subsequent calls
// are no-ops, including after a snapshot restore.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.StartFired {
		return
	}
	e.state.StartFired = true
	e.logger.Info("Game engine started.")
	e.narratives.CheckAndTrigger()
}

// Tick advances the simulation one step. Phase order is contractual:
// production, task, narratives, decay.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	started := time.Now()
	e.state.Tick++

	rates := e.generators.ResourceProduction()
	e.ledger.ApplyProduction(rates)

	now := e.state.Now()
	if e.task.Progress(now).IsComplete {
		e.task.Complete(now)
	}

	e.narratives.CheckAndTrigger()
	e.ledger.ApplyDecay()

	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeTimeTick,
		ActorID:   "SYSTEM_TICKER",
		Payload:   TickPayload{Tick: e.state.Tick, ElapsedMs: e.state.ElapsedMs()},
		Tick:      e.state.Tick,
	})
	metrics.Get().RecordTick(time.Since(started))
}

// Click performs one manual click on the primary resource and returns the
// amount earned.
func (e *Engine) Click() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	balance := e.pack.Balance
	amount := balance.ClickPower *
		e.multipliers.Click() *
		rules.PrestigeMultiplier(balance.PrestigeBase, e.state.PrestigeLevel)
	e.ledger.Add(balance.PrimaryResource, amount)

	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeClick,
		ActorID:   "PLAYER",
		TargetID:  balance.PrimaryResource,
		Payload:   ClickPayload{Resource: balance.PrimaryResource, Amount: amount},
		Tick:      e.state.Tick,
	})
	metrics.Get().RecordClick()

	e.narratives.CheckAndTrigger()
	return amount
}

// AddResource credits a resource directly, subject to the usual capacity
// clamp. Used by admin tooling and tests.
func (e *Engine) AddResource(id string, amount float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger.Add(id, amount)
}

// ResourceAmount returns the current amount of a resource.
func (e *Engine) ResourceAmount(id string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.GetAmount(id)
}

// LifetimeEarned returns the lifetime-earned total of a resource.
func (e *Engine) LifetimeEarned(id string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Lifetime(id)
}

// GeneratorOwned returns how many units of a generator are owned.
func (e *Engine) GeneratorOwned(id string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g, ok := e.state.Generators[id]; ok {
		return g.Owned
	}
	return 0
}

// GeneratorCost returns the current cost of the next unit.
func (e *Engine) GeneratorCost(id string) ([]resource.Stack, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generators.Cost(id)
}

// CanBuyGenerator reports whether a purchase would succeed right now.
func (e *Engine) CanBuyGenerator(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generators.CanPurchase(id)
}

// BuyGenerator attempts to purchase one unit of a generator.
func (e *Engine) BuyGenerator(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generators.Purchase(id)
}

// CanBuyUpgrade reports whether an upgrade purchase would succeed right now.
func (e *Engine) CanBuyUpgrade(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.upgrades.CanPurchase(id)
}

// BuyUpgrade attempts to purchase an upgrade.
func (e *Engine) BuyUpgrade(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.upgrades.Purchase(id)
}

// UpgradePurchased reports whether an upgrade has been bought.
func (e *Engine) UpgradePurchased(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if u, ok := e.state.Upgrades[id]; ok {
		return u.Purchased
	}
	return false
}

// CanPrestige reports whether the reset threshold has been reached.
func (e *Engine) CanPrestige() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prestige.CanPrestige()
}

// Prestige performs the voluntary reset when eligible.
func (e *Engine) Prestige() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prestige.Perform()
}

// PrestigeLevel returns the number of resets performed.
func (e *Engine) PrestigeLevel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.PrestigeLevel
}

// PrestigeMultiplier returns the current permanent production bonus.
func (e *Engine) PrestigeMultiplier() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prestige.Multiplier()
}

// TaskProgress reports the state of the recurring task.
func (e *Engine) TaskProgress() TaskProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.task.Progress(e.state.Now())
}

// OnNarrative registers a callback fired synchronously on every narrative
// trigger. The registration survives snapshot restores.
func (e *Engine) OnNarrative(cb func(*narrative.Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.narrativeSubs = append(e.narrativeSubs, cb)
	e.narratives.Subscribe(cb)
}

// HasPendingNarratives reports whether triggered events await display.
func (e *Engine) HasPendingNarratives() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.narratives.HasPending()
}

// NextPendingNarrative dequeues the oldest undisplayed event, nil when the
// queue is empty.
func (e *Engine) NextPendingNarrative() *narrative.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.narratives.NextPending()
}

// CurrentTick returns the simulation step counter.
func (e *Engine) CurrentTick() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Tick
}

// Snapshot captures the full game state in serializable form.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.state.Now()
	snap := Snapshot{
		PrestigeLevel: e.state.PrestigeLevel,
		Tick:          e.state.Tick,
		ElapsedMs:     e.state.ElapsedMs(),
		StartFired:    e.state.StartFired,
		TaskElapsedMs: now.Sub(e.task.StartedAt()).Milliseconds(),
	}
	for _, id := range sortedResourceIDs(e.state.Resources) {
		r := e.state.Resources[id]
		snap.Resources = append(snap.Resources, ResourceSnapshot{ID: r.ID, Amount: r.Amount, Lifetime: r.Lifetime})
	}
	for _, id := range e.state.GeneratorOrder {
		snap.Generators = append(snap.Generators, GeneratorSnapshot{ID: id, Owned: e.state.Generators[id].Owned})
	}
	for _, id := range e.state.UpgradeOrder {
		if e.state.Upgrades[id].Purchased {
			snap.UpgradesPurchased = append(snap.UpgradesPurchased, id)
		}
	}
	for _, n := range e.state.Narratives {
		if n.Viewed {
			snap.NarrativesViewed = append(snap.NarrativesViewed, n.ID)
		}
	}
	snap.PendingNarratives = e.narratives.PendingIDs()
	return snap
}

// Restore replaces the running game with a snapshot. The content pack stays
// the one the engine was built with.
func (e *Engine) Restore(snap Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rebuild(&snap)
	e.logger.Info("Game state restored from snapshot.")
}
