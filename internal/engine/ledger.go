package engine

import (
	"math"

	"github.com/JaySchenk/idleAiGame-sub000/internal/config"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/rules"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/logger"
)

// Ledger owns every resource mutation: additions with capacity clamping,
// atomic spends, decay and the per-tick production pass. Lifetime totals
// accumulate only the positive portion of deltas.
type Ledger struct {
	state       *GameState
	multipliers *MultiplierResolver
	balance     config.BalanceConfig
	logger      *logger.Logger
}

// NewLedger creates the resource ledger.
func NewLedger(state *GameState, multipliers *MultiplierResolver, balance config.BalanceConfig, log *logger.Logger) *Ledger {
	return &Ledger{
		state:       state,
		multipliers: multipliers,
		balance:     balance,
		logger:      log,
	}
}

// GetAmount returns the current amount of a resource, 0 when uninitialized.
func (l *Ledger) GetAmount(id string) float64 {
	if r, ok := l.state.Resources[id]; ok {
		return r.Amount
	}
	return 0
}

// Lifetime returns the lifetime-earned total of a resource, 0 when uninitialized.
func (l *Ledger) Lifetime(id string) float64 {
	if r, ok := l.state.Resources[id]; ok {
		return r.Lifetime
	}
	return 0
}

// ensure returns the resource record, creating a bare one on first use so
// speculative ids from content never crash the ledger.
func (l *Ledger) ensure(id string) *resource.Resource {
	r, ok := l.state.Resources[id]
	if !ok {
		r = &resource.Resource{ID: id, Name: id}
		l.state.Resources[id] = r
	}
	return r
}

// Add applies a delta to a resource, clamping to [0, effective capacity].
// Lifetime grows by max(0, amount) regardless of clamping.
func (l *Ledger) Add(id string, amount float64) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		l.logger.Warn("Ledger rejected non-finite delta for resource " + id)
		return
	}

	r := l.ensure(id)
	next := r.Amount + amount
	if r.MaxCapacity != nil {
		effectiveMax := *r.MaxCapacity + l.multipliers.CapacityModifier(id)
		if next > effectiveMax {
			next = effectiveMax
		}
	}
	if next < 0 {
		next = 0
	}
	if math.Abs(next) < resource.Epsilon {
		next = 0
	}
	r.Amount = next
	if amount > 0 {
		r.Lifetime += amount
	}
}

// CanAfford is a pure comparison against the current amount.
func (l *Ledger) CanAfford(id string, amount float64) bool {
	return l.GetAmount(id)+resource.Epsilon >= amount
}

// CanAffordAll checks every entry of a cost list.
func (l *Ledger) CanAffordAll(costs []resource.Stack) bool {
	for _, c := range costs {
		if !l.CanAfford(c.Resource, c.Amount) {
			return false
		}
	}
	return true
}

// Spend atomically deducts amount if affordable. No partial spends: either
// the full deduction happens or nothing does.
func (l *Ledger) Spend(id string, amount float64) bool {
	r, ok := l.state.Resources[id]
	if !ok || r.Amount+resource.Epsilon < amount {
		return false
	}
	r.Amount -= amount
	if r.Amount < resource.Epsilon {
		r.Amount = 0
	}
	return true
}

// SpendAll deducts a full cost list, all-or-nothing.
func (l *Ledger) SpendAll(costs []resource.Stack) bool {
	if !l.CanAffordAll(costs) {
		return false
	}
	for _, c := range costs {
		if !l.Spend(c.Resource, c.Amount) {
			// Affordability was pre-checked; a failure here is a bug.
			l.logger.Error("Ledger spend failed after affordability check for resource " + c.Resource)
			return false
		}
	}
	return true
}

// ApplyDecay drains every depletable resource with a configured decay rate
// by amount * rate * decayMultiplier, floored at zero. Lifetime is untouched.
func (l *Ledger) ApplyDecay() {
	for _, id := range sortedResourceIDs(l.state.Resources) {
		r := l.state.Resources[id]
		if !r.Depletable || r.DecayRate <= 0 || r.Amount <= 0 {
			continue
		}
		loss := r.Amount * r.DecayRate * l.multipliers.DecayRate(id)
		r.Amount -= loss
		if r.Amount < resource.Epsilon {
			r.Amount = 0
		}
	}
}

// ApplyProduction converts a map of per-second net rates into ledger deltas
// for one tick. The prestige multiplier and per-resource global multipliers
// amplify positive entries only; consumption passes through unmultiplied.
func (l *Ledger) ApplyProduction(rates map[string]float64) {
	if len(rates) == 0 {
		return
	}
	tickSeconds := float64(l.balance.TickIntervalMs) / 1000
	prestigeMult := rules.PrestigeMultiplier(l.balance.PrestigeBase, l.state.PrestigeLevel)

	for id, rate := range rates {
		delta := rate
		if rate > 0 {
			delta = rate * prestigeMult * l.multipliers.GlobalResource(id)
		}
		delta *= tickSeconds
		if delta != 0 {
			l.Add(id, delta)
		}
	}
}
