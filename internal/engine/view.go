package engine

import (
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
)

// ResourceView is the wire form of one resource.
type ResourceView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Amount    float64  `json:"amount"`
	Lifetime  float64  `json:"lifetime"`
	Capacity  *float64 `json:"capacity,omitempty"`
	PerSecond float64  `json:"per_second"`
}

// GeneratorView is the wire form of one generator, including its current
// cost and unlock status.
type GeneratorView struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Owned          int              `json:"owned"`
	Cost           []resource.Stack `json:"cost"`
	ProductionRate float64          `json:"production_rate"`
	Unlocked       bool             `json:"unlocked"`
	Visible        bool             `json:"visible"`
	Affordable     bool             `json:"affordable"`
}

// UpgradeView is the wire form of one upgrade.
type UpgradeView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Costs       []resource.Stack `json:"costs"`
	Purchased   bool             `json:"purchased"`
	Unlocked    bool             `json:"unlocked"`
	Visible     bool             `json:"visible"`
	Affordable  bool             `json:"affordable"`
}

// NarrativeView is the wire form of a triggered story beat.
type NarrativeView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	Priority int    `json:"priority"`
}

// PrestigeView summarizes reset progress for the UI.
type PrestigeView struct {
	Level          int     `json:"level"`
	Multiplier     float64 `json:"multiplier"`
	NextMultiplier float64 `json:"next_multiplier"`
	Threshold      float64 `json:"threshold"`
	CanPrestige    bool    `json:"can_prestige"`
}

// TaskView summarizes the recurring task for the UI.
type TaskView struct {
	Name        string  `json:"name"`
	ElapsedMs   int64   `json:"elapsed_ms"`
	RemainingMs int64   `json:"remaining_ms"`
	Percent     float64 `json:"percent"`
}

// StateView is the full read model served over HTTP and pushed over
// websockets after every state change.
type StateView struct {
	Tick              int64           `json:"tick"`
	ElapsedMs         int64           `json:"elapsed_ms"`
	Resources         []ResourceView  `json:"resources"`
	Generators        []GeneratorView `json:"generators"`
	Upgrades          []UpgradeView   `json:"upgrades"`
	Prestige          PrestigeView    `json:"prestige"`
	Task              TaskView        `json:"task"`
	PendingNarratives []NarrativeView `json:"pending_narratives"`
}

// View assembles the complete read model under the engine lock. Hidden
// generators and upgrades are filtered out; locked-but-visible ones stay
// in with Unlocked false so the UI can tease them.
func (e *Engine) View() StateView {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := StateView{
		Tick:      e.state.Tick,
		ElapsedMs: e.state.ElapsedMs(),
	}

	perSecond := e.productionBreakdown()
	for _, id := range sortedResourceIDs(e.state.Resources) {
		r := e.state.Resources[id]
		rv := ResourceView{
			ID:        r.ID,
			Name:      r.Name,
			Amount:    r.Amount,
			Lifetime:  r.Lifetime,
			PerSecond: perSecond[id],
		}
		if r.MaxCapacity != nil {
			cap := *r.MaxCapacity + e.multipliers.CapacityModifier(id)
			rv.Capacity = &cap
		}
		v.Resources = append(v.Resources, rv)
	}

	for _, id := range e.state.GeneratorOrder {
		g := e.state.Generators[id]
		res := e.generators.Unlocked(id)
		if !res.Visible {
			continue
		}
		cost, _ := e.generators.Cost(id)
		v.Generators = append(v.Generators, GeneratorView{
			ID:             g.ID,
			Name:           g.Name,
			Owned:          g.Owned,
			Cost:           cost,
			ProductionRate: e.generators.ProductionRate(id),
			Unlocked:       res.Unlocked,
			Visible:        res.Visible,
			Affordable:     e.ledger.CanAffordAll(cost),
		})
	}

	for _, id := range e.state.UpgradeOrder {
		u := e.state.Upgrades[id]
		res := e.upgrades.Requirements(id)
		if !res.Visible && !u.Purchased {
			continue
		}
		v.Upgrades = append(v.Upgrades, UpgradeView{
			ID:          u.ID,
			Name:        u.Name,
			Description: u.Description,
			Costs:       u.Costs,
			Purchased:   u.Purchased,
			Unlocked:    res.Unlocked,
			Visible:     res.Visible,
			Affordable:  e.ledger.CanAffordAll(u.Costs),
		})
	}

	v.Prestige = PrestigeView{
		Level:          e.state.PrestigeLevel,
		Multiplier:     e.prestige.Multiplier(),
		NextMultiplier: e.prestige.NextMultiplier(),
		Threshold:      e.prestige.Threshold(),
		CanPrestige:    e.prestige.CanPrestige(),
	}

	tp := e.task.Progress(e.state.Now())
	v.Task = TaskView{
		Name:        e.pack.Task.Name,
		ElapsedMs:   tp.ElapsedMs,
		RemainingMs: tp.RemainingMs,
		Percent:     tp.Percent,
	}

	for _, ev := range e.narratives.pending {
		v.PendingNarratives = append(v.PendingNarratives, NarrativeView{
			ID:       ev.ID,
			Title:    ev.Title,
			Content:  ev.Content,
			Priority: ev.Priority,
		})
	}
	return v
}

// productionBreakdown is the current net per-second rate per resource,
// with prestige and global multipliers applied to positive flows.
func (e *Engine) productionBreakdown() map[string]float64 {
	raw := e.generators.ResourceProduction()
	out := make(map[string]float64, len(raw))
	for id, rate := range raw {
		if rate > 0 {
			rate *= e.prestige.Multiplier() * e.multipliers.GlobalResource(id)
		}
		out[id] = rate
	}
	return out
}
