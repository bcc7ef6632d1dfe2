package engine

import (
	"sort"

	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/upgrade"
)

// MultiplierResolver aggregates the effects of purchased upgrades into the
// five modifier queries the rest of the engine consumes. Values are
// recomputed from the upgrade list on every call; the lists are small
// enough that caching buys nothing.
type MultiplierResolver struct {
	state *GameState
}

// NewMultiplierResolver creates the resolver.
func NewMultiplierResolver(state *GameState) *MultiplierResolver {
	return &MultiplierResolver{state: state}
}

// each walks the effects of all purchased upgrades in declaration order.
func (m *MultiplierResolver) each(fn func(e upgrade.Effect)) {
	for _, id := range m.state.UpgradeOrder {
		u := m.state.Upgrades[id]
		if u == nil || !u.Purchased {
			continue
		}
		for _, e := range u.Effects {
			fn(e)
		}
	}
}

// GeneratorProduction is the multiplicative production bonus for one
// generator. Default 1.
func (m *MultiplierResolver) GeneratorProduction(generatorID string) float64 {
	mult := 1.0
	m.each(func(e upgrade.Effect) {
		if e.Kind == upgrade.EffectGeneratorProduction && e.Target == generatorID {
			mult *= e.Value
		}
	})
	return mult
}

// Click is the global multiplicative bonus on manual clicks. Default 1.
func (m *MultiplierResolver) Click() float64 {
	mult := 1.0
	m.each(func(e upgrade.Effect) {
		if e.Kind == upgrade.EffectClick {
			mult *= e.Value
		}
	})
	return mult
}

// GlobalResource is the multiplicative bonus applied to positive production
// of one resource. Default 1.
func (m *MultiplierResolver) GlobalResource(resourceID string) float64 {
	mult := 1.0
	m.each(func(e upgrade.Effect) {
		if e.Kind == upgrade.EffectGlobalResource && e.Target == resourceID {
			mult *= e.Value
		}
	})
	return mult
}

// CapacityModifier is the additive bonus to one resource's maximum
// capacity. Default 0.
func (m *MultiplierResolver) CapacityModifier(resourceID string) float64 {
	total := 0.0
	m.each(func(e upgrade.Effect) {
		if e.Kind == upgrade.EffectResourceCapacity && e.Target == resourceID {
			total += e.Value
		}
	})
	return total
}

// DecayRate is the multiplicative modifier on one resource's decay rate.
// Default 1.
func (m *MultiplierResolver) DecayRate(resourceID string) float64 {
	mult := 1.0
	m.each(func(e upgrade.Effect) {
		if e.Kind == upgrade.EffectDecayRate && e.Target == resourceID {
			mult *= e.Value
		}
	})
	return mult
}

// sortedResourceIDs gives the ledger a deterministic iteration order over
// the resource map.
func sortedResourceIDs(resources map[string]*resource.Resource) []string {
	ids := make([]string, 0, len(resources))
	for id := range resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
