// Package upgrade defines one-time purchases and their typed effects.
// This package is PURE and must NOT import any infrastructure packages.
package upgrade

import (
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/condition"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
)

// EffectKind identifies what an upgrade effect modifies.
type EffectKind string

const (
	// EffectGeneratorProduction multiplies one generator's output (Target = generator id).
	EffectGeneratorProduction EffectKind = "generator_production"
	// EffectGlobalResource multiplies all positive production of one resource (Target = resource id).
	EffectGlobalResource EffectKind = "global_resource"
	// EffectResourceCapacity adds to one resource's maximum capacity (Target = resource id).
	EffectResourceCapacity EffectKind = "resource_capacity"
	// EffectDecayRate multiplies one resource's decay rate (Target = resource id).
	EffectDecayRate EffectKind = "decay_rate"
	// EffectClick multiplies the manual click yield (no target).
	EffectClick EffectKind = "click"
)

// Effect is a single typed modifier carried by an upgrade.
type Effect struct {
	Kind   EffectKind `yaml:"kind" json:"kind"`
	Target string     `yaml:"target,omitempty" json:"target,omitempty"`
	Value  float64    `yaml:"value" json:"value"`
}

// Upgrade is a permanent one-time purchase. Purchased is the only mutable
// field; it flips to true exactly once and resets on prestige.
type Upgrade struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Category    string `yaml:"category,omitempty" json:"category,omitempty"`

	Costs   []resource.Stack `yaml:"costs" json:"costs"`
	Effects []Effect         `yaml:"effects" json:"effects"`

	Conditions []condition.Condition `yaml:"unlock_conditions,omitempty" json:"unlock_conditions,omitempty"`

	Purchased bool `yaml:"-" json:"purchased"`
}

// Clone returns an independent copy for state initialization from a content pack.
func (u *Upgrade) Clone() *Upgrade {
	out := *u
	out.Costs = resource.CloneStacks(u.Costs)
	out.Effects = append([]Effect(nil), u.Effects...)
	out.Conditions = append([]condition.Condition(nil), u.Conditions...)
	return &out
}
