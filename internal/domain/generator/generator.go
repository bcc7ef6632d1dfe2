// Package generator defines the passive-income units of the game.
// This package is PURE and must NOT import any infrastructure packages.
package generator

import (
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/condition"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
)

// Generator is a repeatedly-purchasable unit that converts inputs into
// outputs once per tick. Ownership is the only mutable field.
type Generator struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category,omitempty" json:"category,omitempty"`

	// Owned resets to zero on prestige and only grows through Purchase.
	Owned int `yaml:"-" json:"owned"`

	// BaseProduction is the headline per-unit rate used for display and
	// for the single-resource production query.
	BaseProduction float64 `yaml:"base_production" json:"base_production"`

	// Outputs and Inputs drive the multi-resource production pass. A
	// generator with inputs contributes nothing on ticks where less than
	// a tenth of a second of input is available.
	Outputs []resource.Stack `yaml:"outputs" json:"outputs"`
	Inputs  []resource.Stack `yaml:"inputs,omitempty" json:"inputs,omitempty"`

	// BaseCost scales geometrically: floor(base * growth^owned) per entry.
	BaseCost   []resource.Stack `yaml:"base_cost" json:"base_cost"`
	GrowthRate float64          `yaml:"growth_rate" json:"growth_rate"`

	Conditions []condition.Condition `yaml:"unlock_conditions,omitempty" json:"unlock_conditions,omitempty"`
}

// Clone returns an independent copy for state initialization from a content pack.
func (g *Generator) Clone() *Generator {
	out := *g
	out.Outputs = resource.CloneStacks(g.Outputs)
	out.Inputs = resource.CloneStacks(g.Inputs)
	out.BaseCost = resource.CloneStacks(g.BaseCost)
	out.Conditions = append([]condition.Condition(nil), g.Conditions...)
	return &out
}
