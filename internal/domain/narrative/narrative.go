// Package narrative defines the one-time story beats gated by unlock conditions.
// This package is PURE and must NOT import any infrastructure packages.
package narrative

import (
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/condition"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
)

// Event is a story beat. Once viewed it never fires again; viewed state
// survives prestige.
type Event struct {
	ID      string `yaml:"id" json:"id"`
	Title   string `yaml:"title" json:"title"`
	Content string `yaml:"content,omitempty" json:"content,omitempty"`

	Conditions []condition.Condition `yaml:"unlock_conditions,omitempty" json:"unlock_conditions,omitempty"`

	// Priority orders simultaneous triggers: higher fires first, ties keep
	// declaration order.
	Priority int `yaml:"priority,omitempty" json:"priority,omitempty"`

	// Effects are resource deltas applied the moment the event triggers.
	Effects []resource.Stack `yaml:"effects,omitempty" json:"effects,omitempty"`

	Viewed bool `yaml:"-" json:"viewed"`
}

// Clone returns an independent copy for state initialization from a content pack.
func (e *Event) Clone() *Event {
	out := *e
	out.Conditions = append([]condition.Condition(nil), e.Conditions...)
	out.Effects = resource.CloneStacks(e.Effects)
	return &out
}
