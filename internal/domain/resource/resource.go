// Package resource defines the core currency entities of the game.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package resource

// Resource tracks one currency: its current amount, lifetime earnings and
// the bounds the ledger enforces on it.
type Resource struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	// Amount may be fractional; production is applied in sub-second ticks.
	Amount float64 `yaml:"initial" json:"amount"`

	// Lifetime accumulates only the positive portion of deltas. It never
	// decreases, not even on prestige.
	Lifetime float64 `yaml:"-" json:"lifetime"`

	// MaxCapacity is the base capacity before upgrade modifiers. Nil means
	// unbounded.
	MaxCapacity *float64 `yaml:"max_capacity,omitempty" json:"max_capacity,omitempty"`

	// DecayRate is the fraction of the current amount lost per decay pass.
	DecayRate float64 `yaml:"decay_rate,omitempty" json:"decay_rate,omitempty"`

	// Depletable resources are allowed to drain toward zero through decay.
	// Non-depletable resources floor at zero on any negative delta.
	Depletable bool `yaml:"depletable,omitempty" json:"depletable"`
}

// Amounts below one billionth of a unit are treated as zero to keep
// floating-point drift out of the ledger.
const Epsilon = 1e-9

// Clone returns an independent copy for state initialization from a content pack.
func (r *Resource) Clone() *Resource {
	out := *r
	if r.MaxCapacity != nil {
		capv := *r.MaxCapacity
		out.MaxCapacity = &capv
	}
	return &out
}

// Stack is a (resource, amount) pair used for generator costs and outputs,
// upgrade costs, narrative effects and task rewards.
type Stack struct {
	Resource string  `yaml:"resource" json:"resource"`
	Amount   float64 `yaml:"amount" json:"amount"`
}

// CloneStacks copies a cost/effect list so state mutation can never reach
// back into shared content-pack definitions.
func CloneStacks(in []Stack) []Stack {
	if in == nil {
		return nil
	}
	out := make([]Stack, len(in))
	copy(out, in)
	return out
}
