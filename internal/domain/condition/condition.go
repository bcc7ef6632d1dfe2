// Package condition defines the unlock-condition tree that gates generators,
// upgrades and narrative events alike.
// This package is PURE and must NOT import any infrastructure packages.
package condition

// Type discriminates the condition variants. Unknown values evaluate to a
// failure naming the type, never a panic.
type Type string

const (
	TypeResource    Type = "resource"
	TypeGenerator   Type = "generator"
	TypeUpgrade     Type = "upgrade"
	TypeNotUpgrade  Type = "not_upgrade"
	TypeNarrative   Type = "narrative"
	TypePrestige    Type = "prestige"
	TypeTime        Type = "time"
	TypeAchievement Type = "achievement" // reserved, always fails
	TypeMultiple    Type = "multiple"
)

// Operator selects the numeric comparison for resource conditions.
type Operator string

const (
	OpGT  Operator = ">"
	OpLT  Operator = "<"
	OpGTE Operator = ">="
	OpLTE Operator = "<="
	OpEQ  Operator = "=="
	OpNEQ Operator = "!="
)

// Logic combines sub-conditions of a "multiple" condition.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Condition is one node of the unlock tree. Fields are populated per Type;
// the rest stay at their zero value.
type Condition struct {
	Type   Type   `yaml:"type" json:"type"`
	Target string `yaml:"target,omitempty" json:"target,omitempty"`

	// resource variant
	MinAmount *float64 `yaml:"min_amount,omitempty" json:"min_amount,omitempty"`
	MaxAmount *float64 `yaml:"max_amount,omitempty" json:"max_amount,omitempty"`
	Operator  Operator `yaml:"operator,omitempty" json:"operator,omitempty"`

	// generator variant
	MinOwned *int `yaml:"min_owned,omitempty" json:"min_owned,omitempty"`
	MaxOwned *int `yaml:"max_owned,omitempty" json:"max_owned,omitempty"`

	// prestige variant
	MinLevel int `yaml:"min_level,omitempty" json:"min_level,omitempty"`

	// time variant: minimum elapsed play time since game start.
	MinElapsedMs int64 `yaml:"min_elapsed_ms,omitempty" json:"min_elapsed_ms,omitempty"`

	// multiple variant
	Logic      Logic       `yaml:"logic,omitempty" json:"logic,omitempty"`
	Conditions []Condition `yaml:"conditions,omitempty" json:"conditions,omitempty"`

	// Visible controls whether a locked item is hidden vs. shown-but-disabled.
	// Nil means visible.
	Visible *bool `yaml:"visible,omitempty" json:"visible,omitempty"`
}

// IsVisible reports the visibility flag, defaulting to true.
func (c Condition) IsVisible() bool {
	return c.Visible == nil || *c.Visible
}

// EffectiveLogic returns the combinator for a "multiple" node, defaulting to AND.
func (c Condition) EffectiveLogic() Logic {
	if c.Logic == LogicOr {
		return LogicOr
	}
	return LogicAnd
}

// Compare evaluates value against target under op. An empty or unrecognized
// operator defaults to >= so that plain minimums read naturally.
func Compare(value, target float64, op Operator) bool {
	switch op {
	case OpGT:
		return value > target
	case OpLT:
		return value < target
	case OpLTE:
		return value <= target
	case OpEQ:
		return value == target
	case OpNEQ:
		return value != target
	default:
		return value >= target
	}
}
