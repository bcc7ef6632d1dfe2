// Package config loads content packs: the data-driven definitions of
// resources, generators, upgrades and narrative events, plus the balance
// constants that tune the simulation. Packs are plain YAML so the game can
// be rebalanced or re-themed without touching engine code.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/generator"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/narrative"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/upgrade"
)

// BalanceConfig stores the global tuning variables of a content pack.
type BalanceConfig struct {
	TickIntervalMs  int     `yaml:"tick_interval_ms" json:"tick_interval_ms"`   // Simulation step, reference 100ms
	PrimaryResource string  `yaml:"primary_resource" json:"primary_resource"`   // Resource zeroed and thresholded by prestige
	ClickPower      float64 `yaml:"click_power" json:"click_power"`             // Base yield of one manual click

	PrestigeBase            float64 `yaml:"prestige_base" json:"prestige_base"`                         // Global multiplier base, reference 1.25
	PrestigeThresholdBase   float64 `yaml:"prestige_threshold_base" json:"prestige_threshold_base"`     // Reference 1000
	PrestigeThresholdGrowth float64 `yaml:"prestige_threshold_growth" json:"prestige_threshold_growth"` // Reference 10
}

// TaskConfig defines the recurring timed reward that runs independently of
// clicking. A new task starts the instant the previous one is claimed.
type TaskConfig struct {
	Name       string           `yaml:"name" json:"name"`
	DurationMs int64            `yaml:"duration_ms" json:"duration_ms"`
	Rewards    []resource.Stack `yaml:"rewards" json:"rewards"`
}

// ContentPack is the root configuration struct, mapping to an entire
// content YAML file. Entities inside it are templates: the engine clones
// them into its own mutable state at construction.
type ContentPack struct {
	Balance    BalanceConfig          `yaml:"balance"`
	Task       TaskConfig             `yaml:"task"`
	Resources  []*resource.Resource   `yaml:"resources"`
	Generators []*generator.Generator `yaml:"generators"`
	Upgrades   []*upgrade.Upgrade     `yaml:"upgrades"`
	Narratives []*narrative.Event     `yaml:"narratives"`
}

// Load reads a content pack from a YAML file, applies defaults and
// validates it.
func Load(path string) (*ContentPack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content pack: %w", err)
	}

	var pack ContentPack
	if err := yaml.Unmarshal(raw, &pack); err != nil {
		return nil, fmt.Errorf("parse content pack: %w", err)
	}

	pack.applyDefaults()
	if err := pack.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content pack %s: %w", path, err)
	}
	return &pack, nil
}

func (p *ContentPack) applyDefaults() {
	if p.Balance.TickIntervalMs <= 0 {
		p.Balance.TickIntervalMs = 100
	}
	if p.Balance.ClickPower <= 0 {
		p.Balance.ClickPower = 1
	}
	if p.Balance.PrestigeBase <= 0 {
		p.Balance.PrestigeBase = 1.25
	}
	if p.Balance.PrestigeThresholdBase <= 0 {
		p.Balance.PrestigeThresholdBase = 1000
	}
	if p.Balance.PrestigeThresholdGrowth <= 0 {
		p.Balance.PrestigeThresholdGrowth = 10
	}
}

// Validate rejects packs the engine cannot run: duplicate ids, cost curves
// that do not grow, non-positive costs, effects of unknown kind, or a
// missing primary resource.
func (p *ContentPack) Validate() error {
	if p.Balance.PrimaryResource == "" {
		return fmt.Errorf("balance.primary_resource is required")
	}

	resourceIDs := make(map[string]bool)
	for _, r := range p.Resources {
		if r.ID == "" {
			return fmt.Errorf("resource with empty id")
		}
		if resourceIDs[r.ID] {
			return fmt.Errorf("duplicate resource id %q", r.ID)
		}
		resourceIDs[r.ID] = true
	}
	if !resourceIDs[p.Balance.PrimaryResource] {
		return fmt.Errorf("primary resource %q is not defined", p.Balance.PrimaryResource)
	}

	generatorIDs := make(map[string]bool)
	for _, g := range p.Generators {
		if g.ID == "" {
			return fmt.Errorf("generator with empty id")
		}
		if generatorIDs[g.ID] {
			return fmt.Errorf("duplicate generator id %q", g.ID)
		}
		generatorIDs[g.ID] = true
		if g.GrowthRate <= 1 {
			return fmt.Errorf("generator %q: growth_rate must be > 1, got %v", g.ID, g.GrowthRate)
		}
		if len(g.BaseCost) == 0 {
			return fmt.Errorf("generator %q: base_cost is required", g.ID)
		}
		for _, c := range g.BaseCost {
			if c.Amount <= 0 {
				return fmt.Errorf("generator %q: base_cost amount must be > 0, got %v", g.ID, c.Amount)
			}
		}
	}

	upgradeIDs := make(map[string]bool)
	for _, u := range p.Upgrades {
		if u.ID == "" {
			return fmt.Errorf("upgrade with empty id")
		}
		if upgradeIDs[u.ID] {
			return fmt.Errorf("duplicate upgrade id %q", u.ID)
		}
		upgradeIDs[u.ID] = true
		for _, c := range u.Costs {
			if c.Amount <= 0 {
				return fmt.Errorf("upgrade %q: cost amount must be > 0, got %v", u.ID, c.Amount)
			}
		}
		for _, e := range u.Effects {
			switch e.Kind {
			case upgrade.EffectGeneratorProduction, upgrade.EffectGlobalResource,
				upgrade.EffectResourceCapacity, upgrade.EffectDecayRate, upgrade.EffectClick:
			default:
				return fmt.Errorf("upgrade %q: unknown effect kind %q", u.ID, e.Kind)
			}
		}
	}

	narrativeIDs := make(map[string]bool)
	for _, n := range p.Narratives {
		if n.ID == "" {
			return fmt.Errorf("narrative with empty id")
		}
		if narrativeIDs[n.ID] {
			return fmt.Errorf("duplicate narrative id %q", n.ID)
		}
		narrativeIDs[n.ID] = true
	}

	if p.Task.DurationMs < 0 {
		return fmt.Errorf("task.duration_ms must not be negative")
	}
	return nil
}
