// Package engine contains the simulation core: the game-state aggregate,
// the per-concern systems that mutate it, and the tick scheduler that
// drives them.
//
// ARCHITECTURAL RULE: all mutation flows through the systems in this
// package. Entities are owned exclusively by the GameState aggregate and
// refer to each other only by string id, never by object reference.
package engine

import (
	"time"

	"github.com/JaySchenk/idleAiGame-sub000/internal/config"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/generator"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/narrative"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/upgrade"
)

// GameState is the single mutable aggregate of a running game. Content-pack
// definitions are cloned into it at construction so the pack itself stays
// immutable and reusable.
type GameState struct {
	Resources      map[string]*resource.Resource
	Generators     map[string]*generator.Generator
	GeneratorOrder []string
	Upgrades       map[string]*upgrade.Upgrade
	UpgradeOrder   []string
	Narratives     []*narrative.Event

	PrestigeLevel int
	Tick          int64

	// StartFired guards the once-per-lifetime game-start narrative check.
	// It is part of the snapshot so a restored game does not re-fire it.
	StartFired bool

	startedAt time.Time
	now       func() time.Time
}

// NewGameState clones a content pack into a fresh aggregate. The now
// function is the engine's only time source; tests inject a synthetic one.
func NewGameState(pack *config.ContentPack, now func() time.Time) *GameState {
	if now == nil {
		now = time.Now
	}
	s := &GameState{
		Resources:  make(map[string]*resource.Resource, len(pack.Resources)),
		Generators: make(map[string]*generator.Generator, len(pack.Generators)),
		Upgrades:   make(map[string]*upgrade.Upgrade, len(pack.Upgrades)),
		startedAt:  now(),
		now:        now,
	}
	for _, r := range pack.Resources {
		c := r.Clone()
		// Initial amounts count as earned.
		c.Lifetime = c.Amount
		s.Resources[c.ID] = c
	}
	for _, g := range pack.Generators {
		s.Generators[g.ID] = g.Clone()
		s.GeneratorOrder = append(s.GeneratorOrder, g.ID)
	}
	for _, u := range pack.Upgrades {
		s.Upgrades[u.ID] = u.Clone()
		s.UpgradeOrder = append(s.UpgradeOrder, u.ID)
	}
	for _, n := range pack.Narratives {
		s.Narratives = append(s.Narratives, n.Clone())
	}
	return s
}

// Now returns the current time from the injected clock.
func (s *GameState) Now() time.Time {
	return s.now()
}

// ElapsedMs is the play time since game start, in milliseconds. Time
// conditions compare against this value.
func (s *GameState) ElapsedMs() int64 {
	return s.now().Sub(s.startedAt).Milliseconds()
}

// FindNarrative looks an event up by id. Nil for unknown ids.
func (s *GameState) FindNarrative(id string) *narrative.Event {
	for _, n := range s.Narratives {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// ResourceSnapshot captures one resource for persistence.
type ResourceSnapshot struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Lifetime float64 `json:"lifetime"`
}

// GeneratorSnapshot captures one generator's owned count for persistence.
type GeneratorSnapshot struct {
	ID    string `json:"id"`
	Owned int    `json:"owned"`
}

// Snapshot is the plain serializable form of the whole aggregate. It holds
// no functions and no object references, so any persistence layer can
// marshal it, and restoring it reproduces identical subsequent behavior.
type Snapshot struct {
	PrestigeLevel int   `json:"prestige_level"`
	Tick          int64 `json:"tick"`
	ElapsedMs     int64 `json:"elapsed_ms"`
	StartFired    bool  `json:"start_fired"`
	TaskElapsedMs int64 `json:"task_elapsed_ms"`

	Resources         []ResourceSnapshot  `json:"resources"`
	Generators        []GeneratorSnapshot `json:"generators"`
	UpgradesPurchased []string            `json:"upgrades_purchased"`
	NarrativesViewed  []string            `json:"narratives_viewed"`
	PendingNarratives []string            `json:"pending_narratives"`
}
