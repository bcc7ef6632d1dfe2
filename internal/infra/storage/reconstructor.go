// Rebuilds a gameplay recap from the event log.
// This is the payoff of event sourcing: history = f(events).
package storage

import (
	"context"
	"fmt"
	"time"
)

// Reconstructor derives aggregate gameplay history from the event log.
// This is used for:
// 1. The session recap endpoint - show what happened while away
// 2. Auditing and debugging a saved game
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a new recap builder.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// ReplaySummary aggregates the full history of one game.
type ReplaySummary struct {
	GameID             string         `json:"game_id"`
	TotalEvents        int            `json:"total_events"`
	LastTick           int64          `json:"last_tick"`
	FirstEventAt       time.Time      `json:"first_event_at"`
	LastEventAt        time.Time      `json:"last_event_at"`
	Clicks             int64          `json:"clicks"`
	GeneratorPurchases map[string]int `json:"generator_purchases"`
	UpgradePurchases   []string       `json:"upgrade_purchases"`
	Prestiges          int            `json:"prestiges"`
	NarrativeOrder     []string       `json:"narrative_order"`
	TasksCompleted     int            `json:"tasks_completed"`
}

// Summarize walks every stored event for a game in chronological order and
// folds it into a ReplaySummary.
func (r *Reconstructor) Summarize(ctx context.Context, gameID string) (*ReplaySummary, error) {
	records, err := r.eventRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events for recap: %w", err)
	}

	summary := &ReplaySummary{
		GameID:             gameID,
		TotalEvents:        len(records),
		GeneratorPurchases: make(map[string]int),
	}
	for i, rec := range records {
		if i == 0 {
			summary.FirstEventAt = rec.Timestamp
		}
		summary.LastEventAt = rec.Timestamp
		if rec.Tick > summary.LastTick {
			summary.LastTick = rec.Tick
		}

		switch rec.EventType {
		case "CLICK":
			summary.Clicks++
		case "GENERATOR_PURCHASE":
			summary.GeneratorPurchases[rec.TargetID]++
		case "UPGRADE_PURCHASE":
			summary.UpgradePurchases = append(summary.UpgradePurchases, rec.TargetID)
		case "PRESTIGE":
			summary.Prestiges++
		case "NARRATIVE_TRIGGERED":
			summary.NarrativeOrder = append(summary.NarrativeOrder, rec.TargetID)
		case "TASK_COMPLETED":
			summary.TasksCompleted++
		}
	}
	return summary, nil
}
