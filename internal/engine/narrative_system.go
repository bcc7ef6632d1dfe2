package engine

import (
	"sort"
	"time"

	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/narrative"
	"github.com/JaySchenk/idleAiGame-sub000/internal/events"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/logger"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/metrics"
)

// NarrativePayload records a triggered story beat for the audit log.
type NarrativePayload struct {
	NarrativeID string `json:"narrative_id"`
	Title       string `json:"title"`
	Priority    int    `json:"priority"`
}

// NarrativeSystem evaluates story-beat unlock conditions against game
// state, fires eligible events highest-priority first, and manages the
// pending-display queue a UI drains.
type NarrativeSystem struct {
	state    *GameState
	ledger   *Ledger
	unlock   *UnlockEvaluator
	eventLog *events.EventLog
	logger   *logger.Logger

	pending     []*narrative.Event
	history     []string
	subscribers []func(*narrative.Event)
}

// NewNarrativeSystem creates the narrative trigger engine.
func NewNarrativeSystem(state *GameState, ledger *Ledger, unlock *UnlockEvaluator, eventLog *events.EventLog, log *logger.Logger) *NarrativeSystem {
	return &NarrativeSystem{
		state:    state,
		ledger:   ledger,
		unlock:   unlock,
		eventLog: eventLog,
		logger:   log,
	}
}

// Subscribe registers a callback invoked synchronously on every trigger.
func (ns *NarrativeSystem) Subscribe(cb func(*narrative.Event)) {
	ns.subscribers = append(ns.subscribers, cb)
}

// CheckAndTrigger fires every unviewed event whose conditions are met,
// highest priority first. Equal priorities keep declaration order, which
// keeps test runs deterministic.
func (ns *NarrativeSystem) CheckAndTrigger() {
	var eligible []*narrative.Event
	for _, ev := range ns.state.Narratives {
		if ev.Viewed {
			continue
		}
		if ns.unlock.Check(ev.Conditions).Unlocked {
			eligible = append(eligible, ev)
		}
	}
	if len(eligible) == 0 {
		return
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Priority > eligible[j].Priority
	})
	for _, ev := range eligible {
		ns.Trigger(ev)
	}
}

// Trigger fires one event. The ordering is contractual: mark viewed, apply
// resource effects, enqueue for display, then notify subscribers — so a
// callback can immediately inspect post-effect state.
func (ns *NarrativeSystem) Trigger(ev *narrative.Event) {
	ev.Viewed = true
	ns.history = append(ns.history, ev.ID)

	for _, effect := range ev.Effects {
		ns.ledger.Add(effect.Resource, effect.Amount)
	}

	ns.pending = append(ns.pending, ev)

	ns.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeNarrative,
		ActorID:   "SYSTEM_NARRATIVE",
		TargetID:  ev.ID,
		Payload:   NarrativePayload{NarrativeID: ev.ID, Title: ev.Title, Priority: ev.Priority},
		Tick:      ns.state.Tick,
	})
	metrics.Get().RecordNarrative()
	ns.logger.Event("NARRATIVE", "SYSTEM_NARRATIVE", ev.ID)

	for _, cb := range ns.subscribers {
		cb(ev)
	}
}

// HasPending reports whether any triggered events await display.
func (ns *NarrativeSystem) HasPending() bool {
	return len(ns.pending) > 0
}

// NextPending dequeues the oldest-triggered event, nil when empty.
func (ns *NarrativeSystem) NextPending() *narrative.Event {
	if len(ns.pending) == 0 {
		return nil
	}
	ev := ns.pending[0]
	ns.pending = ns.pending[1:]
	return ev
}

// PendingIDs lists queued event ids oldest-first, for snapshots.
func (ns *NarrativeSystem) PendingIDs() []string {
	ids := make([]string, len(ns.pending))
	for i, ev := range ns.pending {
		ids[i] = ev.ID
	}
	return ids
}

// History returns the ids of all triggered events in trigger order.
func (ns *NarrativeSystem) History() []string {
	return ns.history
}

// ResetForPrestige clears the pending queue only. Viewed flags and history
// survive every reset.
func (ns *NarrativeSystem) ResetForPrestige() {
	ns.pending = nil
}

// RestoreViewed marks events as already seen when loading a snapshot.
func (ns *NarrativeSystem) RestoreViewed(ids []string) {
	for _, id := range ids {
		if ev := ns.state.FindNarrative(id); ev != nil {
			ev.Viewed = true
		}
	}
	ns.history = append([]string(nil), ids...)
}

// RestorePending rebuilds the display queue when loading a snapshot.
func (ns *NarrativeSystem) RestorePending(ids []string) {
	ns.pending = nil
	for _, id := range ids {
		if ev := ns.state.FindNarrative(id); ev != nil {
			ns.pending = append(ns.pending, ev)
		}
	}
}
