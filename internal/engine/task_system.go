package engine

import (
	"time"

	"github.com/JaySchenk/idleAiGame-sub000/internal/config"
	"github.com/JaySchenk/idleAiGame-sub000/internal/events"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/logger"
)

// TaskProgress is a read-only view of the running task. Percent may go
// negative under clock skew (startTime in the future); that is accepted,
// not clamped below.
type TaskProgress struct {
	ElapsedMs   int64   `json:"elapsed_ms"`
	RemainingMs int64   `json:"remaining_ms"`
	Percent     float64 `json:"percent"`
	IsComplete  bool    `json:"is_complete"`
}

// TaskCompletedPayload records a claimed task for the audit log.
type TaskCompletedPayload struct {
	Task string `json:"task"`
}

// TaskSystem runs the recurring timed reward. There is effectively one
// steady state: a task is always in progress, and completion immediately
// starts the next one.
type TaskSystem struct {
	cfg       config.TaskConfig
	ledger    *Ledger
	eventLog  *events.EventLog
	logger    *logger.Logger
	state     *GameState
	startTime time.Time
}

// NewTaskSystem starts the first task at startedAt.
func NewTaskSystem(cfg config.TaskConfig, state *GameState, ledger *Ledger, eventLog *events.EventLog, log *logger.Logger, startedAt time.Time) *TaskSystem {
	return &TaskSystem{
		cfg:       cfg,
		state:     state,
		ledger:    ledger,
		eventLog:  eventLog,
		logger:    log,
		startTime: startedAt,
	}
}

// Progress reports completion state at the given time.
func (ts *TaskSystem) Progress(now time.Time) TaskProgress {
	elapsed := now.Sub(ts.startTime).Milliseconds()
	duration := ts.cfg.DurationMs

	p := TaskProgress{ElapsedMs: elapsed}
	if duration <= 0 {
		p.Percent = 100
		p.IsComplete = true
		return p
	}

	p.RemainingMs = duration - elapsed
	if p.RemainingMs < 0 {
		p.RemainingMs = 0
	}
	p.Percent = 100 * float64(elapsed) / float64(duration)
	if p.Percent > 100 {
		p.Percent = 100
	}
	p.IsComplete = elapsed >= duration
	return p
}

// Complete grants the configured rewards and immediately starts a fresh
// task. A second call without time advancing sees the new start time and
// returns false, so a reward is never granted twice.
func (ts *TaskSystem) Complete(now time.Time) bool {
	if !ts.Progress(now).IsComplete {
		return false
	}
	for _, reward := range ts.cfg.Rewards {
		ts.ledger.Add(reward.Resource, reward.Amount)
	}
	ts.startTime = now

	ts.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeTaskCompleted,
		ActorID:   "SYSTEM_TASK",
		Payload:   TaskCompletedPayload{Task: ts.cfg.Name},
		Tick:      ts.state.Tick,
	})
	ts.logger.Event("TASK_COMPLETED", "SYSTEM_TASK", ts.cfg.Name)
	return true
}

// StartedAt exposes the current task's start for snapshots.
func (ts *TaskSystem) StartedAt() time.Time {
	return ts.startTime
}

// Restart rebases the current task, used when restoring a snapshot.
func (ts *TaskSystem) Restart(startedAt time.Time) {
	ts.startTime = startedAt
}
