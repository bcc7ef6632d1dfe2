package storage

import (
	"context"
	"time"
)

// EventRecord mirrors the domain event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type EventRecord struct {
	ID        string                 `json:"id" db:"id"`
	GameID    string                 `json:"game_id" db:"game_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	ActorID   string                 `json:"actor_id" db:"actor_id"`
	TargetID  string                 `json:"target_id" db:"target_id"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	Tick      int64                  `json:"tick" db:"tick"`
}

// EventRepository defines the interface for event persistence.
// The engine uses this interface; the implementation is in infra.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event EventRecord) error

	// GetByGameID retrieves all events for a specific game (for replay).
	GetByGameID(ctx context.Context, gameID string) ([]EventRecord, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, gameID string, eventType string) ([]EventRecord, error)

	// GetSinceTick retrieves all events at or after a simulation tick.
	GetSinceTick(ctx context.Context, gameID string, tick int64) ([]EventRecord, error)
}

// SnapshotRecord is one persisted full game state, stored as opaque JSON.
type SnapshotRecord struct {
	GameID  string    `json:"game_id" db:"game_id"`
	Data    []byte    `json:"data" db:"data"`
	SavedAt time.Time `json:"saved_at" db:"saved_at"`
}

// SnapshotRepository defines the interface for game-state snapshots.
type SnapshotRepository interface {
	// Save upserts the latest snapshot for a game.
	Save(ctx context.Context, gameID string, data []byte) error

	// Load retrieves the latest snapshot, nil when none is stored.
	Load(ctx context.Context, gameID string) (*SnapshotRecord, error)
}
