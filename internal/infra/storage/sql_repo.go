package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLEventRepository implements EventRepository on either dialect.
type SQLEventRepository struct {
	db *DB
}

// NewSQLEventRepository creates an event repository on an open database.
func NewSQLEventRepository(db *DB) *SQLEventRepository {
	return &SQLEventRepository{db: db}
}

func (r *SQLEventRepository) Append(ctx context.Context, event EventRecord) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO events (id, game_id, timestamp, event_type, actor_id, target_id, payload, tick)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s)`,
		r.db.bind(1), r.db.bind(2), r.db.bind(3), r.db.bind(4),
		r.db.bind(5), r.db.bind(6), r.db.bind(7), r.db.bind(8),
	)
	_, err = r.db.SQL.ExecContext(ctx, query,
		event.ID, event.GameID, event.Timestamp, event.EventType,
		event.ActorID, event.TargetID, string(payloadBytes), event.Tick,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]EventRecord, error) {
	rows, err := r.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []EventRecord
	for rows.Next() {
		var e EventRecord
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.GameID, &e.Timestamp, &e.EventType,
			&e.ActorID, &e.TargetID, &payloadStr, &e.Tick,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLEventRepository) GetByGameID(ctx context.Context, gameID string) ([]EventRecord, error) {
	query := fmt.Sprintf(`SELECT id, game_id, timestamp, event_type, actor_id, target_id, payload, tick
		FROM events WHERE game_id = %s ORDER BY timestamp ASC`, r.db.bind(1))
	return r.getMany(ctx, query, gameID)
}

func (r *SQLEventRepository) GetByEventType(ctx context.Context, gameID string, eventType string) ([]EventRecord, error) {
	query := fmt.Sprintf(`SELECT id, game_id, timestamp, event_type, actor_id, target_id, payload, tick
		FROM events WHERE game_id = %s AND event_type = %s ORDER BY timestamp ASC`, r.db.bind(1), r.db.bind(2))
	return r.getMany(ctx, query, gameID, eventType)
}

func (r *SQLEventRepository) GetSinceTick(ctx context.Context, gameID string, tick int64) ([]EventRecord, error) {
	query := fmt.Sprintf(`SELECT id, game_id, timestamp, event_type, actor_id, target_id, payload, tick
		FROM events WHERE game_id = %s AND tick >= %s ORDER BY timestamp ASC`, r.db.bind(1), r.db.bind(2))
	return r.getMany(ctx, query, gameID, tick)
}

// ---------------------------------------------------------
// SQLSnapshotRepository
// ---------------------------------------------------------

// SQLSnapshotRepository implements SnapshotRepository on either dialect.
type SQLSnapshotRepository struct {
	db *DB
}

// NewSQLSnapshotRepository creates a snapshot repository on an open database.
func NewSQLSnapshotRepository(db *DB) *SQLSnapshotRepository {
	return &SQLSnapshotRepository{db: db}
}

func (r *SQLSnapshotRepository) Save(ctx context.Context, gameID string, data []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO snapshots (game_id, data, saved_at)
		VALUES (%s, %s, %s)
		ON CONFLICT(game_id) DO UPDATE SET
			data=excluded.data,
			saved_at=excluded.saved_at`,
		r.db.bind(1), r.db.bind(2), r.db.bind(3),
	)
	_, err := r.db.SQL.ExecContext(ctx, query, gameID, string(data), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *SQLSnapshotRepository) Load(ctx context.Context, gameID string) (*SnapshotRecord, error) {
	query := fmt.Sprintf(`SELECT game_id, data, saved_at FROM snapshots WHERE game_id = %s`, r.db.bind(1))

	var rec SnapshotRecord
	var dataStr string
	err := r.db.SQL.QueryRowContext(ctx, query, gameID).Scan(&rec.GameID, &dataStr, &rec.SavedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rec.Data = []byte(dataStr)
	return &rec, nil
}
