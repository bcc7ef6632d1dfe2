// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	_ "modernc.org/sqlite"             // Pure Go SQLite driver
)

// Dialect selects the SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB wraps the sql handle together with its dialect so repositories can
// render the right placeholder style.
type DB struct {
	SQL     *sql.DB
	Dialect Dialect
}

// OpenFromEnv opens the database selected by DB_DIALECT (sqlite by
// default) and bootstraps the schema. SQLite reads its path from
// DB_SQLITE_PATH; postgres reads its DSN from DB_POSTGRES_DSN or
// DATABASE_URL.
func OpenFromEnv() (*DB, error) {
	dialectRaw := strings.TrimSpace(strings.ToLower(os.Getenv("DB_DIALECT")))
	if dialectRaw == "" {
		dialectRaw = string(DialectSQLite)
	}
	dialect := Dialect(dialectRaw)

	var driverName string
	var dsn string
	switch dialect {
	case DialectSQLite:
		driverName = "sqlite"
		path := strings.TrimSpace(os.Getenv("DB_SQLITE_PATH"))
		if path == "" {
			path = filepath.Join("data", "idle_game.sqlite")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		dsn = path
	case DialectPostgres:
		driverName = "pgx"
		dsn = strings.TrimSpace(os.Getenv("DB_POSTGRES_DSN"))
		if dsn == "" {
			dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
		}
		if dsn == "" {
			return nil, errors.New("DB_DIALECT=postgres requires DB_POSTGRES_DSN or DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DIALECT %q", dialectRaw)
	}

	return Open(driverName, dsn, dialect)
}

// Open opens a specific driver and DSN and bootstraps the schema. Tests
// call this directly with a sqlite path under a temp dir.
func Open(driverName, dsn string, dialect Dialect) (*DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}

	d := &DB{SQL: db, Dialect: dialect}
	if err := d.createSchemas(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schemas: %w", err)
	}
	return d, nil
}

// Close releases the underlying pool.
func (d *DB) Close() error {
	return d.SQL.Close()
}

// bind renders the placeholder for position pos in the active dialect.
func (d *DB) bind(pos int) string {
	if d.Dialect == DialectPostgres {
		return fmt.Sprintf("$%d", pos)
	}
	return "?"
}

func (d *DB) createSchemas(ctx context.Context) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			event_type TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			tick BIGINT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			game_id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			saved_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_game_id ON events(game_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_event_type ON events(event_type);`,
		`CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);`,
	}

	for _, query := range schemas {
		if _, err := d.SQL.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}
