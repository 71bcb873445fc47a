// Package sqlite is the single-file store used when no Postgres is configured.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id             TEXT PRIMARY KEY,
    username       TEXT NOT NULL UNIQUE,
    password_hash  TEXT NOT NULL,
    gender         TEXT,
    age            INTEGER,
    height         REAL,
    weight         REAL,
    diabetes_type  TEXT,
    fasting_sugar  INTEGER,
    hba1c          REAL,
    activity_level TEXT,
    health_goal    TEXT,
    created_at     INTEGER NOT NULL,
    updated_at     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS food_logs (
    id                    TEXT PRIMARY KEY,
    owner_id              TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    input_type            TEXT NOT NULL CHECK (input_type IN ('text', 'image')),
    food_description      TEXT NOT NULL,
    blood_sugar_impact    TEXT NOT NULL,
    carbs_ratio           INTEGER NOT NULL DEFAULT 0,
    protein_ratio         INTEGER NOT NULL DEFAULT 0,
    fat_ratio             INTEGER NOT NULL DEFAULT 0,
    summary               TEXT NOT NULL DEFAULT '',
    action_guide          TEXT NOT NULL DEFAULT '',
    detailed_action_guide TEXT NOT NULL DEFAULT '',
    alternatives          TEXT NOT NULL DEFAULT '',
    image_key             TEXT,
    created_at            INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_food_logs_owner_created ON food_logs (owner_id, created_at);

CREATE TABLE IF NOT EXISTS health_logs (
    id          TEXT PRIMARY KEY,
    owner_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    sugar_level INTEGER NOT NULL CHECK (sugar_level > 0),
    note        TEXT,
    created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_health_logs_owner_created ON health_logs (owner_id, created_at);
`

// Store implements every repository interface on one SQLite database.
// Timestamps are stored as UTC unix nanoseconds so ordering is exact.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (or creates) the database at path. Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists only on the connection that created it.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger, now: time.Now}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.InfoContext(ctx, "SQLite store ready", slog.String("path", path))
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func startSpan(ctx context.Context, tracer, op, table string, extra ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs := append([]attribute.KeyValue{
		semconv.DBSystemSqlite,
		attribute.String("db.sql.table", table),
	}, extra...)
	return otel.Tracer(tracer).Start(ctx, op, trace.WithAttributes(attrs...))
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func toUnix(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
