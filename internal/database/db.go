package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"supportbot/internal/observability"
)

// Open opens and pings the PostgreSQL database, then makes sure the schema exists.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database (ping): %w", err)
	}
	observability.Logger().Info("connected to PostgreSQL")

	if err := createTablesIfNotExist(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id BIGSERIAL PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    summary TEXT
);

CREATE TABLE IF NOT EXISTS messages (
    id BIGSERIAL PRIMARY KEY,
    session_id BIGINT NOT NULL REFERENCES sessions(id),
    content TEXT NOT NULL,
    sender VARCHAR(16) NOT NULL,
    timestamp TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS messages_session_timestamp_idx ON messages (session_id, timestamp, id);`

// createTablesIfNotExist creates the sessions and messages tables.
func createTablesIfNotExist(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	observability.Logger().Info("tables 'sessions' and 'messages' checked/created")
	return nil
}
