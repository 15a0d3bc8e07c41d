package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"supportbot/internal/domain"
)

// PostgresStore implements domain.Store on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) CreateSession(ctx context.Context) (*domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO sessions DEFAULT VALUES RETURNING id, created_at`,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	return &s, nil
}

func (r *PostgresStore) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, summary FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

func (r *PostgresStore) UpdateSummary(ctx context.Context, id domain.SessionID, summary string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE sessions SET summary = $2 WHERE id = $1 RETURNING id, created_at, summary`, id, summary)
	return scanSession(row)
}

func (r *PostgresStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO messages (session_id, content, sender) VALUES ($1, $2, $3) RETURNING id, timestamp`,
		msg.SessionID, msg.Content, string(msg.Sender),
	).Scan(&msg.ID, &msg.Timestamp)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

func (r *PostgresStore) ListMessages(ctx context.Context, sessionID domain.SessionID) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
    SELECT id, session_id, content, sender, timestamp
    FROM messages
    WHERE session_id = $1
    ORDER BY timestamp, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		var sender string
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Content, &sender, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Sender = domain.Sender(sender)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return msgs, nil
}

func (r *PostgresStore) Close() error {
	return r.db.Close()
}

func scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	var summary sql.NullString
	if err := row.Scan(&s.ID, &s.CreatedAt, &summary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	if summary.Valid {
		s.Summary = &summary.String
	}
	return &s, nil
}
