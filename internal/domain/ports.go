package domain

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists sessions.
type SessionStore interface {
	CreateSession(ctx context.Context) (*Session, error)
	GetSession(ctx context.Context, id SessionID) (*Session, error)
	UpdateSummary(ctx context.Context, id SessionID, summary string) (*Session, error)
}

// MessageStore persists messages. ListMessages returns them ordered by
// timestamp ascending, ties broken by id.
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, sessionID SessionID) ([]Message, error)
}

// Store is a backend implementing both session and message persistence.
type Store interface {
	SessionStore
	MessageStore
	Close() error
}
