package database

import (
	"context"
	"errors"
	"os"
	"testing"

	"supportbot/internal/domain"
)

// Runs against a real server when TEST_DATABASE_URL is set.
func TestPostgresStoreRoundTrip(t *testing.T) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Open(ctx, connStr)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	store := NewPostgresStore(db)
	defer store.Close()

	session, err := store.CreateSession(ctx)
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if session.Summary != nil {
		t.Fatalf("new session must have no summary")
	}

	for _, m := range []domain.Message{
		{SessionID: session.ID, Content: "What are your hours?", Sender: domain.SenderUser},
		{SessionID: session.ID, Content: "We're open 9 to 5!", Sender: domain.SenderBot},
	} {
		m := m
		if err := store.AppendMessage(ctx, &m); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if m.ID == 0 || m.Timestamp.IsZero() {
			t.Fatalf("expected id and timestamp to be assigned: %+v", m)
		}
	}

	msgs, err := store.ListMessages(ctx, session.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Sender != domain.SenderUser || msgs[1].Content != "We're open 9 to 5!" {
		t.Fatalf("unexpected history: %+v", msgs)
	}

	updated, err := store.UpdateSummary(ctx, session.ID, "asked about hours")
	if err != nil || updated.Summary == nil || *updated.Summary != "asked about hours" {
		t.Fatalf("update summary failed: %v %+v", err, updated)
	}

	if _, err := store.GetSession(ctx, -1); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
