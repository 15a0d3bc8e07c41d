package sessions

import (
	"context"
	"errors"
	"os"
	"testing"

	"supportbot/internal/domain"
)

func TestRedisKeys(t *testing.T) {
	if got := sessionKey(7); got != "supportbot:session:7" {
		t.Errorf("sessionKey = %q", got)
	}
	if got := messagesKey(7); got != "supportbot:session:7:messages" {
		t.Errorf("messagesKey = %q", got)
	}
}

// Runs against a real server when TEST_REDIS_ADDR is set.
func TestRedisStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	store, err := OpenRedis(ctx, addr, "", 15)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer store.Close()

	session, err := store.CreateSession(ctx)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer store.client.Del(ctx, sessionKey(session.ID), messagesKey(session.ID))

	for _, m := range []domain.Message{
		{SessionID: session.ID, Content: "My order is late", Sender: domain.SenderUser},
		{SessionID: session.ID, Content: "I've expedited it", Sender: domain.SenderBot},
	} {
		m := m
		if err := store.AppendMessage(ctx, &m); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	msgs, err := store.ListMessages(ctx, session.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Sender != domain.SenderUser || msgs[1].Sender != domain.SenderBot {
		t.Fatalf("unexpected history: %+v", msgs)
	}

	updated, err := store.UpdateSummary(ctx, session.ID, "late order expedited")
	if err != nil || updated.Summary == nil || *updated.Summary != "late order expedited" {
		t.Fatalf("update summary failed: %v %+v", err, updated)
	}

	if _, err := store.GetSession(ctx, -1); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
