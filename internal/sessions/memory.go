package sessions

import (
	"context"
	"sync"
	"time"

	"supportbot/internal/domain"
)

// MemoryStore keeps sessions and messages in process memory.
type MemoryStore struct {
	mu       sync.RWMutex // guards every field below
	sessions map[domain.SessionID]*domain.Session
	messages map[domain.SessionID][]domain.Message
	lastSID  domain.SessionID
	lastMID  domain.MessageID
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[domain.SessionID]*domain.Session),
		messages: make(map[domain.SessionID][]domain.Message),
		now:      time.Now,
	}
}

func (s *MemoryStore) CreateSession(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSID++
	session := &domain.Session{ID: s.lastSID, CreatedAt: s.now().UTC()}
	s.sessions[session.ID] = session

	cp := *session
	return &cp, nil
}

func (s *MemoryStore) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *MemoryStore) UpdateSummary(ctx context.Context, id domain.SessionID, summary string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	session.Summary = &summary

	cp := *session
	return &cp, nil
}

// AppendMessage assigns the message id and timestamp. Timestamps never go
// backwards within a session even if the wall clock does.
func (s *MemoryStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[msg.SessionID]; !ok {
		return domain.ErrSessionNotFound
	}

	ts := s.now().UTC()
	if existing := s.messages[msg.SessionID]; len(existing) > 0 {
		if last := existing[len(existing)-1].Timestamp; ts.Before(last) {
			ts = last
		}
	}

	s.lastMID++
	msg.ID = s.lastMID
	msg.Timestamp = ts
	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], *msg)
	return nil
}

func (s *MemoryStore) ListMessages(ctx context.Context, sessionID domain.SessionID) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
