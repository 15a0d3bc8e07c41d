package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"supportbot/internal/domain"
)

const (
	KeySessionSeq    = "supportbot:sessions:seq"
	KeyMessageSeq    = "supportbot:messages:seq"
	KeySessionPrefix = "supportbot:session:"
)

type redisSession struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Summary   *string   `json:"summary"`
}

type redisMessage struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// RedisStore persists sessions as JSON values and each session's messages
// as a JSON list in append order.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewRedisStore(client), nil
}

func sessionKey(id domain.SessionID) string {
	return KeySessionPrefix + strconv.FormatInt(int64(id), 10)
}

func messagesKey(id domain.SessionID) string {
	return sessionKey(id) + ":messages"
}

func (s *RedisStore) CreateSession(ctx context.Context) (*domain.Session, error) {
	id, err := s.client.Incr(ctx, KeySessionSeq).Result()
	if err != nil {
		return nil, err
	}

	rs := redisSession{ID: id, CreatedAt: s.now().UTC()}
	data, err := json.Marshal(rs)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, sessionKey(domain.SessionID(id)), data, 0).Err(); err != nil {
		return nil, err
	}
	return rs.toDomain(), nil
}

func (s *RedisStore) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	rs, err := s.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return rs.toDomain(), nil
}

func (s *RedisStore) UpdateSummary(ctx context.Context, id domain.SessionID, summary string) (*domain.Session, error) {
	rs, err := s.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	rs.Summary = &summary

	data, err := json.Marshal(rs)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, sessionKey(id), data, 0).Err(); err != nil {
		return nil, err
	}
	return rs.toDomain(), nil
}

func (s *RedisStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	exists, err := s.client.Exists(ctx, sessionKey(msg.SessionID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return domain.ErrSessionNotFound
	}

	id, err := s.client.Incr(ctx, KeyMessageSeq).Result()
	if err != nil {
		return err
	}

	rm := redisMessage{
		ID:        id,
		SessionID: int64(msg.SessionID),
		Content:   msg.Content,
		Sender:    string(msg.Sender),
		Timestamp: s.now().UTC(),
	}
	data, err := json.Marshal(rm)
	if err != nil {
		return err
	}
	if err := s.client.RPush(ctx, messagesKey(msg.SessionID), data).Err(); err != nil {
		return err
	}

	msg.ID = domain.MessageID(id)
	msg.Timestamp = rm.Timestamp
	return nil
}

func (s *RedisStore) ListMessages(ctx context.Context, sessionID domain.SessionID) ([]domain.Message, error) {
	raw, err := s.client.LRange(ctx, messagesKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	msgs := make([]domain.Message, 0, len(raw))
	for _, item := range raw {
		var rm redisMessage
		if err := json.Unmarshal([]byte(item), &rm); err != nil {
			return nil, fmt.Errorf("decoding message of session %d: %w", sessionID, err)
		}
		msgs = append(msgs, rm.toDomain())
	}

	// Concurrent writers on different hosts may push slightly out of clock order.
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) loadSession(ctx context.Context, id domain.SessionID) (*redisSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var rs redisSession
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("decoding session %d: %w", id, err)
	}
	return &rs, nil
}

func (rs *redisSession) toDomain() *domain.Session {
	return &domain.Session{ID: domain.SessionID(rs.ID), CreatedAt: rs.CreatedAt, Summary: rs.Summary}
}

func (rm redisMessage) toDomain() domain.Message {
	return domain.Message{
		ID:        domain.MessageID(rm.ID),
		SessionID: domain.SessionID(rm.SessionID),
		Content:   rm.Content,
		Sender:    domain.Sender(rm.Sender),
		Timestamp: rm.Timestamp,
	}
}
