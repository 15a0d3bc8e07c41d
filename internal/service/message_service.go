package service

import (
	"context"
	"errors"
	"fmt"

	"supportbot/internal/domain"
	"supportbot/internal/observability"
)

var ErrEmptySession = errors.New("cannot summarize an empty session")

// ChatService runs the session flows on top of the stores and the orchestrator.
// Concurrent posts to the same session are not serialized here.
type ChatService struct {
	sessions domain.SessionStore
	messages domain.MessageStore
	bot      *Orchestrator
}

func NewChatService(sessions domain.SessionStore, messages domain.MessageStore, bot *Orchestrator) *ChatService {
	return &ChatService{sessions: sessions, messages: messages, bot: bot}
}

func (s *ChatService) CreateSession(ctx context.Context) (*domain.Session, error) {
	session, err := s.sessions.CreateSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	observability.LoggerFromContext(ctx).Info("session created", "session_id", session.ID)
	return session, nil
}

// ListMessages returns the session's messages in chronological order.
func (s *ChatService) ListMessages(ctx context.Context, sessionID domain.SessionID) ([]domain.Message, error) {
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.messages.ListMessages(ctx, sessionID)
}

// PostMessage stores the user's message, generates the bot reply from the
// full history and stores it. The stored bot message is returned.
func (s *ChatService) PostMessage(ctx context.Context, sessionID domain.SessionID, content string) (*domain.Message, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	userMsg := &domain.Message{SessionID: sessionID, Content: content, Sender: domain.SenderUser}
	if err := s.messages.AppendMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("saving user message: %w", err)
	}
	log.Info("processing message", "message_id", userMsg.ID)

	history, err := s.messages.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	reply, err := s.bot.GenerateReply(ctx, history)
	if err != nil {
		return nil, fmt.Errorf("generating reply: %w", err)
	}

	botMsg := &domain.Message{SessionID: sessionID, Content: reply, Sender: domain.SenderBot}
	if err := s.messages.AppendMessage(ctx, botMsg); err != nil {
		return nil, fmt.Errorf("saving bot message: %w", err)
	}
	log.Info("reply stored", "message_id", botMsg.ID)

	return botMsg, nil
}

// SummarizeSession generates a summary of the session and stores it.
func (s *ChatService) SummarizeSession(ctx context.Context, sessionID domain.SessionID) (*domain.Session, error) {
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	history, err := s.messages.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if len(history) == 0 {
		return nil, ErrEmptySession
	}

	summary, err := s.bot.GenerateSummary(ctx, history)
	if err != nil {
		return nil, fmt.Errorf("generating summary: %w", err)
	}

	session, err := s.sessions.UpdateSummary(ctx, sessionID, summary)
	if err != nil {
		return nil, fmt.Errorf("saving summary: %w", err)
	}
	observability.LoggerFromContext(ctx).Info("session summarized", "session_id", sessionID)
	return session, nil
}
