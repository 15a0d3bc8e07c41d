package service

import (
	"context"
	"errors"
	"strings"

	"supportbot/internal/domain"
	"supportbot/internal/observability"
	"supportbot/internal/utils"
)

var (
	ErrEmptyHistory      = errors.New("conversation history is empty")
	ErrHistoryOutOfOrder = errors.New("conversation history is not ordered by timestamp")
)

// KnowledgeSource looks up retrieval context for a query.
type KnowledgeSource interface {
	FindRelevantAnswer(query string) string
}

// Generator produces text for a prompt. *Gateway is the production implementation.
type Generator interface {
	Generate(ctx context.Context, turns []domain.Turn) (string, error)
}

// Orchestrator turns a conversation history into a bot reply or a summary.
// It keeps no state between calls.
type Orchestrator struct {
	kb      KnowledgeSource
	llm     Generator
	persona string
}

func NewOrchestrator(kb KnowledgeSource, llm Generator) *Orchestrator {
	return &Orchestrator{kb: kb, llm: llm, persona: SupportPersona}
}

// GenerateReply answers the last message of history. Provider failures are
// rendered as fixed reply text; only a malformed history returns an error.
func (o *Orchestrator) GenerateReply(ctx context.Context, history []domain.Message) (string, error) {
	if err := validateHistory(history); err != nil {
		return "", err
	}

	query := history[len(history)-1].Content
	if CheckEscalation(query) {
		observability.LoggerFromContext(ctx).Info("escalation requested, skipping generation",
			"session_id", history[len(history)-1].SessionID)
		return utils.EscalationReply, nil
	}

	kbContext := o.kb.FindRelevantAnswer(query)
	prompt := BuildChatPrompt(o.persona, kbContext, history)

	reply, err := o.llm.Generate(ctx, prompt)
	if err != nil {
		return renderFailure(err, utils.ApologyReply), nil
	}
	// Replies are returned as generated; only summaries are trimmed.
	return reply, nil
}

// GenerateSummary asks the provider for a one-paragraph summary of history.
func (o *Orchestrator) GenerateSummary(ctx context.Context, history []domain.Message) (string, error) {
	if err := validateHistory(history); err != nil {
		return "", err
	}

	prompt := []domain.Turn{{Role: domain.RoleUser, Text: BuildSummaryPrompt(history)}}
	summary, err := o.llm.Generate(ctx, prompt)
	if err != nil {
		return renderFailure(err, utils.SummaryFailedReply), nil
	}
	return strings.TrimSpace(summary), nil
}

func renderFailure(err error, fallback string) string {
	if errors.Is(err, ErrNotConfigured) {
		return utils.NotConfiguredReply
	}
	return fallback
}

func validateHistory(history []domain.Message) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}
	for i := 1; i < len(history); i++ {
		if history[i].Timestamp.Before(history[i-1].Timestamp) {
			return ErrHistoryOutOfOrder
		}
	}
	return nil
}
