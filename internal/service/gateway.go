package service

import (
	"context"
	"errors"

	"supportbot/internal/domain"
	"supportbot/internal/observability"
)

// ErrNotConfigured is returned by a disabled gateway without contacting the provider.
var ErrNotConfigured = errors.New("llm model is not configured")

// ProviderError wraps any failure of a provider call.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return "llm provider: " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, turns []domain.Turn) (string, error)
}

// Gateway is the single boundary to the LLM provider. A gateway built
// without a client is disabled and answers every call with ErrNotConfigured.
type Gateway struct {
	provider contentGenerator
}

// NewGateway wraps client. A nil client yields a disabled gateway.
func NewGateway(client *GeminiClient) *Gateway {
	if client == nil {
		return &Gateway{}
	}
	return &Gateway{provider: client}
}

// Enabled reports whether a provider client is configured.
func (g *Gateway) Enabled() bool {
	return g.provider != nil
}

// Generate makes exactly one provider call. Provider failures are logged
// and returned as *ProviderError; the text is returned untouched.
func (g *Gateway) Generate(ctx context.Context, turns []domain.Turn) (string, error) {
	if g.provider == nil {
		return "", ErrNotConfigured
	}

	text, err := g.provider.GenerateContent(ctx, turns)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("error generating response from LLM", "error", err)
		return "", &ProviderError{Err: err}
	}
	return text, nil
}
