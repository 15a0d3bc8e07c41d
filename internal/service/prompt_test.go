package service

import (
	"strings"
	"testing"

	"supportbot/internal/domain"
)

func TestBuildChatPrompt_Structure(t *testing.T) {
	history := []domain.Message{
		{Sender: domain.SenderUser, Content: "Hi"},
		{Sender: domain.SenderBot, Content: "Hello! How can I help?"},
		{Sender: domain.SenderUser, Content: "What are your hours?"},
	}

	turns := BuildChatPrompt(SupportPersona, "We are open 9-5 Mon-Fri.", history)

	if len(turns) != len(history)+2 {
		t.Fatalf("expected %d turns, got %d", len(history)+2, len(turns))
	}
	if turns[0].Role != domain.RoleSystemContext {
		t.Errorf("first turn role = %q, want system-context", turns[0].Role)
	}
	if !strings.HasPrefix(turns[0].Text, SupportPersona) {
		t.Errorf("system turn must start with the persona")
	}
	if !strings.Contains(turns[0].Text, "Context: We are open 9-5 Mon-Fri.") {
		t.Errorf("system turn must embed the retrieved context: %q", turns[0].Text)
	}
	if turns[1].Role != domain.RoleAssistantAck || turns[1].Text != AssistantGreeting {
		t.Errorf("second turn must be the fixed acknowledgement, got %+v", turns[1])
	}

	wantRoles := []domain.TurnRole{domain.RoleUser, domain.RoleAssistant, domain.RoleUser}
	for i, m := range history {
		turn := turns[i+2]
		if turn.Role != wantRoles[i] || turn.Text != m.Content {
			t.Errorf("turn %d = %+v, want role %q text %q", i+2, turn, wantRoles[i], m.Content)
		}
	}
}

func TestBuildChatPrompt_NoContext(t *testing.T) {
	turns := BuildChatPrompt(SupportPersona, "", []domain.Message{{Sender: domain.SenderUser, Content: "tell me a joke"}})
	if !strings.Contains(turns[0].Text, "Context: No specific context found.") {
		t.Errorf("expected no-context notice, got %q", turns[0].Text)
	}
	for _, turn := range turns {
		if turn.Role == domain.RoleSystemContext && turn != turns[0] {
			t.Errorf("only one system-context turn expected")
		}
	}
}

func TestBuildSummaryPrompt(t *testing.T) {
	history := []domain.Message{
		{Sender: domain.SenderUser, Content: "My order is late"},
		{Sender: domain.SenderBot, Content: "I've expedited it"},
	}

	if got := BuildTranscript(history); got != "User: My order is late\nBot: I've expedited it" {
		t.Errorf("unexpected transcript: %q", got)
	}

	prompt := BuildSummaryPrompt(history)
	for _, want := range []string{
		"one-paragraph summary",
		"main reason for the customer's inquiry",
		"User: My order is late\nBot: I've expedited it",
		"Summary:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("summary prompt missing %q", want)
		}
	}
}
