package service

import (
	"fmt"
	"strings"

	"supportbot/internal/domain"
	"supportbot/internal/utils"
)

// SupportPersona is the system instruction for the InnovateTech assistant.
const SupportPersona = `You are a friendly and highly knowledgeable customer support assistant for a company named "InnovateTech".
Your role is to be helpful, polite, and efficient.
- If the user seems frustrated or asks for a human, trigger an escalation.
- Do not make up information. If you don't know the answer, say so.`

// AssistantGreeting primes the model with its identity. It is never generated.
const AssistantGreeting = "Understood. I am the InnovateTech assistant. How can I help you today?"

const noContextFound = "No specific context found."

const contextBlock = `--- CONTEXT FROM KNOWLEDGE BASE ---
If the following context is relevant to the user's query, use it to form your answer. Otherwise, ignore it.
Context: %s
-----------------------------------`

const summaryTemplate = `Please analyze the following customer support conversation and provide a concise, one-paragraph summary.
The summary should capture the main reason for the customer's inquiry and the final resolution or outcome.

--- CONVERSATION TRANSCRIPT ---
%s
-------------------------------

Summary:`

// BuildChatPrompt returns the system-context turn, the fixed acknowledgement
// and then one turn per history message in the order given.
func BuildChatPrompt(persona, retrievedContext string, history []domain.Message) []domain.Turn {
	if retrievedContext == "" {
		retrievedContext = noContextFound
	}
	system := persona + "\n\n" + fmt.Sprintf(contextBlock, retrievedContext)

	turns := make([]domain.Turn, 0, len(history)+2)
	turns = append(turns,
		domain.Turn{Role: domain.RoleSystemContext, Text: system},
		domain.Turn{Role: domain.RoleAssistantAck, Text: AssistantGreeting},
	)
	for _, m := range history {
		role := domain.RoleAssistant
		if m.Sender == domain.SenderUser {
			role = domain.RoleUser
		}
		turns = append(turns, domain.Turn{Role: role, Text: m.Content})
	}
	return turns
}

// BuildTranscript renders "<Sender>: <content>" lines joined by newlines.
func BuildTranscript(history []domain.Message) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, utils.Capitalize(string(m.Sender))+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// BuildSummaryPrompt embeds the transcript in the summary instructions.
func BuildSummaryPrompt(history []domain.Message) string {
	return fmt.Sprintf(summaryTemplate, BuildTranscript(history))
}
