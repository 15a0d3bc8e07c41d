package domain

// TurnRole is the role of a single turn in a provider prompt.
type TurnRole string

const (
	RoleSystemContext TurnRole = "system-context"
	RoleAssistantAck  TurnRole = "assistant-ack"
	RoleUser          TurnRole = "user"
	RoleAssistant     TurnRole = "assistant"
)

// Turn is one entry of a prompt sent to the LLM.
type Turn struct {
	Role TurnRole
	Text string
}
