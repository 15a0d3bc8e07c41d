package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fixed user-facing replies. Clients match on these strings, keep them stable.
const (
	EscalationReply    = "I understand you'd like to speak with a human agent. I've escalated your request and someone will be in touch shortly."
	NotConfiguredReply = "Error: LLM model is not configured."
	ApologyReply       = "I'm sorry, I'm having trouble connecting to my brain right now. Please try again later."
	SummaryFailedReply = "Could not generate a summary for this conversation."
	WelcomeMessage     = "Welcome to the AI Customer Support Bot API!"
)

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
