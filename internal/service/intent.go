package service

import "strings"

var escalationKeywords = []string{"human", "agent"}

// CheckEscalation reports whether the raw user query asks for a person.
func CheckEscalation(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range escalationKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
