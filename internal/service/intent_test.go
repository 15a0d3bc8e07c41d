package service

import "testing"

func TestCheckEscalation(t *testing.T) {
	tests := map[string]bool{
		"I want to talk to a human":    true,
		"Get me an AGENT please":       true,
		"HumanResources department":    true,
		"are you an agentic system?":   true,
		"What are your hours?":         false,
		"":                             false,
		"I'd like a refund for my mug": false,
	}
	for query, want := range tests {
		if got := CheckEscalation(query); got != want {
			t.Errorf("CheckEscalation(%q) = %v, want %v", query, got, want)
		}
	}
}
