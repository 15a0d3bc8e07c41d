package domain

// KnowledgeEntry is a canned answer triggered by any of its keywords.
type KnowledgeEntry struct {
	Keywords []string `json:"keywords"`
	Answer   string   `json:"answer"`
}
