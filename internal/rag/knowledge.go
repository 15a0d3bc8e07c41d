package rag

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"supportbot/internal/domain"
)

// KnowledgeBase is the static FAQ table used as retrieval source.
// It is never mutated after loading, so concurrent reads need no locking.
type KnowledgeBase struct {
	entries []domain.KnowledgeEntry
}

type knowledgeFile struct {
	FAQs []domain.KnowledgeEntry `json:"faqs"`
}

// NewKnowledgeBase builds a knowledge base from entries, keeping their order.
// Keywords are lowercased and blank keywords dropped.
func NewKnowledgeBase(entries []domain.KnowledgeEntry) *KnowledgeBase {
	kb := &KnowledgeBase{entries: make([]domain.KnowledgeEntry, 0, len(entries))}
	for _, e := range entries {
		keywords := make([]string, 0, len(e.Keywords))
		for _, k := range e.Keywords {
			k = strings.ToLower(k)
			if strings.TrimSpace(k) == "" {
				continue
			}
			keywords = append(keywords, k)
		}
		kb.entries = append(kb.entries, domain.KnowledgeEntry{Keywords: keywords, Answer: e.Answer})
	}
	return kb
}

// Parse decodes a {"faqs": [...]} document.
func Parse(r io.Reader) (*KnowledgeBase, error) {
	var f knowledgeFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding knowledge base: %w", err)
	}
	return NewKnowledgeBase(f.FAQs), nil
}

// Load reads the knowledge base at path. On a missing or malformed file it
// returns an empty knowledge base together with the cause, never nil.
func Load(path string) (*KnowledgeBase, error) {
	f, err := os.Open(path)
	if err != nil {
		return NewKnowledgeBase(nil), fmt.Errorf("opening knowledge base: %w", err)
	}
	defer f.Close()

	kb, err := Parse(f)
	if err != nil {
		return NewKnowledgeBase(nil), err
	}
	return kb, nil
}

// Len returns the number of entries.
func (kb *KnowledgeBase) Len() int {
	return len(kb.entries)
}

// FindRelevantAnswer returns the answer of the first entry, in load order,
// having a keyword contained in the lowercased query. Empty when nothing matches.
func (kb *KnowledgeBase) FindRelevantAnswer(query string) string {
	query = strings.ToLower(query)
	for _, e := range kb.entries {
		for _, k := range e.Keywords {
			if strings.Contains(query, k) {
				return e.Answer
			}
		}
	}
	return ""
}
