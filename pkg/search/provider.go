// Package search retrieves ranked document passages used to ground FAQ
// answers. Two backends exist: a remote search service speaking a REST API
// and a local pgvector index.
package search

import "context"

// Passage is one retrieved chunk with the title of its source document.
type Passage struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float32 `json:"score"`
}

type Provider interface {
	Search(ctx context.Context, query string, topK int) ([]Passage, error)
}

// Titles returns the distinct source document titles in rank order.
func Titles(passages []Passage) []string {
	seen := make(map[string]struct{}, len(passages))
	titles := make([]string, 0, len(passages))
	for _, p := range passages {
		if p.Title == "" {
			continue
		}
		if _, dup := seen[p.Title]; dup {
			continue
		}
		seen[p.Title] = struct{}{}
		titles = append(titles, p.Title)
	}
	return titles
}
