package search

import (
	"context"
	"fmt"

	"carechat-be/internal/model"
	"carechat-be/pkg/embedding"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// PgVectorProvider ranks document chunks by cosine distance against the
// query embedding, using the local Postgres index.
type PgVectorProvider struct {
	db       *gorm.DB
	embedder embedding.EmbeddingProvider
}

var _ Provider = &PgVectorProvider{}

func NewPgVectorProvider(db *gorm.DB, embedder embedding.EmbeddingProvider) *PgVectorProvider {
	return &PgVectorProvider{
		db:       db,
		embedder: embedder,
	}
}

func (p *PgVectorProvider) Search(ctx context.Context, query string, topK int) ([]Passage, error) {
	if topK <= 0 {
		topK = 5
	}

	vector, err := p.embedder.Generate(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var docs []model.Document
	// Cosine distance operator: embedding <=> query vector
	err = p.db.WithContext(ctx).
		Model(&model.Document{}).
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(vector))).
		Limit(topK).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	passages := make([]Passage, 0, len(docs))
	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = "Untitled"
		}
		passages = append(passages, Passage{
			Title:   title,
			Content: doc.Chunk,
		})
	}

	return passages, nil
}
