package embedding

import "context"

// EmbeddingProvider generates a vector representation for a piece of text.
// Vectors are normalized so cosine distance behaves in pgvector.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
