package embeddings

import (
	"context"

	"github.com/answerlab/answer-agent/internal/models"
)

// Embedder turns text into a vector for similarity search.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) (models.Embedding, error)
	Dimension() int
}
