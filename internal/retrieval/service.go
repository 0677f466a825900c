package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/answerlab/answer-agent/internal/database"
	"github.com/answerlab/answer-agent/internal/embeddings"
	"github.com/answerlab/answer-agent/internal/models"
	"github.com/answerlab/answer-agent/internal/strategy"
	"github.com/rs/zerolog"
)

// Retriever is the retrieval gateway consumed by the control plane.
type Retriever interface {
	Retrieve(ctx context.Context, questionText string, strat strategy.Strategy) (models.RetrievalResult, error)
}

// Service answers retrieval requests with a vector similarity search: embed
// the question, fetch the strategy's top-K nearest chunks.
type Service struct {
	embedder embeddings.Embedder
	chunks   database.ChunkRepository
	logger   *zerolog.Logger
}

func NewService(embedder embeddings.Embedder, chunks database.ChunkRepository, logger *zerolog.Logger) *Service {
	return &Service{
		embedder: embedder,
		chunks:   chunks,
		logger:   logger,
	}
}

func (s *Service) Retrieve(ctx context.Context, questionText string, strat strategy.Strategy) (models.RetrievalResult, error) {
	if strings.TrimSpace(questionText) == "" {
		return models.RetrievalResult{}, fmt.Errorf("question text cannot be blank")
	}
	if !strat.Valid() {
		return models.RetrievalResult{}, fmt.Errorf("unknown retrieval strategy: %q", strat)
	}

	start := time.Now()
	topK := strat.TopK()

	s.logger.Info().
		Str("strategy", string(strat)).
		Int("top_k", topK).
		Msg("starting retrieval")

	queryEmbedding, err := s.embedder.GenerateEmbedding(ctx, questionText)
	if err != nil {
		return models.RetrievalResult{}, fmt.Errorf("failed to embed question: %w", err)
	}

	chunks, err := s.chunks.FindSimilar(ctx, queryEmbedding.Vector, topK)
	if err != nil {
		return models.RetrievalResult{}, fmt.Errorf("failed to search chunks: %w", err)
	}

	duration := time.Since(start)

	s.logger.Info().
		Str("strategy", string(strat)).
		Int("chunks_found", len(chunks)).
		Dur("duration", duration).
		Msg("retrieval complete")

	return models.NewRetrievalResult(chunks, string(strat), duration)
}
