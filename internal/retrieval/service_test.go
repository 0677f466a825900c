package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/answerlab/answer-agent/internal/models"
	"github.com/answerlab/answer-agent/internal/strategy"
	"github.com/rs/zerolog"
)

type stubEmbedder struct {
	embedding models.Embedding
	err       error
	lastText  string
}

func (s *stubEmbedder) GenerateEmbedding(_ context.Context, text string) (models.Embedding, error) {
	s.lastText = text
	if s.err != nil {
		return models.Embedding{}, s.err
	}
	return s.embedding, nil
}

func (s *stubEmbedder) Dimension() int {
	return len(s.embedding.Vector)
}

type stubChunkRepo struct {
	chunks   []models.Chunk
	err      error
	lastTopK int
}

func (s *stubChunkRepo) Save(context.Context, models.Chunk) error {
	return nil
}

func (s *stubChunkRepo) FindSimilar(_ context.Context, _ []float32, topK int) ([]models.Chunk, error) {
	s.lastTopK = topK
	if s.err != nil {
		return nil, s.err
	}
	return s.chunks, nil
}

func (s *stubChunkRepo) DeleteByDocument(context.Context, string) error {
	return nil
}

func newTestService(t *testing.T, repo *stubChunkRepo) (*Service, *stubEmbedder) {
	t.Helper()

	embedding, err := models.NewEmbedding([]float32{0.1, 0.2}, "nomic-embed-text")
	if err != nil {
		t.Fatalf("NewEmbedding failed: %v", err)
	}

	embedder := &stubEmbedder{embedding: embedding}
	logger := zerolog.Nop()
	return NewService(embedder, repo, &logger), embedder
}

func TestRetrieve_Success(t *testing.T) {
	embedding, _ := models.NewEmbedding([]float32{0.5}, "nomic-embed-text")
	chunk, err := models.NewChunk("c1", "d1", "Paris is the capital of France.", 0, embedding)
	if err != nil {
		t.Fatalf("NewChunk failed: %v", err)
	}

	repo := &stubChunkRepo{chunks: []models.Chunk{chunk}}
	service, embedder := newTestService(t, repo)

	result, err := service.Retrieve(context.Background(), "What is the capital of France?", strategy.Simple)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if len(result.Chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(result.Chunks))
	}
	if result.Strategy != "simple" {
		t.Errorf("Expected strategy simple, got %s", result.Strategy)
	}
	if repo.lastTopK != 5 {
		t.Errorf("Expected top-K 5 for simple strategy, got %d", repo.lastTopK)
	}
	if embedder.lastText != "What is the capital of France?" {
		t.Errorf("Expected question to be embedded, got %q", embedder.lastText)
	}
}

func TestRetrieve_StrategyControlsTopK(t *testing.T) {
	tests := []struct {
		strat    strategy.Strategy
		expected int
	}{
		{strategy.Simple, 5},
		{strategy.Deep, 10},
		{strategy.Exhaustive, 20},
	}

	for _, tt := range tests {
		repo := &stubChunkRepo{}
		service, _ := newTestService(t, repo)

		if _, err := service.Retrieve(context.Background(), "question", tt.strat); err != nil {
			t.Fatalf("Retrieve(%s) failed: %v", tt.strat, err)
		}
		if repo.lastTopK != tt.expected {
			t.Errorf("Strategy %s: expected top-K %d, got %d", tt.strat, tt.expected, repo.lastTopK)
		}
	}
}

func TestRetrieve_BlankQuestion(t *testing.T) {
	service, _ := newTestService(t, &stubChunkRepo{})

	if _, err := service.Retrieve(context.Background(), "  ", strategy.Simple); err == nil {
		t.Error("Expected error for blank question")
	}
}

func TestRetrieve_InvalidStrategy(t *testing.T) {
	service, _ := newTestService(t, &stubChunkRepo{})

	if _, err := service.Retrieve(context.Background(), "question", strategy.Strategy("bogus")); err == nil {
		t.Error("Expected error for invalid strategy")
	}
}

func TestRetrieve_EmbedderError(t *testing.T) {
	service, embedder := newTestService(t, &stubChunkRepo{})
	embedder.err = errors.New("ollama unavailable")

	if _, err := service.Retrieve(context.Background(), "question", strategy.Simple); err == nil {
		t.Error("Expected error when embedding fails")
	}
}

func TestRetrieve_RepositoryError(t *testing.T) {
	service, _ := newTestService(t, &stubChunkRepo{err: errors.New("db down")})

	if _, err := service.Retrieve(context.Background(), "question", strategy.Simple); err == nil {
		t.Error("Expected error when search fails")
	}
}

func TestRetrieve_NoResultsIsNotAnError(t *testing.T) {
	service, _ := newTestService(t, &stubChunkRepo{})

	result, err := service.Retrieve(context.Background(), "question", strategy.Simple)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(result.Chunks) != 0 {
		t.Errorf("Expected no chunks, got %d", len(result.Chunks))
	}
}
