package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/answerlab/answer-agent/internal/models"
	"github.com/rs/zerolog"
)

const (
	DefaultModel     = "nomic-embed-text"
	defaultDimension = 768
)

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// OllamaEmbedder calls Ollama's /api/embeddings endpoint.
type OllamaEmbedder struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewOllamaEmbedder(baseURL string, model string, timeout time.Duration, logger *zerolog.Logger) (*OllamaEmbedder, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("Ollama base URL is required")
	}
	if model == "" {
		model = DefaultModel
	}

	return &OllamaEmbedder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

func (e *OllamaEmbedder) GenerateEmbedding(ctx context.Context, text string) (models.Embedding, error) {
	if strings.TrimSpace(text) == "" {
		return models.Embedding{}, fmt.Errorf("text cannot be blank")
	}

	body, err := json.Marshal(embeddingRequest{Model: e.model, Prompt: text})
	if err != nil {
		return models.Embedding{}, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return models.Embedding{}, fmt.Errorf("failed to build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return models.Embedding{}, fmt.Errorf("failed to call Ollama embeddings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return models.Embedding{}, fmt.Errorf("Ollama embeddings returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var response embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return models.Embedding{}, fmt.Errorf("failed to decode embedding response: %w", err)
	}

	if len(response.Embedding) == 0 {
		return models.Embedding{}, fmt.Errorf("received empty embedding from Ollama")
	}

	vector := make([]float32, len(response.Embedding))
	for i, v := range response.Embedding {
		vector[i] = float32(v)
	}

	e.logger.Debug().Int("dimension", len(vector)).Msg("embedding generated")

	return models.NewEmbedding(vector, e.model)
}

func (e *OllamaEmbedder) Dimension() int {
	return defaultDimension
}
