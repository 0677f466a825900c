package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Question is one inbound user question. The correlation id is carried for
// tracing only and never drives control-flow decisions.
type Question struct {
	Text          string `json:"text"`
	CorrelationID string `json:"correlation_id"`
}

func NewQuestion(text string, correlationID string) (Question, error) {
	if strings.TrimSpace(text) == "" {
		return Question{}, errors.New("question text cannot be blank")
	}
	if strings.TrimSpace(correlationID) == "" {
		return Question{}, errors.New("correlation id cannot be blank")
	}
	return Question{Text: text, CorrelationID: correlationID}, nil
}

// Embedding is a vector produced by an embedding model, tagged with the
// model that produced it.
type Embedding struct {
	Vector []float32 `json:"vector"`
	Model  string    `json:"model"`
}

func NewEmbedding(vector []float32, model string) (Embedding, error) {
	if len(vector) == 0 {
		return Embedding{}, errors.New("embedding vector cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		return Embedding{}, errors.New("embedding model cannot be blank")
	}
	return Embedding{Vector: vector, Model: model}, nil
}

func (e Embedding) Dimension() int {
	return len(e.Vector)
}

// Chunk is a retrieved unit of source text with its embedding.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Text       string    `json:"text"`
	Position   int       `json:"position"`
	Embedding  Embedding `json:"embedding"`
}

func NewChunk(id, documentID, text string, position int, embedding Embedding) (Chunk, error) {
	if strings.TrimSpace(id) == "" {
		return Chunk{}, errors.New("chunk id cannot be blank")
	}
	if strings.TrimSpace(documentID) == "" {
		return Chunk{}, errors.New("document id cannot be blank")
	}
	if strings.TrimSpace(text) == "" {
		return Chunk{}, errors.New("chunk text cannot be blank")
	}
	if position < 0 {
		return Chunk{}, fmt.Errorf("chunk position cannot be negative: %d", position)
	}
	if len(embedding.Vector) == 0 {
		return Chunk{}, errors.New("chunk embedding cannot be empty")
	}
	return Chunk{
		ID:         id,
		DocumentID: documentID,
		Text:       text,
		Position:   position,
		Embedding:  embedding,
	}, nil
}

// Citation references a source chunk that supports an answer.
type Citation struct {
	ChunkID        string  `json:"chunk_id"`
	DocumentID     string  `json:"document_id"`
	Text           string  `json:"text"`
	RelevanceScore float64 `json:"relevance_score"`
}

func NewCitation(chunkID, documentID, text string, relevanceScore float64) (Citation, error) {
	if strings.TrimSpace(chunkID) == "" {
		return Citation{}, errors.New("citation chunk id cannot be blank")
	}
	if strings.TrimSpace(documentID) == "" {
		return Citation{}, errors.New("citation document id cannot be blank")
	}
	if strings.TrimSpace(text) == "" {
		return Citation{}, errors.New("citation text cannot be blank")
	}
	if relevanceScore < 0.0 || relevanceScore > 1.0 {
		return Citation{}, fmt.Errorf("relevance score must be in [0.0, 1.0]: %f", relevanceScore)
	}
	return Citation{
		ChunkID:        chunkID,
		DocumentID:     documentID,
		Text:           text,
		RelevanceScore: relevanceScore,
	}, nil
}

// Claim is one atomic factual statement extracted from a generated answer.
// SupportingChunkID is set only when the claim is grounded and context was
// available. Claims are never mutated; re-verification creates new ones.
type Claim struct {
	Text              string `json:"text"`
	Grounded          bool   `json:"grounded"`
	SupportingChunkID string `json:"supporting_chunk_id,omitempty"`
}

func NewClaim(text string, grounded bool, supportingChunkID string) (Claim, error) {
	if strings.TrimSpace(text) == "" {
		return Claim{}, errors.New("claim text cannot be blank")
	}
	return Claim{Text: text, Grounded: grounded, SupportingChunkID: supportingChunkID}, nil
}

// RetrievalResult holds the ordered chunks returned for one attempt.
type RetrievalResult struct {
	Chunks   []Chunk       `json:"chunks"`
	Strategy string        `json:"strategy"`
	Duration time.Duration `json:"duration_ns"`
}

func NewRetrievalResult(chunks []Chunk, strategy string, duration time.Duration) (RetrievalResult, error) {
	if strings.TrimSpace(strategy) == "" {
		return RetrievalResult{}, errors.New("retrieval strategy cannot be blank")
	}
	if duration < 0 {
		return RetrievalResult{}, fmt.Errorf("retrieval duration cannot be negative: %d", duration)
	}
	return RetrievalResult{Chunks: chunks, Strategy: strategy, Duration: duration}, nil
}
