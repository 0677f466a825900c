package control

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/answerlab/answer-agent/internal/catalog"
	"github.com/answerlab/answer-agent/internal/models"
	"github.com/answerlab/answer-agent/internal/strategy"
	"github.com/rs/zerolog"
)

// citationRelevance is a fixed placeholder; per-citation similarity is not
// recomputed from the retrieval ranking.
const citationRelevance = 0.9

const maxCitations = 3

// Retriever is the retrieval gateway.
type Retriever interface {
	Retrieve(ctx context.Context, questionText string, strat strategy.Strategy) (models.RetrievalResult, error)
}

// Generator is the generation gateway.
type Generator interface {
	Generate(ctx context.Context, model string, prompt string, maxTokens int) (string, error)
	IsModelAvailable(ctx context.Context, model string) bool
}

// Verifier produces a grounding verdict for a generated answer.
type Verifier interface {
	Verify(ctx context.Context, answer models.Answer, retrieval models.RetrievalResult) (models.VerificationResult, error)
}

// Params are the loop's tunables, overridable for tests.
type Params struct {
	MaxAttempts         int
	ConfidenceThreshold float64
}

func DefaultParams() Params {
	return Params{
		MaxAttempts:         2,
		ConfidenceThreshold: 0.70,
	}
}

// ControlError is returned only when every attempt in the budget failed with
// a downstream error. Low confidence is never an error.
type ControlError struct {
	Attempts int
	cause    error
}

func (e *ControlError) Error() string {
	return fmt.Sprintf("failed to generate answer after %d attempts: %v", e.Attempts, e.cause)
}

func (e *ControlError) Unwrap() error {
	return e.cause
}

// Plane drives the retrieve-generate-verify loop, escalating the model tier
// and retrieval strategy when grounding confidence is insufficient.
type Plane struct {
	retriever Retriever
	generator Generator
	verifier  Verifier
	models    *catalog.Catalog
	escalator *strategy.Escalator
	params    Params
	logger    *zerolog.Logger
}

func NewPlane(
	retriever Retriever,
	generator Generator,
	verifier Verifier,
	modelCatalog *catalog.Catalog,
	escalator *strategy.Escalator,
	params Params,
	logger *zerolog.Logger,
) *Plane {
	return &Plane{
		retriever: retriever,
		generator: generator,
		verifier:  verifier,
		models:    modelCatalog,
		escalator: escalator,
		params:    params,
		logger:    logger,
	}
}

// Answer runs up to MaxAttempts retrieve-generate-verify cycles. It returns
// the first result whose confidence meets the threshold, or the last
// attempt's result when the budget runs out. It fails only when every
// attempt raised a downstream error.
func (p *Plane) Answer(ctx context.Context, question models.Question) (models.AnswerResult, error) {
	if strings.TrimSpace(question.Text) == "" {
		return models.AnswerResult{}, errors.New("question text cannot be blank")
	}

	logger := p.logger.With().Str("correlation_id", question.CorrelationID).Logger()
	logger.Info().Msg("control plane processing question")

	currentModel := p.models.DefaultModel()
	currentStrategy := strategy.Simple

	var lastErr error

	for attempt := 1; attempt <= p.params.MaxAttempts; attempt++ {
		logger.Info().
			Int("attempt", attempt).
			Int("max_attempts", p.params.MaxAttempts).
			Str("model", currentModel).
			Str("strategy", string(currentStrategy)).
			Msg("starting attempt")

		result, err := p.attempt(ctx, question, currentModel, currentStrategy)
		if err != nil {
			logger.Error().Err(err).Int("attempt", attempt).Msg("attempt failed")
			lastErr = err

			if attempt >= p.params.MaxAttempts {
				return models.AnswerResult{}, &ControlError{Attempts: p.params.MaxAttempts, cause: lastErr}
			}

			currentModel = p.models.Escalate(currentModel)
			currentStrategy = p.escalator.Escalate(currentStrategy)
			continue
		}

		logger.Info().
			Int("attempt", attempt).
			Str("verification", string(result.Verification.Status)).
			Float64("confidence", result.Confidence).
			Msg("attempt complete")

		if result.Confidence >= p.params.ConfidenceThreshold || attempt >= p.params.MaxAttempts {
			return result, nil
		}

		currentModel = p.models.Escalate(currentModel)
		currentStrategy = p.escalator.Escalate(currentStrategy)

		logger.Info().
			Str("next_model", currentModel).
			Str("next_strategy", string(currentStrategy)).
			Msg("confidence below threshold, escalating")
	}

	// Unreachable with MaxAttempts >= 1; kept for a zero budget misconfiguration.
	return models.AnswerResult{}, &ControlError{Attempts: p.params.MaxAttempts, cause: lastErr}
}

func (p *Plane) attempt(ctx context.Context, question models.Question, model string, strat strategy.Strategy) (models.AnswerResult, error) {
	retrieved, err := p.retriever.Retrieve(ctx, question.Text, strat)
	if err != nil {
		return models.AnswerResult{}, fmt.Errorf("retrieval failed: %w", err)
	}

	answer, err := p.generateAnswer(ctx, question.Text, retrieved, model)
	if err != nil {
		return models.AnswerResult{}, fmt.Errorf("generation failed: %w", err)
	}

	verification, err := p.verifier.Verify(ctx, answer, retrieved)
	if err != nil {
		return models.AnswerResult{}, fmt.Errorf("verification failed: %w", err)
	}

	confidence := confidenceFor(verification)

	return models.NewAnswerResult(answer, verification, confidence, retrieved.Strategy)
}

func (p *Plane) generateAnswer(ctx context.Context, questionText string, retrieved models.RetrievalResult, model string) (models.Answer, error) {
	prompt := buildPrompt(questionText, retrieved.Chunks)
	maxTokens := p.models.TokenBudget(model)

	text, err := p.generator.Generate(ctx, model, prompt, maxTokens)
	if err != nil {
		return models.Answer{}, err
	}

	citations, err := buildCitations(retrieved.Chunks)
	if err != nil {
		return models.Answer{}, err
	}

	return models.NewAnswer(text, citations, model)
}

func buildPrompt(questionText string, chunks []models.Chunk) string {
	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Text)
	}

	return fmt.Sprintf(
		"Answer the question based only on the context provided. "+
			"If the context doesn't contain enough information, say so.\n\n"+
			"Context:\n%s\n\n"+
			"Question: %s\n\n"+
			"Answer:",
		strings.Join(texts, "\n\n"),
		questionText)
}

func buildCitations(chunks []models.Chunk) ([]models.Citation, error) {
	limit := maxCitations
	if len(chunks) < limit {
		limit = len(chunks)
	}

	citations := make([]models.Citation, 0, limit)
	for _, chunk := range chunks[:limit] {
		citation, err := models.NewCitation(chunk.ID, chunk.DocumentID, chunk.Text, citationRelevance)
		if err != nil {
			return nil, fmt.Errorf("invalid citation for chunk %s: %w", chunk.ID, err)
		}
		citations = append(citations, citation)
	}

	return citations, nil
}
