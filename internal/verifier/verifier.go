package verifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/answerlab/answer-agent/internal/llm"
	"github.com/answerlab/answer-agent/internal/models"
	"github.com/rs/zerolog"
)

const (
	// DefaultModel is the small fixed model used for claim extraction and
	// per-claim grounding checks.
	DefaultModel = "phi3:mini"

	extractionMaxTokens = 500
	checkMaxTokens      = 10

	// Per-claim checks only read shared context, so a small worker pool is a
	// safe throughput optimization.
	defaultMaxWorkers = 3

	// Chunks considered per grounding check, by retrieval order.
	contextChunkLimit = 3

	groundedThreshold          = 0.90
	partiallyGroundedThreshold = 0.50
)

// CheckOutcome is the explicit result of one per-claim grounding check.
// A failed check is visible here rather than buried in error handling; it
// counts as not grounded when aggregating.
type CheckOutcome int

const (
	OutcomeGrounded CheckOutcome = iota
	OutcomeNotGrounded
	OutcomeCheckFailed
)

func (o CheckOutcome) Grounded() bool {
	return o == OutcomeGrounded
}

// Verifier decomposes a generated answer into factual claims and checks each
// one against the retrieved context. Downstream model failures degrade the
// affected claim to not grounded; Verify errors only on invalid input.
type Verifier struct {
	llmClient  llm.Client
	model      string
	maxWorkers int
	logger     *zerolog.Logger
}

func New(llmClient llm.Client, model string, logger *zerolog.Logger) *Verifier {
	if model == "" {
		model = DefaultModel
	}
	return &Verifier{
		llmClient:  llmClient,
		model:      model,
		maxWorkers: defaultMaxWorkers,
		logger:     logger,
	}
}

func (v *Verifier) Verify(ctx context.Context, answer models.Answer, retrieval models.RetrievalResult) (models.VerificationResult, error) {
	if strings.TrimSpace(answer.Text) == "" {
		return models.VerificationResult{}, errors.New("answer text cannot be blank")
	}

	v.logger.Info().
		Int("answer_length", len(answer.Text)).
		Int("context_chunks", len(retrieval.Chunks)).
		Msg("starting answer verification")

	claimTexts := v.extractClaims(ctx, answer.Text)
	v.logger.Debug().Int("claims", len(claimTexts)).Msg("claims extracted")

	outcomes := v.checkClaims(ctx, claimTexts, retrieval.Chunks)

	claims := make([]models.Claim, 0, len(claimTexts))
	groundedCount := 0
	for i, text := range claimTexts {
		grounded := outcomes[i].Grounded()

		supportingChunkID := ""
		if grounded && len(retrieval.Chunks) > 0 {
			// Attribution is approximate: the check evaluates up to three
			// chunks jointly, so the first chunk stands in for all of them.
			supportingChunkID = retrieval.Chunks[0].ID
		}

		claim, err := models.NewClaim(text, grounded, supportingChunkID)
		if err != nil {
			return models.VerificationResult{}, fmt.Errorf("invalid claim: %w", err)
		}
		claims = append(claims, claim)

		if grounded {
			groundedCount++
		}
	}

	// An answer with no extractable claims is vacuously grounded.
	groundingScore := 1.0
	if len(claims) > 0 {
		groundingScore = float64(groundedCount) / float64(len(claims))
	}

	status := statusFor(groundingScore)

	reasoning := fmt.Sprintf("Verified %d/%d claims as grounded (%.2f%% grounding)",
		groundedCount, len(claims), groundingScore*100)

	v.logger.Info().
		Str("status", string(status)).
		Float64("grounding_score", groundingScore).
		Msg("verification complete")

	return models.NewVerificationResult(status, claims, groundingScore, reasoning)
}

func (v *Verifier) checkClaims(ctx context.Context, claimTexts []string, chunks []models.Chunk) []CheckOutcome {
	outcomes := make([]CheckOutcome, len(claimTexts))

	sem := make(chan struct{}, v.maxWorkers)
	var wg sync.WaitGroup

	for i, text := range claimTexts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[i] = v.checkClaim(ctx, text, chunks)
		}(i, text)
	}

	wg.Wait()
	return outcomes
}

func (v *Verifier) checkClaim(ctx context.Context, claim string, chunks []models.Chunk) CheckOutcome {
	if len(chunks) == 0 {
		return OutcomeNotGrounded
	}

	prompt := fmt.Sprintf(
		"Does the following context support the claim? Answer only 'yes' or 'no'.\n\n"+
			"Context: %s\n\n"+
			"Claim: %s\n\n"+
			"Answer:",
		contextBlock(chunks), claim)

	response, err := v.llmClient.Generate(ctx, v.model, prompt, checkMaxTokens)
	if err != nil {
		// Fail closed: an unverifiable claim is not a grounded claim.
		v.logger.Warn().Err(err).Msg("claim check failed, assuming not grounded")
		return OutcomeCheckFailed
	}

	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(response)), "yes") {
		return OutcomeGrounded
	}
	return OutcomeNotGrounded
}

func contextBlock(chunks []models.Chunk) string {
	limit := contextChunkLimit
	if len(chunks) < limit {
		limit = len(chunks)
	}

	texts := make([]string, 0, limit)
	for _, chunk := range chunks[:limit] {
		texts = append(texts, chunk.Text)
	}
	return strings.Join(texts, "\n\n")
}

func statusFor(groundingScore float64) models.VerificationStatus {
	if groundingScore >= groundedThreshold {
		return models.StatusGrounded
	}
	if groundingScore >= partiallyGroundedThreshold {
		return models.StatusPartiallyGrounded
	}
	return models.StatusUngrounded
}
