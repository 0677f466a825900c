package verifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/answerlab/answer-agent/internal/models"
	"github.com/rs/zerolog"
)

// mockLLMClient routes extraction and grounding-check prompts to separate
// canned behaviors and records every prompt it sees.
type mockLLMClient struct {
	mu      sync.Mutex
	prompts []string

	extractResponse string
	extractErr      error

	checkFn func(prompt string) (string, error)
}

func (m *mockLLMClient) Generate(_ context.Context, _ string, prompt string, _ int) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if strings.HasPrefix(prompt, "Extract the main factual claims") {
		return m.extractResponse, m.extractErr
	}
	if m.checkFn != nil {
		return m.checkFn(prompt)
	}
	return "yes", nil
}

func (m *mockLLMClient) IsModelAvailable(context.Context, string) bool {
	return true
}

func (m *mockLLMClient) checkPrompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var checks []string
	for _, prompt := range m.prompts {
		if strings.HasPrefix(prompt, "Does the following context support the claim?") {
			checks = append(checks, prompt)
		}
	}
	return checks
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func testAnswer(t *testing.T, text string) models.Answer {
	t.Helper()
	answer, err := models.NewAnswer(text, nil, "phi3:mini")
	if err != nil {
		t.Fatalf("NewAnswer failed: %v", err)
	}
	return answer
}

func testRetrieval(t *testing.T, chunkTexts ...string) models.RetrievalResult {
	t.Helper()

	embedding, err := models.NewEmbedding([]float32{0.1, 0.2}, "nomic-embed-text")
	if err != nil {
		t.Fatalf("NewEmbedding failed: %v", err)
	}

	chunks := make([]models.Chunk, 0, len(chunkTexts))
	for i, text := range chunkTexts {
		chunk, err := models.NewChunk(fmt.Sprintf("chunk-%d", i+1), "doc-1", text, i, embedding)
		if err != nil {
			t.Fatalf("NewChunk failed: %v", err)
		}
		chunks = append(chunks, chunk)
	}

	result, err := models.NewRetrievalResult(chunks, "simple", time.Millisecond)
	if err != nil {
		t.Fatalf("NewRetrievalResult failed: %v", err)
	}
	return result
}

func TestVerify_AllClaimsGrounded(t *testing.T) {
	client := &mockLLMClient{
		extractResponse: "1. Paris is the capital of France.\n2. France is in Europe.",
		checkFn: func(string) (string, error) {
			return "Yes", nil
		},
	}

	v := New(client, "", newTestLogger())

	result, err := v.Verify(context.Background(), testAnswer(t, "Paris, capital of France, is in Europe."), testRetrieval(t, "Paris is the capital of France, a country in Europe."))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if result.Status != models.StatusGrounded {
		t.Errorf("Expected grounded status, got %s", result.Status)
	}
	if result.GroundingScore != 1.0 {
		t.Errorf("Expected grounding score 1.0, got %f", result.GroundingScore)
	}
	if len(result.Claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(result.Claims))
	}
	for _, claim := range result.Claims {
		if !claim.Grounded {
			t.Errorf("Expected claim %q to be grounded", claim.Text)
		}
		if claim.SupportingChunkID != "chunk-1" {
			t.Errorf("Expected supporting chunk chunk-1, got %q", claim.SupportingChunkID)
		}
	}
	if result.Reasoning != "Verified 2/2 claims as grounded (100.00% grounding)" {
		t.Errorf("Unexpected reasoning: %s", result.Reasoning)
	}
}

func TestVerify_PartiallyGrounded(t *testing.T) {
	client := &mockLLMClient{
		extractResponse: "1. Paris is the capital of France.\n2. Paris has fifty million residents.",
		checkFn: func(prompt string) (string, error) {
			if strings.Contains(prompt, "fifty million") {
				return "No", nil
			}
			return "yes, it does", nil
		},
	}

	v := New(client, "", newTestLogger())

	result, err := v.Verify(context.Background(), testAnswer(t, "some answer"), testRetrieval(t, "Paris is the capital of France."))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if result.Status != models.StatusPartiallyGrounded {
		t.Errorf("Expected partially grounded status, got %s", result.Status)
	}
	if result.GroundingScore != 0.5 {
		t.Errorf("Expected grounding score 0.5, got %f", result.GroundingScore)
	}
	if result.Claims[0].SupportingChunkID != "chunk-1" {
		t.Errorf("Expected grounded claim to cite chunk-1, got %q", result.Claims[0].SupportingChunkID)
	}
	if result.Claims[1].SupportingChunkID != "" {
		t.Errorf("Expected ungrounded claim to cite nothing, got %q", result.Claims[1].SupportingChunkID)
	}
}

func TestVerify_Ungrounded(t *testing.T) {
	client := &mockLLMClient{
		extractResponse: "1. The moon is made of cheese.\n2. Cats can breathe underwater.",
		checkFn: func(string) (string, error) {
			return "no", nil
		},
	}

	v := New(client, "", newTestLogger())

	result, err := v.Verify(context.Background(), testAnswer(t, "some answer"), testRetrieval(t, "Paris is the capital of France."))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if result.Status != models.StatusUngrounded {
		t.Errorf("Expected ungrounded status, got %s", result.Status)
	}
	if result.GroundingScore != 0.0 {
		t.Errorf("Expected grounding score 0.0, got %f", result.GroundingScore)
	}
}

func TestVerify_NoExtractableClaims(t *testing.T) {
	client := &mockLLMClient{
		extractResponse: "   \n  ",
	}

	v := New(client, "", newTestLogger())

	result, err := v.Verify(context.Background(), testAnswer(t, "I don't know."), testRetrieval(t, "Paris is the capital of France."))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if result.Status != models.StatusGrounded {
		t.Errorf("Expected vacuously grounded status, got %s", result.Status)
	}
	if result.GroundingScore != 1.0 {
		t.Errorf("Expected grounding score 1.0, got %f", result.GroundingScore)
	}
	if len(result.Claims) != 0 {
		t.Errorf("Expected no claims, got %d", len(result.Claims))
	}
	if result.Reasoning != "Verified 0/0 claims as grounded (100.00% grounding)" {
		t.Errorf("Unexpected reasoning: %s", result.Reasoning)
	}
	if len(client.checkPrompts()) != 0 {
		t.Errorf("Expected no grounding checks, got %d", len(client.checkPrompts()))
	}
}

func TestVerify_ExtractionErrorFallsBackToWholeAnswer(t *testing.T) {
	client := &mockLLMClient{
		extractErr: errors.New("model unavailable"),
		checkFn: func(prompt string) (string, error) {
			if !strings.Contains(prompt, "Claim: The Eiffel Tower is in Paris.") {
				return "", fmt.Errorf("unexpected claim in prompt: %s", prompt)
			}
			return "yes", nil
		},
	}

	v := New(client, "", newTestLogger())

	result, err := v.Verify(context.Background(), testAnswer(t, "The Eiffel Tower is in Paris."), testRetrieval(t, "The Eiffel Tower stands in Paris."))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if len(result.Claims) != 1 {
		t.Fatalf("Expected the whole answer as a single claim, got %d claims", len(result.Claims))
	}
	if result.Claims[0].Text != "The Eiffel Tower is in Paris." {
		t.Errorf("Expected fallback claim to be the answer text, got %q", result.Claims[0].Text)
	}
	if result.Status != models.StatusGrounded {
		t.Errorf("Expected grounded status, got %s", result.Status)
	}
}

func TestVerify_CheckFailureFailsClosed(t *testing.T) {
	client := &mockLLMClient{
		extractResponse: "1. Paris is the capital of France.",
		checkFn: func(string) (string, error) {
			return "", errors.New("timeout")
		},
	}

	v := New(client, "", newTestLogger())

	result, err := v.Verify(context.Background(), testAnswer(t, "some answer"), testRetrieval(t, "Paris is the capital of France."))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if result.Status != models.StatusUngrounded {
		t.Errorf("Expected failed check to count as not grounded, got %s", result.Status)
	}
	if result.Claims[0].Grounded {
		t.Error("Expected claim to be not grounded after a failed check")
	}
}

func TestVerify_EmptyContextSkipsChecks(t *testing.T) {
	client := &mockLLMClient{
		extractResponse: "1. Paris is the capital of France.",
	}

	v := New(client, "", newTestLogger())

	retrieval, err := models.NewRetrievalResult(nil, "simple", time.Millisecond)
	if err != nil {
		t.Fatalf("NewRetrievalResult failed: %v", err)
	}

	result, err := v.Verify(context.Background(), testAnswer(t, "some answer"), retrieval)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if result.Status != models.StatusUngrounded {
		t.Errorf("Expected ungrounded status with no context, got %s", result.Status)
	}
	if len(client.checkPrompts()) != 0 {
		t.Errorf("Expected no LLM grounding calls with empty context, got %d", len(client.checkPrompts()))
	}
}

func TestVerify_BlankAnswer(t *testing.T) {
	v := New(&mockLLMClient{}, "", newTestLogger())

	_, err := v.Verify(context.Background(), models.Answer{Text: "   "}, testRetrieval(t, "context"))
	if err == nil {
		t.Fatal("Expected error for blank answer")
	}
}

func TestVerify_ContextLimitedToThreeChunks(t *testing.T) {
	client := &mockLLMClient{
		extractResponse: "1. Paris is the capital of France.",
		checkFn: func(string) (string, error) {
			return "yes", nil
		},
	}

	v := New(client, "", newTestLogger())

	retrieval := testRetrieval(t, "first chunk text", "second chunk text", "third chunk text", "fourth chunk text")

	_, err := v.Verify(context.Background(), testAnswer(t, "some answer"), retrieval)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	checks := client.checkPrompts()
	if len(checks) != 1 {
		t.Fatalf("Expected 1 grounding check, got %d", len(checks))
	}
	if !strings.Contains(checks[0], "third chunk text") {
		t.Error("Expected third chunk in check context")
	}
	if strings.Contains(checks[0], "fourth chunk text") {
		t.Error("Expected fourth chunk to be excluded from check context")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		score    float64
		expected models.VerificationStatus
	}{
		{1.0, models.StatusGrounded},
		{0.90, models.StatusGrounded},
		{0.89, models.StatusPartiallyGrounded},
		{0.50, models.StatusPartiallyGrounded},
		{0.49, models.StatusUngrounded},
		{0.0, models.StatusUngrounded},
	}

	for _, tt := range tests {
		if got := statusFor(tt.score); got != tt.expected {
			t.Errorf("statusFor(%f) = %s, expected %s", tt.score, got, tt.expected)
		}
	}
}
