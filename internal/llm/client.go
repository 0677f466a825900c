package llm

import (
	"context"
)

// Client is the generation gateway consumed by the control plane and the
// verifier. Implementations select the backing service; the model name is
// passed per call because the control plane escalates between models.
// This allows mocking in tests without making real API calls.
type Client interface {
	Generate(ctx context.Context, model string, prompt string, maxTokens int) (string, error)
	// IsModelAvailable is best-effort: it returns false rather than an error
	// when the availability check itself fails.
	IsModelAvailable(ctx context.Context, model string) bool
}
