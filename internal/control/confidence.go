package control

import (
	"github.com/answerlab/answer-agent/internal/models"
)

// Status-to-confidence mapping. Grounded answers get a high constant;
// partially grounded answers scale with how much of them checked out.
const (
	groundedConfidence   = 0.95
	ungroundedConfidence = 0.3
	failedConfidence     = 0.1

	partialGroundingFactor = 0.8
)

func confidenceFor(verification models.VerificationResult) float64 {
	switch verification.Status {
	case models.StatusGrounded:
		return groundedConfidence
	case models.StatusPartiallyGrounded:
		return verification.GroundingScore * partialGroundingFactor
	case models.StatusUngrounded:
		return ungroundedConfidence
	default:
		return failedConfidence
	}
}
