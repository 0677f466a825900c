package models

import (
	"errors"
	"fmt"
	"strings"
)

type VerificationStatus string

const (
	StatusGrounded          VerificationStatus = "grounded"
	StatusPartiallyGrounded VerificationStatus = "partially_grounded"
	StatusUngrounded        VerificationStatus = "ungrounded"
	// StatusFailed is part of the output domain but no verifier path produces
	// it today: downstream failures degrade individual claims instead.
	StatusFailed VerificationStatus = "failed"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusGrounded, StatusPartiallyGrounded, StatusUngrounded, StatusFailed:
		return true
	}
	return false
}

// Answer is the generated answer for one attempt, with its citations and
// the model that produced it.
type Answer struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
	ModelUsed string     `json:"model_used"`
}

func NewAnswer(text string, citations []Citation, modelUsed string) (Answer, error) {
	if strings.TrimSpace(text) == "" {
		return Answer{}, errors.New("answer text cannot be blank")
	}
	if strings.TrimSpace(modelUsed) == "" {
		return Answer{}, errors.New("answer model cannot be blank")
	}
	if citations == nil {
		citations = []Citation{}
	}
	return Answer{Text: text, Citations: citations, ModelUsed: modelUsed}, nil
}

// VerificationResult is the verifier's verdict for one answer.
type VerificationResult struct {
	Status         VerificationStatus `json:"status"`
	Claims         []Claim            `json:"claims"`
	GroundingScore float64            `json:"grounding_score"`
	Reasoning      string             `json:"reasoning"`
}

func NewVerificationResult(status VerificationStatus, claims []Claim, groundingScore float64, reasoning string) (VerificationResult, error) {
	if !status.Valid() {
		return VerificationResult{}, fmt.Errorf("invalid verification status: %q", status)
	}
	if groundingScore < 0.0 || groundingScore > 1.0 {
		return VerificationResult{}, fmt.Errorf("grounding score must be in [0.0, 1.0]: %f", groundingScore)
	}
	if strings.TrimSpace(reasoning) == "" {
		return VerificationResult{}, errors.New("verification reasoning cannot be blank")
	}
	if claims == nil {
		claims = []Claim{}
	}
	return VerificationResult{
		Status:         status,
		Claims:         claims,
		GroundingScore: groundingScore,
		Reasoning:      reasoning,
	}, nil
}

// AnswerResult is the final output of the control plane for one question.
type AnswerResult struct {
	Answer            Answer             `json:"answer"`
	Verification      VerificationResult `json:"verification"`
	Confidence        float64            `json:"confidence"`
	RetrievalStrategy string             `json:"retrieval_strategy"`
}

func NewAnswerResult(answer Answer, verification VerificationResult, confidence float64, retrievalStrategy string) (AnswerResult, error) {
	if confidence < 0.0 || confidence > 1.0 {
		return AnswerResult{}, fmt.Errorf("confidence must be in [0.0, 1.0]: %f", confidence)
	}
	if strings.TrimSpace(retrievalStrategy) == "" {
		return AnswerResult{}, errors.New("retrieval strategy cannot be blank")
	}
	return AnswerResult{
		Answer:            answer,
		Verification:      verification,
		Confidence:        confidence,
		RetrievalStrategy: retrievalStrategy,
	}, nil
}
