package models

// Input message

type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the HTTP API response shape for one answered question.
type ChatResponse struct {
	Answer             string     `json:"answer"`
	Citations          []Citation `json:"citations"`
	Confidence         float64    `json:"confidence"`
	ModelUsed          string     `json:"model_used"`
	RetrievalStrategy  string     `json:"retrieval_strategy"`
	VerificationStatus string     `json:"verification_status"`
	CorrelationID      string     `json:"correlation_id"`
}

// QuestionEvent is the stream message consumed by the streaming worker.
type QuestionEvent struct {
	EventID  string `json:"event_id"`
	Question string `json:"question"`
}

func ChatResponseFrom(result AnswerResult, correlationID string) ChatResponse {
	return ChatResponse{
		Answer:             result.Answer.Text,
		Citations:          result.Answer.Citations,
		Confidence:         result.Confidence,
		ModelUsed:          result.Answer.ModelUsed,
		RetrievalStrategy:  result.RetrievalStrategy,
		VerificationStatus: string(result.Verification.Status),
		CorrelationID:      correlationID,
	}
}
