package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/answerlab/answer-agent/internal/api/middleware"
	"github.com/answerlab/answer-agent/internal/control"
	"github.com/answerlab/answer-agent/internal/models"
	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
)

// AnswerPlane is the slice of the control plane the API needs.
type AnswerPlane interface {
	Answer(ctx context.Context, question models.Question) (models.AnswerResult, error)
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type Handler struct {
	plane  AnswerPlane
	logger *zerolog.Logger
}

func NewHandler(plane AnswerPlane, logger *zerolog.Logger) *Handler {
	return &Handler{
		plane:  plane,
		logger: logger,
	}
}

// POST /api/v1/chat
// Body: ChatRequest
// Returns: ChatResponse
func (h *Handler) Chat(req *restful.Request, resp *restful.Response) {
	correlationID := middleware.CorrelationID(req)

	var chatRequest models.ChatRequest
	if err := req.ReadEntity(&chatRequest); err != nil {
		h.logger.Error().Err(err).Str("correlation_id", correlationID).Msg("Failed to parse request body")
		middleware.HandleErrorWithCorrelation(resp, err, http.StatusBadRequest, correlationID)
		return
	}

	if strings.TrimSpace(chatRequest.Question) == "" {
		middleware.HandleErrorWithCorrelation(resp, errors.New("question cannot be blank"), http.StatusBadRequest, correlationID)
		return
	}

	h.logger.Info().
		Str("correlation_id", correlationID).
		Int("question_length", len(chatRequest.Question)).
		Msg("Received chat request")

	question, err := models.NewQuestion(chatRequest.Question, correlationID)
	if err != nil {
		middleware.HandleErrorWithCorrelation(resp, err, http.StatusBadRequest, correlationID)
		return
	}

	ctx := req.Request.Context()
	result, err := h.plane.Answer(ctx, question)
	if err != nil {
		h.logger.Error().Err(err).Str("correlation_id", correlationID).Msg("Chat request failed")

		var controlErr *control.ControlError
		if errors.As(err, &controlErr) {
			middleware.HandleErrorWithCorrelation(resp, err, http.StatusBadGateway, correlationID)
			return
		}
		middleware.HandleErrorWithCorrelation(resp, err, http.StatusInternalServerError, correlationID)
		return
	}

	h.logger.Info().
		Str("correlation_id", correlationID).
		Float64("confidence", result.Confidence).
		Str("verification", string(result.Verification.Status)).
		Msg("Chat request complete")

	_ = resp.WriteHeaderAndEntity(http.StatusOK, models.ChatResponseFrom(result, correlationID))
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	_ = resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
