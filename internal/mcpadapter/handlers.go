package mcpadapter

import (
	"context"

	"github.com/answerlab/answer-agent/internal/control"
	"github.com/answerlab/answer-agent/internal/models"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the MCP tool input schema (matches HTTP API field names).
type AskInput struct {
	Question      string `json:"question" jsonschema:"question to answer from the knowledge base"`
	CorrelationID string `json:"correlation_id,omitempty" jsonschema:"optional correlation id for tracing"`
}

// NewAskHandler returns a tool handler that answers through the given control
// plane. Pass the returned function to mcp.AddTool.
func NewAskHandler(plane *control.Plane) func(context.Context, *mcp.CallToolRequest, AskInput) (*mcp.CallToolResult, models.ChatResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, models.ChatResponse, error) {
		return AskQuestion(ctx, plane, req, input)
	}
}

// AskQuestion runs the full answer pipeline and returns the response.
func AskQuestion(
	ctx context.Context,
	plane *control.Plane,
	req *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, models.ChatResponse, error) {
	correlationID := input.CorrelationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	question, err := models.NewQuestion(input.Question, correlationID)
	if err != nil {
		return nil, models.ChatResponse{}, err
	}

	result, err := plane.Answer(ctx, question)
	if err != nil {
		return nil, models.ChatResponse{}, err
	}

	return nil, models.ChatResponseFrom(result, correlationID), nil
}
