package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/answerlab/answer-agent/internal/llm"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type claudeMessageRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeMessageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

var anthropicVersion = "bedrock-2023-05-31"

// Generate invokes the given Claude model id on Bedrock. The model id is per
// call because the control plane escalates between model tiers.
func (c *Client) Generate(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	if err := llm.ValidateRequest(model, prompt, maxTokens); err != nil {
		return "", err
	}

	payload := claudeMessageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Messages: []claudeMessage{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("unable to serialize claude request: %w", err)
	}

	output, err := c.Client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &model,
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to invoke claude model: %w", err)
	}

	var response claudeMessageResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal bedrock response: %w", err)
	}

	var content string
	if len(response.Content) > 0 {
		content = response.Content[0].Text
	}
	if content == "" {
		return "", fmt.Errorf("received empty completion for model %s", model)
	}

	return content, nil
}

// IsModelAvailable probes the model with a minimal request. Bedrock has no
// cheap listing call scoped to invokable models, so a failed probe means
// unavailable.
func (c *Client) IsModelAvailable(ctx context.Context, model string) bool {
	_, err := c.Generate(ctx, model, "ping", 1)
	if err != nil {
		c.logger.Debug().Err(err).Str("model", model).Msg("Model availability probe failed")
		return false
	}
	return true
}
