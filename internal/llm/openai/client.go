package openai

import (
	"context"
	"fmt"

	"github.com/answerlab/answer-agent/internal/llm"
	"github.com/rs/zerolog"
	goopenai "github.com/sashabaranov/go-openai"
)

// Client drives any OpenAI-compatible chat-completions endpoint, including
// Ollama's /v1 surface when a base URL is set.
type Client struct {
	api    *goopenai.Client
	logger *zerolog.Logger
}

func NewClient(apiKey string, baseURL string, logger *zerolog.Logger) (*Client, error) {
	if apiKey == "" && baseURL == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Client{
		api:    goopenai.NewClientWithConfig(cfg),
		logger: logger,
	}, nil
}

func (c *Client) Generate(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	if err := llm.ValidateRequest(model, prompt, maxTokens); err != nil {
		return "", err
	}

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role:    goopenai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("received empty completion for model %s", model)
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) IsModelAvailable(ctx context.Context, model string) bool {
	list, err := c.api.ListModels(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to list models")
		return false
	}

	for _, m := range list.Models {
		if m.ID == model {
			return true
		}
	}
	return false
}
