package llm

import (
	"errors"
	"strings"
)

var (
	ErrBlankPrompt      = errors.New("prompt cannot be blank")
	ErrBlankModel       = errors.New("model cannot be blank")
	ErrInvalidMaxTokens = errors.New("max tokens must be positive")
)

// ValidateRequest applies the shared gateway input contract.
func ValidateRequest(model, prompt string, maxTokens int) error {
	if strings.TrimSpace(model) == "" {
		return ErrBlankModel
	}
	if strings.TrimSpace(prompt) == "" {
		return ErrBlankPrompt
	}
	if maxTokens <= 0 {
		return ErrInvalidMaxTokens
	}
	return nil
}
