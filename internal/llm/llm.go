package llm

import (
	"context"
	"time"
)

const (
	// Temperature is fixed for every completion call.
	Temperature = 0.7

	// DefaultModel is used when neither the request nor the user settings name one.
	DefaultModel = "gpt-3.5-turbo"

	// DefaultMaxTokens is used when the request carries no positive token cap.
	DefaultMaxTokens = 2000

	// DefaultTimeout bounds one completion call end to end.
	DefaultTimeout = 60 * time.Second

	// MaxRedirects caps redirects followed by the completion call.
	MaxRedirects = 10
)

// Completer performs a single non-streaming completion call.
type Completer interface {
	Complete(ctx context.Context, req Request) (Result, error)
}

// Request is one single-turn completion call.
type Request struct {
	APIKey    string
	Prompt    string
	Model     string
	MaxTokens int
}

// NewRequest applies model and token defaults.
func NewRequest(apiKey, prompt, model string, maxTokens int) Request {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return Request{APIKey: apiKey, Prompt: prompt, Model: model, MaxTokens: maxTokens}
}

func (r Request) validate() error {
	if r.APIKey == "" {
		return newError(KindInvalidInput, "API key is required")
	}
	if r.Prompt == "" {
		return newError(KindInvalidInput, "Prompt is required")
	}
	return nil
}

// Usage is the token accounting reported by the endpoint. Missing fields stay 0.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is the normalized completion response.
type Result struct {
	Content string
	Usage   Usage
	Model   string
}
