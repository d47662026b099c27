package llm

import (
	"context"

	"github.com/yoockh/talentscope/internal/models"
)

const (
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.7
)

type Provider interface {
	// Complete returns one full completion for the conversation in req.
	Complete(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	// StreamAnswer returns a stream of text chunks (incremental).
	StreamAnswer(ctx context.Context, req models.ChatRequest) (chunks <-chan string, errs <-chan error)
	Close() error
}

// withDefaults fills model, token and temperature settings the caller left out.
func withDefaults(req models.ChatRequest, model string) models.ChatRequest {
	if req.Model == "" {
		req.Model = model
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = DefaultMaxTokens
	}
	if req.Temperature == nil {
		t := DefaultTemperature
		req.Temperature = &t
	}
	return req
}
