// Package llm is a single-turn chat-completion client: one system prompt, one
// user message, a bounded output length, no session state.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrMissingAPIKey = errors.New("LLM API key is not set")

// Request is one stateless completion call.
type Request struct {
	System    string
	Message   string
	MaxTokens int
}

// Block is one content block of a response.
type Block struct {
	Type string
	Text string
}

type Response struct {
	Model  string
	Blocks []Block
}

// Text returns the first text block.
func (r *Response) Text() (string, bool) {
	if r == nil {
		return "", false
	}
	for _, b := range r.Blocks {
		if b.Type == "text" {
			return b.Text, true
		}
	}
	return "", false
}

type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Name() string
}

type Config struct {
	Provider string // "anthropic" or "openai"
	APIKey   string
	Model    string
	BaseURL  string
}

// New builds the client for cfg.Provider. ErrMissingAPIKey when no key is set.
func New(cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	switch strings.ToLower(cfg.Provider) {
	case "", "anthropic":
		return NewAnthropic(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "openai":
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
