// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"feedbackboard/internal/llm"
)

// Fake returns Reply (as one text block) or Err, and records every request.
// Respond, when set, takes precedence over Reply.
type Fake struct {
	Reply   string
	Err     error
	Respond func(req llm.Request) (*llm.Response, error)

	mu    sync.Mutex
	calls []llm.Request
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.Respond != nil {
		return f.Respond(req)
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return &llm.Response{Model: "fake", Blocks: []llm.Block{{Type: "text", Text: f.Reply}}}, nil
}

func (f *Fake) Calls() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]llm.Request, len(f.calls))
	copy(out, f.calls)
	return out
}
