// Package ask answers questions from stored insights: a keyword filter narrows
// the store, and the LLM summarizes only what was retrieved.
package ask

import (
	"context"
	"strings"

	"feedbackboard/internal/apperr"
	"feedbackboard/internal/contextbank"
	"feedbackboard/internal/insight"
	"feedbackboard/internal/llm"
	"feedbackboard/internal/logger"
	"feedbackboard/internal/search"
)

const (
	// Limit is the most insights ever placed in one prompt.
	Limit            = 75
	DefaultMaxTokens = 2048
)

type Answerer struct {
	Insights *insight.Service
	LLM      llm.Client
	Bank     contextbank.Loader
	Log      *logger.Logger

	MaxTokens int
}

// Result carries the answer and exactly the insights the model was shown.
type Result struct {
	Answer   string
	Sources  []insight.Insight
	Keywords []string
}

func (a *Answerer) log() *logger.Logger {
	if a.Log == nil {
		return logger.Nop()
	}
	return a.Log
}

func (a *Answerer) Ask(ctx context.Context, question string) (*Result, error) {
	if a.LLM == nil {
		return nil, apperr.Config("LLM API key is not set")
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperr.Validation(`Request body must include "question" (string)`)
	}

	keywords := search.ExtractKeywords(question)
	sources, err := a.Insights.SearchContent(ctx, keywords, Limit)
	if err != nil {
		return nil, apperr.Upstream("Failed to load insights", err)
	}

	bank, err := a.Bank.Load()
	if err != nil {
		return nil, apperr.Upstream("Failed to load context bank", err)
	}

	maxTokens := a.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	resp, err := a.LLM.Complete(ctx, llm.Request{
		System:    buildSystemPrompt(bank, renderInsights(sources)),
		Message:   question,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, apperr.Upstream("LLM request failed", err)
	}
	answer, ok := resp.Text()
	if !ok {
		return nil, apperr.LLMResponse("No text in LLM response")
	}

	a.log().Info("ask answered", "keywords", keywords, "sources", len(sources))
	return &Result{Answer: answer, Sources: sources, Keywords: keywords}, nil
}
