// Package analyze turns raw feedback text into stored insights: it prompts the
// LLM with the theme taxonomy, tag vocabulary and context bank, validates the
// reply, and persists each extracted insight with its tags.
package analyze

import (
	"context"
	"strings"

	"feedbackboard/internal/apperr"
	"feedbackboard/internal/contextbank"
	"feedbackboard/internal/insight"
	"feedbackboard/internal/llm"
	"feedbackboard/internal/logger"
	"feedbackboard/internal/nexus"

	"golang.org/x/sync/errgroup"
)

const DefaultMaxTokens = 2048

// AuthorResolver looks up a mod author from a profile URL.
type AuthorResolver interface {
	ResolveAuthor(ctx context.Context, profileURL string) (*nexus.Author, error)
}

type Analyzer struct {
	Insights *insight.Service
	LLM      llm.Client // nil when no credential is configured
	Bank     contextbank.Loader
	Authors  AuthorResolver // optional
	Log      *logger.Logger

	MaxTokens int
}

type Input struct {
	Text         string
	SourceURL    *string
	SourceType   *insight.SourceType
	ModAuthorURL *string
}

type Result struct {
	Count      int
	InsightIDs []string
}

func (a *Analyzer) log() *logger.Logger {
	if a.Log == nil {
		return logger.Nop()
	}
	return a.Log
}

func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Result, error) {
	if a.LLM == nil {
		return nil, apperr.Config("LLM API key is not set")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, apperr.Validation(`Request body must include "text" (string)`)
	}
	if in.SourceType != nil && !in.SourceType.Valid() {
		return nil, apperr.Validation("sourceType must be one of: reddit discord interview slack other")
	}

	var (
		bank   string
		themes []insight.Theme
		tags   []insight.Tag
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if bank, err = a.Bank.Load(); err != nil {
			return apperr.Upstream("Failed to load context bank", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if themes, err = a.Insights.Themes(gctx); err != nil {
			return apperr.Upstream("Failed to load themes", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tags, err = a.Insights.Tags(gctx); err != nil {
			return apperr.Upstream("Failed to load tags", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	themeByName := make(map[string]string, len(themes))
	for _, t := range themes {
		themeByName[t.Name] = t.ID
	}
	defaultThemeID, ok := themeByName[insight.DefaultThemeName]
	if !ok {
		return nil, apperr.Config(insight.DefaultThemeName + " theme not found in database")
	}

	tagByName := make(map[string]string, len(tags))
	tagNames := make([]string, 0, len(tags))
	for _, t := range tags {
		tagByName[t.Name] = t.ID
		tagNames = append(tagNames, t.Name)
	}

	maxTokens := a.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	resp, err := a.LLM.Complete(ctx, llm.Request{
		System:    buildSystemPrompt(themes, tagNames, bank),
		Message:   userMessage(in.Text),
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, apperr.Upstream("LLM request failed", err)
	}
	text, ok := resp.Text()
	if !ok {
		return nil, apperr.LLMResponse("No text in LLM response")
	}

	items, err := parseInsights(text)
	if err != nil {
		return nil, err
	}
	res := &Result{InsightIDs: []string{}}
	if len(items) == 0 {
		return res, nil
	}

	author := a.resolveAuthor(ctx, in.ModAuthorURL)

	for i, item := range items {
		row := &insight.Insight{
			Content:    truncateRunes(strings.TrimSpace(item.Content), insight.MaxContentLength),
			SourceURL:  in.SourceURL,
			SourceType: in.SourceType,
			ThemeID:    defaultThemeID,
		}
		if id, ok := themeByName[item.SuggestedTheme]; ok {
			row.SuggestedThemeID = &id
		}
		if author != nil {
			row.ModAuthorURL = &author.URL
			row.ModAuthorName = &author.Name
			row.ModAuthorAvatarURL = &author.AvatarURL
		}

		if err := a.Insights.CreateInsight(ctx, row); err != nil {
			a.log().Warn("insert insight failed", "index", i, "error", err)
			continue
		}
		res.InsightIDs = append(res.InsightIDs, row.ID)

		for _, name := range insight.NormalizeTags(item.SuggestedTags) {
			tagID, ok := tagByName[name]
			if !ok {
				t, err := a.Insights.ResolveTag(ctx, name)
				if err != nil {
					a.log().Warn("resolve tag failed", "tag", name, "error", err)
					continue
				}
				tagID = t.ID
				tagByName[name] = tagID
			}
			if err := a.Insights.LinkTag(ctx, row.ID, tagID); err != nil {
				a.log().Warn("link tag failed", "insight_id", row.ID, "tag", name, "error", err)
			}
		}
	}

	res.Count = len(res.InsightIDs)
	a.log().Info("analyze complete", "extracted", len(items), "stored", res.Count)
	return res, nil
}

// resolveAuthor is best effort: any failure leaves the author fields empty.
func (a *Analyzer) resolveAuthor(ctx context.Context, profileURL *string) *nexus.Author {
	if a.Authors == nil || profileURL == nil || strings.TrimSpace(*profileURL) == "" {
		return nil
	}
	author, err := a.Authors.ResolveAuthor(ctx, *profileURL)
	if err != nil {
		a.log().Warn("resolve mod author failed", "url", *profileURL, "error", err)
		return nil
	}
	return author
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
