package analyze

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"feedbackboard/internal/apperr"
)

// rawExcerptLen bounds the raw model output echoed back on a parse failure.
const rawExcerptLen = 500

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Extracted is one insight as proposed by the model.
type Extracted struct {
	Content        string
	SuggestedTheme string
	SuggestedTags  []string
}

type extractedJSON struct {
	Content        *string   `json:"content"`
	SuggestedTheme *string   `json:"suggested_theme"`
	SuggestedTags  *[]string `json:"suggested_tags"`
}

// stripFence returns the body of the first ``` or ```json block, or the trimmed text.
func stripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// parseInsights decodes the model output into extracted insights. Anything but
// an array of {content, suggested_theme, suggested_tags} objects is rejected.
func parseInsights(raw string) ([]Extracted, error) {
	items, err := decodeInsights(stripFence(raw))
	if err != nil {
		return nil, apperr.LLMResponse("Failed to parse LLM response as JSON").
			WithDetails(map[string]string{"raw": excerpt(raw, rawExcerptLen)}).
			WithCause(err)
	}
	return items, nil
}

func decodeInsights(text string) ([]Extracted, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	var elems []json.RawMessage
	if err := dec.Decode(&elems); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON array")
	}
	if elems == nil {
		return nil, errors.New("expected a JSON array")
	}

	out := make([]Extracted, 0, len(elems))
	for i, el := range elems {
		var item extractedJSON
		d := json.NewDecoder(bytes.NewReader(el))
		d.DisallowUnknownFields()
		if err := d.Decode(&item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		switch {
		case item.Content == nil || strings.TrimSpace(*item.Content) == "":
			return nil, fmt.Errorf("item %d: missing content", i)
		case item.SuggestedTheme == nil:
			return nil, fmt.Errorf("item %d: missing suggested_theme", i)
		case item.SuggestedTags == nil:
			return nil, fmt.Errorf("item %d: missing suggested_tags", i)
		}
		out = append(out, Extracted{
			Content:        *item.Content,
			SuggestedTheme: *item.SuggestedTheme,
			SuggestedTags:  *item.SuggestedTags,
		})
	}
	return out, nil
}
