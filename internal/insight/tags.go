package insight

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxTagsPerInsight bounds the tags attached to one extracted insight.
const MaxTagsPerInsight = 3

// NormalizeTagName lowercases and trims a tag name. Returns "" for blank input.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
}

// NormalizeTags turns LLM-suggested tags into a deduplicated, lowercase set of at
// most MaxTagsPerInsight names, keeping first-seen order.
func NormalizeTags(raw []string) []string {
	if len(raw) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, MaxTagsPerInsight)

	for _, r := range raw {
		t := NormalizeTagName(r)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)

		if len(out) >= MaxTagsPerInsight {
			break
		}
	}

	return out
}
