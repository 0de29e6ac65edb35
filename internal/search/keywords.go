// Package search turns free-text questions into lexical filters over insight content.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxKeywords bounds the terms extracted from one question.
const MaxKeywords = 10

// stopWords are articles, auxiliaries, pronouns, question words and filler verbs
// that carry no retrieval signal.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a an the is are was were be been being
		to of and in that for on with as it by at this from about
		what when where who how why which whose whom
		can could would should will shall may might must
		do does did have has had
		me my we our you your they them their i he she him his her its us
		say says said there
	`) {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether w is filtered out by ExtractKeywords.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// ExtractKeywords returns up to MaxKeywords distinct lowercase terms longer than
// two characters, in question order. It is a coarse recall filter, not a ranker.
func ExtractKeywords(question string) []string {
	question = strings.TrimSpace(question)
	if question == "" {
		return []string{}
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\'' || r == '-' {
			return r
		}
		return ' '
	}, strings.ToLower(norm.NFC.String(question)))

	seen := make(map[string]struct{})
	out := make([]string, 0, MaxKeywords)
	for _, w := range strings.Fields(cleaned) {
		w = strings.Trim(w, `'"`)
		if len([]rune(w)) <= 2 || IsStopWord(w) {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
		if len(out) >= MaxKeywords {
			break
		}
	}
	return out
}
