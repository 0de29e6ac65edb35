package analyze

import (
	"fmt"
	"strings"

	"feedbackboard/internal/insight"
)

const noContextFiles = "(No context files loaded.)"

func buildSystemPrompt(themes []insight.Theme, tagNames []string, contextBank string) string {
	var themeLines []string
	for _, t := range themes {
		if t.Name == insight.DefaultThemeName {
			continue
		}
		themeLines = append(themeLines, "- "+t.Name)
	}

	tagGuide := `No existing tags yet. Use short, lowercase tag names (e.g. "ui", "error message"). You may create new tags as needed; try to reuse where it makes sense.`
	if len(tagNames) > 0 {
		tagGuide = "Existing tags (prefer these when they fit): " + strings.Join(tagNames, ", ") +
			". If there are no relevant tags, you may create a new one, but try to fit to an existing tag if possible."
	}

	if strings.TrimSpace(contextBank) == "" {
		contextBank = noContextFiles
	}

	var b strings.Builder
	b.WriteString("You are a Product Research Assistant for Nexus Mods. Your goal is to analyze user feedback and extract atomic insights.\n\n")
	b.WriteString("Theme categories (assign each insight to exactly one):\n")
	b.WriteString(strings.Join(themeLines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(tagGuide)
	b.WriteString("\n\n")
	b.WriteString(`Extraction & density rules:
- Atomic quality: Every insight must be a standalone nugget of information. If a sentence contains two distinct pain points (or sentiments), split them into two insights.
- Volume: Do not feel obligated to reach a specific number. For a short comment, 1 insight is often enough. For long-form text (interviews, articles), extract as many as necessary to represent every unique sentiment expressed. If in doubt, less is more.
- Avoid redundancy: If the user repeats the same complaint multiple times, capture it once as a single, strong insight.
- "So what?" filter: Only extract insights that are actionable for a Product Team. Ignore generic praise (e.g. "I love this site") unless it specifies what they love (e.g. "I love the new search filters").
- Contextual accuracy: Use the Context Bank below to distinguish technical tiers (e.g. Premium vs Supporter) and tool-specific terminology. Reference it for Nexus/modding terms (Vortex, Collections, ESP, load order, etc.).

`)
	fmt.Fprintf(&b, `Other rules:
- Assign the single most relevant theme to each insight.
- Tags: Assign at least one tag (and at most %[1]d) to every insight. Reuse the same tag for multiple insights when it fits.
- Output only valid JSON: an array of objects with keys "content", "suggested_theme", "suggested_tags". No markdown, no explanation.

`, insight.MaxTagsPerInsight)
	b.WriteString("Context bank:\n")
	b.WriteString(contextBank)
	b.WriteString("\n\nOutput format (JSON only):\n")
	b.WriteString(`[{"content":"...","suggested_theme":"Mod installation","suggested_tags":["tag1","tag2"]},...]`)
	return b.String()
}

func userMessage(text string) string {
	return "Analyze this user feedback and extract insights as JSON:\n\n" + text
}
