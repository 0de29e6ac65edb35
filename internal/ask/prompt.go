package ask

import (
	"strings"

	"feedbackboard/internal/insight"
)

// renderInsights formats one block per insight: theme label, content, tag line.
func renderInsights(insights []insight.Insight) string {
	blocks := make([]string, 0, len(insights))
	for i := range insights {
		in := &insights[i]
		theme := in.ThemeName()
		if theme == "" {
			theme = "Unknown"
		}
		tagLine := ""
		if names := in.TagNames(); len(names) > 0 {
			tagLine = "Tags: " + strings.Join(names, ", ")
		}
		blocks = append(blocks, "## Insight ("+theme+")\n"+in.Content+"\n"+tagLine+"\n")
	}
	return strings.Join(blocks, "\n")
}

func buildSystemPrompt(contextBank, insightsMD string) string {
	if strings.TrimSpace(contextBank) == "" {
		contextBank = "(No context files loaded.)"
	}
	if insightsMD == "" {
		insightsMD = "(No insights match the question yet.)"
	}

	return `You are an insights analyst for Nexus Mods. Answer the user's question using ONLY the insights below. Use the Context Bank for Nexus/modding terminology where relevant.

Context bank (terminology):
` + contextBank + `

---

CONTEXT (filtered insights):
` + insightsMD + `

---

If the insights above do not contain enough information to answer the question, say so clearly. Do not invent insights. Cite specific insights when relevant (e.g. "Several insights mention...").`
}
