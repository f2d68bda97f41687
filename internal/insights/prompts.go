package insights

import (
	"fmt"
	"strings"
)

// CategoryInput is one scored category handed to the prompt builder.
type CategoryInput struct {
	Category   string
	Title      string
	Percentage int
	Level      string
}

func SystemPrompt() string {
	return `You are a supportive school wellness assistant writing for a student who
just completed a self-check. You are not a clinician.

RULES:
- Never diagnose or name a disorder. Do not use the words "diagnosis", "disorder" or "clinical".
- Be warm, brief and concrete. Address the student as "you".
- If any area is High, gently encourage talking with a school counselor.
- Suggestions must be small everyday actions a student can do this week.

Respond with JSON only, no markdown:
{"summary": "<2-4 sentences>", "suggestions": ["<short action>", "..."]}`
}

func BuildUserPrompt(results []CategoryInput) string {
	var b strings.Builder
	b.WriteString("Self-check results (percentages are risk scores; higher means more difficulty):\n")
	for _, r := range results {
		name := r.Title
		if name == "" {
			name = r.Category
		}
		fmt.Fprintf(&b, "- %s: %d%% (%s)\n", name, r.Percentage, r.Level)
	}
	fmt.Fprintf(&b, "\nWrite a summary and between 1 and %d suggestions.", maxSuggestions)
	return b.String()
}
