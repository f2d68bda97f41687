package insights

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	maxSummaryLen  = 800
	maxSuggestions = 4
)

// Insight is the structured reply expected from an LLM.
type Insight struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

var bannedTerms = []string{"diagnos", "disorder", "clinical", "medication", "prescri"}

func ParseResponse(responseBody string) (*Insight, error) {
	cleaned := stripCodeFences(responseBody)

	var in Insight
	if err := json.Unmarshal([]byte(cleaned), &in); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateInsight(&in); err != nil {
		return nil, err
	}
	return &in, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// validateInsight trims the reply in place and rejects anything empty,
// oversized or using clinical language.
func validateInsight(in *Insight) error {
	var errs []string

	in.Summary = strings.TrimSpace(in.Summary)
	if in.Summary == "" {
		errs = append(errs, "empty summary")
	}
	if len(in.Summary) > maxSummaryLen {
		errs = append(errs, fmt.Sprintf("summary length %d exceeds %d", len(in.Summary), maxSummaryLen))
	}

	kept := in.Suggestions[:0]
	for _, s := range in.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	in.Suggestions = kept
	if len(in.Suggestions) > maxSuggestions {
		in.Suggestions = in.Suggestions[:maxSuggestions]
	}

	text := strings.ToLower(in.Summary + " " + strings.Join(in.Suggestions, " "))
	for _, term := range bannedTerms {
		if strings.Contains(text, term) {
			errs = append(errs, fmt.Sprintf("contains clinical term %q", term))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
