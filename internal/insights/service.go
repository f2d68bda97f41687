package insights

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/campuswell/backend/internal/config"
	"github.com/campuswell/backend/internal/scoring"
)

const (
	SourceStatic = "static"
	SourceLLM    = "llm"
)

// Service writes the supportive summary shown with assessment results.
// A nil llm means static messages only.
type Service struct {
	llm     LLMClient
	timeout time.Duration
}

// NewService picks the LLM backend from cfg.InsightsMode.
func NewService(cfg config.Config) *Service {
	var llm LLMClient
	switch cfg.InsightsMode {
	case "api":
		llm = NewAPIClient(cfg.AnthropicKey, cfg.AnthropicModel)
		log.Println("[insights] using Anthropic API:", cfg.AnthropicModel)
	case "cli":
		llm = NewCLIClient(cfg.ClaudeCLIPath)
		log.Println("[insights] using Claude CLI")
	case "mock":
		llm = NewMockClient()
		log.Println("[insights] using mock client")
	default:
		log.Println("[insights] using static messages only")
	}
	return &Service{llm: llm, timeout: 20 * time.Second}
}

// NewStaticService never calls an LLM.
func NewStaticService() *Service {
	return &Service{}
}

// Summary is the generated or fallback insight for a set of results.
type Summary struct {
	Text        string
	Suggestions []string
	Source      string
}

// Summarize asks the LLM for a summary and falls back to static text on any
// failure or rejected reply.
func (s *Service) Summarize(ctx context.Context, results []CategoryInput) Summary {
	fallback := Summary{Text: StaticSummary(results), Source: SourceStatic}
	if s.llm == nil || len(results) == 0 {
		return fallback
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.llm.Generate(ctx, SystemPrompt(), BuildUserPrompt(results))
	if err != nil {
		log.Printf("[insights] generate failed, using static messages: %v", err)
		return fallback
	}
	in, err := ParseResponse(resp.Content)
	if err != nil {
		log.Printf("[insights] rejected reply, using static messages: %v", err)
		return fallback
	}
	return Summary{Text: in.Summary, Suggestions: in.Suggestions, Source: SourceLLM}
}

// StaticSummary joins the static message for the most severe result with the
// overall message when present.
func StaticSummary(results []CategoryInput) string {
	if len(results) == 0 {
		return ""
	}
	var worst *CategoryInput
	var overall *CategoryInput
	for i := range results {
		r := &results[i]
		if r.Category == scoring.Overall {
			overall = r
			continue
		}
		if worst == nil || r.Percentage > worst.Percentage {
			worst = r
		}
	}

	var parts []string
	if worst != nil {
		parts = append(parts, Message(worst.Category, scoring.RiskLevel(worst.Level)))
	}
	if overall != nil {
		parts = append(parts, Message(scoring.Overall, scoring.RiskLevel(overall.Level)))
	}
	return strings.Join(parts, " ")
}
