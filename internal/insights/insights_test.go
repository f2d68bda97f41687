package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/campuswell/backend/internal/scoring"
)

type stubClient struct {
	content string
	err     error
	calls   int
}

func (s *stubClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &LLMResponse{Content: s.content}, nil
}

var sample = []CategoryInput{
	{Category: "stress", Title: "Stress", Percentage: 50, Level: "Moderate"},
	{Category: "anxiety", Title: "Anxiety", Percentage: 75, Level: "High"},
	{Category: scoring.Overall, Percentage: 60, Level: "Moderate"},
}

func TestMessageCoversEveryBankCategory(t *testing.T) {
	levels := []scoring.RiskLevel{scoring.RiskLow, scoring.RiskModerate, scoring.RiskHigh}
	names := append(scoring.DefaultBank().Names(), scoring.Overall)
	for _, c := range names {
		for _, l := range levels {
			if Message(c, l) == genericMessages[l] {
				t.Errorf("Message(%s, %s) fell back to the generic message", c, l)
			}
		}
	}
	if got := Message("sleep", scoring.RiskHigh); got != genericMessages[scoring.RiskHigh] {
		t.Errorf("unknown category: got %q", got)
	}
}

func TestStaticSummaryUsesWorstCategory(t *testing.T) {
	got := StaticSummary(sample)
	if !strings.HasPrefix(got, Message("anxiety", scoring.RiskHigh)) {
		t.Errorf("summary should lead with the anxiety message, got %q", got)
	}
	if !strings.HasSuffix(got, Message(scoring.Overall, scoring.RiskModerate)) {
		t.Errorf("summary should end with the overall message, got %q", got)
	}
	if StaticSummary(nil) != "" {
		t.Error("empty results should give an empty summary")
	}
}

func TestSummarize(t *testing.T) {
	good := `{"summary":"You are doing your best and that matters.","suggestions":["Go outside for ten minutes"," ",""]}`

	tests := []struct {
		name       string
		client     *stubClient
		wantSource string
	}{
		{"llm reply", &stubClient{content: "```json\n" + good + "\n```"}, SourceLLM},
		{"client error", &stubClient{err: errors.New("boom")}, SourceStatic},
		{"bad json", &stubClient{content: "not json"}, SourceStatic},
		{"clinical language", &stubClient{content: `{"summary":"This looks like an anxiety disorder."}`}, SourceStatic},
	}
	for _, tt := range tests {
		s := &Service{llm: tt.client}
		got := s.Summarize(context.Background(), sample)
		if got.Source != tt.wantSource {
			t.Errorf("%s: source = %s, want %s", tt.name, got.Source, tt.wantSource)
		}
		if got.Text == "" {
			t.Errorf("%s: empty summary text", tt.name)
		}
		if tt.wantSource == SourceLLM && len(got.Suggestions) != 1 {
			t.Errorf("%s: suggestions = %q, want one after trimming", tt.name, got.Suggestions)
		}
	}
}

func TestSummarizeStaticOnly(t *testing.T) {
	got := NewStaticService().Summarize(context.Background(), sample)
	if got.Source != SourceStatic || got.Text != StaticSummary(sample) {
		t.Errorf("static service: got %+v", got)
	}
}

func TestMockClientReplyParses(t *testing.T) {
	resp, err := NewMockClient().Generate(context.Background(), SystemPrompt(), BuildUserPrompt(sample))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseResponse(resp.Content); err != nil {
		t.Errorf("mock reply should parse: %v", err)
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := BuildUserPrompt(sample)
	for _, want := range []string{"Stress: 50% (Moderate)", "Anxiety: 75% (High)", "overall: 60%"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(SystemPrompt(), "counselor") {
		t.Error("system prompt should mention counselors")
	}
}

func TestParseResponse_TruncatesSuggestions(t *testing.T) {
	in, err := ParseResponse(`{"summary":"ok","suggestions":["a","b","c","d","e","f"]}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(in.Suggestions) != maxSuggestions {
		t.Errorf("got %d suggestions, want %d", len(in.Suggestions), maxSuggestions)
	}
}
