package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/campuswell/backend/internal/scoring"
)

func TestScoreCommand(t *testing.T) {
	bankFile = ""
	answersFile = "-"
	scoreSelection = "stress"
	t.Cleanup(func() { scoreSelection = "" })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(`{"stress": ["Always", "Always", "Always"]}`))
	rootCmd.SetArgs([]string{"score"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("score: %v", err)
	}

	got := out.String()
	for _, want := range []string{"stress", "overall", "CATEGORY"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestSelectionDefaultsToAnsweredCategories(t *testing.T) {
	scoreSelection = ""
	bank := scoring.DefaultBank()
	names := bank.Names()
	if len(names) < 2 {
		t.Skip("bank has fewer than two categories")
	}
	r := scoring.Responses{names[1]: nil, "bogus": nil}

	got, err := selection(bank, r)
	if err != nil {
		t.Fatalf("selection: %v", err)
	}
	if len(got) != 1 || got[0] != names[1] {
		t.Errorf("selection = %v, want [%s]", got, names[1])
	}
}

func TestOverallIgnoresUnselectedCategories(t *testing.T) {
	bank := scoring.DefaultBank()
	r := scoring.Responses{
		"stress":     scoring.AnswersFromLabels("Never", "Never"),
		"depression": scoring.AnswersFromLabels("Always", "Always", "Always"),
	}
	selected := []string{"stress"}

	scores := scoring.ScoreResponses(append(selected, scoring.Overall), onlySelected(r, selected), bank, nil)
	overall := scores[len(scores)-1]
	if overall.Category != scoring.Overall || overall.AnsweredCount != 2 {
		t.Errorf("overall = %+v, want 2 answers from stress only", overall)
	}
	if overall.Percentage != scores[0].Percentage {
		t.Errorf("overall = %d, want %d (same as stress)", overall.Percentage, scores[0].Percentage)
	}
}

func TestSelectionRejectsUnknown(t *testing.T) {
	scoreSelection = "stress,nope"
	t.Cleanup(func() { scoreSelection = "" })
	if _, err := selection(scoring.DefaultBank(), nil); err == nil {
		t.Error("expected error for unknown category")
	}
}
