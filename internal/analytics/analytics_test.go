package analytics

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/campuswell/backend/internal/models"
	"github.com/campuswell/backend/internal/scoring"
	"github.com/google/go-cmp/cmp"
)

var when = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleLatest() []models.LatestResult {
	return []models.LatestResult{
		{StudentID: 1, Name: "Ana Lee", Consent: true, GradeLevel: "grade_10", AssessmentID: 11, CompletedAt: when,
			Results: map[string]int{"stress_score": 80, "anxiety_score": 75, "overall_score": 78}},
		{StudentID: 2, Name: "Ben Cho", Consent: false, GradeLevel: "grade_11", AssessmentID: 12, CompletedAt: when.Add(time.Hour),
			Results: map[string]int{"stress_score": 45, "overall_score": 45}},
		{StudentID: 3, Name: "Cy Moe", Consent: false, AssessmentID: 13, CompletedAt: when.Add(2 * time.Hour),
			Results: map[string]int{"depression_score": 70, "overall_score": 30}},
	}
}

func TestAnonymousID(t *testing.T) {
	a, b := AnonymousID(42), AnonymousID(42)
	if a != b {
		t.Errorf("AnonymousID not stable: %q vs %q", a, b)
	}
	if a == AnonymousID(43) {
		t.Error("different students should get different IDs")
	}
	if !strings.HasPrefix(a, "S-") || len(a) != 10 {
		t.Errorf("AnonymousID(42) = %q, want S- plus 8 chars", a)
	}
}

func TestDisplayName(t *testing.T) {
	l := sampleLatest()
	if got := DisplayName(l[0]); got != "Ana Lee" {
		t.Errorf("consenting student: got %q", got)
	}
	if got := DisplayName(l[1]); got != AnonymousID(2) {
		t.Errorf("non-consenting student: got %q", got)
	}
}

func TestAggregateCategories(t *testing.T) {
	got := AggregateCategories(sampleLatest(), []string{"stress", "depression", "adhd", scoring.Overall})
	want := []models.CategoryStats{
		{Category: "stress", Average: 62.5, Assessments: 2, Distribution: models.RiskDistribution{Moderate: 1, High: 1}},
		{Category: "depression", Average: 70, Assessments: 1, Distribution: models.RiskDistribution{High: 1}},
		{Category: "adhd"},
		{Category: scoring.Overall, Average: 51, Assessments: 3, Distribution: models.RiskDistribution{Low: 1, Moderate: 1, High: 1}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AggregateCategories mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAtRisk(t *testing.T) {
	got := FindAtRisk(sampleLatest(), scoring.DefaultBank().Names())
	if len(got) != 2 {
		t.Fatalf("got %d at-risk students, want 2", len(got))
	}
	if got[0].StudentID == nil || *got[0].StudentID != 1 || !cmp.Equal(got[0].HighCategories, []string{"stress", "anxiety"}) {
		t.Errorf("first = %+v, want student 1 with stress and anxiety", got[0])
	}
	if got[1].StudentID != nil || got[1].AssessmentID != nil || got[1].DisplayName != AnonymousID(3) {
		t.Errorf("second = %+v, want anonymous student 3", got[1])
	}
}

func TestFindAtRiskHidesAccountIDsWithoutConsent(t *testing.T) {
	latest := []models.LatestResult{{
		StudentID:    777,
		Name:         "Dee Roe",
		AssessmentID: 9,
		CompletedAt:  when,
		Results:      map[string]int{"stress_score": 90, "overall_score": 60},
	}}
	got := FindAtRisk(latest, scoring.DefaultBank().Names())
	if len(got) != 1 {
		t.Fatalf("got %d at-risk students, want 1", len(got))
	}

	body, err := json.Marshal(got[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, leak := range []string{"student_id", "assessment_id", "777", "Dee Roe"} {
		if strings.Contains(string(body), leak) {
			t.Errorf("at-risk JSON contains %q: %s", leak, body)
		}
	}
	if !strings.Contains(string(body), AnonymousID(777)) {
		t.Errorf("at-risk JSON missing pseudonym: %s", body)
	}
}

func TestExportCSV(t *testing.T) {
	body, err := ExportCSV(sampleLatest()[:2], []string{"stress", scoring.Overall})
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"student", "grade_level", "assessment_id", "completed_at", "stress_score", "stress_level", "overall_score", "overall_level"},
		{"Ana Lee", "grade_10", "11", "2026-06-01T12:00:00Z", "80", "High", "78", "High"},
		{AnonymousID(2), "grade_11", "", "2026-06-01T13:00:00Z", "45", "Moderate", "45", "Moderate"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(string(body), "Ben Cho") {
		t.Error("non-consenting student's name leaked into the export")
	}
}

// ── Service with a fake store ───────────────────────────

type fakeStore struct {
	schools  map[int64]string
	latest   []models.LatestResult
	failMood bool
}

func (f *fakeStore) UserSchool(ctx context.Context, userID int64) (string, error) {
	return f.schools[userID], nil
}
func (f *fakeStore) CountStudents(ctx context.Context, school string) (int, error) { return 40, nil }
func (f *fakeStore) CountAssessments(ctx context.Context, school string) (int, error) {
	return 55, nil
}
func (f *fakeStore) LatestResults(ctx context.Context, school string) ([]models.LatestResult, error) {
	return f.latest, nil
}
func (f *fakeStore) MoodStats(ctx context.Context, school string, since time.Time) (float64, int, error) {
	if f.failMood {
		return 0, 0, errors.New("db down")
	}
	return 3.4, 120, nil
}
func (f *fakeStore) OpenRequests(ctx context.Context, school string) (int, int, error) {
	return 4, 1, nil
}

func TestOverview(t *testing.T) {
	store := &fakeStore{schools: map[int64]string{5: "NHS"}, latest: sampleLatest()}
	s := &Service{store: store, bank: scoring.DefaultBank(), now: func() time.Time { return when }}

	resp, err := s.Overview(context.Background(), 5, models.RoleCounselor, "OTHER")
	if err != nil {
		t.Fatal(err)
	}
	if resp.SchoolCode != "NHS" {
		t.Errorf("counselor should be scoped to their school, got %q", resp.SchoolCode)
	}
	if resp.Students != 40 || resp.Assessments != 55 || resp.MoodEntries30d != 120 || resp.OpenRequests != 4 || resp.UrgentOpenRequests != 1 {
		t.Errorf("overview = %+v", resp)
	}
	if len(resp.Categories) != len(scoring.DefaultBank().Names())+1 {
		t.Errorf("got %d category stats", len(resp.Categories))
	}

	resp, err = s.Overview(context.Background(), 99, models.RoleAdmin, " shs ")
	if err != nil {
		t.Fatal(err)
	}
	if resp.SchoolCode != "SHS" {
		t.Errorf("admin school = %q, want SHS", resp.SchoolCode)
	}

	if _, err := s.Overview(context.Background(), 6, models.RoleCounselor, ""); !errors.Is(err, ErrNoSchool) {
		t.Errorf("counselor without school: err = %v, want ErrNoSchool", err)
	}

	store.failMood = true
	if _, err := s.Overview(context.Background(), 5, models.RoleCounselor, ""); err == nil {
		t.Error("a failing query should fail the overview")
	}
}

func TestExportFileName(t *testing.T) {
	store := &fakeStore{schools: map[int64]string{5: "NHS"}, latest: sampleLatest()}
	s := &Service{store: store, bank: scoring.DefaultBank(), now: func() time.Time { return when }}

	_, name, err := s.Export(context.Background(), 5, models.RoleCounselor, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(name, "wellness-nhs-20260601-") || !strings.HasSuffix(name, ".csv") {
		t.Errorf("file name = %q", name)
	}
	_, other, _ := s.Export(context.Background(), 5, models.RoleCounselor, "")
	if other == name {
		t.Error("file names should be unique")
	}
}
