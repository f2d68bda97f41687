package assessments

import (
	"context"
	"log"
	"strings"

	"github.com/campuswell/backend/internal/insights"
	"github.com/campuswell/backend/internal/models"
	"github.com/campuswell/backend/internal/scoring"
)

type assessmentStore interface {
	Create(a *models.Assessment) error
	Get(id int64) (*models.Assessment, error)
	ListByUser(userID int64, limit, offset int) ([]models.Assessment, int, error)
	Progress(userID int64, category string) ([]models.ProgressPoint, error)
}

// ActivityRecorder receives completed assessments for points and badges.
type ActivityRecorder interface {
	RecordActivity(userID int64, activity models.Activity) (*models.ActivityResult, error)
}

type Service struct {
	store    assessmentStore
	bank     *scoring.Bank
	insights *insights.Service
	activity ActivityRecorder
}

func NewService(store *Store, bank *scoring.Bank, ins *insights.Service) *Service {
	return &Service{store: store, bank: bank, insights: ins}
}

// SetActivityRecorder injects the gamification service.
func (s *Service) SetActivityRecorder(r ActivityRecorder) {
	s.activity = r
}

// ── Question bank ───────────────────────────────────────

// QuestionBank returns prompts for the selected categories in declaration
// order, or every category when none are selected.
func (s *Service) QuestionBank(selected []string) (*models.QuestionBankResponse, error) {
	want := make(map[string]bool, len(selected))
	for _, c := range selected {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if !s.bank.Has(c) {
			return nil, &ValidationError{Message: "unknown category: " + c}
		}
		want[c] = true
	}

	resp := &models.QuestionBankResponse{Categories: []models.QuestionBankCategory{}}
	offset := 0
	for _, name := range s.bank.Names() {
		c, _ := s.bank.Category(name)
		n := len(c.Questions)
		if len(want) == 0 || want[name] {
			prompts := make([]string, n)
			for i, q := range c.Questions {
				prompts[i] = q.Prompt
			}
			resp.Categories = append(resp.Categories, models.QuestionBankCategory{
				Name:      c.Name,
				Title:     c.Title,
				Options:   c.Options,
				Questions: prompts,
				Offset:    offset,
			})
			resp.Total += n
		}
		offset += n
	}
	return resp, nil
}

// ── Submit ──────────────────────────────────────────────

// normalizeSelection validates the chosen categories and returns them
// de-duplicated in declaration order.
func normalizeSelection(bank *scoring.Bank, categories []string) ([]string, error) {
	if len(categories) == 0 {
		return nil, &ValidationError{Message: "at least one category is required"}
	}
	chosen := make(map[string]bool, len(categories))
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == scoring.Overall {
			return nil, &ValidationError{Message: "overall is computed automatically and cannot be selected"}
		}
		if !bank.Has(c) {
			return nil, &ValidationError{Message: "unknown category: " + c}
		}
		chosen[c] = true
	}
	out := make([]string, 0, len(chosen))
	for _, name := range bank.Names() {
		if chosen[name] {
			out = append(out, name)
		}
	}
	return out, nil
}

// Submit scores the selected categories plus overall, stores the attempt
// and returns display-ready results.
func (s *Service) Submit(ctx context.Context, userID int64, req models.SubmitAssessmentRequest) (*models.AssessmentResultResponse, error) {
	selected, err := normalizeSelection(s.bank, req.Categories)
	if err != nil {
		return nil, err
	}

	// Answers for categories that were not selected are dropped.
	answers := make(scoring.Responses, len(selected))
	for _, c := range selected {
		as := req.Answers[c]
		if n := len(s.bank.Questions(c)); len(as) > n {
			as = as[:n]
		}
		answers[c] = as
	}

	scores := scoring.ScoreResponses(withOverall(selected), answers, s.bank, nil)

	a := &models.Assessment{
		UserID:     userID,
		Categories: selected,
		Answers:    answers,
		Results:    scoring.ToResults(scoring.Percentages(scores)),
	}
	if err := s.store.Create(a); err != nil {
		return nil, err
	}

	results := s.buildResults(scores)
	resp := &models.AssessmentResultResponse{
		AssessmentID: a.ID,
		CompletedAt:  a.CompletedAt,
		Categories:   selected,
		Results:      results,
	}
	if s.insights != nil {
		resp.Summary = s.insights.Summarize(ctx, insightInputs(results)).Text
	}

	if s.activity != nil {
		ar, err := s.activity.RecordActivity(userID, models.ActivityAssessment)
		if err != nil {
			log.Printf("[assessments] gamification failed for user %d: %v", userID, err)
		} else {
			resp.PointsAwarded = ar.PointsAwarded
			resp.AchievementsUnlocked = ar.AchievementsUnlocked
		}
	}

	log.Printf("[assessments] user %d completed assessment %d (%s)", userID, a.ID, strings.Join(selected, ","))
	return resp, nil
}

// ── Read ────────────────────────────────────────────────

// Get redisplays a stored attempt from its stored results without
// recomputing. Only the owner may read it.
func (s *Service) Get(userID, id int64) (*models.AssessmentResultResponse, error) {
	a, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrForbidden
	}

	scores := scoring.ScoreResponses(withOverall(a.Categories), a.Answers, s.bank, a.Results)
	results := s.buildResults(scores)
	return &models.AssessmentResultResponse{
		AssessmentID: a.ID,
		CompletedAt:  a.CompletedAt,
		Categories:   a.Categories,
		Results:      results,
		Summary:      insights.StaticSummary(insightInputs(results)),
	}, nil
}

func (s *Service) List(userID int64, page, pageSize int) (*models.AssessmentListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	items, total, err := s.store.ListByUser(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &models.AssessmentListResponse{
		Assessments: items,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

func (s *Service) Progress(userID int64, category string) (*models.ProgressResponse, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = scoring.Overall
	}
	if category != scoring.Overall && !s.bank.Has(category) {
		return nil, &ValidationError{Message: "unknown category: " + category}
	}
	points, err := s.store.Progress(userID, category)
	if err != nil {
		return nil, err
	}
	return &models.ProgressResponse{Category: category, Points: points}, nil
}

// ── Helpers ─────────────────────────────────────────────

func withOverall(categories []string) []string {
	out := make([]string, 0, len(categories)+1)
	out = append(out, categories...)
	return append(out, scoring.Overall)
}

func (s *Service) buildResults(scores []scoring.CategoryScore) []models.CategoryResult {
	out := make([]models.CategoryResult, 0, len(scores))
	for _, sc := range scores {
		risk := scoring.ClassifyRisk(sc.Percentage)
		r := models.CategoryResult{
			Category:   sc.Category,
			Percentage: sc.Percentage,
			Level:      risk.Level,
			Color:      risk.Color,
			Message:    insights.Message(sc.Category, risk.Level),
		}
		if c, ok := s.bank.Category(sc.Category); ok {
			r.Title = c.Title
		} else if sc.Category == scoring.Overall {
			r.Title = "Overall"
		}
		if !sc.Overridden {
			n := sc.AnsweredCount
			r.AnsweredCount = &n
		}
		out = append(out, r)
	}
	return out
}

func insightInputs(results []models.CategoryResult) []insights.CategoryInput {
	in := make([]insights.CategoryInput, len(results))
	for i, r := range results {
		in[i] = insights.CategoryInput{
			Category:   r.Category,
			Title:      r.Title,
			Percentage: r.Percentage,
			Level:      string(r.Level),
		}
	}
	return in
}
