package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campuswell/backend/internal/models"
	"github.com/campuswell/backend/internal/scoring"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrNoSchool is returned to counselors whose account has no school code.
var ErrNoSchool = errors.New("account is not linked to a school")

const moodWindowDays = 30

type analyticsStore interface {
	UserSchool(ctx context.Context, userID int64) (string, error)
	CountStudents(ctx context.Context, school string) (int, error)
	CountAssessments(ctx context.Context, school string) (int, error)
	LatestResults(ctx context.Context, school string) ([]models.LatestResult, error)
	MoodStats(ctx context.Context, school string, since time.Time) (float64, int, error)
	OpenRequests(ctx context.Context, school string) (int, int, error)
}

type Service struct {
	store analyticsStore
	bank  *scoring.Bank
	now   func() time.Time
}

func NewService(store *Store, bank *scoring.Bank) *Service {
	return &Service{store: store, bank: bank, now: time.Now}
}

// categories is every declared category followed by overall.
func (s *Service) categories() []string {
	return append(s.bank.Names(), scoring.Overall)
}

// resolveSchool scopes counselors to their own school. Admins may pick a
// school or pass "" for all schools.
func (s *Service) resolveSchool(ctx context.Context, userID int64, role models.Role, requested string) (string, error) {
	if role == models.RoleAdmin {
		return strings.ToUpper(strings.TrimSpace(requested)), nil
	}
	school, err := s.store.UserSchool(ctx, userID)
	if err != nil {
		return "", err
	}
	if school == "" {
		return "", ErrNoSchool
	}
	return school, nil
}

// Overview runs the dashboard queries concurrently.
func (s *Service) Overview(ctx context.Context, userID int64, role models.Role, school string) (*models.OverviewResponse, error) {
	school, err := s.resolveSchool(ctx, userID, role, school)
	if err != nil {
		return nil, err
	}

	resp := &models.OverviewResponse{SchoolCode: school, GeneratedAt: s.now().UTC()}
	var latest []models.LatestResult
	since := s.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -(moodWindowDays - 1))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.CountStudents(gctx, school)
		resp.Students = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountAssessments(gctx, school)
		resp.Assessments = n
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = s.store.LatestResults(gctx, school)
		return err
	})
	g.Go(func() error {
		avg, n, err := s.store.MoodStats(gctx, school, since)
		resp.MoodAverage30d = avg
		resp.MoodEntries30d = n
		return err
	})
	g.Go(func() error {
		open, urgent, err := s.store.OpenRequests(gctx, school)
		resp.OpenRequests = open
		resp.UrgentOpenRequests = urgent
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}

	resp.Categories = AggregateCategories(latest, s.categories())
	return resp, nil
}

func (s *Service) AtRisk(ctx context.Context, userID int64, role models.Role, school string) (*models.AtRiskResponse, error) {
	school, err := s.resolveSchool(ctx, userID, role, school)
	if err != nil {
		return nil, err
	}
	latest, err := s.store.LatestResults(ctx, school)
	if err != nil {
		return nil, err
	}
	students := FindAtRisk(latest, s.bank.Names())
	return &models.AtRiskResponse{Students: students, Total: len(students)}, nil
}

// Export returns the CSV body and a unique download file name.
func (s *Service) Export(ctx context.Context, userID int64, role models.Role, school string) ([]byte, string, error) {
	school, err := s.resolveSchool(ctx, userID, role, school)
	if err != nil {
		return nil, "", err
	}
	latest, err := s.store.LatestResults(ctx, school)
	if err != nil {
		return nil, "", err
	}
	body, err := ExportCSV(latest, s.categories())
	if err != nil {
		return nil, "", fmt.Errorf("render csv: %w", err)
	}

	scope := strings.ToLower(school)
	if scope == "" {
		scope = "all"
	}
	name := fmt.Sprintf("wellness-%s-%s-%s.csv", scope, s.now().UTC().Format("20060102"), uuid.NewString()[:8])
	return body, name, nil
}
