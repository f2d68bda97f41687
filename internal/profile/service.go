package profile

import (
	"errors"
	"strings"

	"github.com/campuswell/backend/internal/models"
)

const (
	minAge = 10
	maxAge = 30
)

// ValidationError is returned for intake values outside the accepted set.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

type profileStore interface {
	Get(userID int64) (*models.Profile, error)
	Upsert(p *models.Profile) error
}

type Service struct {
	store profileStore
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(userID int64) (*models.Profile, error) {
	return s.store.Get(userID)
}

// Update validates and stores the intake. A profile becomes onboarded the
// first time age and grade level are both present, and stays onboarded.
func (s *Service) Update(userID int64, req models.UpdateProfileRequest) (*models.Profile, error) {
	p, err := normalize(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Upsert(p); err != nil {
		return nil, err
	}
	return s.store.Get(userID)
}

func normalize(userID int64, req models.UpdateProfileRequest) (*models.Profile, error) {
	p := &models.Profile{
		UserID:           userID,
		Age:              req.Age,
		Gender:           strings.ToLower(strings.TrimSpace(req.Gender)),
		GradeLevel:       strings.ToLower(strings.TrimSpace(req.GradeLevel)),
		School:           strings.TrimSpace(req.School),
		CounselorConsent: req.CounselorConsent,
	}
	if p.Age != nil && (*p.Age < minAge || *p.Age > maxAge) {
		return nil, &ValidationError{Field: "age", Message: "must be between 10 and 30"}
	}
	if p.Gender != "" && !models.ValidGenders[p.Gender] {
		return nil, &ValidationError{Field: "gender", Message: "unsupported value"}
	}
	if p.GradeLevel != "" && !models.ValidGradeLevels[p.GradeLevel] {
		return nil, &ValidationError{Field: "grade_level", Message: "unsupported value"}
	}
	if len(p.School) > 255 {
		return nil, &ValidationError{Field: "school", Message: "too long"}
	}
	p.Onboarded = p.Age != nil && p.GradeLevel != ""
	return p, nil
}

// IsValidationError reports whether err came from intake validation.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
