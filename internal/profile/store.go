package profile

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/campuswell/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the user's profile, or an empty not-onboarded profile when the
// user has not completed intake yet.
func (s *Store) Get(userID int64) (*models.Profile, error) {
	p := models.Profile{UserID: userID}
	var age sql.NullInt64
	var gender, grade, school sql.NullString
	err := s.db.QueryRow(
		`SELECT age, gender, grade_level, school, counselor_consent, onboarded, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&age, &gender, &grade, &school, &p.CounselorConsent, &p.Onboarded, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if age.Valid {
		a := int(age.Int64)
		p.Age = &a
	}
	p.Gender = gender.String
	p.GradeLevel = grade.String
	p.School = school.String
	return &p, nil
}

func (s *Store) Upsert(p *models.Profile) error {
	_, err := s.db.Exec(
		`INSERT INTO profiles (user_id, age, gender, grade_level, school, counselor_consent, onboarded, updated_at)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		    age = EXCLUDED.age,
		    gender = EXCLUDED.gender,
		    grade_level = EXCLUDED.grade_level,
		    school = EXCLUDED.school,
		    counselor_consent = EXCLUDED.counselor_consent,
		    onboarded = profiles.onboarded OR EXCLUDED.onboarded,
		    updated_at = NOW()`,
		p.UserID, p.Age, p.Gender, p.GradeLevel, p.School, p.CounselorConsent, p.Onboarded,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
