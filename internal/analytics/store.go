package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campuswell/backend/internal/models"
)

// Store runs the dashboard queries. An empty school code means every school.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) UserSchool(ctx context.Context, userID int64) (string, error) {
	var code sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT school_code FROM users WHERE id = $1`, userID).Scan(&code); err != nil {
		return "", fmt.Errorf("get user school: %w", err)
	}
	return code.String, nil
}

func (s *Store) CountStudents(ctx context.Context, school string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users
		 WHERE role = 'student' AND ($1 = '' OR school_code = $1)`,
		school,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}

func (s *Store) CountAssessments(ctx context.Context, school string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assessments a
		 JOIN users u ON u.id = a.user_id
		 WHERE $1 = '' OR u.school_code = $1`,
		school,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return n, nil
}

// LatestResults returns each student's most recent assessment.
func (s *Store) LatestResults(ctx context.Context, school string) ([]models.LatestResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT ON (a.user_id)
		        a.user_id, u.username, u.name,
		        COALESCE(p.counselor_consent, FALSE), COALESCE(p.grade_level, ''),
		        a.id, a.completed_at, a.results
		 FROM assessments a
		 JOIN users u ON u.id = a.user_id
		 LEFT JOIN profiles p ON p.user_id = a.user_id
		 WHERE u.role = 'student' AND ($1 = '' OR u.school_code = $1)
		 ORDER BY a.user_id, a.completed_at DESC, a.id DESC`,
		school,
	)
	if err != nil {
		return nil, fmt.Errorf("latest results: %w", err)
	}
	defer rows.Close()

	var out []models.LatestResult
	for rows.Next() {
		var r models.LatestResult
		var raw []byte
		if err := rows.Scan(&r.StudentID, &r.Username, &r.Name, &r.Consent, &r.GradeLevel,
			&r.AssessmentID, &r.CompletedAt, &raw); err != nil {
			return nil, fmt.Errorf("scan latest result: %w", err)
		}
		if err := json.Unmarshal(raw, &r.Results); err != nil {
			return nil, fmt.Errorf("decode results for assessment %d: %w", r.AssessmentID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) MoodStats(ctx context.Context, school string, since time.Time) (float64, int, error) {
	var avg sql.NullFloat64
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(m.mood)::float8, COUNT(*)
		 FROM mood_entries m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.entry_date >= $2 AND ($1 = '' OR u.school_code = $1)`,
		school, since,
	).Scan(&avg, &n)
	if err != nil {
		return 0, 0, fmt.Errorf("mood stats: %w", err)
	}
	return avg.Float64, n, nil
}

func (s *Store) OpenRequests(ctx context.Context, school string) (open, urgent int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE urgency = 'urgent' OR priority)
		 FROM counselor_requests
		 WHERE status IN ('pending', 'accepted') AND ($1 = '' OR school_code = $1)`,
		school,
	).Scan(&open, &urgent)
	if err != nil {
		return 0, 0, fmt.Errorf("open requests: %w", err)
	}
	return open, urgent, nil
}
