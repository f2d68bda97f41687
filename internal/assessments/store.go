package assessments

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/campuswell/backend/internal/models"
	"github.com/campuswell/backend/internal/scoring"
	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create persists an attempt and fills in its ID and completion time.
func (s *Store) Create(a *models.Assessment) error {
	answersJSON, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	resultsJSON, err := json.Marshal(a.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	err = s.db.QueryRow(
		`INSERT INTO assessments (user_id, categories, answers, results)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, completed_at`,
		a.UserID, pq.Array(a.Categories), answersJSON, resultsJSON,
	).Scan(&a.ID, &a.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (s *Store) Get(id int64) (*models.Assessment, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, categories, answers, results, completed_at
		 FROM assessments WHERE id = $1`,
		id,
	)
	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment %d: %w", id, err)
	}
	return a, nil
}

func (s *Store) ListByUser(userID int64, limit, offset int) ([]models.Assessment, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM assessments WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assessments: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT id, user_id, categories, answers, results, completed_at
		 FROM assessments WHERE user_id = $1
		 ORDER BY completed_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	out := []models.Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, *a)
	}
	return out, total, rows.Err()
}

// Progress returns the stored percentage for one category across a user's
// attempts, oldest first. Attempts without that category are skipped.
func (s *Store) Progress(userID int64, category string) ([]models.ProgressPoint, error) {
	key := scoring.ScoreKey(category)
	rows, err := s.db.Query(
		`SELECT id, completed_at, (results->>$2)::int
		 FROM assessments
		 WHERE user_id = $1 AND results ? $2
		 ORDER BY completed_at ASC, id ASC`,
		userID, key,
	)
	if err != nil {
		return nil, fmt.Errorf("progress query: %w", err)
	}
	defer rows.Close()

	points := []models.ProgressPoint{}
	for rows.Next() {
		var p models.ProgressPoint
		if err := rows.Scan(&p.AssessmentID, &p.CompletedAt, &p.Percentage); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		p.Level = scoring.ClassifyRisk(p.Percentage).Level
		points = append(points, p)
	}
	return points, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row rowScanner) (*models.Assessment, error) {
	var a models.Assessment
	var answersJSON, resultsJSON []byte
	if err := row.Scan(&a.ID, &a.UserID, pq.Array(&a.Categories), &answersJSON, &resultsJSON, &a.CompletedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answersJSON, &a.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	if err := json.Unmarshal(resultsJSON, &a.Results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return &a, nil
}
