package counselor

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

const selectRequest = `SELECT r.id, r.student_id, u.name, r.counselor_id, COALESCE(r.school_code, ''),
        r.reason, r.urgency, r.status, r.priority, r.assessment_id,
        COALESCE(r.counselor_note, ''), r.created_at, r.updated_at, r.resolved_at
 FROM counselor_requests r
 JOIN users u ON u.id = r.student_id`

func scanRequest(row interface{ Scan(...interface{}) error }) (*models.CounselorRequest, error) {
	var r models.CounselorRequest
	var counselorID, assessmentID sql.NullInt64
	var resolved sql.NullTime
	err := row.Scan(&r.ID, &r.StudentID, &r.StudentName, &counselorID, &r.SchoolCode,
		&r.Reason, &r.Urgency, &r.Status, &r.Priority, &assessmentID,
		&r.CounselorNote, &r.CreatedAt, &r.UpdatedAt, &resolved)
	if err != nil {
		return nil, err
	}
	if counselorID.Valid {
		r.CounselorID = &counselorID.Int64
	}
	if assessmentID.Valid {
		r.AssessmentID = &assessmentID.Int64
	}
	if resolved.Valid {
		r.ResolvedAt = &resolved.Time
	}
	return &r, nil
}

func (s *Store) Create(r *models.CounselorRequest) error {
	err := s.db.QueryRow(
		`INSERT INTO counselor_requests (student_id, school_code, reason, urgency, status, priority, assessment_id)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		r.StudentID, r.SchoolCode, r.Reason, r.Urgency, r.Status, r.Priority, r.AssessmentID,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrOpenRequestExists
	}
	if err != nil {
		return fmt.Errorf("insert counselor request: %w", err)
	}
	return nil
}

func (s *Store) Get(id int64) (*models.CounselorRequest, error) {
	r, err := scanRequest(s.db.QueryRow(selectRequest+` WHERE r.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get counselor request %d: %w", id, err)
	}
	return r, nil
}

func (s *Store) ListForStudent(studentID int64) ([]models.CounselorRequest, error) {
	rows, err := s.db.Query(selectRequest+` WHERE r.student_id = $1 ORDER BY r.created_at DESC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list student requests: %w", err)
	}
	return collect(rows)
}

// ListForSchool returns the school's requests in the given statuses,
// priority and urgent requests first, then oldest first.
func (s *Store) ListForSchool(schoolCode string, statuses []models.RequestStatus) ([]models.CounselorRequest, error) {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}
	rows, err := s.db.Query(
		selectRequest+` WHERE r.school_code = $1 AND r.status = ANY($2)
		 ORDER BY r.priority DESC, (r.urgency = 'urgent') DESC, r.created_at ASC`,
		schoolCode, pq.Array(names),
	)
	if err != nil {
		return nil, fmt.Errorf("list school requests: %w", err)
	}
	return collect(rows)
}

func collect(rows *sql.Rows) ([]models.CounselorRequest, error) {
	defer rows.Close()
	out := []models.CounselorRequest{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan counselor request: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) HasOpenRequest(studentID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM counselor_requests
		  WHERE student_id = $1 AND status IN ('pending', 'accepted'))`,
		studentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check open requests: %w", err)
	}
	return exists, nil
}

// Transition moves a request from one status to another. It returns
// ErrInvalidTransition when the stored status no longer matches from.
func (s *Store) Transition(id int64, from, to models.RequestStatus, counselorID *int64, note string, resolved bool) error {
	res, err := s.db.Exec(
		`UPDATE counselor_requests SET
		    status = $3,
		    counselor_id = COALESCE($4, counselor_id),
		    counselor_note = COALESCE(NULLIF($5, ''), counselor_note),
		    resolved_at = CASE WHEN $6 THEN NOW() ELSE resolved_at END,
		    updated_at = NOW()
		 WHERE id = $1 AND status = $2`,
		id, from, to, counselorID, note, resolved,
	)
	if err != nil {
		return fmt.Errorf("update counselor request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// UserSchool returns the school code on a user's account.
func (s *Store) UserSchool(userID int64) (string, error) {
	var code sql.NullString
	err := s.db.QueryRow(`SELECT school_code FROM users WHERE id = $1`, userID).Scan(&code)
	if err != nil {
		return "", fmt.Errorf("get user school: %w", err)
	}
	return code.String, nil
}

// AssessmentResults returns the stored results of a student's own
// assessment, or ErrNotFound.
func (s *Store) AssessmentResults(studentID, assessmentID int64) (scoring.Results, error) {
	var raw []byte
	err := s.db.QueryRow(
		`SELECT results FROM assessments WHERE id = $1 AND user_id = $2`,
		assessmentID, studentID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment results: %w", err)
	}
	var r scoring.Results
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode assessment results: %w", err)
	}
	return r, nil
}

// isUniqueViolation reports a Postgres unique_violation, raised here by the
// one-open-request-per-student index.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
