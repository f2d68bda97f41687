package counselor

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/campuswell/backend/internal/models"
	"github.com/campuswell/backend/internal/scoring"
	"github.com/lib/pq"
)

func TestNext(t *testing.T) {
	tests := []struct {
		from    models.RequestStatus
		action  Action
		role    models.Role
		want    models.RequestStatus
		wantErr error
	}{
		{models.StatusPending, ActionAccept, models.RoleCounselor, models.StatusAccepted, nil},
		{models.StatusPending, ActionDecline, models.RoleCounselor, models.StatusDeclined, nil},
		{models.StatusAccepted, ActionComplete, models.RoleCounselor, models.StatusCompleted, nil},
		{models.StatusPending, ActionCancel, models.RoleStudent, models.StatusCancelled, nil},
		{models.StatusAccepted, ActionCancel, models.RoleStudent, models.StatusCancelled, nil},

		{models.StatusPending, ActionComplete, models.RoleCounselor, "", ErrInvalidTransition},
		{models.StatusAccepted, ActionAccept, models.RoleCounselor, "", ErrInvalidTransition},
		{models.StatusDeclined, ActionAccept, models.RoleCounselor, "", ErrInvalidTransition},
		{models.StatusCompleted, ActionCancel, models.RoleStudent, "", ErrInvalidTransition},
		{models.StatusCancelled, ActionCancel, models.RoleStudent, "", ErrInvalidTransition},
		{models.StatusPending, Action("reopen"), models.RoleCounselor, "", ErrInvalidTransition},

		{models.StatusPending, ActionCancel, models.RoleCounselor, "", ErrForbidden},
		{models.StatusPending, ActionAccept, models.RoleStudent, "", ErrForbidden},
	}
	for _, tt := range tests {
		got, err := Next(tt.from, tt.action, tt.role)
		if got != tt.want || !errors.Is(err, tt.wantErr) {
			t.Errorf("Next(%s, %s, %s) = %q, %v; want %q, %v", tt.from, tt.action, tt.role, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, st := range []models.RequestStatus{models.StatusDeclined, models.StatusCompleted, models.StatusCancelled} {
		if !IsTerminal(st) {
			t.Errorf("IsTerminal(%s) = false, want true", st)
		}
	}
	for _, st := range []models.RequestStatus{models.StatusPending, models.StatusAccepted} {
		if IsTerminal(st) {
			t.Errorf("IsTerminal(%s) = true, want false", st)
		}
	}
}

func TestStatusFilter(t *testing.T) {
	if got, _ := statusFilter(""); len(got) != 2 {
		t.Errorf("default filter = %v, want pending and accepted", got)
	}
	if got, _ := statusFilter("all"); len(got) != 5 {
		t.Errorf("all filter = %v", got)
	}
	if got, _ := statusFilter("declined"); len(got) != 1 || got[0] != models.StatusDeclined {
		t.Errorf("declined filter = %v", got)
	}
	if _, err := statusFilter("lost"); err == nil {
		t.Error("unknown status should fail")
	}
}

// ── Service with an in-memory store ─────────────────────

type memStore struct {
	reqs    map[int64]*models.CounselorRequest
	schools map[int64]string
	results map[int64]scoring.Results
	nextID  int64

	// staleOpenCheck makes HasOpenRequest miss existing requests, as when
	// two creates race past the check.
	staleOpenCheck bool
}

func newMemStore() *memStore {
	return &memStore{
		reqs: map[int64]*models.CounselorRequest{},
		schools: map[int64]string{
			1:  "NHS",
			2:  "NHS",
			10: "NHS",
			11: "NHS",
			20: "SHS",
		},
		results: map[int64]scoring.Results{
			100: {"stress_score": 75, "overall_score": 40},
		},
	}
}

func (m *memStore) Create(r *models.CounselorRequest) error {
	for _, existing := range m.reqs {
		if existing.StudentID == r.StudentID && IsOpen(existing.Status) {
			return ErrOpenRequestExists
		}
	}
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	cp := *r
	m.reqs[r.ID] = &cp
	return nil
}

func (m *memStore) Get(id int64) (*models.CounselorRequest, error) {
	r, ok := m.reqs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) ListForStudent(studentID int64) ([]models.CounselorRequest, error) {
	out := []models.CounselorRequest{}
	for _, r := range m.reqs {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) ListForSchool(school string, statuses []models.RequestStatus) ([]models.CounselorRequest, error) {
	out := []models.CounselorRequest{}
	for _, r := range m.reqs {
		for _, st := range statuses {
			if r.SchoolCode == school && r.Status == st {
				out = append(out, *r)
			}
		}
	}
	return out, nil
}

func (m *memStore) HasOpenRequest(studentID int64) (bool, error) {
	if m.staleOpenCheck {
		return false, nil
	}
	for _, r := range m.reqs {
		if r.StudentID == studentID && IsOpen(r.Status) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Transition(id int64, from, to models.RequestStatus, counselorID *int64, note string, resolved bool) error {
	r := m.reqs[id]
	if r == nil || r.Status != from {
		return ErrInvalidTransition
	}
	r.Status = to
	if counselorID != nil {
		r.CounselorID = counselorID
	}
	if note != "" {
		r.CounselorNote = note
	}
	if resolved {
		now := time.Now()
		r.ResolvedAt = &now
	}
	return nil
}

func (m *memStore) UserSchool(userID int64) (string, error) {
	return m.schools[userID], nil
}

func (m *memStore) AssessmentResults(studentID, assessmentID int64) (scoring.Results, error) {
	r, ok := m.results[assessmentID]
	if !ok || studentID != 1 {
		return nil, ErrNotFound
	}
	return r, nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestCreate(t *testing.T) {
	s := &Service{store: newMemStore()}

	tests := []struct {
		name         string
		student      int64
		req          models.CreateCounselorRequest
		wantErr      bool
		wantPriority bool
	}{
		{"blank reason", 1, models.CreateCounselorRequest{Reason: "  "}, true, false},
		{"bad urgency", 1, models.CreateCounselorRequest{Reason: "x", Urgency: "asap"}, true, false},
		{"someone else's assessment", 2, models.CreateCounselorRequest{Reason: "x", AssessmentID: int64Ptr(100)}, true, false},
		{"high category", 1, models.CreateCounselorRequest{Reason: "exams", AssessmentID: int64Ptr(100)}, false, true},
		{"already open", 1, models.CreateCounselorRequest{Reason: "again"}, true, false},
		{"no assessment link", 2, models.CreateCounselorRequest{Reason: "x"}, false, false},
	}
	for _, tt := range tests {
		got, err := s.Create(tt.student, tt.req)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if got.Priority != tt.wantPriority {
			t.Errorf("%s: priority = %v, want %v", tt.name, got.Priority, tt.wantPriority)
		}
		if got.Urgency != models.UrgencyNormal || got.Status != models.StatusPending || got.SchoolCode != "NHS" {
			t.Errorf("%s: got %+v", tt.name, got)
		}
	}
}

func TestCreateConflictOnInsert(t *testing.T) {
	store := newMemStore()
	s := &Service{store: store}
	if _, err := s.Create(2, models.CreateCounselorRequest{Reason: "first"}); err != nil {
		t.Fatal(err)
	}

	store.staleOpenCheck = true
	_, err := s.Create(2, models.CreateCounselorRequest{Reason: "second"})
	if !errors.Is(err, ErrOpenRequestExists) {
		t.Fatalf("err = %v, want ErrOpenRequestExists", err)
	}
	if n := len(store.reqs); n != 1 {
		t.Errorf("stored %d requests, want 1", n)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505"})) {
		t.Error("23505 should be a unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) || isUniqueViolation(errors.New("boom")) || isUniqueViolation(nil) {
		t.Error("only 23505 is a unique violation")
	}
}

func TestAct(t *testing.T) {
	store := newMemStore()
	s := &Service{store: store}

	req, err := s.Create(1, models.CreateCounselorRequest{Reason: "need to talk", Urgency: models.UrgencyUrgent})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Act(20, models.RoleCounselor, req.ID, ActionAccept, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("counselor from another school: err = %v, want ErrNotFound", err)
	}
	if _, err := s.Act(2, models.RoleStudent, req.ID, ActionCancel, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("another student: err = %v, want ErrNotFound", err)
	}
	if _, err := s.Act(10, models.RoleCounselor, req.ID, ActionComplete, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("complete while pending: err = %v, want ErrInvalidTransition", err)
	}

	got, err := s.Act(10, models.RoleCounselor, req.ID, ActionAccept, " see you at 3 ")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusAccepted || got.CounselorID == nil || *got.CounselorID != 10 || got.CounselorNote != "see you at 3" {
		t.Errorf("after accept: %+v", got)
	}

	if _, err := s.Act(11, models.RoleCounselor, req.ID, ActionComplete, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("complete by another counselor: err = %v, want ErrForbidden", err)
	}

	got, err = s.Act(10, models.RoleCounselor, req.ID, ActionComplete, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusCompleted || got.ResolvedAt == nil {
		t.Errorf("after complete: %+v", got)
	}

	if _, err := s.Act(1, models.RoleStudent, req.ID, ActionCancel, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel after completion: err = %v, want ErrInvalidTransition", err)
	}

	queue, err := s.ListForCounselor(10, "")
	if err != nil {
		t.Fatal(err)
	}
	if queue.Total != 0 {
		t.Errorf("open queue should be empty, got %d", queue.Total)
	}
	queue, _ = s.ListForCounselor(10, "completed")
	if queue.Total != 1 {
		t.Errorf("completed queue = %d, want 1", queue.Total)
	}
}
