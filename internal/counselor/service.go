package counselor

import (
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/campuswell/backend/internal/models"
	"github.com/campuswell/backend/internal/scoring"
)

const maxReasonLen = 1000

type requestStore interface {
	Create(r *models.CounselorRequest) error
	Get(id int64) (*models.CounselorRequest, error)
	ListForStudent(studentID int64) ([]models.CounselorRequest, error)
	ListForSchool(schoolCode string, statuses []models.RequestStatus) ([]models.CounselorRequest, error)
	HasOpenRequest(studentID int64) (bool, error)
	Transition(id int64, from, to models.RequestStatus, counselorID *int64, note string, resolved bool) error
	UserSchool(userID int64) (string, error)
	AssessmentResults(studentID, assessmentID int64) (scoring.Results, error)
}

// ActivityRecorder receives new requests for the "reached out" badge.
type ActivityRecorder interface {
	RecordActivity(userID int64, activity models.Activity) (*models.ActivityResult, error)
}

type Service struct {
	store    requestStore
	activity ActivityRecorder
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) SetActivityRecorder(r ActivityRecorder) {
	s.activity = r
}

// Create opens a request for the student. A linked assessment with any High
// category marks the request as priority.
func (s *Service) Create(studentID int64, req models.CreateCounselorRequest) (*models.CounselorRequest, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, &ValidationError{Message: "reason is required"}
	}
	if utf8.RuneCountInString(reason) > maxReasonLen {
		return nil, &ValidationError{Message: "reason is too long"}
	}
	urgency := req.Urgency
	if urgency == "" {
		urgency = models.UrgencyNormal
	}
	if !urgency.Valid() {
		return nil, &ValidationError{Message: "urgency must be low, normal or urgent"}
	}

	open, err := s.store.HasOpenRequest(studentID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrOpenRequestExists
	}

	school, err := s.store.UserSchool(studentID)
	if err != nil {
		return nil, err
	}

	r := &models.CounselorRequest{
		StudentID:  studentID,
		SchoolCode: school,
		Reason:     reason,
		Urgency:    urgency,
		Status:     models.StatusPending,
	}
	if req.AssessmentID != nil {
		results, err := s.store.AssessmentResults(studentID, *req.AssessmentID)
		if errors.Is(err, ErrNotFound) {
			return nil, &ValidationError{Message: "assessment not found"}
		}
		if err != nil {
			return nil, err
		}
		r.AssessmentID = req.AssessmentID
		r.Priority = scoring.AnyHigh(results)
	}

	if err := s.store.Create(r); err != nil {
		return nil, err
	}
	log.Printf("[counselor] student %d opened request %d (urgency=%s priority=%v)", studentID, r.ID, r.Urgency, r.Priority)

	if s.activity != nil {
		if _, err := s.activity.RecordActivity(studentID, models.ActivityCounselorRequest); err != nil {
			log.Printf("[counselor] gamification failed for user %d: %v", studentID, err)
		}
	}
	return r, nil
}

func (s *Service) ListMine(studentID int64) (*models.CounselorRequestListResponse, error) {
	reqs, err := s.store.ListForStudent(studentID)
	if err != nil {
		return nil, err
	}
	return &models.CounselorRequestListResponse{Requests: reqs, Total: len(reqs)}, nil
}

// statusFilter maps the ?status= query to stored statuses. "open" (the
// default) is pending plus accepted; "all" is everything.
func statusFilter(q string) ([]models.RequestStatus, error) {
	switch q {
	case "", "open":
		return []models.RequestStatus{models.StatusPending, models.StatusAccepted}, nil
	case "all":
		return []models.RequestStatus{models.StatusPending, models.StatusAccepted, models.StatusDeclined, models.StatusCompleted, models.StatusCancelled}, nil
	}
	st := models.RequestStatus(q)
	switch st {
	case models.StatusPending, models.StatusAccepted, models.StatusDeclined, models.StatusCompleted, models.StatusCancelled:
		return []models.RequestStatus{st}, nil
	}
	return nil, &ValidationError{Message: "unknown status: " + q}
}

// ListForCounselor lists requests from the counselor's own school.
func (s *Service) ListForCounselor(counselorID int64, status string) (*models.CounselorRequestListResponse, error) {
	statuses, err := statusFilter(status)
	if err != nil {
		return nil, err
	}
	school, err := s.store.UserSchool(counselorID)
	if err != nil {
		return nil, err
	}
	if school == "" {
		return &models.CounselorRequestListResponse{Requests: []models.CounselorRequest{}}, nil
	}
	reqs, err := s.store.ListForSchool(school, statuses)
	if err != nil {
		return nil, err
	}
	return &models.CounselorRequestListResponse{Requests: reqs, Total: len(reqs)}, nil
}

// Act applies an action by userID in role to a request. Students may only
// touch their own requests; counselors only those of their school, and only
// the accepting counselor may complete.
func (s *Service) Act(userID int64, role models.Role, id int64, action Action, note string) (*models.CounselorRequest, error) {
	r, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	switch role {
	case models.RoleStudent:
		if r.StudentID != userID {
			return nil, ErrNotFound
		}
	case models.RoleCounselor:
		school, err := s.store.UserSchool(userID)
		if err != nil {
			return nil, err
		}
		if school == "" || school != r.SchoolCode {
			return nil, ErrNotFound
		}
	default:
		return nil, ErrForbidden
	}

	next, err := Next(r.Status, action, role)
	if err != nil {
		return nil, err
	}
	if action == ActionComplete && (r.CounselorID == nil || *r.CounselorID != userID) {
		return nil, ErrForbidden
	}

	var counselorID *int64
	if action == ActionAccept || action == ActionDecline {
		counselorID = &userID
	}
	note = strings.TrimSpace(note)
	if role == models.RoleStudent {
		note = ""
	}
	if err := s.store.Transition(r.ID, r.Status, next, counselorID, note, IsTerminal(next)); err != nil {
		return nil, err
	}
	log.Printf("[counselor] request %d: %s -> %s by user %d", r.ID, r.Status, next, userID)

	return s.store.Get(id)
}
