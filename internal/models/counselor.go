package models

import "time"

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusDeclined  RequestStatus = "declined"
	StatusCompleted RequestStatus = "completed"
	StatusCancelled RequestStatus = "cancelled"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyUrgent Urgency = "urgent"
)

func (u Urgency) Valid() bool {
	return u == UrgencyLow || u == UrgencyNormal || u == UrgencyUrgent
}

type CounselorRequest struct {
	ID            int64         `json:"id"`
	StudentID     int64         `json:"student_id"`
	StudentName   string        `json:"student_name,omitempty"`
	CounselorID   *int64        `json:"counselor_id,omitempty"`
	SchoolCode    string        `json:"school_code,omitempty"`
	Reason        string        `json:"reason"`
	Urgency       Urgency       `json:"urgency"`
	Status        RequestStatus `json:"status"`
	Priority      bool          `json:"priority"`
	AssessmentID  *int64        `json:"assessment_id,omitempty"`
	CounselorNote string        `json:"counselor_note,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	ResolvedAt    *time.Time    `json:"resolved_at,omitempty"`
}

type CreateCounselorRequest struct {
	Reason       string  `json:"reason"`
	Urgency      Urgency `json:"urgency,omitempty"`
	AssessmentID *int64  `json:"assessment_id,omitempty"`
}

// RequestActionBody is the body of accept/decline/complete/cancel calls.
type RequestActionBody struct {
	Note string `json:"note,omitempty"`
}

type CounselorRequestListResponse struct {
	Requests []CounselorRequest `json:"requests"`
	Total    int                `json:"total"`
}
