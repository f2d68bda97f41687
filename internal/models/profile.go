package models

import "time"

// Profile is the demographic intake a student completes after registering.
type Profile struct {
	UserID           int64     `json:"user_id"`
	Age              *int      `json:"age,omitempty"`
	Gender           string    `json:"gender,omitempty"`
	GradeLevel       string    `json:"grade_level,omitempty"`
	School           string    `json:"school,omitempty"`
	CounselorConsent bool      `json:"counselor_consent"`
	Onboarded        bool      `json:"onboarded"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type UpdateProfileRequest struct {
	Age              *int   `json:"age,omitempty"`
	Gender           string `json:"gender,omitempty"`
	GradeLevel       string `json:"grade_level,omitempty"`
	School           string `json:"school,omitempty"`
	CounselorConsent bool   `json:"counselor_consent"`
}

var ValidGradeLevels = map[string]bool{
	"grade_9":       true,
	"grade_10":      true,
	"grade_11":      true,
	"grade_12":      true,
	"undergraduate": true,
	"graduate":      true,
	"other":         true,
}

var ValidGenders = map[string]bool{
	"female":            true,
	"male":              true,
	"non_binary":        true,
	"prefer_not_to_say": true,
	"other":             true,
}
