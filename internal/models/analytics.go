package models

import "time"

type RiskDistribution struct {
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
}

type CategoryStats struct {
	Category     string           `json:"category"`
	Average      float64          `json:"average"`
	Assessments  int              `json:"assessments"`
	Distribution RiskDistribution `json:"distribution"`
}

type OverviewResponse struct {
	SchoolCode         string          `json:"school_code"`
	Students           int             `json:"students"`
	Assessments        int             `json:"assessments"`
	Categories         []CategoryStats `json:"categories"`
	MoodAverage30d     float64         `json:"mood_average_30d"`
	MoodEntries30d     int             `json:"mood_entries_30d"`
	OpenRequests       int             `json:"open_requests"`
	UrgentOpenRequests int             `json:"urgent_open_requests"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// AtRiskStudent identifies the student by account and assessment only when
// they consented to counselor contact.
type AtRiskStudent struct {
	StudentID      *int64         `json:"student_id,omitempty"`
	DisplayName    string         `json:"display_name"`
	AssessmentID   *int64         `json:"assessment_id,omitempty"`
	CompletedAt    time.Time      `json:"completed_at"`
	HighCategories []string       `json:"high_categories"`
	Results        map[string]int `json:"results"`
}

type AtRiskResponse struct {
	Students []AtRiskStudent `json:"students"`
	Total    int             `json:"total"`
}

// LatestResult is one student's most recent assessment, as read for exports.
type LatestResult struct {
	StudentID    int64
	Username     string
	Name         string
	Consent      bool
	GradeLevel   string
	AssessmentID int64
	CompletedAt  time.Time
	Results      map[string]int
}
