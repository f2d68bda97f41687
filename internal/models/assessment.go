package models

import (
	"time"

	"github.com/campuswell/backend/internal/scoring"
)

// Assessment is one stored attempt: raw answers, the categories the student
// chose, and the results map keyed "<category>_score".
type Assessment struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Categories  []string          `json:"categories"`
	Answers     scoring.Responses `json:"answers"`
	Results     scoring.Results   `json:"results"`
	CompletedAt time.Time         `json:"completed_at"`
}

// SubmitAssessmentRequest carries answers per category, each list in the
// order the questions were served.
type SubmitAssessmentRequest struct {
	Categories []string          `json:"categories"`
	Answers    scoring.Responses `json:"answers"`
}

// CategoryResult is a scored category ready for display.
type CategoryResult struct {
	Category      string            `json:"category"`
	Title         string            `json:"title,omitempty"`
	Percentage    int               `json:"percentage"`
	Level         scoring.RiskLevel `json:"level"`
	Color         string            `json:"color"`
	AnsweredCount *int              `json:"answered_count,omitempty"`
	Message       string            `json:"message,omitempty"`
}

type AssessmentResultResponse struct {
	AssessmentID         int64            `json:"assessment_id"`
	CompletedAt          time.Time        `json:"completed_at"`
	Categories           []string         `json:"categories"`
	Results              []CategoryResult `json:"results"`
	Summary              string           `json:"summary,omitempty"`
	PointsAwarded        int              `json:"points_awarded,omitempty"`
	AchievementsUnlocked []string         `json:"achievements_unlocked,omitempty"`
}

type AssessmentListResponse struct {
	Assessments []Assessment `json:"assessments"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
}

type QuestionBankCategory struct {
	Name      string   `json:"name"`
	Title     string   `json:"title"`
	Options   []string `json:"options"`
	Questions []string `json:"questions"`
	Offset    int      `json:"offset"`
}

type QuestionBankResponse struct {
	Categories []QuestionBankCategory `json:"categories"`
	Total      int                    `json:"total"`
}

type ProgressPoint struct {
	AssessmentID int64             `json:"assessment_id"`
	CompletedAt  time.Time         `json:"completed_at"`
	Percentage   int               `json:"percentage"`
	Level        scoring.RiskLevel `json:"level"`
}

type ProgressResponse struct {
	Category string          `json:"category"`
	Points   []ProgressPoint `json:"points"`
}
