package models

import "time"

// ── Core Gamification Structs ─────────────────────────────

type UserGamification struct {
	UserID                 int64      `json:"user_id"`
	TotalPoints            int64      `json:"total_points"`
	CurrentStreak          int        `json:"current_streak"`
	LongestStreak          int        `json:"longest_streak"`
	LastActiveDate         *time.Time `json:"last_active_date"`
	StreakFreezesOwned     int        `json:"streak_freezes_owned"`
	AssessmentsTotal       int        `json:"assessments_total"`
	MoodEntriesTotal       int        `json:"mood_entries_total"`
	JournalEntriesTotal    int        `json:"journal_entries_total"`
	CounselorRequestsTotal int        `json:"counselor_requests_total"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

type PointEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EventType string    `json:"event_type"`
	Points    int       `json:"points"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Achievement struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Achievement string    `json:"achievement"`
	EarnedAt    time.Time `json:"earned_at"`
}

// Activity is an action that earns points and moves counters.
type Activity string

const (
	ActivityAssessment       Activity = "assessment_completed"
	ActivityMood             Activity = "mood_logged"
	ActivityJournal          Activity = "journal_written"
	ActivityCounselorRequest Activity = "counselor_requested"
)

// ── Response Types ────────────────────────────────────────

type ActivityResult struct {
	PointsAwarded        int      `json:"points_awarded"`
	Streak               int      `json:"streak"`
	AchievementsUnlocked []string `json:"achievements_unlocked"`
}

type EarnedBadge struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earned_at"`
}

type LockedBadge struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
}

type AchievementsResponse struct {
	TotalPoints            int64         `json:"total_points"`
	CurrentStreak          int           `json:"current_streak"`
	LongestStreak          int           `json:"longest_streak"`
	StreakFreezesOwned     int           `json:"streak_freezes_owned"`
	AssessmentsTotal       int           `json:"assessments_total"`
	MoodEntriesTotal       int           `json:"mood_entries_total"`
	JournalEntriesTotal    int           `json:"journal_entries_total"`
	CounselorRequestsTotal int           `json:"counselor_requests_total"`
	Earned                 []EarnedBadge `json:"earned"`
	Locked                 []LockedBadge `json:"locked"`
}
