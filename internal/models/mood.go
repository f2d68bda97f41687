package models

import "time"

type MoodEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Mood      int       `json:"mood"`
	Note      string    `json:"note,omitempty"`
	Tags      []string  `json:"tags"`
	EntryDate time.Time `json:"entry_date"`
	CreatedAt time.Time `json:"created_at"`
}

type MoodTrend string

const (
	TrendImproving MoodTrend = "improving"
	TrendDeclining MoodTrend = "declining"
	TrendSteady    MoodTrend = "steady"
)

type LogMoodRequest struct {
	Mood int      `json:"mood"`
	Note string   `json:"note,omitempty"`
	Tags []string `json:"tags,omitempty"`
}

type MoodHistoryResponse struct {
	Entries []MoodEntry `json:"entries"`
	Average float64     `json:"average"`
	Trend   MoodTrend   `json:"trend"`
	Days    int         `json:"days"`
}

type LogMoodResponse struct {
	Entry                MoodEntry `json:"entry"`
	PointsAwarded        int       `json:"points_awarded"`
	AchievementsUnlocked []string  `json:"achievements_unlocked,omitempty"`
}

type JournalEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateJournalRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type JournalListResponse struct {
	Entries  []JournalEntry `json:"entries"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Query    string         `json:"query,omitempty"`
}

type CreateJournalResponse struct {
	Entry                JournalEntry `json:"entry"`
	Filtered             bool         `json:"filtered"`
	PointsAwarded        int          `json:"points_awarded"`
	AchievementsUnlocked []string     `json:"achievements_unlocked,omitempty"`
}
