package mood

import (
	"log"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/campuswell/backend/internal/models"
)

const (
	defaultDays    = 30
	maxDays        = 365
	maxNoteLen     = 500
	maxTags        = 10
	maxTitleLen    = 200
	maxBodyLen     = 10000
	defaultPerPage = 20
)

type moodStore interface {
	UpsertMood(userID int64, req models.LogMoodRequest, day time.Time) (*models.MoodEntry, bool, error)
	ListMood(userID int64, since time.Time) ([]models.MoodEntry, error)
	CreateJournal(e *models.JournalEntry) error
	ListJournal(userID int64, query string, limit, offset int) ([]models.JournalEntry, int, error)
	DeleteJournal(userID, id int64) error
}

// ActivityRecorder receives mood and journal events for points and badges.
type ActivityRecorder interface {
	RecordActivity(userID int64, activity models.Activity) (*models.ActivityResult, error)
}

type Service struct {
	store    moodStore
	activity ActivityRecorder
	now      func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

// SetActivityRecorder injects the gamification service.
func (s *Service) SetActivityRecorder(r ActivityRecorder) {
	s.activity = r
}

func (s *Service) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

// ── Mood ────────────────────────────────────────────────

// LogMood records today's mood. Only the first entry of a day earns points;
// later entries that day replace it.
func (s *Service) LogMood(userID int64, req models.LogMoodRequest) (*models.LogMoodResponse, error) {
	if req.Mood < 1 || req.Mood > 5 {
		return nil, &ValidationError{Message: "mood must be between 1 and 5"}
	}
	req.Note = strings.TrimSpace(req.Note)
	if utf8.RuneCountInString(req.Note) > maxNoteLen {
		return nil, &ValidationError{Message: "note is too long"}
	}
	req.Note, _ = MaskProfanity(req.Note)
	req.Tags = normalizeTags(req.Tags)

	entry, inserted, err := s.store.UpsertMood(userID, req, s.today())
	if err != nil {
		return nil, err
	}

	resp := &models.LogMoodResponse{Entry: *entry}
	if inserted {
		s.record(userID, models.ActivityMood, &resp.PointsAwarded, &resp.AchievementsUnlocked)
	}
	return resp, nil
}

// History returns the last days of entries with their average and trend.
func (s *Service) History(userID int64, days int) (*models.MoodHistoryResponse, error) {
	if days < 1 {
		days = defaultDays
	}
	if days > maxDays {
		days = maxDays
	}
	since := s.today().AddDate(0, 0, -(days - 1))

	entries, err := s.store.ListMood(userID, since)
	if err != nil {
		return nil, err
	}
	return &models.MoodHistoryResponse{
		Entries: entries,
		Average: roundTo2(Average(entries)),
		Trend:   Trend(entries),
		Days:    days,
	}, nil
}

// ── Journal ─────────────────────────────────────────────

func (s *Service) CreateJournal(userID int64, req models.CreateJournalRequest) (*models.CreateJournalResponse, error) {
	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, &ValidationError{Message: "body is required"}
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, &ValidationError{Message: "title is too long"}
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return nil, &ValidationError{Message: "body is too long"}
	}
	if title == "" {
		title = s.now().UTC().Format("Jan 2, 2006")
	}

	title, maskedTitle := MaskProfanity(title)
	body, maskedBody := MaskProfanity(body)

	e := &models.JournalEntry{UserID: userID, Title: title, Body: body}
	if err := s.store.CreateJournal(e); err != nil {
		return nil, err
	}

	resp := &models.CreateJournalResponse{Entry: *e, Filtered: maskedTitle || maskedBody}
	s.record(userID, models.ActivityJournal, &resp.PointsAwarded, &resp.AchievementsUnlocked)
	return resp, nil
}

func (s *Service) ListJournal(userID int64, query string, page, pageSize int) (*models.JournalListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPerPage
	}
	query = strings.TrimSpace(query)

	entries, total, err := s.store.ListJournal(userID, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &models.JournalListResponse{
		Entries:  entries,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Query:    query,
	}, nil
}

func (s *Service) DeleteJournal(userID, id int64) error {
	return s.store.DeleteJournal(userID, id)
}

// ── Helpers ─────────────────────────────────────────────

func (s *Service) record(userID int64, a models.Activity, points *int, unlocked *[]string) {
	if s.activity == nil {
		return
	}
	res, err := s.activity.RecordActivity(userID, a)
	if err != nil {
		log.Printf("[mood] gamification failed for user %d: %v", userID, err)
		return
	}
	*points = res.PointsAwarded
	*unlocked = res.AchievementsUnlocked
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := []string{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] || len(t) > 30 {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) == maxTags {
			break
		}
	}
	return out
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
