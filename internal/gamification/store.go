package gamification

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/campuswell/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Core Gamification CRUD ──────────────────────────────

// execQuerier is satisfied by both *sql.DB and *sql.Tx.
type execQuerier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

const selectGamification = `SELECT user_id, total_points, current_streak, longest_streak, last_active_date,
        streak_freezes_owned, assessments_total, mood_entries_total,
        journal_entries_total, counselor_requests_total,
        created_at, updated_at
 FROM user_gamification WHERE user_id = $1`

func ensureGamification(q execQuerier, userID int64) error {
	_, err := q.Exec(
		`INSERT INTO user_gamification (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("upsert gamification: %w", err)
	}
	return nil
}

func scanGamification(row *sql.Row) (*models.UserGamification, error) {
	var g models.UserGamification
	err := row.Scan(&g.UserID, &g.TotalPoints, &g.CurrentStreak, &g.LongestStreak, &g.LastActiveDate,
		&g.StreakFreezesOwned, &g.AssessmentsTotal, &g.MoodEntriesTotal,
		&g.JournalEntriesTotal, &g.CounselorRequestsTotal,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get gamification: %w", err)
	}
	return &g, nil
}

func (s *Store) GetOrCreateGamification(userID int64) (*models.UserGamification, error) {
	if err := ensureGamification(s.db, userID); err != nil {
		return nil, err
	}
	return scanGamification(s.db.QueryRow(selectGamification, userID))
}

// ModifyGamification applies fn to the user's row under a row lock and
// writes it back in the same transaction, so concurrent activities for one
// user are serialized.
func (s *Store) ModifyGamification(userID int64, fn func(g *models.UserGamification)) (*models.UserGamification, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin gamification tx: %w", err)
	}
	defer tx.Rollback()

	if err := ensureGamification(tx, userID); err != nil {
		return nil, err
	}
	g, err := scanGamification(tx.QueryRow(selectGamification+` FOR UPDATE`, userID))
	if err != nil {
		return nil, err
	}

	fn(g)

	_, err = tx.Exec(
		`UPDATE user_gamification SET
		    total_points = $2,
		    current_streak = $3, longest_streak = $4, last_active_date = $5,
		    streak_freezes_owned = $6,
		    assessments_total = $7, mood_entries_total = $8,
		    journal_entries_total = $9, counselor_requests_total = $10,
		    updated_at = NOW()
		 WHERE user_id = $1`,
		userID, g.TotalPoints,
		g.CurrentStreak, g.LongestStreak, g.LastActiveDate,
		g.StreakFreezesOwned,
		g.AssessmentsTotal, g.MoodEntriesTotal,
		g.JournalEntriesTotal, g.CounselorRequestsTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("update gamification: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit gamification: %w", err)
	}
	return g, nil
}

// ── Point Events ────────────────────────────────────────

func (s *Store) LogPointEvent(userID int64, eventType string, points int, metadata map[string]interface{}) error {
	var metaJSON *string
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err == nil {
			s := string(b)
			metaJSON = &s
		}
	}
	_, err := s.db.Exec(
		`INSERT INTO point_events (user_id, event_type, points, metadata)
		 VALUES ($1, $2, $3, $4)`,
		userID, eventType, points, metaJSON,
	)
	return err
}

// ── Achievements ────────────────────────────────────────

func (s *Store) GetUserAchievements(userID int64) ([]models.Achievement, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, achievement, earned_at FROM achievements
		 WHERE user_id = $1 ORDER BY earned_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get achievements: %w", err)
	}
	defer rows.Close()

	var out []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Achievement, &a.EarnedAt); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AwardAchievement records a badge. It reports false when the badge was
// already held.
func (s *Store) AwardAchievement(userID int64, key string) (bool, error) {
	res, err := s.db.Exec(
		`INSERT INTO achievements (user_id, achievement) VALUES ($1, $2)
		 ON CONFLICT (user_id, achievement) DO NOTHING`,
		userID, key,
	)
	if err != nil {
		return false, fmt.Errorf("award achievement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
