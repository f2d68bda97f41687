package mood

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/campuswell/backend/internal/models"
	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Mood ────────────────────────────────────────────────

// UpsertMood writes the entry for day, replacing any earlier entry that day.
// inserted is false when an existing entry was updated.
func (s *Store) UpsertMood(userID int64, req models.LogMoodRequest, day time.Time) (*models.MoodEntry, bool, error) {
	var e models.MoodEntry
	var note sql.NullString
	var inserted bool
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	err := s.db.QueryRow(
		`INSERT INTO mood_entries (user_id, mood, note, tags, entry_date)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		 ON CONFLICT (user_id, entry_date) DO UPDATE SET
		    mood = EXCLUDED.mood, note = EXCLUDED.note, tags = EXCLUDED.tags
		 RETURNING id, user_id, mood, note, tags, entry_date, created_at, (xmax = 0)`,
		userID, req.Mood, req.Note, pq.Array(tags), day,
	).Scan(&e.ID, &e.UserID, &e.Mood, &note, pq.Array(&e.Tags), &e.EntryDate, &e.CreatedAt, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("upsert mood: %w", err)
	}
	e.Note = note.String
	return &e, inserted, nil
}

// ListMood returns entries on or after since, oldest first.
func (s *Store) ListMood(userID int64, since time.Time) ([]models.MoodEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, mood, note, tags, entry_date, created_at
		 FROM mood_entries
		 WHERE user_id = $1 AND entry_date >= $2
		 ORDER BY entry_date ASC`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("list mood: %w", err)
	}
	defer rows.Close()

	out := []models.MoodEntry{}
	for rows.Next() {
		var e models.MoodEntry
		var note sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Mood, &note, pq.Array(&e.Tags), &e.EntryDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mood: %w", err)
		}
		e.Note = note.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// ── Journal ─────────────────────────────────────────────

func (s *Store) CreateJournal(e *models.JournalEntry) error {
	err := s.db.QueryRow(
		`INSERT INTO journal_entries (user_id, title, body)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		e.UserID, e.Title, e.Body,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// ListJournal returns a page of entries, newest first. A non-empty query
// keeps entries whose title or body contains it, ignoring case.
func (s *Store) ListJournal(userID int64, query string, limit, offset int) ([]models.JournalEntry, int, error) {
	where := "user_id = $1"
	args := []interface{}{userID}
	if query != "" {
		where += " AND (title ILIKE $2 OR body ILIKE $2)"
		args = append(args, "%"+escapeLike(query)+"%")
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM journal_entries WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count journal: %w", err)
	}

	n := len(args)
	args = append(args, limit, offset)
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT id, user_id, title, body, created_at
		 FROM journal_entries WHERE %s
		 ORDER BY created_at DESC, id DESC
		 LIMIT $%d OFFSET $%d`, where, n+1, n+2),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()

	out := []models.JournalEntry{}
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Body, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan journal: %w", err)
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (s *Store) DeleteJournal(userID, id int64) error {
	res, err := s.db.Exec(`DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
