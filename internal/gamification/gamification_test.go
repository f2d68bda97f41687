package gamification

import (
	"sync"
	"testing"
	"time"

	"github.com/campuswell/backend/internal/models"
	"github.com/google/go-cmp/cmp"
)

func day(n int) time.Time {
	return time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestStreakMultiplier(t *testing.T) {
	tests := []struct {
		streak int
		want   float64
	}{
		{0, 1.0}, {2, 1.0}, {3, 1.1}, {6, 1.1}, {7, 1.25}, {29, 1.25}, {30, 1.5}, {365, 1.5},
	}
	for _, tt := range tests {
		if got := StreakMultiplier(tt.streak); got != tt.want {
			t.Errorf("StreakMultiplier(%d) = %v, want %v", tt.streak, got, tt.want)
		}
	}
}

func TestActivityPoints(t *testing.T) {
	tests := []struct {
		activity models.Activity
		streak   int
		want     int
	}{
		{models.ActivityAssessment, 1, 20},
		{models.ActivityAssessment, 7, 25},
		{models.ActivityMood, 3, 6},
		{models.ActivityMood, 30, 8},
		{models.ActivityJournal, 3, 11},
		{models.ActivityCounselorRequest, 30, 0},
		{models.Activity("unknown"), 1, 0},
	}
	for _, tt := range tests {
		if got := ActivityPoints(tt.activity, tt.streak); got != tt.want {
			t.Errorf("ActivityPoints(%s, %d) = %d, want %d", tt.activity, tt.streak, got, tt.want)
		}
	}
}

func TestAdvanceStreak(t *testing.T) {
	t.Run("first activity", func(t *testing.T) {
		g := &models.UserGamification{StreakFreezesOwned: 1}
		if !AdvanceStreak(g, day(0)) {
			t.Fatal("expected a change")
		}
		if g.CurrentStreak != 1 || g.LongestStreak != 1 {
			t.Errorf("got streak %d/%d, want 1/1", g.CurrentStreak, g.LongestStreak)
		}
	})

	t.Run("same day is a no-op", func(t *testing.T) {
		g := &models.UserGamification{StreakFreezesOwned: 1}
		AdvanceStreak(g, day(0))
		if AdvanceStreak(g, day(0).Add(3*time.Hour)) {
			t.Error("second activity on the same day should not change state")
		}
		if g.CurrentStreak != 1 {
			t.Errorf("CurrentStreak = %d, want 1", g.CurrentStreak)
		}
	})

	t.Run("consecutive days", func(t *testing.T) {
		g := &models.UserGamification{StreakFreezesOwned: 1}
		for i := 0; i < 5; i++ {
			AdvanceStreak(g, day(i))
		}
		if g.CurrentStreak != 5 || g.StreakFreezesOwned != 1 {
			t.Errorf("got streak %d freezes %d, want 5 and 1", g.CurrentStreak, g.StreakFreezesOwned)
		}
	})

	t.Run("one missed day uses the freeze", func(t *testing.T) {
		g := &models.UserGamification{StreakFreezesOwned: 1}
		AdvanceStreak(g, day(0))
		AdvanceStreak(g, day(1))
		AdvanceStreak(g, day(3))
		if g.CurrentStreak != 3 || g.StreakFreezesOwned != 0 {
			t.Errorf("got streak %d freezes %d, want 3 and 0", g.CurrentStreak, g.StreakFreezesOwned)
		}

		AdvanceStreak(g, day(5))
		if g.CurrentStreak != 1 {
			t.Errorf("second gap without a freeze: streak %d, want 1", g.CurrentStreak)
		}
		if g.LongestStreak != 3 {
			t.Errorf("LongestStreak = %d, want 3", g.LongestStreak)
		}
	})

	t.Run("long gap resets", func(t *testing.T) {
		g := &models.UserGamification{StreakFreezesOwned: 1}
		AdvanceStreak(g, day(0))
		AdvanceStreak(g, day(4))
		if g.CurrentStreak != 1 || g.StreakFreezesOwned != 1 {
			t.Errorf("got streak %d freezes %d, want 1 and 1", g.CurrentStreak, g.StreakFreezesOwned)
		}
	})
}

func TestCheckAchievements(t *testing.T) {
	tests := []struct {
		name string
		gam  models.UserGamification
		want []string
	}{
		{"nothing yet", models.UserGamification{}, nil},
		{
			"first assessment",
			models.UserGamification{AssessmentsTotal: 1, LongestStreak: 1},
			[]string{"first_assessment"},
		},
		{
			"mixed",
			models.UserGamification{AssessmentsTotal: 5, MoodEntriesTotal: 7, JournalEntriesTotal: 10, LongestStreak: 7, CounselorRequestsTotal: 1},
			[]string{"first_assessment", "assessments_5", "mood_7", "journal_1", "journal_10", "streak_3", "streak_7", "reached_out"},
		},
	}
	for _, tt := range tests {
		got := CheckAchievements(&tt.gam)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: CheckAchievements mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestLockedAchievements(t *testing.T) {
	g := &models.UserGamification{JournalEntriesTotal: 12}
	earned := map[string]bool{"journal_1": true, "journal_10": true}

	locked := LockedAchievements(g, earned)
	if len(locked) != len(Achievements)-2 {
		t.Fatalf("got %d locked, want %d", len(locked), len(Achievements)-2)
	}
	for _, b := range locked {
		if b.Key == "journal_50" && (b.Progress != 12 || b.Target != 50) {
			t.Errorf("journal_50 progress = %d/%d, want 12/50", b.Progress, b.Target)
		}
		if b.Progress > b.Target {
			t.Errorf("%s: progress %d exceeds target %d", b.Key, b.Progress, b.Target)
		}
	}
}

// ── Service with an in-memory store ─────────────────────

type memStore struct {
	mu     sync.Mutex
	gam    map[int64]*models.UserGamification
	badges map[int64][]models.Achievement
	events []string
}

func newMemStore() *memStore {
	return &memStore{gam: map[int64]*models.UserGamification{}, badges: map[int64][]models.Achievement{}}
}

func (m *memStore) row(userID int64) *models.UserGamification {
	g, ok := m.gam[userID]
	if !ok {
		g = &models.UserGamification{UserID: userID, StreakFreezesOwned: 1}
		m.gam[userID] = g
	}
	return g
}

func (m *memStore) GetOrCreateGamification(userID int64) (*models.UserGamification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.row(userID)
	return &cp, nil
}

func (m *memStore) ModifyGamification(userID int64, fn func(g *models.UserGamification)) (*models.UserGamification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.row(userID)
	fn(&cp)
	saved := cp
	m.gam[userID] = &saved
	return &cp, nil
}

func (m *memStore) LogPointEvent(userID int64, eventType string, points int, metadata map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, eventType)
	return nil
}

func (m *memStore) GetUserAchievements(userID int64) ([]models.Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.badges[userID], nil
}

func (m *memStore) AwardAchievement(userID int64, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.badges[userID] {
		if a.Achievement == key {
			return false, nil
		}
	}
	m.badges[userID] = append(m.badges[userID], models.Achievement{UserID: userID, Achievement: key})
	return true, nil
}

func TestRecordActivity(t *testing.T) {
	store := newMemStore()
	clock := day(0)
	s := &Service{store: store, now: func() time.Time { return clock }}

	res, err := s.RecordActivity(1, models.ActivityAssessment)
	if err != nil {
		t.Fatal(err)
	}
	if res.PointsAwarded != 20 || res.Streak != 1 {
		t.Errorf("first assessment: got %+v", res)
	}
	if diff := cmp.Diff([]string{"first_assessment"}, res.AchievementsUnlocked); diff != "" {
		t.Errorf("unlocked mismatch (-want +got):\n%s", diff)
	}

	res, err = s.RecordActivity(1, models.ActivityMood)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.AchievementsUnlocked) != 0 {
		t.Errorf("nothing new should unlock, got %v", res.AchievementsUnlocked)
	}

	clock = day(1)
	s.RecordActivity(1, models.ActivityMood)
	clock = day(2)
	res, _ = s.RecordActivity(1, models.ActivityJournal)
	if res.Streak != 3 || res.PointsAwarded != 11 {
		t.Errorf("day 3 journal: got %+v, want streak 3 and 11 points", res)
	}
	if diff := cmp.Diff([]string{"journal_1", "streak_3"}, res.AchievementsUnlocked); diff != "" {
		t.Errorf("unlocked mismatch (-want +got):\n%s", diff)
	}

	g := store.gam[1]
	if g.TotalPoints != 20+5+5+11 {
		t.Errorf("TotalPoints = %d, want 41", g.TotalPoints)
	}
	if g.MoodEntriesTotal != 2 || g.AssessmentsTotal != 1 || g.JournalEntriesTotal != 1 {
		t.Errorf("counters = %+v", g)
	}
	if len(store.events) != 4 {
		t.Errorf("logged %d point events, want 4", len(store.events))
	}
}

func TestRecordActivityConcurrent(t *testing.T) {
	store := newMemStore()
	s := &Service{store: store, now: func() time.Time { return day(0) }}

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.RecordActivity(1, models.ActivityMood); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	g := store.gam[1]
	if g.MoodEntriesTotal != n {
		t.Errorf("MoodEntriesTotal = %d, want %d", g.MoodEntriesTotal, n)
	}
	if g.TotalPoints != n*5 {
		t.Errorf("TotalPoints = %d, want %d", g.TotalPoints, n*5)
	}
}

func TestGetAchievements(t *testing.T) {
	store := newMemStore()
	clock := day(0)
	s := &Service{store: store, now: func() time.Time { return clock }}
	s.RecordActivity(9, models.ActivityJournal)

	resp, err := s.GetAchievements(9)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Earned) != 1 || resp.Earned[0].Key != "journal_1" {
		t.Errorf("earned = %+v", resp.Earned)
	}
	if len(resp.Locked) != len(Achievements)-1 {
		t.Errorf("got %d locked, want %d", len(resp.Locked), len(Achievements)-1)
	}
	if resp.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", resp.CurrentStreak)
	}

	clock = day(5)
	resp, _ = s.GetAchievements(9)
	if resp.CurrentStreak != 0 {
		t.Errorf("stale streak should display as 0, got %d", resp.CurrentStreak)
	}
}
