package gamification

import "github.com/campuswell/backend/internal/models"

// AchievementDef defines a single badge and the counter that unlocks it.
type AchievementDef struct {
	Key         string
	Name        string
	Description string
	Target      int
	progress    func(*models.UserGamification) int
}

func assessments(g *models.UserGamification) int { return g.AssessmentsTotal }
func moods(g *models.UserGamification) int       { return g.MoodEntriesTotal }
func journals(g *models.UserGamification) int    { return g.JournalEntriesTotal }
func streak(g *models.UserGamification) int      { return g.LongestStreak }
func requests(g *models.UserGamification) int    { return g.CounselorRequestsTotal }

// Achievements lists every badge in display order.
var Achievements = []AchievementDef{
	{Key: "first_assessment", Name: "First Check-In", Description: "Complete your first assessment", Target: 1, progress: assessments},
	{Key: "assessments_5", Name: "Self-Aware", Description: "Complete 5 assessments", Target: 5, progress: assessments},
	{Key: "assessments_10", Name: "Reflective", Description: "Complete 10 assessments", Target: 10, progress: assessments},
	{Key: "mood_7", Name: "Mood Tracker", Description: "Log your mood on 7 days", Target: 7, progress: moods},
	{Key: "mood_30", Name: "Mood Master", Description: "Log your mood on 30 days", Target: 30, progress: moods},
	{Key: "journal_1", Name: "Dear Diary", Description: "Write your first journal entry", Target: 1, progress: journals},
	{Key: "journal_10", Name: "Storyteller", Description: "Write 10 journal entries", Target: 10, progress: journals},
	{Key: "journal_50", Name: "Author", Description: "Write 50 journal entries", Target: 50, progress: journals},
	{Key: "streak_3", Name: "Getting Started", Description: "3-day streak", Target: 3, progress: streak},
	{Key: "streak_7", Name: "Week Warrior", Description: "7-day streak", Target: 7, progress: streak},
	{Key: "streak_30", Name: "Monthly Master", Description: "30-day streak", Target: 30, progress: streak},
	{Key: "reached_out", Name: "Reached Out", Description: "Request to talk with a counselor", Target: 1, progress: requests},
}

var achievementsByKey = func() map[string]AchievementDef {
	m := make(map[string]AchievementDef, len(Achievements))
	for _, a := range Achievements {
		m[a.Key] = a
	}
	return m
}()

// LookupAchievement returns the definition for key.
func LookupAchievement(key string) (AchievementDef, bool) {
	a, ok := achievementsByKey[key]
	return a, ok
}

// CheckAchievements returns every badge key the state qualifies for. The
// caller filters out badges already earned.
func CheckAchievements(gam *models.UserGamification) []string {
	var earned []string
	for _, a := range Achievements {
		if a.progress(gam) >= a.Target {
			earned = append(earned, a.Key)
		}
	}
	return earned
}

// LockedAchievements returns the badges not in earned with progress capped at
// the target.
func LockedAchievements(gam *models.UserGamification, earned map[string]bool) []models.LockedBadge {
	locked := []models.LockedBadge{}
	for _, a := range Achievements {
		if earned[a.Key] {
			continue
		}
		p := a.progress(gam)
		if p > a.Target {
			p = a.Target
		}
		locked = append(locked, models.LockedBadge{
			Key:         a.Key,
			Name:        a.Name,
			Description: a.Description,
			Progress:    p,
			Target:      a.Target,
		})
	}
	return locked
}
