package gamification

import (
	"time"

	"github.com/campuswell/backend/internal/models"
)

// AdvanceStreak moves the streak forward for activity on day today (UTC).
// A second activity on the same day changes nothing. Missing exactly one day
// consumes a streak freeze if one is owned; any longer gap resets to 1.
// It reports whether the state changed.
func AdvanceStreak(gam *models.UserGamification, today time.Time) bool {
	today = today.UTC().Truncate(24 * time.Hour)

	if gam.LastActiveDate != nil {
		lastActive := gam.LastActiveDate.UTC().Truncate(24 * time.Hour)
		if !today.After(lastActive) {
			return false
		}

		daysSinceLast := int(today.Sub(lastActive).Hours() / 24)
		switch {
		case daysSinceLast == 1:
			gam.CurrentStreak++
		case daysSinceLast == 2 && gam.StreakFreezesOwned > 0:
			gam.CurrentStreak++
			gam.StreakFreezesOwned--
		default:
			gam.CurrentStreak = 1
		}
	} else {
		gam.CurrentStreak = 1
	}

	if gam.CurrentStreak > gam.LongestStreak {
		gam.LongestStreak = gam.CurrentStreak
	}
	gam.LastActiveDate = &today
	return true
}

// bumpCounter increments the lifetime counter an activity tracks.
func bumpCounter(gam *models.UserGamification, a models.Activity) {
	switch a {
	case models.ActivityAssessment:
		gam.AssessmentsTotal++
	case models.ActivityMood:
		gam.MoodEntriesTotal++
	case models.ActivityJournal:
		gam.JournalEntriesTotal++
	case models.ActivityCounselorRequest:
		gam.CounselorRequestsTotal++
	}
}
