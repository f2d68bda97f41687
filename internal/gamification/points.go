package gamification

import (
	"math"

	"github.com/campuswell/backend/internal/models"
)

// Points per activity before the streak multiplier.
var activityPoints = map[models.Activity]int{
	models.ActivityAssessment:       20,
	models.ActivityMood:             5,
	models.ActivityJournal:          10,
	models.ActivityCounselorRequest: 0,
}

// BasePoints returns the unmultiplied points for an activity.
func BasePoints(a models.Activity) int {
	return activityPoints[a]
}

// StreakMultiplier returns the points multiplier for a daily streak.
func StreakMultiplier(currentStreak int) float64 {
	if currentStreak < 3 {
		return 1.0
	}
	if currentStreak < 7 {
		return 1.1
	}
	if currentStreak < 30 {
		return 1.25
	}
	return 1.5
}

// ApplyStreakMultiplier rounds the multiplied points to the nearest integer.
func ApplyStreakMultiplier(points int, multiplier float64) int {
	return int(math.Round(float64(points) * multiplier))
}

// ActivityPoints is BasePoints scaled by the streak multiplier.
func ActivityPoints(a models.Activity, currentStreak int) int {
	return ApplyStreakMultiplier(BasePoints(a), StreakMultiplier(currentStreak))
}
