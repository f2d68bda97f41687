package mood

import "github.com/campuswell/backend/internal/models"

const trendThreshold = 0.25

// Average returns the mean mood, or 0 for no entries.
func Average(entries []models.MoodEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Mood
	}
	return float64(sum) / float64(len(entries))
}

// Trend compares the average of the older half of entries (oldest first)
// with the newer half. With an odd count the middle entry is left out.
// Fewer than two entries is steady.
func Trend(entries []models.MoodEntry) models.MoodTrend {
	n := len(entries)
	if n < 2 {
		return models.TrendSteady
	}
	half := n / 2
	older := Average(entries[:half])
	newer := Average(entries[n-half:])
	switch diff := newer - older; {
	case diff >= trendThreshold:
		return models.TrendImproving
	case diff <= -trendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendSteady
	}
}
