package gamification

import (
	"log"
	"time"

	"github.com/campuswell/backend/internal/models"
)

type gamificationStore interface {
	GetOrCreateGamification(userID int64) (*models.UserGamification, error)
	ModifyGamification(userID int64, fn func(g *models.UserGamification)) (*models.UserGamification, error)
	LogPointEvent(userID int64, eventType string, points int, metadata map[string]interface{}) error
	GetUserAchievements(userID int64) ([]models.Achievement, error)
	AwardAchievement(userID int64, key string) (bool, error)
}

type Service struct {
	store gamificationStore
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

// RecordActivity advances the streak, bumps the activity counter, awards
// points at the post-advance multiplier and unlocks any newly qualified
// badges.
func (s *Service) RecordActivity(userID int64, activity models.Activity) (*models.ActivityResult, error) {
	var points int
	var multiplier float64
	gam, err := s.store.ModifyGamification(userID, func(g *models.UserGamification) {
		AdvanceStreak(g, s.now())
		bumpCounter(g, activity)

		multiplier = StreakMultiplier(g.CurrentStreak)
		points = ApplyStreakMultiplier(BasePoints(activity), multiplier)
		g.TotalPoints += int64(points)
	})
	if err != nil {
		return nil, err
	}

	if points > 0 {
		if err := s.store.LogPointEvent(userID, string(activity), points, map[string]interface{}{
			"base":       BasePoints(activity),
			"multiplier": multiplier,
			"streak":     gam.CurrentStreak,
		}); err != nil {
			log.Printf("[gamification] failed to log point event for user %d: %v", userID, err)
		}
	}

	unlocked := []string{}
	for _, key := range CheckAchievements(gam) {
		ok, err := s.store.AwardAchievement(userID, key)
		if err != nil {
			log.Printf("[gamification] failed to award %s to user %d: %v", key, userID, err)
			continue
		}
		if ok {
			unlocked = append(unlocked, key)
		}
	}

	return &models.ActivityResult{
		PointsAwarded:        points,
		Streak:               gam.CurrentStreak,
		AchievementsUnlocked: unlocked,
	}, nil
}

// GetAchievements returns stats with earned and locked badges.
func (s *Service) GetAchievements(userID int64) (*models.AchievementsResponse, error) {
	gam, err := s.store.GetOrCreateGamification(userID)
	if err != nil {
		return nil, err
	}

	held, err := s.store.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}

	earnedSet := make(map[string]bool, len(held))
	earned := []models.EarnedBadge{}
	for _, a := range held {
		def, ok := LookupAchievement(a.Achievement)
		if !ok {
			continue
		}
		earnedSet[a.Achievement] = true
		earned = append(earned, models.EarnedBadge{
			Key:         def.Key,
			Name:        def.Name,
			Description: def.Description,
			EarnedAt:    a.EarnedAt,
		})
	}

	return &models.AchievementsResponse{
		TotalPoints:            gam.TotalPoints,
		CurrentStreak:          displayStreak(gam, s.now()),
		LongestStreak:          gam.LongestStreak,
		StreakFreezesOwned:     gam.StreakFreezesOwned,
		AssessmentsTotal:       gam.AssessmentsTotal,
		MoodEntriesTotal:       gam.MoodEntriesTotal,
		JournalEntriesTotal:    gam.JournalEntriesTotal,
		CounselorRequestsTotal: gam.CounselorRequestsTotal,
		Earned:                 earned,
		Locked:                 LockedAchievements(gam, earnedSet),
	}, nil
}

// displayStreak is the streak as it would stand if the user acted today:
// a gap a freeze cannot cover shows as broken.
func displayStreak(gam *models.UserGamification, now time.Time) int {
	if gam.LastActiveDate == nil {
		return 0
	}
	today := now.UTC().Truncate(24 * time.Hour)
	days := int(today.Sub(gam.LastActiveDate.UTC().Truncate(24*time.Hour)).Hours() / 24)
	if days <= 1 || (days == 2 && gam.StreakFreezesOwned > 0) {
		return gam.CurrentStreak
	}
	return 0
}
