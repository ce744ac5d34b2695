package usecase

import (
	"mutualtasks-backend/internal/task/domain"
)

// recomputeStats rebuilds a user's derived aggregate from the full
// completion history. The streak counts consecutive calendar days with at
// least one completion, ending today or yesterday.
func (u *taskUsecase) recomputeStats(userID string) (*domain.UserStats, error) {
	records, err := u.completionRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	stats := &domain.UserStats{UserID: userID}
	days := make(map[string]bool, len(records))
	for _, r := range records {
		stats.TotalReward += r.RewardEarned
		stats.CompletionCount++
		days[domain.StartOfDay(r.CompletedAt).Format("2006-01-02")] = true
	}

	day := domain.StartOfDay(u.now())
	if !days[day.Format("2006-01-02")] {
		// A streak survives until the end of the current day.
		day = day.AddDate(0, 0, -1)
	}
	for days[day.Format("2006-01-02")] {
		stats.CurrentStreak++
		day = day.AddDate(0, 0, -1)
	}

	if err := u.statsRepo.Upsert(stats); err != nil {
		return nil, err
	}
	return stats, nil
}
