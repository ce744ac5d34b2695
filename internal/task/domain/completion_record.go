package domain

import "time"

// CompletionRecord is the append-only log of one participant completing one
// task. At most one record per (task, user) is authoritative for reward
// aggregation; the usecase layer enforces this by checking the participant
// status before allowing completion.
type CompletionRecord struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	TaskID           string    `json:"task_id" gorm:"index:idx_completion_task_user;not null"`
	UserID           string    `json:"user_id" gorm:"index:idx_completion_task_user;not null"`
	CompletedAt      time.Time `json:"completed_at"`
	DifficultyRating *int      `json:"difficulty_rating,omitempty"`
	PenaltyApplied   bool      `json:"penalty_applied"`
	RewardEarned     int       `json:"reward_earned"`
	CreatedAt        time.Time `json:"created_at"`
}

// UserStats is the derived per-user aggregate recomputed from the full
// completion history. Recomputation is best-effort and never blocks the
// completion that triggered it.
type UserStats struct {
	UserID          string    `json:"user_id" gorm:"primaryKey"`
	TotalReward     int       `json:"total_reward"`
	CompletionCount int       `json:"completion_count"`
	CurrentStreak   int       `json:"current_streak"`
	UpdatedAt       time.Time `json:"updated_at"`
}
