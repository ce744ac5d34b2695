package domain

import "time"

// Project groups participants who commit to tasks together
type Project struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description,omitempty"`
	CreatorID   string    `json:"creator_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectParticipant is one user's membership in a project. Removal is soft:
// a removed participant keeps the row with RemovedAt set and stops receiving
// status rows for new tasks.
type ProjectParticipant struct {
	ProjectID string     `json:"project_id" gorm:"primaryKey"`
	UserID    string     `json:"user_id" gorm:"primaryKey"`
	RemovedAt *time.Time `json:"removed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Active reports whether the participant currently belongs to the project
func (p *ProjectParticipant) Active() bool {
	return p.RemovedAt == nil
}
