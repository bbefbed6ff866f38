package entity

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowStep is one row of a user's customised authoring workflow.
type WorkflowStep struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_workflow_user_step,priority:1;not null" json:"user_id"`
	StepName    string    `gorm:"size:50;uniqueIndex:idx_workflow_user_step,priority:2;not null" json:"step_name"`
	DisplayName string    `gorm:"size:100;not null" json:"display_name"`
	OrderIndex  int       `gorm:"not null" json:"order_index"`
	IsEnabled   bool      `gorm:"not null" json:"is_enabled"`
}

type SongStepProgress struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SongID       uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_song_step,priority:1;not null" json:"song_id"`
	StepName     string     `gorm:"size:50;uniqueIndex:idx_song_step,priority:2;not null" json:"step_name"`
	IsCompleted  bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	IsIrrelevant bool       `gorm:"default:false" json:"is_irrelevant"` // excluded from numerator and denominator
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
