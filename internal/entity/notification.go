package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const NotificationTypeAchievement = "achievement"

type Notification struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Type                 string    `gorm:"type:varchar(50);not null" json:"type"`
	Title                string    `gorm:"type:varchar(255);not null" json:"title"`
	Message              string    `gorm:"type:text" json:"message"`
	RelatedAchievementID *uint     `json:"related_achievement_id,omitempty"`
	IsRead               bool      `gorm:"default:false" json:"is_read"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
