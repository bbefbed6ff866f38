package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email    string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	// Nil means the column default (active). A plain bool would turn an
	// explicit false into the default on insert.
	IsActive    *bool     `gorm:"default:true;not null;index" json:"is_active"`
	LoginStreak int       `gorm:"default:0" json:"login_streak"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	Profile     *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Profile struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	DisplayName   string    `gorm:"size:100" json:"display_name"`
	ProfilePicURL *string   `gorm:"type:text" json:"profile_pic_url,omitempty"`
	PersonalLink  *string   `gorm:"type:text" json:"personal_link,omitempty"`
	ContactMethod *string   `gorm:"size:100" json:"contact_method,omitempty"`
	Bio           *string   `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}
