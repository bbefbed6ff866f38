package entity

import (
	"time"

	"github.com/google/uuid"
)

type Achievement struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Code        string  `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Icon        string  `gorm:"size:20" json:"icon"`
	Category    string  `gorm:"size:50;index" json:"category"`
	Rarity      string  `gorm:"size:20" json:"rarity"`
	Points      int     `gorm:"default:0;not null" json:"points"`
	MetricType  *string `gorm:"size:50;index" json:"metric_type,omitempty"` // nil: special, awarded by direct call
	TargetValue *int    `json:"target_value,omitempty"`
}

// UserAchievement is an awarded achievement. idx_user_achievement is the
// at-most-once guarantee for concurrent evaluations; never drop it.
type UserAchievement struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID   `gorm:"type:uuid;uniqueIndex:idx_user_achievement,priority:1;not null" json:"user_id"`
	AchievementID uint        `gorm:"uniqueIndex:idx_user_achievement,priority:2;not null" json:"achievement_id"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement"`
	EarnedAt      time.Time   `gorm:"index;not null" json:"earned_at"`
}

// UserStats is the denormalised per-user snapshot. Count fields are
// recomputed from source tables on every evaluation pass; TotalPoints is
// incremented inside the award transaction and repaired from
// user_achievements by the ledger sweep.
type UserStats struct {
	UserID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User                 User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TotalSongs           int       `gorm:"default:0" json:"total_songs"`
	ReleasedSongs        int       `gorm:"default:0" json:"released_songs"`
	WipSongs             int       `gorm:"default:0" json:"wip_songs"`
	FutureSongs          int       `gorm:"default:0" json:"future_songs"`
	TotalPacks           int       `gorm:"default:0" json:"total_packs"`
	TotalCollaborations  int       `gorm:"default:0" json:"total_collaborations"`
	TotalImports         int       `gorm:"default:0" json:"total_imports"`
	TotalFeatureRequests int       `gorm:"default:0" json:"total_feature_requests"`
	LoginStreak          int       `gorm:"default:0" json:"login_streak"`
	TotalPoints          int       `gorm:"default:0;index" json:"total_points"`
	LastUpdatedAt        time.Time `gorm:"autoUpdateTime" json:"last_updated_at"`
}
