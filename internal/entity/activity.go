package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity types written to the append-only log.
const (
	ActivitySongStatusChange = "song_status_change"
	ActivityPlaylistImport   = "playlist_import"
)

// ReasonWipCompletion marks an "In Progress" -> "Released" transition in
// ActivityLog.Metadata under the "reason" key.
const ReasonWipCompletion = "wip_completion"

type ActivityLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;index:idx_activity_user_type,priority:1;not null" json:"user_id"`
	ActivityType string         `gorm:"size:50;index:idx_activity_user_type,priority:2;not null" json:"activity_type"`
	Description  string         `gorm:"type:text" json:"description"`
	Metadata     datatypes.JSON `json:"metadata"` // {"reason": "...", "song_id": "...", "from": "...", "to": "..."}
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}
