package dto

import (
	commonDto "anoa.com/trackforge/pkg/dto"
	"github.com/google/uuid"
)

// LeaderboardEntry is a single user in the leaderboard. Position is 1-based.
type LeaderboardEntry struct {
	UserID             uuid.UUID                    `json:"user_id"`
	Username           string                       `json:"username"`
	Position           int                          `json:"position"`
	GamificationStatus commonDto.GamificationStatus `json:"gamification_status"`
}

type LeaderboardResponse struct {
	Entries    []LeaderboardEntry `json:"entries"`
	Me         *LeaderboardEntry  `json:"me,omitempty"`
	TotalUsers int                `json:"total_users"`
}

type LeaderboardQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}
