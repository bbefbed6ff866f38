package repository

import (
	"context"
	"time"

	"anoa.com/trackforge/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RankRow is one active user with their cached point total. Users without a
// stats row yet have zero points.
type RankRow struct {
	UserID      uuid.UUID
	Username    string
	TotalPoints int
}

type LeaderboardRepository interface {
	ListRanking(ctx context.Context) ([]RankRow, error)
	WeeklyPoints(ctx context.Context, userIDs []uuid.UUID, since time.Time) (map[uuid.UUID]int, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) ListRanking(ctx context.Context) ([]RankRow, error) {
	var rows []RankRow
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Select("users.id AS user_id, users.username, COALESCE(user_stats.total_points, 0) AS total_points").
		Joins("LEFT JOIN user_stats ON user_stats.user_id = users.id").
		Where("users.is_active = ?", true).
		Order("total_points DESC").
		Order("users.username ASC").
		Scan(&rows).Error
	return rows, err
}

// WeeklyPoints sums the points of achievements earned since the given time.
func (r *leaderboardRepository) WeeklyPoints(ctx context.Context, userIDs []uuid.UUID, since time.Time) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	type weeklyResult struct {
		UserID uuid.UUID
		Score  int
	}
	var results []weeklyResult
	err := r.db.WithContext(ctx).
		Model(&entity.UserAchievement{}).
		Select("user_achievements.user_id, SUM(achievements.points) AS score").
		Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
		Where("user_achievements.user_id IN ? AND user_achievements.earned_at >= ?", userIDs, since).
		Group("user_achievements.user_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		out[res.UserID] = res.Score
	}
	return out, nil
}
