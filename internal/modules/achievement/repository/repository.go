package repository

import (
	"context"
	"time"

	"anoa.com/trackforge/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository interface {
	// Award runs the award transaction for one (user, code) pair.
	Award(ctx context.Context, userID uuid.UUID, code string) (*AwardResult, error)

	HeldCodes(ctx context.Context, userID uuid.UUID) ([]string, error)
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]entity.UserAchievement, error)
	UpsertCatalog(ctx context.Context, achievements []entity.Achievement) error

	// RecalculatePoints rebuilds the cached total from awarded achievements
	// and returns the cached value it replaced along with the new one.
	RecalculatePoints(ctx context.Context, userID uuid.UUID) (previous, current int, err error)
	ListUserIDsWithAwards(ctx context.Context) ([]uuid.UUID, error)
}

type achievementRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db, now: time.Now}
}

func (r *achievementRepository) HeldCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&entity.UserAchievement{}).
		Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
		Where("user_achievements.user_id = ?", userID).
		Pluck("achievements.code", &codes).Error
	return codes, err
}

func (r *achievementRepository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *achievementRepository) ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]entity.UserAchievement, error) {
	var rows []entity.UserAchievement
	err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&rows).Error
	return rows, err
}

// UpsertCatalog inserts new definitions and refreshes existing ones by code.
// Rows whose code left the catalog are kept so held awards stay resolvable.
func (r *achievementRepository) UpsertCatalog(ctx context.Context, achievements []entity.Achievement) error {
	if len(achievements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "icon", "category", "rarity", "points", "metric_type", "target_value",
		}),
	}).Create(&achievements).Error
}

// RecalculatePoints locks the user's stats row and sets total_points from a
// sum taken inside the UPDATE, so an award committing mid-repair is either
// blocked by the lock or counted by the sum.
func (r *achievementRepository) RecalculatePoints(ctx context.Context, userID uuid.UUID) (int, int, error) {
	var previous, current int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Omit("User").
			Create(&entity.UserStats{UserID: userID}).Error
		if err != nil {
			return err
		}

		var stats entity.UserStats
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&stats).Error
		if err != nil {
			return err
		}
		previous = stats.TotalPoints

		sum := tx.Model(&entity.UserAchievement{}).
			Select("COALESCE(SUM(achievements.points), 0)").
			Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
			Where("user_achievements.user_id = ?", userID)
		err = tx.Model(&entity.UserStats{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"total_points":    gorm.Expr("(?)", sum),
				"last_updated_at": r.now(),
			}).Error
		if err != nil {
			return err
		}

		return tx.Model(&entity.UserStats{}).
			Where("user_id = ?", userID).
			Select("total_points").
			Scan(&current).Error
	})
	return previous, current, err
}

func (r *achievementRepository) ListUserIDsWithAwards(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entity.UserAchievement{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}
