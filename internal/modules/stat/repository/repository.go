package repository

import (
	"context"
	"time"

	"anoa.com/trackforge/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// countColumns are the snapshot fields owned by the refresh. total_points is
// owned by the award transaction and the ledger repair and is never written
// here.
var countColumns = []string{
	"total_songs", "released_songs", "wip_songs", "future_songs",
	"total_packs", "total_collaborations", "total_imports",
	"total_feature_requests", "login_streak", "last_updated_at",
}

type StatRepository interface {
	UpsertCounts(ctx context.Context, stats *entity.UserStats) error
	FindByUser(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error)
	CountActiveUsers(ctx context.Context) (int64, error)
}

type statRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStatRepository(db *gorm.DB) StatRepository {
	return &statRepository{db: db, now: time.Now}
}

func (r *statRepository) UpsertCounts(ctx context.Context, stats *entity.UserStats) error {
	stats.LastUpdatedAt = r.now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(countColumns),
	}).Omit("User").Create(stats).Error
}

// FindByUser returns gorm.ErrRecordNotFound when no snapshot exists yet.
func (r *statRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error) {
	var stats entity.UserStats
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *statRepository) CountActiveUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
