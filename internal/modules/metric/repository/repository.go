package repository

import (
	"context"

	"anoa.com/trackforge/internal/entity"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MetricRepository holds the read-only queries behind each metric. Every
// query is scoped to a single user.
type MetricRepository interface {
	FindUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	CountSongs(ctx context.Context, userID uuid.UUID, status string) (int64, error)
	CountWipCompletions(ctx context.Context, userID uuid.UUID) (int64, error)
	CountActivity(ctx context.Context, userID uuid.UUID, activityType string) (int64, error)
	CountPacks(ctx context.Context, userID uuid.UUID, releasedOnly bool) (int64, error)
	CountAlbumSeries(ctx context.Context, userID uuid.UUID) (int64, error)
	CountCollaborations(ctx context.Context, userID uuid.UUID, asOwner, asCollaborator bool) (int64, error)
	CountFeatureRequests(ctx context.Context, userID uuid.UUID) (int64, error)

	ListSongs(ctx context.Context, userID uuid.UUID, status string) ([]entity.Song, error)
	ListPacksWithSongs(ctx context.Context, userID uuid.UUID) ([]entity.Pack, error)
	ListProgress(ctx context.Context, songIDs []uuid.UUID) ([]entity.SongStepProgress, error)
}

type metricRepository struct {
	db *gorm.DB
}

func NewMetricRepository(db *gorm.DB) MetricRepository {
	return &metricRepository{db: db}
}

func (r *metricRepository) FindUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CountSongs counts the user's songs, optionally narrowed to one status.
func (r *metricRepository) CountSongs(ctx context.Context, userID uuid.UUID, status string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&entity.Song{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *metricRepository) CountWipCompletions(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ActivityLog{}).
		Where("user_id = ? AND activity_type = ?", userID, entity.ActivitySongStatusChange).
		Where(datatypes.JSONQuery("metadata").Equals(entity.ReasonWipCompletion, "reason")).
		Count(&count).Error
	return count, err
}

func (r *metricRepository) CountActivity(ctx context.Context, userID uuid.UUID, activityType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ActivityLog{}).
		Where("user_id = ? AND activity_type = ?", userID, activityType).
		Count(&count).Error
	return count, err
}

func (r *metricRepository) CountPacks(ctx context.Context, userID uuid.UUID, releasedOnly bool) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&entity.Pack{}).Where("user_id = ?", userID)
	if releasedOnly {
		q = q.Where("released_at IS NOT NULL")
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *metricRepository) CountAlbumSeries(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.AlbumSeries{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CountCollaborations counts rows where the user sits on either requested
// side of the relationship.
func (r *metricRepository) CountCollaborations(ctx context.Context, userID uuid.UUID, asOwner, asCollaborator bool) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&entity.Collaboration{})
	switch {
	case asOwner && asCollaborator:
		q = q.Where("owner_id = ? OR collaborator_id = ?", userID, userID)
	case asOwner:
		q = q.Where("owner_id = ?", userID)
	case asCollaborator:
		q = q.Where("collaborator_id = ?", userID)
	default:
		return 0, nil
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *metricRepository) CountFeatureRequests(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.FeatureRequest{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *metricRepository) ListSongs(ctx context.Context, userID uuid.UUID, status string) ([]entity.Song, error) {
	var songs []entity.Song
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at ASC").Find(&songs).Error
	return songs, err
}

func (r *metricRepository) ListPacksWithSongs(ctx context.Context, userID uuid.UUID) ([]entity.Pack, error) {
	var packs []entity.Pack
	err := r.db.WithContext(ctx).
		Preload("Songs").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&packs).Error
	return packs, err
}

func (r *metricRepository) ListProgress(ctx context.Context, songIDs []uuid.UUID) ([]entity.SongStepProgress, error) {
	var rows []entity.SongStepProgress
	if len(songIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Where("song_id IN ?", songIDs).Find(&rows).Error
	return rows, err
}
