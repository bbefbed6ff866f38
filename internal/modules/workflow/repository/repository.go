package repository

import (
	"context"

	"anoa.com/trackforge/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkflowRepository interface {
	ListSteps(ctx context.Context, userID uuid.UUID) ([]entity.WorkflowStep, error)
	ReplaceSteps(ctx context.Context, userID uuid.UUID, steps []entity.WorkflowStep) error
	DeleteSteps(ctx context.Context, userID uuid.UUID) error

	FindSong(ctx context.Context, songID uuid.UUID) (*entity.Song, error)
	FindPack(ctx context.Context, packID uuid.UUID) (*entity.Pack, error)

	ListProgress(ctx context.Context, songIDs []uuid.UUID) ([]entity.SongStepProgress, error)
	UpsertProgress(ctx context.Context, progress *entity.SongStepProgress, columns ...string) error
}

type workflowRepository struct {
	db *gorm.DB
}

func NewWorkflowRepository(db *gorm.DB) WorkflowRepository {
	return &workflowRepository{db: db}
}

func (r *workflowRepository) ListSteps(ctx context.Context, userID uuid.UUID) ([]entity.WorkflowStep, error) {
	var steps []entity.WorkflowStep
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_index ASC").
		Find(&steps).Error
	return steps, err
}

func (r *workflowRepository) ReplaceSteps(ctx context.Context, userID uuid.UUID, steps []entity.WorkflowStep) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&entity.WorkflowStep{}).Error; err != nil {
			return err
		}
		if len(steps) == 0 {
			return nil
		}
		for i := range steps {
			steps[i].ID = 0
			steps[i].UserID = userID
		}
		return tx.Create(&steps).Error
	})
}

func (r *workflowRepository) DeleteSteps(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.WorkflowStep{}).Error
}

func (r *workflowRepository) FindSong(ctx context.Context, songID uuid.UUID) (*entity.Song, error) {
	var song entity.Song
	if err := r.db.WithContext(ctx).Where("id = ?", songID).First(&song).Error; err != nil {
		return nil, err
	}
	return &song, nil
}

func (r *workflowRepository) FindPack(ctx context.Context, packID uuid.UUID) (*entity.Pack, error) {
	var pack entity.Pack
	err := r.db.WithContext(ctx).
		Preload("Songs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", packID).
		First(&pack).Error
	if err != nil {
		return nil, err
	}
	return &pack, nil
}

func (r *workflowRepository) ListProgress(ctx context.Context, songIDs []uuid.UUID) ([]entity.SongStepProgress, error) {
	var rows []entity.SongStepProgress
	if len(songIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Where("song_id IN ?", songIDs).Find(&rows).Error
	return rows, err
}

// UpsertProgress inserts the (song, step) row or updates only the given
// columns of the existing one.
func (r *workflowRepository) UpsertProgress(ctx context.Context, progress *entity.SongStepProgress, columns ...string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "song_id"}, {Name: "step_name"}},
		DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
	}).Create(progress).Error
}
