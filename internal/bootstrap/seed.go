package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/trackforge/internal/entity"
	"anoa.com/trackforge/internal/modules/achievement/catalog"
	achievementRepo "anoa.com/trackforge/internal/modules/achievement/repository"
	"anoa.com/trackforge/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DemoUsername = "demo_charter"

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Profile{},
		&entity.Song{},
		&entity.Pack{},
		&entity.AlbumSeries{},
		&entity.Collaboration{},
		&entity.FeatureRequest{},
		&entity.ActivityLog{},
		&entity.WorkflowStep{},
		&entity.SongStepProgress{},
		&entity.Achievement{},
		&entity.UserAchievement{},
		&entity.UserStats{},
		&entity.Notification{},
	)
}

// SeedAchievements syncs the achievements table with the registry. Safe to
// run on every start.
func SeedAchievements(ctx context.Context, db *gorm.DB, registry *catalog.Registry) error {
	repo := achievementRepo.NewAchievementRepository(db)
	if err := repo.UpsertCatalog(ctx, registry.Entities()); err != nil {
		return fmt.Errorf("seed achievements: %w", err)
	}
	return nil
}

// SeedDemoUser creates a small charting history for local development. It
// does nothing when the demo user already exists.
func SeedDemoUser(ctx context.Context, db *gorm.DB, log *logger.Logger) (*entity.User, error) {
	var existing entity.User
	err := db.WithContext(ctx).Where("username = ?", DemoUsername).First(&existing).Error
	if err == nil {
		log.Info("demo user already exists, skipping seed", "user_id", existing.ID)
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &entity.User{
		ID:          uuid.New(),
		Username:    DemoUsername,
		Email:       DemoUsername + "@example.com",
		LoginStreak: 3,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile := &entity.Profile{
			UserID:       user.ID,
			DisplayName:  "Demo Charter",
			PersonalLink: stringPtr("https://example.com/demo"),
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		pack := &entity.Pack{ID: uuid.New(), UserID: user.ID, Name: "Starter Pack"}
		if err := tx.Create(pack).Error; err != nil {
			return err
		}

		songs := []entity.Song{
			{ID: uuid.New(), UserID: user.ID, PackID: &pack.ID, Title: "Hysteria", Artist: "Muse", Year: intPtr(2003), Status: entity.SongStatusReleased},
			{ID: uuid.New(), UserID: user.ID, PackID: &pack.ID, Title: "Airbag", Artist: "Radiohead", Year: intPtr(1997), Status: entity.SongStatusWip},
			{ID: uuid.New(), UserID: user.ID, Title: "Yellow", Artist: "Coldplay", Year: intPtr(2000), Status: entity.SongStatusFuture},
		}
		if err := tx.Create(&songs).Error; err != nil {
			return err
		}

		progress := []entity.SongStepProgress{
			{SongID: songs[0].ID, StepName: "demucs", IsCompleted: true},
			{SongID: songs[0].ID, StepName: "midi", IsCompleted: true},
			{SongID: songs[1].ID, StepName: "demucs", IsCompleted: true},
		}
		return tx.Create(&progress).Error
	})
	if err != nil {
		return nil, fmt.Errorf("seed demo user: %w", err)
	}

	log.Info("demo user seeded", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
