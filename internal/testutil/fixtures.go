package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"anoa.com/trackforge/internal/entity"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *entity.User {
	tb.Helper()
	u := &entity.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, p *entity.Profile) *entity.Profile {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

// SongOpt tweaks a seeded song before insert.
type SongOpt func(*entity.Song)

func InPack(packID uuid.UUID) SongOpt {
	return func(s *entity.Song) { s.PackID = &packID }
}

func WithYear(year int) SongOpt {
	return func(s *entity.Song) { s.Year = &year }
}

func Optional() SongOpt {
	return func(s *entity.Song) { s.Optional = true }
}

func SeedSong(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, title, artist, status string, opts ...SongOpt) *entity.Song {
	tb.Helper()
	s := &entity.Song{
		ID:     uuid.New(),
		UserID: userID,
		Title:  title,
		Artist: artist,
		Status: status,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed song: %v", err)
	}
	return s
}

func SeedPack(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string, released bool) *entity.Pack {
	tb.Helper()
	p := &entity.Pack{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
	}
	if released {
		now := time.Now()
		p.ReleasedAt = &now
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed pack: %v", err)
	}
	return p
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, songID uuid.UUID, step string, completed, irrelevant bool) *entity.SongStepProgress {
	tb.Helper()
	row := &entity.SongStepProgress{
		SongID:       songID,
		StepName:     step,
		IsCompleted:  completed,
		IsIrrelevant: irrelevant,
	}
	if completed {
		now := time.Now()
		row.CompletedAt = &now
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return row
}

// CompleteSong marks every listed step complete for the song.
func CompleteSong(tb testing.TB, ctx context.Context, tx *gorm.DB, songID uuid.UUID, steps []string) {
	tb.Helper()
	for _, step := range steps {
		SeedProgress(tb, ctx, tx, songID, step, true, false)
	}
}

func SeedWorkflow(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, steps ...string) []entity.WorkflowStep {
	tb.Helper()
	rows := make([]entity.WorkflowStep, len(steps))
	for i, name := range steps {
		rows[i] = entity.WorkflowStep{
			UserID:      userID,
			StepName:    name,
			DisplayName: name,
			OrderIndex:  i,
			IsEnabled:   true,
		}
	}
	if len(rows) > 0 {
		if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
			tb.Fatalf("seed workflow: %v", err)
		}
	}
	return rows
}

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, activityType string, metadata map[string]any) *entity.ActivityLog {
	tb.Helper()
	raw, err := json.Marshal(metadata)
	if err != nil {
		tb.Fatalf("marshal activity metadata: %v", err)
	}
	row := &entity.ActivityLog{
		UserID:       userID,
		ActivityType: activityType,
		Metadata:     datatypes.JSON(raw),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return row
}

func SeedCollaboration(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID, collaboratorID uuid.UUID, collabType string) *entity.Collaboration {
	tb.Helper()
	c := &entity.Collaboration{
		OwnerID:           ownerID,
		CollaboratorID:    collaboratorID,
		CollaborationType: collabType,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed collaboration: %v", err)
	}
	return c
}

// SeedAchievement inserts a metric-bound achievement, or a special one when
// metric is empty.
func SeedAchievement(tb testing.TB, ctx context.Context, tx *gorm.DB, code string, metric entity.MetricType, target, points int) *entity.Achievement {
	tb.Helper()
	a := &entity.Achievement{
		Code:     code,
		Name:     code,
		Category: "test",
		Rarity:   "common",
		Points:   points,
	}
	if metric != "" {
		m := string(metric)
		a.MetricType = &m
		a.TargetValue = &target
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
	return a
}
