package bootstrap

import (
	"context"
	"testing"

	"anoa.com/trackforge/internal/entity"
	"anoa.com/trackforge/internal/modules/achievement/catalog"
	"anoa.com/trackforge/internal/testutil"
)

func TestSeedAchievements_Idempotent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	registry := catalog.Default()
	for i := 0; i < 2; i++ {
		if err := SeedAchievements(ctx, db, registry); err != nil {
			t.Fatalf("SeedAchievements: %v", err)
		}
	}

	var count int64
	if err := db.Model(&entity.Achievement{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if int(count) != len(registry.All()) {
		t.Fatalf("expected %d achievements, got %d", len(registry.All()), count)
	}
}

func TestSeedDemoUser_Idempotent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	first, err := SeedDemoUser(ctx, db, log)
	if err != nil {
		t.Fatalf("SeedDemoUser: %v", err)
	}
	second, err := SeedDemoUser(ctx, db, log)
	if err != nil {
		t.Fatalf("SeedDemoUser again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the existing demo user to be returned")
	}

	var songs int64
	if err := db.Model(&entity.Song{}).Where("user_id = ?", first.ID).Count(&songs).Error; err != nil {
		t.Fatalf("count songs: %v", err)
	}
	if songs != 3 {
		t.Fatalf("expected 3 demo songs, got %d", songs)
	}
}
