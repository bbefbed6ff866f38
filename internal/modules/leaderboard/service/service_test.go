package service

import (
	"context"
	"testing"
	"time"

	"anoa.com/trackforge/internal/entity"
	leaderboardRepo "anoa.com/trackforge/internal/modules/leaderboard/repository"
	"anoa.com/trackforge/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func seedStats(t *testing.T, ctx context.Context, db *gorm.DB, userID uuid.UUID, points int) {
	t.Helper()
	if err := db.WithContext(ctx).Create(&entity.UserStats{UserID: userID, TotalPoints: points}).Error; err != nil {
		t.Fatalf("seed stats: %v", err)
	}
}

func seedEarned(t *testing.T, ctx context.Context, db *gorm.DB, userID uuid.UUID, achievementID uint, at time.Time) {
	t.Helper()
	row := &entity.UserAchievement{UserID: userID, AchievementID: achievementID, EarnedAt: at}
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		t.Fatalf("seed user achievement: %v", err)
	}
}

func TestGetLeaderboard(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, ctx, db, "alice")
	bob := testutil.SeedUser(t, ctx, db, "bob")
	carol := testutil.SeedUser(t, ctx, db, "carol")
	erin := testutil.SeedUser(t, ctx, db, "erin")
	dave := testutil.SeedUser(t, ctx, db, "dave")
	if err := db.Model(dave).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	seedStats(t, ctx, db, alice.ID, 40)
	seedStats(t, ctx, db, bob.ID, 40)
	seedStats(t, ctx, db, carol.ID, 200)
	seedStats(t, ctx, db, dave.ID, 1000)

	recent := testutil.SeedAchievement(t, ctx, db, "recent", entity.MetricTotalSongs, 1, 60)
	old := testutil.SeedAchievement(t, ctx, db, "old", entity.MetricTotalPacks, 1, 140)
	now := time.Now().UTC()
	seedEarned(t, ctx, db, carol.ID, recent.ID, now.Add(-24*time.Hour))
	seedEarned(t, ctx, db, carol.ID, old.ID, now.AddDate(0, 0, -10))

	svc := NewLeaderboardService(leaderboardRepo.NewLeaderboardRepository(db), testutil.Logger(t)).(*leaderboardService)
	svc.now = func() time.Time { return now }

	resp, err := svc.GetLeaderboard(ctx, bob.ID, 2)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}

	if resp.TotalUsers != 4 {
		t.Fatalf("expected 4 active users, got %d", resp.TotalUsers)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.Entries))
	}
	if resp.Entries[0].Username != "carol" || resp.Entries[1].Username != "alice" {
		t.Fatalf("unexpected order: %s, %s", resp.Entries[0].Username, resp.Entries[1].Username)
	}
	if resp.Entries[0].GamificationStatus.WeeklyPoints != 60 {
		t.Fatalf("expected 60 weekly points for carol, got %d", resp.Entries[0].GamificationStatus.WeeklyPoints)
	}
	if resp.Entries[0].GamificationStatus.RankName != "Regular" {
		t.Fatalf("expected Regular rank for carol, got %q", resp.Entries[0].GamificationStatus.RankName)
	}

	if resp.Me == nil {
		t.Fatalf("expected requester entry")
	}
	if resp.Me.Username != "bob" || resp.Me.Position != 3 {
		t.Fatalf("expected bob at position 3, got %s at %d", resp.Me.Username, resp.Me.Position)
	}

	resp, err = svc.GetLeaderboard(ctx, erin.ID, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(resp.Entries) != 4 {
		t.Fatalf("expected every active user, got %d", len(resp.Entries))
	}
	if resp.Me == nil || resp.Me.Position != 4 || resp.Me.GamificationStatus.CurrentPoints != 0 {
		t.Fatalf("expected erin last with 0 points, got %+v", resp.Me)
	}
}

func TestGetLeaderboard_InactiveRequester(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	testutil.SeedUser(t, ctx, db, "alice")
	ghost := testutil.SeedUser(t, ctx, db, "ghost")
	if err := db.Model(ghost).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	svc := NewLeaderboardService(leaderboardRepo.NewLeaderboardRepository(db), testutil.Logger(t))
	resp, err := svc.GetLeaderboard(ctx, ghost.ID, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if resp.Me != nil {
		t.Fatalf("inactive user should not be ranked")
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(resp.Entries))
	}
}
