package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"anoa.com/trackforge/internal/entity"
	"anoa.com/trackforge/internal/modules/achievement/catalog"
	"anoa.com/trackforge/internal/modules/achievement/mock"
	achievementRepo "anoa.com/trackforge/internal/modules/achievement/repository"
	metricRepo "anoa.com/trackforge/internal/modules/metric/repository"
	metricService "anoa.com/trackforge/internal/modules/metric/service"
	workflowRepo "anoa.com/trackforge/internal/modules/workflow/repository"
	workflowService "anoa.com/trackforge/internal/modules/workflow/service"
	"anoa.com/trackforge/internal/testutil"
	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func target(v int) *int { return &v }

func tiered() []catalog.Definition {
	return []catalog.Definition{
		{Code: "songs_10", Name: "Ten", Points: 10, Metric: entity.MetricTotalSongs, Target: target(10)},
		{Code: "songs_50", Name: "Fifty", Points: 25, Metric: entity.MetricTotalSongs, Target: target(50)},
		{Code: "songs_100", Name: "Hundred", Points: 50, Metric: entity.MetricTotalSongs, Target: target(100)},
		{Code: "imports_1", Name: "Importer", Points: 5, Metric: entity.MetricPlaylistImports, Target: target(1)},
		{Code: "alphabet_26", Name: "A to Z", Points: 100, Metric: entity.MetricAlphabetCoverage, Target: target(26)},
		{Code: catalog.CodeWelcome, Name: "Welcome", Family: entity.FamilyEngagement},
		{Code: catalog.CodeProfileComplete, Name: "All About Me", Points: 20, Family: entity.FamilyProfile},
		{Code: catalog.CodeWorkflowCustomizer, Name: "My Way", Points: 15, Family: entity.FamilyWorkflow},
	}
}

type fixture struct {
	db   *gorm.DB
	repo achievementRepo.AchievementRepository
	svc  AchievementService
	ctx  context.Context
}

func newFixture(t *testing.T, defs []catalog.Definition, notifier Notifier) *fixture {
	t.Helper()
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	registry := catalog.MustNew(defs)
	repo := achievementRepo.NewAchievementRepository(db)
	if err := repo.UpsertCatalog(ctx, registry.Entities()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	resolver := workflowService.NewResolver(workflowRepo.NewWorkflowRepository(db))
	aggregator := metricService.NewAggregator(metricRepo.NewMetricRepository(db), resolver, log)
	svc := NewAchievementService(repo, registry, aggregator, resolver, nil, notifier,
		Options{MetricConcurrency: 4, MetricTimeout: 5 * time.Second}, log)
	return &fixture{db: db, repo: repo, svc: svc, ctx: ctx}
}

func (f *fixture) seedSongs(t *testing.T, userID uuid.UUID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		testutil.SeedSong(t, f.ctx, f.db, userID, fmt.Sprintf("Song %d", i), "Artist", entity.SongStatusWip)
	}
}

func (f *fixture) points(t *testing.T, userID uuid.UUID) int {
	t.Helper()
	var stats entity.UserStats
	if err := f.db.Where("user_id = ?", userID).Limit(1).Find(&stats).Error; err != nil {
		t.Fatalf("load stats: %v", err)
	}
	return stats.TotalPoints
}

func TestEvaluateFamily_AwardsEveryTierAtOrBelowValue(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	user := testutil.SeedUser(t, f.ctx, f.db, "alice")
	f.seedSongs(t, user.ID, 60)

	got, err := f.svc.EvaluateFamily(f.ctx, user.ID, entity.FamilySongs)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if strings.Join(got, ",") != "songs_10,songs_50" {
		t.Fatalf("expected songs_10 and songs_50, got %v", got)
	}
	if p := f.points(t, user.ID); p != 35 {
		t.Fatalf("expected 35 points, got %d", p)
	}
}

func TestEvaluateAll_IsIdempotent(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	user := testutil.SeedUser(t, f.ctx, f.db, "alice")
	f.seedSongs(t, user.ID, 12)

	first, err := f.svc.EvaluateAll(f.ctx, user.ID)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if strings.Join(first, ",") != "songs_10,welcome" {
		t.Fatalf("unexpected first pass: %v", first)
	}

	second, err := f.svc.EvaluateAll(f.ctx, user.ID)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("second pass must award nothing, got %v", second)
	}
	if p := f.points(t, user.ID); p != 10 {
		t.Fatalf("expected 10 points, got %d", p)
	}
}

func TestEvaluateAll_LedgerMatchesAwards(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	user := testutil.SeedUser(t, f.ctx, f.db, "alice")
	f.seedSongs(t, user.ID, 100)
	testutil.SeedActivity(t, f.ctx, f.db, user.ID, entity.ActivityPlaylistImport, map[string]any{"source": "spotify"})

	if _, err := f.svc.EvaluateAll(f.ctx, user.ID); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	res, err := f.svc.RepairPoints(f.ctx, user.ID)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if res.Drift != 0 || res.Current != 90 {
		t.Fatalf("expected consistent ledger of 90, got %+v", res)
	}
}

func TestEvaluateAll_ConcurrentPassesAwardOnce(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	user := testutil.SeedUser(t, f.ctx, f.db, "alice")
	f.seedSongs(t, user.ID, 60)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.EvaluateAll(f.ctx, user.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent evaluate: %v", err)
	}

	var rows []entity.UserAchievement
	if err := f.db.Preload("Achievement").Where("user_id = ?", user.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load awards: %v", err)
	}
	var codes []string
	for _, r := range rows {
		codes = append(codes, r.Achievement.Code)
	}
	sort.Strings(codes)
	if strings.Join(codes, ",") != "songs_10,songs_50,welcome" {
		t.Fatalf("expected each award once, got %v", codes)
	}
	if p := f.points(t, user.ID); p != 35 {
		t.Fatalf("expected 35 points, got %d", p)
	}
}

func TestEvaluateAll_FailingMetricIsIsolated(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	user := testutil.SeedUser(t, f.ctx, f.db, "alice")
	f.seedSongs(t, user.ID, 10)

	if err := f.db.Migrator().DropTable(&entity.ActivityLog{}); err != nil {
		t.Fatalf("drop activity log: %v", err)
	}

	got, err := f.svc.EvaluateFamily(f.ctx, user.ID, entity.FamilySongs)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if strings.Join(got, ",") != "songs_10" {
		t.Fatalf("expected songs_10, got %v", got)
	}

	got, err = f.svc.EvaluateFamily(f.ctx, user.ID, entity.FamilyImports)
	if err != nil {
		t.Fatalf("a failing metric must not fail the pass: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected nothing awarded, got %v", got)
	}
}

func TestEvaluateFamily_RejectsUnknownFamily(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	if _, err := f.svc.EvaluateFamily(f.ctx, uuid.New(), entity.MetricFamily("karaoke")); err == nil {
		t.Fatalf("expected an error for an unknown family")
	}
}

func TestEvaluateAll_UnknownUserIsNoop(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	got, err := f.svc.EvaluateAll(f.ctx, uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected nothing awarded, got %v", got)
	}
}

type recordingRefresher struct {
	mu    sync.Mutex
	users []uuid.UUID
}

func (r *recordingRefresher) RefreshUserStats(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
	return nil
}

func TestEvaluateAll_UnknownUserSkipsStatsRefresh(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	refresher := &recordingRefresher{}
	resolver := workflowService.NewResolver(workflowRepo.NewWorkflowRepository(f.db))
	aggregator := metricService.NewAggregator(metricRepo.NewMetricRepository(f.db), resolver, testutil.Logger(t))
	svc := NewAchievementService(f.repo, catalog.MustNew(tiered()), aggregator, resolver, refresher, nil,
		Options{MetricConcurrency: 4, MetricTimeout: 5 * time.Second}, testutil.Logger(t))

	got, err := svc.EvaluateAll(f.ctx, uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected nothing awarded, got %v", got)
	}
	if len(refresher.users) != 0 {
		t.Fatalf("expected no stats refresh for an unknown user, got %v", refresher.users)
	}

	user := testutil.SeedUser(t, f.ctx, f.db, "alice")
	if _, err := svc.EvaluateAll(f.ctx, user.ID); err != nil {
		t.Fatalf("evaluate known user: %v", err)
	}
	if len(refresher.users) != 1 || refresher.users[0] != user.ID {
		t.Fatalf("expected one refresh for %s, got %v", user.ID, refresher.users)
	}
}

func TestEvaluateFamily_Specials(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	user := testutil.SeedUser(t, f.ctx, f.db, "alice")

	got, err := f.svc.EvaluateFamily(f.ctx, user.ID, entity.FamilyProfile)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no profile award yet, got %v / %v", got, err)
	}

	pic, link, contact := "pic.png", "https://example.com", "discord: alice"
	testutil.SeedProfile(t, f.ctx, f.db, &entity.Profile{UserID: user.ID, ProfilePicURL: &pic, PersonalLink: &link, ContactMethod: &contact})
	got, err = f.svc.EvaluateFamily(f.ctx, user.ID, entity.FamilyProfile)
	if err != nil {
		t.Fatalf("evaluate profile: %v", err)
	}
	if strings.Join(got, ",") != catalog.CodeProfileComplete {
		t.Fatalf("expected profile_complete, got %v", got)
	}

	testutil.SeedWorkflow(t, f.ctx, f.db, user.ID, "drums", "bass")
	got, err = f.svc.EvaluateFamily(f.ctx, user.ID, entity.FamilyWorkflow)
	if err != nil {
		t.Fatalf("evaluate workflow: %v", err)
	}
	if strings.Join(got, ",") != catalog.CodeWorkflowCustomizer {
		t.Fatalf("expected workflow_customizer, got %v", got)
	}
}

func TestAwardSpecial_Outcomes(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	user := testutil.SeedUser(t, f.ctx, f.db, "alice")

	cases := []struct {
		name   string
		userID uuid.UUID
		code   string
		want   achievementRepo.Outcome
	}{
		{name: "awarded", userID: user.ID, code: catalog.CodeWelcome, want: achievementRepo.OutcomeAwarded},
		{name: "already held", userID: user.ID, code: catalog.CodeWelcome, want: achievementRepo.OutcomeAlreadyHeld},
		{name: "unknown code", userID: user.ID, code: "karaoke_king", want: achievementRepo.OutcomeNotFound},
		{name: "unknown user", userID: uuid.New(), code: catalog.CodeWelcome, want: achievementRepo.OutcomeUnknownUser},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.svc.AwardSpecial(f.ctx, tc.userID, tc.code)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestAward_NotifiesAfterCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mock.NewMockNotifier(ctrl)
	f := newFixture(t, tiered(), notifier)
	user := testutil.SeedUser(t, f.ctx, f.db, "alice")
	f.seedSongs(t, user.ID, 10)

	notifier.EXPECT().
		NotifyAchievement(gomock.Any(), user.ID, "Achievement unlocked: Ten", gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	got, err := f.svc.EvaluateFamily(f.ctx, user.ID, entity.FamilySongs)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if strings.Join(got, ",") != "songs_10" {
		t.Fatalf("expected songs_10, got %v", got)
	}
}

func TestAward_NotificationFailureKeepsAward(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mock.NewMockNotifier(ctrl)
	f := newFixture(t, tiered(), notifier)
	user := testutil.SeedUser(t, f.ctx, f.db, "alice")

	notifier.EXPECT().
		NotifyAchievement(gomock.Any(), user.ID, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("redis down"))

	outcome, err := f.svc.AwardSpecial(f.ctx, user.ID, catalog.CodeWelcome)
	if err != nil {
		t.Fatalf("notification failure must not surface: %v", err)
	}
	if outcome != achievementRepo.OutcomeAwarded {
		t.Fatalf("expected awarded, got %s", outcome)
	}

	codes, err := f.repo.HeldCodes(f.ctx, user.ID)
	if err != nil {
		t.Fatalf("held codes: %v", err)
	}
	if len(codes) != 1 || codes[0] != catalog.CodeWelcome {
		t.Fatalf("award must survive a failed notification, got %v", codes)
	}
}

func TestGetProgress(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	user := testutil.SeedUser(t, f.ctx, f.db, "alice")
	testutil.SeedSong(t, f.ctx, f.db, user.ID, "Airbag", "Radiohead", entity.SongStatusReleased)
	f.seedSongs(t, user.ID, 14)
	if _, err := f.svc.EvaluateFamily(f.ctx, user.ID, entity.FamilySongs); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	entries, err := f.svc.GetProgress(f.ctx, user.ID)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	byCode := make(map[string]ProgressEntry, len(entries))
	for _, e := range entries {
		byCode[e.Code] = e
	}
	if len(byCode) != 5 {
		t.Fatalf("expected only metric-bound entries, got %d", len(byCode))
	}

	if e := byCode["songs_10"]; !e.Earned || e.Percentage != 100 || e.Current != 15 {
		t.Fatalf("unexpected songs_10 entry: %+v", e)
	}
	if e := byCode["songs_50"]; e.Earned || e.Percentage != 30 {
		t.Fatalf("unexpected songs_50 entry: %+v", e)
	}
	if e := byCode["songs_100"]; e.Percentage != 15 {
		t.Fatalf("unexpected songs_100 entry: %+v", e)
	}

	alpha := byCode["alphabet_26"]
	if alpha.Detail == nil {
		t.Fatalf("alphabet entry must carry letter detail")
	}
	if strings.Join(alpha.Detail.Found, "") != "AR" || len(alpha.Detail.Missing) != 24 {
		t.Fatalf("unexpected alphabet detail: %+v", alpha.Detail)
	}
}

func TestProgressPercent(t *testing.T) {
	cases := []struct {
		current, target int
		want            float64
	}{
		{0, 10, 0},
		{5, 10, 50},
		{1, 3, 33.33},
		{20, 10, 100},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := progressPercent(tc.current, tc.target); got != tc.want {
			t.Fatalf("%d/%d: expected %v got %v", tc.current, tc.target, tc.want, got)
		}
	}
}

func TestListCatalog_FlagsEarned(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	user := testutil.SeedUser(t, f.ctx, f.db, "alice")
	if _, err := f.svc.AwardSpecial(f.ctx, user.ID, catalog.CodeWelcome); err != nil {
		t.Fatalf("award: %v", err)
	}

	entries, err := f.svc.ListCatalog(f.ctx, user.ID)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(entries) != len(tiered()) {
		t.Fatalf("expected full catalog, got %d", len(entries))
	}
	for _, e := range entries {
		if want := e.Code == catalog.CodeWelcome; e.Earned != want {
			t.Fatalf("%s: expected earned=%v", e.Code, want)
		}
		if e.Earned && e.EarnedAt == nil {
			t.Fatalf("%s: earned entries carry earned_at", e.Code)
		}
	}
}

func TestRepairAll_FixesDriftedLedgers(t *testing.T) {
	f := newFixture(t, tiered(), nil)
	alice := testutil.SeedUser(t, f.ctx, f.db, "alice")
	bob := testutil.SeedUser(t, f.ctx, f.db, "bob")
	for _, u := range []uuid.UUID{alice.ID, bob.ID} {
		if _, err := f.svc.AwardSpecial(f.ctx, u, catalog.CodeProfileComplete); err != nil {
			t.Fatalf("award: %v", err)
		}
	}
	if err := f.db.Model(&entity.UserStats{}).Where("user_id = ?", bob.ID).Update("total_points", 500).Error; err != nil {
		t.Fatalf("corrupt ledger: %v", err)
	}

	drifted, err := f.svc.RepairAll(f.ctx)
	if err != nil {
		t.Fatalf("repair all: %v", err)
	}
	if drifted != 1 {
		t.Fatalf("expected one drifted ledger, got %d", drifted)
	}
	if p := f.points(t, bob.ID); p != 20 {
		t.Fatalf("expected bob repaired to 20, got %d", p)
	}
}
