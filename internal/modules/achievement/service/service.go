package service

import (
	"context"
	"fmt"
	"time"

	"anoa.com/trackforge/internal/entity"
	"anoa.com/trackforge/internal/modules/achievement/catalog"
	achievementRepo "anoa.com/trackforge/internal/modules/achievement/repository"
	metricService "anoa.com/trackforge/internal/modules/metric/service"
	workflowService "anoa.com/trackforge/internal/modules/workflow/service"
	"anoa.com/trackforge/pkg/logger"
	"github.com/google/uuid"
)

//go:generate mockgen -destination=../mock/notifier.go -package=mock . Notifier

// Notifier delivers the "achievement unlocked" message. It is called after
// the award has committed.
type Notifier interface {
	NotifyAchievement(ctx context.Context, userID uuid.UUID, title, message string, achievementID uint) error
}

// StatsRefresher recomputes the cached count fields of a user's stats row.
type StatsRefresher interface {
	RefreshUserStats(ctx context.Context, userID uuid.UUID) error
}

type Options struct {
	MetricConcurrency int
	MetricTimeout     time.Duration
}

type AchievementService interface {
	// EvaluateAll checks every metric and special achievement for the user
	// and returns the codes newly held after the pass.
	EvaluateAll(ctx context.Context, userID uuid.UUID) ([]string, error)
	EvaluateFamily(ctx context.Context, userID uuid.UUID, family entity.MetricFamily) ([]string, error)
	AwardSpecial(ctx context.Context, userID uuid.UUID, code string) (achievementRepo.Outcome, error)

	GetProgress(ctx context.Context, userID uuid.UUID) ([]ProgressEntry, error)
	ListCatalog(ctx context.Context, userID uuid.UUID) ([]CatalogEntry, error)

	RepairPoints(ctx context.Context, userID uuid.UUID) (*RepairResult, error)
	RepairAll(ctx context.Context) (int, error)
}

type achievementService struct {
	repo      achievementRepo.AchievementRepository
	registry  *catalog.Registry
	metrics   *metricService.Aggregator
	workflows *workflowService.Resolver
	stats     StatsRefresher
	notifier  Notifier
	opts      Options
	log       *logger.Logger
}

func NewAchievementService(
	repo achievementRepo.AchievementRepository,
	registry *catalog.Registry,
	metrics *metricService.Aggregator,
	workflows *workflowService.Resolver,
	stats StatsRefresher,
	notifier Notifier,
	opts Options,
	log *logger.Logger,
) AchievementService {
	if opts.MetricConcurrency < 1 {
		opts.MetricConcurrency = 1
	}
	if opts.MetricTimeout <= 0 {
		opts.MetricTimeout = 5 * time.Second
	}
	return &achievementService{
		repo:      repo,
		registry:  registry,
		metrics:   metrics,
		workflows: workflows,
		stats:     stats,
		notifier:  notifier,
		opts:      opts,
		log:       log,
	}
}

type CatalogEntry struct {
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Category    string     `json:"category"`
	Rarity      string     `json:"rarity"`
	Points      int        `json:"points"`
	MetricType  string     `json:"metric_type,omitempty"`
	TargetValue *int       `json:"target_value,omitempty"`
	Earned      bool       `json:"earned"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

func (s *achievementService) ListCatalog(ctx context.Context, userID uuid.UUID) ([]CatalogEntry, error) {
	earned, err := s.earnedAt(ctx, userID)
	if err != nil {
		return nil, err
	}

	defs := s.registry.All()
	out := make([]CatalogEntry, 0, len(defs))
	for _, d := range defs {
		entry := CatalogEntry{
			Code:        d.Code,
			Name:        d.Name,
			Description: d.Description,
			Icon:        d.Icon,
			Category:    d.Category,
			Rarity:      d.Rarity,
			Points:      d.Points,
			MetricType:  string(d.Metric),
			TargetValue: d.Target,
		}
		if at, ok := earned[d.Code]; ok {
			at := at
			entry.Earned = true
			entry.EarnedAt = &at
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *achievementService) earnedAt(ctx context.Context, userID uuid.UUID) (map[string]time.Time, error) {
	rows, err := s.repo.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user achievements: %w", err)
	}
	out := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		out[row.Achievement.Code] = row.EarnedAt
	}
	return out, nil
}

type RepairResult struct {
	UserID   uuid.UUID `json:"user_id"`
	Previous int       `json:"previous_points"`
	Current  int       `json:"current_points"`
	Drift    int       `json:"drift"`
}

// RepairPoints overwrites the cached point total with the sum over the
// user's awarded achievements.
func (s *achievementService) RepairPoints(ctx context.Context, userID uuid.UUID) (*RepairResult, error) {
	previous, current, err := s.repo.RecalculatePoints(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("recalculate points: %w", err)
	}
	result := &RepairResult{UserID: userID, Previous: previous, Current: current, Drift: current - previous}
	if result.Drift != 0 {
		s.log.Warn("points ledger drift repaired", "user_id", userID, "previous", previous, "current", current)
	}
	return result, nil
}

// RepairAll repairs every user holding at least one achievement and returns
// how many ledgers had drifted. A failing user is logged and skipped.
func (s *achievementService) RepairAll(ctx context.Context) (int, error) {
	ids, err := s.repo.ListUserIDsWithAwards(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users with awards: %w", err)
	}

	drifted := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return drifted, err
		}
		res, err := s.RepairPoints(ctx, id)
		if err != nil {
			s.log.Error("points ledger repair failed", "user_id", id, "error", err)
			continue
		}
		if res.Drift != 0 {
			drifted++
		}
	}
	return drifted, nil
}
