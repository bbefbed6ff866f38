package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/trackforge/internal/entity"
	metricService "anoa.com/trackforge/internal/modules/metric/service"
	statRepo "anoa.com/trackforge/internal/modules/stat/repository"
	"anoa.com/trackforge/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatService interface {
	// RefreshUserStats recomputes the count fields of the user's snapshot
	// from source tables. The cached point total is left untouched.
	RefreshUserStats(ctx context.Context, userID uuid.UUID) error
	GetUserStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error)
	GetTotalUsers(ctx context.Context) (int64, error)
}

type statService struct {
	repo       statRepo.StatRepository
	aggregator *metricService.Aggregator
	log        *logger.Logger
}

func NewStatService(repo statRepo.StatRepository, aggregator *metricService.Aggregator, log *logger.Logger) StatService {
	return &statService{
		repo:       repo,
		aggregator: aggregator,
		log:        log,
	}
}

func (s *statService) RefreshUserStats(ctx context.Context, userID uuid.UUID) error {
	session := s.aggregator.Session()
	stats := &entity.UserStats{UserID: userID}

	fields := []struct {
		metric entity.MetricType
		dst    *int
	}{
		{entity.MetricTotalSongs, &stats.TotalSongs},
		{entity.MetricReleasedSongs, &stats.ReleasedSongs},
		{entity.MetricWipSongs, &stats.WipSongs},
		{entity.MetricFutureSongs, &stats.FutureSongs},
		{entity.MetricTotalPacks, &stats.TotalPacks},
		{entity.MetricCollaborations, &stats.TotalCollaborations},
		{entity.MetricPlaylistImports, &stats.TotalImports},
		{entity.MetricFeatureRequests, &stats.TotalFeatureRequests},
		{entity.MetricLoginStreak, &stats.LoginStreak},
	}
	for _, f := range fields {
		res, err := session.Compute(ctx, userID, f.metric)
		if err != nil {
			return fmt.Errorf("compute %s: %w", f.metric, err)
		}
		*f.dst = res.Value
	}

	if err := s.repo.UpsertCounts(ctx, stats); err != nil {
		return fmt.Errorf("upsert user stats: %w", err)
	}
	s.log.Debug("user stats refreshed", "user_id", userID, "total_songs", stats.TotalSongs)
	return nil
}

func (s *statService) GetUserStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error) {
	stats, err := s.repo.FindByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Nothing evaluated yet.
		return &entity.UserStats{UserID: userID}, nil
	}
	return stats, err
}

func (s *statService) GetTotalUsers(ctx context.Context) (int64, error) {
	return s.repo.CountActiveUsers(ctx)
}
