package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	leaderboardDto "anoa.com/trackforge/internal/modules/leaderboard/dto"
	leaderboardRepo "anoa.com/trackforge/internal/modules/leaderboard/repository"
	"anoa.com/trackforge/pkg/logger"
	"github.com/google/uuid"
)

type LeaderboardService interface {
	// GetLeaderboard ranks active users by cached points, then username.
	// Me is the requesting user's own entry even when outside the top slice.
	GetLeaderboard(ctx context.Context, requestingUserID uuid.UUID, limit int) (*leaderboardDto.LeaderboardResponse, error)
}

type leaderboardService struct {
	repo leaderboardRepo.LeaderboardRepository
	log  *logger.Logger
	now  func() time.Time
}

func NewLeaderboardService(repo leaderboardRepo.LeaderboardRepository, log *logger.Logger) LeaderboardService {
	return &leaderboardService{repo: repo, log: log, now: time.Now}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, requestingUserID uuid.UUID, limit int) (*leaderboardDto.LeaderboardResponse, error) {
	rows, err := s.repo.ListRanking(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ranking: %w", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].Username < rows[j].Username
	})

	top := rows
	if limit >= 0 && len(top) > limit {
		top = top[:limit]
	}

	// Linear scan for the requester's position.
	myIndex := -1
	for i, row := range rows {
		if row.UserID == requestingUserID {
			myIndex = i
			break
		}
	}

	ids := make([]uuid.UUID, 0, len(top)+1)
	for _, row := range top {
		ids = append(ids, row.UserID)
	}
	if myIndex >= len(top) {
		ids = append(ids, rows[myIndex].UserID)
	}
	weekly, err := s.repo.WeeklyPoints(ctx, ids, s.now().AddDate(0, 0, -7))
	if err != nil {
		s.log.Warn("weekly points lookup failed", "error", err)
		weekly = map[uuid.UUID]int{}
	}

	resp := &leaderboardDto.LeaderboardResponse{
		Entries:    make([]leaderboardDto.LeaderboardEntry, 0, len(top)),
		TotalUsers: len(rows),
	}
	for i, row := range top {
		resp.Entries = append(resp.Entries, toEntry(row, i+1, weekly[row.UserID]))
	}
	if myIndex >= 0 {
		me := toEntry(rows[myIndex], myIndex+1, weekly[rows[myIndex].UserID])
		resp.Me = &me
	}
	return resp, nil
}

func toEntry(row leaderboardRepo.RankRow, position, weeklyPoints int) leaderboardDto.LeaderboardEntry {
	return leaderboardDto.LeaderboardEntry{
		UserID:             row.UserID,
		Username:           row.Username,
		Position:           position,
		GamificationStatus: GetGamificationStatusWithWeekly(row.TotalPoints, weeklyPoints),
	}
}
