package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"anoa.com/trackforge/internal/entity"
	metricRepo "anoa.com/trackforge/internal/modules/metric/repository"
	workflowService "anoa.com/trackforge/internal/modules/workflow/service"
	"anoa.com/trackforge/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// wipCompletionRatio estimates how many released songs went through "In
// Progress" when the activity log predates status-change tracking.
const wipCompletionRatio = 0.7

// AlphabetDetail lists which first letters (A-Z) are present across the
// user's released song titles and artists.
type AlphabetDetail struct {
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
}

type Result struct {
	Value  int             `json:"value"`
	Detail *AlphabetDetail `json:"detail,omitempty"`
}

// Aggregator computes the current value of a metric for one user.
type Aggregator struct {
	repo     metricRepo.MetricRepository
	resolver *workflowService.Resolver
	log      *logger.Logger
}

func NewAggregator(repo metricRepo.MetricRepository, resolver *workflowService.Resolver, log *logger.Logger) *Aggregator {
	return &Aggregator{repo: repo, resolver: resolver, log: log}
}

// Compute runs a single metric with its own workflow lookups. Use Session to
// share workflow lookups across several metrics.
func (a *Aggregator) Compute(ctx context.Context, userID uuid.UUID, metric entity.MetricType) (Result, error) {
	return a.Session().Compute(ctx, userID, metric)
}

// Session is one evaluation pass. Workflows resolved during the pass are
// memoised, so a session must not outlive the pass. Safe for concurrent use.
type Session struct {
	agg       *Aggregator
	workflows *workflowService.Cache
}

func (a *Aggregator) Session() *Session {
	return &Session{agg: a, workflows: a.resolver.NewCache()}
}

func (s *Session) Compute(ctx context.Context, userID uuid.UUID, metric entity.MetricType) (Result, error) {
	repo := s.agg.repo
	switch metric {
	case entity.MetricTotalSongs:
		return count(repo.CountSongs(ctx, userID, ""))
	case entity.MetricReleasedSongs:
		return count(repo.CountSongs(ctx, userID, entity.SongStatusReleased))
	case entity.MetricWipSongs:
		return count(repo.CountSongs(ctx, userID, entity.SongStatusWip))
	case entity.MetricFutureSongs:
		return count(repo.CountSongs(ctx, userID, entity.SongStatusFuture))
	case entity.MetricWipCompletions:
		return s.wipCompletions(ctx, userID)

	case entity.MetricTotalPacks:
		return count(repo.CountPacks(ctx, userID, false))
	case entity.MetricReleasedPacks:
		return count(repo.CountPacks(ctx, userID, true))
	case entity.MetricAlbumSeries:
		return count(repo.CountAlbumSeries(ctx, userID))
	case entity.MetricCompletedPacks:
		return s.completedPacks(ctx, userID)

	case entity.MetricCollaborations:
		return count(repo.CountCollaborations(ctx, userID, true, true))
	case entity.MetricCollaboratorsAdded:
		return count(repo.CountCollaborations(ctx, userID, true, false))
	case entity.MetricCollaborationsJoined:
		return count(repo.CountCollaborations(ctx, userID, false, true))

	case entity.MetricPlaylistImports:
		return count(repo.CountActivity(ctx, userID, entity.ActivityPlaylistImport))
	case entity.MetricFeatureRequests:
		return count(repo.CountFeatureRequests(ctx, userID))
	case entity.MetricLoginStreak:
		return s.fromUser(ctx, userID, func(u *entity.User) int { return max(u.LoginStreak, 0) })

	case entity.MetricUniqueArtists, entity.MetricUniqueYears, entity.MetricUniqueDecades, entity.MetricAlphabetCoverage:
		return s.diversity(ctx, userID, metric)

	case entity.MetricCompletedSongs:
		return s.completedSongs(ctx, userID)
	case entity.MetricCompletedSteps:
		return s.completedSteps(ctx, userID)

	case entity.MetricProfilePic, entity.MetricPersonalLink, entity.MetricContactMethod:
		return s.fromUser(ctx, userID, func(u *entity.User) int { return profileFlag(u.Profile, metric) })
	}

	s.agg.log.Warn("unknown metric requested", "metric", metric, "user_id", userID)
	return Result{}, nil
}

func count(n int64, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return Result{Value: int(n)}, nil
}

// wipCompletions counts logged "In Progress" -> "Released" transitions. Users
// with no status-change history at all predate the log, so their count is
// estimated from released songs instead.
func (s *Session) wipCompletions(ctx context.Context, userID uuid.UUID) (Result, error) {
	logged, err := s.agg.repo.CountWipCompletions(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("count wip completions: %w", err)
	}
	if logged > 0 {
		return Result{Value: int(logged)}, nil
	}

	changes, err := s.agg.repo.CountActivity(ctx, userID, entity.ActivitySongStatusChange)
	if err != nil {
		return Result{}, fmt.Errorf("count status changes: %w", err)
	}
	if changes > 0 {
		return Result{Value: 0}, nil
	}

	released, err := s.agg.repo.CountSongs(ctx, userID, entity.SongStatusReleased)
	if err != nil {
		return Result{}, fmt.Errorf("count released songs: %w", err)
	}
	return Result{Value: estimateWipCompletions(int(released))}, nil
}

func estimateWipCompletions(released int) int {
	if released <= 0 {
		return 0
	}
	return max(1, int(math.Round(float64(released)*wipCompletionRatio)))
}

func (s *Session) fromUser(ctx context.Context, userID uuid.UUID, value func(*entity.User) int) (Result, error) {
	user, err := s.agg.repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{}, nil
		}
		return Result{}, err
	}
	return Result{Value: value(user)}, nil
}

// profileFlag is 1 when the profile field behind metric is filled in.
func profileFlag(p *entity.Profile, metric entity.MetricType) int {
	if p == nil {
		return 0
	}
	var v *string
	switch metric {
	case entity.MetricProfilePic:
		v = p.ProfilePicURL
	case entity.MetricPersonalLink:
		v = p.PersonalLink
	case entity.MetricContactMethod:
		v = p.ContactMethod
	}
	if v != nil && strings.TrimSpace(*v) != "" {
		return 1
	}
	return 0
}

func (s *Session) diversity(ctx context.Context, userID uuid.UUID, metric entity.MetricType) (Result, error) {
	songs, err := s.agg.repo.ListSongs(ctx, userID, entity.SongStatusReleased)
	if err != nil {
		return Result{}, fmt.Errorf("list released songs: %w", err)
	}

	switch metric {
	case entity.MetricUniqueArtists:
		return Result{Value: UniqueArtists(songs)}, nil
	case entity.MetricUniqueYears:
		return Result{Value: UniqueYears(songs)}, nil
	case entity.MetricUniqueDecades:
		return Result{Value: UniqueDecades(songs)}, nil
	default:
		detail := AlphabetCoverage(songs)
		return Result{Value: len(detail.Found), Detail: &detail}, nil
	}
}

// UniqueArtists counts distinct artists, trimmed and case-folded.
func UniqueArtists(songs []entity.Song) int {
	seen := make(map[string]struct{})
	for _, song := range songs {
		artist := strings.ToLower(strings.TrimSpace(song.Artist))
		if artist == "" {
			continue
		}
		seen[artist] = struct{}{}
	}
	return len(seen)
}

func UniqueYears(songs []entity.Song) int {
	seen := make(map[int]struct{})
	for _, song := range songs {
		if song.Year != nil {
			seen[*song.Year] = struct{}{}
		}
	}
	return len(seen)
}

func UniqueDecades(songs []entity.Song) int {
	seen := make(map[int]struct{})
	for _, song := range songs {
		if song.Year != nil {
			seen[(*song.Year/10)*10] = struct{}{}
		}
	}
	return len(seen)
}

// AlphabetCoverage collects the A-Z letters that start a title or an artist.
// Found and Missing are both in alphabetical order.
func AlphabetCoverage(songs []entity.Song) AlphabetDetail {
	var present [26]bool
	mark := func(s string) {
		for _, r := range strings.TrimSpace(s) {
			r = unicode.ToUpper(r)
			if r >= 'A' && r <= 'Z' {
				present[r-'A'] = true
			}
			return
		}
	}
	for _, song := range songs {
		mark(song.Title)
		mark(song.Artist)
	}

	detail := AlphabetDetail{Found: []string{}, Missing: []string{}}
	for i, ok := range present {
		letter := string(rune('A' + i))
		if ok {
			detail.Found = append(detail.Found, letter)
		} else {
			detail.Missing = append(detail.Missing, letter)
		}
	}
	return detail
}
