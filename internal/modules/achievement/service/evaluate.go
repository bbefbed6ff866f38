package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"anoa.com/trackforge/internal/entity"
	"anoa.com/trackforge/internal/modules/achievement/catalog"
	achievementRepo "anoa.com/trackforge/internal/modules/achievement/repository"
	metricService "anoa.com/trackforge/internal/modules/metric/service"
	workflowService "anoa.com/trackforge/internal/modules/workflow/service"
	"anoa.com/trackforge/pkg/apperror"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

func (s *achievementService) EvaluateAll(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.evaluate(ctx, userID, "")
}

func (s *achievementService) EvaluateFamily(ctx context.Context, userID uuid.UUID, family entity.MetricFamily) ([]string, error) {
	if !family.Valid() {
		return nil, apperror.Invalid(fmt.Sprintf("unknown metric family %q", family))
	}
	return s.evaluate(ctx, userID, family)
}

// evaluate runs one pass. An empty family means every family. Only a failure
// to read the held set is returned; metric and award failures are logged and
// the pass continues.
func (s *achievementService) evaluate(ctx context.Context, userID uuid.UUID, family entity.MetricFamily) ([]string, error) {
	before, err := s.repo.HeldCodes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read held achievements: %w", err)
	}
	held := toSet(before)

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if !exists {
		s.log.Warn("evaluation skipped: unknown user", "user_id", userID)
		return []string{}, nil
	}

	if s.stats != nil {
		if err := s.stats.RefreshUserStats(ctx, userID); err != nil {
			s.log.Warn("user stats refresh failed", "user_id", userID, "error", err)
		}
	}

	pending := make(map[entity.MetricType][]catalog.Definition)
	for _, d := range s.registry.MetricBound(family) {
		if !held[d.Code] {
			pending[d.Metric] = append(pending[d.Metric], d)
		}
	}
	metrics := make([]entity.MetricType, 0, len(pending))
	for m := range pending {
		metrics = append(metrics, m)
	}
	sort.Slice(metrics, func(i, j int) bool { return metrics[i] < metrics[j] })

	session := s.metrics.Session()
	values := s.computeAll(ctx, userID, session, metrics)

	awarded := make(map[string]bool)
	for _, m := range metrics {
		res, ok := values[m]
		if !ok {
			continue
		}
		for _, d := range pending[m] {
			if res.Value < *d.Target {
				continue
			}
			s.tryAward(ctx, userID, d.Code, awarded)
		}
	}

	for _, d := range s.registry.Specials(family) {
		if held[d.Code] {
			continue
		}
		ok, err := s.checkSpecial(ctx, userID, session, d.Code)
		if err != nil {
			s.log.Warn("special achievement check failed", "user_id", userID, "code", d.Code, "error", err)
			continue
		}
		if ok {
			s.tryAward(ctx, userID, d.Code, awarded)
		}
	}

	after, err := s.repo.HeldCodes(ctx, userID)
	if err != nil {
		s.log.Warn("read held achievements after evaluation failed", "user_id", userID, "error", err)
		return sortedKeys(awarded), nil
	}
	return difference(after, held), nil
}

func (s *achievementService) tryAward(ctx context.Context, userID uuid.UUID, code string, awarded map[string]bool) {
	outcome, err := s.award(ctx, userID, code)
	if err != nil {
		s.log.Error("award transaction failed", "user_id", userID, "code", code, "error", err)
		return
	}
	if outcome == achievementRepo.OutcomeAwarded {
		awarded[code] = true
	}
}

// computeAll computes each metric once, in parallel up to the configured
// concurrency, each under its own timeout. A failed metric is left out of
// the result.
func (s *achievementService) computeAll(ctx context.Context, userID uuid.UUID, session *metricService.Session, metrics []entity.MetricType) map[entity.MetricType]metricService.Result {
	var (
		mu     sync.Mutex
		values = make(map[entity.MetricType]metricService.Result, len(metrics))
		g      errgroup.Group
	)
	g.SetLimit(s.opts.MetricConcurrency)

	for _, m := range metrics {
		m := m
		g.Go(func() error {
			mctx, cancel := context.WithTimeout(ctx, s.opts.MetricTimeout)
			defer cancel()

			res, err := session.Compute(mctx, userID, m)
			if err != nil {
				s.log.Warn("metric computation failed", "user_id", userID, "metric", m, "error", err)
				return nil
			}
			mu.Lock()
			values[m] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return values
}

// checkSpecial reports whether the user qualifies for a special achievement.
// Specials without a check here are only granted through AwardSpecial.
func (s *achievementService) checkSpecial(ctx context.Context, userID uuid.UUID, session *metricService.Session, code string) (bool, error) {
	switch code {
	case catalog.CodeWelcome:
		return true, nil
	case catalog.CodeProfileComplete:
		for _, m := range []entity.MetricType{entity.MetricProfilePic, entity.MetricPersonalLink, entity.MetricContactMethod} {
			res, err := session.Compute(ctx, userID, m)
			if err != nil {
				return false, err
			}
			if res.Value == 0 {
				return false, nil
			}
		}
		return true, nil
	case catalog.CodeWorkflowCustomizer:
		wf, err := s.workflows.Resolve(ctx, userID)
		if err != nil {
			return false, err
		}
		return wf.Source == workflowService.SourceCustom, nil
	}
	return false, nil
}

func toSet(codes []string) map[string]bool {
	out := make(map[string]bool, len(codes))
	for _, c := range codes {
		out[c] = true
	}
	return out
}

func difference(after []string, before map[string]bool) []string {
	out := []string{}
	for _, c := range after {
		if !before[c] {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
