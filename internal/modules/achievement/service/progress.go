package service

import (
	"context"
	"math"
	"sort"
	"time"

	"anoa.com/trackforge/internal/entity"
	metricService "anoa.com/trackforge/internal/modules/metric/service"
	"github.com/google/uuid"
)

type ProgressEntry struct {
	Code       string                        `json:"code"`
	Name       string                        `json:"name"`
	Category   string                        `json:"category"`
	MetricType entity.MetricType             `json:"metric_type"`
	Current    int                           `json:"current"`
	Target     int                           `json:"target"`
	Percentage float64                       `json:"percentage"`
	Earned     bool                          `json:"earned"`
	EarnedAt   *time.Time                    `json:"earned_at,omitempty"`
	Detail     *metricService.AlphabetDetail `json:"detail,omitempty"`
}

// GetProgress reports every metric-bound achievement against the user's
// current metric values. Earned achievements always report 100%.
func (s *achievementService) GetProgress(ctx context.Context, userID uuid.UUID) ([]ProgressEntry, error) {
	earned, err := s.earnedAt(ctx, userID)
	if err != nil {
		return nil, err
	}

	defs := s.registry.MetricBound("")
	seen := make(map[entity.MetricType]bool)
	var metrics []entity.MetricType
	for _, d := range defs {
		if !seen[d.Metric] {
			seen[d.Metric] = true
			metrics = append(metrics, d.Metric)
		}
	}
	sort.Slice(metrics, func(i, j int) bool { return metrics[i] < metrics[j] })
	values := s.computeAll(ctx, userID, s.metrics.Session(), metrics)

	out := make([]ProgressEntry, 0, len(defs))
	for _, d := range defs {
		res := values[d.Metric]
		entry := ProgressEntry{
			Code:       d.Code,
			Name:       d.Name,
			Category:   d.Category,
			MetricType: d.Metric,
			Current:    res.Value,
			Target:     *d.Target,
			Percentage: progressPercent(res.Value, *d.Target),
			Detail:     res.Detail,
		}
		if at, ok := earned[d.Code]; ok {
			at := at
			entry.Earned = true
			entry.EarnedAt = &at
			entry.Percentage = 100
		}
		out = append(out, entry)
	}
	return out, nil
}

// progressPercent is min(current/target, 1) * 100, rounded to two places.
func progressPercent(current, target int) float64 {
	if target <= 0 {
		return 0
	}
	ratio := math.Min(float64(current)/float64(target), 1)
	if ratio < 0 {
		ratio = 0
	}
	return math.Round(ratio*100*100) / 100
}
