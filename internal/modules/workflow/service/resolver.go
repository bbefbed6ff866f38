package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"anoa.com/trackforge/internal/entity"
	"github.com/google/uuid"
)

type WorkflowSource string

const (
	SourceCustom  WorkflowSource = "custom"
	SourceDefault WorkflowSource = "default"
)

type Step struct {
	Name        string `json:"step_name"`
	DisplayName string `json:"display_name"`
	Order       int    `json:"order_index"`
}

// EffectiveWorkflow is either the user's own ordered step list or the system
// default. Source tells which.
type EffectiveWorkflow struct {
	UserID uuid.UUID      `json:"user_id"`
	Source WorkflowSource `json:"source"`
	Steps  []Step         `json:"steps"`
}

func (w EffectiveWorkflow) StepNames() []string {
	names := make([]string, len(w.Steps))
	for i, s := range w.Steps {
		names[i] = s.Name
	}
	return names
}

func (w EffectiveWorkflow) Has(stepName string) bool {
	for _, s := range w.Steps {
		if s.Name == stepName {
			return true
		}
	}
	return false
}

type StepLister interface {
	ListSteps(ctx context.Context, userID uuid.UUID) ([]entity.WorkflowStep, error)
}

type Resolver struct {
	steps StepLister
}

func NewResolver(steps StepLister) *Resolver {
	return &Resolver{steps: steps}
}

// Resolve returns the user's workflow. A user with any stored rows has a
// custom workflow made of the enabled rows, even if that leaves it empty.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (EffectiveWorkflow, error) {
	rows, err := r.steps.ListSteps(ctx, userID)
	if err != nil {
		return EffectiveWorkflow{}, fmt.Errorf("list workflow steps: %w", err)
	}
	if len(rows) == 0 {
		steps := make([]Step, len(DefaultSteps))
		copy(steps, DefaultSteps)
		return EffectiveWorkflow{UserID: userID, Source: SourceDefault, Steps: steps}, nil
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].OrderIndex < rows[j].OrderIndex })
	steps := make([]Step, 0, len(rows))
	for _, row := range rows {
		if !row.IsEnabled {
			continue
		}
		steps = append(steps, Step{Name: row.StepName, DisplayName: row.DisplayName, Order: row.OrderIndex})
	}
	return EffectiveWorkflow{UserID: userID, Source: SourceCustom, Steps: steps}, nil
}

// Cache memoises Resolve for the duration of one evaluation pass. Safe for
// concurrent use.
type Cache struct {
	resolver *Resolver
	mu       sync.Mutex
	byUser   map[uuid.UUID]EffectiveWorkflow
}

func (r *Resolver) NewCache() *Cache {
	return &Cache{resolver: r, byUser: make(map[uuid.UUID]EffectiveWorkflow)}
}

func (c *Cache) Resolve(ctx context.Context, userID uuid.UUID) (EffectiveWorkflow, error) {
	c.mu.Lock()
	wf, ok := c.byUser[userID]
	c.mu.Unlock()
	if ok {
		return wf, nil
	}

	wf, err := c.resolver.Resolve(ctx, userID)
	if err != nil {
		return EffectiveWorkflow{}, err
	}

	c.mu.Lock()
	c.byUser[userID] = wf
	c.mu.Unlock()
	return wf, nil
}
