package catalog

import (
	"errors"
	"fmt"
	"strings"

	"anoa.com/trackforge/internal/entity"
)

// Codes of achievements that are not bound to a metric and are granted by
// explicit checks.
const (
	CodeWelcome            = "welcome"
	CodeProfileComplete    = "profile_complete"
	CodeWorkflowCustomizer = "workflow_customizer"
)

const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

var ErrInvalidCatalog = errors.New("invalid achievement catalog")

// Definition is one catalog entry. A definition either has both Metric and
// Target (metric-bound) or neither (special); specials name their Family.
type Definition struct {
	Code        string
	Name        string
	Description string
	Icon        string
	Category    string
	Rarity      string
	Points      int
	Metric      entity.MetricType
	Target      *int
	Family      entity.MetricFamily
}

func (d Definition) IsSpecial() bool {
	return d.Metric == ""
}

// MetricFamily is the family the definition is evaluated under.
func (d Definition) MetricFamily() entity.MetricFamily {
	if d.IsSpecial() {
		return d.Family
	}
	family, _ := d.Metric.Family()
	return family
}

// Entity converts the definition into its persisted row.
func (d Definition) Entity() entity.Achievement {
	a := entity.Achievement{
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
		Category:    d.Category,
		Rarity:      d.Rarity,
		Points:      d.Points,
	}
	if !d.IsSpecial() {
		metric := string(d.Metric)
		target := *d.Target
		a.MetricType = &metric
		a.TargetValue = &target
	}
	return a
}

// Registry is an immutable, validated set of definitions keyed by code.
type Registry struct {
	defs   []Definition
	byCode map[string]int
}

func New(defs []Definition) (*Registry, error) {
	r := &Registry{defs: make([]Definition, len(defs)), byCode: make(map[string]int, len(defs))}
	copy(r.defs, defs)

	var errs []error
	for i, d := range r.defs {
		if err := validate(d); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := r.byCode[d.Code]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate code", d.Code))
			continue
		}
		r.byCode[d.Code] = i
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return r, nil
}

func MustNew(defs []Definition) *Registry {
	r, err := New(defs)
	if err != nil {
		panic(err)
	}
	return r
}

func validate(d Definition) error {
	code := strings.TrimSpace(d.Code)
	switch {
	case code == "" || code != d.Code:
		return fmt.Errorf("%q: code must be non-empty and trimmed", d.Code)
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%s: name is required", d.Code)
	case d.Points < 0:
		return fmt.Errorf("%s: points must not be negative", d.Code)
	case d.Metric == "" && d.Target != nil:
		return fmt.Errorf("%s: target without metric", d.Code)
	case d.Metric != "" && d.Target == nil:
		return fmt.Errorf("%s: metric without target", d.Code)
	}
	if d.IsSpecial() {
		if !d.Family.Valid() {
			return fmt.Errorf("%s: special achievement needs a valid family", d.Code)
		}
		return nil
	}
	if !d.Metric.Known() {
		return fmt.Errorf("%s: unknown metric %q", d.Code, d.Metric)
	}
	if *d.Target < 1 {
		return fmt.Errorf("%s: target must be positive", d.Code)
	}
	return nil
}

func (r *Registry) Get(code string) (Definition, bool) {
	i, ok := r.byCode[code]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// All returns every definition in catalog order.
func (r *Registry) All() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// MetricBound returns the metric-bound definitions, optionally restricted to
// one family. An empty family means all.
func (r *Registry) MetricBound(family entity.MetricFamily) []Definition {
	var out []Definition
	for _, d := range r.defs {
		if d.IsSpecial() {
			continue
		}
		if family != "" && d.MetricFamily() != family {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Specials returns the non-metric definitions, optionally restricted to one
// family.
func (r *Registry) Specials(family entity.MetricFamily) []Definition {
	var out []Definition
	for _, d := range r.defs {
		if !d.IsSpecial() {
			continue
		}
		if family != "" && d.Family != family {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (r *Registry) Entities() []entity.Achievement {
	out := make([]entity.Achievement, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Entity()
	}
	return out
}
