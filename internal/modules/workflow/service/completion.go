package service

import (
	"math"
	"time"

	"anoa.com/trackforge/internal/entity"
)

type StepState string

const (
	StepNotStarted StepState = "not_started"
	StepCompleted  StepState = "completed"
	StepIrrelevant StepState = "irrelevant"
)

type StepStatus struct {
	StepName    string     `json:"step_name"`
	DisplayName string     `json:"display_name"`
	State       StepState  `json:"state"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Completion is completed/total over relevant steps. Percentage is 0-100 and
// is 0 when there is nothing relevant to complete.
type Completion struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

func (c Completion) IsComplete() bool {
	return c.Total > 0 && c.Completed == c.Total
}

func newCompletion(completed, total int) Completion {
	c := Completion{Completed: completed, Total: total}
	if total > 0 {
		c.Percentage = roundPercent(float64(completed) / float64(total) * 100)
	}
	return c
}

// StateOf folds a stored row into a step state. Irrelevant wins over
// completed; a missing row is not started.
func StateOf(row *entity.SongStepProgress) StepState {
	switch {
	case row == nil:
		return StepNotStarted
	case row.IsIrrelevant:
		return StepIrrelevant
	case row.IsCompleted:
		return StepCompleted
	default:
		return StepNotStarted
	}
}

// SongSteps synthesises one status per workflow step, filling absent rows
// with "not started". Rows for steps outside the workflow are ignored.
func SongSteps(wf EffectiveWorkflow, rows map[string]entity.SongStepProgress) []StepStatus {
	out := make([]StepStatus, 0, len(wf.Steps))
	for _, step := range wf.Steps {
		status := StepStatus{StepName: step.Name, DisplayName: step.DisplayName, State: StepNotStarted}
		if row, ok := rows[step.Name]; ok {
			status.State = StateOf(&row)
			if status.State == StepCompleted {
				status.CompletedAt = row.CompletedAt
			}
		}
		out = append(out, status)
	}
	return out
}

// SongCompletion computes completed_relevant / total_relevant for one song
// against the given step names.
func SongCompletion(stepNames []string, rows map[string]entity.SongStepProgress) Completion {
	completed, total := 0, 0
	for _, name := range stepNames {
		var row *entity.SongStepProgress
		if r, ok := rows[name]; ok {
			row = &r
		}
		switch StateOf(row) {
		case StepIrrelevant:
			continue
		case StepCompleted:
			completed++
		}
		total++
	}
	return newCompletion(completed, total)
}

// SongRollup is one song's contribution to a pack rollup.
type SongRollup struct {
	Optional   bool
	Completion Completion
}

// StrictRollup counts non-optional songs that are individually 100%
// complete. This is what completed_packs counts.
type StrictRollup struct {
	CompleteSongs int     `json:"complete_songs"`
	RequiredSongs int     `json:"required_songs"`
	Percentage    float64 `json:"percentage"`
	IsComplete    bool    `json:"is_complete"`
}

// PackStrict: a pack with no required songs is never complete.
func PackStrict(songs []SongRollup) StrictRollup {
	var r StrictRollup
	for _, s := range songs {
		if s.Optional {
			continue
		}
		r.RequiredSongs++
		if s.Completion.IsComplete() {
			r.CompleteSongs++
		}
	}
	if r.RequiredSongs > 0 {
		r.Percentage = roundPercent(float64(r.CompleteSongs) / float64(r.RequiredSongs) * 100)
		r.IsComplete = r.CompleteSongs == r.RequiredSongs
	}
	return r
}

// PackCoarse sums relevant steps across every song in the pack. Used for
// progress bars and near-completion suggestions, never for achievements.
func PackCoarse(songs []SongRollup) Completion {
	completed, total := 0, 0
	for _, s := range songs {
		completed += s.Completion.Completed
		total += s.Completion.Total
	}
	return newCompletion(completed, total)
}

// IndexProgress groups progress rows by song and step name.
func IndexProgress(rows []entity.SongStepProgress) map[string]map[string]entity.SongStepProgress {
	out := make(map[string]map[string]entity.SongStepProgress)
	for _, row := range rows {
		key := row.SongID.String()
		if out[key] == nil {
			out[key] = make(map[string]entity.SongStepProgress)
		}
		out[key][row.StepName] = row
	}
	return out
}

func roundPercent(p float64) float64 {
	return math.Round(p*100) / 100
}
