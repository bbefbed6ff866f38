package service

import (
	"testing"

	"anoa.com/trackforge/internal/entity"
)

func rowsOf(states map[string]StepState) map[string]entity.SongStepProgress {
	out := make(map[string]entity.SongStepProgress, len(states))
	for name, state := range states {
		out[name] = entity.SongStepProgress{
			StepName:     name,
			IsCompleted:  state == StepCompleted,
			IsIrrelevant: state == StepIrrelevant,
		}
	}
	return out
}

func TestSongCompletion_IrrelevantStepsLeaveBothSides(t *testing.T) {
	steps := []string{"drums", "bass", "guitar", "vocals", "keys"}
	rows := rowsOf(map[string]StepState{
		"drums": StepCompleted,
		"bass":  StepCompleted,
		"keys":  StepIrrelevant,
	})

	got := SongCompletion(steps, rows)
	if got.Completed != 2 || got.Total != 4 {
		t.Fatalf("expected 2/4, got %d/%d", got.Completed, got.Total)
	}
	if got.Percentage != 50 {
		t.Fatalf("expected 50%%, got %v", got.Percentage)
	}
	if got.IsComplete() {
		t.Fatalf("expected incomplete")
	}
}

func TestSongCompletion_AllIrrelevantIsZeroNotComplete(t *testing.T) {
	steps := []string{"drums", "bass"}
	rows := rowsOf(map[string]StepState{
		"drums": StepIrrelevant,
		"bass":  StepIrrelevant,
	})

	got := SongCompletion(steps, rows)
	if got.Total != 0 || got.Percentage != 0 {
		t.Fatalf("expected 0 relevant steps at 0%%, got %+v", got)
	}
	if got.IsComplete() {
		t.Fatalf("a song with nothing relevant must not count as complete")
	}
}

func TestSongCompletion_IrrelevantWinsOverCompleted(t *testing.T) {
	rows := map[string]entity.SongStepProgress{
		"drums": {StepName: "drums", IsCompleted: true, IsIrrelevant: true},
		"bass":  {StepName: "bass", IsCompleted: true},
	}
	got := SongCompletion([]string{"drums", "bass"}, rows)
	if got.Completed != 1 || got.Total != 1 || !got.IsComplete() {
		t.Fatalf("expected 1/1 complete, got %+v", got)
	}
}

func TestSongCompletion_IgnoresStepsOutsideWorkflow(t *testing.T) {
	rows := rowsOf(map[string]StepState{
		"drums":   StepCompleted,
		"lasers":  StepCompleted,
		"karaoke": StepIrrelevant,
	})
	got := SongCompletion([]string{"drums", "bass"}, rows)
	if got.Completed != 1 || got.Total != 2 {
		t.Fatalf("expected 1/2, got %d/%d", got.Completed, got.Total)
	}
}

func TestSongCompletion_RoundsToTwoDecimals(t *testing.T) {
	rows := rowsOf(map[string]StepState{"a": StepCompleted})
	got := SongCompletion([]string{"a", "b", "c"}, rows)
	if got.Percentage != 33.33 {
		t.Fatalf("expected 33.33, got %v", got.Percentage)
	}
}

func TestPackStrict_DiffersFromCoarse(t *testing.T) {
	songs := []SongRollup{
		{Completion: newCompletion(5, 5)},
		{Completion: newCompletion(5, 5)},
		{Completion: newCompletion(4, 5)},
	}

	strict := PackStrict(songs)
	if strict.IsComplete {
		t.Fatalf("pack with a song at 80%% must not be strictly complete")
	}
	if strict.CompleteSongs != 2 || strict.RequiredSongs != 3 {
		t.Fatalf("expected 2/3 songs, got %d/%d", strict.CompleteSongs, strict.RequiredSongs)
	}
	if strict.Percentage != 66.67 {
		t.Fatalf("expected 66.67, got %v", strict.Percentage)
	}

	coarse := PackCoarse(songs)
	if coarse.Completed != 14 || coarse.Total != 15 {
		t.Fatalf("expected 14/15 steps, got %d/%d", coarse.Completed, coarse.Total)
	}
	if coarse.Percentage != 93.33 {
		t.Fatalf("expected 93.33, got %v", coarse.Percentage)
	}
}

func TestPackStrict_OptionalSongsDoNotBlock(t *testing.T) {
	songs := []SongRollup{
		{Completion: newCompletion(3, 3)},
		{Optional: true, Completion: newCompletion(0, 3)},
	}
	strict := PackStrict(songs)
	if !strict.IsComplete {
		t.Fatalf("expected complete, got %+v", strict)
	}
	if strict.RequiredSongs != 1 {
		t.Fatalf("expected 1 required song, got %d", strict.RequiredSongs)
	}
}

func TestPackStrict_NoRequiredSongsNeverComplete(t *testing.T) {
	cases := []struct {
		name  string
		songs []SongRollup
	}{
		{name: "empty", songs: nil},
		{name: "only optional", songs: []SongRollup{{Optional: true, Completion: newCompletion(2, 2)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PackStrict(tc.songs); got.IsComplete || got.Percentage != 0 {
				t.Fatalf("expected incomplete at 0%%, got %+v", got)
			}
		})
	}
}

func TestPackStrict_SongWithNothingRelevantBlocksPack(t *testing.T) {
	songs := []SongRollup{
		{Completion: newCompletion(3, 3)},
		{Completion: newCompletion(0, 0)},
	}
	if PackStrict(songs).IsComplete {
		t.Fatalf("a required song with zero relevant steps is not complete")
	}
}

func TestSongSteps_FillsMissingRows(t *testing.T) {
	wf := EffectiveWorkflow{Steps: []Step{{Name: "drums"}, {Name: "bass"}, {Name: "keys"}}}
	rows := rowsOf(map[string]StepState{"drums": StepCompleted, "keys": StepIrrelevant})

	got := SongSteps(wf, rows)
	want := []StepState{StepCompleted, StepNotStarted, StepIrrelevant}
	if len(got) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].State != want[i] {
			t.Fatalf("step %s: expected %s got %s", got[i].StepName, want[i], got[i].State)
		}
	}
}
