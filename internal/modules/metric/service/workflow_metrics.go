package service

import (
	"context"
	"fmt"

	"anoa.com/trackforge/internal/entity"
	workflowService "anoa.com/trackforge/internal/modules/workflow/service"
	"github.com/google/uuid"
)

// songCompletions sizes every song against its owner's workflow.
func (s *Session) songCompletions(ctx context.Context, songs []entity.Song) (map[uuid.UUID]workflowService.Completion, error) {
	ids := make([]uuid.UUID, len(songs))
	for i, song := range songs {
		ids[i] = song.ID
	}
	rows, err := s.agg.repo.ListProgress(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list step progress: %w", err)
	}
	bySong := workflowService.IndexProgress(rows)

	out := make(map[uuid.UUID]workflowService.Completion, len(songs))
	for _, song := range songs {
		wf, err := s.workflows.Resolve(ctx, song.UserID)
		if err != nil {
			return nil, err
		}
		out[song.ID] = workflowService.SongCompletion(wf.StepNames(), bySong[song.ID.String()])
	}
	return out, nil
}

func (s *Session) completedSongs(ctx context.Context, userID uuid.UUID) (Result, error) {
	songs, err := s.agg.repo.ListSongs(ctx, userID, "")
	if err != nil {
		return Result{}, fmt.Errorf("list songs: %w", err)
	}
	completions, err := s.songCompletions(ctx, songs)
	if err != nil {
		return Result{}, err
	}

	done := 0
	for _, c := range completions {
		if c.IsComplete() {
			done++
		}
	}
	return Result{Value: done}, nil
}

// completedSteps counts completed, relevant steps that belong to the owner's
// workflow, summed over all of the user's songs.
func (s *Session) completedSteps(ctx context.Context, userID uuid.UUID) (Result, error) {
	songs, err := s.agg.repo.ListSongs(ctx, userID, "")
	if err != nil {
		return Result{}, fmt.Errorf("list songs: %w", err)
	}
	completions, err := s.songCompletions(ctx, songs)
	if err != nil {
		return Result{}, err
	}

	total := 0
	for _, c := range completions {
		total += c.Completed
	}
	return Result{Value: total}, nil
}

// completedPacks counts packs whose required songs are all complete.
func (s *Session) completedPacks(ctx context.Context, userID uuid.UUID) (Result, error) {
	packs, err := s.agg.repo.ListPacksWithSongs(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list packs: %w", err)
	}

	var songs []entity.Song
	for _, pack := range packs {
		songs = append(songs, pack.Songs...)
	}
	completions, err := s.songCompletions(ctx, songs)
	if err != nil {
		return Result{}, err
	}

	done := 0
	for _, pack := range packs {
		rollups := make([]workflowService.SongRollup, len(pack.Songs))
		for i, song := range pack.Songs {
			rollups[i] = workflowService.SongRollup{Optional: song.Optional, Completion: completions[song.ID]}
		}
		if workflowService.PackStrict(rollups).IsComplete {
			done++
		}
	}
	return Result{Value: done}, nil
}
