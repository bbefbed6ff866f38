package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"anoa.com/trackforge/internal/entity"
	workflowDto "anoa.com/trackforge/internal/modules/workflow/dto"
	workflowRepo "anoa.com/trackforge/internal/modules/workflow/repository"
	"anoa.com/trackforge/pkg/apperror"
	"anoa.com/trackforge/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AchievementTrigger re-evaluates one metric family for a user after a
// workflow write.
type AchievementTrigger interface {
	EvaluateFamily(ctx context.Context, userID uuid.UUID, family entity.MetricFamily) ([]string, error)
}

type WorkflowResult struct {
	Workflow        EffectiveWorkflow `json:"workflow"`
	NewAchievements []string          `json:"new_achievements"`
}

type SongProgress struct {
	SongID          uuid.UUID      `json:"song_id"`
	Title           string         `json:"title"`
	Source          WorkflowSource `json:"workflow_source"`
	Steps           []StepStatus   `json:"steps"`
	Completion      Completion     `json:"completion"`
	NewAchievements []string       `json:"new_achievements,omitempty"`
}

type PackSongCompletion struct {
	SongID     uuid.UUID  `json:"song_id"`
	Title      string     `json:"title"`
	Optional   bool       `json:"optional"`
	Completion Completion `json:"completion"`
}

// PackCompletion carries both rollups side by side; Strict drives
// achievements, Coarse drives progress bars.
type PackCompletion struct {
	PackID uuid.UUID            `json:"pack_id"`
	Name   string               `json:"name"`
	Strict StrictRollup         `json:"strict"`
	Coarse Completion           `json:"coarse"`
	Songs  []PackSongCompletion `json:"songs"`
}

type WorkflowService interface {
	GetWorkflow(ctx context.Context, userID uuid.UUID) (*EffectiveWorkflow, error)
	SaveWorkflow(ctx context.Context, userID uuid.UUID, input workflowDto.SaveWorkflowRequest) (*WorkflowResult, error)
	ResetWorkflow(ctx context.Context, userID uuid.UUID) (*WorkflowResult, error)
	GetSongProgress(ctx context.Context, actorID, songID uuid.UUID) (*SongProgress, error)
	UpdateStep(ctx context.Context, actorID, songID uuid.UUID, stepName string, input workflowDto.UpdateStepRequest) (*SongProgress, error)
	GetPackCompletion(ctx context.Context, actorID, packID uuid.UUID) (*PackCompletion, error)
}

type workflowService struct {
	repo     workflowRepo.WorkflowRepository
	resolver *Resolver
	trigger  AchievementTrigger
	log      *logger.Logger
	now      func() time.Time
}

func NewWorkflowService(repo workflowRepo.WorkflowRepository, resolver *Resolver, trigger AchievementTrigger, log *logger.Logger) WorkflowService {
	return &workflowService{
		repo:     repo,
		resolver: resolver,
		trigger:  trigger,
		log:      log,
		now:      time.Now,
	}
}

func (s *workflowService) GetWorkflow(ctx context.Context, userID uuid.UUID) (*EffectiveWorkflow, error) {
	wf, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &wf, nil
}

func (s *workflowService) SaveWorkflow(ctx context.Context, userID uuid.UUID, input workflowDto.SaveWorkflowRequest) (*WorkflowResult, error) {
	if len(input.Steps) == 0 {
		return nil, apperror.Invalid("workflow needs at least one step")
	}

	seen := make(map[string]bool, len(input.Steps))
	rows := make([]entity.WorkflowStep, 0, len(input.Steps))
	for i, step := range input.Steps {
		name := normalizeStepName(step.StepName)
		if name == "" {
			return nil, apperror.Invalid("step_name is required")
		}
		if seen[name] {
			return nil, apperror.Invalid("duplicate step: " + name)
		}
		seen[name] = true

		display := strings.TrimSpace(step.DisplayName)
		if display == "" {
			display = name
		}
		enabled := true
		if step.IsEnabled != nil {
			enabled = *step.IsEnabled
		}
		rows = append(rows, entity.WorkflowStep{
			StepName:    name,
			DisplayName: display,
			OrderIndex:  i,
			IsEnabled:   enabled,
		})
	}

	if err := s.repo.ReplaceSteps(ctx, userID, rows); err != nil {
		return nil, err
	}
	return s.workflowResult(ctx, userID)
}

func (s *workflowService) ResetWorkflow(ctx context.Context, userID uuid.UUID) (*WorkflowResult, error) {
	if err := s.repo.DeleteSteps(ctx, userID); err != nil {
		return nil, err
	}
	return s.workflowResult(ctx, userID)
}

func (s *workflowService) workflowResult(ctx context.Context, userID uuid.UUID) (*WorkflowResult, error) {
	wf, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WorkflowResult{
		Workflow:        wf,
		NewAchievements: s.evaluate(ctx, userID, entity.FamilyWorkflow, entity.FamilyPacks),
	}, nil
}

func (s *workflowService) GetSongProgress(ctx context.Context, actorID, songID uuid.UUID) (*SongProgress, error) {
	song, err := s.ownedSong(ctx, actorID, songID)
	if err != nil {
		return nil, err
	}
	return s.songProgress(ctx, song)
}

func (s *workflowService) UpdateStep(ctx context.Context, actorID, songID uuid.UUID, stepName string, input workflowDto.UpdateStepRequest) (*SongProgress, error) {
	if input.Completed == nil && input.Irrelevant == nil {
		return nil, apperror.Invalid("completed or irrelevant is required")
	}

	song, err := s.ownedSong(ctx, actorID, songID)
	if err != nil {
		return nil, err
	}

	// Steps are validated against the owner's workflow, not the actor's.
	wf, err := s.resolver.Resolve(ctx, song.UserID)
	if err != nil {
		return nil, err
	}
	stepName = normalizeStepName(stepName)
	if !wf.Has(stepName) {
		return nil, apperror.Invalid("step is not part of this workflow: " + stepName)
	}

	row := &entity.SongStepProgress{SongID: song.ID, StepName: stepName}
	var columns []string
	if input.Completed != nil {
		row.IsCompleted = *input.Completed
		if row.IsCompleted {
			now := s.now()
			row.CompletedAt = &now
		}
		columns = append(columns, "is_completed", "completed_at")
	}
	if input.Irrelevant != nil {
		row.IsIrrelevant = *input.Irrelevant
		columns = append(columns, "is_irrelevant")
	}
	if err := s.repo.UpsertProgress(ctx, row, columns...); err != nil {
		return nil, err
	}

	progress, err := s.songProgress(ctx, song)
	if err != nil {
		return nil, err
	}
	families := []entity.MetricFamily{entity.FamilyWorkflow}
	if song.PackID != nil {
		families = append(families, entity.FamilyPacks)
	}
	progress.NewAchievements = s.evaluate(ctx, song.UserID, families...)
	return progress, nil
}

func (s *workflowService) GetPackCompletion(ctx context.Context, actorID, packID uuid.UUID) (*PackCompletion, error) {
	pack, err := s.repo.FindPack(ctx, packID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("pack not found")
		}
		return nil, err
	}
	if pack.UserID != actorID {
		return nil, apperror.New(http.StatusForbidden, "pack belongs to another user", apperror.ErrForbidden)
	}

	songIDs := make([]uuid.UUID, len(pack.Songs))
	for i, song := range pack.Songs {
		songIDs[i] = song.ID
	}
	rows, err := s.repo.ListProgress(ctx, songIDs)
	if err != nil {
		return nil, err
	}
	bySong := IndexProgress(rows)

	cache := s.resolver.NewCache()
	result := &PackCompletion{PackID: pack.ID, Name: pack.Name, Songs: make([]PackSongCompletion, 0, len(pack.Songs))}
	rollups := make([]SongRollup, 0, len(pack.Songs))
	for _, song := range pack.Songs {
		wf, err := cache.Resolve(ctx, song.UserID)
		if err != nil {
			return nil, err
		}
		completion := SongCompletion(wf.StepNames(), bySong[song.ID.String()])
		rollups = append(rollups, SongRollup{Optional: song.Optional, Completion: completion})
		result.Songs = append(result.Songs, PackSongCompletion{
			SongID:     song.ID,
			Title:      song.Title,
			Optional:   song.Optional,
			Completion: completion,
		})
	}
	result.Strict = PackStrict(rollups)
	result.Coarse = PackCoarse(rollups)
	return result, nil
}

func (s *workflowService) ownedSong(ctx context.Context, actorID, songID uuid.UUID) (*entity.Song, error) {
	song, err := s.repo.FindSong(ctx, songID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("song not found")
		}
		return nil, err
	}
	if song.UserID != actorID {
		return nil, apperror.New(http.StatusForbidden, "song belongs to another user", apperror.ErrForbidden)
	}
	return song, nil
}

func (s *workflowService) songProgress(ctx context.Context, song *entity.Song) (*SongProgress, error) {
	wf, err := s.resolver.Resolve(ctx, song.UserID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListProgress(ctx, []uuid.UUID{song.ID})
	if err != nil {
		return nil, err
	}
	byStep := IndexProgress(rows)[song.ID.String()]
	return &SongProgress{
		SongID:     song.ID,
		Title:      song.Title,
		Source:     wf.Source,
		Steps:      SongSteps(wf, byStep),
		Completion: SongCompletion(wf.StepNames(), byStep),
	}, nil
}

// evaluate runs after the write has committed, so a failure here is logged
// and the write still stands.
func (s *workflowService) evaluate(ctx context.Context, userID uuid.UUID, families ...entity.MetricFamily) []string {
	awarded := []string{}
	if s.trigger == nil {
		return awarded
	}
	for _, family := range families {
		codes, err := s.trigger.EvaluateFamily(ctx, userID, family)
		if err != nil {
			s.log.Warn("achievement evaluation after workflow change failed", "user_id", userID, "family", family, "error", err)
			continue
		}
		awarded = append(awarded, codes...)
	}
	return awarded
}

func normalizeStepName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
