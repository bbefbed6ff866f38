package service

import (
	"context"
	"fmt"

	achievementRepo "anoa.com/trackforge/internal/modules/achievement/repository"
	"github.com/google/uuid"
)

func (s *achievementService) AwardSpecial(ctx context.Context, userID uuid.UUID, code string) (achievementRepo.Outcome, error) {
	return s.award(ctx, userID, code)
}

// award runs the award transaction and, once it has committed, notifies the
// user. Unknown codes and users are logged and reported through the outcome.
func (s *achievementService) award(ctx context.Context, userID uuid.UUID, code string) (achievementRepo.Outcome, error) {
	result, err := s.repo.Award(ctx, userID, code)
	if err != nil {
		return "", fmt.Errorf("award %s: %w", code, err)
	}

	switch result.Outcome {
	case achievementRepo.OutcomeAwarded:
		s.log.Info("achievement awarded", "user_id", userID, "code", code, "points", result.Achievement.Points)
		s.notify(ctx, userID, result)
	case achievementRepo.OutcomeNotFound:
		s.log.Warn("award skipped: unknown achievement", "user_id", userID, "code", code)
	case achievementRepo.OutcomeUnknownUser:
		s.log.Warn("award skipped: unknown user", "user_id", userID, "code", code)
	case achievementRepo.OutcomeAlreadyHeld:
		s.log.Debug("achievement already held", "user_id", userID, "code", code)
	}
	return result.Outcome, nil
}

func (s *achievementService) notify(ctx context.Context, userID uuid.UUID, result *achievementRepo.AwardResult) {
	if s.notifier == nil {
		return
	}
	a := result.Achievement
	title := "Achievement unlocked: " + a.Name
	message := a.Description
	if a.Points > 0 {
		message = fmt.Sprintf("%s (+%d points)", a.Description, a.Points)
	}
	if err := s.notifier.NotifyAchievement(ctx, userID, title, message, a.ID); err != nil {
		s.log.Warn("achievement notification failed", "user_id", userID, "code", a.Code, "error", err)
	}
}
