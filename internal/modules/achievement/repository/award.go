package repository

import (
	"context"
	"errors"
	"strings"

	"anoa.com/trackforge/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Outcome string

const (
	OutcomeAwarded     Outcome = "awarded"
	OutcomeAlreadyHeld Outcome = "already_held"
	OutcomeNotFound    Outcome = "not_found"
	// OutcomeUnknownUser means the user id does not resolve to an account.
	OutcomeUnknownUser Outcome = "unknown_user"
)

type AwardResult struct {
	Outcome     Outcome
	Achievement *entity.Achievement
}

// errAbort ends the transaction without an error reaching the caller; the
// outcome has already been recorded.
var errAbort = errors.New("award aborted")

// Award resolves the achievement, inserts the user_achievements row and adds
// the points to user_stats in one transaction. A unique violation on insert
// means a concurrent evaluation won the race and is reported as already held.
func (r *achievementRepository) Award(ctx context.Context, userID uuid.UUID, code string) (*AwardResult, error) {
	result := &AwardResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var achievement entity.Achievement
		if err := tx.Where("code = ?", code).First(&achievement).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Outcome = OutcomeNotFound
				return errAbort
			}
			return err
		}
		result.Achievement = &achievement

		var users int64
		if err := tx.Model(&entity.User{}).Where("id = ?", userID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			result.Outcome = OutcomeUnknownUser
			return errAbort
		}

		var held int64
		err := tx.Model(&entity.UserAchievement{}).
			Where("user_id = ? AND achievement_id = ?", userID, achievement.ID).
			Count(&held).Error
		if err != nil {
			return err
		}
		if held > 0 {
			result.Outcome = OutcomeAlreadyHeld
			return errAbort
		}

		award := &entity.UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
			EarnedAt:      r.now(),
		}
		if err := tx.Create(award).Error; err != nil {
			if isUniqueViolation(err) {
				result.Outcome = OutcomeAlreadyHeld
				return errAbort
			}
			return err
		}

		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_points":    gorm.Expr("user_stats.total_points + ?", achievement.Points),
				"last_updated_at": r.now(),
			}),
		}).Create(&entity.UserStats{UserID: userID, TotalPoints: achievement.Points}).Error
		if err != nil {
			return err
		}

		result.Outcome = OutcomeAwarded
		return nil
	})
	if errors.Is(err, errAbort) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key")
}
