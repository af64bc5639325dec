package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonnyWalker81/habitual/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// errStaleVersion signals that the goal row changed under a transaction.
var errStaleVersion = errors.New("stale goal version")

type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

// Create inserts goal and, when initial is non-nil, its first ledger entry.
// The current value is derived from the ledger.
func (r *goalRepository) Create(ctx context.Context, goal *models.Goal, initial *models.GoalProgress) (*models.Goal, error) {
	if goal.ID == "" {
		goal.ID = newID()
	}
	goal.Version = 1
	goal.CurrentValue = decimal.Zero
	goal.CompletedAt = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(goal).Error; err != nil {
			return fmt.Errorf("failed to create goal: %w", err)
		}
		if initial == nil {
			return nil
		}
		if initial.ID == "" {
			initial.ID = newID()
		}
		initial.GoalID = goal.ID
		if err := tx.Omit(clause.Associations).Create(initial).Error; err != nil {
			return fmt.Errorf("failed to create initial progress: %w", err)
		}
		return recalculate(tx, goal, goal.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepository) GetByID(ctx context.Context, userID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.WithContext(ctx).
		Preload("ProgressEntries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("user_id = ? AND id = ?", userID, goalID).
		First(&goal).Error
	if err != nil {
		return nil, notFound(err, "failed to get goal")
	}
	return &goal, nil
}

func (r *goalRepository) ListByUser(ctx context.Context, userID string, q GoalQuery) ([]models.Goal, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if q.OpenOnly {
		tx = tx.Where("completed_at IS NULL")
	}
	if q.WithProgress {
		tx = tx.Preload("ProgressEntries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var goals []models.Goal
	if err := tx.Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *models.Goal, now time.Time) (*models.Goal, error) {
	var updated models.Goal
	err := r.withRetry(ctx, func(tx *gorm.DB) error {
		current, err := loadGoal(tx, goal.UserID, goal.ID)
		if err != nil {
			return err
		}
		current.Title = goal.Title
		current.Description = goal.Description
		current.TargetValue = goal.TargetValue
		current.Unit = goal.Unit
		current.TargetDate = goal.TargetDate
		current.Category = goal.Category

		total, err := ledgerTotal(tx, current.ID)
		if err != nil {
			return err
		}
		current.ApplyTotal(total, now)
		if err := saveVersioned(tx, current, map[string]any{
			"title":        current.Title,
			"description":  current.Description,
			"target_value": current.TargetValue,
			"unit":         current.Unit,
			"target_date":  current.TargetDate,
			"category":     current.Category,
		}); err != nil {
			return err
		}
		updated = *current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the goal and its ledger in one transaction.
func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goal, err := loadGoal(tx, userID, goalID)
		if err != nil {
			return err
		}
		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.GoalProgress{}).Error; err != nil {
			return fmt.Errorf("failed to delete goal progress: %w", err)
		}
		if err := tx.Delete(goal).Error; err != nil {
			return fmt.Errorf("failed to delete goal: %w", err)
		}
		return nil
	})
}

func (r *goalRepository) CountByUser(ctx context.Context, userID string) (int64, int64, error) {
	var total, completed int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Goal{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count goals: %w", err)
	}
	if err := db.Model(&models.Goal{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Count(&completed).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count completed goals: %w", err)
	}
	return total, completed, nil
}

func (r *goalRepository) AddProgress(ctx context.Context, userID, goalID string, progress *models.GoalProgress, now time.Time) (*models.Goal, error) {
	if progress.ID == "" {
		progress.ID = newID()
	}
	if progress.CreatedAt.IsZero() {
		progress.CreatedAt = now.UTC()
	}

	var updated models.Goal
	err := r.withRetry(ctx, func(tx *gorm.DB) error {
		goal, err := loadGoal(tx, userID, goalID)
		if err != nil {
			return err
		}
		progress.GoalID = goal.ID
		if err := tx.Omit(clause.Associations).Create(progress).Error; err != nil {
			return fmt.Errorf("failed to add progress: %w", err)
		}
		if err := recalculate(tx, goal, now); err != nil {
			return err
		}
		updated = *goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *goalRepository) DeleteProgress(ctx context.Context, userID, progressID string, now time.Time) (*models.Goal, error) {
	var updated models.Goal
	err := r.withRetry(ctx, func(tx *gorm.DB) error {
		var progress models.GoalProgress
		err := tx.Select("goal_progress.*").
			Joins("JOIN goals ON goals.id = goal_progress.goal_id").
			Where("goal_progress.id = ? AND goals.user_id = ?", progressID, userID).
			First(&progress).Error
		if err != nil {
			return notFound(err, "failed to get progress")
		}

		goal, err := loadGoal(tx, userID, progress.GoalID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&progress).Error; err != nil {
			return fmt.Errorf("failed to delete progress: %w", err)
		}
		if err := recalculate(tx, goal, now); err != nil {
			return err
		}
		updated = *goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *goalRepository) ListProgressByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]models.GoalProgress, error) {
	var entries []models.GoalProgress
	err := r.db.WithContext(ctx).
		Select("goal_progress.*").
		Joins("JOIN goals ON goals.id = goal_progress.goal_id").
		Where("goals.user_id = ? AND goal_progress.created_at BETWEEN ? AND ?", userID, from.UTC(), to.UTC()).
		Preload("Goal").
		Order("goal_progress.created_at ASC, goal_progress.id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return entries, nil
}

// withRetry runs fn in a transaction, retrying once when the goal row was
// modified between read and write.
func (r *goalRepository) withRetry(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = r.db.WithContext(ctx).Transaction(fn)
		if !errors.Is(err, errStaleVersion) {
			return err
		}
	}
	return ErrVersionConflict
}

func loadGoal(tx *gorm.DB, userID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	if err := tx.Where("user_id = ? AND id = ?", userID, goalID).First(&goal).Error; err != nil {
		return nil, notFound(err, "failed to get goal")
	}
	return &goal, nil
}

// ledgerTotal sums the goal's progress values.
func ledgerTotal(tx *gorm.DB, goalID string) (decimal.Decimal, error) {
	var values []decimal.Decimal
	if err := tx.Model(&models.GoalProgress{}).Where("goal_id = ?", goalID).Pluck("value", &values).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum progress: %w", err)
	}
	return decimal.Sum(decimal.Zero, values...), nil
}

// recalculate derives the goal's current value and completion stamp from its
// ledger and writes them.
func recalculate(tx *gorm.DB, goal *models.Goal, now time.Time) error {
	total, err := ledgerTotal(tx, goal.ID)
	if err != nil {
		return err
	}
	goal.ApplyTotal(total, now.UTC())
	return saveVersioned(tx, goal, nil)
}

// saveVersioned writes the derived columns plus extra, guarded by the version
// the goal was read at.
func saveVersioned(tx *gorm.DB, goal *models.Goal, extra map[string]any) error {
	cols := map[string]any{
		"current_value": goal.CurrentValue,
		"completed_at":  goal.CompletedAt,
		"version":       goal.Version + 1,
	}
	for k, v := range extra {
		cols[k] = v
	}

	res := tx.Model(&models.Goal{}).
		Where("id = ? AND version = ?", goal.ID, goal.Version).
		Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("failed to update goal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errStaleVersion
	}
	goal.Version++
	return nil
}
