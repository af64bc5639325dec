package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type habitRepository struct {
	db *gorm.DB
}

// NewHabitRepository creates a new habit repository
func NewHabitRepository(db *gorm.DB) HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) Create(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	if habit.ID == "" {
		habit.ID = newID()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(habit).Error; err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}
	return habit, nil
}

func (r *habitRepository) GetByID(ctx context.Context, userID, habitID string) (*models.Habit, error) {
	var habit models.Habit
	err := r.db.WithContext(ctx).
		Preload("Completions", func(db *gorm.DB) *gorm.DB {
			return db.Order("completed_date ASC")
		}).
		Where("user_id = ? AND id = ?", userID, habitID).
		First(&habit).Error
	if err != nil {
		return nil, notFound(err, "failed to get habit")
	}
	return &habit, nil
}

func (r *habitRepository) ListByUser(ctx context.Context, userID string, q HabitQuery) ([]models.Habit, error) {
	tx := r.db.WithContext(ctx).
		Preload("Completions", func(db *gorm.DB) *gorm.DB {
			if q.CompletionsFrom != nil {
				db = db.Where("completed_date >= ?", clock.DateOf(*q.CompletionsFrom))
			}
			if q.CompletionsTo != nil {
				db = db.Where("completed_date <= ?", clock.DateOf(*q.CompletionsTo))
			}
			return db.Order("completed_date ASC")
		}).
		Where("user_id = ?", userID)
	if q.ActiveOnly {
		tx = tx.Where("is_active = ?", true)
	}

	var habits []models.Habit
	if err := tx.Order("created_at DESC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	return habits, nil
}

func (r *habitRepository) Update(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Habit{}).
		Where("user_id = ? AND id = ?", habit.UserID, habit.ID).
		Updates(map[string]any{
			"title":           habit.Title,
			"description":     habit.Description,
			"icon_name":       habit.IconName,
			"color":           habit.Color,
			"recurrence_type": habit.RecurrenceType,
			"custom_days":     habit.CustomDays,
			"is_active":       habit.IsActive,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update habit: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, habit.UserID, habit.ID)
}

// Delete removes the habit and its completions in one transaction.
func (r *habitRepository) Delete(ctx context.Context, userID, habitID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var habit models.Habit
		if err := tx.Where("user_id = ? AND id = ?", userID, habitID).First(&habit).Error; err != nil {
			return notFound(err, "failed to delete habit")
		}
		if err := tx.Where("habit_id = ?", habit.ID).Delete(&models.HabitCompletion{}).Error; err != nil {
			return fmt.Errorf("failed to delete habit completions: %w", err)
		}
		if err := tx.Delete(&habit).Error; err != nil {
			return fmt.Errorf("failed to delete habit: %w", err)
		}
		return nil
	})
}

func (r *habitRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Habit{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count habits: %w", err)
	}
	return n, nil
}

func (r *habitRepository) AddCompletion(ctx context.Context, completion *models.HabitCompletion) (bool, error) {
	if completion.ID == "" {
		completion.ID = newID()
	}
	completion.CompletedDate = clock.DateOf(completion.CompletedDate)

	// A concurrent insert for the same day loses on the unique index and is
	// reported as "already completed".
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "habit_id"}, {Name: "completed_date"}},
			DoNothing: true,
		}).
		Create(completion)
	if res.Error != nil {
		return false, fmt.Errorf("failed to add completion: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *habitRepository) RemoveCompletion(ctx context.Context, habitID string, date time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("habit_id = ? AND completed_date = ?", habitID, clock.DateOf(date)).
		Delete(&models.HabitCompletion{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove completion: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// notFound maps gorm's missing-row error to ErrNotFound and wraps anything
// else with msg.
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
