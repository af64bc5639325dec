package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JonnyWalker81/habitual/internal/models"
)

var (
	// ErrNotFound is returned when no row matches both the id and the owner.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when a goal changed between read and
	// write on both attempts.
	ErrVersionConflict = errors.New("goal was modified concurrently")
)

// HabitQuery narrows a habit listing. A nil bound leaves that side open.
type HabitQuery struct {
	ActiveOnly      bool
	CompletionsFrom *time.Time
	CompletionsTo   *time.Time
}

// GoalQuery narrows a goal listing.
type GoalQuery struct {
	OpenOnly     bool // CompletedAt is null
	WithProgress bool // preload the ledger, oldest first
	Limit        int  // 0 means no limit
}

// HabitRepository defines the interface for habit data access
type HabitRepository interface {
	Create(ctx context.Context, habit *models.Habit) (*models.Habit, error)
	GetByID(ctx context.Context, userID, habitID string) (*models.Habit, error)
	ListByUser(ctx context.Context, userID string, q HabitQuery) ([]models.Habit, error)
	Update(ctx context.Context, habit *models.Habit) (*models.Habit, error)
	Delete(ctx context.Context, userID, habitID string) error
	CountByUser(ctx context.Context, userID string) (int64, error)

	// AddCompletion records a completion and reports whether a new row was
	// written. An existing completion for the same day is not an error.
	AddCompletion(ctx context.Context, completion *models.HabitCompletion) (bool, error)
	// RemoveCompletion deletes the completion for date and reports whether a
	// row existed.
	RemoveCompletion(ctx context.Context, habitID string, date time.Time) (bool, error)
}

// GoalRepository defines the interface for goal data access
type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal, initial *models.GoalProgress) (*models.Goal, error)
	GetByID(ctx context.Context, userID, goalID string) (*models.Goal, error)
	ListByUser(ctx context.Context, userID string, q GoalQuery) ([]models.Goal, error)
	// Update writes the editable fields of goal and re-evaluates completion
	// against the (possibly new) target.
	Update(ctx context.Context, goal *models.Goal, now time.Time) (*models.Goal, error)
	Delete(ctx context.Context, userID, goalID string) error
	CountByUser(ctx context.Context, userID string) (total int64, completed int64, err error)

	// AddProgress inserts an entry and recomputes the goal from its ledger in
	// one transaction.
	AddProgress(ctx context.Context, userID, goalID string, progress *models.GoalProgress, now time.Time) (*models.Goal, error)
	// DeleteProgress removes an entry owned (through its goal) by userID and
	// recomputes the goal in one transaction.
	DeleteProgress(ctx context.Context, userID, progressID string, now time.Time) (*models.Goal, error)
	// ListProgressByUserAndRange returns entries created in [from, to] with
	// their goal loaded.
	ListProgressByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]models.GoalProgress, error)
}

// JournalRepository defines the interface for journal data access
type JournalRepository interface {
	Create(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error)
	GetByID(ctx context.Context, userID, entryID string) (*models.JournalEntry, error)
	Update(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error)
	Delete(ctx context.Context, userID, entryID string) error
	Search(ctx context.Context, userID string, q models.JournalQuery) ([]models.JournalEntry, error)
	ListByUser(ctx context.Context, userID string) ([]models.JournalEntry, error)
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]models.JournalEntry, error)
}
