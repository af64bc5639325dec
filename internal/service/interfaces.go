package service

import (
	"context"
	"time"

	"github.com/JonnyWalker81/habitual/internal/models"
)

// HabitService defines the interface for habit business logic
type HabitService interface {
	ListHabits(ctx context.Context, userID string) ([]models.HabitSummary, error)
	CreateHabit(ctx context.Context, userID string, req *models.CreateHabitRequest) (*models.HabitSummary, error)
	GetHabit(ctx context.Context, userID, habitID string) (*models.HabitDetails, error)
	UpdateHabit(ctx context.Context, userID, habitID string, req *models.UpdateHabitRequest) (*models.HabitSummary, error)
	DeleteHabit(ctx context.Context, userID, habitID string) error
	// MarkComplete and UnmarkComplete default to today when date is nil.
	MarkComplete(ctx context.Context, userID, habitID string, date *time.Time) (*models.CompletionResult, error)
	UnmarkComplete(ctx context.Context, userID, habitID string, date *time.Time) (*models.CompletionResult, error)
	CheckSchedule(ctx context.Context, userID, habitID string, date *time.Time) (*models.ScheduleCheck, error)
}

// GoalService defines the interface for goal business logic
type GoalService interface {
	ListGoals(ctx context.Context, userID string) ([]models.GoalResponse, error)
	ActiveGoalsSummary(ctx context.Context, userID string) ([]models.GoalSummary, error)
	CreateGoal(ctx context.Context, userID string, req *models.CreateGoalRequest) (*models.GoalResponse, error)
	GetGoal(ctx context.Context, userID, goalID string) (*models.GoalDetails, error)
	UpdateGoal(ctx context.Context, userID, goalID string, req *models.UpdateGoalRequest) (*models.GoalResponse, error)
	DeleteGoal(ctx context.Context, userID, goalID string) error
	AddProgress(ctx context.Context, userID, goalID string, req *models.AddProgressRequest) (*models.GoalResponse, error)
	DeleteProgress(ctx context.Context, userID, progressID string) (*models.GoalResponse, error)
	ListProgress(ctx context.Context, userID, goalID string) ([]models.ProgressEntry, error)
	Statistics(ctx context.Context, userID, goalID string) (*models.GoalStatistics, error)
}

// CalendarService builds the month grid and the activity heatmap
type CalendarService interface {
	MonthCalendar(ctx context.Context, userID string, year, month int) (*models.CalendarMonth, error)
	// Heatmap defaults to the trailing 365 days when a bound is nil.
	Heatmap(ctx context.Context, userID string, start, end *time.Time) ([]models.HeatmapDay, error)
}

// DashboardService builds the home screen summary
type DashboardService interface {
	Dashboard(ctx context.Context, userID string) (*models.Dashboard, error)
}

// InsightsService produces the weekly summary. It never fails; problems are
// logged and reported through a placeholder result.
type InsightsService interface {
	WeeklyInsights(ctx context.Context, userID string) *models.WeeklyInsights
}

// JournalService defines the interface for journal business logic
type JournalService interface {
	ListEntries(ctx context.Context, userID string, q models.JournalQuery) (*models.JournalList, error)
	CreateEntry(ctx context.Context, userID string, req *models.CreateJournalEntryRequest) (*models.JournalEntryDetails, error)
	GetEntry(ctx context.Context, userID, entryID string) (*models.JournalEntryDetails, error)
	UpdateEntry(ctx context.Context, userID, entryID string, req *models.UpdateJournalEntryRequest) (*models.JournalEntryDetails, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error
	ToggleFavorite(ctx context.Context, userID, entryID string) (*models.JournalEntryDetails, error)
	Stats(ctx context.Context, userID string) (*models.JournalStats, error)
	Tags(ctx context.Context, userID string) ([]string, error)
}

// ProfileService reports account-wide totals
type ProfileService interface {
	Stats(ctx context.Context, userID string) (*models.ProfileStats, error)
}
