package models

import "github.com/shopspring/decimal"

// CalendarMonth is the 6x7 grid for one month.
type CalendarMonth struct {
	Year            int                 `json:"year"`
	Month           int                 `json:"month"`
	MonthName       string              `json:"month_name"`
	FirstDayOfMonth Date                `json:"first_day_of_month"`
	LastDayOfMonth  Date                `json:"last_day_of_month"`
	Weeks           [][]CalendarDay     `json:"weeks"`
	Habits          []HabitCalendarData `json:"habits"`
	Stats           CalendarStats       `json:"stats"`
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date                 Date                    `json:"date"`
	IsCurrentMonth       bool                    `json:"is_current_month"`
	IsToday              bool                    `json:"is_today"`
	HasHabits            bool                    `json:"has_habits"`
	CompletedHabits      int                     `json:"completed_habits"`
	TotalScheduledHabits int                     `json:"total_scheduled_habits"`
	CompletionPercentage float64                 `json:"completion_percentage"`
	HabitStatuses        []HabitCompletionStatus `json:"habit_statuses"`
	GoalProgress         []GoalProgressEntry     `json:"goal_progress"`
}

// HabitCompletionStatus is a scheduled habit's state on a calendar day.
type HabitCompletionStatus struct {
	HabitID     string  `json:"habit_id"`
	HabitTitle  string  `json:"habit_title"`
	Color       string  `json:"color"`
	IconName    *string `json:"icon_name,omitempty"`
	IsCompleted bool    `json:"is_completed"`
	IsScheduled bool    `json:"is_scheduled"`
}

// GoalProgressEntry is a progress row shown on the day it was recorded.
type GoalProgressEntry struct {
	GoalID        string          `json:"goal_id"`
	GoalTitle     string          `json:"goal_title"`
	ProgressValue decimal.Decimal `json:"progress_value"`
	Unit          *string         `json:"unit,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
}

// HabitCalendarData holds per-date maps for one habit over the grid range.
// Keys are YYYY-MM-DD.
type HabitCalendarData struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Color          string          `json:"color"`
	IconName       *string         `json:"icon_name,omitempty"`
	IsActive       bool            `json:"is_active"`
	CompletionData map[string]bool `json:"completion_data"`
	ScheduleData   map[string]bool `json:"schedule_data"`
}

// CalendarStats summarises a month over active habits.
type CalendarStats struct {
	TotalActiveHabits     int                   `json:"total_active_habits"`
	AverageCompletionRate int                   `json:"average_completion_rate"`
	BestDay               int                   `json:"best_day"`
	CurrentStreak         int                   `json:"current_streak"`
	LongestStreak         int                   `json:"longest_streak"`
	DailyRates            []DailyCompletionRate `json:"daily_rates"`
	TotalGoalProgress     int                   `json:"total_goal_progress"`
	GoalProgressValue     decimal.Decimal       `json:"goal_progress_value"`
}

// DailyCompletionRate is the completion percentage of one day.
type DailyCompletionRate struct {
	Date Date    `json:"date"`
	Rate float64 `json:"rate"`
}

// HeatmapDay is one day of the activity heatmap.
type HeatmapDay struct {
	Date           Date    `json:"date"`
	CompletedCount int     `json:"completed_count"`
	TotalScheduled int     `json:"total_scheduled"`
	CompletionRate float64 `json:"completion_rate"`
	Level          int     `json:"level"`
}

// Dashboard is the home screen summary.
type Dashboard struct {
	TotalHabits          int             `json:"total_habits"`
	ScheduledTodayCount  int             `json:"scheduled_today_count"`
	CompletedTodayCount  int             `json:"completed_today_count"`
	CurrentLongestStreak int             `json:"current_longest_streak"`
	WeeklyCompletionRate float64         `json:"weekly_completion_rate"`
	TodaysHabits         []HabitSummary  `json:"todays_habits"`
	ActiveGoals          []GoalSummary   `json:"active_goals"`
	WeeklyInsights       *WeeklyInsights `json:"weekly_insights"`
}

// ProfileStats is the totals block of the profile page.
type ProfileStats struct {
	TotalHabits    int `json:"total_habits"`
	TotalGoals     int `json:"total_goals"`
	CompletedGoals int `json:"completed_goals"`
	CurrentStreak  int `json:"current_streak"`
}
