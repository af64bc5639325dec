package models

import "time"

// DefaultHabitColor is used when a habit is created without a colour.
const DefaultHabitColor = "#3b82f6"

// Habit is a recurring activity owned by one user.
type Habit struct {
	ID             string            `json:"id" gorm:"primaryKey;size:36"`
	UserID         string            `json:"user_id" gorm:"size:64;not null;index"`
	Title          string            `json:"title" gorm:"size:100;not null"`
	Description    *string           `json:"description,omitempty" gorm:"size:500"`
	IconName       *string           `json:"icon_name,omitempty" gorm:"size:50"`
	Color          string            `json:"color" gorm:"size:20"`
	RecurrenceType RecurrenceType    `json:"recurrence_type" gorm:"size:20;not null"`
	CustomDays     *string           `json:"-" gorm:"size:50"`
	IsActive       bool              `json:"is_active" gorm:"not null"`
	CreatedAt      time.Time         `json:"created_at"`
	Completions    []HabitCompletion `json:"-" gorm:"foreignKey:HabitID"`
}

// Recurrence decodes the stored schedule.
func (h *Habit) Recurrence() Recurrence {
	return DecodeRecurrence(h.RecurrenceType, h.CustomDays)
}

// SetRecurrence stores r on the habit.
func (h *Habit) SetRecurrence(r Recurrence) {
	h.RecurrenceType = r.Type()
	h.CustomDays = EncodeCustomDays(r)
}

// IsScheduledOn reports whether the habit is due on date.
func (h *Habit) IsScheduledOn(date time.Time) bool {
	return IsScheduled(h.Recurrence(), date)
}

// HabitCompletion marks a habit as done on one calendar day.
type HabitCompletion struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	HabitID       string    `json:"habit_id" gorm:"size:36;not null;uniqueIndex:idx_habit_completed_date"`
	CompletedDate time.Time `json:"completed_date" gorm:"not null;uniqueIndex:idx_habit_completed_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateHabitRequest is the body of POST /api/v1/habits
type CreateHabitRequest struct {
	Title          string         `json:"title" binding:"required,max=100"`
	Description    *string        `json:"description" binding:"omitempty,max=500"`
	IconName       *string        `json:"icon_name" binding:"omitempty,max=50"`
	Color          *string        `json:"color" binding:"omitempty,max=20"`
	RecurrenceType RecurrenceType `json:"recurrence_type" binding:"omitempty,oneof=daily weekdays weekends custom"`
	CustomDays     []int          `json:"custom_days" binding:"omitempty,dive,min=0,max=6"`
}

// UpdateHabitRequest is the body of PUT /api/v1/habits/:id. Absent fields are
// left unchanged; description and icon can be cleared with null.
type UpdateHabitRequest struct {
	Title          *string         `json:"title" binding:"omitempty,min=1,max=100"`
	Description    NullableString  `json:"description"`
	IconName       NullableString  `json:"icon_name"`
	Color          *string         `json:"color" binding:"omitempty,max=20"`
	IsActive       *bool           `json:"is_active"`
	RecurrenceType *RecurrenceType `json:"recurrence_type" binding:"omitempty,oneof=daily weekdays weekends custom"`
	CustomDays     []int           `json:"custom_days" binding:"omitempty,dive,min=0,max=6"`
}

// HabitSummary is a habit with its current standing, used by lists and the
// dashboard.
type HabitSummary struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      *string        `json:"description,omitempty"`
	IconName         *string        `json:"icon_name,omitempty"`
	Color            string         `json:"color"`
	IsActive         bool           `json:"is_active"`
	CreatedAt        time.Time      `json:"created_at"`
	RecurrenceType   RecurrenceType `json:"recurrence_type"`
	CustomDays       []int          `json:"custom_days,omitempty"`
	ScheduleDisplay  string         `json:"schedule_display"`
	CurrentStreak    int            `json:"current_streak"`
	IsCompletedToday bool           `json:"is_completed_today"`
	IsScheduledToday bool           `json:"is_scheduled_today"`
	// Last7Days runs oldest first. Days the habit was not due show as true.
	Last7Days []bool `json:"last_7_days"`
}

// HabitDetails extends HabitSummary with history.
type HabitDetails struct {
	HabitSummary
	LongestStreak     int                  `json:"longest_streak"`
	TotalCompletions  int                  `json:"total_completions"`
	CompletionHistory []HabitCompletionDay `json:"completion_history"`
}

// HabitCompletionDay is one day of a habit's history
type HabitCompletionDay struct {
	Date        Date `json:"date"`
	IsCompleted bool `json:"is_completed"`
}

// CompletionResult is returned by the mark and unmark endpoints.
type CompletionResult struct {
	HabitID   string `json:"habit_id"`
	Date      Date   `json:"date"`
	Completed bool   `json:"completed"`
}

// ScheduleCheck is returned by GET /api/v1/habits/:id/schedule
type ScheduleCheck struct {
	HabitID     string `json:"habit_id"`
	Date        Date   `json:"date"`
	IsScheduled bool   `json:"is_scheduled"`
}

func (Habit) TableName() string           { return "habits" }
func (HabitCompletion) TableName() string { return "habit_completions" }
