package models

import (
	"time"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/shopspring/decimal"
)

// GoalCategory is the closed set of goal categories.
type GoalCategory string

const (
	GoalCategoryPersonal     GoalCategory = "personal"
	GoalCategoryHealth       GoalCategory = "health"
	GoalCategoryCareer       GoalCategory = "career"
	GoalCategoryEducation    GoalCategory = "education"
	GoalCategoryFinance      GoalCategory = "finance"
	GoalCategoryFitness      GoalCategory = "fitness"
	GoalCategoryHobby        GoalCategory = "hobby"
	GoalCategoryTravel       GoalCategory = "travel"
	GoalCategoryRelationship GoalCategory = "relationship"
	GoalCategoryOther        GoalCategory = "other"
)

// Display returns the title-case category name.
func (c GoalCategory) Display() string {
	switch c {
	case GoalCategoryPersonal:
		return "Personal"
	case GoalCategoryHealth:
		return "Health"
	case GoalCategoryCareer:
		return "Career"
	case GoalCategoryEducation:
		return "Education"
	case GoalCategoryFinance:
		return "Finance"
	case GoalCategoryFitness:
		return "Fitness"
	case GoalCategoryHobby:
		return "Hobby"
	case GoalCategoryTravel:
		return "Travel"
	case GoalCategoryRelationship:
		return "Relationship"
	default:
		return "Other"
	}
}

// Goal status labels.
const (
	GoalStatusCompleted  = "Completed"
	GoalStatusOverdue    = "Overdue"
	GoalStatusDueSoon    = "Due Soon"
	GoalStatusInProgress = "In Progress"
)

// DueSoonDays is the horizon under which an open goal is "Due Soon".
const DueSoonDays = 7

// Goal is a quantitative target. CurrentValue is the floored sum of the
// goal's progress ledger.
type Goal struct {
	ID              string          `json:"id" gorm:"primaryKey;size:36"`
	UserID          string          `json:"user_id" gorm:"size:64;not null;index"`
	Title           string          `json:"title" gorm:"size:200;not null"`
	Description     *string         `json:"description,omitempty" gorm:"size:1000"`
	TargetValue     decimal.Decimal `json:"target_value" gorm:"type:decimal(18,2);not null"`
	CurrentValue    decimal.Decimal `json:"current_value" gorm:"type:decimal(18,2);not null"`
	Unit            *string         `json:"unit,omitempty" gorm:"size:50"`
	TargetDate      *time.Time      `json:"target_date,omitempty"`
	Category        GoalCategory    `json:"category" gorm:"size:20;not null"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	Version         int             `json:"-" gorm:"not null"`
	CreatedAt       time.Time       `json:"created_at"`
	ProgressEntries []GoalProgress  `json:"-" gorm:"foreignKey:GoalID"`
}

// IsCompleted reports whether the current value has reached the target.
func (g *Goal) IsCompleted() bool {
	return g.CurrentValue.GreaterThanOrEqual(g.TargetValue)
}

// ProgressPercentage is current/target as a percentage clamped to [0, 100].
func (g *Goal) ProgressPercentage() float64 {
	if !g.TargetValue.IsPositive() {
		return 0
	}
	pct := g.CurrentValue.Div(g.TargetValue).Mul(decimal.NewFromInt(100))
	pct = decimal.Min(pct, decimal.NewFromInt(100))
	pct = decimal.Max(pct, decimal.Zero)
	return pct.InexactFloat64()
}

// IsOverdue reports whether the target date has passed without completion.
func (g *Goal) IsOverdue(today time.Time) bool {
	return g.TargetDate != nil && clock.DateOf(*g.TargetDate).Before(today) && !g.IsCompleted()
}

// DaysRemaining counts days until the target date, never negative.
func (g *Goal) DaysRemaining(today time.Time) int {
	if g.TargetDate == nil {
		return 0
	}
	return max(0, clock.DaysBetween(today, *g.TargetDate))
}

// Status labels the goal for display.
func (g *Goal) Status(today time.Time) string {
	switch {
	case g.IsCompleted():
		return GoalStatusCompleted
	case g.IsOverdue(today):
		return GoalStatusOverdue
	case g.TargetDate != nil && g.DaysRemaining(today) <= DueSoonDays:
		return GoalStatusDueSoon
	default:
		return GoalStatusInProgress
	}
}

// ApplyTotal sets the current value from a ledger sum and updates the
// completion stamp. The value is floored at zero; CompletedAt is set the
// first time the target is reached and cleared when the value drops below it.
func (g *Goal) ApplyTotal(total decimal.Decimal, now time.Time) {
	g.CurrentValue = decimal.Max(total, decimal.Zero)
	if g.IsCompleted() {
		if g.CompletedAt == nil {
			stamp := now
			g.CompletedAt = &stamp
		}
		return
	}
	g.CompletedAt = nil
}

// GoalProgress is one ledger entry of a goal.
type GoalProgress struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	GoalID    string          `json:"goal_id" gorm:"size:36;not null;index"`
	Value     decimal.Decimal `json:"value" gorm:"type:decimal(18,2);not null"`
	Notes     *string         `json:"notes,omitempty" gorm:"size:500"`
	CreatedAt time.Time       `json:"created_at"`
	Goal      *Goal           `json:"-" gorm:"foreignKey:GoalID"`
}

// CreateGoalRequest is the body of POST /api/v1/goals
type CreateGoalRequest struct {
	Title        string           `json:"title" binding:"required,max=200"`
	Description  *string          `json:"description" binding:"omitempty,max=1000"`
	TargetValue  decimal.Decimal  `json:"target_value"`
	CurrentValue *decimal.Decimal `json:"current_value"`
	Unit         *string          `json:"unit" binding:"omitempty,max=50"`
	TargetDate   *Date            `json:"target_date"`
	Category     GoalCategory     `json:"category" binding:"omitempty,oneof=personal health career education finance fitness hobby travel relationship other"`
}

// UpdateGoalRequest is the body of PUT /api/v1/goals/:id
type UpdateGoalRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description NullableString   `json:"description"`
	TargetValue *decimal.Decimal `json:"target_value"`
	Unit        NullableString   `json:"unit"`
	TargetDate  NullableTime     `json:"target_date"`
	Category    *GoalCategory    `json:"category" binding:"omitempty,oneof=personal health career education finance fitness hobby travel relationship other"`
}

// AddProgressRequest is the body of POST /api/v1/goals/:id/progress
type AddProgressRequest struct {
	Value decimal.Decimal `json:"value"`
	Notes *string         `json:"notes" binding:"omitempty,max=500"`
}

// GoalResponse is a goal with its derived fields.
type GoalResponse struct {
	Goal
	IsCompleted        bool    `json:"is_completed"`
	ProgressPercentage float64 `json:"progress_percentage"`
	IsOverdue          bool    `json:"is_overdue"`
	DaysRemaining      int     `json:"days_remaining"`
	CategoryDisplay    string  `json:"category_display"`
	Status             string  `json:"status"`
}

// NewGoalResponse derives the display fields of g as of today.
func NewGoalResponse(g *Goal, today time.Time) GoalResponse {
	return GoalResponse{
		Goal:               *g,
		IsCompleted:        g.IsCompleted(),
		ProgressPercentage: g.ProgressPercentage(),
		IsOverdue:          g.IsOverdue(today),
		DaysRemaining:      g.DaysRemaining(today),
		CategoryDisplay:    g.Category.Display(),
		Status:             g.Status(today),
	}
}

// GoalDetails is a goal with its ledger (newest first) and statistics.
type GoalDetails struct {
	GoalResponse
	ProgressEntries []ProgressEntry `json:"progress_entries"`
	Statistics      GoalStatistics  `json:"statistics"`
}

// ProgressEntry is a ledger row with the running total up to and including it.
type ProgressEntry struct {
	ID           string          `json:"id"`
	Value        decimal.Decimal `json:"value"`
	Notes        *string         `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	RunningTotal decimal.Decimal `json:"running_total"`
}

// GoalSummary is the compact form used on the dashboard.
type GoalSummary struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	TargetValue        decimal.Decimal `json:"target_value"`
	CurrentValue       decimal.Decimal `json:"current_value"`
	Unit               *string         `json:"unit,omitempty"`
	ProgressPercentage float64         `json:"progress_percentage"`
}

// GoalStatistics describes progress pace and projection.
type GoalStatistics struct {
	AverageProgressPerDay    decimal.Decimal `json:"average_progress_per_day"`
	ProjectedCompletionValue decimal.Decimal `json:"projected_completion_value"`
	ProjectedCompletionDate  *Date           `json:"projected_completion_date,omitempty"`
	TotalProgressEntries     int             `json:"total_progress_entries"`
	LargestSingleProgress    decimal.Decimal `json:"largest_single_progress"`
	LastProgressDate         *time.Time      `json:"last_progress_date,omitempty"`
	DaysSinceLastProgress    int             `json:"days_since_last_progress"`
}

func (Goal) TableName() string         { return "goals" }
func (GoalProgress) TableName() string { return "goal_progress" }
