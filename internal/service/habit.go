package service

import (
	"context"
	"strings"
	"time"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/logger"
	"github.com/JonnyWalker81/habitual/internal/models"
	"github.com/JonnyWalker81/habitual/internal/repository"
)

// HistoryDays is the length of the completion history on habit details.
const HistoryDays = 30

type habitService struct {
	habitRepo repository.HabitRepository
	clock     clock.Clock
}

// NewHabitService creates a new habit service
func NewHabitService(habitRepo repository.HabitRepository, c clock.Clock) HabitService {
	return &habitService{habitRepo: habitRepo, clock: c}
}

func (s *habitService) ListHabits(ctx context.Context, userID string) ([]models.HabitSummary, error) {
	habits, err := s.habitRepo.ListByUser(ctx, userID, repository.HabitQuery{})
	if err != nil {
		return nil, err
	}
	today := clock.Today(s.clock)
	out := make([]models.HabitSummary, len(habits))
	for i := range habits {
		out[i] = habitSummary(&habits[i], today)
	}
	return out, nil
}

func (s *habitService) CreateHabit(ctx context.Context, userID string, req *models.CreateHabitRequest) (*models.HabitSummary, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	rule, err := recurrenceFrom(req.RecurrenceType, req.CustomDays)
	if err != nil {
		return nil, err
	}

	habit := &models.Habit{
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		IconName:    req.IconName,
		Color:       models.DefaultHabitColor,
		IsActive:    true,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if req.Color != nil && *req.Color != "" {
		habit.Color = *req.Color
	}
	habit.SetRecurrence(rule)

	created, err := s.habitRepo.Create(ctx, habit)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("habit created",
		logger.String("habit_id", created.ID),
		logger.String("recurrence", string(created.RecurrenceType)))

	summary := habitSummary(created, clock.Today(s.clock))
	return &summary, nil
}

func (s *habitService) GetHabit(ctx context.Context, userID, habitID string) (*models.HabitDetails, error) {
	habit, err := s.habitRepo.GetByID(ctx, userID, habitID)
	if err != nil {
		return nil, mapRepoErr(err, "get habit")
	}

	today := clock.Today(s.clock)
	done := newDateSet(completionDates(habit))
	history := make([]models.HabitCompletionDay, 0, HistoryDays)
	for i := HistoryDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		history = append(history, models.HabitCompletionDay{Date: models.NewDate(day), IsCompleted: done.has(day)})
	}

	return &models.HabitDetails{
		HabitSummary:      habitSummary(habit, today),
		LongestStreak:     LongestStreak(completionDates(habit)),
		TotalCompletions:  len(habit.Completions),
		CompletionHistory: history,
	}, nil
}

func (s *habitService) UpdateHabit(ctx context.Context, userID, habitID string, req *models.UpdateHabitRequest) (*models.HabitSummary, error) {
	habit, err := s.habitRepo.GetByID(ctx, userID, habitID)
	if err != nil {
		return nil, mapRepoErr(err, "update habit")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, validationf("title cannot be empty")
		}
		habit.Title = title
	}
	req.Description.Apply(&habit.Description)
	req.IconName.Apply(&habit.IconName)
	if req.Color != nil {
		habit.Color = *req.Color
		if habit.Color == "" {
			habit.Color = models.DefaultHabitColor
		}
	}
	if req.IsActive != nil {
		habit.IsActive = *req.IsActive
	}

	switch {
	case req.RecurrenceType != nil:
		rule, err := recurrenceFrom(*req.RecurrenceType, req.CustomDays)
		if err != nil {
			return nil, err
		}
		habit.SetRecurrence(rule)
	case req.CustomDays != nil && habit.RecurrenceType == models.RecurrenceCustom:
		rule, err := recurrenceFrom(models.RecurrenceCustom, req.CustomDays)
		if err != nil {
			return nil, err
		}
		habit.SetRecurrence(rule)
	}

	updated, err := s.habitRepo.Update(ctx, habit)
	if err != nil {
		return nil, mapRepoErr(err, "update habit")
	}
	summary := habitSummary(updated, clock.Today(s.clock))
	return &summary, nil
}

func (s *habitService) DeleteHabit(ctx context.Context, userID, habitID string) error {
	if err := s.habitRepo.Delete(ctx, userID, habitID); err != nil {
		return mapRepoErr(err, "delete habit")
	}
	logger.FromContext(ctx).Info("habit deleted", logger.String("habit_id", habitID))
	return nil
}

func (s *habitService) MarkComplete(ctx context.Context, userID, habitID string, date *time.Time) (*models.CompletionResult, error) {
	day, err := s.completionDay(date)
	if err != nil {
		return nil, err
	}
	if _, err := s.habitRepo.GetByID(ctx, userID, habitID); err != nil {
		return nil, mapRepoErr(err, "mark habit")
	}

	created, err := s.habitRepo.AddCompletion(ctx, &models.HabitCompletion{
		HabitID:       habitID,
		CompletedDate: day,
		CreatedAt:     s.clock.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if !created {
		logger.FromContext(ctx).Debug("habit already completed",
			logger.String("habit_id", habitID), logger.String("date", clock.Key(day)))
	}
	return &models.CompletionResult{HabitID: habitID, Date: models.NewDate(day), Completed: true}, nil
}

func (s *habitService) UnmarkComplete(ctx context.Context, userID, habitID string, date *time.Time) (*models.CompletionResult, error) {
	day, err := s.completionDay(date)
	if err != nil {
		return nil, err
	}
	if _, err := s.habitRepo.GetByID(ctx, userID, habitID); err != nil {
		return nil, mapRepoErr(err, "unmark habit")
	}
	if _, err := s.habitRepo.RemoveCompletion(ctx, habitID, day); err != nil {
		return nil, err
	}
	return &models.CompletionResult{HabitID: habitID, Date: models.NewDate(day), Completed: false}, nil
}

func (s *habitService) CheckSchedule(ctx context.Context, userID, habitID string, date *time.Time) (*models.ScheduleCheck, error) {
	habit, err := s.habitRepo.GetByID(ctx, userID, habitID)
	if err != nil {
		return nil, mapRepoErr(err, "check schedule")
	}
	day := clock.Today(s.clock)
	if date != nil {
		day = clock.DateOf(*date)
	}
	return &models.ScheduleCheck{HabitID: habit.ID, Date: models.NewDate(day), IsScheduled: habit.IsScheduledOn(day)}, nil
}

// completionDay resolves the day a toggle applies to. Future days are rejected.
func (s *habitService) completionDay(date *time.Time) (time.Time, error) {
	today := clock.Today(s.clock)
	if date == nil {
		return today, nil
	}
	day := clock.DateOf(*date)
	if day.After(today) {
		return time.Time{}, validationf("cannot complete a habit on a future date")
	}
	return day, nil
}

// recurrenceFrom builds a rule from request fields. A custom rule must name
// at least one weekday.
func recurrenceFrom(t models.RecurrenceType, days []int) (models.Recurrence, error) {
	rule := models.NewRecurrence(t, days)
	if c, ok := rule.(models.CustomDays); ok && len(c.Days) == 0 {
		return nil, validationf("custom recurrence needs at least one day between 0 and 6")
	}
	return rule, nil
}

// habitSummary describes h as of today using the completions loaded on it.
func habitSummary(h *models.Habit, today time.Time) models.HabitSummary {
	dates := completionDates(h)
	done := newDateSet(dates)
	rule := h.Recurrence()

	last7 := make([]bool, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		last7 = append(last7, done.has(day) || !models.IsScheduled(rule, day))
	}

	return models.HabitSummary{
		ID:               h.ID,
		Title:            h.Title,
		Description:      h.Description,
		IconName:         h.IconName,
		Color:            h.Color,
		IsActive:         h.IsActive,
		CreatedAt:        h.CreatedAt,
		RecurrenceType:   h.RecurrenceType,
		CustomDays:       models.WeekdayInts(rule),
		ScheduleDisplay:  models.ScheduleDisplay(rule),
		CurrentStreak:    CurrentStreak(dates, today),
		IsCompletedToday: done.has(today),
		IsScheduledToday: models.IsScheduled(rule, today),
		Last7Days:        last7,
	}
}
