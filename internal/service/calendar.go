package service

import (
	"context"
	"math"
	"time"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/models"
	"github.com/JonnyWalker81/habitual/internal/repository"
	"github.com/shopspring/decimal"
)

// Heatmap level upper bounds, in percent. Rates above HeatmapLevel3Max are level 4.
const (
	HeatmapLevel1Max = 25.0
	HeatmapLevel2Max = 50.0
	HeatmapLevel3Max = 75.0
)

const (
	// HeatmapDefaultDays is the default heatmap range ending today.
	HeatmapDefaultDays = 365
	// HeatmapMaxDays bounds a requested heatmap range.
	HeatmapMaxDays = 366 * 2
	calendarCells  = 6 * 7
)

// heatmapCell rounds rate to one decimal and buckets the rounded value, so
// the level always agrees with the rate a client sees.
func heatmapCell(rate float64) (float64, int) {
	rounded := math.Round(rate*10) / 10
	return rounded, HeatmapLevel(rounded)
}

// HeatmapLevel buckets a completion rate into 0..4.
func HeatmapLevel(rate float64) int {
	switch {
	case rate <= 0:
		return 0
	case rate <= HeatmapLevel1Max:
		return 1
	case rate <= HeatmapLevel2Max:
		return 2
	case rate <= HeatmapLevel3Max:
		return 3
	default:
		return 4
	}
}

type calendarService struct {
	habitRepo repository.HabitRepository
	goalRepo  repository.GoalRepository
	clock     clock.Clock
}

// NewCalendarService creates a new calendar service
func NewCalendarService(habitRepo repository.HabitRepository, goalRepo repository.GoalRepository, c clock.Clock) CalendarService {
	return &calendarService{habitRepo: habitRepo, goalRepo: goalRepo, clock: c}
}

func (s *calendarService) MonthCalendar(ctx context.Context, userID string, year, month int) (*models.CalendarMonth, error) {
	if month < 1 || month > 12 {
		return nil, validationf("month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return nil, validationf("year must be between 1 and 9999")
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := gridStart.AddDate(0, 0, calendarCells-1)
	today := clock.Today(s.clock)

	// Full history: the current streak can reach back before the grid.
	habits, err := s.habitRepo.ListByUser(ctx, userID, repository.HabitQuery{})
	if err != nil {
		return nil, err
	}
	progress, err := s.goalRepo.ListProgressByUserAndRange(ctx, userID,
		clock.StartOfDay(s.clock, gridStart), clock.EndOfDay(s.clock, gridEnd))
	if err != nil {
		return nil, err
	}

	var active []models.Habit
	for _, h := range habits {
		if h.IsActive {
			active = append(active, h)
		}
	}
	activeDays := habitDaysOf(active)

	progressByDay := make(map[string][]models.GoalProgress)
	for _, p := range progress {
		key := clock.Key(clock.LocalDate(s.clock, p.CreatedAt))
		progressByDay[key] = append(progressByDay[key], p)
	}

	weeks := make([][]models.CalendarDay, 0, 6)
	for w := 0; w < 6; w++ {
		week := make([]models.CalendarDay, 0, 7)
		for d := 0; d < 7; d++ {
			day := gridStart.AddDate(0, 0, w*7+d)
			week = append(week, s.calendarDay(day, first, today, active, activeDays, progressByDay[clock.Key(day)]))
		}
		weeks = append(weeks, week)
	}

	return &models.CalendarMonth{
		Year:            year,
		Month:           month,
		MonthName:       first.Month().String(),
		FirstDayOfMonth: models.NewDate(first),
		LastDayOfMonth:  models.NewDate(last),
		Weeks:           weeks,
		Habits:          habitCalendarData(habits, gridStart, gridEnd),
		Stats:           s.monthStats(first, last, today, activeDays, progressByDay),
	}, nil
}

func (s *calendarService) calendarDay(day, first, today time.Time, active []models.Habit, activeDays []HabitDays, progress []models.GoalProgress) models.CalendarDay {
	cell := models.CalendarDay{
		Date:           models.NewDate(day),
		IsCurrentMonth: day.Month() == first.Month() && day.Year() == first.Year(),
		IsToday:        day.Equal(today),
		HabitStatuses:  []models.HabitCompletionStatus{},
		GoalProgress:   []models.GoalProgressEntry{},
	}

	for i, h := range active {
		if !models.IsScheduled(activeDays[i].Rule, day) {
			continue
		}
		done := activeDays[i].Done.has(day)
		cell.HabitStatuses = append(cell.HabitStatuses, models.HabitCompletionStatus{
			HabitID:     h.ID,
			HabitTitle:  h.Title,
			Color:       h.Color,
			IconName:    h.IconName,
			IsCompleted: done,
			IsScheduled: true,
		})
		cell.TotalScheduledHabits++
		if done {
			cell.CompletedHabits++
		}
	}
	cell.HasHabits = cell.TotalScheduledHabits > 0
	cell.CompletionPercentage = completionRate(cell.TotalScheduledHabits, cell.CompletedHabits)

	for _, p := range progress {
		entry := models.GoalProgressEntry{GoalID: p.GoalID, ProgressValue: p.Value, Notes: p.Notes}
		if p.Goal != nil {
			entry.GoalTitle = p.Goal.Title
			entry.Unit = p.Goal.Unit
		}
		cell.GoalProgress = append(cell.GoalProgress, entry)
	}
	return cell
}

// monthStats summarises the month over active habits. Days with nothing due
// count as 0 in the average.
func (s *calendarService) monthStats(first, last, today time.Time, habits []HabitDays, progressByDay map[string][]models.GoalProgress) models.CalendarStats {
	stats := models.CalendarStats{
		TotalActiveHabits: len(habits),
		GoalProgressValue: decimal.Zero,
		CurrentStreak:     AggregateCurrentStreak(habits, today),
		LongestStreak:     AggregateLongestStreak(habits, first, last),
	}

	var sum, best float64
	days := 0
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		scheduled, completed := dayCounts(habits, day)
		rate := completionRate(scheduled, completed)
		stats.DailyRates = append(stats.DailyRates, models.DailyCompletionRate{Date: models.NewDate(day), Rate: rate})
		sum += rate
		best = max(best, rate)
		days++

		for _, p := range progressByDay[clock.Key(day)] {
			stats.TotalGoalProgress++
			stats.GoalProgressValue = stats.GoalProgressValue.Add(p.Value)
		}
	}
	stats.AverageCompletionRate = int(math.Round(sum / float64(days)))
	stats.BestDay = int(best)
	return stats
}

// habitCalendarData lists every habit with its completion and schedule maps
// over [start, end].
func habitCalendarData(habits []models.Habit, start, end time.Time) []models.HabitCalendarData {
	out := make([]models.HabitCalendarData, 0, len(habits))
	for i := range habits {
		h := &habits[i]
		hd := NewHabitDays(h)
		data := models.HabitCalendarData{
			ID:             h.ID,
			Title:          h.Title,
			Color:          h.Color,
			IconName:       h.IconName,
			IsActive:       h.IsActive,
			CompletionData: make(map[string]bool),
			ScheduleData:   make(map[string]bool),
		}
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			key := clock.Key(day)
			data.CompletionData[key] = hd.Done.has(day)
			data.ScheduleData[key] = models.IsScheduled(hd.Rule, day)
		}
		out = append(out, data)
	}
	return out
}

func (s *calendarService) Heatmap(ctx context.Context, userID string, start, end *time.Time) ([]models.HeatmapDay, error) {
	to := clock.Today(s.clock)
	if end != nil {
		to = clock.DateOf(*end)
	}
	from := to.AddDate(0, 0, -HeatmapDefaultDays)
	if start != nil {
		from = clock.DateOf(*start)
	}
	if from.After(to) {
		return nil, validationf("start must not be after end")
	}
	if clock.DaysBetween(from, to) > HeatmapMaxDays {
		return nil, validationf("range cannot exceed %d days", HeatmapMaxDays)
	}

	habits, err := s.habitRepo.ListByUser(ctx, userID, repository.HabitQuery{
		ActiveOnly:      true,
		CompletionsFrom: &from,
		CompletionsTo:   &to,
	})
	if err != nil {
		return nil, err
	}
	days := habitDaysOf(habits)

	out := make([]models.HeatmapDay, 0, clock.DaysBetween(from, to)+1)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		scheduled, completed := dayCounts(days, day)
		rate, level := heatmapCell(completionRate(scheduled, completed))
		out = append(out, models.HeatmapDay{
			Date:           models.NewDate(day),
			CompletedCount: completed,
			TotalScheduled: scheduled,
			CompletionRate: rate,
			Level:          level,
		})
	}
	return out, nil
}
