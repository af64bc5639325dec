package service

import (
	"context"
	"math"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/models"
	"github.com/JonnyWalker81/habitual/internal/repository"
)

// TodaysHabitsLimit caps the habits listed on the dashboard.
const TodaysHabitsLimit = 5

type dashboardService struct {
	habitRepo repository.HabitRepository
	goalRepo  repository.GoalRepository
	insights  InsightsService
	clock     clock.Clock
}

// NewDashboardService creates a new dashboard service. insights may be nil,
// in which case the dashboard carries no weekly insights.
func NewDashboardService(habitRepo repository.HabitRepository, goalRepo repository.GoalRepository, insights InsightsService, c clock.Clock) DashboardService {
	return &dashboardService{habitRepo: habitRepo, goalRepo: goalRepo, insights: insights, clock: c}
}

func (s *dashboardService) Dashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	habits, err := s.habitRepo.ListByUser(ctx, userID, repository.HabitQuery{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	goals, err := s.goalRepo.ListByUser(ctx, userID, repository.GoalQuery{OpenOnly: true, Limit: ActiveGoalsLimit})
	if err != nil {
		return nil, err
	}

	today := clock.Today(s.clock)
	dash := &models.Dashboard{
		TotalHabits:  len(habits),
		TodaysHabits: []models.HabitSummary{},
		ActiveGoals:  goalSummaries(goals),
	}

	slots, hits := 0, 0
	for i := range habits {
		summary := habitSummary(&habits[i], today)
		if summary.IsScheduledToday {
			dash.ScheduledTodayCount++
			if summary.IsCompletedToday {
				dash.CompletedTodayCount++
			}
			if len(dash.TodaysHabits) < TodaysHabitsLimit {
				dash.TodaysHabits = append(dash.TodaysHabits, summary)
			}
		}
		dash.CurrentLongestStreak = max(dash.CurrentLongestStreak, summary.CurrentStreak)

		hd := NewHabitDays(&habits[i])
		for d := 6; d >= 0; d-- {
			day := today.AddDate(0, 0, -d)
			if !models.IsScheduled(hd.Rule, day) {
				continue
			}
			slots++
			if hd.Done.has(day) {
				hits++
			}
		}
	}
	dash.WeeklyCompletionRate = math.Round(completionRate(slots, hits)*10) / 10

	// A failed analysis leaves the field null rather than failing the page.
	if s.insights != nil {
		if weekly := s.insights.WeeklyInsights(ctx, userID); weekly != nil && weekly.Summary != unavailableSummary {
			dash.WeeklyInsights = weekly
		}
	}
	return dash, nil
}
