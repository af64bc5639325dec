package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/models"
)

func TestCalendarService_MonthCalendar(t *testing.T) {
	ctx := context.Background()
	read := habitWith("Read", models.Daily{}, 0, -1, -2)
	paused := habitWith("Paused", models.Weekends{})
	paused.IsActive = false

	unit := "km"
	g := newGoal("100", testNow.AddDate(0, -1, 0))
	g.Title = "Run"
	g.Unit = &unit
	g.ProgressEntries = []models.GoalProgress{{ID: "p1", GoalID: g.ID, Value: dec("5"), CreatedAt: testNow.AddDate(0, 0, -1)}}

	svc := NewCalendarService(newMockHabitRepository(read, paused), newMockGoalRepository(g), testClock())
	cal, err := svc.MonthCalendar(ctx, "u", 2026, 3)
	if err != nil {
		t.Fatalf("MonthCalendar() error = %v", err)
	}

	if len(cal.Weeks) != 6 {
		t.Fatalf("weeks = %d, want 6", len(cal.Weeks))
	}
	for i, w := range cal.Weeks {
		if len(w) != 7 {
			t.Fatalf("week %d has %d days", i, len(w))
		}
	}
	// March 2026 starts on a Sunday, so the grid starts on the 1st.
	if first := cal.Weeks[0][0]; !first.Date.Equal(day(-10)) || !first.IsCurrentMonth {
		t.Errorf("first cell = %+v, want 2026-03-01 in month", first)
	}
	if cal.MonthName != "March" {
		t.Errorf("MonthName = %q", cal.MonthName)
	}

	today := cal.Weeks[1][3]
	if !today.IsToday || today.TotalScheduledHabits != 1 || today.CompletedHabits != 1 || today.CompletionPercentage != 100 {
		t.Errorf("today cell = %+v", today)
	}
	yesterday := cal.Weeks[1][2]
	if len(yesterday.GoalProgress) != 1 || yesterday.GoalProgress[0].GoalTitle != "Run" || *yesterday.GoalProgress[0].Unit != "km" {
		t.Errorf("yesterday goal progress = %+v", yesterday.GoalProgress)
	}
	if trailing := cal.Weeks[5][6]; trailing.IsCurrentMonth {
		t.Errorf("last cell %s should be outside the month", trailing.Date)
	}

	stats := cal.Stats
	if stats.TotalActiveHabits != 1 || len(stats.DailyRates) != 31 {
		t.Errorf("stats = %+v", stats)
	}
	// Three full days out of 31: round(300/31) = 10.
	if stats.AverageCompletionRate != 10 || stats.BestDay != 100 {
		t.Errorf("average = %d best = %d, want 10 and 100", stats.AverageCompletionRate, stats.BestDay)
	}
	if stats.CurrentStreak != 3 || stats.LongestStreak != 3 {
		t.Errorf("streaks = %d/%d, want 3/3", stats.CurrentStreak, stats.LongestStreak)
	}
	if stats.TotalGoalProgress != 1 || !stats.GoalProgressValue.Equal(dec("5")) {
		t.Errorf("goal progress = %d/%s, want 1/5", stats.TotalGoalProgress, stats.GoalProgressValue)
	}

	if len(cal.Habits) != 2 {
		t.Fatalf("habits = %d, want all habits including inactive", len(cal.Habits))
	}
	for _, h := range cal.Habits {
		if len(h.ScheduleData) != 42 || len(h.CompletionData) != 42 {
			t.Errorf("habit %s maps cover %d/%d days, want 42", h.Title, len(h.ScheduleData), len(h.CompletionData))
		}
	}
}

func TestCalendarService_GridStartsOnSundayBefore(t *testing.T) {
	svc := NewCalendarService(newMockHabitRepository(), newMockGoalRepository(), testClock())
	cal, err := svc.MonthCalendar(context.Background(), "u", 2026, 4)
	if err != nil {
		t.Fatalf("MonthCalendar() error = %v", err)
	}
	first := cal.Weeks[0][0]
	want := time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC)
	if !first.Date.Equal(want) || first.Date.Weekday() != time.Sunday || first.IsCurrentMonth {
		t.Errorf("first cell = %s (current month %v), want 2026-03-29 outside the month", first.Date, first.IsCurrentMonth)
	}
	if cal.Stats.AverageCompletionRate != 0 || cal.Stats.CurrentStreak != 0 {
		t.Errorf("empty month stats = %+v", cal.Stats)
	}
}

func TestCalendarService_MonthValidation(t *testing.T) {
	svc := NewCalendarService(newMockHabitRepository(), newMockGoalRepository(), testClock())
	for _, m := range []int{0, 13} {
		if _, err := svc.MonthCalendar(context.Background(), "u", 2026, m); !errors.Is(err, ErrValidation) {
			t.Errorf("MonthCalendar(month=%d) error = %v, want ErrValidation", m, err)
		}
	}
}

func TestCalendarService_Heatmap(t *testing.T) {
	ctx := context.Background()
	a := habitWith("a", models.Daily{}, -1, -2)
	b := habitWith("b", models.Daily{}, -1)
	c := habitWith("c", models.Daily{}, -1, -2, -3)
	d := habitWith("d", models.Daily{}, -1)
	svc := NewCalendarService(newMockHabitRepository(a, b, c, d), newMockGoalRepository(), testClock())

	t.Run("default range", func(t *testing.T) {
		heat, err := svc.Heatmap(ctx, "u", nil, nil)
		if err != nil {
			t.Fatalf("Heatmap() error = %v", err)
		}
		if len(heat) != HeatmapDefaultDays+1 {
			t.Fatalf("days = %d, want %d", len(heat), HeatmapDefaultDays+1)
		}
		if !heat[len(heat)-1].Date.Equal(day(0)) {
			t.Errorf("last day = %s, want today", heat[len(heat)-1].Date)
		}
	})

	t.Run("levels", func(t *testing.T) {
		start, end := day(-4), day(-1)
		heat, err := svc.Heatmap(ctx, "u", &start, &end)
		if err != nil {
			t.Fatalf("Heatmap() error = %v", err)
		}
		wantLevels := []int{0, 1, 2, 4} // 0%, 25%, 50%, 100%
		for i, h := range heat {
			if h.Level != wantLevels[i] || h.TotalScheduled != 4 {
				t.Errorf("%s: level %d (rate %v, scheduled %d), want level %d", clock.Key(h.Date.Time), h.Level, h.CompletionRate, h.TotalScheduled, wantLevels[i])
			}
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		start, end := day(0), day(-1)
		if _, err := svc.Heatmap(ctx, "u", &start, &end); !errors.Is(err, ErrValidation) {
			t.Errorf("Heatmap() error = %v, want ErrValidation", err)
		}
	})
}

func TestHeatmapCell_LevelFollowsDisplayedRate(t *testing.T) {
	tests := []struct {
		rate      float64
		wantRate  float64
		wantLevel int
	}{
		{0.04, 0, 0},
		{25.04, 25, 1},
		{25.06, 25.1, 2},
		{50.02, 50, 2},
		{75.049, 75, 3},
		{100, 100, 4},
	}
	for _, tt := range tests {
		rate, level := heatmapCell(tt.rate)
		if rate != tt.wantRate || level != tt.wantLevel {
			t.Errorf("heatmapCell(%v) = (%v, %d), want (%v, %d)", tt.rate, rate, level, tt.wantRate, tt.wantLevel)
		}
		if level != HeatmapLevel(rate) {
			t.Errorf("heatmapCell(%v): level %d disagrees with HeatmapLevel(%v)", tt.rate, level, rate)
		}
	}
}
