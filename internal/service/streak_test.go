package service

import (
	"testing"
	"time"

	"github.com/JonnyWalker81/habitual/internal/models"
)

func days(offsets ...int) []time.Time {
	out := make([]time.Time, len(offsets))
	for i, o := range offsets {
		out[i] = day(o)
	}
	return out
}

func TestCurrentStreak(t *testing.T) {
	today := day(0)
	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"today and two before", days(0, -1, -2), 3},
		{"anchored on yesterday", days(-1, -2), 2},
		{"nothing today or yesterday", days(-2, -3, -4, -5), 0},
		{"empty", nil, 0},
		{"gap breaks the run", days(0, -1, -3, -4), 2},
		{"duplicates count once", days(0, 0, -1), 2},
		{"time of day ignored", []time.Time{today.Add(20 * time.Hour), today.Add(-2 * time.Hour)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.dates, today); got != tt.want {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"empty", nil, 0},
		{"single", days(-10), 1},
		{"unsorted with two runs", days(-1, -9, -2, -8, -3, -7, -6), 4},
		{"duplicates", days(-1, -1, -2), 2},
		{"across month boundary", []time.Time{
			time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestStreak(tt.dates); got != tt.want {
				t.Errorf("LongestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAggregateCurrentStreak(t *testing.T) {
	today := day(0) // Wednesday

	t.Run("days with nothing scheduled are skipped", func(t *testing.T) {
		// Scheduled Mon and Wed only; Tuesday has nothing due.
		h := habitWith("gym", models.CustomDays{Days: []time.Weekday{time.Monday, time.Wednesday}}, 0, -2, -7, -9)
		got := AggregateCurrentStreak(habitDaysOf([]models.Habit{*h}), today)
		if got != 4 {
			t.Errorf("AggregateCurrentStreak() = %d, want 4", got)
		}
	})

	t.Run("threshold of eighty percent", func(t *testing.T) {
		var habits []models.Habit
		for i := 0; i < 5; i++ {
			offsets := []int{0, -1}
			if i == 0 {
				offsets = []int{0} // yesterday 4 of 5 done
			}
			habits = append(habits, *habitWith("h", models.Daily{}, offsets...))
		}
		// Day -2: nobody completed it.
		if got := AggregateCurrentStreak(habitDaysOf(habits), today); got != 2 {
			t.Errorf("AggregateCurrentStreak() = %d, want 2", got)
		}
	})

	t.Run("below threshold today stops immediately", func(t *testing.T) {
		a := habitWith("a", models.Daily{}, 0, -1)
		b := habitWith("b", models.Daily{}, -1)
		if got := AggregateCurrentStreak(habitDaysOf([]models.Habit{*a, *b}), today); got != 0 {
			t.Errorf("AggregateCurrentStreak() = %d, want 0", got)
		}
	})

	t.Run("nothing ever scheduled terminates", func(t *testing.T) {
		h := habitWith("never", models.CustomDays{})
		if got := AggregateCurrentStreak(habitDaysOf([]models.Habit{*h}), today); got != 0 {
			t.Errorf("AggregateCurrentStreak() = %d, want 0", got)
		}
	})
}

func TestAggregateLongestStreak(t *testing.T) {
	// Weekdays habit done Mon..Fri of the previous week and Mon..Tue of this week.
	h := habitWith("work", models.Weekdays{}, -9, -8, -7, -6, -5, -2, -1)
	got := AggregateLongestStreak(habitDaysOf([]models.Habit{*h}), day(-10), day(0))
	// -10 is Sunday, weekend days are skipped so the run is unbroken until today.
	if got != 7 {
		t.Errorf("AggregateLongestStreak() = %d, want 7", got)
	}

	miss := habitWith("miss", models.Daily{}, -5, -4, -2, -1)
	if got := AggregateLongestStreak(habitDaysOf([]models.Habit{*miss}), day(-6), day(0)); got != 2 {
		t.Errorf("AggregateLongestStreak() with misses = %d, want 2", got)
	}
}

func TestHeatmapLevel(t *testing.T) {
	tests := []struct {
		rate float64
		want int
	}{
		{0, 0},
		{0.1, 1},
		{25, 1},
		{25.01, 2},
		{50, 2},
		{50.5, 3},
		{75, 3},
		{75.1, 4},
		{100, 4},
	}
	for _, tt := range tests {
		if got := HeatmapLevel(tt.rate); got != tt.want {
			t.Errorf("HeatmapLevel(%v) = %d, want %d", tt.rate, got, tt.want)
		}
	}
}
