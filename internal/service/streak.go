package service

import (
	"sort"
	"time"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/models"
)

// AggregateStreakThreshold is the share of scheduled habits that must be
// completed for a day to extend an aggregate streak.
const AggregateStreakThreshold = 0.80

// MaxStreakLookback bounds the aggregate walk back from today.
const MaxStreakLookback = 366 * 2

// dateSet holds calendar dates keyed by clock.Key; values are the dates
// themselves at midnight.
type dateSet map[string]time.Time

func newDateSet(dates []time.Time) dateSet {
	s := make(dateSet, len(dates))
	for _, d := range dates {
		s[clock.Key(d)] = clock.DateOf(d)
	}
	return s
}

func (s dateSet) has(d time.Time) bool {
	_, ok := s[clock.Key(d)]
	return ok
}

// CurrentStreak counts consecutive completed days ending today, or ending
// yesterday when today is not done yet.
func CurrentStreak(dates []time.Time, today time.Time) int {
	done := newDateSet(dates)
	day := clock.DateOf(today)
	if !done.has(day) {
		day = day.AddDate(0, 0, -1)
		if !done.has(day) {
			return 0
		}
	}

	streak := 0
	for done.has(day) {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak is the longest run of consecutive calendar days in dates.
func LongestStreak(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	days := make([]time.Time, 0, len(dates))
	for _, d := range newDateSet(dates) {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if clock.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// HabitDays is a habit's schedule together with its completed dates.
type HabitDays struct {
	Rule models.Recurrence
	Done dateSet
}

// NewHabitDays indexes the completions loaded on h.
func NewHabitDays(h *models.Habit) HabitDays {
	return HabitDays{Rule: h.Recurrence(), Done: newDateSet(completionDates(h))}
}

func habitDaysOf(habits []models.Habit) []HabitDays {
	out := make([]HabitDays, len(habits))
	for i := range habits {
		out[i] = NewHabitDays(&habits[i])
	}
	return out
}

// dayCounts returns how many habits were due on day and how many of those
// were completed.
func dayCounts(habits []HabitDays, day time.Time) (scheduled, completed int) {
	for _, h := range habits {
		if !models.IsScheduled(h.Rule, day) {
			continue
		}
		scheduled++
		if h.Done.has(day) {
			completed++
		}
	}
	return scheduled, completed
}

// completionRate is completed/scheduled as a percentage, 0 when nothing was due.
func completionRate(scheduled, completed int) float64 {
	if scheduled == 0 {
		return 0
	}
	return float64(completed) / float64(scheduled) * 100
}

func meetsThreshold(scheduled, completed int) bool {
	return float64(completed)/float64(scheduled) >= AggregateStreakThreshold
}

// AggregateCurrentStreak walks back from today counting days on which at
// least AggregateStreakThreshold of the scheduled habits were completed. Days
// with nothing scheduled are skipped.
func AggregateCurrentStreak(habits []HabitDays, today time.Time) int {
	day := clock.DateOf(today)
	streak := 0
	for i := 0; i < MaxStreakLookback; i++ {
		scheduled, completed := dayCounts(habits, day)
		if scheduled > 0 {
			if !meetsThreshold(scheduled, completed) {
				break
			}
			streak++
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// AggregateLongestStreak is the longest run of qualifying days in
// [start, end]. Days with nothing scheduled neither extend nor break a run.
func AggregateLongestStreak(habits []HabitDays, start, end time.Time) int {
	longest, run := 0, 0
	for day := clock.DateOf(start); !day.After(clock.DateOf(end)); day = day.AddDate(0, 0, 1) {
		scheduled, completed := dayCounts(habits, day)
		if scheduled == 0 {
			continue
		}
		if meetsThreshold(scheduled, completed) {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return longest
}

func completionDates(h *models.Habit) []time.Time {
	dates := make([]time.Time, len(h.Completions))
	for i, c := range h.Completions {
		dates[i] = c.CompletedDate
	}
	return dates
}
