package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/logger"
	"github.com/JonnyWalker81/habitual/internal/models"
	"github.com/JonnyWalker81/habitual/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// InsightsWindowDays is how far back the weekly analysis looks.
	InsightsWindowDays = 7
	MaxKeyInsights     = 5
	MaxRecommendations = 3

	excellingRate     = 80.0
	strugglingRate    = 50.0
	notableStreakDays = 7
	almostDonePercent = 75.0
	stalledPercent    = 25.0
	dominantMoodShare = 60.0
	correlationShare  = 0.7

	noDataSummary      = "Start tracking your habits, goals, or journal entries to receive personalized insights!"
	unavailableSummary = "Unable to generate insights at this time. Please try again later."
	defaultSummary     = "You've been making progress this week! Keep up the great work."
)

type insightsService struct {
	habitRepo   repository.HabitRepository
	goalRepo    repository.GoalRepository
	journalRepo repository.JournalRepository
	clock       clock.Clock
}

// NewInsightsService creates a new insights service
func NewInsightsService(
	habitRepo repository.HabitRepository,
	goalRepo repository.GoalRepository,
	journalRepo repository.JournalRepository,
	c clock.Clock,
) InsightsService {
	return &insightsService{habitRepo: habitRepo, goalRepo: goalRepo, journalRepo: journalRepo, clock: c}
}

// weekSnapshot is the data one analysis runs over.
type weekSnapshot struct {
	habits  []models.Habit
	goals   []models.Goal
	journal []models.JournalEntry
	today   time.Time
	start   time.Time
}

func (s *insightsService) WeeklyInsights(ctx context.Context, userID string) (result *models.WeeklyInsights) {
	log := logger.FromContext(ctx)
	now := s.clock.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("insights analysis panicked", logger.String("panic", fmt.Sprint(r)))
			result = placeholder(unavailableSummary, now)
		}
	}()

	snap, err := s.load(ctx, userID)
	if err != nil {
		log.Error("failed to load insights data", logger.Err(err))
		return placeholder(unavailableSummary, now)
	}
	if len(snap.habits) == 0 && len(snap.goals) == 0 && len(snap.journal) == 0 {
		return placeholder(noDataSummary, now)
	}

	result = s.analyze(snap)
	result.GeneratedAt = now.UTC()
	return result
}

// load fetches active habits, open goals and the window's journal entries
// concurrently.
func (s *insightsService) load(ctx context.Context, userID string) (*weekSnapshot, error) {
	today := clock.Today(s.clock)
	snap := &weekSnapshot{today: today, start: today.AddDate(0, 0, -InsightsWindowDays)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(recovered(func() error {
		habits, err := s.habitRepo.ListByUser(gctx, userID, repository.HabitQuery{ActiveOnly: true})
		snap.habits = habits
		return err
	}))
	g.Go(recovered(func() error {
		goals, err := s.goalRepo.ListByUser(gctx, userID, repository.GoalQuery{OpenOnly: true, WithProgress: true})
		snap.goals = goals
		return err
	}))
	g.Go(recovered(func() error {
		entries, err := s.journalRepo.ListByUserAndRange(gctx, userID,
			clock.StartOfDay(s.clock, snap.start), clock.EndOfDay(s.clock, today))
		snap.journal = entries
		return err
	}))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// recovered turns a panic in a loader goroutine into an error so it reaches
// Wait instead of killing the process.
func recovered(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("insights loader panicked: %v", r)
			}
		}()
		return fn()
	}
}

// analysis accumulates findings in the order they are produced.
type analysis struct {
	insights        []string
	recommendations []string
	summary         []string
}

func (a *analysis) insight(format string, args ...any) {
	a.insights = append(a.insights, fmt.Sprintf(format, args...))
}

func (a *analysis) recommend(format string, args ...any) {
	a.recommendations = append(a.recommendations, fmt.Sprintf(format, args...))
}

func (s *insightsService) analyze(snap *weekSnapshot) *models.WeeklyInsights {
	a := &analysis{}
	if len(snap.habits) > 0 {
		s.analyzeHabits(a, snap)
	}
	if len(snap.goals) > 0 {
		s.analyzeGoals(a, snap)
	}
	if len(snap.journal) > 0 {
		s.analyzeJournal(a, snap)
	}
	if len(snap.habits) > 0 && len(snap.journal) > 0 {
		s.analyzeMoodCorrelation(a, snap)
	}

	summary := defaultSummary
	if len(a.summary) > 0 {
		summary = strings.Join(a.summary, " ")
	}

	return &models.WeeklyInsights{
		HasData:         true,
		Summary:         summary,
		KeyInsights:     capped(a.insights, MaxKeyInsights),
		Recommendations: capped(a.recommendations, MaxRecommendations),
		Encouragement:   encouragement(snap),
	}
}

type habitWeek struct {
	habit       *models.Habit
	completions int
	scheduled   int
	rate        float64
	streak      int
}

func (s *insightsService) analyzeHabits(a *analysis, snap *weekSnapshot) {
	stats := make([]habitWeek, len(snap.habits))
	for i := range snap.habits {
		h := &snap.habits[i]
		hw := habitWeek{habit: h, streak: CurrentStreak(completionDates(h), snap.today)}
		for _, c := range h.Completions {
			if inWindow(c.CompletedDate, snap) {
				hw.completions++
			}
		}
		rule := h.Recurrence()
		for d := 0; d < InsightsWindowDays; d++ {
			if models.IsScheduled(rule, snap.start.AddDate(0, 0, d)) {
				hw.scheduled++
			}
		}
		if hw.scheduled > 0 {
			hw.rate = float64(hw.completions) / float64(hw.scheduled) * 100
		}
		stats[i] = hw
	}

	best := stats[0]
	for _, hw := range stats[1:] {
		if hw.rate > best.rate {
			best = hw
		}
	}
	if best.rate >= excellingRate {
		a.insight("You're excelling at '%s' with a %s%% completion rate!", best.habit.Title, percent(best.rate))
	}

	for _, hw := range stats {
		if hw.rate < strugglingRate && hw.scheduled > 0 {
			a.insight("'%s' could use more attention - you completed it %d out of %d scheduled days.",
				hw.habit.Title, hw.completions, hw.scheduled)
			a.recommend("Try setting a reminder for '%s' or break it into smaller steps.", hw.habit.Title)
			break
		}
	}

	longest := stats[0]
	for _, hw := range stats[1:] {
		if hw.streak > longest.streak {
			longest = hw
		}
	}
	if longest.streak >= notableStreakDays {
		a.insight("Amazing! You've maintained a %d-day streak with '%s'!", longest.streak, longest.habit.Title)
	}

	var completions, scheduled int
	for _, hw := range stats {
		completions += hw.completions
		scheduled += hw.scheduled
	}
	overall := 0.0
	if scheduled > 0 {
		overall = float64(completions) / float64(scheduled) * 100
	}
	switch {
	case overall >= 80:
		a.summary = append(a.summary, fmt.Sprintf("You completed %s%% of your scheduled habits this week - excellent consistency!", percent(overall)))
	case overall >= 60:
		a.summary = append(a.summary, fmt.Sprintf("You completed %s%% of your scheduled habits this week - good progress!", percent(overall)))
	case overall > 0:
		a.summary = append(a.summary, fmt.Sprintf("You completed %s%% of your scheduled habits this week - there's room for improvement.", percent(overall)))
	}

	if msg := dayOfWeekPattern(snap); msg != "" {
		a.insights = append(a.insights, msg)
	}
}

// dayOfWeekPattern compares the best and worst weekday of the window by
// completion ratio.
func dayOfWeekPattern(snap *weekSnapshot) string {
	type weekday struct {
		day         time.Weekday
		completions int
		scheduled   int
	}

	var days []weekday
	for d := 0; d < InsightsWindowDays; d++ {
		date := snap.start.AddDate(0, 0, d)
		wd := weekday{day: date.Weekday()}
		for i := range snap.habits {
			h := &snap.habits[i]
			for _, c := range h.Completions {
				if inWindow(c.CompletedDate, snap) && c.CompletedDate.Weekday() == wd.day {
					wd.completions++
				}
			}
			if h.IsScheduledOn(date) {
				wd.scheduled++
			}
		}
		if wd.scheduled > 0 {
			days = append(days, wd)
		}
	}
	if len(days) < 2 {
		return ""
	}

	ratio := func(w weekday) float64 { return float64(w.completions) / float64(w.scheduled) }
	sort.SliceStable(days, func(i, j int) bool { return ratio(days[i]) > ratio(days[j]) })

	best, worst := days[0], days[len(days)-1]
	if best.completions > 0 && float64(worst.completions) < float64(best.completions)*0.5 {
		return fmt.Sprintf("You're most consistent on %ss and less so on %ss - consider what makes %ss work better!",
			best.day, worst.day, best.day)
	}
	return ""
}

func (s *insightsService) analyzeGoals(a *analysis, snap *weekSnapshot) {
	windowStart := clock.StartOfDay(s.clock, snap.start)
	completed := 0

	for i := range snap.goals {
		g := &snap.goals[i]

		weekly := decimal.Zero
		for _, p := range g.ProgressEntries {
			if inWindow(clock.LocalDate(s.clock, p.CreatedAt), snap) {
				weekly = weekly.Add(p.Value)
			}
		}
		if weekly.IsPositive() {
			unit := "units"
			if g.Unit != nil {
				unit = *g.Unit
			}
			a.insight("Great progress on '%s'! You added %s %s this week.", g.Title, weekly.String(), unit)
		}

		pct := g.ProgressPercentage()
		if pct >= almostDonePercent && !g.IsCompleted() {
			a.insight("You're almost there! '%s' is %s%% complete.", g.Title, percent(pct))
			a.recommend("Push through the final stretch on '%s' - you're so close!", g.Title)
		} else if pct < stalledPercent && g.CreatedAt.Before(windowStart) {
			a.insight("'%s' is at %s%% - consider breaking it into smaller milestones.", g.Title, percent(pct))
			a.recommend("Set weekly mini-goals for '%s' to maintain momentum.", g.Title)
		}

		if g.IsOverdue(snap.today) {
			a.insight("⚠️ '%s' is past its target date - consider adjusting the deadline.", g.Title)
			a.recommend("Review and update the target date for '%s' to keep it realistic.", g.Title)
		} else if left := g.DaysRemaining(snap.today); left > 0 && left <= models.DueSoonDays {
			a.insight("'%s' is due in %d days - time to focus!", g.Title, left)
		}

		if g.IsCompleted() {
			completed++
		}
	}

	if completed > 0 {
		a.summary = append(a.summary, fmt.Sprintf("You've completed %d goal(s) - fantastic achievement!", completed))
	}
}

func (s *insightsService) analyzeJournal(a *analysis, snap *weekSnapshot) {
	entries := snap.journal

	// First mood to reach the highest count wins ties.
	counts := make(map[models.Mood]int)
	var order []models.Mood
	for _, e := range entries {
		if counts[e.Mood] == 0 {
			order = append(order, e.Mood)
		}
		counts[e.Mood]++
	}
	dominant := order[0]
	for _, m := range order[1:] {
		if counts[m] > counts[dominant] {
			dominant = m
		}
	}

	share := float64(counts[dominant]) / float64(len(entries)) * 100
	if share >= dominantMoodShare {
		switch {
		case dominant >= models.MoodHappy:
			a.insight("Your journal entries show you've been feeling %s %s%% of the time - that's wonderful!", dominant.Label(), percent(share))
		case dominant <= models.MoodSad:
			a.insight("Your journal entries show you've been feeling %s %s%% of the time.", dominant.Label(), percent(share))
			a.recommend("Consider focusing on self-care activities or reaching out for support.")
		}
	}

	switch n := len(entries); {
	case n >= 5:
		a.insight("You've been journaling consistently with %d entries this week - great reflection practice!", n)
	case n >= 3:
		a.recommend("Try journaling daily to better track your thoughts and feelings.")
	}

	a.summary = append(a.summary, fmt.Sprintf("You wrote %d journal entries this week.", len(entries)))
}

// analyzeMoodCorrelation looks for journal days where most habits were done
// and the mood was positive.
func (s *insightsService) analyzeMoodCorrelation(a *analysis, snap *weekSnapshot) {
	firstMood := make(map[string]models.Mood)
	for _, e := range snap.journal {
		key := clock.Key(clock.LocalDate(s.clock, e.CreatedAt))
		if _, ok := firstMood[key]; !ok {
			firstMood[key] = e.Mood
		}
	}

	days, positive := 0, 0
	threshold := float64(len(snap.habits)) * correlationShare
	for d := 0; d < InsightsWindowDays; d++ {
		date := snap.start.AddDate(0, 0, d)
		mood, ok := firstMood[clock.Key(date)]
		if !ok {
			continue
		}
		days++

		completions := 0
		for i := range snap.habits {
			for _, c := range snap.habits[i].Completions {
				if clock.DateOf(c.CompletedDate).Equal(date) {
					completions++
				}
			}
		}
		if float64(completions) >= threshold && mood >= models.MoodHappy {
			positive++
		}
	}

	if days >= 3 && positive >= 2 {
		a.insights = append(a.insights, "Interesting pattern: On days when you complete most of your habits, you tend to feel more positive!")
	}
}

func encouragement(snap *weekSnapshot) string {
	total := 0
	for i := range snap.habits {
		total += len(snap.habits[i].Completions)
	}
	activeGoals := 0
	for i := range snap.goals {
		if !snap.goals[i].IsCompleted() {
			activeGoals++
		}
	}

	switch {
	case total >= 20 && activeGoals > 0:
		return "You're building incredible momentum! Your consistency is paying off."
	case total >= 10:
		return "You're making steady progress. Every small step counts!"
	case len(snap.journal) >= 5:
		return "Your commitment to self-reflection is admirable. Keep it up!"
	default:
		return "You're on the right track. Consistency is key to long-term success!"
	}
}

// inWindow reports whether a calendar date falls in [start, today].
func inWindow(date time.Time, snap *weekSnapshot) bool {
	d := clock.DateOf(date)
	return !d.Before(snap.start) && !d.After(snap.today)
}

func placeholder(summary string, now time.Time) *models.WeeklyInsights {
	return &models.WeeklyInsights{
		HasData:         false,
		Summary:         summary,
		KeyInsights:     []string{},
		Recommendations: []string{},
		GeneratedAt:     now.UTC(),
	}
}

func capped(items []string, n int) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}

// percent formats a percentage with no decimals, rounding half away from zero.
func percent(x float64) string {
	return strconv.FormatFloat(math.Round(x), 'f', 0, 64)
}
