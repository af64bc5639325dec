package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/JonnyWalker81/habitual/internal/models"
)

func newInsights(h *mockHabitRepository, g *mockGoalRepository, j *mockJournalRepository) InsightsService {
	return NewInsightsService(h, g, j, testClock())
}

func journalAt(offset int, mood models.Mood) *models.JournalEntry {
	created := testNow.AddDate(0, 0, offset)
	return &models.JournalEntry{
		ID: generateMockID(), UserID: "u", Title: "entry", Content: "words here",
		Mood: mood, CreatedAt: created, UpdatedAt: created,
	}
}

func contains(items []string, want string) bool {
	for _, s := range items {
		if s == want {
			return true
		}
	}
	return false
}

func TestInsightsService_Placeholders(t *testing.T) {
	ctx := context.Background()

	t.Run("no data", func(t *testing.T) {
		got := newInsights(newMockHabitRepository(), newMockGoalRepository(), newMockJournalRepository()).WeeklyInsights(ctx, "u")
		if got.HasData || got.Summary != noDataSummary {
			t.Errorf("WeeklyInsights() = %+v, want no-data placeholder", got)
		}
	})

	t.Run("load failure", func(t *testing.T) {
		journal := newMockJournalRepository()
		journal.err = errors.New("disk on fire")
		got := newInsights(newMockHabitRepository(), newMockGoalRepository(), journal).WeeklyInsights(ctx, "u")
		if got.HasData || got.Summary != unavailableSummary {
			t.Errorf("WeeklyInsights() = %+v, want unavailable placeholder", got)
		}
	})

	t.Run("panic is contained", func(t *testing.T) {
		habits := newMockHabitRepository()
		habits.panicked = true
		got := newInsights(habits, newMockGoalRepository(), newMockJournalRepository()).WeeklyInsights(ctx, "u")
		if got.HasData || got.Summary != unavailableSummary {
			t.Errorf("WeeklyInsights() = %+v, want unavailable placeholder", got)
		}
	})
}

func TestInsightsService_HabitsAndGoals(t *testing.T) {
	meditate := habitWith("Meditate", models.Daily{}, 0, -1, -2, -3, -4, -5, -6)
	floss := habitWith("Floss", models.Daily{}, -3)

	unit := "km"
	marathon := newGoal("100", testNow.AddDate(0, 0, -3))
	marathon.Title = "Marathon"
	marathon.Unit = &unit
	marathon.CurrentValue = dec("80")
	marathon.ProgressEntries = []models.GoalProgress{
		{ID: "old", Value: dec("70"), CreatedAt: testNow.AddDate(0, 0, -3)},
		{ID: "new", Value: dec("10"), CreatedAt: testNow.AddDate(0, 0, -2)},
	}

	got := newInsights(
		newMockHabitRepository(meditate, floss),
		newMockGoalRepository(marathon),
		newMockJournalRepository(journalAt(-3, models.MoodHappy), journalAt(-2, models.MoodHappy), journalAt(-1, models.MoodHappy)),
	).WeeklyInsights(context.Background(), "u")

	if !got.HasData {
		t.Fatalf("HasData = false, summary %q", got.Summary)
	}
	wantInsights := []string{
		"You're excelling at 'Meditate' with a 100% completion rate!",
		"'Floss' could use more attention - you completed it 1 out of 7 scheduled days.",
		"Amazing! You've maintained a 7-day streak with 'Meditate'!",
		"Great progress on 'Marathon'! You added 80 km this week.",
		"You're almost there! 'Marathon' is 80% complete.",
	}
	if len(got.KeyInsights) != MaxKeyInsights {
		t.Fatalf("KeyInsights = %d %q, want capped at %d", len(got.KeyInsights), got.KeyInsights, MaxKeyInsights)
	}
	for i, want := range wantInsights {
		if got.KeyInsights[i] != want {
			t.Errorf("KeyInsights[%d] = %q, want %q", i, got.KeyInsights[i], want)
		}
	}

	wantRecs := []string{
		"Try setting a reminder for 'Floss' or break it into smaller steps.",
		"Push through the final stretch on 'Marathon' - you're so close!",
		"Try journaling daily to better track your thoughts and feelings.",
	}
	for i, want := range wantRecs {
		if i >= len(got.Recommendations) || got.Recommendations[i] != want {
			t.Errorf("Recommendations = %q, want %q", got.Recommendations, wantRecs)
			break
		}
	}

	wantSummary := "You completed 57% of your scheduled habits this week - there's room for improvement. You wrote 3 journal entries this week."
	if got.Summary != wantSummary {
		t.Errorf("Summary = %q, want %q", got.Summary, wantSummary)
	}
	if got.Encouragement != "You're on the right track. Consistency is key to long-term success!" {
		t.Errorf("Encouragement = %q", got.Encouragement)
	}
}

func TestInsightsService_MoodCorrelationAndWeekdays(t *testing.T) {
	a := habitWith("Stretch", models.Daily{}, -3, -2, -1)
	b := habitWith("Water", models.Daily{}, -3, -2, -1)
	journal := newMockJournalRepository(
		journalAt(-3, models.MoodVeryHappy),
		journalAt(-2, models.MoodVeryHappy),
		journalAt(-1, models.MoodVeryHappy),
	)

	got := newInsights(newMockHabitRepository(a, b), newMockGoalRepository(), journal).WeeklyInsights(context.Background(), "u")

	for _, want := range []string{
		"You're most consistent on Sundays and less so on Saturdays - consider what makes Sundays work better!",
		"Your journal entries show you've been feeling very happy 100% of the time - that's wonderful!",
		"Interesting pattern: On days when you complete most of your habits, you tend to feel more positive!",
	} {
		if !contains(got.KeyInsights, want) {
			t.Errorf("KeyInsights = %q, missing %q", got.KeyInsights, want)
		}
	}
}

func TestInsightsService_GoalDeadlines(t *testing.T) {
	overdue := newGoal("100", testNow.AddDate(0, 0, -30))
	overdue.Title = "Taxes"
	past := day(-1)
	overdue.TargetDate = &past

	soon := newGoal("100", testNow)
	soon.Title = "Trip"
	next := day(4)
	soon.TargetDate = &next

	got := newInsights(newMockHabitRepository(), newMockGoalRepository(overdue, soon), newMockJournalRepository()).
		WeeklyInsights(context.Background(), "u")

	for _, want := range []string{
		"'Taxes' is at 0% - consider breaking it into smaller milestones.",
		"⚠️ 'Taxes' is past its target date - consider adjusting the deadline.",
		"'Trip' is due in 4 days - time to focus!",
	} {
		if !contains(got.KeyInsights, want) {
			t.Errorf("KeyInsights = %q, missing %q", got.KeyInsights, want)
		}
	}
	if contains(got.KeyInsights, "'Trip' is at 0% - consider breaking it into smaller milestones.") {
		t.Error("a goal created this week should not be flagged as stalled")
	}
	if got.Summary != defaultSummary {
		t.Errorf("Summary = %q, want default", got.Summary)
	}
	if !strings.Contains(got.Recommendations[0], "Taxes") {
		t.Errorf("Recommendations = %q", got.Recommendations)
	}
}

func TestPercent(t *testing.T) {
	tests := map[float64]string{0: "0", 57.14: "57", 62.5: "63", 99.5: "100", 100: "100"}
	for in, want := range tests {
		if got := percent(in); got != want {
			t.Errorf("percent(%v) = %q, want %q", in, got, want)
		}
	}
}
