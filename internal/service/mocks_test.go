package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/models"
	"github.com/JonnyWalker81/habitual/internal/repository"
	"github.com/shopspring/decimal"
)

// testNow is a Wednesday.
var testNow = time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC)

func testClock() clock.Fixed { return clock.Fixed{At: testNow} }

// day returns the date offset days from testNow's date.
func day(offset int) time.Time {
	return clock.DateOf(testNow).AddDate(0, 0, offset)
}

var mockSeq int

func generateMockID() string {
	mockSeq++
	return fmt.Sprintf("mock-%d", mockSeq)
}

// mockHabitRepository is an in-memory HabitRepository
type mockHabitRepository struct {
	habits   map[string]*models.Habit
	err      error
	panicked bool
}

func newMockHabitRepository(habits ...*models.Habit) *mockHabitRepository {
	m := &mockHabitRepository{habits: make(map[string]*models.Habit)}
	for _, h := range habits {
		if h.ID == "" {
			h.ID = generateMockID()
		}
		m.habits[h.ID] = h
	}
	return m
}

func (m *mockHabitRepository) Create(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	if m.err != nil {
		return nil, m.err
	}
	habit.ID = generateMockID()
	m.habits[habit.ID] = habit
	return habit, nil
}

func (m *mockHabitRepository) GetByID(ctx context.Context, userID, habitID string) (*models.Habit, error) {
	if m.err != nil {
		return nil, m.err
	}
	h, ok := m.habits[habitID]
	if !ok || h.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *h
	cp.Completions = append([]models.HabitCompletion(nil), h.Completions...)
	return &cp, nil
}

func (m *mockHabitRepository) ListByUser(ctx context.Context, userID string, q repository.HabitQuery) ([]models.Habit, error) {
	if m.panicked {
		panic("habit store exploded")
	}
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Habit
	for _, h := range m.habits {
		if h.UserID != userID || (q.ActiveOnly && !h.IsActive) {
			continue
		}
		cp := *h
		cp.Completions = nil
		for _, c := range h.Completions {
			if q.CompletionsFrom != nil && c.CompletedDate.Before(clock.DateOf(*q.CompletionsFrom)) {
				continue
			}
			if q.CompletionsTo != nil && c.CompletedDate.After(clock.DateOf(*q.CompletionsTo)) {
				continue
			}
			cp.Completions = append(cp.Completions, c)
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockHabitRepository) Update(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	existing, ok := m.habits[habit.ID]
	if !ok || existing.UserID != habit.UserID {
		return nil, repository.ErrNotFound
	}
	cp := *habit
	cp.Completions = existing.Completions
	m.habits[habit.ID] = &cp
	return m.GetByID(ctx, habit.UserID, habit.ID)
}

func (m *mockHabitRepository) Delete(ctx context.Context, userID, habitID string) error {
	h, ok := m.habits[habitID]
	if !ok || h.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.habits, habitID)
	return nil
}

func (m *mockHabitRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	for _, h := range m.habits {
		if h.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *mockHabitRepository) AddCompletion(ctx context.Context, completion *models.HabitCompletion) (bool, error) {
	h := m.habits[completion.HabitID]
	date := clock.DateOf(completion.CompletedDate)
	for _, c := range h.Completions {
		if c.CompletedDate.Equal(date) {
			return false, nil
		}
	}
	completion.ID = generateMockID()
	completion.CompletedDate = date
	h.Completions = append(h.Completions, *completion)
	return true, nil
}

func (m *mockHabitRepository) RemoveCompletion(ctx context.Context, habitID string, date time.Time) (bool, error) {
	h := m.habits[habitID]
	for i, c := range h.Completions {
		if c.CompletedDate.Equal(clock.DateOf(date)) {
			h.Completions = append(h.Completions[:i], h.Completions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// countCompletions returns the stored completions of a habit.
func (m *mockHabitRepository) countCompletions(habitID string) int {
	return len(m.habits[habitID].Completions)
}

// mockGoalRepository is an in-memory GoalRepository that derives the current
// value from the ledger the same way the database repository does.
type mockGoalRepository struct {
	goals map[string]*models.Goal
	err   error
}

func newMockGoalRepository(goals ...*models.Goal) *mockGoalRepository {
	m := &mockGoalRepository{goals: make(map[string]*models.Goal)}
	for _, g := range goals {
		if g.ID == "" {
			g.ID = generateMockID()
		}
		m.goals[g.ID] = g
	}
	return m
}

func (m *mockGoalRepository) recompute(g *models.Goal, now time.Time) {
	total := decimal.Zero
	for _, p := range g.ProgressEntries {
		total = total.Add(p.Value)
	}
	g.ApplyTotal(total, now)
}

func (m *mockGoalRepository) Create(ctx context.Context, goal *models.Goal, initial *models.GoalProgress) (*models.Goal, error) {
	if m.err != nil {
		return nil, m.err
	}
	goal.ID = generateMockID()
	if initial != nil {
		initial.ID = generateMockID()
		initial.GoalID = goal.ID
		goal.ProgressEntries = append(goal.ProgressEntries, *initial)
	}
	m.recompute(goal, goal.CreatedAt)
	m.goals[goal.ID] = goal
	cp := *goal
	return &cp, nil
}

func (m *mockGoalRepository) GetByID(ctx context.Context, userID, goalID string) (*models.Goal, error) {
	if m.err != nil {
		return nil, m.err
	}
	g, ok := m.goals[goalID]
	if !ok || g.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *g
	cp.ProgressEntries = append([]models.GoalProgress(nil), g.ProgressEntries...)
	return &cp, nil
}

func (m *mockGoalRepository) ListByUser(ctx context.Context, userID string, q repository.GoalQuery) ([]models.Goal, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Goal
	for _, g := range m.goals {
		if g.UserID != userID || (q.OpenOnly && g.CompletedAt != nil) {
			continue
		}
		cp := *g
		if !q.WithProgress {
			cp.ProgressEntries = nil
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *mockGoalRepository) Update(ctx context.Context, goal *models.Goal, now time.Time) (*models.Goal, error) {
	existing, ok := m.goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return nil, repository.ErrNotFound
	}
	cp := *goal
	cp.ProgressEntries = existing.ProgressEntries
	m.recompute(&cp, now)
	m.goals[goal.ID] = &cp
	return m.GetByID(ctx, goal.UserID, goal.ID)
}

func (m *mockGoalRepository) Delete(ctx context.Context, userID, goalID string) error {
	g, ok := m.goals[goalID]
	if !ok || g.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.goals, goalID)
	return nil
}

func (m *mockGoalRepository) CountByUser(ctx context.Context, userID string) (int64, int64, error) {
	var total, completed int64
	for _, g := range m.goals {
		if g.UserID != userID {
			continue
		}
		total++
		if g.CompletedAt != nil {
			completed++
		}
	}
	return total, completed, nil
}

func (m *mockGoalRepository) AddProgress(ctx context.Context, userID, goalID string, progress *models.GoalProgress, now time.Time) (*models.Goal, error) {
	if m.err != nil {
		return nil, m.err
	}
	g, ok := m.goals[goalID]
	if !ok || g.UserID != userID {
		return nil, repository.ErrNotFound
	}
	progress.ID = generateMockID()
	progress.GoalID = goalID
	g.ProgressEntries = append(g.ProgressEntries, *progress)
	m.recompute(g, now)
	return m.GetByID(ctx, userID, goalID)
}

func (m *mockGoalRepository) DeleteProgress(ctx context.Context, userID, progressID string, now time.Time) (*models.Goal, error) {
	for _, g := range m.goals {
		if g.UserID != userID {
			continue
		}
		for i, p := range g.ProgressEntries {
			if p.ID == progressID {
				g.ProgressEntries = append(g.ProgressEntries[:i], g.ProgressEntries[i+1:]...)
				m.recompute(g, now)
				return m.GetByID(ctx, userID, g.ID)
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockGoalRepository) ListProgressByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]models.GoalProgress, error) {
	var out []models.GoalProgress
	for _, g := range m.goals {
		if g.UserID != userID {
			continue
		}
		for _, p := range g.ProgressEntries {
			if p.CreatedAt.Before(from) || p.CreatedAt.After(to) {
				continue
			}
			p.Goal = g
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// mockJournalRepository is an in-memory JournalRepository
type mockJournalRepository struct {
	entries map[string]*models.JournalEntry
	err     error
}

func newMockJournalRepository(entries ...*models.JournalEntry) *mockJournalRepository {
	m := &mockJournalRepository{entries: make(map[string]*models.JournalEntry)}
	for _, e := range entries {
		if e.ID == "" {
			e.ID = generateMockID()
		}
		m.entries[e.ID] = e
	}
	return m
}

func (m *mockJournalRepository) Create(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error) {
	entry.ID = generateMockID()
	m.entries[entry.ID] = entry
	return entry, nil
}

func (m *mockJournalRepository) GetByID(ctx context.Context, userID, entryID string) (*models.JournalEntry, error) {
	e, ok := m.entries[entryID]
	if !ok || e.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockJournalRepository) Update(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error) {
	if _, err := m.GetByID(ctx, entry.UserID, entry.ID); err != nil {
		return nil, err
	}
	cp := *entry
	m.entries[entry.ID] = &cp
	return m.GetByID(ctx, entry.UserID, entry.ID)
}

func (m *mockJournalRepository) Delete(ctx context.Context, userID, entryID string) error {
	if _, err := m.GetByID(ctx, userID, entryID); err != nil {
		return err
	}
	delete(m.entries, entryID)
	return nil
}

func (m *mockJournalRepository) Search(ctx context.Context, userID string, q models.JournalQuery) ([]models.JournalEntry, error) {
	all, _ := m.ListByUser(ctx, userID)
	var out []models.JournalEntry
	for _, e := range all {
		text := strings.ToLower(e.Title + " " + e.Content)
		if q.Search != "" && !strings.Contains(text, strings.ToLower(q.Search)) {
			continue
		}
		if q.Tag != "" && (e.Tags == nil || !strings.Contains(strings.ToLower(*e.Tags), strings.ToLower(q.Tag))) {
			continue
		}
		out = append(out, e)
	}
	start := (q.Page - 1) * q.PageSize
	if start >= len(out) {
		return nil, nil
	}
	return out[start:min(len(out), start+q.PageSize)], nil
}

func (m *mockJournalRepository) ListByUser(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.JournalEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockJournalRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]models.JournalEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	all, _ := m.ListByUser(ctx, userID)
	var out []models.JournalEntry
	for _, e := range all {
		if !e.CreatedAt.Before(from) && !e.CreatedAt.After(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// habitWith builds an active habit for user "u" completed on the given day offsets.
func habitWith(title string, rule models.Recurrence, offsets ...int) *models.Habit {
	h := &models.Habit{
		ID:        generateMockID(),
		UserID:    "u",
		Title:     title,
		Color:     models.DefaultHabitColor,
		IsActive:  true,
		CreatedAt: testNow.AddDate(0, -1, 0),
	}
	h.SetRecurrence(rule)
	for _, o := range offsets {
		h.Completions = append(h.Completions, models.HabitCompletion{
			ID: generateMockID(), HabitID: h.ID, CompletedDate: day(o),
		})
	}
	return h
}
