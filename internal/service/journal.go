package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/JonnyWalker81/habitual/internal/clock"
	"github.com/JonnyWalker81/habitual/internal/logger"
	"github.com/JonnyWalker81/habitual/internal/models"
	"github.com/JonnyWalker81/habitual/internal/repository"
)

const (
	DefaultJournalPageSize = 10
	MaxJournalPageSize     = 100
	// PreviewLength is the number of characters kept in a list preview.
	PreviewLength = 150
	// PopularTagsLimit caps the tags reported in journal stats.
	PopularTagsLimit = 10
)

type journalService struct {
	journalRepo repository.JournalRepository
	clock       clock.Clock
}

// NewJournalService creates a new journal service
func NewJournalService(journalRepo repository.JournalRepository, c clock.Clock) JournalService {
	return &journalService{journalRepo: journalRepo, clock: c}
}

func (s *journalService) ListEntries(ctx context.Context, userID string, q models.JournalQuery) (*models.JournalList, error) {
	q.Search = strings.TrimSpace(q.Search)
	q.Tag = strings.TrimSpace(q.Tag)
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PageSize < 1:
		q.PageSize = DefaultJournalPageSize
	case q.PageSize > MaxJournalPageSize:
		q.PageSize = MaxJournalPageSize
	}

	entries, err := s.journalRepo.Search(ctx, userID, q)
	if err != nil {
		return nil, err
	}

	items := make([]models.JournalListItem, len(entries))
	for i := range entries {
		e := &entries[i]
		items[i] = models.JournalListItem{
			ID:             e.ID,
			Title:          e.Title,
			ContentPreview: contentPreview(e.Content, PreviewLength),
			CreatedAt:      e.CreatedAt,
			UpdatedAt:      e.UpdatedAt,
			Mood:           e.Mood,
			MoodEmoji:      e.Mood.Emoji(),
			MoodColor:      e.Mood.Color(),
			Tags:           e.TagList(),
			IsFavorite:     e.IsFavorite,
			WordCount:      countWords(e.Content),
		}
	}
	return &models.JournalList{Entries: items, Page: q.Page, PageSize: q.PageSize}, nil
}

func (s *journalService) CreateEntry(ctx context.Context, userID string, req *models.CreateJournalEntryRequest) (*models.JournalEntryDetails, error) {
	if err := validateEntry(req.Title, req.Mood); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	entry := &models.JournalEntry{
		UserID:     userID,
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		Mood:       req.Mood,
		IsFavorite: req.IsFavorite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	entry.SetTags(models.ParseTags(req.Tags))

	created, err := s.journalRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("journal entry created", logger.String("entry_id", created.ID))
	return entryDetails(created), nil
}

func (s *journalService) GetEntry(ctx context.Context, userID, entryID string) (*models.JournalEntryDetails, error) {
	entry, err := s.journalRepo.GetByID(ctx, userID, entryID)
	if err != nil {
		return nil, mapRepoErr(err, "get journal entry")
	}
	return entryDetails(entry), nil
}

func (s *journalService) UpdateEntry(ctx context.Context, userID, entryID string, req *models.UpdateJournalEntryRequest) (*models.JournalEntryDetails, error) {
	if err := validateEntry(req.Title, req.Mood); err != nil {
		return nil, err
	}
	entry, err := s.journalRepo.GetByID(ctx, userID, entryID)
	if err != nil {
		return nil, mapRepoErr(err, "update journal entry")
	}

	entry.Title = strings.TrimSpace(req.Title)
	entry.Content = req.Content
	entry.Mood = req.Mood
	entry.IsFavorite = req.IsFavorite
	entry.SetTags(models.ParseTags(req.Tags))
	entry.UpdatedAt = s.clock.Now().UTC()

	updated, err := s.journalRepo.Update(ctx, entry)
	if err != nil {
		return nil, mapRepoErr(err, "update journal entry")
	}
	return entryDetails(updated), nil
}

func (s *journalService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if err := s.journalRepo.Delete(ctx, userID, entryID); err != nil {
		return mapRepoErr(err, "delete journal entry")
	}
	return nil
}

func (s *journalService) ToggleFavorite(ctx context.Context, userID, entryID string) (*models.JournalEntryDetails, error) {
	entry, err := s.journalRepo.GetByID(ctx, userID, entryID)
	if err != nil {
		return nil, mapRepoErr(err, "toggle favorite")
	}
	entry.IsFavorite = !entry.IsFavorite
	entry.UpdatedAt = s.clock.Now().UTC()

	updated, err := s.journalRepo.Update(ctx, entry)
	if err != nil {
		return nil, mapRepoErr(err, "toggle favorite")
	}
	return entryDetails(updated), nil
}

func (s *journalService) Stats(ctx context.Context, userID string) (*models.JournalStats, error) {
	entries, err := s.journalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := clock.Today(s.clock)
	stats := &models.JournalStats{
		TotalEntries:     len(entries),
		MoodDistribution: make(map[models.Mood]int),
		PopularTags:      []string{},
	}

	dates := make([]time.Time, 0, len(entries))
	var tags []string
	for i := range entries {
		e := &entries[i]
		day := clock.LocalDate(s.clock, e.CreatedAt)
		dates = append(dates, day)
		if day.Year() == today.Year() && day.Month() == today.Month() {
			stats.EntriesThisMonth++
		}
		if e.IsFavorite {
			stats.FavoriteEntries++
		}
		stats.TotalWords += countWords(e.Content)
		stats.MoodDistribution[e.Mood]++
		tags = append(tags, e.TagList()...)
		if stats.LastEntryDate == nil || e.CreatedAt.After(*stats.LastEntryDate) {
			created := e.CreatedAt
			stats.LastEntryDate = &created
		}
	}

	if stats.TotalEntries > 0 {
		avg := float64(stats.TotalWords) / float64(stats.TotalEntries)
		stats.AverageWordsPerEntry = math.Round(avg*10) / 10
	}
	stats.CurrentStreak = CurrentStreak(dates, today)
	stats.LongestStreak = LongestStreak(dates)
	stats.PopularTags = popularTags(tags, PopularTagsLimit)
	return stats, nil
}

func (s *journalService) Tags(ctx context.Context, userID string) ([]string, error) {
	entries, err := s.journalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	out := []string{}
	for i := range entries {
		for _, tag := range entries[i].TagList() {
			key := strings.ToLower(tag)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, tag)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out, nil
}

func validateEntry(title string, mood models.Mood) error {
	if strings.TrimSpace(title) == "" {
		return validationf("title is required")
	}
	if mood < models.MoodVerySad || mood > models.MoodVeryHappy {
		return validationf("mood must be between 1 and 5")
	}
	return nil
}

func entryDetails(e *models.JournalEntry) *models.JournalEntryDetails {
	return &models.JournalEntryDetails{
		ID:             e.ID,
		Title:          e.Title,
		Content:        e.Content,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
		Mood:           e.Mood,
		MoodEmoji:      e.Mood.Emoji(),
		MoodColor:      e.Mood.Color(),
		Tags:           e.TagList(),
		IsFavorite:     e.IsFavorite,
		WordCount:      countWords(e.Content),
		CharacterCount: len([]rune(e.Content)),
	}
}

// popularTags groups tags case-insensitively, keeping the first spelling
// seen, and returns the limit most frequent.
func popularTags(tags []string, limit int) []string {
	type group struct {
		name  string
		count int
	}
	index := make(map[string]int)
	var groups []group
	for _, t := range tags {
		key := strings.ToLower(t)
		if i, ok := index[key]; ok {
			groups[i].count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, group{name: t, count: 1})
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].count > groups[j].count })

	out := make([]string, 0, min(limit, len(groups)))
	for _, g := range groups {
		if len(out) == limit {
			break
		}
		out = append(out, g.name)
	}
	return out
}

func contentPreview(content string, n int) string {
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n]) + "..."
}

func countWords(text string) int {
	return len(strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}))
}
