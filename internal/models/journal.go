package models

import (
	"strings"
	"time"
)

// Mood is a five point scale from VerySad (1) to VeryHappy (5).
type Mood int

const (
	MoodVerySad Mood = iota + 1
	MoodSad
	MoodNeutral
	MoodHappy
	MoodVeryHappy
)

// Label is the lower-case name used in insight messages.
func (m Mood) Label() string {
	switch m {
	case MoodVeryHappy:
		return "very happy"
	case MoodHappy:
		return "happy"
	case MoodSad:
		return "sad"
	case MoodVerySad:
		return "very sad"
	default:
		return "neutral"
	}
}

// Emoji returns the mood's display glyph.
func (m Mood) Emoji() string {
	switch m {
	case MoodVeryHappy:
		return "😄"
	case MoodHappy:
		return "😊"
	case MoodSad:
		return "😔"
	case MoodVerySad:
		return "😢"
	default:
		return "😐"
	}
}

// Color returns the mood's display colour as a hex triplet.
func (m Mood) Color() string {
	switch m {
	case MoodVeryHappy:
		return "#22c55e"
	case MoodHappy:
		return "#84cc16"
	case MoodSad:
		return "#f59e0b"
	case MoodVerySad:
		return "#ef4444"
	default:
		return "#6b7280"
	}
}

// JournalEntry is a dated, mood-tagged note.
type JournalEntry struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	UserID     string    `json:"user_id" gorm:"size:64;not null;index:idx_journal_user_created"`
	Title      string    `json:"title" gorm:"size:200;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	Mood       Mood      `json:"mood" gorm:"not null"`
	Tags       *string   `json:"-" gorm:"size:500"`
	IsFavorite bool      `json:"is_favorite" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"index:idx_journal_user_created"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TagList splits the stored tags.
func (e *JournalEntry) TagList() []string {
	if e.Tags == nil {
		return []string{}
	}
	return ParseTags(*e.Tags)
}

// SetTags stores tags joined with ", ". An empty list clears them.
func (e *JournalEntry) SetTags(tags []string) {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		e.Tags = nil
		return
	}
	joined := strings.Join(clean, ", ")
	e.Tags = &joined
}

// ParseTags splits a comma separated tag string, trimming blanks.
func ParseTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// CreateJournalEntryRequest is the body of POST /api/v1/journal
type CreateJournalEntryRequest struct {
	Title      string `json:"title" binding:"required,max=200"`
	Content    string `json:"content" binding:"required"`
	Mood       Mood   `json:"mood" binding:"required,min=1,max=5"`
	Tags       string `json:"tags" binding:"max=500"`
	IsFavorite bool   `json:"is_favorite"`
}

// UpdateJournalEntryRequest is the body of PUT /api/v1/journal/:id. It
// replaces the entry; an empty tags string clears the tags.
type UpdateJournalEntryRequest CreateJournalEntryRequest

// JournalQuery filters a journal listing.
type JournalQuery struct {
	Search   string
	Tag      string
	Page     int
	PageSize int
}

// JournalListItem is an entry as shown in a listing.
type JournalListItem struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	ContentPreview string    `json:"content_preview"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Mood           Mood      `json:"mood"`
	MoodEmoji      string    `json:"mood_emoji"`
	MoodColor      string    `json:"mood_color"`
	Tags           []string  `json:"tags"`
	IsFavorite     bool      `json:"is_favorite"`
	WordCount      int       `json:"word_count"`
}

// JournalList is one page of entries.
type JournalList struct {
	Entries  []JournalListItem `json:"entries"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// JournalEntryDetails is a full entry.
type JournalEntryDetails struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Mood           Mood      `json:"mood"`
	MoodEmoji      string    `json:"mood_emoji"`
	MoodColor      string    `json:"mood_color"`
	Tags           []string  `json:"tags"`
	IsFavorite     bool      `json:"is_favorite"`
	WordCount      int       `json:"word_count"`
	CharacterCount int       `json:"character_count"`
}

// JournalStats summarises a user's journal.
type JournalStats struct {
	TotalEntries         int          `json:"total_entries"`
	EntriesThisMonth     int          `json:"entries_this_month"`
	FavoriteEntries      int          `json:"favorite_entries"`
	TotalWords           int          `json:"total_words"`
	AverageWordsPerEntry float64      `json:"average_words_per_entry"`
	MoodDistribution     map[Mood]int `json:"mood_distribution"`
	CurrentStreak        int          `json:"current_streak"`
	LongestStreak        int          `json:"longest_streak"`
	PopularTags          []string     `json:"popular_tags"`
	LastEntryDate        *time.Time   `json:"last_entry_date,omitempty"`
}

func (JournalEntry) TableName() string { return "journal_entries" }
