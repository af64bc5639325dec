package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonnyWalker81/habitual/internal/models"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern is a LIKE pattern matching s literally anywhere, for use
// with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

type journalRepository struct {
	db *gorm.DB
}

// NewJournalRepository creates a new journal repository
func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Create(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error) {
	if entry.ID == "" {
		entry.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}
	return entry, nil
}

func (r *journalRepository) GetByID(ctx context.Context, userID, entryID string) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, entryID).First(&entry).Error; err != nil {
		return nil, notFound(err, "failed to get journal entry")
	}
	return &entry, nil
}

// Update replaces every editable field of entry.
func (r *journalRepository) Update(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error) {
	res := r.db.WithContext(ctx).
		Model(&models.JournalEntry{}).
		Where("user_id = ? AND id = ?", entry.UserID, entry.ID).
		Updates(map[string]any{
			"title":       entry.Title,
			"content":     entry.Content,
			"mood":        entry.Mood,
			"tags":        entry.Tags,
			"is_favorite": entry.IsFavorite,
			"updated_at":  entry.UpdatedAt,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update journal entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, entry.UserID, entry.ID)
}

func (r *journalRepository) Delete(ctx context.Context, userID, entryID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, entryID).Delete(&models.JournalEntry{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete journal entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Search returns one page of entries, newest first. Page and PageSize must
// already be normalised by the caller.
func (r *journalRepository) Search(ctx context.Context, userID string, q models.JournalQuery) ([]models.JournalEntry, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if q.Search != "" {
		pattern := containsPattern(q.Search)
		tx = tx.Where(`(title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if q.Tag != "" {
		tx = tx.Where(`tags LIKE ? ESCAPE '\'`, containsPattern(q.Tag))
	}
	if q.PageSize > 0 {
		tx = tx.Offset((max(q.Page, 1) - 1) * q.PageSize).Limit(q.PageSize)
	}

	var entries []models.JournalEntry
	if err := tx.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to search journal: %w", err)
	}
	return entries, nil
}

func (r *journalRepository) ListByUser(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return entries, nil
}

// ListByUserAndRange returns entries created in [from, to], oldest first.
func (r *journalRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, from.UTC(), to.UTC()).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return entries, nil
}
