package handlers

import (
	"net/http"

	"github.com/JonnyWalker81/habitual/internal/apierror"
	"github.com/JonnyWalker81/habitual/internal/models"
	"github.com/JonnyWalker81/habitual/internal/service"
	"github.com/gin-gonic/gin"
)

const journalResource = "Journal entry"

type JournalHandler struct {
	journalService service.JournalService
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journalService service.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// journalListQuery is the query string of GET /api/v1/journal. Page sizes
// above the maximum are clamped by the service.
type journalListQuery struct {
	Search   string `form:"search" binding:"max=200"`
	Tag      string `form:"tag" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1"`
}

// ListEntries handles GET /api/v1/journal
func (h *JournalHandler) ListEntries(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var q journalListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierror.WriteProblem(c, apierror.NewBindingError(apierror.GetRequestID(c), err))
		return
	}
	list, err := h.journalService.ListEntries(c.Request.Context(), uid, models.JournalQuery{
		Search:   q.Search,
		Tag:      q.Tag,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		handleServiceError(c, err, journalResource, "")
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateEntry handles POST /api/v1/journal
func (h *JournalHandler) CreateEntry(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req models.CreateJournalEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.journalService.CreateEntry(c.Request.Context(), uid, &req)
	if err != nil {
		handleServiceError(c, err, journalResource, "")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetEntry handles GET /api/v1/journal/:id
func (h *JournalHandler) GetEntry(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.journalService.GetEntry(c.Request.Context(), uid, id)
	if err != nil {
		handleServiceError(c, err, journalResource, id)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// UpdateEntry handles PUT /api/v1/journal/:id
func (h *JournalHandler) UpdateEntry(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateJournalEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.journalService.UpdateEntry(c.Request.Context(), uid, id, &req)
	if err != nil {
		handleServiceError(c, err, journalResource, id)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteEntry handles DELETE /api/v1/journal/:id
func (h *JournalHandler) DeleteEntry(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.journalService.DeleteEntry(c.Request.Context(), uid, id); err != nil {
		handleServiceError(c, err, journalResource, id)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleFavorite handles POST /api/v1/journal/:id/favorite
func (h *JournalHandler) ToggleFavorite(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.journalService.ToggleFavorite(c.Request.Context(), uid, id)
	if err != nil {
		handleServiceError(c, err, journalResource, id)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Stats handles GET /api/v1/journal/stats
func (h *JournalHandler) Stats(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	stats, err := h.journalService.Stats(c.Request.Context(), uid)
	if err != nil {
		handleServiceError(c, err, journalResource, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Tags handles GET /api/v1/journal/tags
func (h *JournalHandler) Tags(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	tags, err := h.journalService.Tags(c.Request.Context(), uid)
	if err != nil {
		handleServiceError(c, err, journalResource, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
