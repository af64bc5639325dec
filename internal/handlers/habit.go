package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/JonnyWalker81/habitual/internal/models"
	"github.com/JonnyWalker81/habitual/internal/service"
	"github.com/gin-gonic/gin"
)

const habitResource = "Habit"

type HabitHandler struct {
	habitService service.HabitService
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(habitService service.HabitService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

// ListHabits handles GET /api/v1/habits
func (h *HabitHandler) ListHabits(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	habits, err := h.habitService.ListHabits(c.Request.Context(), uid)
	if err != nil {
		handleServiceError(c, err, habitResource, "")
		return
	}
	c.JSON(http.StatusOK, habits)
}

// CreateHabit handles POST /api/v1/habits
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req models.CreateHabitRequest
	if !bindJSON(c, &req) {
		return
	}
	habit, err := h.habitService.CreateHabit(c.Request.Context(), uid, &req)
	if err != nil {
		handleServiceError(c, err, habitResource, "")
		return
	}
	c.JSON(http.StatusCreated, habit)
}

// GetHabit handles GET /api/v1/habits/:id
func (h *HabitHandler) GetHabit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	habit, err := h.habitService.GetHabit(c.Request.Context(), uid, id)
	if err != nil {
		handleServiceError(c, err, habitResource, id)
		return
	}
	c.JSON(http.StatusOK, habit)
}

// UpdateHabit handles PUT /api/v1/habits/:id
func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateHabitRequest
	if !bindJSON(c, &req) {
		return
	}
	habit, err := h.habitService.UpdateHabit(c.Request.Context(), uid, id, &req)
	if err != nil {
		handleServiceError(c, err, habitResource, id)
		return
	}
	c.JSON(http.StatusOK, habit)
}

// DeleteHabit handles DELETE /api/v1/habits/:id
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.habitService.DeleteHabit(c.Request.Context(), uid, id); err != nil {
		handleServiceError(c, err, habitResource, id)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkComplete handles POST /api/v1/habits/:id/completions?date=YYYY-MM-DD
func (h *HabitHandler) MarkComplete(c *gin.Context) {
	h.toggleCompletion(c, h.habitService.MarkComplete)
}

// UnmarkComplete handles DELETE /api/v1/habits/:id/completions?date=YYYY-MM-DD
func (h *HabitHandler) UnmarkComplete(c *gin.Context) {
	h.toggleCompletion(c, h.habitService.UnmarkComplete)
}

type completionFunc func(ctx context.Context, userID, habitID string, date *time.Time) (*models.CompletionResult, error)

func (h *HabitHandler) toggleCompletion(c *gin.Context, fn completionFunc) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), uid, id, date)
	if err != nil {
		handleServiceError(c, err, habitResource, id)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckSchedule handles GET /api/v1/habits/:id/schedule?date=YYYY-MM-DD
func (h *HabitHandler) CheckSchedule(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	date, ok := queryDate(c, "date")
	if !ok {
		return
	}
	check, err := h.habitService.CheckSchedule(c.Request.Context(), uid, id, date)
	if err != nil {
		handleServiceError(c, err, habitResource, id)
		return
	}
	c.JSON(http.StatusOK, check)
}
