package handlers

import (
	"net/http"

	"github.com/JonnyWalker81/habitual/internal/models"
	"github.com/JonnyWalker81/habitual/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	goalResource     = "Goal"
	progressResource = "Goal progress"
)

type GoalHandler struct {
	goalService service.GoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// ListGoals handles GET /api/v1/goals
func (h *GoalHandler) ListGoals(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	goals, err := h.goalService.ListGoals(c.Request.Context(), uid)
	if err != nil {
		handleServiceError(c, err, goalResource, "")
		return
	}
	c.JSON(http.StatusOK, goals)
}

// ActiveGoals handles GET /api/v1/goals/active
func (h *GoalHandler) ActiveGoals(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	goals, err := h.goalService.ActiveGoalsSummary(c.Request.Context(), uid)
	if err != nil {
		handleServiceError(c, err, goalResource, "")
		return
	}
	c.JSON(http.StatusOK, goals)
}

// CreateGoal handles POST /api/v1/goals
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req models.CreateGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.goalService.CreateGoal(c.Request.Context(), uid, &req)
	if err != nil {
		handleServiceError(c, err, goalResource, "")
		return
	}
	c.JSON(http.StatusCreated, goal)
}

// GetGoal handles GET /api/v1/goals/:id
func (h *GoalHandler) GetGoal(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	goal, err := h.goalService.GetGoal(c.Request.Context(), uid, id)
	if err != nil {
		handleServiceError(c, err, goalResource, id)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// UpdateGoal handles PUT /api/v1/goals/:id
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.goalService.UpdateGoal(c.Request.Context(), uid, id, &req)
	if err != nil {
		handleServiceError(c, err, goalResource, id)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// DeleteGoal handles DELETE /api/v1/goals/:id
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.goalService.DeleteGoal(c.Request.Context(), uid, id); err != nil {
		handleServiceError(c, err, goalResource, id)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListProgress handles GET /api/v1/goals/:id/progress
func (h *GoalHandler) ListProgress(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.goalService.ListProgress(c.Request.Context(), uid, id)
	if err != nil {
		handleServiceError(c, err, goalResource, id)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// AddProgress handles POST /api/v1/goals/:id/progress
func (h *GoalHandler) AddProgress(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.AddProgressRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.goalService.AddProgress(c.Request.Context(), uid, id, &req)
	if err != nil {
		handleServiceError(c, err, goalResource, id)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

// DeleteProgress handles DELETE /api/v1/goals/progress/:progressId
func (h *GoalHandler) DeleteProgress(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "progressId")
	if !ok {
		return
	}
	goal, err := h.goalService.DeleteProgress(c.Request.Context(), uid, id)
	if err != nil {
		handleServiceError(c, err, progressResource, id)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// Statistics handles GET /api/v1/goals/:id/statistics
func (h *GoalHandler) Statistics(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := h.goalService.Statistics(c.Request.Context(), uid, id)
	if err != nil {
		handleServiceError(c, err, goalResource, id)
		return
	}
	c.JSON(http.StatusOK, stats)
}
