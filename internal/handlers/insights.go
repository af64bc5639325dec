package handlers

import (
	"net/http"

	"github.com/JonnyWalker81/habitual/internal/service"
	"github.com/gin-gonic/gin"
)

// InsightsHandler handles insights-related HTTP requests
type InsightsHandler struct {
	insightsService service.InsightsService
	profileService  service.ProfileService
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightsService service.InsightsService, profileService service.ProfileService) *InsightsHandler {
	return &InsightsHandler{insightsService: insightsService, profileService: profileService}
}

// WeeklyInsights returns the weekly analysis for the authenticated user.
// It always answers 200; a failed analysis is reported in the body.
// GET /api/v1/insights/weekly
func (h *InsightsHandler) WeeklyInsights(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.insightsService.WeeklyInsights(c.Request.Context(), uid))
}

// ProfileStats handles GET /api/v1/profile/stats
func (h *InsightsHandler) ProfileStats(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	stats, err := h.profileService.Stats(c.Request.Context(), uid)
	if err != nil {
		handleServiceError(c, err, "Profile", uid)
		return
	}
	c.JSON(http.StatusOK, stats)
}
