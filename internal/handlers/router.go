package handlers

import "github.com/gin-gonic/gin"

// Handlers groups every API handler for route registration.
type Handlers struct {
	Habits   *HabitHandler
	Goals    *GoalHandler
	Calendar *CalendarHandler
	Insights *InsightsHandler
	Journal  *JournalHandler
}

// Register mounts the authenticated API on api, normally /api/v1 behind
// the auth middleware.
func (h *Handlers) Register(api *gin.RouterGroup) {
	habits := api.Group("/habits")
	{
		habits.GET("", h.Habits.ListHabits)
		habits.POST("", h.Habits.CreateHabit)
		habits.GET("/:id", h.Habits.GetHabit)
		habits.PUT("/:id", h.Habits.UpdateHabit)
		habits.DELETE("/:id", h.Habits.DeleteHabit)
		habits.POST("/:id/completions", h.Habits.MarkComplete)
		habits.DELETE("/:id/completions", h.Habits.UnmarkComplete)
		habits.GET("/:id/schedule", h.Habits.CheckSchedule)
	}

	api.GET("/dashboard", h.Calendar.Dashboard)
	api.GET("/calendar/heatmap", h.Calendar.Heatmap)
	api.GET("/calendar/:year/:month", h.Calendar.MonthCalendar)

	goals := api.Group("/goals")
	{
		goals.GET("", h.Goals.ListGoals)
		goals.POST("", h.Goals.CreateGoal)
		goals.GET("/active", h.Goals.ActiveGoals)
		goals.DELETE("/progress/:progressId", h.Goals.DeleteProgress)
		goals.GET("/:id", h.Goals.GetGoal)
		goals.PUT("/:id", h.Goals.UpdateGoal)
		goals.DELETE("/:id", h.Goals.DeleteGoal)
		goals.GET("/:id/progress", h.Goals.ListProgress)
		goals.POST("/:id/progress", h.Goals.AddProgress)
		goals.GET("/:id/statistics", h.Goals.Statistics)
	}

	api.GET("/insights/weekly", h.Insights.WeeklyInsights)
	api.GET("/profile/stats", h.Insights.ProfileStats)

	journal := api.Group("/journal")
	{
		journal.GET("", h.Journal.ListEntries)
		journal.POST("", h.Journal.CreateEntry)
		journal.GET("/stats", h.Journal.Stats)
		journal.GET("/tags", h.Journal.Tags)
		journal.GET("/:id", h.Journal.GetEntry)
		journal.PUT("/:id", h.Journal.UpdateEntry)
		journal.DELETE("/:id", h.Journal.DeleteEntry)
		journal.POST("/:id/favorite", h.Journal.ToggleFavorite)
	}
}
