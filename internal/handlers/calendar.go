package handlers

import (
	"net/http"
	"strconv"

	"github.com/JonnyWalker81/habitual/internal/apierror"
	"github.com/JonnyWalker81/habitual/internal/service"
	"github.com/gin-gonic/gin"
)

// CalendarHandler serves the month grid, the heatmap and the dashboard.
type CalendarHandler struct {
	calendarService  service.CalendarService
	dashboardService service.DashboardService
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarService service.CalendarService, dashboardService service.DashboardService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService, dashboardService: dashboardService}
}

// MonthCalendar handles GET /api/v1/calendar/:year/:month
func (h *CalendarHandler) MonthCalendar(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var fieldErrors []apierror.FieldError
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		fieldErrors = append(fieldErrors, apierror.FieldError{Field: "year", Message: "must be an integer", Code: "invalid_type"})
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		fieldErrors = append(fieldErrors, apierror.FieldError{Field: "month", Message: "must be an integer", Code: "invalid_type"})
	}
	if len(fieldErrors) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), fieldErrors))
		return
	}

	cal, err := h.calendarService.MonthCalendar(c.Request.Context(), uid, year, month)
	if err != nil {
		handleServiceError(c, err, "Calendar", c.Param("year")+"/"+c.Param("month"))
		return
	}
	c.JSON(http.StatusOK, cal)
}

// Heatmap handles GET /api/v1/calendar/heatmap?start=&end=
func (h *CalendarHandler) Heatmap(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	start, ok := queryDate(c, "start")
	if !ok {
		return
	}
	end, ok := queryDate(c, "end")
	if !ok {
		return
	}
	days, err := h.calendarService.Heatmap(c.Request.Context(), uid, start, end)
	if err != nil {
		handleServiceError(c, err, "Heatmap", "")
		return
	}
	c.JSON(http.StatusOK, days)
}

// Dashboard handles GET /api/v1/dashboard
func (h *CalendarHandler) Dashboard(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	dash, err := h.dashboardService.Dashboard(c.Request.Context(), uid)
	if err != nil {
		handleServiceError(c, err, "Dashboard", "")
		return
	}
	c.JSON(http.StatusOK, dash)
}
