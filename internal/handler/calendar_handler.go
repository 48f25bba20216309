package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/models"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
	"github.com/noah-isme/atp-planner-api/pkg/response"
)

type calendarPlanner interface {
	Categories(ctx context.Context) ([]dto.CategoryView, error)
	ActiveExceptions(ctx context.Context, input dto.ScheduleInput) (*dto.ActiveExceptionsResponse, error)
	MonthCalendar(ctx context.Context, req dto.MonthCalendarRequest) (*models.MonthCalendar, error)
}

// CalendarHandler exposes the exception registry and the month grid.
type CalendarHandler struct {
	planner calendarPlanner
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(planner calendarPlanner) *CalendarHandler {
	return &CalendarHandler{planner: planner}
}

// Categories godoc
// @Summary Schedule categories with their options and defaults
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /calendar/categories [get]
func (h *CalendarHandler) Categories(c *gin.Context) {
	categories, err := h.planner.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, categories)
}

// Exceptions godoc
// @Summary Calendar exceptions active under a configuration
// @Tags Calendar
// @Produce json
// @Param config[pts] query string false "Variant per category"
// @Param apply_defaults query bool false "Fill missing categories with defaults"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /calendar/exceptions [get]
func (h *CalendarHandler) Exceptions(c *gin.Context) {
	result, err := h.planner.ActiveExceptions(c.Request.Context(), scheduleFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Month godoc
// @Summary Day grid of one month for a weekday selection
// @Tags Calendar
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Param days query string false "Comma separated weekdays"
// @Param config[pts] query string false "Variant per category"
// @Success 200 {object} response.Envelope
// @Router /calendar/month [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	year, errYear := strconv.Atoi(c.Query("year"))
	month, errMonth := strconv.Atoi(c.Query("month"))
	if errYear != nil || errMonth != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year and month must be numbers"))
		return
	}
	result, err := h.planner.MonthCalendar(c.Request.Context(), dto.MonthCalendarRequest{
		ScheduleInput: scheduleFromQuery(c),
		Year:          year,
		Month:         month,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}
