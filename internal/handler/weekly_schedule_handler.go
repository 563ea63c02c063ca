package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-console-api/internal/dto"
	"github.com/noah-isme/edu-console-api/internal/middleware"
	"github.com/noah-isme/edu-console-api/internal/service"
	appErrors "github.com/noah-isme/edu-console-api/pkg/errors"
	"github.com/noah-isme/edu-console-api/pkg/response"
)

type weeklySchedules interface {
	Weekly(ctx context.Context, query dto.WeeklyScheduleQuery) ([]dto.SessionResponse, bool, error)
	Calendar(ctx context.Context, query dto.WeeklyScheduleQuery, view string) (*dto.CalendarResponse, bool, error)
}

// WeeklyScheduleHandler serves applied sessions to calendar clients.
type WeeklyScheduleHandler struct {
	service weeklySchedules
}

// NewWeeklyScheduleHandler constructs the handler.
func NewWeeklyScheduleHandler(svc *service.WeeklyScheduleService) *WeeklyScheduleHandler {
	return &WeeklyScheduleHandler{service: svc}
}

// Weekly godoc
// @Summary List applied sessions for a date range
// @Tags Scheduler
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param class_id query string false "Class filter"
// @Param teacher_id query string false "Teacher filter"
// @Param room_id query string false "Room filter"
// @Success 200 {object} response.Envelope
// @Router /schedules/weekly [get]
func (h *WeeklyScheduleHandler) Weekly(c *gin.Context) {
	var query dto.WeeklyScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	sessions, hit, err := h.service.Weekly(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, sessions, nil, middleware.ExtractMeta(c))
}

// Calendar godoc
// @Summary Project applied sessions for a date range
// @Tags Scheduler
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param view query string false "time, room or list"
// @Success 200 {object} response.Envelope
// @Router /schedules/weekly/calendar [get]
func (h *WeeklyScheduleHandler) Calendar(c *gin.Context) {
	var query dto.WeeklyScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	calendar, hit, err := h.service.Calendar(c.Request.Context(), query, c.Query("view"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, calendar, nil, middleware.ExtractMeta(c))
}
