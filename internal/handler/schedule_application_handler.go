package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-console-api/internal/dto"
	"github.com/noah-isme/edu-console-api/internal/models"
	"github.com/noah-isme/edu-console-api/internal/service"
	"github.com/noah-isme/edu-console-api/pkg/response"
)

type scheduleApplications interface {
	List(ctx context.Context, page, pageSize int) ([]dto.ScheduleApplicationResponse, *models.Pagination, error)
	Get(ctx context.Context, id string) (*dto.ScheduleApplicationResponse, error)
}

// ScheduleApplicationHandler exposes the history of applied drafts.
type ScheduleApplicationHandler struct {
	service scheduleApplications
}

// NewScheduleApplicationHandler constructs the handler.
func NewScheduleApplicationHandler(svc *service.ScheduleApplicationService) *ScheduleApplicationHandler {
	return &ScheduleApplicationHandler{service: svc}
}

// List godoc
// @Summary List schedule applications, newest first
// @Tags Scheduler
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedules/applications [get]
func (h *ScheduleApplicationHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	items, pagination, err := h.service.List(c.Request.Context(), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a schedule application with its sessions
// @Tags Scheduler
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/applications/{id} [get]
func (h *ScheduleApplicationHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}
