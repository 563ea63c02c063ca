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

type scheduleDrafts interface {
	TimeSlots() []dto.TimeSlotResponse
	Generate(ctx context.Context, req dto.GenerateDraftRequest, actor string) (*dto.DraftResponse, error)
	Regenerate(ctx context.Context, id string) (*dto.DraftResponse, error)
	OpenManual(ctx context.Context, req dto.ManualDraftRequest, actor string) (*dto.DraftResponse, error)
	Get(ctx context.Context, id string) (*dto.DraftResponse, error)
	Discard(ctx context.Context, id string) error
	AddSession(ctx context.Context, id string, in dto.SessionInput) (*dto.SessionResponse, error)
	UpdateSession(ctx context.Context, id, sessionID string, req dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	RequestDelete(ctx context.Context, id, sessionID string) (*dto.ConfirmationResponse, error)
	Confirm(ctx context.Context, id, token string, req dto.ConfirmRequest) (*dto.ConfirmationOutcomeResponse, error)
	Lift(ctx context.Context, id string, req dto.LiftRequest) (*dto.DragResponse, error)
	Hover(ctx context.Context, id string, req dto.CellRequest) (*dto.DragResponse, error)
	Drop(ctx context.Context, id string, req dto.CellRequest) (*dto.DropResponse, error)
	CancelDrag(ctx context.Context, id string) (*dto.DragResponse, error)
	Conflicts(ctx context.Context, id string) (*dto.ConflictReport, error)
	Navigate(ctx context.Context, id, direction string) (*dto.WeekResponse, error)
	Calendar(ctx context.Context, id, view string) (*dto.CalendarResponse, error)
	CheckBlackout(ctx context.Context, req dto.BlackoutCheckRequest) (*dto.BlackoutCheckResponse, error)
	Apply(ctx context.Context, id, actor string) (*dto.ApplyResponse, error)
}

// ScheduleDraftHandler exposes the draft editing workflow.
type ScheduleDraftHandler struct {
	service scheduleDrafts
}

// NewScheduleDraftHandler constructs the handler.
func NewScheduleDraftHandler(svc *service.ScheduleDraftService) *ScheduleDraftHandler {
	return &ScheduleDraftHandler{service: svc}
}

// TimeSlots godoc
// @Summary List the configured time slot catalog
// @Tags Scheduler
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules/time-slots [get]
func (h *ScheduleDraftHandler) TimeSlots(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.TimeSlots(), nil)
}

// Generate godoc
// @Summary Generate a draft schedule through the generator service
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateDraftRequest true "Generation parameters"
// @Success 201 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /schedules/drafts [post]
func (h *ScheduleDraftHandler) Generate(c *gin.Context) {
	var req dto.GenerateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	draft, err := h.service.Generate(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, draft)
}

// Regenerate godoc
// @Summary Re-run generation for a generated draft
// @Tags Scheduler
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/drafts/{id}/regenerate [post]
func (h *ScheduleDraftHandler) Regenerate(c *gin.Context) {
	draft, err := h.service.Regenerate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// OpenManual godoc
// @Summary Open a manual draft, optionally seeded with sessions
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.ManualDraftRequest false "Seed sessions"
// @Success 201 {object} response.Envelope
// @Router /schedules/drafts/manual [post]
func (h *ScheduleDraftHandler) OpenManual(c *gin.Context) {
	var req dto.ManualDraftRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid manual draft payload"))
			return
		}
	}
	draft, err := h.service.OpenManual(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, draft)
}

// Get godoc
// @Summary Get a draft with its conflict report
// @Tags Scheduler
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/drafts/{id} [get]
func (h *ScheduleDraftHandler) Get(c *gin.Context) {
	draft, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// Discard godoc
// @Summary Discard a draft without applying it
// @Tags Scheduler
// @Param id path string true "Draft ID"
// @Success 204
// @Router /schedules/drafts/{id} [delete]
func (h *ScheduleDraftHandler) Discard(c *gin.Context) {
	if err := h.service.Discard(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddSession godoc
// @Summary Add a session to a draft
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param payload body dto.SessionInput true "Session"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedules/drafts/{id}/sessions [post]
func (h *ScheduleDraftHandler) AddSession(c *gin.Context) {
	var req dto.SessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	session, err := h.service.AddSession(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// UpdateSession godoc
// @Summary Edit teacher, room or topic of a draft session
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param sessionId path string true "Session ID"
// @Param payload body dto.UpdateSessionRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /schedules/drafts/{id}/sessions/{sessionId} [patch]
func (h *ScheduleDraftHandler) UpdateSession(c *gin.Context) {
	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session update payload"))
		return
	}
	session, err := h.service.UpdateSession(c.Request.Context(), c.Param("id"), c.Param("sessionId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// RequestDelete godoc
// @Summary Request deletion of a draft session
// @Description Deletion is queued as a pending confirmation and applied only once approved.
// @Tags Scheduler
// @Produce json
// @Param id path string true "Draft ID"
// @Param sessionId path string true "Session ID"
// @Success 202 {object} response.Envelope
// @Router /schedules/drafts/{id}/sessions/{sessionId} [delete]
func (h *ScheduleDraftHandler) RequestDelete(c *gin.Context) {
	pending, err := h.service.RequestDelete(c.Request.Context(), c.Param("id"), c.Param("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, pending)
}

// Confirm godoc
// @Summary Approve or reject a pending confirmation
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param token path string true "Confirmation token"
// @Param payload body dto.ConfirmRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /schedules/drafts/{id}/confirmations/{token} [post]
func (h *ScheduleDraftHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid confirmation payload"))
		return
	}
	outcome, err := h.service.Confirm(c.Request.Context(), c.Param("id"), c.Param("token"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// Lift godoc
// @Summary Start relocating a session
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param payload body dto.LiftRequest true "Session to lift"
// @Success 200 {object} response.Envelope
// @Router /schedules/drafts/{id}/drag/lift [post]
func (h *ScheduleDraftHandler) Lift(c *gin.Context) {
	var req dto.LiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lift payload"))
		return
	}
	drag, err := h.service.Lift(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, drag, nil)
}

// Hover godoc
// @Summary Track the cell under a lifted session
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param payload body dto.CellRequest true "Hovered cell"
// @Success 200 {object} response.Envelope
// @Router /schedules/drafts/{id}/drag/hover [post]
func (h *ScheduleDraftHandler) Hover(c *gin.Context) {
	var req dto.CellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid hover payload"))
		return
	}
	drag, err := h.service.Hover(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, drag, nil)
}

// Drop godoc
// @Summary Drop a lifted session on a cell
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param payload body dto.CellRequest true "Target cell"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedules/drafts/{id}/drag/drop [post]
func (h *ScheduleDraftHandler) Drop(c *gin.Context) {
	var req dto.CellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// a rejected drop still ends the relocation
		_, _ = h.service.CancelDrag(c.Request.Context(), c.Param("id"))
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drop payload"))
		return
	}
	result, err := h.service.Drop(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Pending != nil {
		response.Accepted(c, result)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CancelDrag godoc
// @Summary Abandon the current relocation
// @Tags Scheduler
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/drafts/{id}/drag/cancel [post]
func (h *ScheduleDraftHandler) CancelDrag(c *gin.Context) {
	drag, err := h.service.CancelDrag(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, drag, nil)
}

// Conflicts godoc
// @Summary Report slot conflicts and blackout violations
// @Tags Scheduler
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/drafts/{id}/conflicts [get]
func (h *ScheduleDraftHandler) Conflicts(c *gin.Context) {
	report, err := h.service.Conflicts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "conflict_count", len(report.Conflicts))
	middleware.SetMeta(c, "blackout_count", len(report.BlackoutViolations))
	response.JSON(c, http.StatusOK, report, nil, middleware.ExtractMeta(c))
}

// PreviousWeek godoc
// @Summary Move the visible week back
// @Tags Scheduler
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/drafts/{id}/week/prev [post]
func (h *ScheduleDraftHandler) PreviousWeek(c *gin.Context) {
	h.navigate(c, "prev")
}

// NextWeek godoc
// @Summary Move the visible week forward
// @Tags Scheduler
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/drafts/{id}/week/next [post]
func (h *ScheduleDraftHandler) NextWeek(c *gin.Context) {
	h.navigate(c, "next")
}

func (h *ScheduleDraftHandler) navigate(c *gin.Context, direction string) {
	week, err := h.service.Navigate(c.Request.Context(), c.Param("id"), direction)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Calendar godoc
// @Summary Project the visible week of a draft
// @Tags Scheduler
// @Produce json
// @Param id path string true "Draft ID"
// @Param view query string false "time, room or list"
// @Success 200 {object} response.Envelope
// @Router /schedules/drafts/{id}/calendar [get]
func (h *ScheduleDraftHandler) Calendar(c *gin.Context) {
	calendar, err := h.service.Calendar(c.Request.Context(), c.Param("id"), c.Query("view"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}

// CheckBlackout godoc
// @Summary Check whether a class/teacher/room can take a cell
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.BlackoutCheckRequest true "Candidate placement"
// @Success 200 {object} response.Envelope
// @Router /schedules/blackouts/check [post]
func (h *ScheduleDraftHandler) CheckBlackout(c *gin.Context) {
	var req dto.BlackoutCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid blackout check payload"))
		return
	}
	result, err := h.service.CheckBlackout(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Apply godoc
// @Summary Persist a draft as a new schedule application
// @Tags Scheduler
// @Produce json
// @Param id path string true "Draft ID"
// @Success 201 {object} response.Envelope
// @Router /schedules/drafts/{id}/apply [post]
func (h *ScheduleDraftHandler) Apply(c *gin.Context) {
	result, err := h.service.Apply(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
