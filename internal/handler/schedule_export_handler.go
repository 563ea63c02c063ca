package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-console-api/internal/dto"
	"github.com/noah-isme/edu-console-api/internal/service"
	appErrors "github.com/noah-isme/edu-console-api/pkg/errors"
	"github.com/noah-isme/edu-console-api/pkg/response"
	"github.com/noah-isme/edu-console-api/pkg/storage"
)

type draftExportSource interface {
	ExportSource(ctx context.Context, id string) (*service.ExportSource, error)
}

type weeklyExportSource interface {
	ExportSource(ctx context.Context, query dto.WeeklyScheduleQuery) (*service.ExportSource, error)
}

type scheduleExporter interface {
	Render(src *service.ExportSource, format string) (*service.ExportFile, error)
	Publish(ctx context.Context, src *service.ExportSource, format string) (*service.ExportResult, error)
	ParseToken(token string) (storage.SignedToken, error)
	Open(relPath string) (*os.File, error)
}

// ScheduleExportHandler renders drafts and applied schedules to files.
type ScheduleExportHandler struct {
	drafts  draftExportSource
	weekly  weeklyExportSource
	exports scheduleExporter
}

// NewScheduleExportHandler constructs the handler.
func NewScheduleExportHandler(drafts *service.ScheduleDraftService, weekly *service.WeeklyScheduleService, exports *service.ExportService) *ScheduleExportHandler {
	return &ScheduleExportHandler{drafts: drafts, weekly: weekly, exports: exports}
}

// ExportDraft godoc
// @Summary Download a draft as csv, pdf, xlsx or ics
// @Tags Scheduler
// @Produce octet-stream
// @Param id path string true "Draft ID"
// @Param format query string false "csv, pdf, xlsx or ics"
// @Success 200 {file} binary
// @Router /schedules/drafts/{id}/export [get]
func (h *ScheduleExportHandler) ExportDraft(c *gin.Context) {
	src, err := h.drafts.ExportSource(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, src)
}

// PublishDraft godoc
// @Summary Store a draft export and return a signed download link
// @Tags Scheduler
// @Produce json
// @Param id path string true "Draft ID"
// @Param format query string false "csv, pdf, xlsx or ics"
// @Success 201 {object} response.Envelope
// @Router /schedules/drafts/{id}/exports [post]
func (h *ScheduleExportHandler) PublishDraft(c *gin.Context) {
	src, err := h.drafts.ExportSource(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.Publish(c.Request.Context(), src, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ExportPublishResponse{
		ExportID:  result.ExportID,
		Format:    result.Format,
		FileName:  result.FileName,
		URL:       result.URL,
		ExpiresAt: result.ExpiresAt,
	})
}

// ExportWeekly godoc
// @Summary Download applied sessions for a date range
// @Tags Scheduler
// @Produce octet-stream
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param format query string false "csv, pdf, xlsx or ics"
// @Success 200 {file} binary
// @Router /schedules/weekly/export [get]
func (h *ScheduleExportHandler) ExportWeekly(c *gin.Context) {
	var query dto.WeeklyScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	src, err := h.weekly.ExportSource(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, src)
}

// Download godoc
// @Summary Download a published export via signed token
// @Tags Scheduler
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /schedules/exports/{token} [get]
func (h *ScheduleExportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	signed, err := h.exports.ParseToken(token)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTokenExpired):
			response.Error(c, appErrors.Wrap(err, appErrors.ErrExpired.Code, appErrors.ErrExpired.Status, "download link expired"))
		case errors.Is(err, storage.ErrInvalidToken):
			response.Error(c, appErrors.Wrap(err, appErrors.ErrForbidden.Code, http.StatusForbidden, "invalid download link"))
		default:
			response.Error(c, err)
		}
		return
	}
	file, err := h.exports.Open(signed.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available"))
			return
		}
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck
	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}
	name := filepath.Base(signed.Path)
	response.AttachmentReader(c, name, contentTypeFor(name), info.Size(), file)
}

func (h *ScheduleExportHandler) stream(c *gin.Context, src *service.ExportSource) {
	file, err := h.exports.Render(src, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.FileName, file.ContentType, file.Data)
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "text/csv"
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".ics":
		return "text/calendar"
	default:
		return "application/octet-stream"
	}
}
