package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-console-api/internal/dto"
	"github.com/noah-isme/edu-console-api/internal/models"
	appErrors "github.com/noah-isme/edu-console-api/pkg/errors"
)

type applicationReader interface {
	List(ctx context.Context, limit, offset int) ([]models.ScheduleApplication, int, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleApplication, error)
}

type applicationSessionReader interface {
	ListByApplication(ctx context.Context, applicationID string) ([]models.ClassSession, error)
}

// ScheduleApplicationService exposes the history of applied drafts.
type ScheduleApplicationService struct {
	applications applicationReader
	sessions     applicationSessionReader
	logger       *zap.Logger
}

// NewScheduleApplicationService constructs the service.
func NewScheduleApplicationService(applications applicationReader, sessions applicationSessionReader, logger *zap.Logger) *ScheduleApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleApplicationService{applications: applications, sessions: sessions, logger: logger}
}

// List returns applications newest first.
func (s *ScheduleApplicationService) List(ctx context.Context, page, pageSize int) ([]dto.ScheduleApplicationResponse, *models.Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	items, total, err := s.applications.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule applications")
	}
	out := make([]dto.ScheduleApplicationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toApplicationResponse(item))
	}
	return out, models.NewPagination(page, pageSize, total), nil
}

// Get returns one application with its sessions.
func (s *ScheduleApplicationService) Get(ctx context.Context, id string) (*dto.ScheduleApplicationResponse, error) {
	app, err := s.applications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule application")
	}
	rows, err := s.sessions.ListByApplication(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application sessions")
	}
	resp := toApplicationResponse(*app)
	resp.Sessions = make([]dto.SessionResponse, 0, len(rows))
	for _, row := range rows {
		resp.Sessions = append(resp.Sessions, toSessionResponse(fromClassSessionRow(row)))
	}
	return &resp, nil
}
