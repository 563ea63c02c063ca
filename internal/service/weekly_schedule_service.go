package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-console-api/internal/dto"
	"github.com/noah-isme/edu-console-api/internal/models"
	"github.com/noah-isme/edu-console-api/internal/scheduling"
	appErrors "github.com/noah-isme/edu-console-api/pkg/errors"
	"github.com/noah-isme/edu-console-api/pkg/generator"
)

const maxWeeklySpanDays = 92

type classSessionReader interface {
	ListByRange(ctx context.Context, filter models.ClassSessionFilter) ([]models.ClassSession, error)
}

type remoteWeeklyReader interface {
	FetchWeekly(ctx context.Context, q generator.WeeklyQuery) ([]generator.SessionPayload, error)
}

type weeklyCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// WeeklyScheduleConfig selects the read source and cache behaviour.
type WeeklyScheduleConfig struct {
	Source   string
	CacheTTL time.Duration
	Grid     scheduling.GridOptions
}

// WeeklyScheduleService serves applied sessions for a date range.
type WeeklyScheduleService struct {
	repo      classSessionReader
	remote    remoteWeeklyReader
	cache     weeklyCache
	catalog   *scheduling.Catalog
	validator *validator.Validate
	logger    *zap.Logger
	cfg       WeeklyScheduleConfig
}

// NewWeeklyScheduleService constructs the read service.
func NewWeeklyScheduleService(
	repo classSessionReader,
	remote remoteWeeklyReader,
	cache weeklyCache,
	catalog *scheduling.Catalog,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg WeeklyScheduleConfig,
) *WeeklyScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Source == "" {
		cfg.Source = "repository"
	}
	if cfg.Grid.PxPerHour <= 0 {
		cfg.Grid = scheduling.DefaultGridOptions()
	}
	return &WeeklyScheduleService{
		repo:      repo,
		remote:    remote,
		cache:     cache,
		catalog:   catalog,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Weekly returns the flat session list for the query. hit reports a cache hit.
func (s *WeeklyScheduleService) Weekly(ctx context.Context, query dto.WeeklyScheduleQuery) ([]dto.SessionResponse, bool, error) {
	sessions, hit, err := s.load(ctx, query)
	if err != nil {
		return nil, false, err
	}
	return toSessionResponses(sessions), hit, nil
}

// Calendar projects the queried range with the requested view.
func (s *WeeklyScheduleService) Calendar(ctx context.Context, query dto.WeeklyScheduleQuery, view string) (*dto.CalendarResponse, bool, error) {
	sessions, hit, err := s.load(ctx, query)
	if err != nil {
		return nil, false, err
	}
	start, end, _ := parseRange(query.StartDate, query.EndDate)
	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	resp, err := buildCalendar(view, sessions, days, s.cfg.Grid)
	if err != nil {
		return nil, false, err
	}
	return resp, hit, nil
}

// ExportSource returns the queried sessions for exporting.
func (s *WeeklyScheduleService) ExportSource(ctx context.Context, query dto.WeeklyScheduleQuery) (*ExportSource, error) {
	sessions, _, err := s.load(ctx, query)
	if err != nil {
		return nil, err
	}
	return &ExportSource{
		Title:    fmt.Sprintf("Schedule %s to %s", query.StartDate, query.EndDate),
		Sessions: sessions,
	}, nil
}

func (s *WeeklyScheduleService) load(ctx context.Context, query dto.WeeklyScheduleQuery) ([]scheduling.Session, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start_date and end_date are required (YYYY-MM-DD)")
	}
	start, end, err := parseRange(query.StartDate, query.EndDate)
	if err != nil {
		return nil, false, err
	}
	if end.Sub(start) > maxWeeklySpanDays*24*time.Hour {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("date range must not exceed %d days", maxWeeklySpanDays))
	}

	key := s.cacheKey(query)
	if s.cache != nil {
		var cached []dto.SessionResponse
		hit, cacheErr := s.cache.Get(ctx, key, &cached)
		if cacheErr == nil && hit {
			sessions, convErr := sessionsFromResponses(cached)
			if convErr == nil {
				return sessions, true, nil
			}
			s.logger.Warn("discarding unreadable weekly cache entry", zap.String("key", key), zap.Error(convErr))
		}
	}

	var sessions []scheduling.Session
	switch s.cfg.Source {
	case "remote":
		sessions, err = s.loadRemote(ctx, query)
	default:
		sessions, err = s.loadRepository(ctx, query, start, end)
	}
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, key, toSessionResponses(sessions), s.cfg.CacheTTL); cacheErr != nil {
			s.logger.Debug("weekly cache write skipped", zap.Error(cacheErr))
		}
	}
	return sessions, false, nil
}

func (s *WeeklyScheduleService) loadRepository(ctx context.Context, query dto.WeeklyScheduleQuery, start, end time.Time) ([]scheduling.Session, error) {
	if s.repo == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "schedule repository is not configured")
	}
	rows, err := s.repo.ListByRange(ctx, models.ClassSessionFilter{
		StartDate: start,
		EndDate:   end,
		ClassID:   query.ClassID,
		TeacherID: query.TeacherID,
		RoomID:    query.RoomID,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly schedule")
	}
	sessions := make([]scheduling.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, fromClassSessionRow(row))
	}
	return sessions, nil
}

func (s *WeeklyScheduleService) loadRemote(ctx context.Context, query dto.WeeklyScheduleQuery) ([]scheduling.Session, error) {
	if s.remote == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "schedule generator is not configured")
	}
	payloads, err := s.remote.FetchWeekly(ctx, generator.WeeklyQuery{
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		ClassID:   query.ClassID,
		TeacherID: query.TeacherID,
		RoomID:    query.RoomID,
	})
	if err != nil {
		s.logger.Warn("remote weekly read failed", zap.Error(err))
		return nil, upstreamError(err)
	}
	sessions := make([]scheduling.Session, 0, len(payloads))
	for _, payload := range payloads {
		session, convErr := payload.ToSession()
		if convErr != nil {
			return nil, appErrors.Wrap(convErr, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "schedule generator returned an invalid session")
		}
		if session.ID == "" {
			session.ID = scheduling.NewSessionID()
		}
		if session.StartTime == "" || session.EndTime == "" {
			// Display only: a session outside the catalog keeps empty times.
			_ = session.DeriveTimes(s.catalog)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (s *WeeklyScheduleService) cacheKey(query dto.WeeklyScheduleQuery) string {
	return weeklyCachePrefix + strings.Join([]string{
		s.cfg.Source,
		query.StartDate,
		query.EndDate,
		query.ClassID,
		query.TeacherID,
		query.RoomID,
	}, ":")
}

func sessionsFromResponses(items []dto.SessionResponse) ([]scheduling.Session, error) {
	out := make([]scheduling.Session, 0, len(items))
	for _, item := range items {
		date, err := scheduling.ParseDate(item.SessionDate)
		if err != nil {
			return nil, err
		}
		out = append(out, scheduling.Session{
			ID:          item.ID,
			ClassID:     item.ClassID,
			ClassName:   item.ClassName,
			Date:        date,
			TimeSlots:   item.TimeSlots,
			TeacherID:   item.TeacherID,
			TeacherName: item.TeacherName,
			RoomID:      item.RoomID,
			RoomName:    item.RoomName,
			LessonTopic: item.LessonTopic,
			StartTime:   item.StartTime,
			EndTime:     item.EndTime,
		})
	}
	return out, nil
}
