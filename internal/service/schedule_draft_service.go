package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-console-api/internal/dto"
	"github.com/noah-isme/edu-console-api/internal/models"
	"github.com/noah-isme/edu-console-api/internal/scheduling"
	appErrors "github.com/noah-isme/edu-console-api/pkg/errors"
	"github.com/noah-isme/edu-console-api/pkg/generator"
	"github.com/noah-isme/edu-console-api/pkg/jobs"
)

type draftGenerator interface {
	Generate(ctx context.Context, req generator.GenerateRequest) (*generator.GenerateResult, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type applicationWriter interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, app *models.ScheduleApplication) error
	SupersedeOverlapping(ctx context.Context, exec sqlx.ExtContext, start, end time.Time, keepID string) (int64, error)
}

type sessionWriter interface {
	DeleteRange(ctx context.Context, exec sqlx.ExtContext, start, end time.Time, classIDs []string) (int64, error)
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, sessions []models.ClassSession) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// ScheduleDraftConfig governs draft workspace behaviour.
type ScheduleDraftConfig struct {
	DraftTTL           time.Duration
	ConfirmRelocations bool
	Grid               scheduling.GridOptions
}

// ScheduleDraftService owns the in-memory draft workspaces and persists them on apply.
type ScheduleDraftService struct {
	catalog      *scheduling.Catalog
	generator    draftGenerator
	applications applicationWriter
	sessions     sessionWriter
	tx           txProvider
	invalidator  *ScheduleCacheInvalidator
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	store        *draftStore
	cfg          ScheduleDraftConfig
}

// NewScheduleDraftService wires draft dependencies.
func NewScheduleDraftService(
	catalog *scheduling.Catalog,
	gen draftGenerator,
	applications applicationWriter,
	sessions sessionWriter,
	tx txProvider,
	invalidator *ScheduleCacheInvalidator,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleDraftConfig,
) *ScheduleDraftService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DraftTTL <= 0 {
		cfg.DraftTTL = 2 * time.Hour
	}
	if cfg.Grid.PxPerHour <= 0 {
		cfg.Grid = scheduling.DefaultGridOptions()
	}
	return &ScheduleDraftService{
		catalog:      catalog,
		generator:    gen,
		applications: applications,
		sessions:     sessions,
		tx:           tx,
		invalidator:  invalidator,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		store:        newDraftStore(cfg.DraftTTL),
		cfg:          cfg,
	}
}

// TimeSlots returns the bookable periods.
func (s *ScheduleDraftService) TimeSlots() []dto.TimeSlotResponse {
	return toTimeSlotResponses(s.catalog)
}

// Generate asks the generator for a draft and opens a workspace around it.
func (s *ScheduleDraftService) Generate(ctx context.Context, req dto.GenerateDraftRequest, actor string) (*dto.DraftResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft generation payload")
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	request := draftRequest{
		StartDate:          start,
		EndDate:            end,
		ClassIDs:           append([]string(nil), req.ClassIDs...),
		MaxSlotsPerSession: req.MaxSlotsPerSession,
		PreferMorning:      req.PreferMorning,
	}
	classBlackout := req.ClassConflict.Clone()
	teacherBlackout := req.TeacherConflict.Clone()

	editor, stats, err := s.runGenerator(ctx, request, classBlackout, teacherBlackout)
	if err != nil {
		return nil, err
	}

	ws := &draftWorkspace{
		id:              uuid.NewString(),
		source:          dto.DraftSourceGenerated,
		editor:          editor,
		request:         request,
		classBlackout:   classBlackout,
		teacherBlackout: teacherBlackout,
		directory:       buildDirectory(req.Teachers, req.Rooms, editor.Sessions()),
		stats:           stats,
		createdBy:       actor,
		createdAt:       time.Now().UTC(),
	}
	expiresAt := s.store.Save(ws)
	s.metrics.SetActiveDrafts(s.store.Len())
	s.logger.Info("schedule draft generated",
		zap.String("draft_id", ws.id),
		zap.Int("sessions", len(editor.Sessions())),
		zap.Strings("class_ids", request.ClassIDs),
	)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	resp := s.draftResponse(ws, expiresAt)
	return &resp, nil
}

// Regenerate reruns the generator with the stored parameters. The draft is left
// untouched when the generator fails.
func (s *ScheduleDraftService) Regenerate(ctx context.Context, id string) (*dto.DraftResponse, error) {
	var resp dto.DraftResponse
	err := s.withDraft(id, func(ws *draftWorkspace, expiresAt time.Time) error {
		if ws.source != dto.DraftSourceGenerated {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "only generated drafts can be regenerated")
		}
		editor, stats, err := s.runGenerator(ctx, ws.request, ws.classBlackout, ws.teacherBlackout)
		if err != nil {
			return err
		}
		ws.editor = editor
		ws.stats = stats
		ws.offset = 0
		ws.directory = buildDirectory(ws.directory.Teachers, ws.directory.Rooms, editor.Sessions())
		resp = s.draftResponse(ws, expiresAt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// OpenManual opens a workspace seeded with operator supplied sessions.
func (s *ScheduleDraftService) OpenManual(ctx context.Context, req dto.ManualDraftRequest, actor string) (*dto.DraftResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid manual draft payload")
	}
	var request draftRequest
	if req.StartDate != "" || req.EndDate != "" {
		start, end, err := parseRange(req.StartDate, req.EndDate)
		if err != nil {
			return nil, err
		}
		request.StartDate, request.EndDate = start, end
	}
	request.ClassIDs = append([]string(nil), req.ClassIDs...)

	dir := buildDirectory(req.Teachers, req.Rooms, nil)
	seed := make([]scheduling.Session, 0, len(req.Sessions))
	for _, in := range req.Sessions {
		session, err := sessionFromInput(in, dir)
		if err != nil {
			return nil, err
		}
		seed = append(seed, session)
	}
	editor, err := scheduling.NewEditor(s.catalog, seed, scheduling.EditorOptions{ConfirmRelocations: s.cfg.ConfirmRelocations})
	if err != nil {
		return nil, mapSchedulingError(err)
	}

	ws := &draftWorkspace{
		id:              uuid.NewString(),
		source:          dto.DraftSourceManual,
		editor:          editor,
		request:         request,
		classBlackout:   req.ClassConflict.Clone(),
		teacherBlackout: req.TeacherConflict.Clone(),
		directory:       buildDirectory(req.Teachers, req.Rooms, editor.Sessions()),
		createdBy:       actor,
		createdAt:       time.Now().UTC(),
	}
	expiresAt := s.store.Save(ws)
	s.metrics.SetActiveDrafts(s.store.Len())

	ws.mu.Lock()
	defer ws.mu.Unlock()
	resp := s.draftResponse(ws, expiresAt)
	return &resp, nil
}

// Get returns the full state of a draft.
func (s *ScheduleDraftService) Get(ctx context.Context, id string) (*dto.DraftResponse, error) {
	var resp dto.DraftResponse
	err := s.withDraft(id, func(ws *draftWorkspace, expiresAt time.Time) error {
		resp = s.draftResponse(ws, expiresAt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Discard drops a draft without persisting it.
func (s *ScheduleDraftService) Discard(ctx context.Context, id string) error {
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		ws.closed = true
		return nil
	})
	if err != nil {
		return err
	}
	s.store.Delete(id)
	s.metrics.SetActiveDrafts(s.store.Len())
	return nil
}

// AddSession inserts a manually created session.
func (s *ScheduleDraftService) AddSession(ctx context.Context, id string, in dto.SessionInput) (*dto.SessionResponse, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	var resp dto.SessionResponse
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		session, err := sessionFromInput(in, ws.directory)
		if err != nil {
			return err
		}
		added, err := ws.editor.Add(session)
		if err != nil {
			return mapSchedulingError(err)
		}
		resp = toSessionResponse(added)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateSession edits teacher, room or topic of a session.
func (s *ScheduleDraftService) UpdateSession(ctx context.Context, id, sessionID string, req dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	var resp dto.SessionResponse
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		updated, err := ws.editor.UpdateSession(sessionID, scheduling.SessionPatch{
			TeacherID:   req.TeacherID,
			RoomID:      req.RoomID,
			LessonTopic: req.LessonTopic,
		}, ws.directory)
		if err != nil {
			return mapSchedulingError(err)
		}
		resp = toSessionResponse(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestDelete registers a deletion awaiting confirmation.
func (s *ScheduleDraftService) RequestDelete(ctx context.Context, id, sessionID string) (*dto.ConfirmationResponse, error) {
	var resp dto.ConfirmationResponse
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		pending, err := ws.editor.RequestDelete(sessionID)
		if err != nil {
			return mapSchedulingError(err)
		}
		resp = toConfirmationResponse(pending)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Confirm approves or rejects a pending confirmation.
func (s *ScheduleDraftService) Confirm(ctx context.Context, id, token string, req dto.ConfirmRequest) (*dto.ConfirmationOutcomeResponse, error) {
	var resp dto.ConfirmationOutcomeResponse
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		outcome, err := ws.editor.Confirm(token, req.Approve)
		if err != nil {
			return mapSchedulingError(err)
		}
		if outcome.Confirmation.Kind == scheduling.ConfirmRelocate {
			if outcome.Applied {
				s.metrics.RecordRelocation("moved")
			} else {
				s.metrics.RecordRelocation("rejected")
			}
		}
		resp = dto.ConfirmationOutcomeResponse{
			Token:   outcome.Confirmation.Token,
			Kind:    string(outcome.Confirmation.Kind),
			Applied: outcome.Applied,
		}
		if outcome.Session != nil {
			session := toSessionResponse(*outcome.Session)
			resp.Session = &session
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Lift starts relocating a session.
func (s *ScheduleDraftService) Lift(ctx context.Context, id string, req dto.LiftRequest) (*dto.DragResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lift payload")
	}
	var resp dto.DragResponse
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		if err := ws.editor.Lift(req.SessionID); err != nil {
			return mapSchedulingError(err)
		}
		resp = toDragResponse(ws.editor.Drag())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Hover records the cell under the lifted session.
func (s *ScheduleDraftService) Hover(ctx context.Context, id string, req dto.CellRequest) (*dto.DragResponse, error) {
	date, err := s.parseCell(req)
	if err != nil {
		return nil, err
	}
	var resp dto.DragResponse
	err = s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		if err := ws.editor.Hover(date, req.Slot); err != nil {
			return mapSchedulingError(err)
		}
		resp = toDragResponse(ws.editor.Drag())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Drop places the lifted session so that it starts at the target cell. The drag
// state is cleared whether the drop lands or is rejected.
func (s *ScheduleDraftService) Drop(ctx context.Context, id string, req dto.CellRequest) (*dto.DropResponse, error) {
	var resp dto.DropResponse
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		date, err := s.parseCell(req)
		if err != nil {
			ws.editor.Cancel()
			if errors.Is(err, appErrors.ErrSlotOutOfRange) {
				s.metrics.RecordRelocation("out_of_range")
			}
			return err
		}
		result, err := ws.editor.Drop(date, req.Slot)
		if err != nil {
			if errors.Is(err, scheduling.ErrSlotOutOfRange) {
				s.metrics.RecordRelocation("out_of_range")
			}
			return mapSchedulingError(err)
		}
		resp.Drag = toDragResponse(ws.editor.Drag())
		if result.Session != nil {
			session := toSessionResponse(*result.Session)
			resp.Session = &session
			s.metrics.RecordRelocation("moved")
		}
		if result.Pending != nil {
			pending := toConfirmationResponse(*result.Pending)
			resp.Pending = &pending
			s.metrics.RecordRelocation("pending")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelDrag ends a relocation without changes.
func (s *ScheduleDraftService) CancelDrag(ctx context.Context, id string) (*dto.DragResponse, error) {
	var resp dto.DragResponse
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		ws.editor.Cancel()
		resp = toDragResponse(ws.editor.Drag())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Conflicts reports double-bookings and blackout violations.
func (s *ScheduleDraftService) Conflicts(ctx context.Context, id string) (*dto.ConflictReport, error) {
	var resp dto.ConflictReport
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		resp = toConflictReport(ws.editor.Sessions(), ws.classBlackout, ws.teacherBlackout)
		s.metrics.ObserveConflicts(len(resp.Conflicts))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Navigate moves the visible week. direction is "prev" or "next".
func (s *ScheduleDraftService) Navigate(ctx context.Context, id, direction string) (*dto.WeekResponse, error) {
	if direction != "prev" && direction != "next" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "direction must be prev or next")
	}
	var resp dto.WeekResponse
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		w := ws.window()
		if direction == "prev" {
			ws.offset = w.Prev(ws.offset)
		} else {
			ws.offset = w.Next(ws.offset)
		}
		resp = toWeekResponse(w, ws.offset)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Calendar projects the visible week of a draft.
func (s *ScheduleDraftService) Calendar(ctx context.Context, id, view string) (*dto.CalendarResponse, error) {
	var resp *dto.CalendarResponse
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		w := ws.window()
		ws.offset = w.ClampOffset(ws.offset)
		calendar, err := buildCalendar(view, ws.editor.Sessions(), w.VisibleDays(ws.offset), s.cfg.Grid)
		if err != nil {
			return err
		}
		week := toWeekResponse(w, ws.offset)
		calendar.Week = &week
		resp = calendar
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CheckBlackout evaluates a candidate (class, teacher, room, date, slot) placement.
func (s *ScheduleDraftService) CheckBlackout(ctx context.Context, req dto.BlackoutCheckRequest) (*dto.BlackoutCheckResponse, error) {
	date, err := s.parseCell(dto.CellRequest{SessionDate: req.SessionDate, Slot: req.Slot})
	if err != nil {
		return nil, err
	}
	classes := req.ClassConflict.Clone()
	teachers := req.TeacherConflict.Clone()
	var sessions []scheduling.Session
	if req.DraftID != "" {
		err := s.withDraft(req.DraftID, func(ws *draftWorkspace, _ time.Time) error {
			classes = ws.classBlackout.Merge(classes)
			teachers = ws.teacherBlackout.Merge(teachers)
			sessions = ws.editor.Sessions()
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	resp := &dto.BlackoutCheckResponse{
		ClassBlocked:   req.ClassID != "" && classes.IsBlocked(req.ClassID, date, req.Slot),
		TeacherBlocked: req.TeacherID != "" && teachers.IsBlocked(req.TeacherID, date, req.Slot),
	}
	for _, session := range sessions {
		if !session.SameDay(date) || !session.Occupies(req.Slot) {
			continue
		}
		resp.Occupants = append(resp.Occupants, session.ID)
		if req.TeacherID != "" && session.TeacherID == req.TeacherID {
			resp.TeacherClash = true
		}
		if req.RoomID != "" && session.RoomID == req.RoomID {
			resp.RoomClash = true
		}
	}
	resp.Available = !resp.ClassBlocked && !resp.TeacherBlocked && !resp.TeacherClash && !resp.RoomClash
	return resp, nil
}

// Apply persists the draft, replacing stored sessions of its range in one transaction.
func (s *ScheduleDraftService) Apply(ctx context.Context, id, actor string) (*dto.ApplyResponse, error) {
	if s.tx == nil || s.applications == nil || s.sessions == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "schedule persistence is not configured")
	}
	var resp dto.ApplyResponse
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		applied, err := s.persist(ctx, ws, actor)
		if err != nil {
			s.metrics.RecordApply("failure", 0)
			return err
		}
		ws.closed = true
		resp = *applied
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.store.Delete(id)
	s.metrics.SetActiveDrafts(s.store.Len())
	s.metrics.RecordApply("success", resp.SessionsWritten)
	s.invalidator.Schedule(ctx, resp.ApplicationID)
	s.logger.Info("schedule draft applied",
		zap.String("draft_id", id),
		zap.String("application_id", resp.ApplicationID),
		zap.Int("version", resp.Version),
		zap.Int("sessions", resp.SessionsWritten),
	)
	return &resp, nil
}

// ExportSource returns a snapshot of the draft for exporting.
func (s *ScheduleDraftService) ExportSource(ctx context.Context, id string) (*ExportSource, error) {
	var src ExportSource
	err := s.withDraft(id, func(ws *draftWorkspace, _ time.Time) error {
		w := ws.window()
		src = ExportSource{
			Title:    fmt.Sprintf("Draft %s (%s to %s)", shortID(ws.id), scheduling.FormatDate(w.MinDate), scheduling.FormatDate(w.MaxDate)),
			Sessions: ws.editor.Sessions(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &src, nil
}

// Sweep drops expired drafts.
func (s *ScheduleDraftService) Sweep() int {
	removed := s.store.Sweep()
	s.metrics.SetActiveDrafts(s.store.Len())
	if removed > 0 {
		s.logger.Info("expired schedule drafts removed", zap.Int("count", removed))
	}
	return removed
}

// ActiveDrafts returns the number of live workspaces.
func (s *ScheduleDraftService) ActiveDrafts() int {
	return s.store.Len()
}

func (s *ScheduleDraftService) persist(ctx context.Context, ws *draftWorkspace, actor string) (result *dto.ApplyResponse, err error) {
	sessions := ws.editor.Sessions()
	if len(sessions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "draft has no sessions to apply")
	}
	start, end := applyRange(ws.request, sessions)
	// every class the draft touches is cleared, including classes added by hand
	classIDs := unionClassIDs(ws.request.ClassIDs, distinctClassIDs(sessions))

	meta := map[string]any{
		"draftId":      ws.id,
		"source":       ws.source,
		"classIds":     classIDs,
		"sessionCount": len(sessions),
		"request": map[string]any{
			"startDate":          scheduling.FormatDate(start),
			"endDate":            scheduling.FormatDate(end),
			"maxSlotsPerSession": ws.request.MaxSlotsPerSession,
			"preferMorning":      ws.request.PreferMorning,
		},
	}
	if ws.stats != nil {
		meta["statistics"] = ws.stats
	}
	metaBytes, marshalErr := json.Marshal(meta)
	if marshalErr != nil {
		return nil, appErrors.Wrap(marshalErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode application metadata")
	}

	txStarted := time.Now()
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
		s.metrics.ObserveDBQuery("apply_schedule_tx", time.Since(txStarted))
	}()

	app := &models.ScheduleApplication{
		StartDate: start,
		EndDate:   end,
		Status:    models.ScheduleApplicationStatusApplied,
		Meta:      types.JSONText(metaBytes),
		AppliedBy: optionalString(actor),
	}
	if err = s.applications.CreateVersioned(ctx, tx, app); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule application")
		return nil, err
	}

	removed, err := s.sessions.DeleteRange(ctx, tx, start, end, classIDs)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear existing sessions")
		return nil, err
	}

	if err = s.sessions.InsertBatch(ctx, tx, toClassSessionRows(app.ID, sessions)); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist sessions")
		return nil, err
	}

	superseded, err := s.applications.SupersedeOverlapping(ctx, tx, start, end, app.ID)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to supersede earlier applications")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule transaction")
		return nil, err
	}

	return &dto.ApplyResponse{
		ApplicationID:   app.ID,
		Version:         app.Version,
		StartDate:       scheduling.FormatDate(start),
		EndDate:         scheduling.FormatDate(end),
		SessionsWritten: len(sessions),
		SessionsRemoved: removed,
		Superseded:      superseded,
	}, nil
}

func (s *ScheduleDraftService) runGenerator(ctx context.Context, request draftRequest, classes, teachers scheduling.BlackoutMatrix) (*scheduling.Editor, *generator.Statistics, error) {
	if s.generator == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrUnavailable, "schedule generator is not configured")
	}
	started := time.Now()
	result, err := s.generator.Generate(ctx, generator.GenerateRequest{
		StartDate:          scheduling.FormatDate(request.StartDate),
		EndDate:            scheduling.FormatDate(request.EndDate),
		ClassIDs:           request.ClassIDs,
		MaxSlotsPerSession: request.MaxSlotsPerSession,
		PreferMorning:      request.PreferMorning,
		ClassConflict:      classes,
		TeacherConflict:    teachers,
	})
	if err != nil {
		s.metrics.ObserveGeneration("failure", time.Since(started))
		s.logger.Warn("schedule generator failed", zap.Error(err))
		return nil, nil, upstreamError(err)
	}

	seed := make([]scheduling.Session, 0, len(result.Sessions))
	for _, payload := range result.Sessions {
		session, convErr := payload.ToSession()
		if convErr != nil {
			s.metrics.ObserveGeneration("invalid", time.Since(started))
			return nil, nil, appErrors.Wrap(convErr, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "schedule generator returned an invalid session")
		}
		seed = append(seed, session)
	}
	editor, err := scheduling.NewEditor(s.catalog, seed, scheduling.EditorOptions{ConfirmRelocations: s.cfg.ConfirmRelocations})
	if err != nil {
		s.metrics.ObserveGeneration("invalid", time.Since(started))
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "schedule generator returned an invalid session")
	}
	s.metrics.ObserveGeneration("success", time.Since(started))
	stats := result.Statistics
	return editor, &stats, nil
}

// withDraft runs fn while holding the workspace lock.
func (s *ScheduleDraftService) withDraft(id string, fn func(ws *draftWorkspace, expiresAt time.Time) error) error {
	ws, expiresAt, ok := s.store.Get(id)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "draft not found or expired")
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return appErrors.Clone(appErrors.ErrNotFound, "draft not found or expired")
	}
	return fn(ws, expiresAt)
}

func (s *ScheduleDraftService) parseCell(req dto.CellRequest) (time.Time, error) {
	if err := s.validator.Struct(req); err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cell payload")
	}
	date, err := scheduling.ParseDate(req.SessionDate)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sessionDate")
	}
	if _, ok := s.catalog.Bounds(req.Slot); !ok {
		return time.Time{}, appErrors.Clone(appErrors.ErrSlotOutOfRange, fmt.Sprintf("slot %d is not in the time slot catalog", req.Slot))
	}
	return date, nil
}

func (s *ScheduleDraftService) draftResponse(ws *draftWorkspace, expiresAt time.Time) dto.DraftResponse {
	sessions := ws.editor.Sessions()
	w := ws.window()
	ws.offset = w.ClampOffset(ws.offset)

	pending := ws.editor.Pending()
	pendingResp := make([]dto.ConfirmationResponse, 0, len(pending))
	for _, c := range pending {
		pendingResp = append(pendingResp, toConfirmationResponse(c))
	}

	resp := dto.DraftResponse{
		ID:        ws.id,
		Source:    ws.source,
		ClassIDs:  append([]string{}, ws.request.ClassIDs...),
		Sessions:  toSessionResponses(sessions),
		Week:      toWeekResponse(w, ws.offset),
		Drag:      toDragResponse(ws.editor.Drag()),
		Pending:   pendingResp,
		Report:    toConflictReport(sessions, ws.classBlackout, ws.teacherBlackout),
		CreatedBy: ws.createdBy,
		CreatedAt: ws.createdAt,
		ExpiresAt: expiresAt,
	}
	if !ws.request.StartDate.IsZero() {
		resp.StartDate = scheduling.FormatDate(ws.request.StartDate)
		resp.EndDate = scheduling.FormatDate(ws.request.EndDate)
	}
	if ws.stats != nil {
		resp.Statistics = &dto.GenerationStatistics{
			SuccessfulSessions: ws.stats.SuccessfulSessions,
			ConflictCount:      ws.stats.ConflictCount,
			SuccessRate:        ws.stats.SuccessRate,
		}
	}
	return resp
}

func parseRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := scheduling.ParseDate(rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid startDate")
	}
	end, err := scheduling.ParseDate(rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid endDate")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "endDate must not be before startDate")
	}
	return start, end, nil
}

// applyRange widens the requested range so that it covers every session.
func applyRange(req draftRequest, sessions []scheduling.Session) (time.Time, time.Time) {
	w := scheduling.NewWeekWindow(sessions, req.StartDate)
	start, end := w.MinDate, w.MaxDate
	if !req.StartDate.IsZero() && req.StartDate.Before(start) {
		start = scheduling.NormalizeDate(req.StartDate)
	}
	if !req.EndDate.IsZero() && req.EndDate.After(end) {
		end = scheduling.NormalizeDate(req.EndDate)
	}
	return start, end
}

func buildDirectory(teachers, rooms map[string]string, sessions []scheduling.Session) scheduling.Directory {
	dir := scheduling.Directory{Teachers: make(map[string]string), Rooms: make(map[string]string)}
	for _, session := range sessions {
		if session.TeacherID != "" && session.TeacherName != "" {
			dir.Teachers[session.TeacherID] = session.TeacherName
		}
		if session.RoomID != "" && session.RoomName != "" {
			dir.Rooms[session.RoomID] = session.RoomName
		}
	}
	for id, name := range teachers {
		dir.Teachers[id] = name
	}
	for id, name := range rooms {
		dir.Rooms[id] = name
	}
	return dir
}

func upstreamError(err error) error {
	var reqErr *generator.RequestError
	if errors.As(err, &reqErr) {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("schedule generator responded with status %d", reqErr.Status))
	}
	return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
