package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	promdto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-console-api/internal/dto"
	"github.com/noah-isme/edu-console-api/internal/models"
	"github.com/noah-isme/edu-console-api/internal/scheduling"
	appErrors "github.com/noah-isme/edu-console-api/pkg/errors"
	"github.com/noah-isme/edu-console-api/pkg/generator"
)

type fakeDraftGenerator struct {
	result *generator.GenerateResult
	err    error
	calls  int
	last   generator.GenerateRequest
}

func (f *fakeDraftGenerator) Generate(ctx context.Context, req generator.GenerateRequest) (*generator.GenerateResult, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeApplicationWriter struct {
	created    []*models.ScheduleApplication
	superseded int64
	err        error
}

func (f *fakeApplicationWriter) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, app *models.ScheduleApplication) error {
	if f.err != nil {
		return f.err
	}
	app.ID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	app.Version = len(f.created) + 1
	f.created = append(f.created, app)
	return nil
}

func (f *fakeApplicationWriter) SupersedeOverlapping(ctx context.Context, exec sqlx.ExtContext, start, end time.Time, keepID string) (int64, error) {
	return f.superseded, nil
}

type fakeSessionWriter struct {
	deletedStart time.Time
	deletedEnd   time.Time
	deletedFor   []string
	inserted     []models.ClassSession
	insertErr    error
}

func (f *fakeSessionWriter) DeleteRange(ctx context.Context, exec sqlx.ExtContext, start, end time.Time, classIDs []string) (int64, error) {
	f.deletedStart, f.deletedEnd, f.deletedFor = start, end, classIDs
	return 4, nil
}

func (f *fakeSessionWriter) InsertBatch(ctx context.Context, exec sqlx.ExtContext, sessions []models.ClassSession) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, sessions...)
	return nil
}

type fakePatternCache struct {
	patterns []string
}

func (f *fakePatternCache) Invalidate(ctx context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	return nil
}

func testCatalog(t *testing.T) *scheduling.Catalog {
	t.Helper()
	catalog, err := scheduling.ParseCatalog("07:00-08:00,08:00-09:00,09:00-10:00,10:00-11:00,11:00-12:00,12:00-13:00,13:00-14:00,14:00-15:00")
	require.NoError(t, err)
	return catalog
}

func generatedResult() *generator.GenerateResult {
	return &generator.GenerateResult{
		Sessions: []generator.SessionPayload{
			{ID: "s1", ClassID: "c1", ClassName: "7A", SessionDate: "2024-06-03", TimeSlots: []int{1, 2}, TeacherID: "T1", TeacherName: "Ana", RoomID: "R1", RoomName: "Lab"},
			{ID: "s2", ClassID: "c2", ClassName: "7B", SessionDate: "2024-06-03", TimeSlots: []int{2}, TeacherID: "T1", TeacherName: "Ana", RoomID: "R2", RoomName: "Hall"},
			{ID: "s3", ClassID: "c1", ClassName: "7A", SessionDate: "2024-06-11", TimeSlots: []int{3}, TeacherID: "T2", TeacherName: "Budi", RoomID: "R1", RoomName: "Lab"},
		},
		Statistics: generator.Statistics{SuccessfulSessions: 3, ConflictCount: 1, SuccessRate: 0.75},
	}
}

func generateRequest() dto.GenerateDraftRequest {
	return dto.GenerateDraftRequest{
		StartDate: "2024-06-03",
		EndDate:   "2024-06-14",
		ClassIDs:  []string{"c1", "c2"},
		Teachers:  map[string]string{"T3": "Citra"},
		Rooms:     map[string]string{"R3": "Library"},
	}
}

type draftFixture struct {
	svc      *ScheduleDraftService
	gen      *fakeDraftGenerator
	apps     *fakeApplicationWriter
	sessions *fakeSessionWriter
	cache    *fakePatternCache
	mock     sqlmock.Sqlmock
}

func newDraftFixture(t *testing.T, cfg ScheduleDraftConfig) draftFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := draftFixture{
		gen:      &fakeDraftGenerator{result: generatedResult()},
		apps:     &fakeApplicationWriter{superseded: 1},
		sessions: &fakeSessionWriter{},
		cache:    &fakePatternCache{},
		mock:     mock,
	}
	invalidator := NewScheduleCacheInvalidator(f.cache, nil)
	f.svc = NewScheduleDraftService(testCatalog(t), f.gen, f.apps, f.sessions, sqlx.NewDb(db, "sqlmock"), invalidator, NewMetricsService(), nil, nil, cfg)
	return f
}

func openGeneratedDraft(t *testing.T, f draftFixture) *dto.DraftResponse {
	t.Helper()
	draft, err := f.svc.Generate(context.Background(), generateRequest(), "admin-1")
	require.NoError(t, err)
	return draft
}

func assertAppError(t *testing.T, err error, expected *appErrors.Error) {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, expected.Code, appErr.Code)
	assert.Equal(t, expected.Status, appErr.Status)
}

func TestScheduleDraftServiceGenerateOpensWorkspace(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})

	draft := openGeneratedDraft(t, f)

	assert.Equal(t, "2024-06-03", f.gen.last.StartDate)
	assert.Equal(t, []string{"c1", "c2"}, f.gen.last.ClassIDs)
	assert.Equal(t, dto.DraftSourceGenerated, draft.Source)
	assert.Equal(t, "admin-1", draft.CreatedBy)
	require.Len(t, draft.Sessions, 3)
	assert.Equal(t, "07:00", draft.Sessions[0].StartTime)
	assert.Equal(t, "09:00", draft.Sessions[0].EndTime)
	require.NotNil(t, draft.Statistics)
	assert.Equal(t, 3, draft.Statistics.SuccessfulSessions)
	assert.Equal(t, 2, draft.Week.TotalWeeks)
	assert.Equal(t, "2024-06-03", draft.Week.WeekStart)
	assert.Equal(t, "idle", draft.Drag.Phase)
	require.Len(t, draft.Report.Conflicts, 1)
	assert.True(t, draft.Report.Conflicts[0].TeacherClash)
	assert.Equal(t, 2, draft.Report.Conflicts[0].Slot)
	assert.Equal(t, 1, f.svc.ActiveDrafts())
}

func TestScheduleDraftServiceGenerateUpstreamFailure(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	f.gen.err = &generator.RequestError{Status: http.StatusServiceUnavailable, Body: "busy"}

	_, err := f.svc.Generate(context.Background(), generateRequest(), "admin-1")

	assertAppError(t, err, appErrors.ErrUpstream)
	assert.Equal(t, 0, f.svc.ActiveDrafts())
}

func TestScheduleDraftServiceGenerateRejectsInvalidSessions(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	f.gen.result = &generator.GenerateResult{Sessions: []generator.SessionPayload{
		{ClassID: "c1", ClassName: "7A", SessionDate: "2024-06-03", TimeSlots: []int{8, 9}},
	}}

	_, err := f.svc.Generate(context.Background(), generateRequest(), "admin-1")

	assertAppError(t, err, appErrors.ErrUpstream)
}

func TestScheduleDraftServiceGenerateValidatesRange(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	req := generateRequest()
	req.EndDate = "2024-06-01"

	_, err := f.svc.Generate(context.Background(), req, "admin-1")

	assertAppError(t, err, appErrors.ErrValidation)
	assert.Equal(t, 0, f.gen.calls)
}

func TestScheduleDraftServiceRegenerateFailureKeepsDraft(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	draft := openGeneratedDraft(t, f)

	f.gen.err = errors.New("connection refused")
	_, err := f.svc.Regenerate(context.Background(), draft.ID)
	assertAppError(t, err, appErrors.ErrUpstream)

	current, err := f.svc.Get(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Sessions, current.Sessions)
	assert.Equal(t, 2, f.gen.calls)
}

func TestScheduleDraftServiceDropRelocates(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	draft := openGeneratedDraft(t, f)
	ctx := context.Background()

	drag, err := f.svc.Lift(ctx, draft.ID, dto.LiftRequest{SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "lifted", drag.Phase)

	drag, err = f.svc.Hover(ctx, draft.ID, dto.CellRequest{SessionDate: "2024-06-04", Slot: 5})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-04#5", drag.HoverKey)

	dropped, err := f.svc.Drop(ctx, draft.ID, dto.CellRequest{SessionDate: "2024-06-04", Slot: 5})
	require.NoError(t, err)
	require.NotNil(t, dropped.Session)
	assert.Nil(t, dropped.Pending)
	assert.Equal(t, "2024-06-04", dropped.Session.SessionDate)
	assert.Equal(t, []int{5, 6}, dropped.Session.TimeSlots)
	assert.Equal(t, "11:00", dropped.Session.StartTime)
	assert.Equal(t, "idle", dropped.Drag.Phase)

	report, err := f.svc.Conflicts(ctx, draft.ID)
	require.NoError(t, err)
	assert.Empty(t, report.Conflicts)
}

func TestScheduleDraftServiceDropOutOfRangeLeavesDraft(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	draft := openGeneratedDraft(t, f)
	ctx := context.Background()

	_, err := f.svc.Lift(ctx, draft.ID, dto.LiftRequest{SessionID: "s1"})
	require.NoError(t, err)

	_, err = f.svc.Drop(ctx, draft.ID, dto.CellRequest{SessionDate: "2024-06-03", Slot: 8})
	assertAppError(t, err, appErrors.ErrSlotOutOfRange)

	current, err := f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Sessions, current.Sessions)
	assert.Equal(t, "idle", current.Drag.Phase)

	_, err = f.svc.Hover(ctx, draft.ID, dto.CellRequest{SessionDate: "2024-06-03", Slot: 12})
	assertAppError(t, err, appErrors.ErrSlotOutOfRange)
}

func relocationCount(t *testing.T, metrics *MetricsService, outcome string) float64 {
	t.Helper()
	var m promdto.Metric
	require.NoError(t, metrics.relocations.WithLabelValues(outcome).Write(&m))
	return m.GetCounter().GetValue()
}

func TestScheduleDraftServiceDropOutsideCatalogEndsDrag(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	draft := openGeneratedDraft(t, f)
	ctx := context.Background()

	_, err := f.svc.Lift(ctx, draft.ID, dto.LiftRequest{SessionID: "s1"})
	require.NoError(t, err)
	_, err = f.svc.Hover(ctx, draft.ID, dto.CellRequest{SessionDate: "2024-06-04", Slot: 3})
	require.NoError(t, err)

	_, err = f.svc.Drop(ctx, draft.ID, dto.CellRequest{SessionDate: "2024-06-04", Slot: 9})
	assertAppError(t, err, appErrors.ErrSlotOutOfRange)

	current, err := f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "idle", current.Drag.Phase)
	assert.Equal(t, draft.Sessions, current.Sessions)
	assert.Equal(t, float64(1), relocationCount(t, f.svc.metrics, "out_of_range"))

	_, err = f.svc.Lift(ctx, draft.ID, dto.LiftRequest{SessionID: "s1"})
	require.NoError(t, err)
	_, err = f.svc.Drop(ctx, draft.ID, dto.CellRequest{SessionDate: "04/06/2024", Slot: 3})
	assertAppError(t, err, appErrors.ErrValidation)

	current, err = f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "idle", current.Drag.Phase)
}

func TestScheduleDraftServiceDropWithoutLift(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	draft := openGeneratedDraft(t, f)

	_, err := f.svc.Drop(context.Background(), draft.ID, dto.CellRequest{SessionDate: "2024-06-03", Slot: 4})

	assertAppError(t, err, appErrors.ErrPreconditionFailed)
}

func TestScheduleDraftServiceConfirmedRelocation(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{ConfirmRelocations: true})
	draft := openGeneratedDraft(t, f)
	ctx := context.Background()

	_, err := f.svc.Lift(ctx, draft.ID, dto.LiftRequest{SessionID: "s2"})
	require.NoError(t, err)
	dropped, err := f.svc.Drop(ctx, draft.ID, dto.CellRequest{SessionDate: "2024-06-05", Slot: 4})
	require.NoError(t, err)
	assert.Nil(t, dropped.Session)
	require.NotNil(t, dropped.Pending)
	assert.Equal(t, "RELOCATE", dropped.Pending.Kind)
	assert.Equal(t, "2024-06-05", dropped.Pending.TargetDate)

	unchanged, err := f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	require.Len(t, unchanged.Pending, 1)
	assert.Equal(t, "2024-06-03", unchanged.Sessions[1].SessionDate)

	outcome, err := f.svc.Confirm(ctx, draft.ID, dropped.Pending.Token, dto.ConfirmRequest{Approve: true})
	require.NoError(t, err)
	assert.True(t, outcome.Applied)
	require.NotNil(t, outcome.Session)
	assert.Equal(t, "2024-06-05", outcome.Session.SessionDate)
	assert.Equal(t, []int{4}, outcome.Session.TimeSlots)

	_, err = f.svc.Confirm(ctx, draft.ID, dropped.Pending.Token, dto.ConfirmRequest{Approve: true})
	assertAppError(t, err, appErrors.ErrNotFound)
}

func TestScheduleDraftServiceDeleteNeedsApproval(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	draft := openGeneratedDraft(t, f)
	ctx := context.Background()

	pending, err := f.svc.RequestDelete(ctx, draft.ID, "s3")
	require.NoError(t, err)
	assert.Equal(t, "DELETE", pending.Kind)

	outcome, err := f.svc.Confirm(ctx, draft.ID, pending.Token, dto.ConfirmRequest{Approve: false})
	require.NoError(t, err)
	assert.False(t, outcome.Applied)
	current, err := f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Len(t, current.Sessions, 3)

	pending, err = f.svc.RequestDelete(ctx, draft.ID, "s3")
	require.NoError(t, err)
	outcome, err = f.svc.Confirm(ctx, draft.ID, pending.Token, dto.ConfirmRequest{Approve: true})
	require.NoError(t, err)
	assert.True(t, outcome.Applied)
	current, err = f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Len(t, current.Sessions, 2)
	assert.Equal(t, 1, current.Week.TotalWeeks)
}

func TestScheduleDraftServiceUpdateSessionUsesDirectory(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	draft := openGeneratedDraft(t, f)
	ctx := context.Background()
	teacher := "T3"
	topic := "Algebra"

	updated, err := f.svc.UpdateSession(ctx, draft.ID, "s2", dto.UpdateSessionRequest{TeacherID: &teacher, LessonTopic: &topic})
	require.NoError(t, err)
	assert.Equal(t, "Citra", updated.TeacherName)
	require.NotNil(t, updated.LessonTopic)
	assert.Equal(t, "Algebra", *updated.LessonTopic)

	unknown := "T9"
	_, err = f.svc.UpdateSession(ctx, draft.ID, "s2", dto.UpdateSessionRequest{TeacherID: &unknown})
	assertAppError(t, err, appErrors.ErrValidation)

	_, err = f.svc.UpdateSession(ctx, draft.ID, "missing", dto.UpdateSessionRequest{LessonTopic: &topic})
	assertAppError(t, err, appErrors.ErrNotFound)
}

func TestScheduleDraftServiceNavigateAndCalendar(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	draft := openGeneratedDraft(t, f)
	ctx := context.Background()

	list, err := f.svc.Calendar(ctx, draft.ID, dto.CalendarViewList)
	require.NoError(t, err)
	require.Len(t, list.List, 1)
	assert.Equal(t, "2024-06-03", list.List[0].Date)
	require.Len(t, list.List[0].Entries, 2)
	assert.True(t, list.List[0].Entries[0].Conflict)
	assert.Len(t, list.Days, 7)

	week, err := f.svc.Navigate(ctx, draft.ID, "next")
	require.NoError(t, err)
	assert.Equal(t, 1, week.Offset)
	assert.Equal(t, "2024-06-10", week.WeekStart)

	week, err = f.svc.Navigate(ctx, draft.ID, "next")
	require.NoError(t, err)
	assert.Equal(t, 1, week.Offset)

	grid, err := f.svc.Calendar(ctx, draft.ID, "")
	require.NoError(t, err)
	assert.Equal(t, dto.CalendarViewTime, grid.View)
	require.Len(t, grid.TimeGrid, 7)
	require.Len(t, grid.TimeGrid[1].Blocks, 1)
	assert.Equal(t, "s3", grid.TimeGrid[1].Blocks[0].Session.ID)

	week, err = f.svc.Navigate(ctx, draft.ID, "prev")
	require.NoError(t, err)
	assert.Equal(t, 0, week.Offset)

	_, err = f.svc.Navigate(ctx, draft.ID, "sideways")
	assertAppError(t, err, appErrors.ErrValidation)
	_, err = f.svc.Calendar(ctx, draft.ID, "agenda")
	assertAppError(t, err, appErrors.ErrValidation)
}

func TestScheduleDraftServiceCheckBlackout(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	req := generateRequest()
	day, err := scheduling.ParseDate("2024-06-04")
	require.NoError(t, err)
	req.ClassConflict = scheduling.NewBlackoutMatrix()
	req.ClassConflict.Set("c1", day, 3, true)
	draft, err := f.svc.Generate(context.Background(), req, "admin-1")
	require.NoError(t, err)

	blocked, err := f.svc.CheckBlackout(context.Background(), dto.BlackoutCheckRequest{
		DraftID: draft.ID, ClassID: "c1", SessionDate: "2024-06-04", Slot: 3,
	})
	require.NoError(t, err)
	assert.True(t, blocked.ClassBlocked)
	assert.False(t, blocked.Available)

	clash, err := f.svc.CheckBlackout(context.Background(), dto.BlackoutCheckRequest{
		DraftID: draft.ID, ClassID: "c3", TeacherID: "T1", RoomID: "R9", SessionDate: "2024-06-03", Slot: 1,
	})
	require.NoError(t, err)
	assert.False(t, clash.ClassBlocked)
	assert.True(t, clash.TeacherClash)
	assert.False(t, clash.RoomClash)
	assert.Equal(t, []string{"s1"}, clash.Occupants)

	free, err := f.svc.CheckBlackout(context.Background(), dto.BlackoutCheckRequest{
		ClassID: "c1", SessionDate: "2024-06-04", Slot: 3,
	})
	require.NoError(t, err)
	assert.True(t, free.Available)
}

func TestScheduleDraftServiceApplyPersistsAndClosesDraft(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	draft := openGeneratedDraft(t, f)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	applied, err := f.svc.Apply(context.Background(), draft.ID, "admin-1")
	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())

	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", applied.ApplicationID)
	assert.Equal(t, 1, applied.Version)
	assert.Equal(t, "2024-06-03", applied.StartDate)
	assert.Equal(t, "2024-06-14", applied.EndDate)
	assert.Equal(t, 3, applied.SessionsWritten)
	assert.Equal(t, int64(4), applied.SessionsRemoved)
	assert.Equal(t, int64(1), applied.Superseded)

	require.Len(t, f.apps.created, 1)
	require.NotNil(t, f.apps.created[0].AppliedBy)
	assert.Equal(t, "admin-1", *f.apps.created[0].AppliedBy)
	assert.Contains(t, string(f.apps.created[0].Meta), `"sessionCount":3`)
	assert.Equal(t, []string{"c1", "c2"}, f.sessions.deletedFor)
	require.Len(t, f.sessions.inserted, 3)
	assert.Equal(t, applied.ApplicationID, f.sessions.inserted[0].ApplicationID)
	assert.Equal(t, []string{weeklyCachePattern}, f.cache.patterns)

	_, err = f.svc.Get(context.Background(), draft.ID)
	assertAppError(t, err, appErrors.ErrNotFound)
	assert.Equal(t, 0, f.svc.ActiveDrafts())
}

func TestScheduleDraftServiceApplyClearsAddedClasses(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	draft := openGeneratedDraft(t, f)
	ctx := context.Background()

	_, err := f.svc.AddSession(ctx, draft.ID, dto.SessionInput{
		ClassID: "c3", ClassName: "8A", SessionDate: "2024-06-05", TimeSlots: []int{4},
	})
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	applied, err := f.svc.Apply(ctx, draft.ID, "admin-1")
	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())

	assert.Equal(t, 4, applied.SessionsWritten)
	assert.Equal(t, []string{"c1", "c2", "c3"}, f.sessions.deletedFor)
	assert.Contains(t, string(f.apps.created[0].Meta), `"classIds":["c1","c2","c3"]`)
}

func TestScheduleDraftServiceApplyRollsBack(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	draft := openGeneratedDraft(t, f)
	f.sessions.insertErr = errors.New("insert failed")
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Apply(context.Background(), draft.ID, "admin-1")
	assertAppError(t, err, appErrors.ErrInternal)
	require.NoError(t, f.mock.ExpectationsWereMet())

	current, err := f.svc.Get(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Len(t, current.Sessions, 3)
	assert.Empty(t, f.cache.patterns)
}

func TestScheduleDraftServiceManualDraft(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{})
	ctx := context.Background()

	_, err := f.svc.OpenManual(ctx, dto.ManualDraftRequest{Sessions: []dto.SessionInput{
		{ClassID: "c1", ClassName: "7A", SessionDate: "2024-06-03", TimeSlots: []int{1, 3}},
	}}, "admin-1")
	assertAppError(t, err, appErrors.ErrValidation)

	draft, err := f.svc.OpenManual(ctx, dto.ManualDraftRequest{
		Rooms: map[string]string{"R1": "Lab"},
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, dto.DraftSourceManual, draft.Source)
	assert.Empty(t, draft.Sessions)

	added, err := f.svc.AddSession(ctx, draft.ID, dto.SessionInput{
		ClassID: "c1", ClassName: "7A", SessionDate: "2024-06-05", TimeSlots: []int{4, 5}, RoomID: "R1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "Lab", added.RoomName)
	assert.Equal(t, "10:00", added.StartTime)

	_, err = f.svc.AddSession(ctx, draft.ID, dto.SessionInput{
		ClassID: "c1", SessionDate: "2024-06-05", TimeSlots: []int{8, 9},
	})
	assertAppError(t, err, appErrors.ErrSlotOutOfRange)

	_, err = f.svc.Regenerate(ctx, draft.ID)
	assertAppError(t, err, appErrors.ErrPreconditionFailed)
	assert.Equal(t, 0, f.gen.calls)
}

func TestScheduleDraftServiceSweepAndDiscard(t *testing.T) {
	f := newDraftFixture(t, ScheduleDraftConfig{DraftTTL: time.Minute})
	ctx := context.Background()
	first := openGeneratedDraft(t, f)
	second := openGeneratedDraft(t, f)

	require.NoError(t, f.svc.Discard(ctx, first.ID))
	assertAppError(t, f.svc.Discard(ctx, first.ID), appErrors.ErrNotFound)

	f.svc.store.now = func() time.Time { return time.Now().UTC().Add(2 * time.Minute) }
	assert.Equal(t, 1, f.svc.Sweep())
	_, err := f.svc.Get(ctx, second.ID)
	assertAppError(t, err, appErrors.ErrNotFound)
}
