package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-console-api/internal/dto"
	internalmiddleware "github.com/noah-isme/edu-console-api/internal/middleware"
	"github.com/noah-isme/edu-console-api/internal/models"
	appErrors "github.com/noah-isme/edu-console-api/pkg/errors"
)

type scheduleDraftsMock struct {
	generateReq dto.GenerateDraftRequest
	actor       string
	navigated   string
	view        string
	drop        *dto.DropResponse
	cancelled   string
	err         error
}

func (m *scheduleDraftsMock) TimeSlots() []dto.TimeSlotResponse {
	return []dto.TimeSlotResponse{{Slot: 1, StartTime: "07:00", EndTime: "08:00"}}
}

func (m *scheduleDraftsMock) Generate(ctx context.Context, req dto.GenerateDraftRequest, actor string) (*dto.DraftResponse, error) {
	m.generateReq = req
	m.actor = actor
	if m.err != nil {
		return nil, m.err
	}
	return &dto.DraftResponse{ID: "draft-1", Source: dto.DraftSourceGenerated}, nil
}

func (m *scheduleDraftsMock) Regenerate(ctx context.Context, id string) (*dto.DraftResponse, error) {
	return &dto.DraftResponse{ID: id}, m.err
}

func (m *scheduleDraftsMock) OpenManual(ctx context.Context, req dto.ManualDraftRequest, actor string) (*dto.DraftResponse, error) {
	m.actor = actor
	return &dto.DraftResponse{ID: "manual-1", Source: dto.DraftSourceManual}, nil
}

func (m *scheduleDraftsMock) Get(ctx context.Context, id string) (*dto.DraftResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.DraftResponse{ID: id}, nil
}

func (m *scheduleDraftsMock) Discard(ctx context.Context, id string) error {
	return m.err
}

func (m *scheduleDraftsMock) AddSession(ctx context.Context, id string, in dto.SessionInput) (*dto.SessionResponse, error) {
	return &dto.SessionResponse{ID: "s1", ClassID: in.ClassID}, m.err
}

func (m *scheduleDraftsMock) UpdateSession(ctx context.Context, id, sessionID string, req dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	return &dto.SessionResponse{ID: sessionID}, m.err
}

func (m *scheduleDraftsMock) RequestDelete(ctx context.Context, id, sessionID string) (*dto.ConfirmationResponse, error) {
	return &dto.ConfirmationResponse{Token: "tok", Kind: "delete", SessionID: sessionID}, m.err
}

func (m *scheduleDraftsMock) Confirm(ctx context.Context, id, token string, req dto.ConfirmRequest) (*dto.ConfirmationOutcomeResponse, error) {
	return &dto.ConfirmationOutcomeResponse{Token: token, Applied: req.Approve}, m.err
}

func (m *scheduleDraftsMock) Lift(ctx context.Context, id string, req dto.LiftRequest) (*dto.DragResponse, error) {
	return &dto.DragResponse{Phase: "lifted", SessionID: req.SessionID}, m.err
}

func (m *scheduleDraftsMock) Hover(ctx context.Context, id string, req dto.CellRequest) (*dto.DragResponse, error) {
	return &dto.DragResponse{Phase: "lifted"}, m.err
}

func (m *scheduleDraftsMock) Drop(ctx context.Context, id string, req dto.CellRequest) (*dto.DropResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.drop, nil
}

func (m *scheduleDraftsMock) CancelDrag(ctx context.Context, id string) (*dto.DragResponse, error) {
	m.cancelled = id
	return &dto.DragResponse{Phase: "idle"}, m.err
}

func (m *scheduleDraftsMock) Conflicts(ctx context.Context, id string) (*dto.ConflictReport, error) {
	return &dto.ConflictReport{
		Conflicts:          []dto.ConflictResponse{{SessionDate: "2024-06-03", Slot: 2, SessionIDs: []string{"a", "b"}}},
		BlackoutViolations: []dto.BlackoutViolationResponse{},
	}, m.err
}

func (m *scheduleDraftsMock) Navigate(ctx context.Context, id, direction string) (*dto.WeekResponse, error) {
	m.navigated = direction
	return &dto.WeekResponse{Offset: 1, TotalWeeks: 2}, m.err
}

func (m *scheduleDraftsMock) Calendar(ctx context.Context, id, view string) (*dto.CalendarResponse, error) {
	m.view = view
	return &dto.CalendarResponse{View: view}, m.err
}

func (m *scheduleDraftsMock) CheckBlackout(ctx context.Context, req dto.BlackoutCheckRequest) (*dto.BlackoutCheckResponse, error) {
	return &dto.BlackoutCheckResponse{Available: true}, m.err
}

func (m *scheduleDraftsMock) Apply(ctx context.Context, id, actor string) (*dto.ApplyResponse, error) {
	m.actor = actor
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ApplyResponse{ApplicationID: "app-1", Version: 1}, nil
}

func draftRouter(mock *scheduleDraftsMock, role models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := &ScheduleDraftHandler{service: mock}
	router := gin.New()
	if role != "" {
		router.Use(func(c *gin.Context) {
			c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: role})
			c.Next()
		})
	}
	writers := internalmiddleware.RequireRoles(models.ScheduleEditors...)
	router.GET("/schedules/time-slots", handler.TimeSlots)
	router.POST("/schedules/drafts", writers, handler.Generate)
	router.POST("/schedules/drafts/manual", writers, handler.OpenManual)
	router.GET("/schedules/drafts/:id", handler.Get)
	router.POST("/schedules/drafts/:id/drag/drop", writers, handler.Drop)
	router.GET("/schedules/drafts/:id/conflicts", handler.Conflicts)
	router.POST("/schedules/drafts/:id/week/prev", handler.PreviousWeek)
	router.POST("/schedules/drafts/:id/week/next", handler.NextWeek)
	router.GET("/schedules/drafts/:id/calendar", handler.Calendar)
	router.DELETE("/schedules/drafts/:id/sessions/:sessionId", writers, handler.RequestDelete)
	router.POST("/schedules/drafts/:id/apply", writers, handler.Apply)
	return router
}

func serve(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func validDraftPayload() []byte {
	return []byte(`{"startDate":"2024-06-03","endDate":"2024-06-14","classIds":["c1","c2"],"preferMorning":true}`)
}

func TestScheduleDraftGenerateCreated(t *testing.T) {
	mock := &scheduleDraftsMock{}
	router := draftRouter(mock, models.RoleAdmin)

	w := serve(router, http.MethodPost, "/schedules/drafts", validDraftPayload())

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"c1", "c2"}, mock.generateReq.ClassIDs)
	assert.True(t, mock.generateReq.PreferMorning)
	assert.Equal(t, "admin-1", mock.actor)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "draft-1", data["id"])
}

func TestScheduleDraftGenerateMalformedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ScheduleDraftHandler{service: &scheduleDraftsMock{}}
	req, _ := http.NewRequest(http.MethodPost, "/schedules/drafts", bytes.NewReader([]byte(`{"startDate":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleDraftGenerateUpstreamFailure(t *testing.T) {
	mock := &scheduleDraftsMock{err: appErrors.Clone(appErrors.ErrUpstream, "schedule generator returned status 500")}
	router := draftRouter(mock, models.RoleAdmin)

	w := serve(router, http.MethodPost, "/schedules/drafts", validDraftPayload())

	require.Equal(t, http.StatusBadGateway, w.Code)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, appErrors.ErrUpstream.Code, errBody["code"])
}

func TestScheduleDraftWritesRequireAdmin(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		router := draftRouter(&scheduleDraftsMock{}, "")
		w := serve(router, http.MethodPost, "/schedules/drafts", validDraftPayload())
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("forbidden", func(t *testing.T) {
		router := draftRouter(&scheduleDraftsMock{}, models.RoleTeacher)
		w := serve(router, http.MethodPost, "/schedules/drafts/d1/apply", nil)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
	t.Run("reads stay open to teachers", func(t *testing.T) {
		router := draftRouter(&scheduleDraftsMock{}, models.RoleTeacher)
		w := serve(router, http.MethodGet, "/schedules/drafts/d1", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestScheduleDraftDropStatus(t *testing.T) {
	moved := &scheduleDraftsMock{drop: &dto.DropResponse{Session: &dto.SessionResponse{ID: "s1"}, Drag: dto.DragResponse{Phase: "idle"}}}
	w := serve(draftRouter(moved, models.RoleAdmin), http.MethodPost, "/schedules/drafts/d1/drag/drop", []byte(`{"sessionDate":"2024-06-04","slot":3}`))
	require.Equal(t, http.StatusOK, w.Code)

	pending := &scheduleDraftsMock{drop: &dto.DropResponse{Pending: &dto.ConfirmationResponse{Token: "t"}, Drag: dto.DragResponse{Phase: "idle"}}}
	w = serve(draftRouter(pending, models.RoleAdmin), http.MethodPost, "/schedules/drafts/d1/drag/drop", []byte(`{"sessionDate":"2024-06-04","slot":3}`))
	require.Equal(t, http.StatusAccepted, w.Code)

	outOfRange := &scheduleDraftsMock{err: appErrors.ErrSlotOutOfRange}
	w = serve(draftRouter(outOfRange, models.RoleAdmin), http.MethodPost, "/schedules/drafts/d1/drag/drop", []byte(`{"sessionDate":"2024-06-04","slot":11}`))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestScheduleDraftDropMalformedPayloadEndsDrag(t *testing.T) {
	mock := &scheduleDraftsMock{}
	w := serve(draftRouter(mock, models.RoleAdmin), http.MethodPost, "/schedules/drafts/d1/drag/drop", []byte(`{"sessionDate":`))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "d1", mock.cancelled)
}

func TestScheduleDraftRequestDeleteIsAccepted(t *testing.T) {
	w := serve(draftRouter(&scheduleDraftsMock{}, models.RoleAdmin), http.MethodDelete, "/schedules/drafts/d1/sessions/s9", nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "s9", data["sessionId"])
}

func TestScheduleDraftNavigationAndCalendar(t *testing.T) {
	mock := &scheduleDraftsMock{}
	router := draftRouter(mock, models.RoleTeacher)

	w := serve(router, http.MethodPost, "/schedules/drafts/d1/week/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "next", mock.navigated)

	w = serve(router, http.MethodPost, "/schedules/drafts/d1/week/prev", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "prev", mock.navigated)

	w = serve(router, http.MethodGet, "/schedules/drafts/d1/calendar?view=room", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "room", mock.view)
}

func TestScheduleDraftConflictsMeta(t *testing.T) {
	w := serve(draftRouter(&scheduleDraftsMock{}, models.RoleTeacher), http.MethodGet, "/schedules/drafts/d1/conflicts", nil)

	require.Equal(t, http.StatusOK, w.Code)
	meta := decodeEnvelope(t, w)["meta"].(map[string]interface{})
	assert.EqualValues(t, 1, meta["conflict_count"])
	assert.EqualValues(t, 0, meta["blackout_count"])
}

func TestScheduleDraftGetNotFound(t *testing.T) {
	mock := &scheduleDraftsMock{err: appErrors.Clone(appErrors.ErrNotFound, "draft not found or expired")}

	w := serve(draftRouter(mock, models.RoleAdmin), http.MethodGet, "/schedules/drafts/missing", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleDraftManualWithoutBody(t *testing.T) {
	mock := &scheduleDraftsMock{}

	w := serve(draftRouter(mock, models.RoleSuperAdmin), http.MethodPost, "/schedules/drafts/manual", nil)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "admin-1", mock.actor)
}

func TestScheduleDraftTimeSlots(t *testing.T) {
	w := serve(draftRouter(&scheduleDraftsMock{}, ""), http.MethodGet, "/schedules/time-slots", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
}
