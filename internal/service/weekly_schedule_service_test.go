package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-console-api/internal/dto"
	"github.com/noah-isme/edu-console-api/internal/models"
	appErrors "github.com/noah-isme/edu-console-api/pkg/errors"
	"github.com/noah-isme/edu-console-api/pkg/generator"
)

type fakeClassSessionReader struct {
	rows   []models.ClassSession
	err    error
	calls  int
	filter models.ClassSessionFilter
}

func (f *fakeClassSessionReader) ListByRange(ctx context.Context, filter models.ClassSessionFilter) ([]models.ClassSession, error) {
	f.calls++
	f.filter = filter
	return f.rows, f.err
}

type fakeRemoteWeekly struct {
	payloads []generator.SessionPayload
	err      error
	query    generator.WeeklyQuery
}

func (f *fakeRemoteWeekly) FetchWeekly(ctx context.Context, q generator.WeeklyQuery) ([]generator.SessionPayload, error) {
	f.query = q
	return f.payloads, f.err
}

type memoryCache struct {
	items map[string][]byte
	ttl   time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	m.ttl = ttl
	return nil
}

func storedRows() []models.ClassSession {
	teacher := "T1"
	room := "R1"
	return []models.ClassSession{
		{ID: "a", ApplicationID: "app", ClassID: "c1", ClassName: "7A", SessionDate: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), TimeSlots: pq.Int64Array{1, 2}, TeacherID: &teacher, TeacherName: "Ana", RoomID: &room, RoomName: "Lab", StartTime: "07:00", EndTime: "09:00"},
		{ID: "b", ApplicationID: "app", ClassID: "c2", ClassName: "7B", SessionDate: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), TimeSlots: pq.Int64Array{3}, RoomName: "", StartTime: "09:00", EndTime: "10:00"},
	}
}

func TestWeeklyScheduleServiceReadsRepositoryAndCaches(t *testing.T) {
	repo := &fakeClassSessionReader{rows: storedRows()}
	cache := newMemoryCache()
	svc := NewWeeklyScheduleService(repo, nil, cache, testCatalog(t), nil, nil, WeeklyScheduleConfig{CacheTTL: time.Minute})
	query := dto.WeeklyScheduleQuery{StartDate: "2024-06-03", EndDate: "2024-06-09", ClassID: "c1"}

	sessions, hit, err := svc.Weekly(context.Background(), query)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, sessions, 2)
	assert.Equal(t, "T1", sessions[0].TeacherID)
	assert.Equal(t, []int{1, 2}, sessions[0].TimeSlots)
	assert.Equal(t, "c1", repo.filter.ClassID)
	assert.Equal(t, time.Minute, cache.ttl)
	assert.Contains(t, cache.items, "schedule:weekly:repository:2024-06-03:2024-06-09:c1::")

	again, hit, err := svc.Weekly(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, sessions, again)
	assert.Equal(t, 1, repo.calls)
}

func TestWeeklyScheduleServiceValidatesQuery(t *testing.T) {
	svc := NewWeeklyScheduleService(&fakeClassSessionReader{}, nil, nil, testCatalog(t), nil, nil, WeeklyScheduleConfig{})

	cases := map[string]dto.WeeklyScheduleQuery{
		"missing end":   {StartDate: "2024-06-03"},
		"reversed":      {StartDate: "2024-06-09", EndDate: "2024-06-03"},
		"too long":      {StartDate: "2024-01-01", EndDate: "2024-06-30"},
		"bad start day": {StartDate: "2024-13-01", EndDate: "2024-06-30"},
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Weekly(context.Background(), query)
			assertAppError(t, err, appErrors.ErrValidation)
		})
	}
}

func TestWeeklyScheduleServiceRemoteSource(t *testing.T) {
	remote := &fakeRemoteWeekly{payloads: []generator.SessionPayload{
		{ClassID: "c1", ClassName: "7A", SessionDate: "2024-06-04", TimeSlots: []int{2}},
	}}
	svc := NewWeeklyScheduleService(nil, remote, nil, testCatalog(t), nil, nil, WeeklyScheduleConfig{Source: "remote"})

	sessions, _, err := svc.Weekly(context.Background(), dto.WeeklyScheduleQuery{StartDate: "2024-06-03", EndDate: "2024-06-09", TeacherID: "T1"})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.NotEmpty(t, sessions[0].ID)
	assert.Equal(t, "08:00", sessions[0].StartTime)
	assert.Equal(t, "T1", remote.query.TeacherID)

	remote.err = errors.New("timeout")
	_, _, err = svc.Weekly(context.Background(), dto.WeeklyScheduleQuery{StartDate: "2024-06-03", EndDate: "2024-06-09"})
	assertAppError(t, err, appErrors.ErrUpstream)
}

func TestWeeklyScheduleServiceCalendarRoomView(t *testing.T) {
	svc := NewWeeklyScheduleService(&fakeClassSessionReader{rows: storedRows()}, nil, nil, testCatalog(t), nil, nil, WeeklyScheduleConfig{})

	calendar, hit, err := svc.Calendar(context.Background(), dto.WeeklyScheduleQuery{StartDate: "2024-06-03", EndDate: "2024-06-05"}, dto.CalendarViewRoom)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"2024-06-03", "2024-06-04", "2024-06-05"}, calendar.Days)
	require.NotEmpty(t, calendar.RoomGrid)
	for _, row := range calendar.RoomGrid {
		assert.Len(t, row.Cells, 3)
	}
}

func TestWeeklyScheduleServiceRepositoryError(t *testing.T) {
	svc := NewWeeklyScheduleService(&fakeClassSessionReader{err: errors.New("db down")}, nil, nil, testCatalog(t), nil, nil, WeeklyScheduleConfig{})

	_, _, err := svc.Weekly(context.Background(), dto.WeeklyScheduleQuery{StartDate: "2024-06-03", EndDate: "2024-06-09"})

	assertAppError(t, err, appErrors.ErrInternal)
}
