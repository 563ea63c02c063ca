package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-console-api/internal/models"
)

func TestClassSessionRepositoryDeleteRange(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewClassSessionRepository(db)

	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_sessions WHERE session_date >= $1 AND session_date <= $2 AND class_id = ANY($3)")).
		WithArgs(start, end, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 5))
	affected, err := repo.DeleteRange(context.Background(), nil, start, end, []string{"c1", "c2"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), affected)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_sessions WHERE session_date >= $1 AND session_date <= $2")).
		WithArgs(start, end).
		WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = repo.DeleteRange(context.Background(), nil, start, end, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassSessionRepositoryInsertBatch(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewClassSessionRepository(db)

	teacher := "T1"
	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO class_sessions")).
		WithArgs(sqlmock.AnyArg(), "app-1", "c1", "7A", date, sqlmock.AnyArg(), &teacher, "Ana", sqlmock.AnyArg(), "", sqlmock.AnyArg(), "09:00", "11:00", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rows := []models.ClassSession{{
		ApplicationID: "app-1",
		ClassID:       "c1",
		ClassName:     "7A",
		SessionDate:   date,
		TimeSlots:     pq.Int64Array{2, 3},
		TeacherID:     &teacher,
		TeacherName:   "Ana",
		StartTime:     "09:00",
		EndTime:       "11:00",
	}}
	require.NoError(t, repo.InsertBatch(context.Background(), nil, rows))
	assert.NotEmpty(t, rows[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())

	require.NoError(t, repo.InsertBatch(context.Background(), nil, nil))
}

func TestClassSessionRepositoryListByRangeAppliesFilters(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewClassSessionRepository(db)

	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "application_id", "class_id", "class_name", "session_date", "time_slots", "teacher_id", "teacher_name", "room_id", "room_name", "lesson_topic", "start_time", "end_time", "created_at"}).
		AddRow("s1", "app-1", "c1", "7A", start, "{2,3}", "T1", "Ana", "R1", "Lab", nil, "09:00", "11:00", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE session_date >= $1 AND session_date <= $2 AND class_id = $3 AND room_id = $4 ORDER BY session_date ASC")).
		WithArgs(start, end, "c1", "R1").
		WillReturnRows(rows)

	sessions, err := repo.ListByRange(context.Background(), models.ClassSessionFilter{StartDate: start, EndDate: end, ClassID: "c1", RoomID: "R1"})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, pq.Int64Array{2, 3}, sessions[0].TimeSlots)
	assert.Nil(t, sessions[0].LessonTopic)
	assert.NoError(t, mock.ExpectationsWereMet())
}
