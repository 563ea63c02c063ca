package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/edu-console-api/internal/models"
)

const classSessionColumns = `id, application_id, class_id, class_name, session_date, time_slots, teacher_id, teacher_name, room_id, room_name, lesson_topic, start_time, end_time, created_at`

// ClassSessionRepository manages persisted sessions of applied schedules.
type ClassSessionRepository struct {
	db *sqlx.DB
}

// NewClassSessionRepository builds repository.
func NewClassSessionRepository(db *sqlx.DB) *ClassSessionRepository {
	return &ClassSessionRepository{db: db}
}

func (r *ClassSessionRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// DeleteRange removes sessions dated within [start, end]. When classIDs is not
// empty only those classes are cleared.
func (r *ClassSessionRepository) DeleteRange(ctx context.Context, exec sqlx.ExtContext, start, end time.Time, classIDs []string) (int64, error) {
	query := `DELETE FROM class_sessions WHERE session_date >= $1 AND session_date <= $2`
	args := []interface{}{start, end}
	if len(classIDs) > 0 {
		query += ` AND class_id = ANY($3)`
		args = append(args, pq.Array(classIDs))
	}

	result, err := r.exec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete class sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("class session rows affected: %w", err)
	}
	return affected, nil
}

// InsertBatch stores the provided sessions.
func (r *ClassSessionRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, sessions []models.ClassSession) error {
	if len(sessions) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO class_sessions (id, application_id, class_id, class_name, session_date, time_slots, teacher_id, teacher_name, room_id, room_name, lesson_topic, start_time, end_time, created_at)
VALUES (:id, :application_id, :class_id, :class_name, :session_date, :time_slots, :teacher_id, :teacher_name, :room_id, :room_name, :lesson_topic, :start_time, :end_time, :created_at)`

	for i := range sessions {
		session := &sessions[i]
		if session.ID == "" {
			session.ID = uuid.NewString()
		}
		if session.CreatedAt.IsZero() {
			session.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, session); err != nil {
			return fmt.Errorf("insert class session: %w", err)
		}
	}
	return nil
}

// ListByRange returns sessions matching the filter ordered by date and first slot.
func (r *ClassSessionRepository) ListByRange(ctx context.Context, filter models.ClassSessionFilter) ([]models.ClassSession, error) {
	conditions := []string{"session_date >= $1", "session_date <= $2"}
	args := []interface{}{filter.StartDate, filter.EndDate}

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("class_id", filter.ClassID)
	add("teacher_id", filter.TeacherID)
	add("room_id", filter.RoomID)

	query := `SELECT ` + classSessionColumns + ` FROM class_sessions WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY session_date ASC, time_slots[1] ASC, class_name ASC`

	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list class sessions: %w", err)
	}
	return sessions, nil
}

// ListByApplication returns the sessions written by one application.
func (r *ClassSessionRepository) ListByApplication(ctx context.Context, applicationID string) ([]models.ClassSession, error) {
	query := `SELECT ` + classSessionColumns + ` FROM class_sessions WHERE application_id = $1 ORDER BY session_date ASC, time_slots[1] ASC`
	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, query, applicationID); err != nil {
		return nil, fmt.Errorf("list application sessions: %w", err)
	}
	return sessions, nil
}
