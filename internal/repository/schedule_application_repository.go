package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/edu-console-api/internal/models"
)

const scheduleApplicationColumns = `id, start_date, end_date, version, status, meta, applied_by, created_at, updated_at`

// ScheduleApplicationRepository persists applied drafts with a version per date range.
type ScheduleApplicationRepository struct {
	db *sqlx.DB
}

// NewScheduleApplicationRepository constructs repository.
func NewScheduleApplicationRepository(db *sqlx.DB) *ScheduleApplicationRepository {
	return &ScheduleApplicationRepository{db: db}
}

func (r *ScheduleApplicationRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateVersioned inserts an application assigning the next version for its date range.
func (r *ScheduleApplicationRepository) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, app *models.ScheduleApplication) error {
	if app == nil {
		return fmt.Errorf("schedule application payload is nil")
	}
	if app.StartDate.IsZero() || app.EndDate.IsZero() {
		return fmt.Errorf("start_date and end_date are required")
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = models.ScheduleApplicationStatusApplied
	}
	if len(app.Meta) == 0 {
		app.Meta = types.JSONText(`{}`)
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now

	target := r.exec(exec)

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM schedule_applications WHERE start_date = $1 AND end_date = $2`
	if err := sqlx.GetContext(ctx, target, &app.Version, nextVersionQuery, app.StartDate, app.EndDate); err != nil {
		return fmt.Errorf("compute next schedule application version: %w", err)
	}

	const insertQuery = `
INSERT INTO schedule_applications (id, start_date, end_date, version, status, meta, applied_by, created_at, updated_at)
VALUES (:id, :start_date, :end_date, :version, :status, :meta, :applied_by, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, app); err != nil {
		return fmt.Errorf("insert schedule application: %w", err)
	}
	return nil
}

// SupersedeOverlapping marks earlier applied ranges that overlap [start, end] as superseded.
func (r *ScheduleApplicationRepository) SupersedeOverlapping(ctx context.Context, exec sqlx.ExtContext, start, end time.Time, keepID string) (int64, error) {
	const query = `UPDATE schedule_applications SET status = $1, updated_at = $2
WHERE status = $3 AND id <> $4 AND start_date <= $5 AND end_date >= $6`
	result, err := r.exec(exec).ExecContext(ctx, query,
		models.ScheduleApplicationStatusSuperseded, time.Now().UTC(),
		models.ScheduleApplicationStatusApplied, keepID, end, start)
	if err != nil {
		return 0, fmt.Errorf("supersede schedule applications: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("schedule application rows affected: %w", err)
	}
	return affected, nil
}

// List returns applications newest first together with the total count.
func (r *ScheduleApplicationRepository) List(ctx context.Context, limit, offset int) ([]models.ScheduleApplication, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM schedule_applications`); err != nil {
		return nil, 0, fmt.Errorf("count schedule applications: %w", err)
	}

	query := `SELECT ` + scheduleApplicationColumns + ` FROM schedule_applications ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	var apps []models.ScheduleApplication
	if err := r.db.SelectContext(ctx, &apps, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list schedule applications: %w", err)
	}
	return apps, total, nil
}

// FindByID loads an application by its identifier.
func (r *ScheduleApplicationRepository) FindByID(ctx context.Context, id string) (*models.ScheduleApplication, error) {
	query := `SELECT ` + scheduleApplicationColumns + ` FROM schedule_applications WHERE id = $1`
	var app models.ScheduleApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}
