package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ScheduleApplicationStatus tracks the lifecycle of an applied draft.
type ScheduleApplicationStatus string

const (
	ScheduleApplicationStatusApplied    ScheduleApplicationStatus = "APPLIED"
	ScheduleApplicationStatusSuperseded ScheduleApplicationStatus = "SUPERSEDED"
)

// ScheduleApplication records one atomic apply of a draft over a date range.
// Versions increase per (start_date, end_date).
type ScheduleApplication struct {
	ID        string                    `db:"id" json:"id"`
	StartDate time.Time                 `db:"start_date" json:"start_date"`
	EndDate   time.Time                 `db:"end_date" json:"end_date"`
	Version   int                       `db:"version" json:"version"`
	Status    ScheduleApplicationStatus `db:"status" json:"status"`
	Meta      types.JSONText            `db:"meta" json:"meta"`
	AppliedBy *string                   `db:"applied_by" json:"applied_by,omitempty"`
	CreatedAt time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt time.Time                 `db:"updated_at" json:"updated_at"`
}
