package models

import (
	"time"

	"github.com/lib/pq"
)

// ClassSession is a persisted session row belonging to an applied schedule.
type ClassSession struct {
	ID            string        `db:"id" json:"id"`
	ApplicationID string        `db:"application_id" json:"application_id"`
	ClassID       string        `db:"class_id" json:"class_id"`
	ClassName     string        `db:"class_name" json:"class_name"`
	SessionDate   time.Time     `db:"session_date" json:"session_date"`
	TimeSlots     pq.Int64Array `db:"time_slots" json:"time_slots"`
	TeacherID     *string       `db:"teacher_id" json:"teacher_id,omitempty"`
	TeacherName   string        `db:"teacher_name" json:"teacher_name"`
	RoomID        *string       `db:"room_id" json:"room_id,omitempty"`
	RoomName      string        `db:"room_name" json:"room_name"`
	LessonTopic   *string       `db:"lesson_topic" json:"lesson_topic,omitempty"`
	StartTime     string        `db:"start_time" json:"start_time"`
	EndTime       string        `db:"end_time" json:"end_time"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// ClassSessionFilter scopes weekly reads. Empty ids are ignored.
type ClassSessionFilter struct {
	StartDate time.Time
	EndDate   time.Time
	ClassID   string
	TeacherID string
	RoomID    string
}
