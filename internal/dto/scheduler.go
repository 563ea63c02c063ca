package dto

import (
	"time"

	"github.com/noah-isme/edu-console-api/internal/scheduling"
)

// DraftSource records how a draft workspace was seeded.
type DraftSource string

const (
	DraftSourceGenerated DraftSource = "GENERATED"
	DraftSourceManual    DraftSource = "MANUAL"
)

// Calendar projections.
const (
	CalendarViewTime = "time"
	CalendarViewRoom = "room"
	CalendarViewList = "list"
)

// Export formats.
const (
	ExportFormatCSV  = "csv"
	ExportFormatPDF  = "pdf"
	ExportFormatXLSX = "xlsx"
	ExportFormatICS  = "ics"
)

// SessionInput describes a session supplied by an operator.
type SessionInput struct {
	ClassID     string  `json:"classId" validate:"required"`
	ClassName   string  `json:"className"`
	SessionDate string  `json:"sessionDate" validate:"required,datetime=2006-01-02"`
	TimeSlots   []int   `json:"timeSlots" validate:"required,min=1,dive,min=1"`
	TeacherID   string  `json:"teacherId"`
	TeacherName string  `json:"teacherName"`
	RoomID      string  `json:"roomId"`
	RoomName    string  `json:"roomName"`
	LessonTopic *string `json:"lessonTopic"`
}

// GenerateDraftRequest configures an auto-generated draft.
type GenerateDraftRequest struct {
	StartDate          string                    `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate            string                    `json:"endDate" validate:"required,datetime=2006-01-02"`
	ClassIDs           []string                  `json:"classIds" validate:"required,min=1,dive,required"`
	MaxSlotsPerSession int                       `json:"maxSlotsPerSession" validate:"omitempty,min=1,max=12"`
	PreferMorning      bool                      `json:"preferMorning"`
	ClassConflict      scheduling.BlackoutMatrix `json:"classConflict"`
	TeacherConflict    scheduling.BlackoutMatrix `json:"teacherConflict"`
	Teachers           map[string]string         `json:"teachers"`
	Rooms              map[string]string         `json:"rooms"`
}

// ManualDraftRequest opens a draft seeded by the operator.
type ManualDraftRequest struct {
	StartDate       string                    `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string                    `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	ClassIDs        []string                  `json:"classIds" validate:"omitempty,dive,required"`
	Sessions        []SessionInput            `json:"sessions" validate:"omitempty,dive"`
	ClassConflict   scheduling.BlackoutMatrix `json:"classConflict"`
	TeacherConflict scheduling.BlackoutMatrix `json:"teacherConflict"`
	Teachers        map[string]string         `json:"teachers"`
	Rooms           map[string]string         `json:"rooms"`
}

// LiftRequest starts a relocation.
type LiftRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// CellRequest addresses one (date, slot) cell of the grid.
type CellRequest struct {
	SessionDate string `json:"sessionDate" validate:"required,datetime=2006-01-02"`
	Slot        int    `json:"slot" validate:"required,min=1"`
}

// UpdateSessionRequest edits assignment fields. Omitted fields are kept; an
// empty lessonTopic clears it.
type UpdateSessionRequest struct {
	TeacherID   *string `json:"teacherId"`
	RoomID      *string `json:"roomId"`
	LessonTopic *string `json:"lessonTopic"`
}

// ConfirmRequest resolves a pending confirmation.
type ConfirmRequest struct {
	Approve bool `json:"approve"`
}

// WeeklyScheduleQuery filters the weekly read.
type WeeklyScheduleQuery struct {
	StartDate string `form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" validate:"required,datetime=2006-01-02"`
	ClassID   string `form:"class_id"`
	TeacherID string `form:"teacher_id"`
	RoomID    string `form:"room_id"`
}

// BlackoutCheckRequest evaluates a candidate placement. When DraftID is set the
// draft's matrices and sessions are used; otherwise the supplied matrices are.
type BlackoutCheckRequest struct {
	DraftID         string                    `json:"draftId"`
	ClassID         string                    `json:"classId"`
	TeacherID       string                    `json:"teacherId"`
	RoomID          string                    `json:"roomId"`
	SessionDate     string                    `json:"sessionDate" validate:"required,datetime=2006-01-02"`
	Slot            int                       `json:"slot" validate:"required,min=1"`
	ClassConflict   scheduling.BlackoutMatrix `json:"classConflict"`
	TeacherConflict scheduling.BlackoutMatrix `json:"teacherConflict"`
}

// TimeSlotResponse is one catalog entry.
type TimeSlotResponse struct {
	Slot      int    `json:"slot"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// SessionResponse is the wire form of a session.
type SessionResponse struct {
	ID          string  `json:"id"`
	ClassID     string  `json:"classId"`
	ClassName   string  `json:"className"`
	SessionDate string  `json:"sessionDate"`
	TimeSlots   []int   `json:"timeSlots"`
	TeacherID   string  `json:"teacherId,omitempty"`
	TeacherName string  `json:"teacherName,omitempty"`
	RoomID      string  `json:"roomId,omitempty"`
	RoomName    string  `json:"roomName,omitempty"`
	LessonTopic *string `json:"lessonTopic,omitempty"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
}

// GenerationStatistics mirrors the generator summary.
type GenerationStatistics struct {
	SuccessfulSessions int     `json:"successfulSessions"`
	ConflictCount      int     `json:"conflictCount"`
	SuccessRate        float64 `json:"successRate"`
}

// WeekResponse is the navigation state of a draft or read window.
type WeekResponse struct {
	Offset     int      `json:"offset"`
	TotalWeeks int      `json:"totalWeeks"`
	MinDate    string   `json:"minDate"`
	MaxDate    string   `json:"maxDate"`
	WeekStart  string   `json:"weekStart"`
	Days       []string `json:"days"`
}

// DragResponse exposes the relocation state.
type DragResponse struct {
	Phase     string `json:"phase"`
	SessionID string `json:"sessionId,omitempty"`
	HoverKey  string `json:"hoverKey,omitempty"`
}

// ConfirmationResponse describes a mutation waiting for approval.
type ConfirmationResponse struct {
	Token      string `json:"token"`
	Kind       string `json:"kind"`
	SessionID  string `json:"sessionId"`
	Message    string `json:"message"`
	TargetDate string `json:"targetDate,omitempty"`
	TargetSlot int    `json:"targetSlot,omitempty"`
}

// ConfirmationOutcomeResponse reports how a confirmation was resolved.
type ConfirmationOutcomeResponse struct {
	Token   string           `json:"token"`
	Kind    string           `json:"kind"`
	Applied bool             `json:"applied"`
	Session *SessionResponse `json:"session,omitempty"`
}

// DropResponse is the result of a drop.
type DropResponse struct {
	Session *SessionResponse      `json:"session,omitempty"`
	Pending *ConfirmationResponse `json:"pending,omitempty"`
	Drag    DragResponse          `json:"drag"`
}

// ConflictResponse is a double-booked cell.
type ConflictResponse struct {
	SessionDate  string   `json:"sessionDate"`
	Slot         int      `json:"slot"`
	SessionIDs   []string `json:"sessionIds"`
	TeacherClash bool     `json:"teacherClash"`
	RoomClash    bool     `json:"roomClash"`
}

// BlackoutViolationResponse is a session placed on a blocked triple.
type BlackoutViolationResponse struct {
	Kind        string `json:"kind"`
	SessionID   string `json:"sessionId"`
	EntityID    string `json:"entityId"`
	SessionDate string `json:"sessionDate"`
	Slot        int    `json:"slot"`
}

// ConflictReport groups both warning kinds.
type ConflictReport struct {
	Conflicts          []ConflictResponse          `json:"conflicts"`
	BlackoutViolations []BlackoutViolationResponse `json:"blackoutViolations"`
}

// DraftResponse is the full state of a draft workspace.
type DraftResponse struct {
	ID         string                 `json:"id"`
	Source     DraftSource            `json:"source"`
	StartDate  string                 `json:"startDate,omitempty"`
	EndDate    string                 `json:"endDate,omitempty"`
	ClassIDs   []string               `json:"classIds"`
	Sessions   []SessionResponse      `json:"sessions"`
	Statistics *GenerationStatistics  `json:"statistics,omitempty"`
	Week       WeekResponse           `json:"week"`
	Drag       DragResponse           `json:"drag"`
	Pending    []ConfirmationResponse `json:"pending"`
	Report     ConflictReport         `json:"report"`
	CreatedBy  string                 `json:"createdBy,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
	ExpiresAt  time.Time              `json:"expiresAt"`
}

// CalendarEntryResponse is a session annotated with its warnings.
type CalendarEntryResponse struct {
	Session  SessionResponse `json:"session"`
	Conflict bool            `json:"conflict"`
	Overlaps bool            `json:"overlaps"`
}

// GridBlockResponse positions a session in the time grid.
type GridBlockResponse struct {
	CalendarEntryResponse
	Top       float64 `json:"top"`
	Height    float64 `json:"height"`
	Lane      int     `json:"lane"`
	Malformed bool    `json:"malformed,omitempty"`
}

// DayColumnResponse is one day of the time grid.
type DayColumnResponse struct {
	Date   string              `json:"date"`
	Blocks []GridBlockResponse `json:"blocks"`
}

// RoomCellResponse holds the sessions of one room on one day.
type RoomCellResponse struct {
	Date    string                  `json:"date"`
	Entries []CalendarEntryResponse `json:"entries"`
}

// RoomRowResponse is one room across the visible days.
type RoomRowResponse struct {
	RoomName string             `json:"roomName"`
	Cells    []RoomCellResponse `json:"cells"`
}

// DateGroupResponse is one day of the list view.
type DateGroupResponse struct {
	Date    string                  `json:"date"`
	Entries []CalendarEntryResponse `json:"entries"`
}

// CalendarResponse carries exactly one projection, selected by View.
type CalendarResponse struct {
	View     string              `json:"view"`
	Days     []string            `json:"days"`
	Week     *WeekResponse       `json:"week,omitempty"`
	TimeGrid []DayColumnResponse `json:"timeGrid,omitempty"`
	RoomGrid []RoomRowResponse   `json:"roomGrid,omitempty"`
	List     []DateGroupResponse `json:"list,omitempty"`
}

// ApplyResponse summarises a persisted draft.
type ApplyResponse struct {
	ApplicationID   string `json:"applicationId"`
	Version         int    `json:"version"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	SessionsWritten int    `json:"sessionsWritten"`
	SessionsRemoved int64  `json:"sessionsRemoved"`
	Superseded      int64  `json:"superseded"`
}

// ScheduleApplicationResponse lists one applied draft.
type ScheduleApplicationResponse struct {
	ID        string                 `json:"id"`
	StartDate string                 `json:"startDate"`
	EndDate   string                 `json:"endDate"`
	Version   int                    `json:"version"`
	Status    string                 `json:"status"`
	AppliedBy string                 `json:"appliedBy,omitempty"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	Sessions  []SessionResponse      `json:"sessions,omitempty"`
}

// BlackoutCheckResponse answers a candidate placement check.
type BlackoutCheckResponse struct {
	ClassBlocked   bool     `json:"classBlocked"`
	TeacherBlocked bool     `json:"teacherBlocked"`
	TeacherClash   bool     `json:"teacherClash"`
	RoomClash      bool     `json:"roomClash"`
	Occupants      []string `json:"occupants,omitempty"`
	Available      bool     `json:"available"`
}

// ExportPublishResponse is a signed link to a published export.
type ExportPublishResponse struct {
	ExportID  string    `json:"exportId"`
	Format    string    `json:"format"`
	FileName  string    `json:"fileName"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
