package service

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/noah-isme/edu-console-api/internal/dto"
	"github.com/noah-isme/edu-console-api/internal/models"
	"github.com/noah-isme/edu-console-api/internal/scheduling"
	appErrors "github.com/noah-isme/edu-console-api/pkg/errors"
	"github.com/noah-isme/edu-console-api/pkg/generator"
)

func toTimeSlotResponses(catalog *scheduling.Catalog) []dto.TimeSlotResponse {
	slots := catalog.Slots()
	out := make([]dto.TimeSlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, dto.TimeSlotResponse{Slot: slot.Number, StartTime: slot.Start.String(), EndTime: slot.End.String()})
	}
	return out
}

func toSessionResponse(s scheduling.Session) dto.SessionResponse {
	c := s.Clone()
	return dto.SessionResponse{
		ID:          c.ID,
		ClassID:     c.ClassID,
		ClassName:   c.ClassName,
		SessionDate: scheduling.FormatDate(c.Date),
		TimeSlots:   c.TimeSlots,
		TeacherID:   c.TeacherID,
		TeacherName: c.TeacherName,
		RoomID:      c.RoomID,
		RoomName:    c.RoomName,
		LessonTopic: c.LessonTopic,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
	}
}

func toSessionResponses(sessions []scheduling.Session) []dto.SessionResponse {
	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	return out
}

func sessionFromInput(in dto.SessionInput, dir scheduling.Directory) (scheduling.Session, error) {
	date, err := scheduling.ParseDate(in.SessionDate)
	if err != nil {
		return scheduling.Session{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sessionDate")
	}
	s := scheduling.Session{
		ClassID:     in.ClassID,
		ClassName:   in.ClassName,
		Date:        date,
		TimeSlots:   append([]int(nil), in.TimeSlots...),
		TeacherID:   in.TeacherID,
		TeacherName: in.TeacherName,
		RoomID:      in.RoomID,
		RoomName:    in.RoomName,
		LessonTopic: blankToNil(in.LessonTopic),
	}
	fillNames(&s, dir)
	return s, nil
}

func fillNames(s *scheduling.Session, dir scheduling.Directory) {
	if s.TeacherName == "" && s.TeacherID != "" {
		s.TeacherName = dir.Teachers[s.TeacherID]
	}
	if s.RoomName == "" && s.RoomID != "" {
		s.RoomName = dir.Rooms[s.RoomID]
	}
}

func blankToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	out := *v
	return &out
}

func toWeekResponse(w scheduling.WeekWindow, offset int) dto.WeekResponse {
	offset = w.ClampOffset(offset)
	return dto.WeekResponse{
		Offset:     offset,
		TotalWeeks: w.TotalWeeks,
		MinDate:    scheduling.FormatDate(w.MinDate),
		MaxDate:    scheduling.FormatDate(w.MaxDate),
		WeekStart:  scheduling.FormatDate(w.WeekStart(offset)),
		Days:       formatDays(w.VisibleDays(offset)),
	}
}

func formatDays(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, scheduling.FormatDate(d))
	}
	return out
}

func toDragResponse(d scheduling.DragState) dto.DragResponse {
	return dto.DragResponse{Phase: string(d.Phase), SessionID: d.SessionID, HoverKey: d.HoverKey}
}

func toConfirmationResponse(c scheduling.Confirmation) dto.ConfirmationResponse {
	out := dto.ConfirmationResponse{Token: c.Token, Kind: string(c.Kind), SessionID: c.SessionID, Message: c.Message}
	if c.Target != nil {
		out.TargetDate = scheduling.FormatDate(c.Target.Date)
		out.TargetSlot = c.Target.Slot
	}
	return out
}

func toConflictReport(sessions []scheduling.Session, classes, teachers scheduling.BlackoutMatrix) dto.ConflictReport {
	report := dto.ConflictReport{
		Conflicts:          []dto.ConflictResponse{},
		BlackoutViolations: []dto.BlackoutViolationResponse{},
	}
	for _, c := range scheduling.DetectConflicts(sessions) {
		report.Conflicts = append(report.Conflicts, dto.ConflictResponse{
			SessionDate:  scheduling.FormatDate(c.Date),
			Slot:         c.Slot,
			SessionIDs:   c.SessionIDs,
			TeacherClash: c.TeacherClash,
			RoomClash:    c.RoomClash,
		})
	}
	for _, v := range scheduling.BlackoutViolations(sessions, classes, teachers) {
		report.BlackoutViolations = append(report.BlackoutViolations, dto.BlackoutViolationResponse{
			Kind:        string(v.Kind),
			SessionID:   v.SessionID,
			EntityID:    v.EntityID,
			SessionDate: scheduling.FormatDate(v.Date),
			Slot:        v.Slot,
		})
	}
	return report
}

func toCalendarEntries(entries []scheduling.CalendarEntry) []dto.CalendarEntryResponse {
	out := make([]dto.CalendarEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.CalendarEntryResponse{Session: toSessionResponse(e.Session), Conflict: e.Conflict, Overlaps: e.Overlaps})
	}
	return out
}

// buildCalendar projects sessions over days using the requested view.
func buildCalendar(view string, sessions []scheduling.Session, days []time.Time, grid scheduling.GridOptions) (*dto.CalendarResponse, error) {
	resp := &dto.CalendarResponse{View: view, Days: formatDays(days)}
	switch view {
	case "", dto.CalendarViewTime:
		resp.View = dto.CalendarViewTime
		resp.TimeGrid = []dto.DayColumnResponse{}
		for _, column := range scheduling.TimeGrid(sessions, days, grid) {
			col := dto.DayColumnResponse{Date: scheduling.FormatDate(column.Date), Blocks: []dto.GridBlockResponse{}}
			for _, b := range column.Blocks {
				col.Blocks = append(col.Blocks, dto.GridBlockResponse{
					CalendarEntryResponse: dto.CalendarEntryResponse{Session: toSessionResponse(b.Session), Conflict: b.Conflict, Overlaps: b.Overlaps},
					Top:                   b.Top,
					Height:                b.Height,
					Lane:                  b.Lane,
					Malformed:             b.Malformed,
				})
			}
			resp.TimeGrid = append(resp.TimeGrid, col)
		}
	case dto.CalendarViewRoom:
		roomView := scheduling.RoomGrid(sessions, days)
		resp.Days = formatDays(roomView.Days)
		resp.RoomGrid = []dto.RoomRowResponse{}
		for _, row := range roomView.Rows {
			out := dto.RoomRowResponse{RoomName: row.RoomName, Cells: make([]dto.RoomCellResponse, 0, len(row.Cells))}
			for _, cell := range row.Cells {
				out.Cells = append(out.Cells, dto.RoomCellResponse{Date: scheduling.FormatDate(cell.Date), Entries: toCalendarEntries(cell.Entries)})
			}
			resp.RoomGrid = append(resp.RoomGrid, out)
		}
	case dto.CalendarViewList:
		resp.List = []dto.DateGroupResponse{}
		for _, group := range scheduling.ListView(sessions, days) {
			resp.List = append(resp.List, dto.DateGroupResponse{Date: group.Date, Entries: toCalendarEntries(group.Entries)})
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "view must be one of time, room, list")
	}
	return resp, nil
}

func toGeneratorPayloads(sessions []scheduling.Session) []generator.SessionPayload {
	out := make([]generator.SessionPayload, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, generator.FromSession(s))
	}
	return out
}

func toClassSessionRows(applicationID string, sessions []scheduling.Session) []models.ClassSession {
	rows := make([]models.ClassSession, 0, len(sessions))
	for _, s := range sessions {
		slots := make(pq.Int64Array, len(s.TimeSlots))
		for i, slot := range s.TimeSlots {
			slots[i] = int64(slot)
		}
		rowID := s.ID
		if _, err := uuid.Parse(rowID); err != nil {
			rowID = ""
		}
		rows = append(rows, models.ClassSession{
			ID:            rowID,
			ApplicationID: applicationID,
			ClassID:       s.ClassID,
			ClassName:     s.ClassName,
			SessionDate:   scheduling.NormalizeDate(s.Date),
			TimeSlots:     slots,
			TeacherID:     optionalString(s.TeacherID),
			TeacherName:   s.TeacherName,
			RoomID:        optionalString(s.RoomID),
			RoomName:      s.RoomName,
			LessonTopic:   blankToNil(s.LessonTopic),
			StartTime:     s.StartTime,
			EndTime:       s.EndTime,
		})
	}
	return rows
}

func fromClassSessionRow(row models.ClassSession) scheduling.Session {
	slots := make([]int, len(row.TimeSlots))
	for i, slot := range row.TimeSlots {
		slots[i] = int(slot)
	}
	return scheduling.Session{
		ID:          row.ID,
		ClassID:     row.ClassID,
		ClassName:   row.ClassName,
		Date:        scheduling.NormalizeDate(row.SessionDate),
		TimeSlots:   slots,
		TeacherID:   derefString(row.TeacherID),
		TeacherName: row.TeacherName,
		RoomID:      derefString(row.RoomID),
		RoomName:    row.RoomName,
		LessonTopic: row.LessonTopic,
		StartTime:   row.StartTime,
		EndTime:     row.EndTime,
	}
}

func toApplicationResponse(app models.ScheduleApplication) dto.ScheduleApplicationResponse {
	out := dto.ScheduleApplicationResponse{
		ID:        app.ID,
		StartDate: scheduling.FormatDate(app.StartDate),
		EndDate:   scheduling.FormatDate(app.EndDate),
		Version:   app.Version,
		Status:    string(app.Status),
		AppliedBy: derefString(app.AppliedBy),
		CreatedAt: app.CreatedAt,
	}
	if len(app.Meta) > 0 {
		var meta map[string]interface{}
		if err := json.Unmarshal(app.Meta, &meta); err == nil {
			out.Meta = meta
		}
	}
	return out
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func distinctClassIDs(sessions []scheduling.Session) []string {
	seen := make(map[string]struct{})
	for _, s := range sessions {
		seen[s.ClassID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func unionClassIDs(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok || id == "" {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// mapSchedulingError turns domain errors into API errors.
func mapSchedulingError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, scheduling.ErrSlotOutOfRange):
		return appErrors.Wrap(err, appErrors.ErrSlotOutOfRange.Code, appErrors.ErrSlotOutOfRange.Status, err.Error())
	case errors.Is(err, scheduling.ErrSessionNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "session not found in draft")
	case errors.Is(err, scheduling.ErrConfirmationNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "confirmation not found or already resolved")
	case errors.Is(err, scheduling.ErrNotLifted):
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "no session is currently lifted")
	case errors.Is(err, scheduling.ErrUnknownTeacher),
		errors.Is(err, scheduling.ErrUnknownRoom),
		errors.Is(err, scheduling.ErrEmptySlots),
		errors.Is(err, scheduling.ErrNonContiguousSlots),
		errors.Is(err, scheduling.ErrMissingClass),
		errors.Is(err, scheduling.ErrMissingDate):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
}
