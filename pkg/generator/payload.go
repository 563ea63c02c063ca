package generator

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/edu-console-api/internal/scheduling"
)

// SessionPayload is the wire shape of one session exchanged with the generator.
type SessionPayload struct {
	ID          string  `json:"id,omitempty"`
	ClassID     string  `json:"class_id"`
	ClassName   string  `json:"class_name"`
	SessionDate string  `json:"session_date"`
	TimeSlots   []int   `json:"time_slots"`
	TeacherID   string  `json:"teacher_id,omitempty"`
	TeacherName string  `json:"teacher_name,omitempty"`
	RoomID      string  `json:"room_id,omitempty"`
	RoomName    string  `json:"room_name,omitempty"`
	LessonTopic *string `json:"lesson_topic,omitempty"`
	StartTime   string  `json:"start_time,omitempty"`
	EndTime     string  `json:"end_time,omitempty"`
}

// UnmarshalJSON accepts snake_case keys and the camelCase variants older
// generator builds emit, plus a bare "date" key.
func (p *SessionPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	pick := func(keys ...string) json.RawMessage {
		for _, key := range keys {
			if v, ok := raw[key]; ok && string(v) != "null" {
				return v
			}
		}
		return nil
	}

	var out SessionPayload
	fields := []struct {
		dst  interface{}
		keys []string
	}{
		{&out.ID, []string{"id"}},
		{&out.ClassID, []string{"class_id", "classId"}},
		{&out.ClassName, []string{"class_name", "className"}},
		{&out.SessionDate, []string{"session_date", "sessionDate", "date"}},
		{&out.TimeSlots, []string{"time_slots", "timeSlots"}},
		{&out.TeacherID, []string{"teacher_id", "teacherId"}},
		{&out.TeacherName, []string{"teacher_name", "teacherName"}},
		{&out.RoomID, []string{"room_id", "roomId"}},
		{&out.RoomName, []string{"room_name", "roomName"}},
		{&out.LessonTopic, []string{"lesson_topic", "lessonTopic"}},
		{&out.StartTime, []string{"start_time", "startTime"}},
		{&out.EndTime, []string{"end_time", "endTime"}},
	}
	for _, f := range fields {
		value := pick(f.keys...)
		if value == nil {
			continue
		}
		if err := json.Unmarshal(value, f.dst); err != nil {
			return fmt.Errorf("decode session field %s: %w", f.keys[0], err)
		}
	}

	*p = out
	return nil
}

// ToSession converts the payload into a domain session. Derived times are kept
// as received; callers that own a catalog should re-derive them.
func (p SessionPayload) ToSession() (scheduling.Session, error) {
	date, err := scheduling.ParseDate(p.SessionDate)
	if err != nil {
		return scheduling.Session{}, err
	}
	s := scheduling.Session{
		ID:          p.ID,
		ClassID:     p.ClassID,
		ClassName:   p.ClassName,
		Date:        date,
		TimeSlots:   append([]int(nil), p.TimeSlots...),
		TeacherID:   p.TeacherID,
		TeacherName: p.TeacherName,
		RoomID:      p.RoomID,
		RoomName:    p.RoomName,
		LessonTopic: p.LessonTopic,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
	}
	return s.Clone(), nil
}

// FromSession renders a domain session in wire form.
func FromSession(s scheduling.Session) SessionPayload {
	c := s.Clone()
	return SessionPayload{
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

// DecodeSessions normalises the shapes the generator is known to answer with:
// a bare array, or an object wrapping it under "sessions", "schedule" or "data".
func DecodeSessions(raw []byte) ([]SessionPayload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []SessionPayload{}, nil
	}

	if trimmed[0] == '[' {
		var list []SessionPayload
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode session list: %w", err)
		}
		return list, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode session envelope: %w", err)
	}
	for _, key := range []string{"sessions", "schedule", "data"} {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		return DecodeSessions(inner)
	}
	return nil, fmt.Errorf("decode session envelope: no sessions, schedule or data field")
}
