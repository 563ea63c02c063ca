package scheduling

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO calendar date format used on the wire and as map keys.
const DateLayout = "2006-01-02"

// Session errors.
var (
	ErrEmptySlots         = errors.New("session must occupy at least one slot")
	ErrNonContiguousSlots = errors.New("session slots must be contiguous")
	ErrSlotOutOfRange     = errors.New("session does not fit within the time slot catalog")
	ErrMissingClass       = errors.New("session requires a class")
	ErrMissingDate        = errors.New("session requires a date")
)

// Session is one scheduled occurrence of a class on a date.
type Session struct {
	ID          string
	ClassID     string
	ClassName   string
	Date        time.Time
	TimeSlots   []int
	TeacherID   string
	TeacherName string
	RoomID      string
	RoomName    string
	LessonTopic *string
	StartTime   string
	EndTime     string
}

// NormalizeDate strips the time component, keeping the calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date. A trailing "T..." time part, as sent by
// clients that serialise full timestamps, is ignored.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > len(DateLayout) && raw[len(DateLayout)] == 'T' {
		raw = raw[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

// FormatDate renders a calendar date as "2006-01-02".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NewSessionID returns a fresh synthetic identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Key is the structural identity (class, date, joined slots).
func (s Session) Key() string {
	parts := make([]string, len(s.TimeSlots))
	for i, slot := range s.TimeSlots {
		parts[i] = strconv.Itoa(slot)
	}
	return s.ClassID + "|" + FormatDate(s.Date) + "|" + strings.Join(parts, ",")
}

// Span is the number of slots the session occupies.
func (s Session) Span() int {
	return len(s.TimeSlots)
}

// Anchor returns the first slot, or zero for an empty session.
func (s Session) Anchor() int {
	if len(s.TimeSlots) == 0 {
		return 0
	}
	return s.TimeSlots[0]
}

// Last returns the final slot, or zero for an empty session.
func (s Session) Last() int {
	if len(s.TimeSlots) == 0 {
		return 0
	}
	return s.TimeSlots[len(s.TimeSlots)-1]
}

// Occupies reports whether the session holds the given slot.
func (s Session) Occupies(slot int) bool {
	for _, v := range s.TimeSlots {
		if v == slot {
			return true
		}
	}
	return false
}

// SameDay reports whether the session falls on the calendar date.
func (s Session) SameDay(date time.Time) bool {
	return NormalizeDate(s.Date).Equal(NormalizeDate(date))
}

// Validate checks the slot sequence is non-empty and contiguous.
func (s Session) Validate() error {
	if len(s.TimeSlots) == 0 {
		return ErrEmptySlots
	}
	for i := 1; i < len(s.TimeSlots); i++ {
		if s.TimeSlots[i] != s.TimeSlots[i-1]+1 {
			return fmt.Errorf("%w: %v", ErrNonContiguousSlots, s.TimeSlots)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s Session) Clone() Session {
	out := s
	out.TimeSlots = append([]int(nil), s.TimeSlots...)
	if s.LessonTopic != nil {
		topic := *s.LessonTopic
		out.LessonTopic = &topic
	}
	return out
}

// DeriveTimes recomputes StartTime/EndTime from the catalog.
func (s *Session) DeriveTimes(catalog *Catalog) error {
	if err := s.Validate(); err != nil {
		return err
	}
	start, end, ok := catalog.Range(s.Anchor(), s.Last())
	if !ok {
		return fmt.Errorf("%w: slots %d-%d, last slot is %d", ErrSlotOutOfRange, s.Anchor(), s.Last(), catalog.LastSlotNumber())
	}
	s.StartTime = start.String()
	s.EndTime = end.String()
	return nil
}

// Placed returns a copy moved to date starting at first, keeping the span.
func (s Session) Placed(catalog *Catalog, date time.Time, first int) (Session, error) {
	span := s.Span()
	if span == 0 {
		return Session{}, ErrEmptySlots
	}
	last := first + span - 1
	if first < 1 || last > catalog.LastSlotNumber() {
		return Session{}, fmt.Errorf("%w: slots %d-%d, last slot is %d", ErrSlotOutOfRange, first, last, catalog.LastSlotNumber())
	}
	moved := s.Clone()
	moved.Date = NormalizeDate(date)
	moved.TimeSlots = ContiguousSlots(first, span)
	if err := moved.DeriveTimes(catalog); err != nil {
		return Session{}, err
	}
	return moved, nil
}

// ContiguousSlots builds [first, first+span-1].
func ContiguousSlots(first, span int) []int {
	if span <= 0 {
		return nil
	}
	out := make([]int, span)
	for i := range out {
		out[i] = first + i
	}
	return out
}
