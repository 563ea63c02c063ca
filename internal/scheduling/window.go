package scheduling

import (
	"math"
	"time"
)

const daysPerWeek = 7

// WeekWindow is the date span covered by a session collection.
type WeekWindow struct {
	MinDate    time.Time
	MaxDate    time.Time
	TotalWeeks int
}

// NewWeekWindow derives the window from the sessions. An empty collection yields a
// single-day window anchored at fallback.
func NewWeekWindow(sessions []Session, fallback time.Time) WeekWindow {
	if len(sessions) == 0 {
		day := NormalizeDate(fallback)
		return WeekWindow{MinDate: day, MaxDate: day, TotalWeeks: 1}
	}
	minDate := NormalizeDate(sessions[0].Date)
	maxDate := minDate
	for _, s := range sessions[1:] {
		day := NormalizeDate(s.Date)
		if day.Before(minDate) {
			minDate = day
		}
		if day.After(maxDate) {
			maxDate = day
		}
	}
	days := maxDate.Sub(minDate).Hours() / 24
	weeks := int(math.Ceil(days / daysPerWeek))
	if weeks < 1 {
		weeks = 1
	}
	return WeekWindow{MinDate: minDate, MaxDate: maxDate, TotalWeeks: weeks}
}

// ClampOffset keeps offset within [0, TotalWeeks-1].
func (w WeekWindow) ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	if last := w.TotalWeeks - 1; offset > last {
		if last < 0 {
			return 0
		}
		return last
	}
	return offset
}

// Prev moves one week back; a no-op at the first week.
func (w WeekWindow) Prev(offset int) int {
	return w.ClampOffset(w.ClampOffset(offset) - 1)
}

// Next moves one week forward; a no-op at the last week.
func (w WeekWindow) Next(offset int) int {
	return w.ClampOffset(w.ClampOffset(offset) + 1)
}

// WeekStart is the Monday of MinDate's week advanced by offset whole weeks.
func (w WeekWindow) WeekStart(offset int) time.Time {
	return MondayOf(w.MinDate).AddDate(0, 0, daysPerWeek*w.ClampOffset(offset))
}

// VisibleDays returns the seven dates starting at WeekStart(offset).
func (w WeekWindow) VisibleDays(offset int) []time.Time {
	start := w.WeekStart(offset)
	days := make([]time.Time, daysPerWeek)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// MondayOf returns the Monday of the ISO week containing t.
func MondayOf(t time.Time) time.Time {
	day := NormalizeDate(t)
	shift := (int(day.Weekday()) + 6) % daysPerWeek
	return day.AddDate(0, 0, -shift)
}
