package scheduling

import (
	"sort"
	"time"
)

// SlotConflict describes double-booking inside one (date, slot) cell.
type SlotConflict struct {
	Date         time.Time
	Slot         int
	SessionIDs   []string
	TeacherClash bool
	RoomClash    bool
}

// Conflict reports whether the cell is double-booked on any dimension.
func (c SlotConflict) Conflict() bool {
	return c.TeacherClash || c.RoomClash
}

// CheckSlot evaluates the sessions occupying slot on date.
// A cell with at most one session is never in conflict.
func CheckSlot(sessions []Session, date time.Time, slot int) SlotConflict {
	result := SlotConflict{Date: NormalizeDate(date), Slot: slot}
	var occupants []Session
	for _, s := range sessions {
		if s.SameDay(date) && s.Occupies(slot) {
			occupants = append(occupants, s)
		}
	}
	for _, s := range occupants {
		result.SessionIDs = append(result.SessionIDs, s.ID)
	}
	sort.Strings(result.SessionIDs)
	if len(occupants) <= 1 {
		return result
	}
	result.TeacherClash = hasDuplicate(occupants, func(s Session) string { return s.TeacherID })
	result.RoomClash = hasDuplicate(occupants, func(s Session) string { return s.RoomID })
	return result
}

// HasConflict is a convenience wrapper around CheckSlot.
func HasConflict(sessions []Session, date time.Time, slot int) bool {
	return CheckSlot(sessions, date, slot).Conflict()
}

// DetectConflicts scans every occupied cell and returns the conflicting ones
// ordered by date then slot.
func DetectConflicts(sessions []Session) []SlotConflict {
	type cell struct {
		date string
		slot int
	}
	seen := make(map[cell]time.Time)
	for _, s := range sessions {
		for _, slot := range s.TimeSlots {
			seen[cell{date: FormatDate(s.Date), slot: slot}] = NormalizeDate(s.Date)
		}
	}
	cells := make([]cell, 0, len(seen))
	for c := range seen {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].date == cells[j].date {
			return cells[i].slot < cells[j].slot
		}
		return cells[i].date < cells[j].date
	})

	var conflicts []SlotConflict
	for _, c := range cells {
		report := CheckSlot(sessions, seen[c], c.slot)
		if report.Conflict() {
			conflicts = append(conflicts, report)
		}
	}
	return conflicts
}

// ConflictingSessionIDs returns the ids of every session involved in a conflict.
func ConflictingSessionIDs(sessions []Session) map[string]bool {
	ids := make(map[string]bool)
	for _, c := range DetectConflicts(sessions) {
		for _, id := range c.SessionIDs {
			ids[id] = true
		}
	}
	return ids
}

// hasDuplicate treats empty values as unassigned; they never collide.
func hasDuplicate(sessions []Session, field func(Session) string) bool {
	seen := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		value := field(s)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			return true
		}
		seen[value] = struct{}{}
	}
	return false
}
