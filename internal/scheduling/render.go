package scheduling

import (
	"sort"
	"time"
)

// GridOptions controls time-grid geometry.
type GridOptions struct {
	StartHour float64
	PxPerHour float64
	MinHeight float64
}

// DefaultGridOptions mirrors the console defaults.
func DefaultGridOptions() GridOptions {
	return GridOptions{StartHour: 7, PxPerHour: 60, MinHeight: 24}
}

// CalendarEntry is a session annotated with its visual warnings.
type CalendarEntry struct {
	Session  Session
	Conflict bool
	Overlaps bool
}

// GridBlock positions one session in a day column.
type GridBlock struct {
	CalendarEntry
	Top       float64
	Height    float64
	Lane      int
	Malformed bool
}

// DayColumn is one day of the time grid.
type DayColumn struct {
	Date   time.Time
	Blocks []GridBlock
}

// RoomCell holds the sessions of one room on one day, ordered by start.
type RoomCell struct {
	Date    time.Time
	Entries []CalendarEntry
}

// RoomRow is one room across the visible days.
type RoomRow struct {
	RoomName string
	Cells    []RoomCell
}

// RoomGridView is the room-by-day projection.
type RoomGridView struct {
	Days []time.Time
	Rows []RoomRow
}

// DateGroup is one day of the list projection.
type DateGroup struct {
	Date    string
	Entries []CalendarEntry
}

// interval is a parsed wall-clock range; malformed input collapses to zero duration.
type interval struct {
	start     Clock
	end       Clock
	malformed bool
}

func sessionInterval(s Session) interval {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return interval{malformed: true}
	}
	end, err := ParseClock(s.EndTime)
	if err != nil || end < start {
		return interval{start: start, end: start, malformed: true}
	}
	return interval{start: start, end: end}
}

// Overlaps is the half-open wall-clock test used for styling only.
func Overlaps(a, b Session) bool {
	if !a.SameDay(b.Date) {
		return false
	}
	ia, ib := sessionInterval(a), sessionInterval(b)
	return ia.start < ib.end && ib.start < ia.end
}

// TimeGrid lays sessions out per visible day with vertical geometry and staggering.
func TimeGrid(sessions []Session, days []time.Time, opts GridOptions) []DayColumn {
	if opts.PxPerHour <= 0 {
		opts = DefaultGridOptions()
	}
	visible, days := visibleSessions(sessions, days)
	conflicts := ConflictingSessionIDs(visible)
	byDay := groupByDate(visible)

	columns := make([]DayColumn, 0, len(days))
	for _, day := range days {
		daySessions := byDay[FormatDate(day)]
		sortByStart(daySessions)
		column := DayColumn{Date: day, Blocks: make([]GridBlock, 0, len(daySessions))}
		for i, s := range daySessions {
			iv := sessionInterval(s)
			lane := 0
			overlaps := false
			for j, other := range daySessions {
				if i == j || !Overlaps(s, other) {
					continue
				}
				overlaps = true
				if j < i {
					lane++
				}
			}
			top := 0.0
			if !iv.malformed || iv.start > 0 {
				top = (iv.start.Hours() - opts.StartHour) * opts.PxPerHour
			}
			height := (iv.end.Hours() - iv.start.Hours()) * opts.PxPerHour
			if height < opts.MinHeight {
				height = opts.MinHeight
			}
			column.Blocks = append(column.Blocks, GridBlock{
				CalendarEntry: CalendarEntry{Session: s, Conflict: conflicts[s.ID], Overlaps: overlaps},
				Top:           top,
				Height:        height,
				Lane:          lane,
				Malformed:     iv.malformed,
			})
		}
		columns = append(columns, column)
	}
	return columns
}

// RoomGrid groups sessions by room name (rows) and visible day (columns).
func RoomGrid(sessions []Session, days []time.Time) RoomGridView {
	visible, days := visibleSessions(sessions, days)
	conflicts := ConflictingSessionIDs(visible)

	roomSet := make(map[string]struct{})
	for _, s := range visible {
		roomSet[s.RoomName] = struct{}{}
	}
	rooms := make([]string, 0, len(roomSet))
	for room := range roomSet {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)

	view := RoomGridView{Days: days, Rows: make([]RoomRow, 0, len(rooms))}
	for _, room := range rooms {
		row := RoomRow{RoomName: room, Cells: make([]RoomCell, 0, len(days))}
		for _, day := range days {
			var cell []Session
			for _, s := range visible {
				if s.RoomName == room && s.SameDay(day) {
					cell = append(cell, s)
				}
			}
			sortByStart(cell)
			row.Cells = append(row.Cells, RoomCell{Date: day, Entries: annotate(cell, visible, conflicts)})
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// ListView groups sessions by ISO date, each group ordered by start time.
func ListView(sessions []Session, days []time.Time) []DateGroup {
	visible, _ := visibleSessions(sessions, days)
	conflicts := ConflictingSessionIDs(visible)
	byDay := groupByDate(visible)

	keys := make([]string, 0, len(byDay))
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([]DateGroup, 0, len(keys))
	for _, key := range keys {
		group := byDay[key]
		sortByStart(group)
		groups = append(groups, DateGroup{Date: key, Entries: annotate(group, visible, conflicts)})
	}
	return groups
}

func annotate(sessions, pool []Session, conflicts map[string]bool) []CalendarEntry {
	out := make([]CalendarEntry, 0, len(sessions))
	for _, s := range sessions {
		overlaps := false
		for _, other := range pool {
			if other.ID != s.ID && Overlaps(s, other) {
				overlaps = true
				break
			}
		}
		out = append(out, CalendarEntry{Session: s, Conflict: conflicts[s.ID], Overlaps: overlaps})
	}
	return out
}

// visibleSessions keeps sessions on the given days; with no days every session is kept
// and the days are derived from the sessions.
func visibleSessions(sessions []Session, days []time.Time) ([]Session, []time.Time) {
	if len(days) == 0 {
		seen := make(map[string]time.Time)
		for _, s := range sessions {
			seen[FormatDate(s.Date)] = NormalizeDate(s.Date)
		}
		derived := make([]time.Time, 0, len(seen))
		for _, d := range seen {
			derived = append(derived, d)
		}
		sort.Slice(derived, func(i, j int) bool { return derived[i].Before(derived[j]) })
		out := make([]Session, len(sessions))
		copy(out, sessions)
		return out, derived
	}
	normalized := make([]time.Time, len(days))
	allowed := make(map[string]struct{}, len(days))
	for i, d := range days {
		normalized[i] = NormalizeDate(d)
		allowed[FormatDate(d)] = struct{}{}
	}
	var out []Session
	for _, s := range sessions {
		if _, ok := allowed[FormatDate(s.Date)]; ok {
			out = append(out, s)
		}
	}
	return out, normalized
}

func groupByDate(sessions []Session) map[string][]Session {
	out := make(map[string][]Session)
	for _, s := range sessions {
		key := FormatDate(s.Date)
		out[key] = append(out[key], s)
	}
	return out
}

func sortByStart(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessionInterval(sessions[i]), sessionInterval(sessions[j])
		if a.start != b.start {
			return a.start < b.start
		}
		if sessions[i].ClassName != sessions[j].ClassName {
			return sessions[i].ClassName < sessions[j].ClassName
		}
		return sessions[i].ID < sessions[j].ID
	})
}
