package scheduling

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// BlackoutKind distinguishes which matrix a violation came from.
type BlackoutKind string

const (
	BlackoutClass   BlackoutKind = "CLASS"
	BlackoutTeacher BlackoutKind = "TEACHER"
)

// BlackoutMatrix marks (entity, date, slot) triples as unavailable.
// The zero value is an empty, usable matrix; absence of an entry means available.
type BlackoutMatrix struct {
	entries map[string]map[string]map[int]struct{}
}

// NewBlackoutMatrix returns an empty matrix.
func NewBlackoutMatrix() BlackoutMatrix {
	return BlackoutMatrix{entries: make(map[string]map[string]map[int]struct{})}
}

// Set marks or clears a triple.
func (m *BlackoutMatrix) Set(entityID string, date time.Time, slot int, blocked bool) {
	key := FormatDate(date)
	if !blocked {
		if m.entries == nil || m.entries[entityID] == nil || m.entries[entityID][key] == nil {
			return
		}
		delete(m.entries[entityID][key], slot)
		if len(m.entries[entityID][key]) == 0 {
			delete(m.entries[entityID], key)
		}
		if len(m.entries[entityID]) == 0 {
			delete(m.entries, entityID)
		}
		return
	}
	if m.entries == nil {
		m.entries = make(map[string]map[string]map[int]struct{})
	}
	if m.entries[entityID] == nil {
		m.entries[entityID] = make(map[string]map[int]struct{})
	}
	if m.entries[entityID][key] == nil {
		m.entries[entityID][key] = make(map[int]struct{})
	}
	m.entries[entityID][key][slot] = struct{}{}
}

// IsBlocked reports whether the triple is marked unavailable.
func (m BlackoutMatrix) IsBlocked(entityID string, date time.Time, slot int) bool {
	dates, ok := m.entries[entityID]
	if !ok {
		return false
	}
	slots, ok := dates[FormatDate(date)]
	if !ok {
		return false
	}
	_, blocked := slots[slot]
	return blocked
}

// Merge returns a new matrix holding the union of both.
func (m BlackoutMatrix) Merge(other BlackoutMatrix) BlackoutMatrix {
	out := m.Clone()
	for entity, dates := range other.entries {
		for date, slots := range dates {
			day, err := ParseDate(date)
			if err != nil {
				continue
			}
			for slot := range slots {
				out.Set(entity, day, slot, true)
			}
		}
	}
	return out
}

// Clone returns a deep copy.
func (m BlackoutMatrix) Clone() BlackoutMatrix {
	out := NewBlackoutMatrix()
	for entity, dates := range m.entries {
		out.entries[entity] = make(map[string]map[int]struct{}, len(dates))
		for date, slots := range dates {
			copied := make(map[int]struct{}, len(slots))
			for slot := range slots {
				copied[slot] = struct{}{}
			}
			out.entries[entity][date] = copied
		}
	}
	return out
}

// Len counts blocked triples.
func (m BlackoutMatrix) Len() int {
	total := 0
	for _, dates := range m.entries {
		for _, slots := range dates {
			total += len(slots)
		}
	}
	return total
}

// MarshalJSON renders {"entity":{"2024-06-03":[1,2]}} with sorted slots.
func (m BlackoutMatrix) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string][]int, len(m.entries))
	for entity, dates := range m.entries {
		out[entity] = make(map[string][]int, len(dates))
		for date, slots := range dates {
			list := make([]int, 0, len(slots))
			for slot := range slots {
				list = append(list, slot)
			}
			sort.Ints(list)
			out[entity][date] = list
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts slot arrays or {"slot": bool} objects per date.
func (m *BlackoutMatrix) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode blackout matrix: %w", err)
	}
	*m = NewBlackoutMatrix()
	for entity, dates := range raw {
		for date, payload := range dates {
			day, err := ParseDate(date)
			if err != nil {
				return err
			}
			var list []int
			if err := json.Unmarshal(payload, &list); err == nil {
				for _, slot := range list {
					m.Set(entity, day, slot, true)
				}
				continue
			}
			var flags map[string]bool
			if err := json.Unmarshal(payload, &flags); err != nil {
				return fmt.Errorf("decode blackout slots for %s/%s: %w", entity, date, err)
			}
			for key, blocked := range flags {
				slot, err := strconv.Atoi(key)
				if err != nil {
					return fmt.Errorf("decode blackout slot %q: %w", key, err)
				}
				if blocked {
					m.Set(entity, day, slot, true)
				}
			}
		}
	}
	return nil
}

// BlackoutViolation is a session placed on a blocked triple.
type BlackoutViolation struct {
	Kind      BlackoutKind
	SessionID string
	EntityID  string
	Date      time.Time
	Slot      int
}

// BlackoutViolations checks every occupied slot of every session against the class
// matrix (keyed by class id) and the teacher matrix (keyed by teacher id).
func BlackoutViolations(sessions []Session, classes, teachers BlackoutMatrix) []BlackoutViolation {
	var out []BlackoutViolation
	for _, s := range sessions {
		for _, slot := range s.TimeSlots {
			if s.ClassID != "" && classes.IsBlocked(s.ClassID, s.Date, slot) {
				out = append(out, BlackoutViolation{Kind: BlackoutClass, SessionID: s.ID, EntityID: s.ClassID, Date: NormalizeDate(s.Date), Slot: slot})
			}
			if s.TeacherID != "" && teachers.IsBlocked(s.TeacherID, s.Date, slot) {
				out = append(out, BlackoutViolation{Kind: BlackoutTeacher, SessionID: s.ID, EntityID: s.TeacherID, Date: NormalizeDate(s.Date), Slot: slot})
			}
		}
	}
	return out
}
