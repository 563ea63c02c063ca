package scheduling

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Catalog errors.
var (
	ErrEmptyCatalog    = errors.New("time slot catalog is empty")
	ErrInvalidClock    = errors.New("invalid wall-clock time")
	ErrCatalogOrdering = errors.New("time slots must be numbered 1..N in order")
	ErrCatalogGap      = errors.New("time slots must be contiguous")
)

// Clock is a wall-clock time expressed in minutes since midnight.
type Clock int

// ParseClock parses "HH:MM" (or "HH:MM:SS", seconds ignored).
func ParseClock(raw string) (Clock, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 24 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	if hour == 24 && minute != 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return Clock(hour*60 + minute), nil
}

// String renders the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Hours returns the clock as fractional hours.
func (c Clock) Hours() float64 {
	return float64(c) / 60
}

// TimeSlot is one bookable period of the institution.
type TimeSlot struct {
	Number int
	Start  Clock
	End    Clock
}

// Catalog is the immutable, ordered list of bookable periods.
type Catalog struct {
	slots []TimeSlot
}

// NewCatalog validates the slots and builds a catalog.
func NewCatalog(slots []TimeSlot) (*Catalog, error) {
	if len(slots) == 0 {
		return nil, ErrEmptyCatalog
	}
	copied := make([]TimeSlot, len(slots))
	copy(copied, slots)
	for i, slot := range copied {
		if slot.Number != i+1 {
			return nil, fmt.Errorf("%w: position %d has number %d", ErrCatalogOrdering, i+1, slot.Number)
		}
		if slot.End <= slot.Start {
			return nil, fmt.Errorf("%w: slot %d ends before it starts", ErrInvalidClock, slot.Number)
		}
		if i > 0 && copied[i-1].End != slot.Start {
			return nil, fmt.Errorf("%w: slot %d starts at %s, previous ends at %s", ErrCatalogGap, slot.Number, slot.Start, copied[i-1].End)
		}
	}
	return &Catalog{slots: copied}, nil
}

// ParseCatalog builds a catalog from "08:00-09:00,09:00-10:00" style configuration.
func ParseCatalog(raw string) (*Catalog, error) {
	var slots []TimeSlot
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidClock, part)
		}
		start, err := ParseClock(bounds[0])
		if err != nil {
			return nil, err
		}
		end, err := ParseClock(bounds[1])
		if err != nil {
			return nil, err
		}
		slots = append(slots, TimeSlot{Number: len(slots) + 1, Start: start, End: end})
	}
	return NewCatalog(slots)
}

// Bounds returns the wall-clock bounds of the slot. ok is false for unknown numbers.
func (c *Catalog) Bounds(number int) (TimeSlot, bool) {
	if c == nil || number < 1 || number > len(c.slots) {
		return TimeSlot{}, false
	}
	return c.slots[number-1], true
}

// LastSlotNumber returns the highest valid slot number.
func (c *Catalog) LastSlotNumber() int {
	if c == nil {
		return 0
	}
	return len(c.slots)
}

// Slots returns a copy of the catalog entries.
func (c *Catalog) Slots() []TimeSlot {
	if c == nil {
		return nil
	}
	out := make([]TimeSlot, len(c.slots))
	copy(out, c.slots)
	return out
}

// Range returns the wall-clock bounds covering slots first..last.
func (c *Catalog) Range(first, last int) (Clock, Clock, bool) {
	start, ok := c.Bounds(first)
	if !ok {
		return 0, 0, false
	}
	end, ok := c.Bounds(last)
	if !ok {
		return 0, 0, false
	}
	return start.Start, end.End, true
}
