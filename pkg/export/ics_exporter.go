package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// CalendarEvent is one VEVENT.
type CalendarEvent struct {
	UID         string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
}

// ICSExporter renders events as an iCalendar document.
type ICSExporter struct {
	productID string
}

// NewICSExporter constructs an ICS exporter.
func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//edu-console//schedule//EN"
	}
	return &ICSExporter{productID: productID}
}

// Render serialises events into a PUBLISH calendar named name.
func (e *ICSExporter) Render(name string, events []CalendarEvent) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := time.Now().UTC()
	for _, evt := range events {
		if evt.UID == "" {
			return nil, fmt.Errorf("ics event requires a uid")
		}
		if !evt.End.After(evt.Start) {
			return nil, fmt.Errorf("ics event %s ends before it starts", evt.UID)
		}
		event := cal.AddEvent(evt.UID)
		event.SetDtStampTime(stamp)
		event.SetStartAt(evt.Start)
		event.SetEndAt(evt.End)
		event.SetSummary(evt.Summary)
		if evt.Location != "" {
			event.SetLocation(evt.Location)
		}
		if evt.Description != "" {
			event.SetDescription(evt.Description)
		}
	}

	return []byte(cal.Serialize()), nil
}
