package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeekWindowSpanAndNavigation(t *testing.T) {
	sessions := []Session{
		{Date: mustDate(t, "2024-06-20")},
		{Date: mustDate(t, "2024-06-03")},
		{Date: mustDate(t, "2024-06-11")},
	}
	w := NewWeekWindow(sessions, mustDate(t, "2024-01-01"))

	assert.Equal(t, "2024-06-03", FormatDate(w.MinDate))
	assert.Equal(t, "2024-06-20", FormatDate(w.MaxDate))
	assert.Equal(t, 3, w.TotalWeeks)

	offset := 0
	for i := 0; i < 3; i++ {
		offset = w.Next(offset)
	}
	assert.Equal(t, 2, offset)
	assert.Equal(t, 2, w.Next(offset), "next on the last week is a no-op")
	assert.Equal(t, 0, w.Prev(0), "prev on the first week is a no-op")
	assert.Equal(t, 1, w.Prev(2))
}

func TestWeekWindowEmptyCollection(t *testing.T) {
	w := NewWeekWindow(nil, mustDate(t, "2024-06-05"))
	assert.Equal(t, 1, w.TotalWeeks)
	assert.Equal(t, w.MinDate, w.MaxDate)
	assert.Equal(t, 0, w.Next(0))
}

func TestWeekWindowVisibleDaysAreMondayAligned(t *testing.T) {
	w := NewWeekWindow([]Session{{Date: mustDate(t, "2024-06-05")}, {Date: mustDate(t, "2024-06-19")}}, mustDate(t, "2024-06-05"))

	days := w.VisibleDays(0)
	assert.Len(t, days, 7)
	assert.Equal(t, "2024-06-03", FormatDate(days[0]))
	assert.Equal(t, "2024-06-09", FormatDate(days[6]))

	days = w.VisibleDays(1)
	assert.Equal(t, "2024-06-10", FormatDate(days[0]))

	assert.Equal(t, "2024-06-03", FormatDate(MondayOf(mustDate(t, "2024-06-09"))))
	assert.Equal(t, "2024-06-10", FormatDate(MondayOf(mustDate(t, "2024-06-10"))))
}

func TestWeekWindowClampOffset(t *testing.T) {
	w := WeekWindow{TotalWeeks: 2}
	assert.Equal(t, 0, w.ClampOffset(-4))
	assert.Equal(t, 1, w.ClampOffset(9))
	assert.Equal(t, 0, WeekWindow{}.ClampOffset(3))
}
