package domain

import (
	"sort"
	"time"
)

// MaxEventsPerCell caps how many events a month cell displays before the
// overflow indicator takes over.
const MaxEventsPerCell = 3

// Filter narrows a projection to a single category. The zero value matches
// every category.
type Filter struct {
	CategoryID string
}

// VisibleOn is the shared membership test for all four views: the day falls
// inside the event's inclusive date range, the event's category is visible
// in the live registry, and the active category filter (if any) matches.
func VisibleOn(e *Event, day time.Time, categories CategorySet, filter Filter) bool {
	d := DateOnly(day)
	if d.Before(e.StartDay()) || d.After(e.EndDay()) {
		return false
	}
	if !categories.VisibleFor(e.CategoryID()) {
		return false
	}
	if filter.CategoryID != "" && e.CategoryID() != filter.CategoryID {
		return false
	}
	return true
}

// MonthCell is one day cell of the month grid.
type MonthCell struct {
	Day      time.Time
	InMonth  bool
	Events   []*Event
	Overflow int // count hidden behind the "+N more" indicator
}

// MonthView projects events onto the grid of full weeks covering the given
// month. The grid starts on the Sunday of the week containing the 1st and
// ends on the Saturday of the week containing the last day, so the cell
// count is always a multiple of 7.
func MonthView(events []*Event, categories CategorySet, filter Filter, year int, month time.Month) []MonthCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := last.AddDate(0, 0, 6-int(last.Weekday()))

	expanded := expandForRange(events, gridStart, gridEnd.AddDate(0, 0, 1))

	var cells []MonthCell
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		cell := MonthCell{
			Day:     day,
			InMonth: day.Month() == month,
		}
		for _, e := range expanded {
			if VisibleOn(e, day, categories, filter) {
				cell.Events = append(cell.Events, e)
			}
		}
		if len(cell.Events) > MaxEventsPerCell {
			cell.Overflow = len(cell.Events) - MaxEventsPerCell
			cell.Events = cell.Events[:MaxEventsPerCell]
		}
		cells = append(cells, cell)
	}
	return cells
}

// DayColumn is a single day of the week or day view: 24 hour buckets plus a
// separate all-day lane. A timed event lands only in the bucket of its
// start hour; it is not split across the hours it spans.
type DayColumn struct {
	Day    time.Time
	AllDay []*Event
	Hours  [24][]*Event
}

// WeekView projects events onto the 7 day columns of the week containing
// the given day (weeks run Sunday through Saturday).
func WeekView(events []*Event, categories CategorySet, filter Filter, day time.Time) [7]DayColumn {
	weekStart := DateOnly(day).AddDate(0, 0, -int(day.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7)

	expanded := expandForRange(events, weekStart, weekEnd)

	var columns [7]DayColumn
	for i := range columns {
		columns[i] = projectDay(expanded, categories, filter, weekStart.AddDate(0, 0, i))
	}
	return columns
}

// DayView projects events onto a single day column.
func DayView(events []*Event, categories CategorySet, filter Filter, day time.Time) DayColumn {
	d := DateOnly(day)
	expanded := expandForRange(events, d, d.AddDate(0, 0, 1))
	return projectDay(expanded, categories, filter, d)
}

func projectDay(events []*Event, categories CategorySet, filter Filter, day time.Time) DayColumn {
	column := DayColumn{Day: day}
	for _, e := range events {
		if !VisibleOn(e, day, categories, filter) {
			continue
		}
		if e.IsAllDay() {
			column.AllDay = append(column.AllDay, e)
			continue
		}
		hour := e.StartAt().Hour()
		column.Hours[hour] = append(column.Hours[hour], e)
	}
	return column
}

// AgendaGroup is one day heading of the agenda view with its events.
type AgendaGroup struct {
	Day    time.Time
	Events []*Event
}

// AgendaView lists every visible event between from and to (inclusive
// days), grouped by calendar day and sorted ascending by start time. The
// sort is stable so events sharing a start keep store iteration order.
func AgendaView(events []*Event, categories CategorySet, filter Filter, from, to time.Time) []AgendaGroup {
	start := DateOnly(from)
	end := DateOnly(to)

	expanded := expandForRange(events, start, end.AddDate(0, 0, 1))

	var groups []AgendaGroup
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		var dayEvents []*Event
		for _, e := range expanded {
			if VisibleOn(e, day, categories, filter) {
				dayEvents = append(dayEvents, e)
			}
		}
		if len(dayEvents) == 0 {
			continue
		}
		sort.SliceStable(dayEvents, func(i, j int) bool {
			return dayEvents[i].StartAt().Before(dayEvents[j].StartAt())
		})
		groups = append(groups, AgendaGroup{Day: day, Events: dayEvents})
	}
	return groups
}

// expandForRange appends virtual occurrences of recurring local events to
// the projection input. Stored events come first so the tie-break order
// inside buckets stays the store's iteration order.
func expandForRange(events []*Event, from, to time.Time) []*Event {
	out := make([]*Event, 0, len(events))
	out = append(out, events...)
	for _, e := range events {
		out = append(out, ExpandOccurrences(e, from, to)...)
	}
	return out
}
