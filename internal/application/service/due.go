package service

import (
	"time"

	"remindbridge/internal/domain/entity"
)

// dayBounds returns the first and last instant of the local day containing now.
func dayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

// isAllDay reports whether t falls exactly on local midnight.
func isAllDay(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	return local.Hour() == 0 && local.Minute() == 0 && local.Second() == 0 && local.Nanosecond() == 0
}

// isDue applies the delivery window: all-day reminders are due for the whole
// day, timed ones only while now is within window of the event.
func isDue(eventDate, now time.Time, loc *time.Location, window time.Duration) bool {
	if isAllDay(eventDate, loc) {
		return true
	}
	diff := now.Sub(eventDate)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

// selectDue drops claimed reminders and those outside their delivery window.
// Input order is preserved.
func selectDue(reminders []*entity.Reminder, now time.Time, loc *time.Location, window time.Duration) []*entity.Reminder {
	due := make([]*entity.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if r.Status.Claimed() {
			continue
		}
		if !isDue(r.EventDate, now, loc, window) {
			continue
		}
		due = append(due, r)
	}
	return due
}
