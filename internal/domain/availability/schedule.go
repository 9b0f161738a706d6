package availability

import (
	"sort"
	"time"
)

// WindowsForDate computes the bookable windows for a single date from the
// weekly pattern and that date's exceptions. Precedence, strongest first:
// full-day unavailable, custom hours, partial blocks, recurring blocks.
// When several custom-hours exceptions target the same date the most
// recently created one wins. Exceptions that do not cover the date are
// ignored, so ranged exceptions can be passed in whole.
func WindowsForDate(blocks []*RecurringBlock, all []*ScheduleException, date time.Time) []Window {
	var exceptions []*ScheduleException
	for _, ex := range all {
		if ex.Covers(date) {
			exceptions = append(exceptions, ex)
		}
	}

	for _, ex := range exceptions {
		if ex.FullDay() {
			return nil
		}
	}

	var custom *ScheduleException
	for _, ex := range exceptions {
		if ex.ExceptionType != ExceptionCustomHours || ex.StartTime == nil || ex.EndTime == nil {
			continue
		}
		if custom == nil || ex.CreatedAt.After(custom.CreatedAt) {
			custom = ex
		}
	}

	var windows []Window
	if custom != nil {
		windows = []Window{{Start: *custom.StartTime, End: *custom.EndTime}}
	} else {
		weekday := int(date.Weekday())
		for _, b := range blocks {
			if b.IsActive && b.DayOfWeek == weekday && b.StartTime < b.EndTime {
				windows = append(windows, Window{Start: b.StartTime, End: b.EndTime})
			}
		}
	}

	for _, ex := range exceptions {
		partial := ex.ExceptionType == ExceptionPartialBlock ||
			(ex.ExceptionType == ExceptionUnavailable && !ex.FullDay())
		if !partial || ex.StartTime == nil || ex.EndTime == nil {
			continue
		}
		windows = subtract(windows, Window{Start: *ex.StartTime, End: *ex.EndTime})
	}

	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	return windows
}

// subtract removes hole from every window, splitting windows it lands
// inside.
func subtract(windows []Window, hole Window) []Window {
	var out []Window
	for _, w := range windows {
		if hole.End <= w.Start || hole.Start >= w.End {
			out = append(out, w)
			continue
		}
		if hole.Start > w.Start {
			out = append(out, Window{Start: w.Start, End: hole.Start})
		}
		if hole.End < w.End {
			out = append(out, Window{Start: hole.End, End: w.End})
		}
	}
	return out
}

// GenerateSlots lays fixed-duration slots into the windows. Each slot is
// followed by the buffer before the next may start, and a slot that would
// run past the window end is discarded rather than shortened.
func GenerateSlots(windows []Window, duration, buffer int) []Slot {
	if duration <= 0 {
		return nil
	}
	if buffer < 0 {
		buffer = 0
	}
	var slots []Slot
	for _, w := range windows {
		for t := w.Start; t+ClockMinutes(duration) <= w.End; t += ClockMinutes(duration + buffer) {
			slots = append(slots, Slot{Start: t, End: t + ClockMinutes(duration)})
		}
	}
	return slots
}
