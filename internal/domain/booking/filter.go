package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/careops/careops/internal/domain/availability"
	"github.com/careops/careops/internal/domain/provider"
	"github.com/careops/careops/internal/platform/ehr"
)

// FilterResult holds the slots that survived conflict filtering. Skipped is
// set when the external calendar could not be consulted; the slots are then
// offered anyway (fail open) and SkipReason explains why.
type FilterResult struct {
	Slots      []availability.Slot
	Skipped    bool
	SkipReason string
}

// ConflictFilter removes slots that collide with booked time, local or
// external.
type ConflictFilter struct {
	book     LocalBook
	calendar ehr.CalendarSource
	logger   zerolog.Logger
}

func NewConflictFilter(book LocalBook, calendar ehr.CalendarSource, logger zerolog.Logger) *ConflictFilter {
	return &ConflictFilter{book: book, calendar: calendar, logger: logger}
}

type bookedSpan struct {
	start availability.ClockMinutes
	end   availability.ClockMinutes
}

// Filter drops every slot that overlaps a blocking local appointment or an
// external calendar entry. Intervals are open: a slot ending exactly when an
// appointment starts does not conflict. Missing EHR mapping and EHR failures
// skip external filtering rather than hide the provider's availability.
func (f *ConflictFilter) Filter(ctx context.Context, p *provider.Provider, date time.Time, slots []availability.Slot) (FilterResult, error) {
	if len(slots) == 0 {
		return FilterResult{}, nil
	}

	local, err := f.book.ListByProviderDate(ctx, p.ID, date)
	if err != nil {
		return FilterResult{}, err
	}
	var booked []bookedSpan
	for _, a := range local {
		if a.Blocking() {
			booked = append(booked, bookedSpan{start: a.StartTime, end: a.EndTime})
		}
	}

	result := FilterResult{}
	switch {
	case p.EHRPractitionerID == nil || *p.EHRPractitionerID == "":
		result.Skipped = true
		result.SkipReason = "provider has no external calendar mapping"
	default:
		intervals, err := f.calendar.AppointmentsForDate(ctx, *p.EHRPractitionerID, date)
		if err != nil {
			f.logger.Warn().Err(err).
				Str("provider_id", p.ID.String()).
				Str("date", date.Format("2006-01-02")).
				Msg("external calendar unavailable, offering unfiltered slots")
			result.Skipped = true
			result.SkipReason = "external calendar unavailable"
		} else {
			for _, iv := range intervals {
				booked = append(booked, bookedSpan{
					start: minutesOfDay(iv.Start),
					end:   minutesOfDay(iv.End),
				})
			}
		}
	}

	for _, s := range slots {
		if !overlapsAny(s, booked) {
			result.Slots = append(result.Slots, s)
		}
	}
	return result, nil
}

func overlapsAny(s availability.Slot, booked []bookedSpan) bool {
	for _, b := range booked {
		if s.Start < b.end && s.End > b.start {
			return true
		}
	}
	return false
}

func minutesOfDay(t time.Time) availability.ClockMinutes {
	return availability.ClockMinutes(t.Hour()*60 + t.Minute())
}
