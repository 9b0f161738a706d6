package availability

import (
	"time"

	"github.com/google/uuid"
)

// RecurringBlock is one weekly working window for a provider, e.g. Mondays
// 09:00-17:00. DayOfWeek follows time.Weekday (Sunday = 0).
type RecurringBlock struct {
	ID         uuid.UUID    `db:"id" json:"id"`
	ProviderID uuid.UUID    `db:"provider_id" json:"provider_id"`
	DayOfWeek  int          `db:"day_of_week" json:"day_of_week"`
	StartTime  ClockMinutes `db:"start_time" json:"start_time"`
	EndTime    ClockMinutes `db:"end_time" json:"end_time"`
	IsActive   bool         `db:"is_active" json:"is_active"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// Exception types.
const (
	ExceptionUnavailable  = "unavailable"
	ExceptionCustomHours  = "custom_hours"
	ExceptionPartialBlock = "partial_block"
)

// ScheduleException overrides the recurring pattern on a date, or on every
// date through EndDate when one is set (a vacation week, say).
// An unavailable exception without times blanks the whole day; with times it
// behaves like a partial block. Custom hours replace the recurring windows.
type ScheduleException struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	ProviderID    uuid.UUID     `db:"provider_id" json:"provider_id"`
	Date          time.Time     `db:"date" json:"date"`
	EndDate       *time.Time    `db:"end_date" json:"end_date,omitempty"`
	ExceptionType string        `db:"exception_type" json:"exception_type"`
	StartTime     *ClockMinutes `db:"start_time" json:"start_time,omitempty"`
	EndTime       *ClockMinutes `db:"end_time" json:"end_time,omitempty"`
	Reason        *string       `db:"reason" json:"reason,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// FullDay reports whether the exception blanks the entire date.
func (e *ScheduleException) FullDay() bool {
	return e.ExceptionType == ExceptionUnavailable && (e.StartTime == nil || e.EndTime == nil)
}

// Covers reports whether the exception applies on d. Without an end date the
// exception targets its single date; with one, every date in
// [Date, EndDate] inclusive.
func (e *ScheduleException) Covers(d time.Time) bool {
	if e.EndDate == nil {
		return e.Date.Equal(d)
	}
	return !d.Before(e.Date) && !d.After(*e.EndDate)
}

// Window is a contiguous bookable interval on one date.
type Window struct {
	Start ClockMinutes `json:"start"`
	End   ClockMinutes `json:"end"`
}

// Slot is one offerable appointment of fixed duration inside a window.
type Slot struct {
	Start ClockMinutes `json:"start"`
	End   ClockMinutes `json:"end"`
}
