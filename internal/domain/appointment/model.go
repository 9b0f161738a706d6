package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/domain/availability"
)

// Appointment statuses.
const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
)

// Appointment sources.
const (
	SourceLocal = "local"
	SourceEHR   = "ehr"
)

// Appointment is a booked visit in the local book. Times are wall-clock
// minutes on the visit date, matching how schedules are kept.
type Appointment struct {
	ID          uuid.UUID                 `db:"id" json:"id"`
	ProviderID  uuid.UUID                 `db:"provider_id" json:"provider_id"`
	PayerID     *uuid.UUID                `db:"payer_id" json:"payer_id,omitempty"`
	PatientName string                    `db:"patient_name" json:"patient_name"`
	Date        time.Time                 `db:"date" json:"date"`
	StartTime   availability.ClockMinutes `db:"start_time" json:"start_time"`
	EndTime     availability.ClockMinutes `db:"end_time" json:"end_time"`
	Status      string                    `db:"status" json:"status"`
	Source      string                    `db:"source" json:"source"`
	Notes       *string                   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time                 `db:"updated_at" json:"updated_at"`
}

// Blocking reports whether the appointment still occupies its time.
// Cancelled and no-show visits free the slot.
func (a *Appointment) Blocking() bool {
	return a.Status == StatusBooked || a.Status == StatusCompleted
}
