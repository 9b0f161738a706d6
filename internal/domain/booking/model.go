package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/domain/appointment"
	"github.com/careops/careops/internal/domain/availability"
	"github.com/careops/careops/internal/domain/network"
	"github.com/careops/careops/internal/domain/provider"
)

// AvailabilityRequest asks for every open slot under a payer across a date
// range. ProviderID, when set, narrows the answer to that provider.
type AvailabilityRequest struct {
	PayerID         uuid.UUID
	ProviderID      *uuid.UUID
	From            time.Time
	To              time.Time
	DurationMinutes int
	BufferMinutes   int
}

// AvailableSlot is one offerable slot with the provider attached. For
// supervised eligibility RequiresCoVisit tells the booker the supervising
// provider must also attend.
type AvailableSlot struct {
	Date                string                    `json:"date"`
	Start               availability.ClockMinutes `json:"start"`
	End                 availability.ClockMinutes `json:"end"`
	ProviderID          uuid.UUID                 `json:"provider_id"`
	ProviderName        string                    `json:"provider_name"`
	EligibilityKind     string                    `json:"eligibility_kind"`
	SupervisingProvider *uuid.UUID                `json:"supervising_provider_id,omitempty"`
	RequiresCoVisit     bool                      `json:"requires_co_visit,omitempty"`
}

// ProviderSummary is one provider that contributed slots, one entry per
// eligibility path.
type ProviderSummary struct {
	ProviderID          uuid.UUID  `json:"provider_id"`
	ProviderName        string     `json:"provider_name"`
	EligibilityKind     string     `json:"eligibility_kind"`
	SupervisingProvider *uuid.UUID `json:"supervising_provider_id,omitempty"`
	RequiresCoVisit     bool       `json:"requires_co_visit,omitempty"`
}

// MergedAvailability is the full answer for a request. Messages carry
// degraded-mode notes, e.g. a provider whose external calendar could not be
// checked.
type MergedAvailability struct {
	PayerID    uuid.UUID         `json:"payer_id"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	TotalSlots int               `json:"total_slots"`
	Slots      []AvailableSlot   `json:"slots"`
	Providers  []ProviderSummary `json:"providers"`
	Messages   []string          `json:"messages,omitempty"`
}

// ProviderDirectory is the slice of the provider domain the pipeline needs.
type ProviderDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*provider.Provider, error)
}

// NetworkResolver resolves payer eligibility.
type NetworkResolver interface {
	ResolveEligible(ctx context.Context, payerID uuid.UUID, date time.Time) ([]network.EligibleProvider, error)
}

// ScheduleSource resolves a provider's bookable windows for a date.
type ScheduleSource interface {
	ProviderWindows(ctx context.Context, providerID uuid.UUID, date time.Time) ([]availability.Window, error)
}

// LocalBook lists the clinic's own appointments.
type LocalBook interface {
	ListByProviderDate(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*appointment.Appointment, error)
}
