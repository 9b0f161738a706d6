package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careops/careops/internal/domain/availability"
)

// MaxRangeDays caps how wide one availability query may be.
const MaxRangeDays = 31

// Service assembles merged availability: payer eligibility, schedules, slot
// generation, then conflict filtering.
type Service struct {
	directory ProviderDirectory
	network   NetworkResolver
	schedules ScheduleSource
	filter    *ConflictFilter
	logger    zerolog.Logger

	defaultDuration int
	defaultBuffer   int
}

func NewService(directory ProviderDirectory, network NetworkResolver, schedules ScheduleSource,
	filter *ConflictFilter, defaultDuration, defaultBuffer int, logger zerolog.Logger) *Service {
	return &Service{
		directory:       directory,
		network:         network,
		schedules:       schedules,
		filter:          filter,
		logger:          logger,
		defaultDuration: defaultDuration,
		defaultBuffer:   defaultBuffer,
	}
}

// MergedAvailability answers an availability request. A network resolution
// failure fails the whole request; anything that breaks for a single
// provider skips that provider and leaves a message instead.
func (s *Service) MergedAvailability(ctx context.Context, req AvailabilityRequest) (*MergedAvailability, error) {
	if req.PayerID == uuid.Nil {
		return nil, fmt.Errorf("payer_id is required")
	}
	if req.From.IsZero() || req.To.IsZero() {
		return nil, fmt.Errorf("from and to dates are required")
	}
	if req.To.Before(req.From) {
		return nil, fmt.Errorf("to date precedes from date")
	}
	if int(req.To.Sub(req.From).Hours()/24) >= MaxRangeDays {
		return nil, fmt.Errorf("date range exceeds %d days", MaxRangeDays)
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = s.defaultDuration
	}
	if req.BufferMinutes < 0 {
		req.BufferMinutes = s.defaultBuffer
	}

	out := &MergedAvailability{
		PayerID: req.PayerID,
		From:    req.From.Format("2006-01-02"),
		To:      req.To.Format("2006-01-02"),
	}
	messageSeen := map[string]bool{}

	for date := req.From; !date.After(req.To); date = date.AddDate(0, 0, 1) {
		eligible, err := s.network.ResolveEligible(ctx, req.PayerID, date)
		if err != nil {
			return nil, fmt.Errorf("resolve payer network: %w", err)
		}
		for _, e := range eligible {
			if req.ProviderID != nil && e.ProviderID != *req.ProviderID {
				continue
			}
			day, msg := s.providerSlots(ctx, e.ProviderID, date, req.DurationMinutes, req.BufferMinutes)
			if msg != "" && !messageSeen[msg] {
				messageSeen[msg] = true
				out.Messages = append(out.Messages, msg)
			}
			for _, slot := range day.slots {
				out.Slots = append(out.Slots, AvailableSlot{
					Date:                date.Format("2006-01-02"),
					Start:               slot.Start,
					End:                 slot.End,
					ProviderID:          e.ProviderID,
					ProviderName:        day.name,
					EligibilityKind:     e.Kind,
					SupervisingProvider: e.SupervisingProvider,
					RequiresCoVisit:     e.RequiresCoVisit,
				})
			}
		}
	}

	out.Slots = dedupeAndSort(out.Slots)
	out.TotalSlots = len(out.Slots)
	out.Providers = summarizeProviders(out.Slots)
	return out, nil
}

// summarizeProviders lists every (provider, eligibility path) pair that
// contributed at least one slot, ordered by name then provider id.
func summarizeProviders(slots []AvailableSlot) []ProviderSummary {
	type key struct {
		provider uuid.UUID
		kind     string
	}
	seen := map[key]bool{}
	var out []ProviderSummary
	for _, s := range slots {
		k := key{provider: s.ProviderID, kind: s.EligibilityKind}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, ProviderSummary{
			ProviderID:          s.ProviderID,
			ProviderName:        s.ProviderName,
			EligibilityKind:     s.EligibilityKind,
			SupervisingProvider: s.SupervisingProvider,
			RequiresCoVisit:     s.RequiresCoVisit,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProviderName != out[j].ProviderName {
			return out[i].ProviderName < out[j].ProviderName
		}
		if out[i].ProviderID != out[j].ProviderID {
			return out[i].ProviderID.String() < out[j].ProviderID.String()
		}
		return out[i].EligibilityKind < out[j].EligibilityKind
	})
	return out
}

type daySlots struct {
	slots []availability.Slot
	name  string
}

func (s *Service) providerSlots(ctx context.Context, providerID uuid.UUID, date time.Time, duration, buffer int) (daySlots, string) {
	p, err := s.directory.GetByID(ctx, providerID)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider_id", providerID.String()).
			Msg("eligible provider not found, skipping")
		return daySlots{}, fmt.Sprintf("provider %s could not be loaded", providerID)
	}
	if !p.IsActive || !p.IsBookable {
		return daySlots{}, ""
	}

	windows, err := s.schedules.ProviderWindows(ctx, providerID, date)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider_id", providerID.String()).
			Str("date", date.Format("2006-01-02")).
			Msg("schedule lookup failed, skipping provider for date")
		return daySlots{}, fmt.Sprintf("schedule for %s could not be loaded", p.DisplayName())
	}

	generated := availability.GenerateSlots(windows, duration, buffer)
	if len(generated) == 0 {
		return daySlots{name: p.DisplayName()}, ""
	}

	filtered, err := s.filter.Filter(ctx, p, date, generated)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider_id", providerID.String()).
			Msg("conflict filtering failed, skipping provider for date")
		return daySlots{}, fmt.Sprintf("booked time for %s could not be checked", p.DisplayName())
	}
	msg := ""
	if filtered.Skipped {
		msg = fmt.Sprintf("%s: %s, slots may conflict with booked time", p.DisplayName(), filtered.SkipReason)
	}
	return daySlots{slots: filtered.Slots, name: p.DisplayName()}, msg
}

// dedupeAndSort collapses identical (date, start, provider) slots, keeping
// the first occurrence, then orders by date, start time, provider.
func dedupeAndSort(slots []AvailableSlot) []AvailableSlot {
	type key struct {
		date     string
		start    availability.ClockMinutes
		provider uuid.UUID
	}
	seen := map[key]bool{}
	out := slots[:0]
	for _, s := range slots {
		k := key{date: s.Date, start: s.Start, provider: s.ProviderID}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ProviderID.String() < out[j].ProviderID.String()
	})
	return out
}
