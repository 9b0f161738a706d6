package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careops/careops/internal/domain/availability"
	"github.com/careops/careops/internal/domain/network"
	"github.com/careops/careops/internal/domain/provider"
)

func testProvider(id uuid.UUID, active, bookable bool, ehrID *string) *provider.Provider {
	return &provider.Provider{
		ID: id, FirstName: "Test", LastName: id.String()[:8], Role: "physician",
		IsActive: active, IsBookable: bookable, EHRPractitionerID: ehrID,
	}
}

type mockDirectory struct {
	providers map[uuid.UUID]*provider.Provider
}

func (m *mockDirectory) GetByID(_ context.Context, id uuid.UUID) (*provider.Provider, error) {
	p, ok := m.providers[id]
	if !ok {
		return nil, fmt.Errorf("provider not found")
	}
	return p, nil
}

type mockResolver struct {
	eligible []network.EligibleProvider
	err      error
}

func (m *mockResolver) ResolveEligible(_ context.Context, _ uuid.UUID, _ time.Time) ([]network.EligibleProvider, error) {
	return m.eligible, m.err
}

type mockSchedules struct {
	windows map[uuid.UUID][]availability.Window
	err     error
}

func (m *mockSchedules) ProviderWindows(_ context.Context, providerID uuid.UUID, _ time.Time) ([]availability.Window, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.windows[providerID], nil
}

// fullDay is the 09:00-17:00 working window used across the pipeline tests.
var fullDay = []availability.Window{{Start: 540, End: 1020}}

func newTestService(dir *mockDirectory, res *mockResolver, sch *mockSchedules, book *mockBook, cal *mockCalendar) *Service {
	filter := NewConflictFilter(book, cal, zerolog.Nop())
	return NewService(dir, res, sch, filter, 30, 15, zerolog.Nop())
}

func TestMergedAvailabilityTwoProviders(t *testing.T) {
	payerID := uuid.New()
	directID := uuid.New()
	supervisedID := uuid.New()
	supervisorID := uuid.New()

	dir := &mockDirectory{providers: map[uuid.UUID]*provider.Provider{
		directID:     testProvider(directID, true, true, extID("ext-a")),
		supervisedID: testProvider(supervisedID, true, true, extID("ext-b")),
	}}
	res := &mockResolver{eligible: []network.EligibleProvider{
		{ProviderID: directID, Kind: network.EligibilityDirect},
		{ProviderID: supervisedID, Kind: network.EligibilitySupervised, SupervisingProvider: &supervisorID, RequiresCoVisit: true},
	}}
	sch := &mockSchedules{windows: map[uuid.UUID][]availability.Window{
		directID:     fullDay,
		supervisedID: fullDay,
	}}
	svc := newTestService(dir, res, sch, &mockBook{}, &mockCalendar{})

	result, err := svc.MergedAvailability(context.Background(), AvailabilityRequest{
		PayerID: payerID, From: filterDate, To: filterDate,
		DurationMinutes: 60, BufferMinutes: 15,
	})
	if err != nil {
		t.Fatalf("merged availability failed: %v", err)
	}

	// 60+15 spacing in an 8 hour day yields 6 starts per provider.
	if len(result.Slots) != 12 {
		t.Fatalf("expected 12 slots, got %d", len(result.Slots))
	}
	wantStarts := []string{"09:00", "10:15", "11:30", "12:45", "14:00", "15:15"}
	perProvider := map[uuid.UUID]int{}
	for _, s := range result.Slots {
		perProvider[s.ProviderID]++
	}
	if perProvider[directID] != 6 || perProvider[supervisedID] != 6 {
		t.Errorf("expected 6 slots each, got %v", perProvider)
	}
	// Sorted by start time: each start appears twice in a row.
	for i, s := range result.Slots {
		if s.Start.String() != wantStarts[i/2] {
			t.Errorf("slot %d: expected start %s, got %s", i, wantStarts[i/2], s.Start)
		}
	}
	for _, s := range result.Slots {
		if s.ProviderID == supervisedID {
			if s.EligibilityKind != network.EligibilitySupervised {
				t.Errorf("expected supervised kind, got %s", s.EligibilityKind)
			}
			if s.SupervisingProvider == nil || *s.SupervisingProvider != supervisorID {
				t.Error("supervised slot should carry the supervisor")
			}
			if !s.RequiresCoVisit {
				t.Error("supervised slot should carry the co-visit flag")
			}
		} else if s.RequiresCoVisit {
			t.Error("direct slot should not require a co-visit")
		}
	}
	if result.TotalSlots != len(result.Slots) {
		t.Errorf("total_slots %d disagrees with slot count %d", result.TotalSlots, len(result.Slots))
	}
	if len(result.Providers) != 2 {
		t.Fatalf("expected 2 contributing providers, got %d", len(result.Providers))
	}
	for _, p := range result.Providers {
		if p.ProviderID == supervisedID && !p.RequiresCoVisit {
			t.Error("supervised provider summary should carry the co-visit flag")
		}
	}
	if len(result.Messages) != 0 {
		t.Errorf("expected no degraded-mode messages, got %v", result.Messages)
	}
}

func TestMergedAvailabilityProviderScoping(t *testing.T) {
	payerID := uuid.New()
	wantedID := uuid.New()
	otherID := uuid.New()

	dir := &mockDirectory{providers: map[uuid.UUID]*provider.Provider{
		wantedID: testProvider(wantedID, true, true, extID("ext-a")),
		otherID:  testProvider(otherID, true, true, extID("ext-b")),
	}}
	res := &mockResolver{eligible: []network.EligibleProvider{
		{ProviderID: wantedID, Kind: network.EligibilityDirect},
		{ProviderID: otherID, Kind: network.EligibilityDirect},
	}}
	sch := &mockSchedules{windows: map[uuid.UUID][]availability.Window{
		wantedID: fullDay,
		otherID:  fullDay,
	}}
	svc := newTestService(dir, res, sch, &mockBook{}, &mockCalendar{})

	result, err := svc.MergedAvailability(context.Background(), AvailabilityRequest{
		PayerID: payerID, ProviderID: &wantedID, From: filterDate, To: filterDate,
		DurationMinutes: 60, BufferMinutes: 15,
	})
	if err != nil {
		t.Fatalf("merged availability failed: %v", err)
	}
	if len(result.Slots) != 6 {
		t.Fatalf("expected 6 slots from the scoped provider, got %d", len(result.Slots))
	}
	for _, s := range result.Slots {
		if s.ProviderID != wantedID {
			t.Fatal("scoped request should only return the named provider")
		}
	}
	if len(result.Providers) != 1 || result.Providers[0].ProviderID != wantedID {
		t.Errorf("provider summary should list only the scoped provider, got %v", result.Providers)
	}
}

func TestMergedAvailabilityValidation(t *testing.T) {
	svc := newTestService(&mockDirectory{}, &mockResolver{}, &mockSchedules{}, &mockBook{}, &mockCalendar{})

	cases := []struct {
		name string
		req  AvailabilityRequest
	}{
		{"missing payer", AvailabilityRequest{From: filterDate, To: filterDate}},
		{"missing dates", AvailabilityRequest{PayerID: uuid.New()}},
		{"inverted range", AvailabilityRequest{PayerID: uuid.New(), From: filterDate, To: filterDate.AddDate(0, 0, -1)}},
		{"range too wide", AvailabilityRequest{PayerID: uuid.New(), From: filterDate, To: filterDate.AddDate(0, 0, 40)}},
	}
	for _, tc := range cases {
		if _, err := svc.MergedAvailability(context.Background(), tc.req); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestMergedAvailabilityResolverFailureIsHard(t *testing.T) {
	svc := newTestService(&mockDirectory{}, &mockResolver{err: fmt.Errorf("connection refused")},
		&mockSchedules{}, &mockBook{}, &mockCalendar{})

	_, err := svc.MergedAvailability(context.Background(), AvailabilityRequest{
		PayerID: uuid.New(), From: filterDate, To: filterDate,
	})
	if err == nil {
		t.Error("resolver failure should fail the request")
	}
}

func TestMergedAvailabilitySkipsUnbookableProvider(t *testing.T) {
	payerID := uuid.New()
	activeID := uuid.New()
	benchedID := uuid.New()

	dir := &mockDirectory{providers: map[uuid.UUID]*provider.Provider{
		activeID:  testProvider(activeID, true, true, extID("ext-a")),
		benchedID: testProvider(benchedID, true, false, extID("ext-b")),
	}}
	res := &mockResolver{eligible: []network.EligibleProvider{
		{ProviderID: activeID, Kind: network.EligibilityDirect},
		{ProviderID: benchedID, Kind: network.EligibilityDirect},
	}}
	sch := &mockSchedules{windows: map[uuid.UUID][]availability.Window{
		activeID:  fullDay,
		benchedID: fullDay,
	}}
	svc := newTestService(dir, res, sch, &mockBook{}, &mockCalendar{})

	result, err := svc.MergedAvailability(context.Background(), AvailabilityRequest{
		PayerID: payerID, From: filterDate, To: filterDate,
		DurationMinutes: 60, BufferMinutes: 15,
	})
	if err != nil {
		t.Fatalf("merged availability failed: %v", err)
	}
	for _, s := range result.Slots {
		if s.ProviderID == benchedID {
			t.Fatal("unbookable provider should contribute no slots")
		}
	}
	if len(result.Slots) != 6 {
		t.Errorf("expected 6 slots from the bookable provider, got %d", len(result.Slots))
	}
}

func TestMergedAvailabilityFailOpenMessage(t *testing.T) {
	payerID := uuid.New()
	providerID := uuid.New()

	dir := &mockDirectory{providers: map[uuid.UUID]*provider.Provider{
		providerID: testProvider(providerID, true, true, nil), // no EHR mapping
	}}
	res := &mockResolver{eligible: []network.EligibleProvider{
		{ProviderID: providerID, Kind: network.EligibilityDirect},
	}}
	sch := &mockSchedules{windows: map[uuid.UUID][]availability.Window{providerID: fullDay}}
	svc := newTestService(dir, res, sch, &mockBook{}, &mockCalendar{})

	result, err := svc.MergedAvailability(context.Background(), AvailabilityRequest{
		PayerID: payerID, From: filterDate, To: filterDate,
		DurationMinutes: 60, BufferMinutes: 15,
	})
	if err != nil {
		t.Fatalf("merged availability failed: %v", err)
	}
	if len(result.Slots) != 6 {
		t.Errorf("slots should be offered despite missing mapping, got %d", len(result.Slots))
	}
	if len(result.Messages) != 1 {
		t.Errorf("expected one degraded-mode message, got %v", result.Messages)
	}
}

func TestMergedAvailabilityDedupesDualEligibility(t *testing.T) {
	payerID := uuid.New()
	providerID := uuid.New()
	supervisorID := uuid.New()

	dir := &mockDirectory{providers: map[uuid.UUID]*provider.Provider{
		providerID: testProvider(providerID, true, true, extID("ext-a")),
	}}
	res := &mockResolver{eligible: []network.EligibleProvider{
		{ProviderID: providerID, Kind: network.EligibilityDirect},
		{ProviderID: providerID, Kind: network.EligibilitySupervised, SupervisingProvider: &supervisorID},
	}}
	sch := &mockSchedules{windows: map[uuid.UUID][]availability.Window{providerID: fullDay}}
	svc := newTestService(dir, res, sch, &mockBook{}, &mockCalendar{})

	result, err := svc.MergedAvailability(context.Background(), AvailabilityRequest{
		PayerID: payerID, From: filterDate, To: filterDate,
		DurationMinutes: 60, BufferMinutes: 15,
	})
	if err != nil {
		t.Fatalf("merged availability failed: %v", err)
	}
	if len(result.Slots) != 6 {
		t.Fatalf("dual eligibility should not duplicate slots, got %d", len(result.Slots))
	}
	for _, s := range result.Slots {
		if s.EligibilityKind != network.EligibilityDirect {
			t.Error("first eligibility path should win the dedupe")
		}
	}
}

func TestMergedAvailabilityMultiDayRange(t *testing.T) {
	payerID := uuid.New()
	providerID := uuid.New()

	dir := &mockDirectory{providers: map[uuid.UUID]*provider.Provider{
		providerID: testProvider(providerID, true, true, extID("ext-a")),
	}}
	res := &mockResolver{eligible: []network.EligibleProvider{
		{ProviderID: providerID, Kind: network.EligibilityDirect},
	}}
	sch := &mockSchedules{windows: map[uuid.UUID][]availability.Window{providerID: fullDay}}
	svc := newTestService(dir, res, sch, &mockBook{}, &mockCalendar{})

	result, err := svc.MergedAvailability(context.Background(), AvailabilityRequest{
		PayerID: payerID, From: filterDate, To: filterDate.AddDate(0, 0, 1),
		DurationMinutes: 60, BufferMinutes: 15,
	})
	if err != nil {
		t.Fatalf("merged availability failed: %v", err)
	}
	if len(result.Slots) != 12 {
		t.Fatalf("expected 6 slots per day over 2 days, got %d", len(result.Slots))
	}
	if result.Slots[0].Date != "2025-06-02" || result.Slots[11].Date != "2025-06-03" {
		t.Error("slots should be ordered by date")
	}
}

func TestMergedAvailabilityDefaultsDuration(t *testing.T) {
	payerID := uuid.New()
	providerID := uuid.New()

	dir := &mockDirectory{providers: map[uuid.UUID]*provider.Provider{
		providerID: testProvider(providerID, true, true, extID("ext-a")),
	}}
	res := &mockResolver{eligible: []network.EligibleProvider{
		{ProviderID: providerID, Kind: network.EligibilityDirect},
	}}
	// One hour window fits exactly two 30-minute visits at zero buffer, but
	// the clinic default buffer of 15 leaves room for only one plus a start.
	sch := &mockSchedules{windows: map[uuid.UUID][]availability.Window{
		providerID: {{Start: 540, End: 615}},
	}}
	svc := newTestService(dir, res, sch, &mockBook{}, &mockCalendar{})

	result, err := svc.MergedAvailability(context.Background(), AvailabilityRequest{
		PayerID: payerID, From: filterDate, To: filterDate, BufferMinutes: -1,
	})
	if err != nil {
		t.Fatalf("merged availability failed: %v", err)
	}
	// Defaults: 30 duration, 15 buffer. Starts at 09:00 and 09:45 fit in 75 minutes.
	if len(result.Slots) != 2 {
		t.Fatalf("expected 2 slots with default duration, got %d", len(result.Slots))
	}
	if result.Slots[0].End-result.Slots[0].Start != 30 {
		t.Errorf("expected default 30 minute duration")
	}
}
