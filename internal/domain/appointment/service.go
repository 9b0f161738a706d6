package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{
	StatusBooked: true, StatusCancelled: true, StatusCompleted: true, StatusNoShow: true,
}

// statusTransitions lists the allowed moves out of each status. Terminal
// statuses have no entries.
var statusTransitions = map[string][]string{
	StatusBooked: {StatusCancelled, StatusCompleted, StatusNoShow},
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if a.ProviderID == uuid.Nil {
		return fmt.Errorf("provider_id is required")
	}
	if a.PatientName == "" {
		return fmt.Errorf("patient_name is required")
	}
	if a.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if a.StartTime >= a.EndTime {
		return fmt.Errorf("start_time must precede end_time")
	}
	if a.Status == "" {
		a.Status = StatusBooked
	}
	if a.Source == "" {
		a.Source = SourceLocal
	}

	existing, err := s.repo.ListByProviderDate(ctx, a.ProviderID, a.Date)
	if err != nil {
		return fmt.Errorf("check conflicts: %w", err)
	}
	for _, other := range existing {
		if other.Blocking() && a.StartTime < other.EndTime && a.EndTime > other.StartTime {
			return fmt.Errorf("time conflicts with appointment %s", other.ID)
		}
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("invalid status: %s", status)
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	allowed := false
	for _, next := range statusTransitions[a.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("cannot move appointment from %s to %s", a.Status, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) ListForProvider(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*Appointment, error) {
	return s.repo.ListByProviderDate(ctx, providerID, date)
}

func (s *Service) ListForDate(ctx context.Context, date time.Time, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDate(ctx, date, limit, offset)
}
