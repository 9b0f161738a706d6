package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validExceptionTypes = map[string]bool{
	ExceptionUnavailable: true, ExceptionCustomHours: true, ExceptionPartialBlock: true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) AddBlock(ctx context.Context, b *RecurringBlock) error {
	if b.ProviderID == uuid.Nil {
		return fmt.Errorf("provider_id is required")
	}
	if b.DayOfWeek < 0 || b.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be 0-6")
	}
	if b.StartTime >= b.EndTime {
		return fmt.Errorf("start_time must precede end_time")
	}
	return s.repo.CreateBlock(ctx, b)
}

func (s *Service) RemoveBlock(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteBlock(ctx, id)
}

func (s *Service) ListBlocks(ctx context.Context, providerID uuid.UUID) ([]*RecurringBlock, error) {
	return s.repo.ListBlocksByProvider(ctx, providerID)
}

func (s *Service) AddException(ctx context.Context, e *ScheduleException) error {
	if e.ProviderID == uuid.Nil {
		return fmt.Errorf("provider_id is required")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if e.EndDate != nil && e.EndDate.Before(e.Date) {
		return fmt.Errorf("end_date precedes date")
	}
	if !validExceptionTypes[e.ExceptionType] {
		return fmt.Errorf("invalid exception type: %s", e.ExceptionType)
	}
	hasTimes := e.StartTime != nil && e.EndTime != nil
	if e.ExceptionType != ExceptionUnavailable && !hasTimes {
		return fmt.Errorf("%s exceptions require start_time and end_time", e.ExceptionType)
	}
	if hasTimes && *e.StartTime >= *e.EndTime {
		return fmt.Errorf("start_time must precede end_time")
	}
	return s.repo.CreateException(ctx, e)
}

func (s *Service) RemoveException(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteException(ctx, id)
}

func (s *Service) ListExceptions(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*ScheduleException, error) {
	return s.repo.ListExceptions(ctx, providerID, date)
}

// ProviderWindows resolves the provider's bookable windows for one date.
func (s *Service) ProviderWindows(ctx context.Context, providerID uuid.UUID, date time.Time) ([]Window, error) {
	blocks, err := s.repo.ListBlocksByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("list recurring blocks: %w", err)
	}
	exceptions, err := s.repo.ListExceptions(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("list exceptions: %w", err)
	}
	return WindowsForDate(blocks, exceptions, date), nil
}
