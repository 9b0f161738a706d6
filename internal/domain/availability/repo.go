package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateBlock(ctx context.Context, b *RecurringBlock) error
	DeleteBlock(ctx context.Context, id uuid.UUID) error
	ListBlocksByProvider(ctx context.Context, providerID uuid.UUID) ([]*RecurringBlock, error)

	CreateException(ctx context.Context, e *ScheduleException) error
	DeleteException(ctx context.Context, id uuid.UUID) error
	ListExceptions(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*ScheduleException, error)
}
