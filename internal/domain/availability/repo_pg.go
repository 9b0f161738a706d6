package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/careops/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) CreateBlock(ctx context.Context, b *RecurringBlock) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO recurring_block (id, provider_id, day_of_week, start_minutes, end_minutes, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.ProviderID, b.DayOfWeek, int(b.StartTime), int(b.EndTime), b.IsActive)
	return err
}

func (r *repoPG) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM recurring_block WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListBlocksByProvider(ctx context.Context, providerID uuid.UUID) ([]*RecurringBlock, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, provider_id, day_of_week, start_minutes, end_minutes, is_active, created_at
		FROM recurring_block WHERE provider_id = $1 ORDER BY day_of_week, start_minutes`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*RecurringBlock
	for rows.Next() {
		var b RecurringBlock
		var start, end int
		if err := rows.Scan(&b.ID, &b.ProviderID, &b.DayOfWeek, &start, &end, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.StartTime = ClockMinutes(start)
		b.EndTime = ClockMinutes(end)
		items = append(items, &b)
	}
	return items, nil
}

func (r *repoPG) CreateException(ctx context.Context, e *ScheduleException) error {
	e.ID = uuid.New()
	var start, end *int
	if e.StartTime != nil {
		v := int(*e.StartTime)
		start = &v
	}
	if e.EndTime != nil {
		v := int(*e.EndTime)
		end = &v
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO schedule_exception (id, provider_id, date, end_date, exception_type, start_minutes, end_minutes, reason)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		e.ID, e.ProviderID, e.Date, e.EndDate, e.ExceptionType, start, end, e.Reason)
	return err
}

func (r *repoPG) DeleteException(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM schedule_exception WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListExceptions(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*ScheduleException, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, provider_id, date, end_date, exception_type, start_minutes, end_minutes, reason, created_at
		FROM schedule_exception
		WHERE provider_id = $1 AND date <= $2 AND COALESCE(end_date, date) >= $2
		ORDER BY created_at`, providerID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ScheduleException
	for rows.Next() {
		var e ScheduleException
		var start, end *int
		if err := rows.Scan(&e.ID, &e.ProviderID, &e.Date, &e.EndDate, &e.ExceptionType, &start, &end, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		if start != nil {
			v := ClockMinutes(*start)
			e.StartTime = &v
		}
		if end != nil {
			v := ClockMinutes(*end)
			e.EndTime = &v
		}
		items = append(items, &e)
	}
	return items, nil
}
