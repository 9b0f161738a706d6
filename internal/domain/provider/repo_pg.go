package provider

import (
	"context"

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

const providerCols = `id, first_name, last_name, title, role, is_active, is_bookable,
	accepts_new_patients, ehr_practitioner_id, languages, created_at, updated_at`

func (r *repoPG) scanProvider(row pgx.Row) (*Provider, error) {
	var p Provider
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Title, &p.Role, &p.IsActive,
		&p.IsBookable, &p.AcceptsNewPatients, &p.EHRPractitionerID, &p.Languages,
		&p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Provider) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO provider (id, first_name, last_name, title, role, is_active,
			is_bookable, accepts_new_patients, ehr_practitioner_id, languages)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.FirstName, p.LastName, p.Title, p.Role, p.IsActive,
		p.IsBookable, p.AcceptsNewPatients, p.EHRPractitionerID, p.Languages)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return r.scanProvider(r.conn(ctx).QueryRow(ctx, `SELECT `+providerCols+` FROM provider WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Provider) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE provider SET title=$2, role=$3, is_active=$4, is_bookable=$5,
			accepts_new_patients=$6, ehr_practitioner_id=$7, languages=$8, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Title, p.Role, p.IsActive, p.IsBookable,
		p.AcceptsNewPatients, p.EHRPractitionerID, p.Languages)
	return err
}

func (r *repoPG) UpdateFlags(ctx context.Context, id uuid.UUID, isActive, isBookable, acceptsNewPatients bool) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE provider SET is_active=$2, is_bookable=$3, accepts_new_patients=$4, updated_at=NOW()
		WHERE id = $1`,
		id, isActive, isBookable, acceptsNewPatients)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM provider WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Provider, int, error) {
	return r.list(ctx, `WHERE 1=1`, limit, offset)
}

func (r *repoPG) ListActive(ctx context.Context, limit, offset int) ([]*Provider, int, error) {
	return r.list(ctx, `WHERE is_active = TRUE`, limit, offset)
}

func (r *repoPG) list(ctx context.Context, where string, limit, offset int) ([]*Provider, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM provider `+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+providerCols+` FROM provider `+where+` ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Provider
	for rows.Next() {
		p, err := r.scanProvider(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
