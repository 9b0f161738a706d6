package network

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

func (r *repoPG) CreatePayer(ctx context.Context, p *Payer) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payer (id, name, payer_type, credentialing_status, is_active)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Name, p.PayerType, p.CredentialingStatus, p.IsActive)
	return err
}

func (r *repoPG) GetPayer(ctx context.Context, id uuid.UUID) (*Payer, error) {
	var p Payer
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, name, payer_type, credentialing_status, is_active, created_at, updated_at
		FROM payer WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.PayerType, &p.CredentialingStatus, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) UpdatePayer(ctx context.Context, p *Payer) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE payer SET name=$2, payer_type=$3, credentialing_status=$4, is_active=$5, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.PayerType, p.CredentialingStatus, p.IsActive)
	return err
}

func (r *repoPG) ListPayers(ctx context.Context, limit, offset int) ([]*Payer, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM payer`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, name, payer_type, credentialing_status, is_active, created_at, updated_at
		FROM payer ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Payer
	for rows.Next() {
		var p Payer
		if err := rows.Scan(&p.ID, &p.Name, &p.PayerType, &p.CredentialingStatus, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	return items, total, nil
}

func (r *repoPG) CreateDirect(ctx context.Context, rel *DirectRelationship) error {
	rel.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payer_provider (id, provider_id, payer_id, effective_date, end_date, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rel.ID, rel.ProviderID, rel.PayerID, rel.EffectiveDate, rel.EndDate, rel.IsActive)
	return err
}

func (r *repoPG) EndDirect(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE payer_provider SET is_active = FALSE, end_date = COALESCE(end_date, CURRENT_DATE)
		WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListDirectByPayer(ctx context.Context, payerID uuid.UUID) ([]*DirectRelationship, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, provider_id, payer_id, effective_date, end_date, is_active, created_at
		FROM payer_provider WHERE payer_id = $1 ORDER BY created_at`, payerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*DirectRelationship
	for rows.Next() {
		var rel DirectRelationship
		if err := rows.Scan(&rel.ID, &rel.ProviderID, &rel.PayerID, &rel.EffectiveDate, &rel.EndDate, &rel.IsActive, &rel.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &rel)
	}
	return items, nil
}

func (r *repoPG) CreateSupervision(ctx context.Context, rel *SupervisionRelationship) error {
	rel.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payer_supervision (id, provider_id, supervising_provider_id, payer_id,
			supervision_level, requires_co_visit, effective_date, end_date, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rel.ID, rel.ProviderID, rel.SupervisingProvider, rel.PayerID,
		rel.SupervisionLevel, rel.RequiresCoVisit, rel.EffectiveDate, rel.EndDate, rel.IsActive)
	return err
}

func (r *repoPG) EndSupervision(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE payer_supervision SET is_active = FALSE, end_date = COALESCE(end_date, CURRENT_DATE)
		WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListSupervisionByPayer(ctx context.Context, payerID uuid.UUID) ([]*SupervisionRelationship, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, provider_id, supervising_provider_id, payer_id, supervision_level,
			requires_co_visit, effective_date, end_date, is_active, created_at
		FROM payer_supervision WHERE payer_id = $1 ORDER BY created_at`, payerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*SupervisionRelationship
	for rows.Next() {
		var rel SupervisionRelationship
		if err := rows.Scan(&rel.ID, &rel.ProviderID, &rel.SupervisingProvider, &rel.PayerID, &rel.SupervisionLevel,
			&rel.RequiresCoVisit, &rel.EffectiveDate, &rel.EndDate, &rel.IsActive, &rel.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &rel)
	}
	return items, nil
}
