package network

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreatePayer(ctx context.Context, p *Payer) error
	GetPayer(ctx context.Context, id uuid.UUID) (*Payer, error)
	UpdatePayer(ctx context.Context, p *Payer) error
	ListPayers(ctx context.Context, limit, offset int) ([]*Payer, int, error)

	CreateDirect(ctx context.Context, rel *DirectRelationship) error
	EndDirect(ctx context.Context, id uuid.UUID) error
	ListDirectByPayer(ctx context.Context, payerID uuid.UUID) ([]*DirectRelationship, error)

	CreateSupervision(ctx context.Context, rel *SupervisionRelationship) error
	EndSupervision(ctx context.Context, id uuid.UUID) error
	ListSupervisionByPayer(ctx context.Context, payerID uuid.UUID) ([]*SupervisionRelationship, error)
}
