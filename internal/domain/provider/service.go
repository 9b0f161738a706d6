package provider

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var validRoles = map[string]bool{
	"physician": true, "resident": true, "nurse_practitioner": true,
	"physician_assistant": true, "therapist": true,
}

type Service struct {
	providers Repository
}

func NewService(providers Repository) *Service {
	return &Service{providers: providers}
}

func (s *Service) CreateProvider(ctx context.Context, p *Provider) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if p.Role == "" {
		p.Role = "physician"
	}
	if !validRoles[p.Role] {
		return fmt.Errorf("invalid provider role: %s", p.Role)
	}
	return s.providers.Create(ctx, p)
}

func (s *Service) GetProvider(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return s.providers.GetByID(ctx, id)
}

func (s *Service) UpdateProvider(ctx context.Context, p *Provider) error {
	if p.Role != "" && !validRoles[p.Role] {
		return fmt.Errorf("invalid provider role: %s", p.Role)
	}
	return s.providers.Update(ctx, p)
}

// SetFlags mutates the admin-controlled activity flags.
func (s *Service) SetFlags(ctx context.Context, id uuid.UUID, isActive, isBookable, acceptsNewPatients bool) error {
	return s.providers.UpdateFlags(ctx, id, isActive, isBookable, acceptsNewPatients)
}

func (s *Service) DeleteProvider(ctx context.Context, id uuid.UUID) error {
	return s.providers.Delete(ctx, id)
}

func (s *Service) ListProviders(ctx context.Context, activeOnly bool, limit, offset int) ([]*Provider, int, error) {
	if activeOnly {
		return s.providers.ListActive(ctx, limit, offset)
	}
	return s.providers.List(ctx, limit, offset)
}
