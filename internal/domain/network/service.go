package network

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validPayerTypes = map[string]bool{
	PayerCommercial: true, PayerMedicare: true, PayerMedicaid: true, PayerSelfPay: true,
}

var validCredentialingStatuses = map[string]bool{
	CredentialingNotStarted: true, CredentialingInProgress: true,
	CredentialingApproved: true, CredentialingDenied: true, CredentialingExpired: true,
}

var validSupervisionLevels = map[string]bool{
	SupervisionPersonal: true, SupervisionDirect: true, SupervisionGeneral: true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePayer(ctx context.Context, p *Payer) error {
	if p.Name == "" {
		return fmt.Errorf("payer name is required")
	}
	if p.PayerType == "" {
		p.PayerType = PayerCommercial
	}
	if !validPayerTypes[p.PayerType] {
		return fmt.Errorf("invalid payer type: %s", p.PayerType)
	}
	if p.CredentialingStatus == "" {
		p.CredentialingStatus = CredentialingNotStarted
	}
	if !validCredentialingStatuses[p.CredentialingStatus] {
		return fmt.Errorf("invalid credentialing status: %s", p.CredentialingStatus)
	}
	return s.repo.CreatePayer(ctx, p)
}

func (s *Service) GetPayer(ctx context.Context, id uuid.UUID) (*Payer, error) {
	return s.repo.GetPayer(ctx, id)
}

func (s *Service) UpdatePayer(ctx context.Context, p *Payer) error {
	if p.CredentialingStatus != "" && !validCredentialingStatuses[p.CredentialingStatus] {
		return fmt.Errorf("invalid credentialing status: %s", p.CredentialingStatus)
	}
	return s.repo.UpdatePayer(ctx, p)
}

func (s *Service) ListPayers(ctx context.Context, limit, offset int) ([]*Payer, int, error) {
	return s.repo.ListPayers(ctx, limit, offset)
}

func (s *Service) AddDirect(ctx context.Context, rel *DirectRelationship) error {
	if rel.ProviderID == uuid.Nil || rel.PayerID == uuid.Nil {
		return fmt.Errorf("provider_id and payer_id are required")
	}
	if rel.EffectiveDate.IsZero() {
		return fmt.Errorf("effective_date is required")
	}
	if rel.EndDate != nil && rel.EndDate.Before(rel.EffectiveDate) {
		return fmt.Errorf("end_date precedes effective_date")
	}
	return s.repo.CreateDirect(ctx, rel)
}

func (s *Service) EndDirect(ctx context.Context, id uuid.UUID) error {
	return s.repo.EndDirect(ctx, id)
}

func (s *Service) AddSupervision(ctx context.Context, rel *SupervisionRelationship) error {
	if rel.ProviderID == uuid.Nil || rel.SupervisingProvider == uuid.Nil || rel.PayerID == uuid.Nil {
		return fmt.Errorf("provider_id, supervising_provider_id and payer_id are required")
	}
	if rel.ProviderID == rel.SupervisingProvider {
		return fmt.Errorf("provider cannot supervise themselves")
	}
	if rel.SupervisionLevel == "" {
		rel.SupervisionLevel = SupervisionGeneral
	}
	if !validSupervisionLevels[rel.SupervisionLevel] {
		return fmt.Errorf("invalid supervision level: %s", rel.SupervisionLevel)
	}
	if rel.EffectiveDate.IsZero() {
		return fmt.Errorf("effective_date is required")
	}
	if rel.EndDate != nil && rel.EndDate.Before(rel.EffectiveDate) {
		return fmt.Errorf("end_date precedes effective_date")
	}
	return s.repo.CreateSupervision(ctx, rel)
}

func (s *Service) EndSupervision(ctx context.Context, id uuid.UUID) error {
	return s.repo.EndSupervision(ctx, id)
}

// ResolveEligible returns every provider who can see patients under the payer
// on the given date, through either credentialing path. A provider covered by
// both paths appears once per path; an empty result is not an error. A payer
// that is inactive or in a terminal-negative credentialing state (denied,
// expired) yields no providers at all.
func (s *Service) ResolveEligible(ctx context.Context, payerID uuid.UUID, date time.Time) ([]EligibleProvider, error) {
	payer, err := s.repo.GetPayer(ctx, payerID)
	if err != nil {
		return nil, fmt.Errorf("load payer: %w", err)
	}
	if !payer.Bookable() {
		return nil, nil
	}

	directs, err := s.repo.ListDirectByPayer(ctx, payerID)
	if err != nil {
		return nil, fmt.Errorf("list direct relationships: %w", err)
	}
	supervisions, err := s.repo.ListSupervisionByPayer(ctx, payerID)
	if err != nil {
		return nil, fmt.Errorf("list supervision relationships: %w", err)
	}

	var eligible []EligibleProvider
	for _, rel := range directs {
		if !rel.IsActive || !coversDate(rel.EffectiveDate, rel.EndDate, date) {
			continue
		}
		eligible = append(eligible, EligibleProvider{
			ProviderID:    rel.ProviderID,
			Kind:          EligibilityDirect,
			EffectiveDate: rel.EffectiveDate,
		})
	}
	for _, rel := range supervisions {
		if !rel.IsActive || !coversDate(rel.EffectiveDate, rel.EndDate, date) {
			continue
		}
		sup := rel.SupervisingProvider
		eligible = append(eligible, EligibleProvider{
			ProviderID:          rel.ProviderID,
			Kind:                EligibilitySupervised,
			SupervisingProvider: &sup,
			RequiresCoVisit:     rel.RequiresCoVisit,
			EffectiveDate:       rel.EffectiveDate,
		})
	}
	return eligible, nil
}
