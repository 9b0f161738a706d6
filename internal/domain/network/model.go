package network

import (
	"time"

	"github.com/google/uuid"
)

// Payer is an insurance plan a clinic contracts with. Credentialing status
// tracks the clinic-level lifecycle; per-provider eligibility lives on the
// relationship rows.
type Payer struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	PayerType           string    `db:"payer_type" json:"payer_type"`
	CredentialingStatus string    `db:"credentialing_status" json:"credentialing_status"`
	IsActive            bool      `db:"is_active" json:"is_active"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// Payer types.
const (
	PayerCommercial = "commercial"
	PayerMedicare   = "medicare"
	PayerMedicaid   = "medicaid"
	PayerSelfPay    = "self_pay"
)

// Credentialing lifecycle states. Denied and expired are terminal; a payer
// in either state never participates in booking.
const (
	CredentialingNotStarted = "not_started"
	CredentialingInProgress = "in_progress"
	CredentialingApproved   = "approved"
	CredentialingDenied     = "denied"
	CredentialingExpired    = "expired"
)

// Bookable reports whether the payer may participate in booking: it must be
// active and not in a terminal-negative credentialing state.
func (p *Payer) Bookable() bool {
	return p.IsActive &&
		p.CredentialingStatus != CredentialingDenied &&
		p.CredentialingStatus != CredentialingExpired
}

// DirectRelationship credentials a provider with a payer in their own right.
type DirectRelationship struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	ProviderID    uuid.UUID  `db:"provider_id" json:"provider_id"`
	PayerID       uuid.UUID  `db:"payer_id" json:"payer_id"`
	EffectiveDate time.Time  `db:"effective_date" json:"effective_date"`
	EndDate       *time.Time `db:"end_date" json:"end_date,omitempty"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Supervision levels, tightest first. Personal means the attending is in the
// room, direct means on site, general means available for consultation.
const (
	SupervisionPersonal = "personal"
	SupervisionDirect   = "direct"
	SupervisionGeneral  = "general"
)

// SupervisionRelationship makes a rendering provider eligible for a payer
// through a supervising (billing) provider who carries the credential.
// RequiresCoVisit means the supervising provider must also be present at the
// visit; it travels with every slot the rendering provider offers.
type SupervisionRelationship struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	ProviderID          uuid.UUID  `db:"provider_id" json:"provider_id"`
	SupervisingProvider uuid.UUID  `db:"supervising_provider_id" json:"supervising_provider_id"`
	PayerID             uuid.UUID  `db:"payer_id" json:"payer_id"`
	SupervisionLevel    string     `db:"supervision_level" json:"supervision_level"`
	RequiresCoVisit     bool       `db:"requires_co_visit" json:"requires_co_visit"`
	EffectiveDate       time.Time  `db:"effective_date" json:"effective_date"`
	EndDate             *time.Time `db:"end_date" json:"end_date,omitempty"`
	IsActive            bool       `db:"is_active" json:"is_active"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}

// Eligibility kinds.
const (
	EligibilityDirect     = "direct"
	EligibilitySupervised = "supervised"
)

// EligibleProvider is one way a provider can see patients under a payer on a
// given date. The same provider may appear once per kind; callers that need
// distinct providers collapse the list themselves. For supervised entries
// SupervisingProvider is the billing provider and RequiresCoVisit carries the
// co-visit obligation into every slot.
type EligibleProvider struct {
	ProviderID          uuid.UUID  `json:"provider_id"`
	Kind                string     `json:"kind"`
	SupervisingProvider *uuid.UUID `json:"supervising_provider_id,omitempty"`
	RequiresCoVisit     bool       `json:"requires_co_visit,omitempty"`
	EffectiveDate       time.Time  `json:"effective_date"`
}

// coversDate reports whether [effective, end] contains d. A nil end date
// means the relationship is open-ended.
func coversDate(effective time.Time, end *time.Time, d time.Time) bool {
	if d.Before(effective) {
		return false
	}
	if end != nil && d.After(*end) {
		return false
	}
	return true
}
