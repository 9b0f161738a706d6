package provider

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provider maps to the provider table. Identity fields are immutable after
// creation; admin actions mutate the activity flags only.
type Provider struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	FirstName          string    `db:"first_name" json:"first_name"`
	LastName           string    `db:"last_name" json:"last_name"`
	Title              *string   `db:"title" json:"title,omitempty"`
	Role               string    `db:"role" json:"role"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	IsBookable         bool      `db:"is_bookable" json:"is_bookable"`
	AcceptsNewPatients bool      `db:"accepts_new_patients" json:"accepts_new_patients"`
	EHRPractitionerID  *string   `db:"ehr_practitioner_id" json:"ehr_practitioner_id,omitempty"`
	Languages          []string  `db:"languages" json:"languages,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName is the name shown to patients next to a slot.
func (p *Provider) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if p.Title != nil && *p.Title != "" {
		return name + ", " + *p.Title
	}
	return name
}
