package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantStatus represents the lifecycle state of a tenant account
type TenantStatus string

const (
	TenantStatusTrial     TenantStatus = "TRIAL"
	TenantStatusActive    TenantStatus = "ACTIVE"
	TenantStatusSuspended TenantStatus = "SUSPENDED"
	TenantStatusCancelled TenantStatus = "CANCELLED"
)

// TenantConfig is the authoritative record for a tenant store
type TenantConfig struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Slug   string       `json:"slug" db:"slug"`
	Domain string       `json:"domain,omitempty" db:"domain"`
	Name   string       `json:"name" db:"name"`
	Status TenantStatus `json:"status" db:"status"`

	// Branding
	PrimaryColor   string `json:"primaryColor" db:"primary_color"`
	SecondaryColor string `json:"secondaryColor" db:"secondary_color"`
	LogoURL        string `json:"logoUrl,omitempty" db:"logo_url"`

	// Regional rules. ThousandsSeparator and DecimalSeparator must differ.
	DecimalPlaces      int    `json:"decimalPlaces" db:"decimal_places"`
	ThousandsSeparator string `json:"thousandsSeparator" db:"thousands_separator"`
	DecimalSeparator   string `json:"decimalSeparator" db:"decimal_separator"`

	// Weekdays the tenant's carrier performs pickups, Monday-first (0=Monday).
	ShippingWorkdays IntArray `json:"shippingWorkdays" db:"shipping_workdays"`

	// Content
	WelcomeText  string    `json:"welcomeText,omitempty" db:"welcome_text"`
	ContactEmail string    `json:"contactEmail,omitempty" db:"contact_email"`
	Settings     Variables `json:"settings,omitempty" db:"settings"`
}

// IsUsable reports whether the storefront should be served for this tenant
func (t *TenantConfig) IsUsable() bool {
	return t.Status == TenantStatusTrial || t.Status == TenantStatusActive
}

// WorkdaySet returns the shipping workdays as a lookup set
func (t *TenantConfig) WorkdaySet() map[int]bool {
	set := make(map[int]bool, len(t.ShippingWorkdays))
	for _, d := range t.ShippingWorkdays {
		if d >= 0 && d <= 6 {
			set[d] = true
		}
	}
	return set
}
