package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog entry owned by a tenant
type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	TenantID uuid.UUID `json:"tenantId" db:"tenant_id"`

	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	ImageURL    string `json:"imageUrl,omitempty" db:"image_url"`

	// Quote-only products carry no fixed sell price and are routed to the
	// request-for-quote flow instead of checkout.
	IsQuoteOnly bool `json:"isQuoteOnly" db:"is_quote_only"`

	// Preparation days before the item can be handed to a carrier,
	// counted in business days.
	MinLeadDays int `json:"minLeadDays" db:"min_lead_days"`

	WeightKg float64 `json:"weightKg" db:"weight_kg"`
	IsActive bool    `json:"isActive" db:"is_active"`

	Variants []*ProductVariant `json:"variants,omitempty" db:"-"`
}

// ProductVariant represents a sellable variation of a product
type ProductVariant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	ProductID uuid.UUID `json:"productId" db:"product_id"`

	Name      string  `json:"name" db:"name"`
	SKU       string  `json:"sku,omitempty" db:"sku"`
	UnitPrice float64 `json:"unitPrice" db:"unit_price"`
	Stock     int     `json:"stock" db:"stock"`
	IsActive  bool    `json:"isActive" db:"is_active"`
}
