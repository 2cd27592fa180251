package models

import (
	"time"

	"github.com/google/uuid"
)

// ShippingZone represents a tenant's shipping fee configuration for a region
type ShippingZone struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	TenantID uuid.UUID `json:"tenantId" db:"tenant_id"`

	Name                  string   `json:"name" db:"name"`
	BaseCost              float64  `json:"baseCost" db:"base_cost"`
	CostPerKg             float64  `json:"costPerKg" db:"cost_per_kg"`
	FreeShippingThreshold *float64 `json:"freeShippingThreshold,omitempty" db:"free_shipping_threshold"`
	EstimatedDays         int      `json:"estimatedDays" db:"estimated_days"`
	AllowsPickup          bool     `json:"allowsPickup" db:"allows_pickup"`
	IsActive              bool     `json:"isActive" db:"is_active"`
}

// Cost computes the shipping fee for a given order weight and subtotal
func (z *ShippingZone) Cost(weightKg, subtotal float64) float64 {
	if z.FreeShippingThreshold != nil && subtotal >= *z.FreeShippingThreshold {
		return 0
	}
	return z.BaseCost + z.CostPerKg*weightKg
}
