package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents order processing states
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order represents a checkout of the purchasable cart stream
type Order struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	TenantID uuid.UUID   `json:"tenantId" db:"tenant_id"`
	CartKey  string      `json:"cartKey" db:"cart_key"`
	Status   OrderStatus `json:"status" db:"status"`

	CustomerEmail string `json:"customerEmail" db:"customer_email"`
	CustomerName  string `json:"customerName,omitempty" db:"customer_name"`

	// Line items captured at checkout time, immutable afterwards.
	Items Variables `json:"items" db:"items"`

	Subtotal     float64    `json:"subtotal" db:"subtotal"`
	ShippingCost float64    `json:"shippingCost" db:"shipping_cost"`
	Total        float64    `json:"total" db:"total"`
	EstShipDate  *time.Time `json:"estShipDate,omitempty" db:"est_ship_date"`
}

// QuoteRequest represents a checkout of the quote-only cart stream
type QuoteRequest struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	TenantID uuid.UUID `json:"tenantId" db:"tenant_id"`
	CartKey  string    `json:"cartKey" db:"cart_key"`

	CustomerEmail string `json:"customerEmail" db:"customer_email"`
	CustomerName  string `json:"customerName,omitempty" db:"customer_name"`
	Message       string `json:"message,omitempty" db:"message"`

	Items Variables `json:"items" db:"items"`
}
