package models

import (
	"time"

	"github.com/google/uuid"
)

// EventLog represents an event log entry
type EventLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	TenantID *uuid.UUID `json:"tenantId,omitempty" db:"tenant_id"`

	Type        EventType  `json:"type" db:"type"`
	Level       EventLevel `json:"level" db:"level"`
	Description string     `json:"description" db:"description"`

	Details Variables `json:"details,omitempty" db:"details"`
}

// EventType represents event types
type EventType string

const (
	// Storefront events
	EventTypeCheckout       EventType = "CHECKOUT"
	EventTypeQuoteRequested EventType = "QUOTE_REQUESTED"
	EventTypePaymentConfirm EventType = "PAYMENT_CONFIRMED"
	EventTypeCartCorrupt    EventType = "CART_CORRUPT"

	// System events
	EventTypeTenantResolved EventType = "TENANT_RESOLVED"
	EventTypeAPICall        EventType = "API_CALL"
	EventTypeError          EventType = "ERROR"
)

// EventLevel represents event severity levels
type EventLevel string

const (
	EventLevelDebug   EventLevel = "DEBUG"
	EventLevelInfo    EventLevel = "INFO"
	EventLevelWarning EventLevel = "WARNING"
	EventLevelError   EventLevel = "ERROR"
)
