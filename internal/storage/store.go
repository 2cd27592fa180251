package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shopgrid/storefront-server/internal/models"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidData  = errors.New("invalid data")
)

// Store defines the storage interface
type Store interface {
	// Transaction support
	BeginTx(ctx context.Context) (Store, error)
	Commit() error
	Rollback() error

	// User methods
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// Tenant methods
	CreateTenant(ctx context.Context, tenant *models.TenantConfig) error
	GetTenant(ctx context.Context, id uuid.UUID) (*models.TenantConfig, error)
	GetTenantBySlug(ctx context.Context, slug string) (*models.TenantConfig, error)
	GetTenantByDomain(ctx context.Context, domain string) (*models.TenantConfig, error)
	UpdateTenant(ctx context.Context, tenant *models.TenantConfig) error
	DeleteTenant(ctx context.Context, id uuid.UUID) error
	ListTenants(ctx context.Context, limit, offset int) ([]*models.TenantConfig, int64, error)

	// Product methods
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Product, int64, error)

	// Variant methods
	CreateVariant(ctx context.Context, variant *models.ProductVariant) error
	GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	UpdateVariant(ctx context.Context, variant *models.ProductVariant) error
	DeleteVariant(ctx context.Context, id uuid.UUID) error
	ListVariants(ctx context.Context, productID uuid.UUID) ([]*models.ProductVariant, error)

	// Shipping zone methods
	CreateShippingZone(ctx context.Context, zone *models.ShippingZone) error
	GetShippingZone(ctx context.Context, id uuid.UUID) (*models.ShippingZone, error)
	UpdateShippingZone(ctx context.Context, zone *models.ShippingZone) error
	DeleteShippingZone(ctx context.Context, id uuid.UUID) error
	ListShippingZones(ctx context.Context, tenantID uuid.UUID) ([]*models.ShippingZone, error)

	// Order methods
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	ListOrders(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Order, int64, error)

	// Quote request methods
	CreateQuoteRequest(ctx context.Context, quote *models.QuoteRequest) error
	ListQuoteRequests(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.QuoteRequest, int64, error)

	// Event log methods
	CreateEventLog(ctx context.Context, event *models.EventLog) error
	ListEventLogs(ctx context.Context, filters EventLogFilters, limit, offset int) ([]*models.EventLog, int64, error)

	// Close the store
	Close() error
}

// EventLogFilters represents filters for event logs
type EventLogFilters struct {
	TenantID  *uuid.UUID
	Type      *models.EventType
	Level     *models.EventLevel
	StartTime *time.Time
	EndTime   *time.Time
}
