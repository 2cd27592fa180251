package cart

import (
	"context"
	"errors"

	"github.com/shopgrid/storefront-server/internal/models"
)

// Common errors
var (
	// ErrNotFound is returned by Load when no cart exists under the key.
	ErrNotFound = errors.New("cart not found")
)

// PersistencePort is the durable storage boundary for cart state. The
// store writes through it on every mutation and reads once at startup.
// Implementations hold the full state as a single serialized blob per key;
// concurrent writers follow last-writer-wins on that blob.
type PersistencePort interface {
	Load(ctx context.Context, key string) (*models.CartState, error)
	Save(ctx context.Context, key string, state *models.CartState) error
	Clear(ctx context.Context, key string) error
}
