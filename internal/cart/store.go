package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shopgrid/storefront-server/internal/models"
)

// Store holds one cart's state in memory and writes it through the
// persistence port on every mutation. Mutations are applied to memory
// first; a failed write is logged and reconverges on the next successful
// write. Multi-writer access to the same key is last-writer-wins on the
// persisted blob.
type Store struct {
	key  string
	port PersistencePort

	mu    sync.Mutex
	state models.CartState
}

// Load restores a cart from persistence. A missing key and a corrupt blob
// both yield an empty cart: first visit and corruption recover identically
// and never crash the caller.
func Load(ctx context.Context, key string, port PersistencePort) *Store {
	s := &Store{key: key, port: port}

	state, err := port.Load(ctx, key)
	switch {
	case err == nil && state != nil:
		s.state = *state
	case errors.Is(err, ErrNotFound):
		// First visit.
	case err != nil:
		log.Warn().Err(err).Str("cartKey", key).Msg("Cart blob unreadable, starting empty")
	}

	return s
}

// Key returns the durable storage key of this cart
func (s *Store) Key() string {
	return s.key
}

// Add puts qty units of a variant into the cart. The target list is chosen
// by the product's quote-only flag at insertion time. An existing line for
// the same variant id has its quantity incremented; a new line is appended
// preserving insertion order. A variant whose quote-only flag changed since
// an earlier add is evicted from the stale list so it never sits in both.
func (s *Store) Add(ctx context.Context, product *models.Product, variant *models.ProductVariant, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	list := &s.state.PurchaseItems
	other := &s.state.QuoteItems
	if product.IsQuoteOnly {
		list, other = other, list
	}
	*other = dropVariant(*other, variant.ID)

	merged := false
	for i := range *list {
		if (*list)[i].VariantID == variant.ID {
			(*list)[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		*list = append(*list, models.CartItem{
			ProductID:   product.ID,
			VariantID:   variant.ID,
			ProductName: product.Name,
			VariantName: variant.Name,
			UnitPrice:   variant.UnitPrice,
			IsQuoteOnly: product.IsQuoteOnly,
			Quantity:    qty,
		})
	}
	s.mu.Unlock()

	s.persist(ctx)
}

// Remove deletes any line with the variant id from both lists. Removing an
// absent id is a no-op.
func (s *Store) Remove(ctx context.Context, variantID uuid.UUID) {
	s.mu.Lock()
	s.state.PurchaseItems = dropVariant(s.state.PurchaseItems, variantID)
	s.state.QuoteItems = dropVariant(s.state.QuoteItems, variantID)
	s.mu.Unlock()

	s.persist(ctx)
}

// UpdateQuantity rewrites the quantity of the line holding the variant id,
// in whichever list contains it. A quantity of zero or less removes the
// line instead.
func (s *Store) UpdateQuantity(ctx context.Context, variantID uuid.UUID, qty int) {
	if qty <= 0 {
		s.Remove(ctx, variantID)
		return
	}

	s.mu.Lock()
	setQuantity(s.state.PurchaseItems, variantID, qty)
	setQuantity(s.state.QuoteItems, variantID, qty)
	s.mu.Unlock()

	s.persist(ctx)
}

// Clear resets both lists to empty. Idempotent; called after a payment
// confirmation to avoid double-submission artifacts.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.state = models.CartState{}
	s.mu.Unlock()

	if err := s.port.Clear(ctx, s.key); err != nil {
		log.Warn().Err(err).Str("cartKey", s.key).Msg("Failed to clear persisted cart")
	}
}

// State returns a copy of the current cart state
func (s *Store) State() models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := models.CartState{
		PurchaseItems: append([]models.CartItem(nil), s.state.PurchaseItems...),
		QuoteItems:    append([]models.CartItem(nil), s.state.QuoteItems...),
	}
	return copied
}

// persist writes the full state through the port
func (s *Store) persist(ctx context.Context) {
	state := s.State()
	if err := s.port.Save(ctx, s.key, &state); err != nil {
		log.Warn().Err(err).Str("cartKey", s.key).Msg("Failed to persist cart")
	}
}

func dropVariant(items []models.CartItem, variantID uuid.UUID) []models.CartItem {
	out := items[:0]
	for _, it := range items {
		if it.VariantID != variantID {
			out = append(out, it)
		}
	}
	return out
}

func setQuantity(items []models.CartItem, variantID uuid.UUID, qty int) {
	for i := range items {
		if items[i].VariantID == variantID {
			items[i].Quantity = qty
			return
		}
	}
}
