package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shopgrid/storefront-server/internal/models"
)

// MemoryPort is an in-memory persistence port used in tests and when no
// Redis is configured. It round-trips through JSON so serialization
// behaves exactly like the durable ports.
type MemoryPort struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryPort creates an empty in-memory port
func NewMemoryPort() *MemoryPort {
	return &MemoryPort{blobs: make(map[string][]byte)}
}

// Load decodes the stored blob for the key
func (p *MemoryPort) Load(_ context.Context, key string) (*models.CartState, error) {
	p.mu.RLock()
	data, ok := p.blobs[key]
	p.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	var state models.CartState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save encodes and stores the state under the key
func (p *MemoryPort) Save(_ context.Context, key string, state *models.CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.blobs[key] = data
	p.mu.Unlock()
	return nil
}

// Clear removes the blob for the key
func (p *MemoryPort) Clear(_ context.Context, key string) error {
	p.mu.Lock()
	delete(p.blobs, key)
	p.mu.Unlock()
	return nil
}

// Corrupt overwrites a stored blob with malformed JSON. Test helper for
// exercising the fail-soft load path.
func (p *MemoryPort) Corrupt(key string) {
	p.mu.Lock()
	p.blobs[key] = []byte("{not json")
	p.mu.Unlock()
}
