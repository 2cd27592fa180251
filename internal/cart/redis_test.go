package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopgrid/storefront-server/internal/models"
)

func setupTestRedis(t *testing.T) (*RedisPort, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisPort(client, "cart", time.Hour), mr
}

func TestRedisPortRoundTrip(t *testing.T) {
	port, _ := setupTestRedis(t)
	ctx := context.Background()

	state := &models.CartState{
		PurchaseItems: []models.CartItem{
			{ProductID: uuid.New(), VariantID: uuid.New(), UnitPrice: 10, Quantity: 2},
		},
		QuoteItems: []models.CartItem{
			{ProductID: uuid.New(), VariantID: uuid.New(), IsQuoteOnly: true, Quantity: 1},
		},
	}

	require.NoError(t, port.Save(ctx, "u1", state))

	loaded, err := port.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestRedisPortMissingKey(t *testing.T) {
	port, _ := setupTestRedis(t)

	_, err := port.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisPortCorruptBlob(t *testing.T) {
	port, mr := setupTestRedis(t)

	require.NoError(t, mr.Set("cart:u1", "{broken"))

	_, err := port.Load(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisPortClear(t *testing.T) {
	port, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, port.Save(ctx, "u1", &models.CartState{}))
	require.NoError(t, port.Clear(ctx, "u1"))

	_, err := port.Load(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing an absent key is still fine.
	assert.NoError(t, port.Clear(ctx, "u1"))
}
