package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopgrid/storefront-server/internal/auth"
	"github.com/shopgrid/storefront-server/internal/cart"
	"github.com/shopgrid/storefront-server/internal/config"
	"github.com/shopgrid/storefront-server/internal/models"
	"github.com/shopgrid/storefront-server/internal/storage"
	"github.com/shopgrid/storefront-server/internal/tenant"
)

// fakeStore implements the slice of storage.Store the API tests exercise.
// Unimplemented methods panic via the embedded nil interface.
type fakeStore struct {
	storage.Store

	tenants  []*models.TenantConfig
	products map[uuid.UUID]*models.Product
	variants map[uuid.UUID]*models.ProductVariant
	zones    []*models.ShippingZone

	orders []*models.Order
	quotes []*models.QuoteRequest
	events []*models.EventLog
}

func (f *fakeStore) GetTenantBySlug(_ context.Context, slug string) (*models.TenantConfig, error) {
	for _, t := range f.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetTenantByDomain(_ context.Context, domain string) (*models.TenantConfig, error) {
	for _, t := range f.tenants {
		if t.Domain == domain {
			return t, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetVariant(_ context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	if v, ok := f.variants[id]; ok {
		return v, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ListProducts(_ context.Context, tenantID uuid.UUID, _, _ int) ([]*models.Product, int64, error) {
	var out []*models.Product
	for _, p := range f.products {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) ListShippingZones(_ context.Context, tenantID uuid.UUID) ([]*models.ShippingZone, error) {
	var out []*models.ShippingZone
	for _, z := range f.zones {
		if z.TenantID == tenantID {
			out = append(out, z)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateOrder(_ context.Context, order *models.Order) error {
	order.ID = uuid.New()
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeStore) CreateQuoteRequest(_ context.Context, quote *models.QuoteRequest) error {
	quote.ID = uuid.New()
	f.quotes = append(f.quotes, quote)
	return nil
}

func (f *fakeStore) CreateEventLog(_ context.Context, event *models.EventLog) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetTenant(_ context.Context, id uuid.UUID) (*models.TenantConfig, error) {
	for _, t := range f.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, storage.ErrNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Tenant: config.TenantConfig{
			PlatformDomains: []string{"myshops.app"},
			ReservedLabels:  []string{"www", "api"},
		},
	}
}

func testTenant() *models.TenantConfig {
	return &models.TenantConfig{
		ID:                 uuid.New(),
		Slug:               "acme",
		Domain:             "acme-tools.com",
		Name:               "Acme Tools",
		Status:             models.TenantStatusActive,
		PrimaryColor:       "#aa0000",
		SecondaryColor:     "#00aa00",
		DecimalPlaces:      2,
		ThousandsSeparator: ",",
		DecimalSeparator:   ".",
		ShippingWorkdays:   models.IntArray{0, 1, 2, 3, 4},
	}
}

// newTestServer wires a server whose tenant cache talks to a second
// instance of the same API, so resolution flows through the real lookup
// endpoint.
func newTestServer(t *testing.T, store storage.Store) *RESTServer {
	cfg := testConfig()
	carts := cart.NewMemoryPort()

	boot := NewRESTServer(cfg, store,
		tenant.NewCache(tenant.NewClient("http://127.0.0.1:1", time.Second), time.Minute),
		carts, nil)
	lookup := httptest.NewServer(boot.Handler())
	t.Cleanup(lookup.Close)

	tenants := tenant.NewCache(tenant.NewClient(lookup.URL+"/api/v1", 2*time.Second), time.Minute)
	return NewRESTServer(cfg, store, tenants, carts, nil)
}

func doJSON(s *RESTServer, method, path, host, cartKey string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Host = host
	if cartKey != "" {
		req.Header.Set(CartKeyHeader, cartKey)
	}

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestLookupEndpoint(t *testing.T) {
	store := &fakeStore{tenants: []*models.TenantConfig{testTenant()}}
	s := newTestServer(t, store)

	rr := doJSON(s, http.MethodGet, "/api/v1/tenants/?slug=acme", "api.myshops.app", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "acme", results[0].(map[string]interface{})["slug"])
}

func TestLookupEndpointMissReturnsEmptyResults(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(t, store)

	rr := doJSON(s, http.MethodGet, "/api/v1/tenants/?slug=ghost", "api.myshops.app", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode(t, rr)["results"])
}

func TestStorefrontResolvesFromHost(t *testing.T) {
	store := &fakeStore{tenants: []*models.TenantConfig{testTenant()}}
	s := newTestServer(t, store)

	for _, host := range []string{"acme.myshops.app", "acme.myshops.app:8080", "www.acme-tools.com", "acme-tools.com"} {
		rr := doJSON(s, http.MethodGet, "/api/v1/storefront", host, "", nil)
		require.Equal(t, http.StatusOK, rr.Code, "host %s", host)

		body := decode(t, rr)
		branding := body["branding"].(map[string]interface{})
		props := branding["properties"].(map[string]interface{})
		assert.Equal(t, "#aa0000", props["--primary-color"])
		assert.Equal(t, "Acme Tools", branding["title"])
	}
}

func TestStorefrontUnknownStoreIs404(t *testing.T) {
	store := &fakeStore{tenants: []*models.TenantConfig{testTenant()}}
	s := newTestServer(t, store)

	for _, host := range []string{
		"ghost.myshops.app",  // unknown slug
		"www.myshops.app",    // reserved label
		"myshops.app",        // apex
		"localhost",          // bare loopback
		"nobody-we-know.com", // unknown custom domain
	} {
		rr := doJSON(s, http.MethodGet, "/api/v1/storefront", host, "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, "host %s", host)
	}
}

func TestSuspendedTenantIs404(t *testing.T) {
	suspended := testTenant()
	suspended.Status = models.TenantStatusSuspended
	store := &fakeStore{tenants: []*models.TenantConfig{suspended}}
	s := newTestServer(t, store)

	rr := doJSON(s, http.MethodGet, "/api/v1/storefront", "acme.myshops.app", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func catalogFixture(cfg *models.TenantConfig) (*fakeStore, *models.ProductVariant, *models.ProductVariant) {
	hammer := &models.Product{
		ID: uuid.New(), TenantID: cfg.ID, Name: "Hammer",
		MinLeadDays: 2, WeightKg: 1.5, IsActive: true,
	}
	hammerStd := &models.ProductVariant{
		ID: uuid.New(), ProductID: hammer.ID, Name: "Standard", UnitPrice: 25, Stock: 10, IsActive: true,
	}
	hammer.Variants = []*models.ProductVariant{hammerStd}

	crane := &models.Product{
		ID: uuid.New(), TenantID: cfg.ID, Name: "Tower Crane",
		IsQuoteOnly: true, IsActive: true,
	}
	craneBase := &models.ProductVariant{
		ID: uuid.New(), ProductID: crane.ID, Name: "Base Model", IsActive: true,
	}
	crane.Variants = []*models.ProductVariant{craneBase}

	return &fakeStore{
		tenants:  []*models.TenantConfig{cfg},
		products: map[uuid.UUID]*models.Product{hammer.ID: hammer, crane.ID: crane},
		variants: map[uuid.UUID]*models.ProductVariant{hammerStd.ID: hammerStd, craneBase.ID: craneBase},
	}, hammerStd, craneBase
}

func TestStorefrontProductsFormatted(t *testing.T) {
	cfg := testTenant()
	store, _, _ := catalogFixture(cfg)
	s := newTestServer(t, store)

	rr := doJSON(s, http.MethodGet, "/api/v1/storefront/products", "acme.myshops.app", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	products := body["products"].([]interface{})
	require.Len(t, products, 2)

	for _, raw := range products {
		p := raw.(map[string]interface{})
		variants := p["variants"].([]interface{})
		require.NotEmpty(t, variants)
		v := variants[0].(map[string]interface{})

		if p["isQuoteOnly"].(bool) {
			assert.Empty(t, v["displayPrice"])
		} else {
			assert.Equal(t, "$25.00", v["displayPrice"])
			assert.True(t, p["shipDateCertain"].(bool))
			assert.NotEmpty(t, p["estShipDate"])
		}
	}
}

func TestShippingEstimate(t *testing.T) {
	cfg := testTenant()
	store, hammerStd, _ := catalogFixture(cfg)
	threshold := 1000.0
	store.zones = []*models.ShippingZone{
		{
			ID: uuid.New(), TenantID: cfg.ID, Name: "Metro",
			BaseCost: 5, CostPerKg: 2, FreeShippingThreshold: &threshold,
			EstimatedDays: 3, IsActive: true,
		},
	}
	s := newTestServer(t, store)

	rr := doJSON(s, http.MethodGet, "/api/v1/storefront/shipping/estimate?variant_id="+hammerStd.ID.String(),
		"acme.myshops.app", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.True(t, body["shipDateCertain"].(bool))
	assert.NotEmpty(t, body["shipDate"])

	zones := body["zones"].([]interface{})
	require.Len(t, zones, 1)
	zone := zones[0].(map[string]interface{})
	// 5 base + 2/kg * 1.5kg
	assert.Equal(t, "$8.00", zone["feeDisplay"])
}

func TestCartLifecycle(t *testing.T) {
	cfg := testTenant()
	store, hammerStd, craneBase := catalogFixture(cfg)
	s := newTestServer(t, store)

	host := "acme.myshops.app"
	key := "browser-key-1"

	// Add a purchasable and a quote-only line
	rr := doJSON(s, http.MethodPost, "/api/v1/storefront/cart/items", host, key,
		map[string]interface{}{"variant_id": hammerStd.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(s, http.MethodPost, "/api/v1/storefront/cart/items", host, key,
		map[string]interface{}{"variant_id": craneBase.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Len(t, body["purchaseItems"], 1)
	assert.Len(t, body["quoteItems"], 1)
	assert.Equal(t, float64(2), body["itemCount"])
	assert.Equal(t, "$50.00", body["displaySubtotal"])

	// Adding the same variant again merges rather than duplicating
	rr = doJSON(s, http.MethodPost, "/api/v1/storefront/cart/items", host, key,
		map[string]interface{}{"variant_id": hammerStd.ID, "quantity": 1})
	body = decode(t, rr)
	assert.Len(t, body["purchaseItems"], 1)
	assert.Equal(t, "$75.00", body["displaySubtotal"])

	// Zero quantity removes the line
	rr = doJSON(s, http.MethodPut, "/api/v1/storefront/cart/items/"+craneBase.ID.String(), host, key,
		map[string]interface{}{"quantity": 0})
	body = decode(t, rr)
	assert.Empty(t, body["quoteItems"])

	// Carts are keyed per browser key
	rr = doJSON(s, http.MethodGet, "/api/v1/storefront/cart", host, "other-key", nil)
	body = decode(t, rr)
	assert.Equal(t, float64(0), body["itemCount"])
}

func TestCheckoutSplitsStreamsAndKeepsCart(t *testing.T) {
	cfg := testTenant()
	store, hammerStd, craneBase := catalogFixture(cfg)
	s := newTestServer(t, store)

	host := "acme.myshops.app"
	key := "browser-key-2"

	doJSON(s, http.MethodPost, "/api/v1/storefront/cart/items", host, key,
		map[string]interface{}{"variant_id": hammerStd.ID, "quantity": 2})
	doJSON(s, http.MethodPost, "/api/v1/storefront/cart/items", host, key,
		map[string]interface{}{"variant_id": craneBase.ID, "quantity": 1})

	rr := doJSON(s, http.MethodPost, "/api/v1/storefront/checkout", host, key,
		map[string]interface{}{
			"customer_email": "buyer@example.com",
			"customer_name":  "Buyer",
			"message":        "need it soon",
		})
	require.Equal(t, http.StatusCreated, rr.Code)

	body := decode(t, rr)
	require.Contains(t, body, "order")
	require.Contains(t, body, "quoteRequest")
	assert.Equal(t, "$50.00", body["displayTotal"])

	require.Len(t, store.orders, 1)
	assert.Equal(t, 50.0, store.orders[0].Total)
	assert.Equal(t, models.OrderStatusPending, store.orders[0].Status)
	require.Len(t, store.quotes, 1)
	assert.Equal(t, "need it soon", store.quotes[0].Message)

	// Both streams produced an event
	assert.Len(t, store.events, 2)

	// The cart survives checkout; it is cleared on payment confirmation
	rr = doJSON(s, http.MethodGet, "/api/v1/storefront/cart", host, key, nil)
	body = decode(t, rr)
	assert.Equal(t, float64(2), body["itemCount"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	cfg := testTenant()
	store, _, _ := catalogFixture(cfg)
	s := newTestServer(t, store)

	rr := doJSON(s, http.MethodPost, "/api/v1/storefront/checkout", "acme.myshops.app", "fresh-key",
		map[string]interface{}{"customer_email": "buyer@example.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func adminToken(t *testing.T) string {
	manager := auth.NewJWTManager(&testConfig().JWT)
	access, _, err := manager.GenerateTokenPair(&models.User{
		ID: uuid.New(), Email: "admin@example.com", IsAdmin: true, IsActive: true,
	})
	require.NoError(t, err)
	return access
}

func doAdminJSON(s *RESTServer, token, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Host = "api.myshops.app"
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestOrderDetailFormatsPersistedLines(t *testing.T) {
	cfg := testTenant()
	order := &models.Order{
		ID:       uuid.New(),
		TenantID: cfg.ID,
		Status:   models.OrderStatusPending,
		Subtotal: 50,
		Total:    58,
		// Shaped the way the JSON column hands lines back: generic maps
		// with loosely typed fields.
		Items: models.Variables{"lines": []interface{}{
			map[string]interface{}{"productName": "Hammer", "unitPrice": 25.0, "quantity": 2.0},
			map[string]interface{}{"productName": "Mystery", "unitPrice": "garbled"},
		}},
	}
	store := &fakeStore{tenants: []*models.TenantConfig{cfg}, orders: []*models.Order{order}}
	s := newTestServer(t, store)

	rr := doAdminJSON(s, adminToken(t), http.MethodGet, "/api/v1/orders/"+order.ID.String())
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, "$58.00", body["displayTotal"])
	assert.Equal(t, "$50.00", body["displaySubtotal"])

	lines := body["lines"].([]interface{})
	require.Len(t, lines, 2)
	assert.Equal(t, "$25.00", lines[0].(map[string]interface{})["displayPrice"])
	// Unreadable price fields render empty rather than failing the request.
	assert.Empty(t, lines[1].(map[string]interface{})["displayPrice"])
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(t, store)

	for _, path := range []string{"/api/v1/products", "/api/v1/orders", "/api/v1/events"} {
		rr := doJSON(s, http.MethodGet, path, "api.myshops.app", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "path %s", path)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	store := &fakeStore{}
	s := newTestServer(t, store)

	rr := doJSON(s, http.MethodPost, "/api/v1/auth/login", "api.myshops.app", "",
		map[string]interface{}{"email": "ghost@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
