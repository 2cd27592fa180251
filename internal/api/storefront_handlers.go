package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shopgrid/storefront-server/internal/cart"
	"github.com/shopgrid/storefront-server/internal/models"
	"github.com/shopgrid/storefront-server/internal/pricing"
	"github.com/shopgrid/storefront-server/internal/shipping"
	"github.com/shopgrid/storefront-server/internal/storage"
	"github.com/shopgrid/storefront-server/internal/tenant"
	"github.com/shopgrid/storefront-server/pkg/crypto"
)

// requestTenant returns the resolved storefront tenant from the context
func requestTenant(r *http.Request) *models.TenantConfig {
	cfg, _ := r.Context().Value(ctxKeyTenant).(*models.TenantConfig)
	return cfg
}

// requestCartKey returns the cart key installed by cartKeyMiddleware
func requestCartKey(r *http.Request) string {
	key, _ := r.Context().Value(ctxKeyCartKey).(string)
	return key
}

// cartKeyMiddleware reads the browser's cart key from the request header,
// minting one on first visit. The key is always echoed back so the client
// can persist it.
func (s *RESTServer) cartKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(CartKeyHeader)
		if key == "" {
			minted, err := crypto.GenerateRandomString(32)
			if err != nil {
				s.respondError(w, http.StatusInternalServerError, "failed to create cart")
				return
			}
			key = minted
		}

		w.Header().Set(CartKeyHeader, key)

		ctx := context.WithValue(r.Context(), ctxKeyCartKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tenantCartKey namespaces a browser cart key by tenant so two stores
// visited from the same browser never share a cart.
func tenantCartKey(cfg *models.TenantConfig, key string) string {
	return cfg.ID.String() + ":" + key
}

// ========== Storefront handlers ==========

// HandleStorefront returns the resolved tenant's public config and the
// style directive the presentation layer applies.
func (s *RESTServer) HandleStorefront(w http.ResponseWriter, r *http.Request) {
	cfg := requestTenant(r)

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"tenant": map[string]interface{}{
			"slug":        cfg.Slug,
			"name":        cfg.Name,
			"logoUrl":     cfg.LogoURL,
			"welcomeText": cfg.WelcomeText,
		},
		"branding": tenant.ApplyBranding(cfg),
	})
}

// storefrontProduct is a catalog entry shaped for the public surface
type storefrontProduct struct {
	*models.Product

	Variants []storefrontVariant `json:"variants"`

	// Earliest possible ship date, empty when the workday set is empty.
	EstShipDate     string `json:"estShipDate,omitempty"`
	EstShipDisplay  string `json:"estShipDisplay,omitempty"`
	ShipDateCertain bool   `json:"shipDateCertain"`
}

type storefrontVariant struct {
	*models.ProductVariant

	DisplayPrice string `json:"displayPrice"`
}

func (s *RESTServer) storefrontProductView(cfg *models.TenantConfig, p *models.Product) storefrontProduct {
	rules := pricing.RulesFromTenant(cfg)

	view := storefrontProduct{Product: p, Variants: make([]storefrontVariant, 0, len(p.Variants))}
	for _, v := range p.Variants {
		sv := storefrontVariant{ProductVariant: v}
		if !p.IsQuoteOnly {
			sv.DisplayPrice = pricing.Format(v.UnitPrice, rules)
		}
		view.Variants = append(view.Variants, sv)
	}

	if date, ok := shipping.Estimate(cfg.WorkdaySet(), p.MinLeadDays, time.Now()); ok {
		view.EstShipDate = shipping.WireDate(date)
		view.EstShipDisplay = shipping.DisplayDate(date)
		view.ShipDateCertain = true
	}

	return view
}

// HandleStorefrontProducts lists the tenant's active catalog
func (s *RESTServer) HandleStorefrontProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := requestTenant(r)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	products, total, err := s.store.ListProducts(ctx, cfg.ID, limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]storefrontProduct, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		views = append(views, s.storefrontProductView(cfg, p))
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"products": views,
		"total":    total,
	})
}

// HandleStorefrontProduct gets a single catalog entry
func (s *RESTServer) HandleStorefrontProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := requestTenant(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := s.store.GetProduct(ctx, id)
	if err != nil || product.TenantID != cfg.ID || !product.IsActive {
		s.respondError(w, http.StatusNotFound, "product not found")
		return
	}

	s.respondJSON(w, http.StatusOK, s.storefrontProductView(cfg, product))
}

// HandleShippingEstimate answers the earliest ship date for a variant plus
// the tenant's shipping zone fees for its weight.
func (s *RESTServer) HandleShippingEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := requestTenant(r)

	variantID, err := uuid.Parse(r.URL.Query().Get("variant_id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid variant_id")
		return
	}

	variant, err := s.store.GetVariant(ctx, variantID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "variant not found")
		return
	}

	product, err := s.store.GetProduct(ctx, variant.ProductID)
	if err != nil || product.TenantID != cfg.ID {
		s.respondError(w, http.StatusNotFound, "variant not found")
		return
	}

	resp := map[string]interface{}{
		"shipDateCertain": false,
	}
	if date, ok := shipping.Estimate(cfg.WorkdaySet(), product.MinLeadDays, time.Now()); ok {
		resp["shipDate"] = shipping.WireDate(date)
		resp["shipDateDisplay"] = shipping.DisplayDate(date)
		resp["shipDateCertain"] = true
	}

	zones, err := s.store.ListShippingZones(ctx, cfg.ID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rules := pricing.RulesFromTenant(cfg)
	subtotal := variant.UnitPrice

	zoneViews := make([]map[string]interface{}, 0, len(zones))
	for _, z := range zones {
		if !z.IsActive {
			continue
		}
		fee := z.Cost(product.WeightKg, subtotal)
		zoneViews = append(zoneViews, map[string]interface{}{
			"id":            z.ID,
			"name":          z.Name,
			"fee":           fee,
			"feeDisplay":    pricing.Format(fee, rules),
			"estimatedDays": z.EstimatedDays,
			"allowsPickup":  z.AllowsPickup,
		})
	}
	resp["zones"] = zoneViews

	s.respondJSON(w, http.StatusOK, resp)
}

// ========== Cart handlers ==========

// cartView shapes a cart state for the public surface
func (s *RESTServer) cartView(cfg *models.TenantConfig, state models.CartState) map[string]interface{} {
	rules := pricing.RulesFromTenant(cfg)

	shape := func(items []models.CartItem) []map[string]interface{} {
		out := make([]map[string]interface{}, 0, len(items))
		for _, it := range items {
			line := map[string]interface{}{
				"productId":   it.ProductID,
				"variantId":   it.VariantID,
				"productName": it.ProductName,
				"variantName": it.VariantName,
				"quantity":    it.Quantity,
				"isQuoteOnly": it.IsQuoteOnly,
			}
			if !it.IsQuoteOnly {
				line["unitPrice"] = it.UnitPrice
				line["displayPrice"] = pricing.Format(it.UnitPrice, rules)
				line["displayLineTotal"] = pricing.Format(it.UnitPrice*float64(it.Quantity), rules)
			}
			out = append(out, line)
		}
		return out
	}

	return map[string]interface{}{
		"purchaseItems":   shape(state.PurchaseItems),
		"quoteItems":      shape(state.QuoteItems),
		"itemCount":       state.ItemCount(),
		"subtotal":        state.PurchaseTotal(),
		"displaySubtotal": pricing.Format(state.PurchaseTotal(), rules),
	}
}

func (s *RESTServer) loadCart(ctx context.Context, cfg *models.TenantConfig, r *http.Request) *cart.Store {
	return cart.Load(ctx, tenantCartKey(cfg, requestCartKey(r)), s.carts)
}

// HandleGetCart returns the current cart state
func (s *RESTServer) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	cfg := requestTenant(r)
	c := s.loadCart(r.Context(), cfg, r)

	s.respondJSON(w, http.StatusOK, s.cartView(cfg, c.State()))
}

// HandleAddCartItem adds a variant to the cart
func (s *RESTServer) HandleAddCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := requestTenant(r)

	var req struct {
		VariantID uuid.UUID `json:"variant_id" validate:"required"`
		Quantity  int       `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	variant, err := s.store.GetVariant(ctx, req.VariantID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "variant not found")
		return
	}

	product, err := s.store.GetProduct(ctx, variant.ProductID)
	if err != nil || product.TenantID != cfg.ID || !product.IsActive {
		s.respondError(w, http.StatusNotFound, "variant not found")
		return
	}

	c := s.loadCart(ctx, cfg, r)
	c.Add(ctx, product, variant, req.Quantity)

	s.respondJSON(w, http.StatusOK, s.cartView(cfg, c.State()))
}

// HandleUpdateCartItem rewrites a line's quantity
func (s *RESTServer) HandleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := requestTenant(r)

	variantID, err := uuid.Parse(chi.URLParam(r, "variant_id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := s.loadCart(ctx, cfg, r)
	c.UpdateQuantity(ctx, variantID, req.Quantity)

	s.respondJSON(w, http.StatusOK, s.cartView(cfg, c.State()))
}

// HandleRemoveCartItem removes a line from the cart
func (s *RESTServer) HandleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := requestTenant(r)

	variantID, err := uuid.Parse(chi.URLParam(r, "variant_id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	c := s.loadCart(ctx, cfg, r)
	c.Remove(ctx, variantID)

	s.respondJSON(w, http.StatusOK, s.cartView(cfg, c.State()))
}

// ========== Checkout ==========

// HandleCheckout turns the purchase stream into an order and the quote
// stream into a quote request. The cart is not cleared here; it survives
// until a payment confirmation arrives, so an abandoned checkout keeps
// the cart intact.
func (s *RESTServer) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := requestTenant(r)

	var req struct {
		CustomerEmail  string     `json:"customer_email" validate:"required,email"`
		CustomerName   string     `json:"customer_name"`
		Message        string     `json:"message"`
		ShippingZoneID *uuid.UUID `json:"shipping_zone_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := s.loadCart(ctx, cfg, r)
	state := c.State()
	if state.IsEmpty() {
		s.respondError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	cartKey := tenantCartKey(cfg, requestCartKey(r))
	resp := map[string]interface{}{}

	if len(state.PurchaseItems) > 0 {
		order, err := s.createOrder(ctx, cfg, cartKey, state, req.CustomerEmail, req.CustomerName, req.ShippingZoneID)
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		s.events.CheckoutCompleted(cfg.Slug, order)
		s.logEvent(ctx, cfg, models.EventTypeCheckout, "Checkout completed", models.Variables{
			"orderId": order.ID.String(),
			"total":   order.Total,
		})

		rules := pricing.RulesFromTenant(cfg)
		resp["order"] = order
		resp["displayTotal"] = pricing.Format(order.Total, rules)
	}

	if len(state.QuoteItems) > 0 {
		quote := &models.QuoteRequest{
			TenantID:      cfg.ID,
			CartKey:       cartKey,
			CustomerEmail: req.CustomerEmail,
			CustomerName:  req.CustomerName,
			Message:       req.Message,
			Items:         models.Variables{"lines": state.QuoteItems},
		}

		if err := s.store.CreateQuoteRequest(ctx, quote); err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		s.events.QuoteRequested(cfg.Slug, quote)
		s.logEvent(ctx, cfg, models.EventTypeQuoteRequested, "Quote requested", models.Variables{
			"quoteId": quote.ID.String(),
			"lines":   len(state.QuoteItems),
		})

		resp["quoteRequest"] = quote
	}

	s.respondJSON(w, http.StatusCreated, resp)
}

// createOrder builds and stores an order from the purchase stream
func (s *RESTServer) createOrder(ctx context.Context, cfg *models.TenantConfig, cartKey string, state models.CartState, email, name string, zoneID *uuid.UUID) (*models.Order, error) {
	subtotal := state.PurchaseTotal()

	// Weight and lead time come from the catalog at checkout time.
	var weightKg float64
	maxLeadDays := 0
	for _, it := range state.PurchaseItems {
		product, err := s.store.GetProduct(ctx, it.ProductID)
		if err != nil {
			continue
		}
		weightKg += product.WeightKg * float64(it.Quantity)
		if product.MinLeadDays > maxLeadDays {
			maxLeadDays = product.MinLeadDays
		}
	}

	var shippingCost float64
	if zoneID != nil {
		zone, err := s.store.GetShippingZone(ctx, *zoneID)
		if err != nil || zone.TenantID != cfg.ID {
			return nil, storage.ErrInvalidData
		}
		shippingCost = zone.Cost(weightKg, subtotal)
	}

	order := &models.Order{
		TenantID:      cfg.ID,
		CartKey:       cartKey,
		Status:        models.OrderStatusPending,
		CustomerEmail: email,
		CustomerName:  name,
		Items:         models.Variables{"lines": state.PurchaseItems},
		Subtotal:      subtotal,
		ShippingCost:  shippingCost,
		Total:         subtotal + shippingCost,
	}

	if date, ok := shipping.Estimate(cfg.WorkdaySet(), maxLeadDays, time.Now()); ok {
		order.EstShipDate = &date
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// logEvent records a tenant-scoped event, best effort
func (s *RESTServer) logEvent(ctx context.Context, cfg *models.TenantConfig, eventType models.EventType, description string, details models.Variables) {
	event := &models.EventLog{
		TenantID:    &cfg.ID,
		Type:        eventType,
		Level:       models.EventLevelInfo,
		Description: description,
		Details:     details,
	}

	if err := s.store.CreateEventLog(ctx, event); err != nil {
		log.Error().Err(err).Msg("Failed to create event log")
	}
}
