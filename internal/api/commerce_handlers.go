package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopgrid/storefront-server/internal/models"
	"github.com/shopgrid/storefront-server/internal/pricing"
	"github.com/shopgrid/storefront-server/internal/storage"
)

// ========== Shipping zone handlers ==========

// HandleListShippingZones lists a tenant's shipping zones
func (s *RESTServer) HandleListShippingZones(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := adminTenantID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	zones, err := s.store.ListShippingZones(ctx, tenantID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"zones": zones,
		"total": len(zones),
	})
}

// HandleCreateShippingZone creates a shipping zone
func (s *RESTServer) HandleCreateShippingZone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                  string   `json:"name" validate:"required,min=2,max=100"`
		BaseCost              float64  `json:"base_cost" validate:"min=0"`
		CostPerKg             float64  `json:"cost_per_kg" validate:"min=0"`
		FreeShippingThreshold *float64 `json:"free_shipping_threshold"`
		EstimatedDays         int      `json:"estimated_days" validate:"min=0"`
		AllowsPickup          bool     `json:"allows_pickup"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tenantID, err := adminTenantID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	zone := &models.ShippingZone{
		TenantID:              tenantID,
		Name:                  req.Name,
		BaseCost:              req.BaseCost,
		CostPerKg:             req.CostPerKg,
		FreeShippingThreshold: req.FreeShippingThreshold,
		EstimatedDays:         req.EstimatedDays,
		AllowsPickup:          req.AllowsPickup,
		IsActive:              true,
	}

	if err := s.store.CreateShippingZone(r.Context(), zone); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, zone)
}

// HandleGetShippingZone gets a shipping zone
func (s *RESTServer) HandleGetShippingZone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid zone id")
		return
	}

	zone, err := s.store.GetShippingZone(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			s.respondError(w, http.StatusNotFound, "zone not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !canAccessTenant(r, zone.TenantID) {
		s.respondError(w, http.StatusNotFound, "zone not found")
		return
	}

	s.respondJSON(w, http.StatusOK, zone)
}

// HandleUpdateShippingZone updates a shipping zone
func (s *RESTServer) HandleUpdateShippingZone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid zone id")
		return
	}

	var req struct {
		Name                  string   `json:"name" validate:"required,min=2,max=100"`
		BaseCost              float64  `json:"base_cost" validate:"min=0"`
		CostPerKg             float64  `json:"cost_per_kg" validate:"min=0"`
		FreeShippingThreshold *float64 `json:"free_shipping_threshold"`
		EstimatedDays         int      `json:"estimated_days" validate:"min=0"`
		AllowsPickup          bool     `json:"allows_pickup"`
		IsActive              bool     `json:"is_active"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	zone, err := s.store.GetShippingZone(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			s.respondError(w, http.StatusNotFound, "zone not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !canAccessTenant(r, zone.TenantID) {
		s.respondError(w, http.StatusNotFound, "zone not found")
		return
	}

	zone.Name = req.Name
	zone.BaseCost = req.BaseCost
	zone.CostPerKg = req.CostPerKg
	zone.FreeShippingThreshold = req.FreeShippingThreshold
	zone.EstimatedDays = req.EstimatedDays
	zone.AllowsPickup = req.AllowsPickup
	zone.IsActive = req.IsActive

	if err := s.store.UpdateShippingZone(ctx, zone); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, zone)
}

// HandleDeleteShippingZone deletes a shipping zone
func (s *RESTServer) HandleDeleteShippingZone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid zone id")
		return
	}

	zone, err := s.store.GetShippingZone(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			s.respondError(w, http.StatusNotFound, "zone not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !canAccessTenant(r, zone.TenantID) {
		s.respondError(w, http.StatusNotFound, "zone not found")
		return
	}

	if err := s.store.DeleteShippingZone(ctx, id); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ========== Order handlers ==========

// HandleListOrders lists a tenant's orders
func (s *RESTServer) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := adminTenantID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, total, err := s.store.ListOrders(ctx, tenantID, limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
	})
}

// HandleGetOrder gets an order
func (s *RESTServer) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			s.respondError(w, http.StatusNotFound, "order not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !canAccessTenant(r, order.TenantID) {
		s.respondError(w, http.StatusNotFound, "order not found")
		return
	}

	resp := map[string]interface{}{"order": order}
	if cfg, err := s.store.GetTenant(ctx, order.TenantID); err == nil {
		rules := pricing.RulesFromTenant(cfg)
		resp["displaySubtotal"] = pricing.Format(order.Subtotal, rules)
		resp["displayTotal"] = pricing.Format(order.Total, rules)
		resp["lines"] = orderLineViews(order.Items, rules)
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// orderLineViews renders per-line display prices from the persisted order
// blob. Line fields come back loosely typed from the JSON column, so unit
// prices go through FormatAny and anything unreadable renders empty.
func orderLineViews(items models.Variables, rules pricing.Rules) []map[string]interface{} {
	raw, _ := items["lines"].([]interface{})

	out := make([]map[string]interface{}, 0, len(raw))
	for _, l := range raw {
		line, ok := l.(map[string]interface{})
		if !ok {
			continue
		}
		view := make(map[string]interface{}, len(line)+1)
		for k, v := range line {
			view[k] = v
		}
		view["displayPrice"] = pricing.FormatAny(line["unitPrice"], rules)
		out = append(out, view)
	}
	return out
}

// HandleUpdateOrderStatus transitions an order's status
func (s *RESTServer) HandleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=PENDING PAID SHIPPED CANCELLED"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			s.respondError(w, http.StatusNotFound, "order not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !canAccessTenant(r, order.TenantID) {
		s.respondError(w, http.StatusNotFound, "order not found")
		return
	}

	if err := s.store.UpdateOrderStatus(ctx, id, models.OrderStatus(req.Status)); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	order.Status = models.OrderStatus(req.Status)
	s.respondJSON(w, http.StatusOK, order)
}

// ========== Quote request handlers ==========

// HandleListQuoteRequests lists a tenant's quote requests
func (s *RESTServer) HandleListQuoteRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := adminTenantID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	quotes, total, err := s.store.ListQuoteRequests(ctx, tenantID, limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"quoteRequests": quotes,
		"total":         total,
	})
}

// ========== Event handlers ==========

// HandleListEvents lists event logs
func (s *RESTServer) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filters := storage.EventLogFilters{}

	claims := requestClaims(r)
	if claims != nil && claims.TenantID != nil {
		filters.TenantID = claims.TenantID
	} else if tid := r.URL.Query().Get("tenant_id"); tid != "" {
		if id, err := uuid.Parse(tid); err == nil {
			filters.TenantID = &id
		}
	}

	if t := r.URL.Query().Get("type"); t != "" {
		eventType := models.EventType(t)
		filters.Type = &eventType
	}
	if l := r.URL.Query().Get("level"); l != "" {
		level := models.EventLevel(l)
		filters.Level = &level
	}
	if st := r.URL.Query().Get("start_time"); st != "" {
		if parsed, err := time.Parse(time.RFC3339, st); err == nil {
			filters.StartTime = &parsed
		}
	}
	if et := r.URL.Query().Get("end_time"); et != "" {
		if parsed, err := time.Parse(time.RFC3339, et); err == nil {
			filters.EndTime = &parsed
		}
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	events, total, err := s.store.ListEventLogs(ctx, filters, limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  total,
	})
}
