package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopgrid/storefront-server/internal/models"
	"github.com/shopgrid/storefront-server/internal/storage"
)

// adminTenantID returns the tenant scope for an admin request. Tenant
// operators are pinned to their own tenant; platform admins pass it as a
// query parameter.
func adminTenantID(r *http.Request) (uuid.UUID, error) {
	claims := requestClaims(r)
	if claims == nil {
		return uuid.Nil, errors.New("missing claims")
	}

	if claims.TenantID != nil {
		return *claims.TenantID, nil
	}

	if !claims.IsAdmin {
		return uuid.Nil, errors.New("no tenant scope")
	}

	id, err := uuid.Parse(r.URL.Query().Get("tenant_id"))
	if err != nil {
		return uuid.Nil, errors.New("tenant_id query parameter required")
	}
	return id, nil
}

// canAccessTenant reports whether the request may act on a tenant's data
func canAccessTenant(r *http.Request, tenantID uuid.UUID) bool {
	claims := requestClaims(r)
	if claims == nil {
		return false
	}
	if claims.TenantID != nil {
		return *claims.TenantID == tenantID
	}
	return claims.IsAdmin
}

// ========== Product handlers ==========

// HandleListProducts lists products
func (s *RESTServer) HandleListProducts(w http.ResponseWriter, r *http.Request) {
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

	products, total, err := s.store.ListProducts(ctx, tenantID, limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
	})
}

// HandleCreateProduct creates a product
func (s *RESTServer) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name" validate:"required,min=2,max=200"`
		Description string  `json:"description"`
		ImageURL    string  `json:"image_url"`
		IsQuoteOnly bool    `json:"is_quote_only"`
		MinLeadDays int     `json:"min_lead_days" validate:"min=0"`
		WeightKg    float64 `json:"weight_kg" validate:"min=0"`
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

	product := &models.Product{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsQuoteOnly: req.IsQuoteOnly,
		MinLeadDays: req.MinLeadDays,
		WeightKg:    req.WeightKg,
		IsActive:    true,
	}

	if err := s.store.CreateProduct(r.Context(), product); err != nil {
		if err == storage.ErrDuplicateKey {
			s.respondError(w, http.StatusConflict, "product already exists")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, product)
}

// HandleGetProduct gets a product
func (s *RESTServer) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			s.respondError(w, http.StatusNotFound, "product not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !canAccessTenant(r, product.TenantID) {
		s.respondError(w, http.StatusNotFound, "product not found")
		return
	}

	s.respondJSON(w, http.StatusOK, product)
}

// HandleUpdateProduct updates a product
func (s *RESTServer) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req struct {
		Name        string  `json:"name" validate:"required,min=2,max=200"`
		Description string  `json:"description"`
		ImageURL    string  `json:"image_url"`
		IsQuoteOnly bool    `json:"is_quote_only"`
		MinLeadDays int     `json:"min_lead_days" validate:"min=0"`
		WeightKg    float64 `json:"weight_kg" validate:"min=0"`
		IsActive    bool    `json:"is_active"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			s.respondError(w, http.StatusNotFound, "product not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !canAccessTenant(r, product.TenantID) {
		s.respondError(w, http.StatusNotFound, "product not found")
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.ImageURL = req.ImageURL
	product.IsQuoteOnly = req.IsQuoteOnly
	product.MinLeadDays = req.MinLeadDays
	product.WeightKg = req.WeightKg
	product.IsActive = req.IsActive

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, product)
}

// HandleDeleteProduct deletes a product
func (s *RESTServer) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			s.respondError(w, http.StatusNotFound, "product not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !canAccessTenant(r, product.TenantID) {
		s.respondError(w, http.StatusNotFound, "product not found")
		return
	}

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ========== Variant handlers ==========

// HandleCreateVariant creates a variant under a product
func (s *RESTServer) HandleCreateVariant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req struct {
		Name      string  `json:"name" validate:"required,min=1,max=200"`
		SKU       string  `json:"sku"`
		UnitPrice float64 `json:"unit_price" validate:"min=0"`
		Stock     int     `json:"stock" validate:"min=0"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil || !canAccessTenant(r, product.TenantID) {
		s.respondError(w, http.StatusNotFound, "product not found")
		return
	}

	variant := &models.ProductVariant{
		ProductID: productID,
		Name:      req.Name,
		SKU:       req.SKU,
		UnitPrice: req.UnitPrice,
		Stock:     req.Stock,
		IsActive:  true,
	}

	if err := s.store.CreateVariant(ctx, variant); err != nil {
		if err == storage.ErrDuplicateKey {
			s.respondError(w, http.StatusConflict, "variant already exists")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, variant)
}

// HandleUpdateVariant updates a variant
func (s *RESTServer) HandleUpdateVariant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	var req struct {
		Name      string  `json:"name" validate:"required,min=1,max=200"`
		SKU       string  `json:"sku"`
		UnitPrice float64 `json:"unit_price" validate:"min=0"`
		Stock     int     `json:"stock" validate:"min=0"`
		IsActive  bool    `json:"is_active"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	variant, err := s.store.GetVariant(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			s.respondError(w, http.StatusNotFound, "variant not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	product, err := s.store.GetProduct(ctx, variant.ProductID)
	if err != nil || !canAccessTenant(r, product.TenantID) {
		s.respondError(w, http.StatusNotFound, "variant not found")
		return
	}

	variant.Name = req.Name
	variant.SKU = req.SKU
	variant.UnitPrice = req.UnitPrice
	variant.Stock = req.Stock
	variant.IsActive = req.IsActive

	if err := s.store.UpdateVariant(ctx, variant); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, variant)
}

// HandleDeleteVariant deletes a variant
func (s *RESTServer) HandleDeleteVariant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	variant, err := s.store.GetVariant(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			s.respondError(w, http.StatusNotFound, "variant not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	product, err := s.store.GetProduct(ctx, variant.ProductID)
	if err != nil || !canAccessTenant(r, product.TenantID) {
		s.respondError(w, http.StatusNotFound, "variant not found")
		return
	}

	if err := s.store.DeleteVariant(ctx, id); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
