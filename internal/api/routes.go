package api

import (
	"github.com/go-chi/chi/v5"
)

// setupAPIRoutes sets up API v1 routes
func (s *RESTServer) setupAPIRoutes(r chi.Router) {
	// Health check
	r.Get("/health", s.HandleHealth)
	r.Get("/", s.HandleRoot)

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.HandleLogin)
		r.Post("/refresh", s.HandleRefresh)
	})

	// Tenants. The unauthenticated GET doubles as the lookup interface
	// storefront resolvers consume; everything else needs a token.
	r.Route("/tenants", func(r chi.Router) {
		r.Get("/", s.HandleLookupTenant)
		r.With(s.authMiddleware).Post("/", s.HandleCreateTenant)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleGetTenant)
			r.Put("/", s.HandleUpdateTenant)
			r.Delete("/", s.HandleDeleteTenant)
		})
	})

	// Public storefront, tenant resolved from the Host header
	r.Route("/storefront", func(r chi.Router) {
		r.Use(s.tenantMiddleware)
		r.Get("/", s.HandleStorefront)
		r.Get("/products", s.HandleStorefrontProducts)
		r.Get("/products/{id}", s.HandleStorefrontProduct)
		r.Get("/shipping/estimate", s.HandleShippingEstimate)

		r.Group(func(r chi.Router) {
			r.Use(s.cartKeyMiddleware)
			r.Get("/cart", s.HandleGetCart)
			r.Post("/cart/items", s.HandleAddCartItem)
			r.Put("/cart/items/{variant_id}", s.HandleUpdateCartItem)
			r.Delete("/cart/items/{variant_id}", s.HandleRemoveCartItem)
			r.Post("/checkout", s.HandleCheckout)
		})
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		// Users
		r.Route("/users", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Post("/", s.HandleCreateUser)
			r.Get("/me", s.HandleGetCurrentUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetUser)
				r.Put("/", s.HandleUpdateUser)
				r.Delete("/", s.HandleDeleteUser)
			})
		})

		// Products
		r.Route("/products", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleListProducts)
			r.Post("/", s.HandleCreateProduct)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetProduct)
				r.Put("/", s.HandleUpdateProduct)
				r.Delete("/", s.HandleDeleteProduct)
				r.Post("/variants", s.HandleCreateVariant)
			})
		})

		// Variants
		r.Route("/variants", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", s.HandleUpdateVariant)
				r.Delete("/", s.HandleDeleteVariant)
			})
		})

		// Shipping zones
		r.Route("/shipping-zones", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleListShippingZones)
			r.Post("/", s.HandleCreateShippingZone)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetShippingZone)
				r.Put("/", s.HandleUpdateShippingZone)
				r.Delete("/", s.HandleDeleteShippingZone)
			})
		})

		// Orders
		r.Route("/orders", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleListOrders)
			r.Get("/{id}", s.HandleGetOrder)
			r.Put("/{id}/status", s.HandleUpdateOrderStatus)
		})

		// Quote requests
		r.Route("/quote-requests", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleListQuoteRequests)
		})

		// Events
		r.Route("/events", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.HandleListEvents)
		})
	})
}
