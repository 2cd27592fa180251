package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/shopgrid/storefront-server/internal/auth"
	"github.com/shopgrid/storefront-server/internal/cart"
	"github.com/shopgrid/storefront-server/internal/config"
	"github.com/shopgrid/storefront-server/internal/server"
	"github.com/shopgrid/storefront-server/internal/storage"
	"github.com/shopgrid/storefront-server/internal/tenant"
	"github.com/shopgrid/storefront-server/internal/validation"
)

type contextKey string

const (
	ctxKeyClaims  contextKey = "claims"
	ctxKeyTenant  contextKey = "tenant"
	ctxKeyCartKey contextKey = "cartKey"
)

// CartKeyHeader carries the browser's cart key. A response sets it when the
// server mints a fresh key for a first visit.
const CartKeyHeader = "X-Cart-Key"

// RESTServer represents the REST API server
type RESTServer struct {
	config    *config.Config
	store     storage.Store
	auth      *auth.JWTManager
	validator *validation.Validator
	resolver  *tenant.Resolver
	tenants   *tenant.Cache
	carts     cart.PersistencePort
	events    *server.Publisher
	router    chi.Router
	server    *http.Server
}

// NewRESTServer creates a new REST API server
func NewRESTServer(cfg *config.Config, store storage.Store, tenants *tenant.Cache, carts cart.PersistencePort, events *server.Publisher) *RESTServer {
	s := &RESTServer{
		config:    cfg,
		store:     store,
		auth:      auth.NewJWTManager(&cfg.JWT),
		validator: validation.NewValidator(),
		resolver:  tenant.NewResolver(cfg.Tenant.PlatformDomains, cfg.Tenant.ReservedLabels),
		tenants:   tenants,
		carts:     carts,
		events:    events,
		router:    chi.NewRouter(),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all routes
func (s *RESTServer) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", CartKeyHeader},
		ExposedHeaders:   []string{"Link", CartKeyHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		s.setupAPIRoutes(r)
	})
}

// ListenAndServe starts the server
func (s *RESTServer) ListenAndServe(addr string) error {
	s.server.Addr = addr

	log.Info().Str("addr", addr).Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *RESTServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the route tree for embedding and tests
func (s *RESTServer) Handler() http.Handler {
	return s.router
}

// authMiddleware is the authentication middleware
func (s *RESTServer) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.authenticate(r)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, err.Error())
			return
		}

		// Add claims to context
		ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate validates the Bearer token on a request
func (s *RESTServer) authenticate(r *http.Request) (*auth.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errors.New("invalid authorization header")
	}

	claims, err := s.auth.ValidateToken(parts[1])
	if err != nil {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// tenantMiddleware resolves the storefront tenant from the Host header.
// An unresolvable host or unknown store answers 404, never a 5xx; the
// lookup failure mode is indistinguishable from a store that does not
// exist.
func (s *RESTServer) tenantMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.resolver.Resolve(r.Host)
		if !ok {
			s.respondError(w, http.StatusNotFound, "store not found")
			return
		}

		cfg := s.tenants.Get(r.Context(), id)
		if cfg == nil || !cfg.IsUsable() {
			s.respondError(w, http.StatusNotFound, "store not found")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyTenant, cfg)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestClaims returns the authenticated claims from the request context
func requestClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(ctxKeyClaims).(*auth.Claims)
	return claims
}
