package server

import (
	"context"
	"net/http"
	"time"

	"github.com/driveline/rental-be/internal/auth"
	"github.com/driveline/rental-be/internal/config"
	"github.com/driveline/rental-be/internal/http/handlers"
	"github.com/driveline/rental-be/internal/logging"
	"github.com/driveline/rental-be/internal/middleware"
	"github.com/driveline/rental-be/internal/storage"
)

// protectedPrefixes and publicPrefixes configure the access gate. The lists
// are fixed at deployment; the allow-list always wins.
var (
	protectedPrefixes = []string{"/api"}
	publicPrefixes    = []string{"/api/auth", "/api/catalog", "/api/health"}
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// Handler assembles the full middleware and route stack.
func Handler(cfg config.Config, store storage.Store, mediaSvc handlers.MediaService, log logging.Logger) http.Handler {
	mux := http.NewServeMux()

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, tokenManager, cfg, log).Register(mux)
	handlers.NewCatalogHandler(store, mediaSvc, log).Register(mux)
	handlers.NewRentalsHandler(store, log).Register(mux)
	handlers.NewAdminHandler(store, mediaSvc, log).Register(mux)

	gate := middleware.NewGate(tokenManager, cfg.CookieName, protectedPrefixes, publicPrefixes)

	return middleware.CORS(cfg.CORSOrigins,
		middleware.Logging(log,
			middleware.Recover(log,
				gate.Wrap(mux))))
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, mediaSvc handlers.MediaService, log logging.Logger) *Server {
	handler := Handler(cfg, store, mediaSvc, log)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
