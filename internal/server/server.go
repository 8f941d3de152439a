// Package server provides the HTTP server for the bot-connector API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/genesys-ai/botconnector/internal/catalog"
	"github.com/genesys-ai/botconnector/internal/config"
	"github.com/genesys-ai/botconnector/internal/exchange"
	"github.com/genesys-ai/botconnector/internal/logging"
)

// Config holds server configuration.
type Config struct {
	Port         int
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration. There is no write
// timeout: the turn blocks on the provider call and the hosting gateway
// owns the overall deadline.
func DefaultConfig() *Config {
	return &Config{
		Port:        3000,
		EnableCORS:  true,
		ReadTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server.
type Server struct {
	config    *Config
	router    *chi.Mux
	httpSrv   *http.Server
	appConfig *config.Config
	exchange  *exchange.Service
	catalog   *catalog.Catalog
}

// New creates a new Server instance.
func New(cfg *Config, appConfig *config.Config, svc *exchange.Service, cat *catalog.Catalog) *Server {
	s := &Server{
		config:    cfg,
		router:    chi.NewRouter(),
		appConfig: appConfig,
		exchange:  svc,
		catalog:   cat,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "GENESYS_CONNECTION_SECRET", "OPENAI_API_KEY", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
}

// requestLogger logs each request through the structured logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logging.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("requestId", middleware.GetReqID(r.Context())).
			Msg("request handled")
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
