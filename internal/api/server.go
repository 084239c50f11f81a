// Package api provides the HTTP API server and handlers for the prompt library.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nihilcoder/promptlab/internal/auth"
	"github.com/nihilcoder/promptlab/internal/logger"
	"github.com/nihilcoder/promptlab/internal/ratelimit"
	"github.com/nihilcoder/promptlab/internal/store"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Options carries the dependencies of the HTTP server.
type Options struct {
	Store    store.Store
	Services *Services
	Verifier *auth.TokenVerifier
	// Limiter throttles mutating requests. Nil disables rate limiting.
	Limiter        *ratelimit.KeyedRateLimiter
	AllowedOrigins []string
	Logger         *logger.Logger
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *logger.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	router := chi.NewRouter()

	// Middleware must be attached before any route is registered.
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))
	router.Use(authMiddleware(opts.Verifier))
	router.Use(requestLogger(log))
	router.Use(rateLimitMiddleware(opts.Limiter, log))

	humaConfig := huma.DefaultConfig("Prompt Library API", Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler(log.Logger)

	s := &Server{
		store:    opts.Store,
		services: opts.Services,
		router:   router,
		api:      api,
		logger:   log,
	}

	s.registerHealthRoutes()
	s.registerPromptRoutes()
	s.registerTagRoutes()
	s.registerCollectionRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}
