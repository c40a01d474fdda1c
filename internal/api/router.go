// Package api exposes the running solver over HTTP and WebSocket. Handlers
// only read published field snapshots, so they never contend with the step
// loop for anything but an atomic buffer index.
package api

import (
	"net/http"
	"sync"

	"latticeflow/internal/lbm"
	"latticeflow/internal/render"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the solver engine methods used by the API.
// This interface enables mocking for tests without spinning up the full
// step loop. Keep this minimal - only include methods the API layer
// actually calls.
type EngineInterface interface {
	// Snapshot returns the latest lock-free immutable field snapshot
	Snapshot() *lbm.FieldSnapshot
	// Pause suspends stepping; the snapshot stays available
	Pause()
	// Resume restarts stepping; fails if the solver already went unstable
	Resume() error
	// IsPaused reports whether stepping is suspended
	IsPaused() bool
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine: mockEngine,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the solver engine (required)
	Engine EngineInterface

	// FrameScale is the pixel size of one lattice cell in PNG frames.
	// Zero means the default of 4.
	FrameScale int

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses the default local development origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
type routerHandlers struct {
	engine EngineInterface

	// PNG rendering reuses one pixel buffer, so frame requests serialize.
	renderMu   sync.Mutex
	renderer   *render.FieldRenderer
	overlay    *render.Overlay
	frameScale int
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects:
//   - No goroutines are started
//   - No network listeners are opened
//
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	scale := cfg.FrameScale
	if scale <= 0 {
		scale = 4
	}
	h := &routerHandlers{
		engine:     cfg.Engine,
		frameScale: scale,
	}

	r.Route("/api", func(r chi.Router) {
		// Solver state
		r.Get("/state", h.handleGetState)
		r.Get("/fields/{field}", h.handleGetField)
		r.Get("/frame/{field}.png", h.handleGetFrame)
		r.Get("/cell", h.handleGetCell)

		// Run control
		r.Post("/pause", h.handlePause)
		r.Post("/resume", h.handleResume)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/state", http.StatusFound)
	})

	return r
}
