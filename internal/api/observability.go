package api

import (
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality (no per-cell labels)
var (
	// Solver metrics
	stepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lbm_step_duration_seconds",
		Help:    "Time spent in one collide-stream-boundary step",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	stepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lbm_steps_total",
		Help: "Total solver steps executed",
	})

	stepErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lbm_step_errors_total",
		Help: "Steps that surfaced a numerical error",
	})

	totalMass = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lbm_total_mass",
		Help: "Sum of density over fluid, inlet and outlet cells",
	})

	maxSpeed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lbm_max_speed",
		Help: "Largest cell speed in the latest snapshot, lattice units",
	})

	// Frame rendering
	framesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frame_render_total",
		Help: "PNG frames rendered for API clients",
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "Total WebSocket messages sent",
	})
)

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	Enabled    bool
	ListenAddr string // MUST be "127.0.0.1:6060" in production
}

// DefaultObservabilityConfig returns safe defaults
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060", // Localhost only - NEVER expose externally
	}
}

// StartDebugServer starts the internal observability server.
// CRITICAL: This MUST bind to localhost only to prevent pprof-based DoS.
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("debug server disabled")
		return nil
	}

	cfg.ListenAddr = debugListenAddr(cfg.ListenAddr)

	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	go func() {
		log.Printf("debug server starting on %s", cfg.ListenAddr)
		log.Printf("   - pprof:   http://%s/debug/pprof/", cfg.ListenAddr)
		log.Printf("   - metrics: http://%s/metrics", cfg.ListenAddr)

		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			log.Printf("debug server error: %v", err)
		}
	}()

	return nil
}

// debugListenAddr validates the debug listen address. Any loopback host is
// accepted on any port; everything else is forced back to the default
// unless ALLOW_DEBUG_EXTERNAL=true.
func debugListenAddr(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err == nil && isLoopbackHost(host) {
		return addr
	}
	if os.Getenv("ALLOW_DEBUG_EXTERNAL") == "true" {
		return addr
	}
	log.Println("debug server forced to localhost for security")
	return "127.0.0.1:6060"
}

func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// RecordStep records one solver step for metrics
func RecordStep(duration time.Duration, err error) {
	stepDuration.Observe(duration.Seconds())
	stepsTotal.Inc()
	if err != nil {
		stepErrors.Inc()
	}
}

// UpdateFieldStats refreshes the solver gauges from the latest snapshot
func UpdateFieldStats(mass, speed float64) {
	totalMass.Set(mass)
	maxSpeed.Set(speed)
}

// RecordFrame increments the frame render counter
func RecordFrame() {
	framesTotal.Inc()
}

// RecordConnectionRejected increments the rejection counter.
// reason must be one of: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments WebSocket message counter
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
