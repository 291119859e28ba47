// Package debugserver exposes an HTTP surface for operators to inspect
// a running engine: GC stats/phase as JSON, a Prometheus scrape
// endpoint, and a force-collection trigger. It is operator-facing, not
// part of the embedding API proper, and is always mounted behind
// whatever bind address the host configures — unauthenticated and
// meant for a private network, not the public internet.
package debugserver

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scriptrt/ccjs/internal/core"
	"github.com/scriptrt/ccjs/internal/telemetry"
	"github.com/scriptrt/ccjs/pkg/rtlog"
)

// StatsSource is the subset of pkg/ccjs.Runtime the debug server needs,
// kept as an interface so this package doesn't import pkg/ccjs (which
// would be a dependency cycle: pkg/ccjs is the outer embedding layer,
// debugserver is infrastructure it can optionally mount).
type StatsSource interface {
	Stats() core.Stats
	Phase() core.Phase
	GC()
}

// Server wraps an http.Server serving the debug routes.
type Server struct {
	http *http.Server
	log  *rtlog.Logger
}

// New builds a Server bound to addr, backed by src for stats/GC
// triggers, reg for the /metrics Prometheus endpoint, and sampler to
// refresh reg's gauges/counters from src immediately before every
// scrape — without this, /metrics would serve whatever snapshot was
// sampled once at startup for the rest of the process's life.
func New(addr string, src StatsSource, reg *prometheus.Registry, sampler *telemetry.Sampler, log *rtlog.Logger) *Server {
	if log == nil {
		log = rtlog.Default
	}

	r := mux.NewRouter()
	r.HandleFunc("/debug/stats", statsHandler(src)).Methods(http.MethodGet)
	r.HandleFunc("/debug/gc", gcHandler(src)).Methods(http.MethodPost)
	r.Handle("/metrics", metricsHandler(src, reg, sampler))

	r.Use(handlers.RecoveryHandler(handlers.PrintRecoveryStack(true)))
	handler := handlers.CustomLoggingHandler(io.Discard, r, func(_ io.Writer, params handlers.LogFormatterParams) {
		log.Debugf("%s %s (%d, %dms)",
			params.Request.Method, params.URL.RequestURI(), params.StatusCode,
			time.Since(params.TimeStamp).Milliseconds())
	})

	return &Server{
		http: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// ListenAndServe runs the server until Shutdown is called, returning nil
// (not http.ErrServerClosed) once the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.Infof("debug server listening at %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown() error {
	return s.http.Close()
}

// metricsHandler re-samples src into reg's collectors on every scrape
// (when sampler is non-nil) before delegating to the standard
// Prometheus handler, so /metrics always reflects current heap/GC
// state rather than a stale one-time snapshot.
func metricsHandler(src StatsSource, reg *prometheus.Registry, sampler *telemetry.Sampler) http.Handler {
	inner := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sampler != nil {
			sampler.Sample(src.Stats(), src.Phase())
		}
		inner.ServeHTTP(w, r)
	})
}

func statsHandler(src StatsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := src.Stats()
		phase := src.Phase()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			Phase string     `json:"phase"`
			Stats core.Stats `json:"stats"`
		}{Phase: phase.String(), Stats: stats})
	}
}

func gcHandler(src StatsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src.GC()
		w.WriteHeader(http.StatusNoContent)
	}
}
