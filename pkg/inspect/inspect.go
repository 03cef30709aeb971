// Package inspect serves the debug surface of a running flow: a JSON
// statistics snapshot, a prometheus metrics endpoint and a WebSocket live
// feed of enqueued invocations. It observes propagation and never mutates
// reactive state.
package inspect

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cellflow-dev/cellflow/pkg/cellflow"
	"github.com/cellflow-dev/cellflow/pkg/log"
)

// Server is the inspector for one flow.
type Server struct {
	flow     *cellflow.Flow
	stats    func() cellflow.FlowStats
	feed     *Feed
	logger   log.Logger
	gatherer prometheus.Gatherer
	router   chi.Router
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the inspector's logger.
func WithLogger(l log.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithGatherer sets the prometheus gatherer backing /metrics.
// Default: prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) ServerOption {
	return func(s *Server) { s.gatherer = g }
}

// WithFeed attaches an existing live feed instead of a fresh one. Use
// this when the flow was constructed before the inspector, with the
// feed's Observer already installed.
func WithFeed(f *Feed) ServerOption {
	return func(s *Server) { s.feed = f }
}

// WithStats overrides how /snapshot gathers flow statistics. Flows are
// single-goroutine; when the flow is driven from a goroutine of its own,
// pass a function that routes the Stats call through that goroutine
// instead of letting HTTP handlers touch the flow directly.
func WithStats(fn func() cellflow.FlowStats) ServerOption {
	return func(s *Server) { s.stats = fn }
}

// NewServer creates an inspector for flow.
func NewServer(flow *cellflow.Flow, opts ...ServerOption) *Server {
	s := &Server{
		flow:     flow,
		logger:   log.DefaultLogger,
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.feed == nil {
		s.feed = NewFeed()
	}
	if s.stats == nil {
		s.stats = flow.Stats
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/feed", s.feed.HandleWebSocket)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	s.router = r

	return s
}

// Feed returns the live feed, for installing its Observer on the flow.
func (s *Server) Feed() *Feed { return s.feed }

// Handler returns the inspector's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves the inspector on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Infof("inspector listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// snapshot is the JSON document served by /snapshot.
type snapshot struct {
	Flow    cellflow.FlowStats `json:"flow"`
	Clients int                `json:"feed_clients"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(snapshot{
		Flow:    s.stats(),
		Clients: s.feed.ClientCount(),
	})
	if err != nil {
		s.logger.Errorf("snapshot encode failed: %v", err)
	}
}
