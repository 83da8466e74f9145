// Package server wires config, state, engine, connection, and metrics into
// a runnable server process.
package server

import (
	"context"
	"log"
	"net/http"

	"golang.org/x/time/rate"

	"bomberman/internal/connection"
	"bomberman/internal/engine"
	"bomberman/internal/metrics"
	"bomberman/internal/netutil"
	"bomberman/internal/state"
)

// Config is everything needed to run a server process.
type Config struct {
	Game        state.Config
	MetricsAddr string // empty disables the metrics HTTP listener
	RateLimit   rate.Limit
	RateBurst   int
}

// Server owns the engine, connector, and (optional) metrics listener for
// one process lifetime.
type Server struct {
	cfg       Config
	state     *state.ServerState
	engine    *engine.Engine
	connector *connection.Connector
	metrics   *metrics.Metrics
}

// New wires up a Server without starting anything.
func New(cfg Config) *Server {
	st := state.New(cfg.Game)
	m := metrics.New()

	conn := connection.New(st, nil, connection.Config{RateLimit: cfg.RateLimit, RateBurst: cfg.RateBurst})
	conn.Metrics = m

	eng := engine.New(st, conn)
	eng.Metrics = m
	conn.SetJoiner(eng)

	return &Server{cfg: cfg, state: st, engine: eng, connector: conn, metrics: m}
}

// Run starts the engine, the accept loop, and (if configured) the metrics
// HTTP listener, blocking until ctx is cancelled or the accept loop fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := netutil.ListenTCP(ctx, s.cfg.Game.Port)
	if err != nil {
		return err
	}
	log.Printf("🚀 listening on %s (%s)", ln.Addr(), s.cfg.Game.ServerName)

	if s.cfg.MetricsAddr != "" {
		go s.serveMetrics()
	}

	go s.engine.Run(ctx)

	return s.connector.Serve(ctx, ln)
}

func (s *Server) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	log.Printf("📊 metrics listening on %s", s.cfg.MetricsAddr)
	if err := http.ListenAndServe(s.cfg.MetricsAddr, mux); err != nil {
		log.Printf("❌ metrics listener stopped: %v", err)
	}
}
