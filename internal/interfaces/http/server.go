// Package http exposes Titan Guardian's two external surfaces over HTTP:
// the stateful Guardian engine (ticks, signals, kill switch, audit log)
// and the stateless fast-OFI/validate-intent surface backed only by the
// portfolio store.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/sawpanic/titanguardian/internal/config"
	"github.com/sawpanic/titanguardian/internal/domain/guardian"
	"github.com/sawpanic/titanguardian/internal/domain/portfolio"
	"github.com/sawpanic/titanguardian/internal/infrastructure/breaker"
	"github.com/sawpanic/titanguardian/internal/metrics"
)

// Server is the read/write HTTP surface in front of a shared Guardian.
// The Guardian is single-owner by contract; Server is the one place in
// this repo that must serialize concurrent calls into it.
type Server struct {
	mu        sync.Mutex
	guardian  *guardian.Guardian
	portfolio portfolio.Store
	riskCfg   config.RiskConfig

	router     *mux.Router
	server     *http.Server
	logger     zerolog.Logger
	reg        *metrics.Registry
	limiter    *rate.Limiter
	upgrader   websocket.Upgrader
	tail       *auditTailer
	neuralGate *breaker.NeuralGate
}

// Config bundles the pieces Server needs beyond the engine itself.
type Config struct {
	Addr            string
	TickIngestRPS   float64
	TickIngestBurst int
}

// NewServer wires a router around g, backed by store for the stateless
// surface, and registers its own Prometheus collectors against reg.
func NewServer(g *guardian.Guardian, store portfolio.Store, riskCfg config.RiskConfig, cfg Config, logger zerolog.Logger, reg *prometheus.Registry) *Server {
	s := &Server{
		guardian:   g,
		portfolio:  store,
		riskCfg:    riskCfg,
		router:     mux.NewRouter(),
		logger:     logger,
		reg:        metrics.NewRegistry(reg),
		limiter:    rate.NewLimiter(rate.Limit(cfg.TickIngestRPS), cfg.TickIngestBurst),
		tail:       newAuditTailer(),
		upgrader:   websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024, CheckOrigin: func(*http.Request) bool { return true }},
		neuralGate: breaker.NewNeuralGate("neural-policy"),
	}
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	s.routes(reg)
	return s
}

// ListenAndServe starts the HTTP server and blocks until ctx is
// cancelled, at which point it shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("titan guardian http surface listening")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
