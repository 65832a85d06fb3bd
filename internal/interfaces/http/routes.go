package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes registers every endpoint against the router built in NewServer.
// reg backs the /metrics handler directly so promhttp serves exactly the
// collectors this process registered, rather than the global default
// registry.
func (s *Server) routes(reg *prometheus.Registry) {
	s.router.HandleFunc("/v1/signal", s.handleSignal).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/ticks", s.handleTicks).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/killswitch/activate", s.handleKillSwitchActivate).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/killswitch/deactivate", s.handleKillSwitchDeactivate).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/audit", s.handleAudit).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/audit/stream", s.handleAuditStream).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/ofi", s.handleFastOFI).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/validate", s.handleValidate).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/positions", s.handleUpdatePosition).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/positions", s.handleGetPositions).Methods(http.MethodGet)

	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
}
