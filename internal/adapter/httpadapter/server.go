// Package httpadapter exposes Prometheus metrics and a liveness probe
// while a compilation pass is running.
package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is a minimal HTTP listener for /metrics and /healthz.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer builds the listener on addr.
func NewServer(addr string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start blocks serving until Shutdown or failure.
func (s *Server) Start() error {
	s.logger.Info("metrics listener started", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
