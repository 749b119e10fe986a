// Package health exposes liveness and readiness endpoints for the daemon.
//
// /healthz answers 200 as long as the process is serving HTTP. /readyz
// answers 200 once every transport has started, and reports the selected
// backends (classifier, volume, brightness) so an operator can see what the
// daemon will actually drive on this host.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Server is a lightweight HTTP server that exposes /healthz and /readyz.
type Server struct {
	port  int
	ready atomic.Bool

	mu      sync.RWMutex
	details map[string]string
}

// New creates a new health check server.
func New(port int) *Server {
	return &Server{port: port, details: map[string]string{}}
}

// SetReady marks the daemon as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// SetDetail records a key/value reported by /readyz (e.g. "volume": "amixer").
func (s *Server) SetDetail(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details[key] = value
}

type status struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}

// Handler returns the health routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, status{Status: "ok"})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		details := maps.Clone(s.details)
		s.mu.RUnlock()

		if !s.ready.Load() {
			writeStatus(w, http.StatusServiceUnavailable, status{Status: "not_ready", Details: details})
			return
		}
		writeStatus(w, http.StatusOK, status{Status: "ok", Details: details})
	})
	return mux
}

// ListenAndServe starts the health check HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(s.port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

func writeStatus(w http.ResponseWriter, code int, st status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(st)
}
