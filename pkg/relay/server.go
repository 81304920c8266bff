// WaGate - WhatsApp webhook relay gateway
// License: MIT
//
// Copyright (c) 2026 WaGate contributors

package relay

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/relaykit/wagate/pkg/logger"
)

// Server exposes the relay over HTTP.
type Server struct {
	httpServer *http.Server
}

// NewServer mounts the webhook route and a health check on a chi router.
func NewServer(addr, webhookPath string, rl *Relay) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(recoverer)

	r.Post(webhookPath, rl.HandleWebhook)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: r,
		},
	}
}

// recoverer maps panics escaping a handler to the generic 500 body. The
// webhook handler has its own recover; this covers everything else mounted
// on the router.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorCF("server", "Panic in HTTP handler", map[string]interface{}{
					"path":  r.URL.Path,
					"panic": rec,
				})
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Handler returns the underlying router, for hosting adapters that bring
// their own listener (e.g. Lambda).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start launches the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	logger.InfoCF("server", "Webhook server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	logger.InfoC("server", "Stopping webhook server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
