// Package health exposes the liveness HTTP endpoint required by
// hosting platforms. It serves no other traffic.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"cafebot/core/buildinfo"
	"cafebot/core/logger"
	"log/slog"
)

// Server wraps the liveness HTTP listener.
type Server struct {
	srv *http.Server
}

// New builds a health server listening on addr.
func New(addr string) *Server {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"version": buildinfo.Version,
			"commit":  buildinfo.Commit,
			"date":    buildinfo.Date,
		})
	})

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		logger.Info(context.Background(), "health", "listen",
			slog.String("listen", s.srv.Addr),
		)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(context.Background(), "health", "serve.fail",
				slog.String("err", err.Error()),
			)
		}
	}()
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
