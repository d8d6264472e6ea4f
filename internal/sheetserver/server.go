// Package sheetserver exposes sheet computation over HTTP: recompute on
// demand, read the freshly computed sheet, and a health probe.
package sheetserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/udisondev/charsheet/internal/config"
	"github.com/udisondev/charsheet/internal/model"
)

const shutdownTimeout = 5 * time.Second

// SheetService is what the HTTP layer needs from the sheet service.
type SheetService interface {
	Recompute(ctx context.Context, charID int64) (model.ComputedSheet, error)
	RecomputeAndStore(ctx context.Context, charID int64) (model.ComputedSheet, error)
}

// Server serves the sheet API.
type Server struct {
	cfg config.Server
	svc SheetService
}

// NewServer creates a sheet server.
func NewServer(cfg config.Server, svc SheetService) *Server {
	return &Server{cfg: cfg, svc: svc}
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("sheet server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	slog.Info("sheet server stopped")
	return nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/characters/{id}", s.handleSheet)
	mux.HandleFunc("POST /api/characters/{id}/recompute", s.handleRecompute)
	return mux
}
