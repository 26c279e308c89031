package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/target/clubdesk/config"
)

// NewHTTPServer creates the local UI server.
func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	// Guard against empty addr to avoid listening on every interface.
	addr := cfg.Addr
	if addr == "" {
		addr = "127.0.0.1:8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// ServeHTTP runs server until ctx is canceled, then shuts it down gracefully.
func ServeHTTP(ctx context.Context, server *http.Server, cfg config.HTTPConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
