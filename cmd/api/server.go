package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// newServer sizes the write timeout so a request can spend the whole trigram
// statement budget and still run the substring fallback.
func (app *application) newServer(handlers *Handlers) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.port),
		Handler:      app.routes(handlers),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: app.config.trigramTimeout + 15*time.Second,
		IdleTimeout:  time.Minute,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}
}

func (app *application) serve(handlers *Handlers) error {
	srv := app.newServer(handlers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env,
			"fuzzy_search", app.config.fuzzySearch, "cache", app.config.cache.backend)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		// ListenAndServe only returns early on a bind or listener failure.
		return err
	case <-ctx.Done():
	}

	app.logger.Info("shutting down server", "addr", srv.Addr, "timeout", app.config.shutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if app.rateLimiter != nil {
		app.rateLimiter.Stop()
	}

	app.logger.Info("stopped server", "addr", srv.Addr)
	return nil
}
