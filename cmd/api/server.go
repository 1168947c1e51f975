// cmd/api/server.go
// This file contains the serve() method which starts the HTTP server and
// drains it, then releases the store, once ctx is cancelled.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// shutdown begins.
const shutdownTimeout = 20 * time.Second

func (app *applicationDependencies) newServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.port),
		Handler:           app.routes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		ErrorLog:          zap.NewStdLog(app.logger.Named("http")),
	}
}

// serve listens until ctx is done, then shuts the server down and closes
// the store. The store is closed on every return path.
func (app *applicationDependencies) serve(ctx context.Context) error {
	srv := app.newServer()

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		app.logger.Info("shutting down server", zap.NamedError("cause", context.Cause(ctx)))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		app.releaseStore()
		stopped <- err
	}()

	app.logger.Info("starting server",
		zap.String("address", srv.Addr),
		zap.String("environment", app.config.environment),
		zap.String("version", appVersion))

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		app.releaseStore()
		return err
	}

	if err := <-stopped; err != nil {
		return err
	}
	app.logger.Info("server stopped", zap.String("address", srv.Addr))
	return nil
}

// releaseStore runs closeStore at most once.
func (app *applicationDependencies) releaseStore() {
	app.closeOnce.Do(func() {
		if app.closeStore != nil {
			app.closeStore()
			app.logger.Info("store closed")
		}
	})
}
