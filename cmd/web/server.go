package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/myrjola/fraudintake/internal/errors"
)

// defaultTimeout leaves room for the inline evidence download while staying below Twilio's webhook timeout.
const defaultTimeout = 15 * time.Second

// Evidence downloads of one message share mediaBudget so the webhook replies well before the handler timeout. A
// single download gets mediaFetchTimeout.
const (
	mediaBudget       = defaultTimeout / 2
	mediaFetchTimeout = mediaBudget / 2
)

// configureAndStartServer serves the application on addr until ctx is done.
func (app *application) configureAndStartServer(ctx context.Context, addr string) error {
	var err error
	shutdownComplete := make(chan struct{})
	idleTimeout := time.Minute
	srv := &http.Server{
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
		Handler:           app.routes(),
		IdleTimeout:       idleTimeout,
		ReadTimeout:       defaultTimeout,
		WriteTimeout:      defaultTimeout,
		ReadHeaderTimeout: time.Second,
	}
	go func() {
		<-ctx.Done()
		app.logger.LogAttrs(context.Background(), slog.LevelInfo, "shutting down server")

		shutdownContext, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownContext); shutdownErr != nil {
			shutdownErr = errors.Wrap(shutdownErr, "shutdown server")
			app.logger.LogAttrs(context.Background(), slog.LevelError, "error shutting down server",
				errors.SlogError(shutdownErr))
		}
		close(shutdownComplete)
	}()

	var listener net.Listener
	if listener, err = net.Listen("tcp", addr); err != nil {
		return errors.Wrap(err, "TCP listen")
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.String("addr", listener.Addr().String()))
	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server serve")
	}
	<-shutdownComplete

	return nil
}
