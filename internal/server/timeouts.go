// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts and graceful shutdown.
//
//   • ReadTimeout   – abort slow-loris headers (10 s)
//   • WriteTimeout  – cap total response time (15 s)
//   • IdleTimeout   – close keep-alives on idle clients (60 s)
//
// Run serves until ctx is cancelled, then drains in-flight requests for up
// to ShutdownGrace.  It runs listener and shutdown watcher in one errgroup
// so cmd/web only has to check a single error.

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShutdownGrace bounds how long Run waits for in-flight requests.
const ShutdownGrace = 10 * time.Second

// New constructs an *http.Server with sensible defaults.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Run serves srv until ctx is done.  http.ErrServerClosed is not an error.
func Run(ctx context.Context, srv *http.Server, log *zap.SugaredLogger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down", "grace", ShutdownGrace)
		sctx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
