package common

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const readyTimeout = 2 * time.Second

// NewHealthCheckHandler serves liveness, readiness and prometheus metrics.
// rdb may be nil when no redis is configured.
func NewHealthCheckHandler(db *gorm.DB, rdb redis.UniversalClient) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		sqlDB, err := db.DB()
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		if err := sqlDB.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		if rdb != nil {
			if _, err := rdb.Ping(ctx).Result(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// StartHealthCheckServer serves handler on addr until ctx is done, then
// closes done.
func StartHealthCheckServer(ctx context.Context, done chan struct{}, addr string, handler http.Handler) {
	defer close(done)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readyTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), readyTimeout)
		defer cancel()
		server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Health check server stopped", "addr", addr, "error", err)
		}
	}
}
