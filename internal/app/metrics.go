package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// MetricsHandler serves /metrics from the default prometheus registry and a
// /health probe.
func MetricsHandler() http.Handler {
	var mux http.ServeMux
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &mux
}

// ServeMetrics runs the metrics server on addr until ctx is done.
func ServeMetrics(ctx context.Context, addr string) {
	s := &http.Server{Addr: addr, Handler: MetricsHandler()}

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Warn("shutting down the metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()

	logger.Info("starting metrics server", zap.String("addr", addr))
	err := s.ListenAndServe()
	switch {
	case err == nil, errors.Is(err, http.ErrServerClosed):
		logger.Info("stopping metrics server", zap.String("addr", addr))
	default:
		logger.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
	}
}
