// Package metrics exposes Prometheus counters for subscription RPCs and the
// HTTP endpoint that serves them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"path"
	"time"

	"github.com/airvent/subscription/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

var shutdownTimeout = 5 * time.Second

type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New registers the service collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "airvent",
				Subsystem: "subscription",
				Name:      "operations_total",
				Help:      "Subscription RPCs handled, by method and result code.",
			},
			[]string{"operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "airvent",
				Subsystem: "subscription",
				Name:      "operation_duration_seconds",
				Help:      "Subscription RPC latency.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"operation"},
		),
	}
	m.registry.MustRegister(m.operations, m.duration)
	return m
}

func (m *Metrics) Observe(operation, result string, elapsed time.Duration) {
	m.operations.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// UnaryServerInterceptor counts every call by method name and status code.
func (m *Metrics) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.Observe(path.Base(info.FullMethod), status.Code(err).String(), time.Since(start))
		return resp, err
	}
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs the /metrics endpoint on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn(ctx, "metrics server shutdown", "error", err)
		}
	}()

	logger.Info(ctx, "Starting metrics server", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
