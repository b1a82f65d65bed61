package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Store operation results.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// StoreMetrics holds the collectors fed by NewMetricsMiddleware.
type StoreMetrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewStoreMetrics creates the store collectors and registers them with reg when it is not nil.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workplane_store_operations_total",
			Help: "Session store operations by operation and result.",
		}, []string{"operation", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workplane_store_operation_duration_seconds",
			Help:    "Latency of session store operations.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.Operations, m.Duration)
	}
	return m
}

type metricsMiddleware struct {
	next    ports.SessionStore
	metrics *StoreMetrics
}

// NewMetricsMiddleware records the count and latency of every store operation.
func NewMetricsMiddleware(metrics *StoreMetrics) Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		return &metricsMiddleware{next: next, metrics: metrics}
	}
}

func result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrSessionNotFound):
		return ResultNotFound
	default:
		return ResultError
	}
}

func (m *metricsMiddleware) observe(op string, start time.Time, err error) {
	m.metrics.Operations.WithLabelValues(op, result(err)).Inc()
	m.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *metricsMiddleware) Save(ctx context.Context, documentID string, state *domain.SessionState) error {
	start := time.Now()
	err := m.next.Save(ctx, documentID, state)
	m.observe("save", start, err)
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, documentID string) (*domain.SessionState, error) {
	start := time.Now()
	state, err := m.next.Load(ctx, documentID)
	m.observe("load", start, err)
	return state, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, documentID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, documentID)
	m.observe("delete", start, err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.observe("list", start, err)
	return ids, err
}
