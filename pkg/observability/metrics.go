package observability

import (
	"context"
	"errors"

	"github.com/aretw0/workplane/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Command outcomes used as the "outcome" label.
const (
	OutcomeOK        = "ok"
	OutcomeCondition = "condition"
	OutcomeError     = "error"
)

// Metrics holds the controller's Prometheus collectors.
type Metrics struct {
	Commands      *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	PlanesCreated *prometheus.CounterVec
	ModeChanges   *prometheus.CounterVec
	StateChanges  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg. A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workplane_commands_total",
				Help: "Total number of commands run, by outcome",
			},
			[]string{"command", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "workplane_command_duration_seconds",
				Help:    "Duration of commands",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"command"},
		),
		PlanesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workplane_planes_created_total",
				Help: "Total number of workplanes placed, by orientation",
			},
			[]string{"orientation"},
		),
		ModeChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workplane_mode_changes_total",
				Help: "Total number of host mode switches, by target mode",
			},
			[]string{"to"},
		),
		StateChanges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "workplane_state_changes_total",
				Help: "Total number of commands that changed session state",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Commands, m.Duration, m.PlanesCreated, m.ModeChanges, m.StateChanges)
	}
	return m
}

// Hooks records every lifecycle event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			m.Commands.WithLabelValues(e.Command, Outcome(e.Err)).Inc()
			m.Duration.WithLabelValues(e.Command).Observe(e.Duration.Seconds())
		},
		OnPlaneCreated: func(ctx context.Context, e *domain.PlaneEvent) {
			m.PlanesCreated.WithLabelValues(e.Orientation).Inc()
		},
		OnModeChange: func(ctx context.Context, e *domain.ModeEvent) {
			m.ModeChanges.WithLabelValues(string(e.To)).Inc()
		},
		OnStateChange: func(ctx context.Context, d *domain.SessionDiff) {
			m.StateChanges.Inc()
		},
	}
}

// Outcome classifies a command error. Conditions describe the scene (nothing drawn yet,
// no workplane) rather than a failure.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case IsCondition(err):
		return OutcomeCondition
	}
	return OutcomeError
}

var conditions = []error{
	domain.ErrNoActiveObject,
	domain.ErrNameMismatch,
	domain.ErrNoStrokes,
	domain.ErrNoWorkplane,
	domain.ErrDegenerateGeometry,
	domain.ErrEmptySelection,
	domain.ErrInvalidAxis,
	domain.ErrInvalidGrid,
	domain.ErrObjectNotFound,
	domain.ErrNotDrawable,
}

// IsCondition reports errors that describe the scene or user input rather than a fault.
func IsCondition(err error) bool {
	for _, target := range conditions {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
