// Package picking implements the two-phase "plane from selected points" interaction.
package picking

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/workplane/internal/logging"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/geometry"
	"github.com/aretw0/workplane/pkg/pencil"
)

// Result is the outcome of a Toggle. Capture is nil unless a selection was read with points.
type Result struct {
	Phase   domain.PickPhase
	Capture *geometry.Selection
}

// Workflow moves SessionState.Picking between idle and awaiting_selection.
type Workflow struct {
	pencil *pencil.Tracker
	logger *slog.Logger
}

// Option configures the Workflow.
type Option func(*Workflow)

// WithLogger configures a logger for the Workflow.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// NewWorkflow creates a Workflow driving the given tracker.
func NewWorkflow(tracker *pencil.Tracker, opts ...Option) *Workflow {
	w := &Workflow{
		pencil: tracker,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Toggle advances the workflow. From idle it focuses the active drawable and enters stroke
// editing so points can be selected. From awaiting_selection it reads the selected points of
// the active frame and returns to idle with the resulting capture.
func (w *Workflow) Toggle(ctx context.Context, st *domain.SessionState) (Result, error) {
	if _, err := w.pencil.SaveActive(ctx, st); err != nil {
		return Result{}, err
	}
	if _, _, err := w.pencil.EnsureActive(ctx, st); err != nil {
		return Result{}, err
	}

	if st.Picking != domain.PickAwaitingSelection {
		if err := w.pencil.Edit(ctx); err != nil {
			return Result{}, err
		}
		st.Picking = domain.PickAwaitingSelection
		return Result{Phase: st.Picking}, nil
	}

	data, err := w.pencil.ActiveData(ctx)
	if err != nil {
		return Result{}, err
	}
	points := data.SelectedPoints()
	sel, err := geometry.FromSelection(points)
	if errors.Is(err, domain.ErrEmptySelection) {
		w.logger.Info("No points selected, leaving workplane as is")
		st.Picking = domain.PickIdle
		return Result{Phase: st.Picking}, nil
	}
	if err != nil {
		return Result{}, err
	}

	st.Picking = domain.PickIdle
	return Result{Phase: st.Picking, Capture: &sel}, nil
}

// Reset abandons a pending selection.
func (w *Workflow) Reset(st *domain.SessionState) {
	st.Picking = domain.PickIdle
}
