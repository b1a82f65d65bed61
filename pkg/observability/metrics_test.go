package observability_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/workplane"
	"github.com/aretw0/workplane/internal/logging"
	"github.com/aretw0/workplane/pkg/adapters/memory"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/geometry"
	"github.com/aretw0/workplane/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, observability.OutcomeOK, observability.Outcome(nil))
	assert.Equal(t, observability.OutcomeCondition, observability.Outcome(fmt.Errorf("wrapped: %w", domain.ErrNoStrokes)))
	assert.Equal(t, observability.OutcomeError, observability.Outcome(fmt.Errorf("disk full")))
}

func TestMetrics_RecordControllerEvents(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	ctrl, err := workplane.New(memory.NewScene(), workplane.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)

	require.NoError(t, ctrl.Init(ctx))
	require.NoError(t, ctrl.Init(ctx))
	assert.ErrorIs(t, ctrl.PlaneFromStroke(ctx, geometry.Vertical), domain.ErrNoStrokes)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Commands.WithLabelValues(workplane.CmdInit, observability.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Commands.WithLabelValues(workplane.CmdPlaneVertical, observability.OutcomeCondition)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.PlanesCreated.WithLabelValues(string(geometry.Base))))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ModeChanges.WithLabelValues(string(domain.ModeDraw))), "replacing the plane leaves draw mode")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StateChanges), "the second init changes nothing but UpdatedAt")
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.Duration))

	expected := `
# HELP workplane_planes_created_total Total number of workplanes placed, by orientation
# TYPE workplane_planes_created_total counter
workplane_planes_created_total{orientation="base"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "workplane_planes_created_total"))
}

func TestNewMetrics_NilRegisterer(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.Hooks().OnStateChange(context.Background(), &domain.SessionDiff{})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StateChanges))
}

func TestCombineAndLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug)
	metrics := observability.NewMetrics(nil)
	calls := 0
	hooks := observability.Combine(
		metrics.Hooks(),
		observability.LogHooks(logger),
		domain.LifecycleHooks{OnCommand: func(context.Context, *domain.CommandEvent) { calls++ }},
	)

	ctx := context.Background()
	hooks.OnCommand(ctx, &domain.CommandEvent{Command: "init", Err: domain.ErrNoStrokes})
	hooks.OnModeChange(ctx, &domain.ModeEvent{From: domain.ModeObject, To: domain.ModeDraw})
	hooks.OnPlaneCreated(ctx, &domain.PlaneEvent{Orientation: "tilted"})
	hooks.OnStateChange(ctx, &domain.SessionDiff{DocumentID: "doc"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Commands.WithLabelValues("init", observability.OutcomeCondition)))
	out := buf.String()
	assert.Contains(t, out, "command=init")
	assert.Contains(t, out, "err=")
	assert.Contains(t, out, "to=PAINT_STROKE")
	assert.Contains(t, out, "orientation=tilted")
}
