package picking_test

import (
	"context"
	"testing"

	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/dsl"
	"github.com/aretw0/workplane/pkg/geometry"
	"github.com/aretw0/workplane/pkg/pencil"
	"github.com/aretw0/workplane/pkg/picking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_TwoPhases(t *testing.T) {
	ctx := context.Background()
	scene, err := dsl.New().
		Drawable("Drawing 1").
		Stroke(dsl.Pt(9, 9, 9), dsl.Sel(0, 0, 0)).
		Stroke(dsl.Sel(1, 0, 1)).
		Done().
		Build()
	require.NoError(t, err)

	wf := picking.NewWorkflow(pencil.NewTracker(scene))
	st := domain.NewSessionState("doc")

	res, err := wf.Toggle(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, domain.PickAwaitingSelection, res.Phase)
	assert.Nil(t, res.Capture)
	mode, _ := scene.Mode(ctx)
	assert.Equal(t, domain.ModeEditStroke, mode)

	res, err = wf.Toggle(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, domain.PickIdle, res.Phase)
	assert.Equal(t, domain.PickIdle, st.Picking)
	require.NotNil(t, res.Capture)
	assert.Equal(t, geometry.Tilted, res.Capture.Orientation)
	assert.Equal(t, domain.Point{1, 0, 1}, res.Capture.P1, "most recent selection comes first")
	assert.Equal(t, domain.Point{0, 0, 0}, res.Capture.P2)
	assert.Equal(t, 2, res.Capture.Count)
}

func TestToggle_NoSelectionIsNoop(t *testing.T) {
	ctx := context.Background()
	scene, err := dsl.New().Drawable("Drawing 1").Stroke(dsl.Pt(0, 0, 0)).Done().Build()
	require.NoError(t, err)

	wf := picking.NewWorkflow(pencil.NewTracker(scene))
	st := domain.NewSessionState("doc")
	st.Picking = domain.PickAwaitingSelection
	require.NoError(t, scene.Focus(ctx, "Drawing 1"))

	res, err := wf.Toggle(ctx, st)
	require.NoError(t, err)
	assert.Nil(t, res.Capture)
	assert.Equal(t, domain.PickIdle, st.Picking)
}

func TestToggle_CollinearSelectionKeepsWaiting(t *testing.T) {
	ctx := context.Background()
	scene, err := dsl.New().
		Drawable("Drawing 1").
		Stroke(dsl.Sel(0, 0, 0), dsl.Sel(1, 0, 0), dsl.Sel(2, 0, 0)).
		Done().
		Focus("Drawing 1").
		Build()
	require.NoError(t, err)

	wf := picking.NewWorkflow(pencil.NewTracker(scene))
	st := domain.NewSessionState("doc")
	st.Picking = domain.PickAwaitingSelection

	_, err = wf.Toggle(ctx, st)
	assert.ErrorIs(t, err, domain.ErrDegenerateGeometry)
	assert.Equal(t, domain.PickAwaitingSelection, st.Picking)
}

func TestReset(t *testing.T) {
	st := domain.NewSessionState("doc")
	st.Picking = domain.PickAwaitingSelection
	picking.NewWorkflow(nil).Reset(st)
	assert.Equal(t, domain.PickIdle, st.Picking)
}
