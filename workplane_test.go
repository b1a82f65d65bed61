package workplane_test

import (
	"context"
	"math"
	"testing"

	"github.com/aretw0/workplane"
	"github.com/aretw0/workplane/pkg/adapters/memory"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/dsl"
	"github.com/aretw0/workplane/pkg/geometry"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func newController(t *testing.T, scene *memory.Scene, opts ...workplane.Option) (*workplane.Controller, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	opts = append([]workplane.Option{workplane.WithStore(store), workplane.WithDocumentID("doc")}, opts...)
	ctrl, err := workplane.New(scene, opts...)
	require.NoError(t, err)
	return ctrl, store
}

func addStroke(t *testing.T, scene *memory.Scene, name string, points ...domain.StrokePoint) {
	t.Helper()
	ctx := context.Background()
	data, err := scene.StrokeData(ctx, name)
	require.NoError(t, err)
	frame, ok := data.ActiveFrame()
	require.True(t, ok)
	frame.Strokes = append(frame.Strokes, domain.Stroke{Points: points})
	require.NoError(t, scene.SaveStrokeData(ctx, data))
}

func strokeCount(t *testing.T, scene *memory.Scene, name string) int {
	t.Helper()
	data, err := scene.StrokeData(context.Background(), name)
	require.NoError(t, err)
	frame, ok := data.ActiveFrame()
	require.True(t, ok)
	return len(frame.Strokes)
}

func currentPlane(t *testing.T, ctrl *workplane.Controller) *domain.Workplane {
	t.Helper()
	panel, err := ctrl.Panel(context.Background())
	require.NoError(t, err)
	require.NotNil(t, panel.Workplane)
	return panel.Workplane
}

func vecEqual(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, tol), "want %v, got %v", want, got)
}

func TestNew_RequiresScene(t *testing.T) {
	_, err := workplane.New(nil)
	assert.Error(t, err)

	_, err = workplane.New(memory.NewScene(), workplane.WithDefaultGrid(domain.Grid{}))
	assert.ErrorIs(t, err, domain.ErrInvalidGrid)
}

func TestInit_PlacesBasePlaneAndDrawable(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	ctrl, store := newController(t, scene)

	require.NoError(t, ctrl.Init(ctx))

	panel, err := ctrl.Panel(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Drawing 1"}, panel.Drawables)
	assert.Equal(t, "Drawing 1", panel.Session.ActiveDrawable)
	assert.Equal(t, "Drawing 1", panel.Focused)
	assert.Equal(t, domain.ModeDraw, panel.Mode)
	require.NotNil(t, panel.Workplane)
	vecEqual(t, mgl64.Vec3{0.5, 0.5, 0}, panel.Workplane.Location)
	vecEqual(t, mgl64.Vec3{0, 0, math.Pi / 2}, panel.Workplane.Rotation)

	stored, err := store.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "Drawing 1", stored.ActiveDrawable)
	assert.False(t, stored.UpdatedAt.IsZero())
}

func TestPickPoints_SinglePoint(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	ctrl, _ := newController(t, scene)
	require.NoError(t, ctrl.Init(ctx))
	addStroke(t, scene, "Drawing 1", dsl.Pt(5, 5, 5), dsl.Sel(0, 2, 0))

	res, err := ctrl.PickPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PickAwaitingSelection, res.Phase)
	mode, _ := scene.Mode(ctx)
	assert.Equal(t, domain.ModeEditStroke, mode)

	res, err = ctrl.PickPoints(ctx)
	require.NoError(t, err)
	require.NotNil(t, res.Capture)
	assert.Equal(t, geometry.Single, res.Capture.Orientation)

	wp := currentPlane(t, ctrl)
	vecEqual(t, mgl64.Vec3{0, 2, 0}, wp.Location)
	vecEqual(t, mgl64.Vec3{0, 0, 0}, wp.Rotation)

	mode, _ = scene.Mode(ctx)
	assert.Equal(t, domain.ModeDraw, mode)
}

func TestPickPoints_NeverDeletesStrokes(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	ctrl, _ := newController(t, scene)
	require.NoError(t, ctrl.Init(ctx))
	require.NoError(t, ctrl.SetAutoDelete(ctx, true))
	addStroke(t, scene, "Drawing 1", dsl.Sel(0, 0, 0), dsl.Sel(1, 0, 1))

	_, err := ctrl.PickPoints(ctx)
	require.NoError(t, err)
	_, err = ctrl.PickPoints(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, strokeCount(t, scene, "Drawing 1"))
	wp := currentPlane(t, ctrl)
	vecEqual(t, mgl64.Vec3{0.5, 0, 0.5}, wp.Location)
	vecEqual(t, mgl64.Vec3{math.Pi / 4, 0, math.Pi / 2}, wp.Rotation)
}

func TestPickPoints_NoSelectionKeepsPlane(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	ctrl, _ := newController(t, scene)
	require.NoError(t, ctrl.Init(ctx))
	before := currentPlane(t, ctrl)

	_, err := ctrl.PickPoints(ctx)
	require.NoError(t, err)
	res, err := ctrl.PickPoints(ctx)
	require.NoError(t, err)
	assert.Nil(t, res.Capture)

	assert.Equal(t, before, currentPlane(t, ctrl))
	mode, _ := scene.Mode(ctx)
	assert.Equal(t, domain.ModeDraw, mode)
}

func TestPlaneFromStroke_Orientations(t *testing.T) {
	cases := []struct {
		name string
		o    geometry.Orientation
		rot  mgl64.Vec3
	}{
		{"vertical", geometry.Vertical, mgl64.Vec3{0, math.Pi / 2, math.Pi / 2}},
		{"horizontal", geometry.Horizontal, mgl64.Vec3{0, 0, math.Pi / 2}},
		{"tilted", geometry.Tilted, mgl64.Vec3{math.Pi / 4, 0, math.Pi / 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			scene := memory.NewScene()
			ctrl, _ := newController(t, scene)
			require.NoError(t, ctrl.Init(ctx))
			addStroke(t, scene, "Drawing 1", dsl.Pt(0, 0, 0), dsl.Pt(0.3, 0, 0.1), dsl.Pt(1, 0, 1))

			require.NoError(t, ctrl.PlaneFromStroke(ctx, tc.o))

			wp := currentPlane(t, ctrl)
			vecEqual(t, mgl64.Vec3{0.5, 0, 0.5}, wp.Location)
			vecEqual(t, tc.rot, wp.Rotation)
			assert.Equal(t, 1, strokeCount(t, scene, "Drawing 1"), "auto-delete is off by default")
		})
	}

	ctrl, _ := newController(t, memory.NewScene())
	assert.Error(t, ctrl.PlaneFromStroke(context.Background(), geometry.ThreePoint))
}

func TestPlaneFromStroke_DiagonalStroke(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	ctrl, _ := newController(t, scene)
	require.NoError(t, ctrl.Init(ctx))
	addStroke(t, scene, "Drawing 1", dsl.Pt(2, 0, 0), dsl.Pt(1, 0.5, 0), dsl.Pt(0, 1, 0))
	stroke := mgl64.Vec3{-2, 1, 0}

	require.NoError(t, ctrl.PlaneFromStroke(ctx, geometry.Vertical))
	wp := currentPlane(t, ctrl)
	vecEqual(t, mgl64.Vec3{1, 0.5, 0}, wp.Location)
	assert.InDelta(t, 0, geometry.PlaneNormal(wp.Rotation).Dot(stroke), tol, "vertical plane contains the stroke")

	require.NoError(t, ctrl.PlaneFromStroke(ctx, geometry.Horizontal))
	wp = currentPlane(t, ctrl)
	localY := geometry.EulerMatrix(wp.Rotation).Mul3x1(mgl64.Vec3{0, 1, 0})
	assert.InDelta(t, 0, localY.Cross(stroke.Normalize()).Len(), tol, "grid y axis runs along the stroke")
}

func TestPlaneFromStroke_AutoDelete(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	ctrl, _ := newController(t, scene)
	require.NoError(t, ctrl.Init(ctx))
	require.NoError(t, ctrl.SetAutoDelete(ctx, true))
	addStroke(t, scene, "Drawing 1", dsl.Pt(0, 0, 0), dsl.Pt(2, 0, 0))
	addStroke(t, scene, "Drawing 1", dsl.Pt(0, 0, 0), dsl.Pt(0, 3, 0))

	require.NoError(t, ctrl.PlaneFromStroke(ctx, geometry.Vertical))

	assert.Equal(t, 1, strokeCount(t, scene, "Drawing 1"))
	vecEqual(t, mgl64.Vec3{0, 1.5, 0}, currentPlane(t, ctrl).Location)
}

func TestPlaneFromStroke_FailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	ctrl, store := newController(t, scene)
	require.NoError(t, ctrl.Init(ctx))
	require.NoError(t, ctrl.Offset(ctx, 2))
	before, err := store.Load(ctx, "doc")
	require.NoError(t, err)
	plane := currentPlane(t, ctrl)

	err = ctrl.PlaneFromStroke(ctx, geometry.Vertical)
	assert.ErrorIs(t, err, domain.ErrNoStrokes)

	addStroke(t, scene, "Drawing 1", dsl.Pt(1, 1, 1), dsl.Pt(1, 1, 1))
	err = ctrl.PlaneFromStroke(ctx, geometry.Tilted)
	assert.ErrorIs(t, err, domain.ErrDegenerateGeometry)

	after, err := store.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, plane, currentPlane(t, ctrl))
}

func TestPlaneFromStroke_FocusedMeshIsNoActiveObject(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	ctrl, _ := newController(t, scene)
	require.NoError(t, ctrl.Init(ctx))
	require.NoError(t, scene.Focus(ctx, domain.TemporaryWorkplaneName))

	err := ctrl.PlaneFromStroke(ctx, geometry.Horizontal)
	assert.ErrorIs(t, err, domain.ErrNoActiveObject)
}

func TestGridSurvivesReplacement(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	ctrl, _ := newController(t, scene)
	require.NoError(t, ctrl.Init(ctx))

	custom := domain.Grid{ScaleX: 2, ScaleY: 3, CountX: 50, CountY: 80}
	require.NoError(t, ctrl.SetGrid(ctx, custom))
	addStroke(t, scene, "Drawing 1", dsl.Pt(0, 0, 0), dsl.Pt(1, 1, 0))
	require.NoError(t, ctrl.PlaneFromStroke(ctx, geometry.Horizontal))

	assert.Equal(t, custom, currentPlane(t, ctrl).Grid)

	require.NoError(t, ctrl.SwitchGrid(ctx))
	require.NoError(t, ctrl.SwitchGrid(ctx))
	assert.Equal(t, custom, currentPlane(t, ctrl).Grid)

	require.NoError(t, ctrl.ResetGrid(ctx))
	assert.Equal(t, domain.DefaultGrid(), currentPlane(t, ctrl).Grid)
}

func TestDefaultGridAppliesToNewDocuments(t *testing.T) {
	ctx := context.Background()
	grid := domain.Grid{ScaleX: 0.5, ScaleY: 0.5, CountX: 20, CountY: 20}
	ctrl, _ := newController(t, memory.NewScene(), workplane.WithDefaultGrid(grid))

	require.NoError(t, ctrl.Init(ctx))
	assert.Equal(t, grid, currentPlane(t, ctrl).Grid)
}

func TestRotateAndOffset(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	ctrl, store := newController(t, scene)

	assert.ErrorIs(t, ctrl.Rotate(ctx, domain.AxisX, 45), domain.ErrNoWorkplane)
	assert.ErrorIs(t, ctrl.Offset(ctx, 1), domain.ErrNoWorkplane)

	require.NoError(t, ctrl.Init(ctx))
	for i := 0; i < 9; i++ {
		require.NoError(t, ctrl.Rotate(ctx, domain.AxisX, 45))
	}
	assert.InDelta(t, mgl64.DegToRad(405), currentPlane(t, ctrl).Rotation.X(), tol)

	require.NoError(t, ctrl.Offset(ctx, 1))
	require.NoError(t, ctrl.Offset(ctx, 1))
	st, err := store.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, 1.0, st.PlaneOffset)
	dist := currentPlane(t, ctrl).Location.Sub(st.PlaneLocation).Len()
	assert.InDelta(t, 1.0, dist, tol)
}

func TestDeleteLastStroke(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	ctrl, store := newController(t, scene)

	err := ctrl.DeleteLastStroke(ctx)
	assert.ErrorIs(t, err, domain.ErrNoStrokes)

	st, err := store.Load(ctx, "doc")
	require.NoError(t, err, "a reported condition still saves state")
	assert.Equal(t, "Drawing 1", st.ActiveDrawable)

	addStroke(t, scene, "Drawing 1", dsl.Pt(0, 0, 0))
	addStroke(t, scene, "Drawing 1", dsl.Pt(1, 0, 0))
	require.NoError(t, ctrl.DeleteLastStroke(ctx))
	assert.Equal(t, 1, strokeCount(t, scene, "Drawing 1"))
}

func TestDrawableManagement(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	ctrl, _ := newController(t, scene)
	require.NoError(t, ctrl.Init(ctx))

	require.NoError(t, ctrl.AddDrawable(ctx))
	panel, err := ctrl.Panel(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Drawing 1", "Drawing 2"}, panel.Drawables)
	assert.Equal(t, "Drawing 2", panel.Session.ActiveDrawable)

	require.NoError(t, ctrl.SelectDrawable(ctx, "Drawing 1"))
	assert.ErrorIs(t, ctrl.SelectDrawable(ctx, domain.TemporaryWorkplaneName), domain.ErrNotDrawable)

	require.NoError(t, ctrl.RemoveDrawable(ctx))
	panel, err = ctrl.Panel(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Drawing 2"}, panel.Drawables)
	assert.Equal(t, "Drawing 2", panel.Session.ActiveDrawable)
	assert.Equal(t, domain.ModeDraw, panel.Mode)

	require.NoError(t, ctrl.RemoveDrawable(ctx))
	panel, err = ctrl.Panel(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Drawing 1"}, panel.Drawables, "removing the last drawable creates a fresh one")
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	scene, err := dsl.New().Mesh("Cube").Done().Build()
	require.NoError(t, err)
	ctrl, store := newController(t, scene)

	require.NoError(t, ctrl.Init(ctx))
	require.NoError(t, ctrl.AddDrawable(ctx))
	custom := domain.Grid{ScaleX: 2, ScaleY: 2, CountX: 10, CountY: 10}
	require.NoError(t, ctrl.SetGrid(ctx, custom))
	require.NoError(t, ctrl.Offset(ctx, 3))
	_, err = ctrl.PickPoints(ctx)
	require.NoError(t, err)

	require.NoError(t, ctrl.Clear(ctx))

	objs, err := scene.Objects(ctx)
	require.NoError(t, err)
	var names []string
	for _, obj := range objs {
		names = append(names, obj.Name)
	}
	assert.ElementsMatch(t, []string{"Cube", domain.TemporaryWorkplaneName, "Drawing 1"}, names)

	st, err := store.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "Drawing 1", st.ActiveDrawable)
	assert.Zero(t, st.PlaneOffset)
	assert.Equal(t, domain.PickIdle, st.Picking)
	assert.Equal(t, custom, currentPlane(t, ctrl).Grid)
}

func TestSetup(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	view := domain.DefaultViewSettings()
	view.Background = mgl64.Vec3{1, 1, 1}
	ctrl, _ := newController(t, scene, workplane.WithView(view))

	require.NoError(t, ctrl.Setup(ctx))
	assert.Equal(t, view, scene.View())
	mode, _ := scene.Mode(ctx)
	assert.Equal(t, domain.ModeDraw, mode)
}

func TestPanelFlags(t *testing.T) {
	ctx := context.Background()
	ctrl, _ := newController(t, memory.NewScene())

	require.NoError(t, ctrl.SetExpanded(ctx, workplane.SectionGrid, false))
	require.NoError(t, ctrl.SetAutoDelete(ctx, true))
	assert.ErrorIs(t, ctrl.SetExpanded(ctx, "colors", true), workplane.ErrInvalidArgs)

	panel, err := ctrl.Panel(ctx)
	require.NoError(t, err)
	assert.False(t, panel.Session.ExpandGrid)
	assert.True(t, panel.Session.ExpandSystem)
	assert.True(t, panel.Session.AutoDeleteStroke)
	assert.Nil(t, panel.Workplane)
}

func TestLifecycleHooks(t *testing.T) {
	ctx := context.Background()
	var (
		commands []string
		failures []error
		planes   []string
		modes    []domain.Mode
		diffs    []*domain.SessionDiff
	)
	hooks := domain.LifecycleHooks{
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			commands = append(commands, e.Command)
			failures = append(failures, e.Err)
			assert.Equal(t, "doc", e.DocumentID)
		},
		OnPlaneCreated: func(ctx context.Context, e *domain.PlaneEvent) {
			planes = append(planes, e.Orientation)
		},
		OnModeChange: func(ctx context.Context, e *domain.ModeEvent) {
			modes = append(modes, e.To)
		},
		OnStateChange: func(ctx context.Context, d *domain.SessionDiff) {
			diffs = append(diffs, d)
		},
	}
	ctrl, _ := newController(t, memory.NewScene(), workplane.WithLifecycleHooks(hooks))

	require.NoError(t, ctrl.Init(ctx))
	assert.ErrorIs(t, ctrl.PlaneFromStroke(ctx, geometry.Vertical), domain.ErrNoStrokes)

	assert.Equal(t, []string{workplane.CmdInit, workplane.CmdPlaneVertical}, commands)
	assert.NoError(t, failures[0])
	assert.ErrorIs(t, failures[1], domain.ErrNoStrokes)
	assert.Equal(t, []string{string(geometry.Base)}, planes)
	assert.Equal(t, []domain.Mode{domain.ModeDraw}, modes)
	require.Len(t, diffs, 1, "failed commands do not change state")
	require.NotNil(t, diffs[0].ActiveDrawable)
	assert.Equal(t, "Drawing 1", *diffs[0].ActiveDrawable)
}
