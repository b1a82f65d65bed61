package pencil_test

import (
	"context"
	"testing"

	"github.com/aretw0/workplane/pkg/adapters/memory"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/aretw0/workplane/pkg/dsl"
	"github.com/aretw0/workplane/pkg/pencil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureActive_EmptySceneCreatesDrawing1(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	tracker := pencil.NewTracker(scene)
	st := domain.NewSessionState("doc")

	name, created, err := tracker.EnsureActive(ctx, st)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Drawing 1", name)
	assert.Equal(t, "Drawing 1", st.ActiveDrawable)

	obj, err := scene.Object(ctx, "Drawing 1")
	require.NoError(t, err)
	assert.Equal(t, [3]bool{true, true, true}, obj.LockLocation)
	assert.Equal(t, domain.Point{}, obj.Transform.Location)

	name, created, err = tracker.EnsureActive(ctx, st)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Drawing 1", name)

	objs, err := scene.Objects(ctx)
	require.NoError(t, err)
	assert.Len(t, objs, 1)
}

func TestEnsureActive_PicksFirstDrawableInHostOrder(t *testing.T) {
	ctx := context.Background()
	scene, err := dsl.New().
		Mesh("Cube").Done().
		Drawable("Sketch").Done().
		Drawable("Other").Done().
		Build()
	require.NoError(t, err)

	tracker := pencil.NewTracker(scene)
	st := domain.NewSessionState("doc")

	name, created, err := tracker.EnsureActive(ctx, st)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Sketch", name)

	focused, _ := scene.Focused(ctx)
	assert.Equal(t, "Sketch", focused)
}

func TestEnsureActive_StaleNameIsReplaced(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene()
	tracker := pencil.NewTracker(scene)
	st := domain.NewSessionState("doc")
	st.ActiveDrawable = "Deleted Elsewhere"

	name, created, err := tracker.EnsureActive(ctx, st)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Drawing 1", name)
}

func TestNextName_SmallestUnused(t *testing.T) {
	objs := []*domain.Object{
		{Name: "Drawing 1"},
		{Name: "Drawing 3"},
		{Name: "Drawing x"},
		{Name: "Drawing 0"},
		{Name: "Cube"},
	}
	assert.Equal(t, "Drawing 2", pencil.NextName(objs))
	assert.Equal(t, "Drawing 1", pencil.NextName(nil))
}

func TestSaveActive(t *testing.T) {
	ctx := context.Background()
	scene, err := dsl.New().
		Drawable("Sketch").Done().
		Mesh("Cube").Done().
		Drawable("Renamed").DataName("Renamed.001").Done().
		Build()
	require.NoError(t, err)
	tracker := pencil.NewTracker(scene)
	st := domain.NewSessionState("doc")

	require.NoError(t, scene.Focus(ctx, "Sketch"))
	name, err := tracker.SaveActive(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, "Sketch", name)

	require.NoError(t, scene.Focus(ctx, "Cube"))
	name, err = tracker.SaveActive(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, domain.NoActiveDrawable, name)

	require.NoError(t, scene.Focus(ctx, "Renamed"))
	name, err = tracker.SaveActive(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, domain.NoActiveDrawable, name)

	require.NoError(t, scene.Focus(ctx, ""))
	name, err = tracker.SaveActive(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, domain.NoActiveDrawable, name)
}

func TestRemoveActive(t *testing.T) {
	ctx := context.Background()
	scene, err := dsl.New().Drawable("Sketch").Done().Build()
	require.NoError(t, err)
	tracker := pencil.NewTracker(scene)
	st := domain.NewSessionState("doc")
	st.ActiveDrawable = "Sketch"

	require.NoError(t, tracker.RemoveActive(ctx, st))
	assert.False(t, st.HasActive())
	_, err = scene.Object(ctx, "Sketch")
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)

	require.NoError(t, tracker.RemoveActive(ctx, st), "removing with nothing active is harmless")
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	scene, err := dsl.New().
		Drawable("A").Done().
		Mesh("Cube").Done().
		Build()
	require.NoError(t, err)
	tracker := pencil.NewTracker(scene)
	st := domain.NewSessionState("doc")

	require.NoError(t, tracker.Select(ctx, st, "A"))
	assert.Equal(t, "A", st.ActiveDrawable)

	assert.ErrorIs(t, tracker.Select(ctx, st, "Cube"), domain.ErrNotDrawable)
	assert.ErrorIs(t, tracker.Select(ctx, st, "ghost"), domain.ErrObjectNotFound)
	assert.Equal(t, "A", st.ActiveDrawable)
}

func TestLastStroke_Conditions(t *testing.T) {
	ctx := context.Background()
	scene, err := dsl.New().
		Drawable("Full").Stroke(dsl.Pt(0, 0, 0)).Stroke(dsl.Pt(1, 1, 1), dsl.Pt(2, 2, 2)).Done().
		Drawable("Empty").Done().
		Drawable("NoLayer").Stroke(dsl.Pt(0, 0, 0)).NoActiveLayer().Done().
		Drawable("Mismatch").DataName("Other").Done().
		Mesh("Cube").Done().
		Build()
	require.NoError(t, err)
	tracker := pencil.NewTracker(scene)

	_, err = tracker.LastStroke(ctx)
	assert.ErrorIs(t, err, domain.ErrNoActiveObject, "nothing focused")

	require.NoError(t, scene.Focus(ctx, "Full"))
	stroke, err := tracker.LastStroke(ctx)
	require.NoError(t, err)
	last, ok := stroke.Last()
	require.True(t, ok)
	assert.Equal(t, domain.Point{2, 2, 2}, last)

	require.NoError(t, scene.Focus(ctx, "Empty"))
	_, err = tracker.LastStroke(ctx)
	assert.ErrorIs(t, err, domain.ErrNoStrokes)

	require.NoError(t, scene.Focus(ctx, "NoLayer"))
	_, err = tracker.LastStroke(ctx)
	assert.ErrorIs(t, err, domain.ErrNoStrokes)

	require.NoError(t, scene.Focus(ctx, "Mismatch"))
	_, err = tracker.LastStroke(ctx)
	assert.ErrorIs(t, err, domain.ErrNameMismatch)

	require.NoError(t, scene.Focus(ctx, "Cube"))
	_, err = tracker.LastStroke(ctx)
	assert.ErrorIs(t, err, domain.ErrNoActiveObject)
}

func TestDeleteLastStroke(t *testing.T) {
	ctx := context.Background()
	scene, err := dsl.New().
		Drawable("A").Stroke(dsl.Pt(0, 0, 0)).Stroke(dsl.Pt(5, 5, 5)).Done().
		Focus("A").
		Build()
	require.NoError(t, err)
	tracker := pencil.NewTracker(scene)

	require.NoError(t, tracker.DeleteLastStroke(ctx))
	stroke, err := tracker.LastStroke(ctx)
	require.NoError(t, err)
	first, _ := stroke.First()
	assert.Equal(t, domain.Point{0, 0, 0}, first)

	require.NoError(t, tracker.DeleteLastStroke(ctx))
	assert.ErrorIs(t, tracker.DeleteLastStroke(ctx), domain.ErrNoStrokes)
}

func TestModeSwitchNotifiesOnlyOnChange(t *testing.T) {
	ctx := context.Background()
	scene, err := dsl.New().Drawable("A").Done().Focus("A").Build()
	require.NoError(t, err)

	var switches [][2]domain.Mode
	tracker := pencil.NewTracker(scene, pencil.WithModeObserver(func(ctx context.Context, from, to domain.Mode) {
		switches = append(switches, [2]domain.Mode{from, to})
	}))

	require.NoError(t, tracker.Draw(ctx))
	require.NoError(t, tracker.Draw(ctx))
	require.NoError(t, tracker.Edit(ctx))
	require.NoError(t, tracker.ObjectMode(ctx))

	assert.Equal(t, [][2]domain.Mode{
		{domain.ModeObject, domain.ModeDraw},
		{domain.ModeDraw, domain.ModeEditStroke},
		{domain.ModeEditStroke, domain.ModeObject},
	}, switches)
}

func TestDrawables(t *testing.T) {
	scene, err := dsl.New().
		Drawable("B").Done().
		Mesh("Cube").Done().
		Drawable("A").Done().
		Build()
	require.NoError(t, err)

	names, err := pencil.NewTracker(scene).Drawables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, names)
}
