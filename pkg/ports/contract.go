package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/workplane/pkg/domain"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	documentID := "contract-test-doc-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewSessionState(documentID)
		state.ActiveDrawable = "Drawing 2"
		state.PlaneLocation = domain.Point{0.5, 0, 0.5}
		state.Grid = domain.Grid{ScaleX: 2, ScaleY: 3, CountX: 50, CountY: 80}
		state.Picking = domain.PickAwaitingSelection

		err := store.Save(ctx, documentID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, documentID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.ActiveDrawable, loaded.ActiveDrawable)
		assert.Equal(t, state.PlaneLocation, loaded.PlaneLocation)
		assert.Equal(t, state.Grid, loaded.Grid)
		assert.Equal(t, state.Picking, loaded.Picking)
		assert.True(t, loaded.ExpandGrid)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, documentID)
		require.NoError(t, err)
		loaded.ActiveDrawable = "mutated"

		again, err := store.Load(ctx, documentID)
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", again.ActiveDrawable)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+documentID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, documentID, domain.NewSessionState(documentID))
		require.NoError(t, err)

		err = store.Delete(ctx, documentID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, documentID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := documentID + "-1"
		id2 := documentID + "-2"
		_ = store.Save(ctx, id1, domain.NewSessionState(id1))
		_ = store.Save(ctx, id2, domain.NewSessionState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		docs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, docs, id1)
		assert.Contains(t, docs, id2)
	})
}

// RunSceneContract verifies the host behaviour the controller relies on.
// newScene must return an empty scene on every call.
func RunSceneContract(t *testing.T, newScene func() Scene) {
	ctx := context.Background()

	t.Run("CreateDrawable focuses and pairs stroke data", func(t *testing.T) {
		scene := newScene()
		obj, err := scene.CreateDrawable(ctx, "Drawing 1", domain.IdentityTransform())
		require.NoError(t, err)
		assert.True(t, obj.IsDrawable())

		focused, err := scene.Focused(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Drawing 1", focused)

		data, err := scene.StrokeData(ctx, "Drawing 1")
		require.NoError(t, err)
		assert.Equal(t, "Drawing 1", data.Name)

		_, err = scene.CreateDrawable(ctx, "Drawing 1", domain.IdentityTransform())
		assert.ErrorIs(t, err, domain.ErrObjectExists)
	})

	t.Run("Objects keep creation order", func(t *testing.T) {
		scene := newScene()
		for _, name := range []string{"b", "a", "c"} {
			_, err := scene.CreateDrawable(ctx, name, domain.IdentityTransform())
			require.NoError(t, err)
		}
		objs, err := scene.Objects(ctx)
		require.NoError(t, err)
		require.Len(t, objs, 3)
		assert.Equal(t, "b", objs[0].Name)
		assert.Equal(t, "c", objs[2].Name)
	})

	t.Run("UpdateObject round trip", func(t *testing.T) {
		scene := newScene()
		obj, err := scene.CreatePlane(ctx, domain.TemporaryWorkplaneName, domain.IdentityTransform())
		require.NoError(t, err)

		obj.Transform.Rotation = mgl64.Vec3{1, 2, 3}
		obj.Modifiers = domain.GridModifiers(domain.DefaultGrid())
		obj.ShowWire = true
		require.NoError(t, scene.UpdateObject(ctx, obj))

		got, err := scene.Object(ctx, domain.TemporaryWorkplaneName)
		require.NoError(t, err)
		assert.Equal(t, obj.Transform.Rotation, got.Transform.Rotation)
		assert.Len(t, got.Modifiers, 4)
		assert.True(t, got.ShowWire)

		got.Modifiers[0].Count = 1
		again, err := scene.Object(ctx, domain.TemporaryWorkplaneName)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultGridCount, again.Modifiers[0].Count, "Object must return a copy")
	})

	t.Run("DeleteObject removes stroke data and focus", func(t *testing.T) {
		scene := newScene()
		_, err := scene.CreateDrawable(ctx, "Drawing 1", domain.IdentityTransform())
		require.NoError(t, err)
		require.NoError(t, scene.DeleteObject(ctx, "Drawing 1"))

		_, err = scene.Object(ctx, "Drawing 1")
		assert.ErrorIs(t, err, domain.ErrObjectNotFound)
		_, err = scene.StrokeData(ctx, "Drawing 1")
		assert.ErrorIs(t, err, domain.ErrObjectNotFound)

		focused, err := scene.Focused(ctx)
		require.NoError(t, err)
		assert.Empty(t, focused)

		assert.ErrorIs(t, scene.DeleteObject(ctx, "Drawing 1"), domain.ErrObjectNotFound)
	})

	t.Run("Stroke modes need a focused drawable", func(t *testing.T) {
		scene := newScene()
		_, err := scene.CreatePlane(ctx, "plane", domain.IdentityTransform())
		require.NoError(t, err)
		assert.ErrorIs(t, scene.SetMode(ctx, domain.ModeDraw), domain.ErrNoActiveObject)

		_, err = scene.CreateDrawable(ctx, "Drawing 1", domain.IdentityTransform())
		require.NoError(t, err)
		require.NoError(t, scene.SetMode(ctx, domain.ModeEditStroke))
		mode, err := scene.Mode(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.ModeEditStroke, mode)
	})
}
