/*
Package workplane generates temporary reference planes for drawing with a stylus in a 3D host
application.

A Controller runs the user's commands (the buttons of the side panel) against a host scene
reached through ports.Scene. It derives a workplane from the last stroke or from selected
points, keeps exactly one temporary workplane in the scene, carries grid settings across
replacements and tracks which drawable is active.

# Concept

The host owns the scene: objects, stroke data, focus and interaction mode. The controller owns
a small per-document SessionState (active drawable, plane base location and offset, grid,
panel flags, point-picking phase), persisted through a ports.SessionStore and serialized per
document by a session.Manager. Commands validate before they write: a failing command leaves
the stored state as it was.

# Usage

	scene := memory.NewScene()
	ctrl, err := workplane.New(scene, workplane.WithDocumentID("sketch.blend"))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	_ = ctrl.Init(ctx) // horizontal base plane + "Drawing 1"

	// ... the artist draws a stroke ...

	if err := ctrl.PlaneFromStroke(ctx, geometry.Vertical); err != nil {
		log.Println(err) // e.g. domain.ErrNoStrokes
	}

Commands can also be dispatched by name with loosely typed arguments, which is what the CLI,
HTTP and MCP adapters do:

	panel, err := ctrl.Dispatch(ctx, domain.Command{
		Name: workplane.CmdRotate,
		Args: map[string]any{"axis": "z", "degrees": "45"},
	})
*/
package workplane
