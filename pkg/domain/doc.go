/*
Package domain contains the core models of the Workplane controller.

It defines the entities the controller reasons about: stroke data owned by drawables, scene
objects, the temporary workplane and its grid, and the per-document session state. This
package is kept pure and free of I/O, following Hexagonal Architecture principles; the host
application is reached only through the ports package.

# Key Entities

  - Point / Stroke / StrokeData: pencil geometry read from the host.
  - Object: a scene object (drawable or mesh) with transform and array modifiers.
  - Workplane / Grid: the single temporary reference plane and its grid illusion.
  - SessionState: persisted per-document state (active drawable, grid, picking phase).
  - PanelState: read model handed to presentation adapters.
*/
package domain
