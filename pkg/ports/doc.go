/*
Package ports defines the driven ports (interfaces) of the Workplane controller.

These interfaces decouple the command logic from the host 3D application and from the
storage used for per-document session state.

# Key Interfaces

  - Scene: the narrow slice of the host application the controller consumes
    (objects, stroke data, focus, interaction mode, view settings).
  - SessionStore: persists and loads SessionState per document.
  - DistributedLocker: provides distributed locking when several replicas share a store.
*/
package ports
