package domain

import "errors"

// ErrNoActiveObject is returned when no drawable is focused or resolvable.
var ErrNoActiveObject = errors.New("no active drawable")

// ErrNameMismatch is returned when a drawable's scene name and its stroke data name diverge.
var ErrNameMismatch = errors.New("drawable and stroke data names differ")

// ErrNoStrokes is returned when the last stroke is requested but none exists.
var ErrNoStrokes = errors.New("no strokes")

// ErrDegenerateGeometry is returned for zero-length directions or collinear point sets.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// ErrEmptySelection is returned when a plane is requested from zero selected points.
var ErrEmptySelection = errors.New("no points selected")

// ErrNoWorkplane is returned by operations that need the temporary workplane.
var ErrNoWorkplane = errors.New("workplane not found")

// ErrInvalidAxis is returned for rotation axes other than x, y and z.
var ErrInvalidAxis = errors.New("invalid axis")

// ErrInvalidGrid is returned for non-positive grid scales or counts.
var ErrInvalidGrid = errors.New("invalid grid settings")

// ErrObjectNotFound is returned when the host has no object with the given name.
var ErrObjectNotFound = errors.New("object not found")

// ErrObjectExists is returned when creating an object under a taken name.
var ErrObjectExists = errors.New("object already exists")

// ErrNotDrawable is returned when a drawable is expected but another kind is found.
var ErrNotDrawable = errors.New("object is not a drawable")

// ErrSessionNotFound is returned when a document ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownCommand is returned by Dispatch for unregistered command names.
var ErrUnknownCommand = errors.New("unknown command")
