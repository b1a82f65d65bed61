/*
Package geometry computes workplane placements from one, two or three points.

All functions are pure. Rotations are XYZ Euler angles in radians, composed as Rz * Ry * Rx,
and a plane's local normal is +Z. Degenerate input (coincident points, collinear triples)
is reported as domain.ErrDegenerateGeometry instead of producing NaN.
*/
package geometry
