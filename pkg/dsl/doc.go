/*
Package dsl provides a fluent builder for in-memory scenes.

It is used to seed fixtures for tests, examples and scene files without hand-assembling
objects and stroke data:

	scene, err := dsl.New().
		Drawable("Drawing 1").
		Stroke(dsl.Pt(0, 0, 0), dsl.Pt(1, 0, 1)).
		Stroke(dsl.Sel(0, 2, 0)).
		Done().
		Mesh("Cube").Done().
		Focus("Drawing 1").
		Build()
*/
package dsl
