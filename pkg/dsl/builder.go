package dsl

import (
	"fmt"

	"github.com/aretw0/workplane/pkg/adapters/memory"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/go-gl/mathgl/mgl64"
)

// Builder manages scene construction. Objects keep the order they were added in.
type Builder struct {
	objects []*ObjectBuilder
	focus   string
	mode    domain.Mode
}

// New creates a new scene builder.
func New() *Builder {
	return &Builder{}
}

// Pt is an unselected stroke point.
func Pt(x, y, z float64) domain.StrokePoint {
	return domain.StrokePoint{Co: domain.Point{x, y, z}}
}

// Sel is a selected stroke point.
func Sel(x, y, z float64) domain.StrokePoint {
	return domain.StrokePoint{Co: domain.Point{x, y, z}, Selected: true}
}

func (b *Builder) add(name string, kind domain.ObjectKind) *ObjectBuilder {
	for _, ob := range b.objects {
		if ob.obj.Name == name {
			return ob
		}
	}
	ob := &ObjectBuilder{
		builder: b,
		obj: domain.Object{
			Name:      name,
			Kind:      kind,
			Transform: domain.IdentityTransform(),
		},
	}
	if kind == domain.KindDrawable {
		ob.obj.Data = name
		ob.data = domain.NewStrokeData(name)
	}
	b.objects = append(b.objects, ob)
	return ob
}

// Drawable adds a drawable with empty stroke data of the same name.
// If the name was already added, it returns the existing builder.
func (b *Builder) Drawable(name string) *ObjectBuilder {
	return b.add(name, domain.KindDrawable)
}

// Mesh adds a plain mesh object.
func (b *Builder) Mesh(name string) *ObjectBuilder {
	return b.add(name, domain.KindMesh)
}

// Focus sets the focused object.
func (b *Builder) Focus(name string) *Builder {
	b.focus = name
	return b
}

// Mode sets the initial interaction mode.
func (b *Builder) Mode(mode domain.Mode) *Builder {
	b.mode = mode
	return b
}

// Build assembles the scene.
func (b *Builder) Build() (*memory.Scene, error) {
	snap := memory.Snapshot{Focused: b.focus, Mode: b.mode}
	for _, ob := range b.objects {
		obj := ob.obj
		snap.Objects = append(snap.Objects, &obj)
		if ob.data != nil {
			snap.StrokeData = append(snap.StrokeData, ob.data)
		}
	}
	scene, err := memory.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}
	return scene, nil
}

// ObjectBuilder provides a fluent API for configuring an object.
type ObjectBuilder struct {
	builder *Builder
	obj     domain.Object
	data    *domain.StrokeData
}

// At sets the object location.
func (o *ObjectBuilder) At(x, y, z float64) *ObjectBuilder {
	o.obj.Transform.Location = mgl64.Vec3{x, y, z}
	return o
}

// Rotated sets the object rotation in degrees.
func (o *ObjectBuilder) Rotated(x, y, z float64) *ObjectBuilder {
	o.obj.Transform.Rotation = mgl64.Vec3{mgl64.DegToRad(x), mgl64.DegToRad(y), mgl64.DegToRad(z)}
	return o
}

// Stroke appends a stroke to the active frame of the active layer.
func (o *ObjectBuilder) Stroke(points ...domain.StrokePoint) *ObjectBuilder {
	if o.data == nil {
		return o
	}
	if frame, ok := o.data.ActiveFrame(); ok {
		frame.Strokes = append(frame.Strokes, domain.Stroke{Points: points})
	}
	return o
}

// DataName binds the object to stroke data under a different name.
func (o *ObjectBuilder) DataName(name string) *ObjectBuilder {
	o.obj.Data = name
	if o.data != nil {
		o.data.Name = name
	}
	return o
}

// NoActiveLayer leaves the stroke data without an active layer.
func (o *ObjectBuilder) NoActiveLayer() *ObjectBuilder {
	if o.data != nil {
		o.data.ActiveLayer = -1
	}
	return o
}

// Done returns to the scene builder.
func (o *ObjectBuilder) Done() *Builder {
	return o.builder
}
