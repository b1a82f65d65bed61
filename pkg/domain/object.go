package domain

import "github.com/go-gl/mathgl/mgl64"

// ObjectKind distinguishes drawables from plain meshes.
type ObjectKind string

const (
	KindDrawable ObjectKind = "drawable"
	KindMesh     ObjectKind = "mesh"
)

// Transform is an object's placement. Rotation holds XYZ Euler angles in radians.
type Transform struct {
	Location mgl64.Vec3 `json:"location" yaml:"location"`
	Rotation mgl64.Vec3 `json:"rotation" yaml:"rotation"`
	Scale    mgl64.Vec3 `json:"scale" yaml:"scale"`
}

// IdentityTransform places an object at the origin with unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// ArrayModifier is the host's repeated-copy primitive.
type ArrayModifier struct {
	Name           string     `json:"name" yaml:"name"`
	Count          int        `json:"count" yaml:"count"`
	RelativeOffset mgl64.Vec3 `json:"relative_offset" yaml:"relative_offset"`
}

// Object is a scene object as seen through the host port.
type Object struct {
	Name         string          `json:"name" yaml:"name"`
	Kind         ObjectKind      `json:"kind" yaml:"kind"`
	Data         string          `json:"data,omitempty" yaml:"data,omitempty"`
	Transform    Transform       `json:"transform" yaml:"transform"`
	LockLocation [3]bool         `json:"lock_location" yaml:"lock_location"`
	Modifiers    []ArrayModifier `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	ShowWire     bool            `json:"show_wire,omitempty" yaml:"show_wire,omitempty"`
}

// IsDrawable reports whether the object carries stroke data.
func (o *Object) IsDrawable() bool {
	return o != nil && o.Kind == KindDrawable
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := *o
	out.Modifiers = append([]ArrayModifier(nil), o.Modifiers...)
	return &out
}
