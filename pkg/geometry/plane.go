package geometry

import (
	"fmt"
	"math"

	"github.com/aretw0/workplane/pkg/domain"
	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a vector counts as zero.
const Epsilon = 1e-9

// Orientation selects the placement policy.
type Orientation string

const (
	Single     Orientation = "single"
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
	Tilted     Orientation = "tilted"
	ThreePoint Orientation = "three_point"
	Base       Orientation = "base"
)

var axisY = mgl64.Vec3{0, 1, 0}

// Placement is the location and Euler rotation of a plane.
type Placement struct {
	Location domain.Point
	Rotation mgl64.Vec3
}

// Midpoint is the component-wise average of a and b.
func Midpoint(a, b domain.Point) domain.Point {
	return a.Add(b).Mul(0.5)
}

// AngleInPlane returns the angle between v1 and v2 after projecting both onto the xy plane.
func AngleInPlane(v1, v2 mgl64.Vec3) (float64, error) {
	a := mgl64.Vec2{v1.X(), v1.Y()}
	b := mgl64.Vec2{v2.X(), v2.Y()}
	if a.Len() < Epsilon || b.Len() < Epsilon {
		return 0, fmt.Errorf("%w: zero-length projection", domain.ErrDegenerateGeometry)
	}
	dot := mgl64.Clamp(a.Normalize().Dot(b.Normalize()), -1, 1)
	return math.Acos(dot), nil
}

// AngleFromHeight returns atan(dz / |horizontal|), the tilt of a rise over a run.
// A vertical run gives +-90 degrees.
func AngleFromHeight(dz float64, horizontal mgl64.Vec3) (float64, error) {
	run := horizontal.Len()
	if run < Epsilon {
		if math.Abs(dz) < Epsilon {
			return 0, fmt.Errorf("%w: zero rise and run", domain.ErrDegenerateGeometry)
		}
		return math.Copysign(math.Pi/2, dz), nil
	}
	return math.Atan(dz / run), nil
}

// Direction returns the vector between a and b, oriented from the point with the larger x
// towards the one with the smaller x. Equal x gives a - b.
// The result never points towards +x, which is the half-plane a z rotation can carry +Y into.
func Direction(a, b domain.Point) mgl64.Vec3 {
	if a.X() > b.X() {
		return b.Sub(a)
	}
	return a.Sub(b)
}

// Yaw is the z rotation aligning the plane's local y axis with dir, which must come from
// Direction. It falls back to 0 when dir has no horizontal component.
func Yaw(dir mgl64.Vec3) float64 {
	z, err := AngleInPlane(axisY, dir)
	if err != nil {
		return 0
	}
	return z
}

// Pitch is the x rotation given by the rise of dir over its horizontal run.
func Pitch(dir mgl64.Vec3) (float64, error) {
	return AngleFromHeight(dir.Z(), mgl64.Vec3{dir.X(), dir.Y(), 0})
}

// Orient computes the placement for the given policy. p2 is ignored for Single.
// For ThreePoint, p2 is p1 displaced by the plane normal (see FromSelection).
func Orient(o Orientation, p1, p2 domain.Point) (Placement, error) {
	if o == Single {
		return Placement{Location: p1}, nil
	}

	dir := Direction(p1, p2)
	if dir.Len() < Epsilon {
		return Placement{}, fmt.Errorf("%w: points coincide", domain.ErrDegenerateGeometry)
	}
	yaw := Yaw(dir)

	switch o {
	case Vertical:
		return Placement{Location: Midpoint(p1, p2), Rotation: mgl64.Vec3{0, math.Pi / 2, yaw}}, nil
	case Horizontal, Base:
		return Placement{Location: Midpoint(p1, p2), Rotation: mgl64.Vec3{0, 0, yaw}}, nil
	case Tilted:
		// Tilted planes rise towards +x: (0,0,0)-(1,0,1) is pitched +45 degrees.
		pitch, err := Pitch(dir.Mul(-1))
		if err != nil {
			return Placement{}, err
		}
		return Placement{Location: Midpoint(p1, p2), Rotation: mgl64.Vec3{pitch, 0, yaw}}, nil
	case ThreePoint:
		pitch, err := Pitch(dir)
		if err != nil {
			return Placement{}, err
		}
		return Placement{Location: p1, Rotation: mgl64.Vec3{math.Pi/2 + pitch, 0, yaw}}, nil
	}
	return Placement{}, fmt.Errorf("unknown orientation %q", o)
}

// Normal returns (p2-p1) x (p3-p1).
func Normal(p1, p2, p3 domain.Point) (mgl64.Vec3, error) {
	n := p2.Sub(p1).Cross(p3.Sub(p1))
	if n.Len() < Epsilon {
		return mgl64.Vec3{}, fmt.Errorf("%w: points are collinear", domain.ErrDegenerateGeometry)
	}
	return n, nil
}

// Selection is the plane request derived from selected points.
type Selection struct {
	Orientation Orientation
	P1, P2      domain.Point
	Count       int
}

// FromSelection maps selected points (most recent last) to a plane request:
// one point gives a flat plane, two a tilted plane, three or more a plane through the last three.
func FromSelection(points []domain.Point) (Selection, error) {
	n := len(points)
	switch {
	case n == 0:
		return Selection{}, domain.ErrEmptySelection
	case n == 1:
		p := points[0]
		return Selection{Orientation: Single, P1: p, P2: p, Count: n}, nil
	case n == 2:
		return Selection{Orientation: Tilted, P1: points[1], P2: points[0], Count: n}, nil
	}
	p1, p2, p3 := points[n-1], points[n-2], points[n-3]
	normal, err := Normal(p1, p2, p3)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Orientation: ThreePoint, P1: p1, P2: p1.Add(normal), Count: n}, nil
}

// Place resolves a selection into a placement.
func (s Selection) Place() (Placement, error) {
	return Orient(s.Orientation, s.P1, s.P2)
}
