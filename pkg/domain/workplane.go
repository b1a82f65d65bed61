package domain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// TemporaryWorkplaneName is the scene name of the single temporary workplane.
const TemporaryWorkplaneName = "workplane_TEMPORARY"

// Default grid settings applied to a fresh document and by ResetGrid.
const (
	DefaultGridScale = 1.0
	DefaultGridCount = 100
)

// Grid describes the plane scale and the repetition counts of the grid illusion.
type Grid struct {
	ScaleX float64 `json:"scale_x" yaml:"scale_x" mapstructure:"scale_x"`
	ScaleY float64 `json:"scale_y" yaml:"scale_y" mapstructure:"scale_y"`
	CountX int     `json:"count_x" yaml:"count_x" mapstructure:"count_x"`
	CountY int     `json:"count_y" yaml:"count_y" mapstructure:"count_y"`
}

// DefaultGrid returns scale (1,1) and counts (100,100).
func DefaultGrid() Grid {
	return Grid{
		ScaleX: DefaultGridScale,
		ScaleY: DefaultGridScale,
		CountX: DefaultGridCount,
		CountY: DefaultGridCount,
	}
}

// Swapped exchanges the x and y settings. Scale and counts always move together.
func (g Grid) Swapped() Grid {
	return Grid{ScaleX: g.ScaleY, ScaleY: g.ScaleX, CountX: g.CountY, CountY: g.CountX}
}

// Validate rejects non-positive scales and counts below one.
func (g Grid) Validate() error {
	if g.ScaleX <= 0 || g.ScaleY <= 0 {
		return fmt.Errorf("%w: scale must be positive, got (%g, %g)", ErrInvalidGrid, g.ScaleX, g.ScaleY)
	}
	if g.CountX < 1 || g.CountY < 1 {
		return fmt.Errorf("%w: counts must be at least 1, got (%d, %d)", ErrInvalidGrid, g.CountX, g.CountY)
	}
	return nil
}

// Scale returns the object scale for the grid. The plane keeps unit depth.
func (g Grid) Scale() mgl64.Vec3 {
	return mgl64.Vec3{g.ScaleX, g.ScaleY, 1}
}

// GridModifiers builds the four array modifiers that fake a grid out of a unit plane:
// two long arrays along +x and +y, and two doubling arrays along -x and -y.
func GridModifiers(g Grid) []ArrayModifier {
	return []ArrayModifier{
		{Name: "AR0", Count: g.CountX, RelativeOffset: mgl64.Vec3{1, 0, 0}},
		{Name: "AR1", Count: g.CountY, RelativeOffset: mgl64.Vec3{0, 1, 0}},
		{Name: "AR2", Count: 2, RelativeOffset: mgl64.Vec3{-1, 0, 0}},
		{Name: "AR3", Count: 2, RelativeOffset: mgl64.Vec3{0, -1, 0}},
	}
}

// GridOf reads the live grid settings off a workplane object.
func GridOf(obj *Object) Grid {
	g := DefaultGrid()
	if obj == nil {
		return g
	}
	g.ScaleX = obj.Transform.Scale.X()
	g.ScaleY = obj.Transform.Scale.Y()
	if len(obj.Modifiers) > 0 {
		g.CountX = obj.Modifiers[0].Count
	}
	if len(obj.Modifiers) > 1 {
		g.CountY = obj.Modifiers[1].Count
	}
	return g
}

// ApplyGrid writes scale and the two leading modifier counts onto a workplane object.
func ApplyGrid(obj *Object, g Grid) {
	obj.Transform.Scale = mgl64.Vec3{g.ScaleX, g.ScaleY, obj.Transform.Scale.Z()}
	if len(obj.Modifiers) < 4 {
		obj.Modifiers = GridModifiers(g)
		return
	}
	obj.Modifiers[0].Count = g.CountX
	obj.Modifiers[1].Count = g.CountY
}

// Workplane is the read model of the temporary plane.
type Workplane struct {
	Name     string     `json:"name"`
	Location mgl64.Vec3 `json:"location"`
	Rotation mgl64.Vec3 `json:"rotation"`
	Grid     Grid       `json:"grid"`
}

// WorkplaneFromObject builds the read model from the scene object.
func WorkplaneFromObject(obj *Object) *Workplane {
	if obj == nil {
		return nil
	}
	return &Workplane{
		Name:     obj.Name,
		Location: obj.Transform.Location,
		Rotation: obj.Transform.Rotation,
		Grid:     GridOf(obj),
	}
}
