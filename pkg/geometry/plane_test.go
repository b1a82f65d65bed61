package geometry

import (
	"fmt"
	"math"
	"testing"

	"github.com/aretw0/workplane/pkg/domain"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func assertVec(t *testing.T, want, got mgl64.Vec3, msgAndArgs ...any) {
	t.Helper()
	if !want.ApproxEqualThreshold(got, tol) {
		assert.Fail(t, fmt.Sprintf("want %v, got %v", want, got), msgAndArgs...)
	}
}

func assertParallel(t *testing.T, a, b mgl64.Vec3, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, 0, a.Normalize().Cross(b.Normalize()).Len(), 1e-9, msgAndArgs...)
}

var diagonalStrokes = [][2]domain.Point{
	{{0, 0, 0}, {1, 1, 0}},
	{{1, 1, 0}, {0, 0, 0}},
	{{0, 0, 0}, {-2, 1, 0.5}},
	{{3, -1, 2}, {-1, 4, 0}},
	{{0.2, 0.3, 0}, {1.7, -2.1, 1}},
}

func deg(d float64) float64 { return mgl64.DegToRad(d) }

func TestMidpoint_SamePointIsIdentity(t *testing.T) {
	for _, p := range []domain.Point{{0, 0, 0}, {1, -2, 3.5}, {-7, 0.25, 1e6}} {
		assert.Equal(t, p, Midpoint(p, p))
	}
	assertVec(t, domain.Point{0.5, 0, 0.5}, Midpoint(domain.Point{0, 0, 0}, domain.Point{1, 0, 1}))
}

func TestAngleInPlane(t *testing.T) {
	for _, v := range []mgl64.Vec3{{1, 0, 0}, {0, 3, 9}, {-2, 5, -1}} {
		a, err := AngleInPlane(v, v)
		require.NoError(t, err)
		assert.InDelta(t, 0, a, tol)
	}

	a, err := AngleInPlane(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 1})
	require.NoError(t, err)
	assert.InDelta(t, deg(90), a, tol)

	a, err = AngleInPlane(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -4, 0})
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, a, tol)

	_, err = AngleInPlane(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1})
	assert.ErrorIs(t, err, domain.ErrDegenerateGeometry)
}

func TestAngleFromHeight(t *testing.T) {
	a, err := AngleFromHeight(1, mgl64.Vec3{1, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, deg(45), a, tol)

	a, err = AngleFromHeight(-2, mgl64.Vec3{0, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, deg(-90), a, tol)

	_, err = AngleFromHeight(0, mgl64.Vec3{})
	assert.ErrorIs(t, err, domain.ErrDegenerateGeometry)
}

func TestOrient_SinglePoint(t *testing.T) {
	p, err := Orient(Single, domain.Point{0, 2, 0}, domain.Point{0, 2, 0})
	require.NoError(t, err)
	assertVec(t, domain.Point{0, 2, 0}, p.Location)
	assertVec(t, mgl64.Vec3{}, p.Rotation)
}

func TestOrient_TiltedTwoPoints(t *testing.T) {
	p, err := Orient(Tilted, domain.Point{0, 0, 0}, domain.Point{1, 0, 1})
	require.NoError(t, err)
	assertVec(t, domain.Point{0.5, 0, 0.5}, p.Location)
	assertVec(t, mgl64.Vec3{deg(45), 0, deg(90)}, p.Rotation)
}

func TestOrient_VerticalAndHorizontal(t *testing.T) {
	a, b := domain.Point{0, 0, 0}, domain.Point{0, 2, 0}

	v, err := Orient(Vertical, a, b)
	require.NoError(t, err)
	assertVec(t, domain.Point{0, 1, 0}, v.Location)
	assertVec(t, mgl64.Vec3{0, deg(90), deg(180)}, v.Rotation, "equal x points the direction from b to a")

	h, err := Orient(Horizontal, domain.Point{0, 0.5, 0}, domain.Point{1, 0.5, 0})
	require.NoError(t, err)
	assertVec(t, domain.Point{0.5, 0.5, 0}, h.Location)
	assertVec(t, mgl64.Vec3{0, 0, deg(90)}, h.Rotation)
}

func TestOrient_SwappedInputsGiveSameRotation(t *testing.T) {
	a, b := domain.Point{3, 1, 2}, domain.Point{-1, 4, 0}
	for _, o := range []Orientation{Vertical, Horizontal, Tilted} {
		ab, err := Orient(o, a, b)
		require.NoError(t, err)
		ba, err := Orient(o, b, a)
		require.NoError(t, err)
		assertVec(t, ab.Rotation, ba.Rotation)
		assertVec(t, ab.Location, ba.Location)
	}
}

func TestOrient_VerticalStrokeFallsBackToZeroYaw(t *testing.T) {
	p, err := Orient(Tilted, domain.Point{1, 1, 0}, domain.Point{1, 1, 3})
	require.NoError(t, err)
	assertVec(t, mgl64.Vec3{deg(90), 0, 0}, p.Rotation)
}

func TestOrient_CoincidentPointsAreDegenerate(t *testing.T) {
	p := domain.Point{1, 2, 3}
	for _, o := range []Orientation{Vertical, Horizontal, Tilted, Base} {
		_, err := Orient(o, p, p)
		assert.ErrorIs(t, err, domain.ErrDegenerateGeometry, string(o))
	}
}

func TestFromSelection(t *testing.T) {
	_, err := FromSelection(nil)
	assert.ErrorIs(t, err, domain.ErrEmptySelection)

	one, err := FromSelection([]domain.Point{{0, 2, 0}})
	require.NoError(t, err)
	assert.Equal(t, Single, one.Orientation)

	two, err := FromSelection([]domain.Point{{1, 0, 1}, {0, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, Tilted, two.Orientation)
	assert.Equal(t, domain.Point{0, 0, 0}, two.P1)
	assert.Equal(t, domain.Point{1, 0, 1}, two.P2)
}

func TestFromSelection_ThreePointsOnFloorGiveFlatPlane(t *testing.T) {
	sel, err := FromSelection([]domain.Point{{9, 9, 9}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	require.NoError(t, err)
	assert.Equal(t, ThreePoint, sel.Orientation)
	assert.Equal(t, 4, sel.Count)
	assert.Equal(t, domain.Point{0, 1, 0}, sel.P1)

	p, err := sel.Place()
	require.NoError(t, err)
	assertVec(t, domain.Point{0, 1, 0}, p.Location)
	assertVec(t, mgl64.Vec3{deg(180), 0, 0}, p.Rotation)
	assertParallel(t, mgl64.Vec3{0, 0, 1}, PlaneNormal(p.Rotation))
}

func TestFromSelection_CollinearIsDegenerate(t *testing.T) {
	_, err := FromSelection([]domain.Point{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}})
	assert.ErrorIs(t, err, domain.ErrDegenerateGeometry)
}

func TestOrient_VerticalContainsDiagonalStroke(t *testing.T) {
	for _, s := range diagonalStrokes {
		p, err := Orient(Vertical, s[0], s[1])
		require.NoError(t, err)

		normal := PlaneNormal(p.Rotation)
		stroke := s[1].Sub(s[0])
		flat := mgl64.Vec3{stroke.X(), stroke.Y(), 0}
		assert.InDelta(t, 0, normal.Dot(flat), 1e-9, "normal is perpendicular to the stroke %v", s)
		assert.InDelta(t, 0, normal.Z(), 1e-9, "plane stands upright for %v", s)
	}
}

func TestOrient_HorizontalGridFollowsStroke(t *testing.T) {
	for _, s := range diagonalStrokes {
		p, err := Orient(Horizontal, s[0], s[1])
		require.NoError(t, err)

		localY := EulerMatrix(p.Rotation).Mul3x1(mgl64.Vec3{0, 1, 0})
		stroke := s[1].Sub(s[0])
		assertParallel(t, mgl64.Vec3{stroke.X(), stroke.Y(), 0}, localY, "local y follows %v", s)
		assertParallel(t, mgl64.Vec3{0, 0, 1}, PlaneNormal(p.Rotation))
	}
}

func TestOrient_TiltedLocalAxisLiesOverStroke(t *testing.T) {
	for _, s := range diagonalStrokes {
		p, err := Orient(Tilted, s[0], s[1])
		require.NoError(t, err)

		localY := EulerMatrix(p.Rotation).Mul3x1(mgl64.Vec3{0, 1, 0})
		stroke := s[1].Sub(s[0])
		assertParallel(t, mgl64.Vec3{stroke.X(), stroke.Y(), 0}, mgl64.Vec3{localY.X(), localY.Y(), 0}, "heading of %v", s)
	}
}

func TestFromSelection_PlanePassesThroughPoints(t *testing.T) {
	selections := [][]domain.Point{
		{{0, 0, 0}, {1, 0, 1}, {0, 1, 1}},
		{{1, 2, 3}, {-1, 0.5, 2}, {2, -1, 0}},
		{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}},
		{{5, 5, 5}, {0.3, -2, 1}, {4, 1, -3}, {-2, 2, 2}},
	}
	for _, points := range selections {
		sel, err := FromSelection(points)
		require.NoError(t, err)
		p, err := sel.Place()
		require.NoError(t, err)

		n := len(points)
		want, err := Normal(points[n-1], points[n-2], points[n-3])
		require.NoError(t, err)
		normal := PlaneNormal(p.Rotation)
		assertParallel(t, want, normal, "normal of %v", points)

		for _, q := range points[n-3:] {
			assert.InDelta(t, 0, q.Sub(p.Location).Dot(normal), 1e-9, "%v lies on the plane", q)
		}
	}
}
