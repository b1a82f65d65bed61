package geometry

import (
	"fmt"

	"github.com/aretw0/workplane/pkg/domain"
	"github.com/go-gl/mathgl/mgl64"
)

// EulerMatrix converts XYZ Euler angles into a rotation matrix (Rz * Ry * Rx).
func EulerMatrix(rot mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Rotate3DZ(rot.Z()).Mul3(mgl64.Rotate3DY(rot.Y())).Mul3(mgl64.Rotate3DX(rot.X()))
}

// PlaneNormal is the world-space normal of a plane with the given rotation.
func PlaneNormal(rot mgl64.Vec3) mgl64.Vec3 {
	return EulerMatrix(rot).Mul3x1(mgl64.Vec3{0, 0, 1})
}

// Offset moves base along the plane normal by amount.
func Offset(base domain.Point, rot mgl64.Vec3, amount float64) domain.Point {
	return base.Add(PlaneNormal(rot).Mul(amount))
}

// RotateAxis adds degrees to one Euler component. Angles are not wrapped.
func RotateAxis(rot mgl64.Vec3, axis domain.Axis, degrees float64) (mgl64.Vec3, error) {
	if axis < domain.AxisX || axis > domain.AxisZ {
		return rot, fmt.Errorf("%w: %s", domain.ErrInvalidAxis, axis)
	}
	rot[axis] += mgl64.DegToRad(degrees)
	return rot, nil
}
