// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear implements math for 3D graphics that
// mgl32 does not provide directly.
// Vectors and matrices are mgl32 types, so matrices are
// column-major and transforms compose right to left.
package linear

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance used to detect degenerate
// vectors.
const Epsilon = 1e-6

// Axes of the world frame.
var (
	AxisX = mgl32.Vec3{1, 0, 0}
	AxisY = mgl32.Vec3{0, 1, 0}
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// Orthogonalize returns up adjusted to be perpendicular
// to dir, computed as dir × (up × dir) and normalized.
// If up is collinear with dir (or either is the zero
// vector), it returns Perpendicular(dir) instead.
func Orthogonalize(dir, up mgl32.Vec3) mgl32.Vec3 {
	u := dir.Cross(up.Cross(dir))
	if l := u.Len(); l > Epsilon {
		return u.Mul(1 / l)
	}
	return Perpendicular(dir)
}

// Perpendicular returns a unit vector perpendicular to v.
// It crosses v with the world axis least aligned with it.
// If v is the zero vector, it returns AxisY.
func Perpendicular(v mgl32.Vec3) mgl32.Vec3 {
	ax, ay, az := abs(v[0]), abs(v[1]), abs(v[2])
	var a mgl32.Vec3
	switch {
	case ax <= ay && ax <= az:
		a = AxisX
	case ay <= az:
		a = AxisY
	default:
		a = AxisZ
	}
	u := v.Cross(a)
	if l := u.Len(); l > Epsilon {
		return u.Mul(1 / l)
	}
	return AxisY
}

// Level returns v projected onto the horizontal (XZ)
// plane and normalized.
// ok is false if v has no horizontal component, in
// which case the returned vector is meaningless.
func Level(v mgl32.Vec3) (u mgl32.Vec3, ok bool) {
	u = mgl32.Vec3{v[0], 0, v[2]}
	l := u.Len()
	if l <= Epsilon {
		return u, false
	}
	return u.Mul(1 / l), true
}

// Basis returns the rotation-only look matrix that maps
// dir to -Z and up to +Y.
// up need not be orthogonal to dir.
func Basis(dir, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(mgl32.Vec3{}, dir, up)
}

// TransformDir returns m applied to the direction v
// (i.e., the translation of m is ignored).
func TransformDir(m *mgl32.Mat4, v mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// NormalMatrix returns the inverse transpose of the upper
// 3x3 of mv, used to transform normals into eye space.
func NormalMatrix(mv *mgl32.Mat4) mgl32.Mat3 {
	return mv.Mat3().Inv().Transpose()
}

// NearVec3 reports whether every component of a and b
// differs by at most tol.
// Unlike mgl32's ApproxEqual methods, the comparison is
// absolute, so values near zero compare as expected.
func NearVec3(a, b mgl32.Vec3, tol float32) bool {
	for i := range a {
		if abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// NearMat4 is like NearVec3 but for matrices.
func NearMat4(a, b mgl32.Mat4, tol float32) bool {
	for i := range a {
		if abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// NearMat3 is like NearVec3 but for 3x3 matrices.
func NearMat3(a, b mgl32.Mat3, tol float32) bool {
	for i := range a {
		if abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// Clamp returns x clamped to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	return max(lo, min(x, hi))
}

func abs(x float32) float32 { return float32(math.Abs(float64(x))) }
