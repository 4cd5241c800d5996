// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/mfgl/linear"
)

// Mode identifies a Rotator implementation.
type Mode int

// Rotation modes.
const (
	// ModeTwoAngle uses a clamped pitch and an unbounded
	// yaw. Roll is not supported.
	ModeTwoAngle Mode = iota
	// ModeFree accumulates arbitrary rotations in a single
	// matrix.
	ModeFree
)

func (m Mode) String() string {
	switch m {
	case ModeTwoAngle:
		return "two-angle"
	case ModeFree:
		return "free"
	}
	return "unknown mode"
}

// Axis identifies the axis of a look rotation.
type Axis int

// Look axes.
const (
	Yaw Axis = iota
	Pitch
	Roll
)

// Rotator is the interface that defines how interactive
// look rotation accumulates and how it affects movement.
type Rotator interface {
	// Look rotates about axis by delta radians.
	Look(axis Axis, delta float32)

	// Matrix returns the accumulated rotation.
	// It is applied after the camera's look matrix.
	Matrix() mgl32.Mat4

	// MoveBasis returns the rotation whose inverse maps
	// camera-local movement into world space, given the
	// current direction and tilt of the camera.
	MoveBasis(dir, tilt mgl32.Vec3) mgl32.Mat4

	// Reset discards any accumulated rotation.
	Reset()

	// Mode returns the rotation mode.
	Mode() Mode
}

// NewRotator creates a Rotator for the given mode.
// Unknown modes yield a TwoAngle rotator.
func NewRotator(mode Mode) Rotator {
	if mode == ModeFree {
		return NewFree()
	}
	return NewTwoAngle()
}

// TwoAngle is a Rotator that composes a pitch rotation
// with a yaw rotation, in this order.
// Pitch is clamped to [-π/2, π/2].
type TwoAngle struct {
	angleX float32
	angleY float32
	rotX   mgl32.Mat4
	rotY   mgl32.Mat4
	rot    mgl32.Mat4
}

// NewTwoAngle creates a TwoAngle rotator with no rotation.
func NewTwoAngle() *TwoAngle {
	r := new(TwoAngle)
	r.Reset()
	return r
}

// Look implements Rotator.
// Roll rotation is ignored.
func (r *TwoAngle) Look(axis Axis, delta float32) {
	switch axis {
	case Yaw:
		r.angleY += delta
		r.rotY = mgl32.HomogRotate3DY(r.angleY)
	case Pitch:
		r.angleX = linear.Clamp(r.angleX+delta, -math.Pi/2, math.Pi/2)
		r.rotX = mgl32.HomogRotate3DX(r.angleX)
	default:
		return
	}
	r.rot = r.rotX.Mul4(r.rotY)
}

// Matrix implements Rotator.
func (r *TwoAngle) Matrix() mgl32.Mat4 { return r.rot }

// MoveBasis implements Rotator.
// Only yaw is considered, and the direction has its
// vertical component removed, so that movement stays
// on the horizontal plane.
func (r *TwoAngle) MoveBasis(dir, tilt mgl32.Vec3) mgl32.Mat4 {
	var b mgl32.Mat4
	if lvl, ok := linear.Level(dir); ok {
		b = linear.Basis(lvl, linear.AxisY)
	} else {
		b = linear.Basis(dir, tilt)
	}
	return r.rotY.Mul4(b)
}

// Reset implements Rotator.
func (r *TwoAngle) Reset() {
	r.angleX, r.angleY = 0, 0
	r.rotX = mgl32.Ident4()
	r.rotY = mgl32.Ident4()
	r.rot = mgl32.Ident4()
}

// Mode implements Rotator.
func (r *TwoAngle) Mode() Mode { return ModeTwoAngle }

// Angles returns the pitch and yaw angles, in radians.
func (r *TwoAngle) Angles() (pitch, yaw float32) { return r.angleX, r.angleY }

// Free is a Rotator that left-multiplies incremental
// rotations into an accumulated matrix.
// The result depends on the order of the calls.
type Free struct {
	rot mgl32.Mat4
}

// NewFree creates a Free rotator with no rotation.
func NewFree() *Free { return &Free{rot: mgl32.Ident4()} }

// Look implements Rotator.
// Yaw is about the world up axis, as seen from the rotated
// frame. Pitch and roll are about the local X and Z axes.
func (r *Free) Look(axis Axis, delta float32) {
	var inc mgl32.Mat4
	switch axis {
	case Yaw:
		up := linear.TransformDir(&r.rot, linear.AxisY)
		inc = mgl32.HomogRotate3D(delta, up.Normalize())
	case Pitch:
		inc = mgl32.HomogRotate3DX(delta)
	case Roll:
		inc = mgl32.HomogRotate3DZ(delta)
	default:
		return
	}
	r.rot = inc.Mul4(r.rot)
}

// Matrix implements Rotator.
func (r *Free) Matrix() mgl32.Mat4 { return r.rot }

// MoveBasis implements Rotator.
func (r *Free) MoveBasis(dir, tilt mgl32.Vec3) mgl32.Mat4 {
	return r.rot.Mul4(linear.Basis(dir, tilt))
}

// Reset implements Rotator.
func (r *Free) Reset() { r.rot = mgl32.Ident4() }

// Mode implements Rotator.
func (r *Free) Mode() Mode { return ModeFree }
