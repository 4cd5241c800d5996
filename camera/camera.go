// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package camera implements the view and projection
// transforms used to render a scene.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/mfgl/linear"
)

// Type is the type of projection.
type Type int

// Projection types.
const (
	Perspective Type = iota
	Orthographic
)

func (t Type) String() string {
	switch t {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	}
	return "unknown type"
}

// Default projection parameters.
const (
	DefaultViewAngle = math.Pi / 4
	DefaultNear      = 0.1
	DefaultFar       = 100
)

// Camera defines the view and projection of a scene.
//
// The view matrix is the product of the rotation
// accumulated by look calls and a look matrix built
// from position, look-at point and tilt.
// Calls that set the pose explicitly discard any
// accumulated rotation, whereas move calls keep it.
type Camera struct {
	// Type is the projection type.
	Type Type
	// ViewAngle is the vertical field of view, in radians,
	// for Perspective projection.
	// For Orthographic projection, it is the total height
	// of the visible volume instead.
	ViewAngle float32
	// Near and Far are the clip planes.
	// Near must be less than Far.
	Near, Far float32

	pos     mgl32.Vec3
	look    mgl32.Vec3
	tilt    mgl32.Vec3
	dir     mgl32.Vec3
	lookMat mgl32.Mat4
	rot     Rotator
}

// New creates a new camera.
// It is positioned at the origin looking down the -Z
// axis, with +Y as tilt, and uses ModeTwoAngle.
func New(typ Type, viewAngle, near, far float32) *Camera {
	c := &Camera{
		Type:      typ,
		ViewAngle: viewAngle,
		Near:      near,
		Far:       far,
		look:      mgl32.Vec3{0, 0, -1},
		tilt:      linear.AxisY,
		rot:       NewTwoAngle(),
	}
	c.pose(true)
	return c
}

// Default creates a perspective camera using the default
// projection parameters.
func Default() *Camera { return New(Perspective, DefaultViewAngle, DefaultNear, DefaultFar) }

// pose updates the derived state after a change to
// position, look-at point or tilt.
// The tilt is made perpendicular to the direction.
// If reset is true, accumulated rotation is discarded.
func (c *Camera) pose(reset bool) {
	c.dir = c.look.Sub(c.pos)
	c.tilt = linear.Orthogonalize(c.dir, c.tilt)
	c.lookMat = mgl32.LookAtV(c.pos, c.look, c.tilt)
	if reset {
		c.rot.Reset()
	}
}

// Projection computes the projection matrix for a
// viewport of the given size.
// height must not be zero.
func (c *Camera) Projection(width, height int) mgl32.Mat4 {
	aspect := float32(width) / float32(height)
	if c.Type == Orthographic {
		h := c.ViewAngle
		w := h * aspect
		return mgl32.Ortho(-w/2, w/2, -h/2, h/2, c.Near, c.Far)
	}
	return mgl32.Perspective(c.ViewAngle, aspect, c.Near, c.Far)
}

// View computes the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	r := c.rot.Matrix()
	return r.Mul4(c.lookMat)
}

// SetLookFromTo sets both position and look-at point.
func (c *Camera) SetLookFromTo(from, to mgl32.Vec3) {
	c.pos = from
	c.look = to
	c.pose(true)
}

// SetLookFromToTilt sets position, look-at point and tilt.
func (c *Camera) SetLookFromToTilt(from, to, tilt mgl32.Vec3) {
	c.pos = from
	c.look = to
	c.tilt = tilt
	c.pose(true)
}

// SetPosition sets the position.
func (c *Camera) SetPosition(from mgl32.Vec3) {
	c.pos = from
	c.pose(true)
}

// SetLookAt sets the look-at point.
func (c *Camera) SetLookAt(to mgl32.Vec3) {
	c.look = to
	c.pose(true)
}

// SetTilt sets the tilt (i.e., the up reference).
// It need not be perpendicular to the direction.
func (c *Camera) SetTilt(tilt mgl32.Vec3) {
	c.tilt = tilt
	c.pose(true)
}

// Position returns the position.
func (c *Camera) Position() mgl32.Vec3 { return c.pos }

// LookAt returns the look-at point.
func (c *Camera) LookAt() mgl32.Vec3 { return c.look }

// Tilt returns the tilt, perpendicular to Direction.
func (c *Camera) Tilt() mgl32.Vec3 { return c.tilt }

// Direction returns LookAt minus Position.
func (c *Camera) Direction() mgl32.Vec3 { return c.dir }

// SetRotationMode replaces the rotation strategy.
// Accumulated rotation is discarded, even if mode
// is the current one.
func (c *Camera) SetRotationMode(mode Mode) { c.rot = NewRotator(mode) }

// RotationMode returns the current rotation mode.
func (c *Camera) RotationMode() Mode { return c.rot.Mode() }

// Rotator returns the rotation strategy.
func (c *Camera) Rotator() Rotator { return c.rot }

// LookLeft turns the camera left by delta radians.
func (c *Camera) LookLeft(delta float32) { c.rot.Look(Yaw, -delta) }

// LookRight turns the camera right by delta radians.
func (c *Camera) LookRight(delta float32) { c.rot.Look(Yaw, delta) }

// LookUp turns the camera up by delta radians.
func (c *Camera) LookUp(delta float32) { c.rot.Look(Pitch, -delta) }

// LookDown turns the camera down by delta radians.
func (c *Camera) LookDown(delta float32) { c.rot.Look(Pitch, delta) }

// TiltLeft rolls the camera counter-clockwise.
// It has no effect in ModeTwoAngle.
func (c *Camera) TiltLeft(delta float32) { c.rot.Look(Roll, -delta) }

// TiltRight rolls the camera clockwise.
// It has no effect in ModeTwoAngle.
func (c *Camera) TiltRight(delta float32) { c.rot.Look(Roll, delta) }

// move translates both position and look-at point by
// local, which is given in camera space.
func (c *Camera) move(local mgl32.Vec3) {
	b := c.rot.MoveBasis(c.dir, c.tilt)
	inv := b.Inv()
	d := linear.TransformDir(&inv, local)
	c.pos = c.pos.Add(d)
	c.look = c.look.Add(d)
	c.pose(false)
}

// MoveLeft moves the camera to its left.
func (c *Camera) MoveLeft(delta float32) { c.move(mgl32.Vec3{-delta, 0, 0}) }

// MoveRight moves the camera to its right.
func (c *Camera) MoveRight(delta float32) { c.move(mgl32.Vec3{delta, 0, 0}) }

// MoveUp moves the camera upward.
func (c *Camera) MoveUp(delta float32) { c.move(mgl32.Vec3{0, delta, 0}) }

// MoveDown moves the camera downward.
func (c *Camera) MoveDown(delta float32) { c.move(mgl32.Vec3{0, -delta, 0}) }

// MoveForward moves the camera forward.
// In ModeTwoAngle, it does not change the height unless
// the camera looks straight up or down.
func (c *Camera) MoveForward(delta float32) { c.move(mgl32.Vec3{0, 0, -delta}) }

// MoveBack moves the camera backward.
func (c *Camera) MoveBack(delta float32) { c.move(mgl32.Vec3{0, 0, delta}) }
