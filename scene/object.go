// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Material is the interface that wraps the Render method.
//
// Render draws m using view and proj as the view and
// projection matrices.
// light is nil when the scene has no lighting.
// Materials may be shared by any number of objects.
type Material interface {
	Render(m *Model, view, proj *mgl32.Mat4, light *Lighting)
}

// Object pairs a Model with the Material used to
// render it.
type Object struct {
	model *Model
	mat   Material
}

// NewObject creates a new object.
func NewObject(m *Model, mat Material) *Object { return &Object{m, mat} }

// Model returns the object's model.
func (o *Object) Model() *Model { return o.model }

// Material returns the object's material.
func (o *Object) Material() Material { return o.mat }

// SetMaterial replaces the object's material.
func (o *Object) SetMaterial(mat Material) { o.mat = mat }

// SetPosition sets the position of the model.
func (o *Object) SetPosition(pos mgl32.Vec3) { o.model.SetPosition(pos) }

// ClearPosition removes the position of the model.
func (o *Object) ClearPosition() { o.model.ClearPosition() }

// SetRotation sets the rotation of the model.
func (o *Object) SetRotation(angle float32, axis mgl32.Vec3) { o.model.SetRotation(angle, axis) }

// ClearRotation removes the rotation of the model.
func (o *Object) ClearRotation() { o.model.ClearRotation() }

// Render renders the object's model using its material.
func (o *Object) Render(view, proj *mgl32.Mat4, light *Lighting) {
	o.mat.Render(o.model, view, proj, light)
}
