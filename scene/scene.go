// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scene provides functionality for creating and
// rendering scenes.
// A scene is a flat list of objects drawn in insertion
// order. There is no hierarchy, culling or sorting.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Scene defines a scene.
type Scene struct {
	objs  []*Object
	light *Lighting
}

// New creates an initialized scene containing objs.
func New(objs ...*Object) *Scene { return new(Scene).Init(objs...) }

// Init initializes a scene.
// Any previous content is discarded.
func (s *Scene) Init(objs ...*Object) *Scene {
	s.objs = s.objs[:0]
	s.light = nil
	s.Add(objs...)
	return s
}

// Add appends objs to the scene.
// nil objects are ignored.
func (s *Scene) Add(objs ...*Object) {
	for _, o := range objs {
		if o != nil {
			s.objs = append(s.objs, o)
		}
	}
}

// Remove removes o from the scene.
// It returns false if o is not in the scene.
func (s *Scene) Remove(o *Object) bool {
	for i := range s.objs {
		if s.objs[i] == o {
			s.objs = append(s.objs[:i], s.objs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of objects in the scene.
func (s *Scene) Len() int { return len(s.objs) }

// Objects returns the objects in draw order.
// The caller must not modify the returned slice.
func (s *Scene) Objects() []*Object { return s.objs }

// SetLighting sets the lighting shared by all objects.
// l can be nil.
func (s *Scene) SetLighting(l *Lighting) { s.light = l }

// Lighting returns the scene's lighting, or nil.
func (s *Scene) Lighting() *Lighting { return s.light }

// Render renders every object in order using the given
// view and projection matrices.
func (s *Scene) Render(view, proj *mgl32.Mat4) {
	for _, o := range s.objs {
		o.Render(view, proj, s.light)
	}
}
