// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Lighting defines the lighting of a scene: an ambient
// term plus a single directional light.
// Colors are RGB triples in the range [0, 1].
type Lighting struct {
	Ambient     mgl32.Vec3
	Directional mgl32.Vec3
	dir         mgl32.Vec3
	on          bool
}

// NewLighting creates a new lighting descriptor that
// is turned on.
// direction is the direction in which the light travels.
func NewLighting(ambient, directional, direction mgl32.Vec3) *Lighting {
	l := &Lighting{Ambient: ambient, Directional: directional, on: true}
	l.SetDirection(direction)
	return l
}

// SetDirection sets the direction in which the light
// travels.
// It is stored normalized and negated.
func (l *Lighting) SetDirection(direction mgl32.Vec3) {
	if n := direction.Len(); n > 0 {
		l.dir = direction.Mul(-1 / n)
	} else {
		l.dir = mgl32.Vec3{}
	}
}

// Direction returns the unit vector that points from a
// surface toward the light.
func (l *Lighting) Direction() mgl32.Vec3 { return l.dir }

// TurnOn enables the lighting.
func (l *Lighting) TurnOn() { l.on = true }

// TurnOff disables the lighting.
// Materials then render without shading.
func (l *Lighting) TurnOff() { l.on = false }

// On returns whether the lighting is enabled.
func (l *Lighting) On() bool { return l.on }
