// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/mfgl/camera"
	"github.com/gviegas/mfgl/engine"
	"github.com/gviegas/mfgl/wsi"
)

// controls moves the camera according to the keys held
// down and handles window events.
// It implements wsi.WindowHandler and wsi.KeyboardHandler.
type controls struct {
	rend      *engine.Renderer
	speed     float32
	turnSpeed float32
	held      map[wsi.Key]bool
	quit      bool
}

func newControls(rend *engine.Renderer, speed, turnSpeedDeg float32) *controls {
	return &controls{
		rend:      rend,
		speed:     speed,
		turnSpeed: mgl32.DegToRad(turnSpeedDeg),
		held:      make(map[wsi.Key]bool),
	}
}

func (c *controls) WindowClose(wsi.Window) { c.quit = true }

func (c *controls) WindowResize(_ wsi.Window, width, height int) {
	if err := c.rend.Resize(width, height); err != nil {
		slog.Warn("tutorial: resize failed", "err", err)
	}
}

func (c *controls) KeyboardIn(wsi.Window) {}

// KeyboardOut releases every key, since releases are not
// reported while the window is out of focus.
func (c *controls) KeyboardOut(wsi.Window) { clear(c.held) }

func (c *controls) KeyboardKey(key wsi.Key, pressed bool, _ wsi.Modifier) {
	c.held[key] = pressed
	if !pressed {
		return
	}
	switch key {
	case wsi.KeyEsc:
		c.quit = true
	case wsi.KeyM:
		cam := c.rend.Camera()
		if cam == nil {
			return
		}
		mode := camera.ModeFree
		if cam.RotationMode() == camera.ModeFree {
			mode = camera.ModeTwoAngle
		}
		cam.SetRotationMode(mode)
		slog.Info("tutorial: rotation mode", "mode", mode)
	case wsi.KeyL:
		scn := c.rend.Scene()
		if scn == nil || scn.Lighting() == nil {
			return
		}
		light := scn.Lighting()
		if light.On() {
			light.TurnOff()
		} else {
			light.TurnOn()
		}
	case wsi.KeyHome:
		c.rend.ResetTimer()
	}
}

// update is an engine.Listener that applies the held
// keys to the camera.
func (c *controls) update(_, sinceLast time.Duration) {
	cam := c.rend.Camera()
	if cam == nil {
		return
	}
	dt := float32(sinceLast.Seconds())
	move, turn := c.speed*dt, c.turnSpeed*dt
	for _, x := range [...]struct {
		key wsi.Key
		fn  func(float32)
		d   float32
	}{
		{wsi.KeyW, cam.MoveForward, move},
		{wsi.KeyS, cam.MoveBack, move},
		{wsi.KeyA, cam.MoveLeft, move},
		{wsi.KeyD, cam.MoveRight, move},
		{wsi.KeyR, cam.MoveUp, move},
		{wsi.KeyF, cam.MoveDown, move},
		{wsi.KeyLeft, cam.LookLeft, turn},
		{wsi.KeyRight, cam.LookRight, turn},
		{wsi.KeyUp, cam.LookUp, turn},
		{wsi.KeyDown, cam.LookDown, turn},
		{wsi.KeyQ, cam.TiltLeft, turn},
		{wsi.KeyE, cam.TiltRight, turn},
	} {
		if c.held[x.key] {
			x.fn(x.d)
		}
	}
}
