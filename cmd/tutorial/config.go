// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/gviegas/mfgl/camera"
	"github.com/gviegas/mfgl/engine"
)

// config is the tutorial's configuration file.
type config struct {
	Renderer engine.Config `toml:"renderer"`
	Camera   cameraConfig  `toml:"camera"`
	// Image files used as textures of the cubes.
	// A generated checkerboard is used when empty.
	Textures []string `toml:"textures"`
	// Movement speed, in units per second.
	Speed float32 `toml:"speed"`
	// Rotation speed, in degrees per second.
	TurnSpeed float32 `toml:"turn_speed"`
}

type cameraConfig struct {
	Mode         string     `toml:"mode"`
	Orthographic bool       `toml:"orthographic"`
	ViewAngle    float32    `toml:"view_angle"`
	Near         float32    `toml:"near"`
	Far          float32    `toml:"far"`
	Position     [3]float32 `toml:"position"`
	LookAt       [3]float32 `toml:"look_at"`
}

func defaultConfig() config {
	return config{
		Renderer: engine.DefaultConfig(),
		Camera: cameraConfig{
			Mode:      camera.ModeTwoAngle.String(),
			ViewAngle: mgl32.RadToDeg(camera.DefaultViewAngle),
			Near:      camera.DefaultNear,
			Far:       camera.DefaultFar,
			Position:  [3]float32{0, 1, 6},
			LookAt:    [3]float32{0, 0, 0},
		},
		Speed:     3,
		TurnSpeed: 90,
	}
}

// decodeConfig decodes a TOML configuration from r.
func decodeConfig(r io.Reader) (config, error) {
	cfg := defaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return config{}, err
	}
	if err := cfg.Renderer.Validate(); err != nil {
		return config{}, err
	}
	if _, err := parseMode(cfg.Camera.Mode); err != nil {
		return config{}, err
	}
	return cfg, nil
}

// loadConfig decodes the file at path, or returns the
// default configuration if path is empty.
func loadConfig(path string) (config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return config{}, err
	}
	return decodeConfig(bytes.NewReader(b))
}

func parseMode(s string) (camera.Mode, error) {
	for _, m := range [...]camera.Mode{camera.ModeTwoAngle, camera.ModeFree} {
		if s == m.String() {
			return m, nil
		}
	}
	return 0, errors.New("tutorial: unknown rotation mode " + s)
}

// newCamera creates the camera described by c.
func (c *cameraConfig) newCamera() *camera.Camera {
	typ := camera.Perspective
	if c.Orthographic {
		typ = camera.Orthographic
	}
	cam := camera.New(typ, mgl32.DegToRad(c.ViewAngle), c.Near, c.Far)
	if mode, err := parseMode(c.Mode); err == nil {
		cam.SetRotationMode(mode)
	}
	cam.SetLookFromTo(c.Position, c.LookAt)
	return cam
}
