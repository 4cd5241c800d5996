// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package engine implements real-time rendering.
//
// A Renderer owns the size of a drawing surface and drives
// the frame cycle: it notifies frame listeners, clears the
// surface, keeps the camera's projection up to date and
// renders a scene.Scene from the point of view of a
// camera.Camera.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const cfgPrefix = "engine: "

func newCfgErr(reason string) error { return errors.New(cfgPrefix + reason) }

// Sizing is the policy used to size the drawing surface.
type Sizing int

// Sizing policies.
const (
	// FullScreen sizes the surface to fill the screen.
	FullScreen Sizing = iota
	// FixedSize sizes the surface to Config.Width by
	// Config.Height.
	FixedSize
	// UserDefined uses the size given to Renderer.Resize.
	UserDefined
)

var sizingNames = [...]string{
	FullScreen:  "fullscreen",
	FixedSize:   "fixed",
	UserDefined: "user",
}

func (s Sizing) String() string {
	if s < 0 || int(s) >= len(sizingNames) {
		return "Sizing(" + strconv.Itoa(int(s)) + ")"
	}
	return sizingNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Sizing) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(sizingNames) {
		return nil, newCfgErr("invalid sizing policy " + s.String())
	}
	return []byte(sizingNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sizing) UnmarshalText(text []byte) error {
	for i, n := range sizingNames {
		if string(text) == n {
			*s = Sizing(i)
			return nil
		}
	}
	return newCfgErr("unknown sizing policy " + strconv.Quote(string(text)))
}

const (
	dflWidth  = 800
	dflHeight = 600
)

// Config is used to configure a Renderer.
type Config struct {
	// Name of the driver to load when using Open.
	// Any driver whose name contains this string,
	// ignoring case, may be selected.
	//
	// Default is the empty string (any driver).
	Driver string `toml:"driver"`

	// The policy used to size the surface.
	//
	// Default is FixedSize.
	Sizing Sizing `toml:"sizing"`

	// Size of the surface under the FixedSize policy,
	// and initial size under UserDefined.
	//
	// Default is 800x600.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Color used to clear the surface at the start
	// of every frame.
	//
	// Default is opaque black.
	ClearColor [4]float32 `toml:"clear_color"`

	// Logger receives diagnostics.
	//
	// Default is slog.Default().
	Logger *slog.Logger `toml:"-"`

	// Clock returns the current time.
	//
	// Default is time.Now.
	Clock func() time.Time `toml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Sizing:     FixedSize,
		Width:      dflWidth,
		Height:     dflHeight,
		ClearColor: [4]float32{0, 0, 0, 1},
	}
}

// Validate checks whether c is a valid configuration.
func (c *Config) Validate() error {
	if c.Sizing < 0 || int(c.Sizing) >= len(sizingNames) {
		return newCfgErr("invalid sizing policy " + c.Sizing.String())
	}
	if c.Sizing == FixedSize && (c.Width <= 0 || c.Height <= 0) {
		return newCfgErr("fixed size requires positive width and height")
	}
	for _, x := range c.ClearColor {
		if x < 0 || x > 1 {
			return newCfgErr("clear color out of range")
		}
	}
	return nil
}

// logger returns c.Logger or the default logger.
func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// clock returns c.Clock or time.Now.
func (c *Config) clock() func() time.Time {
	if c.Clock != nil {
		return c.Clock
	}
	return time.Now
}

// DecodeConfig decodes a TOML configuration from r.
// Fields missing from the input keep their default
// values. Unknown fields are an error.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf(cfgPrefix+"%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig decodes the TOML configuration file at path.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return DecodeConfig(bytes.NewReader(b))
}
