// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package ogl implements driver interfaces using the
// OpenGL 4.1 core profile.
package ogl

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gviegas/mfgl/driver"
)

const driverName = "opengl"

// Driver implements driver.Driver and driver.GPU.
type Driver struct {
	open bool
	vao  uint32
	// Version string reported by the context.
	vers string
}

func init() {
	driver.Register(&Driver{})
}

// Open initializes the driver.
// A GL context must be current on the calling thread.
func (d *Driver) Open() (driver.GPU, error) {
	if d.open {
		return d, nil
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", driver.ErrNoContext, err)
	}
	d.vers = gl.GoStr(gl.GetString(gl.VERSION))
	// The core profile requires a bound vertex array
	// object for any attribute state.
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.Enable(gl.DEPTH_TEST)
	d.open = true
	slog.Info("opengl driver open", "version", d.vers)
	return d, nil
}

// Name returns the driver name.
func (d *Driver) Name() string { return driverName }

// Close deinitializes the driver.
func (d *Driver) Close() {
	if !d.open {
		return
	}
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &d.vao)
	*d = Driver{}
}

// Driver returns d.
func (d *Driver) Driver() driver.Driver { return d }

// Version returns the version string of the context.
// It is empty if the driver is not open.
func (d *Driver) Version() string { return d.vers }

// Viewport sets the viewport rectangle.
func (d *Driver) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// Clear clears the color and depth buffers.
func (d *Driver) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Enable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw draws non-indexed primitives.
func (d *Driver) Draw(topo driver.Topology, first, count int) {
	gl.DrawArrays(convTopology(topo), int32(first), int32(count))
}

// DrawIndexed draws indexed primitives.
func (d *Driver) DrawIndexed(topo driver.Topology, idx driver.Buffer, count int) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, idx.(*buffer).id)
	gl.DrawElements(convTopology(topo), int32(count), gl.UNSIGNED_SHORT, gl.PtrOffset(0))
}

// convTopology converts a driver.Topology into a GL
// primitive mode.
func convTopology(topo driver.Topology) uint32 {
	switch topo {
	case driver.TPoint:
		return gl.POINTS
	case driver.TLine:
		return gl.LINES
	case driver.TLineStrip:
		return gl.LINE_STRIP
	case driver.TTriangleStrip:
		return gl.TRIANGLE_STRIP
	case driver.TTriangleFan:
		return gl.TRIANGLE_FAN
	}
	return gl.TRIANGLES
}
