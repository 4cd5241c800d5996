// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"image"
)

// GPU is the main interface to an underlying driver
// implementation.
// It is used to create other types and to issue commands.
// Commands take effect immediately, in call order; there
// is no command recording.
// A GPU is obtained from a call to Driver.Open.
// GPU methods must be called from the thread that owns
// the rendering context.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// NewVertexBuf creates a vertex attribute buffer and
	// uploads data into it.
	// itemSize is the number of float components per
	// vertex, so len(data) must be a multiple of it.
	NewVertexBuf(data []float32, itemSize int) (Buffer, error)

	// NewIndexBuf creates an index buffer and uploads
	// data into it.
	NewIndexBuf(data []uint16) (Buffer, error)

	// NewProgram compiles and links a shader program from
	// vertex and fragment source code.
	// When compilation or linking fails, the returned
	// Program is still non-nil and can be used, although
	// draw calls made with it are undefined.
	NewProgram(vert, frag string) (Program, error)

	// NewTexture creates a 2D texture from img.
	// Rows are flipped so that texture coordinate (0, 0)
	// refers to the bottom-left corner of the image.
	NewTexture(img image.Image, filter Filter) (Texture, error)

	// Viewport sets the viewport rectangle.
	Viewport(x, y, width, height int)

	// Clear clears the color and depth buffers.
	// Depth testing is enabled as a side effect.
	Clear(r, g, b, a float32)

	// Draw draws count vertices starting at first, using
	// the current program and its attributes.
	Draw(topo Topology, first, count int)

	// DrawIndexed draws count indices from idx, using the
	// current program and its attributes.
	DrawIndexed(topo Topology, idx Buffer, count int)
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may allocate external
// memory that is not managed by GC, so Destroy must be
// called explicitly to ensure such memory is deallocated.
type Destroyer interface {
	Destroy()
}

// Buffer is the interface that defines a GPU buffer.
type Buffer interface {
	Destroyer

	// Len returns the number of items in the buffer.
	// For vertex buffers, this is the number of vertices;
	// for index buffers, the number of indices.
	Len() int

	// ItemSize returns the number of components per item.
	// It is always 1 for index buffers.
	ItemSize() int
}

// Program is the interface that defines a linked shader
// program and the state bound to it.
// Setters that name a variable the program does not use
// are silently ignored.
type Program interface {
	Destroyer

	// Use makes the program current.
	// Setters must only be called while the program is
	// current.
	Use()

	// SetAttrib binds a vertex buffer to the named
	// attribute.
	// A nil buf disables the attribute, so that it reads
	// a constant value instead.
	SetAttrib(name string, buf Buffer)

	// SetMat4 sets a mat4 uniform (column-major).
	SetMat4(name string, m *[16]float32)

	// SetMat3 sets a mat3 uniform (column-major).
	SetMat3(name string, m *[9]float32)

	// SetVec3 sets a vec3 uniform.
	SetVec3(name string, v *[3]float32)

	// SetInt sets an int (or sampler) uniform.
	SetInt(name string, i int)

	// SetBool sets a bool uniform.
	SetBool(name string, b bool)

	// SetTexture binds tex to the given texture unit and
	// sets the named sampler uniform to that unit.
	SetTexture(name string, unit int, tex Texture)
}

// Texture is the interface that defines a 2D texture.
type Texture interface {
	Destroyer

	// Width returns the width of the texture in pixels.
	Width() int

	// Height returns the height of the texture in pixels.
	Height() int
}

// Topology is the type of primitive topologies.
type Topology int

// Primitive topologies.
const (
	TPoint Topology = iota
	TLine
	TLineStrip
	TTriangle
	TTriangleStrip
	TTriangleFan
)

// String implements fmt.Stringer.
func (t Topology) String() string {
	switch t {
	case TPoint:
		return "points"
	case TLine:
		return "lines"
	case TLineStrip:
		return "line strip"
	case TTriangle:
		return "triangles"
	case TTriangleStrip:
		return "triangle strip"
	case TTriangleFan:
		return "triangle fan"
	}
	return "unknown topology"
}

// Filter is the type of texture filters.
type Filter int

// Texture filters.
const (
	FNearest Filter = iota
	FLinear
)
