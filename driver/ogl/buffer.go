// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package ogl

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gviegas/mfgl/driver"
)

// buffer implements driver.Buffer.
type buffer struct {
	id       uint32
	n        int
	itemSize int
}

// NewVertexBuf creates a new vertex buffer.
func (d *Driver) NewVertexBuf(data []float32, itemSize int) (driver.Buffer, error) {
	if len(data) == 0 {
		return nil, driver.ErrEmpty
	}
	if itemSize < 1 || len(data)%itemSize != 0 {
		return nil, errors.New("ogl: vertex data length is not a multiple of item size")
	}
	b := &buffer{n: len(data) / itemSize, itemSize: itemSize}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	if gl.GetError() == gl.OUT_OF_MEMORY {
		b.Destroy()
		return nil, driver.ErrNoDeviceMemory
	}
	return b, nil
}

// NewIndexBuf creates a new index buffer.
func (d *Driver) NewIndexBuf(data []uint16) (driver.Buffer, error) {
	if len(data) == 0 {
		return nil, driver.ErrEmpty
	}
	b := &buffer{n: len(data), itemSize: 1}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.id)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)
	if gl.GetError() == gl.OUT_OF_MEMORY {
		b.Destroy()
		return nil, driver.ErrNoDeviceMemory
	}
	return b, nil
}

// Len returns the number of items in the buffer.
func (b *buffer) Len() int { return b.n }

// ItemSize returns the number of components per item.
func (b *buffer) ItemSize() int { return b.itemSize }

// Destroy destroys the buffer.
func (b *buffer) Destroy() {
	if b == nil || b.id == 0 {
		return
	}
	gl.DeleteBuffers(1, &b.id)
	*b = buffer{}
}
