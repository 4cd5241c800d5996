// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package ogl

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"

	"github.com/gviegas/mfgl/driver"
)

// texture implements driver.Texture.
type texture struct {
	id     uint32
	width  int
	height int
}

// NewTexture creates a new 2D texture.
func (d *Driver) NewTexture(img image.Image, filter driver.Filter) (driver.Texture, error) {
	rgba := flipRGBA(img)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, driver.ErrEmpty
	}
	t := &texture{width: w, height: h}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	var f int32 = gl.NEAREST
	if filter == driver.FLinear {
		f = gl.LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, f)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, f)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if gl.GetError() == gl.OUT_OF_MEMORY {
		t.Destroy()
		return nil, driver.ErrNoDeviceMemory
	}
	return t, nil
}

// flipRGBA converts img to tightly packed RGBA with the
// rows in bottom-up order, as glTexImage2D expects.
func flipRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	stride := rgba.Stride
	row := make([]byte, stride)
	for top, bot := 0, rgba.Rect.Dy()-1; top < bot; top, bot = top+1, bot-1 {
		t := rgba.Pix[top*stride : (top+1)*stride]
		u := rgba.Pix[bot*stride : (bot+1)*stride]
		copy(row, t)
		copy(t, u)
		copy(u, row)
	}
	return rgba
}

// Width returns the texture width.
func (t *texture) Width() int { return t.width }

// Height returns the texture height.
func (t *texture) Height() int { return t.height }

// Destroy destroys the texture.
func (t *texture) Destroy() {
	if t == nil || t.id == 0 {
		return
	}
	gl.DeleteTextures(1, &t.id)
	*t = texture{}
}
