// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package texture loads images into GPU textures.
// PNG, JPEG, GIF, BMP, TIFF and WebP files are supported.
package texture

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gviegas/mfgl/driver"
)

const texPrefix = "texture: "

func newTexErr(reason string) error { return errors.New(texPrefix + reason) }

// Texture is an image stored in GPU memory.
// The image is flipped vertically on upload, so texture
// coordinate (0, 0) refers to its lower-left corner.
type Texture struct {
	tex  driver.Texture
	name string
}

// New creates a new texture from img.
func New(gpu driver.GPU, img image.Image, filter driver.Filter) (*Texture, error) {
	if img == nil {
		return nil, newTexErr("nil image")
	}
	tex, err := gpu.NewTexture(img, filter)
	if err != nil {
		return nil, err
	}
	return &Texture{tex: tex}, nil
}

// Open creates a new texture from the image file at
// path, using nearest filtering.
func Open(gpu driver.GPU, path string) (*Texture, error) {
	img, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	t, err := New(gpu, img, driver.FNearest)
	if err != nil {
		return nil, err
	}
	t.name = path
	return t, nil
}

// Decode decodes an image in any of the supported formats.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.New(texPrefix + err.Error())
	}
	return img, nil
}

// DecodeFile decodes the image file at path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Width returns the width in pixels.
func (t *Texture) Width() int { return t.tex.Width() }

// Height returns the height in pixels.
func (t *Texture) Height() int { return t.tex.Height() }

// Name returns the path of the file the texture was
// loaded from, or the empty string.
func (t *Texture) Name() string { return t.name }

// GPU returns the underlying driver.Texture.
func (t *Texture) GPU() driver.Texture { return t.tex }

// Free invalidates t and destroys the driver.Texture.
func (t *Texture) Free() {
	if t.tex != nil {
		t.tex.Destroy()
	}
	*t = Texture{}
}
