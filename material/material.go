// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package material implements scene.Material for
// vertex-colored and textured models.
// Both materials support the scene's simple lighting
// when the model has normals.
package material

import (
	_ "embed"
	"errors"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/mfgl/driver"
	"github.com/gviegas/mfgl/linear"
	"github.com/gviegas/mfgl/scene"
)

const matPrefix = "material: "

func newMatErr(reason string) error { return errors.New(matPrefix + reason) }

// Names of shader inputs.
const (
	AttribPosition = "aVertexPosition"
	AttribNormal   = "aVertexNormal"
	AttribColor    = "aVertexColor"
	AttribTexCoord = "aTextureCoord"

	UnifModelView   = "uModelViewMatrix"
	UnifProjection  = "uProjectionMatrix"
	UnifNormal      = "uNMatrix"
	UnifAmbient     = "uAmbientColor"
	UnifLightDir    = "uLightingDirection"
	UnifDirectional = "uDirectionalColor"
	UnifUseLighting = "uUseLighting"
	UnifSampler     = "uSampler"
)

var (
	//go:embed shader/color.vert
	colorVert string
	//go:embed shader/color.frag
	colorFrag string
	//go:embed shader/texture.vert
	textureVert string
	//go:embed shader/texture.frag
	textureFrag string
)

// base is the state common to all materials.
type base struct {
	prog driver.Program
}

// init creates the program.
// Shader errors are logged rather than returned,
// and the program is kept regardless.
func (b *base) init(gpu driver.GPU, name, vert, frag string) {
	var err error
	b.prog, err = gpu.NewProgram(vert, frag)
	if err != nil {
		slog.Warn(matPrefix+"could not initialize shaders", "material", name, "err", err)
	}
}

// setup makes the program current and sets the inputs
// common to all materials.
func (b *base) setup(m *scene.Model, view, proj *mgl32.Mat4, light *scene.Lighting) {
	p := b.prog
	p.Use()

	mv := m.ApplyTransforms(*view)
	p.SetMat4(UnifModelView, (*[16]float32)(&mv))
	p.SetMat4(UnifProjection, (*[16]float32)(proj))
	p.SetAttrib(AttribPosition, m.VertexBuf())

	lit := light != nil && light.On() && m.NormalBuf() != nil
	p.SetBool(UnifUseLighting, lit)
	if !lit {
		p.SetAttrib(AttribNormal, nil)
		return
	}
	p.SetAttrib(AttribNormal, m.NormalBuf())
	n := linear.NormalMatrix(&mv)
	p.SetMat3(UnifNormal, (*[9]float32)(&n))
	amb, dir, col := light.Ambient, light.Direction(), light.Directional
	p.SetVec3(UnifAmbient, (*[3]float32)(&amb))
	p.SetVec3(UnifLightDir, (*[3]float32)(&dir))
	p.SetVec3(UnifDirectional, (*[3]float32)(&col))
}

// Program returns the shader program.
func (b *base) Program() driver.Program { return b.prog }

// Free destroys the shader program.
// Objects using the material must not be rendered
// afterwards.
func (b *base) Free() {
	if b.prog != nil {
		b.prog.Destroy()
		b.prog = nil
	}
}

// VertexColor is a material that interpolates per-vertex
// RGBA colors.
type VertexColor struct{ base }

// NewVertexColor creates a new VertexColor material.
func NewVertexColor(gpu driver.GPU) *VertexColor {
	v := new(VertexColor)
	v.init(gpu, "vertex color", colorVert, colorFrag)
	return v
}

// Render implements scene.Material.
func (v *VertexColor) Render(m *scene.Model, view, proj *mgl32.Mat4, light *scene.Lighting) {
	v.setup(m, view, proj, light)
	v.prog.SetAttrib(AttribColor, m.Attrib(AttribColor))
	m.Draw()
}

// NewColorObject creates an object from geom and
// per-vertex colors.
// If mat is nil, a new VertexColor is created for the
// object.
func NewColorObject(gpu driver.GPU, geom *scene.Geometry, colors []mgl32.Vec4, mat *VertexColor) (*scene.Object, error) {
	m, err := scene.NewModel(gpu, geom)
	if err != nil {
		return nil, err
	}
	if len(colors) != m.Len() {
		m.Free()
		return nil, newMatErr("color count differs from vertex count")
	}
	data := make([]float32, 0, 4*len(colors))
	for i := range colors {
		data = append(data, colors[i][:]...)
	}
	if err = m.SetAttrib(AttribColor, data, 4); err != nil {
		m.Free()
		return nil, err
	}
	if mat == nil {
		mat = NewVertexColor(gpu)
	}
	return scene.NewObject(m, mat), nil
}

// Textured is a material that samples a texture using
// per-vertex texture coordinates.
// The texture is set per model, so a single Textured
// can be shared by objects with different textures.
type Textured struct{ base }

// NewTextured creates a new Textured material.
func NewTextured(gpu driver.GPU) *Textured {
	t := new(Textured)
	t.init(gpu, "textured", textureVert, textureFrag)
	return t
}

// Render implements scene.Material.
// Models without a texture are not drawn.
func (t *Textured) Render(m *scene.Model, view, proj *mgl32.Mat4, light *scene.Lighting) {
	tex := m.Texture(UnifSampler)
	if tex == nil {
		return
	}
	t.setup(m, view, proj, light)
	t.prog.SetAttrib(AttribTexCoord, m.Attrib(AttribTexCoord))
	t.prog.SetTexture(UnifSampler, 0, tex)
	m.Draw()
}

// NewTexturedObject creates an object from geom, a
// texture and per-vertex texture coordinates.
// The object does not own tex.
// If mat is nil, a new Textured is created for the
// object.
func NewTexturedObject(gpu driver.GPU, geom *scene.Geometry, texCoords []mgl32.Vec2, tex driver.Texture, mat *Textured) (*scene.Object, error) {
	if tex == nil {
		return nil, newMatErr("nil texture")
	}
	m, err := scene.NewModel(gpu, geom)
	if err != nil {
		return nil, err
	}
	if len(texCoords) != m.Len() {
		m.Free()
		return nil, newMatErr("texture coordinate count differs from vertex count")
	}
	data := make([]float32, 0, 2*len(texCoords))
	for i := range texCoords {
		data = append(data, texCoords[i][:]...)
	}
	if err = m.SetAttrib(AttribTexCoord, data, 2); err != nil {
		m.Free()
		return nil, err
	}
	m.SetTexture(UnifSampler, tex)
	if mat == nil {
		mat = NewTextured(gpu)
	}
	return scene.NewObject(m, mat), nil
}
