// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package material

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/mfgl/driver"
	"github.com/gviegas/mfgl/internal/gputest"
	"github.com/gviegas/mfgl/linear"
	"github.com/gviegas/mfgl/scene"
)

var quad = scene.Geometry{
	Vertices: []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
	Normals:  []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
	Indices:  []uint16{0, 1, 2, 0, 2, 3},
	Topology: driver.TTriangle,
}

var quadColors = []mgl32.Vec4{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}, {1, 1, 1, 1}}

var quadCoords = []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

func TestShaderSource(t *testing.T) {
	for _, x := range [...]struct {
		name, src string
		want      []string
	}{
		{"color.vert", colorVert, []string{AttribPosition, AttribColor, AttribNormal, UnifModelView, UnifProjection, UnifNormal, UnifUseLighting}},
		{"color.frag", colorFrag, nil},
		{"texture.vert", textureVert, []string{AttribPosition, AttribTexCoord, AttribNormal, UnifAmbient, UnifLightDir, UnifDirectional}},
		{"texture.frag", textureFrag, []string{UnifSampler}},
	} {
		if !strings.HasPrefix(x.src, "#version 410 core") {
			t.Fatalf("%s: missing #version directive", x.name)
		}
		for _, s := range x.want {
			if !strings.Contains(x.src, s) {
				t.Fatalf("%s: %s not declared", x.name, s)
			}
		}
	}
}

func TestVertexColor(t *testing.T) {
	gpu := gputest.New()
	obj, err := NewColorObject(gpu, &quad, quadColors, nil)
	require.NoError(t, err)
	mat, ok := obj.Material().(*VertexColor)
	require.True(t, ok)
	require.Len(t, gpu.Programs, 1)
	prog := gpu.Programs[0]
	assert.Equal(t, colorVert, prog.Vert)
	assert.Equal(t, colorFrag, prog.Frag)
	if mat.Program() != driver.Program(prog) {
		t.Fatal("VertexColor.Program: unexpected program")
	}

	m := obj.Model()
	colors := m.Attrib(AttribColor).(*gputest.Buffer)
	assert.Equal(t, 4, colors.ItemSize())
	assert.Equal(t, []float32{1, 0, 0, 1, 0, 1, 0, 1, 0, 0, 1, 1, 1, 1, 1, 1}, colors.Floats)

	obj.SetPosition(mgl32.Vec3{0, 0, -3})
	view := mgl32.Translate3D(1, 0, 0)
	proj := mgl32.Perspective(1, 1, 0.1, 10)
	obj.Render(&view, &proj, nil)

	require.Equal(t, []string{"Use", "DrawIndexed"}, gpu.Ops())
	if c := gpu.Calls[1]; c.Prog != prog {
		t.Fatal("VertexColor.Render: draw issued without the material's program")
	}
	mv := view.Mul4(mgl32.Translate3D(0, 0, -3))
	assert.Equal(t, [16]float32(mv), prog.Uniforms[UnifModelView])
	assert.Equal(t, [16]float32(proj), prog.Uniforms[UnifProjection])
	assert.Equal(t, false, prog.Uniforms[UnifUseLighting])
	if prog.Attribs[AttribPosition] != m.VertexBuf() || prog.Attribs[AttribColor] != m.Attrib(AttribColor) {
		t.Fatal("VertexColor.Render: attributes not set")
	}
	if prog.Attribs[AttribNormal] != nil {
		t.Fatal("VertexColor.Render: normals should be disabled without lighting")
	}
	if _, ok := prog.Uniforms[UnifNormal]; ok {
		t.Fatal("VertexColor.Render: normal matrix set without lighting")
	}
}

func TestLighting(t *testing.T) {
	gpu := gputest.New()
	mat := NewVertexColor(gpu)
	prog := gpu.Programs[0]
	obj, err := NewColorObject(gpu, &quad, quadColors, mat)
	require.NoError(t, err)
	require.Len(t, gpu.Programs, 1, "shared material should not create a program")

	obj.SetRotation(0.5, mgl32.Vec3{0, 1, 0})
	view := mgl32.Translate3D(0, 0, -4)
	proj := mgl32.Ident4()
	light := scene.NewLighting(mgl32.Vec3{0.1, 0.1, 0.1}, mgl32.Vec3{0.9, 0.8, 0.7}, mgl32.Vec3{0, 0, -2})
	obj.Render(&view, &proj, light)

	assert.Equal(t, true, prog.Uniforms[UnifUseLighting])
	assert.Equal(t, [3]float32{0.1, 0.1, 0.1}, prog.Uniforms[UnifAmbient])
	assert.Equal(t, [3]float32{0.9, 0.8, 0.7}, prog.Uniforms[UnifDirectional])
	assert.Equal(t, [3]float32{0, 0, 1}, prog.Uniforms[UnifLightDir])
	if prog.Attribs[AttribNormal] != obj.Model().NormalBuf() {
		t.Fatal("Render: normal attribute not set")
	}
	mv := obj.Model().ApplyTransforms(view)
	want := linear.NormalMatrix(&mv)
	n, ok := prog.Uniforms[UnifNormal].([9]float32)
	require.True(t, ok)
	if !linear.NearMat3(n, want, 1e-6) {
		t.Fatalf("Render: %s\nhave %v\nwant %v", UnifNormal, n, want)
	}

	light.TurnOff()
	obj.Render(&view, &proj, light)
	assert.Equal(t, false, prog.Uniforms[UnifUseLighting])
	assert.Nil(t, prog.Attribs[AttribNormal])

	// No normals, no lighting.
	geom := quad
	geom.Normals = nil
	obj, err = NewColorObject(gpu, &geom, quadColors, mat)
	require.NoError(t, err)
	light.TurnOn()
	obj.Render(&view, &proj, light)
	assert.Equal(t, false, prog.Uniforms[UnifUseLighting])
}

func TestTextured(t *testing.T) {
	gpu := gputest.New()
	tex := &gputest.Texture{W: 2, H: 2}
	obj, err := NewTexturedObject(gpu, &quad, quadCoords, tex, nil)
	require.NoError(t, err)
	require.IsType(t, (*Textured)(nil), obj.Material())
	prog := gpu.Programs[0]
	assert.Equal(t, textureVert, prog.Vert)
	assert.Equal(t, textureFrag, prog.Frag)

	view, proj := mgl32.Ident4(), mgl32.Ident4()
	obj.Render(&view, &proj, nil)
	require.Equal(t, []string{"Use", "BindTexture", "DrawIndexed"}, gpu.Ops())
	assert.Equal(t, []any{0, driver.Texture(tex)}, gpu.Calls[1].Args)
	assert.Equal(t, 0, prog.Uniforms[UnifSampler])
	coords := prog.Attribs[AttribTexCoord].(*gputest.Buffer)
	assert.Equal(t, []float32{0, 0, 1, 0, 1, 1, 0, 1}, coords.Floats)

	// The texture stays with the caller.
	obj.Model().Free()
	assert.False(t, tex.Destroyed)
}

func TestTexturedShared(t *testing.T) {
	gpu := gputest.New()
	mat := NewTextured(gpu)
	texs := []*gputest.Texture{{W: 1, H: 1}, {W: 4, H: 4}}
	var objs []*scene.Object
	for _, tex := range texs {
		obj, err := NewTexturedObject(gpu, &quad, quadCoords, tex, mat)
		require.NoError(t, err)
		objs = append(objs, obj)
	}
	s := scene.New(objs...)
	view, proj := mgl32.Ident4(), mgl32.Ident4()
	s.Render(&view, &proj)

	var bound []driver.Texture
	for _, c := range gpu.Calls {
		if c.Op == "BindTexture" {
			bound = append(bound, c.Args[1].(driver.Texture))
		}
	}
	require.Len(t, bound, 2)
	for i := range texs {
		if bound[i] != driver.Texture(texs[i]) {
			t.Fatalf("Scene.Render: texture %d not bound in order", i)
		}
	}
	assert.Equal(t, 2, gpu.Count("DrawIndexed"))
}

func TestNewObjectInvalid(t *testing.T) {
	gpu := gputest.New()
	if _, err := NewColorObject(gpu, &quad, quadColors[:3], nil); err == nil {
		t.Fatal("NewColorObject: expected error for color count mismatch")
	}
	if _, err := NewTexturedObject(gpu, &quad, quadCoords[:1], &gputest.Texture{W: 1, H: 1}, nil); err == nil {
		t.Fatal("NewTexturedObject: expected error for coordinate count mismatch")
	}
	if _, err := NewTexturedObject(gpu, &quad, quadCoords, nil, nil); err == nil {
		t.Fatal("NewTexturedObject: expected error for nil texture")
	}
	if _, err := NewColorObject(gpu, &scene.Geometry{}, nil, nil); err == nil {
		t.Fatal("NewColorObject: expected error for empty geometry")
	}
	if len(gpu.Programs) != 0 {
		t.Fatal("New*Object: no program should be created on failure")
	}
}

func TestProgramError(t *testing.T) {
	gpu := gputest.New()
	gpu.ProgramErr = errors.New("compile failed")
	mat := NewVertexColor(gpu)
	if mat.Program() == nil {
		t.Fatal("NewVertexColor: program should be kept on error")
	}
	obj, err := NewColorObject(gpu, &quad, quadColors, mat)
	require.NoError(t, err)
	view, proj := mgl32.Ident4(), mgl32.Ident4()
	obj.Render(&view, &proj, nil)
	assert.Equal(t, 1, gpu.Count("DrawIndexed"))

	prog := gpu.Programs[0]
	mat.Free()
	assert.True(t, prog.Destroyed)
	assert.Nil(t, mat.Program())
}
