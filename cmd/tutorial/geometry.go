// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/mfgl/driver"
	"github.com/gviegas/mfgl/scene"
)

// triangle returns a triangle with one color per vertex.
func triangle() (*scene.Geometry, []mgl32.Vec4) {
	geom := &scene.Geometry{
		Vertices: []mgl32.Vec3{{0, 1, 0}, {-1, -1, 0}, {1, -1, 0}},
		Normals:  []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Topology: driver.TTriangle,
	}
	colors := []mgl32.Vec4{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}}
	return geom, colors
}

// cube returns an indexed unit cube with four vertices
// per face, so each face has its own normal and texture
// coordinates.
func cube() (*scene.Geometry, []mgl32.Vec2) {
	faces := [...]struct {
		n, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	}
	corners := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	geom := &scene.Geometry{Topology: driver.TTriangle}
	var coords []mgl32.Vec2
	for _, f := range faces {
		base := uint16(len(geom.Vertices))
		for _, c := range corners {
			// Corners span [-1, 1] along u and v.
			p := f.n.Add(f.u.Mul(2*c[0] - 1)).Add(f.v.Mul(2*c[1] - 1))
			geom.Vertices = append(geom.Vertices, p)
			geom.Normals = append(geom.Normals, f.n)
			coords = append(coords, c)
		}
		geom.Indices = append(geom.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return geom, coords
}

// checkerboard returns a size×size image of n×n squares.
func checkerboard(size, n int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	light := color.NRGBA{230, 230, 230, 255}
	dark := color.NRGBA{40, 90, 160, 255}
	step := max(size/n, 1)
	for y := range size {
		for x := range size {
			if (x/step+y/step)%2 == 0 {
				img.SetNRGBA(x, y, light)
			} else {
				img.SetNRGBA(x, y, dark)
			}
		}
	}
	return img
}
