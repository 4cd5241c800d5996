// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package ogl

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gviegas/mfgl/driver"
)

func TestRegister(t *testing.T) {
	var found bool
	for _, d := range driver.Drivers() {
		if d.Name() == driverName {
			found = true
			if _, ok := d.(*Driver); !ok {
				t.Fatalf("driver.Drivers: %s\nhave %T\nwant *Driver", driverName, d)
			}
		}
	}
	if !found {
		t.Fatalf("driver.Drivers: %s not registered", driverName)
	}
}

func TestConvTopology(t *testing.T) {
	for _, x := range [...]struct {
		topo driver.Topology
		want uint32
	}{
		{driver.TPoint, gl.POINTS},
		{driver.TLine, gl.LINES},
		{driver.TLineStrip, gl.LINE_STRIP},
		{driver.TTriangle, gl.TRIANGLES},
		{driver.TTriangleStrip, gl.TRIANGLE_STRIP},
		{driver.TTriangleFan, gl.TRIANGLE_FAN},
	} {
		if m := convTopology(x.topo); m != x.want {
			t.Fatalf("convTopology(%v)\nhave %#x\nwant %#x", x.topo, m, x.want)
		}
	}
}

func TestFlipRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(2, 3, 4, 6))
	top := color.NRGBA{255, 0, 0, 255}
	mid := color.NRGBA{0, 255, 0, 255}
	bot := color.NRGBA{0, 0, 255, 255}
	for x := 2; x < 4; x++ {
		img.SetNRGBA(x, 3, top)
		img.SetNRGBA(x, 4, mid)
		img.SetNRGBA(x, 5, bot)
	}
	rgba := flipRGBA(img)
	if r := rgba.Rect; r != image.Rect(0, 0, 2, 3) {
		t.Fatalf("flipRGBA: Rect\nhave %v\nwant %v", r, image.Rect(0, 0, 2, 3))
	}
	for y, want := range [3]color.RGBA{{0, 0, 255, 255}, {0, 255, 0, 255}, {255, 0, 0, 255}} {
		for x := range 2 {
			if c := rgba.RGBAAt(x, y); c != want {
				t.Fatalf("flipRGBA: RGBAAt(%d, %d)\nhave %v\nwant %v", x, y, c, want)
			}
		}
	}
}
