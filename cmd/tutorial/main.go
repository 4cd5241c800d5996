// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Command tutorial renders a vertex-colored triangle and
// textured cubes that the user can fly around.
//
// Keys: W/S/A/D/R/F move, arrows look, Q/E tilt,
// M switches the rotation mode, L toggles lighting,
// Home resets the timer and Esc quits.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/mfgl/driver"
	_ "github.com/gviegas/mfgl/driver/ogl"
	"github.com/gviegas/mfgl/engine"
	"github.com/gviegas/mfgl/material"
	"github.com/gviegas/mfgl/scene"
	"github.com/gviegas/mfgl/texture"
	"github.com/gviegas/mfgl/wsi"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "TOML configuration file")
		debug   = flag.Bool("debug", false, "log debug messages")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("tutorial: %v", err)
	}
	if err := run(&cfg); err != nil {
		log.Fatalf("tutorial: %v", err)
	}
}

func run(cfg *config) error {
	wsi.SetAppName("mfgl tutorial")
	win, err := wsi.NewWindow(cfg.Renderer.Width, cfg.Renderer.Height, "mfgl tutorial")
	if err != nil {
		return err
	}
	defer win.Close()

	rend, err := engine.Open(win, win, &cfg.Renderer)
	if err != nil {
		return err
	}
	defer rend.Close()

	texs, err := loadTextures(rend.GPU(), cfg.Textures)
	if err != nil {
		return err
	}
	defer func() {
		for _, t := range texs {
			t.Free()
		}
	}()

	scn, spin, err := buildScene(rend.GPU(), texs)
	if err != nil {
		return err
	}
	defer freeScene(scn)
	rend.SetScene(scn)
	rend.SetCamera(cfg.Camera.newCamera())

	ctl := newControls(rend, cfg.Speed, cfg.TurnSpeed)
	wsi.SetWindowHandler(ctl)
	wsi.SetKeyboardHandler(ctl)
	rend.AddListener(ctl.update)
	rend.AddListener(spin)

	if err := win.Map(); err != nil {
		return err
	}
	rend.AnimateRender()
	for !ctl.quit {
		wsi.Dispatch()
	}
	return nil
}

// loadTextures decodes the files at paths concurrently
// and uploads them.
// If none could be loaded, a single generated texture is
// returned.
func loadTextures(gpu driver.GPU, paths []string) ([]*texture.Texture, error) {
	var texs []*texture.Texture
	if len(paths) > 0 {
		var ld texture.Loader
		ld.OnProgress(func(p texture.Progress) {
			slog.Debug("tutorial: loading textures", "processed", p.Processed, "total", p.Total)
		})
		ld.OnLoad(func(p texture.Progress) {
			slog.Info("tutorial: textures loaded", "total", p.Total, "errors", p.Errors)
		})
		ld.Add(paths...)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := ld.Load(ctx); err != nil {
			return nil, err
		}
		m, err := ld.Upload(gpu, driver.FNearest)
		if err != nil {
			slog.Warn("tutorial: texture upload failed", "err", err)
		}
		for _, p := range paths {
			if t, ok := m[p]; ok {
				texs = append(texs, t)
				delete(m, p)
			}
		}
	}
	if len(texs) > 0 {
		return texs, nil
	}
	t, err := texture.New(gpu, checkerboard(64, 8), driver.FNearest)
	if err != nil {
		return nil, err
	}
	return []*texture.Texture{t}, nil
}

// buildScene creates a lit scene with a triangle and one
// cube per texture, and a listener that spins the cubes.
func buildScene(gpu driver.GPU, texs []*texture.Texture) (*scene.Scene, engine.Listener, error) {
	scn := scene.New()
	scn.SetLighting(scene.NewLighting(
		mgl32.Vec3{0.3, 0.3, 0.3},
		mgl32.Vec3{0.8, 0.8, 0.8},
		mgl32.Vec3{-0.25, -0.25, -1},
	))

	vc := material.NewVertexColor(gpu)
	geom, colors := triangle()
	tri, err := material.NewColorObject(gpu, geom, colors, vc)
	if err != nil {
		vc.Free()
		return nil, nil, err
	}
	tri.SetPosition(mgl32.Vec3{-2, 0, 0})
	scn.Add(tri)

	// One material for every cube.
	mat := material.NewTextured(gpu)
	box, coords := cube()
	var cubes []*scene.Object
	for i, t := range texs {
		obj, err := material.NewTexturedObject(gpu, box, coords, t.GPU(), mat)
		if err != nil {
			freeScene(scn)
			mat.Free()
			return nil, nil, err
		}
		obj.SetPosition(mgl32.Vec3{2, 0, float32(-3 * i)})
		scn.Add(obj)
		cubes = append(cubes, obj)
	}
	if len(cubes) == 0 {
		mat.Free()
	}

	axis := mgl32.Vec3{1, 1, 0}
	spin := func(sinceStart, _ time.Duration) {
		angle := float32(sinceStart.Seconds()) * mgl32.DegToRad(45)
		for _, c := range cubes {
			c.SetRotation(angle, axis)
		}
	}
	return scn, spin, nil
}

// freeScene frees the models of scn and every distinct
// material that has a Free method.
// Textures are not freed.
func freeScene(scn *scene.Scene) {
	freed := make(map[scene.Material]bool)
	for _, o := range scn.Objects() {
		o.Model().Free()
		mat := o.Material()
		if f, ok := mat.(interface{ Free() }); ok && !freed[mat] {
			f.Free()
			freed[mat] = true
		}
	}
}
