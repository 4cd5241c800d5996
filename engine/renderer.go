// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/mfgl/camera"
	"github.com/gviegas/mfgl/driver"
	"github.com/gviegas/mfgl/engine/internal/ctxt"
	"github.com/gviegas/mfgl/scene"
)

const rendPrefix = "renderer: "

func newRendErr(reason string) error { return errors.New(rendPrefix + reason) }

// Surface is the interface that a drawing surface must
// implement.
// wsi.Window satisfies it.
type Surface interface {
	// Width returns the surface's width, in pixels.
	Width() int

	// Height returns the surface's height, in pixels.
	Height() int

	// Resize resizes the surface.
	Resize(width, height int) error
}

// screenSizer is implemented by surfaces that can report
// the size of the screen they are on.
// It is required by the FullScreen policy.
type screenSizer interface {
	ScreenSize() (width, height int)
}

// Scheduler is the interface that wraps the host's
// frame scheduling primitive.
// wsi.Window satisfies it.
type Scheduler interface {
	// RequestFrame arranges for fn to be called once,
	// at a later time, from the same goroutine.
	RequestFrame(fn func(time.Duration))
}

// Listener is a function called once per frame, before
// drawing, with the time elapsed since the timer was
// last reset and since the previous frame.
type Listener func(sinceStart, sinceLast time.Duration)

// state is the state of a Renderer.
type state int

const (
	// Setup is in progress and no frame is rendered.
	constructing state = iota
	// Frames are rendered on demand.
	idle
	// Every frame schedules the next.
	looping
)

// Renderer is a real-time renderer.
// Its methods must be called from the goroutine that
// drives the Scheduler.
type Renderer struct {
	gpu   driver.GPU
	surf  Surface
	sched Scheduler
	cfg   Config
	log   *slog.Logger
	now   func() time.Time
	owned bool

	width, height int
	start, last   time.Time
	st            state
	pending       bool
	listeners     []Listener

	scn   *scene.Scene
	cam   *camera.Camera
	stale bool
	proj  mgl32.Mat4
}

// New creates a new Renderer that draws on surf using gpu.
// If cfg is nil, DefaultConfig is used.
// The surface is sized according to cfg.Sizing, but no
// frame is rendered until a camera and a scene are set.
// Under UserDefined, a positive cfg.Width and cfg.Height
// are applied to the surface; otherwise the surface's
// current size is used.
func New(gpu driver.GPU, surf Surface, sched Scheduler, cfg *Config) (*Renderer, error) {
	switch {
	case gpu == nil:
		return nil, newRendErr("nil driver.GPU in call to New")
	case surf == nil:
		return nil, newRendErr("nil Surface in call to New")
	case sched == nil:
		return nil, newRendErr("nil Scheduler in call to New")
	}
	r := &Renderer{
		gpu:   gpu,
		surf:  surf,
		sched: sched,
		st:    constructing,
	}
	if cfg == nil {
		r.cfg = DefaultConfig()
	} else {
		r.cfg = *cfg
	}
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	r.log = r.cfg.logger()
	r.now = r.cfg.clock()
	r.ResetTimer()
	// The initial UserDefined size is applied to the surface
	// and read back, so both agree from the start.
	if r.cfg.Sizing == UserDefined && r.cfg.Width > 0 && r.cfg.Height > 0 {
		if err := surf.Resize(r.cfg.Width, r.cfg.Height); err != nil {
			return nil, err
		}
	}
	if err := r.Resize(0, 0); err != nil {
		return nil, err
	}
	r.st = idle
	return r, nil
}

// Open loads a driver named cfg.Driver and creates a new
// Renderer using its GPU.
// Drivers that require a current context expect surf's
// context to be current.
// Close unloads the driver.
func Open(surf Surface, sched Scheduler, cfg *Config) (*Renderer, error) {
	name := ""
	if cfg != nil {
		name = cfg.Driver
	}
	gpu, err := ctxt.Load(name)
	if err != nil {
		return nil, err
	}
	r, err := New(gpu, surf, sched, cfg)
	if err != nil {
		ctxt.Unload()
		return nil, err
	}
	r.owned = true
	slog.Debug(rendPrefix+"driver loaded", "name", ctxt.Driver().Name())
	return r, nil
}

// Close stops the render loop and, if r was created by
// Open, unloads the driver.
// r must not be used afterwards.
func (r *Renderer) Close() {
	r.StopRenderAnimation()
	if r.owned {
		ctxt.Unload()
		r.owned = false
	}
	r.scn = nil
	r.cam = nil
}

// Resize updates the surface size according to the
// sizing policy, marks the projection as stale and
// renders a frame.
// width and height are only used by the UserDefined
// policy; non-positive values cause the current size of
// the surface to be used instead.
// Calls with an unchanged size are not suppressed.
func (r *Renderer) Resize(width, height int) error {
	switch r.cfg.Sizing {
	case FullScreen:
		if s, ok := r.surf.(screenSizer); ok {
			if w, h := s.ScreenSize(); w > 0 && h > 0 {
				if err := r.surf.Resize(w, h); err != nil {
					return err
				}
			}
		} else {
			r.log.Warn(rendPrefix + "surface cannot report the screen size")
		}
		width, height = r.surf.Width(), r.surf.Height()
	case FixedSize:
		if err := r.surf.Resize(r.cfg.Width, r.cfg.Height); err != nil {
			return err
		}
		width, height = r.surf.Width(), r.surf.Height()
	default:
		if width <= 0 || height <= 0 {
			width, height = r.surf.Width(), r.surf.Height()
		}
	}
	r.width, r.height = width, height
	r.stale = true
	if r.st != constructing {
		r.Render()
	}
	return nil
}

// AnimateRender starts the render loop.
// It renders a frame immediately, which in turn requests
// the next one.
// It has no effect if the loop is already running.
func (r *Renderer) AnimateRender() {
	if r.st != idle {
		return
	}
	r.st = looping
	r.Render()
}

// StopRenderAnimation stops the render loop.
// A frame that was already requested is dropped when it
// fires; the frame in progress, if any, completes.
func (r *Renderer) StopRenderAnimation() {
	if r.st == looping {
		r.st = idle
	}
}

// Looping reports whether the render loop is running.
func (r *Renderer) Looping() bool { return r.st == looping }

// schedule requests the next frame if the loop is
// running and no frame is pending.
// It is the only place that calls the Scheduler.
func (r *Renderer) schedule() {
	if r.st != looping || r.pending {
		return
	}
	r.pending = true
	r.sched.RequestFrame(r.fire)
}

// fire is the Scheduler callback.
func (r *Renderer) fire(time.Duration) {
	r.pending = false
	if r.st != looping {
		return
	}
	r.Render()
}

// Render renders a single frame.
// Listeners are called first, in the order they were
// added. If the renderer has no scene or no camera, the
// frame ends there.
func (r *Renderer) Render() {
	if r.st == constructing {
		return
	}
	r.schedule()

	now := r.now()
	sinceStart, sinceLast := now.Sub(r.start), now.Sub(r.last)
	r.last = now
	for _, l := range r.listeners {
		l(sinceStart, sinceLast)
	}

	switch {
	case r.scn == nil:
		r.log.Warn(rendPrefix + "no scene to render")
		return
	case r.cam == nil:
		r.log.Warn(rendPrefix + "no camera to render from")
		return
	}

	r.gpu.Viewport(0, 0, r.width, r.height)
	c := r.cfg.ClearColor
	r.gpu.Clear(c[0], c[1], c[2], c[3])
	if r.stale {
		r.proj = r.cam.Projection(r.width, r.height)
		r.stale = false
	}
	view := r.cam.View()
	r.scn.Render(&view, &r.proj)
}

// ResetTimer sets the start of the timer and the time of
// the previous frame to now.
func (r *Renderer) ResetTimer() {
	r.start = r.now()
	r.last = r.start
}

// AddListener adds a frame listener.
func (r *Renderer) AddListener(l Listener) {
	if l != nil {
		r.listeners = append(r.listeners, l)
	}
}

// SetScene sets the scene to render.
// It takes effect on the next frame.
func (r *Renderer) SetScene(s *scene.Scene) { r.scn = s }

// Scene returns the scene to render.
func (r *Renderer) Scene() *scene.Scene { return r.scn }

// SetCamera sets the camera to render from and marks the
// projection as stale.
func (r *Renderer) SetCamera(c *camera.Camera) {
	r.cam = c
	r.stale = true
}

// Camera returns the camera to render from.
func (r *Renderer) Camera() *camera.Camera { return r.cam }

// Width returns the width of the surface, in pixels.
func (r *Renderer) Width() int { return r.width }

// Height returns the height of the surface, in pixels.
func (r *Renderer) Height() int { return r.height }

// Projection returns the projection used by the last
// frame that was drawn.
func (r *Renderer) Projection() mgl32.Mat4 { return r.proj }

// GPU returns the driver.GPU that r draws with.
func (r *Renderer) GPU() driver.GPU { return r.gpu }
