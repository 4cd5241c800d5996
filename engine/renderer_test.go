// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/mfgl/camera"
	"github.com/gviegas/mfgl/driver"
	"github.com/gviegas/mfgl/engine/internal/ctxt"
	"github.com/gviegas/mfgl/internal/gputest"
	"github.com/gviegas/mfgl/scene"
)

type surface struct {
	w, h    int
	resizes [][2]int
}

func (s *surface) Width() int  { return s.w }
func (s *surface) Height() int { return s.h }

func (s *surface) Resize(w, h int) error {
	s.w, s.h = w, h
	s.resizes = append(s.resizes, [2]int{w, h})
	return nil
}

type screenSurface struct {
	surface
	sw, sh int
}

func (s *screenSurface) ScreenSize() (int, int) { return s.sw, s.sh }

// scheduler queues frame requests until fire is called.
type scheduler struct {
	fns []func(time.Duration)
}

func (s *scheduler) RequestFrame(fn func(time.Duration)) { s.fns = append(s.fns, fn) }

func (s *scheduler) fire() {
	fns := s.fns
	s.fns = nil
	for _, fn := range fns {
		fn(0)
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time                    { return c.t }
func (c *clock) advance(d time.Duration)           { c.t = c.t.Add(d) }
func (c *clock) set(t0 time.Time, d time.Duration) { c.t = t0.Add(d) }

type recMaterial struct {
	views, projs []mgl32.Mat4
}

func (m *recMaterial) Render(_ *scene.Model, view, proj *mgl32.Mat4, _ *scene.Lighting) {
	m.views = append(m.views, *view)
	m.projs = append(m.projs, *proj)
}

type fixture struct {
	gpu   *gputest.GPU
	surf  *surface
	sched *scheduler
	clk   *clock
	log   bytes.Buffer
	mat   *recMaterial
	r     *Renderer
}

func newFixture(t *testing.T, sizing Sizing) *fixture {
	t.Helper()
	f := &fixture{
		gpu:   gputest.New(),
		surf:  &surface{w: 640, h: 480},
		sched: &scheduler{},
		clk:   &clock{t: time.Unix(1000, 0)},
		mat:   &recMaterial{},
	}
	cfg := DefaultConfig()
	cfg.Sizing = sizing
	cfg.Logger = slog.New(slog.NewTextHandler(&f.log, nil))
	cfg.Clock = f.clk.now
	r, err := New(f.gpu, f.surf, f.sched, &cfg)
	require.NoError(t, err)
	f.r = r
	return f
}

// attach sets a camera and a single-object scene.
func (f *fixture) attach(t *testing.T) *camera.Camera {
	t.Helper()
	m, err := scene.NewModel(f.gpu, &scene.Geometry{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Topology: driver.TTriangle,
	})
	require.NoError(t, err)
	cam := camera.Default()
	f.r.SetScene(scene.New(scene.NewObject(m, f.mat)))
	f.r.SetCamera(cam)
	f.gpu.Reset()
	return cam
}

func TestNew(t *testing.T) {
	f := newFixture(t, UserDefined)
	if w, h := f.r.Width(), f.r.Height(); w != 800 || h != 600 {
		t.Fatalf("New: Width/Height\nhave %d, %d\nwant 800, 600", w, h)
	}
	if w, h := f.surf.Width(), f.surf.Height(); w != 800 || h != 600 {
		t.Fatalf("New: surface size\nhave %d, %d\nwant 800, 600", w, h)
	}
	assert.Empty(t, f.gpu.Calls, "no frame should be rendered while constructing")
	assert.Empty(t, f.sched.fns)
	assert.Equal(t, [][2]int{{800, 600}}, f.surf.resizes)
	assert.False(t, f.r.Looping())
	assert.Nil(t, f.r.Scene())
	assert.Nil(t, f.r.Camera())

	for _, x := range [...]struct {
		gpu   driver.GPU
		surf  Surface
		sched Scheduler
	}{
		{nil, f.surf, f.sched},
		{f.gpu, nil, f.sched},
		{f.gpu, f.surf, nil},
	} {
		if _, err := New(x.gpu, x.surf, x.sched, nil); err == nil {
			t.Fatal("New: expected error for nil argument")
		}
	}
	if _, err := New(f.gpu, f.surf, f.sched, &Config{Sizing: FixedSize}); err == nil {
		t.Fatal("New: expected error for invalid Config")
	}
}

func TestUserDefinedSize(t *testing.T) {
	for _, x := range [...]struct {
		w, h    int
		want    [2]int
		resizes int
	}{
		{800, 600, [2]int{800, 600}, 1},
		{1024, 0, [2]int{640, 480}, 0},
		{0, 0, [2]int{640, 480}, 0},
	} {
		surf := &surface{w: 640, h: 480}
		cfg := DefaultConfig()
		cfg.Sizing = UserDefined
		cfg.Width, cfg.Height = x.w, x.h
		r, err := New(gputest.New(), surf, &scheduler{}, &cfg)
		require.NoError(t, err)
		if w, h := r.Width(), r.Height(); w != x.want[0] || h != x.want[1] {
			t.Fatalf("New(%dx%d): Width/Height\nhave %d, %d\nwant %d, %d", x.w, x.h, w, h, x.want[0], x.want[1])
		}
		if w, h := surf.Width(), surf.Height(); w != r.Width() || h != r.Height() {
			t.Fatalf("New(%dx%d): surface size\nhave %d, %d\nwant %d, %d", x.w, x.h, w, h, r.Width(), r.Height())
		}
		assert.Len(t, surf.resizes, x.resizes)
	}
}

func TestNoCamera(t *testing.T) {
	f := newFixture(t, UserDefined)
	var calls []int
	f.r.AddListener(func(time.Duration, time.Duration) { calls = append(calls, 1) })
	f.r.AddListener(nil)
	f.r.AddListener(func(time.Duration, time.Duration) { calls = append(calls, 2) })
	f.r.SetScene(scene.New())

	f.r.Render()
	assert.Equal(t, []int{1, 2}, calls)
	assert.Zero(t, f.gpu.Count("Clear"))
	assert.Zero(t, f.gpu.Count("Viewport"))
	assert.Zero(t, f.gpu.Count("Draw")+f.gpu.Count("DrawIndexed"))
	assert.Contains(t, f.log.String(), "no camera")

	f.log.Reset()
	f.r.SetScene(nil)
	f.r.SetCamera(camera.Default())
	f.r.Render()
	assert.Equal(t, []int{1, 2, 1, 2}, calls)
	assert.Empty(t, f.gpu.Calls)
	assert.Contains(t, f.log.String(), "no scene")
}

func TestRender(t *testing.T) {
	f := newFixture(t, UserDefined)
	cam := f.attach(t)
	// Number of GPU calls seen by the listener.
	var seen []int
	f.r.AddListener(func(time.Duration, time.Duration) {
		seen = append(seen, len(f.gpu.Calls))
	})

	f.r.Render()
	require.Equal(t, []string{"Viewport", "Clear"}, f.gpu.Ops())
	assert.Equal(t, []any{0, 0, 800, 600}, f.gpu.Calls[0].Args)
	assert.Equal(t, []any{float32(0), float32(0), float32(0), float32(1)}, f.gpu.Calls[1].Args)
	assert.Equal(t, []int{0}, seen, "listeners should run before drawing")
	require.Len(t, f.mat.views, 1)
	assert.Equal(t, cam.View(), f.mat.views[0])
	assert.Equal(t, cam.Projection(800, 600), f.mat.projs[0])
	assert.Equal(t, cam.Projection(800, 600), f.r.Projection())

	// The view is fetched every frame.
	cam.MoveForward(2)
	f.r.Render()
	assert.Equal(t, cam.View(), f.mat.views[1])
	assert.Equal(t, []int{0, 2}, seen)
}

func TestStaleProjection(t *testing.T) {
	f := newFixture(t, UserDefined)
	cam := f.attach(t)
	f.r.Render()
	want := cam.Projection(800, 600)

	// Not recomputed until marked stale.
	cam.ViewAngle = mgl32.DegToRad(90)
	f.r.Render()
	assert.Equal(t, want, f.mat.projs[1])

	f.r.SetCamera(cam)
	f.r.Render()
	assert.Equal(t, cam.Projection(800, 600), f.mat.projs[2])

	cam.ViewAngle = mgl32.DegToRad(30)
	require.NoError(t, f.r.Resize(1024, 768))
	require.Len(t, f.mat.projs, 4)
	assert.Equal(t, cam.Projection(1024, 768), f.mat.projs[3])
}

func TestResizeSameSize(t *testing.T) {
	f := newFixture(t, UserDefined)
	cam := f.attach(t)

	require.NoError(t, f.r.Resize(800, 600))
	assert.Equal(t, 1, f.gpu.Count("Clear"))
	assert.False(t, f.r.stale)

	cam.Far = 10
	require.NoError(t, f.r.Resize(800, 600))
	assert.Equal(t, 2, f.gpu.Count("Clear"), "Resize with the same size should render")
	assert.Equal(t, cam.Projection(800, 600), f.r.Projection(), "Resize with the same size should mark the projection stale")

	// Non-positive sizes read the surface back.
	f.surf.w, f.surf.h = 640, 480
	require.NoError(t, f.r.Resize(0, -1))
	if w, h := f.r.Width(), f.r.Height(); w != 640 || h != 480 {
		t.Fatalf("Resize(0, -1): Width/Height\nhave %d, %d\nwant 640, 480", w, h)
	}
}

func TestSizing(t *testing.T) {
	f := newFixture(t, FixedSize)
	assert.Equal(t, [][2]int{{800, 600}}, f.surf.resizes)
	require.NoError(t, f.r.Resize(100, 100))
	if w, h := f.r.Width(), f.r.Height(); w != 800 || h != 600 {
		t.Fatalf("FixedSize: Width/Height\nhave %d, %d\nwant 800, 600", w, h)
	}

	var log bytes.Buffer
	cfg := DefaultConfig()
	cfg.Sizing = FullScreen
	cfg.Logger = slog.New(slog.NewTextHandler(&log, nil))
	ss := &screenSurface{surface{w: 10, h: 10}, 1920, 1080}
	r, err := New(gputest.New(), ss, &scheduler{}, &cfg)
	require.NoError(t, err)
	if w, h := r.Width(), r.Height(); w != 1920 || h != 1080 {
		t.Fatalf("FullScreen: Width/Height\nhave %d, %d\nwant 1920, 1080", w, h)
	}

	// Without a screen size the surface is kept.
	surf := &surface{w: 300, h: 200}
	r, err = New(gputest.New(), surf, &scheduler{}, &cfg)
	require.NoError(t, err)
	if w, h := r.Width(), r.Height(); w != 300 || h != 200 {
		t.Fatalf("FullScreen: Width/Height\nhave %d, %d\nwant 300, 200", w, h)
	}
	assert.Empty(t, surf.resizes)
	assert.Contains(t, log.String(), "screen size")
}

func TestAnimateRender(t *testing.T) {
	f := newFixture(t, UserDefined)
	f.attach(t)
	frames := 0
	f.r.AddListener(func(time.Duration, time.Duration) { frames++ })

	f.r.AnimateRender()
	assert.True(t, f.r.Looping())
	assert.Equal(t, 1, frames, "AnimateRender should render a frame")
	assert.Len(t, f.sched.fns, 1)

	// At most one pending frame.
	f.r.AnimateRender()
	f.r.Render()
	assert.Equal(t, 2, frames)
	assert.Len(t, f.sched.fns, 1)

	for i := range 3 {
		f.sched.fire()
		assert.Equal(t, 3+i, frames)
		assert.Len(t, f.sched.fns, 1)
	}

	// A pending frame that fires after stopping is dropped.
	f.r.StopRenderAnimation()
	assert.False(t, f.r.Looping())
	f.sched.fire()
	assert.Equal(t, 5, frames)
	assert.Empty(t, f.sched.fns)

	// Render does not schedule while idle.
	f.r.Render()
	assert.Equal(t, 6, frames)
	assert.Empty(t, f.sched.fns)

	// Restarting before the pending frame fires reuses it.
	f.r.AnimateRender()
	f.r.StopRenderAnimation()
	f.r.AnimateRender()
	assert.Equal(t, 8, frames)
	assert.Len(t, f.sched.fns, 1)
	f.sched.fire()
	assert.Equal(t, 9, frames)
	assert.Len(t, f.sched.fns, 1)

	f.r.Close()
	f.sched.fire()
	assert.Equal(t, 9, frames)
	assert.Nil(t, f.r.Scene())
}

func TestListenerTimes(t *testing.T) {
	f := newFixture(t, UserDefined)
	t0 := f.clk.t
	var got [][2]time.Duration
	f.r.AddListener(func(sinceStart, sinceLast time.Duration) {
		got = append(got, [2]time.Duration{sinceStart, sinceLast})
	})

	f.clk.set(t0, 10*time.Millisecond)
	f.r.Render()
	f.clk.set(t0, 25*time.Millisecond)
	f.r.Render()
	f.clk.set(t0, 30*time.Millisecond)
	f.r.ResetTimer()
	f.clk.advance(10 * time.Millisecond)
	f.r.Render()
	f.r.Render()

	ms := time.Millisecond
	assert.Equal(t, [][2]time.Duration{
		{10 * ms, 10 * ms},
		{25 * ms, 15 * ms},
		{10 * ms, 10 * ms},
		{10 * ms, 0},
	}, got)
}

func TestOpen(t *testing.T) {
	driver.Register(gputest.NewDriver("engine-fake"))
	defer ctxt.Unload()

	cfg := DefaultConfig()
	cfg.Driver = "no-such-driver"
	if _, err := Open(&surface{}, &scheduler{}, &cfg); err == nil {
		t.Fatal("Open: expected error for missing driver")
	}

	cfg.Driver = "ENGINE-FAKE"
	r, err := Open(&surface{}, &scheduler{}, &cfg)
	require.NoError(t, err)
	if r.GPU() != ctxt.GPU() {
		t.Fatal("Open: Renderer.GPU differs from the loaded GPU")
	}
	r.Close()
	if ctxt.GPU() != nil {
		t.Fatal("Renderer.Close: driver not unloaded")
	}
}
