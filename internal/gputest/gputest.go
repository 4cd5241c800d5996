// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package gputest provides a driver.GPU that records the
// commands it receives, for use in tests.
package gputest

import (
	"errors"
	"image"

	"github.com/gviegas/mfgl/driver"
)

// Call is a recorded GPU command.
type Call struct {
	Op   string
	Args []any
	// Program that was current when the call was made.
	Prog *Program
}

// GPU implements driver.GPU.
// It is not safe for concurrent use.
type GPU struct {
	drv *Driver
	cur *Program

	// Calls holds every command, in call order.
	// Resource creation is not recorded.
	Calls []Call

	// Programs holds every program created.
	Programs []*Program

	// ProgramErr, if not nil, is returned by NewProgram
	// alongside a usable program.
	ProgramErr error
}

// New creates a GPU that is not attached to a registered
// driver.
func New() *GPU { return &GPU{drv: &Driver{name: "gputest"}} }

// Driver implements driver.GPU.
func (g *GPU) Driver() driver.Driver { return g.drv }

// NewVertexBuf implements driver.GPU.
func (g *GPU) NewVertexBuf(data []float32, itemSize int) (driver.Buffer, error) {
	if len(data) == 0 {
		return nil, driver.ErrEmpty
	}
	if itemSize < 1 || len(data)%itemSize != 0 {
		return nil, errors.New("gputest: vertex data length is not a multiple of item size")
	}
	return &Buffer{Floats: append([]float32(nil), data...), itemSize: itemSize}, nil
}

// NewIndexBuf implements driver.GPU.
func (g *GPU) NewIndexBuf(data []uint16) (driver.Buffer, error) {
	if len(data) == 0 {
		return nil, driver.ErrEmpty
	}
	return &Buffer{Indices: append([]uint16(nil), data...), itemSize: 1}, nil
}

// NewProgram implements driver.GPU.
func (g *GPU) NewProgram(vert, frag string) (driver.Program, error) {
	p := &Program{
		gpu:      g,
		Vert:     vert,
		Frag:     frag,
		Attribs:  make(map[string]driver.Buffer),
		Uniforms: make(map[string]any),
		Textures: make(map[string]driver.Texture),
	}
	g.Programs = append(g.Programs, p)
	return p, g.ProgramErr
}

// NewTexture implements driver.GPU.
func (g *GPU) NewTexture(img image.Image, filter driver.Filter) (driver.Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, driver.ErrEmpty
	}
	return &Texture{W: b.Dx(), H: b.Dy(), Filter: filter}, nil
}

func (g *GPU) record(op string, args ...any) {
	g.Calls = append(g.Calls, Call{Op: op, Args: args, Prog: g.cur})
}

// Viewport implements driver.GPU.
func (g *GPU) Viewport(x, y, width, height int) { g.record("Viewport", x, y, width, height) }

// Clear implements driver.GPU.
func (g *GPU) Clear(r, gr, b, a float32) { g.record("Clear", r, gr, b, a) }

// Draw implements driver.GPU.
func (g *GPU) Draw(topo driver.Topology, first, count int) {
	g.record("Draw", topo, first, count)
}

// DrawIndexed implements driver.GPU.
func (g *GPU) DrawIndexed(topo driver.Topology, idx driver.Buffer, count int) {
	g.record("DrawIndexed", topo, idx, count)
}

// Count returns how many recorded calls have the given Op.
func (g *GPU) Count(op string) (n int) {
	for i := range g.Calls {
		if g.Calls[i].Op == op {
			n++
		}
	}
	return
}

// Ops returns the Op of every recorded call.
func (g *GPU) Ops() []string {
	s := make([]string, len(g.Calls))
	for i := range g.Calls {
		s[i] = g.Calls[i].Op
	}
	return s
}

// Reset discards the recorded calls.
func (g *GPU) Reset() { g.Calls = g.Calls[:0] }

// Buffer implements driver.Buffer.
type Buffer struct {
	Floats    []float32
	Indices   []uint16
	itemSize  int
	Destroyed bool
}

// Len implements driver.Buffer.
func (b *Buffer) Len() int {
	if b.Indices != nil {
		return len(b.Indices)
	}
	return len(b.Floats) / b.itemSize
}

// ItemSize implements driver.Buffer.
func (b *Buffer) ItemSize() int { return b.itemSize }

// Destroy implements driver.Destroyer.
func (b *Buffer) Destroy() { b.Destroyed = true }

// Program implements driver.Program.
// Setters store the last value per name.
type Program struct {
	gpu        *GPU
	Vert, Frag string
	Attribs    map[string]driver.Buffer
	Uniforms   map[string]any
	Textures   map[string]driver.Texture
	Destroyed  bool
}

// Use implements driver.Program.
func (p *Program) Use() {
	p.gpu.cur = p
	p.gpu.record("Use")
}

// SetAttrib implements driver.Program.
func (p *Program) SetAttrib(name string, buf driver.Buffer) { p.Attribs[name] = buf }

// SetMat4 implements driver.Program.
func (p *Program) SetMat4(name string, m *[16]float32) { p.Uniforms[name] = *m }

// SetMat3 implements driver.Program.
func (p *Program) SetMat3(name string, m *[9]float32) { p.Uniforms[name] = *m }

// SetVec3 implements driver.Program.
func (p *Program) SetVec3(name string, v *[3]float32) { p.Uniforms[name] = *v }

// SetInt implements driver.Program.
func (p *Program) SetInt(name string, i int) { p.Uniforms[name] = i }

// SetBool implements driver.Program.
func (p *Program) SetBool(name string, b bool) { p.Uniforms[name] = b }

// SetTexture implements driver.Program.
func (p *Program) SetTexture(name string, unit int, tex driver.Texture) {
	p.Uniforms[name] = unit
	p.Textures[name] = tex
	p.gpu.record("BindTexture", unit, tex)
}

// Destroy implements driver.Destroyer.
func (p *Program) Destroy() { p.Destroyed = true }

// Texture implements driver.Texture.
type Texture struct {
	W, H      int
	Filter    driver.Filter
	Destroyed bool
}

// Width implements driver.Texture.
func (t *Texture) Width() int { return t.W }

// Height implements driver.Texture.
func (t *Texture) Height() int { return t.H }

// Destroy implements driver.Destroyer.
func (t *Texture) Destroy() { t.Destroyed = true }

// Driver implements driver.Driver.
type Driver struct {
	name string
	gpu  *GPU
}

// NewDriver creates a Driver with the given name.
// It is not registered.
func NewDriver(name string) *Driver { return &Driver{name: name} }

// Open implements driver.Driver.
func (d *Driver) Open() (driver.GPU, error) {
	if d.gpu == nil {
		d.gpu = &GPU{drv: d}
	}
	return d.gpu, nil
}

// Name implements driver.Driver.
func (d *Driver) Name() string { return d.name }

// Close implements driver.Driver.
func (d *Driver) Close() { d.gpu = nil }
