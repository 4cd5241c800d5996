// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/mfgl/driver"
)

const modelPrefix = "model: "

func newModelErr(reason string) error { return errors.New(modelPrefix + reason) }

// Geometry describes the vertex data of a Model.
type Geometry struct {
	// Vertices are the vertex positions.
	Vertices []mgl32.Vec3
	// Normals are optional. If present, they must have
	// the same length as Vertices.
	Normals []mgl32.Vec3
	// Indices are optional. If present, they are used
	// to select vertices when drawing.
	Indices  []uint16
	Topology driver.Topology
}

// Rotation is a rotation of Angle radians about Axis.
type Rotation struct {
	Angle float32
	Axis  mgl32.Vec3
}

// Model is a GPU copy of a Geometry plus a local
// transform.
// The vertex data cannot change after creation.
// The translation and rotation can, and either can
// be absent.
type Model struct {
	gpu     driver.GPU
	verts   []mgl32.Vec3
	norms   []mgl32.Vec3
	vertBuf driver.Buffer
	normBuf driver.Buffer
	idxBuf  driver.Buffer
	attribs map[string]driver.Buffer
	texs    map[string]driver.Texture
	topo    driver.Topology

	// Nil means absent.
	rot   *Rotation
	trans *mgl32.Vec3
}

// NewModel creates a new model from geom.
// It copies the vertex data to GPU buffers.
func NewModel(gpu driver.GPU, geom *Geometry) (m *Model, err error) {
	if err = validateGeometry(geom); err != nil {
		return
	}
	m = &Model{
		gpu:     gpu,
		verts:   append([]mgl32.Vec3(nil), geom.Vertices...),
		attribs: make(map[string]driver.Buffer),
		texs:    make(map[string]driver.Texture),
		topo:    geom.Topology,
	}
	if m.vertBuf, err = gpu.NewVertexBuf(flatten(m.verts), 3); err != nil {
		return nil, err
	}
	if len(geom.Normals) > 0 {
		m.norms = append([]mgl32.Vec3(nil), geom.Normals...)
		if m.normBuf, err = gpu.NewVertexBuf(flatten(m.norms), 3); err != nil {
			m.Free()
			return nil, err
		}
	}
	if len(geom.Indices) > 0 {
		if m.idxBuf, err = gpu.NewIndexBuf(geom.Indices); err != nil {
			m.Free()
			return nil, err
		}
	}
	return
}

// validateGeometry checks whether geom is valid.
func validateGeometry(geom *Geometry) error {
	switch {
	case geom == nil:
		return newModelErr("nil geometry")
	case len(geom.Vertices) == 0:
		return newModelErr("no vertices")
	case len(geom.Vertices) > 1<<16:
		return newModelErr("too many vertices for 16-bit indices")
	case len(geom.Normals) > 0 && len(geom.Normals) != len(geom.Vertices):
		return newModelErr("normal count differs from vertex count")
	}
	for _, x := range geom.Indices {
		if int(x) >= len(geom.Vertices) {
			return newModelErr("index out of bounds")
		}
	}
	cnt := len(geom.Vertices)
	if x := len(geom.Indices); x > 0 {
		cnt = x
	}
	switch geom.Topology {
	case driver.TPoint:
	case driver.TLine:
		if cnt&1 != 0 {
			return newModelErr("invalid count for driver.TLine")
		}
	case driver.TLineStrip:
		if cnt < 2 {
			return newModelErr("invalid count for driver.TLineStrip")
		}
	case driver.TTriangle:
		if cnt%3 != 0 {
			return newModelErr("invalid count for driver.TTriangle")
		}
	case driver.TTriangleStrip, driver.TTriangleFan:
		if cnt < 3 {
			return newModelErr("invalid count for " + geom.Topology.String())
		}
	default:
		return newModelErr("undefined driver.Topology constant")
	}
	return nil
}

func flatten(v []mgl32.Vec3) []float32 {
	s := make([]float32, 0, 3*len(v))
	for i := range v {
		s = append(s, v[i][:]...)
	}
	return s
}

// ApplyTransforms returns base multiplied by the
// translation and then by the rotation of m.
// Absent components are skipped, so if neither is
// set the result is base itself.
func (m *Model) ApplyTransforms(base mgl32.Mat4) mgl32.Mat4 {
	if t := m.trans; t != nil {
		base = base.Mul4(mgl32.Translate3D(t[0], t[1], t[2]))
	}
	if r := m.rot; r != nil {
		base = base.Mul4(mgl32.HomogRotate3D(r.Angle, r.Axis))
	}
	return base
}

// SetRotation sets the rotation of m.
// axis must not be the zero vector. It is normalized.
// A zero angle is a valid rotation: it is not the same
// as calling ClearRotation, although the effect is.
func (m *Model) SetRotation(angle float32, axis mgl32.Vec3) {
	m.rot = &Rotation{angle, axis.Normalize()}
}

// ClearRotation removes the rotation of m.
func (m *Model) ClearRotation() { m.rot = nil }

// Rotation returns the rotation of m.
// ok is false if m has no rotation.
func (m *Model) Rotation() (r Rotation, ok bool) {
	if m.rot == nil {
		return
	}
	return *m.rot, true
}

// SetPosition sets the translation of m.
func (m *Model) SetPosition(pos mgl32.Vec3) { m.trans = &pos }

// ClearPosition removes the translation of m.
func (m *Model) ClearPosition() { m.trans = nil }

// Position returns the translation of m.
// ok is false if m has no translation.
func (m *Model) Position() (pos mgl32.Vec3, ok bool) {
	if m.trans == nil {
		return
	}
	return *m.trans, true
}

// Len returns the number of vertices.
func (m *Model) Len() int { return len(m.verts) }

// Vertices returns the vertex positions.
// The caller must not modify the returned slice.
func (m *Model) Vertices() []mgl32.Vec3 { return m.verts }

// Normals returns the vertex normals, or nil if m has
// none.
// The caller must not modify the returned slice.
func (m *Model) Normals() []mgl32.Vec3 { return m.norms }

// Topology returns the primitive topology.
func (m *Model) Topology() driver.Topology { return m.topo }

// VertexBuf returns the buffer of vertex positions.
func (m *Model) VertexBuf() driver.Buffer { return m.vertBuf }

// NormalBuf returns the buffer of vertex normals, or nil.
func (m *Model) NormalBuf() driver.Buffer { return m.normBuf }

// IndexBuf returns the index buffer, or nil.
func (m *Model) IndexBuf() driver.Buffer { return m.idxBuf }

// GPU returns the driver.GPU that m was created with.
func (m *Model) GPU() driver.GPU { return m.gpu }

// SetAttrib creates a vertex buffer from data and
// associates it with name, replacing any previous
// buffer of the same name.
// Materials use this to store per-vertex data of
// their own, such as colors.
// data must hold exactly Len items of itemSize floats.
func (m *Model) SetAttrib(name string, data []float32, itemSize int) error {
	if itemSize < 1 || len(data) != itemSize*len(m.verts) {
		return newModelErr("attribute count differs from vertex count")
	}
	buf, err := m.gpu.NewVertexBuf(data, itemSize)
	if err != nil {
		return err
	}
	if old, ok := m.attribs[name].(driver.Destroyer); ok {
		old.Destroy()
	}
	m.attribs[name] = buf
	return nil
}

// Attrib returns the buffer associated with name,
// or nil if SetAttrib was not called with name.
func (m *Model) Attrib(name string) driver.Buffer { return m.attribs[name] }

// SetTexture associates tex with name.
// m does not own tex, so Free does not destroy it.
func (m *Model) SetTexture(name string, tex driver.Texture) { m.texs[name] = tex }

// Texture returns the texture associated with name,
// or nil.
func (m *Model) Texture(name string) driver.Texture { return m.texs[name] }

// Draw issues the draw call for m.
// The caller must have set up the program.
func (m *Model) Draw() {
	if m.idxBuf != nil {
		m.gpu.DrawIndexed(m.topo, m.idxBuf, m.idxBuf.Len())
	} else {
		m.gpu.Draw(m.topo, 0, len(m.verts))
	}
}

// Free invalidates m and destroys the GPU buffers it
// holds.
func (m *Model) Free() {
	for _, b := range [...]driver.Buffer{m.vertBuf, m.normBuf, m.idxBuf} {
		if d, ok := b.(driver.Destroyer); ok {
			d.Destroy()
		}
	}
	for _, b := range m.attribs {
		if d, ok := b.(driver.Destroyer); ok {
			d.Destroy()
		}
	}
	*m = Model{}
}
