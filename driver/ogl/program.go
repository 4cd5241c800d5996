// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package ogl

import (
	"errors"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gviegas/mfgl/driver"
)

// program implements driver.Program.
type program struct {
	id      uint32
	attribs map[string]int32
	unifs   map[string]int32
}

// NewProgram creates a new shader program.
// Compile and link errors are reported, but the program
// object is returned regardless.
func (d *Driver) NewProgram(vert, frag string) (driver.Program, error) {
	p := &program{
		id:      gl.CreateProgram(),
		attribs: make(map[string]int32),
		unifs:   make(map[string]int32),
	}
	var errs []error
	for _, x := range [2]struct {
		typ uint32
		src string
	}{
		{gl.VERTEX_SHADER, vert},
		{gl.FRAGMENT_SHADER, frag},
	} {
		sh, err := compileShader(x.src, x.typ)
		if err != nil {
			errs = append(errs, err)
		}
		gl.AttachShader(p.id, sh)
		// Flagged for deletion; freed with the program.
		gl.DeleteShader(sh)
	}
	gl.LinkProgram(p.id)
	var status int32
	gl.GetProgramiv(p.id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(p.id, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(p.id, n, nil, gl.Str(log))
		errs = append(errs, errors.New("ogl: link failed: "+strings.TrimRight(log, "\x00")))
	}
	return p, errors.Join(errs...)
}

// compileShader compiles a single shader.
func compileShader(src string, typ uint32) (uint32, error) {
	sh := gl.CreateShader(typ)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)
	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(sh, n, nil, gl.Str(log))
		return sh, errors.New("ogl: compile failed: " + strings.TrimRight(log, "\x00"))
	}
	return sh, nil
}

// attrib returns the location of the named attribute,
// or -1 if the program does not use it.
func (p *program) attrib(name string) int32 {
	loc, ok := p.attribs[name]
	if !ok {
		loc = gl.GetAttribLocation(p.id, gl.Str(name+"\x00"))
		p.attribs[name] = loc
	}
	return loc
}

// unif returns the location of the named uniform,
// or -1 if the program does not use it.
func (p *program) unif(name string) int32 {
	loc, ok := p.unifs[name]
	if !ok {
		loc = gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
		p.unifs[name] = loc
	}
	return loc
}

// Use makes the program current.
func (p *program) Use() { gl.UseProgram(p.id) }

// SetAttrib binds buf to the named attribute.
func (p *program) SetAttrib(name string, buf driver.Buffer) {
	loc := p.attrib(name)
	if loc < 0 {
		return
	}
	if buf == nil {
		gl.DisableVertexAttribArray(uint32(loc))
		return
	}
	b := buf.(*buffer)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointer(uint32(loc), int32(b.itemSize), gl.FLOAT, false, 0, gl.PtrOffset(0))
}

// SetMat4 sets a mat4 uniform.
func (p *program) SetMat4(name string, m *[16]float32) {
	if loc := p.unif(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// SetMat3 sets a mat3 uniform.
func (p *program) SetMat3(name string, m *[9]float32) {
	if loc := p.unif(name); loc >= 0 {
		gl.UniformMatrix3fv(loc, 1, false, &m[0])
	}
}

// SetVec3 sets a vec3 uniform.
func (p *program) SetVec3(name string, v *[3]float32) {
	if loc := p.unif(name); loc >= 0 {
		gl.Uniform3fv(loc, 1, &v[0])
	}
}

// SetInt sets an int uniform.
func (p *program) SetInt(name string, i int) {
	if loc := p.unif(name); loc >= 0 {
		gl.Uniform1i(loc, int32(i))
	}
}

// SetBool sets a bool uniform.
func (p *program) SetBool(name string, b bool) {
	var i int
	if b {
		i = 1
	}
	p.SetInt(name, i)
}

// SetTexture binds tex to unit and points the named
// sampler at it.
func (p *program) SetTexture(name string, unit int, tex driver.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, tex.(*texture).id)
	p.SetInt(name, unit)
}

// Destroy destroys the program.
func (p *program) Destroy() {
	if p == nil || p.id == 0 {
		return
	}
	gl.DeleteProgram(p.id)
	*p = program{}
}
