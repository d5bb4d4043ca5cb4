package waterfall

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// renderBackend is the set of GPU operations the sink performs per row. The
// real implementation issues OpenGL calls; tests substitute a recorder so the
// ring state machine can be driven without a live context.
type renderBackend interface {
	// WriteRow stores one row of samples at the given physical slot.
	WriteRow(slot int, row []float32)
	// SetRotation updates the vertical read rotation as a fraction of height.
	SetRotation(voffset float32)
	// Draw binds everything and renders the quad once.
	Draw()
	// Dispose releases every GPU object the backend owns.
	Dispose()
}

// handles collects every GL object and resolved location the sink owns.
// All of it is created once during setup and released only by Dispose.
type handles struct {
	program  uint32
	vao      uint32
	vbo      uint32
	dataTex  uint32
	colorTex uint32

	coordAttr   int32
	textureLoc  int32
	colorMapLoc int32
	scaleLoc    int32
	offsetLoc   int32
	voffsetLoc  int32
}

// Full-screen quad, 4 vertices of 2 floats, drawn as a triangle strip.
var quadVertices = []float32{
	-1.0, -1.0,
	1.0, -1.0,
	-1.0, 1.0,
	1.0, 1.0,
}

type glBackend struct {
	h      handles
	width  int32
	height int32
}

// newGLBackend builds the program, quad, ring-buffer texture and color map
// texture. A GL context must be current on the calling thread. On any
// failure the objects created so far are deleted and no backend is returned.
func newGLBackend(width, height int, cmap ColorMap, vertexSrc, fragmentSrc string) (*glBackend, error) {
	program, err := newProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}

	b := &glBackend{width: int32(width), height: int32(height)}
	b.h.program = program
	b.h.coordAttr = gl.GetAttribLocation(program, gl.Str("in_coord\x00"))
	b.h.textureLoc = gl.GetUniformLocation(program, gl.Str("u_texture\x00"))
	b.h.colorMapLoc = gl.GetUniformLocation(program, gl.Str("u_colorMap\x00"))
	b.h.scaleLoc = gl.GetUniformLocation(program, gl.Str("u_scale\x00"))
	b.h.offsetLoc = gl.GetUniformLocation(program, gl.Str("u_offset\x00"))
	b.h.voffsetLoc = gl.GetUniformLocation(program, gl.Str("u_voffset\x00"))
	if b.h.coordAttr < 0 {
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("%w: attribute in_coord not found", ErrShaderLink)
	}

	gl.GenVertexArrays(1, &b.h.vao)
	gl.GenBuffers(1, &b.h.vbo)
	if b.h.vao == 0 || b.h.vbo == 0 {
		b.Dispose()
		return nil, fmt.Errorf("%w: quad buffer", ErrResourceAlloc)
	}
	gl.BindVertexArray(b.h.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.h.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(uint32(b.h.coordAttr))
	gl.VertexAttribPointer(uint32(b.h.coordAttr), 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	// The ring buffer: a single-channel float texture, zeroed. WRAP_T REPEAT
	// is what makes circular addressing work purely through sampling
	// coordinates; WRAP_S stays clamped.
	gl.GenTextures(1, &b.h.dataTex)
	if b.h.dataTex == 0 {
		b.Dispose()
		return nil, fmt.Errorf("%w: data texture", ErrResourceAlloc)
	}
	zero := make([]float32, width*height)
	gl.BindTexture(gl.TEXTURE_2D, b.h.dataTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R32F, b.width, b.height, 0, gl.RED, gl.FLOAT, gl.Ptr(zero))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	b.h.colorTex, err = newColorMapTexture(cmap)
	if err != nil {
		b.Dispose()
		return nil, err
	}

	// Sampler units and lookup constants never change, push them once.
	scale, offset := cmap.LookupConstants()
	gl.UseProgram(program)
	gl.Uniform1i(b.h.textureLoc, 0)
	gl.Uniform1i(b.h.colorMapLoc, 1)
	gl.Uniform1f(b.h.scaleLoc, scale)
	gl.Uniform1f(b.h.offsetLoc, offset)
	gl.Uniform1f(b.h.voffsetLoc, 0)
	gl.UseProgram(0)

	return b, nil
}

func (b *glBackend) WriteRow(slot int, row []float32) {
	gl.BindTexture(gl.TEXTURE_2D, b.h.dataTex)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, int32(slot), b.width, 1, gl.RED, gl.FLOAT, gl.Ptr(row))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (b *glBackend) SetRotation(voffset float32) {
	gl.UseProgram(b.h.program)
	gl.Uniform1f(b.h.voffsetLoc, voffset)
}

func (b *glBackend) Draw() {
	gl.UseProgram(b.h.program)
	gl.BindVertexArray(b.h.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, b.h.dataTex)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, b.h.colorTex)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindVertexArray(0)
}

func (b *glBackend) Dispose() {
	if b.h.program != 0 {
		gl.DeleteProgram(b.h.program)
	}
	if b.h.vbo != 0 {
		gl.DeleteBuffers(1, &b.h.vbo)
	}
	if b.h.vao != 0 {
		gl.DeleteVertexArrays(1, &b.h.vao)
	}
	if b.h.dataTex != 0 {
		gl.DeleteTextures(1, &b.h.dataTex)
	}
	if b.h.colorTex != 0 {
		gl.DeleteTextures(1, &b.h.colorTex)
	}
	b.h = handles{}
}
