package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// lineStride is x, y, z, r, g, b.
const lineStride = 6

// lineBatch streams colored line vertices for debug overlays.
type lineBatch struct {
	program     uint32
	locViewProj int32
	vao         uint32
	vbo         uint32
	capacity    int // floats
}

func newLineBatch() (*lineBatch, error) {
	program, err := compileProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}
	b := &lineBatch{
		program:     program,
		locViewProj: uniform(program, "uViewProj"),
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)

	stride := int32(lineStride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return b, nil
}

func (b *lineBatch) draw(vertices []float32, viewProj math.Mat4) {
	if len(vertices) < 2*lineStride {
		return
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(vertices) > b.capacity {
		b.capacity = len(vertices)
		gl.BufferData(gl.ARRAY_BUFFER, b.capacity*4, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, unsafe.Pointer(&vertices[0]))
	}

	gl.UseProgram(b.program)
	gl.UniformMatrix4fv(b.locViewProj, 1, false, viewProj.Ptr())
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/lineStride))
	gl.BindVertexArray(0)
}

func (b *lineBatch) close() {
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteProgram(b.program)
}
