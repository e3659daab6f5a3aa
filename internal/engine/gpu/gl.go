package gpu

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLDevice allocates buffers through OpenGL 4.1 core.
// It must be used from the thread that owns the GL context, after gl.Init.
type GLDevice struct{}

// NewGLDevice returns a device bound to the current GL context.
func NewGLDevice() *GLDevice {
	return &GLDevice{}
}

// CreateIndexBuffer uploads indices as a static element array buffer.
func (d *GLDevice) CreateIndexBuffer(indices []uint32) (Buffer, error) {
	if len(indices) == 0 {
		return 0, ErrEmptyBuffer
	}

	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*IndexUint32.Size(), unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	return Buffer(ebo), nil
}

// CreateVertexBuffer uploads interleaved vertex data as a static array buffer.
func (d *GLDevice) CreateVertexBuffer(data []float32, layout VertexLayout) (Buffer, error) {
	if err := checkVertexData(data, layout); err != nil {
		return 0, err
	}

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*layout.Type.Size(), unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return Buffer(vbo), nil
}

// DeleteBuffer releases b.
func (d *GLDevice) DeleteBuffer(b Buffer) {
	if b == 0 {
		return
	}
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}
