// Package gpu defines the graphics-device interface used to allocate terrain buffers,
// with an OpenGL implementation and a headless in-memory one.
package gpu

import "errors"

// Buffer is an opaque handle to a buffer owned by a Device.
// The zero value never refers to a live buffer.
type Buffer uint32

// ElementType describes the scalar type stored in a buffer.
type ElementType int

const (
	Float32 ElementType = iota
	IndexUint32
)

// Size returns the element size in bytes.
func (t ElementType) Size() int {
	return 4
}

// Attribute is one interleaved vertex attribute.
type Attribute struct {
	Name       string
	Components int
}

// VertexLayout describes how a vertex buffer is interleaved.
type VertexLayout struct {
	Attributes []Attribute
	Type       ElementType
}

// Stride returns the number of scalars per vertex.
func (l VertexLayout) Stride() int {
	n := 0
	for _, a := range l.Attributes {
		n += a.Components
	}
	return n
}

// Offset returns the scalar offset of the named attribute, or -1.
func (l VertexLayout) Offset(name string) int {
	n := 0
	for _, a := range l.Attributes {
		if a.Name == name {
			return n
		}
		n += a.Components
	}
	return -1
}

// TerrainLayout is position(3) + normal(3) + texcoord(2).
var TerrainLayout = VertexLayout{
	Attributes: []Attribute{
		{Name: "position", Components: 3},
		{Name: "normal", Components: 3},
		{Name: "texcoord", Components: 2},
	},
	Type: Float32,
}

var (
	// ErrEmptyBuffer is returned when asked to create a buffer with no data.
	ErrEmptyBuffer = errors.New("gpu: empty buffer data")
	// ErrLayoutMismatch is returned when vertex data is not a whole number of vertices.
	ErrLayoutMismatch = errors.New("gpu: vertex data does not match layout")
)

// Device allocates and releases GPU buffers.
// Creation calls block until the buffer exists; handles are never read back.
type Device interface {
	CreateIndexBuffer(indices []uint32) (Buffer, error)
	CreateVertexBuffer(data []float32, layout VertexLayout) (Buffer, error)
	DeleteBuffer(b Buffer)
}

func checkVertexData(data []float32, layout VertexLayout) error {
	if len(data) == 0 {
		return ErrEmptyBuffer
	}
	stride := layout.Stride()
	if stride == 0 || len(data)%stride != 0 {
		return ErrLayoutMismatch
	}
	return nil
}
