package gpu

import (
	"fmt"
	"sync"
)

// BufferKind tells index and vertex buffers apart in a MemoryDevice.
type BufferKind int

const (
	IndexBufferKind BufferKind = iota
	VertexBufferKind
)

// MemoryBuffer is a buffer held in host memory by a MemoryDevice.
type MemoryBuffer struct {
	Kind    BufferKind
	Indices []uint32
	Data    []float32
	Layout  VertexLayout
}

// MemoryDevice keeps buffers in host memory. It is used headless and in tests.
type MemoryDevice struct {
	mu      sync.Mutex
	next    Buffer
	buffers map[Buffer]*MemoryBuffer
	created int
	deleted int
}

// NewMemoryDevice creates an empty in-memory device.
func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{
		buffers: make(map[Buffer]*MemoryBuffer),
	}
}

// CreateIndexBuffer copies indices into a new buffer.
func (d *MemoryDevice) CreateIndexBuffer(indices []uint32) (Buffer, error) {
	if len(indices) == 0 {
		return 0, ErrEmptyBuffer
	}
	buf := &MemoryBuffer{
		Kind:    IndexBufferKind,
		Indices: append([]uint32(nil), indices...),
	}
	return d.store(buf), nil
}

// CreateVertexBuffer copies data into a new buffer.
func (d *MemoryDevice) CreateVertexBuffer(data []float32, layout VertexLayout) (Buffer, error) {
	if err := checkVertexData(data, layout); err != nil {
		return 0, err
	}
	buf := &MemoryBuffer{
		Kind:   VertexBufferKind,
		Data:   append([]float32(nil), data...),
		Layout: layout,
	}
	return d.store(buf), nil
}

// DeleteBuffer releases b. Deleting an unknown handle is a no-op.
func (d *MemoryDevice) DeleteBuffer(b Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.buffers[b]; !ok {
		return
	}
	delete(d.buffers, b)
	d.deleted++
}

// Lookup returns the buffer stored under b.
func (d *MemoryDevice) Lookup(b Buffer) (*MemoryBuffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, ok := d.buffers[b]
	if !ok {
		return nil, fmt.Errorf("gpu: unknown buffer %d", b)
	}
	return buf, nil
}

// Live returns the number of buffers not yet deleted.
func (d *MemoryDevice) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buffers)
}

// Created returns the total number of buffers ever created.
func (d *MemoryDevice) Created() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created
}

// Deleted returns the total number of buffers deleted.
func (d *MemoryDevice) Deleted() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deleted
}

func (d *MemoryDevice) store(buf *MemoryBuffer) Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	d.buffers[d.next] = buf
	d.created++
	return d.next
}
