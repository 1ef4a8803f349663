package tensor

import (
	"sync"
	"sync/atomic"
)

// Buffer is a reference-counted byte store shared by array handles.
// Handles obtained through Retain alias the same bytes: a write through one
// is visible through all of them. Only the count is synchronized; concurrent
// writes to the bytes are the caller's responsibility.
type Buffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// NewBuffer creates a zero-filled buffer of size bytes with refCount = 1.
func NewBuffer(size int) *Buffer {
	buf := &Buffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

// WrapBuffer adopts data without copying; refCount starts at 1.
func WrapBuffer(data []byte) *Buffer {
	buf := &Buffer{data: data}
	buf.refCount.Store(1)
	return buf
}

// Bytes returns the underlying storage, or nil after the last release.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Len returns the size of the storage in bytes.
func (b *Buffer) Len() int {
	return len(b.Bytes())
}

// Retain increments the reference count and returns b.
func (b *Buffer) Retain() *Buffer {
	b.refCount.Add(1)
	return b
}

// Release decrements the reference count and drops the storage when it
// reaches 0. Extra releases are ignored.
func (b *Buffer) Release() {
	n := b.refCount.Add(-1)
	if n == 0 {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.data = nil
	}
	if n < 0 {
		b.refCount.Store(0)
	}
}

// RefCount returns the current number of handles.
func (b *Buffer) RefCount() int {
	return int(b.refCount.Load())
}

// IsUnique returns true if this buffer has only one reference.
func (b *Buffer) IsUnique() bool {
	return b.refCount.Load() == 1
}

// Copy returns a new buffer with its own copy of the bytes.
func (b *Buffer) Copy() *Buffer {
	src := b.Bytes()
	dst := NewBuffer(len(src))
	copy(dst.data, src)
	return dst
}
