package npy

import (
	"bytes"
	"fmt"

	"github.com/born-ml/npyio/internal/tensor"
)

// Array is a dense n-dimensional array backed by a reference-counted byte
// buffer.
//
// Handles returned by Clone share storage with the original: a write through
// one is visible through all of them, and the bytes are dropped only when the
// last handle is released. Copy returns independent storage. Arrays are not
// safe for concurrent mutation.
//
// Example:
//
//	a, _ := npy.NewArrayOf(tensor.Shape{2, 3}, tensor.Float32)
//	data := a.AsFloat32() // zero-copy
//	b := a.Clone()        // shares the buffer
//	c := a.Copy()         // independent bytes
type Array struct {
	buffer       *tensor.Buffer
	shape        tensor.Shape
	wireType     WireType
	fortranOrder bool
}

// NewArray allocates a zero-filled array of NumElements*wt.Size bytes.
func NewArray(shape tensor.Shape, wt WireType, fortranOrder bool) (*Array, error) {
	size, err := PayloadSize(Header{Type: wt, Shape: shape, FortranOrder: fortranOrder})
	if err != nil {
		return nil, fmt.Errorf("invalid array: %w", err)
	}
	return &Array{
		buffer:       tensor.NewBuffer(size),
		shape:        shape.Clone(),
		wireType:     wt,
		fortranOrder: fortranOrder,
	}, nil
}

// NewArrayOf allocates a zero-filled row-major array of a logical data type.
func NewArrayOf(shape tensor.Shape, dt tensor.DataType) (*Array, error) {
	wt, err := WireTypeOf(dt)
	if err != nil {
		return nil, err
	}
	return NewArray(shape, wt, false)
}

// newArrayFromBytes wraps data without copying. len(data) must already match
// the header.
func newArrayFromBytes(h Header, data []byte) *Array {
	return &Array{
		buffer:       tensor.WrapBuffer(data),
		shape:        h.Shape.Clone(),
		wireType:     h.Type,
		fortranOrder: h.FortranOrder,
	}
}

// FromBytes builds a row-major array holding a copy of data.
func FromBytes(data []byte, shape tensor.Shape, dt tensor.DataType) (*Array, error) {
	a, err := NewArrayOf(shape, dt)
	if err != nil {
		return nil, err
	}
	if len(data) != a.ByteLength() {
		return nil, fmt.Errorf("%w: got %d bytes, shape %v of %s needs %d",
			ErrDataLength, len(data), shape, dt, a.ByteLength())
	}
	copy(a.buffer.Bytes(), data)
	return a, nil
}

// FromSlice builds a row-major array holding a copy of data.
func FromSlice[T tensor.Scalar](data []T, shape tensor.Shape) (*Array, error) {
	a, err := NewArrayOf(shape, tensor.DataTypeOf[T]())
	if err != nil {
		return nil, err
	}
	if len(data) != a.NumElements() {
		return nil, fmt.Errorf("%w: got %d elements, shape %v needs %d",
			ErrDataLength, len(data), shape, a.NumElements())
	}
	copy(a.buffer.Bytes(), sliceBytes(data))
	return a, nil
}

// Shape returns the array's shape.
func (a *Array) Shape() tensor.Shape {
	return a.shape
}

// WireType returns the on-disk element tag.
func (a *Array) WireType() WireType {
	return a.wireType
}

// FortranOrder reports whether the payload is column-major.
func (a *Array) FortranOrder() bool {
	return a.fortranOrder
}

// Header returns the metadata describing the array.
func (a *Array) Header() Header {
	return Header{Type: a.wireType, Shape: a.shape.Clone(), FortranOrder: a.fortranOrder}
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// ByteLength returns the payload size in bytes.
func (a *Array) ByteLength() int {
	return a.buffer.Len()
}

// Strides returns element strides for the array's memory order.
func (a *Array) Strides() []int {
	if a.fortranOrder {
		return a.shape.ComputeFortranStrides()
	}
	return a.shape.ComputeStrides()
}

// Bytes returns the raw payload. The slice aliases the array's storage.
func (a *Array) Bytes() []byte {
	return a.buffer.Bytes()
}

// ResolveLogicalType maps the wire type to a logical data type.
func (a *Array) ResolveLogicalType() (tensor.DataType, error) {
	return a.wireType.DataType()
}

// Clone returns a handle sharing this array's storage (reference count +1).
func (a *Array) Clone() *Array {
	return &Array{
		buffer:       a.buffer.Retain(),
		shape:        a.shape.Clone(),
		wireType:     a.wireType,
		fortranOrder: a.fortranOrder,
	}
}

// Copy returns an array with its own copy of the bytes.
func (a *Array) Copy() *Array {
	return &Array{
		buffer:       a.buffer.Copy(),
		shape:        a.shape.Clone(),
		wireType:     a.wireType,
		fortranOrder: a.fortranOrder,
	}
}

// Release drops this handle's reference to the storage.
func (a *Array) Release() {
	a.buffer.Release()
}

// IsUnique returns true if no other handle shares the storage.
func (a *Array) IsUnique() bool {
	return a.buffer.IsUnique()
}

// Equal reports whether two arrays have the same shape, wire type, memory
// order and payload bytes.
func (a *Array) Equal(other *Array) bool {
	if other == nil {
		return false
	}
	return a.shape.Equal(other.shape) &&
		a.wireType == other.wireType &&
		a.fortranOrder == other.fortranOrder &&
		bytes.Equal(a.Bytes(), other.Bytes())
}

// String summarizes the array's metadata.
func (a *Array) String() string {
	order := "C"
	if a.fortranOrder {
		order = "F"
	}
	return fmt.Sprintf("Array(%s, shape=%v, order=%s, bytes=%d)", a.wireType, a.shape, order, a.ByteLength())
}
