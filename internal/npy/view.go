package npy

import (
	"fmt"
	"unsafe"

	"github.com/born-ml/npyio/internal/tensor"
)

// View interprets the payload as []T without copying.
// T must match the array's logical data type.
func View[T tensor.Scalar](a *Array) ([]T, error) {
	want := tensor.DataTypeOf[T]()
	dt, err := a.ResolveLogicalType()
	if err != nil {
		return nil, err
	}
	if dt != want {
		return nil, &TypeMismatchError{Want: dt.String(), Got: want.String()}
	}

	data := a.Bytes()
	n := a.NumElements()
	if n == 0 {
		return []T{}, nil
	}
	if len(data) < n*dt.Size() {
		return nil, ErrReleased
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked above
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), n), nil
}

// sliceBytes reinterprets a typed slice as its backing bytes.
func sliceBytes[T tensor.Scalar](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from data
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), len(data)*int(unsafe.Sizeof(zero)))
}

func mustView[T tensor.Scalar](a *Array) []T {
	v, err := View[T](a)
	if err != nil {
		panic(fmt.Sprintf("npy: %v", err))
	}
	return v
}

// AsFloat32 interprets the data as []float32.
// Panics if the array's dtype is not Float32.
func (a *Array) AsFloat32() []float32 { return mustView[float32](a) }

// AsFloat64 interprets the data as []float64.
// Panics if the array's dtype is not Float64.
func (a *Array) AsFloat64() []float64 { return mustView[float64](a) }

// AsInt32 interprets the data as []int32.
// Panics if the array's dtype is not Int32.
func (a *Array) AsInt32() []int32 { return mustView[int32](a) }

// AsInt64 interprets the data as []int64.
// Panics if the array's dtype is not Int64.
func (a *Array) AsInt64() []int64 { return mustView[int64](a) }

// AsUint8 interprets the data as []uint8.
// Panics if the array's dtype is not Uint8.
func (a *Array) AsUint8() []uint8 { return mustView[uint8](a) }

// AsUint16 interprets the data as []uint16.
// Panics if the array's dtype is not Uint16.
func (a *Array) AsUint16() []uint16 { return mustView[uint16](a) }

// AsBool interprets the data as []bool.
// Panics if the array's dtype is not Bool.
func (a *Array) AsBool() []bool { return mustView[bool](a) }
