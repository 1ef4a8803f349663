package npy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/npyio/internal/tensor"
)

func TestNewArrayByteLength(t *testing.T) {
	tests := []struct {
		shape tensor.Shape
		wt    WireType
		want  int
	}{
		{tensor.Shape{}, WireType{KindFloat, 8}, 8},
		{tensor.Shape{5}, WireType{KindUint, 2}, 10},
		{tensor.Shape{2, 3}, WireType{KindFloat, 4}, 24},
		{tensor.Shape{0, 3}, WireType{KindInt, 8}, 0},
		{tensor.Shape{4}, WireType{KindComplex, 16}, 64},
	}

	for _, tt := range tests {
		a, err := NewArray(tt.shape, tt.wt, false)
		require.NoError(t, err)
		assert.Equal(t, tt.want, a.ByteLength(), "%v %s", tt.shape, tt.wt)
		assert.Len(t, a.Bytes(), tt.want)
		assert.Equal(t, tt.shape.NumElements(), a.NumElements())
	}
}

func TestNewArrayInvalid(t *testing.T) {
	_, err := NewArray(tensor.Shape{-1}, WireType{KindFloat, 4}, false)
	assert.Error(t, err)

	_, err = NewArray(tensor.Shape{2}, WireType{KindFloat, 0}, false)
	assert.Error(t, err)

	_, err = NewArray(tensor.Shape{1 << 40, 1 << 40}, WireType{KindFloat, 8}, false)
	assert.Error(t, err)
}

func TestResolveLogicalType(t *testing.T) {
	a, err := NewArray(tensor.Shape{3}, WireType{KindUint, 2}, false)
	require.NoError(t, err)
	dt, err := a.ResolveLogicalType()
	require.NoError(t, err)
	assert.Equal(t, tensor.Uint16, dt)

	half, err := NewArray(tensor.Shape{3}, WireType{KindFloat, 2}, false)
	require.NoError(t, err)
	_, err = half.ResolveLogicalType()
	var typeErr *UnsupportedTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, KindFloat, typeErr.Kind)
	assert.Equal(t, 2, typeErr.Size)
}

func TestViewZeroCopy(t *testing.T) {
	a, err := NewArrayOf(tensor.Shape{2, 2}, tensor.Int64)
	require.NoError(t, err)

	data, err := View[int64](a)
	require.NoError(t, err)
	require.Len(t, data, 4)

	data[3] = 42
	assert.Equal(t, int64(42), a.AsInt64()[3], "View should return zero-copy slice")
}

func TestViewTypeMismatch(t *testing.T) {
	a, err := NewArrayOf(tensor.Shape{4}, tensor.Float32)
	require.NoError(t, err)

	_, err = View[float64](a)
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "float32", mismatch.Want)
	assert.Equal(t, "float64", mismatch.Got)

	assert.Panics(t, func() { a.AsInt32() })
}

func TestViewUnsupportedType(t *testing.T) {
	a, err := NewArray(tensor.Shape{4}, WireType{KindFloat, 2}, false)
	require.NoError(t, err)

	_, err = View[uint16](a)
	var typeErr *UnsupportedTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestViewEmpty(t *testing.T) {
	a, err := NewArrayOf(tensor.Shape{0}, tensor.Float64)
	require.NoError(t, err)

	data, err := View[float64](a)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFromSlice(t *testing.T) {
	a, err := FromSlice([]uint16{1, 2, 3, 65535}, tensor.Shape{2, 2})
	require.NoError(t, err)
	assert.Equal(t, WireType{KindUint, 2}, a.WireType())
	assert.Equal(t, []uint16{1, 2, 3, 65535}, a.AsUint16())

	_, err = FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 2})
	assert.ErrorIs(t, err, ErrDataLength)
}

func TestFromBytes(t *testing.T) {
	a, err := FromBytes([]byte{1, 0, 1}, tensor.Shape{3}, tensor.Bool)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, a.AsBool())

	_, err = FromBytes([]byte{1, 0}, tensor.Shape{3}, tensor.Bool)
	assert.ErrorIs(t, err, ErrDataLength)
}

func TestCloneSharesStorage(t *testing.T) {
	a, err := FromSlice([]float32{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, err)
	assert.True(t, a.IsUnique())

	b := a.Clone()
	assert.False(t, a.IsUnique())
	assert.False(t, b.IsUnique())

	b.AsFloat32()[0] = 10
	assert.Equal(t, float32(10), a.AsFloat32()[0], "mutation through a clone should be visible")

	b.Release()
	assert.True(t, a.IsUnique())
	assert.Equal(t, []float32{10, 2, 3}, a.AsFloat32(), "storage should survive until the last release")

	a.Release()
	assert.Nil(t, a.Bytes())
}

func TestCopyIsIndependent(t *testing.T) {
	a, err := FromSlice([]int32{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, err)

	c := a.Copy()
	assert.True(t, a.Equal(c))
	assert.True(t, c.IsUnique())

	c.AsInt32()[0] = 99
	assert.Equal(t, int32(1), a.AsInt32()[0])
	assert.False(t, a.Equal(c))
}

func TestReleasedView(t *testing.T) {
	a, err := FromSlice([]int32{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, err)
	a.Release()

	_, err = View[int32](a)
	assert.ErrorIs(t, err, ErrReleased)
}

func TestArrayStrides(t *testing.T) {
	c, err := NewArrayOf(tensor.Shape{2, 3, 4}, tensor.Uint8)
	require.NoError(t, err)
	assert.Equal(t, []int{12, 4, 1}, c.Strides())

	f, err := NewArray(tensor.Shape{2, 3, 4}, WireType{KindUint, 1}, true)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 6}, f.Strides())
	assert.True(t, f.FortranOrder())
}

func TestArrayEqual(t *testing.T) {
	a, err := FromSlice([]uint8{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	b, err := FromSlice([]uint8{1, 2, 3, 4}, tensor.Shape{4})
	require.NoError(t, err)

	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
	assert.True(t, a.Equal(a.Clone()))
	assert.Equal(t, "Array(u1, shape=[2 2], order=C, bytes=4)", a.String())
}
