package npy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/npyio/internal/parallel"
	"github.com/born-ml/npyio/internal/tensor"
)

func TestToCOrderMatrix(t *testing.T) {
	// [[0 1 2] [3 4 5]] stored column-major.
	f, err := NewArray(tensor.Shape{2, 3}, WireType{KindInt, 4}, true)
	require.NoError(t, err)
	copy(f.AsInt32(), []int32{0, 3, 1, 4, 2, 5})

	c, err := f.ToCOrder()
	require.NoError(t, err)
	assert.False(t, c.FortranOrder())
	assert.Equal(t, tensor.Shape{2, 3}, c.Shape())
	assert.Equal(t, []int32{0, 1, 2, 3, 4, 5}, c.AsInt32())
	assert.Equal(t, []int32{0, 3, 1, 4, 2, 5}, f.AsInt32(), "source should be untouched")
}

func TestToCOrderCopiesCOrder(t *testing.T) {
	a, err := FromSlice([]uint16{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, err)

	c, err := a.ToCOrder()
	require.NoError(t, err)
	assert.True(t, a.Equal(c))
	assert.True(t, c.IsUnique())
}

func TestToCOrderScalarAndEmpty(t *testing.T) {
	s, err := NewArray(tensor.Shape{}, WireType{KindFloat, 8}, true)
	require.NoError(t, err)
	s.AsFloat64()[0] = 2.5
	c, err := s.ToCOrder()
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5}, c.AsFloat64())

	e, err := NewArray(tensor.Shape{0, 4}, WireType{KindFloat, 4}, true)
	require.NoError(t, err)
	c, err = e.ToCOrder()
	require.NoError(t, err)
	assert.Equal(t, 0, c.ByteLength())
}

func TestToCOrderReleased(t *testing.T) {
	f, err := NewArray(tensor.Shape{2, 2}, WireType{KindUint, 1}, true)
	require.NoError(t, err)
	f.Release()

	_, err = f.ToCOrder()
	assert.ErrorIs(t, err, ErrReleased)
}

func TestTransposeToCParallelMatchesSequential(t *testing.T) {
	shape := []int{3, 5, 7}
	n := 3 * 5 * 7
	src := make([]byte, n*2)
	for i := range src {
		src[i] = byte(i)
	}

	seq := make([]byte, len(src))
	transposeToC(seq, src, shape, 2, parallel.Config{})

	par := make([]byte, len(src))
	transposeToC(par, src, shape, 2, parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8})

	assert.Equal(t, seq, par)

	// Element (i, j, k) sits at column-major offset i + 3*j + 15*k.
	at := func(buf []byte, e int) []byte { return buf[e*2 : e*2+2] }
	for i := 0; i < 3; i++ {
		for j := 0; j < 5; j++ {
			for k := 0; k < 7; k++ {
				row := i*35 + j*7 + k
				col := i + 3*j + 15*k
				assert.Equal(t, at(src, col), at(seq, row))
			}
		}
	}
}
