package npy

import (
	"github.com/born-ml/npyio/internal/parallel"
)

// ToCOrder returns a C-order copy of a. For a Fortran-order array the
// elements are permuted so that the last axis varies fastest; a C-order
// array is copied unchanged.
func (a *Array) ToCOrder() (*Array, error) {
	src := a.Bytes()
	if len(src) < a.NumElements()*a.wireType.Size {
		return nil, ErrReleased
	}
	if !a.fortranOrder {
		return a.Copy(), nil
	}

	out, err := NewArray(a.shape, a.wireType, false)
	if err != nil {
		return nil, err
	}
	transposeToC(out.Bytes(), src, a.shape, a.wireType.Size, parallel.DefaultConfig())
	return out, nil
}

// transposeToC copies a column-major payload into dst in row-major order.
func transposeToC(dst, src []byte, shape []int, size int, cfg parallel.Config) {
	fstrides := make([]int, len(shape))
	stride := 1
	for k, dim := range shape {
		fstrides[k] = stride
		stride *= dim
	}

	n := stride
	parallel.For(n, cfg, func(start, end int) {
		// Row-major multi-index of start, advanced odometer style.
		idx := make([]int, len(shape))
		rem := start
		for k := len(shape) - 1; k >= 0; k-- {
			idx[k] = rem % shape[k]
			rem /= shape[k]
		}

		for i := start; i < end; i++ {
			off := 0
			for k, v := range idx {
				off += v * fstrides[k]
			}
			copy(dst[i*size:(i+1)*size], src[off*size:(off+1)*size])

			for k := len(shape) - 1; k >= 0; k-- {
				idx[k]++
				if idx[k] < shape[k] {
					break
				}
				idx[k] = 0
			}
		}
	})
}
