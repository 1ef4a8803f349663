package npy

import (
	"fmt"
	"strconv"
	"unsafe"

	"github.com/born-ml/npyio/internal/tensor"
)

// Format constants.
const (
	MagicString     = "\x93NUMPY"
	MagicLen        = len(MagicString)
	MajorVersion    = 1  // version written by this package
	MinorVersion    = 0  // version written by this package
	PreambleSizeV1  = 10 // magic + version + uint16 header length
	PreambleSizeV2  = 12 // magic + version + uint32 header length (v2.0, v3.0)
	HeaderAlignment = 16 // preamble+dict is padded to a multiple of this
	MaxHeaderLenV1  = 1<<16 - 1
)

// Byte order markers used in the descr field.
const (
	LittleEndian  byte = '<'
	BigEndian     byte = '>'
	NotApplicable byte = '|'
)

// Wire kind codes.
const (
	KindFloat   byte = 'f'
	KindInt     byte = 'i'
	KindUint    byte = 'u'
	KindBool    byte = 'b'
	KindComplex byte = 'c'
	KindObject  byte = '?'
)

// Header dictionary keys.
const (
	keyDescr        = "descr"
	keyFortranOrder = "fortran_order"
	keyShape        = "shape"
)

// WireType is the on-disk element tag: a kind code and a word size in bytes.
type WireType struct {
	Kind byte
	Size int
}

// String renders the tag without a byte order marker, e.g. "f4".
func (w WireType) String() string {
	return string(w.Kind) + strconv.Itoa(w.Size)
}

// DataType maps the wire type to its logical data type.
func (w WireType) DataType() (tensor.DataType, error) {
	switch w {
	case WireType{KindFloat, 4}:
		return tensor.Float32, nil
	case WireType{KindFloat, 8}:
		return tensor.Float64, nil
	case WireType{KindInt, 4}:
		return tensor.Int32, nil
	case WireType{KindInt, 8}:
		return tensor.Int64, nil
	case WireType{KindUint, 1}:
		return tensor.Uint8, nil
	case WireType{KindUint, 2}:
		return tensor.Uint16, nil
	case WireType{KindBool, 1}:
		return tensor.Bool, nil
	default:
		return 0, &UnsupportedTypeError{Kind: w.Kind, Size: w.Size}
	}
}

// WireTypeOf maps a logical data type to its wire type.
func WireTypeOf(dt tensor.DataType) (WireType, error) {
	if !dt.Valid() {
		return WireType{}, fmt.Errorf("unsupported data type %d", int(dt))
	}
	switch dt {
	case tensor.Float32, tensor.Float64:
		return WireType{KindFloat, dt.Size()}, nil
	case tensor.Int32, tensor.Int64:
		return WireType{KindInt, dt.Size()}, nil
	case tensor.Uint8, tensor.Uint16:
		return WireType{KindUint, dt.Size()}, nil
	case tensor.Bool:
		return WireType{KindBool, dt.Size()}, nil
	default:
		return WireType{}, fmt.Errorf("unsupported data type %d", int(dt))
	}
}

// HostByteOrder returns the descr marker for the byte order of this machine.
func HostByteOrder() byte {
	x := uint16(1)
	//nolint:gosec // G103: reading the first byte of a uint16 to detect endianness
	if *(*byte)(unsafe.Pointer(&x)) == 1 {
		return LittleEndian
	}
	return BigEndian
}
