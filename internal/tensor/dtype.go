// Package tensor provides the logical scalar types, shapes and shared byte
// storage used by the npy codec.
package tensor

import "fmt"

// Scalar is a constraint for the element types an array can be viewed as.
// It uses Go generics to ensure compile-time type safety.
type Scalar interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~bool
}

// DataType represents runtime type information for arrays.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Uint16
	Bool
)

// DataTypes lists every supported data type in declaration order.
var DataTypes = []DataType{Float32, Float64, Int32, Int64, Uint8, Uint16, Bool}

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint16:
		return 2
	case Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Valid reports whether dt is one of the supported data types.
func (dt DataType) Valid() bool {
	return dt >= Float32 && dt <= Bool
}

// ParseDataType converts a name produced by String back to a DataType.
func ParseDataType(s string) (DataType, error) {
	for _, dt := range DataTypes {
		if dt.String() == s {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", s)
}

// DataTypeOf returns the DataType matching the generic type T.
func DataTypeOf[T Scalar]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case bool:
		return Bool
	default:
		panic("unsupported type")
	}
}
