// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the scalar types and shapes used by npyio.
//
//   - DataType: logical element type (float32, float64, int32, int64, uint8, uint16, bool)
//   - Scalar: generic constraint over the matching Go types
//   - Shape: array dimensions
//
// Example:
//
//	shape := tensor.Shape{2, 3}
//	n := shape.NumElements()          // 6
//	size := n * tensor.Float32.Size() // 24 bytes
package tensor

import (
	"github.com/born-ml/npyio/internal/tensor"
)

// Type aliases for public API

// Scalar is a constraint for array element types.
// Supported types: float32, float64, int32, int64, uint8, uint16, bool.
type Scalar = tensor.Scalar

// DataType represents the logical element type of an array.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Uint16  DataType = tensor.Uint16
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of an array.
// Example: Shape{2, 3, 4} represents a 3D array with dimensions 2×3×4.
type Shape = tensor.Shape

// DataTypes lists every supported data type.
func DataTypes() []DataType {
	return append([]DataType(nil), tensor.DataTypes...)
}

// ParseDataType converts a name such as "float32" to a DataType.
func ParseDataType(s string) (DataType, error) {
	return tensor.ParseDataType(s)
}

// ParseShape parses a comma separated list of dimensions such as "2,3".
func ParseShape(s string) (Shape, error) {
	return tensor.ParseShape(s)
}

// DataTypeOf returns the DataType matching the generic type T.
func DataTypeOf[T Scalar]() DataType {
	return tensor.DataTypeOf[T]()
}
