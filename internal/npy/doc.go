// Package npy reads and writes single arrays in the NumPy .npy format.
//
//	Format Structure (version 1.0):
//	  [6 bytes: Magic "\x93NUMPY"]
//	  [1 byte: Major version = 1]
//	  [1 byte: Minor version = 0]
//	  [2 bytes: Header length (uint16 LE)]
//	  [Header: ASCII Python dict literal, space padded, ending in '\n']
//	  [Payload: raw little-endian scalars, row-major unless fortran_order]
//
// The preamble plus header is padded to a multiple of 16 bytes. Versions 2.0
// and 3.0 differ only in a 4-byte header length and are accepted on read.
//
// The format supports:
//   - float32, float64, int32, int64, uint8, uint16 and bool elements
//   - Arbitrary shapes, including scalars (rank 0) and empty arrays
//   - Fortran-order payloads on read (never written)
//   - Memory-mapped loading via Map
//
// Example usage:
//
//	// Save a slice
//	if err := npy.SaveSlice("weights.npy", []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load it back
//	a, err := npy.Load("weights.npy")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	values, err := npy.View[float32](a)
//
// Failures are reported as *IOError, *FormatError, *UnsupportedTypeError or
// *CorruptionError; use errors.As to tell them apart.
package npy
