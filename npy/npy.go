// Package npy reads and writes single arrays in the NumPy .npy format.
//
// This package wraps the internal codec and exports a clean public API.
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/npyio/npy"
//	    "github.com/born-ml/npyio/tensor"
//	)
//
//	// Save a slice as a 2x3 float32 array
//	err := npy.SaveSlice("weights.npy", []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load it back
//	a, err := npy.Load("weights.npy")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	values, err := npy.View[float32](a)
package npy

import (
	"io"

	"github.com/born-ml/npyio/internal/npy"
	"github.com/born-ml/npyio/tensor"
)

// Array is a dense n-dimensional array backed by a reference-counted buffer.
// Clone shares storage, Copy duplicates it.
type Array = npy.Array

// MappedArray is an array backed by a read-only memory mapping.
type MappedArray = npy.MappedArray

// WireType is the on-disk element tag (kind code and word size).
type WireType = npy.WireType

// Header is the decoded header dictionary.
type Header = npy.Header

// ReaderOptions configures Load and Read.
type ReaderOptions = npy.ReaderOptions

// WriterOptions configures SaveArrayWithOptions.
type WriterOptions = npy.WriterOptions

// ValidationLevel controls how strictly headers are checked on read.
type ValidationLevel = npy.ValidationLevel

// Validation levels.
const (
	ValidationStrict ValidationLevel = npy.ValidationStrict
	ValidationNormal ValidationLevel = npy.ValidationNormal
	ValidationNone   ValidationLevel = npy.ValidationNone
)

// DigestAlgorithm selects the payload hash used by Digest.
type DigestAlgorithm = npy.DigestAlgorithm

// Digest algorithms.
const (
	DigestSHA256 DigestAlgorithm = npy.DigestSHA256
	DigestBlake3 DigestAlgorithm = npy.DigestBlake3
	DigestFarm   DigestAlgorithm = npy.DigestFarm
)

// Error types. Use errors.As to match them.
type (
	IOError              = npy.IOError
	FormatError          = npy.FormatError
	UnsupportedTypeError = npy.UnsupportedTypeError
	CorruptionError      = npy.CorruptionError
	TypeMismatchError    = npy.TypeMismatchError
)

// Sentinel errors. Use errors.Is to match them.
var (
	ErrInvalidMagic       = npy.ErrInvalidMagic
	ErrUnsupportedVersion = npy.ErrUnsupportedVersion
	ErrHeaderTooLarge     = npy.ErrHeaderTooLarge
	ErrDataLength         = npy.ErrDataLength
	ErrFortranWrite       = npy.ErrFortranWrite
	ErrChecksumMismatch   = npy.ErrChecksumMismatch
)

// Load reads a .npy file with strict validation.
func Load(path string) (*Array, error) {
	return npy.Load(path)
}

// LoadWithOptions reads a .npy file.
func LoadWithOptions(path string, opts ReaderOptions) (*Array, error) {
	return npy.LoadWithOptions(path, opts)
}

// Read decodes one array from r.
func Read(r io.Reader, opts ReaderOptions) (*Array, error) {
	return npy.Read(r, opts)
}

// Map memory-maps a .npy file. Close the result when done.
func Map(path string) (*MappedArray, error) {
	return npy.Map(path)
}

// Save writes data as a .npy file of the given shape and dtype.
func Save(path string, data []byte, shape tensor.Shape, dt tensor.DataType) error {
	return npy.Save(path, data, shape, dt)
}

// SaveArray writes a to path.
func SaveArray(path string, a *Array) error {
	return npy.SaveArray(path, a)
}

// SaveArrayWithOptions writes a to path.
func SaveArrayWithOptions(path string, a *Array, opts WriterOptions) error {
	return npy.SaveArrayWithOptions(path, a, opts)
}

// SaveSlice writes data with the given shape to path.
func SaveSlice[T tensor.Scalar](path string, data []T, shape tensor.Shape) error {
	return npy.SaveSlice(path, data, shape)
}

// Write encodes a to w.
func Write(w io.Writer, a *Array) error {
	return npy.Write(w, a)
}

// NewArray allocates a zero-filled row-major array.
func NewArray(shape tensor.Shape, dt tensor.DataType) (*Array, error) {
	return npy.NewArrayOf(shape, dt)
}

// FromSlice builds an array holding a copy of data.
func FromSlice[T tensor.Scalar](data []T, shape tensor.Shape) (*Array, error) {
	return npy.FromSlice(data, shape)
}

// View interprets the payload of a as []T without copying.
func View[T tensor.Scalar](a *Array) ([]T, error) {
	return npy.View[T](a)
}

// EncodeHeader returns the preamble and header dictionary for an array.
func EncodeHeader(shape tensor.Shape, wt WireType, fortranOrder bool) ([]byte, error) {
	return npy.EncodeHeader(shape, wt, fortranOrder)
}

// DecodeHeader parses a header dictionary.
func DecodeHeader(dict []byte) (Header, error) {
	return npy.DecodeHeader(dict)
}

// WireTypeOf maps a logical data type to its wire type.
func WireTypeOf(dt tensor.DataType) (WireType, error) {
	return npy.WireTypeOf(dt)
}

// Digest hashes the payload of a.
func Digest(a *Array, algo DigestAlgorithm) (string, error) {
	return npy.Digest(a, algo)
}

// VerifyDigest compares the payload digest of a against expected.
func VerifyDigest(a *Array, expected string) error {
	return npy.VerifyDigest(a, expected)
}

// MapWithOptions memory-maps a .npy file. Close the result when done.
func MapWithOptions(path string, opts ReaderOptions) (*MappedArray, error) {
	return npy.MapWithOptions(path, opts)
}

// ParseValidationLevel converts "strict", "normal" or "none" to a level.
func ParseValidationLevel(s string) (ValidationLevel, error) {
	return npy.ParseValidationLevel(s)
}

// ParseDigestAlgorithm converts "sha256", "blake3" or "farm" to an algorithm.
func ParseDigestAlgorithm(s string) (DigestAlgorithm, error) {
	return npy.ParseDigestAlgorithm(s)
}

// FileDigest hashes a whole file, header included, as "<algo>:<hex>".
func FileDigest(path string, algo DigestAlgorithm) (string, error) {
	return npy.FileDigest(path, algo)
}

// FormatShape renders a shape as a Python tuple literal, e.g. "(2, 3)".
func FormatShape(shape tensor.Shape) string {
	return npy.FormatShape(shape)
}
