package npy

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrDataLength         = errors.New("data length does not match shape and dtype")
	ErrFortranWrite       = errors.New("writing fortran-order arrays is not supported")
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrReleased           = errors.New("array storage has been released")
)

// IOError reports a failure to open, read or write a file.
type IOError struct {
	Op   string // "open", "read", "write", "mmap"
	Path string
	Err  error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("npy %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("npy %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error { return e.Err }

// FormatError reports a header that does not follow the format.
// Keyword names the missing or malformed header key when there is one.
type FormatError struct {
	Keyword string
	Detail  string
	Err     error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	msg := "npy format"
	if e.Keyword != "" {
		msg += fmt.Sprintf(": keyword %q", e.Keyword)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *FormatError) Unwrap() error { return e.Err }

// UnsupportedTypeError reports a wire type with no logical data type.
type UnsupportedTypeError struct {
	Kind byte
	Size int
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported npy type %q with word size %d", e.Kind, e.Size)
}

// CorruptionError reports a payload shorter than the header declares.
type CorruptionError struct {
	Want int64 // declared payload bytes
	Got  int64 // bytes actually available
}

// Error implements the error interface.
func (e *CorruptionError) Error() string {
	return fmt.Sprintf("npy payload truncated: want %d bytes, got %d", e.Want, e.Got)
}

// TypeMismatchError reports a typed view requested with the wrong element type.
type TypeMismatchError struct {
	Want string // array data type
	Got  string // requested element type
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("array dtype is %s, not %s", e.Want, e.Got)
}

func missingKeyword(keyword string) error {
	return &FormatError{Keyword: keyword, Detail: "missing from header"}
}
