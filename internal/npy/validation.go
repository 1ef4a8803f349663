package npy

import (
	"fmt"
	"math"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize = 1 << 20 // 1MB - maximum dictionary text size
	MaxRank       = 64      // Maximum number of dimensions
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default, recommended for production).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal checks sizes only; the wire type need not map to a
	// logical data type, so such arrays are only reachable as raw bytes.
	ValidationNormal
	// ValidationNone skips validation (dangerous! Use only with trusted input).
	ValidationNone
)

// String returns the level name used in configuration files.
func (l ValidationLevel) String() string {
	switch l {
	case ValidationStrict:
		return "strict"
	case ValidationNormal:
		return "normal"
	case ValidationNone:
		return "none"
	default:
		return fmt.Sprintf("ValidationLevel(%d)", int(l))
	}
}

// ParseValidationLevel converts a level name back to a ValidationLevel.
func ParseValidationLevel(s string) (ValidationLevel, error) {
	for _, l := range []ValidationLevel{ValidationStrict, ValidationNormal, ValidationNone} {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown validation level %q", s)
}

// PayloadSize returns the number of payload bytes a header declares, or an
// error when the size does not fit in an int.
func PayloadSize(h Header) (int, error) {
	if h.Type.Size <= 0 {
		return 0, &FormatError{Keyword: keyDescr, Detail: fmt.Sprintf("invalid word size %d", h.Type.Size)}
	}
	if err := h.Shape.Validate(); err != nil {
		return 0, &FormatError{Keyword: keyShape, Err: err}
	}
	for _, dim := range h.Shape {
		if dim == 0 {
			return 0, nil
		}
	}
	n := h.Type.Size
	for _, dim := range h.Shape {
		if n > math.MaxInt/dim {
			return 0, &FormatError{Keyword: keyShape, Detail: fmt.Sprintf("shape %v overflows payload size", h.Shape)}
		}
		n *= dim
	}
	return n, nil
}

// ValidateHeader checks a decoded header before any payload is allocated.
func ValidateHeader(h Header, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}
	if len(h.Shape) > MaxRank {
		return &FormatError{Keyword: keyShape, Detail: fmt.Sprintf("rank %d exceeds maximum %d", len(h.Shape), MaxRank)}
	}
	if _, err := PayloadSize(h); err != nil {
		return err
	}
	if level == ValidationStrict {
		if _, err := h.Type.DataType(); err != nil {
			return err
		}
	}
	return nil
}
