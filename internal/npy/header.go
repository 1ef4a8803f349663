package npy

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/born-ml/npyio/internal/tensor"
)

// Header is the metadata carried by the dictionary text of a .npy file.
type Header struct {
	Type         WireType
	Shape        tensor.Shape
	FortranOrder bool
}

// Preamble is the fixed binary prefix that precedes the dictionary text.
type Preamble struct {
	Major     byte
	Minor     byte
	HeaderLen int // length of the dictionary text, padding and newline included
}

// Size returns the number of bytes the preamble occupies on disk.
func (p Preamble) Size() int {
	if p.Major == 1 {
		return PreambleSizeV1
	}
	return PreambleSizeV2
}

// EncodeHeader produces the version 1.0 preamble and dictionary text for an
// array of the given shape and wire type.
//
// The dictionary is padded with spaces so that the preamble plus dictionary
// is a multiple of HeaderAlignment bytes; its last byte is '\n'.
func EncodeHeader(shape tensor.Shape, wt WireType, fortranOrder bool) ([]byte, error) {
	if err := shape.Validate(); err != nil {
		return nil, &FormatError{Keyword: keyShape, Err: err}
	}
	if wt.Size <= 0 {
		return nil, &FormatError{Keyword: keyDescr, Detail: fmt.Sprintf("invalid word size %d", wt.Size)}
	}

	dict := encodeDict(shape, wt, fortranOrder)
	if len(dict) > MaxHeaderLenV1 {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrHeaderTooLarge, len(dict), MaxHeaderLenV1)
	}

	buf := make([]byte, 0, PreambleSizeV1+len(dict))
	buf = append(buf, MagicString...)
	buf = append(buf, MajorVersion, MinorVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(dict))) //nolint:gosec // G115: bounded by MaxHeaderLenV1
	buf = append(buf, dict...)
	return buf, nil
}

// encodeDict builds the padded dictionary text.
func encodeDict(shape tensor.Shape, wt WireType, fortranOrder bool) string {
	var sb strings.Builder
	sb.WriteString("{'descr': '")
	sb.WriteByte(HostByteOrder())
	sb.WriteString(wt.String())
	sb.WriteString("', 'fortran_order': ")
	sb.WriteString(pythonBool(fortranOrder))
	sb.WriteString(", 'shape': ")
	sb.WriteString(FormatShape(shape))
	sb.WriteString(", }")

	// Spaces fill up to the boundary; the final byte is the newline.
	pad := HeaderAlignment - (PreambleSizeV1+sb.Len())%HeaderAlignment - 1
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteByte('\n')
	return sb.String()
}

// FormatShape renders a shape as a Python tuple literal:
// [] -> "()", [5] -> "(5,)", [2 3] -> "(2, 3)".
func FormatShape(shape tensor.Shape) string {
	switch len(shape) {
	case 0:
		return "()"
	case 1:
		return "(" + strconv.Itoa(shape[0]) + ",)"
	}
	parts := make([]string, len(shape))
	for i, dim := range shape {
		parts[i] = strconv.Itoa(dim)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func pythonBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// ReadPreamble reads the magic string, the format version and the length of
// the dictionary text that follows.
func ReadPreamble(r io.Reader) (Preamble, error) {
	var fixed [MagicLen + 2]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return Preamble{}, &FormatError{Detail: "failed to read preamble", Err: err}
	}
	if string(fixed[:MagicLen]) != MagicString {
		return Preamble{}, &FormatError{Err: ErrInvalidMagic}
	}

	p := Preamble{Major: fixed[MagicLen], Minor: fixed[MagicLen+1]}
	switch p.Major {
	case 1:
		var n [2]byte
		if _, err := io.ReadFull(r, n[:]); err != nil {
			return Preamble{}, &FormatError{Detail: "failed to read header length", Err: err}
		}
		p.HeaderLen = int(binary.LittleEndian.Uint16(n[:]))
	case 2, 3:
		var n [4]byte
		if _, err := io.ReadFull(r, n[:]); err != nil {
			return Preamble{}, &FormatError{Detail: "failed to read header length", Err: err}
		}
		p.HeaderLen = int(binary.LittleEndian.Uint32(n[:]))
	default:
		return Preamble{}, &FormatError{
			Err: fmt.Errorf("%w: got %d.%d, expected 1.0, 2.0 or 3.0", ErrUnsupportedVersion, p.Major, p.Minor),
		}
	}
	if p.Minor != 0 {
		return Preamble{}, &FormatError{
			Err: fmt.Errorf("%w: got %d.%d", ErrUnsupportedVersion, p.Major, p.Minor),
		}
	}
	return p, nil
}

// ReadHeader reads the preamble and the dictionary text from r and decodes it.
// It returns the number of header bytes consumed.
func ReadHeader(r io.Reader) (Header, int, error) {
	p, err := ReadPreamble(r)
	if err != nil {
		return Header{}, 0, err
	}
	if p.HeaderLen > MaxHeaderSize {
		return Header{}, 0, &FormatError{
			Err: fmt.Errorf("%w: %d bytes, max %d", ErrHeaderTooLarge, p.HeaderLen, MaxHeaderSize),
		}
	}

	dict := make([]byte, p.HeaderLen)
	if _, err := io.ReadFull(r, dict); err != nil {
		return Header{}, 0, &FormatError{Detail: "failed to read header dictionary", Err: err}
	}
	h, err := DecodeHeader(dict)
	if err != nil {
		return Header{}, 0, err
	}
	return h, p.Size() + p.HeaderLen, nil
}
