package npy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/npyio/internal/tensor"
)

var testShapes = []tensor.Shape{{}, {1}, {5}, {2, 3}, {4, 1, 2}}

func TestEncodeHeaderFloat32Matrix(t *testing.T) {
	if HostByteOrder() != LittleEndian {
		t.Skip("expected bytes are for a little-endian host")
	}

	got, err := EncodeHeader(tensor.Shape{2, 3}, WireType{KindFloat, 4}, false)
	require.NoError(t, err)

	dict := "{'descr': '<f4', 'fortran_order': False, 'shape': (2, 3), }" + strings.Repeat(" ", 10) + "\n"
	want := append([]byte{0x93, 'N', 'U', 'M', 'P', 'Y', 0x01, 0x00, byte(len(dict)), 0x00}, dict...)

	assert.Equal(t, want, got)
	assert.Len(t, got, 80)
	assert.Zero(t, len(got)%HeaderAlignment)
}

func TestEncodeHeaderAlignment(t *testing.T) {
	for _, dt := range tensor.DataTypes {
		wt, err := WireTypeOf(dt)
		require.NoError(t, err)
		for _, shape := range testShapes {
			header, err := EncodeHeader(shape, wt, false)
			require.NoError(t, err)

			dictLen := int(binary.LittleEndian.Uint16(header[8:10]))
			assert.Equal(t, len(header)-PreambleSizeV1, dictLen, "%s %v", dt, shape)
			assert.Zero(t, (PreambleSizeV1+dictLen)%HeaderAlignment, "%s %v", dt, shape)
			assert.Equal(t, byte('\n'), header[len(header)-1], "%s %v", dt, shape)
			assert.Equal(t, 1, bytes.Count(header, []byte{'\n'}), "%s %v", dt, shape)
		}
	}
}

func TestEncodeHeaderPaddingBoundaries(t *testing.T) {
	// Growing the shape one digit at a time walks the dict length through
	// every residue mod 16, including the one that needs no spaces.
	wt := WireType{KindUint, 1}
	seen := make(map[int]bool)
	shape := tensor.Shape{}
	for i := 0; i < 40; i++ {
		shape = append(shape, 1)
		header, err := EncodeHeader(shape, wt, false)
		require.NoError(t, err)
		require.Zero(t, len(header)%HeaderAlignment)

		dict := header[PreambleSizeV1:]
		body := strings.TrimRight(string(dict[:len(dict)-1]), " ")
		seen[len(dict)-1-len(body)] = true
	}
	assert.True(t, seen[0], "expected a dict that needs no padding spaces")
	assert.True(t, seen[15], "expected a dict that needs 15 padding spaces")
}

func TestFormatShape(t *testing.T) {
	tests := []struct {
		shape tensor.Shape
		want  string
	}{
		{tensor.Shape{}, "()"},
		{tensor.Shape{1}, "(1,)"},
		{tensor.Shape{5}, "(5,)"},
		{tensor.Shape{2, 3}, "(2, 3)"},
		{tensor.Shape{4, 1, 2}, "(4, 1, 2)"},
		{tensor.Shape{0, 7}, "(0, 7)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatShape(tt.shape))
	}
}

func TestEncodeHeaderFortranFlag(t *testing.T) {
	header, err := EncodeHeader(tensor.Shape{3}, WireType{KindInt, 8}, true)
	require.NoError(t, err)
	assert.Contains(t, string(header), "'fortran_order': True")

	h, err := DecodeHeader(header[PreambleSizeV1:])
	require.NoError(t, err)
	assert.True(t, h.FortranOrder)
}

func TestEncodeHeaderRejectsInvalidInput(t *testing.T) {
	_, err := EncodeHeader(tensor.Shape{2, -1}, WireType{KindFloat, 4}, false)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "shape", formatErr.Keyword)

	_, err = EncodeHeader(tensor.Shape{2}, WireType{KindFloat, 0}, false)
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "descr", formatErr.Keyword)

	_, err = EncodeHeader(make(tensor.Shape, 40000), WireType{KindFloat, 4}, false)
	assert.ErrorIs(t, err, ErrHeaderTooLarge)
}

func TestHeaderRoundTrip(t *testing.T) {
	for _, dt := range tensor.DataTypes {
		wt, err := WireTypeOf(dt)
		require.NoError(t, err)
		for _, shape := range testShapes {
			encoded, err := EncodeHeader(shape, wt, false)
			require.NoError(t, err)

			h, n, err := ReadHeader(bytes.NewReader(encoded))
			require.NoError(t, err)
			assert.Equal(t, len(encoded), n)
			assert.Equal(t, wt, h.Type)
			assert.True(t, shape.Equal(h.Shape), "shape %v != %v", shape, h.Shape)
			assert.False(t, h.FortranOrder)

			got, err := h.Type.DataType()
			require.NoError(t, err)
			assert.Equal(t, dt, got)
		}
	}
}

func TestReadPreambleVersions(t *testing.T) {
	dict := "{'descr': '<i4', 'fortran_order': False, 'shape': (3,), }\n"

	v2 := append([]byte(MagicString), 2, 0)
	v2 = binary.LittleEndian.AppendUint32(v2, uint32(len(dict)))
	v2 = append(v2, dict...)

	h, n, err := ReadHeader(bytes.NewReader(v2))
	require.NoError(t, err)
	assert.Equal(t, PreambleSizeV2+len(dict), n)
	assert.Equal(t, WireType{KindInt, 4}, h.Type)
	assert.Equal(t, tensor.Shape{3}, h.Shape)
}

func TestReadPreambleErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		target error
	}{
		{"bad magic", []byte("\x93NUMPX\x01\x00\x00\x00"), ErrInvalidMagic},
		{"version 4", []byte("\x93NUMPY\x04\x00\x00\x00"), ErrUnsupportedVersion},
		{"minor version", []byte("\x93NUMPY\x01\x01\x00\x00"), ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPreamble(bytes.NewReader(tt.input))
			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	_, err := ReadPreamble(bytes.NewReader([]byte("\x93NUM")))
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}
