package npy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/npyio/internal/tensor"
)

func TestPayloadSize(t *testing.T) {
	n, err := PayloadSize(Header{Type: WireType{KindFloat, 4}, Shape: tensor.Shape{2, 3}})
	require.NoError(t, err)
	assert.Equal(t, 24, n)

	n, err = PayloadSize(Header{Type: WireType{KindInt, 8}, Shape: tensor.Shape{}})
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	n, err = PayloadSize(Header{Type: WireType{KindInt, 8}, Shape: tensor.Shape{1 << 62, 0}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = PayloadSize(Header{Type: WireType{KindInt, 8}, Shape: tensor.Shape{1 << 62, 4}})
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestValidateHeaderLevels(t *testing.T) {
	half := Header{Type: WireType{KindFloat, 2}, Shape: tensor.Shape{4}}

	var typeErr *UnsupportedTypeError
	assert.ErrorAs(t, ValidateHeader(half, ValidationStrict), &typeErr)
	assert.NoError(t, ValidateHeader(half, ValidationNormal))
	assert.NoError(t, ValidateHeader(half, ValidationNone))

	deep := Header{Type: WireType{KindUint, 1}, Shape: make(tensor.Shape, MaxRank+1)}
	var formatErr *FormatError
	assert.ErrorAs(t, ValidateHeader(deep, ValidationNormal), &formatErr)
	assert.NoError(t, ValidateHeader(deep, ValidationNone))
}

func TestParseValidationLevel(t *testing.T) {
	for _, level := range []ValidationLevel{ValidationStrict, ValidationNormal, ValidationNone} {
		got, err := ParseValidationLevel(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, got)
	}

	_, err := ParseValidationLevel("paranoid")
	assert.Error(t, err)
}

func TestReadEmptyArrayWithLargeDimension(t *testing.T) {
	header, err := EncodeHeader(tensor.Shape{1 << 62, 0}, WireType{KindInt, 8}, false)
	require.NoError(t, err)

	a, err := Read(bytes.NewReader(header), DefaultReaderOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, a.ByteLength())
	assert.Equal(t, tensor.Shape{1 << 62, 0}, a.Shape())
	assert.Empty(t, a.AsInt64())

	n, err := PayloadSize(Header{Type: WireType{KindInt, 8}, Shape: tensor.Shape{0, 1 << 62, 1 << 62}})
	require.NoError(t, err)
	assert.Zero(t, n)
}
