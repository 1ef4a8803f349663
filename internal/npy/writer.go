package npy

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/npyio/internal/tensor"
)

// WriterOptions configures Save and SaveArray.
type WriterOptions struct {
	Logger logrus.FieldLogger // nil means logrus.StandardLogger()
}

func (o WriterOptions) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

// Write encodes a as a version 1.0 .npy stream: header then payload.
// Fortran-order arrays are rejected with ErrFortranWrite.
func Write(w io.Writer, a *Array) error {
	if a.FortranOrder() {
		return ErrFortranWrite
	}
	header, err := EncodeHeader(a.Shape(), a.WireType(), false)
	if err != nil {
		return err
	}
	return writeRaw(w, header, a.Bytes())
}

func writeRaw(w io.Writer, header, payload []byte) error {
	if _, err := w.Write(header); err != nil {
		return &IOError{Op: "write", Err: fmt.Errorf("failed to write header: %w", err)}
	}
	if _, err := w.Write(payload); err != nil {
		return &IOError{Op: "write", Err: fmt.Errorf("failed to write payload: %w", err)}
	}
	return nil
}

// Save writes numElements(shape)*dt.Size() bytes of data to path as a .npy
// file, truncating any existing content. The array is always written in
// row-major order. data shorter than the payload yields ErrDataLength.
func Save(path string, data []byte, shape tensor.Shape, dt tensor.DataType) error {
	wt, err := WireTypeOf(dt)
	if err != nil {
		return err
	}
	size, err := PayloadSize(Header{Type: wt, Shape: shape})
	if err != nil {
		return err
	}
	if len(data) < size {
		return fmt.Errorf("%w: got %d bytes, shape %v of %s needs %d", ErrDataLength, len(data), shape, dt, size)
	}
	return saveFile(path, shape, wt, data[:size], WriterOptions{})
}

// SaveArray writes a to path.
func SaveArray(path string, a *Array) error {
	return SaveArrayWithOptions(path, a, WriterOptions{})
}

// SaveArrayWithOptions writes a to path.
func SaveArrayWithOptions(path string, a *Array, opts WriterOptions) error {
	if a.FortranOrder() {
		return ErrFortranWrite
	}
	return saveFile(path, a.Shape(), a.WireType(), a.Bytes(), opts)
}

// SaveSlice writes data with the given shape to path.
func SaveSlice[T tensor.Scalar](path string, data []T, shape tensor.Shape) error {
	if len(data) != shape.NumElements() {
		return fmt.Errorf("%w: got %d elements, shape %v needs %d",
			ErrDataLength, len(data), shape, shape.NumElements())
	}
	return Save(path, sliceBytes(data), shape, tensor.DataTypeOf[T]())
}

// saveFile encodes the header before touching path, so an unencodable array
// leaves any existing file intact.
func saveFile(path string, shape tensor.Shape, wt WireType, payload []byte, opts WriterOptions) (err error) {
	header, err := EncodeHeader(shape, wt, false)
	if err != nil {
		return err
	}

	//nolint:gosec // G304: File path comes from user input, which is expected for array saving
	file, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = &IOError{Op: "write", Path: path, Err: closeErr}
		}
	}()

	bw := bufio.NewWriter(file)
	if err := writeRaw(bw, header, payload); err != nil {
		if ioErr, ok := err.(*IOError); ok {
			ioErr.Path = path
		}
		return err
	}
	if err := bw.Flush(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	opts.logger().WithFields(logrus.Fields{
		"path":  path,
		"type":  wt.String(),
		"shape": shape.String(),
		"bytes": len(payload),
	}).Debug("Saved npy array")
	return nil
}
