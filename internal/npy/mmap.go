package npy

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// MappedArray is an array whose payload lives in a read-only memory mapping
// of a .npy file. The payload is accessed on demand via the OS page cache.
//
// Important: Always call Close() when done to unmap the file (use defer).
// Writing through Array().Bytes() or a typed view faults.
type MappedArray struct {
	file   *os.File
	data   []byte // mmap'd region (read-only)
	array  *Array
	closed bool
}

// Map memory-maps a .npy file with default options.
func Map(path string) (*MappedArray, error) {
	return MapWithOptions(path, DefaultReaderOptions())
}

// MapWithOptions memory-maps a .npy file. The header is parsed and validated
// up front; the payload is not copied.
func MapWithOptions(path string, opts ReaderOptions) (*MappedArray, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for array loading
	file, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, &IOError{Op: "stat", Path: path, Err: err}
	}
	if stat.Size() < PreambleSizeV1 {
		_ = file.Close()
		return nil, &FormatError{Detail: fmt.Sprintf("file too small: %d bytes", stat.Size())}
	}

	// Memory map the file (platform-specific implementation)
	data, err := mmapFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, &IOError{Op: "mmap", Path: path, Err: err}
	}

	m := &MappedArray{file: file, data: data}
	if err := m.parse(opts); err != nil {
		_ = m.Close()
		return nil, err
	}

	opts.logger().WithFields(logrus.Fields{
		"path":  path,
		"type":  m.array.WireType().String(),
		"shape": m.array.Shape().String(),
		"bytes": m.array.ByteLength(),
	}).Debug("Mapped npy array")
	return m, nil
}

func (m *MappedArray) parse(opts ReaderOptions) error {
	h, headerLen, err := ReadHeader(bytes.NewReader(m.data))
	if err != nil {
		return err
	}
	if err := ValidateHeader(h, opts.ValidationLevel); err != nil {
		return err
	}
	size, err := PayloadSize(h)
	if err != nil {
		return err
	}

	avail := len(m.data) - headerLen
	if avail < size {
		return &CorruptionError{Want: int64(size), Got: int64(avail)}
	}
	m.array = newArrayFromBytes(h, m.data[headerLen:headerLen+size:headerLen+size])
	return nil
}

// Array returns the mapped array. It is valid only until Close.
func (m *MappedArray) Array() *Array {
	return m.array
}

// Copy returns an array with its own copy of the payload, usable after Close.
func (m *MappedArray) Copy() (*Array, error) {
	if m.closed {
		return nil, fmt.Errorf("mapped array is closed")
	}
	return m.array.Copy(), nil
}

// Close unmaps and closes the file.
func (m *MappedArray) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	var err error
	if m.data != nil {
		err = munmapFile(m.data)
		m.data = nil
	}
	if m.array != nil {
		m.array.Release()
	}

	if closeErr := m.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}
