package npy

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// streamChunkSize bounds the initial payload allocation when reading from a
// stream of unknown length.
const streamChunkSize = 1 << 20

// ReaderOptions configures Read and Load.
type ReaderOptions struct {
	ValidationLevel ValidationLevel    // Validation strictness level
	Logger          logrus.FieldLogger // nil means logrus.StandardLogger()
}

// DefaultReaderOptions returns strict validation with the standard logger.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{ValidationLevel: ValidationStrict}
}

func (o ReaderOptions) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

// Read decodes one array from r: preamble, header dictionary, then exactly
// ByteLength payload bytes. A short payload yields a *CorruptionError and no
// array. The payload is buffered as it arrives, so a header declaring more
// data than the stream holds does not allocate the declared size.
func Read(r io.Reader, opts ReaderOptions) (*Array, error) {
	a, _, err := read(r, opts, -1)
	return a, err
}

// read returns the array and the number of bytes consumed from r. total is
// the full length of r when known (a regular file), or -1 for a stream.
func read(r io.Reader, opts ReaderOptions, total int64) (*Array, int64, error) {
	h, headerLen, err := ReadHeader(r)
	if err != nil {
		return nil, 0, err
	}
	if err := ValidateHeader(h, opts.ValidationLevel); err != nil {
		return nil, 0, err
	}
	size, err := PayloadSize(h)
	if err != nil {
		return nil, 0, err
	}
	want := int64(size)

	if total < 0 {
		a, err := readStreamPayload(r, h, want)
		if err != nil {
			return nil, 0, err
		}
		return a, int64(headerLen) + want, nil
	}

	if avail := total - int64(headerLen); avail < want {
		return nil, 0, &CorruptionError{Want: want, Got: max(avail, 0)}
	}
	a, err := NewArray(h.Shape, h.Type, h.FortranOrder)
	if err != nil {
		return nil, 0, err
	}
	n, err := io.ReadFull(r, a.Bytes())
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, 0, &CorruptionError{Want: want, Got: int64(n)}
		}
		return nil, 0, &IOError{Op: "read", Err: err}
	}
	return a, int64(headerLen) + want, nil
}

// readStreamPayload copies up to want bytes from r, growing the buffer in
// step with the data actually read.
func readStreamPayload(r io.Reader, h Header, want int64) (*Array, error) {
	var buf bytes.Buffer
	buf.Grow(int(min(want, streamChunkSize)))
	n, err := io.CopyN(&buf, r, want)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CorruptionError{Want: want, Got: n}
		}
		return nil, &IOError{Op: "read", Err: err}
	}
	return newArrayFromBytes(h, buf.Bytes()), nil
}

// Load reads a .npy file with default options.
func Load(path string) (*Array, error) {
	return LoadWithOptions(path, DefaultReaderOptions())
}

// LoadWithOptions reads a .npy file.
func LoadWithOptions(path string, opts ReaderOptions) (*Array, error) {
	log := opts.logger().WithField("path", path)

	//nolint:gosec // G304: File path comes from user input, which is expected for array loading
	file, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, &IOError{Op: "stat", Path: path, Err: err}
	}

	total := info.Size()
	if !info.Mode().IsRegular() {
		total = -1
	}

	a, consumed, err := read(bufio.NewReader(file), opts, total)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) && ioErr.Path == "" {
			ioErr.Path = path
		}
		return nil, err
	}

	if total > consumed && opts.ValidationLevel == ValidationStrict {
		log.WithField("trailing", total-consumed).Warn("Ignoring trailing bytes after npy payload")
	}

	log.WithFields(logrus.Fields{
		"type":  a.WireType().String(),
		"shape": a.Shape().String(),
		"bytes": a.ByteLength(),
	}).Debug("Loaded npy array")
	return a, nil
}
