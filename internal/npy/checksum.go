package npy

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	farm "github.com/dgryski/go-farm"
	"lukechampine.com/blake3"
)

// DigestAlgorithm selects the hash used by Digest.
type DigestAlgorithm string

// Supported digest algorithms.
const (
	DigestSHA256 DigestAlgorithm = "sha256"
	DigestBlake3 DigestAlgorithm = "blake3"
	DigestFarm   DigestAlgorithm = "farm" // 64-bit fingerprint, not collision resistant
)

// ParseDigestAlgorithm validates an algorithm name.
func ParseDigestAlgorithm(s string) (DigestAlgorithm, error) {
	switch algo := DigestAlgorithm(s); algo {
	case DigestSHA256, DigestBlake3, DigestFarm:
		return algo, nil
	default:
		return "", fmt.Errorf("unknown digest algorithm %q", s)
	}
}

// ComputeDigest hashes data and returns "<algo>:<hex>".
func ComputeDigest(data []byte, algo DigestAlgorithm) (string, error) {
	var sum []byte
	switch algo {
	case DigestSHA256:
		s := sha256.Sum256(data)
		sum = s[:]
	case DigestBlake3:
		s := blake3.Sum256(data)
		sum = s[:]
	case DigestFarm:
		sum = binary.BigEndian.AppendUint64(nil, farm.Fingerprint64(data))
	default:
		return "", fmt.Errorf("unknown digest algorithm %q", algo)
	}
	return string(algo) + ":" + hex.EncodeToString(sum), nil
}

// ComputeDigestReader hashes everything read from r. Farm fingerprints need
// the whole input, so they are computed over a buffered copy.
func ComputeDigestReader(r io.Reader, algo DigestAlgorithm) (string, error) {
	var h hash.Hash
	switch algo {
	case DigestSHA256:
		h = sha256.New()
	case DigestBlake3:
		h = blake3.New(32, nil)
	case DigestFarm:
		data, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		return ComputeDigest(data, algo)
	default:
		return "", fmt.Errorf("unknown digest algorithm %q", algo)
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return string(algo) + ":" + hex.EncodeToString(h.Sum(nil)), nil
}

// FileDigest hashes the whole file at path, header included. sha256 and
// blake3 stream the file; farm reads it whole.
func FileDigest(path string, algo DigestAlgorithm) (string, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for array loading
	file, err := os.Open(path)
	if err != nil {
		return "", &IOError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = file.Close() }()

	sum, err := ComputeDigestReader(bufio.NewReader(file), algo)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return "", &IOError{Op: "read", Path: path, Err: err}
		}
		return "", err
	}
	return sum, nil
}

// Digest hashes the array payload.
func Digest(a *Array, algo DigestAlgorithm) (string, error) {
	return ComputeDigest(a.Bytes(), algo)
}

// VerifyDigest compares the payload digest of a against expected, which must
// carry its "<algo>:" prefix. Returns ErrChecksumMismatch if they differ.
func VerifyDigest(a *Array, expected string) error {
	algo, sum, ok := strings.Cut(expected, ":")
	if !ok || algo == "" || sum == "" {
		return fmt.Errorf("malformed digest %q: want <algo>:<hex>", expected)
	}
	parsed, err := ParseDigestAlgorithm(algo)
	if err != nil {
		return err
	}
	got, err := Digest(a, parsed)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("%w: got %s, want %s", ErrChecksumMismatch, got, expected)
	}
	return nil
}
