package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/npyio/npy"
	"github.com/born-ml/npyio/tensor"
)

// fileResult is the outcome of processing one file in a batch.
type fileResult struct {
	path string
	line string
	err  error
}

// forEachFile runs fn over paths with bounded concurrency. A failure on one
// file does not stop the others; results keep the order of paths.
func (r *runner) forEachFile(ctx context.Context, paths []string, fn func(path string) (string, error)) []fileResult {
	results := make([]fileResult, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.cfg.Concurrency)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = fileResult{path: path, err: err}
				return nil
			}
			line, err := fn(path)
			results[i] = fileResult{path: path, line: line, err: err}
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

// report prints one line per result and returns an error if any failed.
func (r *runner) report(results []fileResult) error {
	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			r.logger.WithField("path", res.path).Error(res.err)
			fmt.Fprintf(r.out, "%s\tERROR\t%v\n", res.path, res.err)
			continue
		}
		fmt.Fprintf(r.out, "%s\t%s\n", res.path, res.line)
	}
	if failed > 0 {
		return errors.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func (r *runner) inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the header of one or more .npy files",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "digest", Usage: "Also print a digest of the payload"},
			&cli.BoolFlag{Name: "file-digest", Usage: "Also print a digest of the whole file"},
			&cli.StringFlag{Name: "digest-algorithm", Usage: "Digest algorithm (sha256, blake3, farm)", EnvVars: []string{"NPY_DIGEST"}},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("inspect needs at least one file")
			}
			if c.IsSet("digest-algorithm") {
				if err := r.cfg.setDigest(c.String("digest-algorithm")); err != nil {
					return err
				}
			}
			withDigest, withFileDigest := c.Bool("digest"), c.Bool("file-digest")

			results := r.forEachFile(c.Context, c.Args().Slice(), func(path string) (string, error) {
				return r.inspectFile(path, withDigest, withFileDigest)
			})
			return r.report(results)
		},
	}
}

func (r *runner) inspectFile(path string, withDigest, withFileDigest bool) (string, error) {
	m, err := npy.MapWithOptions(path, r.cfg.readerOptions(r.logger))
	if err != nil {
		return "", errors.Wrapf(err, "inspect %s", path)
	}
	defer func() { _ = m.Close() }()

	a := m.Array()
	dtype := "unsupported"
	if dt, err := a.ResolveLogicalType(); err == nil {
		dtype = dt.String()
	}
	order := "C"
	if a.FortranOrder() {
		order = "F"
	}

	fields := []string{
		"shape=" + npy.FormatShape(a.Shape()),
		"type=" + a.WireType().String(),
		"dtype=" + dtype,
		"order=" + order,
		fmt.Sprintf("bytes=%d", a.ByteLength()),
	}
	if withDigest {
		sum, err := npy.Digest(a, r.cfg.Digest)
		if err != nil {
			return "", errors.Wrapf(err, "digest %s", path)
		}
		fields = append(fields, "digest="+sum)
	}
	if withFileDigest {
		sum, err := npy.FileDigest(path, r.cfg.Digest)
		if err != nil {
			return "", errors.Wrapf(err, "digest %s", path)
		}
		fields = append(fields, "file_digest="+sum)
	}
	return strings.Join(fields, " "), nil
}

func (r *runner) dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Print the elements of a .npy file in memory order",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Maximum number of elements to print (0 prints all)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("dump needs exactly one file")
			}
			limit := r.cfg.DumpLimit
			if c.IsSet("limit") {
				limit = c.Int("limit")
			}

			path := c.Args().First()
			a, err := npy.LoadWithOptions(path, r.cfg.readerOptions(r.logger))
			if err != nil {
				return errors.Wrapf(err, "dump %s", path)
			}
			text, err := formatArray(a, limit)
			if err != nil {
				return errors.Wrapf(err, "dump %s", path)
			}
			fmt.Fprintln(r.out, text)
			return nil
		},
	}
}

// formatArray renders up to limit elements of a as a bracketed list.
func formatArray(a *npy.Array, limit int) (string, error) {
	dt, err := a.ResolveLogicalType()
	if err != nil {
		return "", err
	}
	switch dt {
	case tensor.Float32:
		return formatValues(a.AsFloat32(), limit), nil
	case tensor.Float64:
		return formatValues(a.AsFloat64(), limit), nil
	case tensor.Int32:
		return formatValues(a.AsInt32(), limit), nil
	case tensor.Int64:
		return formatValues(a.AsInt64(), limit), nil
	case tensor.Uint8:
		return formatValues(a.AsUint8(), limit), nil
	case tensor.Uint16:
		return formatValues(a.AsUint16(), limit), nil
	case tensor.Bool:
		return formatValues(a.AsBool(), limit), nil
	default:
		return "", errors.Errorf("unsupported data type %s", dt)
	}
}

func formatValues[T tensor.Scalar](values []T, limit int) string {
	n := len(values)
	if limit > 0 && n > limit {
		n = limit
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprint(values[i])
	}
	text := "[" + strings.Join(parts, " ")
	if n < len(values) {
		text += fmt.Sprintf(" ... (%d more)", len(values)-n)
	}
	return text + "]"
}

func (r *runner) createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Write a new .npy file filled with a simple pattern",
		ArgsUsage: "OUT",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dtype", Value: "float32", Usage: "Element type (float32, float64, int32, int64, uint8, uint16, bool)"},
			&cli.StringFlag{Name: "shape", Value: "", Usage: "Comma separated dimensions, empty for a scalar"},
			&cli.StringFlag{Name: "fill", Value: "zero", Usage: "Fill pattern (zero, ones, range)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("create needs exactly one output file")
			}
			dt, err := tensor.ParseDataType(c.String("dtype"))
			if err != nil {
				return err
			}
			shape, err := tensor.ParseShape(c.String("shape"))
			if err != nil {
				return err
			}

			a, err := npy.NewArray(shape, dt)
			if err != nil {
				return err
			}
			if err := fillArray(a, dt, c.String("fill")); err != nil {
				return err
			}

			path := c.Args().First()
			if err := npy.SaveArrayWithOptions(path, a, npy.WriterOptions{Logger: r.logger}); err != nil {
				return errors.Wrapf(err, "create %s", path)
			}
			r.logger.WithFields(logrus.Fields{
				"path":  path,
				"dtype": dt.String(),
				"shape": npy.FormatShape(shape),
			}).Info("Created npy file")
			return nil
		},
	}
}

// fillArray writes a pattern into a: "zero" leaves it untouched, "ones" sets
// every element to 1 and "range" sets element i to i.
func fillArray(a *npy.Array, dt tensor.DataType, mode string) error {
	var value func(i int) int
	switch mode {
	case "zero":
		return nil
	case "ones":
		value = func(int) int { return 1 }
	case "range":
		value = func(i int) int { return i }
	default:
		return errors.Errorf("unknown fill pattern %q", mode)
	}

	switch dt {
	case tensor.Float32:
		fillWith(a.AsFloat32(), func(i int) float32 { return float32(value(i)) })
	case tensor.Float64:
		fillWith(a.AsFloat64(), func(i int) float64 { return float64(value(i)) })
	case tensor.Int32:
		fillWith(a.AsInt32(), func(i int) int32 { return int32(value(i)) }) //nolint:gosec // G115: range fill wraps
	case tensor.Int64:
		fillWith(a.AsInt64(), func(i int) int64 { return int64(value(i)) })
	case tensor.Uint8:
		fillWith(a.AsUint8(), func(i int) uint8 { return uint8(value(i)) }) //nolint:gosec // G115: range fill wraps
	case tensor.Uint16:
		fillWith(a.AsUint16(), func(i int) uint16 { return uint16(value(i)) }) //nolint:gosec // G115: range fill wraps
	case tensor.Bool:
		fillWith(a.AsBool(), func(i int) bool { return value(i)%2 == 1 })
	}
	return nil
}

func fillWith[T tensor.Scalar](data []T, f func(int) T) {
	for i := range data {
		data[i] = f(i)
	}
}

func (r *runner) verifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check that .npy files load cleanly, optionally against a digest",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "expect", Usage: "Expected payload digest as <algo>:<hex> (single file only)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("verify needs at least one file")
			}
			expect := c.String("expect")
			if expect != "" && c.NArg() != 1 {
				return errors.New("--expect applies to a single file")
			}

			results := r.forEachFile(c.Context, c.Args().Slice(), func(path string) (string, error) {
				return r.verifyFile(path, expect)
			})
			return r.report(results)
		},
	}
}

func (r *runner) verifyFile(path, expect string) (string, error) {
	a, err := npy.LoadWithOptions(path, r.cfg.readerOptions(r.logger))
	if err != nil {
		return "", errors.Wrapf(err, "verify %s", path)
	}
	defer a.Release()

	if err := r.roundTrip(a); err != nil {
		return "", errors.Wrapf(err, "verify %s", path)
	}

	if expect != "" {
		if err := npy.VerifyDigest(a, expect); err != nil {
			return "", errors.Wrapf(err, "verify %s", path)
		}
		return "OK " + expect, nil
	}
	sum, err := npy.Digest(a, r.cfg.Digest)
	if err != nil {
		return "", errors.Wrapf(err, "digest %s", path)
	}
	return "OK " + sum, nil
}

// roundTrip encodes a into memory, decodes it again and compares the result.
// Fortran-order arrays are converted to C order first.
func (r *runner) roundTrip(a *npy.Array) error {
	c, err := a.ToCOrder()
	if err != nil {
		return errors.Wrap(err, "convert to C order")
	}
	defer c.Release()

	var buf bytes.Buffer
	if err := npy.Write(&buf, c); err != nil {
		return errors.Wrap(err, "re-encode")
	}
	back, err := npy.Read(&buf, npy.ReaderOptions{ValidationLevel: npy.ValidationNormal, Logger: r.logger})
	if err != nil {
		return errors.Wrap(err, "decode re-encoded array")
	}
	defer back.Release()
	if !c.Equal(back) {
		return errors.New("re-encoded array differs from the file")
	}
	return nil
}
