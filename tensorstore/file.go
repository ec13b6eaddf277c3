package tensorstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Default tensor file names, following the restart-file convention of
// the SCF drivers this library feeds.
const (
	DefaultCoefficientsFile = "orbitals.dat"
	DefaultOverlapsFile     = "overlaps.dat"
	DefaultGeometriesFile   = "geometries.dat"
)

// FileSource reads the input tensors from a directory of text files.
//
// Each file starts with a header line holding the tensor's dimensions,
// followed by the values in row-major order, all whitespace-separated.
// A file may be stored gzip-compressed under its name with a ".gz"
// suffix; FileSource decompresses it transparently.
type FileSource struct {
	root             string
	coefficientsName string
	overlapsName     string
	geometriesName   string
}

// FileOption configures a FileSource.
type FileOption func(*FileSource)

// WithFileNames overrides the default tensor file names. Empty names
// keep their defaults.
func WithFileNames(coefficients, overlaps, geometries string) FileOption {
	return func(s *FileSource) {
		if coefficients != "" {
			s.coefficientsName = coefficients
		}
		if overlaps != "" {
			s.overlapsName = overlaps
		}
		if geometries != "" {
			s.geometriesName = geometries
		}
	}
}

// NewFileSource creates a FileSource rooted at the given directory.
func NewFileSource(root string, opts ...FileOption) *FileSource {
	s := &FileSource{
		root:             root,
		coefficientsName: DefaultCoefficientsFile,
		overlapsName:     DefaultOverlapsFile,
		geometriesName:   DefaultGeometriesFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OrbitalCoefficients reads the coefficient tensor file.
func (s *FileSource) OrbitalCoefficients(ctx context.Context) (*Tensor, error) {
	return s.read(ctx, s.coefficientsName, 3)
}

// Overlaps reads the packed overlap tensor file.
func (s *FileSource) Overlaps(ctx context.Context) (*Tensor, error) {
	return s.read(ctx, s.overlapsName, 2)
}

// Geometries reads the geometry tensor file.
func (s *FileSource) Geometries(ctx context.Context) (*Tensor, error) {
	return s.read(ctx, s.geometriesName, 3)
}

func (s *FileSource) read(ctx context.Context, name string, rank int) (*Tensor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := s.readFile(name)
	if err != nil {
		return nil, err
	}

	fields := strings.Fields(string(raw))
	if len(fields) < rank {
		return nil, fmt.Errorf("tensor file %s: missing %d-dimension header", name, rank)
	}

	shape := make([]int, rank)
	for i := range shape {
		d, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("tensor file %s: bad dimension %q: %w", name, fields[i], err)
		}
		shape[i] = d
	}

	values := fields[rank:]
	data := make([]float64, len(values))
	for i, f := range values {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("tensor file %s: bad value %q at position %d: %w", name, f, i, err)
		}
		data[i] = v
	}

	t, err := NewTensorWithData(data, shape...)
	if err != nil {
		return nil, fmt.Errorf("tensor file %s: %w", name, err)
	}
	return t, nil
}

func (s *FileSource) readFile(name string) ([]byte, error) {
	path := filepath.Join(s.root, name)

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if strings.HasSuffix(path, ".gz") {
			return gunzip(f)
		}
		return io.ReadAll(f)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	f, err := os.Open(path + ".gz")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gunzip(f)
}

func gunzip(r io.Reader) ([]byte, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
