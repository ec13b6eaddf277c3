package tensorstore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTensorAccessors(t *testing.T) {
	tensor := NewTensor(2, 3, 4)
	assert.Equal(t, 3, tensor.Rank())
	assert.Equal(t, []int{2, 3, 4}, tensor.Shape())

	tensor.Set(7.5, 1, 2, 3)
	assert.Equal(t, 7.5, tensor.At(1, 2, 3))
	assert.Equal(t, 0.0, tensor.At(0, 0, 0))
}

func TestNewTensorWithDataShapeMismatch(t *testing.T) {
	_, err := NewTensorWithData(make([]float64, 5), 2, 3)
	require.Error(t, err)

	_, err = NewTensorWithData(nil, 2, 0)
	require.Error(t, err)
}

func TestSnapshotMatrix(t *testing.T) {
	tensor := NewTensor(2, 2, 3)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 3; k++ {
				tensor.Set(float64(100*i+10*j+k), i, j, k)
			}
		}
	}

	m := tensor.SnapshotMatrix(2)
	assert.Equal(t, 2.0, m.At(0, 0))
	assert.Equal(t, 12.0, m.At(0, 1))
	assert.Equal(t, 102.0, m.At(1, 0))
	assert.Equal(t, 112.0, m.At(1, 1))
}

func TestSnapshotColumn(t *testing.T) {
	tensor := NewTensor(3, 2)
	for i := 0; i < 3; i++ {
		tensor.Set(float64(i), i, 1)
	}

	assert.Equal(t, []float64{0, 1, 2}, tensor.SnapshotColumn(1))
	assert.Equal(t, []float64{0, 0, 0}, tensor.SnapshotColumn(0))
}

func TestMemorySource(t *testing.T) {
	ctx := context.Background()
	coeffs := NewTensor(2, 1, 3)
	overlaps := NewTensor(3, 3)
	geoms := NewTensor(4, 2, 3)

	src := NewMemorySource(coeffs, overlaps, geoms)

	got, err := src.OrbitalCoefficients(ctx)
	require.NoError(t, err)
	assert.Same(t, coeffs, got)

	got, err = src.Overlaps(ctx)
	require.NoError(t, err)
	assert.Same(t, overlaps, got)

	got, err = src.Geometries(ctx)
	require.NoError(t, err)
	assert.Same(t, geoms, got)
}

func TestFileSourceReadsPlainAndGzip(t *testing.T) {
	dir := t.TempDir()

	// Plain coefficient tensor 2×1×2.
	writeFile(t, filepath.Join(dir, DefaultCoefficientsFile),
		"2 1 2\n1 0\n0 1\n")

	// Gzip-compressed overlap tensor 3×2.
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("3 2\n1 1\n0 0\n1 1\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultOverlapsFile+".gz"), buf.Bytes(), 0o644))

	// Geometry tensor 4×1×2.
	writeFile(t, filepath.Join(dir, DefaultGeometriesFile),
		"4 1 2\n1 1\n0 0.1\n0 0\n0 0\n")

	ctx := context.Background()
	src := NewFileSource(dir)

	coeffs, err := src.OrbitalCoefficients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 2}, coeffs.Shape())
	assert.Equal(t, 1.0, coeffs.At(0, 0, 0))
	assert.Equal(t, 1.0, coeffs.At(1, 0, 1))

	overlaps, err := src.Overlaps(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, overlaps.Shape())
	assert.Equal(t, []float64{1, 0, 1}, overlaps.SnapshotColumn(0))

	geoms, err := src.Geometries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 1, 2}, geoms.Shape())
	assert.Equal(t, 0.1, geoms.At(1, 0, 1))
}

func TestFileSourceCustomNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "c.txt"), "1 1 1\n2.5\n")

	src := NewFileSource(dir, WithFileNames("c.txt", "", ""))
	tensor, err := src.OrbitalCoefficients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2.5, tensor.At(0, 0, 0))
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(t.TempDir())
	_, err := src.Overlaps(context.Background())
	require.Error(t, err)
}

func TestFileSourceMalformedValue(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultOverlapsFile), "1 1\nnot-a-number\n")

	src := NewFileSource(dir)
	_, err := src.Overlaps(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad value")
}

func TestWriteVectorRoundTrip(t *testing.T) {
	v := []float64{1.0 / 3.0, -2.718281828459045e-7, 0, 6.02214076e23}

	var buf bytes.Buffer
	require.NoError(t, WriteVector(&buf, v, FormatPolicy{MinSigDigits: 17}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(v))
	for i, line := range lines {
		got, err := strconv.ParseFloat(line, 64)
		require.NoError(t, err)
		assert.Equal(t, v[i], got, "line %d must round-trip exactly", i)
	}
}

func TestWriteVectorDefaultPolicy(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVector(&buf, []float64{1.0 / 3.0}, DefaultFormatPolicy))

	line := strings.TrimSpace(buf.String())
	assert.Equal(t, "3.333333333333333e-01", line)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
