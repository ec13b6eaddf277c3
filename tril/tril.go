// Package tril implements the packed lower-triangular representation of
// symmetric matrices.
//
// A symmetric n×n matrix is stored as its lower triangle in row-major
// order (row 1 contributes 1 entry, row n contributes n), giving a
// vector of length n(n+1)/2. This is the on-disk layout used by the
// overlap tensors and by the density restart vector.
package tril

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidPackedLength indicates a packed vector whose length is not a
// triangular number, so no symmetric matrix order fits it.
type ErrInvalidPackedLength struct {
	Length int
}

func (e *ErrInvalidPackedLength) Error() string {
	return fmt.Sprintf("packed vector length %d is not a triangular number", e.Length)
}

// Len returns the packed vector length for an n×n symmetric matrix.
func Len(n int) int {
	return n * (n + 1) / 2
}

// Order returns the matrix order n such that Len(n) == length.
func Order(length int) (int, error) {
	if length <= 0 {
		return 0, &ErrInvalidPackedLength{Length: length}
	}
	n := int(math.Round((math.Sqrt(8*float64(length)+1) - 1) / 2))
	if n <= 0 || Len(n) != length {
		return 0, &ErrInvalidPackedLength{Length: length}
	}
	return n, nil
}

// Pack returns the row-major lower triangle of m.
func Pack(m mat.Symmetric) []float64 {
	n := m.SymmetricDim()
	v := make([]float64, 0, Len(n))
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v = append(v, m.At(i, j))
		}
	}
	return v
}

// Unpack rebuilds the symmetric matrix whose packed lower triangle is v,
// filling both triangles. The order is inferred from len(v).
func Unpack(v []float64) (*mat.SymDense, error) {
	n, err := Order(len(v))
	if err != nil {
		return nil, err
	}
	s := mat.NewSymDense(n, nil)
	k := 0
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			s.SetSym(i, j, v[k])
			k++
		}
	}
	return s, nil
}
