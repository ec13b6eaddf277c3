// Package basis turns raw molecular-orbital coefficients into
// orthonormal representatives of the occupied subspace.
//
// Molecular-orbital coefficients from an SCF run are orthonormal with
// respect to the atomic-orbital overlap matrix S, not the identity.
// Applying the symmetric square root S^(1/2) moves them into an
// orthonormal basis, which is the representation the Grassmannian
// chart in package manifold operates on.
package basis

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/quantalab/gext/tril"
)

// eigTol is the smallest overlap eigenvalue still accepted as positive.
const eigTol = 1e-10

// ErrNonPositiveDefiniteOverlap indicates an overlap matrix that is not
// positive definite, so its symmetric square root does not exist.
// Eigenvalue is the offending eigenvalue (NaN when the
// eigendecomposition itself failed to converge).
type ErrNonPositiveDefiniteOverlap struct {
	Eigenvalue float64
}

func (e *ErrNonPositiveDefiniteOverlap) Error() string {
	if math.IsNaN(e.Eigenvalue) {
		return "overlap matrix is not positive definite: eigendecomposition did not converge"
	}
	return fmt.Sprintf("overlap matrix is not positive definite: eigenvalue %g", e.Eigenvalue)
}

// Orthonormalize maps raw MO coefficients into an orthonormal basis of
// the occupied subspace by applying the symmetric square root of the
// unpacked overlap matrix: C' = S^(1/2)·C.
func Orthonormalize(packedOverlap []float64, coeffs mat.Matrix) (*mat.Dense, error) {
	s, err := tril.Unpack(packedOverlap)
	if err != nil {
		return nil, err
	}

	n := s.SymmetricDim()
	rows, cols := coeffs.Dims()
	if rows != n {
		return nil, fmt.Errorf("coefficient matrix has %d rows, overlap matrix has order %d", rows, n)
	}

	root, err := sqrtSym(s)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(n, cols, nil)
	out.Mul(root, coeffs)
	return out, nil
}

// OrthonormalizeAll orthonormalizes one snapshot per entry. Snapshots
// are independent, so the work is fanned out over limit goroutines
// (GOMAXPROCS when limit <= 0). The result preserves input order.
func OrthonormalizeAll(ctx context.Context, packedOverlaps [][]float64, coeffs []*mat.Dense, limit int) ([]*mat.Dense, error) {
	if len(packedOverlaps) != len(coeffs) {
		return nil, fmt.Errorf("have %d overlap vectors for %d coefficient matrices", len(packedOverlaps), len(coeffs))
	}
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	out := make([]*mat.Dense, len(coeffs))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range coeffs {
		g.Go(func() error {
			b, err := Orthonormalize(packedOverlaps[i], coeffs[i])
			if err != nil {
				return fmt.Errorf("snapshot %d: %w", i, err)
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// sqrtSym computes the symmetric square root V·diag(√λ)·Vᵀ of a
// positive-definite matrix via its eigendecomposition.
func sqrtSym(s *mat.SymDense) (*mat.Dense, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(s, true); !ok {
		return nil, &ErrNonPositiveDefiniteOverlap{Eigenvalue: math.NaN()}
	}

	vals := eig.Values(nil)
	for _, v := range vals {
		if v < eigTol {
			return nil, &ErrNonPositiveDefiniteOverlap{Eigenvalue: v}
		}
	}

	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	n := s.SymmetricDim()
	scaled := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		f := math.Sqrt(vals[j])
		for i := 0; i < n; i++ {
			scaled.Set(i, j, vecs.At(i, j)*f)
		}
	}

	root := mat.NewDense(n, n, nil)
	root.Mul(scaled, vecs.T())
	return root, nil
}
