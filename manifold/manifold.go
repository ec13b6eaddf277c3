// Package manifold implements the Grassmannian chart used to move
// occupied-orbital subspaces in and out of a flat tangent space.
//
// A point on the Grassmann manifold Gr(nbas, nocc) is represented by an
// nbas×nocc matrix with orthonormal columns; two representatives that
// differ by a right orthogonal factor describe the same point. Log maps
// a point into the tangent space at a reference point, where linear
// combination is valid, and Exp retracts a tangent vector back onto the
// manifold. Both are built on principal-angle (SVD) decompositions.
package manifold

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// ErrSingularSubspaceOverlap indicates that the subspace overlap matrix
// between a point and the reference is numerically singular. The two
// subspaces sit at the chart's cut locus (antipodal or linearly
// dependent representatives) and no tangent image exists.
type ErrSingularSubspaceOverlap struct {
	cause error
}

func (e *ErrSingularSubspaceOverlap) Error() string {
	return fmt.Sprintf("subspace overlap matrix is singular: %v", e.cause)
}

func (e *ErrSingularSubspaceOverlap) Unwrap() error { return e.cause }

// Log maps point into the tangent space at ref.
//
// With Z = pointᵀ·ref, it solves Z·W = pointᵀ − Z·refᵀ and returns
// V·atan(Σ)·Uᵀ from the thin SVD W = U·Σ·Vᵀ, applying the principal
// angles atan(Σ) elementwise on the diagonal.
func Log(ref, point *mat.Dense) (*mat.Dense, error) {
	nbas, nocc := ref.Dims()
	if pr, pc := point.Dims(); pr != nbas || pc != nocc {
		return nil, fmt.Errorf("point is %d×%d, reference is %d×%d", pr, pc, nbas, nocc)
	}

	var z mat.Dense
	z.Mul(point.T(), ref)

	var zr mat.Dense
	zr.Mul(&z, ref.T())
	var rhs mat.Dense
	rhs.Sub(point.T(), &zr)

	var w mat.Dense
	if err := w.Solve(&z, &rhs); err != nil {
		return nil, &ErrSingularSubspaceOverlap{cause: err}
	}

	var svd mat.SVD
	if ok := svd.Factorize(&w, mat.SVDThin); !ok {
		return nil, &ErrSingularSubspaceOverlap{cause: errors.New("SVD did not converge")}
	}
	var u, v mat.Dense
	svd.UTo(&u) // nocc×nocc
	svd.VTo(&v) // nbas×nocc
	sig := svd.Values(nil)

	// V·atan(Σ) column by column, then multiply by Uᵀ.
	scaled := mat.NewDense(nbas, nocc, nil)
	for j := range sig {
		a := math.Atan(sig[j])
		for i := 0; i < nbas; i++ {
			scaled.Set(i, j, v.At(i, j)*a)
		}
	}

	tangent := mat.NewDense(nbas, nocc, nil)
	tangent.Mul(scaled, u.T())
	return tangent, nil
}

// Exp retracts the tangent vector at ref back onto the manifold.
//
// From the thin SVD tangent = U·Σ·Vᵀ it forms
// Y = ref·V·cos(Σ) + U·sin(Σ) and returns the orthogonal factor of Y's
// QR factorization. The QR step cancels accumulated floating-point
// drift; it does not change the spanned subspace.
func Exp(ref, tangent *mat.Dense) (*mat.Dense, error) {
	nbas, nocc := ref.Dims()
	if tr, tc := tangent.Dims(); tr != nbas || tc != nocc {
		return nil, fmt.Errorf("tangent is %d×%d, reference is %d×%d", tr, tc, nbas, nocc)
	}

	var svd mat.SVD
	if ok := svd.Factorize(tangent, mat.SVDThin); !ok {
		return nil, errors.New("tangent SVD did not converge")
	}
	var u, v mat.Dense
	svd.UTo(&u) // nbas×nocc
	svd.VTo(&v) // nocc×nocc
	sig := svd.Values(nil)

	var rv mat.Dense
	rv.Mul(ref, &v)

	y := mat.NewDense(nbas, nocc, nil)
	for j := range sig {
		c, s := math.Cos(sig[j]), math.Sin(sig[j])
		for i := 0; i < nbas; i++ {
			y.Set(i, j, rv.At(i, j)*c+u.At(i, j)*s)
		}
	}

	var qr mat.QR
	qr.Factorize(y)
	var q mat.Dense
	qr.QTo(&q)
	return mat.DenseCopyOf(q.Slice(0, nbas, 0, nocc)), nil
}

// BatchLog maps every point into the tangent space at ref. Points are
// independent of one another, so the maps are computed concurrently
// over limit goroutines (GOMAXPROCS when limit <= 0). The result
// preserves input order. All dimensions are derived from ref and
// points themselves.
func BatchLog(ctx context.Context, ref *mat.Dense, points []*mat.Dense, limit int) ([]*mat.Dense, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	out := make([]*mat.Dense, len(points))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range points {
		g.Go(func() error {
			tangent, err := Log(ref, points[i])
			if err != nil {
				return fmt.Errorf("snapshot %d: %w", i, err)
			}
			out[i] = tangent
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
