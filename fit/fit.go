// Package fit solves the regularized least-squares problem that turns
// geometry similarity into extrapolation coefficients.
//
// Given m historical descriptors and one target descriptor, it finds
// weights α such that α applied to the historical rows best reproduces
// the target. A Tikhonov block ε·I appended to the design matrix keeps
// the solve stable when consecutive geometries barely move and the
// descriptor rows become near-collinear; that case is mitigated here,
// never surfaced as an error.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultRegularization is the default Tikhonov scale ε. ε → 0 recovers
// the plain least-squares fit, ε → ∞ drives all coefficients to zero.
const DefaultRegularization = 1e-5

var (
	// ErrInsufficientHistory is returned when no historical descriptor
	// is available: the design matrix would have zero rows.
	ErrInsufficientHistory = errors.New("at least one historical descriptor is required")

	// ErrExtrapolationSingular is returned when the regularized system
	// has no usable singular direction, e.g. for all-zero descriptors
	// with ε = 0.
	ErrExtrapolationSingular = errors.New("regularized descriptor system is numerically singular")
)

// ErrDescriptorLengthMismatch indicates descriptors of unequal length,
// which signals an inconsistent atom count across snapshots.
type ErrDescriptorLengthMismatch struct {
	Row      int
	Expected int
	Actual   int
}

func (e *ErrDescriptorLengthMismatch) Error() string {
	return fmt.Sprintf("descriptor %d has length %d, expected %d (inconsistent atom count across snapshots)", e.Row, e.Actual, e.Expected)
}

// Solve computes extrapolation coefficients for the target descriptor
// against the historical descriptors.
//
// It builds the augmented system A = [P | ε·I] with one historical
// descriptor per row of P and the augmented target t = [target | 0…0],
// then returns the minimal-norm least-squares solution of α·A = t,
// computed as α = t·V·Σ⁺·Uᵀ from the thin SVD A = U·Σ·Vᵀ. The explicit
// SVD solve keeps the rank decision visible instead of hiding it in a
// generic pseudo-inverse.
func Solve(history [][]float64, target []float64, epsilon float64) ([]float64, error) {
	m := len(history)
	if m == 0 {
		return nil, ErrInsufficientHistory
	}

	d := len(target)
	for i, h := range history {
		if len(h) != d {
			return nil, &ErrDescriptorLengthMismatch{Row: i, Expected: d, Actual: len(h)}
		}
	}

	cols := d + m
	a := mat.NewDense(m, cols, nil)
	for i, h := range history {
		for j, x := range h {
			a.Set(i, j, x)
		}
		a.Set(i, d+i, epsilon)
	}

	t := make([]float64, cols)
	copy(t, target)

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrExtrapolationSingular
	}
	var u, v mat.Dense
	svd.UTo(&u) // m×m
	svd.VTo(&v) // cols×m
	sig := svd.Values(nil)

	cut := rankCutoff(sig, m, cols)
	rank := 0
	for _, s := range sig {
		if s > cut {
			rank++
		}
	}
	if rank == 0 {
		return nil, ErrExtrapolationSingular
	}

	alpha := make([]float64, m)
	col := make([]float64, cols)
	ucol := make([]float64, m)
	for k, s := range sig {
		if s <= cut {
			continue
		}
		mat.Col(col, k, &v)
		mat.Col(ucol, k, &u)
		floats.AddScaled(alpha, floats.Dot(t, col)/s, ucol)
	}
	return alpha, nil
}

// rankCutoff is the usual max(m, n)·ulp·σ₁ numerical-rank threshold.
func rankCutoff(sig []float64, r, c int) float64 {
	if len(sig) == 0 {
		return 0
	}
	n := r
	if c > n {
		n = c
	}
	ulp := math.Nextafter(1, 2) - 1
	return float64(n) * ulp * sig[0]
}
