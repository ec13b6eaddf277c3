// Package descriptor builds Coulomb-matrix fingerprints of molecular
// geometries.
//
// The Coulomb matrix encodes pairwise nuclear charge/distance
// interactions into a fixed-length vector. Geometries that are close in
// configuration space produce close fingerprints, which is the
// similarity assumption the extrapolation coefficients are fitted on.
// Atom ordering must be consistent across snapshots; no permutation
// matching is performed.
package descriptor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/quantalab/gext/tril"
)

// chargeExponent is the empirical exponent of the Coulomb-matrix
// diagonal term 0.5·z^2.4 (Rupp et al.).
const chargeExponent = 2.4

// ErrDegenerateAtomPositions indicates two distinct atoms at the same
// position, which would put a zero denominator in the off-diagonal
// Coulomb term.
type ErrDegenerateAtomPositions struct {
	I, J int
}

func (e *ErrDegenerateAtomPositions) Error() string {
	return fmt.Sprintf("atoms %d and %d share the same position", e.I, e.J)
}

// Matrix builds the nqm×nqm Coulomb-interaction matrix of a 4×nqm
// geometry block (row 0 nuclear charge, rows 1-3 Cartesian position):
// diagonal 0.5·zᵢ^2.4, off-diagonal zᵢ·zⱼ/‖rᵢ−rⱼ‖.
func Matrix(geometry mat.Matrix) (*mat.SymDense, error) {
	rows, nqm := geometry.Dims()
	if rows != 4 {
		return nil, fmt.Errorf("geometry block must have 4 rows, got %d", rows)
	}

	g := mat.NewSymDense(nqm, nil)
	for i := 0; i < nqm; i++ {
		zi := geometry.At(0, i)
		g.SetSym(i, i, 0.5*math.Pow(zi, chargeExponent))
		for j := 0; j < i; j++ {
			dx := geometry.At(1, i) - geometry.At(1, j)
			dy := geometry.At(2, i) - geometry.At(2, j)
			dz := geometry.At(3, i) - geometry.At(3, j)
			r := math.Sqrt(dx*dx + dy*dy + dz*dz)
			if r == 0 {
				return nil, &ErrDegenerateAtomPositions{I: j, J: i}
			}
			g.SetSym(i, j, zi*geometry.At(0, j)/r)
		}
	}
	return g, nil
}

// Coulomb returns the packed lower triangle of Matrix(geometry), a
// vector of length nqm(nqm+1)/2.
func Coulomb(geometry mat.Matrix) ([]float64, error) {
	g, err := Matrix(geometry)
	if err != nil {
		return nil, err
	}
	return tril.Pack(g), nil
}
