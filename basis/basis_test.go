package basis

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/quantalab/gext/testutil"
	"github.com/quantalab/gext/tril"
)

func TestOrthonormalizeIdentityOverlap(t *testing.T) {
	// With S = I the square root is the identity and the coefficients
	// pass through unchanged.
	coeffs := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		0, 0,
	})
	packed := []float64{1, 0, 1, 0, 0, 1}

	got, err := Orthonormalize(packed, coeffs)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(coeffs, got, 1e-12))
}

func TestOrthonormalizeDiagonalOverlap(t *testing.T) {
	// S = diag(4, 9) has the exact square root diag(2, 3).
	packed := []float64{4, 0, 9}
	coeffs := mat.NewDense(2, 1, []float64{0.5, 1.0 / 3.0})

	got, err := Orthonormalize(packed, coeffs)
	require.NoError(t, err)
	assert.InDelta(t, 1, got.At(0, 0), 1e-12)
	assert.InDelta(t, 1, got.At(1, 0), 1e-12)
}

func TestOrthonormalizeProducesOrthonormalColumns(t *testing.T) {
	const (
		nbas = 6
		nocc = 3
	)
	rng := testutil.NewRNG(42)

	// For a diagonal overlap S = D², the S-orthonormal coefficients
	// D⁻¹·Q map back to the orthonormal Q.
	q := rng.RandomOrthonormal(nbas, nocc)

	d := make([]float64, nbas)
	s := mat.NewSymDense(nbas, nil)
	coeffs := mat.NewDense(nbas, nocc, nil)
	for i := 0; i < nbas; i++ {
		d[i] = 1 + rng.Float64()
		s.SetSym(i, i, d[i]*d[i])
		for j := 0; j < nocc; j++ {
			coeffs.Set(i, j, q.At(i, j)/d[i])
		}
	}

	got, err := Orthonormalize(tril.Pack(s), coeffs)
	require.NoError(t, err)

	var gram mat.Dense
	gram.Mul(got.T(), got)
	for i := 0; i < nocc; i++ {
		for j := 0; j < nocc; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, gram.At(i, j), 1e-10, "CᵗC must be the identity")
		}
	}
}

func TestOrthonormalizeNonPositiveDefinite(t *testing.T) {
	// [[1, 2], [2, 1]] has eigenvalues 3 and -1.
	packed := []float64{1, 2, 1}
	coeffs := mat.NewDense(2, 1, []float64{1, 0})

	_, err := Orthonormalize(packed, coeffs)
	var npd *ErrNonPositiveDefiniteOverlap
	require.ErrorAs(t, err, &npd)
	assert.True(t, npd.Eigenvalue < 0 || math.IsNaN(npd.Eigenvalue))
}

func TestOrthonormalizeInvalidPackedLength(t *testing.T) {
	coeffs := mat.NewDense(2, 1, []float64{1, 0})

	_, err := Orthonormalize(make([]float64, 5), coeffs)
	var invalid *tril.ErrInvalidPackedLength
	require.ErrorAs(t, err, &invalid)
}

func TestOrthonormalizeShapeMismatch(t *testing.T) {
	// Overlap of order 2 against a 3-row coefficient matrix.
	_, err := Orthonormalize([]float64{1, 0, 1}, mat.NewDense(3, 1, []float64{1, 0, 0}))
	require.Error(t, err)
}

func TestOrthonormalizeAll(t *testing.T) {
	const (
		nbas = 4
		nocc = 2
		nmat = 5
	)
	rng := testutil.NewRNG(7)

	overlaps := make([][]float64, nmat)
	coeffs := make([]*mat.Dense, nmat)
	identity := mat.NewSymDense(nbas, nil)
	for i := 0; i < nbas; i++ {
		identity.SetSym(i, i, 1)
	}
	for k := 0; k < nmat; k++ {
		overlaps[k] = tril.Pack(identity)
		coeffs[k] = rng.RandomOrthonormal(nbas, nocc)
	}

	got, err := OrthonormalizeAll(context.Background(), overlaps, coeffs, 2)
	require.NoError(t, err)
	require.Len(t, got, nmat)
	for k := 0; k < nmat; k++ {
		assert.True(t, mat.EqualApprox(coeffs[k], got[k], 1e-12), "snapshot %d", k)
	}
}

func TestOrthonormalizeAllPropagatesError(t *testing.T) {
	overlaps := [][]float64{{1, 0, 1}, {1, 2, 1}} // second is indefinite
	coeffs := []*mat.Dense{
		mat.NewDense(2, 1, []float64{1, 0}),
		mat.NewDense(2, 1, []float64{1, 0}),
	}

	_, err := OrthonormalizeAll(context.Background(), overlaps, coeffs, 0)
	var npd *ErrNonPositiveDefiniteOverlap
	require.ErrorAs(t, err, &npd)
}
