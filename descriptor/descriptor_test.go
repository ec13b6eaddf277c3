package descriptor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/quantalab/gext/testutil"
	"github.com/quantalab/gext/tril"
)

func TestMatrixTwoAtoms(t *testing.T) {
	// H and O separated by 2 along x.
	geometry := mat.NewDense(4, 2, []float64{
		1, 8,
		0, 2,
		0, 0,
		0, 0,
	})

	g, err := Matrix(geometry)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, g.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5*math.Pow(8, 2.4), g.At(1, 1), 1e-12)
	assert.InDelta(t, 4, g.At(0, 1), 1e-12) // 1·8/2
	assert.Equal(t, g.At(0, 1), g.At(1, 0))
}

func TestCoulombPackedLayout(t *testing.T) {
	geometry := mat.NewDense(4, 2, []float64{
		1, 8,
		0, 2,
		0, 0,
		0, 0,
	})

	v, err := Coulomb(geometry)
	require.NoError(t, err)
	require.Len(t, v, tril.Len(2))

	assert.InDelta(t, 0.5, v[0], 1e-12)
	assert.InDelta(t, 4, v[1], 1e-12)
	assert.InDelta(t, 0.5*math.Pow(8, 2.4), v[2], 1e-12)
}

func TestMatrixDiagonal(t *testing.T) {
	rng := testutil.NewRNG(11)
	geometry := rng.RandomGeometry(5)

	g, err := Matrix(geometry)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		z := geometry.At(0, i)
		assert.InDelta(t, 0.5*math.Pow(z, 2.4), g.At(i, i), 1e-12, "atom %d", i)
	}
}

func TestMatrixDegeneratePositions(t *testing.T) {
	geometry := mat.NewDense(4, 3, []float64{
		1, 1, 1,
		0, 1, 1,
		0, 0, 0,
		0, 0, 0,
	})

	_, err := Matrix(geometry)
	var degenerate *ErrDegenerateAtomPositions
	require.ErrorAs(t, err, &degenerate)
	assert.Equal(t, 1, degenerate.I)
	assert.Equal(t, 2, degenerate.J)
}

func TestMatrixBadRowCount(t *testing.T) {
	_, err := Matrix(mat.NewDense(3, 2, nil))
	require.Error(t, err)
}
