package gext_test

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/quantalab/gext"
	"github.com/quantalab/gext/tensorstore"
)

// Example extrapolates the density guess for a minimal two-basis,
// one-electron-pair system whose occupied orbital rotates slightly
// between snapshots.
func Example() {
	const nmat = 3

	coeffs := tensorstore.NewTensor(2, 1, nmat)
	overlaps := tensorstore.NewTensor(3, nmat)
	geoms := tensorstore.NewTensor(4, 2, nmat)

	for k := 0; k < nmat; k++ {
		a := 0.1 * float64(k)
		coeffs.Set(math.Cos(a), 0, 0, k)
		coeffs.Set(math.Sin(a), 1, 0, k)

		overlaps.Set(1, 0, k) // identity overlap, packed
		overlaps.Set(1, 2, k)

		geoms.Set(1, 0, 0, k) // two unit charges on the x axis
		geoms.Set(1, 0, 1, k)
		geoms.Set(1+0.05*float64(k), 1, 1, k)
	}

	ext := gext.New(gext.WithRegularization(1e-5))
	res, err := ext.Guess(context.Background(), tensorstore.NewMemorySource(coeffs, overlaps, geoms))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(len(res.PackedDensity))
	fmt.Println(len(res.Coefficients))
	// Output:
	// 3
	// 2
}
