// Package testutil provides deterministic generators for pipeline
// tests: a seeded RNG plus random orthonormal bases and molecular
// geometries.
package testutil

import (
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// RandomOrthonormal returns an nbas×nocc matrix with orthonormal
// columns, the orthogonal factor of the QR factorization of a random
// matrix. Requires nbas >= nocc.
func (r *RNG) RandomOrthonormal(nbas, nocc int) *mat.Dense {
	if nocc > nbas {
		panic("testutil: nocc must not exceed nbas")
	}

	data := make([]float64, nbas*nocc)
	r.FillUniform(data)
	for i := range data {
		data[i] -= 0.5
	}

	var qr mat.QR
	qr.Factorize(mat.NewDense(nbas, nocc, data))
	var q mat.Dense
	qr.QTo(&q)
	return mat.DenseCopyOf(q.Slice(0, nbas, 0, nocc))
}

// RandomGeometry returns a 4×nqm geometry block with small integer
// charges and well-separated jittered positions along a line.
func (r *RNG) RandomGeometry(nqm int) *mat.Dense {
	g := mat.NewDense(4, nqm, nil)
	for i := 0; i < nqm; i++ {
		g.Set(0, i, float64(1+r.intn(8)))
		g.Set(1, i, 2.5*float64(i)+0.5*r.Float64())
		g.Set(2, i, 0.5*r.Float64())
		g.Set(3, i, 0.5*r.Float64())
	}
	return g
}

// PerturbGeometry returns a copy of geometry with every coordinate
// displaced by at most scale/2. Charges are left untouched.
func (r *RNG) PerturbGeometry(geometry *mat.Dense, scale float64) *mat.Dense {
	out := mat.DenseCopyOf(geometry)
	_, nqm := out.Dims()
	for i := 0; i < nqm; i++ {
		for row := 1; row < 4; row++ {
			out.Set(row, i, out.At(row, i)+scale*(r.Float64()-0.5))
		}
	}
	return out
}

func (r *RNG) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}
