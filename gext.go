package gext

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/quantalab/gext/basis"
	"github.com/quantalab/gext/descriptor"
	"github.com/quantalab/gext/fit"
	"github.com/quantalab/gext/manifold"
	"github.com/quantalab/gext/tensorstore"
	"github.com/quantalab/gext/tril"
)

// Snapshot is one electronic-structure snapshot of the history.
type Snapshot struct {
	// Index is the snapshot's explicit time index, zero-based and
	// contiguous within a History. Index 0 is the manifold reference.
	Index int

	// Coeffs holds the raw molecular-orbital coefficients, nbas×nocc.
	Coeffs *mat.Dense

	// Overlap is the packed lower triangle of the snapshot's overlap
	// matrix, length nbas(nbas+1)/2.
	Overlap []float64

	// Geometry is the 4×nqm atom block, row 0 nuclear charge, rows 1-3
	// Cartesian position.
	Geometry *mat.Dense
}

// History is a validated, time-ordered collection of snapshots.
//
// The last snapshot's geometry is the extrapolation target, the one no
// converged density exists for yet. Following the restart-file
// convention of the drivers this library feeds, the geometry at index j
// belongs to the converged density at index j+1, so the tangent images
// of densities 1..nmat-1 are weighted by coefficients fitted on
// geometries 0..nmat-2.
type History struct {
	snapshots []Snapshot
	nbas      int
	nocc      int
	nqm       int
}

// NewHistory validates and assembles a history. Snapshot indices must
// be contiguous from zero and all snapshots must agree on nbas, nocc
// and nqm.
func NewHistory(snapshots []Snapshot) (*History, error) {
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: history is empty", fit.ErrInsufficientHistory)
	}

	nbas, nocc := snapshots[0].Coeffs.Dims()
	_, nqm := snapshots[0].Geometry.Dims()

	for i, s := range snapshots {
		if s.Index != i {
			return nil, fmt.Errorf("snapshot at position %d carries time index %d; indices must be contiguous from 0", i, s.Index)
		}
		if r, c := s.Coeffs.Dims(); r != nbas || c != nocc {
			return nil, &ErrInputShapeMismatch{Tensor: "orbital coefficients", Dimension: fmt.Sprintf("snapshot %d", i), Expected: nbas * nocc, Actual: r * c}
		}
		if len(s.Overlap) != tril.Len(nbas) {
			return nil, &ErrInputShapeMismatch{Tensor: "packed overlap", Dimension: fmt.Sprintf("snapshot %d length", i), Expected: tril.Len(nbas), Actual: len(s.Overlap)}
		}
		if r, c := s.Geometry.Dims(); r != 4 || c != nqm {
			return nil, &ErrInputShapeMismatch{Tensor: "geometry", Dimension: fmt.Sprintf("snapshot %d atoms", i), Expected: nqm, Actual: c}
		}
	}

	return &History{snapshots: snapshots, nbas: nbas, nocc: nocc, nqm: nqm}, nil
}

// FromSource loads the three input tensors of src and assembles a
// validated History. The nmat dimension must match across all three
// tensors exactly; any mismatch is fatal before computation starts.
func FromSource(ctx context.Context, src tensorstore.DataSource) (*History, error) {
	coeffs, err := src.OrbitalCoefficients(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orbital coefficients: %w", err)
	}
	overlaps, err := src.Overlaps(ctx)
	if err != nil {
		return nil, fmt.Errorf("load overlaps: %w", err)
	}
	geometries, err := src.Geometries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load geometries: %w", err)
	}

	if r := coeffs.Rank(); r != 3 {
		return nil, &ErrInputShapeMismatch{Tensor: "orbital coefficients", Dimension: "rank", Expected: 3, Actual: r}
	}
	if r := overlaps.Rank(); r != 2 {
		return nil, &ErrInputShapeMismatch{Tensor: "packed overlap", Dimension: "rank", Expected: 2, Actual: r}
	}
	if r := geometries.Rank(); r != 3 {
		return nil, &ErrInputShapeMismatch{Tensor: "geometry", Dimension: "rank", Expected: 3, Actual: r}
	}
	if d := geometries.Dim(0); d != 4 {
		return nil, &ErrInputShapeMismatch{Tensor: "geometry", Dimension: "rows", Expected: 4, Actual: d}
	}

	nbas := coeffs.Dim(0)
	nmat := coeffs.Dim(2)
	if d := overlaps.Dim(1); d != nmat {
		return nil, &ErrInputShapeMismatch{Tensor: "packed overlap", Dimension: "nmat", Expected: nmat, Actual: d}
	}
	if d := geometries.Dim(2); d != nmat {
		return nil, &ErrInputShapeMismatch{Tensor: "geometry", Dimension: "nmat", Expected: nmat, Actual: d}
	}
	if d := overlaps.Dim(0); d != tril.Len(nbas) {
		return nil, &ErrInputShapeMismatch{Tensor: "packed overlap", Dimension: "packed length", Expected: tril.Len(nbas), Actual: d}
	}

	snapshots := make([]Snapshot, nmat)
	for k := 0; k < nmat; k++ {
		snapshots[k] = Snapshot{
			Index:    k,
			Coeffs:   coeffs.SnapshotMatrix(k),
			Overlap:  overlaps.SnapshotColumn(k),
			Geometry: geometries.SnapshotMatrix(k),
		}
	}
	return NewHistory(snapshots)
}

// Len returns the number of snapshots nmat.
func (h *History) Len() int { return len(h.snapshots) }

// NumBasis returns the basis dimension nbas.
func (h *History) NumBasis() int { return h.nbas }

// NumOccupied returns the occupied-orbital count nocc.
func (h *History) NumOccupied() int { return h.nocc }

// NumAtoms returns the atom count nqm.
func (h *History) NumAtoms() int { return h.nqm }

// Result carries the extrapolated density and fit diagnostics.
type Result struct {
	// PackedDensity is the row-major lower triangle of the guess
	// density, length nbas(nbas+1)/2. This is the restart vector.
	PackedDensity []float64

	// Density is the full symmetric guess density, idempotent up to
	// the closed-shell factor of two.
	Density *mat.SymDense

	// Coefficients are the fitted extrapolation weights, one per
	// historical snapshot.
	Coefficients []float64

	NumBasis     int
	NumOccupied  int
	NumSnapshots int
}

// Extrapolator produces initial-guess densities from snapshot
// histories. It is stateless between calls; every Guess is a pure
// function of its inputs and the configured ε.
type Extrapolator struct {
	opts options
}

// New creates an Extrapolator. Without options it uses the default
// regularization, no logging and no metrics.
func New(opt ...Option) *Extrapolator {
	o := options{
		epsilon: fit.DefaultRegularization,
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, fn := range opt {
		fn(&o)
	}
	return &Extrapolator{opts: o}
}

// Guess loads src and extrapolates the density guess for the newest
// geometry.
func (e *Extrapolator) Guess(ctx context.Context, src tensorstore.DataSource) (*Result, error) {
	start := time.Now()

	hist, err := FromSource(ctx, src)
	e.opts.metrics.RecordLoad(time.Since(start), err)
	if err != nil {
		e.opts.logger.LogLoad(ctx, 0, 0, 0, 0, err)
		return nil, err
	}
	e.opts.logger.LogLoad(ctx, hist.nbas, hist.nocc, hist.nqm, hist.Len(), nil)

	res, err := e.GuessHistory(ctx, hist)
	e.opts.metrics.RecordGuess(hist.Len(), time.Since(start), err)
	e.opts.logger.LogGuess(ctx, hist.Len(), time.Since(start), err)
	return res, err
}

// GuessHistory extrapolates the density guess for the newest geometry
// of an already-assembled history.
func (e *Extrapolator) GuessHistory(ctx context.Context, hist *History) (*Result, error) {
	nmat := hist.Len()
	if nmat < 3 {
		return nil, fmt.Errorf("%w: have %d snapshots, need a reference, history and a target geometry", fit.ErrInsufficientHistory, nmat)
	}

	overlaps := make([][]float64, nmat)
	coeffs := make([]*mat.Dense, nmat)
	for k, s := range hist.snapshots {
		overlaps[k] = s.Overlap
		coeffs[k] = s.Coeffs
	}
	bases, err := basis.OrthonormalizeAll(ctx, overlaps, coeffs, e.opts.parallelism)
	if err != nil {
		return nil, err
	}

	// Tangent images of every snapshot at the reference; the reference
	// itself maps to the zero tangent.
	tangents, err := manifold.BatchLog(ctx, bases[0], bases, e.opts.parallelism)
	if err != nil {
		return nil, err
	}

	m := nmat - 1
	hists := make([][]float64, m)
	for j := 0; j < m; j++ {
		d, err := descriptor.Coulomb(hist.snapshots[j].Geometry)
		if err != nil {
			return nil, fmt.Errorf("geometry %d: %w", j, err)
		}
		hists[j] = d
	}
	target, err := descriptor.Coulomb(hist.snapshots[m].Geometry)
	if err != nil {
		return nil, fmt.Errorf("target geometry: %w", err)
	}

	alpha, err := fit.Solve(hists, target, e.opts.epsilon)
	if err != nil {
		return nil, err
	}

	// Geometry j pairs with the converged density j+1, so coefficient
	// j weights tangent j+1.
	guess := mat.NewDense(hist.nbas, hist.nocc, nil)
	var scaled mat.Dense
	for j, a := range alpha {
		scaled.Scale(a, tangents[j+1])
		guess.Add(guess, &scaled)
	}

	b, err := manifold.Exp(bases[0], guess)
	if err != nil {
		return nil, err
	}

	density := reconstructDensity(b)
	return &Result{
		PackedDensity: tril.Pack(density),
		Density:       density,
		Coefficients:  alpha,
		NumBasis:      hist.nbas,
		NumOccupied:   hist.nocc,
		NumSnapshots:  nmat,
	}, nil
}

// reconstructDensity builds the closed-shell density P = 2·B·Bᵀ of an
// orthonormal occupied basis B.
func reconstructDensity(b *mat.Dense) *mat.SymDense {
	nbas, _ := b.Dims()
	var p mat.Dense
	p.Mul(b, b.T())

	density := mat.NewSymDense(nbas, nil)
	for i := 0; i < nbas; i++ {
		for j := 0; j <= i; j++ {
			density.SetSym(i, j, p.At(i, j)+p.At(j, i))
		}
	}
	return density
}
