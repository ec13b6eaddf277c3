// Package gext extrapolates initial-guess density matrices for
// self-consistent-field (SCF) calculations from a short history of
// previously converged densities and their molecular geometries.
//
// A converged closed-shell density is determined by its occupied
// orbital subspace, a point on the Grassmann manifold Gr(nbas, nocc).
// Naive linear combination of density matrices leaves the manifold and
// breaks the idempotency constraint a physical density must satisfy.
// gext instead works in a locally linear chart: every historical
// density is mapped into the tangent space at the first snapshot
// (manifold logarithm), combination coefficients are fitted from
// Coulomb-matrix geometry fingerprints with a Tikhonov-regularized
// least-squares solve, the tangent images are combined linearly, and
// the result is retracted back onto the manifold (manifold
// exponential). The retracted basis reconstructs a density that is
// idempotent up to the closed-shell factor of two.
//
// # Quick Start
//
//	ctx := context.Background()
//	src := tensorstore.NewFileSource("./restart")
//
//	ext := gext.New(gext.WithRegularization(1e-5))
//	res, err := ext.Guess(ctx, src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	f, _ := os.Create("density.dat")
//	defer f.Close()
//	_ = tensorstore.WriteVector(f, res.PackedDensity, tensorstore.DefaultFormatPolicy)
//
// Synthetic tensors can be injected through tensorstore.MemorySource,
// which keeps the whole pipeline deterministic and storage-free for
// testing.
//
// # Input Contract
//
// A DataSource must deliver nmat snapshots as three tensors: orbital
// coefficients nbas×nocc×nmat, packed overlaps nbas(nbas+1)/2×nmat and
// geometries 4×nqm×nmat. Snapshot 0 is the manifold reference, the
// last geometry is the extrapolation target. Atom ordering must be
// consistent across snapshots. Spin-unrestricted densities are not
// supported; a single occupied block with the factor-of-two convention
// is assumed.
//
// The pipeline runs start-to-finish on in-memory tensors and ends with
// either a restart vector or a fatal error. Every failure reflects a
// structural input problem or a genuine mathematical singularity, so
// nothing is retried.
package gext
